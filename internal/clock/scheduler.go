// Package clock provides a virtual timer queue for frame-driven animation.
package clock

import (
	"sort"
	"time"
)

// TimerID identifies a scheduled callback.
type TimerID uint64

// Clock schedules callbacks against elapsed virtual time.
type Clock interface {
	Now() time.Duration
	After(d time.Duration, fn func()) TimerID
	Every(d time.Duration, fn func()) TimerID
	Cancel(id TimerID) bool
}

type timer struct {
	id    TimerID
	seq   uint64
	due   time.Duration
	every time.Duration
	fn    func()
}

// Scheduler is a single-threaded Clock. Time only moves when Advance is called,
// and callbacks run synchronously inside Advance.
type Scheduler struct {
	now    time.Duration
	nextID TimerID
	seq    uint64
	queue  []*timer
	byID   map[TimerID]*timer
}

// NewScheduler returns a Scheduler at time zero.
func NewScheduler() *Scheduler {
	return &Scheduler{byID: map[TimerID]*timer{}}
}

// Now returns the elapsed virtual time.
func (s *Scheduler) Now() time.Duration {
	return s.now
}

// After runs fn once, d after the current time.
func (s *Scheduler) After(d time.Duration, fn func()) TimerID {
	if d < 0 {
		d = 0
	}
	return s.add(s.now+d, 0, fn)
}

// Every runs fn each d until cancelled. Intervals below a millisecond are
// rounded up to one.
func (s *Scheduler) Every(d time.Duration, fn func()) TimerID {
	if d < time.Millisecond {
		d = time.Millisecond
	}
	return s.add(s.now+d, d, fn)
}

// Cancel removes a pending timer. It reports whether the timer was pending.
func (s *Scheduler) Cancel(id TimerID) bool {
	t, ok := s.byID[id]
	if !ok {
		return false
	}
	delete(s.byID, id)
	for i, q := range s.queue {
		if q == t {
			s.queue = append(s.queue[:i], s.queue[i+1:]...)
			break
		}
	}
	return true
}

// Pending returns the number of scheduled timers.
func (s *Scheduler) Pending() int {
	return len(s.byID)
}

// Advance moves time forward by d, firing every timer that falls due in
// order of due time, then scheduling order. Callbacks may schedule or cancel
// timers, including ones that fall due within the same advance.
func (s *Scheduler) Advance(d time.Duration) {
	if d < 0 {
		d = 0
	}
	target := s.now + d
	for len(s.queue) > 0 && s.queue[0].due <= target {
		t := s.queue[0]
		s.queue = s.queue[1:]
		s.now = t.due
		if t.every > 0 {
			t.due += t.every
			s.insert(t)
		} else {
			delete(s.byID, t.id)
		}
		t.fn()
	}
	s.now = target
}

func (s *Scheduler) add(due, every time.Duration, fn func()) TimerID {
	s.nextID++
	t := &timer{id: s.nextID, due: due, every: every, fn: fn}
	s.byID[t.id] = t
	s.insert(t)
	return t.id
}

func (s *Scheduler) insert(t *timer) {
	s.seq++
	t.seq = s.seq
	idx := sort.Search(len(s.queue), func(i int) bool {
		q := s.queue[i]
		if q.due == t.due {
			return q.seq > t.seq
		}
		return q.due > t.due
	})
	s.queue = append(s.queue, nil)
	copy(s.queue[idx+1:], s.queue[idx:])
	s.queue[idx] = t
}
