// Package intro drives the timed intro reveal that precedes the main view.
package intro

import (
	"fmt"
	"math/rand"
	"strconv"
	"time"

	"github.com/verte-zerg/datafolio/internal/clock"
	"github.com/verte-zerg/datafolio/internal/view"
)

// State is a phase of the intro sequence.
type State int

const (
	Idle State = iota
	Revealing
	Loading
	Finishing
	Done
)

func (s State) String() string {
	switch s {
	case Idle:
		return "idle"
	case Revealing:
		return "revealing"
	case Loading:
		return "loading"
	case Finishing:
		return "finishing"
	case Done:
		return "done"
	default:
		return "state(" + strconv.Itoa(int(s)) + ")"
	}
}

// Timing holds the durations and probabilities of the sequence.
type Timing struct {
	CharInterval    time.Duration
	RevealOffset    time.Duration
	TickInterval    time.Duration
	MaxStep         int
	ProgressCap     int
	GlitchChance    float64
	GlitchMin       time.Duration
	GlitchSpread    time.Duration
	FlickerChance   float64
	FlickerDuration time.Duration
	FinishAfter     time.Duration
	FinalGlitch     time.Duration
	HideAfter       time.Duration
	FadeDuration    time.Duration
}

// DefaultTiming returns the page's intro timing.
func DefaultTiming() Timing {
	return Timing{
		CharInterval:    120 * time.Millisecond,
		RevealOffset:    200 * time.Millisecond,
		TickInterval:    90 * time.Millisecond,
		MaxStep:         3,
		ProgressCap:     98,
		GlitchChance:    0.18,
		GlitchMin:       250 * time.Millisecond,
		GlitchSpread:    300 * time.Millisecond,
		FlickerChance:   0.25,
		FlickerDuration: 500 * time.Millisecond,
		FinishAfter:     2400 * time.Millisecond,
		FinalGlitch:     600 * time.Millisecond,
		HideAfter:       700 * time.Millisecond,
		FadeDuration:    600 * time.Millisecond,
	}
}

// Total is the time from Start to Done.
func (t Timing) Total() time.Duration {
	return t.FinishAfter + t.HideAfter + t.FadeDuration
}

// Sequencer owns the intro progress and the intro elements until Done.
type Sequencer struct {
	clk    clock.Clock
	doc    *view.Document
	rnd    *rand.Rand
	timing Timing

	state    State
	progress int
	tickID   clock.TimerID
	onDone   func()
}

// New returns an idle sequencer.
func New(clk clock.Clock, doc *view.Document, rnd *rand.Rand, timing Timing) *Sequencer {
	if rnd == nil {
		rnd = rand.New(rand.NewSource(time.Now().UnixNano()))
	}
	return &Sequencer{clk: clk, doc: doc, rnd: rnd, timing: timing}
}

// OnDone registers the hand-off run once the main content is shown.
func (s *Sequencer) OnDone(fn func()) {
	s.onDone = fn
}

// State returns the current phase.
func (s *Sequencer) State() State {
	return s.state
}

// Progress returns the loading percentage.
func (s *Sequencer) Progress() int {
	return s.progress
}

// Start schedules the whole sequence. Calling it twice has no effect.
func (s *Sequencer) Start() {
	if s.state != Idle {
		return
	}
	s.state = Revealing
	s.doc.ByID(view.IntroWrap).AddClass(view.ClassPulse)
	s.reveal()
	s.setProgress(0)
	s.tickID = s.clk.Every(s.timing.TickInterval, s.tick)
	s.clk.After(s.timing.FinishAfter, s.finish)
}

func (s *Sequencer) reveal() {
	prompt := s.doc.ByID(view.IntroPrompt)
	text := prompt.Attr("data-text")
	if text == "" {
		text = prompt.Text
	}
	prompt.Clear()
	for idx, ch := range []rune(text) {
		span := view.NewElement("")
		span.Text = string(ch)
		span.SetStyle(view.StyleOpacity, "0")
		prompt.Append(span)
		delay := s.timing.CharInterval*time.Duration(idx) + s.timing.RevealOffset
		s.clk.After(delay, func() { span.SetStyle(view.StyleOpacity, "1") })
	}
}

func (s *Sequencer) tick() {
	if s.state == Revealing {
		s.state = Loading
	}
	next := s.progress + 1 + s.rnd.Intn(s.timing.MaxStep)
	if next > s.timing.ProgressCap {
		next = s.timing.ProgressCap
	}
	s.setProgress(next)
	if s.rnd.Float64() < s.timing.GlitchChance {
		s.glitch()
	}
}

func (s *Sequencer) glitch() {
	prompt := s.doc.ByID(view.IntroPrompt)
	prompt.AddClass(view.ClassAnimate)
	hold := s.timing.GlitchMin
	if s.timing.GlitchSpread > 0 {
		hold += time.Duration(s.rnd.Int63n(int64(s.timing.GlitchSpread)))
	}
	s.clk.After(hold, func() { prompt.RemoveClass(view.ClassAnimate) })
	if s.rnd.Float64() < s.timing.FlickerChance {
		prompt.AddClass(view.ClassFlicker)
		s.clk.After(s.timing.FlickerDuration, func() { prompt.RemoveClass(view.ClassFlicker) })
	}
}

func (s *Sequencer) finish() {
	s.clk.Cancel(s.tickID)
	s.state = Finishing
	s.setProgress(100)
	prompt := s.doc.ByID(view.IntroPrompt)
	prompt.AddClass(view.ClassAnimate)
	s.clk.After(s.timing.FinalGlitch, func() { prompt.RemoveClass(view.ClassAnimate) })
	s.clk.After(s.timing.HideAfter, s.fadeOut)
}

func (s *Sequencer) fadeOut() {
	wrap := s.doc.ByID(view.IntroWrap)
	wrap.SetStyle(view.StyleTransition, fmt.Sprintf("opacity %s, transform %s", s.timing.FadeDuration, s.timing.FadeDuration))
	wrap.SetStyle(view.StyleOpacity, "0")
	wrap.SetStyle(view.StyleTransform, "scale(.98) translateY(-8px)")
	s.clk.After(s.timing.FadeDuration, s.complete)
}

func (s *Sequencer) complete() {
	s.doc.ByID(view.IntroWrap).SetStyle(view.StyleDisplay, "none")
	s.doc.ByID(view.MainContent).RemoveClass(view.ClassHidden)
	if sections := s.doc.Sections(); len(sections) > 0 {
		sections[0].AddClass(view.ClassHidden)
	}
	s.state = Done
	if s.onDone != nil {
		s.onDone()
	}
}

func (s *Sequencer) setProgress(p int) {
	s.progress = p
	s.doc.ByID(view.LoadingProgress).SetStyle(view.StyleWidth, strconv.Itoa(p)+"%")
}
