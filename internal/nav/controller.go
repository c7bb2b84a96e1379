// Package nav maps navigation targets to the visible section.
package nav

import (
	"errors"
	"fmt"

	"github.com/verte-zerg/datafolio/internal/view"
)

// ErrUnknownTarget is returned for targets that match no section.
var ErrUnknownTarget = errors.New("unknown navigation target")

// Kind is the coarse view the page is in.
type Kind int

const (
	Intro Kind = iota
	Home
	Section
)

// ViewState is the current view. Section is set only for Kind Section.
type ViewState struct {
	Kind    Kind
	Section string
}

func (v ViewState) String() string {
	switch v.Kind {
	case Intro:
		return "intro"
	case Home:
		return "home"
	default:
		return "section(" + v.Section + ")"
	}
}

// Controller owns the view state once the intro has handed off.
type Controller struct {
	doc   *view.Document
	state ViewState
}

// New returns a controller in the Intro state.
func New(doc *view.Document) *Controller {
	return &Controller{doc: doc}
}

// State returns the current view state.
func (c *Controller) State() ViewState {
	return c.state
}

// Handoff moves from Intro to Home once the intro sequence completes.
func (c *Controller) Handoff() {
	if c.state.Kind == Intro {
		c.state = ViewState{Kind: Home}
	}
}

// Targets returns home followed by every section id in document order.
func (c *Controller) Targets() []string {
	sections := c.doc.Sections()
	out := make([]string, 0, len(sections)+1)
	out = append(out, view.HomeTarget)
	for _, s := range sections {
		out = append(out, s.ID)
	}
	return out
}

// Activate shows the target. "home" hides the main content, deactivates every
// section and restores the intro view at rest; any other target becomes the
// single active section of a visible main view.
func (c *Controller) Activate(target string) error {
	if target == view.HomeTarget {
		c.goHome()
		return nil
	}
	if !c.isSection(target) {
		return fmt.Errorf("%w: %q", ErrUnknownTarget, target)
	}
	c.doc.ByID(view.MainContent).RemoveClass(view.ClassHidden)
	c.doc.ByID(view.IntroWrap).SetStyle(view.StyleDisplay, "none")
	for _, section := range c.doc.Sections() {
		if section.ID == target {
			section.RemoveClass(view.ClassHidden)
			section.AddClass(view.ClassActive)
			section.ScrollTop = 0
			c.doc.ScrollIntoView(section.ID)
			continue
		}
		section.AddClass(view.ClassHidden)
		section.RemoveClass(view.ClassActive)
	}
	c.state = ViewState{Kind: Section, Section: target}
	return nil
}

// Step activates the section delta positions away from the current one,
// wrapping around. From Home it starts at the first section.
func (c *Controller) Step(delta int) error {
	sections := c.doc.Sections()
	if len(sections) == 0 {
		return nil
	}
	idx := -1
	if c.state.Kind == Section {
		for i, s := range sections {
			if s.ID == c.state.Section {
				idx = i
				break
			}
		}
	}
	var next int
	if idx < 0 {
		if delta < 0 {
			next = len(sections) - 1
		}
	} else {
		next = ((idx+delta)%len(sections) + len(sections)) % len(sections)
	}
	return c.Activate(sections[next].ID)
}

func (c *Controller) goHome() {
	c.doc.ByID(view.MainContent).AddClass(view.ClassHidden)
	for _, section := range c.doc.Sections() {
		section.AddClass(view.ClassHidden)
		section.RemoveClass(view.ClassActive)
	}
	wrap := c.doc.ByID(view.IntroWrap)
	wrap.SetStyle(view.StyleDisplay, "flex")
	wrap.SetStyle(view.StyleOpacity, "1")
	wrap.SetStyle(view.StyleTransform, "")
	wrap.SetStyle(view.StyleTransition, "")
	wrap.RemoveClass(view.ClassPulse)
	prompt := c.doc.ByID(view.IntroPrompt)
	prompt.RemoveClass(view.ClassAnimate, view.ClassFlicker)
	for _, span := range prompt.Children() {
		span.SetStyle(view.StyleOpacity, "1")
	}
	c.state = ViewState{Kind: Home}
}

func (c *Controller) isSection(id string) bool {
	for _, s := range c.doc.Sections() {
		if s.ID == id {
			return true
		}
	}
	return false
}
