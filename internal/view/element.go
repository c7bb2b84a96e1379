// Package view models the addressable page elements that the animation,
// navigation and refiner code mutate and the TUI renders.
package view

import "sort"

// Visual-state classes.
const (
	ClassHidden  = "hidden"
	ClassActive  = "active"
	ClassAnimate = "animate"
	ClassFlicker = "flicker"
	ClassPulse   = "pulse"
	ClassColumn  = "ds-col"
)

// Style properties.
const (
	StyleOpacity    = "opacity"
	StyleTransform  = "transform"
	StyleTransition = "transition"
	StyleWidth      = "width"
	StyleDisplay    = "display"
	StyleLeft       = "left"
)

// Element is a node with classes, inline styles and attributes.
type Element struct {
	ID        string
	Text      string
	Disabled  bool
	ScrollTop int

	classes  map[string]struct{}
	style    map[string]string
	attrs    map[string]string
	children []*Element
}

// NewElement returns an empty element with the given id.
func NewElement(id string) *Element {
	return &Element{
		ID:      id,
		classes: map[string]struct{}{},
		style:   map[string]string{},
		attrs:   map[string]string{},
	}
}

// AddClass adds each class name.
func (e *Element) AddClass(names ...string) {
	for _, name := range names {
		e.classes[name] = struct{}{}
	}
}

// RemoveClass removes each class name.
func (e *Element) RemoveClass(names ...string) {
	for _, name := range names {
		delete(e.classes, name)
	}
}

// HasClass reports class membership.
func (e *Element) HasClass(name string) bool {
	_, ok := e.classes[name]
	return ok
}

// Classes returns the sorted class list.
func (e *Element) Classes() []string {
	out := make([]string, 0, len(e.classes))
	for name := range e.classes {
		out = append(out, name)
	}
	sort.Strings(out)
	return out
}

// SetStyle sets an inline style property. An empty value removes it.
func (e *Element) SetStyle(prop, value string) {
	if value == "" {
		delete(e.style, prop)
		return
	}
	e.style[prop] = value
}

// Style returns an inline style property, or "" when unset.
func (e *Element) Style(prop string) string {
	return e.style[prop]
}

// SetAttr sets an attribute such as data-text.
func (e *Element) SetAttr(name, value string) {
	e.attrs[name] = value
}

// Attr returns an attribute value, or "" when unset.
func (e *Element) Attr(name string) string {
	return e.attrs[name]
}

// Append adds a child element.
func (e *Element) Append(child *Element) {
	e.children = append(e.children, child)
}

// Children returns the child elements in insertion order.
func (e *Element) Children() []*Element {
	return e.children
}

// Clear drops every child and the text content.
func (e *Element) Clear() {
	e.children = nil
	e.Text = ""
}

// Visible reports whether the element is neither hidden by class nor by display.
func (e *Element) Visible() bool {
	return !e.HasClass(ClassHidden) && e.Style(StyleDisplay) != "none"
}
