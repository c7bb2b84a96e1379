package view

import "github.com/verte-zerg/datafolio/internal/model"

// Element ids of the page.
const (
	IntroWrap       = "intro-wrap"
	IntroPrompt     = "intro-prompt"
	LoadingProgress = "loading-progress"
	MainContent     = "main-content"
	DatastreamBG    = "datastream-bg"
	BioInput        = "bio-input"
	GenerateButton  = "generate-bio-btn"
	LoadingSpinner  = "loading-spinner"
	GeneratedOutput = "generated-bio-output"
)

// HomeTarget is the navigation target that resets to the intro view.
const HomeTarget = "home"

// Document is the fixed element set of the page.
type Document struct {
	elements map[string]*Element
	sections []*Element
	titles   map[string]string
	scrolled string
}

// NewDocument builds the page for a caption and an ordered list of sections.
// The main content starts hidden, as do the spinner and the refiner output.
func NewDocument(caption string, sections []model.Section) *Document {
	d := &Document{
		elements: map[string]*Element{},
		titles:   map[string]string{},
	}
	for _, id := range []string{
		IntroWrap, IntroPrompt, LoadingProgress, MainContent, DatastreamBG,
		BioInput, GenerateButton, LoadingSpinner, GeneratedOutput,
	} {
		d.elements[id] = NewElement(id)
	}
	prompt := d.elements[IntroPrompt]
	prompt.Text = caption
	prompt.SetAttr("data-text", caption)
	d.elements[MainContent].AddClass(ClassHidden)
	d.elements[LoadingSpinner].AddClass(ClassHidden)
	d.elements[GeneratedOutput].AddClass(ClassHidden)

	for _, s := range sections {
		el := NewElement(s.ID)
		el.Text = s.Body
		el.AddClass(ClassHidden)
		d.elements[s.ID] = el
		d.sections = append(d.sections, el)
		d.titles[s.ID] = s.Title
	}
	return d
}

// ByID returns the element with the given id, or nil.
func (d *Document) ByID(id string) *Element {
	return d.elements[id]
}

// Sections returns the section elements in document order.
func (d *Document) Sections() []*Element {
	return d.sections
}

// Title returns the display title of a section.
func (d *Document) Title(id string) string {
	return d.titles[id]
}

// ScrollIntoView records the element that was last brought into view.
func (d *Document) ScrollIntoView(id string) {
	d.scrolled = id
}

// ScrolledIntoView returns the id passed to the latest ScrollIntoView.
func (d *Document) ScrolledIntoView() string {
	return d.scrolled
}
