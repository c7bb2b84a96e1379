// Package tui provides the Bubble Tea portfolio interface.
package tui

import (
	"context"
	"io"
	"log"
	"math/rand"
	"time"

	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/textarea"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/verte-zerg/datafolio/internal/clock"
	"github.com/verte-zerg/datafolio/internal/intro"
	"github.com/verte-zerg/datafolio/internal/model"
	"github.com/verte-zerg/datafolio/internal/nav"
	"github.com/verte-zerg/datafolio/internal/rain"
	"github.com/verte-zerg/datafolio/internal/refine"
	"github.com/verte-zerg/datafolio/internal/view"
)

const frameInterval = 50 * time.Millisecond

type frameMsg time.Time

type refineResultMsg struct {
	req  *refine.Request
	text string
	err  error
}

// Options configures the portfolio model.
type Options struct {
	Caption     string
	Sections    []model.Section
	Rain        bool
	ColumnWidth int
	Generator   refine.Generator
	Recorder    refine.Recorder
	Logger      *log.Logger
	Timing      intro.Timing
	Rand        *rand.Rand
}

// Model implements the Bubble Tea portfolio UI.
type Model struct {
	opts Options

	doc     *view.Document
	sched   *clock.Scheduler
	field   *rain.Field
	seq     *intro.Sequencer
	nav     *nav.Controller
	refiner *refine.Refiner

	spinner   spinner.Model
	input     textarea.Model
	viewports map[string]*viewport.Model

	refinerSection string
	editing        bool

	width     int
	height    int
	lastFrame time.Time
}

// NewModel constructs the portfolio model. Zero timing uses the defaults.
func NewModel(opts Options) *Model {
	if opts.Timing == (intro.Timing{}) {
		opts.Timing = intro.DefaultTiming()
	}
	if opts.Rand == nil {
		opts.Rand = rand.New(rand.NewSource(time.Now().UnixNano()))
	}
	if opts.Logger == nil {
		opts.Logger = log.New(io.Discard, "", 0)
	}

	doc := view.NewDocument(opts.Caption, opts.Sections)
	sched := clock.NewScheduler()
	m := &Model{
		opts:      opts,
		doc:       doc,
		sched:     sched,
		field:     rain.New(rain.Config{ColumnWidth: opts.ColumnWidth}, opts.Rand),
		seq:       intro.New(sched, doc, opts.Rand, opts.Timing),
		nav:       nav.New(doc),
		viewports: map[string]*viewport.Model{},
	}
	m.field.Bind(doc.ByID(view.DatastreamBG))
	m.seq.OnDone(m.nav.Handoff)

	refineOpts := []refine.Option{refine.WithLogger(opts.Logger)}
	if opts.Recorder != nil {
		refineOpts = append(refineOpts, refine.WithRecorder(opts.Recorder))
	}
	m.refiner = refine.New(doc, opts.Generator, refineOpts...)

	m.spinner = spinner.New(spinner.WithSpinner(spinner.MiniDot), spinner.WithStyle(accentStyle))
	m.input = textarea.New()
	m.input.Placeholder = "Paste a rough bio draft..."
	m.input.ShowLineNumbers = false
	m.input.CharLimit = 4000
	m.input.SetHeight(inputHeight)

	for _, s := range opts.Sections {
		vp := viewport.New(0, 0)
		m.viewports[s.ID] = &vp
		if s.Refiner && m.refinerSection == "" {
			m.refinerSection = s.ID
		}
	}
	return m
}

// Init implements tea.Model. It starts the intro and the frame clock.
func (m *Model) Init() tea.Cmd {
	m.lastFrame = time.Now()
	m.seq.Start()
	return tea.Batch(frameTick(), m.spinner.Tick)
}

func frameTick() tea.Cmd {
	return tea.Tick(frameInterval, func(t time.Time) tea.Msg {
		return frameMsg(t)
	})
}

// Update implements tea.Model.
func (m *Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		if m.opts.Rain {
			m.field.Regenerate(msg.Width, msg.Height)
		}
		m.updateLayout()
		return m, nil
	case frameMsg:
		m.advance(time.Time(msg))
		return m, frameTick()
	case spinner.TickMsg:
		var cmd tea.Cmd
		m.spinner, cmd = m.spinner.Update(msg)
		return m, cmd
	case refineResultMsg:
		rec, ok := m.refiner.Finish(msg.req, msg.text, msg.err)
		if !ok {
			return m, nil
		}
		m.refreshContent()
		return m, m.recordCmd(rec)
	case tea.KeyMsg:
		return m.handleKey(msg)
	default:
		return m, nil
	}
}

func (m *Model) advance(now time.Time) {
	if m.lastFrame.IsZero() {
		m.lastFrame = now
		return
	}
	if now.After(m.lastFrame) {
		m.sched.Advance(now.Sub(m.lastFrame))
		m.lastFrame = now
	}
}

func (m *Model) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	if msg.Type == tea.KeyCtrlC {
		return m, tea.Quit
	}
	if m.editing {
		return m.handleEditKey(msg)
	}
	if m.seq.State() != intro.Done {
		if msg.String() == "q" {
			return m, tea.Quit
		}
		return m, nil
	}

	switch key := msg.String(); key {
	case "q":
		return m, tea.Quit
	case "h", "0":
		m.activate(view.HomeTarget)
		return m, nil
	case "tab", "right", "l":
		m.step(1)
		return m, nil
	case "shift+tab", "left":
		m.step(-1)
		return m, nil
	case "1", "2", "3", "4", "5", "6", "7", "8", "9":
		targets := m.nav.Targets()
		if idx := int(key[0] - '0'); idx < len(targets) {
			m.activate(targets[idx])
		}
		return m, nil
	case "e", "i":
		if m.onRefiner() && !m.refiner.Pending() {
			m.editing = true
			return m, m.input.Focus()
		}
		return m, nil
	case "enter":
		if m.onRefiner() {
			return m, m.submit()
		}
		return m, nil
	default:
		return m, m.scroll(msg)
	}
}

func (m *Model) handleEditKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.Type {
	case tea.KeyEsc:
		m.stopEditing()
		return m, nil
	case tea.KeyCtrlS:
		m.stopEditing()
		return m, m.submit()
	}
	var cmd tea.Cmd
	m.input, cmd = m.input.Update(msg)
	return m, cmd
}

func (m *Model) stopEditing() {
	m.editing = false
	m.input.Blur()
}

// submit activates the refine control. The request runs in a command and
// comes back as a refineResultMsg.
func (m *Model) submit() tea.Cmd {
	m.doc.ByID(view.BioInput).Text = m.input.Value()
	req, ok := m.refiner.Begin(m.input.Value())
	m.refreshContent()
	if !ok {
		return nil
	}
	gen := m.refiner.Generator()
	return func() tea.Msg {
		text, err := req.Run(context.Background(), gen)
		return refineResultMsg{req: req, text: text, err: err}
	}
}

// recordCmd stores a finished refinement outside Update so the database
// write never stalls the frame loop.
func (m *Model) recordCmd(rec model.Refinement) tea.Cmd {
	if !m.refiner.Recording() {
		return nil
	}
	refiner := m.refiner
	return func() tea.Msg {
		refiner.Record(context.Background(), rec)
		return nil
	}
}

func (m *Model) activate(target string) {
	if err := m.nav.Activate(target); err != nil {
		m.opts.Logger.Printf("nav: %v", err)
		return
	}
	m.afterNavigation()
}

func (m *Model) step(delta int) {
	if err := m.nav.Step(delta); err != nil {
		m.opts.Logger.Printf("nav: %v", err)
		return
	}
	m.afterNavigation()
}

func (m *Model) afterNavigation() {
	if m.editing && !m.onRefiner() {
		m.stopEditing()
	}
	for _, section := range m.doc.Sections() {
		if vp, ok := m.viewports[section.ID]; ok && vp.YOffset != section.ScrollTop {
			vp.SetYOffset(section.ScrollTop)
		}
	}
}

func (m *Model) scroll(msg tea.KeyMsg) tea.Cmd {
	state := m.nav.State()
	if state.Kind != nav.Section {
		return nil
	}
	vp, ok := m.viewports[state.Section]
	if !ok {
		return nil
	}
	updated, cmd := vp.Update(msg)
	*vp = updated
	m.doc.ByID(state.Section).ScrollTop = vp.YOffset
	return cmd
}

func (m *Model) onRefiner() bool {
	state := m.nav.State()
	return m.refinerSection != "" && state.Kind == nav.Section && state.Section == m.refinerSection
}
