package tui

import (
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/charmbracelet/lipgloss"
	"github.com/muesli/reflow/wordwrap"

	"github.com/verte-zerg/datafolio/internal/intro"
	"github.com/verte-zerg/datafolio/internal/nav"
	"github.com/verte-zerg/datafolio/internal/rain"
	"github.com/verte-zerg/datafolio/internal/view"
)

const (
	inputHeight     = 4
	maxPanelWidth   = 88
	maxCaptionWidth = 72
	maxBarWidth     = 40
	chromeHeight    = 7 // nav bar, gap, panel border, title, gap, footer
	pulsePeriod     = 600 * time.Millisecond
	glitchFrame     = 80 * time.Millisecond
)

var (
	accentStyle         = lipgloss.NewStyle().Foreground(lipgloss.Color("#34FF4A"))
	captionStyle        = lipgloss.NewStyle().Foreground(lipgloss.Color("#B8FFC4")).Bold(true)
	pulseStyle          = lipgloss.NewStyle().Foreground(lipgloss.Color("#F0FFF2")).Bold(true)
	fadedStyle          = lipgloss.NewStyle().Foreground(lipgloss.Color("#3A4A3C"))
	glitchMagentaStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("#FF2BD6")).Bold(true)
	glitchCyanStyle     = lipgloss.NewStyle().Foreground(lipgloss.Color("#2BF6FF")).Bold(true)
	progressFillStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("#34FF4A"))
	progressTrackStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("#1F3322"))
	navStyle            = lipgloss.NewStyle().Foreground(lipgloss.Color("#8C8C8C")).Padding(0, 1)
	navActiveStyle      = lipgloss.NewStyle().Foreground(lipgloss.Color("#050805")).Background(lipgloss.Color("#34FF4A")).Padding(0, 1)
	panelStyle          = lipgloss.NewStyle().Border(lipgloss.RoundedBorder()).BorderForeground(lipgloss.Color("#2E7D3A")).Padding(0, 1)
	titleStyle          = lipgloss.NewStyle().Foreground(lipgloss.Color("#34FF4A")).Bold(true)
	hintStyle           = lipgloss.NewStyle().Foreground(lipgloss.Color("#8C8C8C"))
	buttonStyle         = lipgloss.NewStyle().Foreground(lipgloss.Color("#050805")).Background(lipgloss.Color("#C89A3A")).Padding(0, 1)
	buttonDisabledStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("#8C8C8C")).Background(lipgloss.Color("#333333")).Padding(0, 1)
	outputStyle         = lipgloss.NewStyle().Foreground(lipgloss.Color("#F0F0F0"))
	footerStyle         = lipgloss.NewStyle().Foreground(lipgloss.Color("#6E6E6E"))
)

// View implements tea.Model.
func (m *Model) View() string {
	if m.width == 0 || m.height == 0 {
		return ""
	}
	var parts []string
	if m.seq.State() == intro.Done {
		parts = append(parts, m.renderNav(), "")
	}
	if m.doc.ByID(view.IntroWrap).Style(view.StyleDisplay) != "none" {
		parts = append(parts, m.renderIntro())
	} else {
		parts = append(parts, m.renderMain())
	}
	fg := lipgloss.JoinVertical(lipgloss.Center, parts...)

	bodyHeight := m.height
	footer := m.renderFooter()
	if m.height >= 3 {
		bodyHeight--
	}
	var grid [][]rain.Cell
	if m.opts.Rain {
		grid = m.field.Grid(m.sched.Now())
	}
	if len(grid) > bodyHeight {
		grid = grid[:bodyHeight]
	}
	body := composite(grid, fg, m.width, bodyHeight)
	if bodyHeight == m.height {
		return body
	}
	return body + "\n" + lipgloss.Place(m.width, 1, lipgloss.Center, lipgloss.Center, footer)
}

func (m *Model) renderIntro() string {
	prompt := m.doc.ByID(view.IntroPrompt)
	wrap := m.doc.ByID(view.IntroWrap)
	now := m.sched.Now()
	look := captionLook{
		glitch:  prompt.HasClass(view.ClassAnimate),
		flicker: prompt.HasClass(view.ClassFlicker),
		pulse:   wrap.HasClass(view.ClassPulse) && (now/pulsePeriod)%2 == 1,
		faded:   wrap.Style(view.StyleOpacity) == "0",
		phase:   int(now / glitchFrame),
	}
	width := m.captionWidth()
	caption := wrapStyledRunes(buildCaptionRunes(prompt, look), width)
	return lipgloss.JoinVertical(lipgloss.Center, caption, "", m.renderProgress(min(width, maxBarWidth)))
}

func (m *Model) captionWidth() int {
	return max(min(m.width-4, maxCaptionWidth), 1)
}

func (m *Model) renderProgress(width int) string {
	pct, err := strconv.Atoi(strings.TrimSuffix(m.doc.ByID(view.LoadingProgress).Style(view.StyleWidth), "%"))
	if err != nil {
		pct = 0
	}
	pct = min(max(pct, 0), 100)
	filled := pct * width / 100
	return progressFillStyle.Render(strings.Repeat("█", filled)) +
		progressTrackStyle.Render(strings.Repeat("░", width-filled)) +
		fmt.Sprintf(" %3d%%", pct)
}

func (m *Model) renderNav() string {
	state := m.nav.State()
	items := make([]string, 0, len(m.nav.Targets()))
	for i, target := range m.nav.Targets() {
		label := m.doc.Title(target)
		active := state.Kind == nav.Section && state.Section == target
		if target == view.HomeTarget {
			label = "home"
			active = state.Kind == nav.Home
		}
		if i < 10 {
			label = fmt.Sprintf("%d %s", i, label)
		}
		if active {
			items = append(items, navActiveStyle.Render(label))
		} else {
			items = append(items, navStyle.Render(label))
		}
	}
	return lipgloss.JoinHorizontal(lipgloss.Top, items...)
}

func (m *Model) renderMain() string {
	state := m.nav.State()
	if state.Kind != nav.Section {
		return hintStyle.Render("Press 1-9 to open a section.")
	}
	vp, ok := m.viewports[state.Section]
	if !ok {
		return ""
	}
	blocks := []string{titleStyle.Render(m.doc.Title(state.Section)), vp.View()}
	if state.Section == m.refinerSection {
		blocks = append(blocks, "", m.renderRefiner())
	}
	return panelStyle.Width(m.panelWidth() - 2).Render(lipgloss.JoinVertical(lipgloss.Left, blocks...))
}

func (m *Model) renderRefiner() string {
	btn := m.doc.ByID(view.GenerateButton)
	button := buttonStyle.Render("Refine with AI")
	if btn.Disabled {
		button = buttonDisabledStyle.Render("Refine with AI")
	}
	if m.doc.ByID(view.LoadingSpinner).Visible() {
		button += "  " + m.spinner.View() + hintStyle.Render(" refining...")
	}
	return lipgloss.JoinVertical(lipgloss.Left, m.input.View(), button)
}

func (m *Model) renderFooter() string {
	var segments []string
	switch {
	case m.editing:
		segments = []string{"ctrl+s refine", "esc done"}
	case m.seq.State() != intro.Done:
		segments = []string{"q quit"}
	default:
		segments = []string{"0-9 jump", "tab next", "h home"}
		if m.nav.State().Kind == nav.Section {
			segments = append(segments, "↑/↓ scroll")
		}
		if m.onRefiner() {
			segments = append(segments, "e edit draft", "enter refine")
		}
		segments = append(segments, "q quit")
	}
	return footerStyle.Render(strings.Join(segments, " · "))
}

func (m *Model) panelWidth() int {
	if m.width < 24 {
		return max(m.width, 6)
	}
	return min(m.width-4, maxPanelWidth)
}

func (m *Model) innerWidth() int {
	return max(m.panelWidth()-4, 1)
}

// updateLayout sizes the section viewports and the draft input for the
// current window.
func (m *Model) updateLayout() {
	inner := m.innerWidth()
	bodyHeight := max(m.height-chromeHeight, 1)
	for id, vp := range m.viewports {
		vp.Width = inner
		vp.Height = bodyHeight
		if id == m.refinerSection {
			vp.Height = max(bodyHeight-inputHeight-2, 1)
		}
	}
	m.input.SetWidth(inner)
	m.refreshContent()
}

// refreshContent rewraps section bodies, and the refiner output when it is
// shown, into their viewports.
func (m *Model) refreshContent() {
	inner := m.innerWidth()
	output := m.doc.ByID(view.GeneratedOutput)
	for _, section := range m.doc.Sections() {
		vp, ok := m.viewports[section.ID]
		if !ok {
			continue
		}
		body := wordwrap.String(section.Text, inner)
		if section.ID == m.refinerSection && output.Visible() && output.Text != "" {
			body += "\n\n" + outputStyle.Render(wordwrap.String(output.Text, inner))
		}
		vp.SetContent(body)
		section.ScrollTop = vp.YOffset
	}
}
