package tui

import (
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/mattn/go-runewidth"

	"github.com/verte-zerg/datafolio/internal/view"
)

type styledRune struct {
	s       string
	width   int
	isSpace bool
}

// captionLook is the visual state of the intro caption for one frame.
type captionLook struct {
	glitch  bool
	flicker bool
	pulse   bool
	faded   bool
	phase   int
}

func (l captionLook) styleFor(i int) lipgloss.Style {
	switch {
	case l.faded:
		return fadedStyle
	case l.glitch:
		switch (i + l.phase) % 3 {
		case 0:
			return glitchMagentaStyle
		case 1:
			return glitchCyanStyle
		}
	}
	style := captionStyle
	if l.pulse {
		style = pulseStyle
	}
	if l.flicker {
		style = style.Faint(true)
	}
	return style
}

// buildCaptionRunes styles the revealed characters of prompt. Characters that
// are not revealed yet keep their width as blanks so the caption never shifts.
func buildCaptionRunes(prompt *view.Element, look captionLook) []styledRune {
	spans := prompt.Children()
	if len(spans) == 0 {
		out := make([]styledRune, 0, len(prompt.Text))
		for i, r := range prompt.Text {
			out = append(out, newStyledRune(r, look.styleFor(i), true))
		}
		return out
	}
	out := make([]styledRune, 0, len(spans))
	for i, span := range spans {
		r := []rune(span.Text)
		if len(r) == 0 {
			continue
		}
		shown := span.Style(view.StyleOpacity) != "0"
		out = append(out, newStyledRune(r[0], look.styleFor(i), shown))
	}
	return out
}

func newStyledRune(r rune, style lipgloss.Style, shown bool) styledRune {
	width := runewidth.RuneWidth(r)
	item := styledRune{width: width, isSpace: r == ' '}
	switch {
	case !shown || item.isSpace:
		item.s = strings.Repeat(" ", width)
	default:
		item.s = style.Render(string(r))
	}
	return item
}

func renderStyledRunes(runes []styledRune) string {
	var b strings.Builder
	for _, item := range runes {
		b.WriteString(item.s)
	}
	return b.String()
}

func wrapStyledRunes(runes []styledRune, width int) string {
	if width <= 0 {
		return renderStyledRunes(runes)
	}
	var out strings.Builder
	line := make([]styledRune, 0, len(runes))
	lineWidth := 0
	lastSpaceIdx := -1

	for i := 0; i < len(runes); {
		item := runes[i]
		if lineWidth+item.width > width && len(line) > 0 {
			if lastSpaceIdx >= 0 {
				out.WriteString(renderStyledRunes(line[:lastSpaceIdx]))
				out.WriteRune('\n')
				line = append([]styledRune{}, line[lastSpaceIdx+1:]...)
				lineWidth = lineWidthOf(line)
				lastSpaceIdx = lastSpaceIndex(line)
			} else {
				out.WriteString(renderStyledRunes(line))
				out.WriteRune('\n')
				line = line[:0]
				lineWidth = 0
				lastSpaceIdx = -1
			}
			continue
		}
		line = append(line, item)
		lineWidth += item.width
		if item.isSpace {
			lastSpaceIdx = len(line) - 1
		}
		i++
	}
	out.WriteString(renderStyledRunes(line))
	return out.String()
}

func lineWidthOf(line []styledRune) int {
	total := 0
	for _, item := range line {
		total += item.width
	}
	return total
}

func lastSpaceIndex(line []styledRune) int {
	for i := len(line) - 1; i >= 0; i-- {
		if line[i].isSpace {
			return i
		}
	}
	return -1
}
