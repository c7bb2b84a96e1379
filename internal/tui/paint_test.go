package tui

import (
	"strings"
	"testing"

	"github.com/charmbracelet/lipgloss"

	"github.com/verte-zerg/datafolio/internal/rain"
	"github.com/verte-zerg/datafolio/internal/view"
)

func TestShadeIndexBounds(t *testing.T) {
	cases := map[float64]int{
		-1:           0,
		0:            0,
		trailCeiling: shadeLevels - 1,
		1:            shadeLevels - 1,
	}
	for opacity, want := range cases {
		if got := shadeIndex(opacity); got != want {
			t.Fatalf("shadeIndex(%v) = %d, want %d", opacity, got, want)
		}
	}
	if shadeIndex(0.1) >= shadeIndex(0.2) {
		t.Fatalf("expected brighter trail glyphs to use a brighter shade")
	}
}

func emptyGrid(width, height int) [][]rain.Cell {
	grid := make([][]rain.Cell, height)
	for i := range grid {
		grid[i] = make([]rain.Cell, width)
	}
	return grid
}

func TestCompositeCentersForeground(t *testing.T) {
	out := composite(emptyGrid(10, 3), "ab", 10, 3)
	lines := strings.Split(out, "\n")
	if len(lines) != 3 {
		t.Fatalf("expected 3 rows, got %d", len(lines))
	}
	if lines[1] != "    ab    " {
		t.Fatalf("unexpected middle row %q", lines[1])
	}
	if lines[0] != strings.Repeat(" ", 10) {
		t.Fatalf("unexpected top row %q", lines[0])
	}
}

func TestCompositeKeepsRainAroundForeground(t *testing.T) {
	grid := emptyGrid(6, 1)
	grid[0][0] = rain.Cell{Glyph: 'Z', Opacity: 1, Head: true}
	grid[0][2] = rain.Cell{Glyph: 'Q', Opacity: 1, Head: true}
	out := composite(grid, "ab", 6, 1)
	if !strings.HasPrefix(out, rainHead.Render("Z")) {
		t.Fatalf("expected glyph left of the foreground: %q", out)
	}
	if strings.Contains(out, "Q") {
		t.Fatalf("expected foreground to cover the grid: %q", out)
	}
	if lipgloss.Width(out) != 6 {
		t.Fatalf("expected row width 6, got %d", lipgloss.Width(out))
	}
}

func TestCompositeWithoutRain(t *testing.T) {
	out := composite(nil, "ab", 8, 3)
	if lipgloss.Height(out) != 3 || lipgloss.Width(out) != 8 {
		t.Fatalf("expected placed 8x3 block, got %dx%d", lipgloss.Width(out), lipgloss.Height(out))
	}
}

func TestBuildCaptionRunesBlanksHiddenSpans(t *testing.T) {
	prompt := view.NewElement(view.IntroPrompt)
	for i, ch := range "ab" {
		span := view.NewElement("")
		span.Text = string(ch)
		span.SetStyle(view.StyleOpacity, []string{"1", "0"}[i])
		prompt.Append(span)
	}
	runes := buildCaptionRunes(prompt, captionLook{})
	if len(runes) != 2 {
		t.Fatalf("expected 2 runes, got %d", len(runes))
	}
	if runes[0].s != captionStyle.Render("a") {
		t.Fatalf("expected caption style for revealed rune")
	}
	if runes[1].s != " " || runes[1].width != 1 {
		t.Fatalf("expected blank for hidden rune, got %q", runes[1].s)
	}
}

func TestBuildCaptionRunesGlitch(t *testing.T) {
	prompt := view.NewElement(view.IntroPrompt)
	prompt.Text = "abc"
	runes := buildCaptionRunes(prompt, captionLook{glitch: true})
	if runes[0].s != glitchMagentaStyle.Render("a") || runes[1].s != glitchCyanStyle.Render("b") {
		t.Fatalf("expected alternating glitch colors")
	}
	if runes[2].s != captionStyle.Render("c") {
		t.Fatalf("expected every third rune in the base color")
	}
}

func TestWrapStyledRunesBreaksAtSpaces(t *testing.T) {
	plain := lipgloss.NewStyle()
	var items []styledRune
	for _, r := range "ab cd" {
		items = append(items, newStyledRune(r, plain, true))
	}
	if got := wrapStyledRunes(items, 3); got != "ab\ncd" {
		t.Fatalf("unexpected wrap %q", got)
	}
	if got := wrapStyledRunes(items, 0); got != "ab cd" {
		t.Fatalf("unexpected unwrapped output %q", got)
	}
}
