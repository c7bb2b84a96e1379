package tui

import (
	"math"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/lucasb-eyer/go-colorful"

	"github.com/verte-zerg/datafolio/internal/rain"
)

const (
	shadeLevels  = 8
	trailCeiling = 0.32
)

var (
	rainBase     = mustHex("#34FF4A")
	rainBackdrop = mustHex("#050805")
	rainHead     = lipgloss.NewStyle().Foreground(lipgloss.Color("#B4FFBE")).Bold(true)
	rainShades   = buildShades(shadeLevels)
)

func mustHex(s string) colorful.Color {
	c, err := colorful.Hex(s)
	if err != nil {
		panic(err)
	}
	return c
}

// buildShades blends the glyph color into the backdrop. Level 0 is the
// faintest trail glyph.
func buildShades(levels int) []lipgloss.Style {
	styles := make([]lipgloss.Style, levels)
	for i := range styles {
		t := 0.12 + 0.68*float64(i)/float64(max(levels-1, 1))
		c := rainBackdrop.BlendLab(rainBase, t).Clamped()
		styles[i] = lipgloss.NewStyle().Foreground(lipgloss.Color(c.Hex()))
	}
	return styles
}

func shadeIndex(opacity float64) int {
	idx := int(math.Round(opacity / trailCeiling * float64(shadeLevels-1)))
	if idx < 0 {
		return 0
	}
	if idx >= shadeLevels {
		return shadeLevels - 1
	}
	return idx
}

func paintCells(cells []rain.Cell) string {
	var b strings.Builder
	for _, cell := range cells {
		switch {
		case cell.Glyph == 0:
			b.WriteByte(' ')
		case cell.Head:
			b.WriteString(rainHead.Render(string(cell.Glyph)))
		default:
			b.WriteString(rainShades[shadeIndex(cell.Opacity)].Render(string(cell.Glyph)))
		}
	}
	return b.String()
}

// composite centers fg over the rain grid. Rows of fg replace the grid cells
// they cover; the rest of the grid stays visible around them.
func composite(grid [][]rain.Cell, fg string, width, height int) string {
	if len(grid) == 0 {
		return lipgloss.Place(width, height, lipgloss.Center, lipgloss.Center, fg)
	}
	lines := strings.Split(fg, "\n")
	fgWidth := lipgloss.Width(fg)
	x0 := max((width-fgWidth)/2, 0)
	y0 := max((height-len(lines))/2, 0)

	rows := make([]string, 0, len(grid))
	for y, row := range grid {
		idx := y - y0
		if idx < 0 || idx >= len(lines) {
			rows = append(rows, paintCells(row))
			continue
		}
		line := lines[idx]
		pad := fgWidth - lipgloss.Width(line)
		left := min(x0, len(row))
		right := min(x0+fgWidth, len(row))
		rows = append(rows, paintCells(row[:left])+line+strings.Repeat(" ", max(pad, 0))+paintCells(row[right:]))
	}
	return strings.Join(rows, "\n")
}
