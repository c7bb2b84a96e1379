// Package rain generates the falling-glyph background field.
package rain

import (
	"fmt"
	"math"
	"math/rand"
	"strconv"
	"time"

	"github.com/verte-zerg/datafolio/internal/view"
)

const (
	// DefaultColumnWidth is the horizontal spacing of columns, in cells.
	DefaultColumnWidth = 2
	// DefaultAlphabet is the glyph set columns draw from.
	DefaultAlphabet = "01ABCDEFGHIJKLMNOPQRSTUVWXYZ"

	minGlyphs      = 12
	maxGlyphs      = 32
	minDuration    = 6 * time.Second
	durationSpread = 8 * time.Second
	headOpacity    = 1.0
	minOpacity     = 0.02
	opacitySpread  = 0.3
)

// Config controls column spacing and glyphs.
type Config struct {
	ColumnWidth int
	Alphabet    string
}

// Column is one vertical lane of glyphs. Glyphs[0] is the leading glyph and
// sits lowest; the rest trail above it.
type Column struct {
	X        int
	Top      float64
	From     float64
	To       float64
	Glyphs   []rune
	Opacity  []float64
	Duration time.Duration
	Delay    time.Duration
}

// Offset returns the row of the leading glyph at the given elapsed time. The
// fall repeats forever with period Duration, shifted by the negative Delay.
func (c Column) Offset(elapsed time.Duration) float64 {
	if c.Duration <= 0 {
		return c.Top + c.From
	}
	t := (elapsed - c.Delay) % c.Duration
	if t < 0 {
		t += c.Duration
	}
	phase := float64(t) / float64(c.Duration)
	return c.Top + c.From + (c.To-c.From)*phase
}

// Cell is one painted grid position. A zero Glyph is empty.
type Cell struct {
	Glyph   rune
	Opacity float64
	Head    bool
}

// Field owns the current column set.
type Field struct {
	cfg      Config
	alphabet []rune
	rnd      *rand.Rand
	el       *view.Element

	width   int
	height  int
	columns []Column
}

// New returns an empty field. Zero config values fall back to the defaults.
func New(cfg Config, rnd *rand.Rand) *Field {
	if cfg.ColumnWidth <= 0 {
		cfg.ColumnWidth = DefaultColumnWidth
	}
	if cfg.Alphabet == "" {
		cfg.Alphabet = DefaultAlphabet
	}
	if rnd == nil {
		rnd = rand.New(rand.NewSource(time.Now().UnixNano()))
	}
	return &Field{cfg: cfg, alphabet: []rune(cfg.Alphabet), rnd: rnd}
}

// Bind mirrors the column set into el's children on every Regenerate.
func (f *Field) Bind(el *view.Element) {
	f.el = el
}

// ColumnWidth returns the configured column spacing.
func (f *Field) ColumnWidth() int {
	return f.cfg.ColumnWidth
}

// Columns returns the current column set.
func (f *Field) Columns() []Column {
	return f.columns
}

// Regenerate discards every column and builds floor(width/ColumnWidth) new
// ones sized for the viewport.
func (f *Field) Regenerate(width, height int) {
	f.width = width
	f.height = height
	if f.el != nil {
		f.el.Clear()
	}
	count := 0
	if width > 0 {
		count = width / f.cfg.ColumnWidth
	}
	f.columns = make([]Column, 0, count)
	for i := 0; i < count; i++ {
		col := f.newColumn(i)
		f.columns = append(f.columns, col)
		if f.el != nil {
			child := view.NewElement(fmt.Sprintf("ds-col-%d", i))
			child.AddClass(view.ClassColumn)
			child.SetStyle(view.StyleLeft, strconv.Itoa(col.X))
			f.el.Append(child)
		}
	}
}

func (f *Field) newColumn(index int) Column {
	h := float64(f.height)
	n := minGlyphs + f.rnd.Intn(maxGlyphs-minGlyphs+1)
	glyphs := make([]rune, n)
	opacity := make([]float64, n)
	for j := 0; j < n; j++ {
		glyphs[j] = f.alphabet[f.rnd.Intn(len(f.alphabet))]
		if j == 0 {
			opacity[j] = headOpacity
			continue
		}
		fade := 1 - float64(j)/float64(n)
		opacity[j] = minOpacity + opacitySpread*fade*(0.6+0.4*f.rnd.Float64())
	}
	duration := minDuration + time.Duration(f.rnd.Int63n(int64(durationSpread)))
	top := -f.rnd.Float64() * h
	return Column{
		X:        index * f.cfg.ColumnWidth,
		Top:      top,
		From:     -f.rnd.Float64() * h,
		To:       h + float64(n) - top + f.rnd.Float64()*h/5,
		Glyphs:   glyphs,
		Opacity:  opacity,
		Duration: duration,
		Delay:    -time.Duration(f.rnd.Int63n(int64(duration))),
	}
}

// Grid paints the field at the given elapsed time into a height x width grid.
func (f *Field) Grid(elapsed time.Duration) [][]Cell {
	grid := make([][]Cell, max(f.height, 0))
	for i := range grid {
		grid[i] = make([]Cell, max(f.width, 0))
	}
	for _, c := range f.columns {
		if c.X < 0 || c.X >= f.width {
			continue
		}
		head := int(math.Floor(c.Offset(elapsed)))
		for j, g := range c.Glyphs {
			row := head - j
			if row < 0 || row >= f.height {
				continue
			}
			grid[row][c.X] = Cell{Glyph: g, Opacity: c.Opacity[j], Head: j == 0}
		}
	}
	return grid
}
