package rain

import (
	"math"
	"math/rand"
	"strings"
	"testing"
	"time"

	"github.com/verte-zerg/datafolio/internal/view"
)

func newTestField() *Field {
	return New(Config{ColumnWidth: 20}, rand.New(rand.NewSource(7)))
}

func TestRegenerateColumnCount(t *testing.T) {
	f := newTestField()
	for _, w := range []int{0, 19, 20, 39, 40, 1000, 1013} {
		f.Regenerate(w, 30)
		if got, want := len(f.Columns()), w/20; got != want {
			t.Fatalf("width %d: expected %d columns, got %d", w, want, got)
		}
	}
}

func TestRegenerateNegativeWidth(t *testing.T) {
	f := newTestField()
	f.Regenerate(-5, 10)
	if len(f.Columns()) != 0 {
		t.Fatalf("expected no columns for negative width")
	}
	if grid := f.Grid(time.Second); len(grid) != 10 {
		t.Fatalf("expected grid rows to match height, got %d", len(grid))
	}
}

func TestRegenerateReplacesBoundChildren(t *testing.T) {
	f := newTestField()
	el := view.NewElement(view.DatastreamBG)
	f.Bind(el)

	f.Regenerate(200, 30)
	if len(el.Children()) != 10 {
		t.Fatalf("expected 10 children, got %d", len(el.Children()))
	}
	f.Regenerate(60, 30)
	children := el.Children()
	if len(children) != 3 {
		t.Fatalf("expected 3 children after shrink, got %d", len(children))
	}
	for i, child := range children {
		if !child.HasClass(view.ClassColumn) {
			t.Fatalf("child %d missing column class", i)
		}
		if child.Style(view.StyleLeft) != []string{"0", "20", "40"}[i] {
			t.Fatalf("child %d unexpected left %q", i, child.Style(view.StyleLeft))
		}
	}
}

func TestColumnShape(t *testing.T) {
	f := newTestField()
	f.Regenerate(400, 40)
	for i, c := range f.Columns() {
		if c.X != i*20 {
			t.Fatalf("column %d: expected x=%d, got %d", i, i*20, c.X)
		}
		if len(c.Glyphs) < minGlyphs || len(c.Glyphs) > maxGlyphs {
			t.Fatalf("column %d: glyph count %d out of range", i, len(c.Glyphs))
		}
		for _, g := range c.Glyphs {
			if !strings.ContainsRune(DefaultAlphabet, g) {
				t.Fatalf("column %d: glyph %q outside alphabet", i, g)
			}
		}
		if c.Opacity[0] != headOpacity {
			t.Fatalf("column %d: expected bright head", i)
		}
		for j, o := range c.Opacity[1:] {
			if o < minOpacity || o > minOpacity+opacitySpread || o >= c.Opacity[0] {
				t.Fatalf("column %d glyph %d: opacity %f out of range", i, j+1, o)
			}
		}
		if c.Duration < minDuration || c.Duration >= minDuration+durationSpread {
			t.Fatalf("column %d: duration %v out of range", i, c.Duration)
		}
		if c.Delay > 0 || c.Delay <= -c.Duration {
			t.Fatalf("column %d: delay %v out of range", i, c.Delay)
		}
		if c.Top > 0 {
			t.Fatalf("column %d: expected non-positive start offset, got %f", i, c.Top)
		}
	}
}

func TestOffsetRepeats(t *testing.T) {
	c := Column{Top: -5, From: -10, To: 50, Duration: 10 * time.Second, Delay: -2 * time.Second}
	if got := c.Offset(0); math.Abs(got-c.Offset(10*time.Second)) > 1e-9 {
		t.Fatalf("expected periodic offset, got %f vs %f", got, c.Offset(10*time.Second))
	}
	// 2s into a 10s fall covering 60 rows.
	if got := c.Offset(0); math.Abs(got-(-3)) > 1e-9 {
		t.Fatalf("expected offset -3, got %f", got)
	}
}

func TestGridPaintsColumnsTopDown(t *testing.T) {
	f := newTestField()
	f.height = 10
	f.width = 4
	f.columns = []Column{{
		X:        2,
		From:     5,
		To:       5,
		Glyphs:   []rune("ABC"),
		Opacity:  []float64{1, 0.3, 0.1},
		Duration: time.Second,
	}}
	grid := f.Grid(0)
	if grid[5][2].Glyph != 'A' || !grid[5][2].Head {
		t.Fatalf("expected head at row 5, got %+v", grid[5][2])
	}
	if grid[4][2].Glyph != 'B' || grid[3][2].Glyph != 'C' {
		t.Fatalf("expected trail above head")
	}
	if grid[6][2].Glyph != 0 {
		t.Fatalf("expected empty cell below head")
	}
}
