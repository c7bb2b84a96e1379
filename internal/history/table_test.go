package history

import (
	"bytes"
	"strings"
	"testing"
	"time"

	"github.com/mattn/go-runewidth"

	"github.com/verte-zerg/datafolio/internal/model"
)

func TestFormatTableAlignsColumns(t *testing.T) {
	headers := []string{"Outcome", "ms"}
	rows := [][]string{
		{"refined", "1200"},
		{"transport", "3"},
	}
	lines := formatTable(headers, rows, map[int]bool{1: true})
	if len(lines) != 3 {
		t.Fatalf("expected 3 lines, got %d", len(lines))
	}
	if lines[0] != "Outcome     ms" {
		t.Fatalf("unexpected header line: %q", lines[0])
	}
	if lines[1] != "refined   1200" {
		t.Fatalf("unexpected row line: %q", lines[1])
	}
	if lines[2] != "transport    3" {
		t.Fatalf("unexpected row line: %q", lines[2])
	}
}

func TestRenderEmpty(t *testing.T) {
	var buf bytes.Buffer
	if err := Render(&buf, nil, 80); err != nil {
		t.Fatalf("render: %v", err)
	}
	if buf.String() != "No refinements recorded.\n" {
		t.Fatalf("unexpected output: %q", buf.String())
	}
}

func TestRenderFitsWidth(t *testing.T) {
	records := []model.Refinement{{
		CreatedAt:  time.Date(2026, 1, 2, 3, 4, 0, 0, time.Local),
		Draft:      "Backend engineer,\n5 years.",
		Result:     strings.Repeat("Results-driven backend engineer ", 10),
		Outcome:    model.OutcomeRefined,
		DurationMs: 812,
	}}
	var buf bytes.Buffer
	if err := Render(&buf, records, 90); err != nil {
		t.Fatalf("render: %v", err)
	}
	lines := strings.Split(strings.TrimRight(buf.String(), "\n"), "\n")
	if len(lines) != 2 {
		t.Fatalf("expected header and one row, got %d lines", len(lines))
	}
	for _, line := range lines {
		if w := runewidth.StringWidth(line); w > 90 {
			t.Fatalf("line wider than 90 (%d): %q", w, line)
		}
	}
	if !strings.Contains(lines[1], "2026-01-02 03:04") || !strings.Contains(lines[1], "Backend engineer, 5 years.") {
		t.Fatalf("unexpected row: %q", lines[1])
	}
	if !strings.Contains(lines[1], "…") {
		t.Fatalf("expected long result truncated: %q", lines[1])
	}
}
