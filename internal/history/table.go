// Package history renders recorded refinements as a plain-text table.
package history

import (
	"fmt"
	"io"
	"strings"

	"github.com/mattn/go-runewidth"

	"github.com/verte-zerg/datafolio/internal/model"
)

const minDraftWidth = 12

// Render writes one row per refinement, truncating the draft and result
// columns so each line fits width. A width of zero or less disables fitting.
func Render(w io.Writer, records []model.Refinement, width int) error {
	if len(records) == 0 {
		_, err := fmt.Fprintln(w, "No refinements recorded.")
		return err
	}
	headers := []string{"When", "Outcome", "ms", "Draft", "Result"}
	rows := make([][]string, 0, len(records))
	for _, r := range records {
		rows = append(rows, []string{
			r.CreatedAt.Local().Format("2006-01-02 15:04"),
			string(r.Outcome),
			fmt.Sprintf("%d", r.DurationMs),
			flatten(r.Draft),
			flatten(r.Result),
		})
	}
	fitText(headers, rows, width)
	for _, line := range formatTable(headers, rows, map[int]bool{2: true}) {
		if _, err := fmt.Fprintln(w, strings.TrimRight(line, " ")); err != nil {
			return err
		}
	}
	return nil
}

func flatten(s string) string {
	return strings.Join(strings.Fields(s), " ")
}

// fitText shares the width left after the fixed columns between the last two.
func fitText(headers []string, rows [][]string, width int) {
	if width <= 0 {
		return
	}
	widths := columnWidths(headers, rows)
	fixed := widths[0] + widths[1] + widths[2] + len(widths) - 1
	avail := width - fixed
	if avail < 2*minDraftWidth {
		avail = 2 * minDraftWidth
	}
	draftMax := avail / 2
	resultMax := avail - draftMax
	for _, row := range rows {
		row[3] = runewidth.Truncate(row[3], draftMax, "…")
		row[4] = runewidth.Truncate(row[4], resultMax, "…")
	}
}

func columnWidths(headers []string, rows [][]string) []int {
	widths := make([]int, len(headers))
	for i, header := range headers {
		widths[i] = displayWidth(header)
	}
	for _, row := range rows {
		for i := range widths {
			if i < len(row) {
				if w := displayWidth(row[i]); w > widths[i] {
					widths[i] = w
				}
			}
		}
	}
	return widths
}

func formatTable(headers []string, rows [][]string, rightAlignCols map[int]bool) []string {
	colCount := len(headers)
	for _, row := range rows {
		if len(row) > colCount {
			colCount = len(row)
		}
	}
	if colCount == 0 {
		return nil
	}
	widths := columnWidths(padRow(headers, colCount), rows)

	lines := make([]string, 0, len(rows)+1)
	lines = append(lines, formatRow(headers, widths, rightAlignCols))
	for _, row := range rows {
		lines = append(lines, formatRow(row, widths, rightAlignCols))
	}
	return lines
}

func padRow(row []string, n int) []string {
	for len(row) < n {
		row = append(row, "")
	}
	return row
}

func formatRow(row []string, widths []int, rightAlignCols map[int]bool) string {
	var b strings.Builder
	for i := 0; i < len(widths); i++ {
		cell := ""
		if i < len(row) {
			cell = row[i]
		}
		if i > 0 {
			b.WriteByte(' ')
		}
		b.WriteString(padCell(cell, widths[i], rightAlignCols[i]))
	}
	return b.String()
}

func padCell(value string, width int, rightAlign bool) string {
	valueWidth := displayWidth(value)
	if valueWidth >= width {
		return value
	}
	padding := width - valueWidth
	if rightAlign {
		return strings.Repeat(" ", padding) + value
	}
	return value + strings.Repeat(" ", padding)
}

func displayWidth(value string) int {
	return runewidth.StringWidth(value)
}
