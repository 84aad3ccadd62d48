package stats

import (
	"strconv"
	"strings"

	"github.com/mattn/go-runewidth"
)

// formatTable aligns rows under headers. A column whose body cells all parse
// as numbers is right-aligned, header included; other columns align left.
func formatTable(headers []string, rows [][]string) []string {
	colCount := len(headers)
	for _, row := range rows {
		colCount = max(colCount, len(row))
	}
	if colCount == 0 {
		return nil
	}

	widths := make([]int, colCount)
	numeric := make([]bool, colCount)
	for col := 0; col < colCount; col++ {
		widths[col] = runewidth.StringWidth(cell(headers, col))
		numeric[col] = len(rows) > 0
		for _, row := range rows {
			value := cell(row, col)
			widths[col] = max(widths[col], runewidth.StringWidth(value))
			if _, err := strconv.ParseFloat(value, 64); err != nil {
				numeric[col] = false
			}
		}
	}

	lines := make([]string, 0, len(rows)+1)
	if len(headers) > 0 {
		lines = append(lines, joinCells(headers, widths, numeric))
	}
	for _, row := range rows {
		lines = append(lines, joinCells(row, widths, numeric))
	}
	return lines
}

func joinCells(row []string, widths []int, numeric []bool) string {
	cells := make([]string, len(widths))
	for col, width := range widths {
		value := cell(row, col)
		if numeric[col] {
			cells[col] = runewidth.FillLeft(value, width)
		} else {
			cells[col] = runewidth.FillRight(value, width)
		}
	}
	return strings.Join(cells, " ")
}

func cell(row []string, col int) string {
	if col < len(row) {
		return row[col]
	}
	return ""
}
