package sheet

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"strings"
)

const (
	MaxRows    = 30
	MaxCols    = 9
	MaxCellLen = 350

	ellipsis = "..."
)

// Preview renders at most MaxRows CSV records of text as comma-separated
// lines. Cells are flattened to one line and cut at MaxCellLen characters.
// When text has more than MaxRows lines a truncation note is appended.
func Preview(text string) (string, error) {
	reader := csv.NewReader(strings.NewReader(normalizeNewlines(text)))
	reader.FieldsPerRecord = -1
	reader.LazyQuotes = true

	rows := make([]string, 0, MaxRows)
	for len(rows) < MaxRows {
		record, err := reader.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return "", fmt.Errorf("failed to parse CSV: %w", err)
		}
		rows = append(rows, formatRow(record))
	}

	preview := strings.Join(rows, "\n")
	if preview != "" && countLines(text) > MaxRows {
		preview += fmt.Sprintf("\n... (truncated to first %d rows)", MaxRows)
	}

	return preview, nil
}

func formatRow(record []string) string {
	if len(record) > MaxCols {
		record = record[:MaxCols]
	}

	cells := make([]string, len(record))
	for i, c := range record {
		cells[i] = formatCell(c)
	}

	return strings.Join(cells, ", ")
}

func formatCell(cell string) string {
	cell = strings.ReplaceAll(cell, "\r\n", " ")
	cell = strings.ReplaceAll(cell, "\n", " ")
	cell = strings.ReplaceAll(cell, "\r", " ")
	cell = strings.TrimSpace(cell)

	if runes := []rune(cell); len(runes) > MaxCellLen {
		cell = string(runes[:MaxCellLen]) + ellipsis
	}

	return cell
}

// countLines counts physical lines the way a line splitter would: a
// trailing line break does not start a new line.
func countLines(text string) int {
	text = normalizeNewlines(text)
	if text == "" {
		return 0
	}

	n := strings.Count(text, "\n")
	if !strings.HasSuffix(text, "\n") {
		n++
	}
	return n
}

// normalizeNewlines turns CRLF and bare CR into LF so old Mac-style exports
// split into rows the same way countLines sees them.
func normalizeNewlines(text string) string {
	text = strings.ReplaceAll(text, "\r\n", "\n")
	return strings.ReplaceAll(text, "\r", "\n")
}
