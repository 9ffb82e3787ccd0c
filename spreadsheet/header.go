package spreadsheet

import "strings"

const (
	// conventionalHeaderRow is the zero-based row where partner exports
	// conventionally place the header (the 4th row).
	conventionalHeaderRow = 3
	headerScanLimit       = 10
)

// locateHeader picks the most plausible header row: the conventional 4th row
// when the sheet is tall enough, then the first matching row near the top,
// then row zero unconditionally. Returned cells are lower-cased and trimmed.
// Header mismatches are not an error here; they surface as unresolved columns.
func locateHeader(ws RawWorksheet) (int, []string) {
	if len(ws) > conventionalHeaderRow {
		if cells := headerCells(ws[conventionalHeaderRow]); rowHasKnownColumn(cells) {
			return conventionalHeaderRow, cells
		}
	}

	limit := min(headerScanLimit, len(ws))
	for i := 0; i < limit; i++ {
		if cells := headerCells(ws[i]); rowHasKnownColumn(cells) {
			return i, cells
		}
	}

	if len(ws) == 0 {
		return 0, nil
	}
	return 0, headerCells(ws[0])
}

func headerCells(row []Cell) []string {
	cells := make([]string, len(row))
	for i, cell := range row {
		value, ok := normalizeString(cell)
		if !ok {
			continue
		}
		cells[i] = strings.ToLower(value)
	}
	return cells
}

func rowHasKnownColumn(cells []string) bool {
	for _, cell := range cells {
		if matchesKnownColumn(cell) {
			return true
		}
	}
	return false
}
