package spreadsheet

import (
	"strconv"
	"strings"
	"time"
)

// CellKind discriminates the raw value shapes a worksheet cell can carry.
type CellKind int

const (
	CellEmpty CellKind = iota
	CellText
	CellNumber
	CellDate
)

// Cell is one raw worksheet value. Only the field matching Kind is meaningful.
type Cell struct {
	Kind   CellKind
	Text   string
	Number float64
	Date   time.Time
}

// RawWorksheet is the first sheet of a source workbook: ordered rows of cells.
type RawWorksheet [][]Cell

func EmptyCell() Cell {
	return Cell{Kind: CellEmpty}
}

func TextCell(value string) Cell {
	return Cell{Kind: CellText, Text: value}
}

func NumberCell(value float64) Cell {
	return Cell{Kind: CellNumber, Number: value}
}

func DateCell(value time.Time) Cell {
	return Cell{Kind: CellDate, Date: value}
}

// IsBlank reports whether the cell carries no usable value.
func (c Cell) IsBlank() bool {
	switch c.Kind {
	case CellEmpty:
		return true
	case CellText:
		return strings.TrimSpace(c.Text) == ""
	default:
		return false
	}
}

// String renders the raw cell content for diagnostics and error messages.
func (c Cell) String() string {
	switch c.Kind {
	case CellText:
		return c.Text
	case CellNumber:
		if c.Text != "" {
			return c.Text
		}
		return strconv.FormatFloat(c.Number, 'f', -1, 64)
	case CellDate:
		return c.Date.Format("2006-01-02")
	default:
		return ""
	}
}

// classifyCell turns a raw reader string into a typed cell. Numeric strings
// become numbers so native day-count dates survive the trip through excelize,
// but the original text is kept alongside the number: identifiers stored as
// numeric-looking text (a CNPJ with a leading zero) must round-trip verbatim.
func classifyCell(raw string) Cell {
	trimmed := strings.TrimSpace(raw)
	if trimmed == "" {
		return EmptyCell()
	}
	if number, err := strconv.ParseFloat(trimmed, 64); err == nil {
		return Cell{Kind: CellNumber, Number: number, Text: trimmed}
	}
	return TextCell(raw)
}
