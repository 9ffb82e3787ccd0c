package spreadsheet

import (
	"math"
	"testing"
	"time"
)

func TestNormalizePoints(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name   string
		input  Cell
		want   float64
		absent bool
	}{
		{name: "empty cell", input: EmptyCell(), absent: true},
		{name: "blank text", input: TextCell("   "), absent: true},
		{name: "comma decimal", input: TextCell("12,5"), want: 12.5},
		{name: "dot decimal", input: TextCell("12.5"), want: 12.5},
		{name: "integer text", input: TextCell("100"), want: 100},
		{name: "internal whitespace", input: TextCell("1 234,5"), want: 1234.5},
		{name: "zero is valid", input: TextCell("0"), want: 0},
		{name: "negative text rejected", input: TextCell("-3"), absent: true},
		{name: "non numeric", input: TextCell("abc"), absent: true},
		{name: "native number", input: NumberCell(100.5), want: 100.5},
		{name: "native zero", input: NumberCell(0), want: 0},
		{name: "native negative rejected", input: NumberCell(-1), absent: true},
		{name: "nan text rejected", input: TextCell("NaN"), absent: true},
		{name: "inf text rejected", input: TextCell("+Inf"), absent: true},
		{name: "classified nan rejected", input: classifyCell("NaN"), absent: true},
		{name: "native nan rejected", input: NumberCell(math.NaN()), absent: true},
		{name: "native inf rejected", input: NumberCell(math.Inf(1)), absent: true},
	}

	for _, tc := range tests {
		tc := tc
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()
			got, ok := normalizePoints(tc.input)
			if tc.absent {
				if ok {
					t.Fatalf("expected absent, got %v", got)
				}
				return
			}
			if !ok {
				t.Fatalf("expected %v, got absent", tc.want)
			}
			if got != tc.want {
				t.Fatalf("unexpected points: want %v, got %v", tc.want, got)
			}
		})
	}
}

func TestNormalizeString(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name   string
		input  Cell
		want   string
		absent bool
	}{
		{name: "empty", input: EmptyCell(), absent: true},
		{name: "blank after trim", input: TextCell("  \t "), absent: true},
		{name: "trimmed", input: TextCell("  Agencia X  "), want: "Agencia X"},
		{name: "number stringified", input: NumberCell(12345678901), want: "12345678901"},
		{name: "numeric text keeps leading zero", input: classifyCell("01234567000189"), want: "01234567000189"},
		{name: "numeric text keeps scientific spelling", input: classifyCell("1e3"), want: "1e3"},
	}

	for _, tc := range tests {
		tc := tc
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()
			got, ok := normalizeString(tc.input)
			if tc.absent {
				if ok {
					t.Fatalf("expected absent, got %q", got)
				}
				return
			}
			if !ok || got != tc.want {
				t.Fatalf("unexpected value: want %q, got %q (present=%v)", tc.want, got, ok)
			}
		})
	}
}

func TestNormalizeDate_DayCounts(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name   string
		count  float64
		want   string
		absent bool
	}{
		{name: "known anchor", count: 44927, want: "2023-01-01"},
		{name: "day one", count: 1, want: "1900-01-01"},
		{name: "before phantom leap day", count: 59, want: "1900-02-28"},
		{name: "first corrected count", count: 60, want: "1900-02-28"},
		{name: "after phantom leap day", count: 61, want: "1900-03-01"},
		{name: "fractional time of day", count: 44927.75, want: "2023-01-01"},
		{name: "zero", count: 0, absent: true},
		{name: "negative", count: -5, absent: true},
		{name: "nan", count: math.NaN(), absent: true},
		{name: "infinite", count: math.Inf(1), absent: true},
	}

	for _, tc := range tests {
		tc := tc
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()
			got, ok := normalizeDate(NumberCell(tc.count))
			if tc.absent {
				if ok {
					t.Fatalf("expected absent, got %q", got)
				}
				return
			}
			if !ok || got != tc.want {
				t.Fatalf("unexpected date for count %v: want %q, got %q (present=%v)", tc.count, tc.want, got, ok)
			}
		})
	}
}

func TestNormalizeDate_FreeText(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name   string
		input  string
		want   string
		absent bool
	}{
		{name: "day greater than twelve forces day month", input: "15/03/2024", want: "2024-03-15"},
		{name: "second greater than twelve forces month day", input: "01/31/2024", want: "2024-01-31"},
		{name: "ambiguous prefers day month", input: "05/06/2024", want: "2024-06-05"},
		{name: "two digit year promoted", input: "5/6/24", want: "2024-06-05"},
		{name: "trailing time dropped", input: "15/03/2024 10:30", want: "2024-03-15"},
		{name: "forced month day with impossible day", input: "04/31/2024", absent: true},
		{name: "leap day read as month day", input: "02/29/2024", want: "2024-02-29"},
		{name: "impossible day month", input: "31/04/2024", absent: true},
		{name: "both above twelve", input: "13/13/2024", absent: true},
		{name: "year out of range", input: "01/02/1899", absent: true},
		{name: "zero day", input: "0/5/2024", absent: true},
		{name: "null literal", input: "null", absent: true},
		{name: "undefined literal", input: "UNDEFINED", absent: true},
		{name: "empty", input: "", absent: true},
		{name: "dashed format unsupported", input: "2024-03-15", absent: true},
		{name: "free prose", input: "no date", absent: true},
	}

	for _, tc := range tests {
		tc := tc
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()
			got, ok := normalizeDate(TextCell(tc.input))
			if tc.absent {
				if ok {
					t.Fatalf("expected absent for %q, got %q", tc.input, got)
				}
				return
			}
			if !ok || got != tc.want {
				t.Fatalf("unexpected date for %q: want %q, got %q (present=%v)", tc.input, tc.want, got, ok)
			}
		})
	}
}

func TestNormalizeDate_StructuredValues(t *testing.T) {
	t.Parallel()

	if got, ok := normalizeDate(DateCell(time.Date(2023, 5, 17, 14, 0, 0, 0, time.UTC))); !ok || got != "2023-05-17" {
		t.Fatalf("unexpected structured date: got %q (present=%v)", got, ok)
	}
	if _, ok := normalizeDate(DateCell(time.Time{})); ok {
		t.Fatalf("expected zero time to be absent")
	}
	if _, ok := normalizeDate(EmptyCell()); ok {
		t.Fatalf("expected empty cell to be absent")
	}
}
