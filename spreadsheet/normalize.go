package spreadsheet

import (
	"math"
	"regexp"
	"strconv"
	"strings"
	"time"
)

const dateLayout = "2006-01-02"

// serialEpoch is day 1 of the spreadsheet 1900 date system.
var serialEpoch = time.Date(1900, time.January, 1, 0, 0, 0, 0, time.UTC)

// normalizeString trims the cell text; blank values are reported as absent.
// Numeric cells that arrived as text yield the original text, not the parsed
// number, so leading zeros in identifier fields are preserved.
func normalizeString(cell Cell) (string, bool) {
	switch cell.Kind {
	case CellText:
		trimmed := strings.TrimSpace(cell.Text)
		if trimmed == "" {
			return "", false
		}
		return trimmed, true
	case CellNumber:
		if trimmed := strings.TrimSpace(cell.Text); trimmed != "" {
			return trimmed, true
		}
		return strconv.FormatFloat(cell.Number, 'f', -1, 64), true
	case CellDate:
		if cell.Date.IsZero() {
			return "", false
		}
		return cell.Date.Format(dateLayout), true
	default:
		return "", false
	}
}

// normalizePoints parses a points amount. Comma decimal separators are
// accepted ("12,5" -> 12.5). Negative and non-finite amounts are rejected as
// absent rather than clamped; zero is a valid amount. ParseFloat accepts
// "NaN" and "Inf" spellings, so finiteness is checked explicitly.
func normalizePoints(cell Cell) (float64, bool) {
	var raw string
	switch cell.Kind {
	case CellNumber:
		if !isValidPoints(cell.Number) {
			return 0, false
		}
		return cell.Number, true
	case CellText:
		raw = cell.Text
	default:
		return 0, false
	}

	cleaned := strings.Join(strings.Fields(raw), "")
	if cleaned == "" {
		return 0, false
	}
	cleaned = strings.Replace(cleaned, ",", ".", 1)

	value, err := strconv.ParseFloat(cleaned, 64)
	if err != nil {
		return 0, false
	}
	if !isValidPoints(value) {
		return 0, false
	}
	return value, true
}

func isValidPoints(value float64) bool {
	return !math.IsNaN(value) && !math.IsInf(value, 0) && value >= 0
}

// normalizeDate converts any supported date shape to YYYY-MM-DD: structured
// dates, native day-count numbers, and free-text day/month/year variants.
// Anything unrecognized is reported as absent.
func normalizeDate(cell Cell) (string, bool) {
	switch cell.Kind {
	case CellDate:
		if cell.Date.IsZero() {
			return "", false
		}
		return cell.Date.Format(dateLayout), true
	case CellNumber:
		return dayCountToDate(cell.Number)
	case CellText:
		return parseTextDate(cell.Text)
	default:
		return "", false
	}
}

// dayCountToDate converts a 1900 date system day count. Counts of 60 and
// above are shifted down one day to compensate for the phantom 1900-02-29
// the encoding inherited. Day count 44927 maps to 2023-01-01.
func dayCountToDate(count float64) (string, bool) {
	if math.IsNaN(count) || math.IsInf(count, 0) {
		return "", false
	}
	days := int(count)
	if days <= 0 {
		return "", false
	}
	if days >= 60 {
		days--
	}
	return serialEpoch.AddDate(0, 0, days-1).Format(dateLayout), true
}

var (
	textDatePattern    = regexp.MustCompile(`^(\d{1,2})/(\d{1,2})/(\d{2,4})$`)
	absentDateLiterals = map[string]bool{"": true, "null": true, "undefined": true}
)

func parseTextDate(raw string) (string, bool) {
	trimmed := strings.TrimSpace(raw)
	if absentDateLiterals[strings.ToLower(trimmed)] {
		return "", false
	}

	// Drop a trailing time-of-day portion ("15/03/2024 10:30").
	datePart, _, _ := strings.Cut(trimmed, " ")
	match := textDatePattern.FindStringSubmatch(datePart)
	if match == nil {
		return "", false
	}

	first, _ := strconv.Atoi(match[1])
	second, _ := strconv.Atoi(match[2])
	year, _ := strconv.Atoi(match[3])
	if year < 100 {
		year += 2000
	}
	if first < 1 || first > 31 || second < 1 || second > 31 {
		return "", false
	}
	if year < 1900 || year > 2100 {
		return "", false
	}

	switch {
	case first > 12 && second <= 12:
		return formatValidDate(year, second, first)
	case second > 12 && first <= 12:
		return formatValidDate(year, first, second)
	default:
		// Genuinely ambiguous: day/month is tried first, month/day only when
		// day/month does not survive reconstruction. The source locale cannot
		// be detected, so this heuristic can silently misread m/d exports.
		if formatted, ok := formatValidDate(year, second, first); ok {
			return formatted, ok
		}
		return formatValidDate(year, first, second)
	}
}

// formatValidDate rejects component triples that do not survive
// reconstruction (time.Date silently rolls 31/04 over into May).
func formatValidDate(year, month, day int) (string, bool) {
	built := time.Date(year, time.Month(month), day, 0, 0, 0, 0, time.UTC)
	if built.Year() != year || built.Month() != time.Month(month) || built.Day() != day {
		return "", false
	}
	return built.Format(dateLayout), true
}
