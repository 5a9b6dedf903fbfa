package domain

import (
	"regexp"
	"strconv"
	"strings"
	"time"
)

var (
	// gaugeRe matches the first run of digits and decimal points, so units and
	// labels around the amount are ignored: "0.12 in" -> "0.12".
	gaugeRe = regexp.MustCompile(`[\d.]+`)

	// slashDateRe matches M/D/YYYY anywhere in the cell, e.g. "3/5/2024 7:00 AM".
	slashDateRe = regexp.MustCompile(`\b(\d{1,2})/(\d{1,2})/(\d{4})\b`)

	// freeFormLayouts are tried against the whole cell and its first word.
	freeFormLayouts = []string{
		time.RFC3339,
		"2006-01-02T15:04:05",
		"2006-01-02 15:04",
		"2006-01-02 3:04 PM",
		DateLayout,
		"Jan 2, 2006",
		"January 2, 2006",
		"Mon, Jan 2, 2006",
		"Monday, January 2, 2006",
		"Jan 2 2006",
		"2 Jan 2006",
		"02 Jan 2006",
	}
)

// ParseGaugeCatch reads a gauge catch in inches from cell text. Only the first
// run of digits and points counts, and within it the longest prefix that is a
// valid decimal ("1.2.3" -> 1.2). Returns false when the run holds no digit.
func ParseGaugeCatch(text string) (float64, bool) {
	run := gaugeRe.FindString(text)
	if run == "" {
		return 0, false
	}

	end, sawDigit, sawPoint := 0, false, false
	for end < len(run) {
		c := run[end]
		if c == '.' {
			if sawPoint {
				break
			}
			sawPoint = true
		} else {
			sawDigit = true
		}
		end++
	}
	if !sawDigit {
		return 0, false
	}

	v, err := strconv.ParseFloat(run[:end], 64)
	if err != nil {
		return 0, false
	}
	return v, true
}

// ParseObservationDate normalizes a date cell to YYYY-MM-DD. It tries, in order:
// an M/D/YYYY pattern, a set of free-form layouts, and a bare three-part split
// on "/" (two-digit years are taken as 20YY). The date is kept as written; no
// time zone conversion is applied.
func ParseObservationDate(text string) (string, bool) {
	text = strings.TrimSpace(text)
	if text == "" {
		return "", false
	}

	if m := slashDateRe.FindStringSubmatch(text); m != nil {
		if d, ok := formatDate(m[3], m[1], m[2]); ok {
			return d, true
		}
	}

	if d, ok := parseFreeForm(text); ok {
		return d, true
	}

	parts := strings.Split(text, "/")
	if len(parts) == 3 {
		year := strings.TrimSpace(parts[2])
		if len(year) == 2 {
			year = "20" + year
		}
		if d, ok := formatDate(year, parts[0], parts[1]); ok {
			return d, true
		}
	}

	return "", false
}

func parseFreeForm(text string) (string, bool) {
	candidates := []string{text}
	if fields := strings.Fields(text); len(fields) > 1 {
		candidates = append(candidates, fields[0])
	}
	for _, c := range candidates {
		for _, layout := range freeFormLayouts {
			if t, err := time.Parse(layout, c); err == nil {
				return t.Format(DateLayout), true
			}
		}
	}
	return "", false
}

// formatDate validates a year/month/day triple and renders it zero-padded.
// Out-of-range values such as 2/30 are rejected rather than normalized.
func formatDate(year, month, day string) (string, bool) {
	y, errY := strconv.Atoi(strings.TrimSpace(year))
	m, errM := strconv.Atoi(strings.TrimSpace(month))
	d, errD := strconv.Atoi(strings.TrimSpace(day))
	if errY != nil || errM != nil || errD != nil {
		return "", false
	}
	if y < 1 || m < 1 || m > 12 || d < 1 {
		return "", false
	}

	t := time.Date(y, time.Month(m), d, 0, 0, 0, 0, time.UTC)
	if t.Year() != y || int(t.Month()) != m || t.Day() != d {
		return "", false
	}
	return t.Format(DateLayout), true
}
