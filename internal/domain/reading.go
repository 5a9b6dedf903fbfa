package domain

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"math"
	"time"
)

// DateLayout is the calendar date format used in the output record.
const DateLayout = "2006-01-02"

// ObservationRow holds the cell texts of one observation table row, in column order.
type ObservationRow struct {
	Cells []string
}

// Cell returns the text of cell i, or false when the row is shorter than that.
func (r ObservationRow) Cell(i int) (string, bool) {
	if i < 0 || i >= len(r.Cells) {
		return "", false
	}
	return r.Cells[i], true
}

// RainReading is the record written to rain_today.json.
type RainReading struct {
	Date          string  `json:"date"`
	TotalPrecipIn float64 `json:"total_precip_in"`
}

// Encode renders the reading as indented JSON with a trailing newline.
// Identical readings always encode to identical bytes.
func (r RainReading) Encode() ([]byte, error) {
	data, err := json.MarshalIndent(r, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("encode rain reading: %w", err)
	}
	return append(data, '\n'), nil
}

// DecodeReading parses an output file and checks it against the output
// contract: exactly the keys "date" and "total_precip_in", a YYYY-MM-DD date,
// and a finite, non-negative amount.
func DecodeReading(data []byte) (RainReading, error) {
	var fields map[string]json.RawMessage
	if err := json.Unmarshal(data, &fields); err != nil {
		return RainReading{}, fmt.Errorf("decode rain reading: %w", err)
	}
	if len(fields) != 2 {
		return RainReading{}, fmt.Errorf("decode rain reading: want 2 keys, got %d", len(fields))
	}
	for _, key := range []string{"date", "total_precip_in"} {
		if _, ok := fields[key]; !ok {
			return RainReading{}, fmt.Errorf("decode rain reading: missing key %q", key)
		}
	}

	var r RainReading
	dec := json.NewDecoder(bytes.NewReader(data))
	dec.DisallowUnknownFields()
	if err := dec.Decode(&r); err != nil {
		return RainReading{}, fmt.Errorf("decode rain reading: %w", err)
	}
	if _, err := time.Parse(DateLayout, r.Date); err != nil {
		return RainReading{}, fmt.Errorf("decode rain reading: invalid date %q", r.Date)
	}
	if math.IsNaN(r.TotalPrecipIn) || math.IsInf(r.TotalPrecipIn, 0) || r.TotalPrecipIn < 0 {
		return RainReading{}, errors.New("decode rain reading: total_precip_in must be a non-negative number")
	}
	return r, nil
}

// Fallback names a recoverable extraction condition that was replaced by a default.
type Fallback string

const (
	FallbackNoRow          Fallback = "no_row"
	FallbackShortRow       Fallback = "short_row"
	FallbackDateMissing    Fallback = "date_missing"
	FallbackDateUnparsable Fallback = "date_unparsable"
	FallbackPrecipMissing  Fallback = "precip_missing"
)

// Extraction is a reading together with the evidence it was derived from.
type Extraction struct {
	Reading   RainReading
	Row       *ObservationRow // nil when the table had no body rows
	RawDate   string
	RawGauge  string
	Fallbacks []Fallback
}

// Page is a rendered HTML document.
type Page struct {
	URL        string
	HTML       []byte
	Screenshot []byte // PNG; empty unless the renderer captured one
	FetchedAt  time.Time
}

// Result is one completed extraction run, handed to every sink.
type Result struct {
	Station     string
	SourceURL   string
	ExtractedAt time.Time
	Extraction
}
