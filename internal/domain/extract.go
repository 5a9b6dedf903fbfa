package domain

import "time"

// Extract derives a RainReading from a rendered document. It does not fail:
// a missing row, a short row, or unreadable cells each fall back to their
// default and are listed in the returned Fallbacks. loc decides what "today"
// means for the date fallback; nil means the process local time zone.
func Extract(html []byte, loc *time.Location) Extraction {
	row, ok := FirstRow(html)
	if !ok {
		return zeroExtraction(nil, loc, FallbackNoRow)
	}
	if len(row.Cells) < minCells {
		return zeroExtraction(&row, loc, FallbackShortRow)
	}

	ex := Extraction{Row: &row}

	ex.RawGauge, _ = row.Cell(GaugeCatchCell)
	precip, ok := ParseGaugeCatch(ex.RawGauge)
	if !ok {
		ex.Fallbacks = append(ex.Fallbacks, FallbackPrecipMissing)
	}
	ex.Reading.TotalPrecipIn = precip

	ex.RawDate, _ = row.Cell(DateCell)
	switch date, ok := ParseObservationDate(ex.RawDate); {
	case ex.RawDate == "":
		ex.Fallbacks = append(ex.Fallbacks, FallbackDateMissing)
		ex.Reading.Date = Today(loc)
	case !ok:
		ex.Fallbacks = append(ex.Fallbacks, FallbackDateUnparsable)
		ex.Reading.Date = Today(loc)
	default:
		ex.Reading.Date = date
	}

	return ex
}

func zeroExtraction(row *ObservationRow, loc *time.Location, reason Fallback) Extraction {
	return Extraction{
		Reading:   RainReading{Date: Today(loc), TotalPrecipIn: 0},
		Row:       row,
		Fallbacks: []Fallback{reason},
	}
}
