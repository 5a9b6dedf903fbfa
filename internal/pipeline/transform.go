package pipeline

import (
	"log/slog"
	"time"

	"github.com/couchcryptid/rain-gauge-etl/internal/domain"
)

// TableTransformer implements Transformer by reading the first row of the
// observation table.
type TableTransformer struct {
	loc    *time.Location
	logger *slog.Logger
}

// NewTransformer creates a TableTransformer. loc decides the fallback date;
// nil means the process local time zone.
func NewTransformer(loc *time.Location, logger *slog.Logger) *TableTransformer {
	return &TableTransformer{
		loc:    loc,
		logger: logger,
	}
}

func (t *TableTransformer) Transform(page domain.Page) domain.Extraction {
	ex := domain.Extract(page.HTML, t.loc)

	for _, f := range ex.Fallbacks {
		t.logger.Warn("extraction fallback applied",
			"reason", f,
			"url", page.URL,
			"raw_date", ex.RawDate,
			"raw_gauge", ex.RawGauge,
		)
	}
	return ex
}
