package file

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/couchcryptid/rain-gauge-etl/internal/domain"
)

const (
	screenshotName = "page.png"
	rowDumpName    = "first_row.txt"
)

// ArtifactWriter saves a full-page screenshot and a dump of the first row's
// cells for inspection. It implements pipeline.ArtifactWriter.
type ArtifactWriter struct {
	dir string
}

// NewArtifactWriter creates an ArtifactWriter that writes into dir.
func NewArtifactWriter(dir string) *ArtifactWriter {
	return &ArtifactWriter{dir: dir}
}

// WriteArtifacts writes every artifact it can and returns the joined errors.
// The screenshot is skipped when the renderer did not capture one.
func (a *ArtifactWriter) WriteArtifacts(page domain.Page, ex domain.Extraction) error {
	if err := os.MkdirAll(a.dir, 0o755); err != nil {
		return fmt.Errorf("create debug dir: %w", err)
	}

	var errs []error
	if len(page.Screenshot) > 0 {
		if err := os.WriteFile(filepath.Join(a.dir, screenshotName), page.Screenshot, 0o644); err != nil {
			errs = append(errs, fmt.Errorf("write screenshot: %w", err))
		}
	}
	if err := os.WriteFile(filepath.Join(a.dir, rowDumpName), []byte(formatRow(page.URL, ex)), 0o644); err != nil {
		errs = append(errs, fmt.Errorf("write row dump: %w", err))
	}
	return errors.Join(errs...)
}

// formatRow renders the first row one cell per line, prefixed by its index.
func formatRow(url string, ex domain.Extraction) string {
	var b strings.Builder
	fmt.Fprintf(&b, "url: %s\n", url)
	if ex.Row == nil {
		b.WriteString("no row found\n")
	} else {
		for i, cell := range ex.Row.Cells {
			fmt.Fprintf(&b, "%d: %s\n", i, cell)
		}
	}
	for _, f := range ex.Fallbacks {
		fmt.Fprintf(&b, "fallback: %s\n", f)
	}
	return b.String()
}
