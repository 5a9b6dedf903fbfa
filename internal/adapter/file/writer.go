package file

import (
	"context"
	"fmt"
	"os"

	"github.com/couchcryptid/rain-gauge-etl/internal/domain"
)

// Writer stores the reading as the JSON output file.
// It implements pipeline.Loader.
type Writer struct {
	path string
}

// NewWriter creates a Writer for path. Every Load replaces the whole file.
func NewWriter(path string) *Writer {
	return &Writer{path: path}
}

// Path returns the output file location.
func (w *Writer) Path() string { return w.path }

// Load encodes the reading and overwrites the output file with it.
func (w *Writer) Load(_ context.Context, result domain.Result) error {
	data, err := result.Reading.Encode()
	if err != nil {
		return err
	}
	if err := os.WriteFile(w.path, data, 0o644); err != nil {
		return fmt.Errorf("write %s: %w", w.path, err)
	}
	return nil
}
