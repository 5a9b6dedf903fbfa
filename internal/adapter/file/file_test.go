package file

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/couchcryptid/rain-gauge-etl/internal/domain"
)

func result(date string, precip float64) domain.Result {
	return domain.Result{
		Station: "SD-DV-38",
		Extraction: domain.Extraction{
			Reading: domain.RainReading{Date: date, TotalPrecipIn: precip},
		},
	}
}

func TestWriter_Load(t *testing.T) {
	path := filepath.Join(t.TempDir(), "rain_today.json")
	w := NewWriter(path)

	require.NoError(t, w.Load(context.Background(), result("2024-03-05", 0.12)))

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.JSONEq(t, `{"date":"2024-03-05","total_precip_in":0.12}`, string(data))
}

func TestWriter_OverwritesPreviousRun(t *testing.T) {
	path := filepath.Join(t.TempDir(), "rain_today.json")
	require.NoError(t, os.WriteFile(path, []byte(`{"date":"2024-03-04","total_precip_in":10.5,"stale":"padding padding padding"}`), 0o644))

	w := NewWriter(path)
	require.NoError(t, w.Load(context.Background(), result("2024-03-05", 0)))

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	r, err := domain.DecodeReading(data)
	require.NoError(t, err)
	assert.Equal(t, domain.RainReading{Date: "2024-03-05", TotalPrecipIn: 0}, r)
}

func TestWriter_Idempotent(t *testing.T) {
	path := filepath.Join(t.TempDir(), "rain_today.json")
	w := NewWriter(path)

	require.NoError(t, w.Load(context.Background(), result("2024-03-05", 0.12)))
	first, err := os.ReadFile(path)
	require.NoError(t, err)

	require.NoError(t, w.Load(context.Background(), result("2024-03-05", 0.12)))
	second, err := os.ReadFile(path)
	require.NoError(t, err)

	assert.Equal(t, first, second)
}

func TestWriter_MissingDirectory(t *testing.T) {
	w := NewWriter(filepath.Join(t.TempDir(), "missing", "rain_today.json"))

	err := w.Load(context.Background(), result("2024-03-05", 0))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "write")
}

func TestArtifactWriter_WritesScreenshotAndRow(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "debug")
	a := NewArtifactWriter(dir)

	page := domain.Page{URL: "https://example.test/obs", Screenshot: []byte("\x89PNG fake")}
	ex := domain.Extraction{
		Row:       &domain.ObservationRow{Cells: []string{"3/5/2024", "7:00 AM", "", "T"}},
		Fallbacks: []domain.Fallback{domain.FallbackPrecipMissing},
	}
	require.NoError(t, a.WriteArtifacts(page, ex))

	shot, err := os.ReadFile(filepath.Join(dir, screenshotName))
	require.NoError(t, err)
	assert.Equal(t, page.Screenshot, shot)

	dump, err := os.ReadFile(filepath.Join(dir, rowDumpName))
	require.NoError(t, err)
	assert.Equal(t, "url: https://example.test/obs\n0: 3/5/2024\n1: 7:00 AM\n2: \n3: T\nfallback: precip_missing\n", string(dump))
}

func TestArtifactWriter_NoScreenshotNoRow(t *testing.T) {
	dir := t.TempDir()
	a := NewArtifactWriter(dir)

	ex := domain.Extraction{Fallbacks: []domain.Fallback{domain.FallbackNoRow}}
	require.NoError(t, a.WriteArtifacts(domain.Page{URL: "u"}, ex))

	_, err := os.Stat(filepath.Join(dir, screenshotName))
	assert.True(t, os.IsNotExist(err))

	dump, err := os.ReadFile(filepath.Join(dir, rowDumpName))
	require.NoError(t, err)
	assert.Equal(t, "url: u\nno row found\nfallback: no_row\n", string(dump))
}
