package main

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/couchcryptid/rain-gauge-etl/internal/domain"
)

func TestRenderPage_NewestRowFirst(t *testing.T) {
	page := renderPage("SD-DV-38", 3)

	row, ok := domain.FirstRow([]byte(page))
	require.True(t, ok)
	assert.Equal(t, []string{"4/26/2024", "7:00 AM", "4/26/2024 7:00 AM", "0.37 in", "0.0", "0.0"}, row.Cells)

	ex := domain.Extract([]byte(page), time.UTC)
	assert.Equal(t, domain.RainReading{Date: "2024-04-26", TotalPrecipIn: 0.37}, ex.Reading)
	assert.Empty(t, ex.Fallbacks)
}

func TestRenderPage_NoRows(t *testing.T) {
	_, ok := domain.FirstRow([]byte(renderPage("SD-DV-38", 0)))
	assert.False(t, ok)
}

func TestCheckFlags(t *testing.T) {
	tests := []struct {
		name    string
		days    int
		html    string
		json    string
		wantErr string
	}{
		{name: "valid", days: 14, html: "a.html", json: "a.json"},
		{name: "zero days", days: 0, html: "a.html", json: "a.json"},
		{name: "missing html", days: 14, json: "a.json", wantErr: "missing required flags"},
		{name: "missing json", days: 14, html: "a.html", wantErr: "missing required flags"},
		{name: "negative days", days: -3, html: "a.html", json: "a.json", wantErr: "invalid -days -3"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := checkFlags(tt.days, tt.html, tt.json)
			if tt.wantErr == "" {
				assert.NoError(t, err)
				return
			}
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.wantErr)
		})
	}
}
