// Command genmock writes a synthetic CoCoRaHS observation table page and the
// rain_today.json the job produces for it. It runs the page through the real
// domain package, so the expected file always matches pipeline behavior.
//
// Usage:
//
//	go run ./cmd/genmock \
//	  -days 14 \
//	  -html-out data/mock/obs_table.html \
//	  -json-out data/mock/rain_today.json
//
// Serve the page with any static file server and point SOURCE_URL at it, or
// feed both files to cmd/validate with -html and -output.
package main

import (
	"flag"
	"fmt"
	"html"
	"log"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/couchcryptid/rain-gauge-etl/internal/domain"
	"github.com/jonboulle/clockwork"
)

// lastObs is the newest observation date on the generated page.
var lastObs = time.Date(2024, time.April, 26, 0, 0, 0, 0, time.UTC)

// catches cycles through the gauge catch spellings seen on real tables.
var catches = []string{"0.37 in", "T", "0.00", "1.05", "NA", "0.12 in", "0.8"}

func main() {
	if err := run(); err != nil {
		log.Fatal(err)
	}
}

func run() error {
	days := flag.Int("days", 14, "number of observation rows, newest first")
	station := flag.String("station", "SD-DV-38", "station id shown in the page title")
	htmlOut := flag.String("html-out", "", "output path for the observation page")
	jsonOut := flag.String("json-out", "", "output path for the expected reading")
	flag.Parse()

	if err := checkFlags(*days, *htmlOut, *jsonOut); err != nil {
		flag.Usage()
		return err
	}

	// Fixed clock so a zero-row page still yields a reproducible fallback date.
	domain.SetClock(clockwork.NewFakeClockAt(lastObs.Add(13 * time.Hour)))
	defer domain.SetClock(nil)

	page := renderPage(*station, *days)
	ex := domain.Extract([]byte(page), time.UTC)
	data, err := ex.Reading.Encode()
	if err != nil {
		return err
	}

	if err := writeFile(*htmlOut, []byte(page)); err != nil {
		return err
	}
	if err := writeFile(*jsonOut, data); err != nil {
		return err
	}

	log.Printf("%d rows, expected reading %s %.2f in", *days, ex.Reading.Date, ex.Reading.TotalPrecipIn)
	for _, f := range ex.Fallbacks {
		log.Printf("fallback: %s", f)
	}
	return nil
}

func checkFlags(days int, htmlOut, jsonOut string) error {
	if htmlOut == "" || jsonOut == "" {
		return fmt.Errorf("missing required flags: -html-out, -json-out")
	}
	if days < 0 {
		return fmt.Errorf("invalid -days %d: must not be negative", days)
	}
	return nil
}

func renderPage(station string, days int) string {
	var b strings.Builder
	fmt.Fprintf(&b, "<!DOCTYPE html>\n<html lang=\"en\">\n<head><title>%s Observation Tables</title></head>\n<body>\n", html.EscapeString(station))
	b.WriteString("<table class=\"obs-table\">\n<thead><tr><th>Obs Date</th><th>Obs Time</th><th>Entry Date</th><th>Gauge Catch (in)</th><th>New Snow (in)</th><th>Total Snow (in)</th></tr></thead>\n<tbody>\n")
	for i := 0; i < days; i++ {
		d := lastObs.AddDate(0, 0, -i)
		obs := fmt.Sprintf("%d/%d/%d", d.Month(), d.Day(), d.Year())
		fmt.Fprintf(&b, "<tr><td>%s</td><td>7:00 AM</td><td>%s 7:%02d AM</td><td>%s</td><td>0.0</td><td>0.0</td></tr>\n",
			obs, obs, i%60, html.EscapeString(catches[i%len(catches)]))
	}
	b.WriteString("</tbody>\n</table>\n</body>\n</html>\n")
	return b.String()
}

func writeFile(path string, data []byte) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("create directory for %s: %w", path, err)
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("write %s: %w", path, err)
	}
	return nil
}
