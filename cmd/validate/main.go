// Command validate checks a rain_today.json file against the output contract
// and, optionally, against the page it was extracted from. It is meant for CI
// and for eyeballing a deployment after a run.
//
// Usage:
//
//	go run ./cmd/validate -output rain_today.json
//	go run ./cmd/validate -output rain_today.json -html page.html -max-age 2 -tz America/Denver
package main

import (
	"bytes"
	"flag"
	"fmt"
	"os"
	"time"
	_ "time/tzdata"

	"github.com/couchcryptid/rain-gauge-etl/internal/domain"
)

// phase tracks pass/fail for a validation phase.
type phase struct {
	name   string
	errors []string
}

func (p *phase) errorf(format string, args ...any) {
	p.errors = append(p.errors, fmt.Sprintf(format, args...))
}

func (p *phase) passed() bool { return len(p.errors) == 0 }

func main() {
	output := flag.String("output", "rain_today.json", "path to the output file to validate")
	htmlPath := flag.String("html", "", "optional saved page to re-extract and compare against")
	maxAge := flag.Int("max-age", 0, "fail when the reading is older than this many days (0 disables)")
	tz := flag.String("tz", "Local", "time zone that decides today for -max-age and date fallbacks")
	flag.Parse()

	loc, err := time.LoadLocation(*tz)
	if err != nil {
		fmt.Fprintf(os.Stderr, "FATAL: load time zone: %v\n", err)
		os.Exit(1)
	}

	if code := run(*output, *htmlPath, *maxAge, loc); code != 0 {
		os.Exit(code)
	}
}

func run(outputPath, htmlPath string, maxAge int, loc *time.Location) int {
	fmt.Println("=== Rain Reading Validation ===")
	fmt.Println()

	data, err := os.ReadFile(outputPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "FATAL: read output: %v\n", err)
		return 1
	}

	var page []byte
	if htmlPath != "" {
		page, err = os.ReadFile(htmlPath)
		if err != nil {
			fmt.Fprintf(os.Stderr, "FATAL: read page: %v\n", err)
			return 1
		}
	}

	phases := validate(data, page, maxAge, loc)

	// ── Report results ──
	allPassed := true
	for _, p := range phases {
		status := "\033[32mPASS\033[0m"
		if !p.passed() {
			status = fmt.Sprintf("\033[31mFAIL (%d errors)\033[0m", len(p.errors))
			allPassed = false
		}
		fmt.Printf("  %-42s %s\n", p.name, status)
	}

	for _, p := range phases {
		if p.passed() {
			continue
		}
		fmt.Printf("\n--- %s ---\n", p.name)
		for i, e := range p.errors {
			fmt.Printf("  [%d] %s\n", i+1, e)
		}
	}

	if allPassed {
		fmt.Println("\nAll validations passed.")
		return 0
	}
	fmt.Println("\nValidation FAILED.")
	return 1
}

// validate runs every applicable phase. Phases after the contract check are
// skipped when the file cannot be decoded.
func validate(data, page []byte, maxAge int, loc *time.Location) []*phase {
	contract := &phase{name: "Output contract"}
	reading, err := domain.DecodeReading(data)
	if err != nil {
		contract.errorf("%v", err)
		return []*phase{contract}
	}

	phases := []*phase{
		contract,
		validateFormatting(data, reading),
	}
	if maxAge > 0 {
		phases = append(phases, validateFreshness(reading, maxAge, loc))
	}
	if page != nil {
		phases = append(phases, validatePageParity(reading, page, loc))
	}
	return phases
}

// validateFormatting checks the file is exactly what the job would write for
// this reading, so reruns produce no diff.
func validateFormatting(data []byte, r domain.RainReading) *phase {
	p := &phase{name: "Canonical formatting"}
	want, err := r.Encode()
	if err != nil {
		p.errorf("re-encode: %v", err)
		return p
	}
	if !bytes.Equal(data, want) {
		p.errorf("file is not canonically formatted:\n got: %q\nwant: %q", data, want)
	}
	return p
}

func validateFreshness(r domain.RainReading, maxAge int, loc *time.Location) *phase {
	p := &phase{name: fmt.Sprintf("Freshness (max %d days)", maxAge)}
	// Both dates are compared as UTC midnights so DST shifts in loc do not
	// change the day count.
	obs, err := time.Parse(domain.DateLayout, r.Date)
	if err != nil {
		p.errorf("parse date %q: %v", r.Date, err)
		return p
	}
	today, _ := time.Parse(domain.DateLayout, domain.Today(loc))
	age := int(today.Sub(obs) / (24 * time.Hour))
	switch {
	case age < 0:
		p.errorf("reading date %s is in the future", r.Date)
	case age > maxAge:
		p.errorf("reading date %s is %d days old", r.Date, age)
	}
	return p
}

// validatePageParity re-extracts page and compares it with the stored
// reading. A date that came from the "today" fallback is not compared.
func validatePageParity(r domain.RainReading, page []byte, loc *time.Location) *phase {
	p := &phase{name: "Page parity"}
	ex := domain.Extract(page, loc)
	for _, f := range ex.Fallbacks {
		p.errorf("page needed fallback %s", f)
	}
	if !hasFallback(ex.Fallbacks, domain.FallbackNoRow, domain.FallbackShortRow, domain.FallbackDateMissing, domain.FallbackDateUnparsable) &&
		ex.Reading.Date != r.Date {
		p.errorf("date: file %s, page %s", r.Date, ex.Reading.Date)
	}
	if ex.Reading.TotalPrecipIn != r.TotalPrecipIn {
		p.errorf("total_precip_in: file %v, page %v", r.TotalPrecipIn, ex.Reading.TotalPrecipIn)
	}
	return p
}

func hasFallback(fs []domain.Fallback, want ...domain.Fallback) bool {
	for _, f := range fs {
		for _, w := range want {
			if f == w {
				return true
			}
		}
	}
	return false
}
