// Package domain models a CoCoRaHS daily precipitation observation as it is
// scraped from a station's public observation table.
//
// # Data Source
//
// Each CoCoRaHS station publishes its reports at
// https://dex.cocorahs.org/stations/<station>/obs-tables. The page is rendered
// client-side, so the table only exists after the page's scripts have run.
// Rows are listed newest first; the first row of the table body is taken as
// the most recent observation.
//
// # Table Conventions
//
// Columns used by this package (zero-based):
//
//	0  Observation date, "M/D/YYYY" optionally followed by the time, e.g. "3/5/2024 7:00 AM"
//	3  Gauge catch in inches, e.g. "0.12", "0.12 in", "T" (trace), "NA"
//
// A daily report covers the 24 hours ending at the observation time on the
// observation date, so the date is carried through as written and is never
// shifted between time zones.
//
// # Defaults
//
// Extraction never fails on page content. Every missing or malformed value
// degrades to a default and the condition is recorded as a [Fallback]:
//
//	no row / fewer than four cells  →  0.0 inches, today's date
//	gauge catch without digits       →  0.0 inches ("T" and "NA" land here)
//	date missing or unparsable       →  today's date in the configured location
//
// "Today" comes from the package clock so tests can pin it via [SetClock].
package domain
