package infer

import (
	"strings"
	"time"
)

// Unambiguous calendar layouts, tried in order; the first layout that
// consumes the entire base string wins and no further layout is attempted.
// ISO forms come first so a "2024-..." string never reaches the ambiguous
// day/month logic.
var unambiguousLayouts = []string{
	"2006-01-02T15:04:05",
	"2006-01-02T15:04:05Z07:00",
	"2006-01-02 15:04:05",
	"2006-01-02 15:04:05-07:00",
	"2006-01-02",
	"2006/01/02 15:04:05",
}

// Resolver-selected layouts for ambiguous '/'- and '-'-separated dates.
// Single-digit layout fields accept one- or two-digit input.
const (
	dayFirstSlashLayout   = "2/1/2006 15:4:5"
	monthFirstSlashLayout = "1/2/2006 15:4:5"
	dayFirstDashLayout    = "2-1-2006 15:4:5"
	monthFirstDashLayout  = "1-2-2006 15:4:5"
)

// formatReplacer translates the user-facing format vocabulary into the
// calendar primitive's reference layout. "yyyy" must precede "yy" so the
// four-digit token is consumed first.
var formatReplacer = strings.NewReplacer(
	"yyyy", "2006",
	"yy", "06",
	"MM", "01",
	"dd", "02",
	"hh", "15",
	"HH", "15",
	"mm", "04",
	"ss", "05",
)

// matchLayout returns the first layout that parses base, following the fixed
// table and then the ambiguous-date resolver. The resolver is consulted only
// for strings containing '/' or '-' that do not start with '2' (already-ISO
// years are handled by the fixed table), and its verdict is trusted: only the
// selected variant is tried.
func matchLayout(base string) (string, time.Time, bool) {
	for _, layout := range unambiguousLayouts {
		if t, err := time.Parse(layout, base); err == nil {
			return layout, t, true
		}
	}

	if base == "" || base[0] == '2' {
		return "", time.Time{}, false
	}

	if strings.IndexByte(base, '/') >= 0 {
		layout := monthFirstSlashLayout
		if IsDayFirstFormat(base, '/') {
			layout = dayFirstSlashLayout
		}
		if t, err := time.Parse(layout, base); err == nil {
			return layout, t, true
		}
	}

	if strings.IndexByte(base, '-') >= 0 {
		layout := monthFirstDashLayout
		if IsDayFirstFormat(base, '-') {
			layout = dayFirstDashLayout
		}
		if t, err := time.Parse(layout, base); err == nil {
			return layout, t, true
		}
	}

	return "", time.Time{}, false
}

// tryLayout parses base against a single layout and combines the result with
// previously extracted fractional nanoseconds into seconds since epoch.
func tryLayout(base, layout string, nanos int64) (float64, bool) {
	t, err := time.Parse(layout, base)
	if err != nil {
		return 0, false
	}
	return float64(t.Unix()) + float64(nanos)*1e-9, true
}

// FormatParseTimestamp parses value against an explicit user-supplied format,
// bypassing the automatic format table entirely.
//
// The format vocabulary is yyyy, yy, MM, dd, hh/HH, mm, ss, plus an optional
// ".zzz" fractional marker (a dot followed by one or more 'z') that consumes
// whichever fractional digits the value carries at that position, exactly
// like the automatic fractional extraction.
func FormatParseTimestamp(value, format string) (float64, bool) {
	trimmed := Trim(value)
	if trimmed == "" {
		return 0, false
	}

	var nanos int64
	if dot := strings.Index(format, ".z"); dot >= 0 {
		end := dot + 1
		for end < len(format) && format[end] == 'z' {
			end++
		}
		format = format[:dot] + format[end:]
		trimmed, nanos = ExtractFractionalSeconds(trimmed)
	}

	return tryLayout(trimmed, formatReplacer.Replace(format), nanos)
}
