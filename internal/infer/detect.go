package infer

import (
	"strconv"
	"strings"
)

// DetectColumnType classifies a single sample value. It is meant to run once
// per column, typically on the first non-empty cell; the returned
// ColumnTypeInfo is then applied to every remaining row via [ParseWithType].
//
// Decision order, first match wins: empty input, hex prefix, decimal or
// exponent number, integral number (epoch window check), calendar timestamp.
// Unrecognized input degrades to TypeString; this function never fails.
func DetectColumnType(sample string) ColumnTypeInfo {
	trimmed := Trim(sample)
	if trimmed == "" {
		return ColumnTypeInfo{Type: TypeString}
	}

	// 0x/0X prefix with at least one character after it. No value parse is
	// attempted here; any content counts.
	if len(trimmed) > 2 && trimmed[0] == '0' && (trimmed[1] == 'x' || trimmed[1] == 'X') {
		return ColumnTypeInfo{Type: TypeHex}
	}

	if info := checkNumeric(trimmed); info.isNumber {
		if info.hasDecimal || info.hasExponent {
			return ColumnTypeInfo{Type: TypeNumber}
		}
		ts, err := strconv.ParseInt(trimmed, 10, 64)
		if err != nil {
			// Digit run too long for int64; still a plain number.
			return ColumnTypeInfo{Type: TypeNumber}
		}
		return ColumnTypeInfo{Type: DetectEpochType(ts)}
	}

	base, nanos := ExtractFractionalSeconds(trimmed)
	hasFractional := nanos > 0 || base != trimmed

	if layout, _, ok := matchLayout(base); ok {
		return ColumnTypeInfo{Type: TypeDatetime, Format: layout, HasFractional: hasFractional}
	}

	return ColumnTypeInfo{Type: TypeString}
}

// ParseWithType converts value using a previously detected ColumnTypeInfo,
// re-applying exactly the detected rule with no re-detection: epoch types use
// their fixed scale regardless of magnitude, and datetime values are matched
// only against the stored layout, never the format table.
//
// TypeString columns always yield ok=false, as does any malformed value; a
// bad row never aborts the caller's batch.
func ParseWithType(value string, info ColumnTypeInfo) (float64, bool) {
	trimmed := Trim(value)
	if trimmed == "" {
		return 0, false
	}

	switch info.Type {
	case TypeNumber:
		return ToDouble(trimmed)

	case TypeHex:
		return parseHex(trimmed)

	case TypeEpochSeconds, TypeEpochMillis, TypeEpochMicros, TypeEpochNanos:
		ts, err := strconv.ParseInt(trimmed, 10, 64)
		if err != nil {
			return 0, false
		}
		return EpochToSeconds(ts, info.Type), true

	case TypeDatetime:
		base, nanos := trimmed, int64(0)
		if info.HasFractional {
			base, nanos = ExtractFractionalSeconds(trimmed)
		}
		return tryLayout(base, info.Format, nanos)

	default:
		return 0, false
	}
}

// AutoParseTimestamp detects and parses in a single call, for callers that do
// not keep a per-column cache. The decision tree mirrors [DetectColumnType];
// nothing matching yields ok=false.
func AutoParseTimestamp(value string) (float64, bool) {
	trimmed := Trim(value)
	if trimmed == "" {
		return 0, false
	}

	if len(trimmed) > 2 && trimmed[0] == '0' && (trimmed[1] == 'x' || trimmed[1] == 'X') {
		return parseHex(trimmed)
	}

	if info := checkNumeric(trimmed); info.isNumber {
		if !info.hasDecimal && !info.hasExponent {
			if ts, err := strconv.ParseInt(trimmed, 10, 64); err == nil {
				return EpochToSeconds(ts, DetectEpochType(ts)), true
			}
			// Overflowing digit runs degrade to a plain number below.
		}
		return ToDouble(trimmed)
	}

	base, nanos := ExtractFractionalSeconds(trimmed)
	if _, t, ok := matchLayout(base); ok {
		return float64(t.Unix()) + float64(nanos)*1e-9, true
	}

	return 0, false
}

// parseHex parses a base-16 integer, with or without the 0x prefix, and
// reinterprets it as a float64.
func parseHex(s string) (float64, bool) {
	s = strings.TrimPrefix(strings.TrimPrefix(s, "0x"), "0X")
	n, err := strconv.ParseInt(s, 16, 64)
	if err != nil {
		return 0, false
	}
	return float64(n), true
}
