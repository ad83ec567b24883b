package infer

import (
	"strconv"
	"strings"
)

// Trim returns s without leading and trailing spaces, tabs, CR, and LF.
// Every entry point trims its input first, so all downstream classification
// can assume no surrounding whitespace.
func Trim(s string) string {
	return strings.Trim(s, " \t\r\n")
}

// numericInfo is the transient result of a syntactic numeric scan. It never
// escapes this package.
type numericInfo struct {
	isNumber    bool
	hasDecimal  bool
	hasExponent bool
}

// checkNumeric scans s for numeric syntax: at most one decimal marker ('.' or
// ','), at most one exponent marker ('e'/'E'), and sign characters only at
// position 0 or immediately after the exponent marker. A string with no digit,
// or ending in an exponent or sign, is not a number.
//
// This is a syntactic classifier only; it produces no value.
func checkNumeric(s string) numericInfo {
	if s == "" {
		return numericInfo{}
	}

	info := numericInfo{isNumber: true}
	hasDigit := false

	for i := 0; i < len(s); i++ {
		c := s[i]
		switch {
		case c == 'e' || c == 'E':
			if info.hasExponent {
				info.isNumber = false
				return info
			}
			info.hasExponent = true

		case c == '+' || c == '-':
			if i == 0 || s[i-1] == 'e' || s[i-1] == 'E' {
				continue
			}
			info.isNumber = false
			return info

		case c == '.' || c == ',':
			if info.hasDecimal || info.hasExponent {
				info.isNumber = false
				return info
			}
			info.hasDecimal = true

		case c >= '0' && c <= '9':
			hasDigit = true

		default:
			info.isNumber = false
			return info
		}
	}

	last := s[len(s)-1]
	if !hasDigit || last == 'e' || last == 'E' || last == '+' || last == '-' {
		info.isNumber = false
	}
	return info
}

// ToDouble parses s as a floating point value, accepting either '.' or ',' as
// the decimal separator. Commas are normalized to dots here; the underlying
// primitive is locale-independent and accepts '.' only.
func ToDouble(s string) (float64, bool) {
	return parseLocaleDouble(strings.ReplaceAll(s, ",", "."))
}

// parseLocaleDouble is the locale-independent float primitive.
func parseLocaleDouble(s string) (float64, bool) {
	v, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return 0, false
	}
	return v, true
}
