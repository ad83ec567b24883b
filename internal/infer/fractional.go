package infer

import (
	"strconv"
	"strings"
)

// ExtractFractionalSeconds splits an optional sub-second suffix from a
// timestamp string, returning the string with the fractional run removed and
// the fraction as a nanosecond count in [0, 999_999_999].
//
// The suffix is recognized only when the last '.' comes after the last ':',
// so a dot that belongs to a date ("2024.01.01") is left alone. The digit run
// after the dot is normalized to exactly 9 digits: padded with trailing zeros
// below 9, truncated beyond 9 (".5" is 500_000_000 ns).
func ExtractFractionalSeconds(s string) (string, int64) {
	dot := strings.LastIndexByte(s, '.')
	colon := strings.LastIndexByte(s, ':')
	if dot < 0 || colon < 0 || dot <= colon {
		return s, 0
	}

	start := dot + 1
	end := start
	for end < len(s) && s[end] >= '0' && s[end] <= '9' {
		end++
	}
	if end == start {
		return s, 0
	}

	frac := s[start:end]
	if len(frac) < 9 {
		frac += strings.Repeat("0", 9-len(frac))
	} else {
		frac = frac[:9]
	}

	// frac is all digits at this point; a parse failure still degrades to zero
	// rather than surfacing.
	nanos, err := strconv.ParseInt(frac, 10, 64)
	if err != nil {
		nanos = 0
	}

	return s[:dot] + s[end:], nanos
}
