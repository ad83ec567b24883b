package infer

// IsDayFirstFormat decides between day-first and month-first interpretation
// of an ambiguous date string by inspecting its first two numeric fields.
//
// A first field above 12 cannot be a month, so the string is day-first. Else
// a second field above 12 forces month-first. When both fields are 12 or
// less the input is genuinely ambiguous and day-first is assumed; the verdict
// may be semantically wrong for such input, which is an accepted trade-off.
func IsDayFirstFormat(s string, sep byte) bool {
	first, pos := leadingInt(s, 0)
	if pos < len(s) && s[pos] == sep {
		pos++
	}
	second, _ := leadingInt(s, pos)

	if first > 12 {
		return true
	}
	if second > 12 {
		return false
	}
	return true
}

// leadingInt reads the maximal run of digits starting at pos, returning the
// value and the position after the run.
func leadingInt(s string, pos int) (int, int) {
	n := 0
	for pos < len(s) && s[pos] >= '0' && s[pos] <= '9' {
		n = n*10 + int(s[pos]-'0')
		pos++
	}
	return n, pos
}
