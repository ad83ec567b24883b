package infer

// The plausible epoch window, in seconds. Integers outside every scaled
// window are plain numbers, never timestamps; this is a magnitude heuristic,
// not calendar validation.
const (
	epochFirst int64 = 1_400_000_000 // 2014-07-14
	epochLast  int64 = 2_000_000_000 // 2033-05-18
)

// DetectEpochType classifies an integer as an epoch timestamp by magnitude,
// testing the nanosecond window first and descending to seconds. The first
// window the value falls strictly inside wins; integers outside all four
// windows are TypeNumber.
func DetectEpochType(ts int64) ColumnType {
	switch {
	case ts > epochFirst*1_000_000_000 && ts < epochLast*1_000_000_000:
		return TypeEpochNanos
	case ts > epochFirst*1_000_000 && ts < epochLast*1_000_000:
		return TypeEpochMicros
	case ts > epochFirst*1_000 && ts < epochLast*1_000:
		return TypeEpochMillis
	case ts > epochFirst && ts < epochLast:
		return TypeEpochSeconds
	default:
		return TypeNumber
	}
}

// EpochToSeconds converts an epoch count to seconds using the fixed scale for
// epochType, with no re-classification by magnitude. The division is floating
// point; nanosecond counts lose precision beyond the float64 mantissa.
func EpochToSeconds(ts int64, epochType ColumnType) float64 {
	switch epochType {
	case TypeEpochNanos:
		return float64(ts) * 1e-9
	case TypeEpochMicros:
		return float64(ts) * 1e-6
	case TypeEpochMillis:
		return float64(ts) * 1e-3
	default:
		return float64(ts)
	}
}
