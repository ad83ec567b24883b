package infer

import "encoding/json"

// ColumnType is the semantic type of a CSV column, inferred from a single
// sample value.
type ColumnType int

const (
	// TypeString is the fallback for anything that is neither numeric nor a
	// recognized timestamp. String columns never produce a numeric value.
	TypeString ColumnType = iota

	// TypeNumber is a plain numeric value: integer, decimal, or exponent
	// notation, with '.' or ',' as the decimal separator.
	TypeNumber

	// TypeHex is an integer literal with a 0x/0X prefix.
	TypeHex

	// TypeEpochSeconds through TypeEpochNanos are integer timestamps whose
	// magnitude falls inside the plausible epoch window at the respective
	// resolution.
	TypeEpochSeconds
	TypeEpochMillis
	TypeEpochMicros
	TypeEpochNanos

	// TypeDatetime is a textual calendar timestamp matched against one of the
	// known layouts.
	TypeDatetime
)

var columnTypeNames = [...]string{
	TypeString:       "string",
	TypeNumber:       "number",
	TypeHex:          "hex",
	TypeEpochSeconds: "epoch_seconds",
	TypeEpochMillis:  "epoch_millis",
	TypeEpochMicros:  "epoch_micros",
	TypeEpochNanos:   "epoch_nanos",
	TypeDatetime:     "datetime",
}

// String returns the lowercase name of the type.
func (t ColumnType) String() string {
	if t < 0 || int(t) >= len(columnTypeNames) {
		return "unknown"
	}
	return columnTypeNames[t]
}

// MarshalJSON encodes the type as its string name for API responses.
func (t ColumnType) MarshalJSON() ([]byte, error) {
	return json.Marshal(t.String())
}

// IsEpoch reports whether t is one of the integer epoch timestamp types.
func (t ColumnType) IsEpoch() bool {
	return t >= TypeEpochSeconds && t <= TypeEpochNanos
}

// ColumnTypeInfo is the cached result of column type detection.
//
// It is immutable once returned by [DetectColumnType]: compute it once per
// column, then share it read-only across any number of [ParseWithType] calls,
// from any number of goroutines.
type ColumnTypeInfo struct {
	Type ColumnType `json:"type"`

	// Format is the matched calendar layout. Meaningful only when Type is
	// TypeDatetime.
	Format string `json:"format,omitempty"`

	// HasFractional records whether the sample carried a sub-second part.
	// When false, ParseWithType skips the fractional split entirely.
	HasFractional bool `json:"has_fractional,omitempty"`
}
