package infer

import (
	"math"
	"testing"
)

func TestDetectColumnType(t *testing.T) {
	tests := []struct {
		name     string
		input    string
		wantType ColumnType
		wantFmt  string
		wantFrac bool
	}{
		// Strings
		{name: "empty", input: "", wantType: TypeString},
		{name: "whitespace only", input: " \t\r\n", wantType: TypeString},
		{name: "plain text", input: "not a date", wantType: TypeString},
		{name: "time without date", input: "12:30:45", wantType: TypeString},

		// Hex
		{name: "hex lowercase", input: "0x1F", wantType: TypeHex},
		{name: "hex uppercase prefix", input: "0XABC", wantType: TypeHex},
		{name: "hex content not validated", input: "0xZZZ", wantType: TypeHex},
		{name: "bare 0x is not hex", input: "0x", wantType: TypeString},

		// Numbers
		{name: "integer below epoch window", input: "42", wantType: TypeNumber},
		{name: "decimal", input: "3.14", wantType: TypeNumber},
		{name: "comma decimal", input: "3,14", wantType: TypeNumber},
		{name: "exponent", input: "1.5e3", wantType: TypeNumber},
		{name: "integral exponent", input: "2e10", wantType: TypeNumber},
		{name: "overflowing digit run", input: "99999999999999999999999", wantType: TypeNumber},
		{name: "negative integer", input: "-1700000000", wantType: TypeNumber},

		// Epoch timestamps
		{name: "epoch seconds", input: "1700000000", wantType: TypeEpochSeconds},
		{name: "epoch millis", input: "1700000000000", wantType: TypeEpochMillis},
		{name: "epoch micros", input: "1700000000000000", wantType: TypeEpochMicros},
		{name: "epoch nanos", input: "1700000000000000000", wantType: TypeEpochNanos},

		// Datetimes
		{
			name:     "iso datetime",
			input:    "2024-01-15T10:30:00",
			wantType: TypeDatetime,
			wantFmt:  "2006-01-02T15:04:05",
		},
		{
			name:     "space separated datetime",
			input:    "2024-01-15 10:30:00",
			wantType: TypeDatetime,
			wantFmt:  "2006-01-02 15:04:05",
		},
		{
			name:     "date only",
			input:    "2024-01-15",
			wantType: TypeDatetime,
			wantFmt:  "2006-01-02",
		},
		{
			name:     "datetime with fraction",
			input:    "2024-01-15 10:30:45.5",
			wantType: TypeDatetime,
			wantFmt:  "2006-01-02 15:04:05",
			wantFrac: true,
		},
		{
			name:     "day first ambiguous",
			input:    "13/05/2024 10:30:00",
			wantType: TypeDatetime,
			wantFmt:  dayFirstSlashLayout,
		},
		{
			name:     "month first ambiguous",
			input:    "05/13/2024 10:30:00",
			wantType: TypeDatetime,
			wantFmt:  monthFirstSlashLayout,
		},
		{
			name:     "surrounding whitespace ignored",
			input:    "  2024-01-15  ",
			wantType: TypeDatetime,
			wantFmt:  "2006-01-02",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := DetectColumnType(tt.input)
			if got.Type != tt.wantType {
				t.Fatalf("DetectColumnType(%q).Type = %v, want %v", tt.input, got.Type, tt.wantType)
			}
			if got.Type == TypeDatetime && got.Format != tt.wantFmt {
				t.Errorf("Format = %q, want %q", got.Format, tt.wantFmt)
			}
			if got.HasFractional != tt.wantFrac {
				t.Errorf("HasFractional = %v, want %v", got.HasFractional, tt.wantFrac)
			}
		})
	}
}

func TestDetectColumnTypeIdempotent(t *testing.T) {
	samples := []string{"", "42", "3.14", "0x1F", "1700000000", "2024-01-15T10:30:00", "2024-01-15 10:30:45.5", "not a date"}
	for _, s := range samples {
		first := DetectColumnType(s)
		second := DetectColumnType(s)
		if first != second {
			t.Errorf("DetectColumnType(%q) not idempotent: %+v vs %+v", s, first, second)
		}
	}
}

func TestParseWithType(t *testing.T) {
	tests := []struct {
		name   string
		value  string
		info   ColumnTypeInfo
		want   float64
		wantOK bool
	}{
		{
			name:   "number",
			value:  "3.14",
			info:   ColumnTypeInfo{Type: TypeNumber},
			want:   3.14,
			wantOK: true,
		},
		{
			name:   "number with comma",
			value:  "3,14",
			info:   ColumnTypeInfo{Type: TypeNumber},
			want:   3.14,
			wantOK: true,
		},
		{
			name:   "hex",
			value:  "0x1F",
			info:   ColumnTypeInfo{Type: TypeHex},
			want:   31,
			wantOK: true,
		},
		{
			name:   "hex without prefix still parses",
			value:  "1F",
			info:   ColumnTypeInfo{Type: TypeHex},
			want:   31,
			wantOK: true,
		},
		{
			name:   "epoch seconds",
			value:  "1700000000",
			info:   ColumnTypeInfo{Type: TypeEpochSeconds},
			want:   1_700_000_000,
			wantOK: true,
		},
		{
			name:   "epoch millis",
			value:  "1700000000500",
			info:   ColumnTypeInfo{Type: TypeEpochMillis},
			want:   1_700_000_000.5,
			wantOK: true,
		},
		{
			name:   "datetime with stored layout",
			value:  "2024-01-15T10:30:00",
			info:   ColumnTypeInfo{Type: TypeDatetime, Format: "2006-01-02T15:04:05"},
			want:   jan15Epoch,
			wantOK: true,
		},
		{
			name:   "datetime with fraction",
			value:  "2024-01-15 10:30:00.25",
			info:   ColumnTypeInfo{Type: TypeDatetime, Format: "2006-01-02 15:04:05", HasFractional: true},
			want:   jan15Epoch + 0.25,
			wantOK: true,
		},
		{
			name:  "fraction ignored when not recorded",
			value: "2024-01-15 10:30:00.25",
			info:  ColumnTypeInfo{Type: TypeDatetime, Format: "2006-01-02 15:04:05"},
			// The stored layout has no fractional part, so the unsplit value
			// cannot match.
			wantOK: false,
		},
		{
			name:   "string never parses",
			value:  "anything",
			info:   ColumnTypeInfo{Type: TypeString},
			wantOK: false,
		},
		{
			name:   "malformed number",
			value:  "abc",
			info:   ColumnTypeInfo{Type: TypeNumber},
			wantOK: false,
		},
		{
			name:   "malformed epoch",
			value:  "12:34",
			info:   ColumnTypeInfo{Type: TypeEpochSeconds},
			wantOK: false,
		},
		{
			name:   "malformed hex",
			value:  "0xZZ",
			info:   ColumnTypeInfo{Type: TypeHex},
			wantOK: false,
		},
		{
			name:   "empty value",
			value:  "",
			info:   ColumnTypeInfo{Type: TypeNumber},
			wantOK: false,
		},
		{
			name:   "whitespace only",
			value:  "  \t ",
			info:   ColumnTypeInfo{Type: TypeEpochSeconds},
			wantOK: false,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, ok := ParseWithType(tt.value, tt.info)
			if ok != tt.wantOK {
				t.Fatalf("ParseWithType(%q, %+v) ok = %v, want %v", tt.value, tt.info, ok, tt.wantOK)
			}
			if ok && math.Abs(got-tt.want) > 1e-9 {
				t.Errorf("ParseWithType(%q, %+v) = %v, want %v", tt.value, tt.info, got, tt.want)
			}
		})
	}
}

// A small integer in an epoch-millis column divides by the recorded scale;
// the value's own magnitude is never re-inspected on the fast path.
func TestParseWithTypeFixedScale(t *testing.T) {
	got, ok := ParseWithType("5000", ColumnTypeInfo{Type: TypeEpochMillis})
	if !ok || got != 5 {
		t.Fatalf("got (%v, %v), want (5, true)", got, ok)
	}
}

func TestAutoParseTimestamp(t *testing.T) {
	tests := []struct {
		name   string
		input  string
		want   float64
		wantOK bool
	}{
		{name: "plain number", input: "42", want: 42, wantOK: true},
		{name: "decimal", input: "3.14", want: 3.14, wantOK: true},
		{name: "comma decimal", input: "3,14", want: 3.14, wantOK: true},
		{name: "hex", input: "0x1F", want: 31, wantOK: true},
		{name: "epoch seconds", input: "1700000000", want: 1_700_000_000, wantOK: true},
		{name: "epoch millis", input: "1700000000500", want: 1_700_000_000.5, wantOK: true},
		{name: "epoch nanos", input: "1700000000123456789", want: 1_700_000_000.123456789, wantOK: true},
		{name: "overflowing integer as number", input: "100000000000000000000", want: 1e20, wantOK: true},
		{name: "iso datetime", input: "2024-01-15T10:30:00", want: jan15Epoch, wantOK: true},
		{name: "datetime with fraction", input: "2024-01-15 10:30:00.5", want: jan15Epoch + 0.5, wantOK: true},
		{name: "day first", input: "13/05/2024 10:30:00", want: may13Epoch, wantOK: true},
		{name: "month first", input: "05/13/2024 10:30:00", want: may13Epoch, wantOK: true},
		{name: "dash day first", input: "13-05-2024 10:30:00", want: may13Epoch, wantOK: true},
		{name: "offset shifts epoch", input: "2024-01-15T10:30:00+01:00", want: jan15Epoch - 3600, wantOK: true},
		{name: "not parseable", input: "not a date", wantOK: false},
		{name: "empty", input: "", wantOK: false},
		{name: "whitespace only", input: "   ", wantOK: false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, ok := AutoParseTimestamp(tt.input)
			if ok != tt.wantOK {
				t.Fatalf("AutoParseTimestamp(%q) ok = %v, want %v", tt.input, ok, tt.wantOK)
			}
			if ok && math.Abs(got-tt.want) > 1e-6 {
				t.Errorf("AutoParseTimestamp(%q) = %v, want %v", tt.input, got, tt.want)
			}
		})
	}
}

// Detect-then-parse must agree with one-shot auto parsing on representative
// values of every type.
func TestDetectParseRoundTrip(t *testing.T) {
	samples := []string{
		"42",
		"3.14",
		"0x1F",
		"1718000000",
		"1700000000000",
		"2024-01-15T10:30:00",
		"2024-01-15 10:30:45.5",
		"13/05/2024 10:30:00",
		"not a date",
		"",
	}

	for _, s := range samples {
		info := DetectColumnType(s)
		cached, cachedOK := ParseWithType(s, info)
		auto, autoOK := AutoParseTimestamp(s)

		if cachedOK != autoOK {
			t.Errorf("sample %q: cached ok = %v, auto ok = %v", s, cachedOK, autoOK)
			continue
		}
		if cachedOK && math.Abs(cached-auto) > 1e-9 {
			t.Errorf("sample %q: cached = %v, auto = %v", s, cached, auto)
		}
	}
}

// The intended bulk-load flow: detect once on the first value, then apply the
// cached info to the whole column.
func TestEpochColumnEndToEnd(t *testing.T) {
	column := []string{"1700000000", "1700000001", "1700000002"}

	info := DetectColumnType(column[0])
	if info.Type != TypeEpochSeconds {
		t.Fatalf("detected %v, want TypeEpochSeconds", info.Type)
	}

	want := []float64{1_700_000_000, 1_700_000_001, 1_700_000_002}
	for i, cell := range column {
		got, ok := ParseWithType(cell, info)
		if !ok {
			t.Fatalf("row %d did not parse", i)
		}
		if got != want[i] {
			t.Errorf("row %d = %v, want %v", i, got, want[i])
		}
	}
}
