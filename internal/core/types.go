package core

import (
	"time"

	"github.com/google/uuid"

	"tsload/internal/infer"
)

// LoadPhase identifies the stage a load is currently in.
type LoadPhase string

const (
	PhaseReading   LoadPhase = "reading"
	PhaseDetecting LoadPhase = "detecting"
	PhaseParsing   LoadPhase = "parsing"
	PhaseStoring   LoadPhase = "storing"
	PhaseComplete  LoadPhase = "complete"
	PhaseFailed    LoadPhase = "failed"
	PhaseCancelled LoadPhase = "cancelled"
)

// LoadProgress is a point-in-time snapshot of a running load, broadcast to
// progress subscribers.
type LoadProgress struct {
	Phase    LoadPhase `json:"phase"`
	RowsDone int       `json:"rows_done"`
	Rows     int       `json:"rows"`
	Error    string    `json:"error,omitempty"`
}

// Percent reports overall progress as 0-100. Used as the SSE event ID so
// reconnecting clients can skip events they already received.
func (p LoadProgress) Percent() int {
	if p.Phase == PhaseComplete {
		return 100
	}
	if p.Rows <= 0 {
		return 0
	}
	pct := p.RowsDone * 100 / p.Rows
	if pct > 100 {
		pct = 100
	}
	return pct
}

// Sample is one parsed cell: the canonical double (seconds since epoch, or
// the raw numeric value) and whether the cell parsed at all.
type Sample struct {
	Value float64
	OK    bool
}

// ColumnReport summarizes one column after a load: the detected type info and
// how many cells converted.
type ColumnReport struct {
	Name   string               `json:"name"`
	Info   infer.ColumnTypeInfo `json:"info"`
	Parsed int                  `json:"parsed"`
	Failed int                  `json:"failed"`
}

// LoadResult is the final outcome of a load.
type LoadResult struct {
	LoadID   uuid.UUID      `json:"load_id"`
	FileName string         `json:"file_name"`
	Rows     int            `json:"rows"`
	Columns  []ColumnReport `json:"columns"`
	Error    string         `json:"error,omitempty"`
	Duration time.Duration  `json:"duration"`
}
