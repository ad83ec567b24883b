package core

// load.go implements the CSV ingestion pipeline: read, detect, fast-parse.

import (
	"context"
	"encoding/csv"
	"errors"
	"fmt"
	"io"

	"tsload/internal/infer"
)

// ContextCheckInterval is how often (in rows) the parse loop checks for
// context cancellation. Checking every row would be wasteful; a hundred rows
// of parsing is typically sub-millisecond.
var ContextCheckInterval = 100

// errEmptyFile is reported when the CSV contains no header row.
var errEmptyFile = errors.New("file contains no header row")

// readRecords parses the CSV stream into a header row and data rows.
// Ragged rows are tolerated; short rows simply leave trailing columns empty.
func readRecords(r io.Reader) (header []string, rows [][]string, err error) {
	cr := csv.NewReader(r)
	cr.FieldsPerRecord = -1
	cr.ReuseRecord = false

	header, err = cr.Read()
	if err == io.EOF {
		return nil, nil, errEmptyFile
	}
	if err != nil {
		return nil, nil, fmt.Errorf("read header: %w", err)
	}

	for {
		record, err := cr.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, nil, fmt.Errorf("read row %d: %w", len(rows)+2, err)
		}
		rows = append(rows, record)
	}

	return header, rows, nil
}

// cellAt returns the cell for column col of row, or "" when the row is short.
func cellAt(row []string, col int) string {
	if col < len(row) {
		return row[col]
	}
	return ""
}

// detectColumns infers one ColumnTypeInfo per header column from the first
// non-empty cell in that column. Detection runs exactly once per column; a
// column with no non-empty cell degrades to the string type.
func detectColumns(header []string, rows [][]string) []infer.ColumnTypeInfo {
	infos := make([]infer.ColumnTypeInfo, len(header))

	for col := range header {
		sample := ""
		for _, row := range rows {
			if cell := infer.Trim(cellAt(row, col)); cell != "" {
				sample = cell
				break
			}
		}
		infos[col] = infer.DetectColumnType(sample)
	}

	return infos
}

// parseColumns converts every cell through the cached fast path, returning
// per-column sample slices and filling in the per-column parse counters.
// The context is checked every ContextCheckInterval rows.
func parseColumns(ctx context.Context, header []string, rows [][]string, infos []infer.ColumnTypeInfo, onRow func(done int)) ([][]Sample, []ColumnReport, error) {
	columns := make([][]Sample, len(header))
	for col := range columns {
		columns[col] = make([]Sample, len(rows))
	}

	reports := make([]ColumnReport, len(header))
	for col, name := range header {
		reports[col] = ColumnReport{Name: name, Info: infos[col]}
	}

	for i, row := range rows {
		if i%ContextCheckInterval == 0 {
			if err := ctx.Err(); err != nil {
				return nil, nil, err
			}
			if onRow != nil {
				onRow(i)
			}
		}

		for col := range header {
			v, ok := infer.ParseWithType(cellAt(row, col), infos[col])
			columns[col][i] = Sample{Value: v, OK: ok}
			if ok {
				reports[col].Parsed++
			} else {
				reports[col].Failed++
			}
		}
	}

	return columns, reports, nil
}
