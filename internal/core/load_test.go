package core

import (
	"context"
	"strings"
	"testing"
	"time"

	"tsload/internal/infer"
)

func TestReadRecords(t *testing.T) {
	tests := []struct {
		name       string
		input      string
		wantHeader []string
		wantRows   int
		wantErr    bool
	}{
		{
			name:       "simple file",
			input:      "ts,value\n1,2\n3,4\n",
			wantHeader: []string{"ts", "value"},
			wantRows:   2,
		},
		{
			name:       "ragged rows tolerated",
			input:      "a,b,c\n1,2\n1,2,3,4\n",
			wantHeader: []string{"a", "b", "c"},
			wantRows:   2,
		},
		{
			name:       "header only",
			input:      "ts,value\n",
			wantHeader: []string{"ts", "value"},
			wantRows:   0,
		},
		{
			name:    "empty file",
			input:   "",
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			header, rows, err := readRecords(strings.NewReader(tt.input))
			if (err != nil) != tt.wantErr {
				t.Fatalf("err = %v, wantErr %v", err, tt.wantErr)
			}
			if err != nil {
				return
			}
			if len(header) != len(tt.wantHeader) {
				t.Fatalf("header = %v, want %v", header, tt.wantHeader)
			}
			for i := range header {
				if header[i] != tt.wantHeader[i] {
					t.Errorf("header[%d] = %q, want %q", i, header[i], tt.wantHeader[i])
				}
			}
			if len(rows) != tt.wantRows {
				t.Errorf("rows = %d, want %d", len(rows), tt.wantRows)
			}
		})
	}
}

func TestDetectColumns(t *testing.T) {
	header := []string{"ts", "value", "label", "empty"}
	rows := [][]string{
		{"", "3.14", "", ""},
		{"1700000000", "2.71", "north", ""},
	}

	infos := detectColumns(header, rows)

	want := []infer.ColumnType{
		infer.TypeEpochSeconds, // first non-empty cell is in row 2
		infer.TypeNumber,
		infer.TypeString,
		infer.TypeString, // no sample at all
	}
	for col, wantType := range want {
		if infos[col].Type != wantType {
			t.Errorf("column %q detected as %v, want %v", header[col], infos[col].Type, wantType)
		}
	}
}

func TestParseColumns(t *testing.T) {
	header := []string{"ts", "value"}
	rows := [][]string{
		{"1700000000", "3.14"},
		{"1700000001", "oops"},
		{"1700000002", "2.71"},
	}
	infos := detectColumns(header, rows)

	columns, reports, err := parseColumns(context.Background(), header, rows, infos, nil)
	if err != nil {
		t.Fatalf("parseColumns: %v", err)
	}

	if reports[0].Parsed != 3 || reports[0].Failed != 0 {
		t.Errorf("ts report = %+v, want 3 parsed", reports[0])
	}
	if reports[1].Parsed != 2 || reports[1].Failed != 1 {
		t.Errorf("value report = %+v, want 2 parsed 1 failed", reports[1])
	}

	if got := columns[0][0]; !got.OK || got.Value != 1_700_000_000 {
		t.Errorf("ts[0] = %+v", got)
	}
	if got := columns[1][1]; got.OK {
		t.Errorf("value[1] parsed but should have failed: %+v", got)
	}
}

func TestParseColumnsCancellation(t *testing.T) {
	header := []string{"v"}
	rows := make([][]string, 500)
	for i := range rows {
		rows[i] = []string{"1"}
	}
	infos := detectColumns(header, rows)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	if _, _, err := parseColumns(ctx, header, rows, infos, nil); err == nil {
		t.Fatal("expected cancellation error")
	}
}

func TestServiceEndToEnd(t *testing.T) {
	const file = "ts,value,label\n" +
		"1700000000,3.14,a\n" +
		"1700000001,2.71,b\n" +
		"1700000002,oops,c\n"

	svc := NewService(nil, ServiceConfig{
		MaxConcurrent: 2,
		MaxWaitTime:   time.Second,
		Timeout:       5 * time.Second,
	})

	id, err := svc.StartLoad(context.Background(), "data.csv", strings.NewReader(file), int64(len(file)))
	if err != nil {
		t.Fatalf("StartLoad: %v", err)
	}

	ch, unsubscribe, err := svc.SubscribeProgress(id)
	if err != nil {
		t.Fatalf("SubscribeProgress: %v", err)
	}
	defer unsubscribe()

	deadline := time.After(5 * time.Second)
	for {
		select {
		case _, open := <-ch:
			if !open {
				goto finished
			}
		case <-deadline:
			t.Fatal("load did not finish in time")
		}
	}

finished:
	result, done, err := svc.Result(id)
	if err != nil || !done {
		t.Fatalf("Result: done=%v err=%v", done, err)
	}
	if result.Error != "" {
		t.Fatalf("load failed: %s", result.Error)
	}
	if result.Rows != 3 {
		t.Errorf("rows = %d, want 3", result.Rows)
	}

	if got := result.Columns[0]; got.Info.Type != infer.TypeEpochSeconds || got.Parsed != 3 {
		t.Errorf("ts column = %+v", got)
	}
	if got := result.Columns[1]; got.Info.Type != infer.TypeNumber || got.Parsed != 2 || got.Failed != 1 {
		t.Errorf("value column = %+v", got)
	}
	if got := result.Columns[2]; got.Info.Type != infer.TypeString || got.Parsed != 0 {
		t.Errorf("label column = %+v", got)
	}
}

func TestServiceRejectsOversizedFile(t *testing.T) {
	svc := NewService(nil, ServiceConfig{MaxFileSize: 10, MaxConcurrent: 1, MaxWaitTime: time.Second})

	_, err := svc.StartLoad(context.Background(), "big.csv", strings.NewReader("a,b\n1,2\n"), 1<<20)
	if err == nil {
		t.Fatal("expected size limit error")
	}
}

func TestServiceUnknownLoad(t *testing.T) {
	svc := NewService(nil, ServiceConfig{MaxConcurrent: 1, MaxWaitTime: time.Second})

	if _, _, err := svc.Result([16]byte{1}); err != ErrLoadNotFound {
		t.Errorf("Result err = %v, want ErrLoadNotFound", err)
	}
	if err := svc.Cancel([16]byte{1}); err != ErrLoadNotFound {
		t.Errorf("Cancel err = %v, want ErrLoadNotFound", err)
	}
}
