package motorengine

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func TestStaticWriterRejectsOutOfOrderCommits(t *testing.T) {
	// I7: sim_it must strictly increase across commits.
	w := NewStaticWriter(t.TempDir(), "global", ",", []string{"temp"}, nil)
	if err := w.Append(5, map[string]interface{}{"temp": 1.0}); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if err := w.Append(5, map[string]interface{}{"temp": 2.0}); err == nil {
		t.Fatal("expected error for a non-increasing sim_it commit")
	} else if _, ok := err.(*IOError); !ok {
		t.Fatalf("expected *IOError, got %T", err)
	}
	if err := w.Append(4, map[string]interface{}{"temp": 3.0}); err == nil {
		t.Fatal("expected error for a decreasing sim_it commit")
	}
}

func TestStaticWriterFlushWritesHeaderAndRows(t *testing.T) {
	dir := t.TempDir()
	w := NewStaticWriter(dir, "global", ",", []string{"temp", "kin"}, nil)
	w.Append(1, map[string]interface{}{"temp": 300.5, "kin": 1.25})
	w.Append(2, map[string]interface{}{"temp": 301.0, "kin": 1.30})
	if err := w.Flush(); err != nil {
		t.Fatalf("unexpected flush error: %v", err)
	}
	data, err := os.ReadFile(filepath.Join(dir, "global.csv"))
	if err != nil {
		t.Fatalf("expected global.csv to exist: %v", err)
	}
	lines := strings.Split(strings.TrimSpace(string(data)), "\n")
	if len(lines) != 3 {
		t.Fatalf("expected header + 2 rows, got %d lines", len(lines))
	}
	if lines[0] != "simIt,temp,kin" {
		t.Errorf("unexpected header: %q", lines[0])
	}
}

func TestDynamicWriterUnionsSchemaAcrossFrames(t *testing.T) {
	dir := t.TempDir()
	w := NewDynamicWriter(dir, "motor1", ",", nil)
	w.Append(1, map[string]interface{}{"progress": 10.0})
	w.Append(2, map[string]interface{}{"progress": 20.0, "wraps": 1})
	if err := w.Flush(); err != nil {
		t.Fatalf("unexpected flush error: %v", err)
	}
	data, err := os.ReadFile(filepath.Join(dir, "motor1.csv"))
	if err != nil {
		t.Fatalf("expected motor1.csv to exist: %v", err)
	}
	lines := strings.Split(strings.TrimSpace(string(data)), "\n")
	if lines[0] != "it,progress,wraps" {
		t.Errorf("expected unioned+sorted header, got %q", lines[0])
	}
	// The first row never saw "wraps"; its cell must be empty, not dropped.
	fields := strings.Split(lines[1], ",")
	if len(fields) != 3 || fields[2] != "" {
		t.Errorf("expected empty cell for absent field, got %v", fields)
	}
}

func TestFormatCellUnknownTypeIsParseError(t *testing.T) {
	got := formatCell(struct{}{}, NopLogger())
	if got != "PARSE_ERROR" {
		t.Errorf("expected PARSE_ERROR for a non-scalar type, got %q", got)
	}
}
