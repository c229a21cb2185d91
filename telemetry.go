package motorengine

import (
	"encoding/csv"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strconv"
)

// formatCell renders a telemetry value the way export.go's CSV writer
// renders orbital elements: the natural decimal representation of the
// runtime type. A non-scalar or unknown type is a PARSE_ERROR cell and an
// error log line (§4.6), never a silent empty cell.
func formatCell(v interface{}, logger Logger) string {
	switch t := v.(type) {
	case nil:
		return ""
	case float64:
		return strconv.FormatFloat(t, 'g', -1, 64)
	case float32:
		return strconv.FormatFloat(float64(t), 'g', -1, 32)
	case int:
		return strconv.Itoa(t)
	case int32:
		return strconv.FormatInt(int64(t), 10)
	case int64:
		return strconv.FormatInt(t, 10)
	case uint64:
		return strconv.FormatUint(t, 10)
	case uint32:
		return strconv.FormatUint(uint64(t), 10)
	case bool:
		return strconv.FormatBool(t)
	case string:
		return t
	default:
		if logger != nil {
			logger.Log("level", "error", "message", fmt.Sprintf("telemetry field has non-scalar type %T", v))
		}
		return "PARSE_ERROR"
	}
}

// StaticWriter is the global-thermodynamics sink (§4.6): declared with a
// fixed, ordered field list. Grounded on export.go's
// createAsCSVCSVFile, which writes its header once and then appends one
// line per state.
type StaticWriter struct {
	folder    string
	name      string
	separator string
	fields    []string
	rows      []staticRow
	logger    Logger
	lastSimIt uint64
	hasRows   bool
}

type staticRow struct {
	simIt  uint64
	values map[string]interface{}
}

// NewStaticWriter constructs a writer over the declared field list.
func NewStaticWriter(folder, name, separator string, fields []string, logger Logger) *StaticWriter {
	return &StaticWriter{folder: folder, name: name, separator: separator, fields: fields, logger: logger}
}

// Append records one frame keyed by simIt. Writers must refuse
// out-of-order commits (§5, I7): a simIt not strictly greater than the
// last committed one is rejected.
func (w *StaticWriter) Append(simIt uint64, values map[string]interface{}) error {
	if w.hasRows && simIt <= w.lastSimIt {
		return &IOError{Op: "append", Err: fmt.Errorf("out-of-order commit: sim_it %d after %d", simIt, w.lastSimIt)}
	}
	w.rows = append(w.rows, staticRow{simIt: simIt, values: values})
	w.lastSimIt = simIt
	w.hasRows = true
	return nil
}

// Flush writes the CSV file: "<folder>/<name>.csv", header
// "simIt<sep>field1<sep>field2...", one line per committed row.
func (w *StaticWriter) Flush() error {
	path := filepath.Join(w.folder, w.name+".csv")
	f, err := os.Create(path)
	if err != nil {
		if w.logger != nil {
			w.logger.Log("level", "error", "message", "telemetry flush failed", "path", path, "err", err)
		}
		return &IOError{Op: "create", Err: err}
	}
	defer f.Close()

	cw := csv.NewWriter(f)
	cw.Comma = rune(w.separator[0])

	header := append([]string{"simIt"}, w.fields...)
	if err := cw.Write(header); err != nil {
		return &IOError{Op: "write header", Err: err}
	}
	for _, row := range w.rows {
		record := make([]string, 0, len(header))
		record = append(record, strconv.FormatUint(row.simIt, 10))
		for _, f := range w.fields {
			record = append(record, formatCell(row.values[f], w.logger))
		}
		if err := cw.Write(record); err != nil {
			return &IOError{Op: "write row", Err: err}
		}
	}
	cw.Flush()
	return cw.Error()
}

// DynamicWriter is a per-motor sink (§4.6) whose schema is discovered
// across frames (union of field names seen) rather than declared up
// front. Grounded on the same export.go streaming-CSV shape, generalized
// since a motor's telemetry fields are not known until its first frame.
type DynamicWriter struct {
	folder    string
	name      string
	separator string
	rows      []staticRow
	fieldSet  map[string]bool
	logger    Logger
	lastSimIt uint64
	hasRows   bool
}

// NewDynamicWriter constructs a per-motor writer.
func NewDynamicWriter(folder, name, separator string, logger Logger) *DynamicWriter {
	return &DynamicWriter{folder: folder, name: name, separator: separator, fieldSet: make(map[string]bool), logger: logger}
}

// Append records one frame, discovering any new field names.
func (w *DynamicWriter) Append(simIt uint64, values map[string]interface{}) error {
	if w.hasRows && simIt < w.lastSimIt {
		return &IOError{Op: "append", Err: fmt.Errorf("out-of-order commit: sim_it %d after %d", simIt, w.lastSimIt)}
	}
	for k := range values {
		w.fieldSet[k] = true
	}
	w.rows = append(w.rows, staticRow{simIt: simIt, values: values})
	w.lastSimIt = simIt
	w.hasRows = true
	return nil
}

// Flush writes "<folder>/<name>.csv": header is the deduplicated union of
// every field seen, "it" first, values in header order, empty cells
// where a field is absent from a given frame, rows ordered by simIt
// ascending (§4.6, §5).
func (w *DynamicWriter) Flush() error {
	fields := make([]string, 0, len(w.fieldSet))
	for f := range w.fieldSet {
		fields = append(fields, f)
	}
	sort.Strings(fields)

	path := filepath.Join(w.folder, w.name+".csv")
	f, err := os.Create(path)
	if err != nil {
		if w.logger != nil {
			w.logger.Log("level", "error", "message", "telemetry flush failed", "path", path, "err", err)
		}
		return &IOError{Op: "create", Err: err}
	}
	defer f.Close()

	cw := csv.NewWriter(f)
	cw.Comma = rune(w.separator[0])

	header := append([]string{"it"}, fields...)
	if err := cw.Write(header); err != nil {
		return &IOError{Op: "write header", Err: err}
	}

	rows := make([]staticRow, len(w.rows))
	copy(rows, w.rows)
	sort.SliceStable(rows, func(i, j int) bool { return rows[i].simIt < rows[j].simIt })

	for _, row := range rows {
		record := make([]string, 0, len(header))
		record = append(record, strconv.FormatUint(row.simIt, 10))
		for _, f := range fields {
			record = append(record, formatCell(row.values[f], w.logger))
		}
		if err := cw.Write(record); err != nil {
			return &IOError{Op: "write row", Err: err}
		}
	}
	cw.Flush()
	return cw.Error()
}
