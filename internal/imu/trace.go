package imu

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"os"
	"strconv"
)

// ErrInsufficientData is returned when a trace carries fewer than the three
// samples the inference pipeline needs.
var ErrInsufficientData = errors.New("trace has fewer than 3 samples")

// Trace column order produced by the capture tools. A header row may reorder
// or extend the columns; rows shorter than the highest mapped index are
// skipped.
const (
	colT = iota
	colAX
	colAY
	colAZ
	colGX
	colGY
	colGZ
	colQW
	colQI
	colQJ
	colQK
	numColumns
)

var defaultColumns = map[string]int{
	"t":  colT,
	"ax": colAX, "ay": colAY, "az": colAZ,
	"gx": colGX, "gy": colGY, "gz": colGZ,
	"qw": colQW, "qi": colQI, "qj": colQJ, "qk": colQK,
}

// ReadTrace parses a CSV sample trace. Column positions are taken from the
// header when one is present, falling back to the capture tool's order.
// Rows with non-numeric or missing fields are skipped; they are an
// ingestion concern, not an analysis error. Returns ErrInsufficientData
// when fewer than 3 samples parse.
func ReadTrace(r io.Reader) ([]Sample, error) {
	cr := csv.NewReader(r)
	cr.FieldsPerRecord = -1

	header, err := cr.Read()
	if err != nil {
		if errors.Is(err, io.EOF) {
			return nil, ErrInsufficientData
		}
		return nil, fmt.Errorf("reading header: %w", err)
	}

	cols := make(map[string]int, len(defaultColumns))
	for name, idx := range defaultColumns {
		cols[name] = idx
	}

	var trace []Sample

	named := false
	for i, name := range header {
		if _, ok := defaultColumns[name]; ok {
			cols[name] = i
			named = true
		}
	}
	if !named {
		// Headerless trace, the first row is data.
		if s, ok := parseRow(header, cols); ok {
			trace = append(trace, s)
		}
	}
	for {
		row, err := cr.Read()
		if err != nil {
			if errors.Is(err, io.EOF) {
				break
			}
			return nil, fmt.Errorf("reading trace row: %w", err)
		}

		s, ok := parseRow(row, cols)
		if !ok {
			continue
		}
		trace = append(trace, s)
	}

	if len(trace) < 3 {
		return nil, fmt.Errorf("%w (got %d)", ErrInsufficientData, len(trace))
	}
	return trace, nil
}

// ReadTraceFile reads a trace from a CSV file on disk.
func ReadTraceFile(path string) (trace []Sample, err error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("opening trace: %w", err)
	}
	defer func() {
		if cErr := f.Close(); cErr != nil && err == nil {
			err = cErr
		}
	}()

	return ReadTrace(f)
}

func parseRow(row []string, cols map[string]int) (Sample, bool) {
	var s Sample
	fields := []struct {
		name string
		dst  *float64
	}{
		{"t", &s.T},
		{"ax", &s.Accel.X}, {"ay", &s.Accel.Y}, {"az", &s.Accel.Z},
		{"gx", &s.Gyro.X}, {"gy", &s.Gyro.Y}, {"gz", &s.Gyro.Z},
		{"qw", &s.Quat.W}, {"qi", &s.Quat.I}, {"qj", &s.Quat.J}, {"qk", &s.Quat.K},
	}

	for _, f := range fields {
		idx := cols[f.name]
		if idx >= len(row) {
			return Sample{}, false
		}
		v, err := strconv.ParseFloat(row[idx], 64)
		if err != nil {
			return Sample{}, false
		}
		*f.dst = v
	}
	return s, true
}
