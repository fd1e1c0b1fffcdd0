package material

import (
	"bytes"
	"encoding/csv"
	"fmt"
	"io"

	"github.com/starford/harvester/internal/storage"
)

var sinkHeader = []string{"source", "customer", "suggested"}

// CSVSink appends unmapped inputs to a CSV file. It is single-writer.
type CSVSink struct {
	files storage.Provider
	path  string
}

// NewCSVSink creates a sink writing to path under files.
func NewCSVSink(files storage.Provider, path string) *CSVSink {
	return &CSVSink{files: files, path: path}
}

// Record implements Sink.
func (s *CSVSink) Record(source, customer string) error {
	header, err := csvLine(sinkHeader)
	if err != nil {
		return err
	}
	row, err := csvLine([]string{source, customer, ""})
	if err != nil {
		return err
	}
	return s.files.Append(s.path, header, row)
}

// Unmapped is one sink entry.
type Unmapped struct {
	Source    string `json:"source"`
	Customer  string `json:"customer"`
	Suggested string `json:"suggested"`
}

// ReadUnmapped returns the sink contents, without the header.
func (s *CSVSink) ReadUnmapped() ([]Unmapped, error) {
	if !s.files.Exists(s.path) {
		return nil, nil
	}
	data, err := s.files.Read(s.path)
	if err != nil {
		return nil, err
	}
	cr := csv.NewReader(bytes.NewReader(data))
	cr.FieldsPerRecord = -1

	var out []Unmapped
	first := true
	for {
		row, err := cr.Read()
		if err == io.EOF {
			return out, nil
		}
		if err != nil {
			return nil, fmt.Errorf("material: parse %s: %w", s.path, err)
		}
		if first {
			first = false
			if len(row) > 0 && row[0] == sinkHeader[0] {
				continue
			}
		}
		u := Unmapped{}
		if len(row) > 0 {
			u.Source = row[0]
		}
		if len(row) > 1 {
			u.Customer = row[1]
		}
		if len(row) > 2 {
			u.Suggested = row[2]
		}
		out = append(out, u)
	}
}

func csvLine(fields []string) ([]byte, error) {
	var buf bytes.Buffer
	w := csv.NewWriter(&buf)
	if err := w.Write(fields); err != nil {
		return nil, err
	}
	w.Flush()
	return buf.Bytes(), w.Error()
}
