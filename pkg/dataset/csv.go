package dataset

import (
	"encoding/csv"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
)

// CSVOptions controls how delimited files are read.
type CSVOptions struct {
	// Delimiter defaults to ';'.
	Delimiter rune

	// Header marks the first record as column names.
	Header bool
}

// ReadCSV reads a delimited table. Empty cells are kept as missing values.
func ReadCSV(name string, r io.Reader, opts CSVOptions) (Table, error) {
	cr := csv.NewReader(r)
	cr.Comma = ';'
	if opts.Delimiter != 0 {
		cr.Comma = opts.Delimiter
	}
	cr.FieldsPerRecord = -1

	t := Table{Name: name}
	first := true
	for {
		rec, err := cr.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return Table{}, fmt.Errorf("read %s: %w", name, err)
		}
		if first && opts.Header {
			t.Columns = rec
			first = false
			continue
		}
		first = false

		row := make(Row, len(rec))
		for i, v := range rec {
			if v == "" {
				continue
			}
			row[i] = v
		}
		t.Rows = append(t.Rows, row)
	}
	return t, nil
}

// LoadCSVFile opens path and reads it with ReadCSV. An empty name
// defaults to the file's base name.
func LoadCSVFile(name, path string, opts CSVOptions) (Table, error) {
	if name == "" {
		name = filepath.Base(path)
	}
	f, err := os.Open(path)
	if err != nil {
		return Table{}, fmt.Errorf("open %s: %w", path, err)
	}
	defer f.Close()
	return ReadCSV(name, f, opts)
}

// ParseArg splits a "name=path" argument. Without "=" the name is the
// file's base name.
func ParseArg(arg string) (name, path string, err error) {
	name, path, ok := strings.Cut(arg, "=")
	if !ok {
		return filepath.Base(arg), arg, nil
	}
	if name == "" || path == "" {
		return "", "", fmt.Errorf("invalid dataset %q: want name=path", arg)
	}
	return name, path, nil
}
