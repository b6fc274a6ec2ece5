package dataset

import (
	"encoding/csv"
	"encoding/gob"
	"errors"
	"fmt"
	"io"
	"os"
	"strconv"
)

// Encode writes the table in gob form.
func Encode(w io.Writer, t *Table) error {
	if err := gob.NewEncoder(w).Encode(t); err != nil {
		return fmt.Errorf("dataset: encode table: %w", err)
	}
	return nil
}

// Decode reads a gob-encoded table.
func Decode(r io.Reader) (*Table, error) {
	var t Table
	if err := gob.NewDecoder(r).Decode(&t); err != nil {
		return nil, fmt.Errorf("dataset: decode table: %w", err)
	}
	return &t, nil
}

// WriteFile persists the table to path in gob form.
func WriteFile(path string, t *Table) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("dataset: write table: %w", err)
	}
	if err := Encode(f, t); err != nil {
		f.Close()
		return err
	}
	return f.Close()
}

// ReadFile loads a gob-encoded table from path. A missing file surfaces the
// underlying fs.ErrNotExist through the wrapped error.
func ReadFile(path string) (*Table, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("dataset: read table: %w", err)
	}
	defer f.Close()
	return Decode(f)
}

// WriteCSV renders the table with a header row.
func WriteCSV(w io.Writer, t *Table) error {
	cw := csv.NewWriter(w)
	if err := cw.Write(t.Names()); err != nil {
		return err
	}
	row := make([]string, len(t.Cols))
	for i := 0; i < t.Len(); i++ {
		for j, c := range t.Cols {
			if c.Kind == KindFloat {
				row[j] = strconv.FormatFloat(c.Floats[i], 'g', -1, 64)
			} else {
				row[j] = c.Strings[i]
			}
		}
		if err := cw.Write(row); err != nil {
			return err
		}
	}
	cw.Flush()
	return cw.Error()
}

// ReadCSV parses a table from CSV with a header row. A column is typed float
// when it has rows and every cell parses as one, string otherwise.
func ReadCSV(r io.Reader) (*Table, error) {
	records, err := csv.NewReader(r).ReadAll()
	if err != nil {
		return nil, fmt.Errorf("dataset: read csv: %w", err)
	}
	if len(records) == 0 {
		return nil, errors.New("dataset: csv without a header row")
	}
	header := records[0]
	body := records[1:]
	cols := make([]Column, len(header))
	for j, name := range header {
		cells := make([]string, len(body))
		for i, rec := range body {
			cells[i] = rec[j]
		}
		cols[j] = inferColumn(name, cells)
	}
	return NewTable(cols...)
}

func inferColumn(name string, cells []string) Column {
	if len(cells) == 0 {
		return Strings(name)
	}
	vals := make([]float64, len(cells))
	for i, cell := range cells {
		v, err := strconv.ParseFloat(cell, 64)
		if err != nil {
			return Strings(name, cells...)
		}
		vals[i] = v
	}
	return Floats(name, vals...)
}
