package nwis

import (
	"encoding/csv"
	"fmt"
	"os"
	"strconv"
	"time"
)

// canonicalLayout is the sortable string form timestamps are saved in.
const canonicalLayout = "2006-01-02 15:04:05"

// Save writes the table to a comma-delimited file: one header row, one
// row per observation, the timestamp column in canonical form and missing
// values as empty tokens. Water-quality tables, whose timestamp is
// synthesized rather than stored in a column, gain a leading datetime
// column so the file round-trips through Load.
func Save(t *Table, path string) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("save table: %w", err)
	}
	defer f.Close()

	w := csv.NewWriter(f)

	tsCol := t.ColumnIndex("datetime")

	names := make([]string, 0, len(t.Columns)+1)
	if tsCol < 0 {
		names = append(names, "datetime")
	}
	for _, c := range t.Columns {
		names = append(names, c.Name)
	}
	if err := w.Write(names); err != nil {
		return fmt.Errorf("save table %s: %w", path, err)
	}

	record := make([]string, 0, len(names))
	for i, row := range t.Rows {
		record = record[:0]
		if tsCol < 0 {
			record = append(record, t.Index[i].Format(canonicalLayout))
		}
		for j, cell := range row {
			if j == tsCol {
				record = append(record, t.Index[i].Format(canonicalLayout))
				continue
			}
			record = append(record, cell.Token())
		}
		if err := w.Write(record); err != nil {
			return fmt.Errorf("save table %s: %w", path, err)
		}
	}

	w.Flush()
	if err := w.Error(); err != nil {
		return fmt.Errorf("save table %s: %w", path, err)
	}
	return nil
}

// SaveHeader writes the metadata comment lines verbatim to path.
func SaveHeader(h Header, path string) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("save header: %w", err)
	}
	defer f.Close()

	for _, line := range h {
		if _, err := fmt.Fprintln(f, line); err != nil {
			return fmt.Errorf("save header %s: %w", path, err)
		}
	}
	return nil
}

// Load reconstructs a table from a file written by Save. The datetime
// column is re-typed into the canonical timestamp representation; other
// cells come back as numeric where they parse, missing where empty, and
// text otherwise.
func Load(path string) (*Table, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("load table: %w", err)
	}
	defer f.Close()

	r := csv.NewReader(f)
	r.FieldsPerRecord = -1

	records, err := r.ReadAll()
	if err != nil {
		return nil, fmt.Errorf("load table %s: %w", path, err)
	}
	if len(records) == 0 {
		return nil, fmt.Errorf("%w: %s is empty", ErrMalformedResponse, path)
	}

	cols := make([]Column, len(records[0]))
	for i, name := range records[0] {
		cols[i] = Column{Name: name}
	}
	tsCol := -1
	for i, c := range cols {
		if c.Name == "datetime" {
			cols[i].Kind = ColDateTime
			tsCol = i
		}
	}
	if tsCol < 0 {
		return nil, fmt.Errorf("%w: %s has no datetime column", ErrMalformedResponse, path)
	}

	var (
		rows    [][]Cell
		stamps  []time.Time
		numeric = make([]bool, len(cols))
		text    = make([]bool, len(cols))
	)
	for n, record := range records[1:] {
		if len(record) != len(cols) {
			return nil, fmt.Errorf("%w: %s line %d has %d fields, header has %d",
				ErrMalformedResponse, path, n+2, len(record), len(cols))
		}
		row := make([]Cell, len(cols))
		for i, tok := range record {
			if i == tsCol {
				ts, err := parseTime(tok)
				if err != nil {
					return nil, fmt.Errorf("%w: %s line %d: %v", ErrMalformedResponse, path, n+2, err)
				}
				stamps = append(stamps, ts)
				row[i] = TextCell(tok)
				continue
			}
			if tok == "" {
				row[i] = Missing
				continue
			}
			if v, err := strconv.ParseFloat(tok, 64); err == nil {
				row[i] = Numeric(v)
				numeric[i] = true
			} else {
				row[i] = TextCell(tok)
				text[i] = true
			}
		}
		rows = append(rows, row)
	}

	for i := range cols {
		if i == tsCol {
			continue
		}
		if numeric[i] && !text[i] {
			cols[i].Kind = ColNumeric
		}
	}
	return &Table{Columns: cols, Rows: rows, Index: stamps}, nil
}
