package nwis

import (
	"fmt"
	"strconv"
	"strings"
	"time"
)

// CellKind discriminates the value held by a Cell.
type CellKind int

const (
	KindMissing CellKind = iota
	KindNumeric
	KindText
)

// Cell is a single table value: a float, a piece of text, or nothing.
// NWIS mixes measurements with qualifier codes and missing-data sentinels
// ("Ice", blank) in the same column, so cells are typed individually.
type Cell struct {
	Kind CellKind
	Num  float64
	Text string
}

// Missing is the cell recorded when a numeric token does not parse.
var Missing = Cell{Kind: KindMissing}

// Numeric builds a numeric cell.
func Numeric(v float64) Cell { return Cell{Kind: KindNumeric, Num: v} }

// TextCell builds a text cell.
func TextCell(s string) Cell { return Cell{Kind: KindText, Text: s} }

// Token returns the serialized form of the cell: the numeric value,
// the raw text, or the empty string for a missing value.
func (c Cell) Token() string {
	switch c.Kind {
	case KindNumeric:
		return strconv.FormatFloat(c.Num, 'f', -1, 64)
	case KindText:
		return c.Text
	default:
		return ""
	}
}

// ColumnKind is the column type inferred from the RDB annotation row.
type ColumnKind int

const (
	ColText ColumnKind = iota
	ColNumeric
	ColDateTime
)

// Column is a named, typed table column.
type Column struct {
	Name string
	Kind ColumnKind
}

// Table is the parsed result of one retrieval: ordered rows of typed
// cells, indexed by the observation timestamp. Rows keep the order they
// arrived in; the source is already time-ordered.
type Table struct {
	Columns []Column
	Rows    [][]Cell
	// Index holds the timestamp for each row, parsed from the datetime
	// column (or synthesized from sample_dt/sample_tm for water-quality
	// tables).
	Index []time.Time
}

// Len returns the number of data rows.
func (t *Table) Len() int { return len(t.Rows) }

// ColumnIndex returns the position of the named column, or -1.
func (t *Table) ColumnIndex(name string) int {
	for i, c := range t.Columns {
		if c.Name == name {
			return i
		}
	}
	return -1
}

// ParamCode maps a friendly parameter name to its USGS parameter code.
func ParamCode(name string) (string, error) {
	switch name {
	case "Q":
		return "00060", nil
	case "Stage":
		return "00065", nil
	case "Umean":
		return "72294", nil
	case "Turbidity":
		return "63680", nil
	case "Tempmean":
		return "00010", nil
	}
	return "", fmt.Errorf("unknown parameter %q: choose from Q, Stage, Umean, Turbidity, Tempmean", name)
}

// ParamColumn finds the data column carrying the given USGS parameter
// code. Qualifier columns (suffix "_cd") are skipped. When several
// statistics of the same parameter are present, the mean variant
// (statistic code 00003) wins.
func (t *Table) ParamColumn(code string) (string, error) {
	var matches []string
	for _, c := range t.Columns {
		if strings.Contains(c.Name, code) && !strings.HasSuffix(c.Name, "_cd") {
			matches = append(matches, c.Name)
		}
	}
	switch {
	case len(matches) == 0:
		if site := t.siteNo(); site != "" {
			return "", fmt.Errorf("parameter code %q not present in table for site %s", code, site)
		}
		return "", fmt.Errorf("parameter code %q not present in table", code)
	case len(matches) == 1:
		return matches[0], nil
	}
	for _, name := range matches {
		if strings.Contains(name, "00003") {
			return name, nil
		}
	}
	return matches[0], nil
}

// siteNo reads the station number from the first row, when the table
// carries a site_no column.
func (t *Table) siteNo() string {
	i := t.ColumnIndex("site_no")
	if i < 0 || t.Len() == 0 {
		return ""
	}
	return t.Rows[0][i].Token()
}
