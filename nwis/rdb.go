package nwis

import (
	"fmt"
	"strconv"
	"strings"
	"time"
)

// Header is the ordered run of comment lines preceding the data block.
// Lines are kept verbatim and never interpreted further.
type Header []string

const commentMarker = "#"

// SplitHeader separates the leading comment lines of an RDB response from
// the tabular data block. The header ends at the first line that does not
// start with '#'; later comment lines, if any, belong to the data block.
func SplitHeader(raw string) (Header, string, error) {
	lines := strings.Split(raw, "\n")
	var head Header
	for i, line := range lines {
		if strings.HasPrefix(line, commentMarker) {
			head = append(head, strings.TrimRight(line, "\r"))
			continue
		}
		rest := strings.Join(lines[i:], "\n")
		if strings.TrimSpace(rest) == "" {
			break
		}
		return head, rest, nil
	}
	// The service reports errors and empty result sets as comment-only
	// payloads with a 200 status.
	return nil, "", fmt.Errorf("%w: no data block found", ErrMalformedResponse)
}

// ParseTable interprets a data block: one line of column names, one line
// of RDB type annotations (e.g. 5s, 20d, 14n), then delimited data rows.
// Comment lines interrupting the data block are skipped, as are blanks;
// error messages name the physical line number within the block.
func ParseTable(block string, delim rune) (*Table, error) {
	var (
		cols   []Column
		rows   [][]Cell
		stamps []time.Time
		seen   int
	)
	sep := string(delim)

	for n, line := range strings.Split(block, "\n") {
		line = strings.TrimRight(line, "\r")
		if strings.TrimSpace(line) == "" || strings.HasPrefix(line, commentMarker) {
			continue
		}
		seen++
		fields := strings.Split(line, sep)

		switch seen {
		case 1:
			for _, name := range fields {
				cols = append(cols, Column{Name: strings.TrimSpace(name)})
			}
		case 2:
			if len(fields) != len(cols) {
				return nil, fmt.Errorf("%w: annotation row has %d fields, header has %d",
					ErrMalformedResponse, len(fields), len(cols))
			}
			for i, ann := range fields {
				cols[i].Kind = kindFromAnnotation(ann)
			}
		default:
			if len(fields) != len(cols) {
				return nil, fmt.Errorf("%w: line %d has %d fields, header has %d",
					ErrMalformedResponse, n+1, len(fields), len(cols))
			}
			row := make([]Cell, len(cols))
			for i, tok := range fields {
				row[i] = typeCell(cols[i], tok)
			}
			ts, err := rowTime(cols, row)
			if err != nil {
				return nil, fmt.Errorf("%w: line %d: %v", ErrMalformedResponse, n+1, err)
			}
			rows = append(rows, row)
			stamps = append(stamps, ts)
		}
	}

	if seen < 2 {
		return nil, fmt.Errorf("%w: data block is missing header or annotation row", ErrMalformedResponse)
	}
	if timeColumn(cols) < 0 {
		return nil, fmt.Errorf("%w: no datetime column", ErrMalformedResponse)
	}
	return &Table{Columns: cols, Rows: rows, Index: stamps}, nil
}

// kindFromAnnotation maps an RDB annotation token to a column kind:
// a trailing 'n' marks a numeric column, 'd' a date, anything else text.
func kindFromAnnotation(ann string) ColumnKind {
	ann = strings.TrimSpace(ann)
	if ann == "" {
		return ColText
	}
	switch ann[len(ann)-1] {
	case 'n':
		return ColNumeric
	case 'd':
		return ColDateTime
	default:
		return ColText
	}
}

// typeCell converts one token according to its column kind. A token in a
// numeric column that does not parse is a missing-data sentinel, not an
// error: the row survives with a Missing cell.
func typeCell(col Column, tok string) Cell {
	tok = strings.TrimSpace(tok)
	if tok == "" {
		return Missing
	}
	if col.Kind == ColNumeric {
		v, err := strconv.ParseFloat(tok, 64)
		if err != nil {
			return Missing
		}
		return Numeric(v)
	}
	return TextCell(tok)
}

// timeColumn locates the column holding the observation timestamp:
// "datetime" when present, otherwise the water-quality sample date.
func timeColumn(cols []Column) int {
	for i, c := range cols {
		if c.Name == "datetime" {
			return i
		}
	}
	for i, c := range cols {
		if c.Name == "sample_dt" {
			return i
		}
	}
	return -1
}

// rowTime extracts the row timestamp. Water-quality tables split the
// timestamp across sample_dt and sample_tm; a missing sample_tm defaults
// to noon, matching the service's own convention for date-only samples.
func rowTime(cols []Column, row []Cell) (time.Time, error) {
	for i, c := range cols {
		if c.Name == "datetime" {
			return parseTime(row[i].Text)
		}
	}
	var date, clock string
	for i, c := range cols {
		switch c.Name {
		case "sample_dt":
			date = row[i].Text
		case "sample_tm":
			clock = row[i].Text
		}
	}
	if date == "" {
		return time.Time{}, fmt.Errorf("no timestamp value")
	}
	if clock == "" {
		clock = "12:00"
	}
	return parseTime(date + " " + clock)
}

var timeLayouts = []string{
	"2006-01-02 15:04:05",
	"2006-01-02 15:04",
	"2006-01-02",
}

// parseTime accepts the timestamp forms NWIS emits and the canonical
// serialized form written by Save.
func parseTime(s string) (time.Time, error) {
	s = strings.TrimSpace(s)
	for _, layout := range timeLayouts {
		if ts, err := time.Parse(layout, s); err == nil {
			return ts, nil
		}
	}
	return time.Time{}, fmt.Errorf("unparseable timestamp %q", s)
}
