// Package obs converts parsed NWIS tables into database-ready
// observation rows.
package obs

import (
	"strings"
	"time"

	"github.com/riverbed-labs/nwisfetch/nwis"
)

// Observation is one normalized measurement ready for insertion.
type Observation struct {
	Site  string
	Param string
	TS    time.Time
	Value float64
}

// FromTable extracts observations from every numeric data column of a
// retrieved table. Qualifier columns (suffix "_cd") and missing cells
// are dropped; the parameter name is the source column name.
func FromTable(site string, t *nwis.Table) []Observation {
	out := make([]Observation, 0, t.Len())
	for j, col := range t.Columns {
		if col.Kind != nwis.ColNumeric || strings.HasSuffix(col.Name, "_cd") {
			continue
		}
		for i, row := range t.Rows {
			if row[j].Kind != nwis.KindNumeric {
				continue
			}
			out = append(out, Observation{
				Site:  site,
				Param: col.Name,
				TS:    t.Index[i],
				Value: row[j].Num,
			})
		}
	}
	return out
}

// FilterNew keeps observations strictly newer than the stored high-water
// mark for their parameter. Parameters never seen before pass through.
func FilterNew(candidates []Observation, last map[string]time.Time) []Observation {
	out := make([]Observation, 0, len(candidates))
	for _, cand := range candidates {
		prev, ok := last[cand.Param]
		if !ok || cand.TS.After(prev) {
			out = append(out, cand)
		}
	}
	return out
}
