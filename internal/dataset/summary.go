package dataset

import (
	"gonum.org/v1/gonum/stat"
)

// ColumnSummary describes one column for the inspect command.
type ColumnSummary struct {
	Name     string  `json:"name"`
	Kind     string  `json:"kind"`
	Rows     int     `json:"rows"`
	Nulls    int     `json:"nulls"`
	Distinct int     `json:"distinct,omitempty"` // string columns
	Mean     float64 `json:"mean,omitempty"`     // numeric columns
	StdDev   float64 `json:"std_dev,omitempty"`  // numeric columns
	Min      float64 `json:"min,omitempty"`
	Max      float64 `json:"max,omitempty"`
}

// Summarize computes per-column statistics over non-null values.
func Summarize(f *Frame) []ColumnSummary {
	out := make([]ColumnSummary, 0, len(f.Columns()))
	for _, c := range f.Columns() {
		s := ColumnSummary{Name: c.Name, Kind: c.Kind.String(), Rows: c.Len()}
		if c.Kind == KindNumeric {
			present := make([]float64, 0, len(c.Nums))
			for i, v := range c.Nums {
				if c.IsNull(i) {
					s.Nulls++
					continue
				}
				present = append(present, v)
			}
			if len(present) > 0 {
				s.Mean = stat.Mean(present, nil)
				s.StdDev = stat.StdDev(present, nil)
				s.Min, s.Max = present[0], present[0]
				for _, v := range present[1:] {
					if v < s.Min {
						s.Min = v
					}
					if v > s.Max {
						s.Max = v
					}
				}
			}
		} else {
			seen := make(map[string]struct{})
			for i, v := range c.Strs {
				if c.IsNull(i) {
					s.Nulls++
					continue
				}
				seen[v] = struct{}{}
			}
			s.Distinct = len(seen)
		}
		out = append(out, s)
	}
	return out
}
