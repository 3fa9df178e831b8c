package features

import "sort"

// OneHot expands a categorical column into indicator columns, one per
// category seen at fit time. Null or unseen values transform to an all-zero
// indicator row; the row itself is never dropped.
type OneHot struct {
	prefix     string
	categories []string
	index      map[string]int
}

// FitOneHot learns the category set from values over the full dataset. The
// empty string marks a missing value and never becomes a category. Categories
// are ordered lexicographically so column order is deterministic.
func FitOneHot(prefix string, values []string) *OneHot {
	index := make(map[string]int)
	for _, v := range values {
		if v == "" {
			continue
		}
		if _, ok := index[v]; !ok {
			index[v] = len(index)
		}
	}

	categories := make([]string, 0, len(index))
	for v := range index {
		categories = append(categories, v)
	}
	sort.Strings(categories)
	for i, v := range categories {
		index[v] = i
	}

	return &OneHot{prefix: prefix, categories: categories, index: index}
}

// Categories returns the learned category set in column order.
func (e *OneHot) Categories() []string {
	return e.categories
}

// Names returns indicator column names, "<prefix>=<category>".
func (e *OneHot) Names() []string {
	names := make([]string, len(e.categories))
	for i, c := range e.categories {
		names[i] = e.prefix + "=" + c
	}
	return names
}

// Transform encodes values into indicator rows. Exactly one indicator is set
// per resolved value; missing or unseen values produce a zero row.
func (e *OneHot) Transform(values []string) [][]float64 {
	out := make([][]float64, len(values))
	for i, v := range values {
		row := make([]float64, len(e.categories))
		if j, ok := e.index[v]; ok {
			row[j] = 1
		}
		out[i] = row
	}
	return out
}
