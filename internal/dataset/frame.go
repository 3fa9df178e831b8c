package dataset

import (
	"bytes"
	"encoding/gob"
	"errors"
	"fmt"
	"math"
	"math/rand"
)

// ErrMissingColumn is returned when a required column is absent from a frame.
// Schema drift must surface loudly instead of producing wrong features.
var ErrMissingColumn = errors.New("missing column")

// Kind describes the inferred type of a column.
type Kind int

const (
	KindNumeric Kind = iota
	KindString
)

func (k Kind) String() string {
	switch k {
	case KindNumeric:
		return "numeric"
	case KindString:
		return "string"
	default:
		return "unknown"
	}
}

// Column is a single typed column. Numeric nulls are NaN, string nulls are "".
type Column struct {
	Name string
	Kind Kind
	Nums []float64
	Strs []string
}

// Len returns the number of rows in the column.
func (c *Column) Len() int {
	if c.Kind == KindNumeric {
		return len(c.Nums)
	}
	return len(c.Strs)
}

// IsNull reports whether row i holds a missing value.
func (c *Column) IsNull(i int) bool {
	if c.Kind == KindNumeric {
		return math.IsNaN(c.Nums[i])
	}
	return c.Strs[i] == ""
}

// Frame is an ordered collection of equal-length columns loaded from a CSV.
type Frame struct {
	cols  []*Column
	index map[string]int
}

// NewFrame creates an empty frame.
func NewFrame() *Frame {
	return &Frame{index: make(map[string]int)}
}

// AddColumn appends a column. Duplicate names and row-count mismatches are
// rejected.
func (f *Frame) AddColumn(c *Column) error {
	if _, ok := f.index[c.Name]; ok {
		return fmt.Errorf("duplicate column %q", c.Name)
	}
	if len(f.cols) > 0 && c.Len() != f.Rows() {
		return fmt.Errorf("column %q has %d rows, frame has %d", c.Name, c.Len(), f.Rows())
	}
	f.index[c.Name] = len(f.cols)
	f.cols = append(f.cols, c)
	return nil
}

// Column returns the named column or ErrMissingColumn.
func (f *Frame) Column(name string) (*Column, error) {
	i, ok := f.index[name]
	if !ok {
		return nil, fmt.Errorf("%w: %q", ErrMissingColumn, name)
	}
	return f.cols[i], nil
}

// Has reports whether the frame contains the named column.
func (f *Frame) Has(name string) bool {
	_, ok := f.index[name]
	return ok
}

// Columns returns all columns in load order.
func (f *Frame) Columns() []*Column {
	return f.cols
}

// Names returns column names in load order.
func (f *Frame) Names() []string {
	names := make([]string, len(f.cols))
	for i, c := range f.cols {
		names[i] = c.Name
	}
	return names
}

// Rows returns the row count.
func (f *Frame) Rows() int {
	if len(f.cols) == 0 {
		return 0
	}
	return f.cols[0].Len()
}

// ShuffleRows returns a copy of the frame with rows permuted by the seeded
// permutation. All columns move in unison, so anything derived afterwards
// stays row-aligned.
func (f *Frame) ShuffleRows(seed int64) *Frame {
	rnd := rand.New(rand.NewSource(seed))
	perm := rnd.Perm(f.Rows())

	out := NewFrame()
	for _, c := range f.cols {
		nc := &Column{Name: c.Name, Kind: c.Kind}
		if c.Kind == KindNumeric {
			nc.Nums = make([]float64, len(perm))
			for i, j := range perm {
				nc.Nums[i] = c.Nums[j]
			}
		} else {
			nc.Strs = make([]string, len(perm))
			for i, j := range perm {
				nc.Strs[i] = c.Strs[j]
			}
		}
		// AddColumn cannot fail here: names stay unique, lengths stay equal.
		_ = out.AddColumn(nc)
	}
	return out
}

// frameWire is the gob shadow of Frame (exported fields only).
type frameWire struct {
	Cols []*Column
}

// MarshalBinary implements encoding.BinaryMarshaler for disk caching.
func (f *Frame) MarshalBinary() ([]byte, error) {
	var buf bytes.Buffer
	if err := gob.NewEncoder(&buf).Encode(frameWire{Cols: f.cols}); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

// UnmarshalBinary implements encoding.BinaryUnmarshaler.
func (f *Frame) UnmarshalBinary(data []byte) error {
	var w frameWire
	if err := gob.NewDecoder(bytes.NewReader(data)).Decode(&w); err != nil {
		return err
	}
	f.cols = nil
	f.index = make(map[string]int)
	for _, c := range w.Cols {
		if err := f.AddColumn(c); err != nil {
			return err
		}
	}
	return nil
}
