package features

import (
	"errors"
	"fmt"
)

// ErrShapeMismatch is returned when a matrix and its label vector disagree on
// row count.
var ErrShapeMismatch = errors.New("shape mismatch")

// Matrix is a row-major numeric feature matrix with named columns. Row order
// is the frame's row order; labels built from the same frame stay aligned by
// index.
type Matrix struct {
	X     [][]float64
	Names []string
}

// NewMatrix allocates a matrix with rows rows and no columns yet.
func NewMatrix(rows int) *Matrix {
	x := make([][]float64, rows)
	for i := range x {
		x[i] = []float64{}
	}
	return &Matrix{X: x}
}

// Rows returns the number of rows.
func (m *Matrix) Rows() int { return len(m.X) }

// Cols returns the number of columns.
func (m *Matrix) Cols() int { return len(m.Names) }

// AddColumn appends a named column of values.
func (m *Matrix) AddColumn(name string, values []float64) error {
	if len(values) != m.Rows() {
		return fmt.Errorf("%w: column %q has %d values, matrix has %d rows",
			ErrShapeMismatch, name, len(values), m.Rows())
	}
	for i := range m.X {
		m.X[i] = append(m.X[i], values[i])
	}
	m.Names = append(m.Names, name)
	return nil
}

// AddBlock appends a group of indicator columns produced by an encoder.
func (m *Matrix) AddBlock(names []string, rows [][]float64) error {
	if len(rows) != m.Rows() {
		return fmt.Errorf("%w: block has %d rows, matrix has %d",
			ErrShapeMismatch, len(rows), m.Rows())
	}
	for i := range m.X {
		if len(rows[i]) != len(names) {
			return fmt.Errorf("%w: block row %d has %d values, expected %d",
				ErrShapeMismatch, i, len(rows[i]), len(names))
		}
		m.X[i] = append(m.X[i], rows[i]...)
	}
	m.Names = append(m.Names, names...)
	return nil
}
