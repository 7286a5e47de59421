// Package matrix implements the dense and diagonal-band matrices the TED
// kernels run their dynamic programs over.
//
// Grounded on the teacher's internal/parser/hprof dominator-state arrays
// (flat slice-backed, index-checked accessors) generalized from
// int-per-node bookkeeping to a generic row-major 2-D buffer.
package matrix

import (
	"fmt"

	"github.com/treesimjoin/simjoin/pkg/apperr"
)

// Matrix is a contiguous row-major 2-D array.
type Matrix[T any] struct {
	rows, cols int
	data       []T
}

// New allocates a rows x cols matrix with zero-valued cells.
func New[T any](rows, cols int) *Matrix[T] {
	return &Matrix[T]{rows: rows, cols: cols, data: make([]T, rows*cols)}
}

// Rows returns the row count.
func (m *Matrix[T]) Rows() int { return m.rows }

// Cols returns the column count.
func (m *Matrix[T]) Cols() int { return m.cols }

// At returns the value at (r,c), bounds-checked.
func (m *Matrix[T]) At(r, c int) (T, error) {
	var zero T
	if r < 0 || r >= m.rows || c < 0 || c >= m.cols {
		return zero, apperr.New(apperr.CodeOutOfRange, fmt.Sprintf("matrix index (%d,%d) out of range for %dx%d", r, c, m.rows, m.cols))
	}
	return m.data[r*m.cols+c], nil
}

// ReadAt is an alias for At matching the source's read_at naming.
func (m *Matrix[T]) ReadAt(r, c int) (T, error) {
	return m.At(r, c)
}

// Set writes v at (r,c), bounds-checked.
func (m *Matrix[T]) Set(r, c int, v T) error {
	if r < 0 || r >= m.rows || c < 0 || c >= m.cols {
		return apperr.New(apperr.CodeOutOfRange, fmt.Sprintf("matrix index (%d,%d) out of range for %dx%d", r, c, m.rows, m.cols))
	}
	m.data[r*m.cols+c] = v
	return nil
}

// MustAt returns At's value, panicking on out-of-range access. Intended
// for kernel inner loops that already hold a band/size proof.
func (m *Matrix[T]) MustAt(r, c int) T {
	v, err := m.At(r, c)
	if err != nil {
		panic(err)
	}
	return v
}

// MustSet is the panicking counterpart of Set.
func (m *Matrix[T]) MustSet(r, c int, v T) {
	if err := m.Set(r, c, v); err != nil {
		panic(err)
	}
}

// FillWith writes v into every cell.
func (m *Matrix[T]) FillWith(v T) {
	for i := range m.data {
		m.data[i] = v
	}
}
