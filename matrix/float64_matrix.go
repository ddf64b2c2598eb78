package matrix

import (
	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/mat"
)

// Float64Matrix holds probability tables (phi, theta) and their running
// sums. The storage is a gonum dense matrix so callers can hand the
// result to gonum routines through Dense.
type Float64Matrix struct {
	nrow uint32
	ncol uint32
	data *mat.Dense
}

// NewFloat64Matrix creates a zero Float64Matrix with r rows and c columns,
// it panics if r or c is zero
func NewFloat64Matrix(r, c uint32) *Float64Matrix {
	if r == 0 || c == 0 {
		panic(ErrBadShape)
	}
	return &Float64Matrix{
		nrow: r,
		ncol: c,
		data: mat.NewDense(int(r), int(c), nil),
	}
}

// NewFloat64MatrixFromRows copies rows into a new matrix. All rows must
// have the same non-zero length.
func NewFloat64MatrixFromRows(rows [][]float64) (*Float64Matrix, error) {
	if len(rows) == 0 || len(rows[0]) == 0 {
		return nil, ErrBadShape
	}
	m := NewFloat64Matrix(uint32(len(rows)), uint32(len(rows[0])))
	for r, row := range rows {
		if len(row) != len(rows[0]) {
			return nil, ErrBadShape
		}
		m.data.SetRow(r, row)
	}
	return m, nil
}

// get the shape of the matrix
func (m *Float64Matrix) Shape() (uint32, uint32) {
	return m.nrow, m.ncol
}

// get the [r, c]-th element of the matrix
func (m *Float64Matrix) Get(r, c uint32) float64 {
	if r >= m.nrow || c >= m.ncol {
		panic(ErrIndexOutOfRange)
	}
	return m.data.At(int(r), int(c))
}

// set val to the [r, c]-th element of the matrix
func (m *Float64Matrix) Set(r, c uint32, val float64) {
	if r >= m.nrow || c >= m.ncol {
		panic(ErrIndexOutOfRange)
	}
	m.data.Set(int(r), int(c), val)
}

// add val to the [r, c]-th element of the matrix
func (m *Float64Matrix) Add(r, c uint32, val float64) {
	if r >= m.nrow || c >= m.ncol {
		panic(ErrIndexOutOfRange)
	}
	m.data.RawRowView(int(r))[c] += val
}

// Row returns a copy of the r-th row
func (m *Float64Matrix) Row(r uint32) []float64 {
	if r >= m.nrow {
		panic(ErrIndexOutOfRange)
	}
	return mat.Row(nil, int(r), m.data)
}

// RowView returns the r-th row backed by the matrix storage
func (m *Float64Matrix) RowView(r uint32) []float64 {
	if r >= m.nrow {
		panic(ErrIndexOutOfRange)
	}
	return m.data.RawRowView(int(r))
}

// RowSum sums the r-th row
func (m *Float64Matrix) RowSum(r uint32) float64 {
	return floats.Sum(m.RowView(r))
}

// Scale multiplies every element by f in place
func (m *Float64Matrix) Scale(f float64) {
	m.data.Scale(f, m.data)
}

// Clone returns a deep copy of the matrix
func (m *Float64Matrix) Clone() *Float64Matrix {
	return &Float64Matrix{
		nrow: m.nrow,
		ncol: m.ncol,
		data: mat.DenseCopyOf(m.data),
	}
}

// Dense returns a gonum copy of the matrix
func (m *Float64Matrix) Dense() *mat.Dense {
	return mat.DenseCopyOf(m.data)
}
