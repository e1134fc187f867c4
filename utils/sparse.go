package utils

import (
	"fmt"

	"github.com/james-bowman/sparse"
	"github.com/james-bowman/sparse/blas"
	"gonum.org/v1/gonum/mat"
)

// DOK accumulates the global system one entry at a time, repeated entries are summed
type DOK struct {
	M        *sparse.DOK
	readOnly bool
	name     string
}

func NewDOK(nr, nc int) (R DOK) {
	R = DOK{
		sparse.NewDOK(nr, nc),
		false,
		"unnamed - hint: pass a variable name to SetReadOnly()",
	}
	return
}

// Dims, At and T minimally satisfy the mat.Matrix interface.
func (m DOK) Dims() (r, c int)    { return m.M.Dims() }
func (m DOK) At(i, j int) float64 { return m.M.At(i, j) }
func (m DOK) T() mat.Matrix       { return m.M.T() }

// Add sums val into entry (i,j)
func (m DOK) Add(i, j int, val float64) {
	m.checkWritable()
	if val == 0 {
		return
	}
	m.M.Set(i, j, m.M.At(i, j)+val)
}

// SetIdentityRow makes row i the identity row, assuming it is empty
func (m DOK) SetIdentityRow(i int) {
	m.checkWritable()
	m.M.Set(i, i, 1)
}

func (m DOK) SetReadOnly(name ...string) DOK {
	if len(name) != 0 {
		m.name = name[0]
	}
	m.readOnly = true
	return m
}

func (m DOK) checkWritable() {
	if m.readOnly {
		err := fmt.Errorf("attempt to write to a read only matrix named: \"%v\"", m.name)
		panic(err)
	}
}

func (m DOK) ToCSR() CSR {
	return CSR{
		M:        m.M.ToCSR(),
		readOnly: true,
		name:     m.name,
	}
}

// CSR is the compressed form handed to the linear solvers
type CSR struct {
	M        *sparse.CSR
	readOnly bool
	name     string
}

// Dims, At and T minimally satisfy the mat.Matrix interface.
func (m CSR) Dims() (r, c int)              { return m.M.Dims() }
func (m CSR) At(i, j int) float64           { return m.M.At(i, j) }
func (m CSR) T() mat.Matrix                 { return m.M.T() }
func (m CSR) RawMatrix() *blas.SparseMatrix { return m.M.RawMatrix() }
func (m CSR) NNZ() int                      { return m.M.NNZ() }

// MulVec computes dst = A x
func (m CSR) MulVec(dst, x []float64) {
	for i := range dst {
		dst[i] = 0
	}
	sparse.MulMatRawVec(m.M, x, dst)
}

// Diagonal returns the main diagonal, entries absent from storage are zero
func (m CSR) Diagonal() (diag []float64) {
	raw := m.RawMatrix()
	diag = make([]float64, raw.I)
	for i := 0; i < raw.I; i++ {
		for p := raw.Indptr[i]; p < raw.Indptr[i+1]; p++ {
			if raw.Ind[p] == i {
				diag[i] += raw.Data[p]
			}
		}
	}
	return
}

// Dense expands the matrix for the direct solver and for printing
func (m CSR) Dense() *mat.Dense {
	var (
		raw = m.RawMatrix()
		D   = mat.NewDense(raw.I, raw.J, nil)
	)
	for i := 0; i < raw.I; i++ {
		for p := raw.Indptr[i]; p < raw.Indptr[i+1]; p++ {
			D.Set(i, raw.Ind[p], D.At(i, raw.Ind[p])+raw.Data[p])
		}
	}
	return D
}

// Preconditioner applies an approximate inverse z = M^-1 r
type Preconditioner interface {
	Apply(z, r []float64)
}

// Jacobi is the inverse of the diagonal
type Jacobi struct {
	InvDiag []float64
}

// NewJacobi returns nil when any diagonal entry is exactly zero
func NewJacobi(A CSR) *Jacobi {
	diag := A.Diagonal()
	inv := make([]float64, len(diag))
	for i, d := range diag {
		if d == 0 {
			return nil
		}
		inv[i] = 1 / d
	}
	return &Jacobi{InvDiag: inv}
}

func (j *Jacobi) Apply(z, r []float64) {
	for i := range r {
		z[i] = j.InvDiag[i] * r[i]
	}
}
