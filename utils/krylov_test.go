package utils

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// laplacian1D returns the Dirichlet 1D Laplacian, optionally with an upwind
// convection term that makes it non symmetric
func laplacian1D(n int, convection float64) CSR {
	A := NewDOK(n, n)
	for i := 0; i < n; i++ {
		A.Add(i, i, 2+convection)
		if i > 0 {
			A.Add(i, i-1, -1-convection)
		}
		if i < n-1 {
			A.Add(i, i+1, -1)
		}
	}
	return A.ToCSR()
}

func TestLinearSolve(t *testing.T) {
	var (
		n    = 40
		want = make([]float64, n)
		b    = make([]float64, n)
	)
	for i := range want {
		want[i] = math.Sin(float64(i) / 7)
	}
	{ // Every solver recovers a known solution of a symmetric system
		A := laplacian1D(n, 0)
		A.MulVec(b, want)
		for _, kind := range []SolverKind{CG, BiCGSTAB, GMRES, Direct} {
			x, info := LinearSolve(A, b, make([]float64, n), SolveParams{
				Kind: kind, Tol: 1e-12, MaxIter: 1000, Precond: NewJacobi(A),
			})
			require.Equal(t, 0, info, kind.String())
			assert.InDeltaSlice(t, want, x, 1e-8, kind.String())
		}
	}
	{ // Non symmetric systems with the general solvers
		A := laplacian1D(n, 0.5)
		A.MulVec(b, want)
		for _, kind := range []SolverKind{BiCGSTAB, GMRES, Direct} {
			x, info := LinearSolve(A, b, make([]float64, n), SolveParams{
				Kind: kind, Tol: 1e-12, MaxIter: 2000, Restart: 10,
			})
			require.Equal(t, 0, info, kind.String())
			assert.InDeltaSlice(t, want, x, 1e-8, kind.String())
		}
	}
	{ // The iteration limit is reported and the callback sees every iteration
		A := laplacian1D(n, 0)
		A.MulVec(b, want)
		var calls int
		_, info := LinearSolve(A, b, make([]float64, n), SolveParams{
			Kind: CG, Tol: 1e-14, MaxIter: 3,
			Callback: func(iter int, residual float64) { calls++ },
		})
		assert.Equal(t, 3, info)
		assert.Equal(t, 3, calls)
	}
	{ // A converged starting point needs no iteration
		A := laplacian1D(n, 0)
		A.MulVec(b, want)
		x, info := LinearSolve(A, b, want, SolveParams{Kind: BiCGSTAB, Tol: 1e-10, MaxIter: 10})
		assert.Equal(t, 0, info)
		assert.Equal(t, want, x)
	}
	{ // Singular systems fail in the direct solver
		A := NewDOK(2, 2)
		A.Add(0, 0, 1)
		A.Add(1, 0, 1)
		_, info := LinearSolve(A.ToCSR(), []float64{1, 2}, make([]float64, 2), SolveParams{Kind: Direct})
		assert.Equal(t, -1, info)
		// singular with a consistent right hand side is still refused
		_, info = LinearSolve(A.ToCSR(), []float64{1, 1}, make([]float64, 2), SolveParams{Kind: Direct})
		assert.Equal(t, -1, info)
	}
	{ // The direct solver refuses systems too large to expand
		var (
			n = MaxDirectUnknowns + 1
			A = NewDOK(n, n)
			b = make([]float64, n)
		)
		for i := 0; i < n; i++ {
			A.Add(i, i, 1)
			b[i] = 1
		}
		x, info := LinearSolve(A.ToCSR(), b, make([]float64, n), SolveParams{Kind: Direct})
		assert.Equal(t, -2, info)
		assert.Equal(t, make([]float64, n), x)
		// the iterative solvers take it
		x, info = LinearSolve(A.ToCSR(), b, make([]float64, n), SolveParams{Kind: CG, Tol: 1e-10, MaxIter: 10})
		assert.Equal(t, 0, info)
		assert.InDeltaSlice(t, b, x, 1e-12)
	}
}
