package utils

import (
	"math"

	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/mat"
)

// IterCallback observes the residual after every iteration, it must not alter solver state
type IterCallback func(iter int, residual float64)

// SolveParams collects the inputs of a linear solve
type SolveParams struct {
	Kind     SolverKind
	Tol      float64 // relative to ||b||
	MaxIter  int
	Precond  Preconditioner
	Callback IterCallback
	Restart  int // GMRES only, 30 if zero
}

// LinearSolve solves A x = b starting from x0. The returned info is 0 on
// convergence, the iteration count if the limit was reached without
// convergence, and negative on breakdown.
func LinearSolve(A CSR, b, x0 []float64, p SolveParams) (x []float64, info int) {
	x = make([]float64, len(b))
	copy(x, x0)
	if p.Precond == nil {
		p.Precond = identityPrecond{}
	}
	switch p.Kind {
	case CG:
		info = solveCG(A, b, x, p)
	case GMRES:
		info = solveGMRES(A, b, x, p)
	case Direct:
		info = solveDirect(A, b, x)
	default:
		info = solveBiCGSTAB(A, b, x, p)
	}
	return
}

type identityPrecond struct{}

func (identityPrecond) Apply(z, r []float64) { copy(z, r) }

func residual(A CSR, b, x, r []float64) {
	A.MulVec(r, x)
	floats.SubTo(r, b, r)
}

func targetNorm(b []float64, tol float64) float64 {
	bn := floats.Norm(b, 2)
	if bn == 0 {
		bn = 1
	}
	return tol * bn
}

// Preconditioned conjugate gradients
func solveCG(A CSR, b, x []float64, p SolveParams) int {
	var (
		n      = len(b)
		r      = make([]float64, n)
		z      = make([]float64, n)
		d      = make([]float64, n)
		Ad     = make([]float64, n)
		target = targetNorm(b, p.Tol)
	)
	residual(A, b, x, r)
	if floats.Norm(r, 2) <= target {
		return 0
	}
	p.Precond.Apply(z, r)
	copy(d, z)
	rz := floats.Dot(r, z)
	for it := 1; it <= p.MaxIter; it++ {
		A.MulVec(Ad, d)
		dAd := floats.Dot(d, Ad)
		if dAd == 0 || math.IsNaN(dAd) {
			return -1
		}
		alpha := rz / dAd
		floats.AddScaled(x, alpha, d)
		floats.AddScaled(r, -alpha, Ad)
		rn := floats.Norm(r, 2)
		if p.Callback != nil {
			p.Callback(it, rn)
		}
		if rn <= target {
			return 0
		}
		p.Precond.Apply(z, r)
		rzNew := floats.Dot(r, z)
		beta := rzNew / rz
		rz = rzNew
		floats.AddScaledTo(d, z, beta, d)
	}
	return p.MaxIter
}

// Right preconditioned BiCGSTAB
func solveBiCGSTAB(A CSR, b, x []float64, p SolveParams) int {
	var (
		n      = len(b)
		r      = make([]float64, n)
		rHat   = make([]float64, n)
		v      = make([]float64, n)
		pv     = make([]float64, n)
		ph     = make([]float64, n)
		s      = make([]float64, n)
		sh     = make([]float64, n)
		t      = make([]float64, n)
		target = targetNorm(b, p.Tol)
	)
	residual(A, b, x, r)
	if floats.Norm(r, 2) <= target {
		return 0
	}
	copy(rHat, r)
	rho, alpha, omega := 1., 1., 1.
	for it := 1; it <= p.MaxIter; it++ {
		rhoNew := floats.Dot(rHat, r)
		if rhoNew == 0 {
			return -1
		}
		if it == 1 {
			copy(pv, r)
		} else {
			beta := (rhoNew / rho) * (alpha / omega)
			// p = r + beta (p - omega v)
			floats.AddScaled(pv, -omega, v)
			floats.AddScaledTo(pv, r, beta, pv)
		}
		rho = rhoNew
		p.Precond.Apply(ph, pv)
		A.MulVec(v, ph)
		rv := floats.Dot(rHat, v)
		if rv == 0 {
			return -1
		}
		alpha = rho / rv
		floats.AddScaledTo(s, r, -alpha, v)
		if sn := floats.Norm(s, 2); sn <= target {
			floats.AddScaled(x, alpha, ph)
			if p.Callback != nil {
				p.Callback(it, sn)
			}
			return 0
		}
		p.Precond.Apply(sh, s)
		A.MulVec(t, sh)
		tt := floats.Dot(t, t)
		if tt == 0 {
			return -1
		}
		omega = floats.Dot(t, s) / tt
		floats.AddScaled(x, alpha, ph)
		floats.AddScaled(x, omega, sh)
		floats.AddScaledTo(r, s, -omega, t)
		rn := floats.Norm(r, 2)
		if p.Callback != nil {
			p.Callback(it, rn)
		}
		if math.IsNaN(rn) {
			return -1
		}
		if rn <= target {
			return 0
		}
		if omega == 0 {
			return -1
		}
	}
	return p.MaxIter
}

// Restarted, right preconditioned GMRES(m) with Givens rotations
func solveGMRES(A CSR, b, x []float64, p SolveParams) int {
	var (
		n      = len(b)
		m      = p.Restart
		r      = make([]float64, n)
		w      = make([]float64, n)
		z      = make([]float64, n)
		target = targetNorm(b, p.Tol)
		it     int
	)
	if m <= 0 {
		m = 30
	}
	V := make([][]float64, m+1)
	for i := range V {
		V[i] = make([]float64, n)
	}
	H := mat.NewDense(m+1, m, nil)
	cs, sn, g := make([]float64, m), make([]float64, m), make([]float64, m+1)
	for it < p.MaxIter {
		residual(A, b, x, r)
		beta := floats.Norm(r, 2)
		if beta <= target {
			return 0
		}
		floats.ScaleTo(V[0], 1/beta, r)
		H.Zero()
		for i := range g {
			g[i] = 0
		}
		g[0] = beta
		var j int
		for j = 0; j < m && it < p.MaxIter; j++ {
			it++
			p.Precond.Apply(z, V[j])
			A.MulVec(w, z)
			for i := 0; i <= j; i++ {
				hij := floats.Dot(w, V[i])
				H.Set(i, j, hij)
				floats.AddScaled(w, -hij, V[i])
			}
			hNext := floats.Norm(w, 2)
			H.Set(j+1, j, hNext)
			if hNext != 0 {
				floats.ScaleTo(V[j+1], 1/hNext, w)
			}
			for i := 0; i < j; i++ {
				h0, h1 := H.At(i, j), H.At(i+1, j)
				H.Set(i, j, cs[i]*h0+sn[i]*h1)
				H.Set(i+1, j, -sn[i]*h0+cs[i]*h1)
			}
			h0, h1 := H.At(j, j), H.At(j+1, j)
			den := math.Hypot(h0, h1)
			if den == 0 {
				return -1
			}
			cs[j], sn[j] = h0/den, h1/den
			H.Set(j, j, den)
			H.Set(j+1, j, 0)
			g[j+1] = -sn[j] * g[j]
			g[j] = cs[j] * g[j]
			res := math.Abs(g[j+1])
			if p.Callback != nil {
				p.Callback(it, res)
			}
			if res <= target || hNext == 0 {
				j++
				break
			}
		}
		// back substitution on the triangular Hessenberg
		y := make([]float64, j)
		for i := j - 1; i >= 0; i-- {
			sum := g[i]
			for k := i + 1; k < j; k++ {
				sum -= H.At(i, k) * y[k]
			}
			y[i] = sum / H.At(i, i)
		}
		for i := range w {
			w[i] = 0
		}
		for i := 0; i < j; i++ {
			floats.AddScaled(w, y[i], V[i])
		}
		p.Precond.Apply(z, w)
		floats.Add(x, z)
	}
	residual(A, b, x, r)
	if floats.Norm(r, 2) <= target {
		return 0
	}
	return p.MaxIter
}

// MaxDirectUnknowns bounds the systems handed to the direct solver, which
// expands the matrix to dense storage
const MaxDirectUnknowns = 10000

// Dense LU factorization, intended for small systems and verification. It
// returns -2 above MaxDirectUnknowns and -1 for a singular system or a
// solution that does not satisfy A x = b.
func solveDirect(A CSR, b, x []float64) int {
	var (
		lu  mat.LU
		n   = len(b)
		xv  = mat.NewVecDense(n, x)
		rhs = mat.NewVecDense(n, append([]float64(nil), b...))
	)
	if n > MaxDirectUnknowns {
		return -2
	}
	lu.Factorize(A.Dense())
	if err := lu.SolveVecTo(xv, false, rhs); err != nil {
		cond, ok := err.(mat.Condition)
		if !ok || math.IsInf(float64(cond), 1) {
			return -1
		}
	}
	for _, v := range x {
		if math.IsNaN(v) || math.IsInf(v, 0) {
			return -1
		}
	}
	// backward error of the solution, LU with partial pivoting keeps it near
	// machine precision unless the matrix is numerically singular
	r := make([]float64, n)
	residual(A, b, x, r)
	scale := normInfCSR(A)*floats.Norm(x, math.Inf(1)) + floats.Norm(b, math.Inf(1))
	if scale > 0 && floats.Norm(r, math.Inf(1)) > directBackwardTol*scale {
		return -1
	}
	return 0
}

const directBackwardTol = 1e-10

// normInfCSR is the largest absolute row sum
func normInfCSR(A CSR) (nrm float64) {
	raw := A.RawMatrix()
	for i := 0; i < raw.I; i++ {
		var sum float64
		for p := raw.Indptr[i]; p < raw.Indptr[i+1]; p++ {
			sum += math.Abs(raw.Data[p])
		}
		nrm = max(nrm, sum)
	}
	return
}
