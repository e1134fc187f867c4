package FV3D

import (
	"gonum.org/v1/gonum/mat"
)

// An interaction volume surrounds one vertex of the voxel grid and touches 8
// cells, cell c = a + 2b + 4c with (a,b,c) its offsets along the three axes.
// Its 12 sub-faces are the quarter voxel faces meeting at the vertex:
//
//	normal x, between cells (0,b,c) and (1,b,c): b + 2c
//	normal y, between cells (a,0,c) and (a,1,c): 4 + a + 2c
//	normal z, between cells (a,b,0) and (a,b,1): 8 + a + 2b
const (
	ivCells = 8
	ivFaces = 12
	// singular values of the scaled continuity matrix below rankTol times the
	// largest one span its null space
	rankTol = 1e-12
	// a null space vector changes the face quantities when |A v| exceeds
	// nullTol times the largest entry of A
	nullTol = 1e-8
)

var (
	// cellFace[c][d] is the sub-face of cell c normal to axis d
	cellFace [ivCells][3]int
	// faceCells[f] holds the cells on the low and high side of sub-face f
	faceCells [ivFaces][2]int
	faceAxis  [ivFaces]int
	// cellSign[c][d] is +1 when the sub-face of c normal to d is on its high side
	cellSign [ivCells][3]float64
)

func init() {
	for c := 0; c < ivCells; c++ {
		pos := cellPos(c)
		cellFace[c] = [3]int{pos[1] + 2*pos[2], 4 + pos[0] + 2*pos[2], 8 + pos[0] + 2*pos[1]}
		for d := 0; d < 3; d++ {
			cellSign[c][d] = 1
			if pos[d] == 1 {
				cellSign[c][d] = -1
			}
			f := cellFace[c][d]
			faceCells[f][pos[d]] = c
			faceAxis[f] = d
		}
	}
}

func cellPos(c int) [3]int { return [3]int{c & 1, (c >> 1) & 1, (c >> 2) & 1} }

// ivEngine computes the local transmissibility of one interaction volume at a
// time, reusing its dense work matrices.
type ivEngine struct {
	scheme     *Scheme
	nf, nu     int // face unknowns and cell unknowns
	C, A, D, B *mat.Dense
	X, V       *mat.Dense
	AV         mat.Dense
	svd        mat.SVD
}

func newIVEngine(s *Scheme) (e *ivEngine) {
	nf, nu := ivFaces*s.NC, ivCells*s.NC
	e = &ivEngine{
		scheme: s,
		nf:     nf,
		nu:     nu,
		C:      mat.NewDense(nf, nf, nil),
		A:      mat.NewDense(nf, nf, nil),
		D:      mat.NewDense(nf, nu, nil),
		B:      mat.NewDense(nf, nu, nil),
		X:      mat.NewDense(nf, nu, nil),
		V:      mat.NewDense(nf, nf, nil),
	}
	return
}

// Compute fills E (12NC x 8NC, row f*NC+i, column c*NC+k) with the operator
// mapping the cell values to the face quantities on the 12 sub-faces, each
// evaluated from the cell on the low side. The cell gradient uses the values
// w at the midpoints of the cell's own three sub-faces,
// du_k/dx_l = 2 s_l (w_k - u_k) in voxel units, and w is eliminated through
// continuity of the face quantity across every sub-face. M holds the
// expanded coefficient tables of the 8 cells.
//
// The continuity system is solved in the least squares sense. Its null space
// is not empty in general, the rigid rotations of the cells of an elastic
// volume carry no traction, and it is harmless as long as it does not reach
// the face quantities. A volume is unstable, and leaves E zero, when one of
// its sub-faces has no material on either side or when the null space does
// change the face quantities.
func (e *ivEngine) Compute(M [ivCells][]float64, E []float64) (unstable bool) {
	var (
		nc = e.scheme.NC
	)
	e.C.Zero()
	e.A.Zero()
	e.D.Zero()
	e.B.Zero()
	coef := func(c, i, d, k, l int) float64 {
		return 2 * cellSign[c][l] * M[c][((i*3+d)*nc+k)*3+l]
	}
	for f := 0; f < ivFaces; f++ {
		d := faceAxis[f]
		for side, c := range faceCells[f] {
			sigma := 1.
			if side == 1 {
				sigma = -1
			}
			for i := 0; i < nc; i++ {
				row := f*nc + i
				for k := 0; k < nc; k++ {
					for l := 0; l < 3; l++ {
						v := coef(c, i, d, k, l)
						if v == 0 {
							continue
						}
						col := cellFace[c][l]*nc + k
						e.C.Set(row, col, e.C.At(row, col)+sigma*v)
						e.D.Set(row, c*nc+k, e.D.At(row, c*nc+k)+sigma*v)
						if side == 0 {
							e.A.Set(row, col, e.A.At(row, col)+v)
							e.B.Set(row, c*nc+k, e.B.At(row, c*nc+k)-v)
						}
					}
				}
			}
		}
	}
	for n := range E[:e.nf*e.nu] {
		E[n] = 0
	}
	if voidFace(M) {
		return true
	}
	rank := e.factorize()
	if rank == 0 {
		return true
	}
	e.svd.SolveTo(e.X, e.D, rank)
	if e.nullReachesFaces(rank) {
		return true
	}
	var AX mat.Dense
	AX.Mul(e.A, e.X)
	for r := 0; r < e.nf; r++ {
		for c := 0; c < e.nu; c++ {
			E[r*e.nu+c] = AX.At(r, c) + e.B.At(r, c)
		}
	}
	return false
}

// voidFace reports a sub-face between two cells without material
func voidFace(M [ivCells][]float64) bool {
	var void [ivCells]bool
	for c := range M {
		void[c] = true
		for _, v := range M[c] {
			if v != 0 {
				void[c] = false
				break
			}
		}
	}
	for f := 0; f < ivFaces; f++ {
		if void[faceCells[f][0]] && void[faceCells[f][1]] {
			return true
		}
	}
	return false
}

func maxAbs(m mat.Matrix) float64 {
	return max(mat.Max(m), -mat.Min(m))
}

// factorize scales C and D by the largest entry of C, decomposes C and
// returns its numerical rank, 0 when C vanishes or the decomposition fails
func (e *ivEngine) factorize() (rank int) {
	scale := maxAbs(e.C)
	if scale == 0 {
		return 0
	}
	e.C.Scale(1/scale, e.C)
	e.D.Scale(1/scale, e.D)
	if !e.svd.Factorize(e.C, mat.SVDFull) {
		return 0
	}
	return e.svd.Rank(rankTol)
}

func (e *ivEngine) nullReachesFaces(rank int) bool {
	if rank == e.nf {
		return false
	}
	aMax := maxAbs(e.A)
	if aMax == 0 {
		return false
	}
	e.svd.VTo(e.V)
	null := e.V.Slice(0, e.nf, rank, e.nf)
	e.AV.Reset()
	e.AV.Mul(e.A, null)
	return maxAbs(&e.AV) > nullTol*aMax
}
