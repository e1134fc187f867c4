package FV3D

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ElsevierSoftwareX/SOFTX-D-21-00131/materials"
	"github.com/ElsevierSoftwareX/SOFTX-D-21-00131/types"
)

// ivCoefficients expands tensor for the 8 cells of a volume, leaving the
// cells marked in zero without material
func ivCoefficients(sc *Scheme, tensor []float64, zero [ivCells]bool) (M [ivCells][]float64) {
	size := sc.NC * 3 * sc.NC * 3
	for c := 0; c < ivCells; c++ {
		M[c] = make([]float64, size)
		if !zero[c] {
			sc.coefficients(tensor, M[c])
		}
	}
	return
}

// ivApply evaluates the face quantities of a volume whose 8 cells share the
// tensor t (or a zero tensor where zero[c]) for the cell values u
func ivApply(sc *Scheme, tensor []float64, zero [ivCells]bool, u []float64) (F []float64, unstable bool) {
	var (
		nc = sc.NC
		E  = make([]float64, ivFaces*nc*ivCells*nc)
	)
	unstable = newIVEngine(sc).Compute(ivCoefficients(sc, tensor, zero), E)
	F = make([]float64, ivFaces*nc)
	for r := range F {
		for m := 0; m < ivCells*nc; m++ {
			F[r] += E[r*ivCells*nc+m] * u[m]
		}
	}
	return
}

func TestIVTables(t *testing.T) {
	for f := 0; f < ivFaces; f++ {
		lo, hi := faceCells[f][0], faceCells[f][1]
		d := faceAxis[f]
		assert.Equal(t, f, cellFace[lo][d])
		assert.Equal(t, f, cellFace[hi][d])
		assert.Equal(t, 1., cellSign[lo][d])
		assert.Equal(t, -1., cellSign[hi][d])
		assert.Equal(t, 1, cellPos(hi)[d]-cellPos(lo)[d])
	}
}

func TestIVConduction(t *testing.T) {
	var (
		none  [ivCells]bool
		ux    = make([]float64, ivCells)
		uy    = make([]float64, ivCells)
		ucnst = make([]float64, ivCells)
	)
	for c := 0; c < ivCells; c++ {
		ux[c] = float64(cellPos(c)[0])
		uy[c] = float64(cellPos(c)[1])
		ucnst[c] = 3
	}
	iso := materials.IsotropicConductivity{K: 2}.Tensor(zeroVec)
	{ // A constant field carries no flux
		F, unstable := ivApply(MPFA, iso, none, ucnst)
		assert.False(t, unstable)
		assert.InDeltaSlice(t, make([]float64, ivFaces), F, 1e-12)
	}
	{ // Linear fields are reproduced exactly, F = -K grad(u)
		F, _ := ivApply(MPFA, iso, none, ux)
		assert.InDeltaSlice(t, []float64{-2, -2, -2, -2, 0, 0, 0, 0, 0, 0, 0, 0}, F, 1e-12)
		F, _ = ivApply(MPFA, iso, none, uy)
		assert.InDeltaSlice(t, []float64{0, 0, 0, 0, -2, -2, -2, -2, 0, 0, 0, 0}, F, 1e-12)
		aniso := materials.AnisotropicConductivity{Kxx: 1, Kyy: 2, Kzz: 3, Kxy: 0.5}.Tensor(zeroVec)
		F, _ = ivApply(MPFA, aniso, none, ux)
		assert.InDeltaSlice(t, []float64{-1, -1, -1, -1, -0.5, -0.5, -0.5, -0.5, 0, 0, 0, 0}, F, 1e-12)
	}
	{ // A tensor conducting along x only leaves the other face values free
		axial := materials.AnisotropicConductivity{Kxx: 1}.Tensor(zeroVec)
		F, unstable := ivApply(MPFA, axial, none, ux)
		assert.False(t, unstable)
		assert.InDeltaSlice(t, []float64{-1, -1, -1, -1, 0, 0, 0, 0, 0, 0, 0, 0}, F, 1e-12)
	}
	{ // One empty cell keeps the volume stable, an empty half does not
		var one, half [ivCells]bool
		one[0] = true
		for c := 0; c < ivCells; c++ {
			half[c] = cellPos(c)[1] == 0
		}
		_, unstable := ivApply(MPFA, iso, one, ux)
		assert.False(t, unstable)
		F, unstable := ivApply(MPFA, iso, half, ux)
		assert.True(t, unstable)
		assert.Equal(t, make([]float64, ivFaces), F)
	}
}

func TestIVElasticity(t *testing.T) {
	var (
		none [ivCells]bool
		C    = materials.IsotropicStiffness{E: 200, Nu: 0.3}.Tensor(zeroVec)
		c11  = C[types.UpperTriangle6(0, 0)]
		c12  = C[types.UpperTriangle6(0, 1)]
		u    = make([]float64, ivCells*3)
		want = make([]float64, ivFaces*3)
	)
	// uniaxial strain along x: u_x = x
	for c := 0; c < ivCells; c++ {
		u[c*3] = float64(cellPos(c)[0])
	}
	for f := 0; f < ivFaces; f++ {
		d := faceAxis[f]
		if d == 0 {
			want[f*3] = c11
		} else {
			want[f*3+d] = c12
		}
	}
	F, unstable := ivApply(MPSA, C, none, u)
	assert.False(t, unstable)
	assert.InDeltaSlice(t, want, F, 1e-8)
	{ // A rigid rotation about z carries no traction
		rot := make([]float64, ivCells*3)
		for c := 0; c < ivCells; c++ {
			pos := cellPos(c)
			rot[c*3], rot[c*3+1] = -float64(pos[1]), float64(pos[0])
		}
		F, unstable = ivApply(MPSA, C, none, rot)
		assert.False(t, unstable)
		assert.InDeltaSlice(t, make([]float64, ivFaces*3), F, 1e-8)
	}
	{ // Half the volume without material has faces with nothing on either side
		var half [ivCells]bool
		for c := 0; c < ivCells; c++ {
			half[c] = cellPos(c)[2] == 1
		}
		_, unstable = ivApply(MPSA, C, half, u)
		assert.True(t, unstable)
	}
}

func TestIVContinuityRank(t *testing.T) {
	var none [ivCells]bool
	{ // The conduction continuity system is regular
		e := newIVEngine(MPFA)
		M := ivCoefficients(MPFA, materials.IsotropicConductivity{K: 2}.Tensor(zeroVec), none)
		require.False(t, e.Compute(M, make([]float64, ivFaces*ivCells)))
		assert.Equal(t, ivFaces, e.svd.Rank(rankTol))
	}
	{ // The elastic one loses the 6 zero strain modes of the cells, which
		// the face tractions do not see
		var (
			e  = newIVEngine(MPSA)
			C  = materials.IsotropicStiffness{E: 200, Nu: 0.3}.Tensor(zeroVec)
			M  = ivCoefficients(MPSA, C, none)
			nf = ivFaces * 3
		)
		require.False(t, e.Compute(M, make([]float64, nf*ivCells*3)))
		assert.Equal(t, nf-6, e.svd.Rank(rankTol))
		s := e.svd.Values(nil)
		assert.Less(t, s[nf-6]/s[0], rankTol)
		assert.Greater(t, s[nf-7]/s[0], rankTol)
		assert.False(t, e.nullReachesFaces(nf-6))
	}
}
