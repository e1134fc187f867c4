package materials

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"gonum.org/v1/gonum/spatial/r3"

	"github.com/ElsevierSoftwareX/SOFTX-D-21-00131/types"
)

func TestFiberRotation(t *testing.T) {
	for _, d := range []r3.Vec{
		{X: 1}, {Y: 1}, {Z: 1}, {X: -1}, {X: 1, Y: 1, Z: 1}, {X: 0.3, Y: -0.2, Z: 0.9},
	} {
		var (
			R  = FiberRotation(d)
			du = r3.Unit(d)
		)
		{ // The first axis is carried onto d
			assert.InDelta(t, du.X, R[0][0], 1e-14)
			assert.InDelta(t, du.Y, R[1][0], 1e-14)
			assert.InDelta(t, du.Z, R[2][0], 1e-14)
		}
		{ // R is orthonormal
			for i := 0; i < 3; i++ {
				for j := 0; j < 3; j++ {
					var dot float64
					for k := 0; k < 3; k++ {
						dot += R[k][i] * R[k][j]
					}
					want := 0.
					if i == j {
						want = 1
					}
					assert.InDelta(t, want, dot, 1e-14)
				}
			}
		}
	}
}

func TestOrientedTensors(t *testing.T) {
	{ // A fiber along y exchanges the axial and radial conductivities
		k := OrientedConductivity{Axial: 5, Radial: 1}.Tensor(r3.Vec{Y: 1})
		assert.InDeltaSlice(t, []float64{1, 5, 1, 0, 0, 0}, k, 1e-14)
	}
	{ // A fiber on the xy diagonal has an off diagonal term
		k := OrientedConductivity{Axial: 3, Radial: 1}.Tensor(r3.Vec{X: 1, Y: 1})
		assert.InDeltaSlice(t, []float64{2, 2, 1, 1, 0, 0}, k, 1e-14)
	}
	{ // Isotropic stiffness is invariant under rotation
		iso := IsotropicStiffness{E: 200, Nu: 0.3}.Tensor(r3.Vec{})
		C := types.Unpack6(iso)
		Cr := Rotate6(FiberRotation(r3.Vec{X: 0.3, Y: -0.2, Z: 0.9}), C)
		assert.InDeltaSlice(t, iso, types.Pack6(Cr), 1e-10)
	}
	{ // Transverse isotropy with equal moduli is isotropy
		ti := TransverselyIsotropicStiffness{
			EAxial: 200, ERadial: 200, NuAxial: 0.3, NuRadial: 0.3, GAxial: 200 / 2.6,
		}
		iso := IsotropicStiffness{E: 200, Nu: 0.3}.Tensor(r3.Vec{})
		assert.InDeltaSlice(t, iso, ti.Tensor(r3.Vec{X: 1, Y: 2, Z: 3}), 1e-9)
	}
	{ // Rotating the fiber onto y equals relabeling x and y
		ti := TransverselyIsotropicStiffness{
			EAxial: 230, ERadial: 15, NuAxial: 0.2, NuRadial: 0.4, GAxial: 27,
		}
		alongX := ti.Tensor(r3.Vec{X: 1})
		assert.InDeltaSlice(t, Permute(alongX, [3]int{1, 0, 2}), ti.Tensor(r3.Vec{Y: 1}), 1e-9)
		assert.NoError(t, ti.Validate())
	}
}

func TestPermute(t *testing.T) {
	{ // Conductivity relabeling
		k := []float64{1, 2, 3, 4, 5, 6}
		assert.Equal(t, []float64{2, 1, 3, 4, 6, 5}, Permute(k, [3]int{1, 0, 2}))
		assert.Equal(t, []float64{3, 2, 1, 6, 5, 4}, Permute(k, [3]int{2, 1, 0}))
	}
	{ // A cyclic relabeling applied three times is the identity
		c := make([]float64, types.StiffnessSize)
		for i := range c {
			c[i] = float64(i + 1)
		}
		perm := [3]int{1, 2, 0}
		assert.Equal(t, c, Permute(Permute(Permute(c, perm), perm), perm))
		p := Permute(c, perm)
		// C'_xxxx is C_yyyy
		assert.Equal(t, c[types.UpperTriangle6(1, 1)], p[types.UpperTriangle6(0, 0)])
	}
	assert.Equal(t, r3.Vec{X: 2, Y: 3, Z: 1}, PermuteVec(r3.Vec{X: 1, Y: 2, Z: 3}, [3]int{1, 2, 0}))
}
