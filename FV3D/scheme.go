package FV3D

import (
	"github.com/ElsevierSoftwareX/SOFTX-D-21-00131/materials"
	"github.com/ElsevierSoftwareX/SOFTX-D-21-00131/types"
	"github.com/ElsevierSoftwareX/SOFTX-D-21-00131/utils"
)

// Scheme describes the physics discretized by the multi point finite volume
// method: NC unknowns per voxel and a face quantity F_i on a face of normal d
// given by sum_kl M[i,d,k,l] du_k/dx_l.
type Scheme struct {
	Name    string
	Physics materials.Physics
	NC      int
	// RowSign orients the balance rows so that stable diagonals are positive
	RowSign float64
	// Perms relabel the axes so that the solve direction becomes axis 0,
	// new axis a is old axis Perms[dir][a]
	Perms [3][3]int
	// Coefficient returns M[i,d,k,l] for a packed voxel tensor
	Coefficient func(t []float64, i, d, k, l int) float64
}

var (
	// MPFA is the multi point flux approximation for conductivity, F is the
	// flux density -K grad(T) along the face normal
	MPFA = &Scheme{
		Name:        "MPFA",
		Physics:     materials.Conduction,
		NC:          1,
		RowSign:     1,
		Perms:       [3][3]int{{0, 1, 2}, {1, 0, 2}, {2, 1, 0}},
		Coefficient: func(t []float64, _, d, _, l int) float64 {
			return -t[types.SymIndex3(d, l)]
		},
	}
	// MPSA is the multi point stress approximation for linear elasticity, F is
	// the traction C:grad(u) on the face
	MPSA = &Scheme{
		Name:        "MPSA",
		Physics:     materials.Elastic,
		NC:          3,
		RowSign:     -1,
		Perms:       [3][3]int{{0, 1, 2}, {1, 2, 0}, {2, 0, 1}},
		Coefficient: func(t []float64, i, d, k, l int) float64 {
			return t[types.UpperTriangle6(types.Voigt(i, d), types.Voigt(k, l))]
		},
	}
)

// Permutation returns the axis relabeling for dir, identity when there is no direction
func (s *Scheme) Permutation(dir utils.Direction) [3]int {
	if dir == utils.DirNone {
		return s.Perms[0]
	}
	return s.Perms[dir.Axis()]
}

// TensorSize is the number of packed components per voxel tensor
func (s *Scheme) TensorSize() int { return s.Physics.Components() }

// coefficients expands a packed tensor into the dense M[i][d][k][l] table,
// stored flat with l fastest
func (s *Scheme) coefficients(t []float64, M []float64) (zero bool) {
	zero = true
	nc := s.NC
	for i := 0; i < nc; i++ {
		for d := 0; d < 3; d++ {
			for k := 0; k < nc; k++ {
				for l := 0; l < 3; l++ {
					v := s.Coefficient(t, i, d, k, l)
					M[((i*3+d)*nc+k)*3+l] = v
					zero = zero && v == 0
				}
			}
		}
	}
	return
}
