package materials

import (
	"fmt"
	"math"

	"gonum.org/v1/gonum/mat"
	"gonum.org/v1/gonum/spatial/r3"

	"github.com/ElsevierSoftwareX/SOFTX-D-21-00131/types"
)

// Physics selects the tensor family a material map describes
type Physics uint8

const (
	Conduction Physics = iota
	Elastic
)

// Components is the number of stored tensor components per voxel
func (p Physics) Components() int {
	if p == Elastic {
		return types.StiffnessSize
	}
	return types.ConductivitySize
}

func (p Physics) String() string {
	return [...]string{"Conduction", "Elastic"}[p]
}

// Property is one material of a map. Oriented properties are defined in the
// fiber frame, with the fiber along the first axis, and are rotated into the
// global frame by the local orientation d. Other properties ignore d.
type Property interface {
	Physics() Physics
	Oriented() bool
	Tensor(d r3.Vec) []float64
	Validate() error
	String() string
}

type IsotropicConductivity struct {
	K float64
}

func (p IsotropicConductivity) Physics() Physics { return Conduction }
func (p IsotropicConductivity) Oriented() bool   { return false }
func (p IsotropicConductivity) Tensor(r3.Vec) []float64 {
	return []float64{p.K, p.K, p.K, 0, 0, 0}
}
func (p IsotropicConductivity) Validate() error {
	if p.K < 0 || math.IsNaN(p.K) {
		return fmt.Errorf("%w: negative conductivity %g", types.ErrConfiguration, p.K)
	}
	return nil
}
func (p IsotropicConductivity) String() string { return fmt.Sprintf("k = %g", p.K) }

// AnisotropicConductivity is a constant tensor in the global frame
type AnisotropicConductivity struct {
	Kxx, Kyy, Kzz, Kxy, Kxz, Kyz float64
}

func (p AnisotropicConductivity) Physics() Physics { return Conduction }
func (p AnisotropicConductivity) Oriented() bool   { return false }
func (p AnisotropicConductivity) Tensor(r3.Vec) []float64 {
	return []float64{p.Kxx, p.Kyy, p.Kzz, p.Kxy, p.Kxz, p.Kyz}
}
func (p AnisotropicConductivity) Validate() error {
	if p.Kxx < 0 || p.Kyy < 0 || p.Kzz < 0 {
		return fmt.Errorf("%w: negative diagonal conductivity in %v", types.ErrConfiguration, p)
	}
	return nil
}
func (p AnisotropicConductivity) String() string {
	return fmt.Sprintf("k = [%g %g %g %g %g %g]", p.Kxx, p.Kyy, p.Kzz, p.Kxy, p.Kxz, p.Kyz)
}

// OrientedConductivity has Axial conductivity along the fiber and Radial across it
type OrientedConductivity struct {
	Axial, Radial float64
}

func (p OrientedConductivity) Physics() Physics { return Conduction }
func (p OrientedConductivity) Oriented() bool   { return true }
func (p OrientedConductivity) Tensor(d r3.Vec) []float64 {
	var K [3][3]float64
	K[0][0], K[1][1], K[2][2] = p.Axial, p.Radial, p.Radial
	return types.Pack3(Rotate3(FiberRotation(d), K))
}
func (p OrientedConductivity) Validate() error {
	if p.Axial < 0 || p.Radial < 0 {
		return fmt.Errorf("%w: negative conductivity in %v", types.ErrConfiguration, p)
	}
	return nil
}
func (p OrientedConductivity) String() string {
	return fmt.Sprintf("k axial = %g, k radial = %g", p.Axial, p.Radial)
}

// Stiffness is a constant 21 component stiffness in the global frame
type Stiffness struct {
	C [21]float64
}

func (p Stiffness) Physics() Physics        { return Elastic }
func (p Stiffness) Oriented() bool          { return false }
func (p Stiffness) Tensor(r3.Vec) []float64 { return append([]float64(nil), p.C[:]...) }
func (p Stiffness) Validate() error {
	for I := 0; I < 6; I++ {
		if p.C[types.UpperTriangle6(I, I)] < 0 {
			return fmt.Errorf("%w: negative diagonal stiffness C%d%d", types.ErrConfiguration, I+1, I+1)
		}
	}
	return nil
}
func (p Stiffness) String() string { return fmt.Sprintf("C = %v", p.C) }

// IsotropicStiffness from Young's modulus and Poisson's ratio
type IsotropicStiffness struct {
	E, Nu float64
}

func (p IsotropicStiffness) Physics() Physics { return Elastic }
func (p IsotropicStiffness) Oriented() bool   { return false }
func (p IsotropicStiffness) Tensor(r3.Vec) []float64 {
	var (
		C      [6][6]float64
		lambda = p.E * p.Nu / ((1 + p.Nu) * (1 - 2*p.Nu))
		G      = p.E / (2 * (1 + p.Nu))
	)
	for I := 0; I < 3; I++ {
		for J := 0; J < 3; J++ {
			C[I][J] = lambda
		}
		C[I][I] = lambda + 2*G
		C[I+3][I+3] = G
	}
	return types.Pack6(C)
}
func (p IsotropicStiffness) Validate() error {
	if p.E < 0 || p.Nu <= -1 || p.Nu >= 0.5 {
		return fmt.Errorf("%w: invalid isotropic stiffness E = %g, nu = %g", types.ErrConfiguration, p.E, p.Nu)
	}
	return nil
}
func (p IsotropicStiffness) String() string { return fmt.Sprintf("E = %g, nu = %g", p.E, p.Nu) }

// TransverselyIsotropicStiffness is isotropic in the plane normal to the fiber
type TransverselyIsotropicStiffness struct {
	EAxial, ERadial   float64
	NuAxial, NuRadial float64 // nu12 and nu23
	GAxial            float64 // G12
}

func (p TransverselyIsotropicStiffness) Physics() Physics { return Elastic }
func (p TransverselyIsotropicStiffness) Oriented() bool   { return true }

// fiberFrame inverts the compliance written with the fiber along x
func (p TransverselyIsotropicStiffness) fiberFrame() (C [6][6]float64, err error) {
	S := mat.NewDense(6, 6, nil)
	S.Set(0, 0, 1/p.EAxial)
	S.Set(1, 1, 1/p.ERadial)
	S.Set(2, 2, 1/p.ERadial)
	for _, J := range []int{1, 2} {
		S.Set(0, J, -p.NuAxial/p.EAxial)
		S.Set(J, 0, -p.NuAxial/p.EAxial)
	}
	S.Set(1, 2, -p.NuRadial/p.ERadial)
	S.Set(2, 1, -p.NuRadial/p.ERadial)
	S.Set(3, 3, 2*(1+p.NuRadial)/p.ERadial)
	S.Set(4, 4, 1/p.GAxial)
	S.Set(5, 5, 1/p.GAxial)
	var Cm mat.Dense
	if err = Cm.Inverse(S); err != nil {
		err = fmt.Errorf("%w: singular compliance for %v", types.ErrConfiguration, p)
		return
	}
	for I := 0; I < 6; I++ {
		for J := 0; J < 6; J++ {
			C[I][J] = Cm.At(I, J)
		}
	}
	return
}

func (p TransverselyIsotropicStiffness) Tensor(d r3.Vec) []float64 {
	C, err := p.fiberFrame()
	if err != nil {
		panic(err)
	}
	return types.Pack6(Rotate6(FiberRotation(d), C))
}

func (p TransverselyIsotropicStiffness) Validate() (err error) {
	if p.EAxial <= 0 || p.ERadial <= 0 || p.GAxial <= 0 {
		return fmt.Errorf("%w: moduli must be positive in %v", types.ErrConfiguration, p)
	}
	_, err = p.fiberFrame()
	return
}

func (p TransverselyIsotropicStiffness) String() string {
	return fmt.Sprintf("E axial = %g, E radial = %g, nu axial = %g, nu radial = %g, G axial = %g",
		p.EAxial, p.ERadial, p.NuAxial, p.NuRadial, p.GAxial)
}
