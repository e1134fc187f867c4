package voxels

import (
	"math"

	"github.com/ElsevierSoftwareX/SOFTX-D-21-00131/utils"
)

// Unset marks a voxel without a prescribed value
var Unset = math.Inf(1)

func IsSet(v float64) bool { return !math.IsInf(v, 1) }

// PrescribedBC holds NC prescribed values per voxel, stored component major
// (all voxels of component 0 first). Values equal to Unset are free.
type PrescribedBC struct {
	Shape  utils.Shape3
	NC     int
	Values []float64
}

func newPrescribed(shape utils.Shape3, nc int) (bc *PrescribedBC) {
	bc = &PrescribedBC{Shape: shape, NC: nc}
	bc.Values = make([]float64, nc*shape.Len())
	for i := range bc.Values {
		bc.Values[i] = Unset
	}
	return
}

// NewConductivityBC holds a prescribed temperature (or potential) per voxel
func NewConductivityBC(nx, ny, nz int) *PrescribedBC {
	return newPrescribed(utils.NewShape3(nx, ny, nz), 1)
}

// NewElasticityBC holds a prescribed displacement vector per voxel
func NewElasticityBC(nx, ny, nz int) *PrescribedBC {
	return newPrescribed(utils.NewShape3(nx, ny, nz), 3)
}

func (bc *PrescribedBC) At(i, j, k, comp int) float64 {
	return bc.Values[comp*bc.Shape.Len()+bc.Shape.Index(i, j, k)]
}

func (bc *PrescribedBC) Set(i, j, k, comp int, v float64) {
	bc.Values[comp*bc.Shape.Len()+bc.Shape.Index(i, j, k)] = v
}

// SetFace prescribes comp on the whole face normal to axis at position pos
func (bc *PrescribedBC) SetFace(axis, pos, comp int, v float64) {
	s := bc.Shape
	for k := 0; k < s.Nz; k++ {
		for j := 0; j < s.Ny; j++ {
			for i := 0; i < s.Nx; i++ {
				if [3]int{i, j, k}[axis] == pos {
					bc.Set(i, j, k, comp, v)
				}
			}
		}
	}
}

// Count returns the number of prescribed values
func (bc *PrescribedBC) Count() (n int) {
	for _, v := range bc.Values {
		if IsSet(v) {
			n++
		}
	}
	return
}
