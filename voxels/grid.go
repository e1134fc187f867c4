package voxels

import (
	"fmt"
	"math"

	"gonum.org/v1/gonum/spatial/r3"

	"github.com/ElsevierSoftwareX/SOFTX-D-21-00131/types"
	"github.com/ElsevierSoftwareX/SOFTX-D-21-00131/utils"
)

// Grid is a voxelized sample: one material id per voxel plus an optional
// fiber orientation field. Data is stored with x fastest.
type Grid struct {
	Shape       utils.Shape3
	Data        []uint16
	Orientation []r3.Vec
	VoxelLength float64
}

func NewGrid(nx, ny, nz int) (g *Grid) {
	g = &Grid{
		Shape:       utils.NewShape3(nx, ny, nz),
		VoxelLength: 1e-6,
	}
	g.Data = make([]uint16, g.Shape.Len())
	return
}

// NewGridFromData wraps data, which must hold nx*ny*nz values
func NewGridFromData(nx, ny, nz int, data []uint16) (g *Grid, err error) {
	g = &Grid{
		Shape:       utils.NewShape3(nx, ny, nz),
		VoxelLength: 1e-6,
	}
	if len(data) != g.Shape.Len() {
		err = fmt.Errorf("%w: %d values supplied for a %dx%dx%d grid",
			types.ErrConfiguration, len(data), nx, ny, nz)
		return nil, err
	}
	g.Data = data
	return
}

func (g *Grid) At(i, j, k int) uint16     { return g.Data[g.Shape.Index(i, j, k)] }
func (g *Grid) Set(i, j, k int, v uint16) { g.Data[g.Shape.Index(i, j, k)] = v }

// Fill sets every voxel in the half open box [i0,i1)x[j0,j1)x[k0,k1) to v
func (g *Grid) Fill(i0, i1, j0, j1, k0, k1 int, v uint16) {
	for k := k0; k < k1; k++ {
		for j := j0; j < j1; j++ {
			for i := i0; i < i1; i++ {
				g.Set(i, j, k, v)
			}
		}
	}
}

func (g *Grid) HasOrientation() bool { return len(g.Orientation) != 0 }

// SetUniformOrientation assigns the same direction to every voxel
func (g *Grid) SetUniformOrientation(d r3.Vec) {
	g.Orientation = make([]r3.Vec, g.Shape.Len())
	for i := range g.Orientation {
		g.Orientation[i] = d
	}
}

func (g *Grid) OrientationAt(i, j, k int) r3.Vec {
	return g.Orientation[g.Shape.Index(i, j, k)]
}

// MinMax returns the smallest and largest id present
func (g *Grid) MinMax() (lo, hi uint16) {
	lo, hi = math.MaxUint16, 0
	for _, v := range g.Data {
		lo, hi = min(lo, v), max(hi, v)
	}
	return
}

// Tile repeats the grid times along axis, orientation included
func (g *Grid) Tile(axis, times int) (t *Grid) {
	dims := [3]int{g.Shape.Nx, g.Shape.Ny, g.Shape.Nz}
	dims[axis] *= times
	t = NewGrid(dims[0], dims[1], dims[2])
	t.VoxelLength = g.VoxelLength
	if g.HasOrientation() {
		t.Orientation = make([]r3.Vec, t.Shape.Len())
	}
	for k := 0; k < dims[2]; k++ {
		for j := 0; j < dims[1]; j++ {
			for i := 0; i < dims[0]; i++ {
				src := g.Shape.Index(i%g.Shape.Nx, j%g.Shape.Ny, k%g.Shape.Nz)
				dst := t.Shape.Index(i, j, k)
				t.Data[dst] = g.Data[src]
				if g.HasOrientation() {
					t.Orientation[dst] = g.Orientation[src]
				}
			}
		}
	}
	return
}

// VolumeFraction returns the fraction of voxels with low <= id <= high
func VolumeFraction(g *Grid, low, high uint16) (vf float64, err error) {
	if low > high {
		err = fmt.Errorf("%w: volume fraction range [%d, %d] is empty",
			types.ErrConfiguration, low, high)
		return
	}
	if len(g.Data) == 0 {
		return
	}
	var count int
	for _, v := range g.Data {
		if v >= low && v <= high {
			count++
		}
	}
	vf = float64(count) / float64(len(g.Data))
	return
}
