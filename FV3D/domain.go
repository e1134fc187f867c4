package FV3D

import (
	"fmt"

	"gonum.org/v1/gonum/spatial/r3"

	"github.com/ElsevierSoftwareX/SOFTX-D-21-00131/materials"
	"github.com/ElsevierSoftwareX/SOFTX-D-21-00131/types"
	"github.com/ElsevierSoftwareX/SOFTX-D-21-00131/utils"
	"github.com/ElsevierSoftwareX/SOFTX-D-21-00131/voxels"
)

var zeroVec r3.Vec

// Domain is the padded, axis relabeled copy of a voxel grid owned by one
// solve. The solve direction is axis 0 and every axis carries a one voxel halo.
type Domain struct {
	Scheme      *Scheme
	Dir         utils.Direction
	Side        utils.SideBC
	Perm        [3]int
	Orig        utils.Shape3 // caller's interior shape
	Shape       utils.Shape3 // relabeled padded shape
	Mat         []int32      // material index per padded voxel, -1 is the empty halo
	Orient      []r3.Vec     // relabeled unit orientation per padded voxel, nil if unused
	Dirichlet   []bool       // per unknown
	B           []float64    // per unknown
	VoxelLength float64
	Builder     *materials.Builder
	// ProcLimit caps the goroutines computing interaction volumes, 0 uses every CPU
	ProcLimit int
	haloKind  [3]utils.SideBC
}

// N is the number of padded voxels
func (dm *Domain) N() int { return dm.Shape.Len() }

// Unknowns is the size of the global system
func (dm *Domain) Unknowns() int { return dm.Scheme.NC * dm.Shape.Len() }

// Unknown returns the global row of component comp at padded voxel (i,j,k)
func (dm *Domain) Unknown(comp, i, j, k int) int {
	return comp*dm.Shape.Len() + dm.Shape.Index(i, j, k)
}

// IsHalo reports whether padded voxel (i,j,k) lies outside the sample
func (dm *Domain) IsHalo(i, j, k int) bool {
	s := dm.Shape
	return i == 0 || j == 0 || k == 0 || i == s.Nx-1 || j == s.Ny-1 || k == s.Nz-1
}

// origIndex maps relabeled interior coordinates (0 based) to the caller's grid index
func (dm *Domain) origIndex(i, j, k int) int {
	var o [3]int
	o[dm.Perm[0]], o[dm.Perm[1]], o[dm.Perm[2]] = i, j, k
	return dm.Orig.Index(o[0], o[1], o[2])
}

// haloSource returns the padded coordinate whose value fills coordinate c of
// an axis with n padded voxels, or -1 when the halo stays empty
func haloSource(c, n int, kind utils.SideBC) int {
	if c > 0 && c < n-1 {
		return c
	}
	switch kind {
	case utils.Periodic:
		if c == 0 {
			return n - 2
		}
		return 1
	case utils.Symmetric:
		if c == 0 {
			return 1
		}
		return n - 2
	}
	return -1
}

// source maps a padded voxel to the interior voxel that fills it
func (dm *Domain) source(i, j, k int) (si, sj, sk int, ok bool) {
	s := dm.Shape
	si = haloSource(i, s.Nx, dm.haloKind[0])
	sj = haloSource(j, s.Ny, dm.haloKind[1])
	sk = haloSource(k, s.Nz, dm.haloKind[2])
	ok = si >= 0 && sj >= 0 && sk >= 0
	return
}

// PrepareDomain validates the inputs, relabels the axes so that dir is axis 0,
// pads every axis with a halo filled per the side boundary condition, segments
// the voxel ids into material indices and marks the Dirichlet unknowns.
func PrepareDomain(g *voxels.Grid, m *materials.Map, dir utils.Direction, side utils.SideBC,
	scheme *Scheme, prescribed *voxels.PrescribedBC) (dm *Domain, err error) {
	if g.Shape.Nx < 3 || g.Shape.Ny < 3 || g.Shape.Nz < 3 {
		err = fmt.Errorf("%w: domain %dx%dx%d must be at least 3x3x3",
			types.ErrDomainSize, g.Shape.Nx, g.Shape.Ny, g.Shape.Nz)
		return
	}
	if err = checkBoundaries(g, dir, side, scheme, prescribed); err != nil {
		return
	}
	if m.Physics != scheme.Physics {
		err = fmt.Errorf("%w: %s material map used with %s", types.ErrConfiguration, m.Physics, scheme.Name)
		return
	}
	if err = m.Validate(); err != nil {
		return
	}
	if err = m.CheckCoverage(g); err != nil {
		return
	}
	if err = m.CheckOrientation(g); err != nil {
		return
	}
	dm = &Domain{
		Scheme:      scheme,
		Dir:         dir,
		Side:        side,
		Perm:        scheme.Permutation(dir),
		Orig:        g.Shape,
		VoxelLength: g.VoxelLength,
	}
	dm.Shape = g.Shape.Permute(dm.Perm).Pad()
	dm.haloKind = [3]utils.SideBC{utils.Symmetric, side, side}
	if side == utils.Free {
		dm.haloKind[0] = utils.Free
	}
	dm.Builder = materials.NewBuilder(m, dm.Perm)
	dm.pad(g, m)
	dm.markDirichlet(prescribed)
	return
}

func checkBoundaries(g *voxels.Grid, dir utils.Direction, side utils.SideBC,
	scheme *Scheme, prescribed *voxels.PrescribedBC) error {
	if side == utils.Free && dir != utils.DirNone {
		return fmt.Errorf("%w: free sides are only valid without a solve direction",
			types.ErrBoundaryCondition)
	}
	if prescribed == nil {
		if dir == utils.DirNone {
			return fmt.Errorf("%w: a prescribed boundary condition is required without a solve direction",
				types.ErrBoundaryCondition)
		}
		return nil
	}
	if !prescribed.Shape.Equal(g.Shape) || prescribed.NC != scheme.NC {
		return fmt.Errorf("%w: prescribed boundary condition %dx%dx%d (%d components) does not match the domain %dx%dx%d (%d components)",
			types.ErrBoundaryCondition, prescribed.Shape.Nx, prescribed.Shape.Ny, prescribed.Shape.Nz, prescribed.NC,
			g.Shape.Nx, g.Shape.Ny, g.Shape.Nz, scheme.NC)
	}
	if dir == utils.DirNone {
		return nil
	}
	axis := dir.Axis()
	for _, pos := range []int{0, g.Shape.Dim(axis) - 1} {
		for n := 0; n < g.Shape.Len(); n++ {
			i, j, k := g.Shape.IJK(n)
			if [3]int{i, j, k}[axis] != pos {
				continue
			}
			for c := 0; c < prescribed.NC; c++ {
				if !voxels.IsSet(prescribed.At(i, j, k, c)) {
					return fmt.Errorf("%w: prescribed boundary condition must be defined on both %s ends, (%d, %d, %d) is not",
						types.ErrBoundaryCondition, dir, i, j, k)
				}
			}
		}
	}
	return nil
}

func (dm *Domain) pad(g *voxels.Grid, m *materials.Map) {
	var (
		s        = dm.Shape
		seg      = make([]int32, g.Shape.Len())
		oriented bool
	)
	m.Segment(g.Data, seg)
	for _, e := range m.Entries {
		oriented = oriented || e.Property.Oriented()
	}
	dm.Mat = make([]int32, s.Len())
	if oriented {
		dm.Orient = make([]r3.Vec, s.Len())
	}
	for k := 0; k < s.Nz; k++ {
		for j := 0; j < s.Ny; j++ {
			for i := 0; i < s.Nx; i++ {
				n := s.Index(i, j, k)
				si, sj, sk, ok := dm.source(i, j, k)
				if !ok {
					dm.Mat[n] = -1
					continue
				}
				src := dm.origIndex(si-1, sj-1, sk-1)
				dm.Mat[n] = seg[src]
				if oriented {
					dm.Orient[n] = materials.PermuteVec(r3.Unit(g.Orientation[src]), dm.Perm)
				}
			}
		}
	}
}

func (dm *Domain) markDirichlet(prescribed *voxels.PrescribedBC) {
	var (
		s  = dm.Shape
		nc = dm.Scheme.NC
	)
	dm.Dirichlet = make([]bool, dm.Unknowns())
	dm.B = make([]float64, dm.Unknowns())
	set := func(i, j, k, comp int, v float64) {
		u := dm.Unknown(comp, i, j, k)
		dm.Dirichlet[u] = true
		dm.B[u] = v
	}
	if dm.Dir != utils.DirNone {
		ramp := func(i int) float64 { return float64(i-1) / float64(s.Nx-3) }
		for k := 1; k < s.Nz-1; k++ {
			for j := 1; j < s.Ny-1; j++ {
				for i := 1; i < s.Nx-1; i++ {
					end := i == 1 || i == s.Nx-2
					sideFace := dm.Side == utils.Dirichlet && (j == 1 || j == s.Ny-2 || k == 1 || k == s.Nz-2)
					if !end && !sideFace {
						continue
					}
					for c := 0; c < nc; c++ {
						set(i, j, k, c, 0)
					}
					if sideFace || prescribed == nil {
						set(i, j, k, 0, ramp(i))
					}
				}
			}
		}
	}
	if prescribed == nil {
		return
	}
	for k := 1; k < s.Nz-1; k++ {
		for j := 1; j < s.Ny-1; j++ {
			for i := 1; i < s.Nx-1; i++ {
				src := dm.origIndex(i-1, j-1, k-1)
				for c := 0; c < nc; c++ {
					// relabeled component c is the caller's component Perm[c]
					oc := c
					if nc == 3 {
						oc = dm.Perm[c]
					}
					if v := prescribed.Values[oc*prescribed.Shape.Len()+src]; voxels.IsSet(v) {
						set(i, j, k, c, v)
					}
				}
			}
		}
	}
}
