package FV3D

import (
	"fmt"

	"github.com/ElsevierSoftwareX/SOFTX-D-21-00131/types"
	"github.com/ElsevierSoftwareX/SOFTX-D-21-00131/utils"
)

// Field holds NC values per voxel of the caller's grid, component major
type Field struct {
	Shape utils.Shape3
	NC    int
	Data  []float64
}

func NewField(shape utils.Shape3, nc int) *Field {
	return &Field{Shape: shape, NC: nc, Data: make([]float64, nc*shape.Len())}
}

func (f *Field) At(i, j, k, c int) float64 {
	return f.Data[c*f.Shape.Len()+f.Shape.Index(i, j, k)]
}

func (f *Field) set(i, j, k, c int, v float64) {
	f.Data[c*f.Shape.Len()+f.Shape.Index(i, j, k)] = v
}

// Mean of component c
func (f *Field) Mean(c int) (m float64) {
	n := f.Shape.Len()
	for _, v := range f.Data[c*n : (c+1)*n] {
		m += v
	}
	return m / float64(n)
}

// Solution is the post processed result of a solve, in the caller's axes.
// For conductivity Normal holds the flux vector and Shear is nil. For
// elasticity Normal holds the normal stresses xx, yy, zz and Shear the shear
// stresses yz, xz, xy.
type Solution struct {
	Effective []float64 // keff (3) or Ceff (6, Voigt order)
	U         *Field
	Normal    *Field
	Shear     *Field
}

// Reconstruct recomputes the face quantities of every interaction volume from
// the solved field, averages them per voxel and volume averages the result
// into the effective coefficient. u is the padded solution, its halos are
// overwritten by the mirrored layers.
func Reconstruct(dm *Domain, u []float64, dg Diagnostics) (sol *Solution) {
	var (
		lg    = dg.logger()
		sc    = dm.Scheme
		nc    = sc.NC
		s     = dm.Shape
		inner = utils.NewShape3(s.Nx-2, s.Ny-2, s.Nz-2)
		sw    = newSweeper(dm)
		nu    = ivCells * nc
		uIV   = make([]float64, nu)
		// rotated interior fields
		U      = NewField(inner, nc)
		normal = NewField(inner, 3)
		shear  *Field
	)
	if nc == 3 {
		shear = NewField(inner, 3)
	}
	dm.mirror(u)
	for k := 0; k < inner.Nz; k++ {
		for j := 0; j < inner.Ny; j++ {
			for i := 0; i < inner.Nx; i++ {
				for c := 0; c < nc; c++ {
					U.set(i, j, k, c, u[dm.Unknown(c, i+1, j+1, k+1)])
				}
			}
		}
	}
	fmt.Fprintf(lg.Writer(), "Computing fluxes ... ")
	sw.sweep(func(i int) {
		for k := 1; k < s.Nz-1; k++ {
			for j := 1; j < s.Ny-1; j++ {
				// F[d][c] sums component c of the face quantity over the 8 sub-faces of normal d
				var F [3][3]float64
				for n := 0; n < ivCells; n++ {
					slot, iv, cell, p, q := sw.ivAround(n, j, k)
					if sw.unstable[slot][iv] {
						continue
					}
					ii := i - 1 + slot
					for x := 0; x < ivCells; x++ {
						pos := cellPos(x)
						for kc := 0; kc < nc; kc++ {
							uIV[x*nc+kc] = u[dm.Unknown(kc, ii+pos[0], p+pos[1], q+pos[2])]
						}
					}
					E := sw.E[slot][iv*sw.emSize : (iv+1)*sw.emSize]
					for d := 0; d < 3; d++ {
						f := cellFace[cell][d]
						for c := 0; c < nc; c++ {
							row := E[(f*nc+c)*nu : (f*nc+c+1)*nu]
							for m, v := range row {
								F[d][c] += v * uIV[m]
							}
						}
					}
				}
				h := dm.VoxelLength
				if nc == 1 {
					for d := 0; d < 3; d++ {
						normal.set(i-1, j-1, k-1, d, F[d][0]/(8*h))
					}
					continue
				}
				for d := 0; d < 3; d++ {
					normal.set(i-1, j-1, k-1, d, F[d][d]/(8*h))
				}
				shear.set(i-1, j-1, k-1, 0, (F[1][2]+F[2][1])/(16*h))
				shear.set(i-1, j-1, k-1, 1, (F[0][2]+F[2][0])/(16*h))
				shear.set(i-1, j-1, k-1, 2, (F[0][1]+F[1][0])/(16*h))
			}
		}
		fmt.Fprintf(lg.Writer(), "\rComputing fluxes ... %.1f%% ", float64(i)/float64(s.Nx-2)*100)
	})
	fmt.Fprintf(lg.Writer(), "\rComputing fluxes ... Done\n")
	if dg.Print[3] != 0 {
		printField(lg, "u", U, dg.Print[3])
	}
	if dg.Print[4] != 0 {
		printField(lg, "normal", normal, dg.Print[4])
		if shear != nil {
			printField(lg, "shear", shear, dg.Print[4])
		}
	}
	sol = &Solution{}
	sol.Effective = dm.effective(normal, shear, inner.Nx)
	sol.U = dm.unrotateVector(U)
	sol.Normal = dm.unrotateVector(normal)
	if shear != nil {
		sol.Shear = dm.unrotateShear(shear)
	}
	return
}

// effective volume averages the flux or stress, scaled by the sample length
// along the solve direction, and returns it in the caller's axes
func (dm *Domain) effective(normal, shear *Field, lx int) (eff []float64) {
	var (
		L    = float64(lx) * dm.VoxelLength
		perm = dm.Perm
	)
	if dm.Scheme.NC == 1 {
		eff = make([]float64, 3)
		for a := 0; a < 3; a++ {
			eff[perm[a]] = -normal.Mean(a) * L
		}
		return
	}
	eff = make([]float64, 6)
	if dm.Dir == utils.DirNone {
		return
	}
	for I := 0; I < 6; I++ {
		var v float64
		if I < 3 {
			v = normal.Mean(I)
		} else {
			v = shear.Mean(I - 3)
		}
		eff[origVoigt(I, perm)] = v * L
	}
	return
}

func origVoigt(I int, perm [3]int) int {
	p := types.VoigtPairs[I]
	return types.Voigt(perm[p[0]], perm[p[1]])
}

// unrotateVector relabels a field computed on the rotated interior back to
// the caller's grid. Scalars are moved, vectors also have their components
// relabeled.
func (dm *Domain) unrotateVector(f *Field) (o *Field) {
	o = NewField(dm.Orig, f.NC)
	for k := 0; k < f.Shape.Nz; k++ {
		for j := 0; j < f.Shape.Ny; j++ {
			for i := 0; i < f.Shape.Nx; i++ {
				oi := dm.origIndex(i, j, k)
				for c := 0; c < f.NC; c++ {
					oc := c
					if f.NC == 3 {
						oc = dm.Perm[c]
					}
					o.Data[oc*o.Shape.Len()+oi] = f.At(i, j, k, c)
				}
			}
		}
	}
	return
}

// unrotateShear relabels the yz, xz, xy shear components back to the caller's axes
func (dm *Domain) unrotateShear(f *Field) (o *Field) {
	o = NewField(dm.Orig, 3)
	for k := 0; k < f.Shape.Nz; k++ {
		for j := 0; j < f.Shape.Ny; j++ {
			for i := 0; i < f.Shape.Nx; i++ {
				oi := dm.origIndex(i, j, k)
				for c := 0; c < 3; c++ {
					oc := origVoigt(c+3, dm.Perm) - 3
					o.Data[oc*o.Shape.Len()+oi] = f.At(i, j, k, c)
				}
			}
		}
	}
	return
}
