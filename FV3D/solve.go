package FV3D

import (
	"fmt"
	"time"

	"github.com/ElsevierSoftwareX/SOFTX-D-21-00131/types"
	"github.com/ElsevierSoftwareX/SOFTX-D-21-00131/utils"
)

// SolveOptions selects the linear solver for the global system
type SolveOptions struct {
	Kind     utils.SolverKind
	Tol      float64
	MaxIter  int
	Callback utils.IterCallback
}

// InitialGuess ramps component 0 linearly along axis 0, zero without a direction
func (dm *Domain) InitialGuess() (x0 []float64) {
	x0 = make([]float64, dm.Unknowns())
	if dm.Dir == utils.DirNone {
		return
	}
	s := dm.Shape
	for k := 0; k < s.Nz; k++ {
		for j := 0; j < s.Ny; j++ {
			for i := 0; i < s.Nx-1; i++ {
				x0[dm.Unknown(0, i, j, k)] = float64(i) / float64(s.Nx-2)
			}
		}
	}
	return
}

// Solve runs the linear solver and returns the padded solution
func (sys *System) Solve(opts SolveOptions) (u []float64, elapsed time.Duration, err error) {
	var (
		info  int
		start = time.Now()
		p     = utils.SolveParams{
			Kind:     opts.Kind,
			Tol:      opts.Tol,
			MaxIter:  opts.MaxIter,
			Callback: opts.Callback,
		}
	)
	if sys.Precond != nil {
		p.Precond = sys.Precond
	}
	if n := len(sys.B); opts.Kind == utils.Direct && n > utils.MaxDirectUnknowns {
		err = fmt.Errorf("%w: %d unknowns exceed the direct solver limit of %d, use an iterative solver",
			types.ErrConfiguration, n, utils.MaxDirectUnknowns)
		return nil, 0, err
	}
	u, info = utils.LinearSolve(sys.A, sys.B, sys.Domain.InitialGuess(), p)
	elapsed = time.Since(start)
	if info != 0 {
		err = fmt.Errorf("%w: %s solver returned status %d", types.ErrSolverDivergence, opts.Kind, info)
		return nil, elapsed, err
	}
	if utils.IsNan(u) {
		err = fmt.Errorf("%w: %s solver produced NaN", types.ErrSolverDivergence, opts.Kind)
		return nil, elapsed, err
	}
	return
}

// mirror copies the first and last interior layers onto the axis 0 halos
// when a direction is set, plus the side halos for Dirichlet and free sides
func (dm *Domain) mirror(u []float64) {
	if dm.Dir == utils.DirNone {
		return
	}
	var (
		s     = dm.Shape
		sides = dm.Side == utils.Dirichlet || dm.Side == utils.Free
	)
	for c := 0; c < dm.Scheme.NC; c++ {
		copyVoxel := func(i, j, k, si, sj, sk int) {
			u[dm.Unknown(c, i, j, k)] = u[dm.Unknown(c, si, sj, sk)]
		}
		for k := 0; k < s.Nz; k++ {
			for j := 0; j < s.Ny; j++ {
				copyVoxel(0, j, k, 1, j, k)
				copyVoxel(s.Nx-1, j, k, s.Nx-2, j, k)
			}
		}
		if !sides {
			continue
		}
		for k := 0; k < s.Nz; k++ {
			for i := 0; i < s.Nx; i++ {
				copyVoxel(i, 0, k, i, 1, k)
				copyVoxel(i, s.Ny-1, k, i, s.Ny-2, k)
			}
		}
		for j := 0; j < s.Ny; j++ {
			for i := 0; i < s.Nx; i++ {
				copyVoxel(i, j, 0, i, j, 1)
				copyVoxel(i, j, s.Nz-1, i, j, s.Nz-2)
			}
		}
	}
}
