package types

import "errors"

// Error kinds surfaced by the voxel solvers. Callers match with errors.Is,
// the solvers wrap them with the offending detail.
var (
	ErrConfiguration     = errors.New("mpxa: configuration error")
	ErrDomainSize        = errors.New("mpxa: domain size error")
	ErrBoundaryCondition = errors.New("mpxa: boundary condition error")
	ErrMaterialCoverage  = errors.New("mpxa: material coverage error")
	ErrSolverDivergence  = errors.New("mpxa: solver divergence error")
)
