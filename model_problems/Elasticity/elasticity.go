package Elasticity

import (
	"fmt"
	"io"
	"log"
	"time"

	"github.com/ElsevierSoftwareX/SOFTX-D-21-00131/FV3D"
	"github.com/ElsevierSoftwareX/SOFTX-D-21-00131/materials"
	"github.com/ElsevierSoftwareX/SOFTX-D-21-00131/types"
	"github.com/ElsevierSoftwareX/SOFTX-D-21-00131/utils"
	"github.com/ElsevierSoftwareX/SOFTX-D-21-00131/voxels"
)

type Config struct {
	Direction     string // empty for a stress analysis driven by Prescribed
	SideBC        string
	Prescribed    *voxels.PrescribedBC
	Tolerance     float64
	MaxIterations int
	Solver        string
	DisplayIter   bool
	PrintMatrices [5]int
	ProcLimit     int // goroutines computing interaction volumes, 0 uses every CPU
	Log           *log.Logger
}

func DefaultConfig() Config {
	return Config{
		Direction:     "x",
		SideBC:        "p",
		Tolerance:     1e-5,
		MaxIterations: 100000,
		Solver:        "bicgstab",
		DisplayIter:   true,
	}
}

// DefaultStressAnalysisConfig has no direction and free sides, the loading
// comes entirely from the prescribed displacements
func DefaultStressAnalysisConfig(prescribed *voxels.PrescribedBC) Config {
	cfg := DefaultConfig()
	cfg.Direction = ""
	cfg.SideBC = "f"
	cfg.Prescribed = prescribed
	return cfg
}

// Result of an elasticity solve, in the grid's axes. Ceff is in Voigt order
// xx, yy, zz, yz, xz, xy and is zero for a stress analysis.
type Result struct {
	Ceff      [6]float64
	U         *FV3D.Field // displacement
	Sigma     *FV3D.Field // normal stresses xx, yy, zz
	Tau       *FV3D.Field // shear stresses yz, xz, xy
	SolveTime time.Duration
}

type Elasticity struct {
	Grid      *voxels.Grid
	Map       *materials.Map
	Cfg       Config
	Dir       utils.Direction
	Side      utils.SideBC
	Kind      utils.SolverKind
	logger    *log.Logger
	knownKind bool
}

func NewElasticity(grid *voxels.Grid, emap *materials.Map, cfg Config) (e *Elasticity, err error) {
	e = &Elasticity{
		Grid:   grid,
		Map:    emap,
		Cfg:    cfg,
		logger: cfg.Log,
	}
	if e.logger == nil {
		e.logger = log.New(io.Discard, "", 0)
	}
	if e.Dir, err = utils.ParseDirection(cfg.Direction); err != nil {
		return nil, err
	}
	if e.Side, err = utils.ParseSideBC(cfg.SideBC); err != nil {
		return nil, err
	}
	if cfg.Tolerance <= 0 || cfg.MaxIterations <= 0 {
		return nil, fmt.Errorf("%w: tolerance and max iterations must be positive", types.ErrConfiguration)
	}
	for _, p := range cfg.PrintMatrices {
		if p < 0 {
			return nil, fmt.Errorf("%w: print flags must be decimal counts >= 0", types.ErrConfiguration)
		}
	}
	e.Kind, e.knownKind = utils.ParseSolverKind(cfg.Solver)
	return
}

// withVoid returns the map to solve with: e.Map itself, or a copy covering
// id 0 with a zero stiffness when the grid holds it and the map does not
func (e *Elasticity) withVoid() *materials.Map {
	if _, ok := e.Map.Find(0); ok {
		return e.Map
	}
	for _, v := range e.Grid.Data {
		if v == 0 {
			e.logger.Printf("Adding a void material for voxel value 0\n")
			return e.Map.Clone().Add(0, 0, materials.IsotropicStiffness{})
		}
	}
	return e.Map
}

// Compute runs the full pipeline and returns the effective stiffness
func (e *Elasticity) Compute() (res *Result, err error) {
	var (
		lg  = e.logger
		dm  *FV3D.Domain
		u   []float64
		dt  time.Duration
		dg  = FV3D.Diagnostics{Log: lg, Print: e.Cfg.PrintMatrices}
		sol *FV3D.Solution
		m   = e.withVoid()
	)
	e.logInput(m)
	if dm, err = FV3D.PrepareDomain(e.Grid, m, e.Dir, e.Side, FV3D.MPSA, e.Cfg.Prescribed); err != nil {
		return
	}
	dm.ProcLimit = e.Cfg.ProcLimit
	sys := FV3D.Assemble(dm, dg)
	if sys.Unstable != 0 {
		lg.Printf("%d unstable interaction volumes, %d voxels locked\n", sys.Unstable, sys.AirLocked)
	}
	lg.Printf("%s\n", utils.GetMemUsage())
	if !e.knownKind {
		lg.Printf("Warning: unrecognized solver %q, defaulting to bicgstab\n", e.Cfg.Solver)
	}
	lg.Printf("Solving Ax=b system with %s ...\n", e.Kind)
	opts := FV3D.SolveOptions{
		Kind:    e.Kind,
		Tol:     e.Cfg.Tolerance,
		MaxIter: e.Cfg.MaxIterations,
	}
	if e.Cfg.DisplayIter {
		opts.Callback = func(iter int, residual float64) {
			fmt.Fprintf(lg.Writer(), "\rIteration %d, residual = %.4e ", iter, residual)
		}
	}
	if u, dt, err = sys.Solve(opts); err != nil {
		return
	}
	fmt.Fprintln(lg.Writer())
	sol = FV3D.Reconstruct(dm, u, dg)
	res = &Result{
		U:         sol.U,
		Sigma:     sol.Normal,
		Tau:       sol.Shear,
		SolveTime: dt,
	}
	copy(res.Ceff[:], sol.Effective)
	e.logOutput(res)
	return
}

func (e *Elasticity) logInput(m *materials.Map) {
	lg := e.logger
	lg.Printf("---- Computing Elasticity ----\n")
	lg.Printf("Simulation direction: %s\n", e.Dir)
	lg.Printf("Side boundary conditions: %s\n", e.Side)
	lg.Printf("Domain Size: %dx%dx%d\n", e.Grid.Shape.Nx, e.Grid.Shape.Ny, e.Grid.Shape.Nz)
	lg.Printf("Elasticity Map:\n")
	m.Print(lg.Printf)
	lg.Printf("Solver Tolerance: %g\n", e.Cfg.Tolerance)
	lg.Printf("Max Iterations: %d\n", e.Cfg.MaxIterations)
}

func (e *Elasticity) logOutput(res *Result) {
	lg := e.logger
	lg.Printf("---- Finished Elasticity Calculation ----\n")
	lg.Printf("Elasticity: %v\n", res.Ceff)
	lg.Printf("Solver Time: %v\n", res.SolveTime)
}

// ComputeElasticity is a one call convenience over NewElasticity and Compute
func ComputeElasticity(grid *voxels.Grid, emap *materials.Map, cfg Config) (*Result, error) {
	e, err := NewElasticity(grid, emap, cfg)
	if err != nil {
		return nil, err
	}
	return e.Compute()
}

// ComputeStressAnalysis solves for the displacements and stresses produced by
// prescribed displacements, without a solve direction
func ComputeStressAnalysis(grid *voxels.Grid, emap *materials.Map, prescribed *voxels.PrescribedBC,
	cfg Config) (*Result, error) {
	cfg.Direction = ""
	cfg.Prescribed = prescribed
	return ComputeElasticity(grid, emap, cfg)
}
