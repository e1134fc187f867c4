package Conductivity

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

// Config holds the solver inputs besides the grid and the material map
type Config struct {
	Direction     string
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

// DefaultThermalConfig mirrors the thermal conductivity defaults: symmetric
// sides, solve along x with BiCGSTAB
func DefaultThermalConfig() Config {
	return Config{
		Direction:     "x",
		SideBC:        "s",
		Tolerance:     1e-4,
		MaxIterations: 10000,
		Solver:        "bicgstab",
		DisplayIter:   true,
	}
}

// DefaultElectricalConfig differs from the thermal defaults by periodic sides
func DefaultElectricalConfig() Config {
	cfg := DefaultThermalConfig()
	cfg.SideBC = "p"
	return cfg
}

// Result of a conductivity solve, in the grid's axes
type Result struct {
	Keff      [3]float64
	T         *FV3D.Field // temperature or potential
	Q         *FV3D.Field // flux
	SolveTime time.Duration
}

type Conductivity struct {
	Grid      *voxels.Grid
	Map       *materials.Map
	Cfg       Config
	Dir       utils.Direction
	Side      utils.SideBC
	Kind      utils.SolverKind
	logger    *log.Logger
	knownKind bool
}

// NewConductivity validates the configuration, it does not touch the grid
func NewConductivity(grid *voxels.Grid, cmap *materials.Map, cfg Config) (c *Conductivity, err error) {
	c = &Conductivity{
		Grid:   grid,
		Map:    cmap,
		Cfg:    cfg,
		logger: cfg.Log,
	}
	if c.logger == nil {
		c.logger = log.New(io.Discard, "", 0)
	}
	if c.Dir, err = utils.ParseDirection(cfg.Direction); err != nil {
		return nil, err
	}
	if c.Dir == utils.DirNone {
		return nil, fmt.Errorf("%w: a direction (x, y or z) is required", types.ErrConfiguration)
	}
	if c.Side, err = utils.ParseSideBC(cfg.SideBC); err != nil {
		return nil, err
	}
	if c.Side == utils.Free {
		return nil, fmt.Errorf("%w: free sides are only available for elasticity", types.ErrBoundaryCondition)
	}
	if cfg.Tolerance <= 0 || cfg.MaxIterations <= 0 {
		return nil, fmt.Errorf("%w: tolerance and max iterations must be positive", types.ErrConfiguration)
	}
	for _, p := range cfg.PrintMatrices {
		if p < 0 {
			return nil, fmt.Errorf("%w: print flags must be decimal counts >= 0", types.ErrConfiguration)
		}
	}
	c.Kind, c.knownKind = utils.ParseSolverKind(cfg.Solver)
	return
}

// Compute runs the full pipeline and returns the effective conductivity
func (c *Conductivity) Compute() (res *Result, err error) {
	var (
		lg  = c.logger
		dm  *FV3D.Domain
		u   []float64
		dt  time.Duration
		dg  = FV3D.Diagnostics{Log: lg, Print: c.Cfg.PrintMatrices}
		sol *FV3D.Solution
	)
	c.logInput()
	if dm, err = FV3D.PrepareDomain(c.Grid, c.Map, c.Dir, c.Side, FV3D.MPFA, c.Cfg.Prescribed); err != nil {
		return
	}
	dm.ProcLimit = c.Cfg.ProcLimit
	sys := FV3D.Assemble(dm, dg)
	if sys.Unstable != 0 {
		lg.Printf("%d unstable interaction volumes, %d voxels locked\n", sys.Unstable, sys.AirLocked)
	}
	lg.Printf("%s\n", utils.GetMemUsage())
	if !c.knownKind {
		lg.Printf("Warning: unrecognized solver %q, defaulting to bicgstab\n", c.Cfg.Solver)
	}
	lg.Printf("Solving Ax=b system with %s ...\n", c.Kind)
	opts := FV3D.SolveOptions{
		Kind:    c.Kind,
		Tol:     c.Cfg.Tolerance,
		MaxIter: c.Cfg.MaxIterations,
	}
	if c.Cfg.DisplayIter {
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
		T:         sol.U,
		Q:         sol.Normal,
		SolveTime: dt,
	}
	copy(res.Keff[:], sol.Effective)
	c.logOutput(res)
	return
}

func (c *Conductivity) logInput() {
	lg := c.logger
	lg.Printf("---- Computing Conductivity ----\n")
	lg.Printf("Simulation direction: %s\n", c.Dir)
	lg.Printf("Side boundary conditions: %s\n", c.Side)
	lg.Printf("Domain Size: %dx%dx%d\n", c.Grid.Shape.Nx, c.Grid.Shape.Ny, c.Grid.Shape.Nz)
	lg.Printf("Conductivity Map:\n")
	c.Map.Print(lg.Printf)
	lg.Printf("Solver Tolerance: %g\n", c.Cfg.Tolerance)
	lg.Printf("Max Iterations: %d\n", c.Cfg.MaxIterations)
}

func (c *Conductivity) logOutput(res *Result) {
	lg := c.logger
	lg.Printf("---- Finished Conductivity Calculation ----\n")
	lg.Printf("Conductivity: [%g, %g, %g]\n", res.Keff[0], res.Keff[1], res.Keff[2])
	lg.Printf("Solver Time: %v\n", res.SolveTime)
}

// ComputeThermal is a one call convenience over NewConductivity and Compute
func ComputeThermal(grid *voxels.Grid, cmap *materials.Map, cfg Config) (*Result, error) {
	c, err := NewConductivity(grid, cmap, cfg)
	if err != nil {
		return nil, err
	}
	return c.Compute()
}

// ComputeElectrical is ComputeThermal for an electrical conductivity map,
// with periodic sides unless cfg says otherwise
func ComputeElectrical(grid *voxels.Grid, cmap *materials.Map, cfg Config) (*Result, error) {
	if cfg.SideBC == "" {
		cfg.SideBC = "p"
	}
	return ComputeThermal(grid, cmap, cfg)
}
