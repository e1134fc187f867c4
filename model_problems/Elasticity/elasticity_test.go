package Elasticity

import (
	"bytes"
	"errors"
	"log"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gonum.org/v1/gonum/spatial/r3"

	"github.com/ElsevierSoftwareX/SOFTX-D-21-00131/materials"
	"github.com/ElsevierSoftwareX/SOFTX-D-21-00131/types"
	"github.com/ElsevierSoftwareX/SOFTX-D-21-00131/voxels"
)

var steel = materials.IsotropicStiffness{E: 200, Nu: 0.3}

func directConfig() (cfg Config) {
	cfg = DefaultConfig()
	cfg.Solver = "direct"
	cfg.Tolerance = 1e-10
	cfg.DisplayIter = false
	return
}

func TestComputeElasticity(t *testing.T) {
	var (
		buf bytes.Buffer
		g   = voxels.NewGrid(3, 3, 3)
		m   = materials.NewMap(materials.Elastic).Add(0, 0, steel)
		C   = steel.Tensor(r3.Vec{})
		cfg = directConfig()
	)
	cfg.Log = log.New(&buf, "", 0)
	res, err := ComputeElasticity(g, m, cfg)
	require.NoError(t, err)
	assert.InDeltaSlice(t, []float64{C[types.UpperTriangle6(0, 0)], C[types.UpperTriangle6(0, 1)],
		C[types.UpperTriangle6(0, 1)], 0, 0, 0}, res.Ceff[:], 1e-5)
	assert.Equal(t, 3, res.U.NC)
	assert.Equal(t, 3, res.Sigma.NC)
	assert.Equal(t, 3, res.Tau.NC)
	assert.Contains(t, buf.String(), "---- Finished Elasticity Calculation ----")
}

func TestAddVoid(t *testing.T) {
	var (
		g   = voxels.NewGrid(3, 3, 3)
		m   = materials.NewMap(materials.Elastic).Add(1, 1, steel)
		cfg = directConfig()
		C11 = steel.Tensor(r3.Vec{})[0]
	)
	g.Fill(0, 3, 0, 3, 0, 3, 1)
	g.Set(1, 1, 1, 0)
	e, err := NewElasticity(g, m, cfg)
	require.NoError(t, err)
	res, err := e.Compute()
	require.NoError(t, err)
	assert.Greater(t, res.Ceff[0], 0.)
	assert.Less(t, res.Ceff[0], C11)
	{ // The void entry goes to a copy, the caller's map is untouched
		assert.Equal(t, 1, m.Len())
		_, ok := m.Find(0)
		assert.False(t, ok)
		vm := e.withVoid()
		assert.Equal(t, 2, vm.Len())
		_, ok = vm.Find(0)
		assert.True(t, ok)
	}
	{ // so a second solve on a grid without id 0 sees the map as given
		full := voxels.NewGrid(3, 3, 3)
		full.Fill(0, 3, 0, 3, 0, 3, 1)
		e, err = NewElasticity(full, m, cfg)
		require.NoError(t, err)
		assert.Same(t, m, e.withVoid())
		res, err = e.Compute()
		require.NoError(t, err)
		assert.InDelta(t, C11, res.Ceff[0], 1e-5)
	}
	{ // A covered id 0 is left alone
		m2 := materials.NewMap(materials.Elastic).Add(0, 1, steel)
		e, err = NewElasticity(g, m2, cfg)
		require.NoError(t, err)
		assert.Same(t, m2, e.withVoid())
	}
}

func TestComputeStressAnalysis(t *testing.T) {
	var (
		g   = voxels.NewGrid(4, 3, 3)
		m   = materials.NewMap(materials.Elastic).Add(0, 0, steel)
		bc  = voxels.NewElasticityBC(4, 3, 3)
		cfg = DefaultStressAnalysisConfig(nil)
	)
	for c := 0; c < 3; c++ {
		bc.SetFace(0, 0, c, 0)
		bc.SetFace(0, 3, c, 0)
	}
	bc.SetFace(0, 3, 0, 0.01)
	cfg.Solver = "direct"
	cfg.DisplayIter = false
	res, err := ComputeStressAnalysis(g, m, bc, cfg)
	require.NoError(t, err)
	assert.Equal(t, [6]float64{}, res.Ceff)
	for k := 0; k < 3; k++ {
		for j := 0; j < 3; j++ {
			assert.InDelta(t, 0, res.U.At(0, j, k, 0), 1e-12)
			assert.InDelta(t, 0.01, res.U.At(3, j, k, 0), 1e-12)
		}
	}
	{ // Without prescribed displacements there is nothing to drive the solve
		_, err = ComputeStressAnalysis(g, m, nil, cfg)
		assert.True(t, errors.Is(err, types.ErrBoundaryCondition))
	}
}

func TestElasticityConfigErrors(t *testing.T) {
	var (
		g = voxels.NewGrid(3, 3, 3)
		m = materials.NewMap(materials.Elastic).Add(0, 0, steel)
	)
	for name, mod := range map[string]func(cfg *Config){
		"bad direction": func(cfg *Config) { cfg.Direction = "q" },
		"bad side":      func(cfg *Config) { cfg.SideBC = "x" },
		"tolerance":     func(cfg *Config) { cfg.Tolerance = -1 },
		"iterations":    func(cfg *Config) { cfg.MaxIterations = 0 },
		"print flag":    func(cfg *Config) { cfg.PrintMatrices[0] = -2 },
	} {
		cfg := DefaultConfig()
		mod(&cfg)
		_, err := NewElasticity(g, m, cfg)
		assert.True(t, errors.Is(err, types.ErrConfiguration), name)
	}
	{ // Free sides need a stress analysis
		cfg := directConfig()
		cfg.SideBC = "f"
		_, err := ComputeElasticity(g, m, cfg)
		assert.True(t, errors.Is(err, types.ErrBoundaryCondition))
	}
	{ // A conduction map cannot drive an elasticity solve
		cond := materials.NewMap(materials.Conduction).Add(0, 0, materials.IsotropicConductivity{K: 1})
		_, err := ComputeElasticity(g, cond, directConfig())
		assert.True(t, errors.Is(err, types.ErrConfiguration))
	}
}
