package voxels

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gonum.org/v1/gonum/spatial/r3"

	"github.com/ElsevierSoftwareX/SOFTX-D-21-00131/types"
)

func TestGrid(t *testing.T) {
	g := NewGrid(4, 3, 2)
	assert.Equal(t, 1e-6, g.VoxelLength)
	g.Fill(0, 2, 0, 3, 0, 2, 7)
	g.Set(3, 2, 1, 9)
	assert.Equal(t, uint16(7), g.At(1, 2, 1))
	assert.Equal(t, uint16(0), g.At(2, 0, 0))
	lo, hi := g.MinMax()
	assert.Equal(t, uint16(0), lo)
	assert.Equal(t, uint16(9), hi)
	{ // Volume fraction over an inclusive id range
		vf, err := VolumeFraction(g, 7, 9)
		require.NoError(t, err)
		assert.InDelta(t, 13./24., vf, 1e-15)
		_, err = VolumeFraction(g, 9, 7)
		assert.True(t, errors.Is(err, types.ErrConfiguration))
	}
	{ // Wrong data length
		_, err := NewGridFromData(2, 2, 2, make([]uint16, 7))
		assert.True(t, errors.Is(err, types.ErrConfiguration))
	}
}

func TestGridTile(t *testing.T) {
	g := NewGrid(2, 2, 1)
	g.Set(1, 0, 0, 5)
	g.SetUniformOrientation(r3.Vec{X: 1})
	g.Orientation[g.Shape.Index(1, 0, 0)] = r3.Vec{Z: 1}
	tg := g.Tile(1, 3)
	assert.Equal(t, 2, tg.Shape.Nx)
	assert.Equal(t, 6, tg.Shape.Ny)
	for j := 0; j < 6; j++ {
		assert.Equal(t, g.At(1, j%2, 0), tg.At(1, j, 0))
		assert.Equal(t, g.OrientationAt(1, j%2, 0), tg.OrientationAt(1, j, 0))
	}
	vf, _ := VolumeFraction(tg, 5, 5)
	assert.Equal(t, 0.25, vf)
}

func TestPrescribedBC(t *testing.T) {
	bc := NewElasticityBC(3, 2, 2)
	assert.Equal(t, 0, bc.Count())
	assert.False(t, IsSet(bc.At(0, 0, 0, 2)))
	bc.SetFace(0, 2, 1, 0.5)
	assert.Equal(t, 4, bc.Count())
	assert.Equal(t, 0.5, bc.At(2, 1, 1, 1))
	assert.False(t, IsSet(bc.At(2, 1, 1, 0)))
	assert.False(t, IsSet(bc.At(1, 1, 1, 1)))
}
