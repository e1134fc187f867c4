package utils

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ElsevierSoftwareX/SOFTX-D-21-00131/types"
)

func TestSideBC(t *testing.T) {
	{ // Codes and long names parse in any case
		for name, want := range map[string]SideBC{
			"p": Periodic, "Periodic": Periodic,
			"S": Symmetric, "symmetric": Symmetric,
			"d": Dirichlet, " D ": Dirichlet,
			"f": Free, "FREE": Free,
		} {
			bc, err := ParseSideBC(name)
			require.NoError(t, err)
			assert.Equal(t, want, bc)
		}
		assert.Equal(t, "p", Periodic.Code())
		assert.Equal(t, "f", Free.Code())
		assert.Equal(t, "Symmetric", Symmetric.String())
	}
	{ // Unknown names are configuration errors
		_, err := ParseSideBC("x")
		assert.True(t, errors.Is(err, types.ErrConfiguration))
	}
}

func TestDirection(t *testing.T) {
	d, err := ParseDirection("Y")
	require.NoError(t, err)
	assert.Equal(t, DirY, d)
	assert.Equal(t, 1, d.Axis())
	d, err = ParseDirection("")
	require.NoError(t, err)
	assert.Equal(t, DirNone, d)
	assert.Equal(t, -1, d.Axis())
	assert.Equal(t, "z", DirZ.String())
	_, err = ParseDirection("w")
	assert.True(t, errors.Is(err, types.ErrConfiguration))
}

func TestSolverKind(t *testing.T) {
	kind, known := ParseSolverKind("GMRES")
	assert.True(t, known)
	assert.Equal(t, GMRES, kind)
	kind, known = ParseSolverKind("minres")
	assert.False(t, known)
	assert.Equal(t, BiCGSTAB, kind)
	assert.Equal(t, "direct", Direct.String())
}
