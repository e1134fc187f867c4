package readfiles

import (
	"bytes"
	"encoding/binary"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gonum.org/v1/gonum/spatial/r3"

	"github.com/ElsevierSoftwareX/SOFTX-D-21-00131/voxels"
)

func TestReadRawVoxels(t *testing.T) {
	{ // 8 bit
		raw := []byte{0, 1, 2, 3, 4, 5, 6, 255}
		g, err := ReadRawVoxels(bytes.NewReader(raw), 2, 2, 2, 8)
		require.NoError(t, err)
		assert.Equal(t, uint16(1), g.At(1, 0, 0))
		assert.Equal(t, uint16(2), g.At(0, 1, 0))
		assert.Equal(t, uint16(4), g.At(0, 0, 1))
		assert.Equal(t, uint16(255), g.At(1, 1, 1))
	}
	{ // 16 bit, little endian
		var buf bytes.Buffer
		vals := []uint16{0, 1000, 2, 3, 4, 5, 6, 65535}
		require.NoError(t, binary.Write(&buf, binary.LittleEndian, vals))
		g, err := ReadRawVoxels(&buf, 2, 2, 2, 16)
		require.NoError(t, err)
		assert.Equal(t, vals, g.Data)
	}
	{ // Short file
		_, err := ReadRawVoxels(bytes.NewReader([]byte{1, 2, 3}), 2, 2, 2, 8)
		assert.Error(t, err)
	}
	{ // Unsupported depth
		_, err := ReadRawVoxels(bytes.NewReader(make([]byte, 32)), 2, 2, 2, 32)
		assert.Error(t, err)
	}
	{ // From disk
		fileName := filepath.Join(t.TempDir(), "grid.raw")
		require.NoError(t, os.WriteFile(fileName, make([]byte, 27), 0o644))
		g, err := ReadRawVoxelsFile(fileName, 3, 3, 3, 8)
		require.NoError(t, err)
		assert.Len(t, g.Data, 27)
		_, err = ReadRawVoxelsFile(filepath.Join(t.TempDir(), "missing.raw"), 3, 3, 3, 8)
		assert.Error(t, err)
	}
}

func TestReadOrientation(t *testing.T) {
	var (
		buf bytes.Buffer
		g   = voxels.NewGrid(2, 1, 1)
	)
	require.NoError(t, binary.Write(&buf, binary.LittleEndian, []float64{1, 0, 0, 0, 0.6, 0.8}))
	require.NoError(t, ReadOrientation(&buf, g))
	assert.True(t, g.HasOrientation())
	assert.Equal(t, r3.Vec{X: 1}, g.OrientationAt(0, 0, 0))
	assert.Equal(t, r3.Vec{Y: 0.6, Z: 0.8}, g.OrientationAt(1, 0, 0))

	assert.Error(t, ReadOrientation(bytes.NewReader(make([]byte, 40)), voxels.NewGrid(2, 1, 1)))
}
