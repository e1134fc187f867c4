package readfiles

import (
	"bufio"
	"encoding/binary"
	"fmt"
	"io"
	"os"

	"gonum.org/v1/gonum/spatial/r3"

	"github.com/ElsevierSoftwareX/SOFTX-D-21-00131/voxels"
)

// Raw voxel files carry no header: nx*ny*nz little endian values with x
// fastest, one byte each for depth 8 and two bytes for depth 16.

func ReadRawVoxelsFile(fileName string, nx, ny, nz, depth int) (g *voxels.Grid, err error) {
	var file *os.File
	if file, err = os.Open(fileName); err != nil {
		return
	}
	defer file.Close()
	return ReadRawVoxels(bufio.NewReader(file), nx, ny, nz, depth)
}

func ReadRawVoxels(reader io.Reader, nx, ny, nz, depth int) (g *voxels.Grid, err error) {
	g = voxels.NewGrid(nx, ny, nz)
	switch depth {
	case 8:
		buf := make([]byte, len(g.Data))
		if _, err = io.ReadFull(reader, buf); err != nil {
			return nil, fmt.Errorf("reading %d voxels: %w", len(g.Data), err)
		}
		for i, b := range buf {
			g.Data[i] = uint16(b)
		}
	case 16:
		if err = binary.Read(reader, binary.LittleEndian, g.Data); err != nil {
			return nil, fmt.Errorf("reading %d voxels: %w", len(g.Data), err)
		}
	default:
		return nil, fmt.Errorf("unsupported voxel depth %d, use 8 or 16", depth)
	}
	return
}

// ReadOrientationFile reads little endian float64 (x, y, z) triplets, one per voxel
func ReadOrientationFile(fileName string, g *voxels.Grid) (err error) {
	var file *os.File
	if file, err = os.Open(fileName); err != nil {
		return
	}
	defer file.Close()
	return ReadOrientation(bufio.NewReader(file), g)
}

func ReadOrientation(reader io.Reader, g *voxels.Grid) (err error) {
	raw := make([]float64, 3*g.Shape.Len())
	if err = binary.Read(reader, binary.LittleEndian, raw); err != nil {
		return fmt.Errorf("reading %d orientation vectors: %w", g.Shape.Len(), err)
	}
	g.Orientation = make([]r3.Vec, g.Shape.Len())
	for n := range g.Orientation {
		g.Orientation[n] = r3.Vec{X: raw[3*n], Y: raw[3*n+1], Z: raw[3*n+2]}
	}
	return
}
