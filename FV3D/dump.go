package FV3D

import (
	"fmt"
	"log"
	"strings"

	"gonum.org/v1/gonum/mat"
)

func printVector(lg *log.Logger, name string, v []float64, dec int) {
	var sb strings.Builder
	fmt.Fprintf(&sb, "%s =\n", name)
	for n, x := range v {
		fmt.Fprintf(&sb, "%6d  %.*f\n", n, dec, x)
	}
	lg.Print(sb.String())
}

func printMatrix(lg *log.Logger, name string, m mat.Matrix, dec int) {
	lg.Printf("%s =\n%.*v\n", name, dec, mat.Formatted(m, mat.Squeeze()))
}

// printTransmissibility dumps the stable interaction volumes of the layer
// that has just been computed
func printTransmissibility(lg *log.Logger, sw *sweeper, i, dec int) {
	var (
		nc = sw.dm.Scheme.NC
		nf = ivFaces * nc
		nu = ivCells * nc
	)
	for q := 0; q < sw.nz-1; q++ {
		for p := 0; p < sw.ny-1; p++ {
			iv := sw.ivIndex(p, q)
			if sw.unstable[1][iv] {
				lg.Printf("E[%d, %d, %d] unstable\n", i, p, q)
				continue
			}
			E := mat.NewDense(nf, nu, sw.E[1][iv*sw.emSize:(iv+1)*sw.emSize])
			printMatrix(lg, fmt.Sprintf("E[%d, %d, %d]", i, p, q), E, dec)
		}
	}
}

func printField(lg *log.Logger, name string, f *Field, dec int) {
	var sb strings.Builder
	for c := 0; c < f.NC; c++ {
		for k := 0; k < f.Shape.Nz; k++ {
			fmt.Fprintf(&sb, "%s[:, :, %d, %d] =\n", name, k, c)
			for j := 0; j < f.Shape.Ny; j++ {
				for i := 0; i < f.Shape.Nx; i++ {
					fmt.Fprintf(&sb, " %.*f", dec, f.At(i, j, k, c))
				}
				sb.WriteString("\n")
			}
		}
	}
	lg.Print(sb.String())
}
