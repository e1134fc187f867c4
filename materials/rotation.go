package materials

import (
	"math"

	"gonum.org/v1/gonum/spatial/r3"

	"github.com/ElsevierSoftwareX/SOFTX-D-21-00131/types"
)

// FiberRotation returns R = Rz(phi) Ry(-theta) with phi the azimuth and theta
// the elevation of d, so that R maps the x axis onto d.
func FiberRotation(d r3.Vec) (R [3][3]float64) {
	d = r3.Unit(d)
	var (
		phi      = math.Atan2(d.Y, d.X)
		theta    = math.Asin(math.Max(-1, math.Min(1, d.Z)))
		cp, sp   = math.Cos(phi), math.Sin(phi)
		ct, st   = math.Cos(theta), math.Sin(theta)
		Rz       = [3][3]float64{{cp, -sp, 0}, {sp, cp, 0}, {0, 0, 1}}
		RyMinusT = [3][3]float64{{ct, 0, -st}, {0, 1, 0}, {st, 0, ct}}
	)
	for i := 0; i < 3; i++ {
		for j := 0; j < 3; j++ {
			for k := 0; k < 3; k++ {
				R[i][j] += Rz[i][k] * RyMinusT[k][j]
			}
		}
	}
	return
}

// Rotate3 returns R K R^T
func Rotate3(R, K [3][3]float64) (Kr [3][3]float64) {
	for i := 0; i < 3; i++ {
		for j := 0; j < 3; j++ {
			for a := 0; a < 3; a++ {
				for b := 0; b < 3; b++ {
					Kr[i][j] += R[i][a] * R[j][b] * K[a][b]
				}
			}
		}
	}
	return
}

type tensor4 [3][3][3][3]float64

func toTensor4(C [6][6]float64) (T tensor4) {
	for i := 0; i < 3; i++ {
		for j := 0; j < 3; j++ {
			for k := 0; k < 3; k++ {
				for l := 0; l < 3; l++ {
					T[i][j][k][l] = C[types.Voigt(i, j)][types.Voigt(k, l)]
				}
			}
		}
	}
	return
}

// Rotate6 rotates an engineering Voigt stiffness as the 4th order tensor
// C'_ijkl = R_ia R_jb R_kc R_ld C_abcd, one index at a time.
func Rotate6(R [3][3]float64, C [6][6]float64) (Cr [6][6]float64) {
	T := toTensor4(C)
	var U tensor4
	for pass := 0; pass < 4; pass++ {
		U = tensor4{}
		for i := 0; i < 3; i++ {
			for j := 0; j < 3; j++ {
				for k := 0; k < 3; k++ {
					for l := 0; l < 3; l++ {
						for a := 0; a < 3; a++ {
							// rotate the first index and cycle it to the back
							U[j][k][l][i] += R[i][a] * T[a][j][k][l]
						}
					}
				}
			}
		}
		T = U
	}
	for I := 0; I < 6; I++ {
		for J := 0; J < 6; J++ {
			p, q := types.VoigtPairs[I], types.VoigtPairs[J]
			Cr[I][J] = T[p[0]][p[1]][q[0]][q[1]]
		}
	}
	return
}

// Permute relabels the axes of a packed conductivity or stiffness tensor,
// new axis a is old axis perm[a].
func Permute(t []float64, perm [3]int) (tp []float64) {
	switch len(t) {
	case types.ConductivitySize:
		K := types.Unpack3(t)
		var Kp [3][3]float64
		for a := 0; a < 3; a++ {
			for b := 0; b < 3; b++ {
				Kp[a][b] = K[perm[a]][perm[b]]
			}
		}
		tp = types.Pack3(Kp)
	case types.StiffnessSize:
		C := types.Unpack6(t)
		var (
			Cp [6][6]float64
			vp [6]int
		)
		for I := 0; I < 6; I++ {
			p := types.VoigtPairs[I]
			vp[I] = types.Voigt(perm[p[0]], perm[p[1]])
		}
		for I := 0; I < 6; I++ {
			for J := 0; J < 6; J++ {
				Cp[I][J] = C[vp[I]][vp[J]]
			}
		}
		tp = types.Pack6(Cp)
	default:
		panic("unsupported tensor size")
	}
	return
}

// PermuteVec relabels the components of a vector, new axis a is old axis perm[a]
func PermuteVec(d r3.Vec, perm [3]int) r3.Vec {
	v := [3]float64{d.X, d.Y, d.Z}
	return r3.Vec{X: v[perm[0]], Y: v[perm[1]], Z: v[perm[2]]}
}
