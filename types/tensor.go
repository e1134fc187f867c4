package types

// Conductivity tensors are stored as 6 components in the order
// xx, yy, zz, xy, xz, yz. Stiffness tensors are stored as the 21 component
// upper triangle (row major) of the 6x6 engineering Voigt matrix with the
// order xx, yy, zz, yz, xz, xy.
const (
	ConductivitySize = 6
	StiffnessSize    = 21
)

var (
	sym3  = [3][3]int{{0, 3, 4}, {3, 1, 5}, {4, 5, 2}}
	voigt = [3][3]int{{0, 5, 4}, {5, 1, 3}, {4, 3, 2}}
	// VoigtPairs is the inverse of Voigt
	VoigtPairs = [6][2]int{{0, 0}, {1, 1}, {2, 2}, {1, 2}, {0, 2}, {0, 1}}
)

// SymIndex3 returns the position of K_ij in a 6 component conductivity tensor.
func SymIndex3(i, j int) int { return sym3[i][j] }

// Voigt returns the Voigt index of the symmetric pair (i,j).
func Voigt(i, j int) int { return voigt[i][j] }

// UpperTriangle6 returns the position of C_IJ (Voigt indices) in a 21
// component stiffness tensor.
func UpperTriangle6(I, J int) int {
	if I > J {
		I, J = J, I
	}
	return I*6 - I*(I-1)/2 + (J - I)
}

// Unpack3 expands a 6 component conductivity tensor into a full 3x3 array.
func Unpack3(t []float64) (K [3][3]float64) {
	for i := 0; i < 3; i++ {
		for j := 0; j < 3; j++ {
			K[i][j] = t[sym3[i][j]]
		}
	}
	return
}

// Pack3 is the inverse of Unpack3, the lower triangle is ignored.
func Pack3(K [3][3]float64) (t []float64) {
	t = make([]float64, ConductivitySize)
	for i := 0; i < 3; i++ {
		for j := i; j < 3; j++ {
			t[sym3[i][j]] = K[i][j]
		}
	}
	return
}

// Unpack6 expands a 21 component stiffness tensor into a full 6x6 array.
func Unpack6(t []float64) (C [6][6]float64) {
	for I := 0; I < 6; I++ {
		for J := 0; J < 6; J++ {
			C[I][J] = t[UpperTriangle6(I, J)]
		}
	}
	return
}

// Pack6 is the inverse of Unpack6, the lower triangle is ignored.
func Pack6(C [6][6]float64) (t []float64) {
	t = make([]float64, StiffnessSize)
	for I := 0; I < 6; I++ {
		for J := I; J < 6; J++ {
			t[UpperTriangle6(I, J)] = C[I][J]
		}
	}
	return
}
