package FV3D

import (
	"fmt"
	"io"
	"log"

	"github.com/ElsevierSoftwareX/SOFTX-D-21-00131/utils"
)

// Diagnostics carries the run logger and the print flags of a solve. Each
// print flag is the number of decimals used to dump, in order, the right hand
// side, the transmissibilities, the global matrix, the solution field and the
// flux or stress field, 0 disables the dump.
type Diagnostics struct {
	Log   *log.Logger
	Print [5]int
}

func (dg Diagnostics) logger() *log.Logger {
	if dg.Log == nil {
		return log.New(io.Discard, "", 0)
	}
	return dg.Log
}

// sweeper walks axis 0 of a domain holding at most 3 layers of voxel
// coefficients and 2 layers of interaction volume transmissibilities. The
// interaction volumes of a layer are computed in parallel, one engine per
// partition of the rows q.
type sweeper struct {
	dm        *Domain
	pm        *utils.PartitionMap
	engs      []*ivEngine
	ny, nz    int // padded layer extents
	coefSize  int
	emSize    int
	tensor    []float64
	K         [3][]float64 // expanded coefficients per voxel of a layer
	void      [3][]bool    // voxel coefficients are all zero
	E         [2][]float64 // transmissibility per interaction volume of a layer
	unstable  [2][]bool
	nUnstable []int // per partition
}

func newSweeper(dm *Domain) (sw *sweeper) {
	var (
		s   = dm.Shape
		sc  = dm.Scheme
		nIV = (s.Ny - 1) * (s.Nz - 1)
		NP  = utils.ParallelDegree(dm.ProcLimit, s.Nz-1)
	)
	sw = &sweeper{
		dm:        dm,
		pm:        utils.NewPartitionMap(NP, s.Nz-1),
		engs:      make([]*ivEngine, NP),
		ny:        s.Ny,
		nz:        s.Nz,
		coefSize:  sc.NC * 3 * sc.NC * 3,
		emSize:    ivFaces * sc.NC * ivCells * sc.NC,
		tensor:    make([]float64, sc.TensorSize()),
		nUnstable: make([]int, NP),
	}
	for np := 0; np < NP; np++ {
		sw.engs[np] = newIVEngine(sc)
	}
	for n := 0; n < 3; n++ {
		sw.K[n] = make([]float64, s.Layer()*sw.coefSize)
		sw.void[n] = make([]bool, s.Layer())
	}
	for n := 0; n < 2; n++ {
		sw.E[n] = make([]float64, nIV*sw.emSize)
		sw.unstable[n] = make([]bool, nIV)
	}
	return
}

func (sw *sweeper) layerIndex(j, k int) int { return j + sw.ny*k }
func (sw *sweeper) ivIndex(p, q int) int    { return p + (sw.ny-1)*q }

// tensorLayer fills ring slot with the coefficients of padded layer i
func (sw *sweeper) tensorLayer(slot, i int) {
	dm := sw.dm
	for k := 0; k < sw.nz; k++ {
		for j := 0; j < sw.ny; j++ {
			var (
				n  = dm.Shape.Index(i, j, k)
				ln = sw.layerIndex(j, k)
				d  = zeroVec
			)
			if dm.Orient != nil {
				d = dm.Orient[n]
			}
			dm.Builder.Tensor(sw.tensor, dm.Mat[n], d)
			sw.void[slot][ln] = dm.Scheme.coefficients(sw.tensor, sw.K[slot][ln*sw.coefSize:(ln+1)*sw.coefSize])
		}
	}
}

// ivLayer fills ring slot with the interaction volumes between the voxel
// layers held in coefficient slots slot and slot+1
func (sw *sweeper) ivLayer(slot int) {
	sw.pm.Run(func(np, qMin, qMax int) {
		var M [ivCells][]float64
		for q := qMin; q < qMax; q++ {
			for p := 0; p < sw.ny-1; p++ {
				for c := 0; c < ivCells; c++ {
					pos := cellPos(c)
					ln := sw.layerIndex(p+pos[1], q+pos[2])
					M[c] = sw.K[slot+pos[0]][ln*sw.coefSize : (ln+1)*sw.coefSize]
				}
				iv := sw.ivIndex(p, q)
				sw.unstable[slot][iv] = sw.engs[np].Compute(M, sw.E[slot][iv*sw.emSize:(iv+1)*sw.emSize])
				if sw.unstable[slot][iv] {
					sw.nUnstable[np]++
				}
			}
		}
	})
}

// unstableCount is the number of unstable interaction volumes met so far
func (sw *sweeper) unstableCount() (n int) {
	for _, c := range sw.nUnstable {
		n += c
	}
	return
}

func (sw *sweeper) roll() {
	sw.K[0], sw.K[1], sw.K[2] = sw.K[1], sw.K[2], sw.K[0]
	sw.void[0], sw.void[1], sw.void[2] = sw.void[1], sw.void[2], sw.void[0]
	sw.E[0], sw.E[1] = sw.E[1], sw.E[0]
	sw.unstable[0], sw.unstable[1] = sw.unstable[1], sw.unstable[0]
}

// sweep calls visit for every interior layer i once the coefficients of
// layers i-1, i, i+1 and the interaction volumes on both sides of layer i are live
func (sw *sweeper) sweep(visit func(i int)) {
	sw.tensorLayer(0, 0)
	sw.tensorLayer(1, 1)
	sw.ivLayer(0)
	for i := 1; i < sw.dm.Shape.Nx-1; i++ {
		sw.tensorLayer(2, i+1)
		sw.ivLayer(1)
		visit(i)
		sw.roll()
	}
}

// ivAround describes the n-th of the 8 interaction volumes around voxel (j,k)
// of the current layer: its ring slot, its index in the layer and the
// position of the voxel inside it. The volume's cell (a,b,c) is the voxel at
// offset (a-1+slot, b+p-j, c+q-k).
func (sw *sweeper) ivAround(n, j, k int) (slot, iv, cell, p, q int) {
	slot = n & 1
	p, q = j-1+((n>>1)&1), k-1+((n>>2)&1)
	cell = (1 - slot) + 2*(j-p) + 4*(k-q)
	iv = sw.ivIndex(p, q)
	return
}

// cellOffset returns the offset of IV cell c from the voxel at position cell
func cellOffset(c, cell int) (dx, dy, dz int) {
	pc, pv := cellPos(c), cellPos(cell)
	return pc[0] - pv[0], pc[1] - pv[1], pc[2] - pv[2]
}

// System is the assembled global problem A u = B
type System struct {
	Domain    *Domain
	A         utils.CSR
	B         []float64
	Precond   *utils.Jacobi // nil when a diagonal entry is zero
	Unstable  int           // unstable interaction volumes
	AirLocked int           // void voxels and voxels whose surrounding volumes are all unstable
	Promoted  int           // rows promoted to identity because their diagonal vanished
}

// Assemble sweeps the domain, writing one balance row per free unknown and
// identity rows for the Dirichlet and halo unknowns.
func Assemble(dm *Domain, dg Diagnostics) (sys *System) {
	var (
		lg  = dg.logger()
		sc  = dm.Scheme
		nc  = sc.NC
		s   = dm.Shape
		n   = dm.Unknowns()
		A   = utils.NewDOK(n, n)
		sw  = newSweeper(dm)
		buf = make([]float64, 27*nc)
	)
	sys = &System{Domain: dm, B: dm.B}
	fmt.Fprintf(lg.Writer(), "Assembling A matrix ... ")
	sw.sweep(func(i int) {
		for k := 1; k < s.Nz-1; k++ {
			for j := 1; j < s.Ny-1; j++ {
				if sw.airLocked(j, k) || sw.void[1][sw.layerIndex(j, k)] {
					for c := 0; c < nc; c++ {
						dm.Dirichlet[dm.Unknown(c, i, j, k)] = true
					}
					sys.AirLocked++
					continue
				}
				for c := 0; c < nc; c++ {
					row := dm.Unknown(c, i, j, k)
					if dm.Dirichlet[row] {
						continue
					}
					sw.balanceRow(buf, c, j, k)
					if buf[13*nc+c] == 0 {
						dm.Dirichlet[row] = true
						sys.Promoted++
						continue
					}
					for nb := 0; nb < 27; nb++ {
						dx, dy, dz := nb%3-1, (nb/3)%3-1, nb/9-1
						for kc := 0; kc < nc; kc++ {
							if v := buf[nb*nc+kc]; v != 0 {
								A.Add(row, dm.Unknown(kc, i+dx, j+dy, k+dz), v)
							}
						}
					}
				}
			}
		}
		if dg.Print[1] != 0 {
			printTransmissibility(lg, sw, i, dg.Print[1])
		}
		fmt.Fprintf(lg.Writer(), "\rAssembling A matrix ... %.1f%% ", float64(i)/float64(s.Nx-2)*100)
	})
	fmt.Fprintf(lg.Writer(), "\rAssembling A matrix ... Done\n")
	sys.Unstable = sw.unstableCount()
	for k := 0; k < s.Nz; k++ {
		for j := 0; j < s.Ny; j++ {
			for i := 0; i < s.Nx; i++ {
				for c := 0; c < nc; c++ {
					row := dm.Unknown(c, i, j, k)
					if dm.IsHalo(i, j, k) {
						A.SetIdentityRow(row)
						dm.B[row] = 0
						dm.coupleHalo(A, row, c, i, j, k)
					} else if dm.Dirichlet[row] {
						A.SetIdentityRow(row)
					}
				}
			}
		}
	}
	if dg.Print[0] != 0 {
		printVector(lg, "b", dm.B, dg.Print[0])
	}
	sys.A = A.ToCSR()
	sys.Precond = utils.NewJacobi(sys.A)
	if sys.Precond == nil {
		lg.Printf("Warning: zero diagonal entry found, solving without preconditioner\n")
	}
	if dg.Print[2] != 0 {
		printMatrix(lg, "A", sys.A.Dense(), dg.Print[2])
	}
	return
}

// airLocked reports whether all 8 interaction volumes around voxel (j,k) of
// the current layer are unstable
func (sw *sweeper) airLocked(j, k int) bool {
	for n := 0; n < ivCells; n++ {
		slot, iv, _, _, _ := sw.ivAround(n, j, k)
		if !sw.unstable[slot][iv] {
			return false
		}
	}
	return true
}

// balanceRow accumulates into buf, indexed by neighbor offset and component,
// the net outflow of component c through the 24 sub-faces of voxel (j,k) of
// the current layer
func (sw *sweeper) balanceRow(buf []float64, c, j, k int) {
	var (
		sc = sw.dm.Scheme
		nc = sc.NC
		nu = ivCells * nc
	)
	for n := range buf {
		buf[n] = 0
	}
	for n := 0; n < ivCells; n++ {
		slot, iv, cell, _, _ := sw.ivAround(n, j, k)
		if sw.unstable[slot][iv] {
			continue
		}
		E := sw.E[slot][iv*sw.emSize : (iv+1)*sw.emSize]
		for d := 0; d < 3; d++ {
			var (
				sign = sc.RowSign * cellSign[cell][d]
				erow = E[(cellFace[cell][d]*nc+c)*nu:]
			)
			for x := 0; x < ivCells; x++ {
				dx, dy, dz := cellOffset(x, cell)
				nb := (dx + 1) + 3*(dy+1) + 9*(dz+1)
				for kc := 0; kc < nc; kc++ {
					buf[nb*nc+kc] += sign * erow[x*nc+kc]
				}
			}
		}
	}
}

// coupleHalo ties a halo unknown to the interior voxel it wraps or mirrors.
// Mirroring flips the displacement component normal to the mirror plane.
func (dm *Domain) coupleHalo(A utils.DOK, row, c, i, j, k int) {
	if dm.Side != utils.Periodic && dm.Side != utils.Symmetric {
		return
	}
	var (
		s    = dm.Shape
		ijk  = [3]int{i, j, k}
		n    = [3]int{s.Nx, s.Ny, s.Nz}
		src  [3]int
		kind = dm.haloKind
		sign = 1.
	)
	kind[0] = utils.Symmetric
	for a := 0; a < 3; a++ {
		src[a] = haloSource(ijk[a], n[a], kind[a])
		halo := ijk[a] == 0 || ijk[a] == n[a]-1
		if halo && kind[a] == utils.Symmetric && dm.Scheme.NC == 3 && a == c {
			sign = -sign
		}
	}
	A.Add(row, dm.Unknown(c, src[0], src[1], src[2]), -sign)
}
