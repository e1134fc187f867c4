package materials

import (
	"fmt"
	"math"

	"gonum.org/v1/gonum/spatial/r3"

	"github.com/ElsevierSoftwareX/SOFTX-D-21-00131/types"
	"github.com/ElsevierSoftwareX/SOFTX-D-21-00131/voxels"
)

// Entry assigns Property to every voxel id in [Low, High]
type Entry struct {
	Low, High uint16
	Property  Property
}

// Map is an ordered list of material entries, the entry position is the
// material index used by the solvers
type Map struct {
	Physics Physics
	Entries []Entry
}

func NewMap(physics Physics) *Map {
	return &Map{Physics: physics}
}

// Add appends an entry and returns the map for chaining
func (m *Map) Add(low, high uint16, p Property) *Map {
	m.Entries = append(m.Entries, Entry{low, high, p})
	return m
}

// Clone copies the entry list, properties are values and are shared
func (m *Map) Clone() *Map {
	return &Map{Physics: m.Physics, Entries: append([]Entry(nil), m.Entries...)}
}

func (m *Map) Len() int { return len(m.Entries) }

// Find returns the index of the entry covering id
func (m *Map) Find(id uint16) (idx int, ok bool) {
	for i, e := range m.Entries {
		if id >= e.Low && id <= e.High {
			return i, true
		}
	}
	return -1, false
}

// Validate checks the map on its own: at least one entry, well formed
// non-overlapping ranges and properties of the map's physics
func (m *Map) Validate() (err error) {
	if len(m.Entries) == 0 {
		return fmt.Errorf("%w: empty material map", types.ErrConfiguration)
	}
	for i, e := range m.Entries {
		if e.Property == nil {
			return fmt.Errorf("%w: material %d has no property", types.ErrConfiguration, i)
		}
		if e.Low > e.High {
			return fmt.Errorf("%w: material %d range [%d, %d] is inverted",
				types.ErrConfiguration, i, e.Low, e.High)
		}
		if e.Property.Physics() != m.Physics {
			return fmt.Errorf("%w: material %d is a %s property in a %s map",
				types.ErrConfiguration, i, e.Property.Physics(), m.Physics)
		}
		if err = e.Property.Validate(); err != nil {
			return fmt.Errorf("material %d: %w", i, err)
		}
		for j := 0; j < i; j++ {
			o := m.Entries[j]
			if e.Low <= o.High && o.Low <= e.High {
				return fmt.Errorf("%w: material ranges [%d, %d] and [%d, %d] overlap",
					types.ErrConfiguration, o.Low, o.High, e.Low, e.High)
			}
		}
	}
	return
}

// CheckCoverage fails if any id present in the grid falls outside every range
func (m *Map) CheckCoverage(g *voxels.Grid) error {
	var seen [math.MaxUint16 + 1]bool
	for _, v := range g.Data {
		seen[v] = true
	}
	for id, present := range seen {
		if !present {
			continue
		}
		if _, ok := m.Find(uint16(id)); !ok {
			return fmt.Errorf("%w: voxel value %d is not covered by the material map",
				types.ErrMaterialCoverage, id)
		}
	}
	return nil
}

// CheckOrientation requires a grid shaped, nearly unit orientation field over
// every voxel that belongs to an oriented material
func (m *Map) CheckOrientation(g *voxels.Grid) error {
	var anyOriented bool
	for _, e := range m.Entries {
		anyOriented = anyOriented || e.Property.Oriented()
	}
	if !anyOriented {
		return nil
	}
	if !g.HasOrientation() {
		return fmt.Errorf("%w: oriented material requires an orientation field",
			types.ErrConfiguration)
	}
	if len(g.Orientation) != g.Shape.Len() {
		return fmt.Errorf("%w: orientation field has %d vectors for %d voxels",
			types.ErrConfiguration, len(g.Orientation), g.Shape.Len())
	}
	for n, v := range g.Data {
		idx, ok := m.Find(v)
		if !ok || !m.Entries[idx].Property.Oriented() {
			continue
		}
		if norm := r3.Norm(g.Orientation[n]); norm < 0.9 || norm > 1.1 {
			i, j, k := g.Shape.IJK(n)
			return fmt.Errorf("%w: orientation at (%d, %d, %d) has norm %g, expected unit vectors",
				types.ErrConfiguration, i, j, k, norm)
		}
	}
	return nil
}

// Segment writes the material index of every id in data to dst, -1 where uncovered
func (m *Map) Segment(data []uint16, dst []int32) {
	var lut [math.MaxUint16 + 1]int32
	for i := range lut {
		lut[i] = -1
	}
	for idx, e := range m.Entries {
		for v := int(e.Low); v <= int(e.High); v++ {
			lut[v] = int32(idx)
		}
	}
	for n, v := range data {
		dst[n] = lut[v]
	}
}

// Builder produces the per voxel tensors of a map in an axis relabeled frame.
// Constant tensors are computed once.
type Builder struct {
	m     *Map
	perm  [3]int
	fixed [][]float64
	size  int
}

func NewBuilder(m *Map, perm [3]int) (b *Builder) {
	b = &Builder{
		m:     m,
		perm:  perm,
		fixed: make([][]float64, len(m.Entries)),
		size:  m.Physics.Components(),
	}
	for i, e := range m.Entries {
		if !e.Property.Oriented() {
			b.fixed[i] = Permute(e.Property.Tensor(r3.Vec{}), perm)
		}
	}
	return
}

// Size is the number of components written by Tensor
func (b *Builder) Size() int { return b.size }

// Tensor writes the tensor of material idx into dst. A negative idx is the
// halo sentinel and gives a zero tensor. d is already in the relabeled frame.
func (b *Builder) Tensor(dst []float64, idx int32, d r3.Vec) {
	switch {
	case idx < 0:
		for i := range dst[:b.size] {
			dst[i] = 0
		}
	case b.fixed[idx] != nil:
		copy(dst, b.fixed[idx])
	default:
		copy(dst, b.m.Entries[idx].Property.Tensor(d))
	}
}

// Print lists the entries through the supplied print function
func (m *Map) Print(printf func(format string, v ...any)) {
	for i, e := range m.Entries {
		printf("Material %d: [%d, %d] %s\n", i, e.Low, e.High, e.Property)
	}
}
