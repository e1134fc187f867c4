package utils

// Shape3 indexes a 3D array stored with the first axis fastest
type Shape3 struct {
	Nx, Ny, Nz int
}

func NewShape3(nx, ny, nz int) Shape3 {
	return Shape3{nx, ny, nz}
}

func (s Shape3) Len() int   { return s.Nx * s.Ny * s.Nz }
func (s Shape3) Layer() int { return s.Ny * s.Nz }

// Dim returns the extent along axis 0, 1 or 2
func (s Shape3) Dim(axis int) int {
	return [3]int{s.Nx, s.Ny, s.Nz}[axis]
}

func (s Shape3) Index(i, j, k int) int {
	return i + s.Nx*(j+s.Ny*k)
}

func (s Shape3) IJK(ind int) (i, j, k int) {
	k = ind / (s.Nx * s.Ny)
	ind -= k * s.Nx * s.Ny
	j = ind / s.Nx
	i = ind - j*s.Nx
	return
}

// Permute returns the shape seen after relabeling axes, new axis a is old axis perm[a]
func (s Shape3) Permute(perm [3]int) Shape3 {
	return Shape3{s.Dim(perm[0]), s.Dim(perm[1]), s.Dim(perm[2])}
}

// Pad returns the shape grown by one halo voxel on each side
func (s Shape3) Pad() Shape3 {
	return Shape3{s.Nx + 2, s.Ny + 2, s.Nz + 2}
}

func (s Shape3) Equal(o Shape3) bool {
	return s.Nx == o.Nx && s.Ny == o.Ny && s.Nz == o.Nz
}
