package utils

import (
	"fmt"
	"strings"

	"github.com/ElsevierSoftwareX/SOFTX-D-21-00131/types"
)

// SideBC is the boundary treatment of the faces parallel to the solve direction
type SideBC uint8

const (
	Periodic SideBC = iota
	Symmetric
	Dirichlet
	Free
)

// Code returns the canonical single letter code of the side boundary condition
func (bc SideBC) Code() string {
	return [...]string{"p", "s", "d", "f"}[bc]
}

func (bc SideBC) String() string {
	names := map[SideBC]string{
		Periodic:  "Periodic",
		Symmetric: "Symmetric",
		Dirichlet: "Dirichlet",
		Free:      "Free",
	}
	if name, ok := names[bc]; ok {
		return name
	}
	return "Unknown"
}

// SideBCNameMap keys are lowercase for case-insensitive matching
var SideBCNameMap = map[string]SideBC{
	"p":         Periodic,
	"periodic":  Periodic,
	"s":         Symmetric,
	"symmetric": Symmetric,
	"d":         Dirichlet,
	"dirichlet": Dirichlet,
	"f":         Free,
	"free":      Free,
}

// ParseSideBC converts a side boundary condition name to SideBC, unknown
// spellings are a configuration error
func ParseSideBC(name string) (bc SideBC, err error) {
	var ok bool
	if bc, ok = SideBCNameMap[strings.ToLower(strings.TrimSpace(name))]; !ok {
		err = fmt.Errorf("%w: side boundary condition %q not recognized, use p, s, d or f",
			types.ErrConfiguration, name)
	}
	return
}

// Direction is the axis along which the unit gradient is imposed
type Direction uint8

const (
	DirNone Direction = iota
	DirX
	DirY
	DirZ
)

// Axis returns 0, 1 or 2 for x, y, z and -1 when there is no direction
func (d Direction) Axis() int { return int(d) - 1 }

func (d Direction) String() string {
	return [...]string{"", "x", "y", "z"}[d]
}

// ParseDirection accepts x, y, z in either case, an empty name is DirNone
func ParseDirection(name string) (d Direction, err error) {
	switch strings.ToLower(strings.TrimSpace(name)) {
	case "":
		d = DirNone
	case "x":
		d = DirX
	case "y":
		d = DirY
	case "z":
		d = DirZ
	default:
		err = fmt.Errorf("%w: direction %q not recognized, use x, y or z",
			types.ErrConfiguration, name)
	}
	return
}

// SolverKind selects the linear solver used for the global system
type SolverKind uint8

const (
	BiCGSTAB SolverKind = iota
	CG
	GMRES
	Direct
)

func (s SolverKind) String() string {
	return [...]string{"bicgstab", "cg", "gmres", "direct"}[s]
}

var SolverNameMap = map[string]SolverKind{
	"bicgstab": BiCGSTAB,
	"cg":       CG,
	"gmres":    GMRES,
	"direct":   Direct,
}

// ParseSolverKind is lenient: unknown names fall back to BiCGSTAB with
// known == false so that the caller can warn
func ParseSolverKind(name string) (s SolverKind, known bool) {
	if s, known = SolverNameMap[strings.ToLower(strings.TrimSpace(name))]; !known {
		s = BiCGSTAB
	}
	return
}
