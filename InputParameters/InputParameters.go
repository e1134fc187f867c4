package InputParameters

import (
	"fmt"
	"strings"

	"github.com/ghodss/yaml"

	"github.com/ElsevierSoftwareX/SOFTX-D-21-00131/materials"
	"github.com/ElsevierSoftwareX/SOFTX-D-21-00131/types"
)

// MaterialParameters is one material map entry. Type and Values:
//
//	conductivity: isotropic [k], anisotropic [kxx kyy kzz kxy kxz kyz], oriented [axial radial]
//	elasticity:   isotropic [E nu], transverse [E_axial E_radial nu_axial nu_radial G_axial],
//	              stiffness [21 upper triangle Voigt components]
type MaterialParameters struct {
	Low    uint16    `yaml:"Low"`
	High   uint16    `yaml:"High"`
	Type   string    `yaml:"Type"`
	Values []float64 `yaml:"Values"`
}

// Parameters obtained from the YAML case file
type CaseParameters struct {
	Title           string               `yaml:"Title"`
	Physics         string               `yaml:"Physics"` // conductivity or elasticity
	Direction       string               `yaml:"Direction"`
	SideBC          string               `yaml:"SideBC"`
	Solver          string               `yaml:"Solver"`
	Tolerance       float64              `yaml:"Tolerance"`
	MaxIterations   int                  `yaml:"MaxIterations"`
	VoxelLength     float64              `yaml:"VoxelLength"`
	GridFile        string               `yaml:"GridFile"`
	GridShape       [3]int               `yaml:"GridShape"`
	GridDepth       int                  `yaml:"GridDepth"`
	OrientationFile string               `yaml:"OrientationFile"`
	Materials       []MaterialParameters `yaml:"Materials"`
	PrintMatrices   [5]int               `yaml:"PrintMatrices"`
	DisplayIter     bool                 `yaml:"DisplayIter"`
}

func (cp *CaseParameters) Parse(data []byte) (err error) {
	if err = yaml.Unmarshal(data, cp); err != nil {
		return
	}
	// YAML 1.1 reads a bare y as a boolean, which reaches the string field as "true"
	if cp.Direction == "true" {
		cp.Direction = "y"
	}
	return
}

func (cp *CaseParameters) Print() {
	fmt.Printf("\"%s\"\t\t= Title\n", cp.Title)
	fmt.Printf("[%s]\t\t= Physics\n", cp.Physics)
	fmt.Printf("[%s]\t\t\t= Direction\n", cp.Direction)
	fmt.Printf("[%s]\t\t\t= Side BC\n", cp.SideBC)
	fmt.Printf("[%s]\t\t= Solver\n", cp.Solver)
	fmt.Printf("%8.2e\t\t= Tolerance\n", cp.Tolerance)
	fmt.Printf("[%d]\t\t\t= Max Iterations\n", cp.MaxIterations)
	fmt.Printf("%8.2e\t\t= Voxel Length\n", cp.VoxelLength)
	fmt.Printf("%s %v\t= Grid File, Shape\n", cp.GridFile, cp.GridShape)
	for i, m := range cp.Materials {
		fmt.Printf("Materials[%d] = [%d, %d] %s %v\n", i, m.Low, m.High, m.Type, m.Values)
	}
}

// BuildMap converts the material list into a material map for physics
func (cp *CaseParameters) BuildMap(physics materials.Physics) (m *materials.Map, err error) {
	m = materials.NewMap(physics)
	for i, mp := range cp.Materials {
		var p materials.Property
		if p, err = mp.property(physics); err != nil {
			return nil, fmt.Errorf("material %d: %w", i, err)
		}
		m.Add(mp.Low, mp.High, p)
	}
	return
}

func (mp MaterialParameters) property(physics materials.Physics) (p materials.Property, err error) {
	var (
		v    = mp.Values
		kind = strings.ToLower(strings.TrimSpace(mp.Type))
		want int
	)
	switch {
	case physics == materials.Conduction && kind == "isotropic":
		if want = 1; len(v) == want {
			p = materials.IsotropicConductivity{K: v[0]}
		}
	case physics == materials.Conduction && kind == "anisotropic":
		if want = 6; len(v) == want {
			p = materials.AnisotropicConductivity{Kxx: v[0], Kyy: v[1], Kzz: v[2], Kxy: v[3], Kxz: v[4], Kyz: v[5]}
		}
	case physics == materials.Conduction && kind == "oriented":
		if want = 2; len(v) == want {
			p = materials.OrientedConductivity{Axial: v[0], Radial: v[1]}
		}
	case physics == materials.Elastic && kind == "isotropic":
		if want = 2; len(v) == want {
			p = materials.IsotropicStiffness{E: v[0], Nu: v[1]}
		}
	case physics == materials.Elastic && kind == "transverse":
		if want = 5; len(v) == want {
			p = materials.TransverselyIsotropicStiffness{
				EAxial: v[0], ERadial: v[1], NuAxial: v[2], NuRadial: v[3], GAxial: v[4]}
		}
	case physics == materials.Elastic && kind == "stiffness":
		if want = types.StiffnessSize; len(v) == want {
			var s materials.Stiffness
			copy(s.C[:], v)
			p = s
		}
	default:
		return nil, fmt.Errorf("%w: material type %q is not available for %s",
			types.ErrConfiguration, mp.Type, physics)
	}
	if p == nil {
		err = fmt.Errorf("%w: material type %q needs %d values, got %d",
			types.ErrConfiguration, mp.Type, want, len(v))
	}
	return
}
