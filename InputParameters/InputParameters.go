package InputParameters

import (
	"fmt"

	"github.com/ghodss/yaml"

	"github.com/notargets/gomesh/mesh"
	"github.com/notargets/gomesh/utils"
)

type Seed struct {
	Region int       `yaml:"Region"`
	Point  []float64 `yaml:"Point"`
}

type Refinement struct {
	CellKind string `yaml:"CellKind"`
	Uniform  bool   `yaml:"Uniform"`
	Rounds   int    `yaml:"Rounds"`  // repeat count, 1 if unset
	CellIDs  []int  `yaml:"CellIDs"` // cells to split in the first round when not uniform
}

type Segmentation struct {
	Seeds []Seed `yaml:"Seeds"`
}

// Parameters obtained from the YAML job file
type JobParameters struct {
	Title        string        `yaml:"Title"`
	MeshFile     string        `yaml:"MeshFile"`
	OutputFile   string        `yaml:"OutputFile"`
	Tolerance    float64       `yaml:"Tolerance"`
	Refinement   *Refinement   `yaml:"Refinement"`
	Segmentation *Segmentation `yaml:"Segmentation"`
}

func (jp *JobParameters) Parse(data []byte) error {
	if err := yaml.Unmarshal(data, jp); err != nil {
		return err
	}
	if jp.Refinement != nil && jp.Refinement.Rounds == 0 {
		jp.Refinement.Rounds = 1
	}
	return jp.Validate()
}

func (jp *JobParameters) Validate() error {
	if jp.Tolerance < 0 {
		return fmt.Errorf("%w: Tolerance %g", mesh.ErrOutOfRange, jp.Tolerance)
	}
	if r := jp.Refinement; r != nil {
		if _, err := jp.CellKind(); err != nil {
			return err
		}
		if r.Rounds < 1 {
			return fmt.Errorf("%w: Refinement.Rounds %d", mesh.ErrOutOfRange, r.Rounds)
		}
		if r.Uniform && len(r.CellIDs) > 0 {
			return fmt.Errorf("Refinement: CellIDs given for a uniform refinement")
		}
		for _, id := range r.CellIDs {
			if id < 0 {
				return fmt.Errorf("%w: Refinement cell id %d", mesh.ErrOutOfRange, id)
			}
		}
	}
	if s := jp.Segmentation; s != nil {
		for i, seed := range s.Seeds {
			if len(seed.Point) != 3 {
				return fmt.Errorf("%w: seed %d has a %d dimensional point", mesh.ErrDimensionMismatch, i, len(seed.Point))
			}
			if seed.Region < 0 {
				return fmt.Errorf("%w: seed %d region %d", mesh.ErrOutOfRange, i, seed.Region)
			}
		}
	}
	return nil
}

// CellKind of the refinement, Triangle when unset
func (jp *JobParameters) CellKind() (mesh.ElementType, error) {
	if jp.Refinement == nil || jp.Refinement.CellKind == "" {
		return mesh.Triangle, nil
	}
	return mesh.ParseElementType(jp.Refinement.CellKind)
}

func (jp *JobParameters) GetTolerance() utils.Tolerance {
	return utils.NewTolerance(jp.Tolerance)
}

func (jp *JobParameters) Print() {
	fmt.Printf("\"%s\"\t\t= Title\n", jp.Title)
	fmt.Printf("[%s]\t\t= MeshFile\n", jp.MeshFile)
	fmt.Printf("[%s]\t\t= OutputFile\n", jp.OutputFile)
	fmt.Printf("%8.5g\t\t= Tolerance\n", jp.GetTolerance().Eps)
	if r := jp.Refinement; r != nil {
		fmt.Printf("[%s]\t\t= Refinement CellKind\n", r.CellKind)
		fmt.Printf("[%v]\t\t= Refinement Uniform\n", r.Uniform)
		fmt.Printf("[%d]\t\t\t= Refinement Rounds\n", r.Rounds)
		if len(r.CellIDs) > 0 {
			fmt.Printf("%v\t= Refinement CellIDs\n", r.CellIDs)
		}
	}
	if s := jp.Segmentation; s != nil {
		for _, seed := range s.Seeds {
			fmt.Printf("Seed[%d] = %v\n", seed.Region, seed.Point)
		}
	}
}
