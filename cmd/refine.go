/*
Copyright © 2020 NAME HERE <EMAIL ADDRESS>

Licensed under the Apache License, Version 2.0 (the "License");
you may not use this file except in compliance with the License.
You may obtain a copy of the License at

    http://www.apache.org/licenses/LICENSE-2.0

Unless required by applicable law or agreed to in writing, software
distributed under the License is distributed on an "AS IS" BASIS,
WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
See the License for the specific language governing permissions and
limitations under the License.
*/
package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/notargets/gomesh/InputParameters"
	"github.com/notargets/gomesh/mesh"
	"github.com/notargets/gomesh/mesh/readers"
	"github.com/notargets/gomesh/mesh/writers"
	"github.com/notargets/gomesh/refine"
)

// LevelField is the cell field counting how often a cell's ancestors were split
const LevelField = "level"

const exampleJob = `
########################################
Title: "Refine a box"
MeshFile: box.neu
OutputFile: box_refined
Refinement:
  CellKind: Tet
  Uniform: false
  Rounds: 2
  CellIDs: [0, 4, 7]
Segmentation:           # used by gomesh segment
  Seeds:
    - Region: 1
      Point: [0.5, 0.5, 0.5]
########################################
`

// RefineCmd represents the refine command
var RefineCmd = &cobra.Command{
	Use:   "refine",
	Short: "Refine a mesh file uniformly or around selected cells",
	Long: `
Reads the mesh named by the job file, splits the selected cells (or every cell) of the
refinement kind for the requested number of rounds, carries regions and fields over to
the refined mesh and writes it as VTK.

gomesh refine -I job.yaml`,
	RunE: func(cmd *cobra.Command, args []string) error {
		jp, err := jobFromFlags(cmd)
		if err != nil {
			return err
		}
		if jp.Refinement == nil {
			jp.Refinement = &InputParameters.Refinement{Uniform: true, Rounds: 1}
		}
		src, err := readers.ReadMeshFile(jp.MeshFile)
		if err != nil {
			return err
		}
		kind := cellKindOf(src)
		if len(jp.Refinement.CellKind) != 0 {
			if kind, err = jp.CellKind(); err != nil {
				return err
			}
		}
		m, err := RefineMesh(src, jp.Refinement, kind)
		if err != nil {
			return err
		}
		m.PrintStatistics()
		return writeOutput(m, jp.OutputFile)
	},
}

func init() {
	rootCmd.AddCommand(RefineCmd)
	RefineCmd.Flags().StringP("inputConditionsFile", "I", "", "YAML job file, see the example printed when it is missing")
	RefineCmd.Flags().StringP("gridFile", "F", "", "Mesh file, overrides MeshFile of the job")
	RefineCmd.Flags().StringP("outputFile", "o", "", "Output basename, overrides OutputFile of the job")
}

/*
jobFromFlags reads the job file named by -I and applies the -F and -o overrides. Without
a job file a job holding only the overrides is returned.
*/
func jobFromFlags(cmd *cobra.Command) (jp *InputParameters.JobParameters, err error) {
	var (
		icFile, _   = cmd.Flags().GetString("inputConditionsFile")
		gridFile, _ = cmd.Flags().GetString("gridFile")
		outFile, _  = cmd.Flags().GetString("outputFile")
	)
	jp = &InputParameters.JobParameters{}
	if len(icFile) != 0 {
		if jp, err = ReadJob(icFile); err != nil {
			return nil, err
		}
	}
	if len(gridFile) != 0 {
		jp.MeshFile = gridFile
	}
	if len(outFile) != 0 {
		jp.OutputFile = outFile
	}
	if len(jp.MeshFile) == 0 {
		fmt.Printf("Example File:%s\n", exampleJob)
		return nil, fmt.Errorf("must supply a mesh file (-F, --gridFile) or a job file with MeshFile (-I, --inputConditionsFile)")
	}
	return jp, nil
}

// cellKindOf is the first kind present at the cell dimension
func cellKindOf(m *mesh.Mesh) mesh.ElementType {
	dim := m.CellDimension()
	for _, kind := range mesh.ElementTypes {
		if kind.GetDimension() == dim && m.Count(kind) > 0 {
			return kind
		}
	}
	return mesh.Triangle
}

func ReadJob(filename string) (*InputParameters.JobParameters, error) {
	data, err := os.ReadFile(filename)
	if err != nil {
		return nil, err
	}
	jp := &InputParameters.JobParameters{}
	if err = jp.Parse(data); err != nil {
		return nil, fmt.Errorf("job file %s: %w", filename, err)
	}
	cliLog.Info("read job", "file", filename, "title", jp.Title)
	return jp, nil
}

/*
RefineMesh runs the rounds of a refinement on the cells of kind. A non uniform
refinement splits the listed cells in the first round and their children in each later
round. Regions and fields follow the cells, and the LevelField cell field records the
split depth of every cell.
*/
func RefineMesh(src *mesh.Mesh, rp *InputParameters.Refinement, kind mesh.ElementType) (*mesh.Mesh, error) {
	flagged := make(map[mesh.Handle]bool)
	if !rp.Uniform {
		for _, id := range rp.CellIDs {
			h := mesh.Handle{Kind: kind, ID: id, Epoch: src.Epoch()}
			if !src.Valid(h) {
				return nil, fmt.Errorf("%w: no %s cell %d to refine", mesh.ErrOutOfRange, kind, id)
			}
			flagged[h] = true
		}
	}
	if _, ok := src.Fields().Scalar(LevelField, kind); !ok {
		level := src.Fields().RegisterScalar(LevelField, kind)
		for _, h := range src.Elements(kind) {
			if err := level.Set(h, 0); err != nil {
				return nil, err
			}
		}
	}
	for round := 0; round < rp.Rounds; round++ {
		var (
			dst = mesh.NewMesh()
			res *refine.Result
			err error
		)
		if rp.Uniform {
			res, err = refine.Uniform(src, dst, kind)
		} else {
			flags := make([]bool, src.IDUpperBound(kind))
			for h := range flagged {
				flags[h.ID] = true
			}
			res, err = refine.Refine(src, dst, kind, flags, nil)
		}
		if err != nil {
			return nil, fmt.Errorf("refinement round %d: %w", round+1, err)
		}
		if err = refine.TransferRegions(src, dst, res); err != nil {
			return nil, err
		}
		if err = transferFields(src, dst, res); err != nil {
			return nil, err
		}
		level, _ := dst.Fields().Scalar(LevelField, kind)
		next := make(map[mesh.Handle]bool)
		for parent, kids := range res.Children {
			if len(kids) < 2 {
				continue
			}
			for _, h := range kids {
				if err = level.Set(h, level.Get(h)+1); err != nil {
					return nil, err
				}
				if flagged[parent] {
					next[h] = true
				}
			}
		}
		flagged = next
		cliLog.Info("refinement round", "round", round+1, "kind", kind, "cells", dst.Count(kind),
			"vertices", dst.Count(mesh.Vertex), "closure rounds", res.Rounds)
		src = dst
	}
	return src, nil
}

// transferFields interpolates every vertex field and injects every cell field of the refined kind
func transferFields(src, dst *mesh.Mesh, res *refine.Result) error {
	fr := src.Fields()
	for _, name := range append(fr.ScalarNames(mesh.Vertex), fr.VectorNames(mesh.Vertex)...) {
		if err := refine.InterpolateVertexField(src, dst, res, name); err != nil {
			return err
		}
	}
	for _, name := range append(fr.ScalarNames(res.CellKind), fr.VectorNames(res.CellKind)...) {
		if err := refine.InjectCellField(src, dst, res, name); err != nil {
			return err
		}
	}
	return nil
}

func writeOutput(m *mesh.Mesh, basename string) error {
	if len(basename) == 0 {
		cliLog.Warn("no output file given, nothing written")
		return nil
	}
	paths, err := writers.WriteVTK(m, basename)
	if err != nil {
		return err
	}
	for _, path := range paths {
		cliLog.Info("wrote", "file", path)
	}
	return nil
}
