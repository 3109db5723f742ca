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

	"github.com/spf13/cobra"

	"github.com/notargets/gomesh/InputParameters"
	"github.com/notargets/gomesh/geometry"
	"github.com/notargets/gomesh/mesh"
	"github.com/notargets/gomesh/mesh/readers"
	"github.com/notargets/gomesh/segmentation"
)

// Triangle fields holding the region on each side of a segmented face
const (
	PositiveField = "positive_region"
	NegativeField = "negative_region"
)

// SegmentCmd represents the segment command
var SegmentCmd = &cobra.Command{
	Use:   "segment",
	Short: "Split a triangulated surface into regions around seed points",
	Long: `
Reads a 3D triangle surface and the seed points of a job file, assigns every triangle to
the regions whose seeds it encloses, and writes one VTK piece per region.

gomesh segment -I job.yaml`,
	RunE: func(cmd *cobra.Command, args []string) error {
		jp, err := jobFromFlags(cmd)
		if err != nil {
			return err
		}
		if jp.Segmentation == nil || len(jp.Segmentation.Seeds) == 0 {
			fmt.Printf("Example File:%s\n", exampleJob)
			return fmt.Errorf("job has no Segmentation seeds")
		}
		m, err := readers.ReadMeshFile(jp.MeshFile)
		if err != nil {
			return err
		}
		if _, err = SegmentMesh(m, jp.Segmentation.Seeds); err != nil {
			return err
		}
		return writeOutput(m, jp.OutputFile)
	},
}

func init() {
	rootCmd.AddCommand(SegmentCmd)
	SegmentCmd.Flags().StringP("inputConditionsFile", "I", "", "YAML job file with Segmentation seeds")
	SegmentCmd.Flags().StringP("gridFile", "F", "", "Mesh file, overrides MeshFile of the job")
	SegmentCmd.Flags().StringP("outputFile", "o", "", "Output basename, overrides OutputFile of the job")
}

/*
SegmentMesh marks the triangles of m from the seeds, adds them to the mesh regions of
their sides and stores the side regions in PositiveField and NegativeField.
*/
func SegmentMesh(m *mesh.Mesh, seeds []InputParameters.Seed) (report segmentation.Report, err error) {
	ss := make([]segmentation.Seed, len(seeds))
	for i, s := range seeds {
		ss[i] = segmentation.Seed{Region: s.Region, Point: geometry.Point(s.Point)}
	}
	fs := segmentation.NewFaceSegmentation(m)
	if report, err = segmentation.MarkFaceSegments(m, fs, ss); err != nil {
		return
	}
	if err = fs.ApplyToRegions(); err != nil {
		return
	}
	var (
		pos = m.Fields().RegisterScalar(PositiveField, mesh.Triangle)
		neg = m.Fields().RegisterScalar(NegativeField, mesh.Triangle)
	)
	for _, tri := range m.Elements(mesh.Triangle) {
		info := fs.Info(tri)
		if info.Positive != segmentation.Unset {
			if err = pos.Set(tri, float64(info.Positive)); err != nil {
				return
			}
		}
		if info.Negative != segmentation.Unset {
			if err = neg.Set(tri, float64(info.Negative)); err != nil {
				return
			}
		}
	}
	for _, sr := range report.Seeds {
		cliLog.Info("segmented", "region", sr.Region, "triangles", sr.Visited,
			"seeds", sr.Seeds, "coplanar", sr.Skipped)
	}
	return
}
