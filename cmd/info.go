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
	"io"
	"os"

	"github.com/spf13/cobra"

	"github.com/notargets/gomesh/geometry"
	"github.com/notargets/gomesh/mesh"
	"github.com/notargets/gomesh/mesh/readers"
)

// InfoCmd represents the info command
var InfoCmd = &cobra.Command{
	Use:   "info",
	Short: "Print statistics and cell connectivity of a mesh file",
	Long: `
Reads a mesh file and prints its element counts, regions and boundary faces, followed by
the cell to vertex incidence and facet adjacency of each cell kind.

gomesh info -F mesh.su2`,
	RunE: func(cmd *cobra.Command, args []string) error {
		gridFile, _ := cmd.Flags().GetString("gridFile")
		if len(gridFile) == 0 {
			return fmt.Errorf("must supply a mesh file (-F, --gridFile)")
		}
		m, err := readers.ReadMeshFile(gridFile)
		if err != nil {
			return err
		}
		m.PrintStatistics()
		return PrintConnectivity(os.Stdout, m)
	},
}

func init() {
	rootCmd.AddCommand(InfoCmd)
	InfoCmd.Flags().StringP("gridFile", "F", "", "Mesh file to read (.mesh, .su2, .neu, .msh)")
}

// CellConnectivity summarizes the cells of one kind
type CellConnectivity struct {
	Kind          mesh.ElementType
	Cells         int
	Incidences    int // nonzeros of the cell to vertex matrix
	AdjacentPairs int // cell pairs sharing a facet
	BoundaryCells int // cells with fewer facet neighbours than facets
}

// Connectivity returns a summary per cell kind of the highest dimension, in kind order
func Connectivity(m *mesh.Mesh) (cc []CellConnectivity, err error) {
	dim := m.CellDimension()
	if dim < 1 {
		return nil, nil
	}
	for _, kind := range mesh.ElementTypes {
		if kind.GetDimension() != dim || kind == mesh.Polygon || m.Count(kind) == 0 {
			continue
		}
		CtoV, rows, err := mesh.IncidenceMatrix(m, kind)
		if err != nil {
			return nil, err
		}
		adj, err := mesh.FacetAdjacency(m, kind)
		if err != nil {
			return nil, err
		}
		c := CellConnectivity{Kind: kind, Cells: len(rows), Incidences: CtoV.NNZ()}
		for _, h := range rows {
			c.AdjacentPairs += len(adj[h])
			if len(adj[h]) < kind.GetNumFaces(kind.GetNumVertices()) {
				c.BoundaryCells++
			}
		}
		c.AdjacentPairs /= 2
		cc = append(cc, c)
	}
	return cc, nil
}

func PrintConnectivity(w io.Writer, m *mesh.Mesh) error {
	cc, err := Connectivity(m)
	if err != nil {
		return err
	}
	for _, c := range cc {
		fmt.Fprintf(w, "  %s cells: %d, incidences: %d, adjacent pairs: %d, boundary cells: %d\n",
			c.Kind, c.Cells, c.Incidences, c.AdjacentPairs, c.BoundaryCells)
	}
	var pts []geometry.Point
	for _, v := range m.Elements(mesh.Vertex) {
		p, err := m.Point(v)
		if err != nil {
			return err
		}
		pts = append(pts, p)
	}
	switch {
	case len(pts) == 0:
	case m.GeometricDimension() == 2:
		r := geometry.Bounds2D(pts)
		fmt.Fprintf(w, "  Bounds: [%g, %g] x [%g, %g]\n", r.LLx, r.URx, r.LLy, r.URy)
	default:
		lo, hi := geometry.Bounds(pts)
		fmt.Fprintf(w, "  Bounds: %v to %v\n", lo, hi)
	}
	return nil
}
