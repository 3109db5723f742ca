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

	"github.com/notargets/gomesh/mesh/readers"
)

// ConvertCmd represents the convert command
var ConvertCmd = &cobra.Command{
	Use:   "convert",
	Short: "Convert a mesh file to VTK XML",
	Long: `
Reads any supported mesh file and writes it as VTK, one .vtu per region collected by a
.pvd file, or a single .vtu for a mesh without regions.

gomesh convert -F mesh.msh -o mesh`,
	RunE: func(cmd *cobra.Command, args []string) error {
		gridFile, _ := cmd.Flags().GetString("gridFile")
		outFile, _ := cmd.Flags().GetString("outputFile")
		if len(gridFile) == 0 || len(outFile) == 0 {
			return fmt.Errorf("must supply a mesh file (-F, --gridFile) and an output basename (-o, --outputFile)")
		}
		m, err := readers.ReadMeshFile(gridFile)
		if err != nil {
			return err
		}
		return writeOutput(m, outFile)
	},
}

func init() {
	rootCmd.AddCommand(ConvertCmd)
	ConvertCmd.Flags().StringP("gridFile", "F", "", "Mesh file to read (.mesh, .su2, .neu, .msh)")
	ConvertCmd.Flags().StringP("outputFile", "o", "", "Output basename")
}
