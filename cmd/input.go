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
	"log"
	"os"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/ElsevierSoftwareX/SOFTX-D-21-00131/InputParameters"
	"github.com/ElsevierSoftwareX/SOFTX-D-21-00131/readfiles"
	"github.com/ElsevierSoftwareX/SOFTX-D-21-00131/voxels"
)

const exampleCaseFile = `
########################################
Title: "Two phase sample"
Physics: conductivity # or elasticity
Direction: "x" # quote y, YAML reads a bare y as a boolean
SideBC: s # p, s, d or f (elasticity stress analysis only)
Solver: bicgstab
Tolerance: 1.e-4
MaxIterations: 10000
VoxelLength: 1.e-6
GridFile: sample.raw
GridShape: [100, 100, 100]
GridDepth: 8
Materials:
  - {Low: 0, High: 127, Type: isotropic, Values: [1.]}
  - {Low: 128, High: 255, Type: isotropic, Values: [10.]}
########################################
`

// processInput reads the case file named by the -I flag
func processInput(cmd *cobra.Command) (cp *InputParameters.CaseParameters) {
	var (
		err    error
		icFile string
		data   []byte
	)
	if icFile, err = cmd.Flags().GetString("inputConditionsFile"); err != nil {
		panic(err)
	}
	if len(icFile) == 0 {
		fmt.Printf("error: must supply a case file (-I, --inputConditionsFile)\n")
		fmt.Printf("Example File:%s\n", exampleCaseFile)
		os.Exit(1)
	}
	if data, err = os.ReadFile(icFile); err != nil {
		panic(err)
	}
	cp = &InputParameters.CaseParameters{}
	if err = cp.Parse(data); err != nil {
		panic(err)
	}
	// the global configuration fills what the case file leaves out
	if cp.Solver == "" {
		cp.Solver = viper.GetString("solver")
	}
	if cp.Tolerance == 0 {
		cp.Tolerance = viper.GetFloat64("tolerance")
	}
	if cp.MaxIterations == 0 {
		cp.MaxIterations = viper.GetInt("maxIterations")
	}
	if cp.GridDepth == 0 {
		cp.GridDepth = 8
	}
	cp.Print()
	return
}

func loadGrid(cp *InputParameters.CaseParameters) (g *voxels.Grid, err error) {
	s := cp.GridShape
	if g, err = readfiles.ReadRawVoxelsFile(cp.GridFile, s[0], s[1], s[2], cp.GridDepth); err != nil {
		return
	}
	if cp.VoxelLength > 0 {
		g.VoxelLength = cp.VoxelLength
	}
	if cp.OrientationFile != "" {
		err = readfiles.ReadOrientationFile(cp.OrientationFile, g)
	}
	return
}

func runLogger() *log.Logger {
	return log.New(os.Stdout, "", 0)
}

func addInputFlag(c *cobra.Command) {
	c.Flags().StringP("inputConditionsFile", "I", "", "YAML case file with the grid, the materials and the solver settings")
}
