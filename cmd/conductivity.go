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
	"github.com/spf13/viper"

	"github.com/ElsevierSoftwareX/SOFTX-D-21-00131/materials"
	"github.com/ElsevierSoftwareX/SOFTX-D-21-00131/model_problems/Conductivity"
)

// ConductivityCmd represents the conductivity command
var ConductivityCmd = &cobra.Command{
	Use:   "conductivity",
	Short: "Effective thermal or electrical conductivity (MPFA)",
	Long: `
Solves steady state diffusion over the voxel grid with a unit drop along the
requested direction and reports the effective conductivity tensor diagonal,

pumago conductivity -I case.yaml`,
	Run: func(cmd *cobra.Command, args []string) {
		cp := processInput(cmd)
		grid, err := loadGrid(cp)
		exitOn(err)
		cmap, err := cp.BuildMap(materials.Conduction)
		exitOn(err)
		cfg := Conductivity.DefaultThermalConfig()
		if electrical, _ := cmd.Flags().GetBool("electrical"); electrical {
			cfg = Conductivity.DefaultElectricalConfig()
		}
		if cp.Direction != "" {
			cfg.Direction = cp.Direction
		}
		if cp.SideBC != "" {
			cfg.SideBC = cp.SideBC
		}
		cfg.Solver = cp.Solver
		cfg.Tolerance = cp.Tolerance
		cfg.MaxIterations = cp.MaxIterations
		cfg.DisplayIter = cp.DisplayIter
		cfg.PrintMatrices = cp.PrintMatrices
		cfg.ProcLimit = viper.GetInt("procLimit")
		cfg.Log = runLogger()
		res, err := Conductivity.ComputeThermal(grid, cmap, cfg)
		exitOn(err)
		fmt.Printf("keff = [%g, %g, %g]\n", res.Keff[0], res.Keff[1], res.Keff[2])
	},
}

func exitOn(err error) {
	if err != nil {
		fmt.Printf("error: %s\n", err.Error())
		os.Exit(1)
	}
}

func init() {
	rootCmd.AddCommand(ConductivityCmd)
	addInputFlag(ConductivityCmd)
	ConductivityCmd.Flags().BoolP("electrical", "e", false, "use the electrical conductivity defaults (periodic sides)")
}
