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
	"github.com/spf13/viper"

	"github.com/ElsevierSoftwareX/SOFTX-D-21-00131/materials"
	"github.com/ElsevierSoftwareX/SOFTX-D-21-00131/model_problems/Elasticity"
)

// ElasticityCmd represents the elasticity command
var ElasticityCmd = &cobra.Command{
	Use:   "elasticity",
	Short: "Effective stiffness (MPSA)",
	Long: `
Solves linear elasticity over the voxel grid with a unit displacement along
the requested direction and reports one column of the effective stiffness,

pumago elasticity -I case.yaml`,
	Run: func(cmd *cobra.Command, args []string) {
		cp := processInput(cmd)
		grid, err := loadGrid(cp)
		exitOn(err)
		emap, err := cp.BuildMap(materials.Elastic)
		exitOn(err)
		cfg := Elasticity.DefaultConfig()
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
		res, err := Elasticity.ComputeElasticity(grid, emap, cfg)
		exitOn(err)
		fmt.Printf("Ceff = %v\n", res.Ceff)
	},
}

func init() {
	rootCmd.AddCommand(ElasticityCmd)
	addInputFlag(ElasticityCmd)
}
