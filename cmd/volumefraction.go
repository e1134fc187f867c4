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

	"github.com/ElsevierSoftwareX/SOFTX-D-21-00131/voxels"
)

// VolumeFractionCmd represents the volumefraction command
var VolumeFractionCmd = &cobra.Command{
	Use:   "volumefraction",
	Short: "Volume fraction of a range of voxel values",
	Run: func(cmd *cobra.Command, args []string) {
		cp := processInput(cmd)
		grid, err := loadGrid(cp)
		exitOn(err)
		low, _ := cmd.Flags().GetUint16("low")
		high, _ := cmd.Flags().GetUint16("high")
		vf, err := voxels.VolumeFraction(grid, low, high)
		exitOn(err)
		fmt.Printf("Volume fraction of [%d, %d] = %g\n", low, high, vf)
	},
}

func init() {
	rootCmd.AddCommand(VolumeFractionCmd)
	addInputFlag(VolumeFractionCmd)
	VolumeFractionCmd.Flags().Uint16("low", 0, "lowest voxel value counted")
	VolumeFractionCmd.Flags().Uint16("high", 65535, "highest voxel value counted")
}
