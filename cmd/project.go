/*
Copyright © 2024 NAME HERE <EMAIL ADDRESS>

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

	"github.com/paulmach/orb"
	"github.com/rotblauer/trackfilter/common"
	"github.com/rotblauer/trackfilter/geo/locfilter"
	"github.com/spf13/cobra"
)

var optProjectLat float64
var optProjectLon float64
var optProjectBearing float64
var optProjectDistance float64

// projectCmd represents the project command
var projectCmd = &cobra.Command{
	Use:   "project",
	Short: "Project a point along a bearing",
	Long: `Prints the point --distance meters from --lat,--lon along --bearing (degrees),
and the initial bearing from the start to that point.

This is the projection the filter uses for implausible jumps,
on a sphere of radius 6371km.

Examples:

  trackfilter project --lat 45 --lon 7 --bearing 90 --distance 1000
`,
	Run: func(cmd *cobra.Command, args []string) {
		setDefaultSlog(cmd, args)
		fmt.Fprintln(cmd.OutOrStdout(), projectLine(optProjectLat, optProjectLon, optProjectBearing, optProjectDistance))
	},
}

func init() {
	rootCmd.AddCommand(projectCmd)

	flags := projectCmd.Flags()
	flags.Float64Var(&optProjectLat, "lat", 0, "Start latitude")
	flags.Float64Var(&optProjectLon, "lon", 0, "Start longitude")
	flags.Float64Var(&optProjectBearing, "bearing", 0, "Bearing, degrees clockwise from north")
	flags.Float64Var(&optProjectDistance, "distance", 0, "Distance, m")
}

func projectLine(lat, lon, bearing, distance float64) string {
	dest := locfilter.DestinationPoint(lat, lon, bearing, distance)
	start := orb.Point{lon, lat}
	return fmt.Sprintf("lat=%v lon=%v bearing=%v",
		common.DecimalToFixed(dest.Lat(), common.GPSPrecision7),
		common.DecimalToFixed(dest.Lon(), common.GPSPrecision7),
		locfilter.InitialBearing(&start, dest))
}
