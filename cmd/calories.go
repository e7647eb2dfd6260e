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
	"log"
	"time"

	"github.com/rotblauer/trackfilter/geo/calories"
	"github.com/rotblauer/trackfilter/params"
	"github.com/spf13/cobra"
)

var optCaloriesSpeed float64
var optCaloriesDuration time.Duration

// caloriesCmd represents the calories command
var caloriesCmd = &cobra.Command{
	Use:   "calories",
	Short: "Estimate calories burned moving at a speed",
	Long: `Estimates kilocalories burned moving at --speed (m/s) for --duration.

Height and weight default to 1.7m and 70kg, and can be set with flags
or under the 'calories' key of the config file.

Examples:

  trackfilter calories --speed 1.4 --duration 30m
  trackfilter calories --speed 3 --duration 1h --weight 82
`,
	Run: func(cmd *cobra.Command, args []string) {
		setDefaultSlog(cmd, args)
		c, err := calorieConfig()
		if err != nil {
			log.Fatalln(err)
		}
		fmt.Fprintln(cmd.OutOrStdout(), caloriesLine(c, optCaloriesSpeed, optCaloriesDuration))
	},
}

func init() {
	rootCmd.AddCommand(caloriesCmd)

	flags := caloriesCmd.Flags()
	flags.Float64Var(&optCaloriesSpeed, "speed", 0, "Speed, m/s")
	flags.DurationVar(&optCaloriesDuration, "duration", time.Minute, "Time spent moving")
	flags.Float64("height", params.DefaultCalorieConfig.Height, "Height, m")
	flags.Float64("weight", params.DefaultCalorieConfig.Weight, "Weight, kg")

	bindFlags("calories", flags, "height", "weight")
}

func caloriesLine(c *params.CalorieConfig, speed float64, d time.Duration) string {
	kcal := calories.EstimateWith(c, speed, d)
	return fmt.Sprintf("%.1f kcal (speed=%gm/s duration=%s height=%gm weight=%gkg)",
		kcal, speed, d, c.Height, c.Weight)
}
