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
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"github.com/ethereum/go-ethereum/metrics"
	"github.com/mitchellh/go-homedir"
	"github.com/rotblauer/trackfilter/params"
	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
	"github.com/spf13/viper"
)

var cfgFile string
var optDatadir string
var optVerbosity int
var optLogJSON bool

// rootCmd represents the base command when called without any subcommands
var rootCmd = &cobra.Command{
	Use:   "trackfilter",
	Short: "Smooth raw GPS tracks",
	Long: `trackfilter smooths streams of raw GPS fixes into plausible trajectories.

Each fix is judged against the last accepted fix of the same subject.
Accurate fixes are kept, implausible jumps are projected along the bearing,
and everything in between is interpolated toward the raw fix.

Examples:

  zcat master.json.gz | trackfilter smooth > smoothed.json
  trackfilter smooth --input master.json.gz --output smoothed.json.gz --resume
  trackfilter calories --speed 1.4 --duration 30m
  trackfilter project --lat 45 --lon 7 --bearing 90 --distance 1000
`,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		// Meters and counters are no-ops without this global setting.
		metrics.Enabled = true
		return initConfig()
	},
}

// Execute adds all child commands to the root command and sets flags appropriately.
// This is called by main.main(). It only needs to happen once to the rootCmd.
func Execute() {
	err := rootCmd.Execute()
	if err != nil {
		os.Exit(1)
	}
}

func init() {
	pFlags := rootCmd.PersistentFlags()
	pFlags.StringVar(&cfgFile, "config", "", "config file (default is $HOME/.trackfilter/config.yaml)")
	pFlags.StringVar(&optDatadir, "datadir", params.DatadirRoot, "Root directory for state")
	pFlags.IntVarP(&optVerbosity, "verbosity", "v", int(slog.LevelInfo), "Log level (-4 debug, 0 info, 4 warn, 8 error)")
	pFlags.BoolVar(&optLogJSON, "log-json", false, "Log as JSON")

	bindFlags("", pFlags, "datadir", "verbosity", "log-json")
}

// bindFlags binds the named flags to viper keys under prefix,
// so config file and env values apply when the flag is not set.
func bindFlags(prefix string, flags *pflag.FlagSet, names ...string) {
	for _, name := range names {
		key := name
		if prefix != "" {
			key = prefix + "." + name
		}
		if err := viper.BindPFlag(key, flags.Lookup(name)); err != nil {
			panic(err)
		}
	}
}

// initConfig reads in the config file and ENV variables if set.
// Values found there fill in the flags the user did not set.
func initConfig() error {
	if cfgFile != "" {
		expanded, err := homedir.Expand(cfgFile)
		if err != nil {
			return err
		}
		viper.SetConfigFile(expanded)
	} else {
		home, err := homedir.Dir()
		if err != nil {
			return err
		}
		viper.AddConfigPath(filepath.Join(home, ".trackfilter"))
		viper.SetConfigType("yaml")
		viper.SetConfigName(params.ConfigName)
	}

	viper.SetEnvPrefix(params.EnvPrefix)
	viper.SetEnvKeyReplacer(strings.NewReplacer(".", "_", "-", "_"))
	viper.AutomaticEnv()

	if err := viper.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if cfgFile != "" || !errors.As(err, &notFound) {
			return fmt.Errorf("read config: %w", err)
		}
	} else {
		defer slog.Debug("Using config file", "path", viper.ConfigFileUsed())
	}

	datadir, err := homedir.Expand(viper.GetString("datadir"))
	if err != nil {
		return err
	}
	optDatadir = datadir
	optVerbosity = viper.GetInt("verbosity")
	optLogJSON = viper.GetBool("log-json")
	return nil
}

// setDefaultSlog installs the process-wide logger per --verbosity and --log-json.
func setDefaultSlog(cmd *cobra.Command, args []string) {
	opts := &slog.HandlerOptions{
		Level:     slog.Level(optVerbosity),
		AddSource: slog.Level(optVerbosity) < slog.LevelInfo,
	}
	var handler slog.Handler = slog.NewTextHandler(os.Stderr, opts)
	if optLogJSON {
		handler = slog.NewJSONHandler(os.Stderr, opts)
	}
	slog.SetDefault(slog.New(handler).With("cmd", cmd.Name()))
	slog.Debug("Command", "args", args)
}

// filterConfig returns the location filter config with any `filter.*` overrides applied.
func filterConfig() (*params.LocationFilterConfig, error) {
	c := *params.DefaultLocationFilterConfig
	if err := viper.UnmarshalKey("filter", &c); err != nil {
		return nil, fmt.Errorf("filter config: %w", err)
	}
	return &c, nil
}

// calorieConfig returns the calorie config with any `calories.*` overrides applied.
func calorieConfig() (*params.CalorieConfig, error) {
	c := *params.DefaultCalorieConfig
	if err := viper.UnmarshalKey("calories", &c); err != nil {
		return nil, fmt.Errorf("calorie config: %w", err)
	}
	return &c, nil
}
