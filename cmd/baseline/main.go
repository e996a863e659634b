// Command baseline builds baselines from JSON descriptors and fits
// them to the returns of a seeded random walk.
package main

import (
	"encoding/json"
	"fmt"
	"io/ioutil"
	"log"
	"os"
	"sort"

	"github.com/pkg/errors"
	"github.com/samuelfneumann/gobaseline/baseline"
	"github.com/samuelfneumann/gobaseline/resolver"
	"github.com/spf13/cobra"
)

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

var rootCmd = &cobra.Command{
	Use:   "baseline",
	Short: "Fit state value baselines",
	Long: `baseline builds state value baselines from JSON descriptors and
fits them to the discounted returns of a one dimensional random walk.`,
	SilenceUsage: true,
}

// fileConfig is the JSON configuration read by the fit command
type fileConfig struct {
	Baseline     *resolver.Descriptor `json:"baseline"`
	Optimizer    *resolver.Descriptor `json:"optimizer"`
	LearningRate float64              `json:"learning_rate"`
}

// defaultConfig is used when no configuration file is given
func defaultConfig() fileConfig {
	return fileConfig{
		Baseline: resolver.NewDescriptor(baseline.MLPName, resolver.Kwargs{
			"size":          32,
			"repeat_update": 50,
		}),
		LearningRate: 0.01,
	}
}

func loadConfig(path string) (fileConfig, error) {
	config := defaultConfig()
	if path == "" {
		return config, nil
	}

	data, err := ioutil.ReadFile(path)
	if err != nil {
		return fileConfig{}, errors.Wrap(err, "loadConfig")
	}
	if err := json.Unmarshal(data, &config); err != nil {
		return fileConfig{}, errors.Wrapf(err, "loadConfig: %v", path)
	}
	if config.Baseline == nil {
		return fileConfig{}, fmt.Errorf("loadConfig: %v: no baseline "+
			"descriptor", path)
	}
	return config, nil
}

var fitFlags struct {
	config     string
	iterations int
	episodes   int
	steps      int
	stepSize   float64
	discount   float64
	lambda     float64
	lr         float64
	seed       uint64
	progress   bool
}

var fitCmd = &cobra.Command{
	Use:   "fit",
	Short: "Fit a baseline to random walk returns",
	RunE: func(cmd *cobra.Command, args []string) error {
		config, err := loadConfig(fitFlags.config)
		if err != nil {
			return err
		}
		if cmd.Flags().Changed("lr") {
			config.LearningRate = fitFlags.lr
		}

		logger := log.New(cmd.ErrOrStderr(), "baseline: ", log.LstdFlags)
		return fit(fitOptions{
			config:     config,
			iterations: fitFlags.iterations,
			episodes:   fitFlags.episodes,
			steps:      fitFlags.steps,
			stepSize:   fitFlags.stepSize,
			discount:   fitFlags.discount,
			lambda:     fitFlags.lambda,
			seed:       fitFlags.seed,
			progress:   fitFlags.progress,
			out:        cmd.OutOrStdout(),
			logger:     logger,
		})
	},
}

var listCmd = &cobra.Command{
	Use:   "list",
	Short: "List the registered types a descriptor may name",
	RunE: func(cmd *cobra.Command, args []string) error {
		names := resolver.Names()
		sort.Strings(names)
		for _, name := range names {
			fmt.Fprintln(cmd.OutOrStdout(), name)
		}
		return nil
	},
}

func init() {
	f := fitCmd.Flags()
	f.StringVarP(&fitFlags.config, "config", "c", "",
		"JSON file with baseline and optimizer descriptors")
	f.IntVar(&fitFlags.iterations, "iterations", 20,
		"number of rollout and update iterations")
	f.IntVar(&fitFlags.episodes, "episodes", 10,
		"episodes rolled out per iteration")
	f.IntVar(&fitFlags.steps, "steps", 100, "maximum steps per episode")
	f.Float64Var(&fitFlags.stepSize, "step-size", 0.2,
		"maximum distance moved in one step of the walk")
	f.Float64Var(&fitFlags.discount, "discount", 0.99, "discount factor ℽ")
	f.Float64Var(&fitFlags.lambda, "lambda", 0.95, "GAE(λ) parameter λ")
	f.Float64Var(&fitFlags.lr, "lr", 0.01,
		"learning rate, overriding the configuration file")
	f.Uint64Var(&fitFlags.seed, "seed", 1, "random seed of the walk")
	f.BoolVar(&fitFlags.progress, "progress", false,
		"display a progress bar instead of logging each iteration")

	rootCmd.AddCommand(fitCmd)
	rootCmd.AddCommand(listCmd)
}
