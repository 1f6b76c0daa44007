// Command godagger trains a policy to imitate an expert with DAgger.
//
// Usage:
//
//	godagger expert_policy_file environment_name data_file [flags]
//	godagger collect expert_policy_file environment_name out_file [flags]
//
// The data file holds the initial (observation, expert action) pairs,
// which can be gathered from the expert with the collect command.
package main

import (
	"flag"
	"io"
	"os"
	"path/filepath"

	"github.com/samuelfneumann/godagger/dagger"
	"github.com/samuelfneumann/godagger/dataset"
	"github.com/samuelfneumann/godagger/environment/envconfig"
	"github.com/samuelfneumann/godagger/experiment/checkpointer"
	"github.com/samuelfneumann/godagger/experiment/report"
	"github.com/samuelfneumann/godagger/expert"
	"github.com/samuelfneumann/godagger/regression"
	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
	"k8s.io/klog/v2"
)

var (
	render       bool
	numRollouts  int
	maxTimesteps int
	seed         uint64
)

var (
	rounds             int
	epochs             int
	batchSize          int
	modelDir           string
	checkpointPerRound bool
	loss               string
	device             string
	plotFile           string
	chartFile          string
	returnsFile        string
	progress           bool
	color              bool
)

func main() {
	klog.InitFlags(nil)
	pflag.CommandLine.AddGoFlagSet(flag.CommandLine)

	root := RootCommand()
	root.PersistentFlags().AddFlagSet(pflag.CommandLine)
	root.AddCommand(CollectCommand())

	if err := root.Execute(); err != nil {
		klog.Error(err)
		klog.Flush()
		os.Exit(1)
	}
	klog.Flush()
}

// RootCommand returns the command which runs DAgger
func RootCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "godagger expert_policy_file environment_name data_file",
		Short: "Train a policy to imitate an expert with DAgger",
		Args:  cobra.ExactArgs(3),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runDAgger(args[0], args[1], args[2])
		},
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	addRolloutFlags(cmd.Flags())
	flags := cmd.Flags()
	flags.IntVar(&rounds, "rounds", 5, "number of DAgger rounds")
	flags.IntVar(&epochs, "epochs", 2, "training epochs per round")
	flags.IntVar(&batchSize, "batch_size", 64, "training batch size")
	flags.StringVar(&modelDir, "model_dir", "models", "directory to "+
		"save model checkpoints to")
	flags.BoolVar(&checkpointPerRound, "checkpoint_per_round", false,
		"keep one checkpoint per round instead of overwriting a single one")
	flags.StringVar(&loss, "loss", string(regression.MSE), "regression "+
		"loss, one of mse or msle")
	flags.StringVar(&device, "device", regression.CPU, "device to train on")
	flags.StringVar(&plotFile, "plot", "", "save a plot of the returns "+
		"of each round to this file")
	flags.StringVar(&chartFile, "chart", "", "save an HTML chart of the "+
		"returns of each round to this file")
	flags.BoolVar(&progress, "progress", false, "display a progress bar "+
		"over the rollouts of each round")
	flags.BoolVar(&color, "color", true, "color the summary")

	return cmd
}

func addRolloutFlags(flags *pflag.FlagSet) {
	flags.BoolVar(&render, "render", false, "render the environment")
	flags.StringVar(&returnsFile, "returns_file", "", "save the returns "+
		"of all rollouts to this file")
	flags.IntVar(&numRollouts, "num_rollouts", 20, "number of rollouts "+
		"per round")
	flags.IntVar(&maxTimesteps, "max_timesteps", 0, "maximum steps per "+
		"rollout, defaults to the environment's step limit")
	flags.Uint64Var(&seed, "seed", 0, "random seed")
}

func runDAgger(expertFile, envName, dataFile string) error {
	envConfig := envconfig.FromName(envName)
	defer envConfig.Release()

	data, err := dataset.Load(dataFile)
	if err != nil {
		return err
	}
	klog.Infof("loaded %d samples from %v", data.Len(), dataFile)

	oracle, err := expert.Load(expertFile)
	if err != nil {
		return err
	}
	if c, ok := oracle.(io.Closer); ok {
		defer c.Close()
	}

	c := regression.DefaultConfig()
	c.Loss = regression.LossType(loss)
	c.Device = device
	c.Seed = seed
	model, err := regression.New(data.ObservationDim(), data.ActionDim(), c)
	if err != nil {
		return err
	}

	task := filepath.Base(envName)
	var cp checkpointer.Checkpointer
	if checkpointPerRound {
		cp, err = checkpointer.NewEnumerated(modelDir, task)
	} else {
		cp, err = checkpointer.NewSlot(modelDir, task)
	}
	if err != nil {
		return err
	}

	config := dagger.DefaultConfig()
	config.Rounds = rounds
	config.Rollouts = numRollouts
	config.MaxSteps = maxTimesteps
	config.Epochs = epochs
	config.BatchSize = batchSize
	config.Seed = seed
	config.Render = render
	config.Progress = progress
	config.ReturnsFile = returnsFile

	d, err := dagger.New(config, data, model, oracle,
		envConfig.Factory(seed), cp)
	if err != nil {
		model.Close()
		return err
	}
	d.SetLoader(dagger.LoadRegression)
	defer func() {
		if c, ok := d.Model().(io.Closer); ok {
			c.Close()
		}
	}()

	stats, runErr := d.Run()
	if err := report.Summary(os.Stdout, stats, color); err != nil {
		return err
	}
	if runErr != nil {
		return runErr
	}

	return saveResults(envName, stats)
}

func saveResults(envName string, stats []dagger.RoundStats) error {
	if plotFile != "" {
		if err := report.Plot(plotFile, envName, stats); err != nil {
			return err
		}
	}
	if chartFile != "" {
		if err := report.Chart(chartFile, envName, stats); err != nil {
			return err
		}
	}
	return nil
}
