package main

import (
	"io"

	"github.com/samuelfneumann/godagger/dagger"
	"github.com/samuelfneumann/godagger/environment"
	"github.com/samuelfneumann/godagger/environment/envconfig"
	"github.com/samuelfneumann/godagger/experiment/trackers"
	"github.com/samuelfneumann/godagger/expert"
	"github.com/spf13/cobra"
	"gonum.org/v1/gonum/stat"
	"k8s.io/klog/v2"
)

// CollectCommand returns the command which gathers an initial dataset
// from rollouts of the expert
func CollectCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "collect expert_policy_file environment_name out_file",
		Short: "Collect (observation, action) pairs from the expert",
		Args:  cobra.ExactArgs(3),
		RunE: func(cmd *cobra.Command, args []string) error {
			return collect(args[0], args[1], args[2])
		},
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	addRolloutFlags(cmd.Flags())
	return cmd
}

func collect(expertFile, envName, outFile string) error {
	oracle, err := expert.Load(expertFile)
	if err != nil {
		return err
	}
	if c, ok := oracle.(io.Closer); ok {
		defer c.Close()
	}

	envConfig := envconfig.FromName(envName)
	defer envConfig.Release()

	e, _, err := envConfig.Create(seed)
	if err != nil {
		return err
	}
	if c, ok := e.(environment.Closer); ok {
		defer c.Close()
	}

	var t []trackers.Tracker
	if returnsFile != "" {
		t = append(t, trackers.NewReturn(returnsFile))
	}
	data, returns, err := dagger.Collect(oracle, e, numRollouts,
		maxTimesteps, render, t...)
	if err != nil {
		return err
	}

	mean, std := stat.PopMeanStdDev(returns, nil)
	klog.Infof("expert mean return %.4f std %.4f", mean, std)

	if err := data.Save(outFile); err != nil {
		return err
	}
	klog.Infof("saved %d samples to %v", data.Len(), outFile)
	return nil
}
