package cmd

import (
	"flag"

	"github.com/spf13/cobra"

	"github.com/miberk/balda/config"
)

// RootCmd builds the balda command tree. glog flags (-v, -logtostderr,
// ...) are accepted by every subcommand.
func RootCmd() *cobra.Command {
	var configPath string

	cmd := &cobra.Command{
		Use:           "balda",
		Short:         "Topic modeling with collapsed gibbs sampling",
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			// glog refuses to log before the go flag set is parsed
			return flag.CommandLine.Parse(nil)
		},
	}
	cmd.PersistentFlags().StringVar(&configPath, "config", "", "TOML config file")
	cmd.PersistentFlags().AddGoFlagSet(flag.CommandLine)

	loadConfig := func() (*config.Config, error) {
		return config.Load(configPath)
	}
	cmd.AddCommand(
		TrainCmd(loadConfig),
		InferCmd(loadConfig),
		TopicsCmd(loadConfig),
	)
	return cmd
}

type configLoader func() (*config.Config, error)
