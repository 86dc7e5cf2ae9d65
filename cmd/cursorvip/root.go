package main

import (
	"github.com/spf13/cobra"
)

func newRootCommand() *cobra.Command {
	var configDirFlag string
	var logLevelFlag string
	var logFormatFlag string
	var logFileFlag string

	ctx := newCommandContext(&configDirFlag, &logLevelFlag, &logFormatFlag, &logFileFlag)

	rootCmd := &cobra.Command{
		Use:           "cursorvip",
		Short:         "cursor-free-vip configuration tool",
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return cmd.Help()
		},
	}

	flags := rootCmd.PersistentFlags()
	flags.StringVar(&configDirFlag, "config-dir", "", "Use this config directory instead of the fallback chain")
	flags.StringVar(&logLevelFlag, "log-level", "info", "Log level (debug, info, warn, error)")
	flags.StringVar(&logFormatFlag, "log-format", "console", "Log format (console, json)")
	flags.StringVar(&logFileFlag, "log-file", "", "Also append logs to this file")

	rootCmd.AddCommand(newConfigCommand(ctx))

	return rootCmd
}
