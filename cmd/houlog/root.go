package main

import (
	"log/slog"

	"github.com/spf13/cobra"
	"github.com/viant/houlog/internal/logging"
)

func newRootCmd() *cobra.Command {
	rootCmd := &cobra.Command{
		Use:          "houlog",
		Short:        "Debug geometry recorder tools",
		Long:         "houlog runs a live geometry host, inspects recorded container files and records demo scenes.",
		SilenceUsage: true,
	}
	rootCmd.PersistentFlags().String("log-level", "info", "Log level: debug|info|warn|error")
	rootCmd.AddCommand(newServeCmd(), newInspectCmd(), newDemoCmd())
	return rootCmd
}

func commandLogger(cmd *cobra.Command) (*slog.Logger, error) {
	value, _ := cmd.Flags().GetString("log-level")
	level, err := logging.ParseLevel(value)
	if err != nil {
		return nil, err
	}
	return logging.New(cmd.ErrOrStderr(), level), nil
}
