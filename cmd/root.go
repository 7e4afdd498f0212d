// Package cmd wires the graphlens CLI: a render command for one-shot file
// output and a serve command for the HTTP server.
package cmd

import (
	"github.com/spf13/cobra"

	"github.com/TFMV/graphlens/config"
	"github.com/TFMV/graphlens/logger"
)

var (
	configFile string
	debug      bool
	jsonLogs   bool

	settings config.Settings
)

var rootCmd = &cobra.Command{
	Use:   "graphlens",
	Short: "Graph visualization engine with spatial indexing and camera projection",
	Long: `graphlens loads a graph, lays it out, indexes it spatially, and projects
it through a camera to SVG or JSON output, either as a one-shot render or
behind an HTTP server with hit-testing.`,
	SilenceUsage:  true,
	SilenceErrors: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		if err := logger.Initialize(jsonLogs, debug); err != nil {
			return err
		}
		settings = config.Default()
		if configFile != "" {
			overrides, err := config.LoadFile(configFile)
			if err != nil {
				return err
			}
			settings = config.Resolve(settings, overrides)
		}
		return nil
	},
}

// Execute runs the CLI.
func Execute() error {
	return rootCmd.Execute()
}

func init() {
	rootCmd.PersistentFlags().StringVar(&configFile, "config", "", "path to TOML settings file")
	rootCmd.PersistentFlags().BoolVar(&debug, "debug", false, "enable debug logging")
	rootCmd.PersistentFlags().BoolVar(&jsonLogs, "json-logs", false, "emit logs as JSON")
}
