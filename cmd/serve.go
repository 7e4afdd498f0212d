package cmd

import (
	"github.com/spf13/cobra"

	"github.com/TFMV/graphlens/server"
)

var servePort int

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Run the HTTP visualization server",
	RunE: func(cmd *cobra.Command, args []string) error {
		return server.Start(servePort, settings)
	},
}

func init() {
	serveCmd.Flags().IntVarP(&servePort, "port", "p", 8080, "port to listen on")
	rootCmd.AddCommand(serveCmd)
}
