package cmd

import (
	"github.com/spf13/cobra"

	"trackforge/server"
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Serve the HTTP query surface for the desktop shell",
	RunE: func(cmd *cobra.Command, args []string) error {
		return server.Start(cfg, newLibrary())
	},
}

func init() {
	rootCmd.AddCommand(serveCmd)
}
