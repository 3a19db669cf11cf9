package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"trackforge/config"
)

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print the trackforge version",
	Run: func(cmd *cobra.Command, args []string) {
		fmt.Printf("trackforge %s\n", config.Version)
	},
}

func init() {
	rootCmd.AddCommand(versionCmd)
}
