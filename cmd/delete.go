package cmd

import (
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"trackforge/core/library"
)

var deleteCmd = &cobra.Command{
	Use:   "delete <id>",
	Short: "Remove a track's audio file and metadata record",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		lib := newLibrary()
		err := lib.DeleteTrack(args[0])
		var partial *library.PartialDeleteError
		if errors.As(err, &partial) {
			fmt.Printf("Warning: %v\n", partial)
			return nil
		}
		if err != nil {
			return err
		}
		fmt.Printf("Deleted %s\n", args[0])
		return nil
	},
}

func init() {
	rootCmd.AddCommand(deleteCmd)
}
