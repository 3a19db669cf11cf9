package cmd

import (
	"fmt"

	"github.com/spf13/cobra"
)

var rescanAll bool

var rescanCmd = &cobra.Command{
	Use:   "rescan [id]",
	Short: "Re-run analysis for one track, or every track with --all",
	Args:  cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		lib := newLibrary()

		if rescanAll {
			count, err := lib.RescanAll(cmd.Context())
			if err != nil {
				return err
			}
			fmt.Printf("Rescanned %d tracks.\n", count)
			return nil
		}

		if len(args) != 1 {
			return fmt.Errorf("provide a track id or --all")
		}
		track, err := lib.Rescan(cmd.Context(), args[0])
		if err != nil {
			return err
		}
		fmt.Printf("Rescanned %s: %.1f BPM, %s, %d parts, %d loops\n",
			track.ID, track.BPM, track.Key, len(track.Structure.Parts), len(track.Loops))
		return nil
	},
}

func init() {
	rescanCmd.Flags().BoolVar(&rescanAll, "all", false, "rescan every track in the library")
	rootCmd.AddCommand(rescanCmd)
}
