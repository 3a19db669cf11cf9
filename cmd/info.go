package cmd

import (
	"fmt"

	"github.com/spf13/cobra"
)

var infoCmd = &cobra.Command{
	Use:   "info <id>",
	Short: "Show one track's analysis in detail",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		lib := newLibrary()
		track, err := lib.GetTrackByID(args[0])
		if err != nil {
			return err
		}

		fmt.Printf("%s - %s\n", track.Artist, track.Title)
		fmt.Printf("  ID:       %s\n", track.ID)
		fmt.Printf("  File:     %s\n", track.WavPath)
		fmt.Printf("  Duration: %s (%.1fs)\n", formatDuration(track.Duration), track.Duration)
		fmt.Printf("  Format:   %d Hz / %d-bit / %d ch\n", track.SampleRate, track.BitDepth, track.Channels)
		fmt.Printf("  BPM:      %.1f\n", track.BPM)
		fmt.Printf("  Key:      %s\n", track.Key)
		fmt.Printf("  Album:    %s (%s)\n", track.Album, track.Genre)
		fmt.Printf("  Analyzed: %s (v%s)\n", track.UpdatedAt.Format("2006-01-02 15:04:05"), track.Version)

		if len(track.Structure.Parts) > 0 {
			fmt.Printf("\nStructure (%d parts):\n", len(track.Structure.Parts))
			for _, p := range track.Structure.Parts {
				fmt.Printf("  %2d. %-10s %7s - %-7s conf %.2f  %s\n",
					p.Number, p.Type, formatDuration(p.Start), formatDuration(p.End), p.Confidence, p.Description)
			}
		}

		if len(track.Loops) > 0 {
			fmt.Printf("\nLoops (%d):\n", len(track.Loops))
			for _, l := range track.Loops {
				fmt.Printf("  %-28s %7s - %-7s conf %.2f  %s\n",
					l.Name, formatDuration(l.Start), formatDuration(l.End), l.Confidence, l.Description)
			}
		}
		return nil
	},
}

func init() {
	rootCmd.AddCommand(infoCmd)
}
