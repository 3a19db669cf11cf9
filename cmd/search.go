package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"trackforge/model"
)

var searchCmd = &cobra.Command{
	Use:   "search <term>",
	Short: "Free-text search over title, artist, album and genre",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		lib := newLibrary()
		tracks, err := lib.SearchTracks(model.SearchCriteria{Search: args[0]})
		if err != nil {
			return err
		}
		if len(tracks) == 0 {
			fmt.Println("No tracks found.")
			return nil
		}
		for _, t := range tracks {
			fmt.Printf("%s  %.1f BPM  %s  %s - %s\n", t.ID, t.BPM, t.Key, t.Artist, t.Title)
		}
		return nil
	},
}

func init() {
	rootCmd.AddCommand(searchCmd)
}
