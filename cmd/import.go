package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"trackforge/model"
)

var (
	importTitle  string
	importArtist string
	importAlbum  string
	importGenre  string
)

var importCmd = &cobra.Command{
	Use:   "import <file>",
	Short: "Import an MP3 or WAV file into the library and analyze it",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		lib := newLibrary()

		var tags *model.MusicTags
		if importTitle != "" || importArtist != "" || importAlbum != "" || importGenre != "" {
			tags = &model.MusicTags{
				Title:  importTitle,
				Artist: importArtist,
				Album:  importAlbum,
				Genre:  importGenre,
			}
		}

		track, err := lib.ImportTrack(cmd.Context(), args[0], tags)
		if err != nil {
			return err
		}

		fmt.Printf("Imported %s\n", track.ID)
		fmt.Printf("  Title:    %s - %s\n", track.Artist, track.Title)
		fmt.Printf("  Duration: %.1fs\n", track.Duration)
		fmt.Printf("  BPM:      %.1f\n", track.BPM)
		fmt.Printf("  Key:      %s\n", track.Key)
		fmt.Printf("  Parts:    %d\n", len(track.Structure.Parts))
		fmt.Printf("  Loops:    %d\n", len(track.Loops))
		return nil
	},
}

func init() {
	importCmd.Flags().StringVar(&importTitle, "title", "", "override track title")
	importCmd.Flags().StringVar(&importArtist, "artist", "", "override track artist")
	importCmd.Flags().StringVar(&importAlbum, "album", "", "override track album")
	importCmd.Flags().StringVar(&importGenre, "genre", "", "override track genre")
	rootCmd.AddCommand(importCmd)
}
