package cmd

import (
	"encoding/json"
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"trackforge/model"
)

var (
	listBPM      string
	listKey      string
	listDuration string
	listLoops    bool
	listArtist   string
	listSearch   string
	listJSON     bool
)

var listCmd = &cobra.Command{
	Use:   "list",
	Short: "List tracks in the library, optionally filtered",
	RunE: func(cmd *cobra.Command, args []string) error {
		lib := newLibrary()

		criteria := model.SearchCriteria{
			Key:      listKey,
			HasLoops: listLoops,
			Artist:   listArtist,
			Search:   listSearch,
		}
		var err error
		if criteria.BPM, err = parseRangeFlag(listBPM); err != nil {
			return fmt.Errorf("invalid --bpm: %w", err)
		}
		if criteria.Duration, err = parseRangeFlag(listDuration); err != nil {
			return fmt.Errorf("invalid --duration: %w", err)
		}

		tracks, err := lib.SearchTracks(criteria)
		if err != nil {
			return err
		}

		if listJSON {
			enc := json.NewEncoder(os.Stdout)
			enc.SetIndent("", "  ")
			return enc.Encode(tracks)
		}

		if len(tracks) == 0 {
			fmt.Println("No tracks found.")
			return nil
		}
		fmt.Printf("%-40s %-6s %-4s %-8s %-5s %s\n", "ID", "BPM", "KEY", "TIME", "LOOPS", "TITLE")
		for _, t := range tracks {
			fmt.Printf("%-40s %-6.1f %-4s %-8s %-5d %s - %s\n",
				t.ID, t.BPM, t.Key, formatDuration(t.Duration), len(t.Loops), t.Artist, t.Title)
		}
		return nil
	},
}

// parseRangeFlag parses "min-max", "min-" or "-max" into a range filter.
func parseRangeFlag(value string) (*model.RangeFilter, error) {
	if value == "" {
		return nil, nil
	}
	parts := strings.SplitN(value, "-", 2)
	if len(parts) != 2 {
		return nil, fmt.Errorf("expected min-max, got %q", value)
	}
	r := &model.RangeFilter{}
	if parts[0] != "" {
		if _, err := fmt.Sscanf(parts[0], "%f", &r.Min); err != nil {
			return nil, err
		}
	}
	if parts[1] != "" {
		if _, err := fmt.Sscanf(parts[1], "%f", &r.Max); err != nil {
			return nil, err
		}
	}
	return r, nil
}

func formatDuration(seconds float64) string {
	total := int(seconds)
	return fmt.Sprintf("%d:%02d", total/60, total%60)
}

func init() {
	listCmd.Flags().StringVar(&listBPM, "bpm", "", "BPM range, e.g. 120-130 or 120-")
	listCmd.Flags().StringVar(&listKey, "key", "", "exact key, e.g. Am")
	listCmd.Flags().StringVar(&listDuration, "duration", "", "duration range in seconds, e.g. 180-300")
	listCmd.Flags().BoolVar(&listLoops, "loops", false, "only tracks with loop candidates")
	listCmd.Flags().StringVar(&listArtist, "artist", "", "artist substring match")
	listCmd.Flags().StringVar(&listSearch, "search", "", "free-text search over title/artist/album/genre")
	listCmd.Flags().BoolVar(&listJSON, "json", false, "output JSON")
	rootCmd.AddCommand(listCmd)
}
