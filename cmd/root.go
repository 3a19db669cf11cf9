package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"trackforge/config"
	"trackforge/core/analysis"
	"trackforge/core/audio"
	"trackforge/core/library"
	"trackforge/logger"
	"trackforge/repository"
)

var cfg *config.Config

var rootCmd = &cobra.Command{
	Use:   "trackforge",
	Short: "trackforge manages a personal library of analyzed music tracks.",
	Long: `trackforge imports MP3/WAV audio into a local library, analyzes each
track (BPM, key, beatgrid, song structure, loop candidates) and stores one
JSON metadata record per track. Records can be listed, searched, rescanned
and served to the desktop shell over HTTP.`,
	PersistentPreRun: func(cmd *cobra.Command, args []string) {
		cfg = config.Load()
		logger.Init(logger.Config{
			Level:      logger.LogLevel(cfg.LogLevel),
			OutputPath: cfg.LogPath,
			MaxSize:    cfg.LogMaxSizeMB,
			MaxBackups: cfg.LogMaxBackups,
			MaxAge:     cfg.LogMaxAgeDays,
			Compress:   true,
		})
	},
}

// Execute runs the root command.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

// newLibrary is the composition root shared by all subcommands.
func newLibrary() *library.Library {
	repo := repository.NewJSONTrackRepository(cfg.LibraryDir)
	processor := audio.NewFFmpegProcessor(cfg.FFmpegPath)
	tags := audio.NewFileTagReader()
	engine := analysis.NewDSPEngine(analysis.DefaultConfig())
	return library.New(cfg.LibraryDir, config.Version, repo, processor, tags, engine)
}
