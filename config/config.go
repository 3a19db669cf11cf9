package config

import (
	"log"
	"os"
	"path/filepath"
	"strconv"

	"github.com/joho/godotenv"
)

// Version is the tool version recorded on every analyzed track record, so
// stale analysis can be detected after upgrades.
const Version = "1.0.0"

// Config stores the application configuration.
type Config struct {
	LibraryDir string // directory holding canonical WAVs and metadata records
	InboxDir   string // watched directory for auto-import
	FFmpegPath string

	HTTPPort int

	LogLevel      string
	LogPath       string
	LogMaxSizeMB  int
	LogMaxBackups int
	LogMaxAgeDays int
}

// getEnv gets an environment variable or returns a default value.
func getEnv(key, fallback string) string {
	if value, exists := os.LookupEnv(key); exists {
		return value
	}
	return fallback
}

// getEnvInt gets an environment variable as int or returns a default value.
func getEnvInt(key string, fallback int) int {
	if value, exists := os.LookupEnv(key); exists {
		if intVal, err := strconv.Atoi(value); err == nil {
			return intVal
		}
	}
	return fallback
}

// Load loads configuration from environment variables (via .env file) or defaults.
func Load() *Config {
	// godotenv.Load will not override variables already set in the environment.
	if err := godotenv.Load(); err != nil {
		log.Println("No .env file found, relying on environment variables and defaults.")
	}

	libraryDir := getEnv("TRACKFORGE_LIBRARY_DIR", "tracks")

	return &Config{
		LibraryDir: libraryDir,
		InboxDir:   getEnv("TRACKFORGE_INBOX_DIR", filepath.Join(libraryDir, "inbox")),
		FFmpegPath: getEnv("FFMPEG_PATH", "ffmpeg"),

		HTTPPort: getEnvInt("TRACKFORGE_HTTP_PORT", 8080),

		LogLevel:      getEnv("TRACKFORGE_LOG_LEVEL", "info"),
		LogPath:       getEnv("TRACKFORGE_LOG_PATH", ""),
		LogMaxSizeMB:  getEnvInt("TRACKFORGE_LOG_MAX_SIZE_MB", 50),
		LogMaxBackups: getEnvInt("TRACKFORGE_LOG_MAX_BACKUPS", 3),
		LogMaxAgeDays: getEnvInt("TRACKFORGE_LOG_MAX_AGE_DAYS", 28),
	}
}
