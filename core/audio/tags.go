package audio

import (
	"os"
	"path/filepath"
	"strings"

	"github.com/dhowden/tag"

	"trackforge/model"
)

// FileTagReader reads ID3/RIFF tags from audio containers.
type FileTagReader struct{}

// NewFileTagReader creates a new FileTagReader.
func NewFileTagReader() *FileTagReader {
	return &FileTagReader{}
}

// ReadTags extracts music tags best-effort. Every field is always
// populated: missing tags fall back to the filename (title) or an
// "Unknown" placeholder.
func (r *FileTagReader) ReadTags(path string) model.MusicTags {
	base := strings.TrimSuffix(filepath.Base(path), filepath.Ext(path))
	tags := model.MusicTags{
		Title:  base,
		Artist: "Unknown Artist",
		Album:  "Unknown Album",
		Genre:  "Unknown Genre",
	}

	f, err := os.Open(path)
	if err != nil {
		return tags
	}
	defer f.Close()

	meta, err := tag.ReadFrom(f)
	if err != nil {
		return tags
	}

	if t := strings.TrimSpace(meta.Title()); t != "" {
		tags.Title = t
	}
	if a := strings.TrimSpace(meta.Artist()); a != "" {
		tags.Artist = a
	} else if a := strings.TrimSpace(meta.AlbumArtist()); a != "" {
		tags.Artist = a
	}
	if a := strings.TrimSpace(meta.Album()); a != "" {
		tags.Album = a
	}
	if g := strings.TrimSpace(meta.Genre()); g != "" {
		tags.Genre = g
	}
	return tags
}
