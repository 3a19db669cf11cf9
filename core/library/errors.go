package library

import (
	"errors"
	"fmt"
)

var (
	// ErrUnsupportedFormat is returned when importing anything that is not
	// an MP3 or WAV file.
	ErrUnsupportedFormat = errors.New("unsupported audio format: only MP3 and WAV are supported")

	// ErrNotFound is returned when a track id has no record in the library.
	ErrNotFound = errors.New("track not found")
)

// DecodeError wraps a failure of the external decode collaborator.
type DecodeError struct {
	Path string
	Err  error
}

func (e *DecodeError) Error() string {
	return fmt.Sprintf("failed to decode %s: %v", e.Path, e.Err)
}

func (e *DecodeError) Unwrap() error { return e.Err }

// ConvertError wraps a failure of the external encode/convert collaborator.
type ConvertError struct {
	Path string
	Err  error
}

func (e *ConvertError) Error() string {
	return fmt.Sprintf("failed to convert %s: %v", e.Path, e.Err)
}

func (e *ConvertError) Unwrap() error { return e.Err }

// PartialDeleteError reports a delete that removed one of the track's two
// files but not the other. The successful removal is not rolled back; the
// library is left with a dangling asset or record that a later delete or
// rescan can clean up.
type PartialDeleteError struct {
	TrackID       string
	AssetRemoved  bool
	RecordRemoved bool
	Err           error
}

func (e *PartialDeleteError) Error() string {
	remaining := "audio asset"
	if e.AssetRemoved {
		remaining = "metadata record"
	}
	return fmt.Sprintf("partial delete of track %s: %s still present: %v", e.TrackID, remaining, e.Err)
}

func (e *PartialDeleteError) Unwrap() error { return e.Err }
