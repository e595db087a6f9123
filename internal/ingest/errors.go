package ingest

import (
	"errors"
	"fmt"
)

var (
	// ErrUnreadableImage marks masters whose container cannot be decoded.
	ErrUnreadableImage = errors.New("ingest: unreadable image")

	// ErrMissingDimensions marks masters that decode but report no pixel dimensions.
	ErrMissingDimensions = errors.New("ingest: missing dimensions")
)

// UnreadableImageError reports a master that could not be decoded at all:
// a corrupt file, a truncated header, or bytes that are not an image.
type UnreadableImageError struct {
	Path string
	Err  error
}

func (e *UnreadableImageError) Error() string {
	return fmt.Sprintf("ingest: unreadable image %s: %v", e.Path, e.Err)
}

func (e *UnreadableImageError) Unwrap() error {
	return ErrUnreadableImage
}

// MissingDimensionsError reports a master whose container decoded but
// carried zero or absent pixel dimensions.
type MissingDimensionsError struct {
	Path string
}

func (e *MissingDimensionsError) Error() string {
	return fmt.Sprintf("ingest: missing dimensions for %s", e.Path)
}

func (e *MissingDimensionsError) Unwrap() error {
	return ErrMissingDimensions
}
