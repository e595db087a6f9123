package gallery

import (
	"errors"
	"fmt"
	"strings"
)

// ErrIncompleteRecord matches any record excluded from the manifest
// because required artifact paths are missing.
var ErrIncompleteRecord = errors.New("incomplete gallery record")

// IncompleteRecordError reports a record that cannot be published. The
// record is excluded from the manifest; assembly continues without it.
type IncompleteRecordError struct {
	ID      string
	Title   string
	Missing []string
}

func (e *IncompleteRecordError) Error() string {
	return fmt.Sprintf("incomplete record %s (%s): missing %s", e.ID, e.Title, strings.Join(e.Missing, ", "))
}

func (e *IncompleteRecordError) Unwrap() error {
	return ErrIncompleteRecord
}
