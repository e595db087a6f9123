package pyramid

import (
	"errors"
	"fmt"
)

// ErrTiling marks a pyramid build that failed. The image is excluded
// from the manifest; other images are unaffected.
var ErrTiling = errors.New("pyramid: tiling failed")

// TilingError reports a failure while building a tile pyramid. Level is
// the pyramid level being generated, or -1 when the failure was not
// level-specific (directory creation, descriptor write).
type TilingError struct {
	Dir   string
	Level int
	Err   error
}

func (e *TilingError) Error() string {
	if e.Level < 0 {
		return fmt.Sprintf("pyramid: %s: %v", e.Dir, e.Err)
	}
	return fmt.Sprintf("pyramid: %s level %d: %v", e.Dir, e.Level, e.Err)
}

func (e *TilingError) Unwrap() error {
	return ErrTiling
}
