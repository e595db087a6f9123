package raster

import (
	"errors"
	"fmt"
)

// ErrResize marks a variant derivation that failed. One failed variant
// never aborts the others; the pipeline collects these per image.
var ErrResize = errors.New("raster: resize failed")

// ResizeError reports which variant of which master failed, and why.
type ResizeError struct {
	Variant string
	Path    string
	Err     error
}

func (e *ResizeError) Error() string {
	return fmt.Sprintf("raster: variant %s for %s: %v", e.Variant, e.Path, e.Err)
}

func (e *ResizeError) Unwrap() error {
	return ErrResize
}
