package raster

import (
	"errors"
	"image"
	"io"
	"math"
	"strings"
	"time"

	"github.com/disintegration/imaging"

	"gallery-pipeline/internal/atomicfile"
	"gallery-pipeline/internal/logging"
	"gallery-pipeline/internal/mediatypes"
	"gallery-pipeline/internal/metrics"
)

// Variant describes one derived raster output: the target long edge in
// pixels, the encoder format, and its quality setting.
type Variant struct {
	Name     string
	LongEdge int
	Format   string
	Quality  int
}

// Derived describes one finished raster on disk.
type Derived struct {
	Variant string
	Path    string
	Width   int
	Height  int
	Format  string
}

// Source describes the master a variant is derived from. Img is an
// optional pre-decoded copy: the libvips path never needs it, and the
// pure-Go path decodes Path itself when Img is nil. A non-nil Img must
// not be mutated; it may be shared across concurrent derivations.
type Source struct {
	Path   string
	Img    image.Image
	Width  int
	Height int
}

// FitLongEdge returns the output dimensions for scaling width x height
// so the long edge equals longEdge, preserving aspect ratio. The short
// edge rounds to the nearest pixel. Images at or below the target size
// keep their native dimensions; nothing is ever upscaled.
func FitLongEdge(width, height, longEdge int) (int, int) {
	if width <= 0 || height <= 0 || longEdge <= 0 {
		return width, height
	}

	long := width
	if height > width {
		long = height
	}
	if long <= longEdge {
		return width, height
	}

	scale := float64(longEdge) / float64(long)
	if width >= height {
		h := int(math.Round(float64(height) * scale))
		if h < 1 {
			h = 1
		}
		return longEdge, h
	}
	w := int(math.Round(float64(width) * scale))
	if w < 1 {
		w = 1
	}
	return w, longEdge
}

// Derive produces one variant raster and writes it to outPath atomically.
// It prefers the libvips path (decode-time shrinking, all formats) and
// falls back to pure-Go resizing, which cannot encode webp. A failure
// returns a *ResizeError and leaves no partial output behind.
func Derive(src Source, v Variant, outPath string) (*Derived, error) {
	start := time.Now()
	d, err := derive(src, v, outPath)
	if err != nil {
		metrics.VariantsTotal.WithLabelValues(v.Name, "error").Inc()
		return nil, err
	}
	metrics.VariantsTotal.WithLabelValues(v.Name, "success").Inc()
	metrics.VariantDuration.WithLabelValues(v.Name).Observe(time.Since(start).Seconds())
	return d, nil
}

func derive(src Source, v Variant, outPath string) (*Derived, error) {
	format := normalizeFormat(v.Format)
	if _, ok := mediatypes.FormatExtension(format); !ok {
		return nil, &ResizeError{Variant: v.Name, Path: src.Path, Err: errors.New("unsupported format " + v.Format)}
	}

	width, height := FitLongEdge(src.Width, src.Height, v.LongEdge)

	if IsVipsAvailable() {
		err := deriveWithVips(src.Path, outPath, width, height, format, v.Quality)
		if err == nil {
			logging.Debug("derived %s (%dx%d %s) via vips: %s", v.Name, width, height, format, outPath)
			return &Derived{Variant: v.Name, Path: outPath, Width: width, Height: height, Format: format}, nil
		}
		logging.Debug("vips derivation of %s failed for %s: %v, falling back", v.Name, src.Path, err)
	}

	if format == "webp" {
		return nil, &ResizeError{Variant: v.Name, Path: src.Path, Err: errors.New("webp encoding requires libvips")}
	}

	img := src.Img
	if img == nil {
		var err error
		img, err = imaging.Open(src.Path, imaging.AutoOrientation(true))
		if err != nil {
			return nil, &ResizeError{Variant: v.Name, Path: src.Path, Err: err}
		}
	}

	resized := imaging.Resize(img, width, height, imaging.Lanczos)
	if err := encodeToFile(resized, outPath, format, v.Quality); err != nil {
		return nil, &ResizeError{Variant: v.Name, Path: src.Path, Err: err}
	}

	logging.Debug("derived %s (%dx%d %s): %s", v.Name, width, height, format, outPath)
	return &Derived{Variant: v.Name, Path: outPath, Width: width, Height: height, Format: format}, nil
}

// encodeToFile writes img to outPath in the given format. The temp-file
// rename in atomicfile keeps a crashed run from leaving partial rasters.
func encodeToFile(img image.Image, outPath, format string, quality int) error {
	return atomicfile.Write(outPath, 0o644, func(w io.Writer) error {
		switch format {
		case "jpeg":
			return imaging.Encode(w, img, imaging.JPEG, imaging.JPEGQuality(quality))
		case "png":
			return imaging.Encode(w, img, imaging.PNG)
		default:
			return errors.New("no encoder for format " + format)
		}
	})
}

// normalizeFormat folds the "jpg" alias into "jpeg".
func normalizeFormat(format string) string {
	format = strings.ToLower(format)
	if format == "jpg" {
		return "jpeg"
	}
	return format
}
