package pyramid

import (
	"encoding/json"
	"fmt"
	"image"
	"io"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/disintegration/imaging"

	"gallery-pipeline/internal/atomicfile"
	"gallery-pipeline/internal/logging"
	"gallery-pipeline/internal/metrics"
)

// DescriptorFile is the addressing document written into each pyramid
// directory. Its presence marks the pyramid as complete; it is always
// written last, atomically.
const DescriptorFile = "image.json"

// Descriptor is the self-sufficient addressing document for one tile
// pyramid. A viewer needs nothing else to compute every level's
// dimensions, grid, and tile pixel regions.
//
// Levels is the number of levels; indices run 0 (coarsest, fits in one
// tile) through Levels-1 (native resolution).
type Descriptor struct {
	Format   string `json:"format"`
	TileSize int    `json:"tileSize"`
	Overlap  int    `json:"overlap"`
	Width    int    `json:"width"`
	Height   int    `json:"height"`
	Levels   int    `json:"levels"`
}

// Builder holds the tiling parameters for pyramid generation.
type Builder struct {
	TileSize int
	Overlap  int
	Format   string
	Quality  int
}

// Depth returns the finest level index L for a master of the given
// dimensions: ceil(log2(maxDim/tileSize)) + 1, clamped to 0. Only
// masters at most half a tile on their long edge get depth 0; anything
// larger keeps at least one coarser level below native resolution.
func Depth(width, height, tileSize int) int {
	maxDim := width
	if height > width {
		maxDim = height
	}
	if maxDim*2 <= tileSize {
		return 0
	}

	k := 0
	for span := tileSize; span < maxDim; span *= 2 {
		k++
	}
	return k + 1
}

// MaxLevel returns the finest (native resolution) level index.
func (d *Descriptor) MaxLevel() int {
	return d.Levels - 1
}

// LevelDims returns the pixel dimensions of a level. Each level halves
// the next finer one, rounding up, so level l measures
// ceil(master / 2^(MaxLevel-l)) on each axis.
func (d *Descriptor) LevelDims(level int) (int, int) {
	if level < 0 || level > d.MaxLevel() {
		return 0, 0
	}
	shift := uint(d.MaxLevel() - level)
	return ceilShift(d.Width, shift), ceilShift(d.Height, shift)
}

// Grid returns the number of tile columns and rows at a level.
func (d *Descriptor) Grid(level int) (cols, rows int) {
	w, h := d.LevelDims(level)
	if w == 0 || h == 0 {
		return 0, 0
	}
	return ceilDiv(w, d.TileSize), ceilDiv(h, d.TileSize)
}

// TileBounds returns the pixel region of one tile within its level,
// overlap included. Interior edges extend by Overlap pixels; edges on
// the level boundary are cropped, never padded.
func (d *Descriptor) TileBounds(level, col, row int) image.Rectangle {
	w, h := d.LevelDims(level)

	x1 := col * d.TileSize
	if col > 0 {
		x1 -= d.Overlap
	}
	y1 := row * d.TileSize
	if row > 0 {
		y1 -= d.Overlap
	}
	x2 := (col+1)*d.TileSize + d.Overlap
	if x2 > w {
		x2 = w
	}
	y2 := (row+1)*d.TileSize + d.Overlap
	if y2 > h {
		y2 = h
	}
	return image.Rect(x1, y1, x2, y2)
}

// TilePath returns the tile file path relative to the pyramid directory,
// e.g. "5/12_3.jpg".
func (d *Descriptor) TilePath(level, col, row int) string {
	return fmt.Sprintf("%d/%d_%d%s", level, col, row, extensionFor(d.Format))
}

// Build generates the complete pyramid for a decoded master into
// destDir: every level from native resolution down to the single-tile
// level 0, then the descriptor. The image is only read, never mutated.
//
// Levels are produced finest-first, each coarser level computed by
// halving the previous one with a box filter, so every pixel of the
// master contributes to every level.
func (b *Builder) Build(img image.Image, destDir string) (*Descriptor, error) {
	start := time.Now()
	desc, err := b.build(img, destDir)
	if err != nil {
		metrics.PyramidsTotal.WithLabelValues("error").Inc()
		return nil, err
	}
	metrics.PyramidsTotal.WithLabelValues("success").Inc()
	metrics.PyramidDuration.Observe(time.Since(start).Seconds())
	return desc, nil
}

func (b *Builder) build(img image.Image, destDir string) (*Descriptor, error) {
	bounds := img.Bounds()
	width, height := bounds.Dx(), bounds.Dy()
	if width <= 0 || height <= 0 {
		return nil, &TilingError{Dir: destDir, Level: -1, Err: fmt.Errorf("empty image %dx%d", width, height)}
	}

	maxLevel := Depth(width, height, b.TileSize)
	desc := &Descriptor{
		Format:   normalizeFormat(b.Format),
		TileSize: b.TileSize,
		Overlap:  b.Overlap,
		Width:    width,
		Height:   height,
		Levels:   maxLevel + 1,
	}

	if err := os.MkdirAll(destDir, 0o755); err != nil {
		return nil, &TilingError{Dir: destDir, Level: -1, Err: err}
	}

	current := img
	if bounds.Min.X != 0 || bounds.Min.Y != 0 {
		// Tile regions are computed in origin-based coordinates.
		current = imaging.Clone(img)
	}
	for level := maxLevel; level >= 0; level-- {
		if err := b.writeLevel(desc, current, destDir, level); err != nil {
			return nil, err
		}

		if level > 0 {
			nextW, nextH := desc.LevelDims(level - 1)
			current = imaging.Resize(current, nextW, nextH, imaging.Box)
		}
	}

	// The descriptor is the completion marker: written last so a crashed
	// build can never be mistaken for a finished pyramid.
	if err := writeDescriptor(filepath.Join(destDir, DescriptorFile), desc); err != nil {
		return nil, &TilingError{Dir: destDir, Level: -1, Err: err}
	}

	logging.Debug("pyramid complete: %s (%d levels, %dx%d)", destDir, desc.Levels, width, height)
	return desc, nil
}

// writeLevel crops and encodes every tile of one level. current must
// already have the level's dimensions.
func (b *Builder) writeLevel(desc *Descriptor, current image.Image, destDir string, level int) error {
	levelDir := filepath.Join(destDir, fmt.Sprintf("%d", level))
	if err := os.MkdirAll(levelDir, 0o755); err != nil {
		return &TilingError{Dir: destDir, Level: level, Err: err}
	}

	cols, rows := desc.Grid(level)
	ext := extensionFor(desc.Format)
	for row := 0; row < rows; row++ {
		for col := 0; col < cols; col++ {
			tile := imaging.Crop(current, desc.TileBounds(level, col, row))
			tilePath := filepath.Join(levelDir, fmt.Sprintf("%d_%d%s", col, row, ext))
			if err := b.encodeTile(tile, tilePath); err != nil {
				return &TilingError{Dir: destDir, Level: level, Err: fmt.Errorf("tile %d_%d: %w", col, row, err)}
			}
			metrics.TilesWrittenTotal.Inc()
		}
	}
	return nil
}

func (b *Builder) encodeTile(tile image.Image, path string) error {
	return atomicfile.Write(path, 0o644, func(w io.Writer) error {
		switch normalizeFormat(b.Format) {
		case "jpeg":
			return imaging.Encode(w, tile, imaging.JPEG, imaging.JPEGQuality(b.Quality))
		case "png":
			return imaging.Encode(w, tile, imaging.PNG)
		default:
			return fmt.Errorf("no tile encoder for format %q", b.Format)
		}
	})
}

// ReadDescriptor loads a pyramid descriptor from its directory. Absence
// of the descriptor means the pyramid is incomplete.
func ReadDescriptor(destDir string) (*Descriptor, error) {
	data, err := os.ReadFile(filepath.Join(destDir, DescriptorFile))
	if err != nil {
		return nil, err
	}
	var desc Descriptor
	if err := json.Unmarshal(data, &desc); err != nil {
		return nil, fmt.Errorf("parse descriptor: %w", err)
	}
	return &desc, nil
}

func writeDescriptor(path string, desc *Descriptor) error {
	data, err := json.MarshalIndent(desc, "", "  ")
	if err != nil {
		return err
	}
	data = append(data, '\n')
	return atomicfile.WriteFile(path, data, 0o644)
}

// ceilShift returns ceil(v / 2^shift).
func ceilShift(v int, shift uint) int {
	step := 1 << shift
	return (v + step - 1) >> shift
}

func ceilDiv(a, b int) int {
	return (a + b - 1) / b
}

func extensionFor(format string) string {
	if normalizeFormat(format) == "png" {
		return ".png"
	}
	return ".jpg"
}

func normalizeFormat(format string) string {
	format = strings.ToLower(format)
	if format == "jpg" {
		return "jpeg"
	}
	return format
}
