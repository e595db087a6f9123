package ingest

import (
	"crypto/md5"
	"encoding/hex"
	"errors"
	"image"
	"path"
	"path/filepath"
	"strings"
	"time"

	"gallery-pipeline/internal/filesystem"
	"gallery-pipeline/internal/logging"
	"gallery-pipeline/internal/mediatypes"
	"gallery-pipeline/internal/metrics"

	// Master format decoders
	_ "image/jpeg"
	_ "image/png"

	_ "golang.org/x/image/tiff" // TIFF format support
	_ "golang.org/x/image/webp" // WebP format support
)

// Master describes one source photograph after ingest. All fields are
// derived read-only from the file; ingest never writes anything.
type Master struct {
	ID         string
	SourcePath string
	RelPath    string
	Width      int
	Height     int
	Format     string // extension without the dot, lowercase
	FileSize   int64
	Title      string
	Location   string
	Collection string
	Meta       *Meta
}

// Meta holds the optional capture metadata read from EXIF. Formatted
// fields are empty when the corresponding tag is absent.
type Meta struct {
	Camera       string
	Lens         string
	FocalLength  string
	Aperture     string
	ShutterSpeed string
	ISO          string
	Description  string
	Captured     time.Time
}

// AspectRatio returns width/height.
func (m *Master) AspectRatio() float64 {
	return float64(m.Width) / float64(m.Height)
}

// Ingest reads a master photograph and returns its derived description.
// relPath is the path relative to the input root and determines the
// stable ID, so moving the input root does not re-derive everything.
//
// An extension outside the decodable master set, or a failure to
// decode the image header, returns an *UnreadableImageError;
// a decodable container without pixel dimensions returns a
// *MissingDimensionsError. Absent or partial EXIF is never an error.
func Ingest(sourcePath, relPath string) (*Master, error) {
	if !mediatypes.IsMasterFile(strings.ToLower(filepath.Ext(sourcePath))) {
		metrics.IngestErrorsTotal.WithLabelValues("unsupported").Inc()
		return nil, &UnreadableImageError{Path: sourcePath, Err: errors.New("unsupported master format")}
	}

	file, err := filesystem.OpenWithRetry(sourcePath, filesystem.DefaultRetryConfig())
	if err != nil {
		return nil, &UnreadableImageError{Path: sourcePath, Err: err}
	}
	defer func() {
		if err := file.Close(); err != nil {
			logging.Warn("failed to close master file %s: %v", sourcePath, err)
		}
	}()

	info, err := filesystem.StatWithRetry(sourcePath, filesystem.DefaultRetryConfig())
	if err != nil {
		return nil, &UnreadableImageError{Path: sourcePath, Err: err}
	}

	config, _, err := image.DecodeConfig(file)
	if err != nil {
		metrics.IngestErrorsTotal.WithLabelValues("unreadable").Inc()
		return nil, &UnreadableImageError{Path: sourcePath, Err: err}
	}
	if config.Width <= 0 || config.Height <= 0 {
		metrics.IngestErrorsTotal.WithLabelValues("missing_dimensions").Inc()
		return nil, &MissingDimensionsError{Path: sourcePath}
	}

	// Rewind for the EXIF reader; DecodeConfig only consumed the header.
	meta := (*Meta)(nil)
	if _, err := file.Seek(0, 0); err == nil {
		meta = ReadMeta(file, sourcePath)
	}

	base := filepath.Base(sourcePath)
	ext := strings.ToLower(filepath.Ext(base))
	title, location := ParseFilename(strings.TrimSuffix(base, filepath.Ext(base)))

	return &Master{
		ID:         ImageID(relPath),
		SourcePath: sourcePath,
		RelPath:    filepath.ToSlash(relPath),
		Width:      config.Width,
		Height:     config.Height,
		Format:     strings.TrimPrefix(ext, "."),
		FileSize:   info.Size(),
		Title:      title,
		Location:   location,
		Collection: CollectionOf(relPath),
		Meta:       meta,
	}, nil
}

// ImageID returns the stable identifier for a master: the first 12 hex
// digits of the MD5 of its slash-normalized relative path. Re-running
// the pipeline over the same tree yields the same IDs.
func ImageID(relPath string) string {
	sum := md5.Sum([]byte(filepath.ToSlash(relPath)))
	return hex.EncodeToString(sum[:])[:12]
}

// ParseFilename splits a filename stem into title and location.
// "Dune at Dawn - Death Valley" yields ("Dune at Dawn", "Death Valley");
// a stem without " - " is all title.
func ParseFilename(stem string) (title, location string) {
	if idx := strings.Index(stem, " - "); idx >= 0 {
		return strings.TrimSpace(stem[:idx]), strings.TrimSpace(stem[idx+3:])
	}
	return stem, ""
}

// CollectionOf returns the collection a master belongs to: the name of
// its immediate parent directory, or "" for files at the input root.
func CollectionOf(relPath string) string {
	dir := path.Dir(filepath.ToSlash(relPath))
	if dir == "." || dir == "/" || dir == "" {
		return ""
	}
	return path.Base(dir)
}
