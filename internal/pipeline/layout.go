package pipeline

import (
	"path"
	"path/filepath"

	"gallery-pipeline/internal/mediatypes"
)

// Output layout, relative to the output root. Manifest paths use these
// slash-separated forms verbatim; local file operations convert with
// filepath.FromSlash.
//
//	thumbnails/<id>.webp
//	previews/<id>.jpg
//	tiles/<id>/<level>/<col>_<row>.jpg + image.json
//	masters/<id>.<original ext>
//	data/gallery.json

// VariantDir returns the output directory name for a variant.
func VariantDir(variant string) string {
	return variant + "s"
}

// VariantRelPath returns the manifest path of one derived raster.
// The format must already be validated; unknown formats fall back to
// their own name as extension rather than guessing.
func VariantRelPath(variant, id, format string) string {
	ext, ok := mediatypes.FormatExtension(format)
	if !ok {
		ext = "." + format
	}
	return path.Join(VariantDir(variant), id+ext)
}

// TilesRelPath returns the manifest path of one image's pyramid
// directory.
func TilesRelPath(id string) string {
	return path.Join("tiles", id)
}

// MasterRelPath returns the manifest path of the published master copy.
func MasterRelPath(id, format string) string {
	return path.Join("masters", id+"."+format)
}

// absPath resolves a slash-separated manifest path under the output root.
func absPath(outputDir, relPath string) string {
	return filepath.Join(outputDir, filepath.FromSlash(relPath))
}
