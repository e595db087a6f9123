package mediatypes

// MasterSupport classifies how the pipeline treats a scanned file.
type MasterSupport string

const (
	// SupportDecodable marks master formats the pipeline can decode and derive from.
	SupportDecodable MasterSupport = "decodable"
	// SupportRecognized marks photographic formats the pipeline recognizes but has
	// no decoder for; scanned files of these formats are skipped with a warning.
	SupportRecognized MasterSupport = "recognized"
	// SupportNone marks everything else.
	SupportNone MasterSupport = "none"
)

// MasterExtensions maps file extensions to whether they are decodable master formats.
var MasterExtensions = map[string]bool{
	".jpg":  true,
	".jpeg": true,
	".png":  true,
	".tiff": true,
	".tif":  true,
	".webp": true,
}

// RecognizedExtensions maps photographic extensions the pipeline recognizes but
// cannot decode. HEIC/HEIF containers need platform codecs that the pure-image
// toolchain does not ship.
var RecognizedExtensions = map[string]bool{
	".heic": true,
	".heif": true,
}

// FormatExtensions maps derived-output format names to their file extensions.
var FormatExtensions = map[string]string{
	"jpeg": ".jpg",
	"jpg":  ".jpg",
	"png":  ".png",
	"webp": ".webp",
}

// MimeTypes maps file extensions to their MIME types.
var MimeTypes = map[string]string{
	// Masters and derived rasters
	".jpg":  "image/jpeg",
	".jpeg": "image/jpeg",
	".png":  "image/png",
	".webp": "image/webp",
	".tiff": "image/tiff",
	".tif":  "image/tiff",
	".heic": "image/heic",
	".heif": "image/heif",

	// Manifests and tile descriptors
	".json": "application/json",
}

// ClassifyMaster returns the support level for a given file extension.
// The extension should be lowercase and include the leading dot (e.g., ".jpg").
func ClassifyMaster(ext string) MasterSupport {
	if MasterExtensions[ext] {
		return SupportDecodable
	}
	if RecognizedExtensions[ext] {
		return SupportRecognized
	}
	return SupportNone
}

// IsMasterFile returns true if the extension is a decodable master format.
func IsMasterFile(ext string) bool {
	return ClassifyMaster(ext) == SupportDecodable
}

// FormatExtension returns the file extension for a derived-output format name.
// The second return is false for format names the pipeline cannot encode.
func FormatExtension(format string) (string, bool) {
	ext, ok := FormatExtensions[format]
	return ext, ok
}

// GetMimeType returns the MIME type for a given file extension.
// The extension should be lowercase and include the leading dot (e.g., ".jpg").
// Returns "application/octet-stream" if the extension is not recognized.
func GetMimeType(ext string) string {
	if mime, ok := MimeTypes[ext]; ok {
		return mime
	}
	return "application/octet-stream"
}
