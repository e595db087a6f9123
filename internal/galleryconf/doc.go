// Package galleryconf loads the pipeline's TOML configuration file.
//
// The file controls gallery metadata, the raster variant set, tiling
// parameters, and publish settings:
//
//	[gallery]
//	title = "Edward Ma"
//	subtitle = "Photography"
//	author = "Edward Ma"
//
//	[variants.thumbnail]
//	long_edge = 800
//	format = "webp"
//	quality = 90
//
//	[variants.preview]
//	long_edge = 2400
//	format = "jpeg"
//	quality = 92
//
//	[tiles]
//	size = 256
//	overlap = 1
//	format = "jpeg"
//	quality = 85
//
//	[publish]
//	bucket = "gallery"
//	public_url = "https://media.example.com"
//	origins = ["https://example.com"]
//
// Every section is optional. A missing file yields the built-in profile
// shown above (with empty gallery metadata and publish settings). Field
// bounds are validated on load; violations are reported all at once so a
// bad file can be fixed in one pass.
package galleryconf
