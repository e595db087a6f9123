// Command gallery-pipeline builds a static photo gallery from a
// directory of master photographs.
//
// It scans the input directory for decodable masters, derives the
// configured raster variants and a deep-zoom tile pyramid for each
// image, and assembles a manifest the gallery viewer loads. Masters
// are never modified; everything is written under the output
// directory.
//
// Usage:
//
//	gallery-pipeline -input PHOTOS [flags]
//
// Flags:
//
//	-input DIR        input directory of master photographs (required)
//	-output DIR       output directory for the built gallery (default "dist")
//	-config FILE      TOML derivation profile (default "gallery.toml" if present)
//	-workers N        parallel image workers (default: one per CPU)
//	-sort KEY         manifest record order, "scan" or "date" (default "scan")
//	-storage-url URL  public base URL recorded in the manifest
//	-dry-run          scan and plan without deriving anything
//	-v                enable debug logging
//
// Environment:
//
//	GALLERY_INPUT_DIR    - input directory (flag -input wins)
//	GALLERY_OUTPUT_DIR   - output directory (flag -output wins)
//	GALLERY_CONFIG       - derivation profile path (flag -config wins)
//	GALLERY_SORT         - manifest record order (flag -sort wins)
//	GALLERY_STORAGE_URL  - public base URL (flag -storage-url wins)
//	PIPELINE_WORKERS     - parallel image workers (flag -workers wins)
//	STATUS_ENABLED       - serve /progress and /metrics during the build
//	STATUS_PORT          - status server port (default 9090)
//	VIPS_ENABLED         - use libvips for resizing when available
//
// A .env file in the working directory is loaded before anything else.
//
// Exit codes:
//
//	0  build complete, every image processed
//	1  build finished with failures, or was aborted
//	2  configuration error, nothing was processed
//
// Interrupting the build with SIGINT or SIGTERM stops new images from
// being scheduled; in-flight images finish and the manifest is written
// from whatever completed.
package main
