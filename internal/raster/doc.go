// Package raster derives sized variants (thumbnails, previews) from
// master photographs.
//
// Each variant scales the master so its long edge matches a configured
// target, preserving aspect ratio and never upscaling. Derivation
// prefers libvips, which shrinks during decode and can encode webp; the
// pure-Go fallback (disintegration/imaging with Lanczos resampling)
// covers jpeg and png when vips is unavailable. Outputs are written via
// temp-file rename so an interrupted run leaves no partial rasters.
//
// Variant failures are isolated: a *ResizeError for one variant carries
// enough context for the build summary, and the caller goes on to derive
// the remaining variants.
package raster
