// Package pipeline orchestrates a gallery build from input tree to
// published manifest.
//
// A run proceeds in three phases:
//
//  1. Scan: the input tree is walked once and every file is classified.
//     Decodable masters are scheduled in deterministic walk order;
//     recognized-but-undecodable formats are skipped with a warning.
//
//  2. Derive: a fixed worker pool processes masters independently. For
//     each master the worker ingests dimensions and EXIF, publishes the
//     untouched master copy, and then derives every configured raster
//     variant and the tile pyramid concurrently over one shared decode.
//     A failure in one image never stops the others; failures are
//     collected per image for the build summary.
//
//  3. Assemble: once every scheduled image has reached a terminal
//     state, the manifest is assembled from the per-image records and
//     written atomically. Assembly is the only synchronization barrier
//     in the pipeline.
//
// Stop aborts a run gracefully: scheduling halts immediately, images
// already in flight finish cleanly (atomic writes keep the output tree
// consistent), and the manifest is still assembled from the completed
// subset.
package pipeline
