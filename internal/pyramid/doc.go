// Package pyramid builds multi-resolution tile pyramids for deep-zoom
// viewing of large masters.
//
// A pyramid is a directory of levels, each level a grid of fixed-size
// tiles. Level 0 is coarse enough to fit within a single tile; the
// finest level holds the master at native resolution. Each level
// doubles the previous one, so a viewer can fetch only the tiles
// covering its viewport at the nearest zoom.
//
// Layout on disk:
//
//	<dir>/
//	  0/0_0.jpg
//	  1/0_0.jpg 1/1_0.jpg ...
//	  ...
//	  5/0_0.jpg ... 5/15_11.jpg
//	  image.json
//
// Tiles are named <col>_<row> within their level directory. Interior
// tile edges carry a configurable overlap so renderers can filter
// across seams without artifacts; edges on the image boundary are
// cropped to fit, never padded.
//
// image.json is written last: its presence is the completion marker,
// so an interrupted build is detectable and safe to redo.
package pyramid
