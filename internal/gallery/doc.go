// Package gallery defines the published manifest and its assembly.
//
// The manifest (data/gallery.json) is the one document the viewer
// reads: global gallery fields, the distinct collection list, and a
// record per image pointing at its derived artifacts. Assembly is the
// pipeline's final stage and the only synchronization point: it runs
// after every image has finished, validates each record, and excludes
// incomplete ones with a warning instead of failing the build.
package gallery
