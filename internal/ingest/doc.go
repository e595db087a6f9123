// Package ingest reads master photographs and derives their identity,
// dimensions, and capture metadata.
//
// Ingest is strictly read-only: it probes the image header for pixel
// dimensions (without a full decode), reads the EXIF block if one is
// present, and parses title, location, and collection out of the file's
// path. Masters that cannot be decoded yield an UnreadableImageError;
// decodable containers without dimensions yield a MissingDimensionsError.
// Missing or partial EXIF is never an error.
//
// File naming conventions follow the source archive layout:
//
//	input/
//	  Iceland/
//	    Gullfoss - Golden Falls.tiff    -> title "Gullfoss", location "Golden Falls",
//	                                       collection "Iceland"
//	  Lone Pine.jpg                     -> title "Lone Pine", no location, no collection
//
// IDs are content-address-like but derived from the relative path, so a
// re-run over the same tree maps every master to the same derived assets.
package ingest
