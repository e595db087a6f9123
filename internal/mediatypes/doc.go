// Package mediatypes provides shared format definitions and utilities for
// master and derived image files across the gallery pipeline.
//
// This package exists as a dependency-free foundation that can be imported by
// other packages without creating import cycles. It contains primitive types,
// constants, and pure utility functions with no external dependencies beyond
// the standard library.
//
// # Master Classification
//
// Use ClassifyMaster to decide what to do with a scanned file based on its
// extension:
//
//	ext := strings.ToLower(filepath.Ext(filename))
//	switch mediatypes.ClassifyMaster(ext) {
//	case mediatypes.SupportDecodable:
//	    // Process the master
//	case mediatypes.SupportRecognized:
//	    // Photographic format without a decoder; skip with a warning
//	}
//
// # MIME Types
//
// Use GetMimeType to get the appropriate MIME type when uploading derived
// assets:
//
//	ext := strings.ToLower(filepath.Ext(filename))
//	mimeType := mediatypes.GetMimeType(ext) // e.g., "image/jpeg"
//
// # Output Formats
//
// FormatExtension translates the format names used in variant and tile
// configuration ("jpeg", "webp", "png") into file extensions.
package mediatypes
