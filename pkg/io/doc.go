// Package io reads and writes heightmaps.
//
// # Formats
//
// Heights can be supplied as plain text, with columns separated by
// whitespace, commas, semicolons or pipes. Lines starting with '#' are
// comments:
//
//	# default configuration
//	2 | 5 | 1 | 2 | 3 | 4 | 7 | 7 | 6
//
// or as JSON, either a bare array or a document that also carries the
// height ceiling:
//
//	[2, 5, 1, 2, 3, 4, 7, 7, 6]
//	{"max_height": 9, "heights": [2, 5, 1, 2, 3, 4, 7, 7, 6]}
//
// # Import
//
// Use [ImportFile] to read a heightmap from a path, or [ReadHeightmap] to read
// from any io.Reader. [ParseHeights] parses a single inline list such as a
// command-line argument. All values are validated by [skyline.New]; malformed
// text fails with INVALID_INPUT and out-of-range heights with
// INVALID_CONFIGURATION.
//
// # Export
//
// [WriteHeightmap] and [ExportFile] write the JSON document form, which
// round-trips through [ReadHeightmap] including the height ceiling.
package io
