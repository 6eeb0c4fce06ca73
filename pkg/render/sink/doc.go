// Package sink renders analysis results to output formats.
//
// Every sink reads an [analyze.Result] without modifying it and returns the
// encoded bytes:
//
//   - [RenderText]: top-down rows of '#' (wall), 'w' (water) and '.' (empty),
//     optionally coloured for terminals
//   - [RenderSVG]: one rectangle per cell, with or without grid lines
//   - [RenderPNG]: the same picture rasterized in pure Go
//   - [RenderJSON]: a machine-readable document with rows and basins
//
// Use [ValidateFormat] and [ValidateStyle] to check user input before
// rendering.
//
// [analyze.Result]: github.com/matzehuels/watertower/pkg/analyze.Result
package sink
