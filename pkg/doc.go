// Package pkg provides the core libraries for watertower.
//
// # Overview
//
// Watertower takes a skyline, a row of integer wall heights, and computes how
// many unit cells of rain it retains. The grid is flooded one height level at
// a time: at each level, every run of columns below the level that is bounded
// on both sides by strictly taller walls is filled up to the lower of the two
// bounding walls.
//
// # Architecture
//
// The typical data flow:
//
//	heights (args, file, preset, seed)
//	         ↓
//	    [skyline] validated heightmap
//	         ↓
//	    [analyze] level sweep over a [grid]
//	         ↓
//	    [render/sink] txt / SVG / PNG / JSON
//
// # Quick Start
//
//	h, err := skyline.New([]int{2, 5, 1, 2, 3, 4, 7, 7, 6}, 9)
//	if err != nil {
//	    return err
//	}
//	res := analyze.Analyze(h)
//	fmt.Println(res.Volume) // 10
//	os.Stdout.Write(sink.RenderText(res))
//
// # Main Packages
//
// ## Core Domain Logic
//
// [skyline] - The immutable heightmap and the nearest-taller-column search.
//
// [grid] - Cell classification (empty, wall, water) with the flooding rules
// enforced on mutation.
//
// [analyze] - The level sweep. Produces the volume, the flooded grid and the
// list of filled basins.
//
// ## Sources
//
// [generate] - Seeded random skylines and named presets.
//
// [io] - Text and JSON heightmap files.
//
// [config] - TOML configuration.
//
// ## Output
//
// [render/sink] - Text, SVG, PNG and JSON renderers.
//
// ## Infrastructure
//
// [pipeline] - Source → analyze → render with caching, shared by the CLI,
// the interactive view and the HTTP API.
//
// [cache] - File, Redis and null caches with key derivation.
//
// [server] - HTTP API.
//
// [observability] - Hooks for metrics and tracing.
//
// [errors] - Coded errors shared by every package.
//
// [skyline]: https://pkg.go.dev/github.com/matzehuels/watertower/pkg/skyline
// [grid]: https://pkg.go.dev/github.com/matzehuels/watertower/pkg/grid
// [analyze]: https://pkg.go.dev/github.com/matzehuels/watertower/pkg/analyze
// [generate]: https://pkg.go.dev/github.com/matzehuels/watertower/pkg/generate
// [io]: https://pkg.go.dev/github.com/matzehuels/watertower/pkg/io
// [config]: https://pkg.go.dev/github.com/matzehuels/watertower/pkg/config
// [render/sink]: https://pkg.go.dev/github.com/matzehuels/watertower/pkg/render/sink
// [pipeline]: https://pkg.go.dev/github.com/matzehuels/watertower/pkg/pipeline
// [cache]: https://pkg.go.dev/github.com/matzehuels/watertower/pkg/cache
// [server]: https://pkg.go.dev/github.com/matzehuels/watertower/pkg/server
// [observability]: https://pkg.go.dev/github.com/matzehuels/watertower/pkg/observability
// [errors]: https://pkg.go.dev/github.com/matzehuels/watertower/pkg/errors
package pkg
