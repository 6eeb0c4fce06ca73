// Package skyline models a row of adjacent vertical walls.
//
// A [Heightmap] is the ordered sequence of wall heights, one per column,
// together with the height ceiling the walls were drawn against. It is
// immutable: a new configuration is always a new value, so a single
// Heightmap can be shared freely between goroutines.
//
// # Boundary Search
//
// [FindTallerColumn] scans outward from a column for the nearest wall that is
// strictly taller than a reference height:
//
//	h, _ := skyline.New([]int{5, 1, 2}, 9)
//	skyline.FindTallerColumn(h, 1, 1, skyline.Left)  // 0
//	skyline.FindTallerColumn(h, 1, 2, skyline.Right) // skyline.NotFound
//
// The search never treats the edge of the map as a wall: water runs off past
// the first and the last column.
package skyline
