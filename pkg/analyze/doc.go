// Package analyze computes how much water a skyline retains.
//
// Water escapes only past the first and the last column. [Analyze] sweeps
// the distinct wall heights from lowest to highest; at each level it looks
// for the nearest strictly taller wall on both sides of every column of that
// height and floods the gap between them up to the lower of the two rims.
// Re-deriving the rims at every level handles nested basins (a shallow basin
// inside a deeper one) without a separate basin-detection pass.
//
// # Usage
//
//	h, err := skyline.New([]int{2, 5, 1, 2, 3, 4, 7, 7, 6}, 9)
//	if err != nil {
//	    return err
//	}
//	res := analyze.Analyze(h)
//	fmt.Println(res.Volume) // 10
//	fmt.Println(res.Grid)   // top-down rows of '#', 'w' and '.'
//
// Analyze never fails for a valid heightmap. Each call allocates its own
// [grid.Grid]; concurrent calls share nothing.
//
// # Invariants
//
// The returned volume always equals the number of water cells in the
// returned grid, and [Result.Verify] checks exactly that for results read
// back from a cache.
package analyze
