// Copyright 2016 The Gofem Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package pencil

// CartGrid is a D-1 dimensional Cartesian topology over the ranks
// partitioning one pencil's non-contiguous axes (2D: 1 partitioned axis;
// 3D: 2). It derives row-major rank coordinates from a linear rank and
// answers neighbour queries for the halo service; it is created
// internally by the decomposition service and never user-visible beyond
// the single world communicator.
type CartGrid struct {
	Dims   []int // ranks along each partitioned axis
	Coords []int // this rank's coordinate along each axis
}

// NewCartGrid builds the topology for a linear rank given the per-axis
// rank counts (row-major: the last axis varies fastest, matching the
// row-major contiguous-in-x index convention used everywhere else).
func NewCartGrid(rank int, dims []int) *CartGrid {
	coords := make([]int, len(dims))
	rem := rank
	for i := len(dims) - 1; i >= 0; i-- {
		coords[i] = rem % dims[i]
		rem /= dims[i]
	}
	return &CartGrid{Dims: dims, Coords: coords}
}

// LinearRank is the inverse of NewCartGrid's decomposition: turns a
// coordinate tuple back into a linear rank.
func (g *CartGrid) LinearRank(coords []int) int {
	rank := 0
	for i, d := range g.Dims {
		rank = rank*d + ((coords[i]%d + d) % d)
	}
	return rank
}

// Neighbor returns the linear rank of the neighbour one step away along
// axis in the given direction (+1 or -1), wrapping around (the
// decomposed y/z axes are always periodic).
func (g *CartGrid) Neighbor(axis, dir int) int {
	c := append([]int(nil), g.Coords...)
	c[axis] += dir
	return g.LinearRank(c)
}
