// Copyright 2016 The Gofem Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package pencil partitions a D-dimensional global grid across a
// D-dimensional process grid into oriented "pencils", and builds the
// all-to-all transpose plans that permute an array between two pencil
// orientations. A plan carries the per-rank block-partition tables of
// both axes; the caller's communicator performs the exchange, so no
// specific MPI datatype API is assumed.
package pencil

import "github.com/cpmech/gosl/chk"

// Orientation names the axis that stays contiguous (undivided) locally.
// 2D simulations use X1/Y1 only; 3D adds Z1 and the X2/Y2/Z2 family needed
// to complete the 3D rotation chain.
type Orientation int

const (
	X1 Orientation = iota
	Y1
	Z1
	X2
	Y2
	Z2
)

// ProcGrid is the D-dimensional Cartesian process grid laid over the data
// grid. Axis i of the process grid has Dims[i] ranks, counted over the
// partitioned axes (an orientation partitions all axes except the one
// that stays contiguous). This rank's coordinates are kept by CartGrid,
// not here.
type ProcGrid struct {
	Dims []int // number of ranks along each *partitioned* axis, in partitioned-axis order for the X1 orientation: [py, pz] (2D: [py])
}

// MySize returns this rank's local extent along one partitioned axis,
// using the block rule: rank r gets floor(N/P) + (1 if r<N mod P else 0).
func MySize(rank, nranks, globalSize int) int {
	base := globalSize / nranks
	rem := globalSize % nranks
	if rank < rem {
		return base + 1
	}
	return base
}

// Offset returns the prefix sum of MySize over ranks [0, rank).
func Offset(rank, nranks, globalSize int) int {
	base := globalSize / nranks
	rem := globalSize % nranks
	off := rank * base
	if rank < rem {
		off += rank
	} else {
		off += rem
	}
	return off
}

// AllSizes returns MySize for every rank 0..nranks-1 — used by BuildPlan to
// build per-peer block extents without a round-trip query.
func AllSizes(nranks, globalSize int) []int {
	out := make([]int, nranks)
	for r := range out {
		out[r] = MySize(r, nranks, globalSize)
	}
	return out
}

// AllOffsets returns Offset for every rank 0..nranks-1.
func AllOffsets(nranks, globalSize int) []int {
	out := make([]int, nranks)
	for r := range out {
		out[r] = Offset(r, nranks, globalSize)
	}
	return out
}

// Plan is the all-to-all block-transpose descriptor that permutes an array
// laid out in From into an array laid out in To, for one pair of global
// sizes. Every rank builds the identical Plan (pure function of nRanks,
// GPart, GContig — no communication needed to construct it); Execute then
// consults the caller's own rank via Comm.Rank() to know which block it
// owns.
//
// From's local array has shape (PartSizes[rank], GContig, OtherExtent):
// the axis of global length GPart is block-partitioned across ranks (this
// rank owns PartSizes[rank] of it, at offset PartOffsets[rank]), while the
// axis of global length GContig is owned in full by every rank (it is the
// orientation's contiguous axis). To's local array has the transposed
// shape (ContigSizes[rank], GPart, OtherExtent): the old contiguous axis
// is now block-partitioned (ContigSizes[rank] of it, at
// ContigOffsets[rank]) and the old partitioned axis is now owned in full.
// OtherExtent (e.g. the z-batch count) and ElemSize (1 for real, 2 for
// complex128 packed as two float64s) are untouched passengers carried
// along the innermost dimension.
type Plan struct {
	From, To Orientation

	NRanks             int
	GPart, GContig     int
	OtherExtent        int
	ElemSize           int
	PartSizes          []int // length NRanks
	PartOffsets        []int // length NRanks
	ContigSizes        []int // length NRanks
	ContigOffsets      []int // length NRanks
}

// BuildPlan constructs the transpose plan between two pencil orientations,
// over a communicator of nRanks ranks. gPart is the global length of the
// axis that is block-partitioned in `from` and becomes the (possibly
// fully-owned) contiguous axis in `to`; gContig is the global length of
// the axis that is fully owned (contiguous) in `from` and becomes
// partitioned in `to`. otherExtent is the extent of every remaining local
// axis untouched by this transpose (e.g. a z-batch count); elemSize is the
// number of float64 words per logical element (1 for real, 2 for
// complex128).
//
// contigRanks selects how the `to`-orientation's newly-partitioned axis is
// divided: nRanks (the general case, splitting it the same way gPart is
// split) or 1 (every rank ends up owning the axis in full — the
// degenerate, single-axis-decomposition case this solver's process
// topology actually builds). Any other contigRanks value is rejected: a
// partial
// partition of the contiguous axis across a subset of ranks is not a
// shape this package's callers ever need.
//
// Higher-rank (3D full) transposes are built by composing two such 1D
// plans (X1->Y1 then Y1->Z1 etc.).
func BuildPlan(from, to Orientation, nRanks, contigRanks, gPart, gContig, otherExtent, elemSize int) *Plan {
	if nRanks <= 0 {
		chk.Panic("pencil: nRanks must be positive, got %d", nRanks)
	}
	if contigRanks != 1 && contigRanks != nRanks {
		chk.Panic("pencil: contigRanks must be 1 or nRanks, got %d of %d", contigRanks, nRanks)
	}
	contigBaseSizes := AllSizes(contigRanks, gContig)
	contigBaseOffsets := AllOffsets(contigRanks, gContig)
	contigSizes := make([]int, nRanks)
	contigOffsets := make([]int, nRanks)
	for r := 0; r < nRanks; r++ {
		contigSizes[r] = contigBaseSizes[r%contigRanks]
		contigOffsets[r] = contigBaseOffsets[r%contigRanks]
	}
	return &Plan{
		From: from, To: to,
		NRanks: nRanks, GPart: gPart, GContig: gContig,
		OtherExtent: otherExtent, ElemSize: elemSize,
		PartSizes: AllSizes(nRanks, gPart), PartOffsets: AllOffsets(nRanks, gPart),
		ContigSizes: contigSizes, ContigOffsets: contigOffsets,
	}
}

// Comm is the minimal point-to-point surface Execute needs from a
// communicator; satisfied by a thin wrapper over github.com/cpmech/gosl/mpi
// (mpiutil.World), kept as an interface here so the
// transpose logic is independently testable with an in-process fake.
type Comm interface {
	Rank() int
	Size() int
	SendRecv(sendBuf []float64, sendTo int, recvBuf []float64, recvFrom int)
}

// Execute performs the blocking all-to-all block transpose described by
// plan, reading from in (From-orientation layout) and writing to out
// (To-orientation layout). Every rank exchanges with every peer in peer-
// index order, so every rank issues the same sequence of peer indices and
// the exchange is deadlock-free without requiring non-blocking primitives
// (it degrades to an MPI_Alltoallv in a real collective-capable
// communicator).
func Execute(c Comm, plan *Plan, in, out []float64) {
	transpose(c, plan, plan.PartSizes, plan.PartOffsets, plan.GContig,
		plan.ContigSizes, plan.ContigOffsets, plan.GPart, in, out)
}

// ExecuteInverse performs the structural inverse of Execute: reading from
// in (To-orientation layout) and writing to out (From-orientation
// layout). Passing the same Plan to Execute then ExecuteInverse (or vice
// versa) round-trips an array exactly, since the inverse simply swaps
// which of the two block-partition tables plays the "partitioned" role.
func ExecuteInverse(c Comm, plan *Plan, in, out []float64) {
	transpose(c, plan, plan.ContigSizes, plan.ContigOffsets, plan.GPart,
		plan.PartSizes, plan.PartOffsets, plan.GContig, in, out)
}

// transpose is shared by Execute and ExecuteInverse: `in`'s local shape is
// (sizesA[rank], gFreeIn, otherExtent) and `out`'s local shape is
// (sizesB[rank], gFreeOut, otherExtent), where gFreeIn is the global
// length of the axis `in` already owns in full (becoming block-
// partitioned in `out`, per sizesB/offsetsB) and gFreeOut is the global
// length of the axis `out` owns in full (currently block-partitioned in
// `in`, per sizesA/offsetsA).
func transpose(c Comm, plan *Plan, sizesA, offsetsA []int, gFreeIn int,
	sizesB, offsetsB []int, gFreeOut int, in, out []float64) {

	myRank := c.Rank()
	rows := sizesA[myRank] // this rank's own extent of the A axis (fixed across peers)
	otherExtent, elemSize := plan.OtherExtent, plan.ElemSize
	unit := otherExtent * elemSize

	for peer := 0; peer < plan.NRanks; peer++ {
		cols := sizesB[peer]
		colOff := offsetsB[peer]
		sendBuf := make([]float64, rows*cols*unit)
		idx := 0
		for r := 0; r < rows; r++ {
			base := r * gFreeIn * unit
			for cc := 0; cc < cols; cc++ {
				src := base + (colOff+cc)*unit
				copy(sendBuf[idx:idx+unit], in[src:src+unit])
				idx += unit
			}
		}

		recvRows := sizesA[peer]
		rowOff := offsetsA[peer]
		recvCols := sizesB[myRank]
		recvBuf := make([]float64, recvRows*recvCols*unit)

		c.SendRecv(sendBuf, peer, recvBuf, peer)

		idx = 0
		for r := 0; r < recvRows; r++ {
			for cc := 0; cc < recvCols; cc++ {
				dst := cc*gFreeOut*unit + (rowOff+r)*unit
				copy(out[dst:dst+unit], recvBuf[idx:idx+unit])
				idx += unit
			}
		}
	}
}
