// Copyright 2016 The Gofem Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package halo exchanges ghost-cell slabs with the neighbouring rank
// along every decomposed axis, then imposes physical boundary conditions
// on the wall-bounded x axis.
package halo

import (
	"github.com/cpmech/gosl/chk"

	"github.com/cpmech/govof/pencil"
)

// Field3 is the minimal array contract halo exchange needs: a dense,
// halo-padded 3D (or 2D, with Nz==1) buffer addressed by local index
// including halo, plus the halo width actually allocated. The z axis is
// padded by Halo on both sides even when Nz==1, so Data holds
// (Nx+2*Halo)*(Ny+2*Halo)*(Nz+2*Halo) values.
type Field3 struct {
	Data           []float64 // row-major, x innermost
	Nx, Ny, Nz     int       // interior extents
	Halo           int       // ghost width on every decomposed side
}

func (f *Field3) stride() (sx, sy, sz int) {
	sx = 1
	sy = f.Nx + 2*f.Halo
	sz = sy * (f.Ny + 2*f.Halo)
	return
}

// idx returns the flat offset of local (halo-relative) coordinates
// (i,j,k), where i,j,k range over [-Halo, Nx+Halo).
func (f *Field3) idx(i, j, k int) int {
	sx, sy, sz := f.stride()
	return (i+f.Halo)*sx + (j+f.Halo)*sy + (k+f.Halo)*sz
}

// Idx is the exported form of idx, used by every component outside this
// package that addresses a Field3 by halo-relative coordinates.
func (f *Field3) Idx(i, j, k int) int { return f.idx(i, j, k) }

// ExchangeAxis exchanges the width-h slab at both ends of a decomposed
// axis (y=1 or z=2; x is never decomposed) with the Cartesian
// neighbours, using two symmetric send/receives per axis: the slab
// spans the full perpendicular interior
// plus halos, so that corner cells are correctly filled once every
// decomposed axis has been exchanged in turn.
func ExchangeAxis(c pencil.Comm, cart *pencil.CartGrid, f *Field3, axis int) {
	if axis != 1 && axis != 2 {
		chk.Panic("halo: x (axis 0) is never decomposed, got axis=%d", axis)
	}
	h := f.Halo
	negPeer := cart.Neighbor(axis-1, -1)
	posPeer := cart.Neighbor(axis-1, +1)

	sendPos, recvNeg := packAxis(f, axis, extentOf(f, axis)-h, h, true)
	sendNeg, recvPos := packAxis(f, axis, 0, h, false)

	c.SendRecv(sendPos, posPeer, recvNeg, negPeer)
	c.SendRecv(sendNeg, negPeer, recvPos, posPeer)

	unpackAxis(f, axis, -h, recvNeg)
	unpackAxis(f, axis, extentOf(f, axis), recvPos)
}

func extentOf(f *Field3, axis int) int {
	switch axis {
	case 1:
		return f.Ny
	case 2:
		return f.Nz
	}
	return f.Nx
}

// packAxis copies a width-h slab starting at local (halo-relative) index
// `start` along `axis`, spanning the full perpendicular interior+halo
// range so corner cells travel too, returning (sendBuf, recvBuf) of equal
// size ready for SendRecv.
func packAxis(f *Field3, axis, start, width int, fromHighEnd bool) (send, recv []float64) {
	_ = fromHighEnd
	nx, ny, nz := f.Nx, f.Ny, f.Nz
	h := f.Halo
	var count int
	switch axis {
	case 1:
		count = width * (nx + 2*h) * (nz + 2*h)
	case 2:
		count = width * (nx + 2*h) * (ny + 2*h)
	}
	send = make([]float64, count)
	recv = make([]float64, count)
	n := 0
	switch axis {
	case 1:
		for j := start; j < start+width; j++ {
			for k := -h; k < nz+h; k++ {
				for i := -h; i < nx+h; i++ {
					send[n] = f.Data[f.idx(i, j, k)]
					n++
				}
			}
		}
	case 2:
		for k := start; k < start+width; k++ {
			for j := -h; j < ny+h; j++ {
				for i := -h; i < nx+h; i++ {
					send[n] = f.Data[f.idx(i, j, k)]
					n++
				}
			}
		}
	}
	return
}

func unpackAxis(f *Field3, axis, start int, buf []float64) {
	nx, ny, nz := f.Nx, f.Ny, f.Nz
	h := f.Halo
	width := h
	n := 0
	switch axis {
	case 1:
		for j := start; j < start+width; j++ {
			for k := -h; k < nz+h; k++ {
				for i := -h; i < nx+h; i++ {
					f.Data[f.idx(i, j, k)] = buf[n]
					n++
				}
			}
		}
	case 2:
		for k := start; k < start+width; k++ {
			for j := -h; j < ny+h; j++ {
				for i := -h; i < nx+h; i++ {
					f.Data[f.idx(i, j, k)] = buf[n]
					n++
				}
			}
		}
	}
}
