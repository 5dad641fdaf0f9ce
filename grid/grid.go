// Copyright 2016 The Gofem Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package grid describes the staggered Cartesian mesh geometry that the
// fractional-step integrator runs over. Actual mesh construction (stretching
// functions, coordinate-array generation) is an external collaborator;
// Grid is the contract the core components depend on.
package grid

import "github.com/cpmech/gosl/chk"

// Dim is the spatial dimension of a simulation: 2 or 3.
type Dim int

const (
	D2 Dim = 2
	D3 Dim = 3
)

// Grid holds the local (per-rank) geometry of an X1-oriented decomposition:
// global extents, this rank's local extents and offset, and the coordinate
// and spacing arrays of the wall-bounded x axis. y (and, in 3D, z) are
// periodic and uniformly spaced, so only dy (dz) scalars are carried.
type Grid struct {
	D Dim // 2 or 3

	// global and local (this rank's X1-pencil) extents
	Gx, Gy, Gz int // global cell counts (Gz unused in 2D)
	Mx, My, Mz int // local cell counts in the X1 pencil
	Ox, Oy, Oz int // local origin (offset) within the global grid

	// x axis geometry (non-uniform allowed); length Gx+1 / Gx faces/centres
	Xf  []float64 // face coordinates, len Gx+1
	Xc  []float64 // cell-centre coordinates, len Gx
	Dxf []float64 // face-to-face spacing, len Gx
	Dxc []float64 // centre-to-centre spacing, len Gx+1

	Dy, Dz float64 // uniform spacing of the periodic directions

	Uniform bool // true iff Dxf is constant to machine precision (enables the DCT Poisson variant)
}

// NewUniform builds a Grid with a uniform x spacing, local to one rank that
// owns the whole x extent (Ox=0, Mx=Gx) but a slice [oy, oy+my) of y (and
// [oz, oz+mz) of z in 3D. This is the shape every rank sees in the X1
// pencil orientation (see pencil.X1).
func NewUniform(d Dim, gx, gy, gz int, lenx, leny, lenz float64, my, mz, oy, oz int) *Grid {
	g := &Grid{D: d, Gx: gx, Gy: gy, Gz: gz, Mx: gx, My: my, Mz: mz, Ox: 0, Oy: oy, Oz: oz}
	dx := lenx / float64(gx)
	g.Xf = make([]float64, gx+1)
	g.Xc = make([]float64, gx)
	g.Dxf = make([]float64, gx)
	g.Dxc = make([]float64, gx+1)
	for i := 0; i <= gx; i++ {
		g.Xf[i] = float64(i) * dx
	}
	for i := 0; i < gx; i++ {
		g.Xc[i] = 0.5 * (g.Xf[i] + g.Xf[i+1])
		g.Dxf[i] = dx
	}
	g.Dxc[0] = g.Xc[0] - g.Xf[0]
	for i := 1; i < gx; i++ {
		g.Dxc[i] = g.Xc[i] - g.Xc[i-1]
	}
	g.Dxc[gx] = g.Xf[gx] - g.Xc[gx-1]
	g.Dy = leny / float64(gy)
	if d == D3 {
		g.Dz = lenz / float64(gz)
	}
	g.Uniform = true
	return g
}

// NewStretched builds a Grid from caller-supplied face coordinates xf (len
// Gx+1, strictly increasing). Centres, spacings and the Uniform flag are
// derived. Used by tests exercising the DFT Poisson variant (non-uniform x).
func NewStretched(d Dim, xf []float64, gy, gz int, leny, lenz float64, my, mz, oy, oz int) *Grid {
	gx := len(xf) - 1
	if gx < 2 {
		chk.Panic("grid: need at least 2 cells in x, got %d", gx)
	}
	g := &Grid{D: d, Gx: gx, Gy: gy, Gz: gz, Mx: gx, My: my, Mz: mz, Ox: 0, Oy: oy, Oz: oz}
	g.Xf = append([]float64(nil), xf...)
	g.Xc = make([]float64, gx)
	g.Dxf = make([]float64, gx)
	g.Dxc = make([]float64, gx+1)
	for i := 0; i < gx; i++ {
		g.Xc[i] = 0.5 * (g.Xf[i] + g.Xf[i+1])
		g.Dxf[i] = g.Xf[i+1] - g.Xf[i]
	}
	g.Dxc[0] = g.Xc[0] - g.Xf[0]
	for i := 1; i < gx; i++ {
		g.Dxc[i] = g.Xc[i] - g.Xc[i-1]
	}
	g.Dxc[gx] = g.Xf[gx] - g.Xc[gx-1]
	g.Dy = leny / float64(gy)
	if d == D3 {
		g.Dz = lenz / float64(gz)
	}
	g.Uniform = isUniform(g.Dxf)
	return g
}

func isUniform(dxf []float64) bool {
	if len(dxf) == 0 {
		return true
	}
	d0 := dxf[0]
	for _, d := range dxf[1:] {
		if abs(d-d0) > 1e-12*d0 {
			return false
		}
	}
	return true
}

func abs(x float64) float64 {
	if x < 0 {
		return -x
	}
	return x
}
