// Copyright 2016 The Gofem Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package vof

import (
	"github.com/cpmech/govof/grid"
	"github.com/cpmech/govof/halo"
)

// Initializer produces the initial VOF value of one cell from its centre
// and extents. Generating the initial condition as a whole (choosing
// which cells get which shape, reading it from a file) is the caller's
// job; this interface is only the per-cell contract.
type Initializer interface {
	InitCell(x, y, z, dx, dy, dz float64) float64
}

// ShapeFunc is a signed implicit function: negative inside the liquid
// phase, positive outside, used by QuadratureShape to build an
// Initializer without hand-writing the Gauss-quadrature integration for
// every new shape.
type ShapeFunc func(x, y, z float64) float64

// QuadratureShape adapts a ShapeFunc into an Initializer by integrating
// the sharp inside/outside indicator over each cell with a
// tensor-product Gauss-Legendre rule of the kind the curvature and flux
// kernels use, so a smoothly-converging VOF field is produced even for
// cells straddling the interface, rather than a single centre-point
// in/out test.
type QuadratureShape struct {
	Phi   ShapeFunc
	Gauss *GaussNodes
	D     int // 2 or 3
}

// NewQuadratureShape builds a QuadratureShape with its own N-point rule
// (independent of any simulation-wide Gauss instance, since IC generation
// typically wants a finer rule than the N=2 the VOF kernels use).
func NewQuadratureShape(phi ShapeFunc, d, n int) *QuadratureShape {
	return &QuadratureShape{Phi: phi, Gauss: NewGaussNodes(n), D: d}
}

// InitCell integrates the indicator 1{Phi<0} over the cell
// [x-dx/2,x+dx/2] x [y-dy/2,y+dy/2] (x [z-dz/2,z+dz/2] in 3D) using the
// tensor product of q.Gauss's nodes, each rescaled from [-1/2,1/2] to the
// cell's own extent. The weights sum to 1, so the result is the cell's
// liquid fraction: 1 for a cell entirely inside, 0 entirely outside.
func (q *QuadratureShape) InitCell(x, y, z, dx, dy, dz float64) float64 {
	nq := len(q.Gauss.X)
	sum := 0.0
	if q.D == 2 {
		for a := 0; a < nq; a++ {
			px := x + q.Gauss.X[a]*dx
			for b := 0; b < nq; b++ {
				py := y + q.Gauss.X[b]*dy
				if q.Phi(px, py, z) < 0 {
					sum += q.Gauss.W[a] * q.Gauss.W[b]
				}
			}
		}
		return sum
	}
	for a := 0; a < nq; a++ {
		px := x + q.Gauss.X[a]*dx
		for b := 0; b < nq; b++ {
			py := y + q.Gauss.X[b]*dy
			for c := 0; c < nq; c++ {
				pz := z + q.Gauss.X[c]*dz
				if q.Phi(px, py, pz) < 0 {
					sum += q.Gauss.W[a] * q.Gauss.W[b] * q.Gauss.W[c]
				}
			}
		}
	}
	return sum
}

// Sphere returns a ShapeFunc for the ball of radius r centred at
// (cx,cy,cz): negative (liquid) inside.
func Sphere(cx, cy, cz, r float64) ShapeFunc {
	return func(x, y, z float64) float64 {
		dx, dy, dz := x-cx, y-cy, z-cz
		return dx*dx + dy*dy + dz*dz - r*r
	}
}

// Plane returns a ShapeFunc for the half-space on the negative side of
// the plane through (px,py,pz) with outward unit normal (nx,ny,nz).
func Plane(px, py, pz, nx, ny, nz float64) ShapeFunc {
	return func(x, y, z float64) float64 {
		return nx*(x-px) + ny*(y-py) + nz*(z-pz)
	}
}

// FillVOF applies init to every interior cell of vofField, taking cell
// centres and spacings from g.
func FillVOF(init Initializer, vofField *halo.Field3, g *grid.Grid) {
	mz := 1
	if g.D == grid.D3 {
		mz = g.Mz
	}
	for k := 0; k < mz; k++ {
		z, dz := 0.0, 0.0
		if g.D == grid.D3 {
			z = (float64(g.Oz+k) + 0.5) * g.Dz
			dz = g.Dz
		}
		for j := 0; j < g.My; j++ {
			y := (float64(g.Oy+j) + 0.5) * g.Dy // global y: this rank owns [Oy, Oy+My)
			for i := 0; i < g.Mx; i++ {
				x := g.Xc[i]
				vofField.Data[vofField.Idx(i, j, k)] = init.InitCell(x, y, z, g.Dxf[i], g.Dy, dz)
			}
		}
	}
}
