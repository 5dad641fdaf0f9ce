// Copyright 2016 The Gofem Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package vof

import (
	"math"
	"testing"

	"github.com/cpmech/gosl/chk"

	"github.com/cpmech/govof/grid"
	"github.com/cpmech/govof/halo"
)

// rkLS3 is the 3-stage low-storage RK3 (alpha, beta) pair used by the
// velocity predictor, repeated here without its gamma column since VOF
// advection carries no implicit/pressure stage.
var rkLS3 = [3]RKCoef{
	{Alpha: 32.0 / 60.0, Beta: 0},
	{Alpha: 25.0 / 60.0, Beta: -17.0 / 60.0},
	{Alpha: 45.0 / 60.0, Beta: -25.0 / 60.0},
}

// wrapPeriodic copies interior edge values into the halo columns/rows of
// f, making it behave as a periodic field regardless of the physical wall
// treatment a real run would apply — this isolates the flux kernel's
// conservation property from boundary-condition choices.
func wrapPeriodic(f *halo.Field3) {
	h := f.Halo
	for j := -h; j < f.Ny+h; j++ {
		jj := ((j % f.Ny) + f.Ny) % f.Ny
		for i := -h; i < 0; i++ {
			f.Data[f.Idx(i, j, 0)] = f.Data[f.Idx(i+f.Nx, jj, 0)]
		}
		for i := f.Nx; i < f.Nx+h; i++ {
			f.Data[f.Idx(i, j, 0)] = f.Data[f.Idx(i-f.Nx, jj, 0)]
		}
	}
	for i := -h; i < f.Nx+h; i++ {
		ii := ((i % f.Nx) + f.Nx) % f.Nx
		for j := -h; j < 0; j++ {
			f.Data[f.Idx(i, j, 0)] = f.Data[f.Idx(ii, j+f.Ny, 0)]
		}
		for j := f.Ny; j < f.Ny+h; j++ {
			f.Data[f.Idx(i, j, 0)] = f.Data[f.Idx(ii, j-f.Ny, 0)]
		}
	}
}

func totalMass(f *halo.Field3, dx, dy float64) float64 {
	sum := 0.0
	for j := 0; j < f.Ny; j++ {
		for i := 0; i < f.Nx; i++ {
			sum += f.Data[f.Idx(i, j, 0)] * dx * dy
		}
	}
	return sum
}

// Test_advection01 is a periodic-domain version of the planar-advection
// scenario: a uniform ux=1 translates a diffuse vertical front, and total
// mass must be conserved to machine-precision-scale tolerance across
// several RK3 steps (the donor-cell flux scheme is conservative by
// construction: what leaves one cell's face enters its neighbour's).
func Test_advection01(tst *testing.T) {

	chk.PrintTitle("advection01")

	nx, ny := 32, 8
	haloW := 2
	g := grid.NewUniform(grid.D2, nx, ny, 0, 1, 0.25, 0, ny, 1, 0, 0)
	dx, dy := g.Dxf[0], g.Dy

	mk := func() *halo.Field3 {
		total := (nx + 2*haloW) * (ny + 2*haloW) * (1 + 2*haloW)
		return &halo.Field3{Data: make([]float64, total), Nx: nx, Ny: ny, Nz: 1, Halo: haloW}
	}

	vofField := mk()
	for j := -haloW; j < ny+haloW; j++ {
		for i := -haloW; i < nx+haloW; i++ {
			x := (float64(i) + 0.5) * dx
			vofField.Data[vofField.Idx(i, j, 0)] = 1.0 / (1.0 + math.Exp(-2*Beta*(x-0.5)))
		}
	}

	ux := mk() // face field, one more than cell count in x; reuse cell-centred storage, only i in [0,nx] read
	for j := -haloW; j < ny+haloW; j++ {
		for i := -haloW; i < nx+haloW; i++ {
			ux.Data[ux.Idx(i, j, 0)] = 1.0
		}
	}
	uy := mk()

	gauss := NewGaussNodes(2)
	buf := &Buffer{
		Vof: vofField, Ux: ux, Uy: uy, Uz: mk(),
		DVof:   NewVecField(nx, ny, 1, haloW, 3),
		Normal: NewVecField(nx, ny, 1, haloW, 3),
		Curv:   mk(),
		FluxX:  mk(), FluxY: mk(), FluxZ: mk(),
		SrcA: make([]float64, nx*ny), SrcB: make([]float64, nx*ny),
		Gauss: gauss,
	}

	m0 := totalMass(vofField, dx, dy)

	dt := 0.2 * dx // CFL-safe for ux=1
	for step := 0; step < 10; step++ {
		for _, rk := range rkLS3 {
			buf.SwapSources()
			wrapPeriodic(vofField)
			ComputeGeometry(buf, g)
			wrapPeriodic(buf.Curv)
			ComputeSource(buf, g)
			Advance(buf, rk, dt)
		}
	}

	m1 := totalMass(vofField, dx, dy)

	chk.Float64(tst, "total VOF mass", 1e-9, m1, m0)
}
