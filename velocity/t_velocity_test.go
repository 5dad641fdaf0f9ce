// Copyright 2016 The Gofem Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package velocity

import (
	"testing"

	"github.com/cpmech/gosl/chk"

	"github.com/cpmech/govof/grid"
	"github.com/cpmech/govof/halo"
)

func mkVelField(nx, ny, h int, val float64) *halo.Field3 {
	total := (nx + 2*h) * (ny + 2*h) * (1 + 2*h)
	f := &halo.Field3{Data: make([]float64, total), Nx: nx, Ny: ny, Nz: 1, Halo: h}
	for i := range f.Data {
		f.Data[i] = val
	}
	return f
}

// Test_uniformFlowSource01 checks that a perfectly uniform flow field (no
// gradients anywhere) produces an identically zero explicit source — every
// advective and diffusive term is a finite difference of
// equal neighbours.
func Test_uniformFlowSource01(tst *testing.T) {

	chk.PrintTitle("uniformFlowSource01")

	nx, ny, h := 8, 8, 2
	g := grid.NewUniform(grid.D2, nx, ny, 0, 1, 1, 0, ny, 1, 0, 0)

	buf := &Buffer{
		Ux: mkVelField(nx, ny, h, 1.0),
		Uy: mkVelField(nx, ny, h, 0.0),
		Uz: mkVelField(nx, ny, h, 0.0),
		MuM: 0.01,
	}
	buf.SrcAX = make([]float64, (nx-1)*ny)

	ComputeSource(buf, g, Ux)

	zero := make([]float64, (nx-1)*ny)
	chk.Array(tst, "src_ux uniform flow", 1e-12, buf.SrcAX, zero)
}

// Test_gammaSource01 checks GammaSource with no implicit axes reduces to
// the bare pressure gradient of a linear pressure ramp, exact for the
// centred difference.
func Test_gammaSource01(tst *testing.T) {

	chk.PrintTitle("gammaSource01")

	nx, ny, h := 6, 4, 2
	g := grid.NewUniform(grid.D2, nx, ny, 0, 1, 1, 0, ny, 1, 0, 0)

	p := mkVelField(nx, ny, h, 0)
	slope := 1.3
	for j := -h; j < ny+h; j++ {
		for i := -h; i < nx+h; i++ {
			p.Data[p.Idx(i, j, 0)] = slope * (float64(i) + 0.5) * g.Dxf[0]
		}
	}
	buf := &Buffer{
		Ux: mkVelField(nx, ny, h, 0), Uy: mkVelField(nx, ny, h, 0),
		P: p, MuM: 0.01,
	}

	srcG := GammaSource(buf, g, Ux)
	chk.IntAssert(len(srcG), (nx-1)*ny)
	for _, v := range srcG {
		chk.Float64(tst, "gamma src = -dp/dx", 1e-12, v, -slope)
	}
}

// Test_correctUx01 checks correctUx reads psi at faces (i, i-1) — not a
// shifted pair — by comparing its output against the same finite
// difference computed independently from the grid's own dxc array.
func Test_correctUx01(tst *testing.T) {

	chk.PrintTitle("correctUx01")

	nx, ny, h := 6, 1, 2
	g := grid.NewUniform(grid.D2, nx, ny, 0, 1, 1, 0, ny, 1, 0, 0)

	psi := mkVelField(nx, ny, h, 0)
	dpsi := 0.37
	for i := 0; i < nx; i++ {
		psi.Data[psi.Idx(i, 0, 0)] = float64(i) * dpsi
	}
	ux := mkVelField(nx, ny, h, 5.0)
	buf := &Buffer{Ux: ux, Psi: psi, MuM: 0}

	gammaDt := 0.1
	before := append([]float64(nil), ux.Data...)
	correctUx(buf, g, gammaDt)

	for i := 1; i < nx; i++ {
		dPsiDx := (psi.Data[psi.Idx(i, 0, 0)] - psi.Data[psi.Idx(i-1, 0, 0)]) / g.Dxc[i]
		want := before[ux.Idx(i, 0, 0)] - gammaDt*dPsiDx
		got := ux.Data[ux.Idx(i, 0, 0)]
		chk.Float64(tst, "ux face", 1e-12, got, want)
	}
	chk.Float64(tst, "ux wall face untouched", 1e-15, ux.Data[ux.Idx(0, 0, 0)], before[ux.Idx(0, 0, 0)])
}

// Test_updatePressure01 checks the no-implicit-axis branch reduces to the
// simpler p <- p + psi when all viscous axes are explicit.
func Test_updatePressure01(tst *testing.T) {

	chk.PrintTitle("updatePressure01")

	nx, ny, h := 4, 4, 2
	g := grid.NewUniform(grid.D2, nx, ny, 0, 1, 1, 0, ny, 1, 0, 0)

	p := mkVelField(nx, ny, h, 2.0)
	psi := mkVelField(nx, ny, h, 0.5)
	buf := &Buffer{P: p, Psi: psi, MuM: 0.01}

	updatePressure(buf, g, 0.2)

	for j := 0; j < ny; j++ {
		for i := 0; i < nx; i++ {
			chk.Float64(tst, "p", 1e-12, p.Data[p.Idx(i, j, 0)], 2.5)
		}
	}
}
