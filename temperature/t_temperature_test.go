// Copyright 2016 The Gofem Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package temperature

import (
	"testing"

	"github.com/cpmech/gosl/chk"

	"github.com/cpmech/govof/grid"
	"github.com/cpmech/govof/halo"
)

func mkField(nx, ny, h int, val float64) *halo.Field3 {
	total := (nx + 2*h) * (ny + 2*h) * (1 + 2*h)
	f := &halo.Field3{Data: make([]float64, total), Nx: nx, Ny: ny, Nz: 1, Halo: h}
	for i := range f.Data {
		f.Data[i] = val
	}
	return f
}

// Test_uniformSource01 checks a perfectly uniform temperature under zero
// velocity produces an identically zero explicit source.
func Test_uniformSource01(tst *testing.T) {

	chk.PrintTitle("uniformSource01")

	nx, ny, h := 8, 8, 2
	g := grid.NewUniform(grid.D2, nx, ny, 0, 1, 1, 0, ny, 1, 0, 0)

	buf := &Buffer{
		T:  mkField(nx, ny, h, 0.3),
		Ux: mkField(nx+1, ny, h, 0.0),
		Uy: mkField(nx, ny+1, h, 0.0),
		Uz: mkField(nx, ny, h, 0.0),
		MuT: 0.02,
	}
	buf.SrcA = make([]float64, nx*ny)

	ComputeSource(buf, g)

	zero := make([]float64, nx*ny)
	chk.Array(tst, "src uniform", 1e-12, buf.SrcA, zero)
}

// Test_quadraticDiffusion01 checks the explicit x-diffusion term against
// the exact discrete second difference of a quadratic profile, for which a
// centred second difference is exact regardless of step size.
func Test_quadraticDiffusion01(tst *testing.T) {

	chk.PrintTitle("quadraticDiffusion01")

	nx, ny, h := 8, 1, 2
	g := grid.NewUniform(grid.D2, nx, ny, 0, 1, 1, 0, ny, 1, 0, 0)
	dx := g.Dxf[0]

	a := 2.5
	T := mkField(nx, ny, h, 0)
	// every row, ghost rows included, carries the same x profile, so the
	// explicit y-diffusion term is zero and only the x term remains
	for j := -h; j < ny+h; j++ {
		for i := -h; i < nx+h; i++ {
			x := (float64(i) + 0.5) * dx
			T.Data[T.Idx(i, j, 0)] = a * x * x
		}
	}

	buf := &Buffer{
		T:  T,
		Ux: mkField(nx+1, ny, h, 0.0),
		Uy: mkField(nx, ny+1, h, 0.0),
		Uz: mkField(nx, ny, h, 0.0),
		MuT: 0.02,
	}
	buf.SrcA = make([]float64, nx*ny)

	ComputeSource(buf, g)

	// interior cells away from the wall (i=2..nx-3) see the exact lap=2a
	for i := 2; i <= nx-3; i++ {
		want := buf.MuT * 2 * a
		got := buf.SrcA[i]
		chk.Float64(tst, "src x-diffusion", 1e-9, got, want)
	}
}
