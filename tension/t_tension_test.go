// Copyright 2016 The Gofem Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package tension

import (
	"testing"

	"github.com/cpmech/gosl/chk"

	"github.com/cpmech/govof/grid"
	"github.com/cpmech/govof/halo"
)

func mkField(nx, ny, h int, fill func(i, j int) float64) *halo.Field3 {
	total := (nx + 2*h) * (ny + 2*h) * (1 + 2*h)
	f := &halo.Field3{Data: make([]float64, total), Nx: nx, Ny: ny, Nz: 1, Halo: h}
	for j := -h; j < ny+h; j++ {
		for i := -h; i < nx+h; i++ {
			f.Data[f.Idx(i, j, 0)] = fill(i, j)
		}
	}
	return f
}

// Test_computeX01 checks ComputeX against the closed-form CSF term for a
// constant curvature field and a linear vof ramp, for which the centred
// difference is exact.
func Test_computeX01(tst *testing.T) {

	chk.PrintTitle("computeX01")

	nx, ny, h := 6, 1, 2
	g := grid.NewUniform(grid.D2, nx, ny, 0, 1, 1, 0, ny, 1, 0, 0)
	dx := g.Dxf[0]

	kappa := 3.0
	curv := mkField(nx, ny, h, func(i, j int) float64 { return kappa })

	a := 0.7 // vof ramp slope
	vof := mkField(nx, ny, h, func(i, j int) float64 { return a * (float64(i) + 0.5) * dx })

	ifrcX := mkField(nx, ny, h, func(i, j int) float64 { return 0 })
	sigma := 0.2
	ComputeX(vof, curv, g, sigma, ifrcX)

	for i := 1; i < nx; i++ { // interior faces; wall faces carry no force
		want := sigma * kappa * a
		got := ifrcX.Data[ifrcX.Idx(i, 0, 0)]
		chk.Float64(tst, "ifrcX", 1e-12, got, want)
	}
	chk.Float64(tst, "ifrcX wall face", 1e-15, ifrcX.Data[ifrcX.Idx(0, 0, 0)], 0)
}

// Test_compute3D01 checks ComputeZ is a no-op for a 2D grid.
func Test_compute3D01(tst *testing.T) {

	chk.PrintTitle("compute3D01")

	nx, ny, h := 4, 4, 2
	g := grid.NewUniform(grid.D2, nx, ny, 0, 1, 1, 0, ny, 1, 0, 0)

	curv := mkField(nx, ny, h, func(i, j int) float64 { return 1 })
	vof := mkField(nx, ny, h, func(i, j int) float64 { return float64(i) })
	ifrcZ := mkField(nx, ny, h, func(i, j int) float64 { return -9 })

	ComputeZ(vof, curv, g, 1.0, ifrcZ)

	for j := 0; j < ny; j++ {
		for i := 0; i < nx; i++ {
			chk.Float64(tst, "ifrcZ untouched", 1e-15, ifrcZ.Data[ifrcZ.Idx(i, j, 0)], -9)
		}
	}
}
