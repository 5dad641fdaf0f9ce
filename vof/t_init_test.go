// Copyright 2016 The Gofem Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package vof

import (
	"testing"

	"github.com/cpmech/gosl/chk"

	"github.com/cpmech/govof/grid"
	"github.com/cpmech/govof/halo"
)

// Test_quadratureShape01 checks a cell entirely inside (resp. outside) a
// sphere gets liquid fraction 1 (resp. 0), and a cell straddling the
// interface gets a fraction strictly between.
func Test_quadratureShape01(tst *testing.T) {

	chk.PrintTitle("quadratureShape01")

	q := NewQuadratureShape(Sphere(0, 0, 0, 1.0), 2, 4)

	dx, dy := 0.1, 0.1
	full := q.InitCell(0, 0, 0, dx, dy, 0) // cell centred at the origin, well inside r=1
	chk.Float64(tst, "fully inside", 1e-9, full, 1)

	empty := q.InitCell(5, 5, 0, dx, dy, 0) // far outside
	chk.Float64(tst, "fully outside", 1e-9, empty, 0)

	straddle := q.InitCell(1.0, 0, 0, dx, dy, 0) // centred exactly on the interface
	if straddle <= 0 || straddle >= 1 {
		tst.Errorf("straddling cell should get a fraction strictly between 0 and 1, got %v", straddle)
	}
}

// Test_plane01 checks Plane's half-space sign convention: points on the
// negative-normal side are liquid (Phi<0).
func Test_plane01(tst *testing.T) {

	chk.PrintTitle("plane01")

	phi := Plane(0, 0, 0, 1, 0, 0)
	if phi(-1, 0, 0) >= 0 {
		tst.Error("point on the negative-normal side should have Phi<0")
	}
	if phi(1, 0, 0) <= 0 {
		tst.Error("point on the positive-normal side should have Phi>0")
	}
}

// Test_fillVOF01 checks FillVOF writes InitCell's result at every interior
// cell using the grid's own centres and spacings.
func Test_fillVOF01(tst *testing.T) {

	chk.PrintTitle("fillVOF01")

	nx, ny, h := 8, 8, 2
	g := grid.NewUniform(grid.D2, nx, ny, 0, 1, 1, 0, ny, 1, 0, 0)
	q := NewQuadratureShape(Sphere(0.5, 0.5, 0, 0.3), 2, 4)

	total := (nx + 2*h) * (ny + 2*h) * (1 + 2*h)
	vofField := &halo.Field3{Data: make([]float64, total), Nx: nx, Ny: ny, Nz: 1, Halo: h}
	FillVOF(q, vofField, g)

	for j := 0; j < ny; j++ {
		for i := 0; i < nx; i++ {
			x := g.Xc[i]
			y := (float64(j) + 0.5) * g.Dy
			want := q.InitCell(x, y, 0, g.Dxf[i], g.Dy, 0)
			got := vofField.Data[vofField.Idx(i, j, 0)]
			chk.Float64(tst, "vof", 1e-15, got, want)
		}
	}
}
