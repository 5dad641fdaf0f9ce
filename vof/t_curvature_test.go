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

func newTestGrid2D(n int) *grid.Grid {
	return grid.NewUniform(grid.D2, n, n, 0, 1, 1, 0, n, 1, 0, 0)
}

func newTestField(g *grid.Grid, haloWidth int) *halo.Field3 {
	total := (g.Mx + 2*haloWidth) * (g.My + 2*haloWidth) * (1 + 2*haloWidth)
	return &halo.Field3{Data: make([]float64, total), Nx: g.Mx, Ny: g.My, Nz: 1, Halo: haloWidth}
}

// Test_curvature01 fills a diffuse circular interface of radius 0.25 and
// checks that the reconstructed curvature magnitude at interface cells
// matches the analytic value 1/R = 4 (a disc has constant curvature
// everywhere on its boundary).
func Test_curvature01(tst *testing.T) {

	chk.PrintTitle("curvature01")

	n := 64
	haloW := 2
	g := newTestGrid2D(n)
	dx := g.Dxf[0]

	vofField := newTestField(g, haloW)
	for j := -haloW; j < n+haloW; j++ {
		for i := -haloW; i < n+haloW; i++ {
			x := (float64(i) + 0.5) * dx
			y := (float64(j) + 0.5) * dx
			r := math.Sqrt((x-0.5)*(x-0.5) + (y-0.5)*(y-0.5))
			vofField.Data[vofField.Idx(i, j, 0)] = 1.0 / (1.0 + math.Exp(-2*Beta*(0.25-r)))
		}
	}

	dvof := NewVecField(n, n, 1, haloW, 3)
	curv := newTestField(g, haloW)
	ComputeCornerGradients(vofField, dvof, g)
	ComputeCurvature(dvof, curv, g)

	sum, count := 0.0, 0
	for j := 0; j < n; j++ {
		for i := 0; i < n; i++ {
			v := vofField.Data[vofField.Idx(i, j, 0)]
			if v > 0.1 && v < 0.9 {
				sum += math.Abs(curv.Data[curv.Idx(i, j, 0)])
				count++
			}
		}
	}
	mean := sum / float64(count)

	chk.Float64(tst, "mean |curvature| of a radius-0.25 circle", 0.6, mean, 4.0)
}

// Test_normals01 builds a purely planar interface (vof constant along the
// plane's tangent direction) and checks that ComputeNormals recovers the
// known unit normal.
func Test_normals01(tst *testing.T) {

	chk.PrintTitle("normals01")

	n := 32
	haloW := 2
	g := newTestGrid2D(n)
	dx := g.Dxf[0]

	nTrue := [2]float64{1, 0}
	dTrue := -0.2 // plane at x = 0.5 - dTrue/nTrue[0] ... see H formula below

	vofField := newTestField(g, haloW)
	for j := -haloW; j < n+haloW; j++ {
		for i := -haloW; i < n+haloW; i++ {
			x := (float64(i)+0.5)*dx - 0.5
			y := (float64(j)+0.5)*dx - 0.5
			dot := nTrue[0]*x + nTrue[1]*y
			vofField.Data[vofField.Idx(i, j, 0)] = 1.0 / (1.0 + math.Exp(-2*Beta*(dot+dTrue)))
		}
	}

	dvof := NewVecField(n, n, 1, haloW, 3)
	normal := NewVecField(n, n, 1, haloW, 3)
	gauss := NewGaussNodes(2)
	ComputeCornerGradients(vofField, dvof, g)
	ComputeNormals(vofField, dvof, normal, g, gauss)

	// sample a handful of interior interface cells, away from any wall
	checked := 0
	for j := n / 2 - 2; j <= n/2+2; j++ {
		i := n / 2
		v := vofField.Data[vofField.Idx(i, j, 0)]
		if v < VOFMin || v > 1-VOFMin {
			continue
		}
		chk.Float64(tst, "nx", 0.05, normal.At(i, j, 0, 0), nTrue[0])
		chk.Float64(tst, "ny", 0.05, normal.At(i, j, 0, 1), nTrue[1])
		checked++
	}
	if checked == 0 {
		tst.Fatal("no interface cells sampled")
	}
}
