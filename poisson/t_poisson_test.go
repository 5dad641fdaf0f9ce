// Copyright 2016 The Gofem Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package poisson

import (
	"math"
	"testing"

	"github.com/cpmech/gosl/chk"

	"github.com/cpmech/govof/grid"
)

// Test_variantSelect01 checks New picks the DCT variant for a uniform grid
// and the DFT variant for a stretched one or when forceDFT is set, without ever invoking an FFTW plan.
func Test_variantSelect01(tst *testing.T) {

	chk.PrintTitle("variantSelect01")

	gu := grid.NewUniform(grid.D2, 8, 8, 0, 1, 1, 0, 8, 1, 0, 0)
	su := New(gu, nil, nil, false)
	if su.Variant != VariantDCT {
		tst.Error("uniform grid should select VariantDCT")
	}

	sf := New(gu, nil, nil, true)
	if sf.Variant != VariantDFT {
		tst.Error("forceDFT should select VariantDFT even on a uniform grid")
	}

	xf := []float64{0, 0.1, 0.3, 0.6, 1.0}
	gs := grid.NewStretched(grid.D2, xf, 4, 0, 1, 0, 4, 1, 0, 0)
	ss := New(gs, nil, nil, false)
	if ss.Variant != VariantDFT {
		tst.Error("non-uniform grid should select VariantDFT")
	}
}

// Test_cacheXDiagonals01 checks the cached x-direction diagonals against
// the closed-form lx(i)=1/(dxc(i)*dxf(i)), ux(i)=1/(dxc(i+1)*dxf(i)).
func Test_cacheXDiagonals01(tst *testing.T) {

	chk.PrintTitle("cacheXDiagonals01")

	g := grid.NewUniform(grid.D2, 6, 6, 0, 1, 1, 0, 6, 1, 0, 0)
	s := New(g, nil, nil, false)

	for i := 0; i < g.Gx; i++ {
		wantL := 1.0 / (g.Dxc[i] * g.Dxf[i])
		wantU := 1.0 / (g.Dxc[i+1] * g.Dxf[i])
		chk.Float64(tst, "lx", 1e-14, s.lx[i], wantL)
		chk.Float64(tst, "ux", 1e-14, s.ux[i], wantU)
	}
}

// Test_lambda01 checks the periodic and DCT eigenvalue formulas
// directly: lambda(0,...) must vanish (constant mode), and both must
// match the closed-form sin^2 expressions elsewhere.
func Test_lambda01(tst *testing.T) {

	chk.PrintTitle("lambda01")

	n, h := 16, 0.25
	chk.Float64(tst, "lambda(0)", 1e-14, lambda(0, n, h), 0)
	for _, j := range []int{1, 3, 8} {
		want := -4.0 / (h * h) * math.Pow(math.Sin(math.Pi*float64(j)/float64(n)), 2)
		chk.Float64(tst, "lambda(j)", 1e-14, lambda(j, n, h), want)
	}

	chk.Float64(tst, "lambdaDCT(0)", 1e-14, lambdaDCT(0, n, h), 0)
	for _, i := range []int{1, 4, 15} {
		want := -4.0 / (h * h) * math.Pow(math.Sin(math.Pi*float64(i)/float64(2*n)), 2)
		chk.Float64(tst, "lambdaDCT(i)", 1e-14, lambdaDCT(i, n, h), want)
	}
}

// Test_singularPeriodic01 exercises the zero-eigenvalue mode handler: the
// periodic 1D Laplacian applied to a compatible (zero-mean) right-hand
// side must be solved exactly up to the pinned gauge constant, i.e. the
// solution's periodic residual T·q - r vanishes on every row including
// the wrap-around ones.
func Test_singularPeriodic01(tst *testing.T) {

	chk.PrintTitle("singularPeriodic01")

	n := 64
	h := 1.0 / float64(n)
	w := 1.0 / (h * h)
	l := make([]float64, n)
	c := make([]float64, n)
	u := make([]float64, n)
	r := make([]float64, n)
	for i := 0; i < n; i++ {
		l[i], u[i] = w, w
		c[i] = -2 * w
		x := float64(i) * h
		r[i] = -(2 * math.Pi) * (2 * math.Pi) * math.Sin(2*math.Pi*x)
	}
	rhs := append([]float64(nil), r...)

	solveSingularPeriodic(l, c, u, r)

	for i := 0; i < n; i++ {
		im := (i - 1 + n) % n
		ip := (i + 1) % n
		res := l[i]*r[im] + c[i]*r[i] + u[i]*r[ip] - rhs[i]
		if math.Abs(res) > 1e-6*w {
			tst.Fatalf("periodic residual too large at row %d: %v", i, res)
		}
	}

	// and the solution matches sin(2*pi*x) once the gauge is shifted to a
	// common mean
	mean := 0.0
	for i := 0; i < n; i++ {
		mean += r[i]
	}
	mean /= float64(n)
	for i := 0; i < n; i++ {
		x := float64(i) * h
		want := math.Sin(2 * math.Pi * x)
		got := r[i] - mean
		chk.Float64(tst, "singular-mode solution", 5e-3, got, want)
	}
}
