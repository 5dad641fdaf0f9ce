// Copyright 2016 The Gofem Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package tridiag

import (
	"math"
	"testing"

	"github.com/cpmech/gosl/chk"
)

// Test_thomas01 solves a Dirichlet-ended discrete 1D
// Poisson operator whose exact discrete solution is a scaled sinusoid:
// the operator maps sin(2πx) to -(2·sin(πh)/h)²·sin(2πx), so the
// continuous solution is scaled by (πh/sin(πh))².
func Test_thomas01(tst *testing.T) {

	chk.PrintTitle("thomas01")

	n := 17
	h := 1.0 / 16.0
	j := 3.0

	sys := NewSystem(n)
	for i := 1; i < n-1; i++ {
		sys.L[i] = 1.0 / (h * h)
		sys.C[i] = -2.0 / (h * h)
		sys.U[i] = 1.0 / (h * h)
	}
	sys.C[0] = 1
	sys.C[n-1] = 1

	scale := math.Pow(math.Pi*h/math.Sin(math.Pi*h), 2)
	rhs := make([]float64, n)
	expected := make([]float64, n)
	for i := 0; i < n; i++ {
		x := float64(i) * h
		rhs[i] = -(2 * math.Pi) * (2 * math.Pi) * j * math.Sin(2*math.Pi*x)
		expected[i] = scale * j * math.Sin(2*math.Pi*x)
	}
	rhs[0] = 0
	rhs[n-1] = 0

	sys.SolveRealBatch(rhs, 1)

	chk.Array(tst, "q", 1e-9, rhs, expected)
}

// Test_periodic01 solves a periodic Sherman-Morrison
// solve against a sinusoidal manufactured solution (scaled by
// (πh/sin(πh))², the exact discrete solution), checked up to the
// additive constant the periodic operator leaves undetermined.
func Test_periodic01(tst *testing.T) {

	chk.PrintTitle("periodic01")

	n := 64
	h := 1.0 / 64.0
	phase := 2 * math.Pi / 6.0

	l := make([]float64, n)
	c := make([]float64, n)
	u := make([]float64, n)
	for i := range l {
		l[i] = 1.0 / (h * h)
		c[i] = -2.0 / (h * h)
		u[i] = 1.0 / (h * h)
	}

	per := NewPeriodic(l, c, u)

	scale := math.Pow(math.Pi*h/math.Sin(math.Pi*h), 2)
	rhs := make([]float64, n)
	expected := make([]float64, n)
	for i := 0; i < n; i++ {
		x := float64(i) * h
		rhs[i] = -(2 * math.Pi) * (2 * math.Pi) * math.Sin(2*math.Pi*x+phase)
		expected[i] = scale * math.Sin(2*math.Pi*x+phase)
	}

	per.Solve(rhs)

	meanSol, meanExp := 0.0, 0.0
	for i := 0; i < n; i++ {
		meanSol += rhs[i]
		meanExp += expected[i]
	}
	meanSol /= float64(n)
	meanExp /= float64(n)

	shifted := make([]float64, n)
	for i := 0; i < n; i++ {
		shifted[i] = rhs[i] - meanSol + meanExp
	}

	chk.Array(tst, "q (mean-shifted)", 1e-6, shifted, expected)
}
