// Copyright 2016 The Gofem Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package linsys

import (
	"math"
	"testing"

	"github.com/cpmech/gosl/chk"

	"github.com/cpmech/govof/pencil"
)

type fakeComm struct{}

func (fakeComm) Rank() int { return 0 }
func (fakeComm) Size() int { return 1 }
func (fakeComm) SendRecv(sendBuf []float64, sendTo int, recvBuf []float64, recvFrom int) {
	copy(recvBuf, sendBuf)
}

// Test_solveAxisX01 drives Scaffold.SolveAxisX with the same Dirichlet
// manufactured-solution setup as tridiag's own Thomas test, checking the
// scaffold wiring reproduces the bare tri-diagonal solve.
func Test_solveAxisX01(tst *testing.T) {

	chk.PrintTitle("solveAxisX01")

	n := 17
	h := 1.0 / 16.0
	j := 3.0

	s := NewScaffold(false, n, n, 1, 1, 1)
	for i := 1; i < n-1; i++ {
		s.SysX.L[i] = 1.0 / (h * h)
		s.SysX.C[i] = -2.0 / (h * h)
		s.SysX.U[i] = 1.0 / (h * h)
	}
	s.SysX.C[0] = 1
	s.SysX.C[n-1] = 1

	// exact discrete solution: the continuous one scaled by (πh/sin(πh))²
	scale := math.Pow(math.Pi*h/math.Sin(math.Pi*h), 2)
	expected := make([]float64, n)
	for i := 0; i < n; i++ {
		x := float64(i) * h
		s.BufX1[i] = -(2 * math.Pi) * (2 * math.Pi) * j * math.Sin(2*math.Pi*x)
		expected[i] = scale * j * math.Sin(2*math.Pi*x)
	}
	s.BufX1[0] = 0
	s.BufX1[n-1] = 0

	s.SolveAxisX()

	chk.Array(tst, "q", 1e-9, s.BufX1, expected)
}

// Test_solveAxisY01 routes the periodic manufactured-solution setup
// through Scaffold.SolveAxisY, whose X1<->Y1 transpose degenerates to an
// identity copy at nRanks=1 and a trivial (length-1) contiguous x axis
// (pencil.BuildPlan's single-rank, single-column case), so the result
// must match what Periodic.Solve produces directly.
func Test_solveAxisY01(tst *testing.T) {

	chk.PrintTitle("solveAxisY01")

	n := 64
	h := 1.0 / 64.0
	phase := 2 * math.Pi / 6.0

	s := NewScaffold(false, 1, n, 1, n, 1)
	l := make([]float64, n)
	c := make([]float64, n)
	u := make([]float64, n)
	for i := range l {
		l[i] = 1.0 / (h * h)
		c[i] = -2.0 / (h * h)
		u[i] = 1.0 / (h * h)
	}
	s.EnsureY(l, c, u)
	plan := pencil.BuildPlan(pencil.X1, pencil.Y1, 1, 1, n, 1, 1, 1)
	s.AttachPlans(plan)

	// exact discrete solution: the continuous one scaled by (πh/sin(πh))²
	scale := math.Pow(math.Pi*h/math.Sin(math.Pi*h), 2)
	expected := make([]float64, n)
	for i := 0; i < n; i++ {
		x := float64(i) * h
		s.BufX1[i] = -(2 * math.Pi) * (2 * math.Pi) * math.Sin(2*math.Pi*x+phase)
		expected[i] = scale * math.Sin(2*math.Pi*x+phase)
	}

	s.SolveAxisY(fakeComm{})

	meanSol, meanExp := 0.0, 0.0
	for i := 0; i < n; i++ {
		meanSol += s.BufX1[i]
		meanExp += expected[i]
	}
	meanSol /= float64(n)
	meanExp /= float64(n)

	shifted := make([]float64, n)
	for i := 0; i < n; i++ {
		shifted[i] = s.BufX1[i] - meanSol + meanExp
	}

	chk.Array(tst, "q (mean-shifted)", 1e-6, shifted, expected)
}
