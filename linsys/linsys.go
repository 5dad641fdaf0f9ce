// Copyright 2016 The Gofem Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package linsys couples the pencil decomposition and the tri-diagonal
// solver, owning the pencil buffers and the diagonal descriptors needed
// for one field's per-direction implicit sweep. One Scaffold exists per
// (field, grid-layout) pair and lives for the whole simulation.
package linsys

import (
	"github.com/cpmech/govof/pencil"
	"github.com/cpmech/govof/tridiag"
)

// Scaffold owns everything one implicit-direction sweep over one field
// needs: the X1 buffer the caller fills, a Y1 buffer to transpose into
// when the implicit axis isn't x, a repack scratch for the 3D y sweep,
// the X1<->Y1 transpose plan, and one tri-diagonal System/Periodic
// descriptor per axis.
//
// Buffer layouts: BufX1 is in source order [z][y][x] with x contiguous;
// in 3D it is repacked into BufPlan ([y][x][z], the transpose plan's
// order) before the X1->Y1 transpose. BufY1 after the transpose is
// (GlobalX) x (GlobalY) x (Mz passenger) with the passenger innermost, so
// z is contiguous and y is strided by Mz. The y sweep therefore repacks
// through BufSwap in 3D; the z sweep runs on BufY1 directly.
type Scaffold struct {
	Is3D bool

	GlobalX, GlobalY, GlobalZ int // field-specific extents (e.g. ux uses Gx-1 in x)
	My, Mz                    int // this rank's local y, z extents in the X1 pencil

	BufX1   []float64 // X1-pencil buffer in source order [z][y][x], x contiguous
	BufY1   []float64 // Y1-pencil buffer: GlobalX x GlobalY x Mz (full y after the gather transpose)
	BufSwap []float64 // 3D only: [x][z][y] repack scratch for the y sweep
	BufPlan []float64 // 3D only: [y][x][z] repack of BufX1 in the transpose plan's order

	PlanX1Y1 *pencil.Plan

	SysX *tridiag.System   // x axis is never periodic
	SysY *tridiag.Periodic // y is always periodic
	SysZ *tridiag.Periodic // z is always periodic (3D only)
}

// NewScaffold allocates a Scaffold for a field whose staggered global
// extents are (gx, gy, gz); my, mz are this rank's local y, z extents in
// the X1 pencil (mirroring grid.NewUniform's own my, mz parameters; gx
// is never split). Buffers are sized once to the pencil orientation each
// will hold rather than reallocated per sweep.
func NewScaffold(is3D bool, gx, gy, gz, my, mz int) *Scaffold {
	s := &Scaffold{Is3D: is3D, GlobalX: gx, GlobalY: gy, GlobalZ: gz, My: my, Mz: mz}
	s.BufX1 = make([]float64, gx*my*mz)
	s.BufY1 = make([]float64, gx*gy*mz)
	if is3D {
		s.BufSwap = make([]float64, gx*gy*mz)
		s.BufPlan = make([]float64, gx*my*mz)
	}
	s.SysX = tridiag.NewSystem(gx)
	// SysY (and, in 3D, SysZ) start as the identity periodic operator so
	// SolveAxisY/SolveAxisZ never dereference a nil *tridiag.Periodic: a
	// field with no implicit y/z diffusion configured simply never calls
	// EnsureY/EnsureZ and the identity leaves the transposed buffer
	// untouched.
	s.SysY = identityPeriodic(gy)
	if is3D {
		s.SysZ = identityPeriodic(gz)
	}
	return s
}

func identityPeriodic(n int) *tridiag.Periodic {
	l := make([]float64, n)
	c := make([]float64, n)
	u := make([]float64, n)
	for i := range c {
		c[i] = 1
	}
	return tridiag.NewPeriodic(l, c, u)
}

// EnsureY (re)builds the y-direction periodic tri-diagonal descriptor from
// the diagonals l, c, u (length gy). The operator depends on γ·dt for the
// current RK stage, so this always rebuilds rather than
// caching after the first call — the caller decides when the diagonals
// have actually changed.
func (s *Scaffold) EnsureY(l, c, u []float64) {
	s.SysY = tridiag.NewPeriodic(l, c, u)
}

// EnsureZ is EnsureY's 3D-only z-axis analogue.
func (s *Scaffold) EnsureZ(l, c, u []float64) {
	s.SysZ = tridiag.NewPeriodic(l, c, u)
}

// AttachPlans wires the X1<->Y1 transpose plan, built once by the caller
// (who knows the process grid) and cached here for the scaffold's
// lifetime; transposes are the expensive collective synchronisation
// points and must never be rebuilt mid-simulation.
func (s *Scaffold) AttachPlans(xy *pencil.Plan) {
	s.PlanX1Y1 = xy
}

// SolveAxisX runs the batched non-periodic tri-diagonal solve on s.BufX1:
// My*Mz stacked right-hand sides of length GlobalX (the X1 pencil already
// has x contiguous, so no transpose is needed for the x sweep).
func (s *Scaffold) SolveAxisX() {
	s.SysX.SolveRealBatch(s.BufX1, s.My*s.Mz)
}

// SolveAxisY transposes s.BufX1 into s.BufY1, runs the batched periodic
// solve along y, and transposes the result back — the caller supplies the
// communicator since the Scaffold itself never talks to MPI directly
//. In 3D the solve runs on the [x][z][y] repack of
// BufY1 so the y rows are contiguous.
func (s *Scaffold) SolveAxisY(c pencil.Comm) {
	in := s.transposeIn()
	pencil.Execute(c, s.PlanX1Y1, in, s.BufY1)
	if s.Is3D && s.Mz > 1 {
		s.repackYZ(s.BufY1, s.BufSwap)
		s.SysY.SolveBatch(s.BufSwap, s.GlobalX*s.Mz)
		s.repackZY(s.BufSwap, s.BufY1)
	} else {
		s.SysY.SolveBatch(s.BufY1, s.GlobalX*s.Mz)
	}
	// reverse leg: the structural inverse of the transpose above, using
	// the same plan.
	pencil.ExecuteInverse(c, s.PlanX1Y1, s.BufY1, in)
	s.transposeOut(in)
}

// SolveAxisZ gathers y via the X1->Y1 transpose, whose output already has
// z contiguous (the passenger axis), runs the batched periodic solve
// along z, and transposes back.
func (s *Scaffold) SolveAxisZ(c pencil.Comm) {
	in := s.transposeIn()
	pencil.Execute(c, s.PlanX1Y1, in, s.BufY1)
	s.SysZ.SolveBatch(s.BufY1, s.GlobalX*s.GlobalY)
	pencil.ExecuteInverse(c, s.PlanX1Y1, s.BufY1, in)
	s.transposeOut(in)
}

// transposeIn hands the X1->Y1 transpose its [y][x][z]-ordered input: in
// 2D that is BufX1 itself (the two orders coincide at Mz==1); in 3D it is
// the BufPlan repack of BufX1's [z][y][x] source order.
func (s *Scaffold) transposeIn() []float64 {
	if !s.Is3D || s.Mz == 1 {
		return s.BufX1
	}
	gx, my, mz := s.GlobalX, s.My, s.Mz
	for k := 0; k < mz; k++ {
		for j := 0; j < my; j++ {
			for i := 0; i < gx; i++ {
				s.BufPlan[j*gx*mz+i*mz+k] = s.BufX1[k*my*gx+j*gx+i]
			}
		}
	}
	return s.BufPlan
}

// transposeOut undoes transposeIn's reorder after the reverse transpose
// leg wrote the result back into `in`.
func (s *Scaffold) transposeOut(in []float64) {
	if len(in) == 0 || &in[0] == &s.BufX1[0] {
		return
	}
	gx, my, mz := s.GlobalX, s.My, s.Mz
	for k := 0; k < mz; k++ {
		for j := 0; j < my; j++ {
			for i := 0; i < gx; i++ {
				s.BufX1[k*my*gx+j*gx+i] = s.BufPlan[j*gx*mz+i*mz+k]
			}
		}
	}
}

// repackYZ turns the [x][y][z] Y1 layout into [x][z][y] so y rows are
// contiguous; repackZY is its inverse.
func (s *Scaffold) repackYZ(in, out []float64) {
	gy, mz := s.GlobalY, s.Mz
	for x := 0; x < s.GlobalX; x++ {
		base := x * gy * mz
		for y := 0; y < gy; y++ {
			for z := 0; z < mz; z++ {
				out[base+z*gy+y] = in[base+y*mz+z]
			}
		}
	}
}

func (s *Scaffold) repackZY(in, out []float64) {
	gy, mz := s.GlobalY, s.Mz
	for x := 0; x < s.GlobalX; x++ {
		base := x * gy * mz
		for y := 0; y < gy; y++ {
			for z := 0; z < mz; z++ {
				out[base+y*mz+z] = in[base+z*gy+y]
			}
		}
	}
}
