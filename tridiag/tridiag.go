// Copyright 2016 The Gofem Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package tridiag implements the batched tri-diagonal solver: Thomas
// elimination for non-periodic systems and Sherman-Morrison reduction
// for periodic ones, for both real and complex right-hand sides.
// System.SolveRealBatch reuses a scratch buffer held by its System;
// SolveComplexBatch and Periodic.Solve allocate their scratch per call.
package tridiag

import "math"

// eps is the pivot-degeneracy threshold below which a row is treated as
// singular and its solution entry is clamped to zero.
const eps = 1e-12

// System describes one (or, batched, several stacked) tri-diagonal
// matrix(es) T = tri(l, c, u) of length N. l[0] and u[N-1] are unused by
// the non-periodic solver; the periodic solver uses them for the
// Sherman-Morrison correction.
type System struct {
	N int
	L []float64 // len N, lower diagonal; L[i] multiplies q[i-1]
	C []float64 // len N, centre diagonal
	U []float64 // len N, upper diagonal; U[i] multiplies q[i+1]

	// scratch, resized on demand, never shared across concurrent solves
	uScratch []float64
}

// NewSystem allocates a System of length n with zeroed diagonals.
func NewSystem(n int) *System {
	return &System{N: n, L: make([]float64, n), C: make([]float64, n), U: make([]float64, n)}
}

func (s *System) scratch() []float64 {
	if len(s.uScratch) != s.N {
		s.uScratch = make([]float64, s.N)
	}
	return s.uScratch
}

// SolveRealBatch solves M independent systems sharing the diagonals s.L,
// s.C, s.U (non-periodic), with right-hand sides stacked as M blocks of
// length s.N in rhs (rhs[m*N : m*N+N]). The solution overwrites rhs in
// place.
func (s *System) SolveRealBatch(rhs []float64, m int) {
	n := s.N
	uPrime := s.scratch()
	for blk := 0; blk < m; blk++ {
		r := rhs[blk*n : blk*n+n]
		solveRealThomas(s.L, s.C, s.U, r, uPrime, n)
	}
}

// SolveComplexBatch solves M independent systems sharing the real
// diagonals l, c, u (length n each), with complex right-hand sides stacked
// as M blocks of length n in rhs. Used by the Poisson solver's per-(ky,kz)
// tri-diagonal solves, where the operator's
// diagonals are real but the transformed RHS is complex.
func SolveComplexBatch(l, c, u []float64, rhs []complex128, n, m int) {
	uPrime := make([]float64, n)
	for blk := 0; blk < m; blk++ {
		r := rhs[blk*n : blk*n+n]
		solveComplexThomas(l, c, u, r, uPrime, n)
	}
}

// solveRealThomas runs the Thomas algorithm in place on r (length n),
// using l, c, u (length n, shared across sibling systems so never
// mutated) and the caller-supplied scratch uPrime (length n).
func solveRealThomas(l, c, u, r, uPrime []float64, n int) {
	pivot := c[0]
	if math.Abs(pivot) < eps {
		uPrime[0] = 0
		r[0] = 0
	} else {
		uPrime[0] = u[0] / pivot
		r[0] = r[0] / pivot
	}
	for i := 1; i < n; i++ {
		pivot = c[i] - l[i]*uPrime[i-1]
		if math.Abs(pivot) < eps {
			uPrime[i] = 0
			r[i] = 0
			continue
		}
		uPrime[i] = u[i] / pivot
		r[i] = (r[i] - l[i]*r[i-1]) / pivot
	}
	for i := n - 2; i >= 0; i-- {
		r[i] -= uPrime[i] * r[i+1]
	}
}

// solveComplexThomas is solveRealThomas with a complex right-hand side and
// real diagonals.
func solveComplexThomas(l, c, u []float64, r []complex128, uPrime []float64, n int) {
	pivot := c[0]
	if math.Abs(pivot) < eps {
		uPrime[0] = 0
		r[0] = 0
	} else {
		uPrime[0] = u[0] / pivot
		r[0] = r[0] / complex(pivot, 0)
	}
	for i := 1; i < n; i++ {
		pivot = c[i] - l[i]*uPrime[i-1]
		if math.Abs(pivot) < eps {
			uPrime[i] = 0
			r[i] = 0
			continue
		}
		uPrime[i] = u[i] / pivot
		r[i] = (r[i] - complex(l[i], 0)*r[i-1]) / complex(pivot, 0)
	}
	for i := n - 2; i >= 0; i-- {
		r[i] -= complex(uPrime[i], 0) * r[i+1]
	}
}

// --- periodic (Sherman-Morrison) ---

// Periodic wraps a same-size non-periodic System with corner-corrected
// diagonals and the cached rank-one correction vector needed to recover
// the periodic solution via Sherman-Morrison-Woodbury,
// following the classic cyclic-tridiagonal reduction (Numerical Recipes
// §2.7): the wrap-around couplings l[0] (row 0 to x[N-1]) and u[N-1] (row
// N-1 to x[0]) are peeled off as a rank-one perturbation so that two
// ordinary Thomas solves recover the exact periodic solution. The
// auxiliary solve and the corner-corrected diagonals depend only on l, c,
// u, so a Periodic stays valid for as long as those diagonals are
// unchanged.
type Periodic struct {
	N                  int
	Reduced            *System // same size N, corner-corrected diagonals
	alpha, beta, gamma float64 // alpha=u[N-1] (bottom-left corner), beta=l[0] (top-right corner), gamma=-c[0] (Sherman-Morrison shift)
	z                  []float64
}

// NewPeriodic builds the corner-corrected non-periodic system and
// precomputes the auxiliary solve z used by every subsequent Solve call.
// l, c, u have length N and describe the full periodic tri-diagonal
// operator (l[0] and u[N-1] are the wrap-around couplings).
func NewPeriodic(l, c, u []float64) *Periodic {
	n := len(l)
	alpha := u[n-1]
	beta := l[0]
	gamma := -c[0]
	if gamma == 0 {
		gamma = 1
	}
	p := &Periodic{N: n, alpha: alpha, beta: beta, gamma: gamma}
	p.Reduced = NewSystem(n)
	copy(p.Reduced.L, l)
	copy(p.Reduced.C, c)
	copy(p.Reduced.U, u)
	p.Reduced.C[0] -= gamma
	p.Reduced.C[n-1] -= alpha * beta / gamma

	// auxiliary perturbation vector u = [gamma, 0, ..., 0, alpha]^T
	uvec := make([]float64, n)
	uvec[0] = gamma
	uvec[n-1] = alpha
	uPrime := make([]float64, n)
	solveRealThomas(p.Reduced.L, p.Reduced.C, p.Reduced.U, uvec, uPrime, n)
	p.z = uvec
	return p
}

// Solve solves the full periodic system for one right-hand side r (length
// N) in place: solve the corner-corrected system for r, then apply the
// Sherman-Morrison-Woodbury correction using the cached auxiliary
// solution z.
func (p *Periodic) Solve(r []float64) {
	n := p.N
	uPrime := make([]float64, n)
	x := append([]float64(nil), r...)
	solveRealThomas(p.Reduced.L, p.Reduced.C, p.Reduced.U, x, uPrime, n)

	num := x[0] + p.beta*x[n-1]/p.gamma
	den := 1 + p.z[0] + p.beta*p.z[n-1]/p.gamma
	if math.Abs(den) < eps {
		copy(r, x)
		return
	}
	fac := num / den
	for i := 0; i < n; i++ {
		r[i] = x[i] - fac*p.z[i]
	}
}

// SolveBatch applies Solve to m stacked right-hand sides of length N.
func (p *Periodic) SolveBatch(rhs []float64, m int) {
	for blk := 0; blk < m; blk++ {
		p.Solve(rhs[blk*p.N : blk*p.N+p.N])
	}
}
