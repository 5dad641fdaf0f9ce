// Copyright 2016 The Gofem Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package poisson implements the scalar-potential Poisson solver:
// ∇²ψ = RHS with Neumann BC in x and periodic BC in the lateral
// directions, via the DFT (general, non-uniform x) or DCT (uniform x)
// pipeline. The solver state is built once and cached for the
// simulation's lifetime.
package poisson

import (
	"math"

	"github.com/cpmech/govof/grid"
	"github.com/cpmech/govof/internal/fftw"
	"github.com/cpmech/govof/pencil"
	"github.com/cpmech/govof/tridiag"
)

// Variant selects which pipeline a Solver runs.
type Variant int

const (
	VariantDFT Variant = iota // general: DFT in y (and z), tri-diag in x
	VariantDCT                // uniform x only: DCT in x, DFT in y (3D), tri-diag (periodic) in the last direction
)

// Solver owns the two alternating real pencil buffers, the complex
// spectral scratch, the cached x-direction tri-diagonal diagonals
// (time-independent), and the FFTW plans for whichever
// variant was selected at construction. Every FFTW plan binds the
// solver-owned buffers it was created over, so the scratch slices are
// allocated once and never replaced afterwards. One Solver is created
// per (grid, decomposition) pair when the simulation is built (sim.New)
// and reused for the simulation's lifetime.
type Solver struct {
	G       *grid.Grid
	Variant Variant
	comm    pencil.Comm
	cart    *pencil.CartGrid

	// x-direction diagonals l[i]=1/(dxc[i]*dxf[i]), u[i]=1/(dxc[i+1]*dxf[i])
	//, Neumann-adjusted per (ky,kz) system at solve time.
	lx, ux []float64

	// two SIMD-sized real buffers the pipeline alternates between so no
	// stage ever writes its own input.
	buf0, buf1 []float64

	// complex spectral scratch, one slice per pipeline role.
	czA, czB, czC []complex128
	rhsC          []complex128

	planXY *pencil.Plan // X1 (real) <-> Y1 (real) pencil transpose

	r2c  *fftw.PlanR2C
	c2r  *fftw.PlanC2R
	c2cF *fftw.PlanC2C
	c2cB *fftw.PlanC2C
	dct  *fftw.PlanR2R
	idct *fftw.PlanR2R
}

// New builds a Solver for g, choosing DFT or DCT by g.Uniform unless
// forceDFT overrides it.
func New(g *grid.Grid, comm pencil.Comm, cart *pencil.CartGrid, forceDFT bool) *Solver {
	s := &Solver{G: g, comm: comm, cart: cart}
	if forceDFT || !g.Uniform {
		s.Variant = VariantDFT
	} else {
		s.Variant = VariantDCT
	}
	s.cacheXDiagonals()
	maxLen := maxPencilSize(g)
	s.buf0 = make([]float64, maxLen)
	s.buf1 = make([]float64, maxLen)
	return s
}

func maxPencilSize(g *grid.Grid) int {
	n := g.Gx * g.My * g.Mz
	if alt := g.Mx * g.Gy * g.Mz; alt > n { // full y after the gather transpose
		n = alt
	}
	return 2 * n // headroom for the complex-valued intermediate stages
}

// cacheXDiagonals precomputes the direction/time-independent l, u
// arrays; the Neumann one-sided-ghost correction to the centre
// diagonal is folded in per (ky,kz) system at solve time since the centre
// diagonal also carries the periodic eigenvalues.
func (s *Solver) cacheXDiagonals() {
	gx := s.G.Gx
	s.lx = make([]float64, gx)
	s.ux = make([]float64, gx)
	for i := 0; i < gx; i++ {
		s.lx[i] = 1.0 / (s.G.Dxc[i] * s.G.Dxf[i])
		s.ux[i] = 1.0 / (s.G.Dxc[i+1] * s.G.Dxf[i])
	}
}

// lambda returns the periodic second-derivative eigenvalue for a
// wavenumber index j out of n points spaced h apart:
// λ(j) = -4/h² sin²(π j / n).
func lambda(j, n int, h float64) float64 {
	s := math.Sin(math.Pi * float64(j) / float64(n))
	return -4.0 / (h * h) * s * s
}

// lambdaDCT is the x-direction eigenvalue used by the DCT variant:
// λx(i) = -4/dx² sin²(π i / (2 Gx)).
func lambdaDCT(i, n int, dx float64) float64 {
	s := math.Sin(math.Pi * float64(i) / float64(2*n))
	return -4.0 / (dx * dx) * s * s
}

// Solve computes ψ from rhs (the local divergence field in the same
// [z][y][x] x-fastest order the sim driver assembles) and writes it into
// psi (same order, interior only; halo.ApplyXWall + ExchangeAxis is the
// caller's job afterward). The 1/(γ·dt) scaling and
// the transform normalisation are folded into the input before the
// forward transforms; no stage divides on the
// way back.
func (s *Solver) Solve(rhs []float64, psi []float64, gammaDt float64) {
	if s.G.D == grid.D3 {
		switch s.Variant {
		case VariantDCT:
			s.solveDCT3(rhs, psi, gammaDt)
		default:
			s.solveDFT3(rhs, psi, gammaDt)
		}
		return
	}
	switch s.Variant {
	case VariantDCT:
		s.solveDCT2(rhs, psi, gammaDt)
	default:
		s.solveDFT2(rhs, psi, gammaDt)
	}
}

// solveXSystems runs the per-wavenumber tri-diagonal x solve on nSys
// stacked complex right-hand sides in s.rhsC, where
// lam[m] is the summed periodic eigenvalue of system m. The Neumann
// one-sided-ghost adjustment folds l[0] and u[gx-1] into the centre; the
// zero-wavenumber system is singular there, and the Thomas solver's pivot
// clamp resolves it.
func (s *Solver) solveXSystems(lam []float64, nSys int) {
	gx := s.G.Gx
	c := make([]float64, gx)
	for m := 0; m < nSys; m++ {
		for i := 0; i < gx; i++ {
			c[i] = -s.lx[i] - s.ux[i] + lam[m]
		}
		c[0] += s.lx[0]
		c[gx-1] += s.ux[gx-1]
		tridiag.SolveComplexBatch(s.lx, c, s.ux, s.rhsC[m*gx:m*gx+gx], gx, 1)
	}
}

// solveDFT2 runs the general pipeline in 2D: transpose to gather y, r2c
// DFT along y, one tri-diagonal solve in x per wavenumber, then the
// reverse legs.
func (s *Solver) solveDFT2(rhs, psi []float64, gammaDt float64) {
	gx, gy, my := s.G.Gx, s.G.Gy, s.G.My
	norm := 1.0 / (gammaDt * float64(gy))
	for i := 0; i < gx*my; i++ {
		s.buf0[i] = rhs[i] * norm
	}

	// transpose X1(real) -> Y1(real): y becomes contiguous, full length
	pencil.Execute(s.comm, s.planXY, s.buf0[:gx*my], s.buf1[:gx*gy])

	nk := gy/2 + 1
	if s.czA == nil {
		s.czA = make([]complex128, gx*nk)
		s.rhsC = make([]complex128, gx*nk)
	}
	if s.r2c == nil {
		s.r2c = fftw.NewPlanR2C(gy, gx, s.buf1, s.czA)
	}
	s.r2c.Execute()

	// re-lay [x][ky] into per-wavenumber x-contiguous systems (the X2
	// orientation — a local reshape, since the gather transpose already
	// left x fully local)
	lam := make([]float64, nk)
	for k := 0; k < nk; k++ {
		lam[k] = lambda(k, gy, s.G.Dy)
		for i := 0; i < gx; i++ {
			s.rhsC[k*gx+i] = s.czA[i*nk+k]
		}
	}
	s.solveXSystems(lam, nk)
	for k := 0; k < nk; k++ {
		for i := 0; i < gx; i++ {
			s.czA[i*nk+k] = s.rhsC[k*gx+i]
		}
	}

	if s.c2r == nil {
		s.c2r = fftw.NewPlanC2R(gy, gx, s.czA, s.buf1)
	}
	s.c2r.Execute()

	pencil.ExecuteInverse(s.comm, s.planXY, s.buf1[:gx*gy], psi[:gx*my])
}

// solveDFT3 is the 3D pipeline: gather y, r2c along the contiguous z
// axis, c2c along y, per-(ky,kz) x solves, then every leg in reverse.
// The half-spectrum lives in z rather than y — the two orderings commute,
// and z is the axis the gathered layout keeps contiguous.
func (s *Solver) solveDFT3(rhs, psi []float64, gammaDt float64) {
	gx, gy, gz, my := s.G.Gx, s.G.Gy, s.G.Gz, s.G.My
	norm := 1.0 / (gammaDt * float64(gy) * float64(gz))

	// [z][y][x] -> plan order [y][x][z]
	for k := 0; k < gz; k++ {
		for j := 0; j < my; j++ {
			for i := 0; i < gx; i++ {
				s.buf0[j*gx*gz+i*gz+k] = rhs[k*my*gx+j*gx+i] * norm
			}
		}
	}
	pencil.Execute(s.comm, s.planXY, s.buf0[:gx*my*gz], s.buf1[:gx*gy*gz]) // -> [x][y][z]

	nkz := gz/2 + 1
	nky := gy
	if s.czA == nil {
		s.czA = make([]complex128, gx*gy*nkz)
		s.czB = make([]complex128, gx*nkz*gy)
		s.czC = make([]complex128, gx*nkz*gy)
		s.rhsC = make([]complex128, gx*nky*nkz)
	}
	if s.r2c == nil {
		s.r2c = fftw.NewPlanR2C(gz, gx*gy, s.buf1, s.czA)
	}
	s.r2c.Execute() // [x][y][kz]

	for i := 0; i < gx; i++ {
		for j := 0; j < gy; j++ {
			for kz := 0; kz < nkz; kz++ {
				s.czB[(i*nkz+kz)*gy+j] = s.czA[(i*gy+j)*nkz+kz]
			}
		}
	}
	if s.c2cF == nil {
		s.c2cF = fftw.NewPlanC2C(gy, gx*nkz, s.czB, s.czC, fftw.Forward)
		s.c2cB = fftw.NewPlanC2C(gy, gx*nkz, s.czC, s.czB, fftw.Inverse)
	}
	s.c2cF.Execute() // [x][kz][ky]

	lam := make([]float64, nky*nkz)
	for ky := 0; ky < nky; ky++ {
		for kz := 0; kz < nkz; kz++ {
			m := ky*nkz + kz
			lam[m] = lambda(ky, gy, s.G.Dy) + lambda(kz, gz, s.G.Dz)
			for i := 0; i < gx; i++ {
				s.rhsC[m*gx+i] = s.czC[(i*nkz+kz)*gy+ky]
			}
		}
	}
	s.solveXSystems(lam, nky*nkz)
	for ky := 0; ky < nky; ky++ {
		for kz := 0; kz < nkz; kz++ {
			m := ky*nkz + kz
			for i := 0; i < gx; i++ {
				s.czC[(i*nkz+kz)*gy+ky] = s.rhsC[m*gx+i]
			}
		}
	}

	s.c2cB.Execute() // [x][kz][y] in czB
	for i := 0; i < gx; i++ {
		for j := 0; j < gy; j++ {
			for kz := 0; kz < nkz; kz++ {
				s.czA[(i*gy+j)*nkz+kz] = s.czB[(i*nkz+kz)*gy+j]
			}
		}
	}
	if s.c2r == nil {
		s.c2r = fftw.NewPlanC2R(gz, gx*gy, s.czA, s.buf1)
	}
	s.c2r.Execute() // [x][y][z]

	pencil.ExecuteInverse(s.comm, s.planXY, s.buf1[:gx*gy*gz], s.buf0[:gx*my*gz])
	for k := 0; k < gz; k++ {
		for j := 0; j < my; j++ {
			for i := 0; i < gx; i++ {
				psi[k*my*gx+j*gx+i] = s.buf0[j*gx*gz+i*gz+k]
			}
		}
	}
}

// solveDCT2 runs the uniform-x 2D pipeline: DCT-II in x makes x
// homogeneous, the gather transpose makes y contiguous, one periodic
// tri-diagonal (Sherman-Morrison) sweep per x wavenumber solves y, then
// DCT-III inverts. The DCT pair scales by 2·Gx, folded into the input.
func (s *Solver) solveDCT2(rhs, psi []float64, gammaDt float64) {
	gx, gy, my := s.G.Gx, s.G.Gy, s.G.My
	dx := s.G.Dxf[0]
	norm := 1.0 / (gammaDt * float64(2*gx))
	for i := 0; i < gx*my; i++ {
		s.buf0[i] = rhs[i] * norm
	}
	if s.dct == nil {
		s.dct = fftw.NewPlanR2R(gx, my, s.buf0, s.buf1, fftw.REDFT10)
		s.idct = fftw.NewPlanR2R(gx, my, s.buf1, s.buf0, fftw.REDFT01)
	}
	s.dct.Execute() // [y][ix] in buf1

	pencil.Execute(s.comm, s.planXY, s.buf1[:gx*my], s.buf0[:gx*gy]) // -> [ix][y]

	l := make([]float64, gy)
	u := make([]float64, gy)
	c := make([]float64, gy)
	w := 1.0 / (s.G.Dy * s.G.Dy)
	for i := 0; i < gx; i++ {
		lamX := lambdaDCT(i, gx, dx)
		for j := 0; j < gy; j++ {
			l[j], u[j] = w, w
			c[j] = -2*w + lamX
		}
		row := s.buf0[i*gy : i*gy+gy]
		if i == 0 {
			solveSingularPeriodic(l, c, u, row)
		} else {
			tridiag.NewPeriodic(l, c, u).Solve(row)
		}
	}

	pencil.ExecuteInverse(s.comm, s.planXY, s.buf0[:gx*gy], s.buf1[:gx*my])
	s.idct.Execute()
	copy(psi[:gx*my], s.buf0[:gx*my])
}

// solveDCT3 is the 3D uniform-x pipeline: DCT-II in x, r2c DFT in y,
// periodic tri-diagonal sweep in z, all inverted in
// reverse order. Normalisation 2·Gx·Gy is folded into the input.
func (s *Solver) solveDCT3(rhs, psi []float64, gammaDt float64) {
	gx, gy, gz, my := s.G.Gx, s.G.Gy, s.G.Gz, s.G.My
	dx := s.G.Dxf[0]
	norm := 1.0 / (gammaDt * float64(2*gx) * float64(gy))
	for i := 0; i < gx*my*gz; i++ {
		s.buf0[i] = rhs[i] * norm
	}
	if s.dct == nil {
		s.dct = fftw.NewPlanR2R(gx, my*gz, s.buf0, s.buf1, fftw.REDFT10)
		s.idct = fftw.NewPlanR2R(gx, my*gz, s.buf1, s.buf0, fftw.REDFT01)
	}
	s.dct.Execute() // [z][y][ix] in buf1

	// -> plan order [y][ix][z], gather y, then y-contiguous [ix][z][y]
	for k := 0; k < gz; k++ {
		for j := 0; j < my; j++ {
			for i := 0; i < gx; i++ {
				s.buf0[j*gx*gz+i*gz+k] = s.buf1[k*my*gx+j*gx+i]
			}
		}
	}
	pencil.Execute(s.comm, s.planXY, s.buf0[:gx*my*gz], s.buf1[:gx*gy*gz]) // -> [ix][y][z]
	for i := 0; i < gx; i++ {
		for j := 0; j < gy; j++ {
			for k := 0; k < gz; k++ {
				s.buf0[(i*gz+k)*gy+j] = s.buf1[(i*gy+j)*gz+k]
			}
		}
	}

	nky := gy/2 + 1
	if s.czA == nil {
		s.czA = make([]complex128, gx*gz*nky)
	}
	if s.r2c == nil {
		s.r2c = fftw.NewPlanR2C(gy, gx*gz, s.buf0, s.czA)
		s.c2r = fftw.NewPlanC2R(gy, gx*gz, s.czA, s.buf0)
	}
	s.r2c.Execute() // [ix][z][ky]

	l := make([]float64, gz)
	u := make([]float64, gz)
	c := make([]float64, gz)
	re := make([]float64, gz)
	im := make([]float64, gz)
	w := 1.0 / (s.G.Dz * s.G.Dz)
	for i := 0; i < gx; i++ {
		lamX := lambdaDCT(i, gx, dx)
		for ky := 0; ky < nky; ky++ {
			lamSum := lamX + lambda(ky, gy, s.G.Dy)
			for k := 0; k < gz; k++ {
				l[k], u[k] = w, w
				c[k] = -2*w + lamSum
				v := s.czA[(i*gz+k)*nky+ky]
				re[k], im[k] = real(v), imag(v)
			}
			if i == 0 && ky == 0 {
				solveSingularPeriodic(l, c, u, re)
				solveSingularPeriodic(l, c, u, im)
			} else {
				sys := tridiag.NewPeriodic(l, c, u)
				sys.Solve(re)
				sys.Solve(im)
			}
			for k := 0; k < gz; k++ {
				s.czA[(i*gz+k)*nky+ky] = complex(re[k], im[k])
			}
		}
	}

	s.c2r.Execute() // [ix][z][y] in buf0
	for i := 0; i < gx; i++ {
		for j := 0; j < gy; j++ {
			for k := 0; k < gz; k++ {
				s.buf1[(i*gy+j)*gz+k] = s.buf0[(i*gz+k)*gy+j]
			}
		}
	}
	pencil.ExecuteInverse(s.comm, s.planXY, s.buf1[:gx*gy*gz], s.buf0[:gx*my*gz])
	for k := 0; k < gz; k++ {
		for j := 0; j < my; j++ {
			for i := 0; i < gx; i++ {
				s.buf1[k*my*gx+j*gx+i] = s.buf0[j*gx*gz+i*gz+k]
			}
		}
	}
	s.idct.Execute()
	copy(psi[:gx*my*gz], s.buf0[:gx*my*gz])
}

// solveSingularPeriodic solves the zero-eigenvalue periodic system (the
// mean mode, where every row sums to zero and the matrix is singular) by
// pinning the last unknown to zero and running a plain Thomas solve on
// the remaining n-1 rows; for a compatible (zero-mean) right-hand side
// the dropped row is satisfied automatically, and the pinned constant is
// exactly ψ's gauge freedom.
func solveSingularPeriodic(l, c, u, r []float64) {
	n := len(r)
	sys := tridiag.NewSystem(n - 1)
	copy(sys.L, l[:n-1])
	copy(sys.C, c[:n-1])
	copy(sys.U, u[:n-1])
	sys.SolveRealBatch(r[:n-1], 1)
	r[n-1] = 0
}

// AttachTranspose wires the X1<->Y1 plan every variant's gather legs
// need; built by the caller once it knows the process grid (mirrors
// linsys.Scaffold.AttachPlans).
func (s *Solver) AttachTranspose(xy *pencil.Plan) { s.planXY = xy }
