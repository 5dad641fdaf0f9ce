// Copyright 2016 The Gofem Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package temperature implements the temperature integrator:
// structurally identical to the velocity predictor but with
// advection only (no pressure, no surface tension), a single implicit
// diffusivity μ_T, and wall Dirichlet boundary conditions in x absorbed
// into the tri-diagonal right-hand side. Grounded on the same
// residual-assembly idiom as velocity.ComputeSource, generalised from a
// face-centred to a cell-centred field.
package temperature

import (
	"github.com/cpmech/govof/grid"
	"github.com/cpmech/govof/halo"
	"github.com/cpmech/govof/linsys"
	"github.com/cpmech/govof/pencil"
)

// RKCoef mirrors velocity.RKCoef; duplicated here rather than imported so
// the temperature integrator has no compile-time dependency on the
// velocity package.
type RKCoef struct{ Alpha, Beta, Gamma float64 }

// Buffer holds everything the temperature integrator needs: the
// cell-centred field itself, the transporting velocities (read-only), and
// the RK double-buffered sources.
type Buffer struct {
	T          *halo.Field3
	Ux, Uy, Uz *halo.Field3

	SrcA, SrcB []float64

	MuT float64

	ImplicitX, ImplicitY, ImplicitZ bool
}

// SwapSources mirrors velocity.Buffer.SwapSources.
func (b *Buffer) SwapSources() {
	b.SrcA, b.SrcB = b.SrcB, b.SrcA
	for i := range b.SrcA {
		b.SrcA[i] = 0
	}
}

// ComputeSource fills buf.SrcA with the explicit advection (+explicit-axis
// diffusion) terms over the interior, in the same row-major order
// Advance expects.
func ComputeSource(buf *Buffer, g *grid.Grid) {
	f := buf.T
	n := 0
	for k := 0; k < f.Nz; k++ {
		for j := 0; j < f.Ny; j++ {
			for i := 0; i < f.Nx; i++ {
				tC := f.Data[f.Idx(i, j, k)]
				uxFaceM := buf.Ux.Data[buf.Ux.Idx(i, j, k)]
				uxFaceP := buf.Ux.Data[buf.Ux.Idx(i+1, j, k)]
				tM := f.Data[f.Idx(i-1, j, k)]
				tP := f.Data[f.Idx(i+1, j, k)]
				fluxXP := uxFaceP * 0.5 * (tC + tP)
				fluxXM := uxFaceM * 0.5 * (tM + tC)
				adv := -(fluxXP - fluxXM) / g.Dxf[i]

				uyFaceM := buf.Uy.Data[buf.Uy.Idx(i, j, k)]
				uyFaceP := buf.Uy.Data[buf.Uy.Idx(i, j+1, k)]
				tYM := f.Data[f.Idx(i, j-1, k)]
				tYP := f.Data[f.Idx(i, j+1, k)]
				adv -= (uyFaceP*0.5*(tC+tYP) - uyFaceM*0.5*(tYM+tC)) / g.Dy

				if g.D == grid.D3 {
					uzFaceM := buf.Uz.Data[buf.Uz.Idx(i, j, k)]
					uzFaceP := buf.Uz.Data[buf.Uz.Idx(i, j, k+1)]
					tZM := f.Data[f.Idx(i, j, k-1)]
					tZP := f.Data[f.Idx(i, j, k+1)]
					adv -= (uzFaceP*0.5*(tC+tZP) - uzFaceM*0.5*(tZM+tC)) / g.Dz
				}

				src := adv
				if !buf.ImplicitX {
					// Dirichlet-consistent Laplacian coefficients:
					// lower 1/(dxf(i)*dxc(i)), upper 1/(dxf(i)*dxc(i+1))
					lo := 1.0 / (g.Dxf[i] * g.Dxc[i])
					up := 1.0 / (g.Dxf[i] * g.Dxc[i+1])
					src += buf.MuT * (lo*tM - (lo+up)*tC + up*tP)
				}
				if !buf.ImplicitY {
					src += buf.MuT * (tYM - 2*tC + tYP) / (g.Dy * g.Dy)
				}
				if g.D == grid.D3 && !buf.ImplicitZ {
					tZM := f.Data[f.Idx(i, j, k-1)]
					tZP := f.Data[f.Idx(i, j, k+1)]
					src += buf.MuT * (tZM - 2*tC + tZP) / (g.Dz * g.Dz)
				}
				buf.SrcA[n] = src
				n++
			}
		}
	}
}

// GammaSource assembles the γ-weighted source: the diffusion term along
// every implicit axis evaluated at the current state, in the same flat
// order as SrcA. The wall ghosts hold the fixed hot/cold values, so the
// known wall value enters the right-hand side here, while the operator
// rows simply truncate (the ghost carries no increment).
func GammaSource(buf *Buffer, g *grid.Grid) []float64 {
	f := buf.T
	out := make([]float64, f.Nx*f.Ny*f.Nz)
	n := 0
	for k := 0; k < f.Nz; k++ {
		for j := 0; j < f.Ny; j++ {
			for i := 0; i < f.Nx; i++ {
				tC := f.Data[f.Idx(i, j, k)]
				s := 0.0
				if buf.ImplicitX {
					lo := 1.0 / (g.Dxf[i] * g.Dxc[i])
					up := 1.0 / (g.Dxf[i] * g.Dxc[i+1])
					s += buf.MuT * (lo*f.Data[f.Idx(i-1, j, k)] - (lo+up)*tC + up*f.Data[f.Idx(i+1, j, k)])
				}
				if buf.ImplicitY {
					s += buf.MuT * (f.Data[f.Idx(i, j-1, k)] - 2*tC + f.Data[f.Idx(i, j+1, k)]) / (g.Dy * g.Dy)
				}
				if g.D == grid.D3 && buf.ImplicitZ {
					s += buf.MuT * (f.Data[f.Idx(i, j, k-1)] - 2*tC + f.Data[f.Idx(i, j, k+1)]) / (g.Dz * g.Dz)
				}
				out[n] = s
				n++
			}
		}
	}
	return out
}

// Advance applies one RK stage: du = dt·(α·src_a + β·src_b + γ·src_g),
// then, for every implicit axis, solves I - (γ·dt·μ_T/2)·L over du via
// the shared scaffold.
func Advance(buf *Buffer, g *grid.Grid, rk RKCoef, dt float64, scaf *linsys.Scaffold, comm pencil.Comm) {
	srcG := GammaSource(buf, g)
	n := len(buf.SrcA)
	du := make([]float64, n)
	for i := 0; i < n; i++ {
		du[i] = rk.Alpha*dt*buf.SrcA[i] + rk.Beta*dt*buf.SrcB[i] + rk.Gamma*dt*srcG[i]
	}

	kappa := 0.5 * buf.MuT * rk.Gamma * dt
	if buf.ImplicitX {
		setXOperator(scaf, g, kappa)
		copy(scaf.BufX1, du)
		scaf.SolveAxisX()
		copy(du, scaf.BufX1)
	}
	if buf.ImplicitY {
		l, c, u := periodicDiagonals(scaf.GlobalY, g.Dy, kappa)
		scaf.EnsureY(l, c, u)
		copy(scaf.BufX1, du)
		scaf.SolveAxisY(comm)
		copy(du, scaf.BufX1)
	}
	if g.D == grid.D3 && buf.ImplicitZ {
		l, c, u := periodicDiagonals(scaf.GlobalZ, g.Dz, kappa)
		scaf.EnsureZ(l, c, u)
		copy(scaf.BufX1, du)
		scaf.SolveAxisZ(comm)
		copy(du, scaf.BufX1)
	}

	f := buf.T
	n2 := 0
	for k := 0; k < f.Nz; k++ {
		for j := 0; j < f.Ny; j++ {
			for i := 0; i < f.Nx; i++ {
				f.Data[f.Idx(i, j, k)] += du[n2]
				n2++
			}
		}
	}
}

// setXOperator fills scaf.SysX with I - κ·L_x using the Dirichlet-
// consistent coefficients; the wall ghosts hold fixed values, so their
// increment is zero and the end rows truncate without adjustment.
func setXOperator(scaf *linsys.Scaffold, g *grid.Grid, kappa float64) {
	sys := scaf.SysX
	for i := 0; i < sys.N; i++ {
		lo := 1.0 / (g.Dxf[i] * g.Dxc[i])
		up := 1.0 / (g.Dxf[i] * g.Dxc[i+1])
		sys.L[i] = -kappa * lo
		sys.C[i] = 1 + kappa*(lo+up)
		sys.U[i] = -kappa * up
	}
}

// periodicDiagonals builds I - κ·L for a uniformly spaced periodic axis.
func periodicDiagonals(n int, h, kappa float64) (l, c, u []float64) {
	l = make([]float64, n)
	c = make([]float64, n)
	u = make([]float64, n)
	w := kappa / (h * h)
	for i := 0; i < n; i++ {
		l[i] = -w
		c[i] = 1 + 2*w
		u[i] = -w
	}
	return
}
