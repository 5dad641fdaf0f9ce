// Copyright 2016 The Gofem Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package velocity

import (
	"github.com/cpmech/govof/grid"
	"github.com/cpmech/govof/halo"
	"github.com/cpmech/govof/linsys"
	"github.com/cpmech/govof/pencil"
)

// RKCoef is one (α, β, γ) triple of the three-stage low-storage
// Runge-Kutta table: a process-wide constant, never mutated.
type RKCoef struct{ Alpha, Beta, Gamma float64 }

// RKTable is the standard three-stage low-storage RK3 table
// (Spalart-Moser-Rogers coefficients); γ doubles as the
// implicit/pressure coefficient.
var RKTable = [3]RKCoef{
	{Alpha: 32.0 / 60.0, Beta: 0.0, Gamma: 32.0 / 60.0},
	{Alpha: 25.0 / 60.0, Beta: -17.0 / 60.0, Gamma: 8.0 / 60.0},
	{Alpha: 45.0 / 60.0, Beta: -25.0 / 60.0, Gamma: 20.0 / 60.0},
}

// Face index conventions, shared by every loop in this package and by the
// sim driver's γ-source assembly: cells occupy 0..N-1 per axis; an x face
// i sits between cells i-1 and i, so the unknown ux faces are 1..Nx-1
// (faces 0 and Nx are the walls, held at zero by halo.ApplyXWall); y and
// z are periodic, so the unique uy (uz) faces are 0..Ny-1 (0..Nz-1) with
// the wrapped face living in the exchanged halo slot.

// ComputeSource fills buf's SrcA{X,Y,Z} for component comp with every
// explicit term (advection by all three velocities, diffusion along
// explicit axes, buoyancy for Ux, and the already-computed
// surface-tension body force), over the field's interior. Implicit-axis diffusion is *not* included here: it belongs to
// the γ-weighted source (GammaSource) consumed by the implicit solve.
func ComputeSource(buf *Buffer, g *grid.Grid, comp Component) {
	switch comp {
	case Ux:
		computeSourceUx(buf, g)
	case Uy:
		computeSourceUy(buf, g)
	case Uz:
		computeSourceUz(buf, g)
	}
}

func computeSourceUx(buf *Buffer, g *grid.Grid) {
	f := buf.Ux
	nx, ny, nz := f.Nx, f.Ny, f.Nz
	n := 0
	for k := 0; k < nz; k++ {
		for j := 0; j < ny; j++ {
			for i := 1; i < nx; i++ {
				uxC := f.Data[f.Idx(i, j, k)]
				uxM := f.Data[f.Idx(i-1, j, k)]
				uxP := f.Data[f.Idx(i+1, j, k)]

				// advection by ux: second-order central, width-weighted
				// half-sums; the face-i control volume spans the two cell
				// centres, width Dxc[i]
				halfM := 0.5 * (uxC + uxM)
				halfP := 0.5 * (uxC + uxP)
				adv := -(halfP*halfP - halfM*halfM) / g.Dxc[i]

				// advection by uy, uz: centred half-averages of the
				// transporting velocity
				uyAtFace := 0.25 * (buf.Uy.Data[buf.Uy.Idx(i-1, j, k)] + buf.Uy.Data[buf.Uy.Idx(i, j, k)] +
					buf.Uy.Data[buf.Uy.Idx(i-1, j+1, k)] + buf.Uy.Data[buf.Uy.Idx(i, j+1, k)])
				dUxDy := (f.Data[f.Idx(i, j+1, k)] - f.Data[f.Idx(i, j-1, k)]) / (2 * g.Dy)
				adv -= uyAtFace * dUxDy

				if g.D == grid.D3 {
					uzAtFace := 0.25 * (buf.Uz.Data[buf.Uz.Idx(i-1, j, k)] + buf.Uz.Data[buf.Uz.Idx(i, j, k)] +
						buf.Uz.Data[buf.Uz.Idx(i-1, j, k+1)] + buf.Uz.Data[buf.Uz.Idx(i, j, k+1)])
					dUxDz := (f.Data[f.Idx(i, j, k+1)] - f.Data[f.Idx(i, j, k-1)]) / (2 * g.Dz)
					adv -= uzAtFace * dUxDz
				}

				src := adv
				if !buf.ImplicitX {
					src += buf.MuM * lapXFace(f, g, i, j, k)
				}
				if !buf.ImplicitY {
					src += buf.MuM * lapY(f, g, i, j, k)
				}
				if g.D == grid.D3 && !buf.ImplicitZ {
					src += buf.MuM * lapZ(f, g, i, j, k)
				}
				if buf.AddBuoyancy && buf.T != nil {
					src += 0.5 * (buf.T.Data[buf.T.Idx(i-1, j, k)] + buf.T.Data[buf.T.Idx(i, j, k)])
				}
				if buf.IfrcX != nil {
					src += buf.IfrcX.Data[buf.IfrcX.Idx(i, j, k)]
				}
				buf.SrcAX[n] = src
				n++
			}
		}
	}
}

// stretchedLaplacian is the non-uniform second difference generalised to
// unequal spacings dcM (to the lower neighbour) and dcP (to the upper).
func stretchedLaplacian(uM, uC, uP, dcM, dcP float64) float64 {
	return 2.0 * (uM/(dcM*(dcM+dcP)) - uC/(dcM*dcP) + uP/(dcP*(dcM+dcP)))
}

// lapXFace is the stretched x Laplacian at an x face i, whose neighbours
// are the faces one cell width away on either side.
func lapXFace(f *halo.Field3, g *grid.Grid, i, j, k int) float64 {
	return stretchedLaplacian(f.Data[f.Idx(i-1, j, k)], f.Data[f.Idx(i, j, k)], f.Data[f.Idx(i+1, j, k)],
		g.Dxf[i-1], g.Dxf[i])
}

// lapXCell is the stretched x Laplacian at a cell-centred x location i
// (used by uy/uz, whose x index is a cell index).
func lapXCell(f *halo.Field3, g *grid.Grid, i, j, k int) float64 {
	return stretchedLaplacian(f.Data[f.Idx(i-1, j, k)], f.Data[f.Idx(i, j, k)], f.Data[f.Idx(i+1, j, k)],
		g.Dxc[i], g.Dxc[i+1])
}

func lapY(f *halo.Field3, g *grid.Grid, i, j, k int) float64 {
	return (f.Data[f.Idx(i, j-1, k)] - 2*f.Data[f.Idx(i, j, k)] + f.Data[f.Idx(i, j+1, k)]) / (g.Dy * g.Dy)
}

func lapZ(f *halo.Field3, g *grid.Grid, i, j, k int) float64 {
	return (f.Data[f.Idx(i, j, k-1)] - 2*f.Data[f.Idx(i, j, k)] + f.Data[f.Idx(i, j, k+1)]) / (g.Dz * g.Dz)
}

func computeSourceUy(buf *Buffer, g *grid.Grid) {
	f := buf.Uy
	nx, ny, nz := f.Nx, f.Ny, f.Nz
	n := 0
	for k := 0; k < nz; k++ {
		for j := 0; j < ny; j++ {
			for i := 0; i < nx; i++ {
				uyC := f.Data[f.Idx(i, j, k)]
				dUyDy := (f.Data[f.Idx(i, j+1, k)] - f.Data[f.Idx(i, j-1, k)]) / (2 * g.Dy)
				adv := -uyC * dUyDy

				uxAtFace := 0.25 * (buf.Ux.Data[buf.Ux.Idx(i, j-1, k)] + buf.Ux.Data[buf.Ux.Idx(i, j, k)] +
					buf.Ux.Data[buf.Ux.Idx(i+1, j-1, k)] + buf.Ux.Data[buf.Ux.Idx(i+1, j, k)])
				dUyDx := (f.Data[f.Idx(i+1, j, k)] - f.Data[f.Idx(i-1, j, k)]) / (g.Dxc[i] + g.Dxc[i+1])
				adv -= uxAtFace * dUyDx

				src := adv
				if !buf.ImplicitX {
					src += buf.MuM * lapXCell(f, g, i, j, k)
				}
				if !buf.ImplicitY {
					src += buf.MuM * lapY(f, g, i, j, k)
				}
				if g.D == grid.D3 {
					if !buf.ImplicitZ {
						src += buf.MuM * lapZ(f, g, i, j, k)
					}
					uzAtFace := 0.25 * (buf.Uz.Data[buf.Uz.Idx(i, j-1, k)] + buf.Uz.Data[buf.Uz.Idx(i, j, k)] +
						buf.Uz.Data[buf.Uz.Idx(i, j-1, k+1)] + buf.Uz.Data[buf.Uz.Idx(i, j, k+1)])
					dUyDz := (f.Data[f.Idx(i, j, k+1)] - f.Data[f.Idx(i, j, k-1)]) / (2 * g.Dz)
					src -= uzAtFace * dUyDz
				}
				if buf.IfrcY != nil {
					src += buf.IfrcY.Data[buf.IfrcY.Idx(i, j, k)]
				}
				buf.SrcAY[n] = src
				n++
			}
		}
	}
}

func computeSourceUz(buf *Buffer, g *grid.Grid) {
	if g.D != grid.D3 {
		return
	}
	f := buf.Uz
	nx, ny, nz := f.Nx, f.Ny, f.Nz
	n := 0
	for k := 0; k < nz; k++ {
		for j := 0; j < ny; j++ {
			for i := 0; i < nx; i++ {
				uzC := f.Data[f.Idx(i, j, k)]
				dUzDz := (f.Data[f.Idx(i, j, k+1)] - f.Data[f.Idx(i, j, k-1)]) / (2 * g.Dz)
				adv := -uzC * dUzDz

				uxAtFace := 0.25 * (buf.Ux.Data[buf.Ux.Idx(i, j, k-1)] + buf.Ux.Data[buf.Ux.Idx(i, j, k)] +
					buf.Ux.Data[buf.Ux.Idx(i+1, j, k-1)] + buf.Ux.Data[buf.Ux.Idx(i+1, j, k)])
				dUzDx := (f.Data[f.Idx(i+1, j, k)] - f.Data[f.Idx(i-1, j, k)]) / (g.Dxc[i] + g.Dxc[i+1])
				adv -= uxAtFace * dUzDx

				uyAtFace := 0.25 * (buf.Uy.Data[buf.Uy.Idx(i, j, k-1)] + buf.Uy.Data[buf.Uy.Idx(i, j, k)] +
					buf.Uy.Data[buf.Uy.Idx(i, j+1, k-1)] + buf.Uy.Data[buf.Uy.Idx(i, j+1, k)])
				dUzDy := (f.Data[f.Idx(i, j+1, k)] - f.Data[f.Idx(i, j-1, k)]) / (2 * g.Dy)
				adv -= uyAtFace * dUzDy

				src := adv
				if !buf.ImplicitX {
					src += buf.MuM * lapXCell(f, g, i, j, k)
				}
				if !buf.ImplicitY {
					src += buf.MuM * lapY(f, g, i, j, k)
				}
				if !buf.ImplicitZ {
					src += buf.MuM * lapZ(f, g, i, j, k)
				}
				if buf.IfrcZ != nil {
					src += buf.IfrcZ.Data[buf.IfrcZ.Idx(i, j, k)]
				}
				buf.SrcAZ[n] = src
				n++
			}
		}
	}
}

// PressureGradient returns -(p(i)-p(i-1))/dxc evaluated at face i (or the
// analogous centred form for y, z).
func PressureGradient(buf *Buffer, g *grid.Grid, comp Component, i, j, k int) float64 {
	switch comp {
	case Ux:
		return -(buf.P.Data[buf.P.Idx(i, j, k)] - buf.P.Data[buf.P.Idx(i-1, j, k)]) / g.Dxc[i]
	case Uy:
		return -(buf.P.Data[buf.P.Idx(i, j, k)] - buf.P.Data[buf.P.Idx(i, j-1, k)]) / g.Dy
	default:
		return -(buf.P.Data[buf.P.Idx(i, j, k)] - buf.P.Data[buf.P.Idx(i, j, k-1)]) / g.Dz
	}
}

// GammaSource assembles the γ-weighted source for one component over the
// same face ordering as SrcA: the pressure gradient plus, for every axis
// flagged implicit, the diffusion term evaluated at the current state.
func GammaSource(buf *Buffer, g *grid.Grid, comp Component) []float64 {
	var f *halo.Field3
	switch comp {
	case Ux:
		f = buf.Ux
	case Uy:
		f = buf.Uy
	default:
		f = buf.Uz
	}
	out := make([]float64, sourceLen(f, comp))
	n := 0
	forEachFace(f, comp, func(i, j, k int) {
		s := PressureGradient(buf, g, comp, i, j, k)
		if buf.ImplicitX {
			if comp == Ux {
				s += buf.MuM * lapXFace(f, g, i, j, k)
			} else {
				s += buf.MuM * lapXCell(f, g, i, j, k)
			}
		}
		if buf.ImplicitY {
			s += buf.MuM * lapY(f, g, i, j, k)
		}
		if g.D == grid.D3 && buf.ImplicitZ {
			s += buf.MuM * lapZ(f, g, i, j, k)
		}
		out[n] = s
		n++
	})
	return out
}

// forEachFace visits comp's unknown faces in the flat source order
// (x fastest, then y, then z) shared by ComputeSource, GammaSource and
// applyIncrement.
func forEachFace(f *halo.Field3, comp Component, fn func(i, j, k int)) {
	iLo, iHi := 0, f.Nx
	if comp == Ux {
		iLo, iHi = 1, f.Nx // interior faces 1..Nx-1
	}
	for k := 0; k < f.Nz; k++ {
		for j := 0; j < f.Ny; j++ {
			for i := iLo; i < iHi; i++ {
				fn(i, j, k)
			}
		}
	}
}

func sourceLen(f *halo.Field3, comp Component) int {
	nx := f.Nx
	if comp == Ux {
		nx = f.Nx - 1
	}
	return nx * f.Ny * f.Nz
}

// Advance applies one RK stage to component comp: forms
// du = α·dt·src_a + β·dt·src_b + γ·dt·src_g, runs the
// implicit solve for every axis flagged implicit, and adds the result to
// the velocity field in place. srcG comes from GammaSource, evaluated by
// the caller before any component mutates the shared pressure/velocity
// state for this stage.
func Advance(buf *Buffer, g *grid.Grid, comp Component, rk RKCoef, dt float64, srcG []float64,
	scaf *linsys.Scaffold, comm pencil.Comm) {

	var f *halo.Field3
	var srcA, srcB []float64
	switch comp {
	case Ux:
		f, srcA, srcB = buf.Ux, buf.SrcAX, buf.SrcBX
	case Uy:
		f, srcA, srcB = buf.Uy, buf.SrcAY, buf.SrcBY
	case Uz:
		f, srcA, srcB = buf.Uz, buf.SrcAZ, buf.SrcBZ
	}

	n := len(srcA)
	du := make([]float64, n)
	for idx := 0; idx < n; idx++ {
		du[idx] = rk.Alpha*dt*srcA[idx] + rk.Beta*dt*srcB[idx] + rk.Gamma*dt*srcG[idx]
	}

	kappa := 0.5 * buf.MuM * rk.Gamma * dt
	if buf.ImplicitX {
		setXOperator(scaf, g, comp, kappa, buf.WallNoSlip)
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

	applyIncrement(f, comp, du)
}

// setXOperator fills scaf.SysX's diagonals with I - κ·L_x for comp's x
// layout: ux solves over its interior faces (both wall neighbours carry a
// zero increment, so the end rows simply truncate); uy/uz solve over the
// cells, with the wall ghost increment folded into the end-row centre via
// the tangential reflection sign.
func setXOperator(scaf *linsys.Scaffold, g *grid.Grid, comp Component, kappa float64, noSlip bool) {
	sys := scaf.SysX
	nSys := sys.N
	if comp == Ux {
		for r := 0; r < nSys; r++ {
			i := r + 1 // face index
			dfM, dfP := g.Dxf[i-1], g.Dxf[i]
			sys.L[r] = -kappa * 2.0 / (dfM * (dfM + dfP))
			sys.C[r] = 1 + kappa*2.0/(dfM*dfP)
			sys.U[r] = -kappa * 2.0 / (dfP * (dfM + dfP))
		}
		return
	}
	sign := 1.0
	if noSlip {
		sign = -1.0
	}
	for i := 0; i < nSys; i++ {
		dcM, dcP := g.Dxc[i], g.Dxc[i+1]
		lo := 2.0 / (dcM * (dcM + dcP))
		up := 2.0 / (dcP * (dcM + dcP))
		sys.L[i] = -kappa * lo
		sys.C[i] = 1 + kappa*2.0/(dcM*dcP)
		sys.U[i] = -kappa * up
		if i == 0 {
			sys.C[i] -= kappa * sign * lo
		}
		if i == nSys-1 {
			sys.C[i] -= kappa * sign * up
		}
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

func applyIncrement(f *halo.Field3, comp Component, du []float64) {
	n := 0
	forEachFace(f, comp, func(i, j, k int) {
		f.Data[f.Idx(i, j, k)] += du[n]
		n++
	})
}
