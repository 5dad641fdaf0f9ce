// Copyright 2016 The Gofem Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package velocity

import (
	"github.com/cpmech/govof/grid"
)

// Correct applies the velocity correction and pressure update: subtract
// (γ·dt)·∂ψ/∂x_k at every face, then update pressure as
// p ← p + ψ - (γ·dt·μ/2)·∇²ψ (the Laplacian term vanishes when all
// viscous axes are explicit, recovering the simpler p ← p + ψ). Boundary
// conditions on p and ψ are the caller's responsibility afterward
// (halo.ApplyXWall + ExchangeAxis).
func Correct(buf *Buffer, g *grid.Grid, gammaDt float64) {
	correctUx(buf, g, gammaDt)
	correctUy(buf, g, gammaDt)
	if g.D == grid.D3 {
		correctUz(buf, g, gammaDt)
	}
	updatePressure(buf, g, gammaDt)
}

func correctUx(buf *Buffer, g *grid.Grid, gammaDt float64) {
	f, psi := buf.Ux, buf.Psi
	for k := 0; k < f.Nz; k++ {
		for j := 0; j < f.Ny; j++ {
			for i := 1; i < f.Nx; i++ { // walls (faces 0 and Nx) stay zero
				dPsiDx := (psi.Data[psi.Idx(i, j, k)] - psi.Data[psi.Idx(i-1, j, k)]) / g.Dxc[i]
				f.Data[f.Idx(i, j, k)] -= gammaDt * dPsiDx
			}
		}
	}
}

func correctUy(buf *Buffer, g *grid.Grid, gammaDt float64) {
	f, psi := buf.Uy, buf.Psi
	for k := 0; k < f.Nz; k++ {
		for j := 0; j < f.Ny; j++ {
			for i := 0; i < f.Nx; i++ {
				dPsiDy := (psi.Data[psi.Idx(i, j, k)] - psi.Data[psi.Idx(i, j-1, k)]) / g.Dy
				f.Data[f.Idx(i, j, k)] -= gammaDt * dPsiDy
			}
		}
	}
}

func correctUz(buf *Buffer, g *grid.Grid, gammaDt float64) {
	f, psi := buf.Uz, buf.Psi
	for k := 0; k < f.Nz; k++ {
		for j := 0; j < f.Ny; j++ {
			for i := 0; i < f.Nx; i++ {
				dPsiDz := (psi.Data[psi.Idx(i, j, k)] - psi.Data[psi.Idx(i, j, k-1)]) / g.Dz
				f.Data[f.Idx(i, j, k)] -= gammaDt * dPsiDz
			}
		}
	}
}

// updatePressure implements p ← p + ψ - (γ·dt·μ/2)·∇²ψ over the cell
// centres. The Laplacian uses the stretched x operator and
// the uniform y/z operator, same discretisation as the momentum diffusion
// term.
func updatePressure(buf *Buffer, g *grid.Grid, gammaDt float64) {
	p, psi := buf.P, buf.Psi
	halfMuGammaDt := 0.5 * buf.MuM * gammaDt
	anyImplicit := buf.ImplicitX || buf.ImplicitY || buf.ImplicitZ
	for k := 0; k < p.Nz; k++ {
		for j := 0; j < p.Ny; j++ {
			for i := 0; i < p.Nx; i++ {
				psiC := psi.Data[psi.Idx(i, j, k)]
				val := p.Data[p.Idx(i, j, k)] + psiC
				if anyImplicit {
					lap := stretchedLaplacian(psi.Data[psi.Idx(i-1, j, k)], psiC, psi.Data[psi.Idx(i+1, j, k)], g.Dxc[i], g.Dxc[i+1])
					lap += (psi.Data[psi.Idx(i, j-1, k)] - 2*psiC + psi.Data[psi.Idx(i, j+1, k)]) / (g.Dy * g.Dy)
					if g.D == grid.D3 {
						lap += (psi.Data[psi.Idx(i, j, k-1)] - 2*psiC + psi.Data[psi.Idx(i, j, k+1)]) / (g.Dz * g.Dz)
					}
					val -= halfMuGammaDt * lap
				}
				p.Data[p.Idx(i, j, k)] = val
			}
		}
	}
}
