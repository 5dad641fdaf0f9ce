// Copyright 2016 The Gofem Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package timestep selects the next time step: the advective-CFL and
// diffusive-stability candidates, each scaled by its safety factor and
// reduced to a single global value across every rank.
package timestep

import (
	"math"

	"github.com/cpmech/gosl/utl"

	"github.com/cpmech/govof/grid"
	"github.com/cpmech/govof/halo"
	"github.com/cpmech/govof/mpiutil"
)

// Candidates holds the three per-rank dt estimates,
// each already a true upper bound on that rank's local cells; Select
// reduces across all three kinds and every rank.
type Candidates struct {
	Adv    float64 // advective CFL: min over faces of spacing/|velocity|
	DifM   float64 // momentum diffusive: min over axes of 0.5*spacing^2/muM
	DifT   float64 // thermal diffusive: min over axes of 0.5*spacing^2/muT

	// SafetyAdv, SafetyDif are the config-supplied coef_dt_adv/coef_dt_dif
	// fractions of the respective stability limit actually taken, applied
	// to Adv and to min(DifM, DifT) respectively before the combined
	// minimum so neither margin is compounded with the other.
	SafetyAdv, SafetyDif float64
}

// ComputeAdvective returns the local advective-CFL candidate: the
// smallest, over every face, of (face spacing)/(|face velocity|+ε), the ε
// regularisation applied unconditionally so a stationary fluid never
// starves the integrator of a finite dt without letting a
// near-zero-but-nonzero velocity blow up the candidate right at the skip
// threshold a conditional regularisation would have.
func ComputeAdvective(ux, uy, uz *halo.Field3, g *grid.Grid) float64 {
	const eps = 1e-8
	best := math.Inf(1)
	for k := 0; k < ux.Nz; k++ {
		for j := 0; j < ux.Ny; j++ {
			for i := 1; i < ux.Nx; i++ { // interior faces; walls are pinned at zero
				v := math.Abs(ux.Data[ux.Idx(i, j, k)])
				best = math.Min(best, g.Dxc[i]/(v+eps))
			}
		}
	}
	for k := 0; k < uy.Nz; k++ {
		for j := 0; j < uy.Ny; j++ {
			for i := 0; i < uy.Nx; i++ {
				v := math.Abs(uy.Data[uy.Idx(i, j, k)])
				best = math.Min(best, g.Dy/(v+eps))
			}
		}
	}
	if g.D == grid.D3 {
		for k := 0; k < uz.Nz; k++ {
			for j := 0; j < uz.Ny; j++ {
				for i := 0; i < uz.Nx; i++ {
					v := math.Abs(uz.Data[uz.Idx(i, j, k)])
					best = math.Min(best, g.Dz/(v+eps))
				}
			}
		}
	}
	return best
}

// ComputeDiffusive returns the local diffusive-stability candidate
// 0.5*min(dx,dy,dz)^2/mu for a given diffusivity mu,
// shared by both the momentum and the temperature candidates since the
// discretisation and stability argument are identical.
func ComputeDiffusive(g *grid.Grid, mu float64) float64 {
	minDx := g.Dxf[0]
	for _, dx := range g.Dxf {
		minDx = utl.Min(minDx, dx)
	}
	minSq := minDx * minDx
	minSq = utl.Min(minSq, g.Dy*g.Dy)
	if g.D == grid.D3 {
		minSq = utl.Min(minSq, g.Dz*g.Dz)
	}
	return 0.5 * minSq / mu
}

// Select applies each candidate's own safety factor, combines the three
// into the per-rank minimum, and reduces across all ranks with
// mpiutil.AllReduceMin — the value every rank then uses identically for
// the next RK sweep.
func Select(c Candidates) float64 {
	adv := c.SafetyAdv * c.Adv
	dif := c.SafetyDif * utl.Min(c.DifM, c.DifT)
	local := utl.Min(adv, dif)
	return mpiutil.AllReduceMin(local)
}
