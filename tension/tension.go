// Copyright 2016 The Gofem Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package tension implements the continuum-surface-force body term the
// velocity predictor adds alongside advection, diffusion and buoyancy,
// in the same face-centred finite-volume idiom velocity.ComputeSource
// establishes.
package tension

import (
	"github.com/cpmech/govof/grid"
	"github.com/cpmech/govof/halo"
)

// ComputeX fills ifrcX with σ·κ_face·(∂vof/∂x)_face at every x face:
// curvature is averaged from the two bracketing cells, the vof gradient
// is the centred difference across the face.
func ComputeX(vof, curv *halo.Field3, g *grid.Grid, sigma float64, ifrcX *halo.Field3) {
	for k := 0; k < ifrcX.Nz; k++ {
		for j := 0; j < ifrcX.Ny; j++ {
			for i := 1; i < ifrcX.Nx; i++ { // wall faces carry no force

				kFace := 0.5 * (curv.Data[curv.Idx(i-1, j, k)] + curv.Data[curv.Idx(i, j, k)])
				dVof := (vof.Data[vof.Idx(i, j, k)] - vof.Data[vof.Idx(i-1, j, k)]) / g.Dxc[i]
				ifrcX.Data[ifrcX.Idx(i, j, k)] = sigma * kFace * dVof
			}
		}
	}
}

// ComputeY is ComputeX generalised to the y axis.
func ComputeY(vof, curv *halo.Field3, g *grid.Grid, sigma float64, ifrcY *halo.Field3) {
	for k := 0; k < ifrcY.Nz; k++ {
		for j := 0; j < ifrcY.Ny; j++ {
			for i := 0; i < ifrcY.Nx; i++ {
				kFace := 0.5 * (curv.Data[curv.Idx(i, j-1, k)] + curv.Data[curv.Idx(i, j, k)])
				dVof := (vof.Data[vof.Idx(i, j, k)] - vof.Data[vof.Idx(i, j-1, k)]) / g.Dy
				ifrcY.Data[ifrcY.Idx(i, j, k)] = sigma * kFace * dVof
			}
		}
	}
}

// ComputeZ is ComputeX generalised to the z axis (3D only).
func ComputeZ(vof, curv *halo.Field3, g *grid.Grid, sigma float64, ifrcZ *halo.Field3) {
	if g.D != grid.D3 {
		return
	}
	for k := 0; k < ifrcZ.Nz; k++ {
		for j := 0; j < ifrcZ.Ny; j++ {
			for i := 0; i < ifrcZ.Nx; i++ {
				kFace := 0.5 * (curv.Data[curv.Idx(i, j, k-1)] + curv.Data[curv.Idx(i, j, k)])
				dVof := (vof.Data[vof.Idx(i, j, k)] - vof.Data[vof.Idx(i, j, k-1)]) / g.Dz
				ifrcZ.Data[ifrcZ.Idx(i, j, k)] = sigma * kFace * dVof
			}
		}
	}
}

// Compute fills all decomposed-direction force fields from a freshly
// computed curvature field (the caller is expected to have run
// vof.ComputeCurvature beforehand).
func Compute(vof, curv *halo.Field3, g *grid.Grid, sigma float64, ifrcX, ifrcY, ifrcZ *halo.Field3) {
	ComputeX(vof, curv, g, sigma, ifrcX)
	ComputeY(vof, curv, g, sigma, ifrcY)
	if g.D == grid.D3 {
		ComputeZ(vof, curv, g, sigma, ifrcZ)
	}
}
