// Copyright 2016 The Gofem Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package vof

import (
	"math"

	"github.com/cpmech/govof/grid"
	"github.com/cpmech/govof/halo"
)

// RKCoef is the 2-term (no γ/implicit stage) RK coefficient pair the VOF
// update uses: the advected fraction carries no pressure or
// implicit-diffusion term, so there is nothing for a γ coefficient to
// multiply.
type RKCoef struct{ Alpha, Beta float64 }

// Buffer holds the advected field, the transporting face velocities, the
// curvature-kernel scratch (normals/corner-gradients, reused every stage
// rather than reallocated), the three face-flux buffers and the RK
// double-buffered sources.
type Buffer struct {
	Vof        *halo.Field3
	Ux, Uy, Uz *halo.Field3

	DVof   *VecField   // corner unit gradients, NComp=3
	Normal *VecField   // cell unit normal + intercept, NComp=D+1 ([0:D]=n, [D]=d)
	Curv   *halo.Field3 // cell-centred curvature, read by the tension kernel

	FluxX, FluxY, FluxZ *halo.Field3

	SrcA, SrcB []float64

	Gauss *GaussNodes
}

// SwapSources mirrors velocity.Buffer.SwapSources and temperature.Buffer.
// SwapSources.
func (b *Buffer) SwapSources() {
	b.SrcA, b.SrcB = b.SrcB, b.SrcA
	for i := range b.SrcA {
		b.SrcA[i] = 0
	}
}

// ComputeGeometry runs the curvature/normal kernel: corner gradients,
// cell normals + Newton intercepts, and cell curvature, in that order.
// Called once per RK stage before tension.Compute (which needs Curv)
// and before ComputeSource (which needs Normal).
func ComputeGeometry(buf *Buffer, g *grid.Grid) {
	ComputeCornerGradients(buf.Vof, buf.DVof, g)
	ComputeNormals(buf.Vof, buf.DVof, buf.Normal, g, buf.Gauss)
	ComputeCurvature(buf.DVof, buf.Curv, g)
}

// ComputeSource recomputes the three face fluxes from the normals
// ComputeGeometry already populated, and fills buf.SrcA with minus the
// discrete divergence of those fluxes, in the same row-major order
// Advance expects.
func ComputeSource(buf *Buffer, g *grid.Grid) {
	ComputeFluxX(buf.Vof, buf.Ux, buf.Normal, g, buf.Gauss, buf.FluxX)
	ComputeFluxY(buf.Vof, buf.Uy, buf.Normal, g, buf.Gauss, buf.FluxY)
	if g.D == grid.D3 {
		ComputeFluxZ(buf.Vof, buf.Uz, buf.Normal, g, buf.Gauss, buf.FluxZ)
	}

	f := buf.Vof
	n := 0
	for k := 0; k < f.Nz; k++ {
		for j := 0; j < f.Ny; j++ {
			for i := 0; i < f.Nx; i++ {
				src := -(buf.FluxX.Data[buf.FluxX.Idx(i+1, j, k)] - buf.FluxX.Data[buf.FluxX.Idx(i, j, k)]) / g.Dxf[i]
				src -= (buf.FluxY.Data[buf.FluxY.Idx(i, j+1, k)] - buf.FluxY.Data[buf.FluxY.Idx(i, j, k)]) / g.Dy
				if g.D == grid.D3 {
					src -= (buf.FluxZ.Data[buf.FluxZ.Idx(i, j, k+1)] - buf.FluxZ.Data[buf.FluxZ.Idx(i, j, k)]) / g.Dz
				}
				buf.SrcA[n] = src
				n++
			}
		}
	}
}

// Advance applies one RK stage, no γ term).
func Advance(buf *Buffer, rk RKCoef, dt float64) {
	f := buf.Vof
	n := 0
	for k := 0; k < f.Nz; k++ {
		for j := 0; j < f.Ny; j++ {
			for i := 0; i < f.Nx; i++ {
				f.Data[f.Idx(i, j, k)] += rk.Alpha*dt*buf.SrcA[n] + rk.Beta*dt*buf.SrcB[n]
				n++
			}
		}
	}
}

// ComputeFluxX fills fluxX with the upwind donor-cell face flux at every
// x face: the donor is the cell the face velocity points out of, its vof
// is read directly if it is outside [VOFMin, 1-VOFMin] (pure phase, no
// quadrature needed), otherwise the diffuse indicator is averaged over
// the face by Gauss quadrature using the donor's reconstructed normal and
// intercept.
func ComputeFluxX(vof, ux *halo.Field3, normal *VecField, g *grid.Grid, gauss *GaussNodes, fluxX *halo.Field3) {
	d := dimOf(g)
	for k := 0; k < ux.Nz; k++ {
		for j := 0; j < ux.Ny; j++ {
			for i := 1; i < ux.Nx; i++ { // wall faces 0 and Nx carry no flux
				u := ux.Data[ux.Idx(i, j, k)]
				donor, side := i-1, +1
				if u < 0 {
					donor, side = i, -1
				}
				fluxX.Data[fluxX.Idx(i, j, k)] = u * donorFaceH(vof, normal, donor, j, k, 0, side, d, gauss)
			}
		}
	}
}

// ComputeFluxY is ComputeFluxX generalised to the y axis.
func ComputeFluxY(vof, uy *halo.Field3, normal *VecField, g *grid.Grid, gauss *GaussNodes, fluxY *halo.Field3) {
	d := dimOf(g)
	// faces 0..Ny inclusive: the divergence reads face j+1 of the last
	// interior cell, so the wrapped face Ny is computed into its halo slot
	// from the exchanged vof/normal halo data rather than re-communicated.
	for k := 0; k < uy.Nz; k++ {
		for j := 0; j <= uy.Ny; j++ {
			for i := 0; i < uy.Nx; i++ {
				u := uy.Data[uy.Idx(i, j, k)]
				donor, side := j-1, +1
				if u < 0 {
					donor, side = j, -1
				}
				fluxY.Data[fluxY.Idx(i, j, k)] = u * donorFaceH(vof, normal, i, donor, k, 1, side, d, gauss)
			}
		}
	}
}

// ComputeFluxZ is ComputeFluxX generalised to the z axis (3D only).
func ComputeFluxZ(vof, uz *halo.Field3, normal *VecField, g *grid.Grid, gauss *GaussNodes, fluxZ *halo.Field3) {
	d := dimOf(g)
	for k := 0; k <= uz.Nz; k++ { // 0..Nz inclusive, as in ComputeFluxY
		for j := 0; j < uz.Ny; j++ {
			for i := 0; i < uz.Nx; i++ {
				u := uz.Data[uz.Idx(i, j, k)]
				donor, side := k-1, +1
				if u < 0 {
					donor, side = k, -1
				}
				fluxZ.Data[fluxZ.Idx(i, j, k)] = u * donorFaceH(vof, normal, i, j, donor, 2, side, d, gauss)
			}
		}
	}
}

func dimOf(g *grid.Grid) int {
	if g.D == grid.D3 {
		return 3
	}
	return 2
}

// donorFaceH returns the diffuse indicator H averaged over the face of
// the donor cell (di,dj,dk) perpendicular to `axis`, on the `side` face
// (+1: the cell's high face, -1: its low face), falling back to the raw
// vof value when the donor is (numerically) a pure-phase cell.
func donorFaceH(vof *halo.Field3, normal *VecField, di, dj, dk, axis, side, d int, gauss *GaussNodes) float64 {
	v := vof.Data[vof.Idx(di, dj, dk)]
	if v < VOFMin || v > 1-VOFMin {
		return v
	}
	n := [3]float64{normal.At(di, dj, dk, 0), normal.At(di, dj, dk, 1), normal.At(di, dj, dk, 2)}
	intercept := normal.At(di, dj, dk, d)
	return faceAverageH(n, intercept, axis, side, d, gauss)
}

// faceAverageH integrates H(x) = 1/(1+exp(-2β(n·x+d))) over the unit-cell
// face perpendicular to `axis` at local coordinate side*0.5, using the
// tensor product of gauss's 1D rule over the remaining D-1 local
// coordinates (whose weights already sum to 1, since they integrate 1
// over [-1/2,1/2]), so the sum below is directly the face average.
func faceAverageH(n [3]float64, intercept float64, axis, side, d int, gauss *GaussNodes) float64 {
	D := math.Exp(-2 * Beta * intercept)
	fixed := 0.5 * float64(side)
	nq := len(gauss.X)
	sum := 0.0
	if d == 2 {
		other := 1 - axis
		var pt [3]float64
		pt[axis] = fixed
		for q := 0; q < nq; q++ {
			pt[other] = gauss.X[q]
			dot := n[0]*pt[0] + n[1]*pt[1]
			P := math.Exp(-2 * Beta * dot)
			sum += gauss.W[q] / (1 + P*D)
		}
		return sum
	}
	o1, o2 := otherTwoAxes(axis)
	var pt [3]float64
	pt[axis] = fixed
	for a := 0; a < nq; a++ {
		pt[o1] = gauss.X[a]
		for b := 0; b < nq; b++ {
			pt[o2] = gauss.X[b]
			dot := n[0]*pt[0] + n[1]*pt[1] + n[2]*pt[2]
			P := math.Exp(-2 * Beta * dot)
			sum += gauss.W[a] * gauss.W[b] / (1 + P*D)
		}
	}
	return sum
}

func otherTwoAxes(axis int) (int, int) {
	switch axis {
	case 0:
		return 1, 2
	case 1:
		return 0, 2
	default:
		return 0, 1
	}
}
