// Copyright 2016 The Gofem Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package vof

import (
	"math"

	"github.com/cpmech/govof/grid"
	"github.com/cpmech/govof/halo"
)

// VOFMin is the reconstruction-skip threshold: cells
// whose vof lies outside [VOFMin, 1-VOFMin] are treated as pure-phase
// cells and get no normal/curvature reconstruction.
const VOFMin = 1e-8

// Beta is the diffuse-interface sharpness, a fixed
// process-wide constant rather than a per-cell tunable.
const Beta = 2.0

// VecField stores NComp floats per node (cell or corner), addressed with
// the same halo-relative scheme as halo.Field3 so the two interoperate
// without a conversion step: a VecField built over the same Nx/Ny/Nz/Halo
// as a Field3 shares its corner-at-(i,j,k) convention (the corner "below"
// cell (i,j,k), i.e. shared by cells i-1/i, j-1/j, k-1/k).
type VecField struct {
	Data                    []float64
	Nx, Ny, Nz, Halo, NComp int
}

// NewVecField allocates a VecField over the same interior extents and
// halo width as the Field3 it will be derived from or written into.
func NewVecField(nx, ny, nz, halo, ncomp int) *VecField {
	sx := ncomp
	sy := sx * (nx + 2*halo)
	sz := sy * (ny + 2*halo)
	total := sz * (nz + 2*halo)
	return &VecField{Data: make([]float64, total), Nx: nx, Ny: ny, Nz: nz, Halo: halo, NComp: ncomp}
}

func (v *VecField) idx(i, j, k int) int {
	sx := v.NComp
	sy := sx * (v.Nx + 2*v.Halo)
	sz := sy * (v.Ny + 2*v.Halo)
	return (i+v.Halo)*sx + (j+v.Halo)*sy + (k+v.Halo)*sz
}

// At returns component c of the vector at (i,j,k).
func (v *VecField) At(i, j, k, c int) float64 { return v.Data[v.idx(i, j, k)+c] }

// Set stores component c of the vector at (i,j,k).
func (v *VecField) Set(i, j, k, c int, val float64) { v.Data[v.idx(i, j, k)+c] = val }

// ComputeCornerGradients fills dvof with the unit gradient direction at
// every corner from (i-1:i, j-1:j, k-1:k) cell differences divided by the
// corresponding mesh spacing, averaged over the 2 (2D) or 4 (3D) pairs
// that touch the corner, then normalised. Corners
// range over i=0..Nx and one ring beyond the interior in the periodic
// directions (j=-1..Ny+1, and k=-1..Nz+1 in 3D) so that the normals of
// the first halo ring of cells — the donor cells of boundary-face fluxes
// — can be reconstructed too; the width-2 vof halo supplies every cell
// value these extended corners touch.
func ComputeCornerGradients(vof *halo.Field3, dvof *VecField, g *grid.Grid) {
	d := 2
	if g.D == grid.D3 {
		d = 3
	}
	kLo, kHi := 0, 0
	if d == 3 {
		kLo, kHi = -1, dvof.Nz+1
	}
	for k := kLo; k <= kHi; k++ {
		for j := -1; j <= dvof.Ny+1; j++ {
			for i := 0; i <= dvof.Nx; i++ {
				var grad [3]float64
				grad[0] = cornerDiffX(vof, g, i, j, k, d)
				grad[1] = cornerDiffY(vof, g, i, j, k, d)
				if d == 3 {
					grad[2] = cornerDiffZ(vof, g, i, j, k)
				}
				norm := math.Max(math.Sqrt(grad[0]*grad[0]+grad[1]*grad[1]+grad[2]*grad[2]), 1e-300)
				for c := 0; c < d; c++ {
					dvof.Set(i, j, k, c, grad[c]/norm)
				}
			}
		}
	}
}

func zRangeFor(d, k int) []int {
	if d == 2 {
		return []int{k}
	}
	return []int{k - 1, k}
}

func clampX(i, gx int) int {
	if i < 1 {
		return 1
	}
	if i > gx-1 {
		return gx - 1
	}
	return i
}

func cornerDiffX(vof *halo.Field3, g *grid.Grid, i, j, k, d int) float64 {
	sum, n := 0.0, 0
	for _, jj := range []int{j - 1, j} {
		for _, kk := range zRangeFor(d, k) {
			dx := g.Dxc[clampX(i, g.Gx)]
			sum += (vof.Data[vof.Idx(i, jj, kk)] - vof.Data[vof.Idx(i-1, jj, kk)]) / dx
			n++
		}
	}
	return sum / float64(n)
}

func cornerDiffY(vof *halo.Field3, g *grid.Grid, i, j, k, d int) float64 {
	sum, n := 0.0, 0
	for _, ii := range []int{i - 1, i} {
		for _, kk := range zRangeFor(d, k) {
			sum += (vof.Data[vof.Idx(ii, j, kk)] - vof.Data[vof.Idx(ii, j-1, kk)]) / g.Dy
			n++
		}
	}
	return sum / float64(n)
}

func cornerDiffZ(vof *halo.Field3, g *grid.Grid, i, j, k int) float64 {
	sum, n := 0.0, 0
	for _, ii := range []int{i - 1, i} {
		for _, jj := range []int{j - 1, j} {
			sum += (vof.Data[vof.Idx(ii, jj, k)] - vof.Data[vof.Idx(ii, jj, k-1)]) / g.Dz
			n++
		}
	}
	return sum / float64(n)
}

// averageCornerNormals averages the 2^D corner-unit-gradients bracketing
// cell (i,j,k): corners (i,j,k)..(i+1,j+1,k+1) in the dvof "corner below
// the cell" convention.
func averageCornerNormals(dvof *VecField, i, j, k, d int) [3]float64 {
	var sum [3]float64
	count := 0
	kRange := []int{k, k + 1}
	if d == 2 {
		kRange = []int{k}
	}
	for _, ii := range []int{i, i + 1} {
		for _, jj := range []int{j, j + 1} {
			for _, kk := range kRange {
				for c := 0; c < d; c++ {
					sum[c] += dvof.At(ii, jj, kk, c)
				}
				count++
			}
		}
	}
	for c := 0; c < d; c++ {
		sum[c] /= float64(count)
	}
	return sum
}

// gaussTensor is the tensor product of the D Gauss nodes over the unit
// cell, precomputed once per GaussNodes rule and reused for every cell's
// intercept solve.
type gaussTensor struct {
	pts [][3]float64
	w   []float64
}

func precomputeGaussTensor(gauss *GaussNodes, d int) *gaussTensor {
	t := &gaussTensor{}
	n := len(gauss.X)
	if d == 2 {
		for a := 0; a < n; a++ {
			for b := 0; b < n; b++ {
				t.pts = append(t.pts, [3]float64{gauss.X[a], gauss.X[b], 0})
				t.w = append(t.w, gauss.W[a]*gauss.W[b])
			}
		}
		return t
	}
	for a := 0; a < n; a++ {
		for b := 0; b < n; b++ {
			for c := 0; c < n; c++ {
				t.pts = append(t.pts, [3]float64{gauss.X[a], gauss.X[b], gauss.X[c]})
				t.w = append(t.w, gauss.W[a]*gauss.W[b]*gauss.W[c])
			}
		}
	}
	return t
}

// ComputeNormals derives, per cell, the renormalised cell-centred unit
// normal (from the corner-gradient average, rescaled component-wise by
// the local 1/dx,1/dy,1/dz) and the Newton-solved intercept d, over
// the interior plus one halo ring in the
// periodic directions (the flux kernel's donor lookup at a boundary face
// reads the neighbouring rank's cell, whose reconstruction must exist
// locally). Cells whose vof lies outside [VOFMin, 1-VOFMin] are left
// zeroed.
func ComputeNormals(vof *halo.Field3, dvof *VecField, normal *VecField, g *grid.Grid, gauss *GaussNodes) {
	d := 2
	if g.D == grid.D3 {
		d = 3
	}
	quad := precomputeGaussTensor(gauss, d)
	kLo, kHi := 0, normal.Nz
	if d == 3 {
		kLo, kHi = -1, normal.Nz+1
	}
	for k := kLo; k < kHi; k++ {
		for j := -1; j < normal.Ny+1; j++ {
			for i := 0; i < normal.Nx; i++ {
				v := vof.Data[vof.Idx(i, j, k)]
				if v < VOFMin || v > 1-VOFMin {
					for c := 0; c <= d; c++ {
						normal.Set(i, j, k, c, 0)
					}
					continue
				}
				n := averageCornerNormals(dvof, i, j, k, d)
				n[0] /= g.Dxf[i]
				n[1] /= g.Dy
				if d == 3 {
					n[2] /= g.Dz
				}
				norm := math.Max(math.Sqrt(n[0]*n[0]+n[1]*n[1]+n[2]*n[2]), 1e-300)
				for c := 0; c < d; c++ {
					n[c] /= norm
				}
				intercept := solveIntercept(n, v, quad)
				for c := 0; c < d; c++ {
					normal.Set(i, j, k, c, n[c])
				}
				normal.Set(i, j, k, d, intercept)
			}
		}
	}
}

// solveIntercept runs the intercept Newton iteration: with
// P_q = exp(-2*Beta*n.g_q), f(D) = sum_q w_q/(1+P_q*D) - vof, f'(D) =
// -sum_q w_q*P_q/(1+P_q*D)^2, starting from D0 = 1/vof - 1, up to 8 steps
// or |f|<1e-12, then d = -ln(D)/(2*Beta).
func solveIntercept(n [3]float64, vof float64, quad *gaussTensor) float64 {
	nq := len(quad.pts)
	p := make([]float64, nq)
	for q := 0; q < nq; q++ {
		dot := n[0]*quad.pts[q][0] + n[1]*quad.pts[q][1] + n[2]*quad.pts[q][2]
		p[q] = math.Exp(-2 * Beta * dot)
	}
	D := 1.0/vof - 1.0
	if D <= 0 {
		D = 1e-8
	}
	for iter := 0; iter < 8; iter++ {
		f, fp := 0.0, 0.0
		for q := 0; q < nq; q++ {
			denom := 1 + p[q]*D
			f += quad.w[q] / denom
			fp -= quad.w[q] * p[q] / (denom * denom)
		}
		f -= vof
		if math.Abs(f) < 1e-12 {
			break
		}
		if fp == 0 {
			break
		}
		D -= f / fp
		if D <= 0 {
			D = 1e-300
		}
	}
	return -math.Log(D) / (2 * Beta)
}

// ComputeCurvature evaluates the discrete divergence of the corner
// unit-normal field dvof at each cell, each derivative averaged over the
// corners bracketing the cell (divergenceAtCell's 1/2 factor in 2D, 1/4 in
// 3D). Sign convention: κ>0 for a convex liquid interface.
func ComputeCurvature(dvof *VecField, curv *halo.Field3, g *grid.Grid) {
	d := 2
	if g.D == grid.D3 {
		d = 3
	}
	for k := 0; k < curv.Nz; k++ {
		for j := 0; j < curv.Ny; j++ {
			for i := 0; i < curv.Nx; i++ {
				curv.Data[curv.Idx(i, j, k)] = divergenceAtCell(dvof, g, i, j, k, d)
			}
		}
	}
}

// divergenceAtCell sums ∂n_x/∂x + ∂n_y/∂y (+∂n_z/∂z) central-differenced
// across cell (i,j,k) using the corners on its low/high faces, averaged
// over the corners perpendicular to each differenced direction.
func divergenceAtCell(dvof *VecField, g *grid.Grid, i, j, k, d int) float64 {
	dx := g.Dxf[i]
	kRange := []int{k, k + 1}
	if d == 2 {
		kRange = []int{k}
	}

	sumX, count := 0.0, 0.0
	for _, jj := range []int{j, j + 1} {
		for _, kk := range kRange {
			sumX += (dvof.At(i+1, jj, kk, 0) - dvof.At(i, jj, kk, 0)) / dx
			count++
		}
	}
	sumX /= count

	sumY, count2 := 0.0, 0.0
	for _, ii := range []int{i, i + 1} {
		for _, kk := range kRange {
			sumY += (dvof.At(ii, j+1, kk, 1) - dvof.At(ii, j, kk, 1)) / g.Dy
			count2++
		}
	}
	sumY /= count2

	sumZ := 0.0
	if d == 3 {
		count3 := 0.0
		for _, ii := range []int{i, i + 1} {
			for _, jj := range []int{j, j + 1} {
				sumZ += (dvof.At(ii, jj, k+1, 2) - dvof.At(ii, jj, k, 2)) / g.Dz
				count3++
			}
		}
		sumZ /= count3
	}
	return sumX + sumY + sumZ
}
