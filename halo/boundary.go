// Copyright 2016 The Gofem Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package halo

// Kind distinguishes the x-wall treatment of a field, applied after every decomposed-axis exchange.
type Kind int

const (
	KindUx        Kind = iota // wall faces held at 0
	KindTangent                // uy/uz: odd reflection (no-slip) or even (free-slip)
	KindNeumann                // p, psi: ghost = +interior
	KindDirichlet              // T: ghost = fixed hot/cold value
	KindVOF                    // vof: ghost = 0 (no liquid through wall)
)

// ApplyXWall imposes the physical boundary condition on the two x-wall
// ghost layers of f, for the undecomposed x axis. Interior
// cells (or, for ux, faces) occupy local indices 0..Nx-1; ghost layer g
// (1..Halo) sits at -g below the lower wall and Nx+g-1 above the upper.
// For ux the lower wall face is interior index 0 and the upper wall face
// is the first upper ghost slot Nx; both are forced to zero along with
// the remaining ghosts. noSlip only matters for KindTangent
//; hot/cold only matter for
// KindDirichlet.
func ApplyXWall(f *Field3, kind Kind, noSlip bool, hot, cold float64) {
	h := f.Halo
	ny, nz := f.Ny, f.Nz
	for k := -h; k < nz+h; k++ {
		for j := -h; j < ny+h; j++ {
			switch kind {
			case KindUx:
				f.Data[f.idx(0, j, k)] = 0
				for g := 1; g <= h; g++ {
					f.Data[f.idx(-g, j, k)] = 0
					f.Data[f.idx(f.Nx+g-1, j, k)] = 0
				}
			case KindTangent:
				sign := 1.0
				if noSlip {
					sign = -1.0
				}
				for g := 1; g <= h; g++ {
					f.Data[f.idx(-g, j, k)] = sign * f.Data[f.idx(g-1, j, k)]
					f.Data[f.idx(f.Nx+g-1, j, k)] = sign * f.Data[f.idx(f.Nx-g, j, k)]
				}
			case KindNeumann:
				for g := 1; g <= h; g++ {
					f.Data[f.idx(-g, j, k)] = f.Data[f.idx(g-1, j, k)]
					f.Data[f.idx(f.Nx+g-1, j, k)] = f.Data[f.idx(f.Nx-g, j, k)]
				}
			case KindDirichlet:
				// the ghost carries the wall value itself: the wall sits at
				// distance Dxc[0] (half a cell) from the first centre, so the
				// diffusive flux through the wall is (T0-hot)/Dxc[0] when the
				// Laplacian reads the ghost as a neighbour.
				for g := 1; g <= h; g++ {
					f.Data[f.idx(-g, j, k)] = hot
					f.Data[f.idx(f.Nx+g-1, j, k)] = cold
				}
			case KindVOF:
				for g := 1; g <= h; g++ {
					f.Data[f.idx(-g, j, k)] = 0
					f.Data[f.idx(f.Nx+g-1, j, k)] = 0
				}
			}
		}
	}
}
