// Copyright 2016 The Gofem Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package velocity implements the velocity predictor and the velocity
// corrector / pressure update: per-face finite-volume sources assembled
// from a fixed list of physical terms, then an optional per-direction
// implicit solve and the ∇ψ projection.
package velocity

import "github.com/cpmech/govof/halo"

// Component identifies which velocity face-component a Predictor acts on.
type Component int

const (
	Ux Component = iota
	Uy
	Uz
)

// Axis returns the index of this component's own axis (0=x,1=y,2=z).
func (c Component) Axis() int { return int(c) }

// Buffer is the full set of per-rank, halo-padded arrays the predictor and
// corrector read and write. Every array shares halo.Field3's row-major,
// x-innermost indexing convention.
type Buffer struct {
	Ux, Uy, Uz *halo.Field3 // face-centred velocities
	P, Psi     *halo.Field3 // cell-centred pressure, potential
	T          *halo.Field3 // cell-centred temperature (nil if solve_temp is off)

	// surface-tension body forces, one per face direction
	IfrcX, IfrcY, IfrcZ *halo.Field3

	// RK double-buffered sources, one pair per component, sized to the
	// interior only.
	SrcAX, SrcBX []float64
	SrcAY, SrcBY []float64
	SrcAZ, SrcBZ []float64

	MuM float64 // momentum diffusivity sqrt(Pr/Ra)

	ImplicitX, ImplicitY, ImplicitZ bool
	AddBuoyancy                     bool
	WallNoSlip                      bool // tangential wall treatment, odd vs even reflection
}

// SwapSources rotates the RK double buffer before computing a new
// stage's explicit source: the previous stage's src_a becomes src_b (the
// β term) and the new src_a starts zeroed.
func (b *Buffer) SwapSources() {
	b.SrcAX, b.SrcBX = b.SrcBX, b.SrcAX
	b.SrcAY, b.SrcBY = b.SrcBY, b.SrcAY
	b.SrcAZ, b.SrcBZ = b.SrcBZ, b.SrcAZ
	zero(b.SrcAX)
	zero(b.SrcAY)
	zero(b.SrcAZ)
}

func zero(s []float64) {
	for i := range s {
		s[i] = 0
	}
}
