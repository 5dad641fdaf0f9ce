// Copyright 2016 The Gofem Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package sim is the per-step driver: it owns every other component's
// state for one rank, and sequences one full 3-stage low-storage RK time
// step -- interface geometry, surface tension, VOF update, velocity
// predictor, pressure Poisson solve, velocity correction, temperature --
// with a halo exchange and physical-BC pass on every field between
// stages.
package sim

import (
	"math"

	"github.com/cpmech/gosl/io"
	"github.com/cpmech/gosl/la"

	"github.com/cpmech/govof/config"
	"github.com/cpmech/govof/grid"
	"github.com/cpmech/govof/halo"
	"github.com/cpmech/govof/linsys"
	"github.com/cpmech/govof/pencil"
	"github.com/cpmech/govof/poisson"
	"github.com/cpmech/govof/temperature"
	"github.com/cpmech/govof/tension"
	"github.com/cpmech/govof/timestep"
	"github.com/cpmech/govof/velocity"
	"github.com/cpmech/govof/vof"
)

// DivergenceError reports a non-finite field value: the driver stops and
// reports rather than continuing to integrate garbage.
type DivergenceError struct {
	Field string
	Step  int
	Value float64
}

func (e *DivergenceError) Error() string {
	return io.Sf("sim: %s diverged at step %d (value=%v)", e.Field, e.Step, e.Value)
}

// State owns every per-rank array and sub-solver the time step touches.
type State struct {
	Cfg  *config.Config
	G    *grid.Grid
	Comm pencil.Comm
	Cart *pencil.CartGrid
	Halo int

	Vel  *velocity.Buffer
	Temp *temperature.Buffer // nil when Cfg.SolveTemp is false
	Vof  *vof.Buffer         // nil when Cfg.SolveInterface is false

	Poisson *poisson.Solver

	ScafUx, ScafUy, ScafUz *linsys.Scaffold
	ScafT                  *linsys.Scaffold

	Gauss *vof.GaussNodes

	Step int
	Time float64

	// DivNorm is la.VecNorm of the pre-projection velocity divergence from
	// the most recently completed pressure stage, a cheap per-step health
	// signal for the driver to log.
	DivNorm float64
}

// New allocates every field and sub-solver at the given halo width (2
// covers the widest stencil, the corner-gradient reconstruction).
func New(cfg *config.Config, g *grid.Grid, comm pencil.Comm, cart *pencil.CartGrid, haloWidth int) *State {
	mz := g.Mz
	if g.D != grid.D3 {
		mz = 1
	}
	mCount := g.Mx * g.My * mz

	s := &State{Cfg: cfg, G: g, Comm: comm, Cart: cart, Halo: haloWidth}

	ux := newField3(g.Mx, g.My, mz, haloWidth)
	uy := newField3(g.Mx, g.My, mz, haloWidth)
	uz := newField3(g.Mx, g.My, mz, haloWidth)
	p := newField3(g.Mx, g.My, mz, haloWidth)
	psi := newField3(g.Mx, g.My, mz, haloWidth)
	ifrcX := newField3(g.Mx, g.My, mz, haloWidth)
	ifrcY := newField3(g.Mx, g.My, mz, haloWidth)
	ifrcZ := newField3(g.Mx, g.My, mz, haloWidth)

	mCountX := (g.Mx - 1) * g.My * mz // ux's unknowns are its interior faces
	s.Vel = &velocity.Buffer{
		Ux: ux, Uy: uy, Uz: uz, P: p, Psi: psi,
		IfrcX: ifrcX, IfrcY: ifrcY, IfrcZ: ifrcZ,
		SrcAX: make([]float64, mCountX), SrcBX: make([]float64, mCountX),
		SrcAY: make([]float64, mCount), SrcBY: make([]float64, mCount),
		SrcAZ: make([]float64, mCount), SrcBZ: make([]float64, mCount),
		MuM:         cfg.MuM,
		ImplicitX:   cfg.ImplicitX,
		ImplicitY:   cfg.ImplicitY,
		ImplicitZ:   cfg.ImplicitZ,
		AddBuoyancy: cfg.AddBuoyancy,
		WallNoSlip:  cfg.WallNoSlip,
	}

	if cfg.SolveTemp {
		t := newField3(g.Mx, g.My, mz, haloWidth)
		s.Vel.T = t
		s.Temp = &temperature.Buffer{
			T: t, Ux: ux, Uy: uy, Uz: uz,
			SrcA: make([]float64, mCount), SrcB: make([]float64, mCount),
			MuT:       cfg.MuT,
			ImplicitX: cfg.TImplicitX,
			ImplicitY: cfg.TImplicitY,
			ImplicitZ: cfg.TImplicitZ,
		}
	}

	if cfg.SolveInterface {
		s.Gauss = vof.NewGaussNodes(cfg.NGauss)
		vofField := newField3(g.Mx, g.My, mz, haloWidth)
		curv := newField3(g.Mx, g.My, mz, haloWidth)
		d := 2
		if g.D == grid.D3 {
			d = 3
		}
		s.Vof = &vof.Buffer{
			Vof: vofField, Ux: ux, Uy: uy, Uz: uz,
			DVof:   vof.NewVecField(g.Mx, g.My, mz, haloWidth, 3),
			Normal: vof.NewVecField(g.Mx, g.My, mz, haloWidth, d+1),
			Curv:   curv,
			FluxX:  newField3(g.Mx, g.My, mz, haloWidth),
			FluxY:  newField3(g.Mx, g.My, mz, haloWidth),
			FluxZ:  newField3(g.Mx, g.My, mz, haloWidth),
			SrcA:   make([]float64, mCount), SrcB: make([]float64, mCount),
			Gauss: s.Gauss,
		}
	}

	s.Poisson = poisson.New(g, comm, cart, cfg.UseStretchedGrid)

	s.ScafUx = linsys.NewScaffold(g.D == grid.D3, g.Gx-1, g.Gy, g.Gz, g.My, mz) // ux solves over its Gx-1 interior faces
	s.ScafUy = linsys.NewScaffold(g.D == grid.D3, g.Gx, g.Gy, g.Gz, g.My, mz)
	s.ScafUz = linsys.NewScaffold(g.D == grid.D3, g.Gx, g.Gy, g.Gz, g.My, mz)
	if cfg.SolveTemp {
		s.ScafT = linsys.NewScaffold(g.D == grid.D3, g.Gx, g.Gy, g.Gz, g.My, mz)
	}

	return s
}

func newField3(nx, ny, nz, h int) *halo.Field3 {
	n := (nx + 2*h) * (ny + 2*h) * (nz + 2*h)
	return &halo.Field3{Data: make([]float64, n), Nx: nx, Ny: ny, Nz: nz, Halo: h}
}

// AttachPlans wires every pencil transpose plan that must be built with
// process-grid knowledge the sim package does not itself have (mirrors
// linsys.Scaffold.AttachPlans and poisson.Solver.AttachTranspose). xyUx
// is the plan for ux's narrower Gx-1 x extent; xy serves the cell-centred
// fields (uy, uz, T) and the Poisson solver.
func (s *State) AttachPlans(xyUx, xy *pencil.Plan) {
	s.ScafUx.AttachPlans(xyUx)
	s.ScafUy.AttachPlans(xy)
	s.ScafUz.AttachPlans(xy)
	if s.ScafT != nil {
		s.ScafT.AttachPlans(xy)
	}
	s.Poisson.AttachTranspose(xy)
}

// SelectDt computes the next time step from the current velocity field
// and diffusivities: the global minimum of the advective and diffusive
// candidates across every rank.
func (s *State) SelectDt() float64 {
	c := timestep.Candidates{
		Adv:       timestep.ComputeAdvective(s.Vel.Ux, s.Vel.Uy, s.Vel.Uz, s.G),
		DifM:      timestep.ComputeDiffusive(s.G, s.Cfg.MuM),
		DifT:      math.Inf(1),
		SafetyAdv: s.Cfg.CoefDtAdv,
		SafetyDif: s.Cfg.CoefDtDif,
	}
	if s.Cfg.SolveTemp {
		c.DifT = timestep.ComputeDiffusive(s.G, s.Cfg.MuT)
	}
	return timestep.Select(c)
}

// Advance runs one full time step (all 3 RK stages) at the given dt,
// incrementing s.Step and s.Time on success.
func (s *State) Advance(dt float64) error {
	for stageIdx, rk := range velocity.RKTable {
		if err := s.runStage(stageIdx, rk, dt); err != nil {
			return err
		}
	}
	s.Step++
	s.Time += dt
	return nil
}

func (s *State) runStage(stageIdx int, rk velocity.RKCoef, dt float64) error {
	s.Vel.SwapSources()
	if s.Temp != nil {
		s.Temp.SwapSources()
	}
	if s.Vof != nil {
		s.Vof.SwapSources()
	}

	if s.Vof != nil {
		s.exchangeAndBC(s.Vof.Vof, halo.KindVOF)

		vof.ComputeGeometry(s.Vof, s.G) // normals, intercepts, curvature

		s.exchangeAndBC(s.Vof.Curv, halo.KindNeumann)
		tension.Compute(s.Vof.Vof, s.Vof.Curv, s.G, s.Cfg.Sigma, s.Vel.IfrcX, s.Vel.IfrcY, s.Vel.IfrcZ)

		vof.ComputeSource(s.Vof, s.G)
		vof.Advance(s.Vof, vof.RKCoef{Alpha: rk.Alpha, Beta: rk.Beta}, dt)
		s.exchangeAndBC(s.Vof.Vof, halo.KindVOF)
	}

	velocity.ComputeSource(s.Vel, s.G, velocity.Ux) // explicit momentum sources
	velocity.ComputeSource(s.Vel, s.G, velocity.Uy)
	if s.G.D == grid.D3 {
		velocity.ComputeSource(s.Vel, s.G, velocity.Uz)
	}

	// γ sources (pressure gradient + implicit-axis diffusion at stage
	// start) are all assembled before any component is advanced, so every
	// component reads the same stage-start state.
	srcGX := velocity.GammaSource(s.Vel, s.G, velocity.Ux)
	srcGY := velocity.GammaSource(s.Vel, s.G, velocity.Uy)
	var srcGZ []float64
	if s.G.D == grid.D3 {
		srcGZ = velocity.GammaSource(s.Vel, s.G, velocity.Uz)
	}
	velocity.Advance(s.Vel, s.G, velocity.Ux, rk, dt, srcGX, s.ScafUx, s.Comm)
	velocity.Advance(s.Vel, s.G, velocity.Uy, rk, dt, srcGY, s.ScafUy, s.Comm)
	if s.G.D == grid.D3 {
		velocity.Advance(s.Vel, s.G, velocity.Uz, rk, dt, srcGZ, s.ScafUz, s.Comm)
	}

	s.exchangeAndBC(s.Vel.Ux, halo.KindUx)
	s.exchangeAndBC(s.Vel.Uy, halo.KindTangent)
	if s.G.D == grid.D3 {
		s.exchangeAndBC(s.Vel.Uz, halo.KindTangent)
	}

	gammaDt := rk.Gamma * dt
	if gammaDt > 0 {
		rhs := buildDivergence(s.Vel, s.G)
		s.DivNorm = la.VecNorm(rhs)
		psiFlat := make([]float64, len(rhs))
		s.Poisson.Solve(rhs, psiFlat, gammaDt)
		scatterFlat(psiFlat, s.Vel.Psi, s.G)
		s.exchangeAndBC(s.Vel.Psi, halo.KindNeumann)

		velocity.Correct(s.Vel, s.G, gammaDt)
	}

	s.exchangeAndBC(s.Vel.Ux, halo.KindUx)
	s.exchangeAndBC(s.Vel.Uy, halo.KindTangent)
	if s.G.D == grid.D3 {
		s.exchangeAndBC(s.Vel.Uz, halo.KindTangent)
	}
	s.exchangeAndBC(s.Vel.P, halo.KindNeumann)

	if s.Temp != nil {
		temperature.ComputeSource(s.Temp, s.G)
		temperature.Advance(s.Temp, s.G, temperatureRK(rk), dt, s.ScafT, s.Comm)
		s.exchangeAndBC(s.Temp.T, halo.KindDirichlet)
	}

	if err := s.checkFinite(stageIdx); err != nil {
		return err
	}
	return nil
}

func temperatureRK(rk velocity.RKCoef) temperature.RKCoef {
	return temperature.RKCoef{Alpha: rk.Alpha, Beta: rk.Beta, Gamma: rk.Gamma}
}

func mzOf(g *grid.Grid) int {
	if g.D == grid.D3 {
		return g.Mz
	}
	return 1
}

// exchangeAndBC runs the decomposed-axis halo exchange then the x-wall
// physical BC, the fixed per-field, per-stage sequence required before
// any stencil reads across a rank or wall boundary.
func (s *State) exchangeAndBC(f *halo.Field3, kind halo.Kind) {
	halo.ExchangeAxis(s.Comm, s.Cart, f, 1)
	if s.G.D == grid.D3 {
		halo.ExchangeAxis(s.Comm, s.Cart, f, 2)
	}
	halo.ApplyXWall(f, kind, s.Cfg.WallNoSlip, s.Cfg.THot, s.Cfg.TCold)
}

// buildDivergence forms the cell-centred divergence of the predicted face
// velocities, the Poisson right-hand side (the Solver itself applies the
// 1/(γ dt) scaling).
func buildDivergence(buf *velocity.Buffer, g *grid.Grid) []float64 {
	mz := mzOf(g)
	rhs := make([]float64, g.Mx*g.My*mz)
	n := 0
	for k := 0; k < mz; k++ {
		for j := 0; j < g.My; j++ {
			for i := 0; i < g.Mx; i++ {
				div := (buf.Ux.Data[buf.Ux.Idx(i+1, j, k)] - buf.Ux.Data[buf.Ux.Idx(i, j, k)]) / g.Dxf[i]
				div += (buf.Uy.Data[buf.Uy.Idx(i, j+1, k)] - buf.Uy.Data[buf.Uy.Idx(i, j, k)]) / g.Dy
				if g.D == grid.D3 {
					div += (buf.Uz.Data[buf.Uz.Idx(i, j, k+1)] - buf.Uz.Data[buf.Uz.Idx(i, j, k)]) / g.Dz
				}
				rhs[n] = div
				n++
			}
		}
	}
	return rhs
}

// scatterFlat copies a flat (gx*my*mz, x-fastest) buffer into a
// halo-padded Field3's interior, the inverse of buildDivergence's layout.
func scatterFlat(flat []float64, f *halo.Field3, g *grid.Grid) {
	mz := mzOf(g)
	n := 0
	for k := 0; k < mz; k++ {
		for j := 0; j < g.My; j++ {
			for i := 0; i < g.Mx; i++ {
				f.Data[f.Idx(i, j, k)] = flat[n]
				n++
			}
		}
	}
}

// checkFinite scans the velocity field for non-finite values, a fatal,
// reportable divergence.
func (s *State) checkFinite(stageIdx int) error {
	for _, f := range []*halo.Field3{s.Vel.Ux, s.Vel.Uy, s.Vel.Uz} {
		for _, v := range f.Data {
			if math.IsNaN(v) || math.IsInf(v, 0) {
				return &DivergenceError{Field: "velocity", Step: s.Step*3 + stageIdx, Value: v}
			}
		}
	}
	return nil
}
