// Copyright 2016 The Gofem Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Command govof runs the distributed VOF/Boussinesq time-integrator:
// mpi.Start/Stop lifecycle, flag parsing, a single fatal-error reporter
// at rank 0, and the step loop. Grid construction and the key/value
// config store are kept minimal; production runs supply their own.
package main

import (
	"flag"
	"os"
	"time"

	"github.com/cpmech/gosl/chk"
	"github.com/cpmech/gosl/io"

	"github.com/cpmech/govof/config"
	"github.com/cpmech/govof/grid"
	"github.com/cpmech/govof/mpiutil"
	"github.com/cpmech/govof/pencil"
	"github.com/cpmech/govof/restart"
	"github.com/cpmech/govof/sim"
	"github.com/cpmech/govof/vof"
)

func main() {
	world := mpiutil.World{}
	defer func() {
		if err := recover(); err != nil {
			if world.Rank() == 0 {
				io.PfRed("ERROR: %v\n", err)
			}
			mpiutil.Stop()
			os.Exit(1)
		}
		mpiutil.Stop()
	}()
	mpiutil.Start()

	cfgPath := flag.String("cfg", "", "path to the key/value config store; empty uses built-in defaults")
	d3 := flag.Bool("3d", false, "run a 3D simulation instead of 2D")
	gx := flag.Int("gx", 64, "global cell count in x")
	gy := flag.Int("gy", 64, "global cell count in y")
	gz := flag.Int("gz", 1, "global cell count in z (3D only)")
	lenx := flag.Float64("lenx", 1, "domain length in x")
	leny := flag.Float64("leny", 1, "domain length in y")
	lenz := flag.Float64("lenz", 1, "domain length in z (3D only)")
	haloWidth := flag.Int("halo", 2, "ghost width allocated on every decomposed axis")
	flag.Parse()

	rank, nranks := world.Rank(), world.Size()

	if world.Rank() == 0 {
		io.Pf("govof -- distributed VOF/Boussinesq two-phase flow integrator\n")
	}

	var cfg *config.Config
	if *cfgPath != "" {
		cfg = config.Load(*cfgPath)
	} else {
		cfg = config.Default()
	}

	dim := grid.D2
	if *d3 {
		dim = grid.D3
	}

	// X1 orientation: every rank owns the whole x extent and a contiguous
	// block of y (and, in 3D, the whole z extent -- the process grid is
	// split along y only).
	my := pencil.MySize(rank, nranks, *gy)
	oy := pencil.Offset(rank, nranks, *gy)
	mz := 1
	if dim == grid.D3 {
		mz = *gz
	}

	g := grid.NewUniform(dim, *gx, *gy, *gz, *lenx, *leny, *lenz, my, mz, oy, 0)

	// the Cartesian topology decomposes y only; in 3D the z axis gets a
	// single-rank slot so the periodic z halo exchange wraps onto this
	// rank itself.
	dims := []int{nranks}
	if dim == grid.D3 {
		dims = []int{nranks, 1}
	}
	cart := pencil.NewCartGrid(rank, dims)
	comm := world

	s := sim.New(cfg, g, comm, cart, *haloWidth)

	otherExtent := mz // local z-pencils per rank (1 in 2D)
	xyUx := pencil.BuildPlan(pencil.X1, pencil.Y1, nranks, 1, *gy, *gx-1, otherExtent, 1)
	xy := pencil.BuildPlan(pencil.X1, pencil.Y1, nranks, 1, *gy, *gx, otherExtent, 1)
	s.AttachPlans(xyUx, xy)

	if cfg.RestartSim {
		fs := fieldSet(s)
		step, t, err := restart.Load(cfg.RestartDir, comm, fs)
		if err != nil {
			chk.Panic("govof: restart load failed: %v", err)
		}
		s.Step, s.Time = step, t
	} else if cfg.SolveInterface {
		shape := vof.NewQuadratureShape(vof.Sphere(*lenx/2, *leny/2, *lenz/2, 0.2*min(*lenx, *leny)), int(dim), 4)
		vof.FillVOF(shape, s.Vof.Vof, g)
	}

	started := time.Now()
	for s.Time < cfg.TimeMax {
		dt := s.SelectDt()
		if err := s.Advance(dt); err != nil {
			chk.Panic("govof: %v", err)
		}
		if world.Rank() == 0 && cfg.LogRate > 0 {
			io.Pf("> step=%d time=%23.15e dt=%23.15e divnorm=%23.15e\n", s.Step, s.Time, dt, s.DivNorm)
		}
		// wall-time budget, consulted only between full steps; in-flight
		// collectives are never cancelled
		if cfg.WTimeMax > 0 && time.Since(started).Seconds() > cfg.WTimeMax {
			if world.Rank() == 0 {
				io.Pf("> wall-time budget reached, stopping at step=%d\n", s.Step)
			}
			break
		}
	}

	if cfg.RestartDir != "" {
		if err := restart.Save(cfg.RestartDir, comm, s.Step, s.Time, fieldSet(s)); err != nil {
			chk.Panic("govof: restart save failed: %v", err)
		}
	}
}

func fieldSet(s *sim.State) *restart.FieldSet {
	fs := &restart.FieldSet{Ux: s.Vel.Ux, Uy: s.Vel.Uy, Uz: s.Vel.Uz, P: s.Vel.P}
	if s.Temp != nil {
		fs.T = s.Temp.T
	}
	if s.Vof != nil {
		fs.Vof = s.Vof.Vof
	}
	return fs
}

func min(a, b float64) float64 {
	if a < b {
		return a
	}
	return b
}
