// Copyright 2016 The Gofem Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package config reads the env-style key/value configuration store the
// simulator consumes. Building the backing store (e.g. from a real
// environment, a flat file, or a distributed KV service) is the caller's
// job; this package only defines the contract and a simple line-oriented
// "key = value" reader.
package config

import (
	"math"
	"strconv"
	"strings"

	"github.com/cpmech/gosl/chk"
	"github.com/cpmech/gosl/io"
)

// Config holds every simulation parameter the integrator consumes.
type Config struct {
	RestartSim bool
	RestartDir string

	Ra, Pr float64 // Rayleigh, Prandtl numbers
	MuM    float64 // momentum diffusivity  = sqrt(Pr/Ra)
	MuT    float64 // temperature diffusivity = 1/sqrt(Pr*Ra)

	Sigma float64 // CSF coefficient; We and tension are accepted as aliases

	CoefDtAdv, CoefDtDif float64

	ImplicitX, ImplicitY, ImplicitZ     bool
	TImplicitX, TImplicitY, TImplicitZ  bool
	SolveTemp, SolveInterface           bool
	AddBuoyancy                         bool
	UseStretchedGrid                    bool
	WallNoSlip                         bool
	THot, TCold                        float64
	NGauss                             int

	TimeMax, WTimeMax float64

	StatRate, StatAfter, SaveRate, LogRate float64
}

// Default returns a Config with the documented defaults applied.
func Default() *Config {
	return &Config{
		WallNoSlip: true,
		THot:       0.5,
		TCold:      -0.5,
		NGauss:     2,
		CoefDtAdv:  0.5,
		CoefDtDif:  0.5,
	}
}

// Load parses a line-oriented "key = value" store (blank lines and lines
// starting with '#' ignored) into a Config seeded with Default(). It panics
// via chk.Panic on a malformed line or value, matching the
// fatal-initialisation-error convention used throughout. No key is
// required: a key absent from the file keeps its Default() value.
func Load(path string) (cfg *Config) {
	cfg = Default()
	kv := make(map[string]string)
	io.ReadLines(path, func(idx int, line string) (stop bool) {
		line = strings.TrimSpace(line)
		if line == "" || strings.HasPrefix(line, "#") {
			return false
		}
		parts := strings.SplitN(line, "=", 2)
		if len(parts) != 2 {
			chk.Panic("config: malformed line %q in %s", line, path)
		}
		kv[strings.TrimSpace(parts[0])] = strings.TrimSpace(parts[1])
		return false
	})
	applyAll(cfg, kv)
	finish(cfg)
	return
}

// FromMap builds a Config directly from a pre-parsed key/value map; useful
// for tests and for callers whose KV store isn't file-backed.
func FromMap(kv map[string]string) (cfg *Config) {
	cfg = Default()
	applyAll(cfg, kv)
	finish(cfg)
	return
}

func applyAll(cfg *Config, kv map[string]string) {
	getBool := func(k string, dst *bool) {
		if v, ok := kv[k]; ok {
			*dst = v == "1" || strings.EqualFold(v, "true")
		}
	}
	getFloat := func(k string, dst *float64) {
		if v, ok := kv[k]; ok {
			f, err := strconv.ParseFloat(v, 64)
			if err != nil {
				chk.Panic("config: key %q has invalid float value %q", k, v)
			}
			*dst = f
		}
	}
	getInt := func(k string, dst *int) {
		if v, ok := kv[k]; ok {
			n, err := strconv.Atoi(v)
			if err != nil {
				chk.Panic("config: key %q has invalid int value %q", k, v)
			}
			*dst = n
		}
	}
	getString := func(k string, dst *string) {
		if v, ok := kv[k]; ok {
			*dst = v
		}
	}

	getBool("restart_sim", &cfg.RestartSim)
	getString("restart_dir", &cfg.RestartDir)
	getFloat("Ra", &cfg.Ra)
	getFloat("Pr", &cfg.Pr)
	getFloat("coef_dt_adv", &cfg.CoefDtAdv)
	getFloat("coef_dt_dif", &cfg.CoefDtDif)
	getBool("implicitx", &cfg.ImplicitX)
	getBool("implicity", &cfg.ImplicitY)
	getBool("implicitz", &cfg.ImplicitZ)
	getBool("t_implicit_x", &cfg.TImplicitX)
	getBool("t_implicit_y", &cfg.TImplicitY)
	getBool("t_implicit_z", &cfg.TImplicitZ)
	getBool("solve_temp", &cfg.SolveTemp)
	getBool("solve_interface", &cfg.SolveInterface)
	getBool("add_buoyancy", &cfg.AddBuoyancy)
	getBool("use_stretched_grid", &cfg.UseStretchedGrid)
	getBool("wall_noslip", &cfg.WallNoSlip)
	getFloat("t_hot", &cfg.THot)
	getFloat("t_cold", &cfg.TCold)
	getInt("ngauss", &cfg.NGauss)
	getFloat("timemax", &cfg.TimeMax)
	getFloat("wtimemax", &cfg.WTimeMax)
	getFloat("stat_rate", &cfg.StatRate)
	getFloat("stat_after", &cfg.StatAfter)
	getFloat("save_rate", &cfg.SaveRate)
	getFloat("log_rate", &cfg.LogRate)

	// surface-tension ambiguity
	if v, ok := kv["We"]; ok {
		we, err := strconv.ParseFloat(v, 64)
		if err != nil {
			chk.Panic("config: key \"We\" has invalid float value %q", v)
		}
		cfg.Sigma = 1.0 / we
	} else if v, ok := kv["tension"]; ok {
		t, err := strconv.ParseFloat(v, 64)
		if err != nil {
			chk.Panic("config: key \"tension\" has invalid float value %q", v)
		}
		cfg.Sigma = t
	}
	getFloat("sigma", &cfg.Sigma)
}

func finish(cfg *Config) {
	if cfg.Ra > 0 && cfg.Pr > 0 {
		cfg.MuM = math.Sqrt(cfg.Pr / cfg.Ra)
		cfg.MuT = 1.0 / math.Sqrt(cfg.Pr*cfg.Ra)
	}
	if math.Abs(cfg.THot-cfg.TCold-1.0) > 1e-12 {
		chk.Panic("config: t_hot - t_cold must equal 1, got t_hot=%v t_cold=%v", cfg.THot, cfg.TCold)
	}
}
