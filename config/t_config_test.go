// Copyright 2016 The Gofem Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package config

import (
	"testing"

	"github.com/cpmech/gosl/chk"
)

// Test_default01 checks Default()'s documented values.
func Test_default01(tst *testing.T) {

	chk.PrintTitle("default01")

	cfg := Default()
	chk.Float64(tst, "t_hot", 1e-15, cfg.THot, 0.5)
	chk.Float64(tst, "t_cold", 1e-15, cfg.TCold, -0.5)
	chk.IntAssert(cfg.NGauss, 2)
}

// Test_fromMap01 checks FromMap applies overrides and derives MuM/MuT from
// Ra/Pr.
func Test_fromMap01(tst *testing.T) {

	chk.PrintTitle("fromMap01")

	cfg := FromMap(map[string]string{
		"Ra":              "1e4",
		"Pr":              "1.0",
		"solve_temp":      "true",
		"solve_interface": "1",
		"t_hot":           "1.0",
		"t_cold":          "0.0",
	})

	chk.Float64(tst, "mu_m", 1e-12, cfg.MuM, 1.0/100.0)
	chk.Float64(tst, "mu_t", 1e-12, cfg.MuT, 1.0/100.0)
	if !cfg.SolveTemp || !cfg.SolveInterface {
		tst.Error("boolean flags did not parse")
	}
}

// Test_fromMap02 checks the We/tension/sigma aliasing resolves to the same
// Sigma field, with sigma taking precedence as the last key applied.
func Test_fromMap02(tst *testing.T) {

	chk.PrintTitle("fromMap02")

	cfg := FromMap(map[string]string{"We": "4.0"})
	chk.Float64(tst, "sigma from We", 1e-15, cfg.Sigma, 0.25)

	cfg = FromMap(map[string]string{"tension": "0.1"})
	chk.Float64(tst, "sigma from tension", 1e-15, cfg.Sigma, 0.1)

	cfg = FromMap(map[string]string{"We": "4.0", "sigma": "0.9"})
	chk.Float64(tst, "sigma overrides We", 1e-15, cfg.Sigma, 0.9)
}

// Test_thotTcold01 checks the t_hot - t_cold == 1 invariant panics via
// chk.Panic when violated.
func Test_thotTcold01(tst *testing.T) {

	chk.PrintTitle("thotTcold01")

	defer func() {
		if r := recover(); r == nil {
			tst.Error("expected a panic for t_hot - t_cold != 1")
		}
	}()
	FromMap(map[string]string{"t_hot": "1.0", "t_cold": "0.5"})
}
