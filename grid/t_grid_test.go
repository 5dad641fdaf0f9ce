// Copyright 2016 The Gofem Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package grid

import (
	"testing"

	"github.com/cpmech/gosl/chk"
)

// Test_uniform01 checks NewUniform's derived face/centre/spacing arrays
// against the closed-form uniform-mesh values.
func Test_uniform01(tst *testing.T) {

	chk.PrintTitle("uniform01")

	g := NewUniform(D2, 4, 8, 0, 2.0, 1.0, 0, 8, 1, 0, 0)

	chk.IntAssert(g.Gx, 4)
	chk.IntAssert(len(g.Xf), 5)
	chk.IntAssert(len(g.Xc), 4)

	dx := 0.5
	for i := 0; i <= 4; i++ {
		chk.Float64(tst, "xf", 1e-15, g.Xf[i], float64(i)*dx)
	}
	for i := 0; i < 4; i++ {
		chk.Float64(tst, "xc", 1e-15, g.Xc[i], (float64(i)+0.5)*dx)
		chk.Float64(tst, "dxf", 1e-15, g.Dxf[i], dx)
	}
	chk.Float64(tst, "dy", 1e-15, g.Dy, 1.0/8.0)
	if !g.Uniform {
		tst.Error("NewUniform grid should report Uniform=true")
	}
}

// Test_stretched01 checks NewStretched detects a non-uniform mesh and still
// derives correct centres and spacings from arbitrary increasing faces.
func Test_stretched01(tst *testing.T) {

	chk.PrintTitle("stretched01")

	xf := []float64{0, 0.1, 0.3, 0.6, 1.0}
	g := NewStretched(D2, xf, 4, 0, 1.0, 0, 4, 1, 0, 0)

	chk.IntAssert(g.Gx, 4)
	for i := 0; i < 4; i++ {
		chk.Float64(tst, "dxf", 1e-15, g.Dxf[i], xf[i+1]-xf[i])
		chk.Float64(tst, "xc", 1e-15, g.Xc[i], 0.5*(xf[i]+xf[i+1]))
	}
	if g.Uniform {
		tst.Error("NewStretched grid with unequal spacings should report Uniform=false")
	}
}
