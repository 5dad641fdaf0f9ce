// Copyright 2016 The Gofem Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package mpiutil

import (
	"testing"

	"github.com/cpmech/gosl/chk"
)

// Test_serialDegeneracy01 checks World's serial (MPI-off) fallbacks, which
// every other package's tests rely on to run single-process.
func Test_serialDegeneracy01(tst *testing.T) {

	chk.PrintTitle("serialDegeneracy01")

	w := World{}
	chk.IntAssert(w.Rank(), 0)
	chk.IntAssert(w.Size(), 1)

	send := []float64{1, 2, 3}
	recv := make([]float64, 3)
	w.SendRecv(send, 0, recv, 0)
	chk.Array(tst, "self send/recv", 1e-15, recv, send)

	chk.Float64(tst, "all-reduce-min degenerates to local value", 1e-15, AllReduceMin(7.5), 7.5)

	// Barrier must be a no-op without blocking when MPI is off.
	Barrier()
}
