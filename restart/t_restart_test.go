// Copyright 2016 The Gofem Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package restart

import (
	"os"
	"testing"

	"github.com/cpmech/gosl/chk"

	"github.com/cpmech/govof/halo"
)

type fakeComm struct{ rank int }

func (f fakeComm) Rank() int { return f.rank }
func (fakeComm) Size() int   { return 1 }
func (fakeComm) SendRecv(sendBuf []float64, sendTo int, recvBuf []float64, recvFrom int) {
	copy(recvBuf, sendBuf)
}

func mkField(nx, ny, h int, seed float64) *halo.Field3 {
	total := (nx + 2*h) * (ny + 2*h) * (1 + 2*h)
	f := &halo.Field3{Data: make([]float64, total), Nx: nx, Ny: ny, Nz: 1, Halo: h}
	// y halos stay zero: Save/Load persist only rows 0..ny-1
	for j := 0; j < ny; j++ {
		for i := -h; i < nx+h; i++ {
			f.Data[f.Idx(i, j, 0)] = seed + float64(i)*1000 + float64(j)
		}
	}
	return f
}

// Test_roundTrip01 saves a checkpoint, then loads it into freshly
// allocated buffers, and checks every value (interior and x-wall ghosts)
// round-trips bitwise.
func Test_roundTrip01(tst *testing.T) {

	chk.PrintTitle("roundTrip01")

	dir, err := os.MkdirTemp("", "govof_restart_test")
	if err != nil {
		tst.Fatal(err)
	}
	defer os.RemoveAll(dir)

	nx, ny, h := 6, 4, 2
	comm := fakeComm{rank: 0}

	fsSave := &FieldSet{
		Ux: mkField(nx, ny, h, 1),
		Uy: mkField(nx, ny, h, 2),
		Uz: mkField(nx, ny, h, 3),
		P:  mkField(nx, ny, h, 4),
	}

	if err := Save(dir, comm, 42, 3.5, fsSave); err != nil {
		tst.Fatal(err)
	}

	fsLoad := &FieldSet{
		Ux: mkField(nx, ny, h, 0),
		Uy: mkField(nx, ny, h, 0),
		Uz: mkField(nx, ny, h, 0),
		P:  mkField(nx, ny, h, 0),
	}
	step, time, err := Load(dir, comm, fsLoad)
	if err != nil {
		tst.Fatal(err)
	}

	chk.IntAssert(step, 42)
	chk.Float64(tst, "time", 1e-15, time, 3.5)
	chk.Array(tst, "ux", 1e-15, fsLoad.Ux.Data, fsSave.Ux.Data)
	chk.Array(tst, "uy", 1e-15, fsLoad.Uy.Data, fsSave.Uy.Data)
	chk.Array(tst, "uz", 1e-15, fsLoad.Uz.Data, fsSave.Uz.Data)
	chk.Array(tst, "p", 1e-15, fsLoad.P.Data, fsSave.P.Data)
}
