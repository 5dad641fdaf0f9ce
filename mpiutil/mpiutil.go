// Copyright 2016 The Gofem Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package mpiutil wraps github.com/cpmech/gosl/mpi with the thin surface
// the pencil, halo and timestep packages need: rank queries, blocking
// point-to-point send/recv pairs, and a global minimum reduction. Every
// entry point degenerates to a serial self-copy when MPI is not running,
// so the whole solver stays runnable (and testable) single-process.
package mpiutil

import "github.com/cpmech/gosl/mpi"

// World is the default process-wide communicator, the only one this
// program needs: decomposition sub-communicators are created internally
// by the pencil service and never user-visible.
type World struct{}

// Rank returns this process's rank in the world communicator, or 0 when
// MPI is not running (serial debug/test builds).
func (World) Rank() int {
	if !mpi.IsOn() {
		return 0
	}
	return mpi.Rank()
}

// Size returns the world communicator size, or 1 when MPI is not running.
func (World) Size() int {
	if !mpi.IsOn() {
		return 1
	}
	return mpi.Size()
}

// SendRecv exchanges sendBuf with rank sendTo while receiving recvBuf from
// rank recvFrom, blocking until complete. In a serial (MPI off) build the
// only valid call has sendTo == recvFrom == Rank(), and it degenerates to
// a copy — this keeps every component runnable single-rank for tests.
func (w World) SendRecv(sendBuf []float64, sendTo int, recvBuf []float64, recvFrom int) {
	if !mpi.IsOn() {
		copy(recvBuf, sendBuf)
		return
	}
	mpi.World().SendRecv(sendBuf, sendTo, recvBuf, recvFrom, "f")
}

// AllReduceMin reduces one float64 per rank to the global minimum,
// returning the same value on every rank — used by the timestep selector
// and left as a one-liner here instead of a method on pencil.Comm
// because it is not part of the transpose plan contract.
func AllReduceMin(local float64) float64 {
	if !mpi.IsOn() {
		return local
	}
	dest := make([]float64, 1)
	orig := []float64{local}
	mpi.World().AllReduceMin(dest, orig)
	return dest[0]
}

// Barrier blocks until every rank in World has called Barrier — used
// between RK substages whenever a component's contract requires every
// peer to have finished a collective before downstream reads proceed.
func Barrier() {
	if mpi.IsOn() {
		mpi.World().Barrier()
	}
}

// Start/Stop proxy gosl/mpi's process-group lifecycle.
func Start() { mpi.Start(false) }
func Stop()  { mpi.Stop(false) }
