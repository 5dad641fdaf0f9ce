// Copyright 2016 The Gofem Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package fftw is a minimal cgo binding over FFTW3's "many" (batched
// guru-lite) planning interface, covering exactly what the Poisson
// solver needs: batched real-to-complex / complex-to-real transforms
// along one contiguous axis, batched complex-to-complex transforms, and
// batched type-II/III discrete cosine transforms (REDFT10/REDFT01).
//
// The binding follows the same cgo idiom gosl uses for its own C
// libraries (gosl/la/oblas over BLAS/LAPACK, gosl/mpi over MPI) rather
// than reimplementing the transforms in pure Go.
//
// Plans are created once per (grid, direction) and cached by the caller
// (poisson.Solver); FFTW_ESTIMATE keeps plan construction cheap for a
// solver that may be built many times in unit tests.
package fftw

/*
#cgo pkg-config: fftw3
#include <fftw3.h>
*/
import "C"
import "unsafe"

// Sign selects the direction of a complex-to-complex transform.
type Sign int

const (
	Forward Sign = C.FFTW_FORWARD
	Inverse Sign = C.FFTW_BACKWARD
)

// DCTKind selects the real-even transform kind used by the uniform-x
// Poisson variant: REDFT10 is the type-II forward DCT,
// REDFT01 the type-III inverse.
type DCTKind int

const (
	REDFT10 DCTKind = C.FFTW_REDFT10
	REDFT01 DCTKind = C.FFTW_REDFT01
)

// PlanR2C is a batched real-to-complex transform along one contiguous
// axis of length n, applied to `howmany` independent rows.
type PlanR2C struct {
	p C.fftw_plan
	n int
}

// NewPlanR2C builds (and immediately owns) a plan transforming `howmany`
// real rows of length n (stored contiguously, stride 1, distance n) in
// `in` into `howmany` complex rows of length n/2+1 in `out`.
func NewPlanR2C(n, howmany int, in []float64, out []complex128) *PlanR2C {
	rank := C.int(1)
	nArr := [1]C.int{C.int(n)}
	inPtr := (*C.double)(unsafe.Pointer(&in[0]))
	outPtr := (*C.fftw_complex)(unsafe.Pointer(&out[0]))
	plan := C.fftw_plan_many_dft_r2c(
		rank, &nArr[0], C.int(howmany),
		inPtr, nil, 1, C.int(n),
		outPtr, nil, 1, C.int(n/2+1),
		C.FFTW_ESTIMATE)
	return &PlanR2C{p: plan, n: n}
}

func (pl *PlanR2C) Execute() { C.fftw_execute(pl.p) }
func (pl *PlanR2C) Destroy() { C.fftw_destroy_plan(pl.p) }

// PlanC2R is the inverse of PlanR2C. FFTW normalises neither direction;
// the caller (poisson.Solver) folds the 1/N factor into the RHS before
// the forward transform.
type PlanC2R struct {
	p C.fftw_plan
}

func NewPlanC2R(n, howmany int, in []complex128, out []float64) *PlanC2R {
	rank := C.int(1)
	nArr := [1]C.int{C.int(n)}
	inPtr := (*C.fftw_complex)(unsafe.Pointer(&in[0]))
	outPtr := (*C.double)(unsafe.Pointer(&out[0]))
	plan := C.fftw_plan_many_dft_c2r(
		rank, &nArr[0], C.int(howmany),
		inPtr, nil, 1, C.int(n/2+1),
		outPtr, nil, 1, C.int(n),
		C.FFTW_ESTIMATE)
	return &PlanC2R{p: plan}
}

func (pl *PlanC2R) Execute() { C.fftw_execute(pl.p) }
func (pl *PlanC2R) Destroy() { C.fftw_destroy_plan(pl.p) }

// PlanC2C is a batched complex-to-complex transform, used for the z-axis
// DFT in the 3D DFT Poisson variant.
type PlanC2C struct {
	p C.fftw_plan
}

func NewPlanC2C(n, howmany int, in, out []complex128, sign Sign) *PlanC2C {
	rank := C.int(1)
	nArr := [1]C.int{C.int(n)}
	inPtr := (*C.fftw_complex)(unsafe.Pointer(&in[0]))
	outPtr := (*C.fftw_complex)(unsafe.Pointer(&out[0]))
	plan := C.fftw_plan_many_dft(
		rank, &nArr[0], C.int(howmany),
		inPtr, nil, 1, C.int(n),
		outPtr, nil, 1, C.int(n),
		C.int(sign), C.FFTW_ESTIMATE)
	return &PlanC2C{p: plan}
}

func (pl *PlanC2C) Execute() { C.fftw_execute(pl.p) }
func (pl *PlanC2C) Destroy() { C.fftw_destroy_plan(pl.p) }

// PlanR2R is a batched real-to-real transform (here, a DCT kind), used by
// the uniform-x Poisson variant to make x homogeneous.
type PlanR2R struct {
	p C.fftw_plan
}

func NewPlanR2R(n, howmany int, in, out []float64, kind DCTKind) *PlanR2R {
	rank := C.int(1)
	nArr := [1]C.int{C.int(n)}
	kindArr := [1]C.fftw_r2r_kind{C.fftw_r2r_kind(kind)}
	inPtr := (*C.double)(unsafe.Pointer(&in[0]))
	outPtr := (*C.double)(unsafe.Pointer(&out[0]))
	plan := C.fftw_plan_many_r2r(
		rank, &nArr[0], C.int(howmany),
		inPtr, nil, 1, C.int(n),
		outPtr, nil, 1, C.int(n),
		&kindArr[0], C.FFTW_ESTIMATE)
	return &PlanR2R{p: plan}
}

func (pl *PlanR2R) Execute() { C.fftw_execute(pl.p) }
func (pl *PlanR2R) Destroy() { C.fftw_destroy_plan(pl.p) }
