// Copyright 2016 The Gofem Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package restart implements checkpoint save/load. General-purpose
// parallel array file I/O is out of scope; this package only fixes the
// concrete contract a checkpoint directory must satisfy: one NPY file
// per scalar (step, time) and one per field per rank, little-endian
// float64 fields and int32/float64 scalars.
package restart

import (
	"bytes"
	"encoding/binary"
	"os"

	"github.com/cpmech/gosl/chk"
	"github.com/cpmech/gosl/io"

	"github.com/cpmech/govof/halo"
	"github.com/cpmech/govof/pencil"
)

// FieldSet names the persisted fields, each read from or written into
// the caller's already-allocated halo.Field3 buffer.
type FieldSet struct {
	Ux, Uy, Uz *halo.Field3
	P          *halo.Field3
	T          *halo.Field3 // nil if SolveTemp is false
	Vof        *halo.Field3 // nil if SolveInterface is false
}

// names pairs each non-nil field with its on-disk file stem, in a fixed
// order so Save/Load always touch the same files regardless of which
// optional fields are present.
func (fs *FieldSet) names() ([]string, []*halo.Field3) {
	var n []string
	var f []*halo.Field3
	add := func(name string, field *halo.Field3) {
		if field != nil {
			n = append(n, name)
			f = append(f, field)
		}
	}
	add("ux", fs.Ux)
	add("uy", fs.Uy)
	add("uz", fs.Uz)
	add("p", fs.P)
	add("t", fs.T)
	add("vof", fs.Vof)
	return n, f
}

// Save writes one checkpoint directory: step.npy and time.npy (scalars),
// and one <name>_rank<r>.npy per field owned by this rank. Every field's interior AND its two x-wall ghost
// columns are written, so wall values survive a restart; y/z
// halo columns are never persisted since they belong to neighbour ranks.
func Save(dir string, comm pencil.Comm, step int, time float64, fs *FieldSet) error {
	if err := writeScalarI32(io.Sf("%s/step.npy", dir), int32(step)); err != nil {
		return err
	}
	if err := writeScalarF64(io.Sf("%s/time.npy", dir), time); err != nil {
		return err
	}
	names, fields := fs.names()
	for idx, f := range fields {
		fn := io.Sf("%s/%s_rank%03d.npy", dir, names[idx], comm.Rank())
		if err := writeField(fn, f); err != nil {
			return err
		}
	}
	return nil
}

// Load reads back a checkpoint directory written by Save into already
// sized buffers in fs (the caller must build its grid/decomposition
// identically to the run that wrote it; migration across decomposition
// layouts is unsupported). Load restores everything Save wrote: each
// field's interior and its x-wall ghost columns. y/z halos are not
// touched and are left for the first post-load halo.ExchangeAxis +
// halo.ApplyXWall to fill.
func Load(dir string, comm pencil.Comm, fs *FieldSet) (step int, time float64, err error) {
	s, err := readScalarI32(io.Sf("%s/step.npy", dir))
	if err != nil {
		return 0, 0, err
	}
	t, err := readScalarF64(io.Sf("%s/time.npy", dir))
	if err != nil {
		return 0, 0, err
	}
	names, fields := fs.names()
	for idx, f := range fields {
		fn := io.Sf("%s/%s_rank%03d.npy", dir, names[idx], comm.Rank())
		if err := readField(fn, f); err != nil {
			return 0, 0, err
		}
	}
	return int(s), t, nil
}

// npyHeader builds a minimal NPY v1.0 header for a 1-D float64 or int32
// array of n elements. The
// header is padded with spaces plus a trailing newline to a 64-byte
// total-length multiple, as the format requires.
func npyHeader(dtype string, n int) []byte {
	var dict bytes.Buffer
	io.Ff(&dict, "{'descr': '%s', 'fortran_order': False, 'shape': (%d,), }", dtype, n)
	preambleLen := 10 // magic(6) + version(2) + headerlen(2)
	total := preambleLen + dict.Len() + 1
	pad := (64 - total%64) % 64
	for i := 0; i < pad; i++ {
		dict.WriteByte(' ')
	}
	dict.WriteByte('\n')

	var hdr bytes.Buffer
	hdr.WriteString("\x93NUMPY")
	hdr.WriteByte(1)
	hdr.WriteByte(0)
	hlen := uint16(dict.Len())
	binary.Write(&hdr, binary.LittleEndian, hlen)
	hdr.Write(dict.Bytes())
	return hdr.Bytes()
}

func writeScalarI32(fn string, v int32) error {
	hdr := npyHeader("<i4", 1)
	var payload bytes.Buffer
	binary.Write(&payload, binary.LittleEndian, v)
	return writeNPY(fn, hdr, payload.Bytes())
}

func writeScalarF64(fn string, v float64) error {
	hdr := npyHeader("<f8", 1)
	var payload bytes.Buffer
	binary.Write(&payload, binary.LittleEndian, v)
	return writeNPY(fn, hdr, payload.Bytes())
}

// writeField flattens f's interior plus its x-wall ghost columns (i.e.
// i in [-Halo, Nx+Halo), j,k in [0,Ny)x[0,Nz)) into row-major order with
// x innermost.
func writeField(fn string, f *halo.Field3) error {
	nxTot := f.Nx + 2*f.Halo
	n := nxTot * f.Ny * f.Nz
	hdr := npyHeader("<f8", n)
	var payload bytes.Buffer
	for k := 0; k < f.Nz; k++ {
		for j := 0; j < f.Ny; j++ {
			for i := -f.Halo; i < f.Nx+f.Halo; i++ {
				binary.Write(&payload, binary.LittleEndian, f.Data[f.Idx(i, j, k)])
			}
		}
	}
	return writeNPY(fn, hdr, payload.Bytes())
}

func writeNPY(fn string, hdr, payload []byte) error {
	var buf bytes.Buffer
	buf.Write(hdr)
	buf.Write(payload)
	if err := os.WriteFile(fn, buf.Bytes(), 0644); err != nil {
		return chk.Err("restart: failed to write %q: %v", fn, err)
	}
	return nil
}

func readScalarI32(fn string) (int32, error) {
	_, payload, err := readNPY(fn)
	if err != nil {
		return 0, err
	}
	var v int32
	binary.Read(bytes.NewReader(payload), binary.LittleEndian, &v)
	return v, nil
}

func readScalarF64(fn string) (float64, error) {
	_, payload, err := readNPY(fn)
	if err != nil {
		return 0, err
	}
	var v float64
	binary.Read(bytes.NewReader(payload), binary.LittleEndian, &v)
	return v, nil
}

func readField(fn string, f *halo.Field3) error {
	_, payload, err := readNPY(fn)
	if err != nil {
		return err
	}
	r := bytes.NewReader(payload)
	for k := 0; k < f.Nz; k++ {
		for j := 0; j < f.Ny; j++ {
			for i := -f.Halo; i < f.Nx+f.Halo; i++ {
				var v float64
				if err := binary.Read(r, binary.LittleEndian, &v); err != nil {
					return chk.Err("restart: truncated array in %q: %v", fn, err)
				}
				f.Data[f.Idx(i, j, k)] = v
			}
		}
	}
	return nil
}

// readNPY returns the raw header bytes (unparsed — the dtype/shape text
// is only validated by byte length on read, since Load always knows the
// shape it expects from the live field buffer) and the payload bytes
// following the fixed 10-byte preamble + declared header length.
func readNPY(fn string) (hdr, payload []byte, err error) {
	buf, ferr := os.ReadFile(fn)
	if ferr != nil {
		return nil, nil, chk.Err("restart: cannot read %q: %v", fn, ferr)
	}
	if len(buf) < 10 || string(buf[:6]) != "\x93NUMPY" {
		return nil, nil, chk.Err("restart: %q is not an NPY file", fn)
	}
	hlen := int(binary.LittleEndian.Uint16(buf[8:10]))
	start := 10 + hlen
	if len(buf) < start {
		return nil, nil, chk.Err("restart: %q header truncated", fn)
	}
	return buf[10:start], buf[start:], nil
}
