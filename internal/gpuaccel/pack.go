// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: BSD-3-Clause

package gpuaccel

import (
	"encoding/binary"
	"unsafe"

	"github.com/chewxy/math32"
	"github.com/gogpu/sepcolor"
)

// maskParams is the uniform block handed to the compute kernel. The
// layout matches the WGSL Params struct: twelve scalars then a vec4,
// 64 bytes total.
type maskParams struct {
	Width  uint32
	Height uint32
	Mode   uint32
	_      uint32

	AnchorX float32
	AnchorY float32
	DsX     float32
	DsY     float32

	CosA    float32
	SinA    float32
	Radius  float32
	InvEdge float32

	// Color channels in the 0..255 domain; W unused.
	Color [4]float32
}

const edgeWidth = 0.70710678118654752440

// makeParams builds the uniform block from a prepared request.
func makeParams(req *sepcolor.Request) maskParams {
	p := maskParams{
		Width:   uint32(req.Dst.Width),
		Height:  uint32(req.Dst.Height),
		AnchorX: float32(req.AnchorX),
		AnchorY: float32(req.AnchorY),
		DsX:     req.DownsampleX,
		DsY:     req.DownsampleY,
		Radius:  req.Radius,
		InvEdge: 1.0 / edgeWidth,
		Color:   [4]float32{float32(req.Color.R), float32(req.Color.G), float32(req.Color.B), 0},
	}
	if req.Mode == sepcolor.ModeLine {
		deg := math32.Mod(req.Angle, 360)
		rad := deg * (math32.Pi / 180)
		p.CosA = math32.Cos(rad)
		p.SinA = math32.Sin(rad)
	} else {
		p.Mode = 1
	}
	return p
}

func (p *maskParams) bytes() []byte {
	return unsafe.Slice((*byte)(unsafe.Pointer(p)), unsafe.Sizeof(*p)) //nolint:gosec // safe struct serialization
}

// packSurface8 packs an 8-bit surface into a tight little-endian u32-per-
// pixel buffer, stripping row padding.
func packSurface8(s *sepcolor.Surface) []byte {
	out := make([]byte, s.Width*s.Height*4)
	for y := 0; y < s.Height; y++ {
		row := s.Pix8[y*s.Stride : y*s.Stride+s.Width*4]
		copy(out[y*s.Width*4:], row)
	}
	return out
}

// unpackSurface8 scatters a tight readback buffer into the surface's
// strided rows.
func unpackSurface8(packed []byte, s *sepcolor.Surface) {
	for y := 0; y < s.Height; y++ {
		copy(s.Pix8[y*s.Stride:y*s.Stride+s.Width*4], packed[y*s.Width*4:(y+1)*s.Width*4])
	}
}

// packedPixel reads pixel i from a packed buffer (used by tests).
func packedPixel(packed []byte, i int) (r, g, b, a uint8) {
	v := binary.LittleEndian.Uint32(packed[i*4:])
	return uint8(v), uint8(v >> 8), uint8(v >> 16), uint8(v >> 24) //nolint:gosec // masked to 8 bits
}
