// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: BSD-3-Clause

package gpuaccel

import (
	"strings"
	"testing"

	"github.com/gogpu/sepcolor"
)

func TestParamsLayout(t *testing.T) {
	// The uniform block must match the WGSL Params struct exactly:
	// twelve 4-byte scalars plus a vec4.
	if paramsSize != 64 {
		t.Fatalf("maskParams is %d bytes, want 64", paramsSize)
	}
	p := maskParams{Width: 3}
	b := p.bytes()
	if len(b) != 64 {
		t.Fatalf("bytes() length = %d, want 64", len(b))
	}
	if b[0] != 3 {
		t.Errorf("bytes()[0] = %d, want little-endian Width", b[0])
	}
}

func TestMakeParamsLine(t *testing.T) {
	req := &sepcolor.Request{
		Src: sepcolor.NewSurface(sepcolor.FormatInt8, 10, 6),
		Dst: sepcolor.NewSurface(sepcolor.FormatInt8, 10, 6),
		Mode: sepcolor.ModeLine, AnchorX: 4, AnchorY: 2,
		Angle: 360, // reduces to 0
		Color: sepcolor.Color8{R: 255, G: 128, B: 7},
		DownsampleX: 1, DownsampleY: 1,
	}
	p := makeParams(req)
	if p.Width != 10 || p.Height != 6 {
		t.Errorf("dims = %dx%d, want 10x6", p.Width, p.Height)
	}
	if p.Mode != 0 {
		t.Errorf("Mode = %d, want 0 for line", p.Mode)
	}
	if p.CosA != 1 || p.SinA != 0 {
		t.Errorf("angle 360 gave (cos,sin) = (%v,%v), want (1,0)", p.CosA, p.SinA)
	}
	if p.Color != [4]float32{255, 128, 7, 0} {
		t.Errorf("Color = %v", p.Color)
	}
	if p.InvEdge <= 1.41 || p.InvEdge >= 1.42 {
		t.Errorf("InvEdge = %v, want ~sqrt(2)", p.InvEdge)
	}
}

func TestMakeParamsCircle(t *testing.T) {
	req := &sepcolor.Request{
		Src: sepcolor.NewSurface(sepcolor.FormatInt8, 4, 4),
		Dst: sepcolor.NewSurface(sepcolor.FormatInt8, 4, 4),
		Mode: sepcolor.ModeCircle, Radius: 7.5,
		DownsampleX: 2, DownsampleY: 3,
	}
	p := makeParams(req)
	if p.Mode != 1 {
		t.Errorf("Mode = %d, want 1 for circle", p.Mode)
	}
	if p.Radius != 7.5 || p.DsX != 2 || p.DsY != 3 {
		t.Errorf("geometry = (r=%v ds=%v,%v)", p.Radius, p.DsX, p.DsY)
	}
	// Unknown modes run the circle kernel too.
	req.Mode = sepcolor.ShapeMode(9)
	if makeParams(req).Mode != 1 {
		t.Error("unknown mode did not map to circle")
	}
}

func TestPackUnpackRoundTrip(t *testing.T) {
	// Strided surface -> tight buffer -> strided surface, padding intact.
	const w, h, stride = 3, 2, 3*4 + 8
	src := &sepcolor.Surface{
		Width: w, Height: h, Stride: stride,
		Format: sepcolor.FormatInt8,
		Pix8:   make([]uint8, stride*h),
	}
	for y := 0; y < h; y++ {
		for x := 0; x < w*4; x++ {
			src.Pix8[y*stride+x] = uint8(y*50 + x)
		}
		for x := w * 4; x < stride; x++ {
			src.Pix8[y*stride+x] = 0xEE
		}
	}

	packed := packSurface8(src)
	if len(packed) != w*h*4 {
		t.Fatalf("packed length = %d, want %d", len(packed), w*h*4)
	}
	r, g, b, a := packedPixel(packed, w) // pixel (0,1)
	if r != 50 || g != 51 || b != 52 || a != 53 {
		t.Errorf("pixel (0,1) = (%d,%d,%d,%d), want (50,51,52,53)", r, g, b, a)
	}

	dst := &sepcolor.Surface{
		Width: w, Height: h, Stride: stride,
		Format: sepcolor.FormatInt8,
		Pix8:   make([]uint8, stride*h),
	}
	for i := range dst.Pix8 {
		dst.Pix8[i] = 0xEE
	}
	unpackSurface8(packed, dst)
	for y := 0; y < h; y++ {
		for x := 0; x < w*4; x++ {
			if dst.Pix8[y*stride+x] != src.Pix8[y*stride+x] {
				t.Fatalf("byte (%d,%d) lost in round trip", y, x)
			}
		}
		for x := w * 4; x < stride; x++ {
			if dst.Pix8[y*stride+x] != 0xEE {
				t.Fatalf("row %d padding byte %d overwritten", y, x)
			}
		}
	}
}

func TestShaderCarriesCoverageFastPaths(t *testing.T) {
	// The WGSL kernel must take the same fast paths as the CPU blend:
	// pass-through at negligible coverage or zero alpha, and solid color
	// (not a blend) at full coverage. Without the full-coverage branch a
	// semi-transparent interior pixel blends on the GPU while the CPU
	// writes the solid color outright.
	for _, branch := range []string{
		"cov <= 0.0001",
		"cov >= 0.9999",
		"a == 0u",
	} {
		if !strings.Contains(maskShaderSource, branch) {
			t.Errorf("shader source missing fast-path branch %q", branch)
		}
	}
}

func TestCanAccelerate(t *testing.T) {
	var a Accel
	if !a.CanAccelerate(sepcolor.FormatInt8) {
		t.Error("8-bit must be accelerable")
	}
	if a.CanAccelerate(sepcolor.FormatInt16) || a.CanAccelerate(sepcolor.FormatFloat32) {
		t.Error("only the 8-bit pipeline exists")
	}
}

func TestRenderNotReady(t *testing.T) {
	// Without a device the accelerator must decline, never fail.
	var a Accel
	req := &sepcolor.Request{
		Src: sepcolor.NewSurface(sepcolor.FormatInt8, 2, 2),
		Dst: sepcolor.NewSurface(sepcolor.FormatInt8, 2, 2),
	}
	if err := a.Render(req); err != sepcolor.ErrUnsupported {
		t.Errorf("Render() = %v, want ErrUnsupported", err)
	}
	req.Src = sepcolor.NewSurface(sepcolor.FormatFloat32, 2, 2)
	req.Dst = sepcolor.NewSurface(sepcolor.FormatFloat32, 2, 2)
	if err := a.Render(req); err != sepcolor.ErrUnsupported {
		t.Errorf("Render(float) = %v, want ErrUnsupported", err)
	}
}

func TestCloseWithoutInit(t *testing.T) {
	var a Accel
	a.Close()
	a.Close() // idempotent
}

func TestSetDeviceProviderRejectsForeignTypes(t *testing.T) {
	var a Accel
	if err := a.SetDeviceProvider(struct{}{}); err == nil {
		t.Error("provider without HAL accessors must be rejected")
	}
}
