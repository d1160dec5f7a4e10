// Package sepcolor composites a solid color into an image buffer through
// an analytic anti-aliased mask.
//
// # Overview
//
// The mask is either a rotated half-plane ("line" mode) or a disk ("circle"
// mode). Coverage is computed analytically from a signed distance with a
// fixed 1/sqrt2-pixel transition band, so edges stay smooth at any angle
// and radius without supersampling. Three interleaved-RGBA pixel formats
// are supported: 8-bit, 16-bit (0..32768 domain), and 32-bit float.
//
// # Quick Start
//
//	src := sepcolor.NewSurface(sepcolor.FormatInt8, 640, 480)
//	dst := sepcolor.NewSurface(sepcolor.FormatInt8, 640, 480)
//
//	req := &sepcolor.Request{
//		Src:     src,
//		Dst:     dst,
//		Mode:    sepcolor.ModeCircle,
//		AnchorX: 320,
//		AnchorY: 240,
//		Radius:  120,
//		Color:   sepcolor.Color8{R: 255},
//	}
//	if err := sepcolor.Render(req); err != nil {
//		log.Fatal(err)
//	}
//
// # Backends
//
// A render call tries up to three execution strategies in fixed order:
// a registered GPU accelerator (see [RegisterAccelerator] and the gpu
// subpackage), a host-provided iteration service (see [Iterator]), and
// finally a built-in multithreaded row loop. Backend failures fall
// through silently; only host-reported cancellation is surfaced.
//
// # Architecture
//
// The library is organized into:
//   - Public API: Request, Surface, Render, accelerator registration
//   - Internal: rowsched (row partitioning), gpuaccel (wgpu compute)
//   - Subpackages: gpu (blank-import GPU registration), cmd/sepcolor (CLI)
package sepcolor
