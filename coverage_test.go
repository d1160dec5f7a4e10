package sepcolor

import (
	"math"
	"testing"
)

func TestLineCoverage(t *testing.T) {
	tests := []struct {
		name   string
		rx, ry float32
		deg    float64
		want   float32
	}{
		{"on the boundary", 0, 0, 0, 0.5},
		{"deep positive side", 10, 0, 0, 1},
		{"deep negative side", -10, 0, 0, 0},
		{"edge of band positive", edgeWidth, 0, 0, 1},
		{"edge of band negative", -edgeWidth, 0, 0, 0},
		{"half band", edgeWidth / 2, 0, 0, 0.75},
		{"rotated 90deg uses y", 10, 3, 90, 1},
		{"rotated 90deg negative y", 10, -3, 90, 0},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rad := tt.deg * math.Pi / 180
			cs := float32(math.Cos(rad))
			sn := float32(math.Sin(rad))
			got := LineCoverage(tt.rx, tt.ry, cs, sn)
			if diff := got - tt.want; diff > 1e-4 || diff < -1e-4 {
				t.Errorf("LineCoverage(%v, %v, %v°) = %v, want %v", tt.rx, tt.ry, tt.deg, got, tt.want)
			}
		})
	}
}

func TestCircleCoverage(t *testing.T) {
	tests := []struct {
		name   string
		rx, ry float32
		radius float32
		want   float32
	}{
		{"center of disk", 0, 0, 5, 1},
		{"on the rim", 5, 0, 5, 0.5},
		{"far outside", 10, 10, 5, 0},
		{"just inside the band", 5 - edgeWidth, 0, 5, 1},
		{"just outside the band", 5 + edgeWidth, 0, 5, 0},
		{"radius zero at origin", 0, 0, 0, 0.5},
		{"negative radius yields nothing", 0, 0, -2, 0},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := CircleCoverage(tt.rx, tt.ry, tt.radius)
			if diff := got - tt.want; diff > 1e-4 || diff < -1e-4 {
				t.Errorf("CircleCoverage(%v, %v, r=%v) = %v, want %v", tt.rx, tt.ry, tt.radius, got, tt.want)
			}
		})
	}
}

func TestKernelAngleNormalization(t *testing.T) {
	// 370° and 10° must produce identical kernels; huge dial values are
	// reduced before the trig.
	base := &Request{Mode: ModeLine, Angle: 10}
	wrapped := &Request{Mode: ModeLine, Angle: 370}
	k1 := newKernel(base)
	k2 := newKernel(wrapped)
	if k1.cs != k2.cs || k1.sn != k2.sn {
		t.Errorf("370° kernel (cs=%v sn=%v) differs from 10° kernel (cs=%v sn=%v)",
			k2.cs, k2.sn, k1.cs, k1.sn)
	}

	neg := newKernel(&Request{Mode: ModeLine, Angle: -350})
	if diff := neg.cs - k1.cs; diff > 1e-5 || diff < -1e-5 {
		// math32.Mod keeps the sign, so -350 reduces to -350+360 = 10
		// only via periodicity of cos/sin; compare numerically.
		t.Errorf("-350° cs = %v, want %v", neg.cs, k1.cs)
	}
}

func TestKernelCoverageMatchesHelpers(t *testing.T) {
	req := &Request{
		Mode:        ModeCircle,
		AnchorX:     4,
		AnchorY:     4,
		Radius:      3,
		DownsampleX: 1,
		DownsampleY: 1,
	}
	k := newKernel(req)
	for y := 0; y < 9; y++ {
		for x := 0; x < 9; x++ {
			want := CircleCoverage(float32(x-4), float32(y-4), 3)
			got := k.coverage(x, y)
			if diff := got - want; diff > 1e-5 || diff < -1e-5 {
				t.Fatalf("coverage(%d,%d) = %v, want %v", x, y, got, want)
			}
		}
	}

	// Radii thinner than the transition band have no interior, so the
	// squared inside bound must never fire; negative radii cover nothing,
	// including at the anchor itself.
	for _, radius := range []float32{0.5, 0.2, 0, -2} {
		req.Radius = radius
		k = newKernel(req)
		for y := 0; y < 9; y++ {
			for x := 0; x < 9; x++ {
				want := CircleCoverage(float32(x-4), float32(y-4), radius)
				got := k.coverage(x, y)
				if diff := got - want; diff > 1e-5 || diff < -1e-5 {
					t.Fatalf("radius %v: coverage(%d,%d) = %v, want %v", radius, x, y, got, want)
				}
			}
		}
	}
}

func TestClassifyRowLine(t *testing.T) {
	// Vertical boundary through x=50 on a 100-wide image: rows are all
	// mixed (the band crosses every row).
	req := &Request{Mode: ModeLine, AnchorX: 50, DownsampleX: 1, DownsampleY: 1}
	k := newKernel(req)
	if got := k.classifyRow(0, 100); got != rowMixed {
		t.Errorf("vertical boundary row = %v, want rowMixed", got)
	}

	// Horizontal boundary (angle 90°) through y=50: rows far above are
	// wholly outside, far below wholly inside.
	req = &Request{Mode: ModeLine, AnchorY: 50, Angle: 90, DownsampleX: 1, DownsampleY: 1}
	k = newKernel(req)
	if got := k.classifyRow(0, 100); got != rowOutside {
		t.Errorf("row 0 = %v, want rowOutside", got)
	}
	if got := k.classifyRow(99, 100); got != rowInside {
		t.Errorf("row 99 = %v, want rowInside", got)
	}
	if got := k.classifyRow(50, 100); got != rowMixed {
		t.Errorf("row 50 = %v, want rowMixed", got)
	}
}

func TestClassifyRowCircle(t *testing.T) {
	req := &Request{
		Mode:        ModeCircle,
		AnchorX:     50,
		AnchorY:     50,
		Radius:      10,
		DownsampleX: 1,
		DownsampleY: 1,
	}
	k := newKernel(req)

	if got := k.classifyRow(0, 100); got != rowOutside {
		t.Errorf("row far above disk = %v, want rowOutside", got)
	}
	if got := k.classifyRow(50, 100); got != rowMixed {
		t.Errorf("row through disk center = %v, want rowMixed", got)
	}

	// A disk wider than the image: the central rows are wholly inside.
	req.Radius = 200
	k = newKernel(req)
	if got := k.classifyRow(50, 100); got != rowInside {
		t.Errorf("central row of huge disk = %v, want rowInside", got)
	}
}

func TestClassifyRowAgreesWithCoverage(t *testing.T) {
	// The classification is an optimization only: whenever it says
	// outside or inside, every pixel of the row must agree.
	reqs := []*Request{
		{Mode: ModeLine, AnchorX: 20, AnchorY: 15, Angle: 35, DownsampleX: 1, DownsampleY: 1},
		{Mode: ModeLine, AnchorX: 5, AnchorY: 30, Angle: 210, DownsampleX: 2, DownsampleY: 1},
		{Mode: ModeCircle, AnchorX: 20, AnchorY: 20, Radius: 7.5, DownsampleX: 1, DownsampleY: 1},
		{Mode: ModeCircle, AnchorX: -5, AnchorY: 10, Radius: 12, DownsampleX: 1, DownsampleY: 0.5},
	}
	const width, height = 40, 40
	for _, req := range reqs {
		k := newKernel(req)
		for y := 0; y < height; y++ {
			class := k.classifyRow(y, width)
			for x := 0; x < width; x++ {
				cov := k.coverage(x, y)
				switch class {
				case rowOutside:
					if cov > coverageEpsilon {
						t.Fatalf("%v y=%d: classified outside but coverage(%d)=%v", req.Mode, y, x, cov)
					}
				case rowInside:
					if cov < coverageFull {
						t.Fatalf("%v y=%d: classified inside but coverage(%d)=%v", req.Mode, y, x, cov)
					}
				}
			}
		}
	}
}

func TestKernelBoundsCircle(t *testing.T) {
	req := &Request{
		Mode:        ModeCircle,
		AnchorX:     10,
		AnchorY:     10,
		Radius:      3,
		DownsampleX: 1,
		DownsampleY: 1,
	}
	k := newKernel(req)
	x0, y0, x1, y1 := k.bounds(100, 100)
	if x0 > 6 || x1 < 15 || y0 > 6 || y1 < 15 {
		t.Errorf("bounds = (%d,%d)-(%d,%d), too tight for radius 3 at (10,10)", x0, y0, x1, y1)
	}
	// Every pixel with non-zero coverage must lie inside the box.
	for y := 0; y < 100; y++ {
		for x := 0; x < 100; x++ {
			if k.coverage(x, y) > coverageEpsilon {
				if x < x0 || x >= x1 || y < y0 || y >= y1 {
					t.Fatalf("pixel (%d,%d) has coverage but is outside bounds (%d,%d)-(%d,%d)",
						x, y, x0, y0, x1, y1)
				}
			}
		}
	}

	// Clamped to the image.
	x0, y0, x1, y1 = k.bounds(12, 12)
	if x0 < 0 || y0 < 0 || x1 > 12 || y1 > 12 {
		t.Errorf("bounds (%d,%d)-(%d,%d) not clamped to 12x12", x0, y0, x1, y1)
	}
}

func TestKernelBoundsDownsample(t *testing.T) {
	// At half resolution (downsample 2) a radius of 10 source pixels
	// spans only ~5 raster pixels.
	req := &Request{
		Mode:        ModeCircle,
		AnchorX:     50,
		AnchorY:     50,
		Radius:      10,
		DownsampleX: 2,
		DownsampleY: 2,
	}
	k := newKernel(req)
	x0, _, x1, _ := k.bounds(100, 100)
	if x1-x0 > 14 {
		t.Errorf("bounds width %d, want about 11 raster pixels for radius 10 at downsample 2", x1-x0)
	}
}
