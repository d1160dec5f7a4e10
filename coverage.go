package sepcolor

import "github.com/chewxy/math32"

// edgeWidth is the anti-aliasing transition half-band in source pixels,
// 1/sqrt2: the projection of a half-pixel diagonal. Coverage ramps from
// 0 to 1 over [-edgeWidth, +edgeWidth] of signed distance.
const edgeWidth = 0.70710678118654752440

// Coverage thresholds for the fast paths. Below coverageEpsilon the
// pixel passes through untouched; above coverageFull it takes the solid
// color directly (alpha still from the source pixel).
const (
	coverageEpsilon = 0.0001
	coverageFull    = 0.9999
)

// LineCoverage computes anti-aliased coverage of a rotated half-plane at
// the point (rx, ry), expressed relative to the anchor and already scaled
// by the downsample factors. The half-plane boundary passes through the
// origin; cs and sn are the cosine and sine of the rotation angle.
//
// Returns coverage in [0, 1], where 1 means fully inside the colored side.
func LineCoverage(rx, ry, cs, sn float32) float32 {
	rot := rx*cs + ry*sn
	return coverageFromDistance(rot / edgeWidth)
}

// CircleCoverage computes anti-aliased coverage of a disk of the given
// radius centered on the origin, at the point (rx, ry).
//
// Returns coverage in [0, 1], where 1 means fully inside the disk.
func CircleCoverage(rx, ry, radius float32) float32 {
	dist := math32.Sqrt(rx*rx + ry*ry)
	return coverageFromDistance((radius - dist) / edgeWidth)
}

// coverageFromDistance maps a signed distance in edge-width units to
// clamped coverage: -1 and below is 0, +1 and above is 1.
func coverageFromDistance(sd float32) float32 {
	c := (sd + 1) * 0.5
	if c < 0 {
		return 0
	}
	if c > 1 {
		return 1
	}
	return c
}

// rowClass is the result of classifying a whole row against the
// transition band.
type rowClass int

const (
	rowMixed   rowClass = iota // per-pixel evaluation required
	rowOutside                 // every pixel has coverage ~0
	rowInside                  // every pixel has coverage ~1
)

// kernel carries the per-call precomputed geometry. It is immutable
// after newKernel and shared read-only by all workers.
type kernel struct {
	mode     ShapeMode
	ax, ay   float32 // anchor
	dsx, dsy float32 // downsample factors
	cs, sn   float32 // line rotation
	radius   float32
	rMinus2  float32 // (radius-edgeWidth)^2, squared inner bound
	rPlus2   float32 // (radius+edgeWidth)^2, squared outer bound
}

func newKernel(req *Request) kernel {
	k := kernel{
		mode:   req.Mode,
		ax:     float32(req.AnchorX),
		ay:     float32(req.AnchorY),
		dsx:    req.DownsampleX,
		dsy:    req.DownsampleY,
		radius: req.Radius,
	}
	if k.mode == ModeLine {
		// Reduce modulo 360 before the trig so huge dial values keep
		// full precision.
		deg := math32.Mod(req.Angle, 360)
		rad := deg * (math32.Pi / 180)
		k.cs = math32.Cos(rad)
		k.sn = math32.Sin(rad)
	} else {
		rm := k.radius - edgeWidth
		rp := k.radius + edgeWidth
		if rm > 0 {
			k.rMinus2 = rm * rm
		} else {
			// The disk is thinner than the transition band: it has no
			// full-coverage interior. A negative sentinel keeps the
			// inside fast path (dist2 <= rMinus2) from ever firing, so
			// small and negative radii fall through to the exact
			// arithmetic.
			k.rMinus2 = -1
		}
		k.rPlus2 = rp * rp
	}
	return k
}

// coverage evaluates the mask at pixel (x, y).
func (k *kernel) coverage(x, y int) float32 {
	rx := (float32(x) - k.ax) * k.dsx
	ry := (float32(y) - k.ay) * k.dsy
	if k.mode == ModeLine {
		return LineCoverage(rx, ry, k.cs, k.sn)
	}
	// Squared-distance bounds avoid the sqrt away from the edge.
	dist2 := rx*rx + ry*ry
	if dist2 >= k.rPlus2 {
		return 0
	}
	if dist2 <= k.rMinus2 {
		return 1
	}
	dist := math32.Sqrt(dist2)
	return coverageFromDistance((k.radius - dist) / edgeWidth)
}

// classifyRow checks whether row y lies entirely outside or entirely
// inside the transition band, using only the row's endpoint extrema.
// Mixed rows fall back to per-pixel evaluation.
func (k *kernel) classifyRow(y, width int) rowClass {
	ry := (float32(y) - k.ay) * k.dsy
	rx0 := (0 - k.ax) * k.dsx
	rx1 := (float32(width-1) - k.ax) * k.dsx

	if k.mode == ModeLine {
		// rot is linear in x, so its extrema are at the endpoints.
		rot0 := rx0*k.cs + ry*k.sn
		rot1 := rx1*k.cs + ry*k.sn
		lo, hi := rot0, rot1
		if lo > hi {
			lo, hi = hi, lo
		}
		if hi <= -edgeWidth {
			return rowOutside
		}
		if lo >= edgeWidth {
			return rowInside
		}
		return rowMixed
	}

	// Circle: squared distance along the row is fy^2 + fx^2 with fx
	// ranging over [rx0, rx1] (assuming dsx > 0). The maximum is at an
	// endpoint; the minimum is at fx=0 when the anchor column lies
	// inside the row, else at the nearer endpoint.
	fy2 := ry * ry
	a0, a1 := rx0*rx0, rx1*rx1
	max2 := fy2 + math32.Max(a0, a1)
	var min2 float32
	if rx0 <= 0 && rx1 >= 0 || rx1 <= 0 && rx0 >= 0 {
		min2 = fy2
	} else {
		min2 = fy2 + math32.Min(a0, a1)
	}
	if min2 >= k.rPlus2 {
		return rowOutside
	}
	if max2 <= k.rMinus2 {
		return rowInside
	}
	return rowMixed
}

// bounds returns the pixel rectangle that can possibly intersect the
// transition band or its interior, clamped to [0,width)x[0,height).
// For line mode it is the whole image.
func (k *kernel) bounds(width, height int) (x0, y0, x1, y1 int) {
	if k.mode == ModeLine {
		return 0, 0, width, height
	}
	ex := (k.radius + edgeWidth) / math32.Max(k.dsx, 1e-6)
	ey := (k.radius + edgeWidth) / math32.Max(k.dsy, 1e-6)
	x0 = max(0, int(math32.Floor(k.ax-ex)))
	x1 = min(width, int(math32.Ceil(k.ax+ex))+1)
	y0 = max(0, int(math32.Floor(k.ay-ey)))
	y1 = min(height, int(math32.Ceil(k.ay+ey))+1)
	return x0, y0, x1, y1
}
