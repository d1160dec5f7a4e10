package sepcolor

// channel constrains the supported per-channel numeric types.
type channel interface {
	~uint8 | ~uint16 | ~float32
}

// pixelOps is the pixel format adapter: numeric conversion into the
// native domain, the blend rounding rule, and the transparency test.
// The three implementations are zero-size structs so the generic row
// kernels specialize without indirection.
//
// All three formats make the same visual coverage decision; only the
// blend arithmetic's rounding differs.
type pixelOps[T channel] interface {
	// Blend composites dst over src weighted by w, the effective
	// coverage (mask coverage times normalized source alpha).
	Blend(src, dst T, w float32) T

	// Transparent reports whether alpha a marks a fully transparent
	// pixel. Transparent pixels pass through regardless of coverage.
	Transparent(a T) bool

	// NormAlpha maps an alpha channel value into [0, 1].
	NormAlpha(a T) float32

	// Convert maps an 8-bit UI color into the native domain.
	Convert(c Color8) (r, g, b T)
}

// ops8 adapts the 8-bit integer format, domain [0, 255].
type ops8 struct{}

func (ops8) Blend(src, dst uint8, w float32) uint8 {
	return uint8(float32(src) + (float32(dst)-float32(src))*w + 0.5)
}

func (ops8) Transparent(a uint8) bool { return a == 0 }

func (ops8) NormAlpha(a uint8) float32 { return float32(a) * colorFloatScale }

func (ops8) Convert(c Color8) (r, g, b uint8) {
	// The UI domain is the native domain.
	return c.R, c.G, c.B
}

// ops16 adapts the 16-bit integer format, domain [0, 32768].
type ops16 struct{}

func (ops16) Blend(src, dst uint16, w float32) uint16 {
	return uint16(float32(src) + (float32(dst)-float32(src))*w + 0.5)
}

func (ops16) Transparent(a uint16) bool { return a == 0 }

func (ops16) NormAlpha(a uint16) float32 { return float32(a) * (1.0 / color16Max) }

func (ops16) Convert(c Color8) (r, g, b uint16) {
	r = uint16(float32(c.R)*color16Scale + color16Round)
	g = uint16(float32(c.G)*color16Scale + color16Round)
	b = uint16(float32(c.B)*color16Scale + color16Round)
	return r, g, b
}

// opsF adapts the 32-bit float format, domain [0.0, 1.0]. Out-of-range
// values are passed through unclamped, matching float compositing
// conventions.
type opsF struct{}

func (opsF) Blend(src, dst float32, w float32) float32 {
	return src + (dst-src)*w
}

func (opsF) Transparent(a float32) bool { return a <= 0 }

func (opsF) NormAlpha(a float32) float32 { return a }

func (opsF) Convert(c Color8) (r, g, b float32) {
	return float32(c.R) * colorFloatScale, float32(c.G) * colorFloatScale, float32(c.B) * colorFloatScale
}

// blendPixel composites the solid color into dst[do:do+4] through cov,
// reading the source pixel from src[so:so+4]. cr, cg, cb are the solid
// color pre-converted to the native domain.
//
// The alpha channel is always copied from the source, never blended:
// the mask changes RGB only and must not introduce or remove
// transparency.
func blendPixel[T channel, O pixelOps[T]](o O, src, dst []T, so, do int, cov float32, cr, cg, cb T, inPlace bool) {
	a := src[so+3]
	if cov <= coverageEpsilon || o.Transparent(a) {
		if !inPlace {
			dst[do] = src[so]
			dst[do+1] = src[so+1]
			dst[do+2] = src[so+2]
			dst[do+3] = a
		}
		return
	}
	if cov >= coverageFull {
		dst[do] = cr
		dst[do+1] = cg
		dst[do+2] = cb
		dst[do+3] = a
		return
	}
	w := cov * o.NormAlpha(a)
	dst[do] = o.Blend(src[so], cr, w)
	dst[do+1] = o.Blend(src[so+1], cg, w)
	dst[do+2] = o.Blend(src[so+2], cb, w)
	dst[do+3] = a
}

// fillRowSolid writes the solid color across a row span while keeping
// each pixel's source alpha; transparent pixels pass through whole.
// Used by the row early-out when an entire row sits inside the mask.
func fillRowSolid[T channel, O pixelOps[T]](o O, src, dst []T, x0, x1 int, cr, cg, cb T) {
	for x := x0; x < x1; x++ {
		off := x * pixelChannels
		a := src[off+3]
		if o.Transparent(a) {
			dst[off] = src[off]
			dst[off+1] = src[off+1]
			dst[off+2] = src[off+2]
			dst[off+3] = a
			continue
		}
		dst[off] = cr
		dst[off+1] = cg
		dst[off+2] = cb
		dst[off+3] = a
	}
}

// blendRow evaluates the mask per pixel across a full row.
func blendRow[T channel, O pixelOps[T]](o O, k *kernel, src, dst []T, y, width int, cr, cg, cb T, inPlace bool) {
	for x := 0; x < width; x++ {
		off := x * pixelChannels
		blendPixel(o, src, dst, off, off, k.coverage(x, y), cr, cg, cb, inPlace)
	}
}
