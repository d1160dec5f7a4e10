package sepcolor

// Host parameter sources deliver positions and angles in 16.16 fixed
// point. The helpers here decode them the way the effect's UI defines
// the controls; everything else about parameter retrieval stays on the
// host side.

// FixedToInt truncates a 16.16 fixed-point value to its integer part.
// Anchor point coordinates arrive in this encoding.
func FixedToInt(v int32) int { return int(v >> 16) }

// FixedToDegrees converts a 16.16 fixed-point angle dial value to whole
// degrees. Reduction modulo 360 happens later, inside the kernel setup.
func FixedToDegrees(v int32) float32 { return float32(v >> 16) }

// ParamSource is the read-only accessor contract for host-held effect
// parameters. Fixed-point encodings are already decoded; a Request built
// from a source is self-contained afterwards.
type ParamSource interface {
	// Anchor returns the shape anchor in integer pixel coordinates.
	Anchor() (x, y int)

	// Mode returns the shape selector.
	Mode() ShapeMode

	// Angle returns the line angle in degrees.
	Angle() float32

	// Radius returns the circle radius in fractional source pixels.
	Radius() float32

	// Color returns the solid fill in the 8-bit UI domain.
	Color() Color8
}

// NewRequest builds a render request from host parameters and buffers.
// Downsample factors default to 1; callers rendering proxies overwrite
// them afterwards.
func NewRequest(p ParamSource, src, dst *Surface) *Request {
	ax, ay := p.Anchor()
	return &Request{
		Src:     src,
		Dst:     dst,
		Mode:    p.Mode(),
		AnchorX: ax,
		AnchorY: ay,
		Angle:   p.Angle(),
		Radius:  p.Radius(),
		Color:   p.Color(),
	}
}
