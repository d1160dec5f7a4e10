package sepcolor

import "fmt"

// ShapeMode selects the mask geometry.
type ShapeMode int

const (
	// ModeLine masks a rotated half-plane: everything on the positive
	// side of a line through the anchor point, at the given angle.
	ModeLine ShapeMode = iota

	// ModeCircle masks a disk of the given radius around the anchor.
	ModeCircle
)

// String returns the mode name.
func (m ShapeMode) String() string {
	if m == ModeLine {
		return "line"
	}
	return "circle"
}

// Request describes a single render call. It is read-only for the
// duration of [Render]; nothing is retained between calls.
//
// Geometry fields are deliberately not validated: a negative Radius
// simply produces empty coverage, and a mode value other than ModeLine
// renders as ModeCircle. Angle is reduced modulo 360 degrees before any
// trigonometric use.
type Request struct {
	// Src is the input surface. It may share storage with Dst, in which
	// case the render runs in place.
	Src *Surface

	// Dst is the output surface. Must match Src in format and dimensions.
	Dst *Surface

	// Mode selects line or circle masking.
	Mode ShapeMode

	// AnchorX, AnchorY position the shape, in integer pixel coordinates.
	AnchorX int
	AnchorY int

	// Angle is the line rotation in degrees. Unused in circle mode.
	Angle float32

	// Radius is the disk radius in source pixels. Unused in line mode.
	Radius float32

	// Color is the solid fill, in the 8-bit UI domain regardless of the
	// surface format.
	Color Color8

	// DownsampleX, DownsampleY scale all spatial math so results stay
	// resolution-independent when rendering proxies. Zero is treated
	// as 1.
	DownsampleX float32
	DownsampleY float32

	// Iterator, when non-nil, is the host iteration service used as the
	// second backend in the fallback chain. When nil the built-in row
	// loop runs instead.
	Iterator Iterator

	// Abort, when non-nil, is polled between rows. A non-nil return
	// cancels the render and is propagated verbatim; rows already
	// written are left as-is.
	Abort func() error

	// inPlace records whether Src and Dst share storage. Computed once
	// in prepare.
	inPlace bool
}

// prepare validates the surfaces, fills defaulted fields, and computes
// the in-place flag. Called once at the top of Render.
func (r *Request) prepare() error {
	if r == nil {
		return fmt.Errorf("sepcolor: nil request")
	}
	if err := r.Src.validate(); err != nil {
		return err
	}
	if err := r.Dst.validate(); err != nil {
		return err
	}
	if r.Src.Format != r.Dst.Format {
		return fmt.Errorf("sepcolor: format mismatch: src %v, dst %v", r.Src.Format, r.Dst.Format)
	}
	if r.Src.Width != r.Dst.Width || r.Src.Height != r.Dst.Height {
		return fmt.Errorf("sepcolor: size mismatch: src %dx%d, dst %dx%d",
			r.Src.Width, r.Src.Height, r.Dst.Width, r.Dst.Height)
	}
	if r.DownsampleX == 0 {
		r.DownsampleX = 1
	}
	if r.DownsampleY == 0 {
		r.DownsampleY = 1
	}
	r.inPlace = r.Src.aliases(r.Dst)
	return nil
}

// InPlace reports whether Src and Dst share storage. Only meaningful
// after Render has started (the flag is computed during preparation).
func (r *Request) InPlace() bool { return r.inPlace }

// checkAbort polls the host cancellation query, if any.
func (r *Request) checkAbort() error {
	if r.Abort == nil {
		return nil
	}
	return r.Abort()
}
