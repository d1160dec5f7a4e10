package sepcolor

import "fmt"

// PixelFormat identifies the numeric representation of a surface's channels.
type PixelFormat int

const (
	// FormatInt8 is 8 bits per channel, domain [0, 255].
	FormatInt8 PixelFormat = iota

	// FormatInt16 is 16 bits per channel, domain [0, 32768].
	FormatInt16

	// FormatFloat32 is 32-bit float per channel, domain [0.0, 1.0].
	FormatFloat32
)

// String returns the format name.
func (f PixelFormat) String() string {
	switch f {
	case FormatInt8:
		return "int8"
	case FormatInt16:
		return "int16"
	case FormatFloat32:
		return "float32"
	default:
		return fmt.Sprintf("PixelFormat(%d)", int(f))
	}
}

// pixelChannels is the number of elements per pixel (R, G, B, A).
const pixelChannels = 4

// Surface is a rectangular interleaved-RGBA pixel buffer in one of the
// three supported formats. Exactly one of Pix8, Pix16, PixF is non-nil,
// matching Format.
//
// Stride is measured in elements (channels) per row, not bytes, and may
// exceed 4*Width when rows carry padding. Row y occupies elements
// [y*Stride, y*Stride+4*Width).
type Surface struct {
	Width  int
	Height int
	Stride int
	Format PixelFormat

	Pix8  []uint8
	Pix16 []uint16
	PixF  []float32
}

// NewSurface allocates a zeroed surface with a tight stride.
func NewSurface(format PixelFormat, width, height int) *Surface {
	s := &Surface{
		Width:  width,
		Height: height,
		Stride: width * pixelChannels,
		Format: format,
	}
	n := s.Stride * height
	switch format {
	case FormatInt16:
		s.Pix16 = make([]uint16, n)
	case FormatFloat32:
		s.PixF = make([]float32, n)
	default:
		s.Pix8 = make([]uint8, n)
	}
	return s
}

// validate reports structural problems: missing or mismatched backing
// storage, or a stride too small to hold a row.
func (s *Surface) validate() error {
	if s == nil {
		return fmt.Errorf("sepcolor: nil surface")
	}
	if s.Width <= 0 || s.Height <= 0 {
		return fmt.Errorf("sepcolor: invalid surface dimensions %dx%d", s.Width, s.Height)
	}
	if s.Stride < s.Width*pixelChannels {
		return fmt.Errorf("sepcolor: stride %d too small for width %d", s.Stride, s.Width)
	}
	need := (s.Height-1)*s.Stride + s.Width*pixelChannels
	var have int
	switch s.Format {
	case FormatInt8:
		have = len(s.Pix8)
	case FormatInt16:
		have = len(s.Pix16)
	case FormatFloat32:
		have = len(s.PixF)
	default:
		return fmt.Errorf("sepcolor: unknown pixel format %v", s.Format)
	}
	if have < need {
		return fmt.Errorf("sepcolor: %v buffer has %d elements, need %d", s.Format, have, need)
	}
	return nil
}

// aliases reports whether s and o share backing storage. Aliasing is
// decided once per render call by element identity, never per pixel.
func (s *Surface) aliases(o *Surface) bool {
	if s == nil || o == nil || s.Format != o.Format {
		return false
	}
	switch s.Format {
	case FormatInt8:
		return len(s.Pix8) > 0 && len(o.Pix8) > 0 && &s.Pix8[0] == &o.Pix8[0]
	case FormatInt16:
		return len(s.Pix16) > 0 && len(o.Pix16) > 0 && &s.Pix16[0] == &o.Pix16[0]
	case FormatFloat32:
		return len(s.PixF) > 0 && len(o.PixF) > 0 && &s.PixF[0] == &o.PixF[0]
	}
	return false
}

// row8 returns the elements of row y, without padding.
func (s *Surface) row8(y int) []uint8 {
	off := y * s.Stride
	return s.Pix8[off : off+s.Width*pixelChannels]
}

func (s *Surface) row16(y int) []uint16 {
	off := y * s.Stride
	return s.Pix16[off : off+s.Width*pixelChannels]
}

func (s *Surface) rowF(y int) []float32 {
	off := y * s.Stride
	return s.PixF[off : off+s.Width*pixelChannels]
}

// copyRow copies row y of src into dst. Both surfaces must share format
// and dimensions; padding elements are left untouched.
func copyRow(dst, src *Surface, y int) {
	switch dst.Format {
	case FormatInt8:
		copy(dst.row8(y), src.row8(y))
	case FormatInt16:
		copy(dst.row16(y), src.row16(y))
	case FormatFloat32:
		copy(dst.rowF(y), src.rowF(y))
	}
}

// copyAll copies every row of src into dst.
func copyAll(dst, src *Surface) {
	for y := 0; y < dst.Height; y++ {
		copyRow(dst, src, y)
	}
}
