package sepcolor

// Color8 is a solid color in the 8-bit UI domain (0..255 per channel).
// It is converted to the destination surface's native domain at render
// time. There is no alpha component: the mask only replaces RGB and
// always preserves the source pixel's transparency.
type Color8 struct {
	R, G, B uint8
}

// Domain conversion constants shared by the pixel format adapters.
const (
	// color16Max is the 16-bit channel ceiling. Note this is 32768, not
	// 65535: the 16-bit domain is [0, 32768] so half intensity has an
	// exact representation.
	color16Max = 32768.0

	// color16Scale maps an 8-bit channel into the 16-bit domain.
	color16Scale = color16Max / 255.0

	// color16Round is added before truncation when scaling 8-bit UI
	// colors up to 16 bits.
	color16Round = 127.0

	// colorFloatScale maps an 8-bit channel into the float domain [0, 1].
	colorFloatScale = 1.0 / 255.0
)
