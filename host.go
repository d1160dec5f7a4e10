package sepcolor

import "image"

// PixelFunc is invoked once per pixel by a host iteration service. A
// non-nil return aborts the iteration; the service propagates it back
// verbatim.
type PixelFunc func(x, y int) error

// Iterator is a host-provided iteration service, the middle backend of
// the fallback chain. The service owns its own parallelism and abort
// checking: it invokes fn exactly once for every pixel inside region
// (which is clamped to the image by the caller) and returns the first
// error reported by fn, or its own abort error.
//
// A serial reference implementation is [SerialIterator].
type Iterator interface {
	Iterate(region image.Rectangle, fn PixelFunc) error
}

// SerialIterator is a minimal single-threaded Iterator with optional
// cooperative cancellation polled at row granularity. Hosts with real
// thread pools supply their own implementation; this one exists for
// tests and standalone use.
type SerialIterator struct {
	// Abort, when non-nil, is polled before each row.
	Abort func() error
}

// Iterate visits every pixel of region in row-major order.
func (it *SerialIterator) Iterate(region image.Rectangle, fn PixelFunc) error {
	for y := region.Min.Y; y < region.Max.Y; y++ {
		if it.Abort != nil {
			if err := it.Abort(); err != nil {
				return err
			}
		}
		for x := region.Min.X; x < region.Max.X; x++ {
			if err := fn(x, y); err != nil {
				return err
			}
		}
	}
	return nil
}
