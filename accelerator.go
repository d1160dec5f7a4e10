package sepcolor

import (
	"errors"
	"sync"
)

// ErrUnsupported signals that a backend cannot handle the request (for
// example, the GPU accelerator only supports the 8-bit format). It is
// not a failure: the dispatcher falls through to the next backend.
var ErrUnsupported = errors.New("sepcolor: request not supported by this backend")

// GPUAccelerator is an optional accelerated execution backend.
//
// When registered via RegisterAccelerator, Render tries the accelerator
// first for supported formats. If it returns ErrUnsupported or any other
// error, rendering transparently falls back to the CPU backends; errors
// other than ErrUnsupported are logged but never surfaced to the caller.
//
// Implementations are provided by backend packages. Users opt in via
// blank import:
//
//	import _ "github.com/gogpu/sepcolor/gpu" // enables GPU acceleration
type GPUAccelerator interface {
	// Name returns the accelerator identifier (e.g. "wgpu-compute").
	Name() string

	// Init acquires device resources. Called once during registration.
	// Init failing means the accelerator is not registered; the
	// failure is non-fatal to callers of Render.
	Init() error

	// Close releases device resources. The accelerator must not be
	// used afterwards.
	Close()

	// CanAccelerate reports whether the accelerator supports the given
	// pixel format. A fast check, consulted before every attempt.
	CanAccelerate(f PixelFormat) bool

	// Render executes the full request on the device. Returning
	// ErrUnsupported (or any error) makes the dispatcher fall through.
	Render(req *Request) error
}

var (
	accelMu sync.RWMutex
	accel   GPUAccelerator
)

// RegisterAccelerator registers an accelerated backend. Only one can be
// registered; a subsequent call replaces (and closes) the previous one.
//
// The accelerator's Init is called during registration. If Init fails,
// the accelerator is not registered and the error is returned; render
// calls keep working through the CPU backends.
//
// Capability probing happens inside Init, once. The registered value is
// read-only afterwards and safe to query from any goroutine.
func RegisterAccelerator(a GPUAccelerator) error {
	if a == nil {
		return errors.New("sepcolor: accelerator must not be nil")
	}
	if err := a.Init(); err != nil {
		return err
	}
	propagateLogger(a, Logger())
	accelMu.Lock()
	old := accel
	accel = a
	accelMu.Unlock()
	if old != nil {
		old.Close()
	}
	return nil
}

// Accelerator returns the currently registered accelerator, or nil.
func Accelerator() GPUAccelerator {
	accelMu.RLock()
	a := accel
	accelMu.RUnlock()
	return a
}

// CloseAccelerator unregisters and closes the registered accelerator.
// Call once at process or plugin shutdown. Safe to call when nothing is
// registered.
func CloseAccelerator() {
	accelMu.Lock()
	old := accel
	accel = nil
	accelMu.Unlock()
	if old != nil {
		old.Close()
	}
}

// SetAcceleratorDeviceProvider passes a shared GPU device provider to
// the registered accelerator, avoiding a second device instance when the
// host application already owns one. No-op when nothing is registered or
// the accelerator does not support device sharing.
//
// The provider should implement HalDevice() any and HalQueue() any
// returning wgpu/hal types (see the gpu subpackage).
func SetAcceleratorDeviceProvider(provider any) error {
	a := Accelerator()
	if a == nil {
		return nil
	}
	type deviceProviderAware interface {
		SetDeviceProvider(provider any) error
	}
	if dpa, ok := a.(deviceProviderAware); ok {
		return dpa.SetDeviceProvider(provider)
	}
	return nil
}
