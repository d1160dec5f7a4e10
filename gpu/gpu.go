//go:build !nogpu

// Package gpu registers the wgpu compute accelerator for GPU-accelerated
// mask rendering.
//
// Import this package for its side effect:
//
//	import _ "github.com/gogpu/sepcolor/gpu" // enable GPU acceleration
//
// If GPU initialization fails (no Vulkan available), registration still
// succeeds with a disabled accelerator and rendering falls back to the
// CPU backends. Only the 8-bit pixel format runs on the GPU.
package gpu

import (
	"github.com/gogpu/gpucontext"
	"github.com/gogpu/sepcolor"
	"github.com/gogpu/sepcolor/internal/gpuaccel"
)

func init() {
	if err := sepcolor.RegisterAccelerator(&gpuaccel.Accel{}); err != nil {
		sepcolor.Logger().Warn("sepcolor: GPU accelerator not available", "err", err)
	}
}

// DeviceHandle provides GPU device access from a host application that
// already owns a device (e.g. a gogpu window). It is an alias for
// gpucontext.DeviceProvider, keeping full compatibility with the
// gpucontext ecosystem.
type DeviceHandle = gpucontext.DeviceProvider

// SetDeviceProvider configures the accelerator to reuse a shared GPU
// device instead of creating its own. The provider should also expose
// HalDevice() any and HalQueue() any returning wgpu/hal types.
//
// Call this after import, before the first render.
func SetDeviceProvider(provider DeviceHandle) error {
	return sepcolor.SetAcceleratorDeviceProvider(provider)
}
