// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: BSD-3-Clause

// Package gpuaccel implements the accelerated render backend on
// wgpu/hal compute shaders.
//
// The whole mask-and-blend kernel runs as a single compute dispatch:
// coverage evaluation and color blending per pixel, 8x8 workgroup
// tiling over the image. Only the 8-bit format is supported; 16-bit and
// float requests report unsupported so the dispatcher falls through to
// the CPU backends.
//
// Device availability is probed once at Init. A missing Vulkan runtime
// or adapter is not an error to callers: the accelerator stays in a
// not-ready state and every render attempt falls through.
package gpuaccel
