// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: BSD-3-Clause

package gpuaccel

import (
	"fmt"

	"github.com/gogpu/naga"
	"github.com/gogpu/wgpu/hal"
)

// maskShaderSource is the WGSL compute kernel. It mirrors the CPU
// kernel exactly: the same signed-distance coverage, the same
// epsilon/full-coverage fast paths (pass-through below 0.0001, solid
// color above 0.9999), the same +0.5-truncate blend rounding, and alpha
// always taken from the source pixel. Pixels arrive packed one u32 per pixel, little-endian RGBA,
// tightly (row padding is stripped on the CPU side).
const maskShaderSource = `
struct Params {
    width: u32,
    height: u32,
    mode: u32,
    _pad0: u32,
    anchor_x: f32,
    anchor_y: f32,
    ds_x: f32,
    ds_y: f32,
    cos_a: f32,
    sin_a: f32,
    radius: f32,
    inv_edge: f32,
    color: vec4<f32>,
}

@group(0) @binding(0) var<uniform> params: Params;
@group(0) @binding(1) var<storage, read> src_pixels: array<u32>;
@group(0) @binding(2) var<storage, read_write> dst_pixels: array<u32>;

@compute @workgroup_size(8, 8, 1)
fn main(@builtin(global_invocation_id) gid: vec3<u32>) {
    if (gid.x >= params.width || gid.y >= params.height) {
        return;
    }
    let idx = gid.y * params.width + gid.x;
    let px = src_pixels[idx];

    let fx = (f32(gid.x) - params.anchor_x) * params.ds_x;
    let fy = (f32(gid.y) - params.anchor_y) * params.ds_y;
    var sd: f32;
    if (params.mode == 0u) {
        sd = (fx * params.cos_a + fy * params.sin_a) * params.inv_edge;
    } else {
        sd = (params.radius - sqrt(fx * fx + fy * fy)) * params.inv_edge;
    }
    let cov = clamp((sd + 1.0) * 0.5, 0.0, 1.0);

    let a = (px >> 24u) & 0xffu;
    if (cov <= 0.0001 || a == 0u) {
        dst_pixels[idx] = px;
        return;
    }
    if (cov >= 0.9999) {
        let r = u32(params.color.x);
        let g = u32(params.color.y);
        let b = u32(params.color.z);
        dst_pixels[idx] = r | (g << 8u) | (b << 16u) | (a << 24u);
        return;
    }
    let w = cov * (f32(a) / 255.0);
    let sr = f32(px & 0xffu);
    let sg = f32((px >> 8u) & 0xffu);
    let sb = f32((px >> 16u) & 0xffu);
    let r = u32(sr + (params.color.x - sr) * w + 0.5);
    let g = u32(sg + (params.color.y - sg) * w + 0.5);
    let b = u32(sb + (params.color.z - sb) * w + 0.5);
    dst_pixels[idx] = r | (g << 8u) | (b << 16u) | (a << 24u);
}
`

// compileShader compiles WGSL to SPIR-V with naga and creates the HAL
// shader module. SPIR-V is little-endian 32-bit words.
func compileShader(device hal.Device, label, wgsl string) (hal.ShaderModule, error) {
	spirvBytes, err := naga.Compile(wgsl)
	if err != nil {
		return nil, fmt.Errorf("compile %s: %w", label, err)
	}
	spirv := make([]uint32, len(spirvBytes)/4)
	for i := range spirv {
		spirv[i] = uint32(spirvBytes[i*4]) |
			uint32(spirvBytes[i*4+1])<<8 |
			uint32(spirvBytes[i*4+2])<<16 |
			uint32(spirvBytes[i*4+3])<<24
	}
	return device.CreateShaderModule(&hal.ShaderModuleDescriptor{
		Label:  label,
		Source: hal.ShaderSource{SPIRV: spirv},
	})
}
