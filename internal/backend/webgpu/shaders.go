// Package webgpu implements the WebGPU accelerator: grayscale conversion and
// histogram accumulation as WGSL compute shaders.
// Uses go-webgpu (github.com/go-webgpu/webgpu) for zero-CGO WebGPU bindings.
package webgpu

// workgroupDim is the edge of the square workgroup both shaders declare.
// 16×16 = 256 invocations, the WebGPU default limit per workgroup.
const workgroupDim = 16

// grayscaleShader converts one pixel per invocation.
//
// The color buffer holds 3 bytes per pixel (blue, green, red) packed into
// u32 words; the gray buffer holds one u32 per pixel so that no two
// invocations write the same word. Invocations outside the image return.
// Each weighted term is its own binding and the sums run red, green, blue,
// the order pixel.Luma uses.
const grayscaleShader = `
struct Params {
    width: u32,
    height: u32,
    count: u32,
    _pad: u32,
}

@group(0) @binding(0) var<storage, read> color: array<u32>;
@group(0) @binding(1) var<storage, read_write> gray: array<u32>;
@group(0) @binding(2) var<uniform> params: Params;

fn channel(offset: u32) -> f32 {
    let word = color[offset / 4u];
    return f32((word >> ((offset % 4u) * 8u)) & 0xffu);
}

@compute @workgroup_size(16, 16, 1)
fn main(@builtin(global_invocation_id) global_id: vec3<u32>) {
    let x = global_id.x;
    let y = global_id.y;
    if (x >= params.width || y >= params.height) {
        return;
    }
    let idx = y * params.width + x;
    let base = idx * 3u;
    let b = channel(base);
    let g = channel(base + 1u);
    let r = channel(base + 2u);
    let wr = 0.299 * r;
    let wg = 0.587 * g;
    let wb = 0.114 * b;
    let luma = (wr + wg) + wb;
    gray[idx] = u32(luma);
}
`

// histogramShader counts gray values with atomicAdd.
//
// The flat index folds local and workgroup ids the same way the software
// accelerator does; the grid may overshoot the pixel count, hence the guard.
const histogramShader = `
struct Params {
    width: u32,
    height: u32,
    count: u32,
    _pad: u32,
}

@group(0) @binding(0) var<storage, read> gray: array<u32>;
@group(0) @binding(1) var<storage, read_write> hist: array<atomic<u32>, 256>;
@group(0) @binding(2) var<uniform> params: Params;

@compute @workgroup_size(16, 16, 1)
fn main(
    @builtin(local_invocation_id) local_id: vec3<u32>,
    @builtin(workgroup_id) group_id: vec3<u32>,
    @builtin(num_workgroups) num_groups: vec3<u32>,
) {
    let thread = local_id.x + local_id.y * 16u;
    let block = group_id.x + group_id.y * num_groups.x;
    let idx = thread + block * 256u;
    if (idx >= params.count) {
        return;
    }
    atomicAdd(&hist[gray[idx] & 0xffu], 1u);
}
`
