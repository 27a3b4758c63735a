//go:build windows

package webgpu

import (
	"fmt"
	"unsafe"

	"github.com/go-webgpu/webgpu/wgpu"
	"github.com/gogpu/gputypes"
)

// kernel is a compiled shader and the compute pipeline built from it.
type kernel struct {
	shader   *wgpu.ShaderModule
	pipeline *wgpu.ComputePipeline
	layout   *wgpu.BindGroupLayout
}

func (k *kernel) release() {
	k.layout.Release()
	k.pipeline.Release()
	k.shader.Release()
}

// loadKernel returns the pipeline for a shader, compiling it on first use.
func (b *Backend) loadKernel(name, wgsl string) (*kernel, error) {
	b.kernelsMu.Lock()
	defer b.kernelsMu.Unlock()

	if k, ok := b.kernels[name]; ok {
		return k, nil
	}
	shader := b.device.CreateShaderModuleWGSL(wgsl)
	if shader == nil {
		return nil, fmt.Errorf("webgpu: compile %s shader", name)
	}
	pipeline := b.device.CreateComputePipelineSimple(nil, shader, "main")
	if pipeline == nil {
		shader.Release()
		return nil, fmt.Errorf("webgpu: create %s pipeline", name)
	}
	layout := pipeline.GetBindGroupLayout(0)
	if layout == nil {
		pipeline.Release()
		shader.Release()
		return nil, fmt.Errorf("webgpu: %s bind group layout", name)
	}

	k := &kernel{shader: shader, pipeline: pipeline, layout: layout}
	b.kernels[name] = k
	return k, nil
}

// upload creates a buffer holding a copy of data.
func (b *Backend) upload(data []byte, usage gputypes.BufferUsage) *wgpu.Buffer {
	size := uint64(len(data))
	buf := b.device.CreateBuffer(&wgpu.BufferDescriptor{
		Usage:            usage,
		Size:             size,
		MappedAtCreation: wgpu.True,
	})
	//nolint:gosec // mapped range is size bytes long
	copy(unsafe.Slice((*byte)(buf.GetMappedRange(0, size)), size), data)
	buf.Unmap()

	b.mem.Alloc(size)
	return buf
}

// alloc creates an uninitialized buffer of size bytes.
func (b *Backend) alloc(size uint64, usage gputypes.BufferUsage) *wgpu.Buffer {
	buf := b.device.CreateBuffer(&wgpu.BufferDescriptor{Usage: usage, Size: size})
	b.mem.Alloc(size)
	return buf
}

// free releases a buffer made by upload or alloc.
func (b *Backend) free(buf *wgpu.Buffer, size uint64) {
	if buf == nil {
		return
	}
	buf.Release()
	b.mem.Free(size)
}

// uniform uploads params padded to the 16-byte uniform alignment.
func (b *Backend) uniform(params []byte) *wgpu.Buffer {
	padded := make([]byte, (len(params)+15)&^15)
	copy(padded, params)
	return b.upload(padded, gputypes.BufferUsageUniform|gputypes.BufferUsageCopyDst)
}

// launch records one compute pass of groupsX×groupsY workgroups.
// Nothing runs until the next wait.
func (b *Backend) launch(name, wgsl string, bindings []wgpu.BindGroupEntry, groupsX, groupsY uint32) error {
	k, err := b.loadKernel(name, wgsl)
	if err != nil {
		return err
	}
	group := b.device.CreateBindGroupSimple(k.layout, bindings)
	if group == nil {
		return fmt.Errorf("webgpu: %s bind group", name)
	}
	defer group.Release()

	enc := b.device.CreateCommandEncoder(nil)
	defer enc.Release()
	pass := enc.BeginComputePass(nil)
	pass.SetPipeline(k.pipeline)
	pass.SetBindGroup(0, group, nil)
	pass.DispatchWorkgroups(groupsX, groupsY, 1)
	pass.End()
	pass.Release()

	b.enqueue(enc.Finish(nil))
	return nil
}

// download copies the first size bytes of each source into host memory
// through one staging buffer. Recorded kernels are submitted first, so the
// copy observes their results.
func (b *Backend) download(srcs []*wgpu.Buffer, sizes []uint64) ([][]byte, error) {
	var total uint64
	for _, size := range sizes {
		total += size
	}
	staging := b.device.CreateBuffer(&wgpu.BufferDescriptor{
		Usage: gputypes.BufferUsageMapRead | gputypes.BufferUsageCopyDst,
		Size:  total,
	})
	defer staging.Release()

	enc := b.device.CreateCommandEncoder(nil)
	var offset uint64
	for i, src := range srcs {
		enc.CopyBufferToBuffer(src, 0, staging, offset, sizes[i])
		offset += sizes[i]
	}
	b.enqueue(enc.Finish(nil))
	enc.Release()
	b.submit()

	if err := staging.MapAsync(b.device, wgpu.MapModeRead, 0, total); err != nil {
		return nil, fmt.Errorf("webgpu: map staging buffer: %w", err)
	}
	defer staging.Unmap()

	//nolint:gosec // mapped range is total bytes long
	mapped := unsafe.Slice((*byte)(staging.GetMappedRange(0, total)), total)
	out := make([][]byte, len(srcs))
	offset = 0
	for i, size := range sizes {
		out[i] = append([]byte(nil), mapped[offset:offset+size]...)
		offset += size
	}
	return out, nil
}
