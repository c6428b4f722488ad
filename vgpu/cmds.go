// Copyright (c) 2024, Cogent Core. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package vgpu

import (
	"fmt"
	"log/slog"

	"cogentcore.org/playground/present"
	vk "github.com/goki/vulkan"
)

// CreateCommandPool creates a pool for the queue family whose buffers
// can be reset individually.
func (dv *Device) CreateCommandPool(family uint32) (present.CommandPool, error) {
	var pool vk.CommandPool
	ret := vk.CreateCommandPool(dv.Device, &vk.CommandPoolCreateInfo{
		SType:            vk.StructureTypeCommandPoolCreateInfo,
		QueueFamilyIndex: family,
		Flags:            vk.CommandPoolCreateFlags(vk.CommandPoolCreateResetCommandBufferBit),
	}, nil, &pool)
	if err := NewError("create command pool", ret); err != nil {
		return 0, err
	}
	return present.CommandPool(dv.pools.add(pool)), nil
}

// DestroyCommandPool destroys the pool, which frees its command buffers.
func (dv *Device) DestroyCommandPool(h present.CommandPool) {
	pool, ok := dv.pools.remove(uint64(h))
	if !ok {
		return
	}
	for _, id := range dv.poolBuffers[uint64(h)] {
		dv.cmdbufs.remove(id)
		delete(dv.cmdErrs, id)
	}
	delete(dv.poolBuffers, uint64(h))
	vk.DestroyCommandPool(dv.Device, pool, nil)
}

// AllocateCommandBuffers allocates n primary command buffers from the pool.
func (dv *Device) AllocateCommandBuffers(h present.CommandPool, n int) ([]present.CommandBuffer, error) {
	pool, ok := dv.pools.get(uint64(h))
	if !ok {
		return nil, fmt.Errorf("vgpu: unknown command pool %d", h)
	}
	bufs := make([]vk.CommandBuffer, n)
	ret := vk.AllocateCommandBuffers(dv.Device, &vk.CommandBufferAllocateInfo{
		SType:              vk.StructureTypeCommandBufferAllocateInfo,
		CommandPool:        pool,
		Level:              vk.CommandBufferLevelPrimary,
		CommandBufferCount: uint32(n),
	}, bufs)
	if err := NewError("allocate command buffers", ret); err != nil {
		return nil, err
	}
	res := make([]present.CommandBuffer, n)
	for i, cb := range bufs {
		id := dv.cmdbufs.add(cb)
		dv.poolBuffers[uint64(h)] = append(dv.poolBuffers[uint64(h)], id)
		res[i] = present.CommandBuffer(id)
	}
	return res, nil
}

func (dv *Device) ResetCommandBuffer(h present.CommandBuffer) error {
	delete(dv.cmdErrs, uint64(h))
	cb, err := dv.cmd(h)
	if err != nil {
		return err
	}
	return NewError("reset command buffer", vk.ResetCommandBuffer(cb, 0))
}

func (dv *Device) BeginCommandBuffer(h present.CommandBuffer) error {
	delete(dv.cmdErrs, uint64(h))
	cb, err := dv.cmd(h)
	if err != nil {
		return err
	}
	ret := vk.BeginCommandBuffer(cb, &vk.CommandBufferBeginInfo{
		SType: vk.StructureTypeCommandBufferBeginInfo,
		Flags: vk.CommandBufferUsageFlags(vk.CommandBufferUsageOneTimeSubmitBit),
	})
	return NewError("begin command buffer", ret)
}

// EndCommandBuffer ends recording. It returns the first error of the
// commands recorded since the buffer was begun, such as an unknown handle.
func (dv *Device) EndCommandBuffer(h present.CommandBuffer) error {
	if err, ok := dv.cmdErrs[uint64(h)]; ok {
		delete(dv.cmdErrs, uint64(h))
		return err
	}
	cb, err := dv.cmd(h)
	if err != nil {
		return err
	}
	return NewError("end command buffer", vk.EndCommandBuffer(cb))
}

// CmdBeginRenderPass begins the render pass on the framebuffer,
// clearing the render area to the clear color.
func (dv *Device) CmdBeginRenderPass(h present.CommandBuffer, rph present.RenderPass, fbh present.Framebuffer, area present.Rect, clear present.ClearColor) {
	cb := dv.cmdOrNil(h)
	rp, okp := dv.passes.get(uint64(rph))
	fb, okf := dv.framebuffers.get(uint64(fbh))
	if cb == nil || !okp || !okf {
		dv.cmdError(h, fmt.Errorf("vgpu: begin render pass with unknown handles: pass %d, framebuffer %d", rph, fbh))
		return
	}
	vk.CmdBeginRenderPass(cb, &vk.RenderPassBeginInfo{
		SType:           vk.StructureTypeRenderPassBeginInfo,
		RenderPass:      rp,
		Framebuffer:     fb,
		RenderArea:      rect2D(area),
		ClearValueCount: 1,
		PClearValues:    []vk.ClearValue{vk.NewClearValue(clear[:])},
	}, vk.SubpassContentsInline)
}

func (dv *Device) CmdEndRenderPass(h present.CommandBuffer) {
	if cb := dv.cmdOrNil(h); cb != nil {
		vk.CmdEndRenderPass(cb)
	}
}

func (dv *Device) CmdBindPipeline(h present.CommandBuffer, ph present.Pipeline) {
	cb := dv.cmdOrNil(h)
	p, ok := dv.pipelines.get(uint64(ph))
	if cb == nil || !ok {
		dv.cmdError(h, fmt.Errorf("vgpu: bind unknown pipeline %d", ph))
		return
	}
	vk.CmdBindPipeline(cb, vk.PipelineBindPointGraphics, p.pipeline)
}

func (dv *Device) CmdSetViewport(h present.CommandBuffer, vp present.Viewport) {
	if cb := dv.cmdOrNil(h); cb != nil {
		vk.CmdSetViewport(cb, 0, 1, []vk.Viewport{{
			X:        vp.X,
			Y:        vp.Y,
			Width:    vp.Width,
			Height:   vp.Height,
			MinDepth: vp.MinDepth,
			MaxDepth: vp.MaxDepth,
		}})
	}
}

func (dv *Device) CmdSetScissor(h present.CommandBuffer, r present.Rect) {
	if cb := dv.cmdOrNil(h); cb != nil {
		vk.CmdSetScissor(cb, 0, 1, []vk.Rect2D{rect2D(r)})
	}
}

func (dv *Device) CmdDraw(h present.CommandBuffer, vertexCount, instanceCount, firstVertex, firstInstance uint32) {
	if cb := dv.cmdOrNil(h); cb != nil {
		vk.CmdDraw(cb, vertexCount, instanceCount, firstVertex, firstInstance)
	}
}

func (dv *Device) cmd(h present.CommandBuffer) (vk.CommandBuffer, error) {
	cb, ok := dv.cmdbufs.get(uint64(h))
	if !ok {
		return nil, fmt.Errorf("vgpu: unknown command buffer %d", h)
	}
	return cb, nil
}

// cmdOrNil returns the command buffer of a handle, recording an
// error for EndCommandBuffer when the handle is unknown.
func (dv *Device) cmdOrNil(h present.CommandBuffer) vk.CommandBuffer {
	cb, ok := dv.cmdbufs.get(uint64(h))
	if !ok {
		dv.cmdError(h, fmt.Errorf("vgpu: unknown command buffer %d", h))
	}
	return cb
}

// cmdError keeps the first recording error of the command buffer.
func (dv *Device) cmdError(h present.CommandBuffer, err error) {
	if _, ok := dv.cmdErrs[uint64(h)]; ok {
		return
	}
	if dv.cmdErrs == nil {
		dv.cmdErrs = map[uint64]error{}
	}
	slog.Debug("vgpu: recording error", "cmd", h, "err", err)
	dv.cmdErrs[uint64(h)] = err
}

func rect2D(r present.Rect) vk.Rect2D {
	return vk.Rect2D{
		Offset: vk.Offset2D{X: r.X, Y: r.Y},
		Extent: extent2D(r.Extent),
	}
}
