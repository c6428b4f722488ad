// Copyright (c) 2024, Cogent Core. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package vgpu

import (
	"fmt"
	"time"

	"cogentcore.org/playground/present"
	vk "github.com/goki/vulkan"
)

// AcquireNextImage acquires the next image of the swapchain, signaling
// the semaphore when the image is ready to be rendered to.
func (dv *Device) AcquireNextImage(h present.SwapchainHandle, signal present.Semaphore, timeout time.Duration) (uint32, present.Status, error) {
	sc, ok := dv.swapchains.get(uint64(h))
	if !ok {
		return 0, present.StatusOK, fmt.Errorf("vgpu: unknown swapchain %d", h)
	}
	sem, err := dv.semaphore(signal)
	if err != nil {
		return 0, present.StatusOK, err
	}
	var idx uint32
	ret := vk.AcquireNextImage(dv.Device, sc, timeoutNanos(timeout), sem, vk.NullFence, &idx)
	st, err := status("acquire next image", ret)
	return idx, st, err
}

// Submit submits one command buffer to the graphics queue.
func (dv *Device) Submit(info *present.SubmitInfo) error {
	cb, err := dv.cmd(info.Buffer)
	if err != nil {
		return err
	}
	wait, err := dv.semaphore(info.Wait)
	if err != nil {
		return err
	}
	signal, err := dv.semaphore(info.Signal)
	if err != nil {
		return err
	}
	fence, err := dv.fence(info.Fence)
	if err != nil {
		return err
	}
	ret := vk.QueueSubmit(dv.GraphicsQueue, 1, []vk.SubmitInfo{{
		SType:                vk.StructureTypeSubmitInfo,
		WaitSemaphoreCount:   1,
		PWaitSemaphores:      []vk.Semaphore{wait},
		PWaitDstStageMask:    []vk.PipelineStageFlags{vk.PipelineStageFlags(info.WaitStage)},
		CommandBufferCount:   1,
		PCommandBuffers:      []vk.CommandBuffer{cb},
		SignalSemaphoreCount: 1,
		PSignalSemaphores:    []vk.Semaphore{signal},
	}}, fence)
	return NewError("queue submit", ret)
}

// Present queues the image for presentation on the present queue,
// after the wait semaphore is signaled.
func (dv *Device) Present(info *present.PresentInfo) (present.Status, error) {
	sc, ok := dv.swapchains.get(uint64(info.Swapchain))
	if !ok {
		return present.StatusOK, fmt.Errorf("vgpu: unknown swapchain %d", info.Swapchain)
	}
	wait, err := dv.semaphore(info.Wait)
	if err != nil {
		return present.StatusOK, err
	}
	ret := vk.QueuePresent(dv.PresentQueue, &vk.PresentInfo{
		SType:              vk.StructureTypePresentInfo,
		WaitSemaphoreCount: 1,
		PWaitSemaphores:    []vk.Semaphore{wait},
		SwapchainCount:     1,
		PSwapchains:        []vk.Swapchain{sc},
		PImageIndices:      []uint32{info.ImageIndex},
	})
	return status("queue present", ret)
}
