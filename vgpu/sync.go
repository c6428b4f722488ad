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

func (dv *Device) CreateSemaphore() (present.Semaphore, error) {
	var sem vk.Semaphore
	ret := vk.CreateSemaphore(dv.Device, &vk.SemaphoreCreateInfo{
		SType: vk.StructureTypeSemaphoreCreateInfo,
	}, nil, &sem)
	if err := NewError("create semaphore", ret); err != nil {
		return 0, err
	}
	return present.Semaphore(dv.semaphores.add(sem)), nil
}

func (dv *Device) DestroySemaphore(h present.Semaphore) {
	if sem, ok := dv.semaphores.remove(uint64(h)); ok {
		vk.DestroySemaphore(dv.Device, sem, nil)
	}
}

// CreateFence creates a fence, optionally already signaled.
func (dv *Device) CreateFence(signaled bool) (present.Fence, error) {
	info := &vk.FenceCreateInfo{SType: vk.StructureTypeFenceCreateInfo}
	if signaled {
		info.Flags = vk.FenceCreateFlags(vk.FenceCreateSignaledBit)
	}
	var fence vk.Fence
	if err := NewError("create fence", vk.CreateFence(dv.Device, info, nil, &fence)); err != nil {
		return 0, err
	}
	return present.Fence(dv.fences.add(fence)), nil
}

func (dv *Device) DestroyFence(h present.Fence) {
	if f, ok := dv.fences.remove(uint64(h)); ok {
		vk.DestroyFence(dv.Device, f, nil)
	}
}

// WaitFence blocks until the fence is signaled, or the timeout
// expires with [present.ErrTimeout]. A timeout of 0 waits forever.
func (dv *Device) WaitFence(h present.Fence, timeout time.Duration) error {
	f, err := dv.fence(h)
	if err != nil {
		return err
	}
	ret := vk.WaitForFences(dv.Device, 1, []vk.Fence{f}, vk.True, timeoutNanos(timeout))
	if ret == vk.Timeout {
		return fmt.Errorf("vulkan wait for fence: %w", present.ErrTimeout)
	}
	return NewError("wait for fence", ret)
}

func (dv *Device) ResetFence(h present.Fence) error {
	f, err := dv.fence(h)
	if err != nil {
		return err
	}
	return NewError("reset fence", vk.ResetFences(dv.Device, 1, []vk.Fence{f}))
}

func (dv *Device) fence(h present.Fence) (vk.Fence, error) {
	f, ok := dv.fences.get(uint64(h))
	if !ok {
		return vk.NullFence, fmt.Errorf("vgpu: unknown fence %d", h)
	}
	return f, nil
}

func (dv *Device) semaphore(h present.Semaphore) (vk.Semaphore, error) {
	s, ok := dv.semaphores.get(uint64(h))
	if !ok {
		return nil, fmt.Errorf("vgpu: unknown semaphore %d", h)
	}
	return s, nil
}
