// Copyright (c) 2024, Cogent Core. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package present

import (
	"fmt"

	"cogentcore.org/playground/base/errors"
)

// FrameSlot holds the per-frame synchronization objects and command
// buffer for one frame in flight.
type FrameSlot struct {

	// ImageAcquired is signaled when the acquired image is ready to be rendered to.
	ImageAcquired Semaphore

	// RenderFinished is signaled when the frame's commands have completed,
	// and is waited on by presentation.
	RenderFinished Semaphore

	// InFlight is signaled when the GPU has finished the slot's last
	// submission. It is created signaled.
	InFlight Fence

	// Commands is the command buffer that the frame is recorded into.
	Commands CommandBuffer
}

// FrameSlots is the fixed ring of frames in flight. Slots do not depend
// on the swapchain and are not rebuilt with it.
type FrameSlots struct {
	dev   Device
	pool  CommandPool
	slots []FrameSlot
}

// AllocateSlots allocates n frame slots, with command buffers from a
// command pool bound to the given graphics queue family. On failure,
// everything allocated so far is released.
func AllocateSlots(dev Device, n int, family uint32) (*FrameSlots, error) {
	if n < 1 {
		return nil, fmt.Errorf("present: invalid number of frame slots %d", n)
	}
	fs := &FrameSlots{dev: dev}
	if err := fs.allocate(n, family); err != nil {
		fs.Destroy()
		return nil, fmt.Errorf("present: allocate frame slots: %w", err)
	}
	return fs, nil
}

func (fs *FrameSlots) allocate(n int, family uint32) error {
	var err error
	fs.pool, err = fs.dev.CreateCommandPool(family)
	if err != nil {
		return err
	}
	cbs, err := fs.dev.AllocateCommandBuffers(fs.pool, n)
	if err != nil {
		return err
	}
	if len(cbs) != n {
		return errors.New("wrong number of command buffers allocated")
	}
	fs.slots = make([]FrameSlot, 0, n)
	for i := range n {
		s := FrameSlot{Commands: cbs[i]}
		s.ImageAcquired, err = fs.dev.CreateSemaphore()
		if err == nil {
			s.RenderFinished, err = fs.dev.CreateSemaphore()
		}
		if err == nil {
			s.InFlight, err = fs.dev.CreateFence(true)
		}
		fs.slots = append(fs.slots, s)
		if err != nil {
			return err
		}
	}
	return nil
}

// Len returns the number of slots.
func (fs *FrameSlots) Len() int { return len(fs.slots) }

// Slot returns the slot with the given index.
func (fs *FrameSlots) Slot(i int) *FrameSlot { return &fs.slots[i] }

// Reset resets the command buffer of the given slot for recording.
// The slot's fence must have been waited on.
func (fs *FrameSlots) Reset(i int) error {
	return fs.dev.ResetCommandBuffer(fs.slots[i].Commands)
}

// Destroy releases all slot objects and the command pool.
// Calling Destroy more than once is safe. The device must be idle.
func (fs *FrameSlots) Destroy() {
	if fs == nil {
		return
	}
	slots := fs.slots
	fs.slots = nil
	for _, s := range slots {
		if s.ImageAcquired != 0 {
			fs.dev.DestroySemaphore(s.ImageAcquired)
		}
		if s.RenderFinished != 0 {
			fs.dev.DestroySemaphore(s.RenderFinished)
		}
		if s.InFlight != 0 {
			fs.dev.DestroyFence(s.InFlight)
		}
	}
	pool := fs.pool
	fs.pool = 0
	if pool != 0 {
		fs.dev.DestroyCommandPool(pool)
	}
}
