// Copyright (c) 2024, Cogent Core. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package vgpu

import (
	"log/slog"

	"cogentcore.org/playground/base/errors"
	"cogentcore.org/playground/present"
	vk "github.com/goki/vulkan"
)

// Device is a logical vulkan device bound to one window surface,
// with its graphics and present queues. It implements [present.Device],
// mapping the handles of that interface to vulkan objects.
type Device struct {

	// GPU is the instance and physical device.
	GPU *GPU

	// Device is the logical device.
	Device vk.Device

	// Surface is the window surface, owned by the device.
	Surface vk.Surface

	// Families are the graphics and present queue family indices.
	Families present.QueueFamilies

	// GraphicsQueue is the queue that command buffers are submitted to.
	GraphicsQueue vk.Queue

	// PresentQueue is the queue that images are presented on.
	PresentQueue vk.Queue

	swapchains   table[vk.Swapchain]
	chainImages  map[uint64][]uint64
	images       table[vk.Image]
	views        table[vk.ImageView]
	passes       table[vk.RenderPass]
	framebuffers table[vk.Framebuffer]
	semaphores   table[vk.Semaphore]
	fences       table[vk.Fence]
	pools        table[vk.CommandPool]
	poolBuffers  map[uint64][]uint64
	cmdbufs      table[vk.CommandBuffer]

	// cmdErrs are the first recording errors of command buffers,
	// returned by EndCommandBuffer.
	cmdErrs map[uint64]error
	pipelines    table[pipeline]
	buffers      table[buffer]
}

var _ present.Device = (*Device)(nil)

// NewDevice selects a physical device for the surface if none is
// selected yet, and creates the logical device and its queues.
// The device takes ownership of the surface.
func NewDevice(gp *GPU, surface vk.Surface) (*Device, error) {
	if gp.GPU == nil {
		if err := gp.Select(surface); err != nil {
			vk.DestroySurface(gp.Instance, surface, nil)
			return nil, err
		}
	}
	fam, ok := findQueueFamilies(gp.GPU, surface)
	if !ok {
		vk.DestroySurface(gp.Instance, surface, nil)
		return nil, errors.New("vgpu: the GPU cannot present to the window surface")
	}

	dv := &Device{
		GPU:         gp,
		Surface:     surface,
		Families:    fam,
		chainImages: map[uint64][]uint64{},
		poolBuffers: map[uint64][]uint64{},
	}
	families := []uint32{fam.Graphics}
	if fam.Present != fam.Graphics {
		families = append(families, fam.Present)
	}
	queueInfos := make([]vk.DeviceQueueCreateInfo, len(families))
	for i, f := range families {
		queueInfos[i] = vk.DeviceQueueCreateInfo{
			SType:            vk.StructureTypeDeviceQueueCreateInfo,
			QueueFamilyIndex: f,
			QueueCount:       1,
			PQueuePriorities: []float32{1.0},
		}
	}

	var device vk.Device
	ret := vk.CreateDevice(gp.GPU, &vk.DeviceCreateInfo{
		SType:                   vk.StructureTypeDeviceCreateInfo,
		QueueCreateInfoCount:    uint32(len(queueInfos)),
		PQueueCreateInfos:       queueInfos,
		EnabledExtensionCount:   uint32(len(gp.DeviceExts)),
		PpEnabledExtensionNames: gp.DeviceExts,
		EnabledLayerCount:       uint32(len(gp.ValidationLayers)),
		PpEnabledLayerNames:     gp.ValidationLayers,
	}, nil, &device)
	if err := NewError("create device", ret); err != nil {
		vk.DestroySurface(gp.Instance, surface, nil)
		return nil, err
	}
	dv.Device = device

	var queue vk.Queue
	vk.GetDeviceQueue(device, fam.Graphics, 0, &queue)
	dv.GraphicsQueue = queue
	vk.GetDeviceQueue(device, fam.Present, 0, &queue)
	dv.PresentQueue = queue
	slog.Debug("vgpu: created device", "graphics", fam.Graphics, "present", fam.Present)
	return dv, nil
}

// QueueFamilies returns the graphics and present queue family indices.
func (dv *Device) QueueFamilies() present.QueueFamilies {
	return dv.Families
}

// WaitIdle blocks until the device has finished all submitted work.
func (dv *Device) WaitIdle() error {
	return NewError("device wait idle", vk.DeviceWaitIdle(dv.Device))
}

// Destroy waits for the device to be idle and destroys the device and
// the surface. All objects created from the device must have been
// destroyed first.
func (dv *Device) Destroy() {
	if dv.Device == nil {
		return
	}
	vk.DeviceWaitIdle(dv.Device)
	if n := dv.live(); n > 0 {
		slog.Warn("vgpu: destroying device with live objects", "count", n)
	}
	vk.DestroyDevice(dv.Device, nil)
	dv.Device = nil
	if dv.Surface != vk.NullSurface {
		vk.DestroySurface(dv.GPU.Instance, dv.Surface, nil)
		dv.Surface = vk.NullSurface
	}
}

// live returns the number of objects created through the device
// that are not yet destroyed. Swapchain images are not counted.
func (dv *Device) live() int {
	return dv.swapchains.len() + dv.views.len() + dv.passes.len() +
		dv.framebuffers.len() + dv.semaphores.len() + dv.fences.len() +
		dv.pools.len() + dv.pipelines.len() + dv.buffers.len()
}
