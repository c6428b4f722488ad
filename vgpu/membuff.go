// Copyright (c) 2024, Cogent Core. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package vgpu

import (
	"fmt"
	"unsafe"

	vk "github.com/goki/vulkan"
)

// buffer is a vulkan buffer and the memory bound to it.
type buffer struct {
	buf  vk.Buffer
	mem  vk.DeviceMemory
	size int
}

// BufferUsage is the usage of a host visible buffer.
type BufferUsage int32

const (
	// VertexBuffer holds vertex values.
	VertexBuffer BufferUsage = iota

	// IndexBuffer holds index values.
	IndexBuffer
)

// bufferUsages maps BufferUsage into buffer usage flags.
var bufferUsages = map[BufferUsage]vk.BufferUsageFlagBits{
	VertexBuffer: vk.BufferUsageVertexBufferBit,
	IndexBuffer:  vk.BufferUsageIndexBufferBit,
}

// NewHostBuffer creates a buffer in host visible, coherent memory
// holding a copy of data, and returns its handle.
func (dv *Device) NewHostBuffer(data []byte, usage BufferUsage) (uint64, error) {
	if len(data) == 0 {
		return 0, fmt.Errorf("vgpu: empty buffer")
	}
	var b buffer
	b.size = len(data)
	ret := vk.CreateBuffer(dv.Device, &vk.BufferCreateInfo{
		SType:       vk.StructureTypeBufferCreateInfo,
		Usage:       vk.BufferUsageFlags(bufferUsages[usage]),
		Size:        vk.DeviceSize(len(data)),
		SharingMode: vk.SharingModeExclusive,
	}, nil, &b.buf)
	if err := NewError("create buffer", ret); err != nil {
		return 0, err
	}

	var reqs vk.MemoryRequirements
	vk.GetBufferMemoryRequirements(dv.Device, b.buf, &reqs)
	reqs.Deref()
	props := vk.MemoryPropertyHostVisibleBit | vk.MemoryPropertyHostCoherentBit
	memType, ok := FindRequiredMemoryType(dv.GPU.MemoryProps, reqs.MemoryTypeBits, props)
	if !ok {
		vk.DestroyBuffer(dv.Device, b.buf, nil)
		return 0, fmt.Errorf("vgpu: no host visible memory type for buffer")
	}
	ret = vk.AllocateMemory(dv.Device, &vk.MemoryAllocateInfo{
		SType:           vk.StructureTypeMemoryAllocateInfo,
		AllocationSize:  reqs.Size,
		MemoryTypeIndex: memType,
	}, nil, &b.mem)
	if err := NewError("allocate memory", ret); err != nil {
		vk.DestroyBuffer(dv.Device, b.buf, nil)
		return 0, err
	}
	if err := dv.fill(&b, data); err != nil {
		dv.free(&b)
		return 0, err
	}
	return dv.buffers.add(b), nil
}

func (dv *Device) fill(b *buffer, data []byte) error {
	if err := NewError("bind buffer memory", vk.BindBufferMemory(dv.Device, b.buf, b.mem, 0)); err != nil {
		return err
	}
	var ptr unsafe.Pointer
	if err := NewError("map memory", vk.MapMemory(dv.Device, b.mem, 0, vk.DeviceSize(len(data)), 0, &ptr)); err != nil {
		return err
	}
	vk.Memcopy(ptr, data)
	vk.UnmapMemory(dv.Device, b.mem)
	return nil
}

// DestroyBuffer destroys a buffer made by [Device.NewHostBuffer]
// and frees its memory.
func (dv *Device) DestroyBuffer(h uint64) {
	if b, ok := dv.buffers.remove(h); ok {
		dv.free(&b)
	}
}

func (dv *Device) free(b *buffer) {
	vk.DestroyBuffer(dv.Device, b.buf, nil)
	vk.FreeMemory(dv.Device, b.mem, nil)
	b.buf = vk.NullBuffer
	b.mem = vk.NullDeviceMemory
}

// FindRequiredMemoryType returns the index of the first memory type
// allowed by typeBits that has all of the required properties.
func FindRequiredMemoryType(props vk.PhysicalDeviceMemoryProperties, typeBits uint32, required vk.MemoryPropertyFlagBits) (uint32, bool) {
	for i := uint32(0); i < props.MemoryTypeCount; i++ {
		if typeBits&(1<<i) == 0 {
			continue
		}
		props.MemoryTypes[i].Deref()
		flags := props.MemoryTypes[i].PropertyFlags
		if flags&vk.MemoryPropertyFlags(required) == vk.MemoryPropertyFlags(required) {
			return i, true
		}
	}
	return 0, false
}
