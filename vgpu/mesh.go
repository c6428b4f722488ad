// Copyright (c) 2024, Cogent Core. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package vgpu

import (
	"encoding/binary"
	"fmt"
	"math"

	"cogentcore.org/playground/present"
	vk "github.com/goki/vulkan"
)

// Vertex is a 2D vertex position with an RGB color.
type Vertex struct {
	Pos   [2]float32
	Color [3]float32
}

// VertexSize is the size of a packed [Vertex] in bytes.
const VertexSize = 5 * 4

// QuadVertices are the corners of a square with red, green,
// blue and white corners.
var QuadVertices = []Vertex{
	{Pos: [2]float32{-0.5, -0.5}, Color: [3]float32{1, 0, 0}},
	{Pos: [2]float32{0.5, -0.5}, Color: [3]float32{0, 1, 0}},
	{Pos: [2]float32{0.5, 0.5}, Color: [3]float32{0, 0, 1}},
	{Pos: [2]float32{-0.5, 0.5}, Color: [3]float32{1, 1, 1}},
}

// QuadIndices are the two triangles of [QuadVertices].
var QuadIndices = []uint16{0, 1, 2, 2, 3, 0}

// PackVertices returns the vertices in the little-endian layout
// described by [VertexInputState].
func PackVertices(vs []Vertex) []byte {
	b := make([]byte, 0, len(vs)*VertexSize)
	for _, v := range vs {
		for _, f := range v.Pos {
			b = binary.LittleEndian.AppendUint32(b, math.Float32bits(f))
		}
		for _, f := range v.Color {
			b = binary.LittleEndian.AppendUint32(b, math.Float32bits(f))
		}
	}
	return b
}

// PackIndices returns 16-bit indices as little-endian bytes.
func PackIndices(idx []uint16) []byte {
	b := make([]byte, 0, 2*len(idx))
	for _, i := range idx {
		b = binary.LittleEndian.AppendUint16(b, i)
	}
	return b
}

// VertexInputState returns the vertex input of [Vertex] values in
// binding 0: the position at location 0 and the color at location 1.
func VertexInputState() *vk.PipelineVertexInputStateCreateInfo {
	attrs := []vk.VertexInputAttributeDescription{
		{Binding: 0, Location: 0, Format: vk.FormatR32g32Sfloat, Offset: 0},
		{Binding: 0, Location: 1, Format: vk.FormatR32g32b32Sfloat, Offset: 2 * 4},
	}
	return &vk.PipelineVertexInputStateCreateInfo{
		SType:                         vk.StructureTypePipelineVertexInputStateCreateInfo,
		VertexBindingDescriptionCount: 1,
		PVertexBindingDescriptions: []vk.VertexInputBindingDescription{{
			Binding:   0,
			Stride:    VertexSize,
			InputRate: vk.VertexInputRateVertex,
		}},
		VertexAttributeDescriptionCount: uint32(len(attrs)),
		PVertexAttributeDescriptions:    attrs,
	}
}

// Mesh is an indexed triangle list in vertex and index buffers.
// It implements [present.Scene].
type Mesh struct {
	Device *Device

	vertices uint64
	indices  uint64
	count    uint32
}

var _ present.Scene = (*Mesh)(nil)

// NewMesh uploads the vertices and indices to the device.
func NewMesh(dv *Device, verts []Vertex, idx []uint16) (*Mesh, error) {
	m := &Mesh{Device: dv, count: uint32(len(idx))}
	var err error
	m.vertices, err = dv.NewHostBuffer(PackVertices(verts), VertexBuffer)
	if err != nil {
		return nil, fmt.Errorf("vgpu: vertex buffer: %w", err)
	}
	m.indices, err = dv.NewHostBuffer(PackIndices(idx), IndexBuffer)
	if err != nil {
		dv.DestroyBuffer(m.vertices)
		return nil, fmt.Errorf("vgpu: index buffer: %w", err)
	}
	return m, nil
}

// RecordScene binds the buffers and draws the mesh.
func (m *Mesh) RecordScene(c *present.Cmd) error {
	cb, err := m.Device.cmd(c.Buffer)
	if err != nil {
		return err
	}
	vb, okv := m.Device.buffers.get(m.vertices)
	ib, oki := m.Device.buffers.get(m.indices)
	if !okv || !oki {
		return fmt.Errorf("vgpu: mesh is destroyed")
	}
	vk.CmdBindVertexBuffers(cb, 0, 1, []vk.Buffer{vb.buf}, []vk.DeviceSize{0})
	vk.CmdBindIndexBuffer(cb, ib.buf, 0, vk.IndexTypeUint16)
	vk.CmdDrawIndexed(cb, m.count, 1, 0, 0, 0)
	return nil
}

// Destroy destroys the buffers. The device must be idle.
func (m *Mesh) Destroy() {
	m.Device.DestroyBuffer(m.vertices)
	m.Device.DestroyBuffer(m.indices)
	m.vertices, m.indices = 0, 0
}
