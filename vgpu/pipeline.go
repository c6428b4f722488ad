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

// pipeline is a graphics pipeline and its layout.
type pipeline struct {
	pipeline vk.Pipeline
	layout   vk.PipelineLayout
}

// Pipelines builds the graphics pipeline from a vertex and a fragment
// shader. It implements [present.PipelineBuilder]. The shaders are read
// again on every build, so that a rebuild picks up changed shader files.
type Pipelines struct {

	// Device is the device that pipelines are created on.
	Device *Device

	// VertexShader is the SPIR-V file of the vertex shader.
	VertexShader string

	// FragmentShader is the SPIR-V file of the fragment shader.
	FragmentShader string

	// Vertices enables the [Vertex] input layout. Without it the
	// vertex shader must generate its own vertices.
	Vertices bool
}

var _ present.PipelineBuilder = (*Pipelines)(nil)

// BuildPipeline creates a graphics pipeline for the render pass.
// Viewport and scissor are dynamic, so the pipeline fits any extent.
func (pl *Pipelines) BuildPipeline(rph present.RenderPass, ext present.Extent) (present.Pipeline, error) {
	dv := pl.Device
	rp, ok := dv.passes.get(uint64(rph))
	if !ok {
		return 0, fmt.Errorf("vgpu: unknown render pass %d", rph)
	}
	vert, err := pl.shader(pl.VertexShader)
	if err != nil {
		return 0, err
	}
	defer vk.DestroyShaderModule(dv.Device, vert, nil)
	frag, err := pl.shader(pl.FragmentShader)
	if err != nil {
		return 0, err
	}
	defer vk.DestroyShaderModule(dv.Device, frag, nil)

	var layout vk.PipelineLayout
	ret := vk.CreatePipelineLayout(dv.Device, &vk.PipelineLayoutCreateInfo{
		SType: vk.StructureTypePipelineLayoutCreateInfo,
	}, nil, &layout)
	if err := NewError("create pipeline layout", ret); err != nil {
		return 0, err
	}

	vertexInput := &vk.PipelineVertexInputStateCreateInfo{
		SType: vk.StructureTypePipelineVertexInputStateCreateInfo,
	}
	if pl.Vertices {
		vertexInput = VertexInputState()
	}
	info := vk.GraphicsPipelineCreateInfo{
		SType:      vk.StructureTypeGraphicsPipelineCreateInfo,
		StageCount: 2,
		PStages: []vk.PipelineShaderStageCreateInfo{
			{
				SType:  vk.StructureTypePipelineShaderStageCreateInfo,
				Stage:  vk.ShaderStageVertexBit,
				Module: vert,
				PName:  "main\x00",
			},
			{
				SType:  vk.StructureTypePipelineShaderStageCreateInfo,
				Stage:  vk.ShaderStageFragmentBit,
				Module: frag,
				PName:  "main\x00",
			},
		},
		PVertexInputState: vertexInput,
		PInputAssemblyState: &vk.PipelineInputAssemblyStateCreateInfo{
			SType:                  vk.StructureTypePipelineInputAssemblyStateCreateInfo,
			Topology:               vk.PrimitiveTopologyTriangleList,
			PrimitiveRestartEnable: vk.False,
		},
		PViewportState: &vk.PipelineViewportStateCreateInfo{
			SType:         vk.StructureTypePipelineViewportStateCreateInfo,
			ViewportCount: 1,
			ScissorCount:  1,
		},
		PRasterizationState: &vk.PipelineRasterizationStateCreateInfo{
			SType:       vk.StructureTypePipelineRasterizationStateCreateInfo,
			PolygonMode: vk.PolygonModeFill,
			CullMode:    vk.CullModeFlags(vk.CullModeNone),
			FrontFace:   vk.FrontFaceClockwise,
			LineWidth:   1,
		},
		PMultisampleState: &vk.PipelineMultisampleStateCreateInfo{
			SType:                vk.StructureTypePipelineMultisampleStateCreateInfo,
			RasterizationSamples: vk.SampleCount1Bit,
			MinSampleShading:     1,
		},
		PColorBlendState: &vk.PipelineColorBlendStateCreateInfo{
			SType:           vk.StructureTypePipelineColorBlendStateCreateInfo,
			LogicOpEnable:   vk.False,
			LogicOp:         vk.LogicOpCopy,
			AttachmentCount: 1,
			PAttachments: []vk.PipelineColorBlendAttachmentState{{
				ColorWriteMask: 0xF,
				BlendEnable:    vk.False,
			}},
		},
		PDynamicState: &vk.PipelineDynamicStateCreateInfo{
			SType:             vk.StructureTypePipelineDynamicStateCreateInfo,
			DynamicStateCount: 2,
			PDynamicStates: []vk.DynamicState{
				vk.DynamicStateViewport,
				vk.DynamicStateScissor,
			},
		},
		Layout:            layout,
		RenderPass:        rp,
		Subpass:           0,
		BasePipelineIndex: -1,
	}

	pipelines := make([]vk.Pipeline, 1)
	ret = vk.CreateGraphicsPipelines(dv.Device, vk.PipelineCache(vk.NullHandle), 1, []vk.GraphicsPipelineCreateInfo{info}, nil, pipelines)
	if err := NewError("create graphics pipelines", ret); err != nil {
		vk.DestroyPipelineLayout(dv.Device, layout, nil)
		return 0, err
	}
	slog.Debug("vgpu: built pipeline", "extent", ext, "vertex", pl.VertexShader, "fragment", pl.FragmentShader)
	return present.Pipeline(dv.pipelines.add(pipeline{pipeline: pipelines[0], layout: layout})), nil
}

// DestroyPipeline destroys the pipeline and its layout.
func (pl *Pipelines) DestroyPipeline(h present.Pipeline) {
	dv := pl.Device
	p, ok := dv.pipelines.remove(uint64(h))
	if !ok {
		return
	}
	vk.DestroyPipeline(dv.Device, p.pipeline, nil)
	vk.DestroyPipelineLayout(dv.Device, p.layout, nil)
}

func (pl *Pipelines) shader(fname string) (vk.ShaderModule, error) {
	words, err := OpenShader(fname)
	if err != nil {
		return nil, err
	}
	return pl.Device.newShaderModule(words)
}
