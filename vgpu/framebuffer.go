// Copyright (c) 2024, Cogent Core. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package vgpu

import (
	"fmt"

	"cogentcore.org/playground/present"
	vk "github.com/goki/vulkan"
)

// CreateImageView creates a 2D color view of a swapchain image.
func (dv *Device) CreateImageView(h present.Image, format present.Format) (present.ImageView, error) {
	img, ok := dv.images.get(uint64(h))
	if !ok {
		return 0, fmt.Errorf("vgpu: unknown image %d", h)
	}
	var view vk.ImageView
	ret := vk.CreateImageView(dv.Device, &vk.ImageViewCreateInfo{
		SType:    vk.StructureTypeImageViewCreateInfo,
		Image:    img,
		ViewType: vk.ImageViewType2d,
		Format:   vk.Format(format),
		Components: vk.ComponentMapping{
			R: vk.ComponentSwizzleIdentity,
			G: vk.ComponentSwizzleIdentity,
			B: vk.ComponentSwizzleIdentity,
			A: vk.ComponentSwizzleIdentity,
		},
		SubresourceRange: vk.ImageSubresourceRange{
			AspectMask: vk.ImageAspectFlags(vk.ImageAspectColorBit),
			LevelCount: 1,
			LayerCount: 1,
		},
	}, nil, &view)
	if err := NewError("create image view", ret); err != nil {
		return 0, err
	}
	return present.ImageView(dv.views.add(view)), nil
}

func (dv *Device) DestroyImageView(h present.ImageView) {
	if v, ok := dv.views.remove(uint64(h)); ok {
		vk.DestroyImageView(dv.Device, v, nil)
	}
}

// CreateRenderPass creates a render pass with one color attachment of
// the given format, cleared on load and transitioned for presentation.
func (dv *Device) CreateRenderPass(format present.Format) (present.RenderPass, error) {
	color := vk.AttachmentDescription{
		Format:         vk.Format(format),
		Samples:        vk.SampleCount1Bit,
		LoadOp:         vk.AttachmentLoadOpClear,
		StoreOp:        vk.AttachmentStoreOpStore,
		StencilLoadOp:  vk.AttachmentLoadOpDontCare,
		StencilStoreOp: vk.AttachmentStoreOpDontCare,
		InitialLayout:  vk.ImageLayoutUndefined,
		FinalLayout:    vk.ImageLayoutPresentSrc,
	}
	subpass := vk.SubpassDescription{
		PipelineBindPoint:    vk.PipelineBindPointGraphics,
		ColorAttachmentCount: 1,
		PColorAttachments: []vk.AttachmentReference{{
			Attachment: 0,
			Layout:     vk.ImageLayoutColorAttachmentOptimal,
		}},
	}
	// the image acquired semaphore is waited on at the color output
	// stage, so the layout transition must not start before it
	dependency := vk.SubpassDependency{
		SrcSubpass:    vk.SubpassExternal,
		DstSubpass:    0,
		SrcStageMask:  vk.PipelineStageFlags(vk.PipelineStageColorAttachmentOutputBit),
		DstStageMask:  vk.PipelineStageFlags(vk.PipelineStageColorAttachmentOutputBit),
		DstAccessMask: vk.AccessFlags(vk.AccessColorAttachmentWriteBit),
	}
	var rp vk.RenderPass
	ret := vk.CreateRenderPass(dv.Device, &vk.RenderPassCreateInfo{
		SType:           vk.StructureTypeRenderPassCreateInfo,
		AttachmentCount: 1,
		PAttachments:    []vk.AttachmentDescription{color},
		SubpassCount:    1,
		PSubpasses:      []vk.SubpassDescription{subpass},
		DependencyCount: 1,
		PDependencies:   []vk.SubpassDependency{dependency},
	}, nil, &rp)
	if err := NewError("create render pass", ret); err != nil {
		return 0, err
	}
	return present.RenderPass(dv.passes.add(rp)), nil
}

func (dv *Device) DestroyRenderPass(h present.RenderPass) {
	if rp, ok := dv.passes.remove(uint64(h)); ok {
		vk.DestroyRenderPass(dv.Device, rp, nil)
	}
}

// CreateFramebuffer creates a framebuffer for the render pass with the
// view as its single color attachment.
func (dv *Device) CreateFramebuffer(rph present.RenderPass, vh present.ImageView, ext present.Extent) (present.Framebuffer, error) {
	rp, ok := dv.passes.get(uint64(rph))
	if !ok {
		return 0, fmt.Errorf("vgpu: unknown render pass %d", rph)
	}
	view, ok := dv.views.get(uint64(vh))
	if !ok {
		return 0, fmt.Errorf("vgpu: unknown image view %d", vh)
	}
	var fb vk.Framebuffer
	ret := vk.CreateFramebuffer(dv.Device, &vk.FramebufferCreateInfo{
		SType:           vk.StructureTypeFramebufferCreateInfo,
		RenderPass:      rp,
		AttachmentCount: 1,
		PAttachments:    []vk.ImageView{view},
		Width:           ext.Width,
		Height:          ext.Height,
		Layers:          1,
	}, nil, &fb)
	if err := NewError("create framebuffer", ret); err != nil {
		return 0, err
	}
	return present.Framebuffer(dv.framebuffers.add(fb)), nil
}

func (dv *Device) DestroyFramebuffer(h present.Framebuffer) {
	if fb, ok := dv.framebuffers.remove(uint64(h)); ok {
		vk.DestroyFramebuffer(dv.Device, fb, nil)
	}
}
