// Copyright (c) 2024, Cogent Core. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package vgpu

import (
	"fmt"

	"cogentcore.org/playground/present"
	vk "github.com/goki/vulkan"
)

// SurfaceCapabilities returns the image count and extent limits of the surface.
func (dv *Device) SurfaceCapabilities() (present.SurfaceCapabilities, error) {
	var caps vk.SurfaceCapabilities
	ret := vk.GetPhysicalDeviceSurfaceCapabilities(dv.GPU.GPU, dv.Surface, &caps)
	if err := NewError("surface capabilities", ret); err != nil {
		return present.SurfaceCapabilities{}, err
	}
	caps.Deref()
	caps.CurrentExtent.Deref()
	caps.MinImageExtent.Deref()
	caps.MaxImageExtent.Deref()
	return present.SurfaceCapabilities{
		MinImageCount: caps.MinImageCount,
		MaxImageCount: caps.MaxImageCount,
		CurrentExtent: extent(caps.CurrentExtent),
		MinExtent:     extent(caps.MinImageExtent),
		MaxExtent:     extent(caps.MaxImageExtent),

		SupportedTransforms: present.SurfaceTransform(caps.SupportedTransforms),
		CurrentTransform:    present.SurfaceTransform(caps.CurrentTransform),
	}, nil
}

// SurfaceFormats returns the formats that the surface supports.
func (dv *Device) SurfaceFormats() ([]present.SurfaceFormat, error) {
	var count uint32
	if err := NewError("surface formats", vk.GetPhysicalDeviceSurfaceFormats(dv.GPU.GPU, dv.Surface, &count, nil)); err != nil {
		return nil, err
	}
	formats := make([]vk.SurfaceFormat, count)
	if err := NewError("surface formats", vk.GetPhysicalDeviceSurfaceFormats(dv.GPU.GPU, dv.Surface, &count, formats)); err != nil {
		return nil, err
	}
	sf := make([]present.SurfaceFormat, count)
	for i := range formats {
		formats[i].Deref()
		sf[i] = present.SurfaceFormat{
			Format:     present.Format(formats[i].Format),
			ColorSpace: present.ColorSpace(formats[i].ColorSpace),
		}
	}
	return sf, nil
}

// PresentModes returns the present modes that the surface supports.
func (dv *Device) PresentModes() ([]present.PresentMode, error) {
	var count uint32
	if err := NewError("present modes", vk.GetPhysicalDeviceSurfacePresentModes(dv.GPU.GPU, dv.Surface, &count, nil)); err != nil {
		return nil, err
	}
	modes := make([]vk.PresentMode, count)
	if err := NewError("present modes", vk.GetPhysicalDeviceSurfacePresentModes(dv.GPU.GPU, dv.Surface, &count, modes)); err != nil {
		return nil, err
	}
	pm := make([]present.PresentMode, count)
	for i, m := range modes {
		pm[i] = present.PresentMode(m)
	}
	return pm, nil
}

// CreateSwapchain creates a swapchain for the surface. The images are
// opaque clipped color attachments.
func (dv *Device) CreateSwapchain(info *present.SwapchainCreateInfo) (present.SwapchainHandle, error) {
	sharing := vk.SharingModeExclusive
	if info.Sharing == present.SharingConcurrent {
		sharing = vk.SharingModeConcurrent
	}
	var sc vk.Swapchain
	ret := vk.CreateSwapchain(dv.Device, &vk.SwapchainCreateInfo{
		SType:                 vk.StructureTypeSwapchainCreateInfo,
		Surface:               dv.Surface,
		MinImageCount:         info.MinImageCount,
		ImageFormat:           vk.Format(info.Format.Format),
		ImageColorSpace:       vk.ColorSpace(info.Format.ColorSpace),
		ImageExtent:           extent2D(info.Extent),
		ImageArrayLayers:      1,
		ImageUsage:            vk.ImageUsageFlags(vk.ImageUsageColorAttachmentBit),
		ImageSharingMode:      sharing,
		QueueFamilyIndexCount: uint32(len(info.QueueFamilyIndices)),
		PQueueFamilyIndices:   info.QueueFamilyIndices,
		PreTransform:          vk.SurfaceTransformFlagBits(info.Transform),
		CompositeAlpha:        vk.CompositeAlphaOpaqueBit,
		PresentMode:           vk.PresentMode(info.PresentMode),
		Clipped:               vk.True,
		OldSwapchain:          vk.NullSwapchain,
	}, nil, &sc)
	if err := NewError("create swapchain", ret); err != nil {
		return 0, err
	}
	return present.SwapchainHandle(dv.swapchains.add(sc)), nil
}

// SwapchainImages returns the images of the swapchain, in index order.
// The images are owned by the swapchain.
func (dv *Device) SwapchainImages(h present.SwapchainHandle) ([]present.Image, error) {
	sc, ok := dv.swapchains.get(uint64(h))
	if !ok {
		return nil, fmt.Errorf("vgpu: unknown swapchain %d", h)
	}
	var count uint32
	if err := NewError("swapchain images", vk.GetSwapchainImages(dv.Device, sc, &count, nil)); err != nil {
		return nil, err
	}
	imgs := make([]vk.Image, count)
	if err := NewError("swapchain images", vk.GetSwapchainImages(dv.Device, sc, &count, imgs)); err != nil {
		return nil, err
	}
	dv.forgetImages(uint64(h))
	ids := make([]uint64, count)
	res := make([]present.Image, count)
	for i, img := range imgs {
		ids[i] = dv.images.add(img)
		res[i] = present.Image(ids[i])
	}
	dv.chainImages[uint64(h)] = ids
	return res, nil
}

// DestroySwapchain destroys the swapchain, which also releases its images.
func (dv *Device) DestroySwapchain(h present.SwapchainHandle) {
	sc, ok := dv.swapchains.remove(uint64(h))
	if !ok {
		return
	}
	dv.forgetImages(uint64(h))
	vk.DestroySwapchain(dv.Device, sc, nil)
}

func (dv *Device) forgetImages(h uint64) {
	for _, id := range dv.chainImages[h] {
		dv.images.remove(id)
	}
	delete(dv.chainImages, h)
}

func extent(e vk.Extent2D) present.Extent {
	return present.Extent{Width: e.Width, Height: e.Height}
}

func extent2D(e present.Extent) vk.Extent2D {
	return vk.Extent2D{Width: e.Width, Height: e.Height}
}
