// Copyright (c) 2024, Cogent Core. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package present

import (
	"fmt"
	"math"
)

// Handles are opaque identifiers of device objects, assigned by the
// [Device]. The zero value of every handle type is the null handle.
type (
	SwapchainHandle uint64
	Image           uint64
	ImageView       uint64
	RenderPass      uint64
	Framebuffer     uint64
	Semaphore       uint64
	Fence           uint64
	CommandPool     uint64
	CommandBuffer   uint64
	Pipeline        uint64
)

// Format is a pixel format. Values match VkFormat.
type Format int32

const (
	FormatUndefined     Format = 0
	FormatR8G8B8A8Unorm Format = 37
	FormatR8G8B8A8Srgb  Format = 43
	FormatB8G8R8A8Unorm Format = 44
	FormatB8G8R8A8Srgb  Format = 50
)

func (f Format) String() string {
	switch f {
	case FormatUndefined:
		return "Undefined"
	case FormatR8G8B8A8Unorm:
		return "R8G8B8A8Unorm"
	case FormatR8G8B8A8Srgb:
		return "R8G8B8A8Srgb"
	case FormatB8G8R8A8Unorm:
		return "B8G8R8A8Unorm"
	case FormatB8G8R8A8Srgb:
		return "B8G8R8A8Srgb"
	}
	return fmt.Sprintf("Format(%d)", int32(f))
}

// ColorSpace is a presentation color space. Values match VkColorSpaceKHR.
type ColorSpace int32

const (
	ColorSpaceSrgbNonlinear ColorSpace = 0
)

// SurfaceFormat is a format and color space pair supported by a surface.
type SurfaceFormat struct {
	Format     Format
	ColorSpace ColorSpace
}

// DefaultSurfaceFormat is the preferred surface format: 8-bit BGRA
// in the sRGB nonlinear color space.
var DefaultSurfaceFormat = SurfaceFormat{Format: FormatB8G8R8A8Srgb, ColorSpace: ColorSpaceSrgbNonlinear}

// PresentMode is a presentation mode. Values match VkPresentModeKHR.
type PresentMode int32

const (
	PresentModeImmediate   PresentMode = 0
	PresentModeMailbox     PresentMode = 1
	PresentModeFifo        PresentMode = 2
	PresentModeFifoRelaxed PresentMode = 3
)

func (m PresentMode) String() string {
	switch m {
	case PresentModeImmediate:
		return "Immediate"
	case PresentModeMailbox:
		return "Mailbox"
	case PresentModeFifo:
		return "Fifo"
	case PresentModeFifoRelaxed:
		return "FifoRelaxed"
	}
	return fmt.Sprintf("PresentMode(%d)", int32(m))
}

// AdaptiveExtent is the [SurfaceCapabilities.CurrentExtent] width
// reported by surfaces whose size is determined by the swapchain.
const AdaptiveExtent uint32 = math.MaxUint32

// Extent is a two dimensional size in pixels.
type Extent struct {
	Width, Height uint32
}

// IsZero returns whether either dimension is zero.
func (e Extent) IsZero() bool {
	return e.Width == 0 || e.Height == 0
}

func (e Extent) String() string {
	return fmt.Sprintf("%dx%d", e.Width, e.Height)
}

// SurfaceCapabilities are the presentation limits of a surface.
type SurfaceCapabilities struct {
	MinImageCount uint32

	// MaxImageCount of 0 means there is no maximum.
	MaxImageCount uint32

	// CurrentExtent has a Width of [AdaptiveExtent] when the
	// surface size is set by the swapchain.
	CurrentExtent Extent

	MinExtent Extent
	MaxExtent Extent

	// SupportedTransforms is a bit set of [SurfaceTransform] values.
	SupportedTransforms SurfaceTransform

	// CurrentTransform is the current orientation of the surface.
	CurrentTransform SurfaceTransform
}

// SurfaceTransform is a surface orientation bit, equal to the Vulkan
// surface transform flag bit.
type SurfaceTransform uint32

// TransformIdentity leaves images as they are.
const TransformIdentity SurfaceTransform = 0x1

// QueueFamilies are the queue family indices used for graphics and presentation.
type QueueFamilies struct {
	Graphics uint32
	Present  uint32
}

// SharingMode is the image sharing mode of a swapchain. Values match VkSharingMode.
type SharingMode int32

const (
	SharingExclusive  SharingMode = 0
	SharingConcurrent SharingMode = 1
)

func (s SharingMode) String() string {
	if s == SharingConcurrent {
		return "Concurrent"
	}
	return "Exclusive"
}

// Status is the outcome of an acquire or present operation that did not fail.
type Status int32

const (
	// StatusOK means the swapchain matches the surface.
	StatusOK Status = iota

	// StatusSuboptimal means the operation succeeded but the swapchain
	// no longer matches the surface exactly and should be rebuilt.
	StatusSuboptimal

	// StatusOutOfDate means the swapchain can no longer be used
	// and must be rebuilt before presenting again.
	StatusOutOfDate
)

func (s Status) String() string {
	switch s {
	case StatusOK:
		return "OK"
	case StatusSuboptimal:
		return "Suboptimal"
	case StatusOutOfDate:
		return "OutOfDate"
	}
	return fmt.Sprintf("Status(%d)", int32(s))
}

// PipelineStage is a pipeline stage mask. Values match VkPipelineStageFlagBits.
type PipelineStage uint32

const (
	StageColorAttachmentOutput PipelineStage = 0x00000400
)

// ClearColor is an RGBA clear color.
type ClearColor [4]float32

// Viewport is a rendering viewport.
type Viewport struct {
	X, Y, Width, Height float32
	MinDepth, MaxDepth  float32
}

// Rect is a rectangle in framebuffer pixels.
type Rect struct {
	X, Y   int32
	Extent Extent
}

// SwapchainCreateInfo holds the parameters chosen for a new swapchain.
type SwapchainCreateInfo struct {
	MinImageCount uint32
	Format        SurfaceFormat
	Extent        Extent
	PresentMode   PresentMode
	Sharing       SharingMode

	// Transform is applied to images before presentation.
	Transform SurfaceTransform

	// QueueFamilyIndices is set for [SharingConcurrent] only.
	QueueFamilyIndices []uint32
}

// SubmitInfo describes a single command buffer submission to the graphics queue.
type SubmitInfo struct {
	Buffer    CommandBuffer
	Wait      Semaphore
	WaitStage PipelineStage
	Signal    Semaphore
	Fence     Fence
}

// PresentInfo describes the presentation of one swapchain image.
type PresentInfo struct {
	Wait       Semaphore
	Swapchain  SwapchainHandle
	ImageIndex uint32
}
