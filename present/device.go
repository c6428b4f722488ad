// Copyright (c) 2024, Cogent Core. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package present

import "time"

// Window is the part of the host window that presentation depends on.
type Window interface {

	// FramebufferSize returns the current drawable size in pixels,
	// which is zero while the window is minimized.
	FramebufferSize() (width, height int)

	// ShouldClose returns whether the user has asked to close the window.
	ShouldClose() bool

	// PollEvents processes pending window events without blocking.
	PollEvents()

	// WaitEvents blocks until at least one window event is available
	// and processes it.
	WaitEvents()
}

// SurfaceQuerier reports the presentation support of the window surface.
type SurfaceQuerier interface {
	SurfaceCapabilities() (SurfaceCapabilities, error)
	SurfaceFormats() ([]SurfaceFormat, error)
	PresentModes() ([]PresentMode, error)
	QueueFamilies() QueueFamilies
}

// Resources creates and destroys the swapchain and the objects derived from it.
// Destroy methods ignore null handles.
type Resources interface {
	CreateSwapchain(info *SwapchainCreateInfo) (SwapchainHandle, error)
	SwapchainImages(sc SwapchainHandle) ([]Image, error)
	DestroySwapchain(sc SwapchainHandle)

	CreateImageView(img Image, format Format) (ImageView, error)
	DestroyImageView(view ImageView)

	// CreateRenderPass creates a single color attachment render pass
	// that clears on load and leaves the image ready for presentation.
	CreateRenderPass(format Format) (RenderPass, error)
	DestroyRenderPass(rp RenderPass)

	CreateFramebuffer(rp RenderPass, view ImageView, extent Extent) (Framebuffer, error)
	DestroyFramebuffer(fb Framebuffer)
}

// Sync creates and operates on synchronization primitives.
type Sync interface {
	CreateSemaphore() (Semaphore, error)
	DestroySemaphore(s Semaphore)

	CreateFence(signaled bool) (Fence, error)
	DestroyFence(f Fence)

	// WaitFence blocks until the fence is signaled. A timeout of 0
	// waits forever; otherwise [ErrTimeout] is returned on expiry.
	WaitFence(f Fence, timeout time.Duration) error

	ResetFence(f Fence) error
}

// Commands allocates and resets command buffers.
type Commands interface {
	CreateCommandPool(family uint32) (CommandPool, error)

	// DestroyCommandPool also frees all command buffers allocated from the pool.
	DestroyCommandPool(pool CommandPool)

	AllocateCommandBuffers(pool CommandPool, n int) ([]CommandBuffer, error)
	ResetCommandBuffer(cb CommandBuffer) error
}

// Queues acquires, submits and presents.
type Queues interface {

	// AcquireNextImage acquires the next presentable image of the swapchain,
	// signaling the given semaphore when it is ready. An out of date
	// swapchain is reported as [StatusOutOfDate], not as an error.
	AcquireNextImage(sc SwapchainHandle, signal Semaphore, timeout time.Duration) (uint32, Status, error)

	// Submit submits to the graphics queue.
	Submit(info *SubmitInfo) error

	// Present queues an image for presentation on the present queue.
	Present(info *PresentInfo) (Status, error)

	// WaitIdle blocks until the device has finished all submitted work.
	WaitIdle() error
}

// Encoder records commands into a command buffer.
type Encoder interface {
	BeginCommandBuffer(cb CommandBuffer) error
	EndCommandBuffer(cb CommandBuffer) error
	CmdBeginRenderPass(cb CommandBuffer, rp RenderPass, fb Framebuffer, area Rect, clear ClearColor)
	CmdEndRenderPass(cb CommandBuffer)
	CmdBindPipeline(cb CommandBuffer, p Pipeline)
	CmdSetViewport(cb CommandBuffer, vp Viewport)
	CmdSetScissor(cb CommandBuffer, r Rect)
	CmdDraw(cb CommandBuffer, vertexCount, instanceCount, firstVertex, firstInstance uint32)
}

// Device is a logical GPU device bound to one window surface.
type Device interface {
	SurfaceQuerier
	Resources
	Sync
	Commands
	Queues
	Encoder
}

// PipelineBuilder builds the graphics pipeline that frames are drawn with.
// It is called once at startup and again after every swapchain rebuild.
type PipelineBuilder interface {
	BuildPipeline(rp RenderPass, extent Extent) (Pipeline, error)
	DestroyPipeline(p Pipeline)
}

// Scene records the draw commands of a frame.
type Scene interface {
	RecordScene(c *Cmd) error
}

// Overlay records additional commands after the scene, inside the
// same render pass, such as a user interface.
type Overlay interface {
	RecordOverlay(c *Cmd) error
}
