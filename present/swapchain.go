// Copyright (c) 2024, Cogent Core. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package present

import (
	"fmt"
	"log/slog"
)

// SwapchainOptions are the preferences used when building a [Swapchain].
type SwapchainOptions struct {

	// PreferredFormat is used when the surface supports it.
	PreferredFormat SurfaceFormat

	// VSync forces the FIFO present mode.
	VSync bool
}

// RenderTarget owns the render pass that swapchain framebuffers are
// created against. It outlives swapchain generations: the pass is
// created on first use and only recreated if the surface format changes.
type RenderTarget struct {
	dev    Device
	pass   RenderPass
	format Format
}

// NewRenderTarget returns a new render target for the given device,
// without creating the render pass yet.
func NewRenderTarget(dev Device) *RenderTarget {
	return &RenderTarget{dev: dev}
}

// Ensure returns the render pass for the given format, creating it
// if needed. It must only be called while the device is idle.
func (rt *RenderTarget) Ensure(format Format) (RenderPass, error) {
	if rt.pass != 0 && rt.format == format {
		return rt.pass, nil
	}
	if rt.pass != 0 {
		slog.Info("present: surface format changed, recreating render pass", "from", rt.format, "to", format)
		rt.Destroy()
	}
	rp, err := rt.dev.CreateRenderPass(format)
	if err != nil {
		return 0, fmt.Errorf("%w: render pass: %w", ErrBuild, err)
	}
	rt.pass = rp
	rt.format = format
	return rp, nil
}

// Pass returns the current render pass, which is 0 before [RenderTarget.Ensure].
func (rt *RenderTarget) Pass() RenderPass {
	return rt.pass
}

// Destroy destroys the render pass, if any.
func (rt *RenderTarget) Destroy() {
	rp := rt.pass
	rt.pass = 0
	if rp != 0 {
		rt.dev.DestroyRenderPass(rp)
	}
}

// Swapchain is one generation of the presentable image chain of a
// window surface, with a view and a framebuffer for each image.
type Swapchain struct {
	dev        Device
	handle     SwapchainHandle
	generation uint64

	images       []Image
	views        []ImageView
	framebuffers []Framebuffer

	format      SurfaceFormat
	presentMode PresentMode
	extent      Extent
	sharing     SharingMode
	renderPass  RenderPass
}

// BuildSwapchain builds a new swapchain with the given generation number
// for the current surface state and drawable size of the window.
// The window must not be minimized. On failure, everything created so
// far is released and an error wrapping [ErrBuild] is returned.
func BuildSwapchain(dev Device, win Window, target *RenderTarget, opts *SwapchainOptions, generation uint64) (*Swapchain, error) {
	if opts == nil {
		opts = &SwapchainOptions{PreferredFormat: DefaultSurfaceFormat}
	}
	caps, err := dev.SurfaceCapabilities()
	if err != nil {
		return nil, fmt.Errorf("%w: surface capabilities: %w", ErrBuild, err)
	}
	formats, err := dev.SurfaceFormats()
	if err != nil {
		return nil, fmt.Errorf("%w: surface formats: %w", ErrBuild, err)
	}
	modes, err := dev.PresentModes()
	if err != nil {
		return nil, fmt.Errorf("%w: present modes: %w", ErrBuild, err)
	}
	format, err := ChooseSurfaceFormat(formats, opts.PreferredFormat)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrBuild, err)
	}
	if format != opts.PreferredFormat {
		slog.Warn("present: preferred surface format not supported", "preferred", opts.PreferredFormat.Format, "using", format.Format)
	}
	w, h := win.FramebufferSize()
	sharing, families := ChooseSharing(dev.QueueFamilies())
	info := &SwapchainCreateInfo{
		MinImageCount:      ChooseImageCount(caps),
		Format:             format,
		Extent:             ChooseExtent(caps, w, h),
		PresentMode:        ChoosePresentMode(modes, opts.VSync),
		Sharing:            sharing,
		Transform:          ChooseTransform(caps),
		QueueFamilyIndices: families,
	}
	sc := &Swapchain{
		dev:         dev,
		generation:  generation,
		format:      info.Format,
		presentMode: info.PresentMode,
		extent:      info.Extent,
		sharing:     info.Sharing,
	}
	if err := sc.build(target, info); err != nil {
		sc.Destroy()
		return nil, fmt.Errorf("%w: %w", ErrBuild, err)
	}
	slog.Info("present: swapchain built", "generation", generation, "extent", sc.extent, "images", len(sc.images),
		"format", sc.format.Format, "mode", sc.presentMode, "sharing", sc.sharing)
	return sc, nil
}

func (sc *Swapchain) build(target *RenderTarget, info *SwapchainCreateInfo) error {
	handle, err := sc.dev.CreateSwapchain(info)
	if err != nil {
		return fmt.Errorf("create swapchain: %w", err)
	}
	sc.handle = handle
	sc.images, err = sc.dev.SwapchainImages(handle)
	if err != nil {
		return fmt.Errorf("swapchain images: %w", err)
	}
	sc.renderPass, err = target.Ensure(info.Format.Format)
	if err != nil {
		return err
	}
	sc.views = make([]ImageView, 0, len(sc.images))
	for i, img := range sc.images {
		v, err := sc.dev.CreateImageView(img, info.Format.Format)
		if err != nil {
			return fmt.Errorf("image view %d: %w", i, err)
		}
		sc.views = append(sc.views, v)
	}
	sc.framebuffers = make([]Framebuffer, 0, len(sc.views))
	for i, v := range sc.views {
		fb, err := sc.dev.CreateFramebuffer(sc.renderPass, v, info.Extent)
		if err != nil {
			return fmt.Errorf("framebuffer %d: %w", i, err)
		}
		sc.framebuffers = append(sc.framebuffers, fb)
	}
	return nil
}

// Destroy releases the image views, then the framebuffers, then the
// swapchain itself. Images are owned by the swapchain and are not
// released individually. Calling Destroy more than once is safe.
// The device must be idle.
func (sc *Swapchain) Destroy() {
	if sc == nil {
		return
	}
	views := sc.views
	sc.views = nil
	for _, v := range views {
		sc.dev.DestroyImageView(v)
	}
	fbs := sc.framebuffers
	sc.framebuffers = nil
	for _, fb := range fbs {
		sc.dev.DestroyFramebuffer(fb)
	}
	handle := sc.handle
	sc.handle = 0
	sc.images = nil
	if handle != 0 {
		sc.dev.DestroySwapchain(handle)
	}
}

// Handle returns the device handle of the swapchain; 0 after [Swapchain.Destroy].
func (sc *Swapchain) Handle() SwapchainHandle { return sc.handle }

// Generation returns the build number of the swapchain, which starts at 1
// and increases by one with each rebuild.
func (sc *Swapchain) Generation() uint64 { return sc.generation }

// Images returns the presentable images.
func (sc *Swapchain) Images() []Image { return sc.images }

// Views returns the image views, one per image.
func (sc *Swapchain) Views() []ImageView { return sc.views }

// Framebuffers returns the framebuffers, one per image.
func (sc *Swapchain) Framebuffers() []Framebuffer { return sc.framebuffers }

// Len returns the number of images.
func (sc *Swapchain) Len() int { return len(sc.images) }

// Format returns the surface format of the images.
func (sc *Swapchain) Format() SurfaceFormat { return sc.format }

// PresentMode returns the present mode.
func (sc *Swapchain) PresentMode() PresentMode { return sc.presentMode }

// Extent returns the size of the images.
func (sc *Swapchain) Extent() Extent { return sc.extent }

// Sharing returns the image sharing mode.
func (sc *Swapchain) Sharing() SharingMode { return sc.sharing }

// RenderPass returns the render pass that the framebuffers were created against.
func (sc *Swapchain) RenderPass() RenderPass { return sc.renderPass }
