// Copyright (c) 2024, Cogent Core. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package vgpu

import (
	"fmt"

	"cogentcore.org/playground/base/errors"
	"cogentcore.org/playground/config"
	"cogentcore.org/playground/present"
	"github.com/go-gl/glfw/v3.3/glfw"
	vk "github.com/goki/vulkan"
)

// Init initializes glfw and loads vulkan through it.
// Must call before doing any vgpu stuff.
// IMPORTANT: must be called on the main initial thread!
func Init() error {
	if err := glfw.Init(); err != nil {
		return errors.Log(err)
	}
	vk.SetGetInstanceProcAddr(glfw.GetVulkanGetInstanceProcAddress())
	return errors.Log(vk.Init())
}

// Terminate shuts down glfw; call as last thing before quitting.
// IMPORTANT: must be called on the main initial thread!
func Terminate() {
	glfw.Terminate()
}

// Window is a glfw window without a client API, for vulkan rendering.
// It implements [present.Window].
type Window struct {
	*glfw.Window

	// OnResize is called with the new framebuffer size when it changes,
	// from within PollEvents or WaitEvents.
	OnResize func(width, height int)
}

var _ present.Window = (*Window)(nil)

// NewWindow creates a window from the window config.
func NewWindow(cfg *config.WindowConfig) (*Window, error) {
	glfw.WindowHint(glfw.ClientAPI, glfw.NoAPI)
	resizable := glfw.False
	if cfg.Resizable {
		resizable = glfw.True
	}
	glfw.WindowHint(glfw.Resizable, resizable)
	gw, err := glfw.CreateWindow(cfg.Width, cfg.Height, cfg.Title, nil, nil)
	if err != nil {
		return nil, fmt.Errorf("vgpu: create window: %w", err)
	}
	w := &Window{Window: gw}
	gw.SetFramebufferSizeCallback(func(_ *glfw.Window, width, height int) {
		if w.OnResize != nil {
			w.OnResize(width, height)
		}
	})
	return w, nil
}

// RequiredInstanceExtensions returns the instance extensions that
// vulkan needs to present to the window.
func (w *Window) RequiredInstanceExtensions() []string {
	return w.GetRequiredInstanceExtensions()
}

// NewSurface creates a vulkan surface for the window.
func (w *Window) NewSurface(instance vk.Instance) (vk.Surface, error) {
	ptr, err := w.CreateWindowSurface(instance, nil)
	if err != nil {
		return vk.NullSurface, fmt.Errorf("vgpu: create window surface: %w", err)
	}
	return vk.SurfaceFromPointer(ptr), nil
}

func (w *Window) FramebufferSize() (width, height int) {
	return w.GetFramebufferSize()
}

func (w *Window) PollEvents() { glfw.PollEvents() }

func (w *Window) WaitEvents() { glfw.WaitEvents() }

// Destroy destroys the window.
func (w *Window) Destroy() {
	if w.Window == nil {
		return
	}
	w.Window.Destroy()
	w.Window = nil
}
