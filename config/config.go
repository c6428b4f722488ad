// Copyright (c) 2024, Cogent Core. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package config contains the configuration structs for the playground
// renderer: window, device, pipeline and presentation settings.
package config

import (
	"fmt"
	"strings"
	"time"

	"cogentcore.org/playground/base/errors"
	"cogentcore.org/playground/cli"
)

// Config is the main config struct that contains all of the
// configuration options for the playground renderer.
type Config struct {

	// Includes are other config files to include, which are
	// opened before this one so that its settings take precedence.
	Includes []string

	// Window contains the window configuration.
	Window WindowConfig

	// Device contains the GPU device configuration.
	Device DeviceConfig

	// Pipeline contains the graphics pipeline configuration.
	Pipeline PipelineConfig

	// Present contains the frame pacing and presentation configuration.
	Present PresentConfig

	// LogLevel is the minimum level of log messages that are shown
	// (debug, info, warn, error).
	LogLevel string `default:"info"`
}

func (c *Config) IncludesPtr() *[]string { return &c.Includes }

// WindowConfig contains the window configuration.
type WindowConfig struct {

	// width of the window in screen coordinates
	Width int `default:"800"`

	// height of the window in screen coordinates
	Height int `default:"600"`

	// title of the window
	Title string `default:"Playground"`

	// whether the user can resize the window
	Resizable bool `default:"true"`
}

// DeviceConfig contains the GPU device configuration.
type DeviceConfig struct {

	// Validation enables the Vulkan validation layers, if available.
	Validation bool `default:"true"`

	// ValidationLayers are the validation layers enabled when Validation is on.
	ValidationLayers []string `default:"VK_LAYER_KHRONOS_validation"`

	// Extensions are the device extensions that a GPU must support to be used.
	Extensions []string `default:"VK_KHR_swapchain"`
}

// PipelineConfig contains the graphics pipeline configuration.
type PipelineConfig struct {

	// VertexShader is the path of the SPIR-V vertex shader.
	VertexShader string `default:"shaders/triangle.vert.spv"`

	// FragmentShader is the path of the SPIR-V fragment shader.
	FragmentShader string `default:"shaders/triangle.frag.spv"`

	// Watch rebuilds the pipeline when a shader file changes.
	Watch bool `default:"false"`

	// Quad draws an indexed quad from vertex buffers instead of a
	// shader-generated triangle. The shaders must read a vec2 position
	// at location 0 and a vec3 color at location 1.
	Quad bool `default:"false"`
}

// PresentConfig contains the frame pacing and presentation configuration.
type PresentConfig struct {

	// FramesInFlight is the number of frames the CPU may record
	// ahead of the GPU.
	FramesInFlight int `default:"2"`

	// VSync forces the FIFO present mode, even when mailbox is available.
	VSync bool `default:"false"`

	// FenceTimeout is the maximum number of seconds to wait for a frame
	// fence; 0 waits forever.
	FenceTimeout float64 `default:"0"`

	// ClearColor is the RGBA color that each frame is cleared to.
	ClearColor [4]float32 `default:"0 0 0 1"`

	// StatsInterval is the number of seconds between frame rate
	// reports in the log; 0 disables them.
	StatsInterval float64 `default:"10"`
}

// FenceTimeoutDuration returns [PresentConfig.FenceTimeout] as a duration.
func (pc *PresentConfig) FenceTimeoutDuration() time.Duration {
	return seconds(pc.FenceTimeout)
}

// StatsIntervalDuration returns [PresentConfig.StatsInterval] as a duration.
func (pc *PresentConfig) StatsIntervalDuration() time.Duration {
	return seconds(pc.StatsInterval)
}

func seconds(s float64) time.Duration {
	if s <= 0 {
		return 0
	}
	return time.Duration(s * float64(time.Second))
}

// New returns a new [Config] with all of its default values set.
func New() *Config {
	c := &Config{}
	errors.Log(cli.SetFromDefaults(c))
	return c
}

// Validate returns an error if the config values cannot be used.
func (c *Config) Validate() error {
	var errs []error
	if c.Window.Width <= 0 || c.Window.Height <= 0 {
		errs = append(errs, fmt.Errorf("config: invalid window size %dx%d", c.Window.Width, c.Window.Height))
	}
	if c.Present.FramesInFlight < 1 {
		errs = append(errs, fmt.Errorf("config: FramesInFlight must be at least 1, got %d", c.Present.FramesInFlight))
	}
	if c.Pipeline.VertexShader == "" || c.Pipeline.FragmentShader == "" {
		errs = append(errs, errors.New("config: vertex and fragment shaders must be specified"))
	}
	return errors.Join(errs...)
}

func (c *Config) String() string {
	var b strings.Builder
	b.WriteString("----- Window Config: \n")
	fmt.Fprintf(&b, "\t\twidth: %d\n", c.Window.Width)
	fmt.Fprintf(&b, "\t\theight: %d\n", c.Window.Height)
	fmt.Fprintf(&b, "\t\ttitle: %s\n", c.Window.Title)
	b.WriteString("----- Device Config: \n")
	fmt.Fprintf(&b, "\t\tenable validation layer: %v\n", c.Device.Validation)
	fmt.Fprintf(&b, "\t\tvalidation layers: %s\n", strings.Join(c.Device.ValidationLayers, ", "))
	fmt.Fprintf(&b, "\t\tdevice extensions: %s\n", strings.Join(c.Device.Extensions, ", "))
	b.WriteString("----- Pipeline Config: \n")
	fmt.Fprintf(&b, "\t\tvertex shader: %s\n", c.Pipeline.VertexShader)
	fmt.Fprintf(&b, "\t\tfragment shader: %s\n", c.Pipeline.FragmentShader)
	fmt.Fprintf(&b, "\t\tquad: %v\n", c.Pipeline.Quad)
	b.WriteString("----- Present Config: \n")
	fmt.Fprintf(&b, "\t\tframes in flight: %d\n", c.Present.FramesInFlight)
	fmt.Fprintf(&b, "\t\tvsync: %v\n", c.Present.VSync)
	return b.String()
}
