// Copyright (c) 2024, Cogent Core. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"cogentcore.org/playground/cli"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDefaults(t *testing.T) {
	c := New()
	assert.Equal(t, 800, c.Window.Width)
	assert.Equal(t, 600, c.Window.Height)
	assert.Equal(t, "Playground", c.Window.Title)
	assert.True(t, c.Device.Validation)
	assert.Equal(t, []string{"VK_LAYER_KHRONOS_validation"}, c.Device.ValidationLayers)
	assert.Equal(t, []string{"VK_KHR_swapchain"}, c.Device.Extensions)
	assert.Equal(t, "shaders/triangle.vert.spv", c.Pipeline.VertexShader)
	assert.Equal(t, "shaders/triangle.frag.spv", c.Pipeline.FragmentShader)
	assert.False(t, c.Pipeline.Watch)
	assert.False(t, c.Pipeline.Quad)
	assert.Equal(t, 2, c.Present.FramesInFlight)
	assert.Equal(t, [4]float32{0, 0, 0, 1}, c.Present.ClearColor)
	assert.Equal(t, 10*time.Second, c.Present.StatsIntervalDuration())
	assert.Equal(t, time.Duration(0), c.Present.FenceTimeoutDuration())
	assert.NoError(t, c.Validate())
}

func TestValidate(t *testing.T) {
	c := New()
	c.Present.FramesInFlight = 0
	c.Window.Width = 0
	err := c.Validate()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "FramesInFlight")
	assert.Contains(t, err.Error(), "window size")
}

func TestString(t *testing.T) {
	s := New().String()
	assert.Contains(t, s, "----- Window Config: ")
	assert.Contains(t, s, "\t\twidth: 800\n")
	assert.Contains(t, s, "\t\ttitle: Playground\n")
	assert.Contains(t, s, "\t\tenable validation layer: true\n")
	assert.Contains(t, s, "\t\tfragment shader: shaders/triangle.frag.spv\n")
	assert.Contains(t, s, "\t\tquad: false\n")
}

func TestOpenTOML(t *testing.T) {
	dir := t.TempDir()
	toml := `
LogLevel = "debug"

[Window]
Width = 1280
Title = "Test"

[Present]
FramesInFlight = 3
VSync = true
ClearColor = [0.1, 0.2, 0.3, 1.0]
FenceTimeout = 1.5
`
	require.NoError(t, os.WriteFile(filepath.Join(dir, "config.toml"), []byte(toml), 0o644))
	opts := cli.DefaultOptions("playground")
	opts.IncludePaths = []string{dir}
	c := &Config{}
	require.NoError(t, cli.Config(opts, c, ""))
	assert.Equal(t, "debug", c.LogLevel)
	assert.Equal(t, 1280, c.Window.Width)
	assert.Equal(t, 600, c.Window.Height)
	assert.Equal(t, "Test", c.Window.Title)
	assert.Equal(t, 3, c.Present.FramesInFlight)
	assert.True(t, c.Present.VSync)
	assert.Equal(t, [4]float32{0.1, 0.2, 0.3, 1}, c.Present.ClearColor)
	assert.Equal(t, 1500*time.Millisecond, c.Present.FenceTimeoutDuration())
}
