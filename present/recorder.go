// Copyright (c) 2024, Cogent Core. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package present

import "fmt"

// Cmd is the command buffer of a frame, open inside the swapchain
// render pass with the pipeline bound, as passed to a [Scene] or [Overlay].
type Cmd struct {
	Encoder

	// Buffer is the command buffer being recorded.
	Buffer CommandBuffer

	// Pipeline is the bound graphics pipeline.
	Pipeline Pipeline

	// Extent is the size of the target image.
	Extent Extent

	// Frame is the frame counter of the frame being recorded.
	Frame uint64

	// Image is the index of the target swapchain image.
	Image uint32
}

// Draw records a non-indexed draw.
func (c *Cmd) Draw(vertexCount, instanceCount, firstVertex, firstInstance uint32) {
	c.CmdDraw(c.Buffer, vertexCount, instanceCount, firstVertex, firstInstance)
}

// TriangleScene draws a single triangle whose vertices are
// generated by the vertex shader.
type TriangleScene struct{}

func (TriangleScene) RecordScene(c *Cmd) error {
	c.Draw(3, 1, 0, 0)
	return nil
}

// Recorder records the commands of a frame.
type Recorder struct {
	Encoder Encoder

	// Scene records the draw commands. Defaults to [TriangleScene].
	Scene Scene

	// Overlay is optional.
	Overlay Overlay

	// ClearColor is the color the image is cleared to.
	ClearColor ClearColor
}

// Record records one frame into cb, targeting the framebuffer of the
// given swapchain image: it begins the render pass with the clear
// color, binds the pipeline, sets the viewport and scissor to the
// swapchain extent, records the scene and overlay, and ends the pass.
// The command buffer must have been reset. Errors wrap [ErrRecord];
// the Encoder reports bad handles of the void Cmd methods from
// EndCommandBuffer.
func (r *Recorder) Record(cb CommandBuffer, imageIndex uint32, sc *Swapchain, pipeline Pipeline, frame uint64) error {
	fbs := sc.Framebuffers()
	if int(imageIndex) >= len(fbs) {
		return fmt.Errorf("%w: image index %d out of range [0, %d)", ErrRecord, imageIndex, len(fbs))
	}
	if pipeline == 0 || sc.RenderPass() == 0 || fbs[imageIndex] == 0 {
		return fmt.Errorf("%w: null pipeline, render pass or framebuffer", ErrRecord)
	}
	if err := r.Encoder.BeginCommandBuffer(cb); err != nil {
		return fmt.Errorf("%w: begin: %w", ErrRecord, err)
	}
	ext := sc.Extent()
	full := Rect{Extent: ext}
	r.Encoder.CmdBeginRenderPass(cb, sc.RenderPass(), fbs[imageIndex], full, r.ClearColor)
	r.Encoder.CmdBindPipeline(cb, pipeline)
	r.Encoder.CmdSetViewport(cb, Viewport{Width: float32(ext.Width), Height: float32(ext.Height), MaxDepth: 1})
	r.Encoder.CmdSetScissor(cb, full)

	c := &Cmd{Encoder: r.Encoder, Buffer: cb, Pipeline: pipeline, Extent: ext, Frame: frame, Image: imageIndex}
	scene := r.Scene
	if scene == nil {
		scene = TriangleScene{}
	}
	if err := scene.RecordScene(c); err != nil {
		return fmt.Errorf("%w: scene: %w", ErrRecord, err)
	}
	if r.Overlay != nil {
		if err := r.Overlay.RecordOverlay(c); err != nil {
			return fmt.Errorf("%w: overlay: %w", ErrRecord, err)
		}
	}
	r.Encoder.CmdEndRenderPass(cb)
	if err := r.Encoder.EndCommandBuffer(cb); err != nil {
		return fmt.Errorf("%w: end: %w", ErrRecord, err)
	}
	return nil
}
