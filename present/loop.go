// Copyright (c) 2024, Cogent Core. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package present paces frames and presents them to a window surface.
//
// A [Loop] owns the swapchain of a window and a fixed ring of frames in
// flight. Each [Loop.Frame] waits for its slot to be free, acquires an
// image, records and submits the frame's commands, and presents the
// image. When the surface changes (resize, minimize, staleness) the
// swapchain and pipeline are rebuilt behind a device idle barrier.
//
// The GPU is reached only through the [Device], [Window] and
// [PipelineBuilder] interfaces; see package vgpu for a Vulkan backend.
package present

import (
	"context"
	"fmt"
	"log/slog"
	"sync/atomic"
	"time"

	"cogentcore.org/playground/base/errors"
)

// Options are the options of a [Loop].
type Options struct {

	// FramesInFlight is the number of frame slots.
	FramesInFlight int

	// Swapchain are the swapchain preferences.
	Swapchain SwapchainOptions

	// FenceTimeout is the maximum wait for a slot fence or an image; 0 waits forever.
	FenceTimeout time.Duration

	// ClearColor is the color that each frame is cleared to.
	ClearColor ClearColor

	// StatsInterval is the interval between frame rate log messages; 0 disables them.
	StatsInterval time.Duration

	// Scene records the frame's draws. Defaults to [TriangleScene].
	Scene Scene

	// Overlay is optional.
	Overlay Overlay
}

// DefaultOptions returns the default loop options: two frames in flight,
// the [DefaultSurfaceFormat], and a black clear color.
func DefaultOptions() *Options {
	return &Options{
		FramesInFlight: 2,
		Swapchain:      SwapchainOptions{PreferredFormat: DefaultSurfaceFormat},
		ClearColor:     ClearColor{0, 0, 0, 1},
		StatsInterval:  10 * time.Second,
	}
}

// Loop is the frame presenter and render loop of one window.
// All methods except [Loop.SetResized] and [Loop.Invalidate] must be
// called from the same goroutine.
type Loop struct {
	dev      Device
	win      Window
	pipes    PipelineBuilder
	opts     Options
	target   *RenderTarget
	chain    *Swapchain
	slots    *FrameSlots
	pipeline Pipeline
	recorder Recorder
	state    State
	frame    uint64
	stats    Stats
	timer    frameTimer
	closed   bool

	// failed is the error of a failed rebuild, which leaves no usable swapchain.
	failed error

	resized     atomic.Bool
	invalidated atomic.Bool
}

// NewLoop creates the render target, the first swapchain, the frame slots
// and the pipeline for the given device and window, waiting while the
// window is minimized. Options may be nil for [DefaultOptions].
func NewLoop(dev Device, win Window, pipes PipelineBuilder, opts *Options) (*Loop, error) {
	if opts == nil {
		opts = DefaultOptions()
	}
	if pipes == nil {
		return nil, errors.New("present: a PipelineBuilder is required")
	}
	if opts.FramesInFlight < 1 {
		return nil, fmt.Errorf("present: FramesInFlight must be at least 1, got %d", opts.FramesInFlight)
	}
	l := &Loop{dev: dev, win: win, pipes: pipes, opts: *opts}
	l.recorder = Recorder{Encoder: dev, Scene: opts.Scene, Overlay: opts.Overlay, ClearColor: opts.ClearColor}
	l.target = NewRenderTarget(dev)
	if err := l.init(); err != nil {
		l.release()
		return nil, err
	}
	l.timer = newFrameTimer(opts.StatsInterval, nil)
	return l, nil
}

func (l *Loop) init() error {
	if err := l.waitDrawable(); err != nil {
		return err
	}
	var err error
	l.chain, err = BuildSwapchain(l.dev, l.win, l.target, &l.opts.Swapchain, 1)
	if err != nil {
		return err
	}
	l.slots, err = AllocateSlots(l.dev, l.opts.FramesInFlight, l.dev.QueueFamilies().Graphics)
	if err != nil {
		return err
	}
	return l.buildPipeline()
}

// Frame runs one pass of the render loop. A frame whose acquired image
// is out of date is abandoned without advancing the frame counter, and
// the swapchain is rebuilt. The swapchain is also rebuilt after presenting
// when it was suboptimal or out of date, or when [Loop.SetResized] or
// [Loop.Invalidate] was called. Returned errors are fatal.
func (l *Loop) Frame() error {
	if l.closed {
		return ErrClosed
	}
	if l.failed != nil {
		return l.failed
	}
	si := int(l.frame % uint64(l.slots.Len()))
	slot := l.slots.Slot(si)

	l.state = StateWaiting
	if err := l.dev.WaitFence(slot.InFlight, l.opts.FenceTimeout); err != nil {
		return fmt.Errorf("present: wait for frame %d: %w", l.frame, err)
	}

	l.state = StateAcquiring
	img, st, err := l.dev.AcquireNextImage(l.chain.Handle(), slot.ImageAcquired, l.opts.FenceTimeout)
	if err != nil {
		return fmt.Errorf("present: acquire image: %w", err)
	}
	if st == StatusOutOfDate {
		slog.Debug("present: acquired swapchain out of date", "frame", l.frame)
		l.stats.Aborted++
		return l.Rebuild()
	}
	rebuild := st == StatusSuboptimal

	// the fence is reset only when a submission that signals it follows
	if err := l.dev.ResetFence(slot.InFlight); err != nil {
		return fmt.Errorf("%w: reset fence: %w", ErrSubmit, err)
	}

	l.state = StateRecording
	if err := l.slots.Reset(si); err != nil {
		return fmt.Errorf("%w: reset command buffer: %w", ErrRecord, err)
	}
	if err := l.recorder.Record(slot.Commands, img, l.chain, l.pipeline, l.frame); err != nil {
		return err
	}

	l.state = StateSubmitting
	err = l.dev.Submit(&SubmitInfo{
		Buffer:    slot.Commands,
		Wait:      slot.ImageAcquired,
		WaitStage: StageColorAttachmentOutput,
		Signal:    slot.RenderFinished,
		Fence:     slot.InFlight,
	})
	if err != nil {
		return fmt.Errorf("%w: submit: %w", ErrSubmit, err)
	}

	l.state = StatePresenting
	st, err = l.dev.Present(&PresentInfo{Wait: slot.RenderFinished, Swapchain: l.chain.Handle(), ImageIndex: img})
	if err != nil {
		return fmt.Errorf("%w: present: %w", ErrSubmit, err)
	}
	resized := l.resized.Swap(false)
	invalidated := l.invalidated.Swap(false)
	if st != StatusOK || resized || invalidated {
		rebuild = true
	}

	l.frame++
	l.stats.Frames++
	if fps, ok := l.timer.frame(); ok {
		l.stats.FPS = fps
	}
	if rebuild {
		slog.Debug("present: rebuilding after present", "status", st, "resized", resized, "invalidated", invalidated)
		return l.Rebuild()
	}
	l.state = StateIdle
	return nil
}

// Rebuild replaces the swapchain and the pipeline. It waits for the device
// to be idle, destroys the old swapchain, waits while the window is
// minimized, builds the next swapchain generation and rebuilds the
// pipeline. It returns [ErrWindowClosed] if the window is closed while
// minimized. A failed rebuild is terminal: later calls to [Loop.Frame]
// and [Loop.Rebuild] return the same error.
func (l *Loop) Rebuild() error {
	if l.closed {
		return ErrClosed
	}
	if l.failed != nil {
		return l.failed
	}
	if err := l.rebuild(); err != nil {
		l.failed = err
		return err
	}
	return nil
}

func (l *Loop) rebuild() error {
	l.state = StateRebuilding
	// the new chain covers any resize or invalidation reported so far
	l.resized.Store(false)
	l.invalidated.Store(false)
	if err := l.dev.WaitIdle(); err != nil {
		return fmt.Errorf("present: wait idle: %w", err)
	}
	gen := l.chain.Generation()
	l.chain.Destroy()
	if err := l.waitDrawable(); err != nil {
		return err
	}
	chain, err := BuildSwapchain(l.dev, l.win, l.target, &l.opts.Swapchain, gen+1)
	if err != nil {
		return err
	}
	l.chain = chain
	if err := l.buildPipeline(); err != nil {
		return err
	}
	l.stats.Rebuilds++
	l.state = StateIdle
	return nil
}

// waitDrawable blocks on window events while the drawable size is zero.
func (l *Loop) waitDrawable() error {
	for {
		w, h := l.win.FramebufferSize()
		if w > 0 && h > 0 {
			return nil
		}
		if l.win.ShouldClose() {
			return ErrWindowClosed
		}
		l.win.WaitEvents()
	}
}

func (l *Loop) buildPipeline() error {
	l.destroyPipeline()
	p, err := l.pipes.BuildPipeline(l.chain.RenderPass(), l.chain.Extent())
	if err != nil {
		return fmt.Errorf("present: build pipeline: %w", err)
	}
	l.pipeline = p
	return nil
}

func (l *Loop) destroyPipeline() {
	p := l.pipeline
	l.pipeline = 0
	if p != 0 {
		l.pipes.DestroyPipeline(p)
	}
}

// Run runs frames until the window should close or the context is done,
// polling window events before each frame. It returns nil when the
// window is closed and the context error when the context is done.
func (l *Loop) Run(ctx context.Context) error {
	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		default:
		}
		if l.win.ShouldClose() {
			return nil
		}
		l.win.PollEvents()
		if err := l.Frame(); err != nil {
			if errors.Is(err, ErrWindowClosed) {
				return nil
			}
			return err
		}
	}
}

// SetResized records that the window has been resized, so that the
// swapchain is rebuilt after the next present. It is safe to call
// from any goroutine, and is typically called from a resize callback.
func (l *Loop) SetResized() {
	l.resized.Store(true)
}

// Invalidate requests a swapchain and pipeline rebuild after the next
// present, for example after shaders have changed. It is safe to call
// from any goroutine.
func (l *Loop) Invalidate() {
	l.invalidated.Store(true)
}

// Close waits for the device to be idle and releases the pipeline,
// the swapchain, the frame slots and the render target.
// Calling Close more than once is safe.
func (l *Loop) Close() error {
	if l.closed {
		return nil
	}
	l.closed = true
	err := l.dev.WaitIdle()
	l.release()
	l.state = StateIdle
	return err
}

func (l *Loop) release() {
	l.destroyPipeline()
	l.chain.Destroy()
	l.slots.Destroy()
	l.target.Destroy()
}

// State returns the current phase of the loop.
func (l *Loop) State() State { return l.state }

// FrameCount returns the number of frames presented, which is also the
// counter of the next frame.
func (l *Loop) FrameCount() uint64 { return l.frame }

// Generation returns the generation of the current swapchain.
func (l *Loop) Generation() uint64 { return l.chain.Generation() }

// Swapchain returns the current swapchain.
func (l *Loop) Swapchain() *Swapchain { return l.chain }

// Slots returns the frame slots.
func (l *Loop) Slots() *FrameSlots { return l.slots }

// Pipeline returns the current pipeline.
func (l *Loop) Pipeline() Pipeline { return l.pipeline }

// Stats returns the frame counters.
func (l *Loop) Stats() Stats { return l.stats }
