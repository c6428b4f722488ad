// Copyright (c) 2024, Cogent Core. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package present

import (
	"fmt"
	"time"
)

// fakeDevice is an in-memory [Device] and [PipelineBuilder] that tracks
// object lifetimes and models fence and command buffer state, recording
// any misuse in violations.
type fakeDevice struct {
	caps     SurfaceCapabilities
	formats  []SurfaceFormat
	modes    []PresentMode
	families QueueFamilies

	next       uint64
	live       map[uint64]string
	released   []string
	violations []string

	// fail makes the nth call (1-based) of the named operation fail.
	fail   map[string]int
	counts map[string]int

	fences      map[Fence]bool
	pending     map[CommandBuffer]Fence
	maxPending  int
	waited      []Fence
	poolBuffers map[CommandPool][]CommandBuffer
	recording   map[CommandBuffer]bool
	cmds        map[CommandBuffer][]string

	chainImages map[SwapchainHandle][]Image
	lastInfo    *SwapchainCreateInfo
	fbExtents   map[Framebuffer]Extent
	acquired    int

	// acquireStatus and presentStatus are returned in order, then StatusOK.
	acquireStatus []Status
	presentStatus []Status

	submits    []SubmitInfo
	presents   []PresentInfo
	waitIdle   int
	pipelines  []Extent
	onWaitIdle func()
	onPresent  func()
}

func newFakeDevice() *fakeDevice {
	return &fakeDevice{
		caps: SurfaceCapabilities{
			MinImageCount: 2,
			MaxImageCount: 8,
			CurrentExtent: Extent{Width: AdaptiveExtent, Height: AdaptiveExtent},
			MinExtent:     Extent{Width: 64, Height: 64},
			MaxExtent:     Extent{Width: 4096, Height: 4096},
		},
		formats:     []SurfaceFormat{{FormatB8G8R8A8Unorm, ColorSpaceSrgbNonlinear}, DefaultSurfaceFormat},
		modes:       []PresentMode{PresentModeFifo, PresentModeMailbox},
		live:        map[uint64]string{},
		fail:        map[string]int{},
		counts:      map[string]int{},
		fences:      map[Fence]bool{},
		pending:     map[CommandBuffer]Fence{},
		poolBuffers: map[CommandPool][]CommandBuffer{},
		recording:   map[CommandBuffer]bool{},
		cmds:        map[CommandBuffer][]string{},
		chainImages: map[SwapchainHandle][]Image{},
		fbExtents:   map[Framebuffer]Extent{},
	}
}

func (d *fakeDevice) violate(format string, args ...any) {
	d.violations = append(d.violations, fmt.Sprintf(format, args...))
}

func (d *fakeDevice) call(op string) error {
	d.counts[op]++
	if n, ok := d.fail[op]; ok && d.counts[op] == n {
		return fmt.Errorf("fake: %s failed", op)
	}
	return nil
}

func (d *fakeDevice) alloc(kind string) uint64 {
	d.next++
	d.live[d.next] = kind
	return d.next
}

func (d *fakeDevice) release(kind string, id uint64) {
	if id == 0 {
		return
	}
	if d.live[id] != kind {
		d.violate("release of %s %d which is not live", kind, id)
		return
	}
	delete(d.live, id)
	d.released = append(d.released, kind)
}

// liveKinds returns the number of live objects of each kind.
func (d *fakeDevice) liveKinds() map[string]int {
	m := map[string]int{}
	for _, k := range d.live {
		m[k]++
	}
	return m
}

func (d *fakeDevice) SurfaceCapabilities() (SurfaceCapabilities, error) {
	return d.caps, d.call("SurfaceCapabilities")
}

func (d *fakeDevice) SurfaceFormats() ([]SurfaceFormat, error) {
	return d.formats, d.call("SurfaceFormats")
}

func (d *fakeDevice) PresentModes() ([]PresentMode, error) {
	return d.modes, d.call("PresentModes")
}

func (d *fakeDevice) QueueFamilies() QueueFamilies { return d.families }

func (d *fakeDevice) CreateSwapchain(info *SwapchainCreateInfo) (SwapchainHandle, error) {
	if err := d.call("CreateSwapchain"); err != nil {
		return 0, err
	}
	d.lastInfo = info
	sc := SwapchainHandle(d.alloc("swapchain"))
	imgs := make([]Image, info.MinImageCount)
	for i := range imgs {
		d.next++
		imgs[i] = Image(d.next)
	}
	d.chainImages[sc] = imgs
	return sc, nil
}

func (d *fakeDevice) SwapchainImages(sc SwapchainHandle) ([]Image, error) {
	return d.chainImages[sc], d.call("SwapchainImages")
}

func (d *fakeDevice) DestroySwapchain(sc SwapchainHandle) {
	d.release("swapchain", uint64(sc))
}

func (d *fakeDevice) CreateImageView(img Image, format Format) (ImageView, error) {
	if err := d.call("CreateImageView"); err != nil {
		return 0, err
	}
	return ImageView(d.alloc("view")), nil
}

func (d *fakeDevice) DestroyImageView(v ImageView) { d.release("view", uint64(v)) }

func (d *fakeDevice) CreateRenderPass(format Format) (RenderPass, error) {
	if err := d.call("CreateRenderPass"); err != nil {
		return 0, err
	}
	return RenderPass(d.alloc("renderpass")), nil
}

func (d *fakeDevice) DestroyRenderPass(rp RenderPass) { d.release("renderpass", uint64(rp)) }

func (d *fakeDevice) CreateFramebuffer(rp RenderPass, view ImageView, extent Extent) (Framebuffer, error) {
	if err := d.call("CreateFramebuffer"); err != nil {
		return 0, err
	}
	if d.live[uint64(rp)] != "renderpass" || d.live[uint64(view)] != "view" {
		d.violate("framebuffer created from dead render pass or view")
	}
	fb := Framebuffer(d.alloc("framebuffer"))
	d.fbExtents[fb] = extent
	return fb, nil
}

func (d *fakeDevice) DestroyFramebuffer(fb Framebuffer) { d.release("framebuffer", uint64(fb)) }

func (d *fakeDevice) CreateSemaphore() (Semaphore, error) {
	if err := d.call("CreateSemaphore"); err != nil {
		return 0, err
	}
	return Semaphore(d.alloc("semaphore")), nil
}

func (d *fakeDevice) DestroySemaphore(s Semaphore) { d.release("semaphore", uint64(s)) }

func (d *fakeDevice) CreateFence(signaled bool) (Fence, error) {
	if err := d.call("CreateFence"); err != nil {
		return 0, err
	}
	f := Fence(d.alloc("fence"))
	d.fences[f] = signaled
	return f, nil
}

func (d *fakeDevice) DestroyFence(f Fence) {
	d.release("fence", uint64(f))
	delete(d.fences, f)
}

// WaitFence completes the work pending on the fence, as the GPU would.
func (d *fakeDevice) WaitFence(f Fence, timeout time.Duration) error {
	if err := d.call("WaitFence"); err != nil {
		return err
	}
	d.waited = append(d.waited, f)
	if d.fences[f] {
		return nil
	}
	found := false
	for cb, pf := range d.pending {
		if pf == f {
			delete(d.pending, cb)
			found = true
		}
	}
	if !found {
		d.violate("wait on unsignaled fence %d with no pending work", f)
		return ErrTimeout
	}
	d.fences[f] = true
	return nil
}

func (d *fakeDevice) ResetFence(f Fence) error {
	if err := d.call("ResetFence"); err != nil {
		return err
	}
	d.fences[f] = false
	return nil
}

func (d *fakeDevice) CreateCommandPool(family uint32) (CommandPool, error) {
	if err := d.call("CreateCommandPool"); err != nil {
		return 0, err
	}
	return CommandPool(d.alloc("pool")), nil
}

func (d *fakeDevice) DestroyCommandPool(pool CommandPool) {
	for _, cb := range d.poolBuffers[pool] {
		d.release("cmdbuf", uint64(cb))
	}
	delete(d.poolBuffers, pool)
	d.release("pool", uint64(pool))
}

func (d *fakeDevice) AllocateCommandBuffers(pool CommandPool, n int) ([]CommandBuffer, error) {
	if err := d.call("AllocateCommandBuffers"); err != nil {
		return nil, err
	}
	cbs := make([]CommandBuffer, n)
	for i := range cbs {
		cbs[i] = CommandBuffer(d.alloc("cmdbuf"))
	}
	d.poolBuffers[pool] = append(d.poolBuffers[pool], cbs...)
	return cbs, nil
}

func (d *fakeDevice) ResetCommandBuffer(cb CommandBuffer) error {
	if err := d.call("ResetCommandBuffer"); err != nil {
		return err
	}
	if _, busy := d.pending[cb]; busy {
		d.violate("reset of command buffer %d still in flight", cb)
	}
	d.cmds[cb] = nil
	d.recording[cb] = false
	return nil
}

func (d *fakeDevice) AcquireNextImage(sc SwapchainHandle, signal Semaphore, timeout time.Duration) (uint32, Status, error) {
	if err := d.call("AcquireNextImage"); err != nil {
		return 0, StatusOK, err
	}
	if d.live[uint64(sc)] != "swapchain" {
		d.violate("acquire from dead swapchain %d", sc)
	}
	st := StatusOK
	if len(d.acquireStatus) > 0 {
		st = d.acquireStatus[0]
		d.acquireStatus = d.acquireStatus[1:]
	}
	if st == StatusOutOfDate {
		return 0, st, nil
	}
	n := len(d.chainImages[sc])
	idx := uint32(d.acquired % n)
	d.acquired++
	return idx, st, nil
}

func (d *fakeDevice) Submit(info *SubmitInfo) error {
	if err := d.call("Submit"); err != nil {
		return err
	}
	if d.fences[info.Fence] {
		d.violate("submit with signaled fence %d", info.Fence)
	}
	if d.recording[info.Buffer] {
		d.violate("submit of command buffer %d still recording", info.Buffer)
	}
	d.pending[info.Buffer] = info.Fence
	d.maxPending = max(d.maxPending, len(d.pending))
	d.submits = append(d.submits, *info)
	return nil
}

func (d *fakeDevice) Present(info *PresentInfo) (Status, error) {
	if err := d.call("Present"); err != nil {
		return StatusOK, err
	}
	d.presents = append(d.presents, *info)
	if d.onPresent != nil {
		d.onPresent()
	}
	if len(d.presentStatus) > 0 {
		st := d.presentStatus[0]
		d.presentStatus = d.presentStatus[1:]
		return st, nil
	}
	return StatusOK, nil
}

// WaitIdle completes all pending work.
func (d *fakeDevice) WaitIdle() error {
	d.waitIdle++
	for cb, f := range d.pending {
		d.fences[f] = true
		delete(d.pending, cb)
	}
	if d.onWaitIdle != nil {
		d.onWaitIdle()
	}
	return d.call("WaitIdle")
}

func (d *fakeDevice) record(cb CommandBuffer, cmd string) {
	if !d.recording[cb] {
		d.violate("%s on command buffer %d not recording", cmd, cb)
	}
	d.cmds[cb] = append(d.cmds[cb], cmd)
}

func (d *fakeDevice) BeginCommandBuffer(cb CommandBuffer) error {
	if err := d.call("BeginCommandBuffer"); err != nil {
		return err
	}
	if _, busy := d.pending[cb]; busy {
		d.violate("begin of command buffer %d still in flight", cb)
	}
	if len(d.cmds[cb]) > 0 {
		d.violate("begin of command buffer %d that was not reset", cb)
	}
	d.recording[cb] = true
	d.cmds[cb] = append(d.cmds[cb], "begin")
	return nil
}

func (d *fakeDevice) EndCommandBuffer(cb CommandBuffer) error {
	if err := d.call("EndCommandBuffer"); err != nil {
		return err
	}
	d.record(cb, "end")
	d.recording[cb] = false
	return nil
}

func (d *fakeDevice) CmdBeginRenderPass(cb CommandBuffer, rp RenderPass, fb Framebuffer, area Rect, clear ClearColor) {
	d.record(cb, fmt.Sprintf("beginpass %v", area.Extent))
}

func (d *fakeDevice) CmdEndRenderPass(cb CommandBuffer) { d.record(cb, "endpass") }

func (d *fakeDevice) CmdBindPipeline(cb CommandBuffer, p Pipeline) {
	if d.live[uint64(p)] != "pipeline" {
		d.violate("bind of dead pipeline %d", p)
	}
	d.record(cb, "pipeline")
}

func (d *fakeDevice) CmdSetViewport(cb CommandBuffer, vp Viewport) {
	d.record(cb, fmt.Sprintf("viewport %vx%v", vp.Width, vp.Height))
}

func (d *fakeDevice) CmdSetScissor(cb CommandBuffer, r Rect) {
	d.record(cb, fmt.Sprintf("scissor %v", r.Extent))
}

func (d *fakeDevice) CmdDraw(cb CommandBuffer, vertexCount, instanceCount, firstVertex, firstInstance uint32) {
	d.record(cb, fmt.Sprintf("draw %d", vertexCount))
}

func (d *fakeDevice) BuildPipeline(rp RenderPass, extent Extent) (Pipeline, error) {
	if err := d.call("BuildPipeline"); err != nil {
		return 0, err
	}
	if d.live[uint64(rp)] != "renderpass" {
		d.violate("pipeline built against dead render pass %d", rp)
	}
	d.pipelines = append(d.pipelines, extent)
	return Pipeline(d.alloc("pipeline")), nil
}

func (d *fakeDevice) DestroyPipeline(p Pipeline) { d.release("pipeline", uint64(p)) }

// fakeWindow is a [Window] with a scripted drawable size.
type fakeWindow struct {
	width, height int

	// sizes are returned by FramebufferSize in order, then width and height.
	sizes [][2]int

	closed bool
	polls  int
	waits  int

	// onWait is called by WaitEvents.
	onWait func(w *fakeWindow)
}

func newFakeWindow(w, h int) *fakeWindow {
	return &fakeWindow{width: w, height: h}
}

func (w *fakeWindow) FramebufferSize() (int, int) {
	if len(w.sizes) > 0 {
		s := w.sizes[0]
		w.sizes = w.sizes[1:]
		return s[0], s[1]
	}
	return w.width, w.height
}

func (w *fakeWindow) ShouldClose() bool { return w.closed }

func (w *fakeWindow) PollEvents() { w.polls++ }

func (w *fakeWindow) WaitEvents() {
	w.waits++
	if w.onWait != nil {
		w.onWait(w)
	}
}
