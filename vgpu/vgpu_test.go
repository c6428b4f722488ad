// Copyright (c) 2024, Cogent Core. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package vgpu

import (
	"bytes"
	"encoding/binary"
	"log/slog"
	"math"
	"os"
	"path/filepath"
	"testing"
	"time"

	"cogentcore.org/playground/present"
	vk "github.com/goki/vulkan"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestTable(t *testing.T) {
	var tb table[string]
	a := tb.add("a")
	b := tb.add("b")
	assert.Equal(t, uint64(1), a)
	assert.Equal(t, uint64(2), b)
	assert.Equal(t, 2, tb.len())

	v, ok := tb.get(a)
	assert.True(t, ok)
	assert.Equal(t, "a", v)

	v, ok = tb.remove(a)
	assert.True(t, ok)
	assert.Equal(t, "a", v)
	_, ok = tb.get(a)
	assert.False(t, ok)
	_, ok = tb.remove(a)
	assert.False(t, ok)
	_, ok = tb.get(0)
	assert.False(t, ok)

	assert.Equal(t, uint64(3), tb.add("c"), "handles are not reused")
	assert.Equal(t, 2, tb.len())
}

func spirv(words ...uint32) []byte {
	b := binary.LittleEndian.AppendUint32(nil, spirvMagic)
	for _, w := range words {
		b = binary.LittleEndian.AppendUint32(b, w)
	}
	return b
}

func TestSpirvWords(t *testing.T) {
	words, err := SpirvWords(spirv(0x00010000, 7))
	require.NoError(t, err)
	assert.Equal(t, []uint32{spirvMagic, 0x00010000, 7}, words)

	_, err = SpirvWords(nil)
	assert.Error(t, err)
	_, err = SpirvWords(spirv(1)[:7])
	assert.Error(t, err)
	_, err = SpirvWords([]byte{1, 2, 3, 4})
	assert.Error(t, err)
}

func TestOpenShader(t *testing.T) {
	dir := t.TempDir()
	fname := filepath.Join(dir, "triangle.vert.spv")
	require.NoError(t, os.WriteFile(fname, spirv(42), 0o644))
	words, err := OpenShader(fname)
	require.NoError(t, err)
	assert.Equal(t, []uint32{spirvMagic, 42}, words)

	_, err = OpenShader(filepath.Join(dir, "missing.spv"))
	assert.Error(t, err)

	bad := filepath.Join(dir, "bad.spv")
	require.NoError(t, os.WriteFile(bad, []byte("not spirv"), 0o644))
	_, err = OpenShader(bad)
	assert.ErrorContains(t, err, "bad.spv")
}

func TestPackVertices(t *testing.T) {
	b := PackVertices(QuadVertices)
	require.Len(t, b, len(QuadVertices)*VertexSize)
	f := func(i int) float32 {
		return math.Float32frombits(binary.LittleEndian.Uint32(b[4*i:]))
	}
	// second vertex: position then color
	assert.Equal(t, float32(0.5), f(5))
	assert.Equal(t, float32(-0.5), f(6))
	assert.Equal(t, float32(0), f(7))
	assert.Equal(t, float32(1), f(8))
	assert.Equal(t, float32(0), f(9))
}

func TestPackIndices(t *testing.T) {
	assert.Equal(t, []byte{0, 0, 1, 0, 2, 0, 2, 0, 3, 0, 0, 0}, PackIndices(QuadIndices))
	assert.Empty(t, PackIndices(nil))
}

func TestVertexInputState(t *testing.T) {
	vi := VertexInputState()
	require.Len(t, vi.PVertexBindingDescriptions, 1)
	assert.Equal(t, uint32(VertexSize), vi.PVertexBindingDescriptions[0].Stride)
	require.Len(t, vi.PVertexAttributeDescriptions, 2)
	assert.Equal(t, uint32(8), vi.PVertexAttributeDescriptions[1].Offset)
	assert.Equal(t, uint32(1), vi.PVertexAttributeDescriptions[1].Location)
}

func TestStatus(t *testing.T) {
	tests := []struct {
		ret     vk.Result
		want    present.Status
		wantErr error
	}{
		{vk.Success, present.StatusOK, nil},
		{vk.Suboptimal, present.StatusSuboptimal, nil},
		{vk.ErrorOutOfDate, present.StatusOutOfDate, nil},
		{vk.Timeout, present.StatusOK, present.ErrTimeout},
		{vk.NotReady, present.StatusOK, present.ErrTimeout},
	}
	for _, tt := range tests {
		st, err := status("acquire", tt.ret)
		assert.Equal(t, tt.want, st, "result %d", tt.ret)
		if tt.wantErr != nil {
			assert.ErrorIs(t, err, tt.wantErr)
		} else {
			assert.NoError(t, err)
		}
	}
	_, err := status("present", vk.ErrorDeviceLost)
	assert.ErrorContains(t, err, "vulkan present")
}

func TestNewError(t *testing.T) {
	assert.NoError(t, NewError("create fence", vk.Success))
	assert.ErrorContains(t, NewError("create fence", vk.ErrorOutOfDeviceMemory), "vulkan create fence")
	assert.False(t, IsError(vk.Success))
	assert.True(t, IsError(vk.ErrorDeviceLost))
}

func TestTimeoutNanos(t *testing.T) {
	assert.Equal(t, uint64(math.MaxUint64), timeoutNanos(0))
	assert.Equal(t, uint64(2e9), timeoutNanos(2*time.Second))
}

func TestCStrings(t *testing.T) {
	assert.Equal(t, []string{"VK_KHR_swapchain\x00", "a\x00"}, cStrings([]string{"VK_KHR_swapchain", "a\x00"}))
	assert.Empty(t, cStrings(nil))
}

func TestReportLevel(t *testing.T) {
	tests := []struct {
		flags vk.DebugReportFlagBits
		want  slog.Level
	}{
		{vk.DebugReportErrorBit, slog.LevelError},
		{vk.DebugReportErrorBit | vk.DebugReportWarningBit, slog.LevelError},
		{vk.DebugReportWarningBit, slog.LevelWarn},
		{vk.DebugReportPerformanceWarningBit, slog.LevelWarn},
		{vk.DebugReportInformationBit, slog.LevelDebug},
		{vk.DebugReportDebugBit, slog.LevelDebug},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, reportLevel(vk.DebugReportFlags(tt.flags)), "flags %x", tt.flags)
	}
}

func TestDebugReport(t *testing.T) {
	var buf bytes.Buffer
	old := slog.Default()
	slog.SetDefault(slog.New(slog.NewTextHandler(&buf, &slog.HandlerOptions{Level: slog.LevelDebug})))
	defer slog.SetDefault(old)

	ret := debugReport(vk.DebugReportFlags(vk.DebugReportWarningBit), 0, 0, 0, 7, "Validation", "image layout mismatch", nil)
	assert.Equal(t, vk.Bool32(vk.False), ret)
	assert.Contains(t, buf.String(), "level=WARN")
	assert.Contains(t, buf.String(), "image layout mismatch")
	assert.Contains(t, buf.String(), "layer=Validation")
	assert.Contains(t, buf.String(), "code=7")
}

func TestCommandErrors(t *testing.T) {
	dv := &Device{}
	dv.CmdBindPipeline(3, 9)
	dv.CmdDraw(3, 3, 1, 0, 0)
	assert.ErrorContains(t, dv.EndCommandBuffer(3), "unknown command buffer 3")
	assert.Empty(t, dv.cmdErrs)

	cb := present.CommandBuffer(dv.cmdbufs.add(nil))
	dv.CmdBindPipeline(cb, 9)
	dv.CmdBeginRenderPass(cb, 1, 2, present.Rect{}, present.ClearColor{})
	assert.ErrorContains(t, dv.EndCommandBuffer(cb), "bind unknown pipeline 9", "the first error is kept")
	assert.Empty(t, dv.cmdErrs)
}
