// Copyright (c) 2024, Cogent Core. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package present

import (
	"testing"

	"cogentcore.org/playground/base/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type overlayFunc func(c *Cmd) error

func (f overlayFunc) RecordOverlay(c *Cmd) error { return f(c) }

type sceneFunc func(c *Cmd) error

func (f sceneFunc) RecordScene(c *Cmd) error { return f(c) }

func recorderFixture(t *testing.T) (*fakeDevice, *Swapchain, Pipeline, CommandBuffer) {
	dev := newFakeDevice()
	rt := NewRenderTarget(dev)
	sc, err := BuildSwapchain(dev, newFakeWindow(800, 600), rt, nil, 1)
	require.NoError(t, err)
	p, err := dev.BuildPipeline(rt.Pass(), sc.Extent())
	require.NoError(t, err)
	cbs, err := dev.AllocateCommandBuffers(0, 1)
	require.NoError(t, err)
	return dev, sc, p, cbs[0]
}

func TestRecord(t *testing.T) {
	dev, sc, p, cb := recorderFixture(t)
	r := &Recorder{Encoder: dev, ClearColor: ClearColor{0, 0, 0, 1}}
	require.NoError(t, r.Record(cb, 2, sc, p, 0))
	assert.Equal(t, []string{
		"begin",
		"beginpass 800x600",
		"pipeline",
		"viewport 800x600",
		"scissor 800x600",
		"draw 3",
		"endpass",
		"end",
	}, dev.cmds[cb])
	assert.Empty(t, dev.violations)
}

func TestRecordOverlay(t *testing.T) {
	dev, sc, p, cb := recorderFixture(t)
	var got *Cmd
	r := &Recorder{
		Encoder: dev,
		Scene: sceneFunc(func(c *Cmd) error {
			c.Draw(6, 1, 0, 0)
			return nil
		}),
		Overlay: overlayFunc(func(c *Cmd) error {
			got = c
			c.Draw(4, 1, 0, 0)
			return nil
		}),
	}
	require.NoError(t, r.Record(cb, 1, sc, p, 9))
	assert.Equal(t, []string{"draw 6", "draw 4", "endpass", "end"}, dev.cmds[cb][5:])
	require.NotNil(t, got)
	assert.Equal(t, cb, got.Buffer)
	assert.Equal(t, p, got.Pipeline)
	assert.Equal(t, uint64(9), got.Frame)
	assert.Equal(t, uint32(1), got.Image)
	assert.Equal(t, Extent{800, 600}, got.Extent)
}

func TestRecordErrors(t *testing.T) {
	dev, sc, p, cb := recorderFixture(t)
	r := &Recorder{Encoder: dev}
	err := r.Record(cb, uint32(sc.Len()), sc, p, 0)
	assert.ErrorIs(t, err, ErrRecord)

	boom := errors.New("boom")
	r.Scene = sceneFunc(func(c *Cmd) error { return boom })
	err = r.Record(cb, 0, sc, p, 0)
	assert.ErrorIs(t, err, ErrRecord)
	assert.ErrorIs(t, err, boom)

	require.NoError(t, dev.ResetCommandBuffer(cb))
	r.Scene = nil
	dev.fail["EndCommandBuffer"] = 1
	err = r.Record(cb, 0, sc, p, 0)
	assert.ErrorIs(t, err, ErrRecord)

	require.NoError(t, dev.ResetCommandBuffer(cb))
	dev.fail["BeginCommandBuffer"] = dev.counts["BeginCommandBuffer"] + 1
	err = r.Record(cb, 0, sc, p, 0)
	assert.ErrorIs(t, err, ErrRecord)

	begins := dev.counts["BeginCommandBuffer"]
	err = r.Record(cb, 0, sc, 0, 0)
	assert.ErrorIs(t, err, ErrRecord)
	assert.Equal(t, begins, dev.counts["BeginCommandBuffer"], "nothing is recorded with a null pipeline")
}
