// Copyright (c) 2024, Cogent Core. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package present

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAllocateSlots(t *testing.T) {
	dev := newFakeDevice()
	fs, err := AllocateSlots(dev, 3, 0)
	require.NoError(t, err)
	assert.Equal(t, 3, fs.Len())
	seen := map[uint64]bool{}
	for i := range fs.Len() {
		s := fs.Slot(i)
		for _, h := range []uint64{uint64(s.ImageAcquired), uint64(s.RenderFinished), uint64(s.InFlight), uint64(s.Commands)} {
			assert.NotZero(t, h)
			assert.False(t, seen[h], "handle %d shared between slots", h)
			seen[h] = true
		}
		assert.True(t, dev.fences[s.InFlight], "fence of slot %d must start signaled", i)
	}
	assert.Equal(t, map[string]int{"pool": 1, "cmdbuf": 3, "semaphore": 6, "fence": 3}, dev.liveKinds())

	require.NoError(t, fs.Reset(1))
	assert.Equal(t, 1, dev.counts["ResetCommandBuffer"])

	fs.Destroy()
	fs.Destroy()
	assert.Empty(t, dev.live)
	assert.Empty(t, dev.violations)
}

func TestAllocateSlotsFailure(t *testing.T) {
	for _, op := range []string{"CreateCommandPool", "AllocateCommandBuffers", "CreateSemaphore", "CreateFence"} {
		dev := newFakeDevice()
		dev.fail[op] = 1
		fs, err := AllocateSlots(dev, 2, 0)
		assert.Error(t, err, op)
		assert.Nil(t, fs, op)
		assert.Empty(t, dev.live, op)
		assert.Empty(t, dev.violations, op)
	}
	dev := newFakeDevice()
	dev.fail["CreateFence"] = 2
	_, err := AllocateSlots(dev, 2, 0)
	assert.Error(t, err)
	assert.Empty(t, dev.live)

	_, err = AllocateSlots(newFakeDevice(), 0, 0)
	assert.Error(t, err)
}
