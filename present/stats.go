// Copyright (c) 2024, Cogent Core. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package present

import (
	"log/slog"
	"time"
)

// Stats are frame counters of a [Loop].
type Stats struct {

	// Frames is the number of frames presented.
	Frames uint64

	// Aborted is the number of frames abandoned because the
	// acquired swapchain was out of date.
	Aborted uint64

	// Rebuilds is the number of swapchain rebuilds.
	Rebuilds uint64

	// FPS is the frame rate over the last reporting interval.
	FPS float64
}

// frameTimer measures the frame rate, logging it every interval.
type frameTimer struct {
	interval time.Duration
	now      func() time.Time
	start    time.Time
	count    int
}

func newFrameTimer(interval time.Duration, now func() time.Time) frameTimer {
	if now == nil {
		now = time.Now
	}
	return frameTimer{interval: interval, now: now, start: now()}
}

// frame counts a frame, returning the frame rate and true
// at the end of each interval.
func (ft *frameTimer) frame() (float64, bool) {
	ft.count++
	if ft.interval <= 0 {
		return 0, false
	}
	t := ft.now()
	dur := t.Sub(ft.start)
	if dur < ft.interval {
		return 0, false
	}
	fps := float64(ft.count) / dur.Seconds()
	ft.count = 0
	ft.start = t
	slog.Info("present: frame rate", "fps", int(fps+0.5))
	return fps, true
}
