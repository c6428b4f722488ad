// Copyright (c) 2024, Cogent Core. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package present

import "cogentcore.org/playground/base/errors"

var (
	// ErrBuild is returned when a swapchain or its derived objects cannot be created.
	ErrBuild = errors.New("present: swapchain build failed")

	// ErrNoFormats is returned when the surface reports no pixel formats.
	ErrNoFormats = errors.New("present: surface has no pixel formats")

	// ErrRecord is returned when a frame's commands cannot be recorded.
	ErrRecord = errors.New("present: command recording failed")

	// ErrSubmit is returned when a frame cannot be submitted or presented.
	ErrSubmit = errors.New("present: frame submission failed")

	// ErrTimeout is returned by [Sync.WaitFence] when the timeout expires.
	ErrTimeout = errors.New("present: timed out waiting for fence")

	// ErrWindowClosed is returned when the window is closed while
	// waiting for it to become drawable.
	ErrWindowClosed = errors.New("present: window closed")

	// ErrClosed is returned by operations on a closed [Loop].
	ErrClosed = errors.New("present: loop closed")
)
