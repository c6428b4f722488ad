// Copyright (c) 2024, Cogent Core. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package present

import "strconv"

// State is the phase of the render loop.
type State int32

const (
	// StateIdle is between frames.
	StateIdle State = iota

	// StateWaiting is waiting on the fence of the current slot.
	StateWaiting

	// StateAcquiring is acquiring the next swapchain image.
	StateAcquiring

	// StateRecording is recording the frame's commands.
	StateRecording

	// StateSubmitting is submitting the commands to the graphics queue.
	StateSubmitting

	// StatePresenting is queuing the image for presentation.
	StatePresenting

	// StateRebuilding is replacing the swapchain and pipeline.
	StateRebuilding
)

var stateNames = [...]string{"Idle", "Waiting", "Acquiring", "Recording", "Submitting", "Presenting", "Rebuilding"}

func (s State) String() string {
	if s >= 0 && int(s) < len(stateNames) {
		return stateNames[s]
	}
	return "State(" + strconv.Itoa(int(s)) + ")"
}
