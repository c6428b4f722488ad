// Copyright (c) 2024, Cogent Core. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package vgpu

import (
	"fmt"
	"math"
	"time"

	"cogentcore.org/playground/present"
	vk "github.com/goki/vulkan"
)

// IsError returns whether the result is not a success.
func IsError(ret vk.Result) bool {
	return ret != vk.Success
}

// NewError returns an error for a failed vulkan result, annotated with
// the operation, and nil for a success.
func NewError(op string, ret vk.Result) error {
	if ret == vk.Success {
		return nil
	}
	return fmt.Errorf("vulkan %s: %w (%d)", op, vk.Error(ret), ret)
}

// status maps the result of an acquire or present to a [present.Status].
// An out of date swapchain is a status and not an error.
func status(op string, ret vk.Result) (present.Status, error) {
	switch ret {
	case vk.Success:
		return present.StatusOK, nil
	case vk.Suboptimal:
		return present.StatusSuboptimal, nil
	case vk.ErrorOutOfDate:
		return present.StatusOutOfDate, nil
	case vk.Timeout, vk.NotReady:
		return present.StatusOK, fmt.Errorf("vulkan %s: %w", op, present.ErrTimeout)
	}
	return present.StatusOK, NewError(op, ret)
}

// timeoutNanos converts a wait timeout to nanoseconds; 0 waits forever.
func timeoutNanos(d time.Duration) uint64 {
	if d <= 0 {
		return math.MaxUint64
	}
	return uint64(d)
}
