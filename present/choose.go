// Copyright (c) 2024, Cogent Core. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package present

import "slices"

// ChooseSurfaceFormat returns preferred if it is in formats, and
// otherwise the first supported format.
func ChooseSurfaceFormat(formats []SurfaceFormat, preferred SurfaceFormat) (SurfaceFormat, error) {
	if len(formats) == 0 {
		return SurfaceFormat{}, ErrNoFormats
	}
	if slices.Contains(formats, preferred) {
		return preferred, nil
	}
	// a single undefined format means any format may be used
	if len(formats) == 1 && formats[0].Format == FormatUndefined {
		return preferred, nil
	}
	return formats[0], nil
}

// ChoosePresentMode returns mailbox if it is supported and vsync is
// not required, and FIFO otherwise, which every surface supports.
func ChoosePresentMode(modes []PresentMode, vsync bool) PresentMode {
	if !vsync && slices.Contains(modes, PresentModeMailbox) {
		return PresentModeMailbox
	}
	return PresentModeFifo
}

// ChooseExtent returns the swapchain extent for the given capabilities
// and drawable size. Surfaces with an [AdaptiveExtent] get the drawable
// size clamped to the min and max extent on each axis; all others get
// their current extent.
func ChooseExtent(caps SurfaceCapabilities, width, height int) Extent {
	if caps.CurrentExtent.Width != AdaptiveExtent {
		return caps.CurrentExtent
	}
	return Extent{
		Width:  clampAxis(width, caps.MinExtent.Width, caps.MaxExtent.Width),
		Height: clampAxis(height, caps.MinExtent.Height, caps.MaxExtent.Height),
	}
}

func clampAxis(v int, lo, hi uint32) uint32 {
	if v < 0 {
		v = 0
	}
	u := uint32(min(uint64(v), uint64(AdaptiveExtent)))
	return max(lo, min(u, hi))
}

// ChooseImageCount returns one more than the minimum image count,
// limited to the maximum when there is one.
func ChooseImageCount(caps SurfaceCapabilities) uint32 {
	n := caps.MinImageCount + 1
	if caps.MaxImageCount > 0 && n > caps.MaxImageCount {
		n = caps.MaxImageCount
	}
	return n
}

// ChooseSharing returns concurrent sharing between both families when
// graphics and presentation use different queue families, and
// exclusive sharing otherwise.
func ChooseSharing(fam QueueFamilies) (SharingMode, []uint32) {
	if fam.Graphics != fam.Present {
		return SharingConcurrent, []uint32{fam.Graphics, fam.Present}
	}
	return SharingExclusive, nil
}

// ChooseTransform returns the current transform of the surface, or
// [TransformIdentity] when the surface does not report one.
func ChooseTransform(caps SurfaceCapabilities) SurfaceTransform {
	if caps.CurrentTransform == 0 {
		return TransformIdentity
	}
	return caps.CurrentTransform
}
