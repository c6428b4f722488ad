// Copyright (c) 2024, Cogent Core. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package vgpu

import (
	"context"
	"log/slog"
	"slices"
	"unsafe"

	vk "github.com/goki/vulkan"
)

// DebugReportExtension is the instance extension that delivers
// validation layer messages to [GPU] logging.
const DebugReportExtension = "VK_EXT_debug_report\x00"

// debugReportFlags are the kinds of validation messages that are logged.
var debugReportFlags = vk.DebugReportFlags(vk.DebugReportErrorBit | vk.DebugReportWarningBit |
	vk.DebugReportPerformanceWarningBit | vk.DebugReportInformationBit | vk.DebugReportDebugBit)

// reportLevel returns the log level of a validation message.
func reportLevel(flags vk.DebugReportFlags) slog.Level {
	switch {
	case flags&vk.DebugReportFlags(vk.DebugReportErrorBit) != 0:
		return slog.LevelError
	case flags&vk.DebugReportFlags(vk.DebugReportWarningBit|vk.DebugReportPerformanceWarningBit) != 0:
		return slog.LevelWarn
	default:
		return slog.LevelDebug
	}
}

// debugReport logs a validation message. It never aborts the call
// that caused the message.
func debugReport(flags vk.DebugReportFlags, objectType vk.DebugReportObjectType, object uint64, location uint,
	messageCode int32, layerPrefix string, message string, userData unsafe.Pointer) vk.Bool32 {
	slog.Log(context.Background(), reportLevel(flags), "vulkan: "+message, "layer", layerPrefix, "code", messageCode)
	return vk.False
}

// hasInstanceExtension returns whether the vulkan loader provides
// the null-terminated instance extension.
func hasInstanceExtension(ext string) bool {
	var count uint32
	if IsError(vk.EnumerateInstanceExtensionProperties("", &count, nil)) {
		return false
	}
	props := make([]vk.ExtensionProperties, count)
	if IsError(vk.EnumerateInstanceExtensionProperties("", &count, props)) {
		return false
	}
	return slices.ContainsFunc(props, func(p vk.ExtensionProperties) bool {
		p.Deref()
		return vk.ToString(p.ExtensionName[:])+"\x00" == ext
	})
}

// setupDebugReport registers [debugReport] with the instance.
// Validation still works without it, so failures are only logged.
func (gp *GPU) setupDebugReport() {
	ret := vk.CreateDebugReportCallback(gp.Instance, &vk.DebugReportCallbackCreateInfo{
		SType:       vk.StructureTypeDebugReportCallbackCreateInfo,
		Flags:       debugReportFlags,
		PfnCallback: debugReport,
	}, nil, &gp.debugCallback)
	if err := NewError("create debug report callback", ret); err != nil {
		slog.Warn("vgpu: validation messages are not logged", "err", err)
		gp.debugCallback = vk.DebugReportCallback(vk.NullHandle)
		return
	}
	slog.Debug("vgpu: validation messages are logged")
}

func (gp *GPU) destroyDebugReport() {
	if gp.debugCallback == vk.DebugReportCallback(vk.NullHandle) {
		return
	}
	vk.DestroyDebugReportCallback(gp.Instance, gp.debugCallback, nil)
	gp.debugCallback = vk.DebugReportCallback(vk.NullHandle)
}
