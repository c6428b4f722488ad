// Copyright (c) 2024, Cogent Core. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package vgpu

import (
	"fmt"
	"log/slog"
	"slices"

	"cogentcore.org/playground/base/errors"
	"cogentcore.org/playground/config"
	"cogentcore.org/playground/present"
	vk "github.com/goki/vulkan"
)

// GPU is a vulkan instance and the physical device chosen to
// present to a window surface.
type GPU struct {

	// Instance is the vulkan instance.
	Instance vk.Instance

	// GPU is the selected physical device, nil until [GPU.Select].
	GPU vk.PhysicalDevice

	// Name is the name of the selected device.
	Name string

	// MemoryProps are the memory properties of the selected device.
	MemoryProps vk.PhysicalDeviceMemoryProperties

	// InstanceExts are the enabled instance extensions.
	InstanceExts []string

	// DeviceExts are the device extensions that the device must support.
	DeviceExts []string

	// ValidationLayers are the enabled validation layers,
	// empty when validation is off or unavailable.
	ValidationLayers []string

	debugCallback vk.DebugReportCallback
}

// NewGPU creates a vulkan instance with the given instance extensions,
// typically those required by the windowing system. Validation layers
// are enabled when configured and available.
func NewGPU(appName string, instanceExts []string, cfg *config.DeviceConfig) (*GPU, error) {
	gp := &GPU{
		InstanceExts: cStrings(instanceExts),
		DeviceExts:   cStrings(cfg.Extensions),
	}
	if cfg.Validation {
		layers := cStrings(cfg.ValidationLayers)
		if missing := missingLayers(layers); len(missing) > 0 {
			slog.Warn("vgpu: validation layers not available, validation is disabled", "missing", missing)
		} else {
			gp.ValidationLayers = layers
		}
	}
	debugReport := len(gp.ValidationLayers) > 0 && hasInstanceExtension(DebugReportExtension)
	if debugReport && !slices.Contains(gp.InstanceExts, DebugReportExtension) {
		gp.InstanceExts = append(gp.InstanceExts, DebugReportExtension)
	}

	var instance vk.Instance
	ret := vk.CreateInstance(&vk.InstanceCreateInfo{
		SType: vk.StructureTypeInstanceCreateInfo,
		PApplicationInfo: &vk.ApplicationInfo{
			SType:              vk.StructureTypeApplicationInfo,
			PApplicationName:   appName + "\x00",
			ApplicationVersion: vk.MakeVersion(1, 0, 0),
			PEngineName:        "playground\x00",
			EngineVersion:      vk.MakeVersion(1, 0, 0),
			ApiVersion:         vk.ApiVersion10,
		},
		EnabledExtensionCount:   uint32(len(gp.InstanceExts)),
		PpEnabledExtensionNames: gp.InstanceExts,
		EnabledLayerCount:       uint32(len(gp.ValidationLayers)),
		PpEnabledLayerNames:     gp.ValidationLayers,
	}, nil, &instance)
	if err := NewError("create instance", ret); err != nil {
		return nil, err
	}
	if err := vk.InitInstance(instance); err != nil {
		vk.DestroyInstance(instance, nil)
		return nil, fmt.Errorf("vulkan init instance: %w", err)
	}
	gp.Instance = instance
	if debugReport {
		gp.setupDebugReport()
	}
	return gp, nil
}

// Select picks the most suitable physical device for presenting to the
// surface: one with graphics and present queues, the required device
// extensions, and at least one surface format and present mode.
// Discrete GPUs are preferred.
func (gp *GPU) Select(surface vk.Surface) error {
	var count uint32
	if err := NewError("enumerate physical devices", vk.EnumeratePhysicalDevices(gp.Instance, &count, nil)); err != nil {
		return err
	}
	if count == 0 {
		return errors.New("vgpu: no GPU with vulkan support found")
	}
	devices := make([]vk.PhysicalDevice, count)
	if err := NewError("enumerate physical devices", vk.EnumeratePhysicalDevices(gp.Instance, &count, devices)); err != nil {
		return err
	}

	best := -1
	var score uint32
	for i, pd := range devices {
		s, name := gp.score(pd, surface)
		slog.Debug("vgpu: available device", "name", name, "score", s)
		if s > score {
			best, score = i, s
		}
	}
	if best < 0 {
		return errors.New("vgpu: no GPU is suitable for presenting to the window surface")
	}

	gp.GPU = devices[best]
	var props vk.PhysicalDeviceProperties
	vk.GetPhysicalDeviceProperties(gp.GPU, &props)
	props.Deref()
	gp.Name = vk.ToString(props.DeviceName[:])
	vk.GetPhysicalDeviceMemoryProperties(gp.GPU, &gp.MemoryProps)
	gp.MemoryProps.Deref()
	slog.Info("vgpu: selected GPU", "name", gp.Name)
	return nil
}

// score returns how suitable a physical device is, 0 meaning unusable.
func (gp *GPU) score(pd vk.PhysicalDevice, surface vk.Surface) (uint32, string) {
	var props vk.PhysicalDeviceProperties
	vk.GetPhysicalDeviceProperties(pd, &props)
	props.Deref()
	name := vk.ToString(props.DeviceName[:])

	if _, ok := findQueueFamilies(pd, surface); !ok {
		return 0, name
	}
	if !hasExtensions(pd, gp.DeviceExts) {
		return 0, name
	}
	var nf, nm uint32
	vk.GetPhysicalDeviceSurfaceFormats(pd, surface, &nf, nil)
	vk.GetPhysicalDeviceSurfacePresentModes(pd, surface, &nm, nil)
	if nf == 0 || nm == 0 {
		return 0, name
	}
	if props.DeviceType == vk.PhysicalDeviceTypeDiscreteGpu {
		return 1000, name
	}
	return 1, name
}

// Destroy destroys the debug report callback and the instance.
func (gp *GPU) Destroy() {
	if gp.Instance == nil {
		return
	}
	gp.destroyDebugReport()
	vk.DestroyInstance(gp.Instance, nil)
	gp.Instance = nil
}

// findQueueFamilies returns the first queue family with graphics support
// and the first one that can present to the surface, preferring a single
// family that can do both.
func findQueueFamilies(pd vk.PhysicalDevice, surface vk.Surface) (present.QueueFamilies, bool) {
	var count uint32
	vk.GetPhysicalDeviceQueueFamilyProperties(pd, &count, nil)
	props := make([]vk.QueueFamilyProperties, count)
	vk.GetPhysicalDeviceQueueFamilyProperties(pd, &count, props)

	graphics, pres := -1, -1
	for i := range props {
		props[i].Deref()
		isGraphics := props[i].QueueFlags&vk.QueueFlags(vk.QueueGraphicsBit) != 0
		var supported vk.Bool32
		vk.GetPhysicalDeviceSurfaceSupport(pd, uint32(i), surface, &supported)
		canPresent := supported.B()
		if isGraphics && canPresent {
			return present.QueueFamilies{Graphics: uint32(i), Present: uint32(i)}, true
		}
		if isGraphics && graphics < 0 {
			graphics = i
		}
		if canPresent && pres < 0 {
			pres = i
		}
	}
	if graphics < 0 || pres < 0 {
		return present.QueueFamilies{}, false
	}
	return present.QueueFamilies{Graphics: uint32(graphics), Present: uint32(pres)}, true
}

// hasExtensions returns whether the device supports all of the
// given null-terminated extension names.
func hasExtensions(pd vk.PhysicalDevice, exts []string) bool {
	var count uint32
	if IsError(vk.EnumerateDeviceExtensionProperties(pd, "", &count, nil)) {
		return false
	}
	props := make([]vk.ExtensionProperties, count)
	if IsError(vk.EnumerateDeviceExtensionProperties(pd, "", &count, props)) {
		return false
	}
	have := make([]string, len(props))
	for i := range props {
		props[i].Deref()
		have[i] = vk.ToString(props[i].ExtensionName[:]) + "\x00"
	}
	for _, e := range exts {
		if !slices.Contains(have, e) {
			return false
		}
	}
	return true
}

// missingLayers returns the null-terminated layer names that the
// vulkan loader does not provide.
func missingLayers(layers []string) []string {
	var count uint32
	if IsError(vk.EnumerateInstanceLayerProperties(&count, nil)) {
		return layers
	}
	props := make([]vk.LayerProperties, count)
	if IsError(vk.EnumerateInstanceLayerProperties(&count, props)) {
		return layers
	}
	have := make([]string, len(props))
	for i := range props {
		props[i].Deref()
		have[i] = vk.ToString(props[i].LayerName[:]) + "\x00"
	}
	var missing []string
	for _, l := range layers {
		if !slices.Contains(have, l) {
			missing = append(missing, l)
		}
	}
	return missing
}

// cStrings returns the strings null-terminated, as vulkan expects.
func cStrings(s []string) []string {
	cs := make([]string, len(s))
	for i, v := range s {
		cs[i] = safeString(v)
	}
	return cs
}

func safeString(s string) string {
	if len(s) > 0 && s[len(s)-1] == 0 {
		return s
	}
	return s + "\x00"
}
