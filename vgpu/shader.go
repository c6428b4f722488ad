// Copyright (c) 2024, Cogent Core. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package vgpu

import (
	"encoding/binary"
	"fmt"
	"os"

	vk "github.com/goki/vulkan"
)

// spirvMagic is the first word of every SPIR-V module.
const spirvMagic = 0x07230203

// SpirvWords returns SPIR-V code as the 32-bit words that a shader
// module is created from. The code must be little-endian and a whole
// number of words.
func SpirvWords(code []byte) ([]uint32, error) {
	if len(code) == 0 || len(code)%4 != 0 {
		return nil, fmt.Errorf("vgpu: SPIR-V code size %d is not a positive multiple of 4", len(code))
	}
	words := make([]uint32, len(code)/4)
	for i := range words {
		words[i] = binary.LittleEndian.Uint32(code[4*i:])
	}
	if words[0] != spirvMagic {
		return nil, fmt.Errorf("vgpu: invalid SPIR-V magic number %#08x", words[0])
	}
	return words, nil
}

// OpenShader reads a SPIR-V file and returns its words.
func OpenShader(fname string) ([]uint32, error) {
	code, err := os.ReadFile(fname)
	if err != nil {
		return nil, fmt.Errorf("vgpu: read shader: %w", err)
	}
	words, err := SpirvWords(code)
	if err != nil {
		return nil, fmt.Errorf("%w: %s", err, fname)
	}
	return words, nil
}

// newShaderModule creates a shader module from SPIR-V words.
func (dv *Device) newShaderModule(words []uint32) (vk.ShaderModule, error) {
	var module vk.ShaderModule
	ret := vk.CreateShaderModule(dv.Device, &vk.ShaderModuleCreateInfo{
		SType:    vk.StructureTypeShaderModuleCreateInfo,
		CodeSize: uint(len(words) * 4),
		PCode:    words,
	}, nil, &module)
	if err := NewError("create shader module", ret); err != nil {
		return nil, err
	}
	return module, nil
}
