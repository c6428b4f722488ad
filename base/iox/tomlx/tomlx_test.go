// Copyright (c) 2023, Cogent Core. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package tomlx

import (
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type testStruct struct {
	Name   string
	Frames int
	Layers []string
}

func TestSaveOpen(t *testing.T) {
	fn := filepath.Join(t.TempDir(), "cfg.toml")
	in := &testStruct{Name: "Playground", Frames: 2, Layers: []string{"VK_LAYER_KHRONOS_validation"}}
	require.NoError(t, Save(in, fn))

	out := &testStruct{}
	require.NoError(t, Open(out, fn))
	assert.Equal(t, in, out)
}

func TestOpenFilesOverride(t *testing.T) {
	dir := t.TempDir()
	a := filepath.Join(dir, "a.toml")
	b := filepath.Join(dir, "b.toml")
	require.NoError(t, Save(&testStruct{Name: "a", Frames: 2}, a))
	b1, err := WriteBytes(map[string]any{"Frames": 3})
	require.NoError(t, err)
	out := &testStruct{}
	require.NoError(t, ReadBytes(out, b1))
	assert.Equal(t, 3, out.Frames)

	require.NoError(t, Save(map[string]any{"Frames": 3}, b))
	out = &testStruct{}
	require.NoError(t, OpenFiles(out, a, b))
	assert.Equal(t, "a", out.Name)
	assert.Equal(t, 3, out.Frames)

	assert.Error(t, OpenFiles(out, filepath.Join(dir, "missing.toml")))
}
