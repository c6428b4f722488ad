// Copyright (c) 2024, Cogent Core. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package fsx

import (
	"os"
	"path/filepath"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFindFilesOnPaths(t *testing.T) {
	a := t.TempDir()
	b := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(b, "base.toml"), []byte("x = 1"), 0o644))
	require.NoError(t, os.WriteFile(filepath.Join(a, "base.toml"), []byte("x = 2"), 0o644))

	res := FindFilesOnPaths([]string{a, b}, "base.toml", "missing.toml")
	require.Len(t, res, 1)
	assert.Equal(t, filepath.Join(a, "base.toml"), res[0])

	abs := filepath.Join(b, "base.toml")
	assert.Equal(t, []string{abs}, FindFilesOnPaths(nil, abs))
	assert.Nil(t, FindFilesOnPaths([]string{a}, filepath.Join(b, "nope")))
}

func TestFileExists(t *testing.T) {
	dir := t.TempDir()
	fn := filepath.Join(dir, "f.spv")
	ok, err := FileExists(fn)
	assert.NoError(t, err)
	assert.False(t, ok)

	require.NoError(t, os.WriteFile(fn, []byte{1, 2, 3, 4}, 0o644))
	ok, err = FileExists(fn)
	assert.NoError(t, err)
	assert.True(t, ok)

	ok, err = FileExists(dir)
	assert.NoError(t, err)
	assert.False(t, ok)
	assert.Equal(t, []byte{1, 2, 3, 4}, ReadFile(fn))
}

func TestWatcher(t *testing.T) {
	dir := t.TempDir()
	fn := filepath.Join(dir, "triangle.frag.spv")
	other := filepath.Join(dir, "other.txt")
	require.NoError(t, os.WriteFile(fn, []byte{0}, 0o644))

	var calls atomic.Int32
	w, err := NewWatcher(func(name string) { calls.Add(1) }, fn)
	require.NoError(t, err)
	assert.True(t, w.Watched(fn))
	assert.False(t, w.Watched(other))

	require.NoError(t, os.WriteFile(other, []byte{1}, 0o644))
	require.NoError(t, os.WriteFile(fn, []byte{1, 2}, 0o644))
	assert.Eventually(t, func() bool { return calls.Load() >= 1 }, 2*time.Second, 10*time.Millisecond)

	require.NoError(t, w.Close())
	assert.NoError(t, w.Close())
}
