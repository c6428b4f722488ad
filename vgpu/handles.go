// Copyright (c) 2024, Cogent Core. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package vgpu

// table maps the handles given out through the [present.Device] interface
// to vulkan objects. Handles start at 1 so that 0 stays the null handle,
// and are never reused.
type table[T any] struct {
	next uint64
	m    map[uint64]T
}

// add stores v and returns its new handle.
func (t *table[T]) add(v T) uint64 {
	if t.m == nil {
		t.m = make(map[uint64]T)
	}
	t.next++
	t.m[t.next] = v
	return t.next
}

// get returns the object of a handle.
func (t *table[T]) get(h uint64) (T, bool) {
	v, ok := t.m[h]
	return v, ok
}

// remove deletes and returns the object of a handle.
func (t *table[T]) remove(h uint64) (T, bool) {
	v, ok := t.m[h]
	if ok {
		delete(t.m, h)
	}
	return v, ok
}

// len returns the number of live handles.
func (t *table[T]) len() int {
	return len(t.m)
}
