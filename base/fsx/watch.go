// Copyright (c) 2024, Cogent Core. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package fsx

import (
	"log/slog"
	"path/filepath"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"
)

// Watcher watches a set of files and calls a function when any of
// them is written, created or renamed. Bursts of events within the
// Debounce window are coalesced into one call.
type Watcher struct {

	// Debounce is the window within which events are coalesced.
	Debounce time.Duration

	// OnChange is called with the name of the changed file.
	// It is called on the watcher goroutine.
	OnChange func(name string)

	watcher *fsnotify.Watcher
	files   map[string]bool
	done    chan struct{}
	wg      sync.WaitGroup
}

// NewWatcher returns a new [Watcher] watching the given files,
// calling onChange when any of them changes. Directories containing
// the files are watched so that editors that replace files on save
// are handled.
func NewWatcher(onChange func(name string), files ...string) (*Watcher, error) {
	fw, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, err
	}
	w := &Watcher{Debounce: 100 * time.Millisecond, OnChange: onChange, watcher: fw, files: map[string]bool{}, done: make(chan struct{})}
	dirs := map[string]bool{}
	for _, f := range files {
		abs, err := filepath.Abs(f)
		if err != nil {
			fw.Close()
			return nil, err
		}
		w.files[abs] = true
		dir := filepath.Dir(abs)
		if dirs[dir] {
			continue
		}
		dirs[dir] = true
		if err := fw.Add(dir); err != nil {
			fw.Close()
			return nil, err
		}
	}
	w.wg.Add(1)
	go w.watch()
	return w, nil
}

// Watched returns whether the given file is watched by w.
func (w *Watcher) Watched(name string) bool {
	abs, err := filepath.Abs(name)
	if err != nil {
		return false
	}
	return w.files[abs]
}

func (w *Watcher) watch() {
	defer w.wg.Done()
	var timer *time.Timer
	var pending string
	var fire <-chan time.Time
	for {
		select {
		case <-w.done:
			if timer != nil {
				timer.Stop()
			}
			return
		case event, ok := <-w.watcher.Events:
			if !ok {
				return
			}
			if !w.files[filepath.Clean(event.Name)] {
				continue
			}
			switch {
			case event.Op&fsnotify.Write == fsnotify.Write ||
				event.Op&fsnotify.Create == fsnotify.Create ||
				event.Op&fsnotify.Rename == fsnotify.Rename:
				pending = event.Name
				if timer == nil {
					timer = time.NewTimer(w.Debounce)
				} else {
					timer.Reset(w.Debounce)
				}
				fire = timer.C
			}
		case <-fire:
			fire = nil
			slog.Debug("fsx: file changed", "file", pending)
			if w.OnChange != nil {
				w.OnChange(pending)
			}
		case err, ok := <-w.watcher.Errors:
			if !ok {
				return
			}
			slog.Warn("fsx: watcher error", "err", err)
		}
	}
}

// Close stops watching and waits for the watcher goroutine to exit.
func (w *Watcher) Close() error {
	select {
	case <-w.done:
		return nil
	default:
	}
	close(w.done)
	err := w.watcher.Close()
	w.wg.Wait()
	return err
}
