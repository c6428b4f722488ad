// Copyright (c) 2024, Cogent Core. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Command playground opens a window and renders frames into it with
// Vulkan, pacing a fixed number of frames in flight and rebuilding the
// swapchain when the window changes.
package main

import (
	"context"
	"flag"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"runtime"

	"cogentcore.org/playground/base/errors"
	"cogentcore.org/playground/base/fsx"
	"cogentcore.org/playground/base/logx"
	"cogentcore.org/playground/cli"
	"cogentcore.org/playground/config"
	"cogentcore.org/playground/present"
	"cogentcore.org/playground/vgpu"
)

func init() {
	// must lock main thread for gpu!
	runtime.LockOSThread()
}

func main() {
	file := flag.String("config", "", "config file to open (default config.toml or config.yaml if present)")
	debug := flag.Bool("debug", false, "show debug log messages")
	flag.Parse()

	if err := run(*file, *debug); err != nil {
		slog.Error(err.Error())
		os.Exit(1)
	}
}

func run(file string, debug bool) error {
	cfg := &config.Config{}
	if err := cli.Config(cli.DefaultOptions("playground"), cfg, file); err != nil {
		return err
	}
	if err := cfg.Validate(); err != nil {
		return err
	}
	logx.UserLevel = errors.Log1(logx.LevelFromString(cfg.LogLevel))
	if debug {
		logx.UserLevel = slog.LevelDebug
	}
	logx.SetDefaultLogger()
	logx.PrintlnDebug(cfg.String())

	if err := vgpu.Init(); err != nil {
		return err
	}
	defer vgpu.Terminate()

	win, err := vgpu.NewWindow(&cfg.Window)
	if err != nil {
		return err
	}
	defer win.Destroy()

	gp, err := vgpu.NewGPU(cfg.Window.Title, win.RequiredInstanceExtensions(), &cfg.Device)
	if err != nil {
		return err
	}
	defer gp.Destroy()

	surface, err := win.NewSurface(gp.Instance)
	if err != nil {
		return err
	}
	dev, err := vgpu.NewDevice(gp, surface)
	if err != nil {
		return err
	}
	defer dev.Destroy()

	opts := &present.Options{
		FramesInFlight: cfg.Present.FramesInFlight,
		Swapchain: present.SwapchainOptions{
			PreferredFormat: present.DefaultSurfaceFormat,
			VSync:           cfg.Present.VSync,
		},
		FenceTimeout:  cfg.Present.FenceTimeoutDuration(),
		ClearColor:    present.ClearColor(cfg.Present.ClearColor),
		StatsInterval: cfg.Present.StatsIntervalDuration(),
	}
	if cfg.Pipeline.Quad {
		mesh, err := vgpu.NewMesh(dev, vgpu.QuadVertices, vgpu.QuadIndices)
		if err != nil {
			return err
		}
		defer mesh.Destroy()
		opts.Scene = mesh
	}
	pipes := &vgpu.Pipelines{
		Device:         dev,
		VertexShader:   cfg.Pipeline.VertexShader,
		FragmentShader: cfg.Pipeline.FragmentShader,
		Vertices:       cfg.Pipeline.Quad,
	}

	loop, err := present.NewLoop(dev, win, pipes, opts)
	if err != nil {
		return err
	}
	defer func() { errors.Log(loop.Close()) }()
	win.OnResize = func(width, height int) { loop.SetResized() }

	if cfg.Pipeline.Watch {
		w, err := fsx.NewWatcher(func(name string) {
			slog.Info("shader changed", "file", name)
			loop.Invalidate()
		}, cfg.Pipeline.VertexShader, cfg.Pipeline.FragmentShader)
		if err != nil {
			return fmt.Errorf("watch shaders: %w", err)
		}
		defer w.Close()
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()
	err = loop.Run(ctx)
	st := loop.Stats()
	slog.Info("render loop done", "frames", st.Frames, "aborted", st.Aborted, "rebuilds", st.Rebuilds)
	if errors.Is(err, context.Canceled) {
		return nil
	}
	return err
}
