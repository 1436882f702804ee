// SPDX-License-Identifier: Unlicense OR MIT

//go:build linux || windows

// Command glesclear opens a window, builds a GL ES context for it and
// presents frames cleared to a fixed color.
package main

import (
	"flag"
	"fmt"
	"log/slog"
	"os"
	"runtime"

	"github.com/go-gl/glfw/v3.3/glfw"

	"eglgl.org/gles"
)

var (
	configFile = flag.String("config", "", "TOML configuration file")
	width      = flag.Int("width", 640, "window width")
	height     = flag.Int("height", 480, "window height")
	frames     = flag.Int("frames", 0, "exit after presenting this many frames (0 runs until the window closes)")
	debug      = flag.Bool("debug", false, "log every GL call")
)

func main() {
	flag.Parse()
	// The context is current on the thread that binds it.
	runtime.LockOSThread()
	if err := run(); err != nil {
		fmt.Fprintf(os.Stderr, "glesclear: %v\n", err)
		os.Exit(1)
	}
}

func run() error {
	cfg := gles.DefaultConfig()
	if *configFile != "" {
		var err error
		if cfg, err = gles.LoadConfig(*configFile); err != nil {
			return err
		}
	}
	level := slog.LevelInfo
	if *debug {
		cfg.Debug = true
		level = slog.LevelDebug
	}
	gles.SetLogger(slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: level})))

	if err := glfw.Init(); err != nil {
		return err
	}
	defer glfw.Terminate()

	b, visual, err := gles.NewBuilder(cfg)
	if err != nil {
		return err
	}
	// The visual id is not applied: GLFW offers no way to create a
	// window with a given visual, so the window gets the default one.
	// If that differs from the chosen configuration, eglCreateWindowSurface
	// fails with EGL_BAD_MATCH and Context returns that error.
	gles.Logger().Info("visual id not applied to the window", "visual", visual)
	glfw.WindowHint(glfw.ClientAPI, glfw.NoAPI)
	window, err := glfw.CreateWindow(*width, *height, "glesclear", nil, nil)
	if err != nil {
		b.Release()
		return err
	}
	defer window.Destroy()

	ctx, err := b.Context(nativeWindow(window))
	if err != nil {
		return err
	}
	defer ctx.Release()
	info := ctx.Info()
	gles.Logger().Info("driver", "vendor", info.Vendor, "renderer", info.Renderer, "version", info.Version)

	ctx.Color(0.2, 0.3, 0.4)
	for n := 0; !window.ShouldClose() && (*frames == 0 || n < *frames); n++ {
		glfw.PollEvents()
		w, h := window.GetFramebufferSize()
		ctx.Viewport(w, h)
		ctx.Clear()
		if err := ctx.Update(); err != nil {
			return err
		}
	}
	return nil
}
