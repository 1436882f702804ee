// SPDX-License-Identifier: Unlicense OR MIT

package gles

import (
	"fmt"
	"io"
	"log/slog"

	"eglgl.org/internal/dl"
	"eglgl.org/internal/egl"
	"eglgl.org/internal/gl"
)

// NativeWindow is a platform window handle: an X11 Window, a
// wl_egl_window or ANativeWindow pointer, or an HWND.
type NativeWindow uintptr

// Option configures NewBuilder.
type Option func(*options)

type options struct {
	log *slog.Logger
}

// WithLogger makes the builder and its context log to l instead of the
// package logger.
func WithLogger(l *slog.Logger) Option {
	return func(o *options) {
		if l != nil {
			o.log = l
		}
	}
}

// library is an opened driver library.
type library interface {
	dl.Loader
	io.Closer
	Name() string
}

type opener func(names ...string) (library, error)

func openLibrary(names ...string) (library, error) {
	l, err := dl.Open(names...)
	if err != nil {
		return nil, err
	}
	return l, nil
}

// Builder is an initialized display waiting for a window. It is
// consumed by Context or Release.
type Builder struct {
	cfg  Config
	open opener
	egl  library
	disp *egl.Display
	log  *slog.Logger
	used bool
}

// NewBuilder opens the EGL library, initializes the default display and
// picks a configuration. The returned visual id is the pixel format the
// native window must be created with before calling Context.
func NewBuilder(cfg Config, opts ...Option) (*Builder, int, error) {
	return newBuilder(cfg, openLibrary, opts...)
}

func newBuilder(cfg Config, open opener, opts ...Option) (*Builder, int, error) {
	if err := cfg.Validate(); err != nil {
		return nil, 0, err
	}
	o := options{log: Logger()}
	for _, opt := range opts {
		opt(&o)
	}
	lib, err := open(dl.Candidates(EnvEGLLibrary, cfg.EGLLibraries)...)
	if err != nil {
		return nil, 0, fmt.Errorf("gles: open EGL: %w", err)
	}
	disp, visual, err := egl.Init(lib, egl.DefaultDisplay, cfg.SwapInterval)
	if err != nil {
		closeLibrary(o.log, lib)
		return nil, 0, fmt.Errorf("gles: %w", err)
	}
	major, minor := disp.Version()
	o.log.Info("EGL display initialized",
		"library", lib.Name(),
		"version", fmt.Sprintf("%d.%d", major, minor),
		"vendor", disp.Vendor(),
		"visual", visual)
	b := &Builder{
		cfg:  cfg,
		open: open,
		egl:  lib,
		disp: disp,
		log:  o.log,
	}
	return b, visual, nil
}

// Context binds the display to win, makes the context current on the
// calling thread and loads the GL ES entry points. On failure every
// resource of the builder is released. Calling Context twice panics
// with ErrBuilderUsed.
func (b *Builder) Context(win NativeWindow) (*Context, error) {
	b.consume()
	if err := b.disp.Bind(egl.NativeWindowType(win)); err != nil {
		b.release()
		return nil, fmt.Errorf("gles: %w", err)
	}
	if err := b.disp.SwapIntervalError(); err != nil {
		b.log.Warn("swap interval not applied", "interval", b.cfg.SwapInterval, "err", err)
	}
	lib, err := b.open(dl.Candidates(EnvGLESLibrary, b.cfg.GLESLibraries)...)
	if err != nil {
		b.release()
		return nil, fmt.Errorf("gles: open GLES: %w", err)
	}
	// Entry points missing from the library may still be reachable
	// through eglGetProcAddress.
	f, err := gl.Load(dl.Chain{lib, b.disp.ProcAddress()})
	if err != nil {
		closeLibrary(b.log, lib)
		b.release()
		return nil, fmt.Errorf("gles: %w", err)
	}
	b.log.Info("GL ES context bound",
		"library", lib.Name(),
		"client_version", b.disp.ClientVersion(),
		"window", uintptr(win))
	return &Context{
		f:     f,
		disp:  b.disp,
		libs:  []library{lib, b.egl},
		log:   b.log,
		debug: b.cfg.Debug,
	}, nil
}

// Release abandons a builder that will not be turned into a context.
func (b *Builder) Release() {
	b.consume()
	b.release()
}

func (b *Builder) consume() {
	if b.used {
		panic(ErrBuilderUsed)
	}
	b.used = true
}

func (b *Builder) release() {
	b.disp.Release()
	closeLibrary(b.log, b.egl)
}

func closeLibrary(log *slog.Logger, l library) {
	if err := l.Close(); err != nil {
		log.Warn("closing driver library", "library", l.Name(), "err", err)
	}
}
