// SPDX-License-Identifier: Unlicense OR MIT

package egl

import (
	"fmt"

	"eglgl.org/internal/dl"
)

type (
	_EGLint           = int32
	_EGLDisplay       uintptr
	_EGLConfig        uintptr
	_EGLContext       uintptr
	_EGLSurface       uintptr
	NativeDisplayType uintptr
	NativeWindowType  uintptr
)

// functions holds the EGL entry points. EGLBoolean results are uint32.
type functions struct {
	eglChooseConfig        func(disp uintptr, attribs *int32, configs *uintptr, configSize int32, numConfig *int32) uint32
	eglCreateContext       func(disp, config, share uintptr, attribs *int32) uintptr
	eglCreateWindowSurface func(disp, config, win uintptr, attribs *int32) uintptr
	eglDestroyContext      func(disp, ctx uintptr) uint32
	eglDestroySurface      func(disp, surf uintptr) uint32
	eglGetConfigAttrib     func(disp, config uintptr, attr int32, value *int32) uint32
	eglGetDisplay          func(native uintptr) uintptr
	eglGetError            func() int32
	eglGetProcAddress      func(name string) uintptr
	eglInitialize          func(disp uintptr, major, minor *int32) uint32
	eglMakeCurrent         func(disp, draw, read, ctx uintptr) uint32
	eglQueryString         func(disp uintptr, name int32) string
	eglReleaseThread       func() uint32
	eglSwapBuffers         func(disp, surf uintptr) uint32
	eglSwapInterval        func(disp uintptr, interval int32) uint32
	eglTerminate           func(disp uintptr) uint32
}

func loadFunctions(l dl.Loader) (*functions, error) {
	f := new(functions)
	procs := map[string]any{
		"eglChooseConfig":        &f.eglChooseConfig,
		"eglCreateContext":       &f.eglCreateContext,
		"eglCreateWindowSurface": &f.eglCreateWindowSurface,
		"eglDestroyContext":      &f.eglDestroyContext,
		"eglDestroySurface":      &f.eglDestroySurface,
		"eglGetConfigAttrib":     &f.eglGetConfigAttrib,
		"eglGetDisplay":          &f.eglGetDisplay,
		"eglGetError":            &f.eglGetError,
		"eglGetProcAddress":      &f.eglGetProcAddress,
		"eglInitialize":          &f.eglInitialize,
		"eglMakeCurrent":         &f.eglMakeCurrent,
		"eglQueryString":         &f.eglQueryString,
		"eglReleaseThread":       &f.eglReleaseThread,
		"eglSwapBuffers":         &f.eglSwapBuffers,
		"eglSwapInterval":        &f.eglSwapInterval,
		"eglTerminate":           &f.eglTerminate,
	}
	if err := dl.Bind(l, procs); err != nil {
		return nil, fmt.Errorf("egl: %w", err)
	}
	return f, nil
}

func (f *functions) chooseConfig(disp _EGLDisplay, attribs []_EGLint) (_EGLConfig, bool) {
	var cfg uintptr
	var ncfg int32
	if f.eglChooseConfig(uintptr(disp), &attribs[0], &cfg, 1, &ncfg) == 0 {
		return nilEGLConfig, false
	}
	if ncfg == 0 {
		return nilEGLConfig, true
	}
	return _EGLConfig(cfg), true
}

func (f *functions) createContext(disp _EGLDisplay, cfg _EGLConfig, shareCtx _EGLContext, attribs []_EGLint) _EGLContext {
	return _EGLContext(f.eglCreateContext(uintptr(disp), uintptr(cfg), uintptr(shareCtx), &attribs[0]))
}

func (f *functions) createWindowSurface(disp _EGLDisplay, cfg _EGLConfig, win NativeWindowType, attribs []_EGLint) _EGLSurface {
	return _EGLSurface(f.eglCreateWindowSurface(uintptr(disp), uintptr(cfg), uintptr(win), &attribs[0]))
}

func (f *functions) destroySurface(disp _EGLDisplay, surf _EGLSurface) bool {
	return f.eglDestroySurface(uintptr(disp), uintptr(surf)) != 0
}

func (f *functions) destroyContext(disp _EGLDisplay, ctx _EGLContext) bool {
	return f.eglDestroyContext(uintptr(disp), uintptr(ctx)) != 0
}

func (f *functions) getConfigAttrib(disp _EGLDisplay, cfg _EGLConfig, attr _EGLint) (_EGLint, bool) {
	var val int32
	r := f.eglGetConfigAttrib(uintptr(disp), uintptr(cfg), attr, &val)
	return val, r != 0
}

func (f *functions) getDisplay(disp NativeDisplayType) _EGLDisplay {
	return _EGLDisplay(f.eglGetDisplay(uintptr(disp)))
}

func (f *functions) getError() _EGLint {
	return f.eglGetError()
}

func (f *functions) initialize(disp _EGLDisplay) (_EGLint, _EGLint, bool) {
	var maj, min int32
	r := f.eglInitialize(uintptr(disp), &maj, &min)
	return maj, min, r != 0
}

func (f *functions) makeCurrent(disp _EGLDisplay, draw, read _EGLSurface, ctx _EGLContext) bool {
	return f.eglMakeCurrent(uintptr(disp), uintptr(draw), uintptr(read), uintptr(ctx)) != 0
}

func (f *functions) releaseThread() bool {
	return f.eglReleaseThread() != 0
}

func (f *functions) swapInterval(disp _EGLDisplay, interval _EGLint) bool {
	return f.eglSwapInterval(uintptr(disp), interval) != 0
}

func (f *functions) swapBuffers(disp _EGLDisplay, surf _EGLSurface) bool {
	return f.eglSwapBuffers(uintptr(disp), uintptr(surf)) != 0
}

func (f *functions) terminate(disp _EGLDisplay) bool {
	return f.eglTerminate(uintptr(disp)) != 0
}

func (f *functions) queryString(disp _EGLDisplay, name _EGLint) string {
	return f.eglQueryString(uintptr(disp), name)
}
