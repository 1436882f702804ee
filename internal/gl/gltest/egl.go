// SPDX-License-Identifier: Unlicense OR MIT

package gltest

import (
	"slices"
	"unsafe"

	"eglgl.org/internal/dl"
)

const (
	eglSuccess          = 0x3000
	eglBadAlloc         = 0x3003
	eglBadAttribute     = 0x3004
	eglBadConfig        = 0x3005
	eglBadContext       = 0x3006
	eglBadDisplay       = 0x3008
	eglBadMatch         = 0x3009
	eglBadNativeWindow  = 0x300b
	eglBadSurface       = 0x300d
	eglNotInitialized   = 0x3001
	eglNone             = 0x3038
	eglNativeVisualID   = 0x302e
	eglClientVersion    = 0x3098
	eglExtensions       = 0x3055
	eglVendor           = 0x3053
	eglVersionString    = 0x3054
	maxAttribListLength = 64
)

// Handles the fake EGL hands out.
const (
	display = 0xd15
	config  = 0xc0f
	context = 0xc7c
	surface = 0x5f
)

type eglState struct {
	err         int32
	fail        map[string]int32
	initialized bool
	terminated  bool
	context     uintptr
	surface     uintptr
	window      uintptr
	current     uintptr
	interval    int32
	frames      [][4]float32
	version     int
}

// EGLLoader returns a loader for the EGL entry points, without the
// omitted names.
func (d *Driver) EGLLoader(omit ...string) dl.Loader {
	s := dl.Static{
		"eglChooseConfig":        d.eglChooseConfig,
		"eglCreateContext":       d.eglCreateContext,
		"eglCreateWindowSurface": d.eglCreateWindowSurface,
		"eglDestroyContext":      d.eglDestroyContext,
		"eglDestroySurface":      d.eglDestroySurface,
		"eglGetConfigAttrib":     d.eglGetConfigAttrib,
		"eglGetDisplay":          d.eglGetDisplay,
		"eglGetError":            d.eglGetError,
		"eglGetProcAddress":      d.eglGetProcAddress,
		"eglInitialize":          d.eglInitialize,
		"eglMakeCurrent":         d.eglMakeCurrent,
		"eglQueryString":         d.eglQueryString,
		"eglReleaseThread":       d.eglReleaseThread,
		"eglSwapBuffers":         d.eglSwapBuffers,
		"eglSwapInterval":        d.eglSwapInterval,
		"eglTerminate":           d.eglTerminate,
	}
	for _, n := range omit {
		delete(s, n)
	}
	return s
}

// FailEGL makes the next call of the named EGL entry point fail with code.
func (d *Driver) FailEGL(name string, code int32) {
	d.egl.fail[name] = code
}

// Frames returns the back buffer colors presented by eglSwapBuffers.
func (d *Driver) Frames() [][4]float32 { return slices.Clone(d.egl.frames) }

// Current reports whether a context is current.
func (d *Driver) Current() bool { return d.egl.current != 0 }

// Window returns the native window the surface was created for.
func (d *Driver) Window() uintptr { return d.egl.window }

// SwapInterval returns the last interval passed to eglSwapInterval.
func (d *Driver) SwapInterval() int32 { return d.egl.interval }

// ContextVersion returns the client version of the created context.
func (d *Driver) ContextVersion() int { return d.egl.version }

// Terminated reports whether eglTerminate ran.
func (d *Driver) Terminated() bool { return d.egl.terminated }

// Live reports whether a context or surface still exists.
func (d *Driver) Live() bool { return d.egl.context != 0 || d.egl.surface != 0 }

// eglEnter records the call and clears the error, since EGL reports
// only the outcome of the latest call.
func (d *Driver) eglEnter(name string) bool {
	d.calls = append(d.calls, name)
	d.egl.err = eglSuccess
	if code, ok := d.egl.fail[name]; ok {
		delete(d.egl.fail, name)
		d.egl.err = code
		return false
	}
	return true
}

func (d *Driver) eglFalse(code int32) uint32 {
	d.egl.err = code
	return 0
}

func (d *Driver) eglGetError() int32 {
	d.calls = append(d.calls, "eglGetError")
	e := d.egl.err
	d.egl.err = eglSuccess
	return e
}

func (d *Driver) eglGetDisplay(native uintptr) uintptr {
	if !d.eglEnter("eglGetDisplay") {
		return 0
	}
	return display
}

func (d *Driver) eglInitialize(disp uintptr, major, minor *int32) uint32 {
	if !d.eglEnter("eglInitialize") {
		return 0
	}
	if disp != display {
		return d.eglFalse(eglBadDisplay)
	}
	d.egl.initialized = true
	d.egl.terminated = false
	if major != nil {
		*major = 1
	}
	if minor != nil {
		*minor = 5
	}
	return 1
}

func (d *Driver) eglQueryString(disp uintptr, name int32) string {
	if !d.eglEnter("eglQueryString") {
		return ""
	}
	if disp != display || !d.egl.initialized {
		d.egl.err = eglNotInitialized
		return ""
	}
	switch name {
	case eglExtensions:
		return "EGL_KHR_create_context EGL_KHR_surfaceless_context"
	case eglVendor:
		return Vendor
	case eglVersionString:
		return "1.5 gltest"
	}
	d.egl.err = eglBadAttribute
	return ""
}

// attribList reads an EGL_NONE terminated attribute list.
func attribList(attribs *int32) (map[int32]int32, bool) {
	m := make(map[int32]int32)
	if attribs == nil {
		return m, true
	}
	list := unsafe.Slice(attribs, maxAttribListLength)
	for i := 0; i < len(list); i += 2 {
		if list[i] == eglNone {
			return m, true
		}
		if i+1 >= len(list) {
			break
		}
		m[list[i]] = list[i+1]
	}
	return nil, false
}

func (d *Driver) eglChooseConfig(disp uintptr, attribs *int32, configs *uintptr, configSize int32, numConfig *int32) uint32 {
	if !d.eglEnter("eglChooseConfig") {
		return 0
	}
	if disp != display || !d.egl.initialized {
		return d.eglFalse(eglNotInitialized)
	}
	if _, ok := attribList(attribs); !ok {
		return d.eglFalse(eglBadAttribute)
	}
	if d.NoConfigs {
		*numConfig = 0
		return 1
	}
	if configs != nil && configSize > 0 {
		*configs = config
	}
	*numConfig = 1
	return 1
}

func (d *Driver) eglGetConfigAttrib(disp, cfg uintptr, attr int32, value *int32) uint32 {
	if !d.eglEnter("eglGetConfigAttrib") {
		return 0
	}
	if cfg != config {
		return d.eglFalse(eglBadConfig)
	}
	if attr != eglNativeVisualID {
		return d.eglFalse(eglBadAttribute)
	}
	*value = d.VisualID
	return 1
}

func (d *Driver) eglCreateContext(disp, cfg, share uintptr, attribs *int32) uintptr {
	if !d.eglEnter("eglCreateContext") {
		return 0
	}
	if cfg != config {
		d.egl.err = eglBadConfig
		return 0
	}
	attrs, ok := attribList(attribs)
	if !ok {
		d.egl.err = eglBadAttribute
		return 0
	}
	version := int(attrs[eglClientVersion])
	if version == 0 {
		version = 1
	}
	maxVersion := d.MaxClientVersion
	if maxVersion == 0 {
		maxVersion = 3
	}
	if version > maxVersion {
		d.egl.err = eglBadMatch
		return 0
	}
	d.egl.context = context
	d.egl.version = version
	return context
}

func (d *Driver) eglCreateWindowSurface(disp, cfg, win uintptr, attribs *int32) uintptr {
	if !d.eglEnter("eglCreateWindowSurface") {
		return 0
	}
	if win == 0 {
		d.egl.err = eglBadNativeWindow
		return 0
	}
	if _, ok := attribList(attribs); !ok {
		d.egl.err = eglBadAttribute
		return 0
	}
	if d.egl.surface != 0 {
		d.egl.err = eglBadAlloc
		return 0
	}
	d.egl.surface = surface
	d.egl.window = win
	return surface
}

func (d *Driver) eglMakeCurrent(disp, draw, read, ctx uintptr) uint32 {
	if !d.eglEnter("eglMakeCurrent") {
		return 0
	}
	if ctx == 0 {
		d.egl.current = 0
		return 1
	}
	if ctx != d.egl.context {
		return d.eglFalse(eglBadContext)
	}
	if draw != d.egl.surface || read != d.egl.surface {
		return d.eglFalse(eglBadSurface)
	}
	d.egl.current = ctx
	return 1
}

func (d *Driver) eglSwapInterval(disp uintptr, interval int32) uint32 {
	if !d.eglEnter("eglSwapInterval") {
		return 0
	}
	d.egl.interval = interval
	return 1
}

func (d *Driver) eglSwapBuffers(disp, surf uintptr) uint32 {
	if !d.eglEnter("eglSwapBuffers") {
		return 0
	}
	if surf == 0 || surf != d.egl.surface {
		return d.eglFalse(eglBadSurface)
	}
	if d.egl.current == 0 {
		return d.eglFalse(eglBadContext)
	}
	d.egl.frames = append(d.egl.frames, d.back)
	return 1
}

func (d *Driver) eglDestroySurface(disp, surf uintptr) uint32 {
	if !d.eglEnter("eglDestroySurface") {
		return 0
	}
	if surf != d.egl.surface {
		return d.eglFalse(eglBadSurface)
	}
	d.egl.surface = 0
	return 1
}

func (d *Driver) eglDestroyContext(disp, ctx uintptr) uint32 {
	if !d.eglEnter("eglDestroyContext") {
		return 0
	}
	if ctx != d.egl.context {
		return d.eglFalse(eglBadContext)
	}
	d.egl.context = 0
	if d.egl.current == ctx {
		d.egl.current = 0
	}
	return 1
}

func (d *Driver) eglTerminate(disp uintptr) uint32 {
	if !d.eglEnter("eglTerminate") {
		return 0
	}
	if disp != display {
		return d.eglFalse(eglBadDisplay)
	}
	d.egl.initialized = false
	d.egl.terminated = true
	return 1
}

func (d *Driver) eglReleaseThread() uint32 {
	d.eglEnter("eglReleaseThread")
	d.egl.current = 0
	return 1
}

// eglGetProcAddress has nothing to offer beyond the GL loader.
func (d *Driver) eglGetProcAddress(name string) uintptr {
	d.eglEnter("eglGetProcAddress")
	return 0
}
