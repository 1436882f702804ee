// SPDX-License-Identifier: Unlicense OR MIT

// Package egl drives the EGL display API: it opens a display, picks a
// window-renderable configuration, binds it to a native window and
// presents frames.
package egl

import (
	"errors"
	"fmt"
	"strings"

	"eglgl.org/internal/dl"
)

// Display is an initialized EGL display. Init creates it, Bind attaches
// it to a window once, and Swap presents.
type Display struct {
	f             *functions
	disp          _EGLDisplay
	config        _EGLConfig
	ctx           _EGLContext
	surf          _EGLSurface
	win           NativeWindowType
	visualID      int
	major, minor  int
	clientVersion int
	swapInterval  int
	swapErr       error
	exts          []string
}

var (
	nilEGLDisplay          _EGLDisplay
	nilEGLSurface          _EGLSurface
	nilEGLContext          _EGLContext
	nilEGLConfig           _EGLConfig
	nilEGLNativeWindowType NativeWindowType
)

// DefaultDisplay selects the platform's default display connection.
const DefaultDisplay NativeDisplayType = 0

const (
	_EGL_BLUE_SIZE              = 0x3022
	_EGL_CONFIG_CAVEAT          = 0x3027
	_EGL_CONTEXT_CLIENT_VERSION = 0x3098
	_EGL_DEPTH_SIZE             = 0x3025
	_EGL_GREEN_SIZE             = 0x3023
	_EGL_EXTENSIONS             = 0x3055
	_EGL_NATIVE_VISUAL_ID       = 0x302e
	_EGL_NONE                   = 0x3038
	_EGL_OPENGL_ES2_BIT         = 0x4
	_EGL_RED_SIZE               = 0x3024
	_EGL_RENDERABLE_TYPE        = 0x3040
	_EGL_SURFACE_TYPE           = 0x3033
	_EGL_VENDOR                 = 0x3053
	_EGL_WINDOW_BIT             = 0x4
)

// ErrBound is returned by a second Bind.
var ErrBound = errors.New("egl: display already bound to a window")

// Init opens the native display through the EGL entry points of l and
// chooses a configuration. The returned visual id describes the pixel
// format the native window must be created with.
//
// A negative swapInterval leaves the driver's default in place.
func Init(l dl.Loader, native NativeDisplayType, swapInterval int) (*Display, int, error) {
	f, err := loadFunctions(l)
	if err != nil {
		return nil, 0, err
	}
	d := &Display{f: f, swapInterval: swapInterval}
	if err := d.init(native); err != nil {
		return nil, 0, err
	}
	return d, d.visualID, nil
}

func (d *Display) init(native NativeDisplayType) error {
	f := d.f
	eglDisp := f.getDisplay(native)
	if eglDisp == nilEGLDisplay {
		return d.errorf("eglGetDisplay")
	}
	major, minor, ret := f.initialize(eglDisp)
	if !ret {
		return d.errorf("eglInitialize")
	}
	d.disp = eglDisp
	d.major, d.minor = int(major), int(minor)
	if exts := f.queryString(eglDisp, _EGL_EXTENSIONS); exts != "" {
		d.exts = strings.Split(exts, " ")
	}
	attribs := []_EGLint{
		_EGL_RENDERABLE_TYPE, _EGL_OPENGL_ES2_BIT,
		_EGL_SURFACE_TYPE, _EGL_WINDOW_BIT,
		_EGL_BLUE_SIZE, 8,
		_EGL_GREEN_SIZE, 8,
		_EGL_RED_SIZE, 8,
		_EGL_DEPTH_SIZE, 16,
		_EGL_CONFIG_CAVEAT, _EGL_NONE,
		_EGL_NONE,
	}
	eglCfg, ret := f.chooseConfig(eglDisp, attribs)
	if !ret {
		err := d.errorf("eglChooseConfig")
		f.terminate(eglDisp)
		return err
	}
	if eglCfg == nilEGLConfig {
		f.terminate(eglDisp)
		return errors.New("egl: eglChooseConfig returned 0 configs")
	}
	visID, ret := f.getConfigAttrib(eglDisp, eglCfg, _EGL_NATIVE_VISUAL_ID)
	if !ret {
		err := d.errorf("eglGetConfigAttrib(EGL_NATIVE_VISUAL_ID)")
		f.terminate(eglDisp)
		return err
	}
	d.config = eglCfg
	d.visualID = int(visID)
	return nil
}

// Bind creates a window surface for win and a rendering context, and
// makes them current on the calling thread.
func (d *Display) Bind(win NativeWindowType) error {
	if d.disp == nilEGLDisplay {
		return errors.New("egl: bind on a released display")
	}
	if d.win != nilEGLNativeWindowType {
		return ErrBound
	}
	if win == nilEGLNativeWindowType {
		return errors.New("egl: nil native window")
	}
	f := d.f
	ctx, version := d.createContext()
	if ctx == nilEGLContext {
		return d.errorf("eglCreateContext")
	}
	surf := f.createWindowSurface(d.disp, d.config, win, []_EGLint{_EGL_NONE})
	if surf == nilEGLSurface {
		err := d.errorf("eglCreateWindowSurface")
		f.destroyContext(d.disp, ctx)
		return err
	}
	if !f.makeCurrent(d.disp, surf, surf, ctx) {
		err := d.errorf("eglMakeCurrent")
		f.destroySurface(d.disp, surf)
		f.destroyContext(d.disp, ctx)
		return err
	}
	if d.swapInterval >= 0 && !f.swapInterval(d.disp, _EGLint(d.swapInterval)) {
		d.swapErr = d.errorf("eglSwapInterval")
	}
	d.ctx, d.surf, d.win = ctx, surf, win
	d.clientVersion = version
	return nil
}

// createContext asks for OpenGL ES 3 and falls back to 2.
func (d *Display) createContext() (_EGLContext, int) {
	for _, v := range []int{3, 2} {
		ctxAttribs := []_EGLint{
			_EGL_CONTEXT_CLIENT_VERSION, _EGLint(v),
			_EGL_NONE,
		}
		if ctx := d.f.createContext(d.disp, d.config, nilEGLContext, ctxAttribs); ctx != nilEGLContext {
			return ctx, v
		}
	}
	return nilEGLContext, 0
}

// Swap presents the back buffer. Blocking, if any, is the driver's.
func (d *Display) Swap() error {
	if d.win == nilEGLNativeWindowType {
		panic("egl: swap on a display that is not bound to a window")
	}
	if !d.f.swapBuffers(d.disp, d.surf) {
		return d.errorf("eglSwapBuffers")
	}
	return nil
}

// Release destroys the surface and context and terminates the display.
// It is safe to call more than once.
func (d *Display) Release() {
	if d.disp == nilEGLDisplay {
		return
	}
	f := d.f
	if d.ctx != nilEGLContext {
		f.makeCurrent(d.disp, nilEGLSurface, nilEGLSurface, nilEGLContext)
	}
	if d.surf != nilEGLSurface {
		f.destroySurface(d.disp, d.surf)
		d.surf = nilEGLSurface
	}
	if d.ctx != nilEGLContext {
		f.destroyContext(d.disp, d.ctx)
		d.ctx = nilEGLContext
	}
	f.terminate(d.disp)
	f.releaseThread()
	d.disp = nilEGLDisplay
	d.win = nilEGLNativeWindowType
}

// ProcAddress returns a loader backed by eglGetProcAddress.
func (d *Display) ProcAddress() dl.ProcLoader {
	return func(name string) uintptr {
		return d.f.eglGetProcAddress(name)
	}
}

// VisualID returns the native visual id of the chosen configuration.
func (d *Display) VisualID() int { return d.visualID }

// Version returns the EGL version reported by eglInitialize.
func (d *Display) Version() (major, minor int) { return d.major, d.minor }

// ClientVersion returns the OpenGL ES major version of the bound
// context, or 0 before Bind.
func (d *Display) ClientVersion() int { return d.clientVersion }

// SwapIntervalError reports why Bind could not apply the requested
// swap interval. The binding itself still succeeded.
func (d *Display) SwapIntervalError() error { return d.swapErr }

// Vendor returns the EGL_VENDOR string.
func (d *Display) Vendor() string {
	if d.disp == nilEGLDisplay {
		return ""
	}
	return d.f.queryString(d.disp, _EGL_VENDOR)
}

// HasExtension reports whether the display advertises ext.
func (d *Display) HasExtension(ext string) bool {
	for _, e := range d.exts {
		if ext == e {
			return true
		}
	}
	return false
}

func (d *Display) errorf(op string) error {
	return &Error{Op: op, Code: d.f.getError()}
}

// Error is a failed EGL call and the code eglGetError reported for it.
type Error struct {
	Op   string
	Code int32
}

func (e *Error) Error() string {
	return fmt.Sprintf("egl: %s failed: %s (0x%x)", e.Op, codeName(e.Code), e.Code)
}

const (
	EGL_SUCCESS             = 0x3000
	EGL_NOT_INITIALIZED     = 0x3001
	EGL_BAD_ACCESS          = 0x3002
	EGL_BAD_ALLOC           = 0x3003
	EGL_BAD_ATTRIBUTE       = 0x3004
	EGL_BAD_CONFIG          = 0x3005
	EGL_BAD_CONTEXT         = 0x3006
	EGL_BAD_CURRENT_SURFACE = 0x3007
	EGL_BAD_DISPLAY         = 0x3008
	EGL_BAD_MATCH           = 0x3009
	EGL_BAD_NATIVE_PIXMAP   = 0x300a
	EGL_BAD_NATIVE_WINDOW   = 0x300b
	EGL_BAD_PARAMETER       = 0x300c
	EGL_BAD_SURFACE         = 0x300d
	EGL_CONTEXT_LOST        = 0x300e
)

func codeName(code int32) string {
	switch code {
	case EGL_SUCCESS:
		return "EGL_SUCCESS"
	case EGL_NOT_INITIALIZED:
		return "EGL_NOT_INITIALIZED"
	case EGL_BAD_ACCESS:
		return "EGL_BAD_ACCESS"
	case EGL_BAD_ALLOC:
		return "EGL_BAD_ALLOC"
	case EGL_BAD_ATTRIBUTE:
		return "EGL_BAD_ATTRIBUTE"
	case EGL_BAD_CONFIG:
		return "EGL_BAD_CONFIG"
	case EGL_BAD_CONTEXT:
		return "EGL_BAD_CONTEXT"
	case EGL_BAD_CURRENT_SURFACE:
		return "EGL_BAD_CURRENT_SURFACE"
	case EGL_BAD_DISPLAY:
		return "EGL_BAD_DISPLAY"
	case EGL_BAD_MATCH:
		return "EGL_BAD_MATCH"
	case EGL_BAD_NATIVE_PIXMAP:
		return "EGL_BAD_NATIVE_PIXMAP"
	case EGL_BAD_NATIVE_WINDOW:
		return "EGL_BAD_NATIVE_WINDOW"
	case EGL_BAD_PARAMETER:
		return "EGL_BAD_PARAMETER"
	case EGL_BAD_SURFACE:
		return "EGL_BAD_SURFACE"
	case EGL_CONTEXT_LOST:
		return "EGL_CONTEXT_LOST"
	default:
		return "unknown EGL error"
	}
}
