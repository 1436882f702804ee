// SPDX-License-Identifier: Unlicense OR MIT

package main

import (
	"github.com/go-gl/glfw/v3.3/glfw"

	"eglgl.org/gles"
)

// nativeWindow returns the X11 window id.
func nativeWindow(w *glfw.Window) gles.NativeWindow {
	return gles.NativeWindow(w.GetX11Window())
}
