// SPDX-License-Identifier: Unlicense OR MIT

package main

import (
	"unsafe"

	"github.com/go-gl/glfw/v3.3/glfw"

	"eglgl.org/gles"
)

func nativeWindow(w *glfw.Window) gles.NativeWindow {
	return gles.NativeWindow(unsafe.Pointer(w.GetWin32Window()))
}
