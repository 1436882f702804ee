// SPDX-License-Identifier: Unlicense OR MIT

package gl

import (
	"fmt"
	"maps"
	"slices"
	"unsafe"

	"eglgl.org/internal/dl"
	gunsafe "eglgl.org/internal/unsafe"
)

// Functions is the dispatch table of GL ES 2.0 entry points. Every slot
// is non-nil once Load returns.
type Functions struct {
	glAttachShader            func(program, shader uint32)
	glBindBuffer              func(target, buffer uint32)
	glBindTexture             func(target, texture uint32)
	glBlendFuncSeparate       func(srcRGB, dstRGB, srcA, dstA uint32)
	glBufferData              func(target uint32, size int, data unsafe.Pointer, usage uint32)
	glClear                   func(mask uint32)
	glClearColor              func(red, green, blue, alpha float32)
	glCompileShader           func(shader uint32)
	glCreateProgram           func() uint32
	glCreateShader            func(typ uint32) uint32
	glDeleteBuffers           func(n int32, buffers *uint32)
	glDeleteProgram           func(program uint32)
	glDeleteShader            func(shader uint32)
	glDeleteTextures          func(n int32, textures *uint32)
	glDisable                 func(cap uint32)
	glDrawElements            func(mode uint32, count int32, typ uint32, offset uintptr)
	glEnable                  func(cap uint32)
	glEnableVertexAttribArray func(index uint32)
	glGenBuffers              func(n int32, buffers *uint32)
	glGenTextures             func(n int32, textures *uint32)
	glGetAttribLocation       func(program uint32, name *byte) int32
	glGetError                func() uint32
	glGetFloatv               func(pname uint32, data *float32)
	glGetIntegerv             func(pname uint32, data *int32)
	glGetProgramInfoLog       func(program uint32, bufSize int32, length *int32, infoLog *byte)
	glGetProgramiv            func(program, pname uint32, params *int32)
	glGetShaderInfoLog        func(shader uint32, bufSize int32, length *int32, infoLog *byte)
	glGetShaderiv             func(shader, pname uint32, params *int32)
	glGetString               func(name uint32) string
	glGetUniformLocation      func(program uint32, name *byte) int32
	glLinkProgram             func(program uint32)
	glShaderSource            func(shader uint32, count int32, src **byte, length *int32)
	glTexImage2D              func(target uint32, level, internalFormat, width, height, border int32, format, typ uint32, pixels unsafe.Pointer)
	glTexParameteri           func(target, pname uint32, param int32)
	glUniformMatrix4fv        func(location, count int32, transpose uint8, value *float32)
	glUseProgram              func(program uint32)
	glVertexAttribPointer     func(index uint32, size int32, typ uint32, normalized uint8, stride int32, offset uintptr)
	glViewport                func(x, y, width, height int32)
}

// Load resolves every entry point of the table through l. It fails
// without returning a table if any symbol is missing.
func Load(l dl.Loader) (*Functions, error) {
	f := new(Functions)
	if err := dl.Bind(l, f.slots()); err != nil {
		return nil, fmt.Errorf("gl: %w", err)
	}
	return f, nil
}

// Symbols returns the names of the entry points Load resolves.
func Symbols() []string {
	var f Functions
	return slices.Sorted(maps.Keys(f.slots()))
}

func (f *Functions) slots() map[string]any {
	return map[string]any{
		"glAttachShader":            &f.glAttachShader,
		"glBindBuffer":              &f.glBindBuffer,
		"glBindTexture":             &f.glBindTexture,
		"glBlendFuncSeparate":       &f.glBlendFuncSeparate,
		"glBufferData":              &f.glBufferData,
		"glClear":                   &f.glClear,
		"glClearColor":              &f.glClearColor,
		"glCompileShader":           &f.glCompileShader,
		"glCreateProgram":           &f.glCreateProgram,
		"glCreateShader":            &f.glCreateShader,
		"glDeleteBuffers":           &f.glDeleteBuffers,
		"glDeleteProgram":           &f.glDeleteProgram,
		"glDeleteShader":            &f.glDeleteShader,
		"glDeleteTextures":          &f.glDeleteTextures,
		"glDisable":                 &f.glDisable,
		"glDrawElements":            &f.glDrawElements,
		"glEnable":                  &f.glEnable,
		"glEnableVertexAttribArray": &f.glEnableVertexAttribArray,
		"glGenBuffers":              &f.glGenBuffers,
		"glGenTextures":             &f.glGenTextures,
		"glGetAttribLocation":       &f.glGetAttribLocation,
		"glGetError":                &f.glGetError,
		"glGetFloatv":               &f.glGetFloatv,
		"glGetIntegerv":             &f.glGetIntegerv,
		"glGetProgramInfoLog":       &f.glGetProgramInfoLog,
		"glGetProgramiv":            &f.glGetProgramiv,
		"glGetShaderInfoLog":        &f.glGetShaderInfoLog,
		"glGetShaderiv":             &f.glGetShaderiv,
		"glGetString":               &f.glGetString,
		"glGetUniformLocation":      &f.glGetUniformLocation,
		"glLinkProgram":             &f.glLinkProgram,
		"glShaderSource":            &f.glShaderSource,
		"glTexImage2D":              &f.glTexImage2D,
		"glTexParameteri":           &f.glTexParameteri,
		"glUniformMatrix4fv":        &f.glUniformMatrix4fv,
		"glUseProgram":              &f.glUseProgram,
		"glVertexAttribPointer":     &f.glVertexAttribPointer,
		"glViewport":                &f.glViewport,
	}
}

func (f *Functions) AttachShader(p Program, s Shader) {
	f.glAttachShader(p.V, s.V)
}

func (f *Functions) BindBuffer(target Enum, b Buffer) {
	f.glBindBuffer(uint32(target), b.V)
}

func (f *Functions) BindTexture(target Enum, t Texture) {
	f.glBindTexture(uint32(target), t.V)
}

func (f *Functions) BlendFuncSeparate(srcRGB, dstRGB, srcA, dstA Enum) {
	f.glBlendFuncSeparate(uint32(srcRGB), uint32(dstRGB), uint32(srcA), uint32(dstA))
}

func (f *Functions) BufferData(target Enum, src []byte, usage Enum) {
	f.glBufferData(uint32(target), len(src), gunsafe.Pointer(src), uint32(usage))
}

func (f *Functions) Clear(mask Enum) {
	f.glClear(uint32(mask))
}

func (f *Functions) ClearColor(red, green, blue, alpha float32) {
	f.glClearColor(red, green, blue, alpha)
}

func (f *Functions) CompileShader(s Shader) {
	f.glCompileShader(s.V)
}

func (f *Functions) CreateProgram() Program {
	return Program{f.glCreateProgram()}
}

func (f *Functions) CreateShader(ty Enum) Shader {
	return Shader{f.glCreateShader(uint32(ty))}
}

// DeleteBuffers deletes bufs. Zero names are ignored by the driver.
func (f *Functions) DeleteBuffers(bufs []Buffer) {
	if len(bufs) == 0 {
		return
	}
	names := make([]uint32, len(bufs))
	for i, b := range bufs {
		names[i] = b.V
	}
	f.glDeleteBuffers(int32(len(names)), &names[0])
}

func (f *Functions) DeleteProgram(p Program) {
	f.glDeleteProgram(p.V)
}

func (f *Functions) DeleteShader(s Shader) {
	f.glDeleteShader(s.V)
}

func (f *Functions) DeleteTexture(t Texture) {
	f.glDeleteTextures(1, &t.V)
}

func (f *Functions) Disable(cap Enum) {
	f.glDisable(uint32(cap))
}

func (f *Functions) DrawElements(mode Enum, count int, ty Enum, off int) {
	f.glDrawElements(uint32(mode), int32(count), uint32(ty), uintptr(off))
}

func (f *Functions) Enable(cap Enum) {
	f.glEnable(uint32(cap))
}

func (f *Functions) EnableVertexAttribArray(a Attrib) {
	f.glEnableVertexAttribArray(uint32(a))
}

// GenBuffers fills bufs with fresh buffer names.
func (f *Functions) GenBuffers(bufs []Buffer) {
	if len(bufs) == 0 {
		return
	}
	names := make([]uint32, len(bufs))
	f.glGenBuffers(int32(len(names)), &names[0])
	for i, n := range names {
		bufs[i] = Buffer{n}
	}
}

func (f *Functions) GenTexture() Texture {
	var t uint32
	f.glGenTextures(1, &t)
	return Texture{t}
}

// GetAttribLocation looks up the NUL-terminated name.
func (f *Functions) GetAttribLocation(p Program, name []byte) int {
	return int(f.glGetAttribLocation(p.V, &name[0]))
}

func (f *Functions) GetError() Enum {
	return Enum(f.glGetError())
}

func (f *Functions) GetFloat4(pname Enum) [4]float32 {
	var v [4]float32
	f.glGetFloatv(uint32(pname), &v[0])
	return v
}

func (f *Functions) GetInteger4(pname Enum) [4]int {
	var v [4]int32
	f.glGetIntegerv(uint32(pname), &v[0])
	return [4]int{int(v[0]), int(v[1]), int(v[2]), int(v[3])}
}

func (f *Functions) GetInteger(pname Enum) int {
	var v [4]int32
	f.glGetIntegerv(uint32(pname), &v[0])
	return int(v[0])
}

func (f *Functions) GetProgrami(p Program, pname Enum) int {
	var v int32
	f.glGetProgramiv(p.V, uint32(pname), &v)
	return int(v)
}

// GetProgramInfoLog copies the program log into buf, which must be
// sized from INFO_LOG_LENGTH, and returns it without the terminator.
func (f *Functions) GetProgramInfoLog(p Program, buf []byte) string {
	if len(buf) == 0 {
		return ""
	}
	var n int32
	f.glGetProgramInfoLog(p.V, int32(len(buf)), &n, &buf[0])
	return string(buf[:clampLen(n, len(buf))])
}

func (f *Functions) GetShaderi(s Shader, pname Enum) int {
	var v int32
	f.glGetShaderiv(s.V, uint32(pname), &v)
	return int(v)
}

// GetShaderInfoLog is like GetProgramInfoLog for a shader.
func (f *Functions) GetShaderInfoLog(s Shader, buf []byte) string {
	if len(buf) == 0 {
		return ""
	}
	var n int32
	f.glGetShaderInfoLog(s.V, int32(len(buf)), &n, &buf[0])
	return string(buf[:clampLen(n, len(buf))])
}

func (f *Functions) GetString(pname Enum) string {
	return f.glGetString(uint32(pname))
}

// GetUniformLocation looks up the NUL-terminated name.
func (f *Functions) GetUniformLocation(p Program, name []byte) Uniform {
	return Uniform{f.glGetUniformLocation(p.V, &name[0])}
}

func (f *Functions) LinkProgram(p Program) {
	f.glLinkProgram(p.V)
}

// ShaderSource sets the NUL-terminated source of s.
func (f *Functions) ShaderSource(s Shader, src []byte) {
	csrc := &src[0]
	f.glShaderSource(s.V, 1, &csrc, nil)
}

func (f *Functions) TexImage2D(target Enum, level int, internalFormat Enum, width, height int, format, ty Enum, pixels unsafe.Pointer) {
	f.glTexImage2D(uint32(target), int32(level), int32(internalFormat), int32(width), int32(height), 0, uint32(format), uint32(ty), pixels)
}

func (f *Functions) TexParameteri(target, pname Enum, param int) {
	f.glTexParameteri(uint32(target), uint32(pname), int32(param))
}

func (f *Functions) UniformMatrix4fv(dst Uniform, m *[16]float32) {
	f.glUniformMatrix4fv(dst.V, 1, FALSE, &m[0])
}

func (f *Functions) UseProgram(p Program) {
	f.glUseProgram(p.V)
}

func (f *Functions) VertexAttribPointer(dst Attrib, size int, ty Enum, normalized bool, stride, offset int) {
	var n uint8 = FALSE
	if normalized {
		n = TRUE
	}
	f.glVertexAttribPointer(uint32(dst), int32(size), uint32(ty), n, int32(stride), uintptr(offset))
}

func (f *Functions) Viewport(x, y, width, height int) {
	f.glViewport(int32(x), int32(y), int32(width), int32(height))
}

// clampLen bounds a driver-reported length to the buffer it wrote.
func clampLen(n int32, size int) int {
	switch {
	case n < 0:
		return 0
	case int(n) > size:
		return size
	}
	return int(n)
}
