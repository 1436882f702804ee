// SPDX-License-Identifier: Unlicense OR MIT

/*
Package gles is an error-checked OpenGL ES 2 command surface over EGL,
loaded at run time.

A context is built in two phases. NewBuilder opens the EGL library and
returns the visual id the native window must be created with; the
builder's Context method binds that window and loads the GL ES entry
points:

	b, visual, err := gles.NewBuilder(gles.DefaultConfig())
	...
	win := createWindow(visual)
	ctx, err := b.Context(win)
	...
	defer ctx.Release()
	ctx.Color(0.2, 0.3, 0.4)
	ctx.Clear()
	ctx.Update()

Every command checks glGetError after the driver call and panics with a
*gl.Error naming the entry point if the driver reported one. Argument
slices documented as NUL-terminated are checked before any driver call
and panic with ErrNotTerminated.

A Context belongs to the thread it was bound on. Callers should lock
that goroutine to its OS thread with runtime.LockOSThread.
*/
package gles

import (
	"image"
	"log/slog"
	"math"
	"strings"
	"unsafe"

	"github.com/go-gl/mathgl/mgl32"
	"golang.org/x/exp/constraints"
	"golang.org/x/image/draw"

	"eglgl.org/internal/egl"
	"eglgl.org/internal/gl"
	gunsafe "eglgl.org/internal/unsafe"
)

// Context is a current GL ES context bound to a window.
type Context struct {
	f     *gl.Functions
	disp  *egl.Display
	libs  []library
	log   *slog.Logger
	debug bool
}

// DriverInfo describes the GL ES implementation.
type DriverInfo struct {
	Vendor, Renderer, Version string
	// Major and Minor are parsed from Version, and zero if it is not in
	// the "OpenGL ES major.minor" form.
	Major, Minor int
}

// State is a snapshot of driver state read back with glGet.
type State struct {
	ClearColor [4]float32
	Viewport   [4]int
	Program    gl.Program
	Texture    gl.Texture
}

func (c *Context) begin(op string, args ...any) {
	if c.f == nil {
		panic(ErrReleased)
	}
	if c.debug {
		c.log.Debug(op, args...)
	}
}

// check is run after every driver call.
func (c *Context) check(op string) {
	if code := c.f.GetError(); code != gl.NO_ERROR {
		panic(&gl.Error{Op: op, Code: code})
	}
}

// Clear clears the color and depth buffers.
func (c *Context) Clear() {
	const mask = gl.COLOR_BUFFER_BIT | gl.DEPTH_BUFFER_BIT
	c.begin("glClear", "mask", mask)
	c.f.Clear(mask)
	c.check("glClear")
}

// Color sets an opaque clear color. The driver clamps the channels.
func (c *Context) Color(r, g, b float32) {
	c.begin("glClearColor", "r", r, "g", g, "b", b)
	c.f.ClearColor(r, g, b, 1)
	c.check("glClearColor")
}

// Update presents the back buffer.
func (c *Context) Update() error {
	c.begin("eglSwapBuffers")
	return c.disp.Swap()
}

func (c *Context) Enable(cap gl.Enum) {
	c.begin("glEnable", "cap", cap)
	c.f.Enable(cap)
	c.check("glEnable")
}

func (c *Context) Disable(cap gl.Enum) {
	c.begin("glDisable", "cap", cap)
	c.f.Disable(cap)
	c.check("glDisable")
}

// Blend sets straight alpha blending for color, and accumulates
// destination alpha.
func (c *Context) Blend() {
	c.begin("glBlendFuncSeparate")
	c.f.BlendFuncSeparate(gl.SRC_ALPHA, gl.ONE_MINUS_SRC_ALPHA, gl.SRC_ALPHA, gl.DST_ALPHA)
	c.check("glBlendFuncSeparate")
}

// Shader compiles and links a program from NUL-terminated vertex and
// fragment sources. A stage that fails to compile is reported as a
// *CompileError and a program that fails to link as a *LinkError. The
// shader objects are deleted once the program is linked.
func (c *Context) Shader(vertex, fragment []byte) (gl.Program, error) {
	mustTerminate("vertex shader source", vertex)
	mustTerminate("fragment shader source", fragment)
	vs, err := c.compile("vertex", gl.VERTEX_SHADER, vertex)
	if err != nil {
		return gl.Program{}, err
	}
	fs, err := c.compile("fragment", gl.FRAGMENT_SHADER, fragment)
	if err != nil {
		c.deleteShader(vs)
		return gl.Program{}, err
	}
	defer c.deleteShader(fs)
	defer c.deleteShader(vs)

	c.begin("glCreateProgram")
	p := c.f.CreateProgram()
	c.check("glCreateProgram")
	c.begin("glAttachShader", "program", p.V, "shader", vs.V)
	c.f.AttachShader(p, vs)
	c.check("glAttachShader")
	c.begin("glAttachShader", "program", p.V, "shader", fs.V)
	c.f.AttachShader(p, fs)
	c.check("glAttachShader")
	c.begin("glLinkProgram", "program", p.V)
	c.f.LinkProgram(p)
	c.check("glLinkProgram")

	c.begin("glGetProgramiv", "program", p.V, "pname", "GL_LINK_STATUS")
	status := c.f.GetProgrami(p, gl.LINK_STATUS)
	c.check("glGetProgramiv")
	if status == gl.FALSE {
		log := c.programLog(p)
		c.DeleteProgram(p)
		return gl.Program{}, &LinkError{Log: log}
	}
	return p, nil
}

func (c *Context) compile(stage string, typ gl.Enum, src []byte) (gl.Shader, error) {
	c.begin("glCreateShader", "type", stage)
	s := c.f.CreateShader(typ)
	c.check("glCreateShader")
	c.begin("glShaderSource", "shader", s.V, "bytes", len(src))
	c.f.ShaderSource(s, src)
	c.check("glShaderSource")
	c.begin("glCompileShader", "shader", s.V)
	c.f.CompileShader(s)
	c.check("glCompileShader")

	c.begin("glGetShaderiv", "shader", s.V, "pname", "GL_COMPILE_STATUS")
	status := c.f.GetShaderi(s, gl.COMPILE_STATUS)
	c.check("glGetShaderiv")
	if status != gl.FALSE {
		return s, nil
	}
	c.begin("glGetShaderiv", "shader", s.V, "pname", "GL_INFO_LOG_LENGTH")
	n := max(c.f.GetShaderi(s, gl.INFO_LOG_LENGTH), 0)
	c.check("glGetShaderiv")
	c.begin("glGetShaderInfoLog", "shader", s.V, "size", n)
	log := strings.TrimSpace(c.f.GetShaderInfoLog(s, make([]byte, n)))
	c.check("glGetShaderInfoLog")
	c.deleteShader(s)
	return gl.Shader{}, &CompileError{Stage: stage, Log: log}
}

func (c *Context) programLog(p gl.Program) string {
	c.begin("glGetProgramiv", "program", p.V, "pname", "GL_INFO_LOG_LENGTH")
	n := max(c.f.GetProgrami(p, gl.INFO_LOG_LENGTH), 0)
	c.check("glGetProgramiv")
	c.begin("glGetProgramInfoLog", "program", p.V, "size", n)
	log := strings.TrimSpace(c.f.GetProgramInfoLog(p, make([]byte, n)))
	c.check("glGetProgramInfoLog")
	return log
}

func (c *Context) deleteShader(s gl.Shader) {
	c.begin("glDeleteShader", "shader", s.V)
	c.f.DeleteShader(s)
	c.check("glDeleteShader")
}

// Uniform returns the location of the NUL-terminated uniform name in p.
// A name p does not define is an error matching ErrNoUniform.
func (c *Context) Uniform(p gl.Program, name []byte) (gl.Uniform, error) {
	mustTerminate("uniform name", name)
	c.begin("glGetUniformLocation", "program", p.V, "name", gl.GoString(name))
	u := c.f.GetUniformLocation(p, name)
	c.check("glGetUniformLocation")
	if !u.Valid() {
		return u, &LookupError{Err: ErrNoUniform, Name: gl.GoString(name)}
	}
	return u, nil
}

// Attribute returns the location of the NUL-terminated attribute name
// in p and enables its vertex array. A name p does not define is an
// error matching ErrNoAttribute.
func (c *Context) Attribute(p gl.Program, name []byte) (gl.Attrib, error) {
	mustTerminate("attribute name", name)
	c.begin("glGetAttribLocation", "program", p.V, "name", gl.GoString(name))
	loc := c.f.GetAttribLocation(p, name)
	c.check("glGetAttribLocation")
	if loc < 0 {
		return 0, &LookupError{Err: ErrNoAttribute, Name: gl.GoString(name)}
	}
	a := gl.Attrib(loc)
	c.begin("glEnableVertexAttribArray", "index", loc)
	c.f.EnableVertexAttribArray(a)
	c.check("glEnableVertexAttribArray")
	return a, nil
}

// NewBuffers allocates n buffer names.
func (c *Context) NewBuffers(n int) []gl.Buffer {
	if n < 0 {
		panic("gles: negative buffer count")
	}
	bufs := make([]gl.Buffer, n)
	c.begin("glGenBuffers", "n", n)
	c.f.GenBuffers(bufs)
	c.check("glGenBuffers")
	return bufs
}

func bufferTarget(index bool) gl.Enum {
	if index {
		return gl.ELEMENT_ARRAY_BUFFER
	}
	return gl.ARRAY_BUFFER
}

// BindBuffer binds b to the element array target if index is set, and
// to the array target otherwise.
func (c *Context) BindBuffer(index bool, b gl.Buffer) {
	c.begin("glBindBuffer", "index", index, "buffer", b.V)
	c.f.BindBuffer(bufferTarget(index), b)
	c.check("glBindBuffer")
}

// SetBufferData replaces the contents of the buffer bound to the index
// or array target with data.
func (c *Context) SetBufferData(index bool, data []byte) {
	c.begin("glBufferData", "index", index, "bytes", len(data))
	c.f.BufferData(bufferTarget(index), data, gl.DYNAMIC_DRAW)
	c.check("glBufferData")
}

// Number is an element type SetBuffer can upload.
type Number interface {
	constraints.Integer | constraints.Float
}

// SetBuffer is SetBufferData for a slice of numbers, uploaded in
// native byte order.
func SetBuffer[T Number](c *Context, index bool, data []T) {
	c.SetBufferData(index, gunsafe.BytesView(data))
}

// UseProgram makes p current. Uniform uploads apply to the current
// program; the context does not check which one that is.
func (c *Context) UseProgram(p gl.Program) {
	c.begin("glUseProgram", "program", p.V)
	c.f.UseProgram(p)
	c.check("glUseProgram")
}

// SetMat4 uploads a column-major matrix to u of the current program.
func (c *Context) SetMat4(u gl.Uniform, m [16]float32) {
	c.begin("glUniformMatrix4fv", "location", u.V)
	c.f.UniformMatrix4fv(u, &m)
	c.check("glUniformMatrix4fv")
}

// SetMatrix is SetMat4 for an mgl32 matrix.
func (c *Context) SetMatrix(u gl.Uniform, m mgl32.Mat4) {
	c.SetMat4(u, [16]float32(m))
}

// DrawElements draws count indices of the bound element array as
// triangles. Indices are 32-bit.
func (c *Context) DrawElements(count int) {
	c.begin("glDrawElements", "count", count)
	c.f.DrawElements(gl.TRIANGLES, count, gl.UNSIGNED_INT, 0)
	c.check("glDrawElements")
}

// NewTexture allocates a texture, binds it and sets nearest filtering.
func (c *Context) NewTexture() gl.Texture {
	c.begin("glGenTextures", "n", 1)
	t := c.f.GenTexture()
	c.check("glGenTextures")
	c.UseTexture(t)
	c.begin("glTexParameteri", "pname", "GL_TEXTURE_MIN_FILTER")
	c.f.TexParameteri(gl.TEXTURE_2D, gl.TEXTURE_MIN_FILTER, gl.NEAREST)
	c.check("glTexParameteri")
	c.begin("glTexParameteri", "pname", "GL_TEXTURE_MAG_FILTER")
	c.f.TexParameteri(gl.TEXTURE_2D, gl.TEXTURE_MAG_FILTER, gl.NEAREST)
	c.check("glTexParameteri")
	return t
}

// SetTexture uploads a width×height RGBA8 image, one pixel per element
// in memory order, to level 0 of the bound texture. Each dimension
// must fit in a GLsizei.
func (c *Context) SetTexture(width, height int, pixels []uint32) {
	if width < 0 || height < 0 || width > math.MaxInt32 || height > math.MaxInt32 {
		panic("gles: texture size out of range")
	}
	if height > 0 && width > len(pixels)/height {
		panic("gles: texture pixels do not cover the image")
	}
	c.texImage(width, height, gunsafe.Pointer(pixels))
}

// SetImage uploads img to level 0 of the bound texture, converting it
// to non-premultiplied RGBA8 first if needed.
func (c *Context) SetImage(img image.Image) {
	b := img.Bounds()
	rgba, ok := img.(*image.NRGBA)
	if !ok || rgba.Rect.Min != (image.Point{}) || rgba.Stride != 4*b.Dx() {
		rgba = image.NewNRGBA(image.Rectangle{Max: b.Size()})
		draw.Copy(rgba, image.Point{}, img, b, draw.Src, nil)
	}
	c.texImage(b.Dx(), b.Dy(), gunsafe.Pointer(rgba.Pix))
}

func (c *Context) texImage(width, height int, pixels unsafe.Pointer) {
	c.begin("glTexImage2D", "width", width, "height", height)
	c.f.TexImage2D(gl.TEXTURE_2D, 0, gl.RGBA, width, height, gl.RGBA, gl.UNSIGNED_BYTE, pixels)
	c.check("glTexImage2D")
}

// UseTexture binds t to the 2D target.
func (c *Context) UseTexture(t gl.Texture) {
	c.begin("glBindTexture", "texture", t.V)
	c.f.BindTexture(gl.TEXTURE_2D, t)
	c.check("glBindTexture")
}

// VertexAttrib sources a from the bound array buffer as tightly packed
// vec4s of floats.
func (c *Context) VertexAttrib(a gl.Attrib) {
	c.begin("glVertexAttribPointer", "index", a)
	c.f.VertexAttribPointer(a, 4, gl.FLOAT, false, 0, 0)
	c.check("glVertexAttribPointer")
}

// Viewport sets the viewport to (0, 0, width, height).
func (c *Context) Viewport(width, height int) {
	c.begin("glViewport", "width", width, "height", height)
	c.f.Viewport(0, 0, width, height)
	c.check("glViewport")
}

// DeleteBuffers deletes bufs.
func (c *Context) DeleteBuffers(bufs ...gl.Buffer) {
	c.begin("glDeleteBuffers", "n", len(bufs))
	c.f.DeleteBuffers(bufs)
	c.check("glDeleteBuffers")
}

func (c *Context) DeleteTexture(t gl.Texture) {
	c.begin("glDeleteTextures", "texture", t.V)
	c.f.DeleteTexture(t)
	c.check("glDeleteTextures")
}

func (c *Context) DeleteProgram(p gl.Program) {
	c.begin("glDeleteProgram", "program", p.V)
	c.f.DeleteProgram(p)
	c.check("glDeleteProgram")
}

// Info queries the vendor, renderer and version strings.
func (c *Context) Info() DriverInfo {
	var info DriverInfo
	for _, s := range []struct {
		name gl.Enum
		dst  *string
	}{
		{gl.VENDOR, &info.Vendor},
		{gl.RENDERER, &info.Renderer},
		{gl.VERSION, &info.Version},
	} {
		c.begin("glGetString", "name", s.name)
		*s.dst = c.f.GetString(s.name)
		c.check("glGetString")
	}
	if ver, err := gl.ParseGLVersion(info.Version); err == nil {
		info.Major, info.Minor = ver[0], ver[1]
	}
	return info
}

// State reads back the clear color, viewport and current bindings.
func (c *Context) State() State {
	var s State
	c.begin("glGetFloatv", "pname", "GL_COLOR_CLEAR_VALUE")
	s.ClearColor = c.f.GetFloat4(gl.COLOR_CLEAR_VALUE)
	c.check("glGetFloatv")
	c.begin("glGetIntegerv", "pname", "GL_VIEWPORT")
	s.Viewport = c.f.GetInteger4(gl.VIEWPORT)
	c.check("glGetIntegerv")
	c.begin("glGetIntegerv", "pname", "GL_CURRENT_PROGRAM")
	s.Program = gl.Program{V: uint32(c.f.GetInteger(gl.CURRENT_PROGRAM))}
	c.check("glGetIntegerv")
	c.begin("glGetIntegerv", "pname", "GL_TEXTURE_BINDING_2D")
	s.Texture = gl.Texture{V: uint32(c.f.GetInteger(gl.TEXTURE_BINDING_2D))}
	c.check("glGetIntegerv")
	return s
}

// Release destroys the context and surface, terminates the display and
// closes the libraries. Commands issued afterwards panic with
// ErrReleased. Release is idempotent.
func (c *Context) Release() {
	if c.f == nil {
		return
	}
	c.f = nil
	c.disp.Release()
	for _, l := range c.libs {
		closeLibrary(c.log, l)
	}
	c.libs = nil
	c.log.Info("GL ES context released")
}
