// SPDX-License-Identifier: Unlicense OR MIT

package gles

import (
	"bytes"
	"encoding/binary"
	"errors"
	"fmt"
	"image"
	"image/color"
	"log/slog"
	"math"
	"slices"
	"testing"

	"github.com/go-gl/mathgl/mgl32"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"eglgl.org/internal/dl"
	"eglgl.org/internal/egl"
	"eglgl.org/internal/gl"
	"eglgl.org/internal/gl/gltest"
)

const (
	eglName  = "libEGL-gltest.so"
	glesName = "libGLESv2-gltest.so"
	window   = NativeWindow(0x1234)

	vertexSrc = `
attribute vec4 pos;
uniform mat4 proj;
void main() {
	gl_Position = proj * pos;
}
` + "\x00"
	fragmentSrc = `
precision mediump float;
uniform vec4 tint;
void main() {
	gl_FragColor = tint;
}
` + "\x00"
)

type fakeLibrary struct {
	dl.Loader
	name   string
	closed *[]string
}

func (l *fakeLibrary) Name() string { return l.name }

func (l *fakeLibrary) Close() error {
	*l.closed = append(*l.closed, l.name)
	return nil
}

// harness opens gltest in place of the driver libraries.
type harness struct {
	d      *gltest.Driver
	omitGL []string
	noEGL  bool
	closed []string
}

func newHarness(t *testing.T) *harness {
	t.Setenv(EnvEGLLibrary, "")
	t.Setenv(EnvGLESLibrary, "")
	return &harness{d: gltest.New()}
}

func (h *harness) open(names ...string) (library, error) {
	switch {
	case slices.Contains(names, eglName) && !h.noEGL:
		return &fakeLibrary{Loader: h.d.EGLLoader(), name: eglName, closed: &h.closed}, nil
	case slices.Contains(names, glesName):
		return &fakeLibrary{Loader: h.d.GLLoader(h.omitGL...), name: glesName, closed: &h.closed}, nil
	}
	return nil, fmt.Errorf("dl: no library among %q: %w", names, dl.ErrNotFound)
}

func testConfig() Config {
	return Config{
		EGLLibraries:  []string{eglName},
		GLESLibraries: []string{glesName},
		SwapInterval:  1,
	}
}

func (h *harness) builder(t *testing.T, opts ...Option) *Builder {
	b, _, err := newBuilder(testConfig(), h.open, opts...)
	require.NoError(t, err)
	return b
}

func (h *harness) context(t *testing.T) *Context {
	c, err := h.builder(t).Context(window)
	require.NoError(t, err)
	t.Cleanup(c.Release)
	return c
}

// recovered runs f and returns the value it panicked with.
func recovered(f func()) (v any) {
	defer func() { v = recover() }()
	f()
	return nil
}

func driverError(t *testing.T, f func()) *gl.Error {
	t.Helper()
	v := recovered(f)
	err, ok := v.(*gl.Error)
	require.True(t, ok, "panic value %v is not a *gl.Error", v)
	return err
}

func TestEndToEnd(t *testing.T) {
	h := newHarness(t)
	h.d.VisualID = 0x2b
	b, visual, err := newBuilder(testConfig(), h.open)
	require.NoError(t, err)
	assert.Equal(t, 0x2b, visual)

	c, err := b.Context(window)
	require.NoError(t, err)
	defer c.Release()
	assert.Equal(t, uintptr(window), h.d.Window())
	assert.Equal(t, int32(1), h.d.SwapInterval())

	c.Color(0.2, 0.3, 0.4)
	c.Clear()
	require.NoError(t, c.Update())
	require.Len(t, h.d.Frames(), 1)
	assert.Equal(t, [4]float32{0.2, 0.3, 0.4, 1}, h.d.Frames()[0])
	assert.Equal(t, uint32(gl.NO_ERROR), h.d.PendingError())
}

func TestBuilderUsed(t *testing.T) {
	h := newHarness(t)
	b := h.builder(t)
	c, err := b.Context(window)
	require.NoError(t, err)
	defer c.Release()
	assert.PanicsWithValue(t, ErrBuilderUsed, func() { _, _ = b.Context(window) })
	assert.PanicsWithValue(t, ErrBuilderUsed, b.Release)
}

func TestBuilderRelease(t *testing.T) {
	h := newHarness(t)
	b := h.builder(t)
	b.Release()
	assert.True(t, h.d.Terminated())
	assert.Equal(t, []string{eglName}, h.closed)
}

func TestNewBuilderErrors(t *testing.T) {
	h := newHarness(t)
	h.noEGL = true
	_, _, err := newBuilder(testConfig(), h.open)
	assert.ErrorIs(t, err, dl.ErrNotFound)
	assert.Contains(t, err.Error(), eglName)

	h = newHarness(t)
	h.d.NoConfigs = true
	_, _, err = newBuilder(testConfig(), h.open)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "0 configs")
	assert.Equal(t, []string{eglName}, h.closed)

	cfg := testConfig()
	cfg.SwapInterval = -5
	_, _, err = newBuilder(cfg, h.open)
	assert.Error(t, err)
}

func TestContextMissingSymbol(t *testing.T) {
	h := newHarness(t)
	h.omitGL = []string{"glDrawElements", "glBufferData"}
	_, err := h.builder(t).Context(window)
	var merr *dl.MissingError
	require.True(t, errors.As(err, &merr))
	assert.Equal(t, []string{"glBufferData", "glDrawElements"}, merr.Names)
	assert.Equal(t, []string{glesName, eglName}, h.closed)
	assert.True(t, h.d.Terminated())
	assert.False(t, h.d.Live())
}

func TestContextBindFailure(t *testing.T) {
	h := newHarness(t)
	_, err := h.builder(t).Context(0)
	require.Error(t, err)
	assert.Equal(t, []string{eglName}, h.closed)
	assert.True(t, h.d.Terminated())
}

func TestRelease(t *testing.T) {
	h := newHarness(t)
	c, err := h.builder(t).Context(window)
	require.NoError(t, err)
	c.Release()
	assert.Equal(t, []string{glesName, eglName}, h.closed)
	assert.False(t, h.d.Current())
	assert.True(t, h.d.Terminated())
	c.Release()
	assert.Len(t, h.closed, 2)
	assert.PanicsWithValue(t, ErrReleased, c.Clear)
	assert.PanicsWithValue(t, ErrReleased, func() { _ = c.Update() })
}

func TestDriverErrorPanics(t *testing.T) {
	h := newHarness(t)
	c := h.context(t)

	err := driverError(t, func() { c.Enable(0x1234) })
	assert.Equal(t, "glEnable", err.Op)
	assert.ErrorIs(t, err, gl.InvalidEnum)
	assert.Equal(t, "gl: glEnable: invalid enum (0x500)", err.Error())

	h.d.Fail("glClear", gl.OUT_OF_MEMORY)
	err = driverError(t, c.Clear)
	assert.Equal(t, "glClear", err.Op)
	assert.Equal(t, gl.OutOfMemory, err.Kind())
	assert.Equal(t, "gl: glClear: out of memory (0x505)", err.Error())

	// The error register is drained by the check, so the next command
	// is not blamed.
	c.Clear()
}

func TestDriverErrorKinds(t *testing.T) {
	h := newHarness(t)
	c := h.context(t)
	tests := []struct {
		code gl.Enum
		kind gl.ErrorKind
	}{
		{gl.INVALID_ENUM, gl.InvalidEnum},
		{gl.INVALID_VALUE, gl.InvalidValue},
		{gl.INVALID_OPERATION, gl.InvalidOperation},
		{gl.STACK_OVERFLOW, gl.StackOverflow},
		{gl.STACK_UNDERFLOW, gl.StackUnderflow},
		{gl.OUT_OF_MEMORY, gl.OutOfMemory},
		{0x0777, gl.Unknown},
	}
	for _, test := range tests {
		h.d.Fail("glViewport", uint32(test.code))
		err := driverError(t, func() { c.Viewport(1, 1) })
		assert.Equal(t, test.kind, err.Kind(), "code 0x%x", uint32(test.code))
	}
}

func TestShaderNotTerminated(t *testing.T) {
	h := newHarness(t)
	c := h.context(t)
	h.d.ResetCalls()

	v := recovered(func() { _, _ = c.Shader([]byte("void main() {}"), []byte(fragmentSrc)) })
	err, ok := v.(error)
	require.True(t, ok)
	assert.ErrorIs(t, err, ErrNotTerminated)
	assert.Contains(t, err.Error(), "vertex")

	v = recovered(func() { _, _ = c.Shader([]byte(vertexSrc), nil) })
	err, ok = v.(error)
	require.True(t, ok)
	assert.ErrorIs(t, err, ErrNotTerminated)
	assert.Empty(t, h.d.Calls())
}

func TestShader(t *testing.T) {
	h := newHarness(t)
	c := h.context(t)
	p, err := c.Shader([]byte(vertexSrc), []byte(fragmentSrc))
	require.NoError(t, err)
	assert.True(t, p.Valid())
	assert.True(t, h.d.ProgramExists(p.V))
	assert.NotContains(t, h.d.Calls(), "glGetShaderInfoLog")
	c.UseProgram(p)
	assert.Equal(t, p, c.State().Program)
}

func TestShaderCompileError(t *testing.T) {
	h := newHarness(t)
	c := h.context(t)

	_, err := c.Shader([]byte("void main() {\x00"), []byte(fragmentSrc))
	var cerr *CompileError
	require.True(t, errors.As(err, &cerr))
	assert.Equal(t, "vertex", cerr.Stage)
	assert.NotEmpty(t, cerr.Log)
	assert.Contains(t, cerr.Log, "syntax error")

	_, err = c.Shader([]byte(vertexSrc), []byte("void main() { gl_FragColor = vec4(1.0;\n}\x00"))
	require.True(t, errors.As(err, &cerr))
	assert.Equal(t, "fragment", cerr.Stage)
	assert.Contains(t, err.Error(), "fragment shader compilation failed")
}

func TestShaderNegativeLogLength(t *testing.T) {
	h := newHarness(t)
	c := h.context(t)
	h.d.NegativeLogLength = true

	_, err := c.Shader([]byte("void main() {\x00"), []byte(fragmentSrc))
	var cerr *CompileError
	require.True(t, errors.As(err, &cerr))
	assert.Empty(t, cerr.Log)

	_, err = c.Shader([]byte(vertexSrc), []byte("uniform mat3 proj;\nvoid main() {}\x00"))
	var lerr *LinkError
	require.True(t, errors.As(err, &lerr))
	assert.Empty(t, lerr.Log)
}

func TestShaderLinkError(t *testing.T) {
	h := newHarness(t)
	c := h.context(t)
	fs := "uniform mat3 proj;\nvoid main() {}\x00"
	_, err := c.Shader([]byte(vertexSrc), []byte(fs))
	var lerr *LinkError
	require.True(t, errors.As(err, &lerr))
	assert.Contains(t, lerr.Log, "proj")
	assert.Contains(t, h.d.Calls(), "glDeleteProgram")
}

func TestUniform(t *testing.T) {
	h := newHarness(t)
	c := h.context(t)
	p, err := c.Shader([]byte(vertexSrc), []byte(fragmentSrc))
	require.NoError(t, err)

	u, err := c.Uniform(p, []byte("proj\x00"))
	require.NoError(t, err)
	assert.GreaterOrEqual(t, u.V, int32(0))

	_, err = c.Uniform(p, []byte("nonexistent_name\x00"))
	assert.ErrorIs(t, err, ErrNoUniform)
	assert.Contains(t, err.Error(), `"nonexistent_name"`)

	assert.Panics(t, func() { _, _ = c.Uniform(p, []byte("proj")) })
}

func TestAttribute(t *testing.T) {
	h := newHarness(t)
	c := h.context(t)
	p, err := c.Shader([]byte(vertexSrc), []byte(fragmentSrc))
	require.NoError(t, err)

	a, err := c.Attribute(p, []byte("pos\x00"))
	require.NoError(t, err)
	assert.True(t, h.d.AttribEnabled(int(a)))

	_, err = c.Attribute(p, []byte("tint\x00"))
	assert.ErrorIs(t, err, ErrNoAttribute)
	var lerr *LookupError
	require.True(t, errors.As(err, &lerr))
	assert.Equal(t, "tint", lerr.Name)

	b := c.NewBuffers(1)[0]
	c.BindBuffer(false, b)
	c.VertexAttrib(a)
	layout, ok := h.d.AttribLayout(uint32(a))
	require.True(t, ok)
	assert.Equal(t, gltest.AttribPointer{Size: 4, Type: gl.FLOAT, Buffer: b.V}, layout)
}

func TestNewBuffers(t *testing.T) {
	h := newHarness(t)
	c := h.context(t)
	for _, n := range []int{1, 2, 7} {
		bufs := c.NewBuffers(n)
		require.Len(t, bufs, n)
		seen := make(map[gl.Buffer]bool)
		for _, b := range bufs {
			assert.True(t, b.Valid())
			assert.False(t, seen[b], "duplicate buffer %d", b.V)
			seen[b] = true
		}
	}
	assert.Empty(t, c.NewBuffers(0))
}

func TestBuffersIndependent(t *testing.T) {
	h := newHarness(t)
	c := h.context(t)
	bufs := c.NewBuffers(2)
	c.BindBuffer(false, bufs[0])
	c.SetBufferData(false, []byte{1, 2, 3})
	c.BindBuffer(false, bufs[1])
	c.SetBufferData(false, []byte{4, 5})
	c.BindBuffer(false, bufs[0])
	c.SetBufferData(false, []byte{6})

	assert.Equal(t, []byte{6}, h.d.Buffer(bufs[0].V))
	assert.Equal(t, []byte{4, 5}, h.d.Buffer(bufs[1].V))

	c.BindBuffer(true, bufs[1])
	assert.Equal(t, bufs[1].V, h.d.BoundBuffer(gl.ELEMENT_ARRAY_BUFFER))
	assert.Equal(t, bufs[0].V, h.d.BoundBuffer(gl.ARRAY_BUFFER))
}

func TestSetBuffer(t *testing.T) {
	h := newHarness(t)
	c := h.context(t)
	b := c.NewBuffers(1)[0]

	c.BindBuffer(false, b)
	SetBuffer(c, false, []float32{1, -2.5})
	want := binary.NativeEndian.AppendUint32(nil, math.Float32bits(1))
	want = binary.NativeEndian.AppendUint32(want, math.Float32bits(-2.5))
	assert.Equal(t, want, h.d.Buffer(b.V))

	c.BindBuffer(true, b)
	SetBuffer(c, true, []uint32{0, 1, 2})
	assert.Len(t, h.d.Buffer(b.V), 12)

	SetBuffer(c, true, []uint16{})
	assert.Empty(t, h.d.Buffer(b.V))

	assert.Panics(t, func() {
		c.BindBuffer(false, gl.Buffer{})
		SetBuffer(c, false, []int8{1})
	})
}

func TestDeleteBuffers(t *testing.T) {
	h := newHarness(t)
	c := h.context(t)
	bufs := c.NewBuffers(2)
	c.BindBuffer(false, bufs[0])
	c.DeleteBuffers(bufs...)
	assert.Zero(t, h.d.BoundBuffer(gl.ARRAY_BUFFER))
	c.DeleteBuffers()
}

func TestDraw(t *testing.T) {
	h := newHarness(t)
	c := h.context(t)
	p, err := c.Shader([]byte(vertexSrc), []byte(fragmentSrc))
	require.NoError(t, err)

	e := driverError(t, func() { c.DrawElements(3) })
	assert.Equal(t, gl.InvalidOperation, e.Kind())

	c.UseProgram(p)
	u, err := c.Uniform(p, []byte("proj\x00"))
	require.NoError(t, err)
	m := mgl32.Translate3D(1, 2, 3)
	c.SetMatrix(u, m)
	assert.Equal(t, [16]float32(m), h.d.UniformMat4(u.V))

	c.DrawElements(6)
	draws := h.d.Draws()
	require.Len(t, draws, 1)
	assert.Equal(t, gltest.Draw{Mode: gl.TRIANGLES, Type: gl.UNSIGNED_INT, Count: 6, Program: p.V}, draws[0])

	c.DeleteProgram(p)
	assert.False(t, h.d.ProgramExists(p.V))
	assert.False(t, c.State().Program.Valid())
}

func TestTexture(t *testing.T) {
	h := newHarness(t)
	c := h.context(t)
	tex := c.NewTexture()
	assert.True(t, tex.Valid())
	assert.Equal(t, tex, c.State().Texture)
	st, ok := h.d.Texture(tex.V)
	require.True(t, ok)
	assert.Equal(t, int32(gl.NEAREST), st.MinFilter)
	assert.Equal(t, int32(gl.NEAREST), st.MagFilter)

	px := []uint32{0x11223344, 0x55667788}
	c.SetTexture(2, 1, px)
	st, _ = h.d.Texture(tex.V)
	assert.Equal(t, [2]int32{2, 1}, [2]int32{st.Width, st.Height})
	want := binary.NativeEndian.AppendUint32(nil, px[0])
	want = binary.NativeEndian.AppendUint32(want, px[1])
	assert.Equal(t, want, st.Pixels)

	assert.Panics(t, func() { c.SetTexture(2, 2, px) })
	assert.Panics(t, func() { c.SetTexture(-1, 1, px) })
	side := math.MaxInt32
	assert.Panics(t, func() { c.SetTexture(side, side, px) })
	assert.Panics(t, func() { c.SetTexture(side+1, 0, px) })

	other := c.NewTexture()
	c.UseTexture(tex)
	assert.Equal(t, tex.V, h.d.BoundTexture())
	c.DeleteTexture(other)
	_, ok = h.d.Texture(other.V)
	assert.False(t, ok)
}

func TestSetImage(t *testing.T) {
	h := newHarness(t)
	c := h.context(t)
	c.NewTexture()

	img := image.NewRGBA(image.Rect(10, 10, 12, 11))
	img.Set(10, 10, color.RGBA{R: 0xff, A: 0xff})
	img.Set(11, 10, color.RGBA{G: 0x80, A: 0x80})
	c.SetImage(img)
	st, ok := h.d.Texture(h.d.BoundTexture())
	require.True(t, ok)
	assert.Equal(t, [2]int32{2, 1}, [2]int32{st.Width, st.Height})
	assert.Equal(t, []byte{0xff, 0, 0, 0xff, 0, 0xff, 0, 0x80}, st.Pixels)

	n := image.NewNRGBA(image.Rect(0, 0, 1, 1))
	n.Pix = []byte{1, 2, 3, 4}
	c.SetImage(n)
	st, _ = h.d.Texture(h.d.BoundTexture())
	assert.Equal(t, []byte{1, 2, 3, 4}, st.Pixels)
}

func TestViewportIdempotent(t *testing.T) {
	h := newHarness(t)
	c := h.context(t)
	c.Viewport(640, 480)
	once := c.State()
	c.Viewport(640, 480)
	assert.Equal(t, once, c.State())
	assert.Equal(t, [4]int{0, 0, 640, 480}, once.Viewport)

	assert.Equal(t, gl.InvalidValue, driverError(t, func() { c.Viewport(-1, 1) }).Kind())
}

func TestColorAndState(t *testing.T) {
	h := newHarness(t)
	c := h.context(t)
	c.Color(0.5, 2, -1)
	assert.Equal(t, [4]float32{0.5, 1, 0, 1}, c.State().ClearColor)
}

func TestEnableBlend(t *testing.T) {
	h := newHarness(t)
	c := h.context(t)
	c.Enable(gl.BLEND)
	c.Blend()
	assert.True(t, h.d.Enabled(gl.BLEND))
	assert.Equal(t, [4]uint32{gl.SRC_ALPHA, gl.ONE_MINUS_SRC_ALPHA, gl.SRC_ALPHA, gl.DST_ALPHA}, h.d.BlendState())
	c.Disable(gl.BLEND)
	assert.False(t, h.d.Enabled(gl.BLEND))
}

func TestInfo(t *testing.T) {
	h := newHarness(t)
	c := h.context(t)
	info := c.Info()
	assert.Equal(t, DriverInfo{
		Vendor:   gltest.Vendor,
		Renderer: gltest.Renderer,
		Version:  gltest.Version,
		Major:    2,
	}, info)
}

func TestSwapFailure(t *testing.T) {
	h := newHarness(t)
	c := h.context(t)
	h.d.FailEGL("eglSwapBuffers", 0x300e)
	err := c.Update()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "EGL_CONTEXT_LOST")
}

func TestDebugLogging(t *testing.T) {
	h := newHarness(t)
	var buf bytes.Buffer
	log := slog.New(slog.NewTextHandler(&buf, &slog.HandlerOptions{Level: slog.LevelDebug}))
	cfg := testConfig()
	cfg.Debug = true
	b, _, err := newBuilder(cfg, h.open, WithLogger(log))
	require.NoError(t, err)
	c, err := b.Context(window)
	require.NoError(t, err)
	c.Viewport(3, 4)
	c.Release()

	out := buf.String()
	assert.Contains(t, out, "EGL display initialized")
	assert.Contains(t, out, "msg=glViewport width=3 height=4")
	assert.Contains(t, out, "GL ES context released")
}

func TestSwapIntervalWarning(t *testing.T) {
	h := newHarness(t)
	var buf bytes.Buffer
	log := slog.New(slog.NewTextHandler(&buf, nil))
	b := h.builder(t, WithLogger(log))
	h.d.FailEGL("eglSwapInterval", egl.EGL_BAD_PARAMETER)
	c, err := b.Context(window)
	require.NoError(t, err)
	defer c.Release()

	out := buf.String()
	assert.Contains(t, out, "level=WARN")
	assert.Contains(t, out, `msg="swap interval not applied" interval=1`)
	assert.Contains(t, out, "EGL_BAD_PARAMETER")
}

func TestNoDebugLogging(t *testing.T) {
	h := newHarness(t)
	var buf bytes.Buffer
	log := slog.New(slog.NewTextHandler(&buf, &slog.HandlerOptions{Level: slog.LevelDebug}))
	b, _, err := newBuilder(testConfig(), h.open, WithLogger(log))
	require.NoError(t, err)
	c, err := b.Context(window)
	require.NoError(t, err)
	defer c.Release()
	c.Viewport(3, 4)
	assert.NotContains(t, buf.String(), "glViewport")
}
