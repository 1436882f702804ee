// SPDX-License-Identifier: Unlicense OR MIT

// Package gltest is a software stand-in for the EGL and OpenGL ES
// libraries. Its entry points are installed by name through the same
// dl.Loader path as the real drivers, and it emulates the parts of the
// driver contract the wrappers depend on: a latched error register,
// per-name buffer and texture storage, shader compile and link status
// with info logs, and a back buffer that Swap presents.
package gltest

import (
	"fmt"
	"maps"
	"slices"
	"sort"
	"strings"
	"unsafe"

	"eglgl.org/internal/dl"
	"eglgl.org/internal/gl"
)

// Draw is one recorded glDrawElements call.
type Draw struct {
	Mode, Type uint32
	Count      int32
	Offset     uintptr
	Program    uint32
}

// TextureState is the driver-side state of a texture name.
type TextureState struct {
	MinFilter, MagFilter int32
	Width, Height        int32
	Format               uint32
	Pixels               []byte
}

// AttribPointer is the layout set by glVertexAttribPointer.
type AttribPointer struct {
	Size       int32
	Type       uint32
	Normalized bool
	Stride     int32
	Offset     uintptr
	Buffer     uint32
}

type shader struct {
	typ      uint32
	src      string
	compiled bool
	log      string
	uniforms map[string]string
	attribs  []string
	deleted  bool
}

type program struct {
	shaders  []uint32
	linked   bool
	log      string
	uniforms map[string]int32
	attribs  map[string]int32
}

// MaxVertexAttribs is the number of attribute slots the driver offers.
const MaxVertexAttribs = 16

// Driver is one emulated display plus context.
type Driver struct {
	// MaxClientVersion is the highest OpenGL ES version eglCreateContext
	// accepts. Zero means 3.
	MaxClientVersion int
	// VisualID is reported for EGL_NATIVE_VISUAL_ID.
	VisualID int32
	// NoConfigs makes eglChooseConfig match nothing.
	NoConfigs bool
	// NegativeLogLength makes glGetShaderiv and glGetProgramiv report
	// -1 for GL_INFO_LOG_LENGTH.
	NegativeLogLength bool

	err      uint32
	nextName uint32
	calls    []string
	fail     map[string]uint32

	buffers  map[uint32][]byte
	bound    map[uint32]uint32
	textures map[uint32]*TextureState
	boundTex uint32
	shaders  map[uint32]*shader
	programs map[uint32]*program
	current  uint32
	enabled  map[uint32]bool
	attribOn [MaxVertexAttribs]bool
	pointers map[uint32]AttribPointer
	uniforms map[int32][16]float32

	clearColor [4]float32
	viewport   [4]int32
	blend      [4]uint32
	back       [4]float32
	draws      []Draw

	egl eglState
}

// New returns a driver with nothing current.
func New() *Driver {
	d := &Driver{
		VisualID: 0x21,
		fail:     make(map[string]uint32),
		buffers:  make(map[uint32][]byte),
		bound:    make(map[uint32]uint32),
		textures: make(map[uint32]*TextureState),
		shaders:  make(map[uint32]*shader),
		programs: make(map[uint32]*program),
		enabled:  map[uint32]bool{gl.DITHER: true},
		pointers: make(map[uint32]AttribPointer),
		uniforms: make(map[int32][16]float32),
	}
	d.egl.fail = make(map[string]int32)
	d.egl.err = eglSuccess
	return d
}

// GLLoader returns a loader for the GL ES entry points, without the
// omitted names.
func (d *Driver) GLLoader(omit ...string) dl.Loader {
	s := dl.Static{
		"glAttachShader":            d.glAttachShader,
		"glBindBuffer":              d.glBindBuffer,
		"glBindTexture":             d.glBindTexture,
		"glBlendFuncSeparate":       d.glBlendFuncSeparate,
		"glBufferData":              d.glBufferData,
		"glClear":                   d.glClear,
		"glClearColor":              d.glClearColor,
		"glCompileShader":           d.glCompileShader,
		"glCreateProgram":           d.glCreateProgram,
		"glCreateShader":            d.glCreateShader,
		"glDeleteBuffers":           d.glDeleteBuffers,
		"glDeleteProgram":           d.glDeleteProgram,
		"glDeleteShader":            d.glDeleteShader,
		"glDeleteTextures":          d.glDeleteTextures,
		"glDisable":                 d.glDisable,
		"glDrawElements":            d.glDrawElements,
		"glEnable":                  d.glEnable,
		"glEnableVertexAttribArray": d.glEnableVertexAttribArray,
		"glGenBuffers":              d.glGenBuffers,
		"glGenTextures":             d.glGenTextures,
		"glGetAttribLocation":       d.glGetAttribLocation,
		"glGetError":                d.glGetError,
		"glGetFloatv":               d.glGetFloatv,
		"glGetIntegerv":             d.glGetIntegerv,
		"glGetProgramInfoLog":       d.glGetProgramInfoLog,
		"glGetProgramiv":            d.glGetProgramiv,
		"glGetShaderInfoLog":        d.glGetShaderInfoLog,
		"glGetShaderiv":             d.glGetShaderiv,
		"glGetString":               d.glGetString,
		"glGetUniformLocation":      d.glGetUniformLocation,
		"glLinkProgram":             d.glLinkProgram,
		"glShaderSource":            d.glShaderSource,
		"glTexImage2D":              d.glTexImage2D,
		"glTexParameteri":           d.glTexParameteri,
		"glUniformMatrix4fv":        d.glUniformMatrix4fv,
		"glUseProgram":              d.glUseProgram,
		"glVertexAttribPointer":     d.glVertexAttribPointer,
		"glViewport":                d.glViewport,
	}
	for _, n := range omit {
		delete(s, n)
	}
	return s
}

// Fail latches code on the next call of the named GL entry point, after
// the call has run.
func (d *Driver) Fail(name string, code uint32) {
	d.fail[name] = code
}

// Calls returns the GL and EGL entry points called so far, in order.
func (d *Driver) Calls() []string {
	return slices.Clone(d.calls)
}

// ResetCalls forgets the recorded calls.
func (d *Driver) ResetCalls() {
	d.calls = d.calls[:0]
}

// Buffer returns a copy of the contents of buffer name.
func (d *Driver) Buffer(name uint32) []byte {
	return slices.Clone(d.buffers[name])
}

// Texture returns the state of texture name.
func (d *Driver) Texture(name uint32) (TextureState, bool) {
	t, ok := d.textures[name]
	if !ok {
		return TextureState{}, false
	}
	return *t, true
}

// BoundTexture returns the name bound to TEXTURE_2D.
func (d *Driver) BoundTexture() uint32 { return d.boundTex }

// BoundBuffer returns the name bound to target.
func (d *Driver) BoundBuffer(target uint32) uint32 { return d.bound[target] }

// Enabled reports whether capability cap is on.
func (d *Driver) Enabled(cap uint32) bool { return d.enabled[cap] }

func (d *Driver) ViewportState() [4]int32 { return d.viewport }

func (d *Driver) BlendState() [4]uint32 { return d.blend }

func (d *Driver) ClearColorState() [4]float32 { return d.clearColor }

// Back returns the color of the back buffer.
func (d *Driver) Back() [4]float32 { return d.back }

func (d *Driver) Draws() []Draw { return slices.Clone(d.draws) }

func (d *Driver) CurrentProgram() uint32 { return d.current }

func (d *Driver) AttribEnabled(index int) bool { return d.attribOn[index] }

// UniformMat4 returns the matrix last uploaded to location loc.
func (d *Driver) UniformMat4(loc int32) [16]float32 { return d.uniforms[loc] }

// AttribLayout returns the pointer layout of attribute index.
func (d *Driver) AttribLayout(index uint32) (AttribPointer, bool) {
	p, ok := d.pointers[index]
	return p, ok
}

// ShaderDeleted reports whether glDeleteShader was called for name.
func (d *Driver) ShaderDeleted(name uint32) bool {
	s, ok := d.shaders[name]
	return !ok || s.deleted
}

// ProgramExists reports whether name is a live program object.
func (d *Driver) ProgramExists(name uint32) bool {
	_, ok := d.programs[name]
	return ok
}

// PendingError returns the latched error without clearing it.
func (d *Driver) PendingError() uint32 { return d.err }

func (d *Driver) enter(name string) {
	d.calls = append(d.calls, name)
	if d.egl.current == 0 {
		panic("gltest: " + name + " called without a current context")
	}
}

func (d *Driver) leave(name string) {
	if code, ok := d.fail[name]; ok {
		delete(d.fail, name)
		d.setError(code)
	}
}

func (d *Driver) setError(code uint32) {
	if d.err == gl.NO_ERROR {
		d.err = code
	}
}

func (d *Driver) newName() uint32 {
	d.nextName++
	return d.nextName
}

func (d *Driver) glGetError() uint32 {
	d.enter("glGetError")
	e := d.err
	d.err = gl.NO_ERROR
	return e
}

func (d *Driver) glClear(mask uint32) {
	defer d.leave("glClear")
	d.enter("glClear")
	const all = gl.COLOR_BUFFER_BIT | gl.DEPTH_BUFFER_BIT | gl.STENCIL_BUFFER_BIT
	if mask&^all != 0 {
		d.setError(gl.INVALID_VALUE)
		return
	}
	if mask&gl.COLOR_BUFFER_BIT != 0 {
		d.back = d.clearColor
	}
}

func (d *Driver) glClearColor(r, g, b, a float32) {
	defer d.leave("glClearColor")
	d.enter("glClearColor")
	clamp := func(v float32) float32 {
		return min(max(v, 0), 1)
	}
	d.clearColor = [4]float32{clamp(r), clamp(g), clamp(b), clamp(a)}
}

var capabilities = map[uint32]bool{
	gl.BLEND:          true,
	gl.CULL_FACE:      true,
	gl.DEPTH_TEST:     true,
	gl.DITHER:       true,
	gl.SCISSOR_TEST:   true,
}

func (d *Driver) glEnable(cap uint32) {
	defer d.leave("glEnable")
	d.enter("glEnable")
	if !capabilities[cap] {
		d.setError(gl.INVALID_ENUM)
		return
	}
	d.enabled[cap] = true
}

func (d *Driver) glDisable(cap uint32) {
	defer d.leave("glDisable")
	d.enter("glDisable")
	if !capabilities[cap] {
		d.setError(gl.INVALID_ENUM)
		return
	}
	d.enabled[cap] = false
}

var blendFactors = map[uint32]bool{
	gl.ZERO:                true,
	gl.ONE:                 true,
	gl.SRC_ALPHA:           true,
	gl.ONE_MINUS_SRC_ALPHA: true,
	gl.DST_ALPHA:           true,
}

func (d *Driver) glBlendFuncSeparate(srcRGB, dstRGB, srcA, dstA uint32) {
	defer d.leave("glBlendFuncSeparate")
	d.enter("glBlendFuncSeparate")
	for _, f := range []uint32{srcRGB, dstRGB, srcA, dstA} {
		if !blendFactors[f] {
			d.setError(gl.INVALID_ENUM)
			return
		}
	}
	d.blend = [4]uint32{srcRGB, dstRGB, srcA, dstA}
}

func (d *Driver) glViewport(x, y, width, height int32) {
	defer d.leave("glViewport")
	d.enter("glViewport")
	if width < 0 || height < 0 {
		d.setError(gl.INVALID_VALUE)
		return
	}
	d.viewport = [4]int32{x, y, width, height}
}

func (d *Driver) glGetIntegerv(pname uint32, data *int32) {
	defer d.leave("glGetIntegerv")
	d.enter("glGetIntegerv")
	switch pname {
	case gl.VIEWPORT:
		copy(unsafe.Slice(data, 4), d.viewport[:])
	case gl.TEXTURE_BINDING_2D:
		*data = int32(d.boundTex)
	case gl.CURRENT_PROGRAM:
		*data = int32(d.current)
	default:
		d.setError(gl.INVALID_ENUM)
	}
}

func (d *Driver) glGetFloatv(pname uint32, data *float32) {
	defer d.leave("glGetFloatv")
	d.enter("glGetFloatv")
	switch pname {
	case gl.COLOR_CLEAR_VALUE:
		copy(unsafe.Slice(data, 4), d.clearColor[:])
	default:
		d.setError(gl.INVALID_ENUM)
	}
}

// Strings reported by glGetString.
const (
	Vendor   = "eglgl"
	Renderer = "gltest software rasterizer"
	Version  = "OpenGL ES 2.0 gltest"
)

func (d *Driver) glGetString(name uint32) string {
	defer d.leave("glGetString")
	d.enter("glGetString")
	switch name {
	case gl.VENDOR:
		return Vendor
	case gl.RENDERER:
		return Renderer
	case gl.VERSION:
		return Version
	}
	d.setError(gl.INVALID_ENUM)
	return ""
}

func validBufferTarget(target uint32) bool {
	return target == gl.ARRAY_BUFFER || target == gl.ELEMENT_ARRAY_BUFFER
}

func (d *Driver) glGenBuffers(n int32, buffers *uint32) {
	defer d.leave("glGenBuffers")
	d.enter("glGenBuffers")
	if n < 0 {
		d.setError(gl.INVALID_VALUE)
		return
	}
	if n == 0 {
		return
	}
	out := unsafe.Slice(buffers, n)
	for i := range out {
		name := d.newName()
		d.buffers[name] = nil
		out[i] = name
	}
}

func (d *Driver) glDeleteBuffers(n int32, buffers *uint32) {
	defer d.leave("glDeleteBuffers")
	d.enter("glDeleteBuffers")
	if n < 0 {
		d.setError(gl.INVALID_VALUE)
		return
	}
	if n == 0 {
		return
	}
	for _, name := range unsafe.Slice(buffers, n) {
		delete(d.buffers, name)
		for t, b := range d.bound {
			if b == name {
				d.bound[t] = 0
			}
		}
	}
}

func (d *Driver) glBindBuffer(target, buffer uint32) {
	defer d.leave("glBindBuffer")
	d.enter("glBindBuffer")
	if !validBufferTarget(target) {
		d.setError(gl.INVALID_ENUM)
		return
	}
	if _, ok := d.buffers[buffer]; !ok && buffer != 0 {
		d.buffers[buffer] = nil
	}
	d.bound[target] = buffer
}

func (d *Driver) glBufferData(target uint32, size int, data unsafe.Pointer, usage uint32) {
	defer d.leave("glBufferData")
	d.enter("glBufferData")
	switch {
	case !validBufferTarget(target):
		d.setError(gl.INVALID_ENUM)
		return
	case usage != gl.STATIC_DRAW && usage != gl.DYNAMIC_DRAW && usage != gl.STREAM_DRAW:
		d.setError(gl.INVALID_ENUM)
		return
	case size < 0:
		d.setError(gl.INVALID_VALUE)
		return
	case d.bound[target] == 0:
		d.setError(gl.INVALID_OPERATION)
		return
	}
	contents := make([]byte, size)
	if data != nil && size > 0 {
		copy(contents, unsafe.Slice((*byte)(data), size))
	}
	d.buffers[d.bound[target]] = contents
}

func (d *Driver) glGenTextures(n int32, textures *uint32) {
	defer d.leave("glGenTextures")
	d.enter("glGenTextures")
	if n < 0 {
		d.setError(gl.INVALID_VALUE)
		return
	}
	if n == 0 {
		return
	}
	out := unsafe.Slice(textures, n)
	for i := range out {
		name := d.newName()
		d.textures[name] = &TextureState{MinFilter: gl.NEAREST_MIPMAP_LINEAR, MagFilter: gl.LINEAR}
		out[i] = name
	}
}

func (d *Driver) glDeleteTextures(n int32, textures *uint32) {
	defer d.leave("glDeleteTextures")
	d.enter("glDeleteTextures")
	if n < 0 {
		d.setError(gl.INVALID_VALUE)
		return
	}
	if n == 0 {
		return
	}
	for _, name := range unsafe.Slice(textures, n) {
		delete(d.textures, name)
		if d.boundTex == name {
			d.boundTex = 0
		}
	}
}

func (d *Driver) glBindTexture(target, texture uint32) {
	defer d.leave("glBindTexture")
	d.enter("glBindTexture")
	if target != gl.TEXTURE_2D {
		d.setError(gl.INVALID_ENUM)
		return
	}
	if _, ok := d.textures[texture]; !ok && texture != 0 {
		d.textures[texture] = &TextureState{MinFilter: gl.NEAREST_MIPMAP_LINEAR, MagFilter: gl.LINEAR}
	}
	d.boundTex = texture
}

func (d *Driver) boundTexture() *TextureState {
	t, ok := d.textures[d.boundTex]
	if !ok {
		t = &TextureState{MinFilter: gl.NEAREST_MIPMAP_LINEAR, MagFilter: gl.LINEAR}
		d.textures[d.boundTex] = t
	}
	return t
}

func (d *Driver) glTexParameteri(target, pname uint32, param int32) {
	defer d.leave("glTexParameteri")
	d.enter("glTexParameteri")
	if target != gl.TEXTURE_2D {
		d.setError(gl.INVALID_ENUM)
		return
	}
	t := d.boundTexture()
	switch pname {
	case gl.TEXTURE_MIN_FILTER:
		t.MinFilter = param
	case gl.TEXTURE_MAG_FILTER:
		if param != gl.NEAREST && param != gl.LINEAR {
			d.setError(gl.INVALID_ENUM)
			return
		}
		t.MagFilter = param
	default:
		d.setError(gl.INVALID_ENUM)
	}
}

func (d *Driver) glTexImage2D(target uint32, level, internalFormat, width, height, border int32, format, typ uint32, pixels unsafe.Pointer) {
	defer d.leave("glTexImage2D")
	d.enter("glTexImage2D")
	switch {
	case target != gl.TEXTURE_2D:
		d.setError(gl.INVALID_ENUM)
		return
	case typ != gl.UNSIGNED_BYTE || format != gl.RGBA:
		d.setError(gl.INVALID_ENUM)
		return
	case level < 0 || width < 0 || height < 0 || border != 0:
		d.setError(gl.INVALID_VALUE)
		return
	case uint32(internalFormat) != format:
		d.setError(gl.INVALID_OPERATION)
		return
	}
	n := int(width) * int(height) * 4
	px := make([]byte, n)
	if pixels != nil && n > 0 {
		copy(px, unsafe.Slice((*byte)(pixels), n))
	}
	t := d.boundTexture()
	t.Width, t.Height, t.Format, t.Pixels = width, height, format, px
}

func (d *Driver) glEnableVertexAttribArray(index uint32) {
	defer d.leave("glEnableVertexAttribArray")
	d.enter("glEnableVertexAttribArray")
	if index >= MaxVertexAttribs {
		d.setError(gl.INVALID_VALUE)
		return
	}
	d.attribOn[index] = true
}

func (d *Driver) glVertexAttribPointer(index uint32, size int32, typ uint32, normalized uint8, stride int32, offset uintptr) {
	defer d.leave("glVertexAttribPointer")
	d.enter("glVertexAttribPointer")
	switch {
	case index >= MaxVertexAttribs || size < 1 || size > 4 || stride < 0:
		d.setError(gl.INVALID_VALUE)
		return
	case typ != gl.FLOAT && typ != gl.UNSIGNED_BYTE:
		d.setError(gl.INVALID_ENUM)
		return
	}
	d.pointers[index] = AttribPointer{
		Size:       size,
		Type:       typ,
		Normalized: normalized != 0,
		Stride:     stride,
		Offset:     offset,
		Buffer:     d.bound[gl.ARRAY_BUFFER],
	}
}

func (d *Driver) glDrawElements(mode uint32, count int32, typ uint32, offset uintptr) {
	defer d.leave("glDrawElements")
	d.enter("glDrawElements")
	switch {
	case mode > gl.TRIANGLE_FAN:
		d.setError(gl.INVALID_ENUM)
		return
	case typ != gl.UNSIGNED_BYTE && typ != gl.UNSIGNED_SHORT && typ != gl.UNSIGNED_INT:
		d.setError(gl.INVALID_ENUM)
		return
	case count < 0:
		d.setError(gl.INVALID_VALUE)
		return
	case d.current == 0:
		d.setError(gl.INVALID_OPERATION)
		return
	}
	d.draws = append(d.draws, Draw{Mode: mode, Type: typ, Count: count, Offset: offset, Program: d.current})
}

func (d *Driver) glCreateShader(typ uint32) uint32 {
	defer d.leave("glCreateShader")
	d.enter("glCreateShader")
	if typ != gl.VERTEX_SHADER && typ != gl.FRAGMENT_SHADER {
		d.setError(gl.INVALID_ENUM)
		return 0
	}
	name := d.newName()
	d.shaders[name] = &shader{typ: typ}
	return name
}

func (d *Driver) shader(name uint32) *shader {
	s, ok := d.shaders[name]
	if !ok {
		d.setError(gl.INVALID_VALUE)
		return nil
	}
	return s
}

func (d *Driver) glShaderSource(name uint32, count int32, src **byte, length *int32) {
	defer d.leave("glShaderSource")
	d.enter("glShaderSource")
	s := d.shader(name)
	if s == nil {
		return
	}
	if count < 0 {
		d.setError(gl.INVALID_VALUE)
		return
	}
	var b strings.Builder
	srcs := unsafe.Slice(src, count)
	var lens []int32
	if length != nil {
		lens = unsafe.Slice(length, count)
	}
	for i, p := range srcs {
		if lens != nil && lens[i] >= 0 {
			b.Write(unsafe.Slice(p, lens[i]))
			continue
		}
		b.WriteString(cstring(p))
	}
	s.src = b.String()
}

func (d *Driver) glCompileShader(name uint32) {
	defer d.leave("glCompileShader")
	d.enter("glCompileShader")
	s := d.shader(name)
	if s == nil {
		return
	}
	res := compile(s.typ, s.src)
	s.compiled = res.log == ""
	s.log = res.log
	s.uniforms = res.uniforms
	s.attribs = res.attribs
}

func (d *Driver) glGetShaderiv(name, pname uint32, params *int32) {
	defer d.leave("glGetShaderiv")
	d.enter("glGetShaderiv")
	s := d.shader(name)
	if s == nil {
		return
	}
	switch pname {
	case gl.COMPILE_STATUS:
		*params = boolInt(s.compiled)
	case gl.INFO_LOG_LENGTH:
		*params = d.logLength(s.log)
	case gl.SHADER_TYPE:
		*params = int32(s.typ)
	default:
		d.setError(gl.INVALID_ENUM)
	}
}

func (d *Driver) glGetShaderInfoLog(name uint32, bufSize int32, length *int32, infoLog *byte) {
	defer d.leave("glGetShaderInfoLog")
	d.enter("glGetShaderInfoLog")
	s := d.shader(name)
	if s == nil {
		return
	}
	if bufSize < 0 {
		d.setError(gl.INVALID_VALUE)
		return
	}
	writeLog(s.log, bufSize, length, infoLog)
}

func (d *Driver) glDeleteShader(name uint32) {
	defer d.leave("glDeleteShader")
	d.enter("glDeleteShader")
	if name == 0 {
		return
	}
	if s := d.shader(name); s != nil {
		s.deleted = true
	}
}

func (d *Driver) glCreateProgram() uint32 {
	defer d.leave("glCreateProgram")
	d.enter("glCreateProgram")
	name := d.newName()
	d.programs[name] = &program{}
	return name
}

func (d *Driver) program(name uint32) *program {
	p, ok := d.programs[name]
	if !ok {
		if _, isShader := d.shaders[name]; isShader {
			d.setError(gl.INVALID_OPERATION)
		} else {
			d.setError(gl.INVALID_VALUE)
		}
		return nil
	}
	return p
}

func (d *Driver) glAttachShader(prog, sh uint32) {
	defer d.leave("glAttachShader")
	d.enter("glAttachShader")
	p := d.program(prog)
	if p == nil {
		return
	}
	if d.shader(sh) == nil {
		return
	}
	if slices.Contains(p.shaders, sh) {
		d.setError(gl.INVALID_OPERATION)
		return
	}
	p.shaders = append(p.shaders, sh)
}

func (d *Driver) glLinkProgram(prog uint32) {
	defer d.leave("glLinkProgram")
	d.enter("glLinkProgram")
	p := d.program(prog)
	if p == nil {
		return
	}
	p.linked, p.log = false, ""
	var vs, fs *shader
	for _, name := range p.shaders {
		s := d.shaders[name]
		switch s.typ {
		case gl.VERTEX_SHADER:
			vs = s
		case gl.FRAGMENT_SHADER:
			fs = s
		}
	}
	switch {
	case vs == nil || !vs.compiled:
		p.log = "error: no compiled vertex shader attached to program"
		return
	case fs == nil || !fs.compiled:
		p.log = "error: no compiled fragment shader attached to program"
		return
	}
	names := slices.Collect(maps.Keys(vs.uniforms))
	for name, typ := range fs.uniforms {
		if vtyp, ok := vs.uniforms[name]; ok && vtyp != typ {
			p.log = fmt.Sprintf("error: uniform `%s' declared as type `%s' and type `%s'", name, vtyp, typ)
			return
		}
		names = append(names, name)
	}
	p.uniforms = locations(names)
	p.attribs = locations(vs.attribs)
	p.linked = true
}

func (d *Driver) glGetProgramiv(prog, pname uint32, params *int32) {
	defer d.leave("glGetProgramiv")
	d.enter("glGetProgramiv")
	p := d.program(prog)
	if p == nil {
		return
	}
	switch pname {
	case gl.LINK_STATUS:
		*params = boolInt(p.linked)
	case gl.INFO_LOG_LENGTH:
		*params = d.logLength(p.log)
	case gl.ATTACHED_SHADERS:
		*params = int32(len(p.shaders))
	default:
		d.setError(gl.INVALID_ENUM)
	}
}

func (d *Driver) glGetProgramInfoLog(prog uint32, bufSize int32, length *int32, infoLog *byte) {
	defer d.leave("glGetProgramInfoLog")
	d.enter("glGetProgramInfoLog")
	p := d.program(prog)
	if p == nil {
		return
	}
	if bufSize < 0 {
		d.setError(gl.INVALID_VALUE)
		return
	}
	writeLog(p.log, bufSize, length, infoLog)
}

func (d *Driver) glDeleteProgram(prog uint32) {
	defer d.leave("glDeleteProgram")
	d.enter("glDeleteProgram")
	if prog == 0 {
		return
	}
	if d.program(prog) == nil {
		return
	}
	delete(d.programs, prog)
	if d.current == prog {
		d.current = 0
	}
}

func (d *Driver) glUseProgram(prog uint32) {
	defer d.leave("glUseProgram")
	d.enter("glUseProgram")
	if prog == 0 {
		d.current = 0
		return
	}
	p := d.program(prog)
	if p == nil {
		return
	}
	if !p.linked {
		d.setError(gl.INVALID_OPERATION)
		return
	}
	d.current = prog
}

func (d *Driver) glGetUniformLocation(prog uint32, name *byte) int32 {
	defer d.leave("glGetUniformLocation")
	d.enter("glGetUniformLocation")
	p := d.program(prog)
	if p == nil {
		return -1
	}
	if !p.linked {
		d.setError(gl.INVALID_OPERATION)
		return -1
	}
	if loc, ok := p.uniforms[cstring(name)]; ok {
		return loc
	}
	return -1
}

func (d *Driver) glGetAttribLocation(prog uint32, name *byte) int32 {
	defer d.leave("glGetAttribLocation")
	d.enter("glGetAttribLocation")
	p := d.program(prog)
	if p == nil {
		return -1
	}
	if !p.linked {
		d.setError(gl.INVALID_OPERATION)
		return -1
	}
	if loc, ok := p.attribs[cstring(name)]; ok {
		return loc
	}
	return -1
}

func (d *Driver) glUniformMatrix4fv(location, count int32, transpose uint8, value *float32) {
	defer d.leave("glUniformMatrix4fv")
	d.enter("glUniformMatrix4fv")
	p, ok := d.programs[d.current]
	switch {
	case !ok:
		d.setError(gl.INVALID_OPERATION)
		return
	case count < 0 || transpose != gl.FALSE:
		d.setError(gl.INVALID_VALUE)
		return
	case location == -1:
		return
	}
	found := false
	for _, loc := range p.uniforms {
		if loc == location {
			found = true
			break
		}
	}
	if !found {
		d.setError(gl.INVALID_OPERATION)
		return
	}
	var m [16]float32
	copy(m[:], unsafe.Slice(value, 16))
	d.uniforms[location] = m
}

// locations assigns locations to names in sorted order.
func locations(names []string) map[string]int32 {
	names = slices.Clone(names)
	sort.Strings(names)
	names = slices.Compact(names)
	locs := make(map[string]int32, len(names))
	for i, n := range names {
		locs[n] = int32(i)
	}
	return locs
}

func boolInt(b bool) int32 {
	if b {
		return gl.TRUE
	}
	return gl.FALSE
}

// logLength is INFO_LOG_LENGTH: the log size including its terminator.
func (d *Driver) logLength(log string) int32 {
	if d.NegativeLogLength {
		return -1
	}
	if log == "" {
		return 0
	}
	return int32(len(log) + 1)
}

func writeLog(log string, bufSize int32, length *int32, infoLog *byte) {
	if bufSize == 0 {
		if length != nil {
			*length = 0
		}
		return
	}
	buf := unsafe.Slice(infoLog, bufSize)
	n := copy(buf[:bufSize-1], log)
	buf[n] = 0
	if length != nil {
		*length = int32(n)
	}
}

func cstring(p *byte) string {
	if p == nil {
		return ""
	}
	var n int
	for *(*byte)(unsafe.Add(unsafe.Pointer(p), n)) != 0 {
		n++
	}
	return string(unsafe.Slice(p, n))
}
