// SPDX-License-Identifier: Unlicense OR MIT

package gl

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"eglgl.org/internal/dl"
)

func TestKindOf(t *testing.T) {
	tests := []struct {
		code Enum
		kind ErrorKind
		str  string
	}{
		{INVALID_ENUM, InvalidEnum, "invalid enum"},
		{INVALID_VALUE, InvalidValue, "invalid value"},
		{INVALID_OPERATION, InvalidOperation, "invalid operation"},
		{STACK_OVERFLOW, StackOverflow, "stack overflow"},
		{STACK_UNDERFLOW, StackUnderflow, "stack underflow"},
		{OUT_OF_MEMORY, OutOfMemory, "out of memory"},
		{0x506, Unknown, "unknown"},
	}
	for _, tc := range tests {
		assert.Equal(t, tc.kind, KindOf(tc.code), "code 0x%x", uint32(tc.code))
		assert.Equal(t, tc.str, tc.kind.String())
	}
}

func TestErrorIs(t *testing.T) {
	var err error = &Error{Op: "glBindBuffer", Code: INVALID_ENUM}
	assert.True(t, errors.Is(err, InvalidEnum))
	assert.False(t, errors.Is(err, InvalidValue))
	assert.Equal(t, "gl: glBindBuffer: invalid enum (0x500)", err.Error())
}

func TestParseGLVersion(t *testing.T) {
	tests := []struct {
		in   string
		want [2]int
	}{
		{"OpenGL ES 3.2 Mesa 23.1.4", [2]int{3, 2}},
		{"OpenGL ES 2.0 (ANGLE 2.1.0)", [2]int{2, 0}},
		{"4.6 (Compatibility Profile) Mesa", [2]int{4, 6}},
	}
	for _, tc := range tests {
		got, err := ParseGLVersion(tc.in)
		require.NoError(t, err, tc.in)
		assert.Equal(t, tc.want, got, tc.in)
	}
	_, err := ParseGLVersion("WebGPU")
	assert.Error(t, err)
}

func TestGoString(t *testing.T) {
	assert.Equal(t, "main", GoString([]byte("main\x00junk")))
	assert.Equal(t, "main", GoString([]byte("main")))
	assert.True(t, CString([]byte("a\x00")))
	assert.False(t, CString([]byte("a")))
	assert.False(t, CString(nil))
}

func TestLoadMissingSymbols(t *testing.T) {
	_, err := Load(dl.Static{"glClear": func(uint32) {}})
	require.Error(t, err)
	var merr *dl.MissingError
	require.True(t, errors.As(err, &merr))
	assert.Len(t, merr.Names, len(Symbols())-1)
	assert.NotContains(t, merr.Names, "glClear")
	assert.Contains(t, merr.Names, "glDrawElements")
}

func TestSymbolsSorted(t *testing.T) {
	syms := Symbols()
	assert.IsIncreasing(t, syms)
	assert.Contains(t, syms, "glGetError")
	assert.Contains(t, syms, "glViewport")
}
