// SPDX-License-Identifier: Unlicense OR MIT

package gles

import (
	"errors"
	"fmt"

	"eglgl.org/internal/gl"
)

var (
	// ErrNoUniform is matched by the error of a failed Uniform lookup.
	ErrNoUniform = errors.New("gles: no such uniform")
	// ErrNoAttribute is matched by the error of a failed Attribute lookup.
	ErrNoAttribute = errors.New("gles: no such attribute")
	// ErrBuilderUsed is the panic value of a second Builder.Context call.
	ErrBuilderUsed = errors.New("gles: builder already used")
	// ErrReleased is the panic value of a command issued after Release.
	ErrReleased = errors.New("gles: context released")
	// ErrNotTerminated is the panic value of a string argument that does
	// not end in a NUL byte.
	ErrNotTerminated = errors.New("gles: argument is not NUL-terminated")
)

// CompileError is a shader stage that failed to compile. Log is the
// driver's info log without surrounding space.
type CompileError struct {
	Stage string
	Log   string
}

func (e *CompileError) Error() string {
	return fmt.Sprintf("gles: %s shader compilation failed: %s", e.Stage, e.Log)
}

// LinkError is a program that failed to link.
type LinkError struct {
	Log string
}

func (e *LinkError) Error() string {
	return fmt.Sprintf("gles: program link failed: %s", e.Log)
}

// LookupError is a uniform or attribute name the program does not
// define. Err is ErrNoUniform or ErrNoAttribute.
type LookupError struct {
	Err  error
	Name string
}

func (e *LookupError) Error() string {
	return fmt.Sprintf("%v: %q", e.Err, e.Name)
}

func (e *LookupError) Unwrap() error { return e.Err }

// mustTerminate panics unless s ends in NUL.
func mustTerminate(what string, s []byte) {
	if !gl.CString(s) {
		panic(fmt.Errorf("%w: %s", ErrNotTerminated, what))
	}
}
