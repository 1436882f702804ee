// SPDX-License-Identifier: Unlicense OR MIT

package gl

import "fmt"

// ErrorKind classifies the codes glGetError reports.
type ErrorKind uint8

const (
	Unknown ErrorKind = iota
	InvalidEnum
	InvalidValue
	InvalidOperation
	StackOverflow
	StackUnderflow
	OutOfMemory
)

// KindOf maps a glGetError code to its kind. NO_ERROR and codes
// outside the ES set are Unknown.
func KindOf(code Enum) ErrorKind {
	switch code {
	case INVALID_ENUM:
		return InvalidEnum
	case INVALID_VALUE:
		return InvalidValue
	case INVALID_OPERATION:
		return InvalidOperation
	case STACK_OVERFLOW:
		return StackOverflow
	case STACK_UNDERFLOW:
		return StackUnderflow
	case OUT_OF_MEMORY:
		return OutOfMemory
	default:
		return Unknown
	}
}

func (k ErrorKind) String() string {
	switch k {
	case InvalidEnum:
		return "invalid enum"
	case InvalidValue:
		return "invalid value"
	case InvalidOperation:
		return "invalid operation"
	case StackOverflow:
		return "stack overflow"
	case StackUnderflow:
		return "stack underflow"
	case OutOfMemory:
		return "out of memory"
	default:
		return "unknown"
	}
}

func (k ErrorKind) Error() string {
	return "gl: " + k.String()
}

// Error is a latched driver error attributed to the call that raised it.
type Error struct {
	Op   string
	Code Enum
}

func (e *Error) Kind() ErrorKind { return KindOf(e.Code) }

func (e *Error) Error() string {
	return fmt.Sprintf("gl: %s: %s (0x%x)", e.Op, e.Kind().String(), uint32(e.Code))
}

// Is reports whether target is the ErrorKind of e.
func (e *Error) Is(target error) bool {
	k, ok := target.(ErrorKind)
	return ok && k == e.Kind()
}
