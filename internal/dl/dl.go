// SPDX-License-Identifier: Unlicense OR MIT

// Package dl opens shared libraries at run time and binds their
// exported C functions to typed Go function values.
//
// Signatures are not checked: binding a symbol to a Go function of the
// wrong shape is undefined behaviour, exactly as with dlsym.
package dl

import (
	"errors"
	"fmt"
	"maps"
	"os"
	"reflect"
	"slices"
	"strings"

	"github.com/ebitengine/purego"
)

// ErrNotFound is returned, wrapped, when no candidate library can be
// opened or a symbol is not exported.
var ErrNotFound = errors.New("dl: not found")

// Library is an open shared library. The handle must outlive every
// function bound from it.
type Library struct {
	name   string
	handle uintptr
}

// Loader installs the C function called name into fptr, which must be
// a pointer to a Go func variable.
type Loader interface {
	Load(fptr any, name string) error
}

// Open opens the first library of names that the platform loader
// accepts.
func Open(names ...string) (*Library, error) {
	if len(names) == 0 {
		return nil, fmt.Errorf("dl: no library names given: %w", ErrNotFound)
	}
	var errs []string
	for _, n := range names {
		if n == "" {
			continue
		}
		h, err := openLibrary(n)
		if err == nil && h != 0 {
			return &Library{name: n, handle: h}, nil
		}
		if err != nil {
			errs = append(errs, err.Error())
		}
	}
	return nil, fmt.Errorf("dl: no library could be loaded (tried %q): %s: %w", names, strings.Join(errs, "; "), ErrNotFound)
}

// Name returns the name the library was opened with.
func (l *Library) Name() string { return l.name }

// Lookup returns the address of the named symbol.
func (l *Library) Lookup(name string) (uintptr, error) {
	if l.handle == 0 {
		return 0, fmt.Errorf("dl: lookup %s in closed library %s", name, l.name)
	}
	addr, err := lookup(l.handle, name)
	if err != nil || addr == 0 {
		return 0, fmt.Errorf("dl: failed to locate %s in %s: %w", name, l.name, ErrNotFound)
	}
	return addr, nil
}

// Load implements Loader.
func (l *Library) Load(fptr any, name string) error {
	addr, err := l.Lookup(name)
	if err != nil {
		return err
	}
	purego.RegisterFunc(fptr, addr)
	return nil
}

// Close releases the library. Calling Close more than once is a no-op.
func (l *Library) Close() error {
	if l.handle == 0 {
		return nil
	}
	h := l.handle
	l.handle = 0
	if err := closeLibrary(h); err != nil {
		return fmt.Errorf("dl: close %s: %w", l.name, err)
	}
	return nil
}

// Chain is a Loader that tries each of its loaders in order.
type Chain []Loader

func (c Chain) Load(fptr any, name string) error {
	var err error
	for _, l := range c {
		if err = l.Load(fptr, name); err == nil {
			return nil
		}
	}
	if err == nil {
		err = fmt.Errorf("dl: no loader for %s: %w", name, ErrNotFound)
	}
	return err
}

// ProcLoader resolves symbols through a driver lookup function such as
// eglGetProcAddress. A zero address means the symbol is absent.
type ProcLoader func(name string) uintptr

func (p ProcLoader) Load(fptr any, name string) error {
	addr := p(name)
	if addr == 0 {
		return fmt.Errorf("dl: proc address of %s: %w", name, ErrNotFound)
	}
	purego.RegisterFunc(fptr, addr)
	return nil
}

// MissingError reports every symbol a Bind call could not resolve.
type MissingError struct {
	Names []string
	Err   error
}

func (e *MissingError) Error() string {
	return fmt.Sprintf("dl: missing %d symbol(s): %s", len(e.Names), strings.Join(e.Names, ", "))
}

func (e *MissingError) Unwrap() error { return e.Err }

// Bind loads every symbol of syms into its slot. It reports all missing
// symbols at once; on error the slots are partially filled and must be
// discarded.
func Bind(l Loader, syms map[string]any) error {
	var missing []string
	var first error
	for _, name := range slices.Sorted(maps.Keys(syms)) {
		if err := l.Load(syms[name], name); err != nil {
			missing = append(missing, name)
			if first == nil {
				first = err
			}
		}
	}
	if len(missing) > 0 {
		return &MissingError{Names: missing, Err: first}
	}
	return nil
}

// Candidates returns defaults, preceded by the value of the environment
// variable env when it is set.
func Candidates(env string, defaults []string) []string {
	names := slices.Clone(defaults)
	if v := os.Getenv(env); v != "" {
		names = append([]string{v}, names...)
	}
	return names
}

// Static is a Loader over Go function values keyed by symbol name. It
// lets a driver implemented in Go stand in for a shared library.
type Static map[string]any

func (s Static) Load(fptr any, name string) error {
	fn, ok := s[name]
	if !ok || fn == nil {
		return fmt.Errorf("dl: static symbol %s: %w", name, ErrNotFound)
	}
	dst := reflect.ValueOf(fptr)
	if dst.Kind() != reflect.Pointer || dst.Elem().Kind() != reflect.Func {
		panic(fmt.Sprintf("dl: %s: fptr must be a pointer to a func, got %T", name, fptr))
	}
	src := reflect.ValueOf(fn)
	if !src.Type().AssignableTo(dst.Elem().Type()) {
		return fmt.Errorf("dl: static symbol %s has type %s, want %s", name, src.Type(), dst.Elem().Type())
	}
	dst.Elem().Set(src)
	return nil
}
