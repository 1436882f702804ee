// SPDX-License-Identifier: Unlicense OR MIT

package gles

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"os"
	"runtime"
	"slices"

	"github.com/pelletier/go-toml/v2"
)

// Environment variables that name a library to try before the
// configured candidates.
const (
	EnvEGLLibrary  = "EGLGL_EGL_LIBRARY"
	EnvGLESLibrary = "EGLGL_GLES_LIBRARY"
)

// Config selects the driver libraries and context options.
type Config struct {
	// EGLLibraries and GLESLibraries are library names or paths, tried
	// in order.
	EGLLibraries  []string `toml:"egl_libraries"`
	GLESLibraries []string `toml:"gles_libraries"`
	// SwapInterval is passed to eglSwapInterval. -1 keeps the driver
	// default.
	SwapInterval int `toml:"swap_interval"`
	// Debug logs every GL call at slog.LevelDebug.
	Debug bool `toml:"debug"`
}

// DefaultConfig returns the library names of the running platform and
// a swap interval of 1.
func DefaultConfig() Config {
	egl, gles := defaultLibraries(runtime.GOOS)
	return Config{
		EGLLibraries:  egl,
		GLESLibraries: gles,
		SwapInterval:  1,
	}
}

func defaultLibraries(goos string) (egl, gles []string) {
	switch goos {
	case "android":
		return []string{"libEGL.so"}, []string{"libGLESv2.so", "libGLESv3.so"}
	case "windows":
		return []string{"libEGL.dll"}, []string{"libGLESv2.dll"}
	case "darwin", "ios":
		return []string{"libEGL.dylib"}, []string{"libGLESv2.dylib"}
	default:
		return []string{"libEGL.so.1", "libEGL.so"}, []string{"libGLESv2.so.2", "libGLESv2.so"}
	}
}

// LoadConfig reads a TOML configuration file. Keys it omits keep their
// DefaultConfig values.
func LoadConfig(path string) (Config, error) {
	f, err := os.Open(path)
	if err != nil {
		return Config{}, fmt.Errorf("gles: config: %w", err)
	}
	defer f.Close()
	cfg, err := decodeConfig(f)
	if err != nil {
		return Config{}, fmt.Errorf("gles: config %s: %w", path, err)
	}
	return cfg, cfg.Validate()
}

// ParseConfig is like LoadConfig for an in-memory document.
func ParseConfig(data []byte) (Config, error) {
	cfg, err := decodeConfig(bytes.NewReader(data))
	if err != nil {
		return Config{}, fmt.Errorf("gles: config: %w", err)
	}
	return cfg, cfg.Validate()
}

func decodeConfig(r io.Reader) (Config, error) {
	cfg := DefaultConfig()
	dec := toml.NewDecoder(r).DisallowUnknownFields()
	if err := dec.Decode(&cfg); err != nil {
		var serr *toml.StrictMissingError
		if errors.As(err, &serr) {
			return Config{}, fmt.Errorf("%w\n%s", err, serr.String())
		}
		return Config{}, err
	}
	return cfg, nil
}

// Validate reports whether c can be used to build a context.
func (c Config) Validate() error {
	switch {
	case len(c.EGLLibraries) == 0:
		return errors.New("gles: config: no EGL libraries")
	case len(c.GLESLibraries) == 0:
		return errors.New("gles: config: no GLES libraries")
	case slices.Contains(c.EGLLibraries, ""):
		return errors.New("gles: config: empty EGL library name")
	case slices.Contains(c.GLESLibraries, ""):
		return errors.New("gles: config: empty GLES library name")
	case c.SwapInterval < -1:
		return fmt.Errorf("gles: config: swap_interval %d is below -1", c.SwapInterval)
	}
	return nil
}

// Encode writes c as TOML.
func (c Config) Encode(w io.Writer) error {
	return toml.NewEncoder(w).Encode(c)
}
