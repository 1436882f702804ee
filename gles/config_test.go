// SPDX-License-Identifier: Unlicense OR MIT

package gles

import (
	"bytes"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDefaultConfig(t *testing.T) {
	cfg := DefaultConfig()
	require.NoError(t, cfg.Validate())
	assert.Equal(t, 1, cfg.SwapInterval)
	assert.False(t, cfg.Debug)

	egl, gles := defaultLibraries("linux")
	assert.Equal(t, []string{"libEGL.so.1", "libEGL.so"}, egl)
	assert.Equal(t, []string{"libGLESv2.so.2", "libGLESv2.so"}, gles)
	egl, gles = defaultLibraries("windows")
	assert.Equal(t, []string{"libEGL.dll"}, egl)
	assert.Equal(t, []string{"libGLESv2.dll"}, gles)
}

func TestParseConfig(t *testing.T) {
	cfg, err := ParseConfig([]byte(`
egl_libraries = ["/opt/angle/libEGL.so"]
swap_interval = 0
debug = true
`))
	require.NoError(t, err)
	assert.Equal(t, []string{"/opt/angle/libEGL.so"}, cfg.EGLLibraries)
	assert.Equal(t, DefaultConfig().GLESLibraries, cfg.GLESLibraries)
	assert.Equal(t, 0, cfg.SwapInterval)
	assert.True(t, cfg.Debug)
}

func TestParseConfigErrors(t *testing.T) {
	tests := []struct {
		name, doc, want string
	}{
		{"unknown key", `vsync = true`, "strict mode"},
		{"bad type", `swap_interval = "on"`, "gles: config"},
		{"interval", `swap_interval = -2`, "below -1"},
		{"no libraries", `gles_libraries = []`, "no GLES libraries"},
		{"empty name", `egl_libraries = [""]`, "empty EGL library name"},
		{"syntax", `debug = `, "gles: config"},
	}
	for _, test := range tests {
		t.Run(test.name, func(t *testing.T) {
			_, err := ParseConfig([]byte(test.doc))
			require.Error(t, err)
			assert.Contains(t, err.Error(), test.want)
		})
	}
}

func TestLoadConfig(t *testing.T) {
	path := filepath.Join(t.TempDir(), "eglgl.toml")
	cfg := DefaultConfig()
	cfg.SwapInterval = -1
	cfg.GLESLibraries = []string{"libGLESv2.so.2"}
	var buf bytes.Buffer
	require.NoError(t, cfg.Encode(&buf))
	require.NoError(t, os.WriteFile(path, buf.Bytes(), 0o644))

	got, err := LoadConfig(path)
	require.NoError(t, err)
	assert.Equal(t, cfg, got)

	_, err = LoadConfig(filepath.Join(t.TempDir(), "missing.toml"))
	assert.ErrorIs(t, err, os.ErrNotExist)
}
