// SPDX-License-Identifier: Unlicense OR MIT

package gl

import (
	"bytes"
	"fmt"
)

func ParseGLVersion(glVer string) ([2]int, error) {
	var ver [2]int
	if _, err := fmt.Sscanf(glVer, "OpenGL ES %d.%d", &ver[0], &ver[1]); err == nil {
		return ver, nil
	} else if _, err := fmt.Sscanf(glVer, "%d.%d", &ver[0], &ver[1]); err == nil {
		return ver, nil
	}
	return ver, fmt.Errorf("failed to parse OpenGL ES version (%s)", glVer)
}

// GoString converts a NUL-terminated C string to a Go string. A slice
// without a terminator is converted whole.
func GoString(s []byte) string {
	if i := bytes.IndexByte(s, 0); i >= 0 {
		s = s[:i]
	}
	return string(s)
}

// CString reports whether s ends in a NUL terminator.
func CString(s []byte) bool {
	return len(s) > 0 && s[len(s)-1] == 0
}
