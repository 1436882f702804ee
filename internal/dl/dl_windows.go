// SPDX-License-Identifier: Unlicense OR MIT

package dl

import (
	"fmt"

	syscall "golang.org/x/sys/windows"
)

func openLibrary(name string) (uintptr, error) {
	h, err := syscall.LoadLibraryEx(name, 0, syscall.LOAD_LIBRARY_SEARCH_DEFAULT_DIRS)
	if err != nil {
		return 0, fmt.Errorf("failed to load %s: %v", name, err)
	}
	return uintptr(h), nil
}

func lookup(handle uintptr, name string) (uintptr, error) {
	return syscall.GetProcAddress(syscall.Handle(handle), name)
}

func closeLibrary(handle uintptr) error {
	return syscall.FreeLibrary(syscall.Handle(handle))
}
