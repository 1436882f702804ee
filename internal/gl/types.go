// SPDX-License-Identifier: Unlicense OR MIT

package gl

// Handles are plain driver names. They own nothing; deleting the
// object they name is an explicit call.
type (
	Buffer  struct{ V uint32 }
	Program struct{ V uint32 }
	Shader  struct{ V uint32 }
	Texture struct{ V uint32 }
	Uniform struct{ V int32 }
)

func (b Buffer) Valid() bool {
	return b.V != 0
}

func (u Uniform) Valid() bool {
	return u.V != -1
}

func (p Program) Valid() bool {
	return p.V != 0
}

func (s Shader) Valid() bool {
	return s.V != 0
}

func (t Texture) Valid() bool {
	return t.V != 0
}
