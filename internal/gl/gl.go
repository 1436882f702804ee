// SPDX-License-Identifier: Unlicense OR MIT

// Package gl holds the OpenGL ES entry point table, its enums and the
// handle types the driver hands out.
package gl

type (
	Attrib uint32
	Enum   uint32
)

const (
	ARRAY_BUFFER          = 0x8892
	ATTACHED_SHADERS      = 0x8b85
	BLEND                 = 0xbe2
	COLOR_BUFFER_BIT      = 0x4000
	COLOR_CLEAR_VALUE     = 0xc22
	COMPILE_STATUS        = 0x8b81
	CULL_FACE             = 0xb44
	CURRENT_PROGRAM       = 0x8b8d
	DEPTH_BUFFER_BIT      = 0x100
	DEPTH_TEST            = 0xb71
	DITHER                = 0xbd0
	DST_ALPHA             = 0x304
	DYNAMIC_DRAW          = 0x88E8
	ELEMENT_ARRAY_BUFFER  = 0x8893
	FALSE                 = 0
	FLOAT                 = 0x1406
	FRAGMENT_SHADER       = 0x8b30
	INFO_LOG_LENGTH       = 0x8B84
	LINEAR                = 0x2601
	LINK_STATUS           = 0x8b82
	NEAREST               = 0x2600
	NEAREST_MIPMAP_LINEAR = 0x2702
	NO_ERROR              = 0x0
	ONE                   = 0x1
	ONE_MINUS_SRC_ALPHA   = 0x303
	RENDERER              = 0x1F01
	RGBA                  = 0x1908
	SCISSOR_TEST          = 0xc11
	SHADER_TYPE           = 0x8b4f
	SRC_ALPHA             = 0x302
	STATIC_DRAW           = 0x88e4
	STENCIL_BUFFER_BIT    = 0x400
	STREAM_DRAW           = 0x88e0
	TEXTURE_2D            = 0xde1
	TEXTURE_BINDING_2D    = 0x8069
	TEXTURE_MAG_FILTER    = 0x2800
	TEXTURE_MIN_FILTER    = 0x2801
	TRIANGLE_FAN          = 0x6
	TRIANGLES             = 0x4
	TRUE                  = 1
	UNSIGNED_BYTE         = 0x1401
	UNSIGNED_INT          = 0x1405
	UNSIGNED_SHORT        = 0x1403
	VENDOR                = 0x1F00
	VERSION               = 0x1f02
	VERTEX_SHADER         = 0x8b31
	VIEWPORT              = 0xba2
	ZERO                  = 0x0

	// Error codes returned by glGetError.
	INVALID_ENUM      = 0x500
	INVALID_VALUE     = 0x501
	INVALID_OPERATION = 0x502
	STACK_OVERFLOW    = 0x503
	STACK_UNDERFLOW   = 0x504
	OUT_OF_MEMORY     = 0x505
)
