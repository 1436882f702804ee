// SPDX-License-Identifier: Unlicense OR MIT

package gltest

import (
	"fmt"
	"strings"

	"eglgl.org/internal/gl"
)

type compileResult struct {
	log string
	// uniforms maps names to their declared types.
	uniforms map[string]string
	attribs  []string
}

// compile is a toy GLSL ES front end. It checks bracket balance and the
// presence of main, and collects uniform and attribute declarations.
// Messages imitate the Mesa compiler.
func compile(typ uint32, src string) compileResult {
	if i := strings.Index(src, "#error"); i >= 0 {
		msg := strings.TrimSpace(strings.SplitN(src[i+len("#error"):], "\n", 2)[0])
		return compileResult{log: fmt.Sprintf("0:%d(1): preprocessor error: %s\n", lineOf(src, i), msg)}
	}
	if line, ok := balanced(src); !ok {
		return compileResult{log: fmt.Sprintf("0:%d(1): error: syntax error, unexpected end of file\n", line)}
	}
	if !strings.Contains(src, "void main") {
		return compileResult{log: "0:1(1): error: function `main' not defined\n"}
	}
	res := compileResult{uniforms: make(map[string]string)}
	for _, stmt := range strings.FieldsFunc(src, func(r rune) bool {
		return r == ';' || r == '{' || r == '}'
	}) {
		f := declFields(stmt)
		if len(f) < 3 {
			continue
		}
		name := f[len(f)-1]
		if i := strings.IndexByte(name, '['); i >= 0 {
			name = name[:i]
		}
		switch f[0] {
		case "uniform":
			res.uniforms[name] = f[1]
		case "attribute", "in":
			if typ == gl.VERTEX_SHADER {
				res.attribs = append(res.attribs, name)
			}
		}
	}
	return res
}

// declFields splits a declaration, dropping precision qualifiers and
// layout blocks.
func declFields(stmt string) []string {
	var f []string
	for _, w := range strings.Fields(stmt) {
		switch w {
		case "lowp", "mediump", "highp", "precision":
			continue
		}
		if strings.HasPrefix(w, "#") {
			return nil
		}
		f = append(f, w)
	}
	return f
}

// balanced reports whether brackets match, and the line where they stop
// matching.
func balanced(src string) (int, bool) {
	var stack []rune
	pair := map[rune]rune{')': '(', ']': '[', '}': '{'}
	line := 1
	for _, r := range src {
		switch r {
		case '\n':
			line++
		case '(', '[', '{':
			stack = append(stack, r)
		case ')', ']', '}':
			if len(stack) == 0 || stack[len(stack)-1] != pair[r] {
				return line, false
			}
			stack = stack[:len(stack)-1]
		}
	}
	return line, len(stack) == 0
}

func lineOf(src string, off int) int {
	return strings.Count(src[:off], "\n") + 1
}
