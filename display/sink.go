// Package display is the interactive-preview half of spec.md §1's
// offline/interactive split: a GLFW window that blits the renderer's LDR
// buffer to screen as a single textured quad, plus camera controllers that
// mutate a raycam.Camera between passes (SPEC_FULL.md "display").
package display

import (
	"fmt"
	"strings"
	"unsafe"

	gl "github.com/go-gl/gl/v4.1-core/gl"

	"render-engine/core"
	"render-engine/image"
)

const vertSrc = `
#version 410 core
layout(location = 0) in vec2 inPos;
layout(location = 1) in vec2 inUV;
out vec2 fragUV;
void main() {
    gl_Position = vec4(inPos, 0.0, 1.0);
    fragUV = inUV;
}
` + "\x00"

const fragSrc = `
#version 410 core
in vec2 fragUV;
out vec4 outColor;
uniform sampler2D tex;
void main() {
    outColor = texture(tex, fragUV);
}
` + "\x00"

// quadVerts is a fullscreen triangle strip in clip space with UVs flipped
// to match ImageBuffer.ldr's top-left row-major origin (spec.md §4.8
// "Output").
var quadVerts = [16]float32{
	-1, -1, 0, 1,
	1, -1, 1, 1,
	-1, 1, 0, 0,
	1, 1, 1, 0,
}

// Sink owns the GL program, quad and texture object used to present one
// ImageBuffer per frame. Must be constructed after the window's GL context
// is current.
type Sink struct {
	win     *core.Window
	program uint32
	vao, vbo uint32
	texID   uint32
	texLoc  int32
	w, h    int
}

// NewSink initializes OpenGL and the blit pipeline for win.
func NewSink(win *core.Window) (*Sink, error) {
	if err := gl.Init(); err != nil {
		return nil, fmt.Errorf("display: init opengl: %w", err)
	}

	prog, err := newProgram(vertSrc, fragSrc)
	if err != nil {
		return nil, fmt.Errorf("display: shader: %w", err)
	}

	s := &Sink{win: win, program: prog}
	s.texLoc = gl.GetUniformLocation(prog, gl.Str("tex\x00"))

	gl.GenVertexArrays(1, &s.vao)
	gl.GenBuffers(1, &s.vbo)
	gl.BindVertexArray(s.vao)
	gl.BindBuffer(gl.ARRAY_BUFFER, s.vbo)
	gl.BufferData(gl.ARRAY_BUFFER, len(quadVerts)*4, gl.Ptr(&quadVerts[0]), gl.STATIC_DRAW)

	stride := int32(4 * 4)
	gl.EnableVertexAttribArray(0)
	gl.VertexAttribPointer(0, 2, gl.FLOAT, false, stride, gl.PtrOffset(0))
	gl.EnableVertexAttribArray(1)
	gl.VertexAttribPointer(1, 2, gl.FLOAT, false, stride, gl.PtrOffset(2*4))
	gl.BindVertexArray(0)

	gl.GenTextures(1, &s.texID)
	gl.BindTexture(gl.TEXTURE_2D, s.texID)
	gl.TexParameteri(gl.TEXTURE_2D, gl.TEXTURE_MIN_FILTER, gl.LINEAR)
	gl.TexParameteri(gl.TEXTURE_2D, gl.TEXTURE_MAG_FILTER, gl.LINEAR)
	gl.TexParameteri(gl.TEXTURE_2D, gl.TEXTURE_WRAP_S, gl.CLAMP_TO_EDGE)
	gl.TexParameteri(gl.TEXTURE_2D, gl.TEXTURE_WRAP_T, gl.CLAMP_TO_EDGE)
	gl.BindTexture(gl.TEXTURE_2D, 0)

	return s, nil
}

// Present uploads buf.LDR to the texture and draws the blit quad.
func (s *Sink) Present(buf *image.Buffer, clear core.Color) {
	w, h := s.win.GetFramebufferSize()
	gl.Viewport(0, 0, int32(w), int32(h))
	gl.ClearColor(clear.R, clear.G, clear.B, clear.A)
	gl.Clear(gl.COLOR_BUFFER_BIT)

	gl.BindTexture(gl.TEXTURE_2D, s.texID)
	if s.w != buf.Size.W || s.h != buf.Size.H {
		gl.TexImage2D(gl.TEXTURE_2D, 0, gl.RGB, int32(buf.Size.W), int32(buf.Size.H), 0,
			gl.RGB, gl.UNSIGNED_BYTE, gl.Ptr(&buf.LDR[0]))
		s.w, s.h = buf.Size.W, buf.Size.H
	} else {
		gl.TexSubImage2D(gl.TEXTURE_2D, 0, 0, 0, int32(buf.Size.W), int32(buf.Size.H),
			gl.RGB, gl.UNSIGNED_BYTE, gl.Ptr(&buf.LDR[0]))
	}

	gl.UseProgram(s.program)
	gl.Uniform1i(s.texLoc, 0)
	gl.ActiveTexture(gl.TEXTURE0)
	gl.BindVertexArray(s.vao)
	gl.DrawArrays(gl.TRIANGLE_STRIP, 0, 4)
	gl.BindVertexArray(0)

	s.win.SwapBuffers()
}

// Close releases GL objects.
func (s *Sink) Close() {
	gl.DeleteTextures(1, &s.texID)
	gl.DeleteBuffers(1, &s.vbo)
	gl.DeleteVertexArrays(1, &s.vao)
	gl.DeleteProgram(s.program)
}

func newProgram(vertSrc, fragSrc string) (uint32, error) {
	vert, err := compileShader(vertSrc, gl.VERTEX_SHADER)
	if err != nil {
		return 0, fmt.Errorf("vertex: %w", err)
	}
	frag, err := compileShader(fragSrc, gl.FRAGMENT_SHADER)
	if err != nil {
		return 0, fmt.Errorf("fragment: %w", err)
	}

	prog := gl.CreateProgram()
	gl.AttachShader(prog, vert)
	gl.AttachShader(prog, frag)
	gl.LinkProgram(prog)

	var status int32
	gl.GetProgramiv(prog, gl.LINK_STATUS, &status)
	if status == gl.FALSE {
		var logLen int32
		gl.GetProgramiv(prog, gl.INFO_LOG_LENGTH, &logLen)
		log := strings.Repeat("\x00", int(logLen+1))
		gl.GetProgramInfoLog(prog, logLen, nil, gl.Str(log))
		return 0, fmt.Errorf("link: %s", log)
	}

	gl.DeleteShader(vert)
	gl.DeleteShader(frag)
	return prog, nil
}

func compileShader(src string, kind uint32) (uint32, error) {
	shader := gl.CreateShader(kind)
	csource, free := gl.Strs(src)
	gl.ShaderSource(shader, 1, csource, nil)
	free()
	gl.CompileShader(shader)

	var status int32
	gl.GetShaderiv(shader, gl.COMPILE_STATUS, &status)
	if status == gl.FALSE {
		var logLen int32
		gl.GetShaderiv(shader, gl.INFO_LOG_LENGTH, &logLen)
		log := strings.Repeat("\x00", int(logLen+1))
		gl.GetShaderInfoLog(shader, logLen, nil, gl.Str(log))
		return 0, fmt.Errorf("compile: %s", log)
	}
	return shader, nil
}

var _ = unsafe.Pointer(nil)
