package shader

import (
	"strings"
	"testing"
)

func TestGetFragmentShader(t *testing.T) {
	src, err := GetFragmentShader()
	if err != nil {
		t.Fatal(err)
	}

	if !strings.HasPrefix(src, "#version 300 es") {
		t.Errorf("expected WebGL2 version line, got %q", strings.SplitN(src, "\n", 2)[0])
	}

	for _, want := range []string{
		"const int   Iterations   = 12;",
		"const float Bailout      = 2.0;",
		"const int   MaxSteps     = 128;",
		"const float HitThreshold = 0.001;",
		"const float NormalOffset = 0.001;",
		"const float MaxDistance  = 100.0;",
		"clamp(diff * lightColor, 0.5, 1.0)",
	} {
		if !strings.Contains(src, want) {
			t.Errorf("expected shader to contain %q", want)
		}
	}

	for _, name := range Uniforms() {
		if !strings.Contains(src, " "+name+";") {
			t.Errorf("expected uniform %s to be declared", name)
		}
	}

	if strings.Contains(src, "{{") {
		t.Error("unexpanded template action left in shader")
	}
}

func TestGLSLFloat(t *testing.T) {
	tests := []struct {
		in   float32
		want string
	}{
		{2, "2.0"},
		{100, "100.0"},
		{0.001, "0.001"},
		{0.5, "0.5"},
	}
	for _, tt := range tests {
		if got := glslFloat(tt.in); got != tt.want {
			t.Errorf("glslFloat(%v) = %q, expected %q", tt.in, got, tt.want)
		}
	}
}

func TestVertexShaderDialects(t *testing.T) {
	if !strings.HasPrefix(GenerateVertexShader(false), "#version 410 core") {
		t.Error("expected desktop vertex shader")
	}
	if !strings.HasPrefix(GenerateVertexShader(true), "#version 300 es") {
		t.Error("expected GLES vertex shader")
	}
}
