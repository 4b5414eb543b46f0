package quad

import (
	"math"
	"testing"

	"github.com/go-gl/mathgl/mgl32"
)

func TestViewCentreMapsToPlaneCentre(t *testing.T) {
	v := NewView(DefaultCamera(), PlaneSize, 800, 600)

	uv, ok := v.UV(400, 300)
	if !ok {
		t.Fatal("expected centre of viewport to land on the plane")
	}
	if !uv.ApproxEqualThreshold(mgl32.Vec2{0.5, 0.5}, 1e-4) {
		t.Errorf("expected (0.5, 0.5), got %v", uv)
	}
}

func TestViewScale(t *testing.T) {
	tests := []struct {
		width, height int
	}{
		{800, 600},
		{1280, 720},
		{600, 800},
	}

	for _, tt := range tests {
		v := NewView(DefaultCamera(), PlaneSize, tt.width, tt.height)
		halfHeight := math.Tan(37.5*math.Pi/180) * 5 / float64(PlaneSize)
		want := mgl32.Vec2{
			float32(halfHeight * float64(tt.width) / float64(tt.height)),
			float32(halfHeight),
		}
		if got := v.Scale(); !got.ApproxEqualThreshold(want, 1e-3) {
			t.Errorf("%dx%d: expected scale %v, got %v", tt.width, tt.height, want, got)
		}
	}
}

func TestViewIsLinearInWindowPosition(t *testing.T) {
	v := NewView(DefaultCamera(), PlaneSize, 640, 480)
	s := v.Scale()

	uv, ok := v.UV(160, 360)
	if !ok {
		t.Fatal("expected position to land on the plane")
	}
	want := mgl32.Vec2{0.5 - 0.5*s[0], 0.5 + 0.5*s[1]}
	if !uv.ApproxEqualThreshold(want, 1e-3) {
		t.Errorf("expected %v, got %v", want, uv)
	}
}

func TestViewOffPlane(t *testing.T) {
	// A very wide viewport sees past the plane's left and right edges.
	v := NewView(DefaultCamera(), PlaneSize, 8000, 100)
	if _, ok := v.PixelUV(0, 50); ok {
		t.Error("expected far-left pixel to miss the plane")
	}
	if _, ok := v.PixelUV(4000, 50); !ok {
		t.Error("expected centre pixel to hit the plane")
	}
}
