package fractal

import (
	"context"
	"image"
	"image/color"
	"runtime"

	"github.com/go-gl/mathgl/mgl32"
	"github.com/richinsley/gomandelbulb/inputs"
	"github.com/richinsley/gomandelbulb/quad"
	"golang.org/x/sync/errgroup"
)

// rowsPerTask is how many image rows one worker shades per task.
const rowsPerTask = 16

// Render shades every pixel of a width x height frame on the CPU, framing
// the plane with the default camera. workers <= 0 uses one worker per CPU.
func Render(ctx context.Context, u inputs.Uniforms, width, height, workers int) (*image.NRGBA, error) {
	view := quad.NewView(quad.DefaultCamera(), quad.PlaneSize, width, height)
	img := image.NewNRGBA(image.Rect(0, 0, width, height))

	if workers <= 0 {
		workers = runtime.NumCPU()
	}

	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(workers)

	for y0 := 0; y0 < height; y0 += rowsPerTask {
		y1 := min(y0+rowsPerTask, height)
		g.Go(func() error {
			for y := y0; y < y1; y++ {
				if err := ctx.Err(); err != nil {
					return err
				}
				for x := 0; x < width; x++ {
					c := Background
					if uv, ok := view.PixelUV(x, y); ok {
						c = Shade(uv, &u)
					}
					img.SetNRGBA(x, y, toNRGBA(c))
				}
			}
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return nil, err
	}
	return img, nil
}

func toNRGBA(c mgl32.Vec4) color.NRGBA {
	return color.NRGBA{
		R: channel(c[0]),
		G: channel(c[1]),
		B: channel(c[2]),
		A: channel(c[3]),
	}
}

func channel(v float32) uint8 {
	return uint8(mgl32.Clamp(v, 0, 1)*255 + 0.5)
}
