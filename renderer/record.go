package renderer

import (
	"context"
	"fmt"
	"log"
	"time"

	"github.com/richinsley/gomandelbulb/animation"
	"github.com/richinsley/gomandelbulb/encoder"
	"github.com/richinsley/gomandelbulb/fractal"
	"github.com/richinsley/gomandelbulb/inputs"
	"github.com/richinsley/gomandelbulb/options"
)

// renderFunc produces one top-down RGBA frame for u.
type renderFunc func(u inputs.Uniforms) ([]byte, error)

// RunRecord renders opts.TotalFrames frames offscreen with OpenGL and
// encodes them.
func (r *Renderer) RunRecord(ctx context.Context, opts *options.Options) error {
	log.Println("Starting GPU record mode...")
	return record(ctx, opts, func(u inputs.Uniforms) ([]byte, error) {
		r.RenderFrame(u)
		return r.offscreenRenderer.ReadPixels(), nil
	})
}

// RecordCPU renders the frames with the CPU raymarcher and encodes them. It
// needs no graphics context.
func RecordCPU(ctx context.Context, opts *options.Options) error {
	log.Println("Starting CPU record mode...")
	workers := 0
	if opts.Workers != nil {
		workers = *opts.Workers
	}
	return record(ctx, opts, func(u inputs.Uniforms) ([]byte, error) {
		img, err := fractal.Render(ctx, u, *opts.Width, *opts.Height, workers)
		if err != nil {
			return nil, err
		}
		return img.Pix, nil
	})
}

// record is the producer: it advances a driver on simulated time i/fps with
// the pointer resting at the centre, renders each frame and hands it to the
// encoder.
func record(ctx context.Context, opts *options.Options, render renderFunc) error {
	width, height, fps := *opts.Width, *opts.Height, *opts.FPS

	cfg := encoder.Config{
		Width:      width,
		Height:     height,
		FPS:        fps,
		OutputFile: *opts.OutputFile,
	}
	if opts.Codec != nil {
		cfg.Codec = *opts.Codec
	}
	if opts.FFMPEGPath != nil {
		cfg.FFMPEGPath = *opts.FFMPEGPath
	}
	enc, err := encoder.New(cfg)
	if err != nil {
		return fmt.Errorf("failed to start encoder: %w", err)
	}

	d := animation.NewDriver()
	d.MouseMove(float64(width)/2, float64(height)/2, width, height)

	totalFrames := opts.TotalFrames()
	timeStep := 1.0 / float64(fps)
	start := time.Now()

	for i := 0; i < totalFrames; i++ {
		if err := ctx.Err(); err != nil {
			enc.Close()
			return err
		}

		u := d.Update(float64(i)*timeStep, width, height)
		pixels, err := render(u)
		if err != nil {
			enc.Close()
			return fmt.Errorf("failed to render frame %d: %w", i, err)
		}
		if err := enc.WriteFrame(pixels); err != nil {
			enc.Close()
			return fmt.Errorf("failed to encode frame %d: %w", i, err)
		}

		if (i+1)%fps == 0 {
			log.Printf("Rendered %d/%d frames", i+1, totalFrames)
		}
	}

	if err := enc.Close(); err != nil {
		return err
	}
	log.Printf("Recorded %d frames in %s", totalFrames, time.Since(start).Round(time.Millisecond))
	return nil
}
