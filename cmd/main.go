package main

import (
	"context"
	"errors"
	"fmt"
	"image/png"
	"log"
	"os"
	"os/signal"
	"runtime"

	"github.com/richinsley/gomandelbulb/animation"
	"github.com/richinsley/gomandelbulb/fractal"
	"github.com/richinsley/gomandelbulb/glfwcontext"
	"github.com/richinsley/gomandelbulb/graphics"
	"github.com/richinsley/gomandelbulb/headless"
	"github.com/richinsley/gomandelbulb/options"
	"github.com/richinsley/gomandelbulb/renderer"
	"github.com/spf13/cobra"
)

func init() {
	// GLFW and OpenGL calls must come from the main thread.
	runtime.LockOSThread()
}

func mainCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "mandelbulb",
		Short: "Raymarch an animated Mandelbulb fractal",
	}
	cmd.AddCommand(viewCmd(), recordCmd(), stillCmd())
	return cmd
}

func viewCmd() *cobra.Command {
	opts := &options.Options{}
	cmd := &cobra.Command{
		Use:   "view",
		Short: "Open an interactive window (mouse pans, w/a/s/d move, Esc quits)",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			if err := opts.Validate(); err != nil {
				return err
			}
			cmd.SilenceUsage = true
			return runView(cmd.Context(), opts)
		},
	}
	opts.Width = cmd.Flags().Int("width", 1280, "Window width")
	opts.Height = cmd.Flags().Int("height", 720, "Window height")
	return cmd
}

func recordCmd() *cobra.Command {
	opts := &options.Options{}
	cmd := &cobra.Command{
		Use:   "record",
		Short: "Render offscreen and encode to a video file with ffmpeg",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			opts.ResolveFFMPEGPath()
			if err := opts.Validate(); err != nil {
				return err
			}
			cmd.SilenceUsage = true
			return runRecord(cmd.Context(), opts)
		},
	}
	opts.Duration = cmd.Flags().Float64("duration", 10.0, "Duration to record in seconds")
	opts.FPS = cmd.Flags().Int("fps", 60, "Frames per second for recording")
	opts.Width = cmd.Flags().Int("width", 1280, "Width of the output")
	opts.Height = cmd.Flags().Int("height", 720, "Height of the output")
	opts.OutputFile = cmd.Flags().String("output", "output.mp4", "Output file name for recording")
	opts.Codec = cmd.Flags().String("codec", options.CodecH264, "Video codec (h264 or hevc)")
	opts.FFMPEGPath = cmd.Flags().String("ffmpeg", "", "Path to ffmpeg executable (MANDELBULB_FFMPEG env var if not set)")
	opts.CPU = cmd.Flags().Bool("cpu", false, "Render frames on the CPU instead of OpenGL")
	opts.Workers = cmd.Flags().Int("workers", 0, "CPU render goroutines (0 uses one per CPU)")
	return cmd
}

func stillCmd() *cobra.Command {
	opts := &options.Options{}
	cmd := &cobra.Command{
		Use:   "still",
		Short: "Render a single frame on the CPU to a PNG",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			if err := opts.Validate(); err != nil {
				return err
			}
			cmd.SilenceUsage = true
			return runStill(cmd.Context(), opts)
		},
	}
	opts.Time = cmd.Flags().Float64("time", 0, "Animation time in seconds")
	opts.Width = cmd.Flags().Int("width", 1280, "Width of the image")
	opts.Height = cmd.Flags().Int("height", 720, "Height of the image")
	opts.OutputFile = cmd.Flags().String("output", "mandelbulb.png", "Output PNG file")
	opts.Workers = cmd.Flags().Int("workers", 0, "Render goroutines (0 uses one per CPU)")
	return cmd
}

func runView(ctx context.Context, opts *options.Options) error {
	if err := glfwcontext.InitGraphics(); err != nil {
		return fmt.Errorf("failed to initialize graphics: %w", err)
	}
	defer glfwcontext.TerminateGraphics()

	win, err := glfwcontext.New(*opts.Width, *opts.Height, true, "Mandelbulb")
	if err != nil {
		return fmt.Errorf("failed to create window: %w", err)
	}
	defer win.Shutdown()

	r, err := renderer.NewRenderer(win, *opts.Width, *opts.Height, false)
	if err != nil {
		return err
	}
	defer r.Shutdown()

	if err := r.InitScene(); err != nil {
		return fmt.Errorf("failed to initialize scene: %w", err)
	}

	log.Println("Starting interactive render loop...")
	r.Run(ctx, animation.NewDriver())
	return nil
}

func runRecord(ctx context.Context, opts *options.Options) error {
	if *opts.CPU {
		if err := renderer.RecordCPU(ctx, opts); err != nil {
			return err
		}
		log.Printf("Successfully rendered to %s", *opts.OutputFile)
		return nil
	}

	glCtx, cleanup, err := offscreenContext(*opts.Width, *opts.Height)
	if err != nil {
		return err
	}
	defer cleanup()

	r, err := renderer.NewRenderer(glCtx, *opts.Width, *opts.Height, true)
	if err != nil {
		return err
	}
	defer r.Shutdown()

	if err := r.InitScene(); err != nil {
		return fmt.Errorf("failed to initialize scene: %w", err)
	}

	if err := r.RunRecord(ctx, opts); err != nil {
		return fmt.Errorf("offscreen rendering failed: %w", err)
	}
	log.Printf("Successfully rendered to %s", *opts.OutputFile)
	return nil
}

// offscreenContext prefers an EGL pbuffer and falls back to a hidden GLFW
// window where EGL is unavailable.
func offscreenContext(width, height int) (graphics.Context, func(), error) {
	ctx, err := headless.NewHeadless(width, height)
	if err == nil {
		return ctx, ctx.Shutdown, nil
	}
	if !errors.Is(err, headless.ErrUnsupported) {
		log.Printf("Headless context unavailable (%v), using a hidden window", err)
	}

	if err := glfwcontext.InitGraphics(); err != nil {
		return nil, nil, fmt.Errorf("failed to initialize graphics: %w", err)
	}
	win, err := glfwcontext.New(width, height, false, "Mandelbulb")
	if err != nil {
		glfwcontext.TerminateGraphics()
		return nil, nil, fmt.Errorf("failed to create hidden window: %w", err)
	}
	return win, func() {
		win.Shutdown()
		glfwcontext.TerminateGraphics()
	}, nil
}

func runStill(ctx context.Context, opts *options.Options) error {
	d := animation.NewDriver()
	d.MouseMove(float64(*opts.Width)/2, float64(*opts.Height)/2, *opts.Width, *opts.Height)
	u := d.Update(*opts.Time, *opts.Width, *opts.Height)

	log.Printf("Rendering %dx%d at t=%gs...", *opts.Width, *opts.Height, *opts.Time)
	img, err := fractal.Render(ctx, u, *opts.Width, *opts.Height, *opts.Workers)
	if err != nil {
		return fmt.Errorf("failed to render: %w", err)
	}

	f, err := os.Create(*opts.OutputFile)
	if err != nil {
		return fmt.Errorf("failed to create %s: %w", *opts.OutputFile, err)
	}
	if err := png.Encode(f, img); err != nil {
		f.Close()
		return fmt.Errorf("failed to encode png: %w", err)
	}
	if err := f.Close(); err != nil {
		return err
	}
	log.Printf("Wrote %s", *opts.OutputFile)
	return nil
}

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	if err := mainCmd().ExecuteContext(ctx); err != nil {
		stop()
		os.Exit(1)
	}
}
