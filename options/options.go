package options

import (
	"errors"
	"fmt"
	"math"
	"os"
)

// Codecs accepted by Options.Codec.
const (
	CodecH264 = "h264"
	CodecHEVC = "hevc"
)

// FFMPEGEnv names the environment variable that supplies the ffmpeg path
// when none is given on the command line.
const FFMPEGEnv = "MANDELBULB_FFMPEG"

// Options carries the command line settings. Fields a command does not
// register stay nil and are skipped by Validate.
type Options struct {
	Width      *int
	Height     *int
	FPS        *int
	Duration   *float64
	Time       *float64 // still: animation time to render at
	OutputFile *string
	FFMPEGPath *string
	Codec      *string
	CPU        *bool // record: render frames with the CPU raymarcher instead of OpenGL
	Workers    *int  // CPU render goroutines; 0 uses one per CPU
}

// Validate reports the first setting that cannot be rendered with.
func (o *Options) Validate() error {
	if o.Width != nil && *o.Width <= 0 {
		return fmt.Errorf("width must be positive, got %d", *o.Width)
	}
	if o.Height != nil && *o.Height <= 0 {
		return fmt.Errorf("height must be positive, got %d", *o.Height)
	}
	if o.FPS != nil && *o.FPS <= 0 {
		return fmt.Errorf("fps must be positive, got %d", *o.FPS)
	}
	if o.Duration != nil && (*o.Duration <= 0 || math.IsInf(*o.Duration, 0) || math.IsNaN(*o.Duration)) {
		return fmt.Errorf("duration must be a positive number of seconds, got %g", *o.Duration)
	}
	if o.Time != nil && (*o.Time < 0 || math.IsInf(*o.Time, 0) || math.IsNaN(*o.Time)) {
		return fmt.Errorf("time must be a non-negative number of seconds, got %g", *o.Time)
	}
	if o.OutputFile != nil && *o.OutputFile == "" {
		return errors.New("output file must not be empty")
	}
	if o.Codec != nil && *o.Codec != CodecH264 && *o.Codec != CodecHEVC {
		return fmt.Errorf("unknown codec %q (want %s or %s)", *o.Codec, CodecH264, CodecHEVC)
	}
	if o.Workers != nil && *o.Workers < 0 {
		return fmt.Errorf("workers must not be negative, got %d", *o.Workers)
	}
	return nil
}

// TotalFrames is the number of frames a recording of Duration at FPS holds.
func (o *Options) TotalFrames() int {
	if o.Duration == nil || o.FPS == nil {
		return 0
	}
	return int(*o.Duration * float64(*o.FPS))
}

// ResolveFFMPEGPath fills an empty FFMPEGPath from FFMPEGEnv.
func (o *Options) ResolveFFMPEGPath() {
	if o.FFMPEGPath != nil && *o.FFMPEGPath == "" {
		*o.FFMPEGPath = os.Getenv(FFMPEGEnv)
	}
}
