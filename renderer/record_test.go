package renderer

import (
	"context"
	"os"
	"path/filepath"
	"runtime"
	"testing"

	"github.com/richinsley/gomandelbulb/options"
)

// captureFFMPEG writes a stand-in ffmpeg that copies its stdin to capture.
func captureFFMPEG(t *testing.T, capture string) string {
	t.Helper()
	if runtime.GOOS == "windows" {
		t.Skip("shell script ffmpeg stand-in needs a POSIX shell")
	}
	path := filepath.Join(t.TempDir(), "ffmpeg")
	script := "#!/bin/sh\ncat > '" + capture + "'\n"
	if err := os.WriteFile(path, []byte(script), 0o755); err != nil {
		t.Fatal(err)
	}
	return path
}

func TestRecordCPU(t *testing.T) {
	capture := filepath.Join(t.TempDir(), "frames.rgba")
	t.Setenv(options.FFMPEGEnv, captureFFMPEG(t, capture))

	width, height, fps := 8, 8, 2
	duration := 1.0
	output := filepath.Join(t.TempDir(), "out.mp4")
	codec := options.CodecH264
	ffmpegPath := ""
	workers := 1
	opts := &options.Options{
		Width:      &width,
		Height:     &height,
		FPS:        &fps,
		Duration:   &duration,
		OutputFile: &output,
		Codec:      &codec,
		FFMPEGPath: &ffmpegPath,
		Workers:    &workers,
	}
	opts.ResolveFFMPEGPath()

	if err := RecordCPU(context.Background(), opts); err != nil {
		t.Fatalf("expected recording to succeed, got %v", err)
	}

	data, err := os.ReadFile(capture)
	if err != nil {
		t.Fatal(err)
	}
	frameSize := width * height * 4
	if len(data) != opts.TotalFrames()*frameSize {
		t.Fatalf("expected %d frames of %d bytes, got %d bytes", opts.TotalFrames(), frameSize, len(data))
	}
}

func TestRecordCPUCancelled(t *testing.T) {
	capture := filepath.Join(t.TempDir(), "frames.rgba")
	ffmpegPath := captureFFMPEG(t, capture)

	width, height, fps := 8, 8, 2
	duration := 5.0
	output := filepath.Join(t.TempDir(), "out.mp4")
	opts := &options.Options{
		Width:      &width,
		Height:     &height,
		FPS:        &fps,
		Duration:   &duration,
		OutputFile: &output,
		FFMPEGPath: &ffmpegPath,
	}

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	if err := RecordCPU(ctx, opts); err == nil {
		t.Error("expected a cancelled recording to fail")
	}
}
