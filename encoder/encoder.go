// Package encoder streams raw RGBA frames into an ffmpeg process that writes
// them to a video file.
package encoder

import (
	"errors"
	"fmt"
	"io"
	"log"
	"runtime"
	"strings"
	"sync"

	ffmpeg "github.com/u2takey/ffmpeg-go"
)

// ErrClosed is returned by WriteFrame and Close once the encoder is closed.
var ErrClosed = errors.New("encoder: closed")

var errExited = errors.New("encoder: ffmpeg exited before the last frame")

// numBuffers is how many frames may wait for ffmpeg before WriteFrame blocks.
const numBuffers = 3

// Config describes the video an Encoder produces.
type Config struct {
	Width      int
	Height     int
	FPS        int
	Codec      string // "h264" or "hevc"
	OutputFile string
	FFMPEGPath string // empty uses ffmpeg from PATH
}

// Encoder is the consumer end of a recording. Frames handed to WriteFrame are
// queued and written to ffmpeg's stdin by a single goroutine.
type Encoder struct {
	frameSize int
	frames    chan []byte
	failed    chan struct{}
	done      chan error
	err       error

	mu     sync.Mutex
	closed bool
}

// New starts ffmpeg and returns an Encoder feeding it.
func New(cfg Config) (*Encoder, error) {
	if cfg.Width <= 0 || cfg.Height <= 0 || cfg.FPS <= 0 {
		return nil, fmt.Errorf("invalid encoder geometry %dx%d@%d", cfg.Width, cfg.Height, cfg.FPS)
	}
	if cfg.OutputFile == "" {
		return nil, errors.New("encoder: no output file")
	}

	inputArgs, outputArgs := getArgs(cfg, runtime.GOOS)
	log.Printf("Encoding %dx%d@%d with %v to %s", cfg.Width, cfg.Height, cfg.FPS, outputArgs["c:v"], cfg.OutputFile)

	pipeReader, pipeWriter := io.Pipe()
	ffmpegCmd := ffmpeg.Input("pipe:", inputArgs).
		Output(cfg.OutputFile, outputArgs).
		OverWriteOutput().WithInput(pipeReader).ErrorToStdOut()

	if cfg.FFMPEGPath != "" {
		ffmpegCmd = ffmpegCmd.SetFfmpegPath(cfg.FFMPEGPath)
	}

	e := &Encoder{
		frameSize: cfg.Width * cfg.Height * 4,
		frames:    make(chan []byte, numBuffers),
		failed:    make(chan struct{}),
		done:      make(chan error, 1),
	}

	errc := make(chan error, 1)
	go func() {
		err := ffmpegCmd.Run()
		// Unblock the writer if ffmpeg stopped reading.
		if err != nil {
			pipeReader.CloseWithError(fmt.Errorf("ffmpeg: %w", err))
		} else {
			pipeReader.CloseWithError(errExited)
		}
		errc <- err
	}()
	go e.run(pipeWriter, errc)

	return e, nil
}

// run drains the frame queue into ffmpeg. After a write error it keeps
// draining so producers never block on a dead process.
func (e *Encoder) run(w *io.PipeWriter, errc <-chan error) {
	var writeErr error
	for frame := range e.frames {
		if writeErr != nil {
			continue
		}
		if _, err := w.Write(frame); err != nil {
			writeErr = fmt.Errorf("failed to write frame to ffmpeg: %w", err)
			e.err = writeErr
			close(e.failed)
		}
	}
	w.Close()

	if runErr := <-errc; runErr != nil {
		e.done <- fmt.Errorf("ffmpeg failed: %w", runErr)
		return
	}
	e.done <- writeErr
}

// WriteFrame queues one top-down RGBA frame of Width*Height*4 bytes. The
// encoder takes ownership of pixels.
func (e *Encoder) WriteFrame(pixels []byte) error {
	if len(pixels) != e.frameSize {
		return fmt.Errorf("frame is %d bytes, expected %d", len(pixels), e.frameSize)
	}

	e.mu.Lock()
	defer e.mu.Unlock()
	if e.closed {
		return ErrClosed
	}

	select {
	case <-e.failed:
		return e.err
	case e.frames <- pixels:
		return nil
	}
}

// Close flushes the queued frames, waits for ffmpeg to finish the file and
// reports the first failure.
func (e *Encoder) Close() error {
	e.mu.Lock()
	if e.closed {
		e.mu.Unlock()
		return ErrClosed
	}
	e.closed = true
	close(e.frames)
	e.mu.Unlock()

	return <-e.done
}

// getArgs builds the ffmpeg arguments for a rawvideo RGBA stream on stdin.
func getArgs(cfg Config, goos string) (inputArgs ffmpeg.KwArgs, outputArgs ffmpeg.KwArgs) {
	inputArgs = ffmpeg.KwArgs{
		"f":       "rawvideo",
		"pix_fmt": "rgba",
		"s":       fmt.Sprintf("%dx%d", cfg.Width, cfg.Height),
		"r":       cfg.FPS,
	}

	outputArgs = ffmpeg.KwArgs{
		"pix_fmt": "yuv420p",
	}

	hevc := cfg.Codec == "hevc"
	switch goos {
	case "darwin":
		if hevc {
			outputArgs["c:v"] = "hevc_videotoolbox"
		} else {
			outputArgs["c:v"] = "h264_videotoolbox"
		}
		outputArgs["b:v"] = "25M"
	default:
		if hevc {
			outputArgs["c:v"] = "libx265"
		} else {
			outputArgs["c:v"] = "libx264"
		}
		outputArgs["crf"] = 18
	}

	if hevc && strings.HasSuffix(strings.ToLower(cfg.OutputFile), ".mp4") {
		outputArgs["tag:v"] = "hvc1"
	}
	return
}
