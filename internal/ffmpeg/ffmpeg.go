// Package ffmpeg runs the external ffmpeg binary that performs the actual
// re-encoding of camcorder files.
package ffmpeg

import (
	"os/exec"
	"path/filepath"
	"runtime"
)

// Fixed output codecs.
const (
	VideoCodec = "h264"
	AudioCodec = "aac"
)

// Transcoder converts a single input file into an output file. A nil error
// means the tool reported success; no validation of the output is done.
type Transcoder interface {
	Transcode(input, output string) error
}

// FFmpeg is the Transcoder backed by the ffmpeg executable.
type FFmpeg struct {
	// Path is the directory containing the ffmpeg binary. When empty the
	// binary is looked up on PATH each time it is run.
	Path string
}

// New returns an FFmpeg transcoder using the binary found in path, or on
// PATH when path is empty.
func New(path string) *FFmpeg {
	return &FFmpeg{Path: path}
}

// Command returns the name or location of the ffmpeg binary.
func (f *FFmpeg) Command() string {
	name := "ffmpeg"
	if runtime.GOOS == "windows" {
		name = "ffmpeg.exe"
	}
	if f.Path != "" {
		return filepath.Join(f.Path, name)
	}
	return name
}

// Args returns the ffmpeg arguments for converting input to output.
func Args(input, output string) []string {
	return []string{
		"-i", input,
		"-c:v", VideoCodec,
		"-c:a", AudioCodec,
		output,
	}
}

// Transcode runs ffmpeg once for input and output. The process is not tied
// to any context: once started it runs to completion.
//
// A binary that cannot be found or started yields an error wrapping
// ErrToolMissing. A non-zero exit yields an *ExitError.
func (f *FFmpeg) Transcode(input, output string) error {
	stderr := newTailBuffer(stderrTailSize)

	cmd := exec.Command(f.Command(), Args(input, output)...)
	cmd.Stderr = stderr

	return classify(cmd.Run(), stderr)
}
