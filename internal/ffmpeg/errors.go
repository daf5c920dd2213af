package ffmpeg

import (
	"bytes"
	"errors"
	"fmt"
	"io/fs"
	"os/exec"
	"strings"
)

// ErrToolMissing is returned when the ffmpeg binary cannot be located or
// started at all.
var ErrToolMissing = errors.New("ffmpeg not found")

// stderrTailSize bounds how much of ffmpeg's stderr is kept per run. ffmpeg
// writes progress to stderr for the whole encode, only the end is useful.
const stderrTailSize = 4096

// ExitError reports a run in which ffmpeg started but exited non-zero.
type ExitError struct {
	Code   int
	Stderr string // last non-empty line of stderr
	Err    error
}

func (e *ExitError) Error() string {
	msg := fmt.Sprintf("ffmpeg exited with status %d", e.Code)
	if e.Stderr != "" {
		msg += ": " + e.Stderr
	}
	return msg
}

func (e *ExitError) Unwrap() error {
	return e.Err
}

// classify maps the result of running ffmpeg to ErrToolMissing, an
// *ExitError or the error unchanged.
func classify(err error, stderr *tailBuffer) error {
	if err == nil {
		return nil
	}

	var exitErr *exec.ExitError
	if errors.As(err, &exitErr) {
		e := &ExitError{Code: exitErr.ExitCode(), Err: exitErr}
		if stderr != nil {
			e.Stderr = stderr.LastLine()
		}
		return e
	}

	if errors.Is(err, exec.ErrNotFound) ||
		errors.Is(err, fs.ErrNotExist) ||
		errors.Is(err, fs.ErrPermission) {
		return fmt.Errorf("%w: %v", ErrToolMissing, err)
	}

	return err
}

// tailBuffer is an io.Writer that keeps only the last max bytes written.
type tailBuffer struct {
	buf []byte
	max int
}

func newTailBuffer(max int) *tailBuffer {
	return &tailBuffer{max: max}
}

func (t *tailBuffer) Write(p []byte) (int, error) {
	n := len(p)
	if n >= t.max {
		t.buf = append(t.buf[:0], p[n-t.max:]...)
		return n, nil
	}
	t.buf = append(t.buf, p...)
	if over := len(t.buf) - t.max; over > 0 {
		t.buf = append(t.buf[:0], t.buf[over:]...)
	}
	return n, nil
}

func (t *tailBuffer) String() string {
	return string(t.buf)
}

// LastLine returns the last non-empty line. ffmpeg separates progress
// updates with carriage returns, so both \r and \n end a line.
func (t *tailBuffer) LastLine() string {
	lines := bytes.FieldsFunc(t.buf, func(r rune) bool {
		return r == '\n' || r == '\r'
	})
	for i := len(lines) - 1; i >= 0; i-- {
		if line := strings.TrimSpace(string(lines[i])); line != "" {
			return line
		}
	}
	return ""
}
