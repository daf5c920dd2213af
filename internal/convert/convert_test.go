package convert

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/require"

	"github.com/bartdeboer/mtsconv/internal/ffmpeg"
	"github.com/bartdeboer/mtsconv/internal/logging"
)

// stubTranscoder stands in for ffmpeg. It records how many calls run at
// once and, unless fail says otherwise, writes a small output file.
type stubTranscoder struct {
	delay time.Duration
	fail  func(input, output string) error

	calls atomic.Int64
	cur   atomic.Int64
	peak  atomic.Int64
}

func (s *stubTranscoder) Transcode(input, output string) error {
	n := s.cur.Add(1)
	defer s.cur.Add(-1)
	for {
		p := s.peak.Load()
		if n <= p || s.peak.CompareAndSwap(p, n) {
			break
		}
	}
	s.calls.Add(1)

	if s.delay > 0 {
		time.Sleep(s.delay)
	}
	if s.fail != nil {
		if err := s.fail(input, output); err != nil {
			return err
		}
	}
	return os.WriteFile(output, []byte("mp4"), 0o644)
}

func toolMissing(string, string) error {
	return fmt.Errorf("%w: exec: \"ffmpeg\": executable file not found in $PATH", ffmpeg.ErrToolMissing)
}

// partialFailure leaves a truncated output behind before failing, as
// ffmpeg does when it dies mid-encode.
func partialFailure(_, output string) error {
	_ = os.WriteFile(output, []byte("partial"), 0o644)
	return &ffmpeg.ExitError{Code: 1, Stderr: "Conversion failed!"}
}

// refuseExisting fails like ffmpeg run without -y when the output is
// already there.
func refuseExisting(_, output string) error {
	if _, err := os.Stat(output); err == nil {
		return &ffmpeg.ExitError{Code: 1, Stderr: fmt.Sprintf("File '%s' already exists. Exiting.", output)}
	}
	return nil
}

// lockedBuffer is a bytes.Buffer safe to read while workers still write.
type lockedBuffer struct {
	mu  sync.Mutex
	buf bytes.Buffer
}

func (b *lockedBuffer) Write(p []byte) (int, error) {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.buf.Write(p)
}

func (b *lockedBuffer) Lines() []string {
	b.mu.Lock()
	defer b.mu.Unlock()
	s := strings.TrimRight(b.buf.String(), "\n")
	if s == "" {
		return nil
	}
	return strings.Split(s, "\n")
}

func newTestLogger(w io.Writer) zerolog.Logger {
	return logging.NewWithWriter(w)
}

// linesWith returns the log lines that contain all of subs.
func linesWith(lines []string, subs ...string) []string {
	var out []string
	for _, line := range lines {
		ok := true
		for _, s := range subs {
			if !strings.Contains(line, s) {
				ok = false
				break
			}
		}
		if ok {
			out = append(out, line)
		}
	}
	return out
}

func touch(t *testing.T, path string) {
	t.Helper()
	require.NoError(t, os.MkdirAll(filepath.Dir(path), 0o755))
	require.NoError(t, os.WriteFile(path, []byte("data"), 0o644))
}

func fileExists(path string) bool {
	_, err := os.Stat(path)
	return err == nil
}

var errBoom = errors.New("boom")
