package convert

import (
	"errors"
	"fmt"
	"os"

	"github.com/bartdeboer/mtsconv/internal/ffmpeg"
)

// errSourceKept marks a conversion that succeeded but whose source could
// not be removed. The destination is complete and is kept.
var errSourceKept = errors.New("converted")

// Worker converts one WorkItem at a time.
type Worker struct {
	Transcoder ffmpeg.Transcoder

	// remove deletes a file; os.Remove unless replaced in tests.
	remove func(string) error
}

// NewWorker returns a Worker running t.
func NewWorker(t ffmpeg.Transcoder) *Worker {
	return &Worker{Transcoder: t, remove: os.Remove}
}

// Convert runs the transcoder for item and removes the source only when
// the transcoder succeeded. Every problem, including a panic in the
// transcoder, becomes the returned Outcome.
//
// A destination left behind by a failed run is removed unless it existed
// before the run started.
func (w *Worker) Convert(item WorkItem) (out Outcome) {
	existed := exists(item.Destination)

	defer func() {
		if r := recover(); r != nil {
			out = Outcome{Kind: OtherFailure, Item: item, Err: fmt.Errorf("panic: %v", r)}
		}
		if out.Failed() && !existed && !errors.Is(out.Err, errSourceKept) {
			_ = w.removeFile(item.Destination)
		}
	}()

	if err := w.Transcoder.Transcode(item.Source, item.Destination); err != nil {
		return outcomeFor(item, err)
	}

	if err := w.removeFile(item.Source); err != nil {
		return Outcome{
			Kind: OtherFailure,
			Item: item,
			Err:  fmt.Errorf("%w to %s but %w", errSourceKept, item.Destination, err),
		}
	}
	return Outcome{Kind: Success, Item: item}
}

func (w *Worker) removeFile(path string) error {
	if w.remove == nil {
		return os.Remove(path)
	}
	return w.remove(path)
}

func exists(path string) bool {
	_, err := os.Lstat(path)
	return err == nil
}
