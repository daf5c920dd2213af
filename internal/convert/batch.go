package convert

import (
	"context"
	"errors"
	"fmt"
	"path/filepath"
	"sync/atomic"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/bartdeboer/mtsconv/internal/pool"
)

// ErrDuplicateDestination is recorded for a source whose destination was
// already claimed by another source earlier in the same batch.
var ErrDuplicateDestination = errors.New("destination already claimed")

// Summary counts what a batch did.
type Summary struct {
	ID        string
	Submitted int
	Converted int
	Failed    int
	// Dropped counts files that were queued but never started because the
	// batch was interrupted.
	Dropped     int
	Interrupted bool
}

// Batch converts every matching file below a root directory.
type Batch struct {
	Scanner Scanner
	Worker  *Worker
	Log     zerolog.Logger

	// Workers is the number of conversions run at once. Defaults to
	// pool.DefaultWorkers.
	Workers int
}

// Run scans root and converts each file found on the worker pool. It
// returns once every submitted file has an outcome, or as soon as ctx is
// cancelled. On cancellation no further files are started, files already
// converting are left running, and a single interruption line is logged.
//
// Each destination belongs to the first source found for it. Later sources
// mapping to the same destination fail without running ffmpeg and are kept.
//
// Only an invalid root is reported as an error. Per-file failures are logged
// and counted in the Summary.
func (b *Batch) Run(ctx context.Context, root string) (Summary, error) {
	workers := b.Workers
	if workers < 1 {
		workers = pool.DefaultWorkers
	}

	sum := Summary{ID: uuid.NewString()}
	b.Log.Info().Msgf("Batch %s started: scanning %s with %d workers", sum.ID, root, workers)

	var converted, failed atomic.Int64
	p := pool.New(ctx, workers)

	claimed := make(map[string]string)
	err := b.Scanner.Scan(ctx, root, func(item WorkItem) error {
		dest := filepath.Clean(item.Destination)
		if owner, ok := claimed[dest]; ok {
			o := Outcome{
				Kind: OtherFailure,
				Item: item,
				Err:  fmt.Errorf("%w: %s is the destination of %s", ErrDuplicateDestination, item.Destination, owner),
			}
			o.Log(b.Log)
			failed.Add(1)
			return nil
		}
		claimed[dest] = item.Source

		err := p.Submit(func() {
			o := b.Worker.Convert(item)
			o.Log(b.Log)
			if o.Failed() {
				failed.Add(1)
			} else {
				converted.Add(1)
			}
		})
		if err != nil {
			return err
		}
		sum.Submitted++
		return nil
	})
	p.Close()
	if errors.Is(err, ErrInvalidRoot) {
		<-p.Done()
		return sum, err
	}
	if err != nil && ctx.Err() == nil && !errors.Is(err, pool.ErrClosed) {
		b.Log.Error().Msgf("An error occurred: %v", err)
	}

	select {
	case <-p.Done():
	case <-ctx.Done():
	}

	if ctx.Err() != nil {
		// Files still converting finish on their own and log their outcome
		// after Run has returned.
		<-p.Stopped()
		sum.Interrupted = true
		sum.Dropped = p.Dropped()
		sum.Converted = int(converted.Load())
		sum.Failed = int(failed.Load())
		b.Log.Info().Msg("Conversion interrupted by user.")
		return sum, nil
	}

	sum.Converted = int(converted.Load())
	sum.Failed = int(failed.Load())

	b.Log.Info().Msgf("Batch %s finished: %d converted, %d failed", sum.ID, sum.Converted, sum.Failed)
	return sum, nil
}
