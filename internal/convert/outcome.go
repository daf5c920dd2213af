package convert

import (
	"errors"

	"github.com/rs/zerolog"

	"github.com/bartdeboer/mtsconv/internal/ffmpeg"
)

// Kind classifies how a WorkItem ended.
type Kind int

const (
	// Success means ffmpeg exited zero and the source was removed.
	Success Kind = iota
	// ToolFailure means ffmpeg ran and exited non-zero.
	ToolFailure
	// ToolMissing means ffmpeg could not be found or started.
	ToolMissing
	// OtherFailure covers everything else, including a source that could
	// not be removed after a successful conversion.
	OtherFailure
)

func (k Kind) String() string {
	switch k {
	case Success:
		return "success"
	case ToolFailure:
		return "tool failure"
	case ToolMissing:
		return "tool missing"
	case OtherFailure:
		return "other failure"
	default:
		return "unknown"
	}
}

// Outcome is the terminal result of one WorkItem.
type Outcome struct {
	Kind Kind
	Item WorkItem
	Err  error
}

// Failed reports whether the outcome is any failure kind.
func (o Outcome) Failed() bool {
	return o.Kind != Success
}

// outcomeFor classifies err returned while converting item.
func outcomeFor(item WorkItem, err error) Outcome {
	var exitErr *ffmpeg.ExitError
	switch {
	case err == nil:
		return Outcome{Kind: Success, Item: item}
	case errors.Is(err, ffmpeg.ErrToolMissing):
		return Outcome{Kind: ToolMissing, Item: item, Err: err}
	case errors.As(err, &exitErr):
		return Outcome{Kind: ToolFailure, Item: item, Err: err}
	default:
		return Outcome{Kind: OtherFailure, Item: item, Err: err}
	}
}

// Log writes the outcome as a single line: INFO for success, ERROR for
// every failure.
func (o Outcome) Log(log zerolog.Logger) {
	switch o.Kind {
	case Success:
		log.Info().Msgf("Converted %s to %s", o.Item.Source, o.Item.Destination)
	case ToolFailure:
		log.Error().Msgf("Error converting %s: %v", o.Item.Source, o.Err)
	case ToolMissing:
		log.Error().Msgf("ffmpeg not found while converting %s. Please install ffmpeg.", o.Item.Source)
	default:
		log.Error().Msgf("An error occurred converting %s: %v", o.Item.Source, o.Err)
	}
}
