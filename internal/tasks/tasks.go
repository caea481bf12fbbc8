package tasks

import (
	"errors"
	"time"
)

var (
	// ErrRequestInFlight is returned when an operation is already running.
	ErrRequestInFlight = errors.New("request already in flight")
	// ErrPollTimeout is returned when a video job does not finish within the attempt limit.
	ErrPollTimeout = errors.New("video generation timed out")
	// ErrNoAsset is returned when a finished video job has no generated asset.
	ErrNoAsset = errors.New("video job finished without an asset")
	// ErrJobFailed is returned when the provider reports the job itself failed.
	ErrJobFailed = errors.New("video job failed")
)

// FailureNotice is the single message shown to users when video generation fails.
const FailureNotice = "Failed to generate video."

// Ticker delivers ticks on C until stopped.
type Ticker interface {
	C() <-chan time.Time
	Stop()
}

type timeTicker struct{ t *time.Ticker }

func (t timeTicker) C() <-chan time.Time { return t.t.C }
func (t timeTicker) Stop()               { t.t.Stop() }

// NewTimeTicker returns a [Ticker] backed by [time.Ticker].
func NewTimeTicker(d time.Duration) Ticker {
	return timeTicker{t: time.NewTicker(d)}
}

// sendProgress sends a progress update through the channel without blocking.
func sendProgress(progress chan<- ProgressUpdate, update ProgressUpdate) {
	if progress == nil {
		return
	}
	select {
	case progress <- update:
	default:
	}
}
