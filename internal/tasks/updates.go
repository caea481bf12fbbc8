package tasks

import (
	"fmt"

	"github.com/desertthunder/fithub/internal/services"
)

// ProgressUpdate represents a progress event during a long-running operation.
type ProgressUpdate struct {
	Phase   Phase  // Kind of event
	Step    int    // Current step number within phase
	Total   int    // Total steps in this phase, zero when unbounded
	Message string // Human-readable message for display
	Data    any    // Optional phase-specific data
}

// Phase classifies a [ProgressUpdate].
type Phase int

const (
	StateChange Phase = iota
	StatusMessage
	PollAttempt
	Download
	Advice
)

func (p Phase) String() string {
	switch p {
	case StateChange:
		return "state_change"
	case StatusMessage:
		return "status_message"
	case PollAttempt:
		return "poll_attempt"
	case Download:
		return "download"
	case Advice:
		return "advice"
	default:
		return ""
	}
}

// VideoState is a state of the video workflow.
type VideoState int

const (
	Idle VideoState = iota
	Submitting
	Polling
	Fetching
	Ready
	Failed
)

func (s VideoState) String() string {
	switch s {
	case Idle:
		return "idle"
	case Submitting:
		return "submitting"
	case Polling:
		return "polling"
	case Fetching:
		return "fetching"
	case Ready:
		return "ready"
	case Failed:
		return "failed"
	default:
		return ""
	}
}

// Busy reports whether s is a non-terminal working state.
func (s VideoState) Busy() bool {
	return s == Submitting || s == Polling || s == Fetching
}

// LoadingMessages rotate while a video is being generated.
var LoadingMessages = []string{
	"Initializing Veo Neural Core...",
	"Calibrating Motivational Biometrics...",
	"Synthesizing High-Intensity Lighting...",
	"Rendering Cinematic Frames...",
	"Optimizing Performance Pixels...",
	"Finalizing Export...",
}

func stateUpdate(s VideoState) ProgressUpdate {
	return ProgressUpdate{
		Phase:   StateChange,
		Message: fmt.Sprintf("Video workflow %s", s),
		Data:    s,
	}
}

func statusUpdate(i int) ProgressUpdate {
	return ProgressUpdate{
		Phase:   StatusMessage,
		Step:    i + 1,
		Total:   len(LoadingMessages),
		Message: LoadingMessages[i],
	}
}

func pollUpdate(attempt, limit int, op *services.VideoOperation) ProgressUpdate {
	return ProgressUpdate{
		Phase:   PollAttempt,
		Step:    attempt,
		Total:   limit,
		Message: fmt.Sprintf("[%d/%d] Checking %s...", attempt, limit, op.Name),
		Data:    op,
	}
}

func downloadUpdate(path string, n int64) ProgressUpdate {
	return ProgressUpdate{
		Phase:   Download,
		Step:    1,
		Total:   1,
		Message: fmt.Sprintf("Saved %d bytes to %s", n, path),
		Data:    path,
	}
}

func adviceUpdate(message string, done bool) ProgressUpdate {
	step := 0
	if done {
		step = 1
	}
	return ProgressUpdate{Phase: Advice, Step: step, Total: 1, Message: message}
}
