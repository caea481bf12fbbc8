package tasks

import (
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"sync"
	"sync/atomic"
	"time"

	"github.com/charmbracelet/log"

	"github.com/desertthunder/fithub/internal/models"
	"github.com/desertthunder/fithub/internal/services"
	"github.com/desertthunder/fithub/internal/shared"
)

const (
	DefaultVideoModel      = "veo-3.1-fast-generate-preview"
	DefaultPollInterval    = 10 * time.Second
	DefaultMessageInterval = 4 * time.Second
	// DefaultMaxPollAttempts at the default interval allows fifteen minutes.
	DefaultMaxPollAttempts = 90
	DefaultVideoPrompt     = "A cinematic shot of a dedicated athlete training in a futuristic high-tech gym, lens flare, intense atmosphere, 8k"
)

// VideoGenerator is the provider side of the workflow. [services.GeminiClient] implements it.
type VideoGenerator interface {
	GenerateVideo(ctx context.Context, model string, req services.VideoRequest) (*services.VideoOperation, error)
	PollVideo(ctx context.Context, op *services.VideoOperation) (*services.VideoOperation, error)
	DownloadVideo(ctx context.Context, uri string, w io.Writer) (int64, error)
}

// VideoRecorder stores finished assets. [repositories.VideoRepository] implements it.
type VideoRecorder interface {
	Create(ctx context.Context, asset *models.VideoAsset) error
}

// VideoOptions configures a [VideoWorkflow]. Zero values use the defaults.
type VideoOptions struct {
	Model           string
	PollInterval    time.Duration
	MessageInterval time.Duration
	MaxPollAttempts int
	OutputDir       string
	// Recorder is optional.
	Recorder  VideoRecorder
	NewTicker func(time.Duration) Ticker
}

// VideoResult is the outcome of a successful run.
type VideoResult struct {
	Operation string
	Path      string
	Bytes     int64
	Polls     int
}

// VideoWorkflow generates motivational videos one at a time.
type VideoWorkflow struct {
	generator   VideoGenerator
	credentials services.Credentials
	opts        VideoOptions
	logger      *log.Logger

	running atomic.Bool
	mu      sync.RWMutex
	state   VideoState
	message int
}

// NewVideoWorkflow creates a [VideoWorkflow].
func NewVideoWorkflow(generator VideoGenerator, credentials services.Credentials, opts VideoOptions, logger *log.Logger) *VideoWorkflow {
	if opts.Model == "" {
		opts.Model = DefaultVideoModel
	}
	if opts.PollInterval <= 0 {
		opts.PollInterval = DefaultPollInterval
	}
	if opts.MessageInterval <= 0 {
		opts.MessageInterval = DefaultMessageInterval
	}
	if opts.MaxPollAttempts <= 0 {
		opts.MaxPollAttempts = DefaultMaxPollAttempts
	}
	if opts.OutputDir == "" {
		opts.OutputDir = "."
	}
	if opts.NewTicker == nil {
		opts.NewTicker = NewTimeTicker
	}
	if credentials == nil {
		credentials = services.NewStaticCredentials("")
	}
	if logger == nil {
		logger = shared.NewLogger(nil)
	}

	return &VideoWorkflow{
		generator:   generator,
		credentials: credentials,
		opts:        opts,
		logger:      shared.WithLogger(logger, "component", "video"),
	}
}

// State returns the current workflow state.
func (w *VideoWorkflow) State() VideoState {
	w.mu.RLock()
	defer w.mu.RUnlock()
	return w.state
}

// Message returns the current loading message.
func (w *VideoWorkflow) Message() string {
	w.mu.RLock()
	defer w.mu.RUnlock()
	return LoadingMessages[w.message]
}

func (w *VideoWorkflow) setState(s VideoState, progress chan<- ProgressUpdate) {
	w.mu.Lock()
	w.state = s
	w.mu.Unlock()
	sendProgress(progress, stateUpdate(s))
}

func (w *VideoWorkflow) setMessage(i int, progress chan<- ProgressUpdate) {
	w.mu.Lock()
	w.message = i
	w.mu.Unlock()
	sendProgress(progress, statusUpdate(i))
}

// Run generates one video and writes it to the output directory.
//
// Errors are logged once here. Callers show [FailureNotice] rather than the error text.
func (w *VideoWorkflow) Run(ctx context.Context, req services.VideoRequest, progress chan<- ProgressUpdate) (*VideoResult, error) {
	if !w.running.CompareAndSwap(false, true) {
		return nil, ErrRequestInFlight
	}
	defer w.running.Store(false)

	result, err := w.run(ctx, req, progress)
	if err != nil {
		w.setState(Failed, progress)
		w.logger.Error("video generation failed", "error", err)
		return nil, err
	}

	w.setState(Ready, progress)
	w.logger.Info("video ready", "path", result.Path, "bytes", result.Bytes, "polls", result.Polls)
	return result, nil
}

func (w *VideoWorkflow) run(ctx context.Context, req services.VideoRequest, progress chan<- ProgressUpdate) (*VideoResult, error) {
	if err := req.Validate(); err != nil {
		return nil, err
	}

	if !w.credentials.HasCredential() {
		if err := w.credentials.Prompt(ctx); err != nil {
			return nil, fmt.Errorf("%w: %w", shared.ErrMissingCredentials, err)
		}
		if !w.credentials.HasCredential() {
			return nil, fmt.Errorf("%w: no api key selected", shared.ErrMissingCredentials)
		}
	}

	w.setState(Submitting, progress)
	stop := w.rotateMessages(progress)
	defer stop()

	op, err := w.generator.GenerateVideo(ctx, w.opts.Model, req)
	if err != nil {
		return nil, fmt.Errorf("failed to submit video job: %w", err)
	}
	w.logger.Debug("video job submitted", "operation", op.Name)

	w.setState(Polling, progress)
	op, polls, err := w.poll(ctx, op, progress)
	if err != nil {
		return nil, err
	}

	w.setState(Fetching, progress)
	uri := op.AssetURI()
	if uri == "" {
		return nil, ErrNoAsset
	}

	path, n, err := w.download(ctx, uri)
	if err != nil {
		return nil, err
	}
	sendProgress(progress, downloadUpdate(path, n))

	if w.opts.Recorder != nil {
		asset := &models.VideoAsset{Operation: op.Name, Prompt: req.Prompt, Path: path}
		if err := w.opts.Recorder.Create(ctx, asset); err != nil {
			w.logger.Warn("failed to record video", "path", path, "error", err)
		}
	}

	return &VideoResult{Operation: op.Name, Path: path, Bytes: n, Polls: polls}, nil
}

// poll waits one interval between status checks until the job is done.
func (w *VideoWorkflow) poll(ctx context.Context, op *services.VideoOperation, progress chan<- ProgressUpdate) (*services.VideoOperation, int, error) {
	ticker := w.opts.NewTicker(w.opts.PollInterval)
	defer ticker.Stop()

	polls := 0
	for !op.Done {
		if polls >= w.opts.MaxPollAttempts {
			return nil, polls, fmt.Errorf("%w after %d attempts", ErrPollTimeout, polls)
		}

		select {
		case <-ctx.Done():
			return nil, polls, ctx.Err()
		case <-ticker.C():
		}

		next, err := w.generator.PollVideo(ctx, op)
		if err != nil {
			return nil, polls, fmt.Errorf("failed to poll video job: %w", err)
		}
		polls++
		op = next
		sendProgress(progress, pollUpdate(polls, w.opts.MaxPollAttempts, op))
	}

	if op.Error != nil {
		return nil, polls, fmt.Errorf("%w: %w", ErrJobFailed, op.Error)
	}
	return op, polls, nil
}

// download writes the asset to a new file in the output directory.
func (w *VideoWorkflow) download(ctx context.Context, uri string) (string, int64, error) {
	if err := os.MkdirAll(w.opts.OutputDir, 0755); err != nil {
		return "", 0, fmt.Errorf("failed to create output directory: %w", err)
	}

	path := filepath.Join(w.opts.OutputDir, fmt.Sprintf("fithub-motivation-%s.mp4", shared.GenerateID()))
	f, err := os.Create(path)
	if err != nil {
		return "", 0, fmt.Errorf("failed to create video file: %w", err)
	}

	n, err := w.generator.DownloadVideo(ctx, uri, f)
	if cerr := f.Close(); err == nil {
		err = cerr
	}
	if err != nil {
		os.Remove(path)
		return "", 0, fmt.Errorf("failed to download video: %w", err)
	}
	return path, n, nil
}

// rotateMessages cycles the loading message until the returned stop function runs.
// stop blocks until the goroutine has exited and its ticker is stopped.
func (w *VideoWorkflow) rotateMessages(progress chan<- ProgressUpdate) (stop func()) {
	w.setMessage(0, progress)

	ticker := w.opts.NewTicker(w.opts.MessageInterval)
	done := make(chan struct{})
	exited := make(chan struct{})

	go func() {
		defer close(exited)
		defer ticker.Stop()

		i := 0
		for {
			select {
			case <-done:
				return
			case <-ticker.C():
				i = (i + 1) % len(LoadingMessages)
				w.setMessage(i, progress)
			}
		}
	}()

	return func() {
		close(done)
		<-exited
	}
}
