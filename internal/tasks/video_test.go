package tasks

import (
	"bytes"
	"context"
	"errors"
	"io"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/desertthunder/fithub/internal/models"
	"github.com/desertthunder/fithub/internal/services"
	"github.com/desertthunder/fithub/internal/shared"
)

const (
	testPollInterval    = 10 * time.Second
	testMessageInterval = 4 * time.Second
)

type fakeTicker struct {
	ch      chan time.Time
	stopped atomic.Bool
}

func (f *fakeTicker) C() <-chan time.Time { return f.ch }
func (f *fakeTicker) Stop()               { f.stopped.Store(true) }

// tickerFactory hands out fake tickers. Poll tickers start with pollTicks ticks queued.
type tickerFactory struct {
	pollTicks int

	mu      sync.Mutex
	tickers map[time.Duration]*fakeTicker
}

func newTickerFactory(pollTicks int) *tickerFactory {
	return &tickerFactory{pollTicks: pollTicks, tickers: make(map[time.Duration]*fakeTicker)}
}

func (f *tickerFactory) New(d time.Duration) Ticker {
	t := &fakeTicker{ch: make(chan time.Time, 128)}
	if d == testPollInterval {
		for range f.pollTicks {
			t.ch <- time.Time{}
		}
	}
	f.mu.Lock()
	f.tickers[d] = t
	f.mu.Unlock()
	return t
}

func (f *tickerFactory) get(d time.Duration) *fakeTicker {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.tickers[d]
}

func (f *tickerFactory) allStopped(t *testing.T) {
	t.Helper()
	f.mu.Lock()
	defer f.mu.Unlock()
	for d, tk := range f.tickers {
		if !tk.stopped.Load() {
			t.Errorf("ticker with interval %v was not stopped", d)
		}
	}
}

type mockGenerator struct {
	createOp  *services.VideoOperation
	createErr error
	polls     []*services.VideoOperation
	pollErr   error
	body      string
	dlErr     error
	started   chan struct{}
	release   chan struct{}

	mu          sync.Mutex
	createCalls int
	pollCalls   int
	dlCalls     int
	dlURI       string
	lastReq     services.VideoRequest
}

func (m *mockGenerator) GenerateVideo(ctx context.Context, model string, req services.VideoRequest) (*services.VideoOperation, error) {
	m.mu.Lock()
	m.createCalls++
	m.lastReq = req
	m.mu.Unlock()

	if m.started != nil {
		close(m.started)
		<-m.release
	}
	if m.createErr != nil {
		return nil, m.createErr
	}
	op := *m.createOp
	return &op, nil
}

func (m *mockGenerator) PollVideo(ctx context.Context, op *services.VideoOperation) (*services.VideoOperation, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	idx := m.pollCalls
	m.pollCalls++
	if m.pollErr != nil {
		return nil, m.pollErr
	}
	if idx < len(m.polls) {
		return m.polls[idx], nil
	}
	return &services.VideoOperation{Name: op.Name}, nil
}

func (m *mockGenerator) DownloadVideo(ctx context.Context, uri string, w io.Writer) (int64, error) {
	m.mu.Lock()
	m.dlCalls++
	m.dlURI = uri
	m.mu.Unlock()

	if m.dlErr != nil {
		return 0, m.dlErr
	}
	n, err := io.WriteString(w, m.body)
	return int64(n), err
}

func (m *mockGenerator) counts() (create, poll, download int) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.createCalls, m.pollCalls, m.dlCalls
}

type mockCredentials struct {
	key       string
	promptKey string
	promptErr error
	prompts   int
}

func (c *mockCredentials) HasCredential() bool { return c.key != "" }
func (c *mockCredentials) Credential() string  { return c.key }
func (c *mockCredentials) Prompt(ctx context.Context) error {
	c.prompts++
	if c.promptErr != nil {
		return c.promptErr
	}
	c.key = c.promptKey
	return nil
}

type mockRecorder struct {
	err    error
	assets []*models.VideoAsset
}

func (r *mockRecorder) Create(ctx context.Context, asset *models.VideoAsset) error {
	r.assets = append(r.assets, asset)
	return r.err
}

const testOp = "models/veo/operations/op-1"

func pending() *services.VideoOperation {
	return &services.VideoOperation{Name: testOp}
}

func completed(uri string) *services.VideoOperation {
	op := &services.VideoOperation{Name: testOp, Done: true, Response: &services.VideoResponse{}}
	if uri != "" {
		op.Response.GenerateVideoResponse.GeneratedSamples = []services.GeneratedSample{{Video: services.GeneratedVideo{URI: uri}}}
	}
	return op
}

func validRequest() services.VideoRequest {
	return services.VideoRequest{Prompt: DefaultVideoPrompt, Resolution: services.Resolution720p, AspectRatio: services.AspectLandscape}
}

type harness struct {
	workflow *VideoWorkflow
	gen      *mockGenerator
	creds    *mockCredentials
	tickers  *tickerFactory
	recorder *mockRecorder
	logs     *bytes.Buffer
	dir      string
}

func newHarness(t *testing.T, gen *mockGenerator, pollTicks int, mutate func(*VideoOptions)) *harness {
	t.Helper()
	h := &harness{
		gen:      gen,
		creds:    &mockCredentials{key: "test-key"},
		tickers:  newTickerFactory(pollTicks),
		recorder: &mockRecorder{},
		logs:     &bytes.Buffer{},
		dir:      filepath.Join(t.TempDir(), "videos"),
	}
	opts := VideoOptions{
		PollInterval:    testPollInterval,
		MessageInterval: testMessageInterval,
		OutputDir:       h.dir,
		Recorder:        h.recorder,
		NewTicker:       h.tickers.New,
	}
	if mutate != nil {
		mutate(&opts)
	}
	h.workflow = NewVideoWorkflow(gen, h.creds, opts, shared.NewLogger(h.logs))
	return h
}

func drain(progress chan ProgressUpdate) []ProgressUpdate {
	var out []ProgressUpdate
	for {
		select {
		case u := <-progress:
			out = append(out, u)
		default:
			return out
		}
	}
}

func statesSeen(updates []ProgressUpdate) []VideoState {
	var states []VideoState
	for _, u := range updates {
		if u.Phase == StateChange {
			states = append(states, u.Data.(VideoState))
		}
	}
	return states
}

func TestVideoWorkflowEndToEnd(t *testing.T) {
	gen := &mockGenerator{
		createOp: pending(),
		polls:    []*services.VideoOperation{pending(), pending(), completed("https://files.example.com/v.mp4?alt=media")},
		body:     "mp4-bytes",
	}
	h := newHarness(t, gen, 100, nil)
	progress := make(chan ProgressUpdate, 256)

	result, err := h.workflow.Run(context.Background(), validRequest(), progress)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	create, polls, downloads := gen.counts()
	if create != 1 || polls != 3 || downloads != 1 {
		t.Errorf("expected 1 create, 3 polls, 1 download; got %d, %d, %d", create, polls, downloads)
	}
	if gen.lastReq.Resolution != "720p" || gen.lastReq.AspectRatio != "16:9" {
		t.Errorf("unexpected request %+v", gen.lastReq)
	}
	if gen.dlURI != "https://files.example.com/v.mp4?alt=media" {
		t.Errorf("unexpected download uri %s", gen.dlURI)
	}

	if h.workflow.State() != Ready {
		t.Errorf("expected Ready, got %v", h.workflow.State())
	}
	if result.Polls != 3 || result.Operation != testOp || result.Bytes != int64(len("mp4-bytes")) {
		t.Errorf("unexpected result %+v", result)
	}
	if filepath.Dir(result.Path) != h.dir || !strings.HasPrefix(filepath.Base(result.Path), "fithub-motivation-") {
		t.Errorf("unexpected path %s", result.Path)
	}
	data, err := os.ReadFile(result.Path)
	if err != nil || string(data) != "mp4-bytes" {
		t.Errorf("unexpected file contents %q %v", data, err)
	}

	if len(h.recorder.assets) != 1 || h.recorder.assets[0].Path != result.Path {
		t.Errorf("expected asset to be recorded, got %+v", h.recorder.assets)
	}

	h.tickers.allStopped(t)

	want := []VideoState{Submitting, Polling, Fetching, Ready}
	got := statesSeen(drain(progress))
	if len(got) != len(want) {
		t.Fatalf("expected states %v, got %v", want, got)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("state %d: expected %v, got %v", i, want[i], got[i])
		}
	}
}

func TestVideoWorkflowNoPollAfterCompletion(t *testing.T) {
	gen := &mockGenerator{createOp: completed("https://x/v.mp4"), body: "b"}
	h := newHarness(t, gen, 100, nil)

	result, err := h.workflow.Run(context.Background(), validRequest(), nil)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if _, polls, _ := gen.counts(); polls != 0 || result.Polls != 0 {
		t.Errorf("no polls expected for an already finished job, got %d", polls)
	}
}

func TestVideoWorkflowFailures(t *testing.T) {
	tests := []struct {
		name      string
		gen       *mockGenerator
		pollTicks int
		opts      func(*VideoOptions)
		wantErr   error
		wantPolls int
	}{
		{
			name:    "no asset",
			gen:     &mockGenerator{createOp: pending(), polls: []*services.VideoOperation{completed("")}},
			wantErr: ErrNoAsset, pollTicks: 10, wantPolls: 1,
		},
		{
			name: "job error",
			gen: &mockGenerator{createOp: pending(), polls: []*services.VideoOperation{
				{Name: testOp, Done: true, Error: &services.OperationError{Code: 3, Message: "blocked"}},
			}},
			wantErr: ErrJobFailed, pollTicks: 10, wantPolls: 1,
		},
		{
			name:    "poll limit",
			gen:     &mockGenerator{createOp: pending()},
			opts:    func(o *VideoOptions) { o.MaxPollAttempts = 3 },
			wantErr: ErrPollTimeout, pollTicks: 100, wantPolls: 3,
		},
		{
			name:    "submit error",
			gen:     &mockGenerator{createErr: shared.ErrAPIRequest},
			wantErr: shared.ErrAPIRequest,
		},
		{
			name:    "poll error",
			gen:     &mockGenerator{createOp: pending(), pollErr: shared.ErrServiceUnavailable},
			wantErr: shared.ErrServiceUnavailable, pollTicks: 10, wantPolls: 1,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			h := newHarness(t, tt.gen, tt.pollTicks, tt.opts)

			result, err := h.workflow.Run(context.Background(), validRequest(), nil)
			if !errors.Is(err, tt.wantErr) {
				t.Fatalf("expected %v, got %v", tt.wantErr, err)
			}
			if result != nil {
				t.Errorf("expected no result, got %+v", result)
			}
			if h.workflow.State() != Failed {
				t.Errorf("expected Failed, got %v", h.workflow.State())
			}
			if _, polls, downloads := tt.gen.counts(); polls != tt.wantPolls || downloads != 0 {
				t.Errorf("expected %d polls and no download, got %d and %d", tt.wantPolls, polls, downloads)
			}
			if n := strings.Count(h.logs.String(), "video generation failed"); n != 1 {
				t.Errorf("failure should be logged once, got %d", n)
			}
			h.tickers.allStopped(t)
		})
	}
}

func TestVideoWorkflowCancelled(t *testing.T) {
	gen := &mockGenerator{createOp: pending()}
	h := newHarness(t, gen, 0, nil)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	if _, err := h.workflow.Run(ctx, validRequest(), nil); !errors.Is(err, context.Canceled) {
		t.Fatalf("expected context.Canceled, got %v", err)
	}
	if h.workflow.State() != Failed {
		t.Errorf("expected Failed, got %v", h.workflow.State())
	}
	h.tickers.allStopped(t)
}

func TestVideoWorkflowDownloadFailure(t *testing.T) {
	gen := &mockGenerator{createOp: completed("https://x/v.mp4"), dlErr: errors.New("connection reset")}
	h := newHarness(t, gen, 0, nil)

	if _, err := h.workflow.Run(context.Background(), validRequest(), nil); err == nil {
		t.Fatal("expected download error")
	}

	entries, err := os.ReadDir(h.dir)
	if err != nil {
		t.Fatalf("failed to read output dir: %v", err)
	}
	if len(entries) != 0 {
		t.Errorf("partial file should be removed, found %d entries", len(entries))
	}
	if len(h.recorder.assets) != 0 {
		t.Error("failed downloads should not be recorded")
	}
}

func TestVideoWorkflowRecorderFailure(t *testing.T) {
	gen := &mockGenerator{createOp: completed("https://x/v.mp4"), body: "b"}
	h := newHarness(t, gen, 0, nil)
	h.recorder.err = errors.New("db locked")

	if _, err := h.workflow.Run(context.Background(), validRequest(), nil); err != nil {
		t.Fatalf("recording failures should not fail the run: %v", err)
	}
	if !strings.Contains(h.logs.String(), "failed to record video") {
		t.Error("expected a warning about the recorder")
	}
}

func TestVideoWorkflowCredentials(t *testing.T) {
	t.Run("Prompt Supplies Key", func(t *testing.T) {
		gen := &mockGenerator{createOp: completed("https://x/v.mp4"), body: "b"}
		h := newHarness(t, gen, 0, nil)
		h.creds.key = ""
		h.creds.promptKey = "picked"

		if _, err := h.workflow.Run(context.Background(), validRequest(), nil); err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if h.creds.prompts != 1 {
			t.Errorf("expected one prompt, got %d", h.creds.prompts)
		}
	})

	t.Run("Still Missing", func(t *testing.T) {
		gen := &mockGenerator{createOp: pending()}
		h := newHarness(t, gen, 0, nil)
		h.creds.key = ""

		if _, err := h.workflow.Run(context.Background(), validRequest(), nil); !errors.Is(err, shared.ErrMissingCredentials) {
			t.Fatalf("expected ErrMissingCredentials, got %v", err)
		}
		if create, _, _ := gen.counts(); create != 0 {
			t.Error("no job should be submitted without a key")
		}
	})

	t.Run("Prompt Error", func(t *testing.T) {
		gen := &mockGenerator{createOp: pending()}
		h := newHarness(t, gen, 0, nil)
		h.creds.key = ""
		h.creds.promptErr = errors.New("tty closed")

		if _, err := h.workflow.Run(context.Background(), validRequest(), nil); !errors.Is(err, shared.ErrMissingCredentials) {
			t.Fatalf("expected ErrMissingCredentials, got %v", err)
		}
	})

	t.Run("Configured Key Skips Prompt", func(t *testing.T) {
		gen := &mockGenerator{createOp: completed("https://x/v.mp4"), body: "b"}
		h := newHarness(t, gen, 0, nil)

		if _, err := h.workflow.Run(context.Background(), validRequest(), nil); err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if h.creds.prompts != 0 {
			t.Error("should not prompt when a key is configured")
		}
	})
}

func TestVideoWorkflowInvalidRequest(t *testing.T) {
	gen := &mockGenerator{createOp: pending()}
	h := newHarness(t, gen, 0, nil)

	req := validRequest()
	req.Resolution = "4k"
	if _, err := h.workflow.Run(context.Background(), req, nil); !errors.Is(err, shared.ErrInvalidArgument) {
		t.Fatalf("expected ErrInvalidArgument, got %v", err)
	}
	if create, _, _ := gen.counts(); create != 0 {
		t.Error("invalid requests should not be submitted")
	}
}

func TestVideoWorkflowSingleFlight(t *testing.T) {
	gen := &mockGenerator{
		createOp: completed("https://x/v.mp4"),
		body:     "b",
		started:  make(chan struct{}),
		release:  make(chan struct{}),
	}
	h := newHarness(t, gen, 0, nil)

	var wg sync.WaitGroup
	wg.Add(1)
	go func() {
		defer wg.Done()
		if _, err := h.workflow.Run(context.Background(), validRequest(), nil); err != nil {
			t.Errorf("first run failed: %v", err)
		}
	}()

	<-gen.started
	if !h.workflow.State().Busy() {
		t.Errorf("expected a busy state, got %v", h.workflow.State())
	}
	if _, err := h.workflow.Run(context.Background(), validRequest(), nil); !errors.Is(err, ErrRequestInFlight) {
		t.Errorf("expected ErrRequestInFlight, got %v", err)
	}

	close(gen.release)
	wg.Wait()

	if create, _, _ := gen.counts(); create != 1 {
		t.Errorf("expected a single submission, got %d", create)
	}
}

func TestVideoWorkflowMessageRotation(t *testing.T) {
	gen := &mockGenerator{
		createOp: completed("https://x/v.mp4"),
		body:     "b",
		started:  make(chan struct{}),
		release:  make(chan struct{}),
	}
	h := newHarness(t, gen, 0, nil)
	progress := make(chan ProgressUpdate, 256)

	var wg sync.WaitGroup
	wg.Add(1)
	go func() {
		defer wg.Done()
		if _, err := h.workflow.Run(context.Background(), validRequest(), progress); err != nil {
			t.Errorf("run failed: %v", err)
		}
	}()

	<-gen.started
	ticker := h.tickers.get(testMessageInterval)
	if ticker == nil {
		close(gen.release)
		wg.Wait()
		t.Fatal("message ticker was not created")
	}

	ticks := len(LoadingMessages) + 1
	for range ticks {
		ticker.ch <- time.Time{}
	}

	var messages []string
	deadline := time.After(2 * time.Second)
	for len(messages) < ticks+1 {
		select {
		case u := <-progress:
			if u.Phase == StatusMessage {
				messages = append(messages, u.Message)
			}
		case <-deadline:
			close(gen.release)
			wg.Wait()
			t.Fatalf("timed out with %d messages: %v", len(messages), messages)
		}
	}

	close(gen.release)
	wg.Wait()

	if messages[0] != LoadingMessages[0] {
		t.Errorf("expected first message %q, got %q", LoadingMessages[0], messages[0])
	}
	if messages[len(LoadingMessages)] != LoadingMessages[0] {
		t.Errorf("messages should wrap, got %q", messages[len(LoadingMessages)])
	}
	if last := messages[len(messages)-1]; last != LoadingMessages[1] {
		t.Errorf("expected %q after wrapping, got %q", LoadingMessages[1], last)
	}
	if !ticker.stopped.Load() {
		t.Error("message ticker should be stopped")
	}
}

func TestVideoStateAndPhaseStrings(t *testing.T) {
	for _, s := range []VideoState{Idle, Submitting, Polling, Fetching, Ready, Failed} {
		if s.String() == "" {
			t.Errorf("empty name for state %d", s)
		}
	}
	for _, p := range []Phase{StateChange, StatusMessage, PollAttempt, Download, Advice} {
		if p.String() == "" {
			t.Errorf("empty name for phase %d", p)
		}
	}
	if Idle.Busy() || Ready.Busy() || Failed.Busy() || !Polling.Busy() {
		t.Error("Busy reports the wrong states")
	}
}

func TestNewVideoWorkflowDefaults(t *testing.T) {
	w := NewVideoWorkflow(&mockGenerator{}, nil, VideoOptions{}, nil)
	if w.opts.PollInterval != DefaultPollInterval || w.opts.MessageInterval != DefaultMessageInterval {
		t.Errorf("unexpected intervals %v %v", w.opts.PollInterval, w.opts.MessageInterval)
	}
	if w.opts.MaxPollAttempts != DefaultMaxPollAttempts || w.opts.Model != DefaultVideoModel {
		t.Errorf("unexpected defaults %+v", w.opts)
	}
	if w.State() != Idle || w.Message() != LoadingMessages[0] {
		t.Errorf("unexpected initial state %v %q", w.State(), w.Message())
	}
}
