package main

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"os"
	"time"

	"github.com/charmbracelet/log"
	"github.com/desertthunder/fithub/internal/repositories"
	"github.com/desertthunder/fithub/internal/services"
	"github.com/desertthunder/fithub/internal/shared"
	"github.com/desertthunder/fithub/internal/store"
	"github.com/desertthunder/fithub/internal/tasks"
	"github.com/urfave/cli/v3"
	"go.uber.org/multierr"
)

// Runner holds all dependencies for CLI commands and provides methods for each command action.
//
// Storage and API clients open lazily, so commands that never touch them stay cheap.
type Runner struct {
	config     *shared.Config
	configPath string
	httpClient *http.Client
	logger     *log.Logger
	output     io.Writer
	input      io.Reader
	now        func() time.Time

	db      *sql.DB
	kv      repositories.KV
	closers []func() error
	store   *store.Store
	videos  *repositories.VideoRepository
	creds   *services.PromptCredentials
	gemini  *services.GeminiClient
}

// RunnerOpts contains configuration options for creating a Runner.
type RunnerOpts struct {
	Config     *shared.Config
	ConfigPath string
	HTTPClient *http.Client
	Logger     *log.Logger
	Output     io.Writer
	Input      io.Reader
	Now        func() time.Time
	// DB and KV replace the configured storage, as tests do.
	DB *sql.DB
	KV repositories.KV
}

// NewRunner creates a new Runner with the provided configuration
func NewRunner(opts RunnerOpts) *Runner {
	if opts.Logger == nil {
		opts.Logger = shared.NewLogger(nil)
	}
	if opts.Output == nil {
		opts.Output = os.Stdout
	}
	if opts.Input == nil {
		opts.Input = os.Stdin
	}
	if opts.HTTPClient == nil {
		opts.HTTPClient = http.DefaultClient
	}
	if opts.Now == nil {
		opts.Now = time.Now
	}

	return &Runner{
		config:     opts.Config,
		configPath: opts.ConfigPath,
		httpClient: opts.HTTPClient,
		logger:     opts.Logger,
		output:     opts.Output,
		input:      opts.Input,
		now:        opts.Now,
		db:         opts.DB,
		kv:         opts.KV,
	}
}

func (r *Runner) register() []*cli.Command {
	commands := []*cli.Command{}
	for _, fn := range [](func(*Runner) *cli.Command){
		setupCommand, loginCommand, logoutCommand, whoamiCommand,
		workoutCommand, foodCommand, goalCommand,
		dashboardCommand, coachCommand, motivationCommand, settingsCommand, tuiCommand,
	} {
		commands = append(commands, fn(r))
	}

	return commands
}

// Before resolves the configuration and log level ahead of any command.
func (r *Runner) Before(ctx context.Context, cmd *cli.Command) (context.Context, error) {
	if path := cmd.String("config"); path != "" {
		r.configPath = path
	}

	if r.config == nil {
		config, err := shared.ResolveConfig(r.configPath)
		if err != nil {
			return ctx, err
		}
		r.config = config
	}

	level := cmd.String("log-level")
	if level == "" {
		level = r.config.Log.Level
	}
	if level != "" {
		ll, err := log.ParseLevel(level)
		if err != nil {
			return ctx, fmt.Errorf("%w: log level %q", shared.ErrInvalidArgument, level)
		}
		shared.SetLogLevel(r.logger, ll)
	}
	return ctx, nil
}

// After releases everything the command opened.
func (r *Runner) After(ctx context.Context, cmd *cli.Command) error {
	return r.Close()
}

// Close releases storage connections and log files. It is safe to call more than once.
func (r *Runner) Close() error {
	var err error
	for i := len(r.closers) - 1; i >= 0; i-- {
		err = multierr.Append(err, r.closers[i]())
	}
	r.closers = nil
	return err
}

// SetLogger replaces the logger, as the TUI does to keep output off the screen.
func (r *Runner) SetLogger(l *log.Logger) {
	r.logger = l
}

func (r *Runner) cfg() *shared.Config {
	if r.config == nil {
		r.config = shared.DefaultConfig()
	}
	return r.config
}

// database opens and migrates the configured SQLite database once.
func (r *Runner) database() (*sql.DB, error) {
	if r.db != nil {
		return r.db, nil
	}

	db, err := shared.OpenDatabase(r.cfg().Database)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}
	r.db = db
	r.closers = append(r.closers, db.Close)
	return db, nil
}

// openStore builds the state store over the configured backend and loads the document.
func (r *Runner) openStore(ctx context.Context) (*store.Store, error) {
	if r.store != nil {
		return r.store, nil
	}

	if r.kv == nil {
		var db *sql.DB
		if backend := r.cfg().Store.Backend; backend == "" || backend == "sqlite" {
			var err error
			if db, err = r.database(); err != nil {
				return nil, err
			}
		}

		kv, closeKV, err := repositories.NewKV(r.cfg().Store, db)
		if err != nil {
			return nil, err
		}
		r.kv = kv
		r.closers = append(r.closers, closeKV)
	}

	r.store = store.New(r.kv, r.cfg().Store.Key, r.logger)
	r.store.Load(ctx)
	return r.store, nil
}

// videoRepository returns the generated-video history, which always lives in SQLite.
func (r *Runner) videoRepository() (*repositories.VideoRepository, error) {
	if r.videos != nil {
		return r.videos, nil
	}
	db, err := r.database()
	if err != nil {
		return nil, err
	}
	r.videos = repositories.NewVideoRepository(db)
	return r.videos, nil
}

// credentials falls back to a terminal prompt when no key is configured.
func (r *Runner) credentials() *services.PromptCredentials {
	if r.creds == nil {
		static := services.CredentialsFromConfig(r.cfg().Credentials.Gemini)
		r.creds = services.NewPromptCredentials(static, r.input, r.output)
	}
	return r.creds
}

func (r *Runner) geminiClient() *services.GeminiClient {
	if r.gemini == nil {
		config := r.cfg()
		r.gemini = services.NewGeminiClient(services.GeminiOptions{
			BaseURL:           config.Credentials.Gemini.BaseURL,
			Credentials:       r.credentials(),
			AccessToken:       config.Credentials.Gemini.AccessToken,
			HTTPClient:        r.httpClient,
			RequestsPerSecond: config.Limits.RequestsPerSecond,
			Burst:             config.Limits.Burst,
		})
	}
	return r.gemini
}

func (r *Runner) advisor() *tasks.Advisor {
	config := r.cfg()
	coach := services.NewCoach(r.geminiClient(), config.Coach.Model, config.Coach.Temperature, r.logger)
	return tasks.NewAdvisor(coach)
}

// videoWorkflow wires the workflow to the API client and, when the database opens, the history table.
func (r *Runner) videoWorkflow(outputDir string) *tasks.VideoWorkflow {
	config := r.cfg().Video
	if outputDir == "" {
		outputDir = config.OutputDir
	}

	opts := tasks.VideoOptions{
		Model:           config.Model,
		PollInterval:    config.PollInterval,
		MessageInterval: config.MessageInterval,
		MaxPollAttempts: config.MaxPollAttempts,
		OutputDir:       outputDir,
	}
	if repo, err := r.videoRepository(); err != nil {
		r.logger.Warn("video history unavailable", "error", err)
	} else {
		opts.Recorder = repo
	}

	return tasks.NewVideoWorkflow(r.geminiClient(), r.credentials(), opts, r.logger)
}

func (r *Runner) writeJSON(data any, pretty bool) error {
	var output []byte
	var err error

	if pretty {
		output, err = json.MarshalIndent(data, "", "  ")
	} else {
		output, err = json.Marshal(data)
	}

	if err != nil {
		return fmt.Errorf("failed to marshal JSON: %w", err)
	}

	if _, err := r.output.Write(output); err != nil {
		return fmt.Errorf("failed to write output: %w", err)
	}

	if _, err := r.output.Write([]byte("\n")); err != nil {
		return fmt.Errorf("failed to write newline: %w", err)
	}

	return nil
}

func (r *Runner) writePlain(format string, args ...any) error {
	text := fmt.Sprintf(format, args...)
	if _, err := r.output.Write([]byte(text)); err != nil {
		return fmt.Errorf("failed to write output: %w", err)
	}
	return nil
}

func (r *Runner) writePlainln(format string, args ...any) error {
	text := "\n" + fmt.Sprintf(format, args...) + "\n"
	if _, err := r.output.Write([]byte(text)); err != nil {
		return fmt.Errorf("failed to write output: %w", err)
	}
	return nil
}

func (r *Runner) writePlainHeader(title string) {
	r.writePlain("═══════════════════════════════════════\n")
	r.writePlain("%v\n", title)
	r.writePlain("═══════════════════════════════════════\n")
}
