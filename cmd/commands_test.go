package main

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/desertthunder/fithub/internal/models"
	"github.com/desertthunder/fithub/internal/services"
	"github.com/desertthunder/fithub/internal/shared"
	"github.com/desertthunder/fithub/internal/stats"
	"github.com/desertthunder/fithub/internal/tasks"
	tu "github.com/desertthunder/fithub/internal/testing"
)

// harness drives the full app against in-memory storage.
type harness struct {
	t      *testing.T
	runner *Runner
	output *bytes.Buffer
	kv     *tu.MemoryKV
	config *shared.Config
}

func newHarness(t *testing.T, input ...string) *harness {
	t.Helper()

	db, err := shared.NewDatabase(":memory:")
	if err != nil {
		t.Fatalf("failed to open database: %v", err)
	}
	db.SetMaxOpenConns(1)
	if err := shared.RunMigrations(db); err != nil {
		t.Fatalf("failed to migrate database: %v", err)
	}
	t.Cleanup(func() { db.Close() })

	config := shared.DefaultConfig()
	config.Credentials.Gemini.APIKeyEnv = ""
	config.Video.OutputDir = t.TempDir()
	config.Video.MessageInterval = time.Hour
	config.Video.PollInterval = time.Millisecond

	h := &harness{t: t, output: &bytes.Buffer{}, kv: tu.NewMemoryKV(), config: config}
	h.runner = NewRunner(RunnerOpts{
		Config: config,
		Logger: shared.NewLogger(&bytes.Buffer{}),
		Output: h.output,
		Input:  strings.NewReader(strings.Join(input, "\n")),
		Now:    func() time.Time { return time.Date(2025, 3, 5, 9, 0, 0, 0, time.UTC) },
		DB:     db,
		KV:     h.kv,
	})
	return h
}

func (h *harness) run(args ...string) error {
	h.t.Helper()
	h.output.Reset()
	return newApp(h.runner).Run(context.Background(), append([]string{"fithub"}, args...))
}

func (h *harness) mustRun(args ...string) string {
	h.t.Helper()
	if err := h.run(args...); err != nil {
		h.t.Fatalf("%v: expected no error, got %v", args, err)
	}
	return h.output.String()
}

// withGemini points the runner at a fake API server with a key configured.
func (h *harness) withGemini(handler http.HandlerFunc) *httptest.Server {
	server := httptest.NewServer(handler)
	h.t.Cleanup(server.Close)
	h.config.Credentials.Gemini.BaseURL = server.URL
	h.config.Credentials.Gemini.APIKey = "test-key"
	return server
}

func TestSetupCommands(t *testing.T) {
	t.Run("database creates config and migrates", func(t *testing.T) {
		dir := t.TempDir()
		original := tu.MustGetwd(t)
		tu.MustChdir(t, dir)
		t.Cleanup(func() { tu.MustChdir(t, original) })

		output := &bytes.Buffer{}
		runner := NewRunner(RunnerOpts{Logger: shared.NewLogger(&bytes.Buffer{}), Output: output})
		err := newApp(runner).Run(context.Background(), []string{"fithub", "-c", "config.toml", "setup", "database"})
		if err != nil {
			t.Fatalf("expected no error, got %v", err)
		}

		tu.AssertFileExists(t, filepath.Join(dir, "config.toml"))
		tu.AssertFileExists(t, filepath.Join(dir, "fithub.db"))
		if !strings.Contains(output.String(), "✓ Database ready at ./fithub.db (schema version 1)") {
			t.Errorf("unexpected output %q", output.String())
		}
	})

	t.Run("rollback reverts one migration", func(t *testing.T) {
		h := newHarness(t)

		out := h.mustRun("setup", "rollback")
		if !strings.Contains(out, "schema version 0") {
			t.Errorf("expected version 0 after rollback, got %q", out)
		}
	})
}

func TestSessionCommands(t *testing.T) {
	t.Run("login whoami logout", func(t *testing.T) {
		h := newHarness(t)

		if out := h.mustRun("login", "--name", "Sam", "--email", "sam@example.com"); !strings.Contains(out, "✓ Logged in as Sam <sam@example.com>") {
			t.Errorf("unexpected login output %q", out)
		}
		if out := h.mustRun("whoami"); !strings.Contains(out, "Sam <sam@example.com>") {
			t.Errorf("unexpected whoami output %q", out)
		}

		out := h.mustRun("whoami", "--json")
		var user models.User
		if err := json.Unmarshal([]byte(out), &user); err != nil {
			t.Fatalf("failed to decode whoami JSON: %v", err)
		}
		if user.Avatar == "" {
			t.Error("expected avatar to be set")
		}

		if out := h.mustRun("logout"); !strings.Contains(out, "✓ Logged out") {
			t.Errorf("unexpected logout output %q", out)
		}
		if out := h.mustRun("whoami"); !strings.Contains(out, "Not logged in") {
			t.Errorf("expected logged out, got %q", out)
		}
		if out := h.mustRun("logout"); !strings.Contains(out, "Not logged in") {
			t.Errorf("expected second logout to be a no-op, got %q", out)
		}
	})

	t.Run("blank login uses demo identity", func(t *testing.T) {
		h := newHarness(t)

		out := h.mustRun("login")
		want := "✓ Logged in as " + models.DefaultUserName + " <" + models.DefaultUserEmail + ">"
		if !strings.Contains(out, want) {
			t.Errorf("expected %q, got %q", want, out)
		}
	})
}

func TestEntryCommands(t *testing.T) {
	t.Run("workout add list rm", func(t *testing.T) {
		h := newHarness(t)

		if out := h.mustRun("workout", "add", "--name", "Squat", "--reps", "5", "--weight", "100"); !strings.Contains(out, "✓ Added Squat") {
			t.Errorf("unexpected add output %q", out)
		}

		out := h.mustRun("workout", "list", "--json")
		var workouts []models.Workout
		if err := json.Unmarshal([]byte(out), &workouts); err != nil {
			t.Fatalf("failed to decode workouts: %v", err)
		}
		if len(workouts) != 1 || workouts[0].Reps != 5 || workouts[0].Weight != 100 {
			t.Fatalf("unexpected workouts %+v", workouts)
		}
		if workouts[0].Date != "2025-03-05T09:00:00.000Z" {
			t.Errorf("expected injected clock date, got %s", workouts[0].Date)
		}

		if _, ok := h.kv.Raw(h.config.Store.Key); !ok {
			t.Error("expected state to be persisted")
		}

		if out := h.mustRun("workout", "rm", "nope"); !strings.Contains(out, "No workouts entry with id nope") {
			t.Errorf("unexpected rm output %q", out)
		}
		if out := h.mustRun("workout", "rm", workouts[0].ID); !strings.Contains(out, "✓ Removed "+workouts[0].ID) {
			t.Errorf("unexpected rm output %q", out)
		}
		if out := h.mustRun("workout", "list"); !strings.Contains(out, "No workouts yet") {
			t.Errorf("expected empty list, got %q", out)
		}
	})

	t.Run("incomplete workout is skipped", func(t *testing.T) {
		h := newHarness(t)

		out := h.mustRun("workout", "add", "--name", "Squat")
		if !strings.Contains(out, "Nothing logged") {
			t.Errorf("expected skip message, got %q", out)
		}
		if h.kv.Sets() != 0 {
			t.Errorf("expected no writes, got %d", h.kv.Sets())
		}
	})

	t.Run("food and goal", func(t *testing.T) {
		h := newHarness(t)

		h.mustRun("food", "add", "--name", "Oats", "--calories", "350", "--protein", "12")
		h.mustRun("goal", "add", "--name", "Bench", "--target", "100", "--current", "80", "--unit", "kg")

		if out := h.mustRun("food", "list"); !strings.Contains(out, "Oats: 350 kcal, 12g protein") {
			t.Errorf("unexpected food list %q", out)
		}
		if out := h.mustRun("goals", "ls"); !strings.Contains(out, "Bench: 80/100 kg (80%)") {
			t.Errorf("unexpected goal list %q", out)
		}
	})

	t.Run("rm requires an id", func(t *testing.T) {
		h := newHarness(t)

		if err := h.run("food", "rm"); !errors.Is(err, shared.ErrMissingArgument) {
			t.Errorf("expected ErrMissingArgument, got %v", err)
		}
	})

	t.Run("persist failure is reported", func(t *testing.T) {
		h := newHarness(t)
		h.kv.SetErr = errors.New("disk full")

		err := h.run("workout", "add", "--name", "Squat", "--reps", "5")
		if !errors.Is(err, shared.ErrPersist) {
			t.Errorf("expected ErrPersist, got %v", err)
		}
	})
}

func TestDashboardCommand(t *testing.T) {
	h := newHarness(t)
	h.mustRun("workout", "add", "--name", "Squat", "--reps", "5", "--weight", "100")
	h.mustRun("food", "add", "--name", "Oats", "--calories", "350")
	h.mustRun("goal", "add", "--name", "Bench", "--target", "100", "--current", "50")

	out := h.mustRun("dashboard", "--json")
	var d stats.Dashboard
	if err := json.Unmarshal([]byte(out), &d); err != nil {
		t.Fatalf("failed to decode dashboard: %v", err)
	}
	if d.WorkoutCount != 1 || d.TotalCalories != 350 || d.TotalVolume != 500 {
		t.Errorf("unexpected dashboard %+v", d)
	}
	if d.GoalProgress != 0.5 {
		t.Errorf("expected goal progress 0.5, got %v", d.GoalProgress)
	}

	text := h.mustRun("stats")
	for _, want := range []string{"FitHub Dashboard: guest", "Calories:      350 kcal", "Weekly activity"} {
		if !strings.Contains(text, want) {
			t.Errorf("expected %q in %q", want, text)
		}
	}
}

func TestCoachCommand(t *testing.T) {
	t.Run("prints advice", func(t *testing.T) {
		h := newHarness(t)
		h.withGemini(func(w http.ResponseWriter, r *http.Request) {
			if !strings.HasSuffix(r.URL.Path, ":generateContent") {
				t.Errorf("unexpected path %s", r.URL.Path)
			}
			io.WriteString(w, `{"candidates":[{"content":{"parts":[{"text":"- Eat more protein"}]}}]}`)
		})

		out := h.mustRun("coach")
		if !strings.Contains(out, "AI Coach") || !strings.Contains(out, "- Eat more protein") {
			t.Errorf("unexpected coach output %q", out)
		}
	})

	t.Run("provider failure prints fallback", func(t *testing.T) {
		h := newHarness(t)
		h.withGemini(func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(http.StatusInternalServerError)
		})

		out := h.mustRun("coach")
		if !strings.Contains(out, services.AdviceUnreachable) {
			t.Errorf("expected fallback advice, got %q", out)
		}
	})
}

func TestMotivationCommands(t *testing.T) {
	t.Run("generate and history", func(t *testing.T) {
		h := newHarness(t)
		var server *httptest.Server
		server = h.withGemini(func(w http.ResponseWriter, r *http.Request) {
			switch {
			case strings.HasSuffix(r.URL.Path, ":predictLongRunning"):
				io.WriteString(w, `{"name":"operations/op-1","done":true,"response":{"generateVideoResponse":{"generatedSamples":[{"video":{"uri":"`+server.URL+`/files/v.mp4"}}]}}}`)
			case r.URL.Path == "/files/v.mp4":
				if r.URL.Query().Get("key") != "test-key" {
					t.Errorf("expected key on download, got %q", r.URL.RawQuery)
				}
				io.WriteString(w, "video-bytes")
			default:
				t.Errorf("unexpected request %s %s", r.Method, r.URL.Path)
				w.WriteHeader(http.StatusNotFound)
			}
		})

		outDir := t.TempDir()
		out := h.mustRun("motivation", "generate", "-p", "sunrise run", "--output-dir", outDir)
		if !strings.Contains(out, "✓ Video ready: ") || !strings.Contains(out, "(11 bytes)") {
			t.Fatalf("unexpected generate output %q", out)
		}

		entries, err := os.ReadDir(outDir)
		if err != nil || len(entries) != 1 {
			t.Fatalf("expected one video file, got %v %v", entries, err)
		}
		path := filepath.Join(outDir, entries[0].Name())
		if got := tu.MustReadFile(t, path); got != "video-bytes" {
			t.Errorf("unexpected video content %q", got)
		}

		history := h.mustRun("motivation", "history")
		if !strings.Contains(history, path) || !strings.Contains(history, "sunrise run") {
			t.Errorf("expected video in history, got %q", history)
		}

		if out := h.mustRun("motivation", "history", "--clear"); !strings.Contains(out, "✓ Cleared 1 videos") {
			t.Errorf("unexpected clear output %q", out)
		}
	})

	t.Run("failed job prints notice", func(t *testing.T) {
		h := newHarness(t)
		h.withGemini(func(w http.ResponseWriter, r *http.Request) {
			io.WriteString(w, `{"name":"operations/op-2","done":true,"error":{"code":3,"message":"blocked"}}`)
		})

		err := h.run("motivation", "generate", "--output-dir", t.TempDir())
		if err == nil {
			t.Fatal("expected error for failed job")
		}
		if !strings.Contains(h.output.String(), tasks.FailureNotice) {
			t.Errorf("expected failure notice, got %q", h.output.String())
		}
	})

	t.Run("invalid resolution", func(t *testing.T) {
		h := newHarness(t)

		if err := h.run("motivation", "generate", "--resolution", "4k"); !errors.Is(err, shared.ErrInvalidArgument) {
			t.Errorf("expected ErrInvalidArgument, got %v", err)
		}
	})

	t.Run("remove unknown video", func(t *testing.T) {
		h := newHarness(t)

		if err := h.run("motivation", "rm", "missing"); err == nil {
			t.Error("expected error for unknown video")
		}
	})
}

func TestSettingsCommands(t *testing.T) {
	t.Run("export to file and stdout", func(t *testing.T) {
		h := newHarness(t)
		h.mustRun("food", "add", "--name", "Oats", "--calories", "350")

		path := filepath.Join(t.TempDir(), "exports", "data.csv")
		if out := h.mustRun("settings", "export", "--format", "csv", "--output", path); !strings.Contains(out, "✓ Exported to "+path) {
			t.Errorf("unexpected export output %q", out)
		}
		if content := tu.MustReadFile(t, path); !strings.HasPrefix(content, "Collection,ID,Name") {
			t.Errorf("unexpected CSV content %q", content)
		}

		if out := h.mustRun("settings", "export", "--format", "markdown", "--stdout"); !strings.Contains(out, "# FitHub Export") {
			t.Errorf("unexpected markdown export %q", out)
		}

		if err := h.run("settings", "export", "--format", "xml"); !errors.Is(err, shared.ErrInvalidArgument) {
			t.Errorf("expected ErrInvalidArgument, got %v", err)
		}
	})

	t.Run("purge declined", func(t *testing.T) {
		h := newHarness(t, "n")
		h.mustRun("goal", "add", "--name", "Bench", "--target", "100")

		if out := h.mustRun("settings", "purge"); !strings.Contains(out, "Purge cancelled") {
			t.Errorf("unexpected purge output %q", out)
		}
		if out := h.mustRun("goal", "list"); !strings.Contains(out, "Bench") {
			t.Errorf("expected goal to survive, got %q", out)
		}
	})

	t.Run("purge confirmed", func(t *testing.T) {
		h := newHarness(t, "y")
		h.mustRun("login")
		h.mustRun("goal", "add", "--name", "Bench", "--target", "100")

		if out := h.mustRun("settings", "purge"); !strings.Contains(out, "✓ All data purged") {
			t.Errorf("unexpected purge output %q", out)
		}
		if out := h.mustRun("goal", "list"); !strings.Contains(out, "No goals yet") {
			t.Errorf("expected goals cleared, got %q", out)
		}
		if out := h.mustRun("whoami"); !strings.Contains(out, "Not logged in") {
			t.Errorf("expected profile cleared, got %q", out)
		}
	})

	t.Run("purge with flag", func(t *testing.T) {
		h := newHarness(t)
		h.mustRun("goal", "add", "--name", "Bench", "--target", "100")

		if out := h.mustRun("settings", "purge", "--yes"); !strings.Contains(out, "✓ All data purged") {
			t.Errorf("unexpected purge output %q", out)
		}
	})

	t.Run("theme", func(t *testing.T) {
		h := newHarness(t)

		if out := h.mustRun("settings", "theme"); !strings.Contains(out, "Theme: dark") {
			t.Errorf("expected dark default, got %q", out)
		}
		if out := h.mustRun("settings", "theme", "toggle"); !strings.Contains(out, "✓ Theme: light") {
			t.Errorf("unexpected toggle output %q", out)
		}
		if out := h.mustRun("settings", "theme"); !strings.Contains(out, "Theme: light") {
			t.Errorf("expected light, got %q", out)
		}
		if err := h.run("settings", "theme", "blue"); !errors.Is(err, shared.ErrInvalidArgument) {
			t.Errorf("expected ErrInvalidArgument, got %v", err)
		}
	})
}
