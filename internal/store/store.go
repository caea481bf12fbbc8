// Package store owns the FitHub state document and mirrors every change to a [repositories.KV].
//
// All mutations go through [Store.Mutate] as [models.Transform] values applied to the
// latest in-memory document under a single mutex, followed by a synchronous full-document
// write. Writes therefore happen in mutation order and no update is lost to a stale read.
package store

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"sync"

	"github.com/charmbracelet/log"

	"github.com/desertthunder/fithub/internal/models"
	"github.com/desertthunder/fithub/internal/repositories"
	"github.com/desertthunder/fithub/internal/shared"
)

// DefaultKey is the key the document is stored under.
const DefaultKey = "fithub_pro"

// Store is the persisted state store.
type Store struct {
	kv     repositories.KV
	key    string
	logger *log.Logger

	mu    sync.Mutex
	state models.AppState
}

// New creates a [Store] over kv. The in-memory document starts as the default until [Store.Load] runs.
func New(kv repositories.KV, key string, logger *log.Logger) *Store {
	if key == "" {
		key = DefaultKey
	}
	if logger == nil {
		logger = shared.NewLogger(nil)
	}
	return &Store{
		kv:     kv,
		key:    key,
		logger: shared.WithLogger(logger, "component", "store"),
		state:  models.DefaultState(),
	}
}

// Key returns the storage key.
func (s *Store) Key() string { return s.key }

// Load reads the stored document and installs it as the current state.
//
// A missing key, a read error, or a value that does not decode all yield the default
// document. Load never fails.
func (s *Store) Load(ctx context.Context) models.AppState {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.state = s.read(ctx)
	return s.state.Clone()
}

func (s *Store) read(ctx context.Context) models.AppState {
	raw, found, err := s.kv.Get(ctx, s.key)
	if err != nil {
		s.logger.Warn("could not read state, using defaults", "key", s.key, "error", err)
		return models.DefaultState()
	}
	if !found {
		return models.DefaultState()
	}

	if strings.TrimSpace(raw) == "null" {
		s.logger.Warn("invalid state document, using defaults", "key", s.key, "error", "null value")
		return models.DefaultState()
	}

	// Fields absent from the stored document keep their defaults.
	state := models.DefaultState()
	if err := json.Unmarshal([]byte(raw), &state); err != nil {
		s.logger.Warn("invalid state document, using defaults", "key", s.key, "error", err)
		return models.DefaultState()
	}
	return state.Normalize()
}

// Save installs state as the current document and writes it through.
func (s *Store) Save(ctx context.Context, state models.AppState) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.state = state.Normalize().Clone()
	return s.write(ctx)
}

// Snapshot returns a deep copy of the current document.
func (s *Store) Snapshot() models.AppState {
	s.mu.Lock()
	defer s.mu.Unlock()

	return s.state.Clone()
}

// Mutate applies t to the current document, installs the result, and writes it through.
//
// The in-memory document is authoritative: when the write fails the change is kept and the
// returned error wraps [shared.ErrPersist].
func (s *Store) Mutate(ctx context.Context, t models.Transform) (models.AppState, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.state = t(s.state).Normalize()
	return s.state.Clone(), s.write(ctx)
}

// Purge resets the document to the default and deletes the stored key.
func (s *Store) Purge(ctx context.Context) (models.AppState, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.state = models.DefaultState()
	if err := s.kv.Delete(ctx, s.key); err != nil {
		s.logger.Error("failed to delete state", "key", s.key, "error", err)
		return s.state.Clone(), fmt.Errorf("%w: %w", shared.ErrPersist, err)
	}
	s.logger.Info("state purged", "key", s.key)
	return s.state.Clone(), nil
}

// Login installs the stub profile.
func (s *Store) Login(ctx context.Context, user models.User) (models.AppState, error) {
	return s.Mutate(ctx, models.SetUser(user))
}

// Logout clears the profile and keeps all other data.
func (s *Store) Logout(ctx context.Context) (models.AppState, error) {
	return s.Mutate(ctx, models.ClearUser())
}

// write serializes the current document. Callers hold mu.
func (s *Store) write(ctx context.Context) error {
	data, err := json.Marshal(s.state)
	if err != nil {
		s.logger.Error("failed to encode state", "error", err)
		return fmt.Errorf("%w: %w", shared.ErrPersist, err)
	}

	if err := s.kv.Set(ctx, s.key, string(data)); err != nil {
		s.logger.Error("failed to write state", "key", s.key, "error", err)
		return fmt.Errorf("%w: %w", shared.ErrPersist, err)
	}
	return nil
}
