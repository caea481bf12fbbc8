package tasks

import (
	"context"
	"sync/atomic"

	"github.com/desertthunder/fithub/internal/models"
)

// AdviceSource produces advice text and never fails. [services.Coach] implements it.
type AdviceSource interface {
	Advice(ctx context.Context, workouts []models.Workout, foods []models.Food, goals []models.Goal) string
}

// Advisor guards an [AdviceSource] with a single pending request.
type Advisor struct {
	source  AdviceSource
	pending atomic.Bool
}

// NewAdvisor creates an [Advisor] over source.
func NewAdvisor(source AdviceSource) *Advisor {
	return &Advisor{source: source}
}

// Pending reports whether a request is outstanding.
func (a *Advisor) Pending() bool { return a.pending.Load() }

// Request asks for advice on the collections in state.
//
// It returns [ErrRequestInFlight] immediately when another request is outstanding.
func (a *Advisor) Request(ctx context.Context, state models.AppState, progress chan<- ProgressUpdate) (string, error) {
	if !a.pending.CompareAndSwap(false, true) {
		return "", ErrRequestInFlight
	}
	defer a.pending.Store(false)

	sendProgress(progress, adviceUpdate("Analyzing your data...", false))
	advice := a.source.Advice(ctx, state.Workouts, state.Foods, state.Goals)
	sendProgress(progress, adviceUpdate("Advice ready", true))
	return advice, nil
}
