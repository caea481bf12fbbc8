package services

import (
	"context"
	"fmt"
	"strings"

	"github.com/charmbracelet/log"

	"github.com/desertthunder/fithub/internal/models"
	"github.com/desertthunder/fithub/internal/shared"
)

const (
	// AdviceUnreachable is returned when the provider call fails.
	AdviceUnreachable = "I couldn't reach your AI coach."
	// AdviceEmpty is returned when the provider answers without text.
	AdviceEmpty = "I'm having trouble analyzing your data right now."

	DefaultCoachModel       = "gemini-3-flash-preview"
	DefaultCoachTemperature = 0.7

	noData        = "No data yet"
	recentLimit   = 5
	listSeparator = ", "
)

// TextGenerator produces text from a prompt.
type TextGenerator interface {
	GenerateText(ctx context.Context, model, prompt string, temperature float64) (string, error)
}

// Coach produces fitness advice from the user's recent data.
type Coach struct {
	generator   TextGenerator
	model       string
	temperature float64
	logger      *log.Logger
}

// NewCoach creates a [Coach]. An empty model uses [DefaultCoachModel]; temperature is used as given.
func NewCoach(generator TextGenerator, model string, temperature float64, logger *log.Logger) *Coach {
	if model == "" {
		model = DefaultCoachModel
	}
	if logger == nil {
		logger = shared.NewLogger(nil)
	}
	return &Coach{
		generator:   generator,
		model:       model,
		temperature: temperature,
		logger:      shared.WithLogger(logger, "component", "coach"),
	}
}

// Advice returns Markdown advice. It never returns an error: failures become [AdviceUnreachable]
// and empty answers become [AdviceEmpty].
func (c *Coach) Advice(ctx context.Context, workouts []models.Workout, foods []models.Food, goals []models.Goal) string {
	prompt := BuildAdvicePrompt(workouts, foods, goals)

	text, err := c.generator.GenerateText(ctx, c.model, prompt, c.temperature)
	if err != nil {
		c.logger.Error("advice request failed", "model", c.model, "error", err)
		return AdviceUnreachable
	}
	if text == "" {
		c.logger.Warn("advice response had no text", "model", c.model)
		return AdviceEmpty
	}
	return text
}

// BuildAdvicePrompt summarizes the five newest workouts and foods and every goal.
// An empty category reads "No data yet".
func BuildAdvicePrompt(workouts []models.Workout, foods []models.Food, goals []models.Goal) string {
	w := make([]string, 0, recentLimit)
	for _, item := range workouts[:min(len(workouts), recentLimit)] {
		w = append(w, fmt.Sprintf("%s: %d reps @ %skg", item.Name, item.Reps, formatNumber(item.Weight)))
	}

	f := make([]string, 0, recentLimit)
	for _, item := range foods[:min(len(foods), recentLimit)] {
		f = append(f, fmt.Sprintf("%s (%s cal)", item.Name, formatNumber(item.Calories)))
	}

	g := make([]string, 0, len(goals))
	for _, item := range goals {
		g = append(g, fmt.Sprintf("%s: %s/%s %s", item.Name, formatNumber(item.Current), formatNumber(item.Target), item.Unit))
	}

	var b strings.Builder
	b.WriteString("Act as a world-class professional fitness coach and nutritionist.\n")
	b.WriteString("Analyze the following user data and provide 3-4 concise, highly actionable pieces of advice.\n")
	b.WriteString("Focus on balancing their workout intensity with their nutrition.\n\n")
	b.WriteString("Data Summary:\n")
	fmt.Fprintf(&b, "Recent Workouts: %s\n", joinOrPlaceholder(w))
	fmt.Fprintf(&b, "Recent Nutrition: %s\n", joinOrPlaceholder(f))
	fmt.Fprintf(&b, "Active Goals: %s\n\n", joinOrPlaceholder(g))
	b.WriteString("Format your response in Markdown with bullet points. Be encouraging but scientific.\n")
	return b.String()
}

func joinOrPlaceholder(items []string) string {
	if joined := strings.Join(items, listSeparator); joined != "" {
		return joined
	}
	return noData
}

// formatNumber prints whole numbers without a fractional part.
func formatNumber(v float64) string {
	return fmt.Sprintf("%v", v)
}
