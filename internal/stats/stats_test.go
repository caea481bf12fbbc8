package stats

import (
	"math"
	"testing"

	"github.com/desertthunder/fithub/internal/models"
)

func TestComputeIn(t *testing.T) {
	t.Run("Empty", func(t *testing.T) {
		d := ComputeIn(models.DefaultState(), nil)
		if d.TotalCalories != 0 || d.WorkoutCount != 0 || d.GoalCount != 0 || d.GoalProgress != 0 {
			t.Errorf("expected zeros, got %+v", d)
		}
		if len(d.Weekly) != 7 || d.Weekly[0].Day != "Mon" || d.Weekly[6].Day != "Sun" {
			t.Errorf("unexpected weekly buckets %+v", d.Weekly)
		}
		if _, ok := d.Busiest(); ok {
			t.Error("no busiest day expected without workouts")
		}
	})

	t.Run("Totals And Buckets", func(t *testing.T) {
		s := models.DefaultState()
		s.Streak = 5
		s.Workouts = []models.Workout{
			{Name: "Bench", Reps: 8, Weight: 80, Date: "2025-03-03T10:00:00.000Z"},  // Monday
			{Name: "Squat", Reps: 5, Weight: 100, Date: "2025-03-05T10:00:00.000Z"}, // Wednesday
			{Name: "Row", Reps: 10, Weight: 50, Date: "2025-03-12T10:00:00.000Z"},   // Wednesday
			{Name: "Plank", Reps: 1, Weight: 0, Date: "not a date"},
		}
		s.Foods = []models.Food{
			{Name: "Oats", Calories: 150, Protein: 5, Date: "2025-03-09T08:00:00.000Z"}, // Sunday
			{Name: "Steak", Calories: 600, Protein: 50, Date: "2025-03-09T19:00:00.000Z"},
			{Name: "Bar", Calories: 200, Protein: 20},
		}
		s.Goals = []models.Goal{
			{Name: "Run", Target: 10, Current: 5},
			{Name: "Lift", Target: 100, Current: 100},
		}

		d := ComputeIn(s, nil)

		if d.TotalCalories != 950 || d.TotalProtein != 75 {
			t.Errorf("unexpected nutrition totals %v %v", d.TotalCalories, d.TotalProtein)
		}
		if d.WorkoutCount != 4 || d.FoodCount != 3 || d.GoalCount != 2 || d.Streak != 5 {
			t.Errorf("unexpected counts %+v", d)
		}
		if d.TotalVolume != 8*80+5*100+10*50 {
			t.Errorf("unexpected volume %v", d.TotalVolume)
		}
		if math.Abs(d.GoalProgress-0.75) > 1e-9 {
			t.Errorf("expected goal progress 0.75, got %v", d.GoalProgress)
		}

		if d.Weekly[0].Workouts != 1 || d.Weekly[2].Workouts != 2 {
			t.Errorf("unexpected workout buckets %+v", d.Weekly)
		}
		if d.Weekly[6].Calories != 750 {
			t.Errorf("expected 750 Sunday calories, got %v", d.Weekly[6].Calories)
		}

		busiest, ok := d.Busiest()
		if !ok || busiest.Day != "Wed" {
			t.Errorf("expected Wed to be busiest, got %+v", busiest)
		}
	})
}
