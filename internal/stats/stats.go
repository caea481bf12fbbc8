// Package stats derives dashboard numbers from the state document.
package stats

import (
	"time"

	"github.com/desertthunder/fithub/internal/models"
)

// Weekdays in dashboard order.
var Weekdays = []time.Weekday{
	time.Monday, time.Tuesday, time.Wednesday, time.Thursday, time.Friday, time.Saturday, time.Sunday,
}

// DayActivity aggregates one weekday.
type DayActivity struct {
	Day      string  `json:"day"`
	Workouts int     `json:"workouts"`
	Calories float64 `json:"calories"`
}

// Dashboard holds the derived figures shown on the dashboard page.
type Dashboard struct {
	TotalCalories float64       `json:"total_calories"`
	TotalProtein  float64       `json:"total_protein"`
	WorkoutCount  int           `json:"workout_count"`
	FoodCount     int           `json:"food_count"`
	GoalCount     int           `json:"goal_count"`
	TotalVolume   float64       `json:"total_volume"`
	GoalProgress  float64       `json:"goal_progress"`
	Streak        int           `json:"streak"`
	Weekly        []DayActivity `json:"weekly"`
}

// Compute derives the dashboard in the local time zone.
func Compute(s models.AppState) Dashboard {
	return ComputeIn(s, time.Local)
}

// ComputeIn derives the dashboard, bucketing dated entries by weekday in loc.
// A nil loc means UTC.
//
// Calories and protein sum every food entry. Entries whose date does not parse are
// counted in the totals but left out of the weekly breakdown.
func ComputeIn(s models.AppState, loc *time.Location) Dashboard {
	if loc == nil {
		loc = time.UTC
	}
	d := Dashboard{
		WorkoutCount: len(s.Workouts),
		FoodCount:    len(s.Foods),
		GoalCount:    len(s.Goals),
		Streak:       s.Streak,
		Weekly:       make([]DayActivity, len(Weekdays)),
	}
	for i, wd := range Weekdays {
		d.Weekly[i].Day = wd.String()[:3]
	}

	for _, w := range s.Workouts {
		d.TotalVolume += float64(w.Reps) * w.Weight
		if i, ok := dayIndex(w.Date, loc); ok {
			d.Weekly[i].Workouts++
		}
	}

	for _, f := range s.Foods {
		d.TotalCalories += f.Calories
		d.TotalProtein += f.Protein
		if i, ok := dayIndex(f.Date, loc); ok {
			d.Weekly[i].Calories += f.Calories
		}
	}

	if len(s.Goals) > 0 {
		var sum float64
		for _, g := range s.Goals {
			sum += g.Progress()
		}
		d.GoalProgress = sum / float64(len(s.Goals))
	}

	return d
}

// dayIndex maps a document date to its position in [Weekdays].
func dayIndex(date string, loc *time.Location) (int, bool) {
	t, err := models.ParseDate(date)
	if err != nil {
		return 0, false
	}
	// Monday is 0, Sunday is 6.
	return (int(t.In(loc).Weekday()) + 6) % 7, true
}

// Busiest returns the weekday with the most workouts, preferring the earliest on ties.
func (d Dashboard) Busiest() (DayActivity, bool) {
	best := -1
	for i, day := range d.Weekly {
		if day.Workouts > 0 && (best < 0 || day.Workouts > d.Weekly[best].Workouts) {
			best = i
		}
	}
	if best < 0 {
		return DayActivity{}, false
	}
	return d.Weekly[best], true
}
