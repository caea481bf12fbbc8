package ui

import (
	"fmt"
	"strconv"

	"github.com/charmbracelet/bubbles/list"
	"github.com/desertthunder/fithub/internal/models"
)

var (
	_ list.DefaultItem = workoutItem{}
	_ list.DefaultItem = foodItem{}
	_ list.DefaultItem = goalItem{}
)

// workoutItem wraps [models.Workout] to implement [list.Item].
type workoutItem struct {
	workout models.Workout
}

func (i workoutItem) FilterValue() string { return i.workout.Name }
func (i workoutItem) Title() string       { return i.workout.Name }
func (i workoutItem) Description() string {
	return fmt.Sprintf("%d reps • %s kg%s", i.workout.Reps, number(i.workout.Weight), shortDate(i.workout.Date))
}

// foodItem wraps [models.Food] to implement [list.Item].
type foodItem struct {
	food models.Food
}

func (i foodItem) FilterValue() string { return i.food.Name }
func (i foodItem) Title() string       { return i.food.Name }
func (i foodItem) Description() string {
	return fmt.Sprintf("%s kcal • %sg protein%s", number(i.food.Calories), number(i.food.Protein), shortDate(i.food.Date))
}

// goalItem wraps [models.Goal] to implement [list.Item].
type goalItem struct {
	goal models.Goal
}

func (i goalItem) FilterValue() string { return i.goal.Name }
func (i goalItem) Title() string       { return i.goal.Name }
func (i goalItem) Description() string {
	return fmt.Sprintf("%s/%s %s • %d%%", number(i.goal.Current), number(i.goal.Target), i.goal.Unit, int(i.goal.Progress()*100))
}

func workoutItems(ws []models.Workout) []list.Item {
	items := make([]list.Item, len(ws))
	for i, w := range ws {
		items[i] = workoutItem{workout: w}
	}
	return items
}

func foodItems(fs []models.Food) []list.Item {
	items := make([]list.Item, len(fs))
	for i, f := range fs {
		items[i] = foodItem{food: f}
	}
	return items
}

func goalItems(gs []models.Goal) []list.Item {
	items := make([]list.Item, len(gs))
	for i, g := range gs {
		items[i] = goalItem{goal: g}
	}
	return items
}

func newList(title string) list.Model {
	l := list.New(nil, list.NewDefaultDelegate(), 76, 14)
	l.Title = title
	l.SetShowHelp(false)
	l.SetFilteringEnabled(false)
	return l
}

func number(v float64) string {
	return strconv.FormatFloat(v, 'f', -1, 64)
}

func shortDate(date string) string {
	t, err := models.ParseDate(date)
	if err != nil {
		return ""
	}
	return " • " + t.Local().Format("Jan 2")
}
