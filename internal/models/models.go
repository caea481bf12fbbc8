package models

import (
	"strings"
	"time"

	"github.com/desertthunder/fithub/internal/shared"
)

// DateLayout renders timestamps as ISO-8601 in UTC with millisecond precision.
const DateLayout = "2006-01-02T15:04:05.000Z"

// Defaults used by the stub login.
const (
	DefaultUserName  = "Alex Johnson"
	DefaultUserEmail = "alex@example.com"
	DefaultAvatar    = "https://picsum.photos/seed/alex/100/100"
)

// User is the logged-in profile. Credentials are never validated.
type User struct {
	Name   string `json:"name"`
	Email  string `json:"email"`
	Avatar string `json:"avatar"`
}

// Workout is one logged exercise. Weight is in kilograms.
type Workout struct {
	ID     string  `json:"id"`
	Name   string  `json:"name"`
	Reps   int     `json:"reps"`
	Weight float64 `json:"weight"`
	Date   string  `json:"date"`
}

// Food is one nutrition entry.
type Food struct {
	ID       string  `json:"id"`
	Name     string  `json:"name"`
	Calories float64 `json:"calories"`
	Protein  float64 `json:"protein"`
	Date     string  `json:"date"`
}

// Goal tracks progress toward a target measured in Unit.
type Goal struct {
	ID      string  `json:"id"`
	Name    string  `json:"name"`
	Target  float64 `json:"target"`
	Current float64 `json:"current"`
	Unit    string  `json:"unit"`
}

// AppState is the root document and the sole unit of persistence.
type AppState struct {
	User       *User     `json:"user"`
	Workouts   []Workout `json:"workouts"`
	Foods      []Food    `json:"foods"`
	Goals      []Goal    `json:"goals"`
	Streak     int       `json:"streak"`
	IsDarkMode bool      `json:"isDarkMode"`
}

func (w Workout) ItemID() string { return w.ID }
func (f Food) ItemID() string    { return f.ID }
func (g Goal) ItemID() string    { return g.ID }

// DefaultState returns the empty document used on first run and after a purge.
func DefaultState() AppState {
	return AppState{
		Workouts:   []Workout{},
		Foods:      []Food{},
		Goals:      []Goal{},
		IsDarkMode: true,
	}
}

// LoggedIn reports whether a user profile is present.
func (s AppState) LoggedIn() bool { return s.User != nil }

// Normalize replaces nil collections with empty ones so they serialize as [].
func (s AppState) Normalize() AppState {
	if s.Workouts == nil {
		s.Workouts = []Workout{}
	}
	if s.Foods == nil {
		s.Foods = []Food{}
	}
	if s.Goals == nil {
		s.Goals = []Goal{}
	}
	return s
}

// Clone returns a deep copy sharing no slices or pointers with s.
func (s AppState) Clone() AppState {
	out := s
	if s.User != nil {
		u := *s.User
		out.User = &u
	}
	out.Workouts = append(make([]Workout, 0, len(s.Workouts)), s.Workouts...)
	out.Foods = append(make([]Food, 0, len(s.Foods)), s.Foods...)
	out.Goals = append(make([]Goal, 0, len(s.Goals)), s.Goals...)
	return out
}

// FormatDate renders t in [DateLayout].
func FormatDate(t time.Time) string {
	return t.UTC().Format(DateLayout)
}

// ParseDate parses a document date, accepting [DateLayout] and plain RFC 3339.
func ParseDate(s string) (time.Time, error) {
	if t, err := time.Parse(DateLayout, s); err == nil {
		return t, nil
	}
	return time.Parse(time.RFC3339Nano, s)
}

// NewWorkout builds a workout stamped at now.
//
// It reports false when the name is blank or reps is zero; callers skip the add silently.
func NewWorkout(name string, reps int, weight float64, now time.Time) (Workout, bool) {
	name = strings.TrimSpace(name)
	if name == "" || reps == 0 {
		return Workout{}, false
	}
	return Workout{
		ID:     shared.GenerateID(),
		Name:   name,
		Reps:   reps,
		Weight: weight,
		Date:   FormatDate(now),
	}, true
}

// NewFood builds a food entry stamped at now. It reports false when the name is blank.
func NewFood(name string, calories, protein float64, now time.Time) (Food, bool) {
	name = strings.TrimSpace(name)
	if name == "" {
		return Food{}, false
	}
	return Food{
		ID:       shared.GenerateID(),
		Name:     name,
		Calories: calories,
		Protein:  protein,
		Date:     FormatDate(now),
	}, true
}

// NewGoal builds a goal. It reports false when the name is blank.
func NewGoal(name string, target, current float64, unit string) (Goal, bool) {
	name = strings.TrimSpace(name)
	if name == "" {
		return Goal{}, false
	}
	return Goal{
		ID:      shared.GenerateID(),
		Name:    name,
		Target:  target,
		Current: current,
		Unit:    strings.TrimSpace(unit),
	}, true
}

// NewUser builds a stub profile, filling blanks with the demo identity.
func NewUser(name, email string) User {
	if name = strings.TrimSpace(name); name == "" {
		name = DefaultUserName
	}
	if email = strings.TrimSpace(email); email == "" {
		email = DefaultUserEmail
	}
	return User{Name: name, Email: email, Avatar: DefaultAvatar}
}

// Progress returns Current/Target clamped to [0, 1]. A zero target counts as complete once Current is positive.
func (g Goal) Progress() float64 {
	if g.Target <= 0 {
		if g.Current > 0 {
			return 1
		}
		return 0
	}
	p := g.Current / g.Target
	switch {
	case p < 0:
		return 0
	case p > 1:
		return 1
	}
	return p
}

// VideoAsset records a generated motivational video written to disk.
type VideoAsset struct {
	ID        string    `json:"id"`
	Operation string    `json:"operation"`
	Prompt    string    `json:"prompt"`
	Path      string    `json:"path"`
	CreatedAt time.Time `json:"created_at"`
}
