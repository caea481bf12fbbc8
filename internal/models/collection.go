package models

import (
	"fmt"
	"strings"

	"github.com/desertthunder/fithub/internal/shared"
)

// Collection names one of the three entity lists in [AppState].
type Collection int

const (
	Workouts Collection = iota
	Foods
	Goals
)

// Collections lists every [Collection] in document order.
var Collections = []Collection{Workouts, Foods, Goals}

func (c Collection) String() string {
	switch c {
	case Workouts:
		return "workouts"
	case Foods:
		return "foods"
	case Goals:
		return "goals"
	default:
		return fmt.Sprintf("Collection(%d)", int(c))
	}
}

// ParseCollection accepts the plural or singular name of a collection.
func ParseCollection(s string) (Collection, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "workouts", "workout":
		return Workouts, nil
	case "foods", "food", "nutrition":
		return Foods, nil
	case "goals", "goal":
		return Goals, nil
	default:
		return 0, fmt.Errorf("%w: unknown collection %q", shared.ErrInvalidArgument, s)
	}
}

// Entity is any record stored in a collection.
type Entity interface {
	Workout | Food | Goal
	ItemID() string
}

// Transform is a pure function from the previous document to the next.
type Transform func(AppState) AppState

// CollectionOf binds an entity type to its slice in [AppState].
type CollectionOf[T Entity] struct {
	Kind Collection
	get  func(AppState) []T
	set  func(*AppState, []T)
}

var (
	WorkoutList = CollectionOf[Workout]{
		Kind: Workouts,
		get:  func(s AppState) []Workout { return s.Workouts },
		set:  func(s *AppState, v []Workout) { s.Workouts = v },
	}
	FoodList = CollectionOf[Food]{
		Kind: Foods,
		get:  func(s AppState) []Food { return s.Foods },
		set:  func(s *AppState, v []Food) { s.Foods = v },
	}
	GoalList = CollectionOf[Goal]{
		Kind: Goals,
		get:  func(s AppState) []Goal { return s.Goals },
		set:  func(s *AppState, v []Goal) { s.Goals = v },
	}
)

// Items returns the collection's entries in s, newest first.
func (c CollectionOf[T]) Items(s AppState) []T {
	return c.get(s)
}

// Find returns the entry with the given id.
func (c CollectionOf[T]) Find(s AppState, id string) (T, bool) {
	for _, item := range c.get(s) {
		if item.ItemID() == id {
			return item, true
		}
	}
	var zero T
	return zero, false
}

// AddItem prepends item to the collection. Item shape is not validated here.
func AddItem[T Entity](c CollectionOf[T], item T) Transform {
	return func(s AppState) AppState {
		cur := c.get(s)
		next := make([]T, 0, len(cur)+1)
		next = append(next, item)
		next = append(next, cur...)
		c.set(&s, next)
		return s
	}
}

// RemoveItem drops every entry whose id matches. No match leaves s unchanged.
func RemoveItem[T Entity](c CollectionOf[T], id string) Transform {
	return func(s AppState) AppState {
		cur := c.get(s)
		next := make([]T, 0, len(cur))
		for _, item := range cur {
			if item.ItemID() != id {
				next = append(next, item)
			}
		}
		if len(next) == len(cur) {
			return s
		}
		c.set(&s, next)
		return s
	}
}

// RemoveByCollection routes a removal addressed by name to the typed operation.
func RemoveByCollection(kind Collection, id string) Transform {
	switch kind {
	case Workouts:
		return RemoveItem(WorkoutList, id)
	case Foods:
		return RemoveItem(FoodList, id)
	case Goals:
		return RemoveItem(GoalList, id)
	default:
		return func(s AppState) AppState { return s }
	}
}

// SetUser installs u as the logged-in profile.
func SetUser(u User) Transform {
	return func(s AppState) AppState {
		s.User = &u
		return s
	}
}

// ClearUser logs out. Every other field is kept.
func ClearUser() Transform {
	return func(s AppState) AppState {
		s.User = nil
		return s
	}
}

// SetDarkMode sets the display-mode flag.
func SetDarkMode(on bool) Transform {
	return func(s AppState) AppState {
		s.IsDarkMode = on
		return s
	}
}

// Chain composes transforms left to right.
func Chain(ts ...Transform) Transform {
	return func(s AppState) AppState {
		for _, t := range ts {
			s = t(s)
		}
		return s
	}
}
