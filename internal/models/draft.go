package models

import (
	"errors"
	"fmt"
	"math"
	"strconv"
	"strings"
	"time"

	"github.com/google/uuid"
)

var (
	ErrEmptyName      = errors.New("exercise name is required")
	ErrNoSets         = errors.New("at least one set is required")
	ErrNoExercises    = errors.New("at least one exercise is required")
	ErrNoTrainingType = errors.New("training type is required")
	ErrExerciseIndex  = errors.New("exercise index out of range")
)

// SetInput is one raw set row as typed by the user.
type SetInput struct {
	Weight string `json:"weight"`
	Reps   string `json:"reps"`
}

// ExerciseInput is a raw exercise form submission.
type ExerciseInput struct {
	Name      string     `json:"name"`
	Equipment string     `json:"equipment"`
	Sets      []SetInput `json:"sets"`
}

// ParseExercise validates a form submission and builds an Exercise with a
// fresh id. Blank, unparsable, non-finite or negative numbers become 0.
func ParseExercise(in ExerciseInput) (Exercise, error) {
	name := strings.TrimSpace(in.Name)
	if name == "" {
		return Exercise{}, ErrEmptyName
	}
	if len(in.Sets) == 0 {
		return Exercise{}, ErrNoSets
	}

	sets := make([]Set, 0, len(in.Sets))
	for i, row := range in.Sets {
		sets = append(sets, Set{
			Index:  i + 1,
			Weight: parseWeight(row.Weight),
			Reps:   parseReps(row.Reps),
		})
	}
	return Exercise{
		ID:        uuid.NewString(),
		Name:      name,
		Equipment: strings.TrimSpace(in.Equipment),
		Sets:      sets,
	}, nil
}

func parseWeight(s string) float64 {
	s = strings.ReplaceAll(strings.TrimSpace(s), ",", ".")
	w, err := strconv.ParseFloat(s, 64)
	if err != nil || math.IsNaN(w) || math.IsInf(w, 0) || w < 0 {
		return 0
	}
	return w
}

func parseReps(s string) int {
	s = strings.TrimSpace(s)
	if r, err := strconv.Atoi(s); err == nil {
		return max(r, 0)
	}
	// "8.0" and similar still count as reps.
	f, err := strconv.ParseFloat(s, 64)
	if err != nil || math.IsNaN(f) || math.IsInf(f, 0) || f < 0 || f > math.MaxInt32 {
		return 0
	}
	return int(f)
}

// Draft is a workout under construction. Its methods return updated copies
// and never modify the receiver.
type Draft struct {
	Workout
}

// NewDraft starts a gym session logged now.
func NewDraft(now time.Time) Draft {
	return Draft{Workout{
		ID:        uuid.NewString(),
		Location:  LocationGym,
		Mode:      ModeNow,
		Timestamp: now,
	}}
}

func (d Draft) clone() Draft {
	out := d
	out.Exercises = append([]Exercise(nil), d.Exercises...)
	out.Equipment = append([]string(nil), d.Equipment...)
	return out
}

// AddExercise appends ex to the draft.
func (d Draft) AddExercise(ex Exercise) Draft {
	out := d.clone()
	out.Exercises = append(out.Exercises, ex)
	return out
}

// UpdateExercise replaces the exercise at index, keeping its id.
func (d Draft) UpdateExercise(index int, ex Exercise) (Draft, error) {
	if index < 0 || index >= len(d.Exercises) {
		return d, fmt.Errorf("updating exercise %d: %w", index, ErrExerciseIndex)
	}
	out := d.clone()
	ex.ID = d.Exercises[index].ID
	out.Exercises[index] = ex
	return out, nil
}

// RemoveExercise drops the exercise at index.
func (d Draft) RemoveExercise(index int) (Draft, error) {
	if index < 0 || index >= len(d.Exercises) {
		return d, fmt.Errorf("removing exercise %d: %w", index, ErrExerciseIndex)
	}
	out := d.clone()
	out.Exercises = append(out.Exercises[:index], out.Exercises[index+1:]...)
	return out, nil
}

// Finalize returns the completed workout, ready to be appended to history.
func (d Draft) Finalize() (Workout, error) {
	if strings.TrimSpace(d.TrainingType) == "" {
		return Workout{}, ErrNoTrainingType
	}
	if err := Validate(d.Workout); err != nil {
		return Workout{}, err
	}
	return d.clone().Workout, nil
}

// Validate checks the invariants a workout must hold before it enters
// history: at least one exercise, each named and with at least one set of
// non-negative, finite numbers.
func Validate(w Workout) error {
	if len(w.Exercises) == 0 {
		return ErrNoExercises
	}
	for i, ex := range w.Exercises {
		if strings.TrimSpace(ex.Name) == "" {
			return fmt.Errorf("exercise %d: %w", i+1, ErrEmptyName)
		}
		if len(ex.Sets) == 0 {
			return fmt.Errorf("exercise %q: %w", ex.Name, ErrNoSets)
		}
		for _, s := range ex.Sets {
			if s.Weight < 0 || math.IsNaN(s.Weight) || math.IsInf(s.Weight, 0) || s.Reps < 0 {
				return fmt.Errorf("exercise %q set %d: weight and reps must be non-negative", ex.Name, s.Index)
			}
		}
	}
	return nil
}
