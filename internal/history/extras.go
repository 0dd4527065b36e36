package history

import (
	"slices"
	"time"

	"github.com/claude/liftlog/internal/models"
)

// commonExercises seeds name suggestions before any history exists.
var commonExercises = []string{
	"Bench Press",
	"Incline Dumbbell Press",
	"Overhead Press",
	"Lat Pulldown",
	"Pull-Up",
	"Barbell Row",
	"Seated Cable Row",
	"Deadlift",
	"Squat",
	"Front Squat",
	"Leg Press",
	"Romanian Deadlift",
	"Lunge",
	"Calf Raise",
	"Biceps Curl",
	"Hammer Curl",
	"Triceps Pushdown",
	"Skullcrusher",
	"Lateral Raise",
	"Face Pull",
	"Hip Thrust",
	"Leg Extension",
	"Leg Curl",
	"Plank",
	"Crunch",
}

// Recent returns a copy of h with the newest workout first.
func Recent(h models.History) models.History {
	out := newestFirst(h)
	if out == nil {
		out = models.History{}
	}
	return out
}

// Suggestions merges the catalog with a list of common exercise names for
// autocompletion. Duplicates are removed by exact spelling.
func Suggestions(h models.History) []string {
	return Index{}.Suggestions(h)
}

// Suggestions is Suggestions using the index's collation language.
func (ix Index) Suggestions(h models.History) []string {
	names := ix.Catalog(h)
	for _, n := range commonExercises {
		if !slices.Contains(names, n) {
			names = append(names, n)
		}
	}
	ix.sort(names)
	return names
}

// VolumePoint is the work done on one exercise in one workout.
type VolumePoint struct {
	Timestamp time.Time `json:"timestamp"`
	WorkoutID string    `json:"workout_id"`
	Sets      int       `json:"sets"`
	Reps      int       `json:"reps"`
	Tonnage   float64   `json:"tonnage"`
}

// Volume returns per-workout set count, total reps and tonnage (weight × reps
// summed over sets) for name, oldest first.
func Volume(h models.History, name string) []VolumePoint {
	match := models.ExerciseMatcher(name)
	points := []VolumePoint{}

	for _, w := range h {
		var p VolumePoint
		matched := false
		for _, ex := range w.Exercises {
			if !match(ex.Name) {
				continue
			}
			matched = true
			for _, s := range ex.Sets {
				p.Sets++
				p.Reps += s.Reps
				p.Tonnage += s.Weight * float64(s.Reps)
			}
		}
		if !matched {
			continue
		}
		p.Timestamp = w.Timestamp
		p.WorkoutID = w.ID
		points = append(points, p)
	}

	slices.SortStableFunc(points, func(a, b VolumePoint) int {
		return a.Timestamp.Compare(b.Timestamp)
	})
	return points
}
