// Package history derives exercise catalogs, summaries and progression
// series from a workout history snapshot. Every function is pure: inputs are
// read-only and results never alias them.
package history

import (
	"slices"
	"time"

	"github.com/claude/liftlog/internal/models"
	"golang.org/x/text/collate"
	"golang.org/x/text/language"
)

// SetSummary is the weight and reps of one set from the last session.
type SetSummary struct {
	Weight float64 `json:"weight"`
	Reps   int     `json:"reps"`
}

// LastSession is the most recent workout containing an exercise.
type LastSession struct {
	Timestamp time.Time    `json:"timestamp"`
	WorkoutID string       `json:"workout_id"`
	Sets      []SetSummary `json:"sets"`
}

// Summary pairs the last session with the all-time heaviest weight. Both
// are nil when the exercise never appears.
type Summary struct {
	Last     *LastSession `json:"last"`
	Heaviest *float64     `json:"heaviest"`
}

// Point is one workout's top set for an exercise.
type Point struct {
	Timestamp time.Time `json:"timestamp"`
	TopWeight float64   `json:"top_weight"`
	RepsAtTop int       `json:"reps_at_top"`
	WorkoutID string    `json:"workout_id"`
}

// Index holds query settings. The zero value collates in English.
type Index struct {
	Lang language.Tag
}

// Catalog returns the distinct exercise names in h. Names are deduplicated
// exactly as stored, so "Squat" and "squat" both appear, and sorted with
// English collation.
func Catalog(h models.History) []string {
	return Index{}.Catalog(h)
}

// Catalog is Catalog using the index's collation language.
func (ix Index) Catalog(h models.History) []string {
	seen := make(map[string]struct{})
	var names []string
	for _, w := range h {
		for _, ex := range w.Exercises {
			if _, ok := seen[ex.Name]; ok {
				continue
			}
			seen[ex.Name] = struct{}{}
			names = append(names, ex.Name)
		}
	}
	ix.sort(names)
	if names == nil {
		names = []string{}
	}
	return names
}

func (ix Index) sort(names []string) {
	lang := ix.Lang
	if lang == language.Und {
		lang = language.English
	}
	// Collators are not safe for concurrent use.
	c := collate.New(lang)
	slices.SortStableFunc(names, func(a, b string) int {
		if n := c.CompareString(a, b); n != 0 {
			return n
		}
		// Fully equal under collation: fall back to byte order so output is
		// deterministic.
		switch {
		case a < b:
			return -1
		case a > b:
			return 1
		}
		return 0
	})
}

// newestFirst returns a copy of h sorted by descending timestamp. Equal
// timestamps keep insertion order.
func newestFirst(h models.History) models.History {
	out := slices.Clone(h)
	slices.SortStableFunc(out, func(a, b models.Workout) int {
		return b.Timestamp.Compare(a.Timestamp)
	})
	return out
}

// Summarize reports the most recent session of name and the heaviest weight
// ever lifted for it. Names match case-insensitively; only the first matching
// exercise of each workout counts.
func Summarize(h models.History, name string) Summary {
	match := models.ExerciseMatcher(name)
	var sum Summary
	var heaviest float64
	found := false

	for _, w := range newestFirst(h) {
		for _, ex := range w.Exercises {
			if !match(ex.Name) {
				continue
			}
			if sum.Last == nil {
				sets := make([]SetSummary, 0, len(ex.Sets))
				for _, s := range ex.Sets {
					sets = append(sets, SetSummary{Weight: s.Weight, Reps: s.Reps})
				}
				sum.Last = &LastSession{Timestamp: w.Timestamp, WorkoutID: w.ID, Sets: sets}
			}
			for _, s := range ex.Sets {
				if !found || s.Weight > heaviest {
					heaviest = s.Weight
					found = true
				}
			}
			break
		}
	}

	if found {
		sum.Heaviest = &heaviest
	}
	return sum
}

// Series returns one point per workout containing name, oldest first. The
// point carries the heaviest weight across all matching exercises in that
// workout and the reps of the first set that reached it.
func Series(h models.History, name string) []Point {
	match := models.ExerciseMatcher(name)
	points := []Point{}

	for _, w := range h {
		var p Point
		matched, seenSet := false, false
		for _, ex := range w.Exercises {
			if !match(ex.Name) {
				continue
			}
			matched = true
			for _, s := range ex.Sets {
				// Strictly greater: a later set with an equal weight keeps
				// the earlier reps.
				if !seenSet || s.Weight > p.TopWeight {
					p.TopWeight = s.Weight
					p.RepsAtTop = s.Reps
				}
				seenSet = true
			}
		}
		if !matched {
			continue
		}
		p.Timestamp = w.Timestamp
		p.WorkoutID = w.ID
		points = append(points, p)
	}

	slices.SortStableFunc(points, func(a, b Point) int {
		return a.Timestamp.Compare(b.Timestamp)
	})
	return points
}
