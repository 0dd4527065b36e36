package alpha

import (
	"fmt"
	"strings"
	"time"

	"github.com/claude/liftlog/internal/models"
	"github.com/google/uuid"
)

// namespace scopes the name-based ids of imported workouts so a re-import of
// the same export produces the same ids.
var namespace = uuid.MustParse("5b0a6f0e-57a4-4c55-9b1c-4c5e8a3f6d21")

// trainingType takes the routine day from a session name such as
// "Legs · Day 2 · Week 4 · Push-Pull-Legs".
func trainingType(name string) string {
	head, _, _ := strings.Cut(name, " · ")
	return strings.TrimSpace(head)
}

// ToWorkouts converts parsed sessions into history records. Session times,
// which carry no zone, are read in loc. Warmup sets are left out and
// counted; working sets are renumbered from 1.
func ToWorkouts(sessions []Session, loc *time.Location) (workouts []models.Workout, warmupsDropped int) {
	if loc == nil {
		loc = time.UTC
	}

	for _, s := range sessions {
		d := s.Date
		ts := time.Date(d.Year(), d.Month(), d.Day(), d.Hour(), d.Minute(), 0, 0, loc)
		id := uuid.NewSHA1(namespace, []byte(ts.UTC().Format(time.RFC3339)+"|"+s.Name))

		w := models.Workout{
			ID:           id.String(),
			Location:     models.LocationGym,
			Mode:         models.ModeRecord,
			Timestamp:    ts,
			TrainingType: trainingType(s.Name),
		}

		seenEquipment := make(map[string]bool)
		for _, ex := range s.Exercises {
			warmupsDropped += len(ex.Warmups)
			if len(ex.Sets) == 0 {
				continue
			}

			sets := make([]models.Set, 0, len(ex.Sets))
			for i, set := range ex.Sets {
				sets = append(sets, models.Set{Index: i + 1, Weight: set.Weight, Reps: set.Reps})
			}
			w.Exercises = append(w.Exercises, models.Exercise{
				ID:        uuid.NewSHA1(id, []byte(fmt.Sprint(ex.Number))).String(),
				Name:      ex.Name,
				Equipment: ex.Equipment,
				Sets:      sets,
			})

			if ex.Equipment != "" && !seenEquipment[ex.Equipment] {
				seenEquipment[ex.Equipment] = true
				w.Equipment = append(w.Equipment, ex.Equipment)
			}
		}

		if len(w.Exercises) > 0 {
			workouts = append(workouts, w)
		}
	}
	return workouts, warmupsDropped
}
