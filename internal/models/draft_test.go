package models

import (
	"errors"
	"testing"
	"time"
)

// TestParseExercise verifies trimming, renumbering and numeric coercion of a
// raw exercise submission.
func TestParseExercise(t *testing.T) {
	ex, err := ParseExercise(ExerciseInput{
		Name: "  Bench Press ",
		Sets: []SetInput{
			{Weight: "60", Reps: "8"},
			{Weight: "62,5", Reps: ""},
			{Weight: "abc", Reps: "-3"},
			{Weight: "NaN", Reps: "6.0"},
		},
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if ex.Name != "Bench Press" {
		t.Errorf("name = %q, want %q", ex.Name, "Bench Press")
	}
	if ex.ID == "" {
		t.Error("expected a generated id")
	}
	want := []Set{
		{Index: 1, Weight: 60, Reps: 8},
		{Index: 2, Weight: 62.5, Reps: 0},
		{Index: 3, Weight: 0, Reps: 0},
		{Index: 4, Weight: 0, Reps: 6},
	}
	if len(ex.Sets) != len(want) {
		t.Fatalf("sets = %d, want %d", len(ex.Sets), len(want))
	}
	for i := range want {
		if ex.Sets[i] != want[i] {
			t.Errorf("set %d = %+v, want %+v", i, ex.Sets[i], want[i])
		}
	}
}

// TestParseExerciseRejects verifies that empty names and missing sets are
// rejected at the boundary.
func TestParseExerciseRejects(t *testing.T) {
	if _, err := ParseExercise(ExerciseInput{Name: "   ", Sets: []SetInput{{}}}); !errors.Is(err, ErrEmptyName) {
		t.Errorf("err = %v, want ErrEmptyName", err)
	}
	if _, err := ParseExercise(ExerciseInput{Name: "Squat"}); !errors.Is(err, ErrNoSets) {
		t.Errorf("err = %v, want ErrNoSets", err)
	}
}

// TestDraftEditing verifies that draft edits return new values, keep the
// edited exercise id and leave the original draft untouched.
func TestDraftEditing(t *testing.T) {
	d := NewDraft(time.Date(2024, 1, 1, 9, 0, 0, 0, time.UTC))
	first := Exercise{ID: "a", Name: "Squat", Sets: []Set{{Index: 1, Weight: 100, Reps: 5}}}
	second := Exercise{ID: "b", Name: "Deadlift", Sets: []Set{{Index: 1, Weight: 140, Reps: 3}}}

	d1 := d.AddExercise(first).AddExercise(second)
	if len(d.Exercises) != 0 {
		t.Errorf("original draft exercises = %d, want 0", len(d.Exercises))
	}

	d2, err := d1.UpdateExercise(0, Exercise{ID: "new", Name: "Front Squat", Sets: first.Sets})
	if err != nil {
		t.Fatalf("update error: %v", err)
	}
	if d2.Exercises[0].ID != "a" {
		t.Errorf("updated id = %q, want %q", d2.Exercises[0].ID, "a")
	}
	if d1.Exercises[0].Name != "Squat" {
		t.Errorf("d1 mutated: %q", d1.Exercises[0].Name)
	}

	d3, err := d2.RemoveExercise(1)
	if err != nil {
		t.Fatalf("remove error: %v", err)
	}
	if len(d3.Exercises) != 1 || len(d2.Exercises) != 2 {
		t.Errorf("exercises after remove = %d (d2 %d), want 1 (2)", len(d3.Exercises), len(d2.Exercises))
	}

	if _, err := d3.RemoveExercise(5); !errors.Is(err, ErrExerciseIndex) {
		t.Errorf("err = %v, want ErrExerciseIndex", err)
	}
}

// TestDraftFinalize verifies that incomplete drafts are rejected.
func TestDraftFinalize(t *testing.T) {
	d := NewDraft(time.Now())
	d.TrainingType = "Legs"
	if _, err := d.Finalize(); !errors.Is(err, ErrNoExercises) {
		t.Errorf("err = %v, want ErrNoExercises", err)
	}

	d = d.AddExercise(Exercise{ID: "x", Name: "Squat", Sets: []Set{{Index: 1, Weight: 80, Reps: 5}}})
	w, err := d.Finalize()
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if w.ID != d.ID || len(w.Exercises) != 1 {
		t.Errorf("finalized workout = %+v", w)
	}

	d.TrainingType = ""
	if _, err := d.Finalize(); !errors.Is(err, ErrNoTrainingType) {
		t.Errorf("err = %v, want ErrNoTrainingType", err)
	}
}
