package models

import (
	"golang.org/x/text/cases"
	"golang.org/x/text/language"
)

// SameExercise reports whether two exercise names refer to the same
// exercise. Names are compared after full Unicode lowercasing, so "Bench
// Press" and "bench press" match while the stored spelling is left alone.
func SameExercise(a, b string) bool {
	if a == b {
		return true
	}
	// cases.Caser keeps internal state, so each call gets its own.
	lower := cases.Lower(language.Und)
	return lower.String(a) == lower.String(b)
}

// ExerciseMatcher returns a predicate matching names equal to name under
// SameExercise. It lowercases name once and is meant for one scan.
func ExerciseMatcher(name string) func(string) bool {
	lower := cases.Lower(language.Und)
	want := lower.String(name)
	return func(candidate string) bool {
		return candidate == name || lower.String(candidate) == want
	}
}
