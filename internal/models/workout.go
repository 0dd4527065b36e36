package models

import (
	"encoding/json"
	"fmt"
	"time"
)

// Location is where a workout took place.
type Location uint8

const (
	LocationGym Location = iota
	LocationHome
)

// ParseLocation converts the persisted tag into a Location.
func ParseLocation(s string) (Location, error) {
	switch s {
	case "gym", "":
		return LocationGym, nil
	case "home":
		return LocationHome, nil
	}
	return 0, fmt.Errorf("unknown location %q", s)
}

func (l Location) String() string {
	if l == LocationHome {
		return "home"
	}
	return "gym"
}

func (l Location) MarshalText() ([]byte, error) {
	return []byte(l.String()), nil
}

func (l *Location) UnmarshalText(b []byte) error {
	v, err := ParseLocation(string(b))
	if err != nil {
		return err
	}
	*l = v
	return nil
}

// Mode tells whether a workout was logged live or recorded after the fact.
type Mode uint8

const (
	ModeNow Mode = iota
	ModeRecord
)

// ParseMode converts the persisted tag into a Mode.
func ParseMode(s string) (Mode, error) {
	switch s {
	case "now", "":
		return ModeNow, nil
	case "record":
		return ModeRecord, nil
	}
	return 0, fmt.Errorf("unknown mode %q", s)
}

func (m Mode) String() string {
	if m == ModeRecord {
		return "record"
	}
	return "now"
}

func (m Mode) MarshalText() ([]byte, error) {
	return []byte(m.String()), nil
}

func (m *Mode) UnmarshalText(b []byte) error {
	v, err := ParseMode(string(b))
	if err != nil {
		return err
	}
	*m = v
	return nil
}

// Set is one unit of work within an exercise.
type Set struct {
	Index  int     `json:"set"`
	Weight float64 `json:"weight"`
	Reps   int     `json:"reps"`
}

// Exercise is a named movement with its ordered sets.
// Equipment is empty when none was recorded.
type Exercise struct {
	ID        string
	Name      string
	Equipment string
	Sets      []Set
}

// Workout is one logged training session.
type Workout struct {
	ID             string
	Location       Location
	Mode           Mode
	Timestamp      time.Time
	TrainingType   string
	SpecificMuscle string
	Equipment      []string
	Exercises      []Exercise
}

// History is the insertion-ordered list of logged workouts. It is not
// sorted by timestamp.
type History []Workout

type exerciseJSON struct {
	ID        string  `json:"id"`
	Name      string  `json:"name"`
	Equipment *string `json:"equipment"`
	Sets      []Set   `json:"sets"`
}

type workoutJSON struct {
	ID             string     `json:"id"`
	Location       *Location  `json:"location"`
	Mode           *Mode      `json:"mode"`
	DateTimeISO    *string    `json:"dateTimeISO"`
	TrainingType   *string    `json:"trainingType"`
	SpecificMuscle *string    `json:"specificMuscle"`
	Equipment      []string   `json:"equipment"`
	Exercises      []Exercise `json:"exercises"`
}

func optional(s string) *string {
	if s == "" {
		return nil
	}
	return &s
}

func deref(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}

// MarshalJSON writes the exercise in the persisted blob layout.
func (e Exercise) MarshalJSON() ([]byte, error) {
	sets := e.Sets
	if sets == nil {
		sets = []Set{}
	}
	return json.Marshal(exerciseJSON{ID: e.ID, Name: e.Name, Equipment: optional(e.Equipment), Sets: sets})
}

func (e *Exercise) UnmarshalJSON(b []byte) error {
	var raw exerciseJSON
	if err := json.Unmarshal(b, &raw); err != nil {
		return err
	}
	*e = Exercise{ID: raw.ID, Name: raw.Name, Equipment: deref(raw.Equipment), Sets: raw.Sets}
	return nil
}

// MarshalJSON writes the workout in the persisted blob layout. A zero
// timestamp is written as null.
func (w Workout) MarshalJSON() ([]byte, error) {
	loc, mode := w.Location, w.Mode
	raw := workoutJSON{
		ID:             w.ID,
		Location:       &loc,
		Mode:           &mode,
		TrainingType:   optional(w.TrainingType),
		SpecificMuscle: optional(w.SpecificMuscle),
		Equipment:      w.Equipment,
		Exercises:      w.Exercises,
	}
	if raw.Equipment == nil {
		raw.Equipment = []string{}
	}
	if raw.Exercises == nil {
		raw.Exercises = []Exercise{}
	}
	if !w.Timestamp.IsZero() {
		ts := w.Timestamp.Format(time.RFC3339Nano)
		raw.DateTimeISO = &ts
	}
	return json.Marshal(raw)
}

func (w *Workout) UnmarshalJSON(b []byte) error {
	var raw workoutJSON
	if err := json.Unmarshal(b, &raw); err != nil {
		return err
	}
	out := Workout{
		ID:             raw.ID,
		TrainingType:   deref(raw.TrainingType),
		SpecificMuscle: deref(raw.SpecificMuscle),
		Equipment:      raw.Equipment,
		Exercises:      raw.Exercises,
	}
	if raw.Location != nil {
		out.Location = *raw.Location
	}
	if raw.Mode != nil {
		out.Mode = *raw.Mode
	}
	if raw.DateTimeISO != nil && *raw.DateTimeISO != "" {
		ts, err := time.Parse(time.RFC3339Nano, *raw.DateTimeISO)
		if err != nil {
			return fmt.Errorf("parsing dateTimeISO: %w", err)
		}
		out.Timestamp = ts
	}
	*w = out
	return nil
}

// DecodeHistory parses a persisted history blob. A JSON null decodes to an
// empty history.
func DecodeHistory(data []byte) (History, error) {
	var h History
	if err := json.Unmarshal(data, &h); err != nil {
		return nil, fmt.Errorf("decoding history: %w", err)
	}
	if h == nil {
		h = History{}
	}
	return h, nil
}

// EncodeHistory serializes the full history as a JSON array.
func EncodeHistory(h History) ([]byte, error) {
	if h == nil {
		h = History{}
	}
	data, err := json.Marshal(h)
	if err != nil {
		return nil, fmt.Errorf("encoding history: %w", err)
	}
	return data, nil
}
