// Package session owns the in-memory workout history and its
// load/mutate/save lifecycle. Queries run on snapshots, so the analytics
// packages never see a history that is being modified.
package session

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"slices"
	"sync"

	"github.com/claude/liftlog/internal/models"
	"github.com/claude/liftlog/internal/storage"
	"github.com/prometheus/client_golang/prometheus"
)

var workoutsChanged = prometheus.NewCounterVec(
	prometheus.CounterOpts{
		Name: "liftlog_workouts_changed_total",
		Help: "Workouts appended to or removed from history.",
	},
	[]string{"op"},
)

func init() {
	prometheus.MustRegister(workoutsChanged)
}

// Persister is the storage a session loads from and saves to.
type Persister interface {
	Load(ctx context.Context) models.History
	Save(ctx context.Context, h models.History) error
}

// Session is the single owner of the current history.
type Session struct {
	mu      sync.Mutex
	store   Persister
	log     *slog.Logger
	history models.History
}

// New loads the history from store.
func New(ctx context.Context, store Persister, log *slog.Logger) *Session {
	h := store.Load(ctx)
	log.Info("history loaded", "workouts", len(h))
	return &Session{store: store, log: log, history: h}
}

// History returns a snapshot safe to read while the session changes.
func (s *Session) History() models.History {
	s.mu.Lock()
	defer s.mu.Unlock()
	return slices.Clone(s.history)
}

// Snapshot is History for readers that may also be remote.
func (s *Session) Snapshot(context.Context) (models.History, error) {
	return s.History(), nil
}

// commit saves next and makes it current. On failure the current history
// is left unchanged.
func (s *Session) commit(ctx context.Context, next models.History) error {
	if err := s.store.Save(ctx, next); err != nil {
		return err
	}
	s.history = next
	return nil
}

// ErrDuplicateID is returned by Append when a workout with the same id is
// already in history.
var ErrDuplicateID = errors.New("workout id already exists")

// Append validates w, adds it to history and saves.
func (s *Session) Append(ctx context.Context, w models.Workout) (models.History, error) {
	if err := models.Validate(w); err != nil {
		return nil, fmt.Errorf("invalid workout: %w", err)
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if slices.ContainsFunc(s.history, func(x models.Workout) bool { return x.ID == w.ID }) {
		return nil, fmt.Errorf("%w: %s", ErrDuplicateID, w.ID)
	}
	if err := s.commit(ctx, storage.Append(s.history, w)); err != nil {
		return nil, err
	}
	workoutsChanged.WithLabelValues("append").Inc()
	s.log.Info("workout appended", "id", w.ID, "exercises", len(w.Exercises))
	return slices.Clone(s.history), nil
}

// AppendAll adds every valid workout whose id is not already in history and
// saves once. It returns how many were added.
func (s *Session) AppendAll(ctx context.Context, ws []models.Workout) (int, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	known := make(map[string]bool, len(s.history))
	for _, w := range s.history {
		known[w.ID] = true
	}

	next := s.history
	added := 0
	for _, w := range ws {
		if known[w.ID] {
			continue
		}
		if err := models.Validate(w); err != nil {
			s.log.Warn("skipping invalid workout", "id", w.ID, "error", err)
			continue
		}
		next = storage.Append(next, w)
		known[w.ID] = true
		added++
	}
	if added == 0 {
		return 0, nil
	}

	if err := s.commit(ctx, next); err != nil {
		return 0, err
	}
	workoutsChanged.WithLabelValues("append").Add(float64(added))
	s.log.Info("workouts imported", "added", added, "skipped", len(ws)-added)
	return added, nil
}

// Remove deletes the workout with id and saves. A missing id is not an
// error and nothing is written.
func (s *Session) Remove(ctx context.Context, id string) (models.History, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	next := storage.Remove(s.history, id)
	if len(next) == len(s.history) {
		return slices.Clone(s.history), nil
	}
	if err := s.commit(ctx, next); err != nil {
		return nil, err
	}
	workoutsChanged.WithLabelValues("remove").Inc()
	s.log.Info("workout removed", "id", id)
	return slices.Clone(s.history), nil
}
