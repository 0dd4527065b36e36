package storage

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/claude/liftlog/internal/models"
)

// DefaultBlobName is the name the history blob is stored under.
const DefaultBlobName = "workouts_v1"

// Store loads and saves the whole workout history as a single blob.
type Store struct {
	blob Blob
	log  *slog.Logger
}

// NewStore wraps blob.
func NewStore(blob Blob, log *slog.Logger) *Store {
	return &Store{blob: blob, log: log}
}

// Load returns the persisted history. A missing or unreadable blob yields an
// empty history; the failure is logged and never returned, so damaged data
// cannot keep the application from starting.
func (s *Store) Load(ctx context.Context) models.History {
	data, err := s.blob.Read(ctx)
	if errors.Is(err, ErrBlobNotFound) {
		return models.History{}
	}
	if err != nil {
		s.log.Warn("history unreadable, starting empty", "error", err)
		loadsRecovered.WithLabelValues("read").Inc()
		return models.History{}
	}
	if len(data) == 0 {
		return models.History{}
	}

	h, err := models.DecodeHistory(data)
	if err != nil {
		s.log.Warn("history corrupt, starting empty", "error", err, "bytes", len(data))
		loadsRecovered.WithLabelValues("decode").Inc()
		return models.History{}
	}
	return h
}

// Save overwrites the persisted history with h. Concurrent writers are not
// reconciled: the last Save wins.
func (s *Store) Save(ctx context.Context, h models.History) error {
	data, err := models.EncodeHistory(h)
	if err != nil {
		return err
	}
	if err := s.blob.Write(ctx, data); err != nil {
		return fmt.Errorf("saving history: %w", err)
	}
	historySize.Set(float64(len(h)))
	return nil
}

// Close releases the underlying blob.
func (s *Store) Close() error {
	return s.blob.Close()
}

// Append returns a new history with w added at the end. h is not modified.
func Append(h models.History, w models.Workout) models.History {
	out := make(models.History, 0, len(h)+1)
	out = append(out, h...)
	return append(out, w)
}

// Remove returns a new history without the workout whose id is id. A
// missing id returns an unchanged copy.
func Remove(h models.History, id string) models.History {
	out := make(models.History, 0, len(h))
	for _, w := range h {
		if w.ID != id {
			out = append(out, w)
		}
	}
	return out
}
