package alpha

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"time"

	"github.com/claude/liftlog/internal/ingest"
	"github.com/claude/liftlog/internal/models"
)

// Appender receives converted workouts. *session.Session satisfies it.
type Appender interface {
	AppendAll(ctx context.Context, ws []models.Workout) (int, error)
}

// Provider imports Alpha Progression CSV exports into history.
type Provider struct {
	dst Appender
	loc *time.Location
	log *slog.Logger
}

// NewProvider creates a provider that reads session times in loc.
func NewProvider(dst Appender, loc *time.Location, log *slog.Logger) *Provider {
	return &Provider{dst: dst, loc: loc, log: log}
}

// Convert parses an export without storing anything.
func (p *Provider) Convert(r io.Reader) ([]models.Workout, *ingest.Result, error) {
	sessions, err := Parse(r)
	if err != nil {
		return nil, nil, fmt.Errorf("parsing CSV: %w", err)
	}

	workouts, warmups := ToWorkouts(sessions, p.loc)
	result := &ingest.Result{
		WorkoutsReceived: len(workouts),
		WarmupsDropped:   warmups,
	}
	for _, w := range workouts {
		for _, ex := range w.Exercises {
			result.SetsReceived += len(ex.Sets)
		}
	}
	return workouts, result, nil
}

// Ingest parses an export and appends workouts not already in history.
func (p *Provider) Ingest(ctx context.Context, r io.Reader) (*ingest.Result, error) {
	workouts, result, err := p.Convert(r)
	if err != nil {
		return nil, err
	}

	added, err := p.dst.AppendAll(ctx, workouts)
	if err != nil {
		return nil, fmt.Errorf("storing workouts: %w", err)
	}
	result.WorkoutsAdded = added
	result.WorkoutsSkipped = len(workouts) - added

	p.log.Info("alpha import", "received", result.WorkoutsReceived, "added", added, "sets", result.SetsReceived)
	return result, nil
}
