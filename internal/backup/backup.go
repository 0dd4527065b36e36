// Package backup writes periodic copies of the workout history: the raw
// JSON blob and a spreadsheet export.
package backup

import (
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"time"

	"github.com/claude/liftlog/internal/export"
	"github.com/claude/liftlog/internal/history"
	"github.com/claude/liftlog/internal/models"
	"github.com/robfig/cron"
)

const stampLayout = "20060102-150405"

// Snapshotter returns the current history. *session.Session satisfies it.
type Snapshotter interface {
	History() models.History
}

// Job writes one backup per Run.
type Job struct {
	src Snapshotter
	dir string
	ix  history.Index
	loc *time.Location
	log *slog.Logger
	now func() time.Time
}

// NewJob creates a job writing into dir.
func NewJob(src Snapshotter, dir string, ix history.Index, loc *time.Location, log *slog.Logger) *Job {
	if loc == nil {
		loc = time.UTC
	}
	return &Job{src: src, dir: dir, ix: ix, loc: loc, log: log, now: time.Now}
}

// Run writes liftlog-<stamp>.json and liftlog-<stamp>.xlsx and returns the
// JSON path.
func (j *Job) Run() (string, error) {
	if err := os.MkdirAll(j.dir, 0o755); err != nil {
		return "", fmt.Errorf("creating backup dir: %w", err)
	}

	h := j.src.History()
	base := filepath.Join(j.dir, "liftlog-"+j.now().In(j.loc).Format(stampLayout))

	data, err := models.EncodeHistory(h)
	if err != nil {
		return "", fmt.Errorf("encoding history: %w", err)
	}
	if err := os.WriteFile(base+".json", data, 0o644); err != nil {
		return "", fmt.Errorf("writing json backup: %w", err)
	}

	f, err := os.Create(base + ".xlsx")
	if err != nil {
		return "", fmt.Errorf("creating xlsx backup: %w", err)
	}
	if err := export.WriteWorkbook(f, h, j.ix, j.loc); err != nil {
		f.Close()
		return "", fmt.Errorf("writing xlsx backup: %w", err)
	}
	if err := f.Close(); err != nil {
		return "", fmt.Errorf("closing xlsx backup: %w", err)
	}

	j.log.Info("backup written", "path", base, "workouts", len(h))
	return base + ".json", nil
}

// Schedule runs j on the cron spec (e.g. "@daily", "@every 6h", or six
// fields with seconds) until the returned Cron is stopped.
func Schedule(spec string, j *Job) (*cron.Cron, error) {
	c := cron.New()
	err := c.AddFunc(spec, func() {
		if _, err := j.Run(); err != nil {
			j.log.Error("backup failed", "error", err)
		}
	})
	if err != nil {
		return nil, fmt.Errorf("parsing backup schedule %q: %w", spec, err)
	}
	c.Start()
	return c, nil
}
