package mcp

import (
	"context"

	"github.com/claude/liftlog/internal/models"
	"github.com/claude/liftlog/internal/session"
)

// Source provides the workout history the tools read. A *session.Session
// serves a local store; HTTPClient reads from a remote LiftLog server.
type Source interface {
	Snapshot(ctx context.Context) (models.History, error)
}

var (
	_ Source = (*session.Session)(nil)
	_ Source = (*HTTPClient)(nil)
)
