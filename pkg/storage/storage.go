package storage

import (
	"context"

	"github.com/google/uuid"

	"github.com/jwebster45206/vignette-engine/pkg/session"
)

// Storage defines a unified interface for all storage operations
// This interface combines live sessions (memory) with level loading (filesystem)
type Storage interface {
	// Session operations (memory-backed)
	CreateSession(ctx context.Context, s *session.Session) error
	GetSession(ctx context.Context, id uuid.UUID) (session.Snapshot, error)
	// UpdateSession runs fn with exclusive access to the session. Writers to
	// the same session are serialized; different sessions run in parallel.
	UpdateSession(ctx context.Context, id uuid.UUID, fn func(*session.Session) error) error
	DeleteSession(ctx context.Context, id uuid.UUID) error
	ListSessions(ctx context.Context) ([]uuid.UUID, error)

	// Level operations (filesystem-backed)
	ListLevels(ctx context.Context) ([]string, error)
	GetLevel(ctx context.Context, name string) (session.Config, error)
}
