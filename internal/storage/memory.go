package storage

import (
	"context"
	"fmt"
	"log/slog"
	"sort"
	"sync"

	"github.com/google/uuid"

	"github.com/jwebster45206/vignette-engine/pkg/session"
	pkgstorage "github.com/jwebster45206/vignette-engine/pkg/storage"
)

type sessionEntry struct {
	mu      sync.Mutex
	session *session.Session
	deleted bool
}

// MemoryStore keeps live sessions in process and loads level files from
// dataDir. Sessions do not survive a restart.
type MemoryStore struct {
	mu       sync.RWMutex
	sessions map[uuid.UUID]*sessionEntry
	logger   *slog.Logger
	dataDir  string
}

// Ensure MemoryStore implements Storage interface
var _ pkgstorage.Storage = (*MemoryStore)(nil)

// NewMemoryStore creates a new in-memory session store
func NewMemoryStore(dataDir string, logger *slog.Logger) *MemoryStore {
	if dataDir == "" {
		dataDir = "./data"
	}
	return &MemoryStore{
		sessions: make(map[uuid.UUID]*sessionEntry),
		logger:   logger,
		dataDir:  dataDir,
	}
}

// Session operations (memory-backed)

func (m *MemoryStore) CreateSession(ctx context.Context, s *session.Session) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.sessions[s.ID()]; ok {
		return fmt.Errorf("%w: %s", pkgstorage.ErrSessionExists, s.ID())
	}
	m.sessions[s.ID()] = &sessionEntry{session: s}
	m.logger.Debug("Session created", "session_id", s.ID().String(), "sessions", len(m.sessions))
	return nil
}

func (m *MemoryStore) GetSession(ctx context.Context, id uuid.UUID) (session.Snapshot, error) {
	var snap session.Snapshot
	err := m.UpdateSession(ctx, id, func(s *session.Session) error {
		snap = s.Snapshot()
		return nil
	})
	return snap, err
}

func (m *MemoryStore) UpdateSession(ctx context.Context, id uuid.UUID, fn func(*session.Session) error) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	e, ok := m.entry(id)
	if !ok {
		return pkgstorage.ErrSessionNotFound
	}

	e.mu.Lock()
	defer e.mu.Unlock()
	if e.deleted {
		return pkgstorage.ErrSessionNotFound
	}
	return fn(e.session)
}

func (m *MemoryStore) DeleteSession(ctx context.Context, id uuid.UUID) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	m.mu.Lock()
	e, ok := m.sessions[id]
	delete(m.sessions, id)
	m.mu.Unlock()
	if !ok {
		return pkgstorage.ErrSessionNotFound
	}

	// Wait out any writer still holding the session.
	e.mu.Lock()
	e.deleted = true
	e.mu.Unlock()

	m.logger.Debug("Session deleted", "session_id", id.String())
	return nil
}

// ListSessions returns session IDs in a stable order
func (m *MemoryStore) ListSessions(ctx context.Context) ([]uuid.UUID, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	m.mu.RLock()
	ids := make([]uuid.UUID, 0, len(m.sessions))
	for id := range m.sessions {
		ids = append(ids, id)
	}
	m.mu.RUnlock()

	sort.Slice(ids, func(i, j int) bool { return ids[i].String() < ids[j].String() })
	return ids, nil
}

func (m *MemoryStore) entry(id uuid.UUID) (*sessionEntry, bool) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	e, ok := m.sessions[id]
	return e, ok
}
