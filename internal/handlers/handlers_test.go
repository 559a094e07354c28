package handlers

import (
	"bytes"
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"

	"github.com/alicebob/miniredis/v2"
	"github.com/stretchr/testify/require"

	"github.com/jwebster45206/vignette-engine/internal/services/events"
	"github.com/jwebster45206/vignette-engine/internal/services/queue"
	memstore "github.com/jwebster45206/vignette-engine/internal/storage"
	"github.com/jwebster45206/vignette-engine/pkg/session"
)

type testEnv struct {
	mr       *miniredis.Miniredis
	client   *queue.Client
	store    *memstore.MemoryStore
	queue    *queue.CommandQueue
	sessions *SessionHandler
	levels   *LevelHandler
	dataDir  string
}

func newTestEnv(t *testing.T) *testEnv {
	t.Helper()
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))

	mr := miniredis.RunT(t)
	client, err := queue.NewClient("redis://"+mr.Addr(), logger)
	require.NoError(t, err)
	t.Cleanup(func() { client.Close() })

	dataDir := t.TempDir()
	require.NoError(t, os.MkdirAll(filepath.Join(dataDir, "levels"), 0o755))
	require.NoError(t, os.WriteFile(
		filepath.Join(dataDir, "levels", "short.yaml"),
		[]byte("level:\n  time_limit: 1\n"), 0o644))

	store := memstore.NewMemoryStore(dataDir, logger)
	cq := queue.NewCommandQueue(client, logger)
	broadcaster := events.NewBroadcaster(client.Redis(), logger)

	return &testEnv{
		mr:       mr,
		client:   client,
		store:    store,
		queue:    cq,
		sessions: NewSessionHandler(logger, store, cq, broadcaster, session.DefaultConfig(), 0.25),
		levels:   NewLevelHandler(logger, store),
		dataDir:  dataDir,
	}
}

func (e *testEnv) do(t *testing.T, h http.Handler, method, path, body string) *httptest.ResponseRecorder {
	t.Helper()
	var r io.Reader
	if body != "" {
		r = bytes.NewBufferString(body)
	}
	req := httptest.NewRequest(method, path, r)
	req.Header.Set("Content-Type", "application/json")
	rr := httptest.NewRecorder()
	h.ServeHTTP(rr, req)
	return rr
}

func (e *testEnv) createSession(t *testing.T, body string) session.Snapshot {
	t.Helper()
	rr := e.do(t, e.sessions, http.MethodPost, "/v1/sessions", body)
	require.Equal(t, http.StatusCreated, rr.Code, rr.Body.String())

	var snap session.Snapshot
	require.NoError(t, json.NewDecoder(rr.Body).Decode(&snap))
	return snap
}

func decodeStep(t *testing.T, rr *httptest.ResponseRecorder) session.StepResult {
	t.Helper()
	require.Equal(t, http.StatusOK, rr.Code, rr.Body.String())
	var res session.StepResult
	require.NoError(t, json.NewDecoder(rr.Body).Decode(&res))
	return res
}
