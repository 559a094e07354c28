package handlers

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"strings"

	"github.com/google/uuid"

	"github.com/jwebster45206/vignette-engine/pkg/queue"
	"github.com/jwebster45206/vignette-engine/pkg/session"
	"github.com/jwebster45206/vignette-engine/pkg/storage"
)

// CommandQueue buffers commands between steps
type CommandQueue interface {
	Enqueue(ctx context.Context, sessionID uuid.UUID, command string) (*queue.Request, error)
	Drain(ctx context.Context, sessionID uuid.UUID) ([]*queue.Request, error)
	Clear(ctx context.Context, sessionID uuid.UUID) error
}

// EventPublisher fans step events out to subscribers
type EventPublisher interface {
	PublishStep(ctx context.Context, sessionID uuid.UUID, evts []session.Event) error
}

// CreateSessionRequest defines the request body for creating a new session.
// An empty body starts the default level.
type CreateSessionRequest struct {
	Level string `json:"level,omitempty"`
}

type CommandRequest struct {
	Command string `json:"command"`
}

// StepRequest advances a session by DT seconds with the given input
type StepRequest struct {
	DT float64 `json:"dt"`
	session.Input
}

type SessionListResponse struct {
	Sessions []uuid.UUID `json:"sessions"`
}

type SessionHandler struct {
	storage      storage.Storage
	queue        CommandQueue
	events       EventPublisher
	defaultLevel session.Config
	maxStep      float64
	logger       *slog.Logger
}

func NewSessionHandler(logger *slog.Logger, storage storage.Storage, queue CommandQueue, events EventPublisher, defaultLevel session.Config, maxStep float64) *SessionHandler {
	return &SessionHandler{
		storage:      storage,
		queue:        queue,
		events:       events,
		defaultLevel: defaultLevel,
		maxStep:      maxStep,
		logger:       logger,
	}
}

// ServeHTTP handles HTTP requests for session operations
// Routes:
// POST /v1/sessions               - Create a session
// GET /v1/sessions                - List session IDs
// GET /v1/sessions/{id}           - Read a session snapshot
// DELETE /v1/sessions/{id}        - Delete a session
// POST /v1/sessions/{id}/commands - Queue a command for the next step
// POST /v1/sessions/{id}/step     - Advance the session
func (h *SessionHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	path := strings.Trim(strings.TrimPrefix(r.URL.Path, "/v1/sessions"), "/")
	if path == "" {
		switch r.Method {
		case http.MethodPost:
			h.handleCreate(w, r)
		case http.MethodGet:
			h.handleList(w, r)
		default:
			writeError(w, h.logger, http.StatusMethodNotAllowed, "Method not allowed. Supported methods: POST, GET")
		}
		return
	}

	parts := strings.Split(path, "/")
	sessionID, err := uuid.Parse(parts[0])
	if err != nil {
		h.logger.Warn("Invalid session ID", "id", parts[0], "error", err)
		writeError(w, h.logger, http.StatusBadRequest, "Invalid session ID format")
		return
	}

	switch {
	case len(parts) == 1:
		switch r.Method {
		case http.MethodGet:
			h.handleRead(w, r, sessionID)
		case http.MethodDelete:
			h.handleDelete(w, r, sessionID)
		default:
			writeError(w, h.logger, http.StatusMethodNotAllowed, "Method not allowed. Supported methods: GET, DELETE")
		}

	case len(parts) == 2 && parts[1] == "commands":
		if r.Method != http.MethodPost {
			writeError(w, h.logger, http.StatusMethodNotAllowed, "Method not allowed. Only POST is supported.")
			return
		}
		h.handleEnqueue(w, r, sessionID)

	case len(parts) == 2 && parts[1] == "step":
		if r.Method != http.MethodPost {
			writeError(w, h.logger, http.StatusMethodNotAllowed, "Method not allowed. Only POST is supported.")
			return
		}
		h.handleStep(w, r, sessionID)

	default:
		writeError(w, h.logger, http.StatusNotFound, "Not found")
	}
}

func (h *SessionHandler) handleCreate(w http.ResponseWriter, r *http.Request) {
	var req CreateSessionRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil && !errors.Is(err, io.EOF) {
		h.logger.Warn("Invalid create session request", "error", err)
		writeError(w, h.logger, http.StatusBadRequest, "Invalid request body")
		return
	}

	cfg := h.defaultLevel
	if req.Level != "" {
		var err error
		cfg, err = h.storage.GetLevel(r.Context(), req.Level)
		if err != nil {
			if errors.Is(err, storage.ErrLevelNotFound) {
				writeError(w, h.logger, http.StatusNotFound, fmt.Sprintf("Level not found: %s", req.Level))
				return
			}
			h.logger.Error("Failed to load level", "level", req.Level, "error", err)
			writeError(w, h.logger, http.StatusInternalServerError, "Failed to load level")
			return
		}
	}

	s, err := session.New(uuid.New(), cfg)
	if err != nil {
		h.logger.Error("Failed to create session", "error", err)
		writeError(w, h.logger, http.StatusInternalServerError, "Failed to create session")
		return
	}
	s.WithLogger(h.logger)

	if err := h.storage.CreateSession(r.Context(), s); err != nil {
		h.logger.Error("Failed to store session", "session_id", s.ID().String(), "error", err)
		writeError(w, h.logger, http.StatusInternalServerError, "Failed to create session")
		return
	}

	h.logger.Info("Session created", "session_id", s.ID().String(), "level", req.Level)
	writeJSON(w, h.logger, http.StatusCreated, s.Snapshot())
}

func (h *SessionHandler) handleList(w http.ResponseWriter, r *http.Request) {
	ids, err := h.storage.ListSessions(r.Context())
	if err != nil {
		h.logger.Error("Failed to list sessions", "error", err)
		writeError(w, h.logger, http.StatusInternalServerError, "Failed to list sessions")
		return
	}
	writeJSON(w, h.logger, http.StatusOK, SessionListResponse{Sessions: ids})
}

func (h *SessionHandler) handleRead(w http.ResponseWriter, r *http.Request, sessionID uuid.UUID) {
	snap, err := h.storage.GetSession(r.Context(), sessionID)
	if err != nil {
		h.writeStorageError(w, sessionID, err, "Failed to load session")
		return
	}
	writeJSON(w, h.logger, http.StatusOK, snap)
}

func (h *SessionHandler) handleDelete(w http.ResponseWriter, r *http.Request, sessionID uuid.UUID) {
	if err := h.storage.DeleteSession(r.Context(), sessionID); err != nil {
		h.writeStorageError(w, sessionID, err, "Failed to delete session")
		return
	}
	if err := h.queue.Clear(r.Context(), sessionID); err != nil {
		h.logger.Warn("Failed to clear command queue for deleted session",
			"session_id", sessionID.String(),
			"error", err)
	}

	h.logger.Info("Session deleted", "session_id", sessionID.String())
	w.WriteHeader(http.StatusNoContent)
}

func (h *SessionHandler) handleEnqueue(w http.ResponseWriter, r *http.Request, sessionID uuid.UUID) {
	var req CommandRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, h.logger, http.StatusBadRequest, "Invalid request body")
		return
	}
	cmd := session.ParseCommand(req.Command)
	if cmd == session.CmdNone {
		writeError(w, h.logger, http.StatusBadRequest, fmt.Sprintf("Unknown command: %q", req.Command))
		return
	}

	if _, err := h.storage.GetSession(r.Context(), sessionID); err != nil {
		h.writeStorageError(w, sessionID, err, "Failed to load session")
		return
	}

	queued, err := h.queue.Enqueue(r.Context(), sessionID, string(cmd))
	if err != nil {
		h.logger.Error("Failed to enqueue command", "session_id", sessionID.String(), "error", err)
		writeError(w, h.logger, http.StatusInternalServerError, "Failed to enqueue command")
		return
	}
	writeJSON(w, h.logger, http.StatusAccepted, queued)
}

func (h *SessionHandler) handleStep(w http.ResponseWriter, r *http.Request, sessionID uuid.UUID) {
	var req StepRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.logger.Warn("Invalid step request", "session_id", sessionID.String(), "error", err)
		writeError(w, h.logger, http.StatusBadRequest, fmt.Sprintf("Invalid request body: %v", err))
		return
	}
	if req.DT <= 0 || req.DT > h.maxStep {
		writeError(w, h.logger, http.StatusBadRequest, fmt.Sprintf("dt must be greater than 0 and at most %v", h.maxStep))
		return
	}

	ctx := r.Context()
	var result session.StepResult
	err := h.storage.UpdateSession(ctx, sessionID, func(s *session.Session) error {
		queued, err := h.queue.Drain(ctx, sessionID)
		if err != nil {
			return err
		}

		in := req.Input
		in.Commands = append(queuedCommands(queued), req.Commands...)
		result = s.Step(req.DT, in)
		return nil
	})
	if err != nil {
		h.writeStorageError(w, sessionID, err, "Failed to step session")
		return
	}

	if len(result.Events) > 0 {
		if err := h.events.PublishStep(ctx, sessionID, result.Events); err != nil {
			h.logger.Warn("Failed to publish step events",
				"session_id", sessionID.String(),
				"error", err)
		}
	}

	writeJSON(w, h.logger, http.StatusOK, result)
}

func queuedCommands(reqs []*queue.Request) []session.Command {
	cmds := make([]session.Command, 0, len(reqs))
	for _, req := range reqs {
		if cmd := session.ParseCommand(req.Command); cmd != session.CmdNone {
			cmds = append(cmds, cmd)
		}
	}
	return cmds
}

func (h *SessionHandler) writeStorageError(w http.ResponseWriter, sessionID uuid.UUID, err error, msg string) {
	if errors.Is(err, storage.ErrSessionNotFound) {
		writeError(w, h.logger, http.StatusNotFound, "Session not found")
		return
	}
	h.logger.Error(msg, "session_id", sessionID.String(), "error", err)
	writeError(w, h.logger, http.StatusInternalServerError, msg)
}
