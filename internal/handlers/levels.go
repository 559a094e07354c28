package handlers

import (
	"errors"
	"log/slog"
	"net/http"
	"strings"

	"github.com/jwebster45206/vignette-engine/pkg/storage"
)

type LevelListResponse struct {
	Levels []string `json:"levels"`
}

type LevelHandler struct {
	log     *slog.Logger
	storage storage.Storage
}

func NewLevelHandler(log *slog.Logger, storage storage.Storage) *LevelHandler {
	return &LevelHandler{
		log:     log,
		storage: storage,
	}
}

// ServeHTTP serves GET /v1/levels and GET /v1/levels/{name}
func (h *LevelHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		writeError(w, h.log, http.StatusMethodNotAllowed, "Method not allowed. Only GET is supported.")
		return
	}

	name := strings.Trim(strings.TrimPrefix(r.URL.Path, "/v1/levels"), "/")
	if name == "" {
		h.handleList(w, r)
		return
	}
	if strings.Contains(name, "..") || strings.Contains(name, "/") {
		writeError(w, h.log, http.StatusBadRequest, "Invalid level name")
		return
	}

	cfg, err := h.storage.GetLevel(r.Context(), name)
	if err != nil {
		if errors.Is(err, storage.ErrLevelNotFound) {
			writeError(w, h.log, http.StatusNotFound, "Level not found")
			return
		}
		h.log.Error("Failed to get level", "error", err, "name", name)
		writeError(w, h.log, http.StatusInternalServerError, "Failed to retrieve level")
		return
	}
	writeJSON(w, h.log, http.StatusOK, cfg)
}

func (h *LevelHandler) handleList(w http.ResponseWriter, r *http.Request) {
	names, err := h.storage.ListLevels(r.Context())
	if err != nil {
		h.log.Error("Failed to list levels", "error", err)
		writeError(w, h.log, http.StatusInternalServerError, "Failed to list levels")
		return
	}
	if names == nil {
		names = []string{}
	}
	writeJSON(w, h.log, http.StatusOK, LevelListResponse{Levels: names})
}
