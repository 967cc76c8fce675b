package handlers

import (
	"errors"
	"log/slog"
	"net/http"
	"strings"

	"github.com/ZABarton/idle-artifice-sub000/pkg/modal"
)

// TutorialHandler queues tutorials by ID.
type TutorialHandler struct {
	manager *modal.Manager
	logger  *slog.Logger
}

func NewTutorialHandler(manager *modal.Manager, logger *slog.Logger) *TutorialHandler {
	return &TutorialHandler{
		manager: manager,
		logger:  logger,
	}
}

// ServeHTTP handles tutorial requests.
// Routes:
// POST /v1/tutorials/{id}  - Queue a tutorial
// GET /v1/tutorials/seen   - List seen tutorial IDs
func (h *TutorialHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")

	id := strings.Trim(strings.TrimPrefix(r.URL.Path, "/v1/tutorials"), "/")

	switch {
	case r.Method == http.MethodGet && id == "seen":
		writeJSON(w, h.logger, http.StatusOK, map[string][]string{
			"seen": h.manager.SeenTutorials(),
		})

	case r.Method == http.MethodPost && id != "":
		if err := h.manager.ShowTutorial(id); err != nil {
			if errors.Is(err, modal.ErrTutorialNotFound) {
				writeError(w, h.logger, http.StatusNotFound, "Tutorial not found: "+id)
				return
			}
			h.logger.Error("Failed to queue tutorial", "id", id, "error", err)
			writeError(w, h.logger, http.StatusInternalServerError, "Failed to queue tutorial")
			return
		}
		writeJSON(w, h.logger, http.StatusAccepted, map[string]int{"queueDepth": h.manager.QueueDepth()})

	default:
		writeError(w, h.logger, http.StatusMethodNotAllowed, "Method not allowed")
	}
}

// DialogHandler queues single-message dialogs by ID.
type DialogHandler struct {
	manager *modal.Manager
	logger  *slog.Logger
}

func NewDialogHandler(manager *modal.Manager, logger *slog.Logger) *DialogHandler {
	return &DialogHandler{
		manager: manager,
		logger:  logger,
	}
}

// ServeHTTP handles dialog requests.
// Routes:
// POST /v1/dialogs/{id}  - Queue a dialog
func (h *DialogHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")

	if r.Method != http.MethodPost {
		writeError(w, h.logger, http.StatusMethodNotAllowed, "Method not allowed. Supported methods: POST")
		return
	}

	id := strings.Trim(strings.TrimPrefix(r.URL.Path, "/v1/dialogs"), "/")
	if id == "" {
		writeError(w, h.logger, http.StatusBadRequest, "Dialog ID is required")
		return
	}

	if err := h.manager.ShowDialog(r.Context(), id); err != nil {
		if errors.Is(err, modal.ErrDialogNotFound) {
			writeError(w, h.logger, http.StatusNotFound, "Dialog not found: "+id)
			return
		}
		h.logger.Error("Failed to queue dialog", "id", id, "error", err)
		writeError(w, h.logger, http.StatusInternalServerError, "Failed to queue dialog")
		return
	}

	writeJSON(w, h.logger, http.StatusAccepted, map[string]int{"queueDepth": h.manager.QueueDepth()})
}
