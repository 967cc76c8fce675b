package handlers

import (
	"log/slog"
	"net/http"

	"github.com/ZABarton/idle-artifice-sub000/pkg/modal"
	"github.com/ZABarton/idle-artifice-sub000/pkg/transcript"
)

// HistoryResponse lists finalized conversations, oldest first, plus the
// in-progress record if a conversation is on screen.
type HistoryResponse struct {
	History []*transcript.ConversationRecord `json:"history"`
	Active  *transcript.ConversationRecord   `json:"active,omitempty"`
}

type HistoryHandler struct {
	manager *modal.Manager
	logger  *slog.Logger
}

func NewHistoryHandler(manager *modal.Manager, logger *slog.Logger) *HistoryHandler {
	return &HistoryHandler{
		manager: manager,
		logger:  logger,
	}
}

// ServeHTTP handles conversation history requests.
// Routes:
// GET /v1/history  - List conversation records
func (h *HistoryHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")

	if r.Method != http.MethodGet {
		writeError(w, h.logger, http.StatusMethodNotAllowed, "Method not allowed. Supported methods: GET")
		return
	}

	response := HistoryResponse{
		History: h.manager.History(),
		Active:  h.manager.ActiveConversation(),
	}
	if response.History == nil {
		response.History = []*transcript.ConversationRecord{}
	}

	writeJSON(w, h.logger, http.StatusOK, response)
}
