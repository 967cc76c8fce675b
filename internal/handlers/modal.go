package handlers

import (
	"encoding/json"
	"log/slog"
	"net/http"

	"github.com/ZABarton/idle-artifice-sub000/pkg/content"
	"github.com/ZABarton/idle-artifice-sub000/pkg/modal"
)

type ErrorResponse struct {
	Error string `json:"error"`
}

func writeError(w http.ResponseWriter, logger *slog.Logger, status int, msg string) {
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(ErrorResponse{Error: msg}); err != nil {
		logger.Error("Failed to encode error response", "error", err)
	}
}

func writeJSON(w http.ResponseWriter, logger *slog.Logger, status int, body any) {
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(body); err != nil {
		logger.Error("Failed to encode response", "error", err)
	}
}

// ModalState is the client-facing view of what should be on screen.
// An active dialog tree takes precedence over the plain queue.
type ModalState struct {
	Active     bool                  `json:"active"`
	Type       string                `json:"type,omitempty"` // "tutorial", "dialog" or "tree"
	Tutorial   *content.TutorialItem `json:"tutorial,omitempty"`
	Dialog     *content.DialogItem   `json:"dialog,omitempty"`
	Tree       *TreeState            `json:"tree,omitempty"`
	QueueDepth int                   `json:"queueDepth"`
}

// TreeState is the visible slice of an active dialog tree: the current
// node and its choices, never the whole graph.
type TreeState struct {
	TreeID        string            `json:"treeId"`
	CharacterName string            `json:"characterName"`
	Portrait      *content.Portrait `json:"portrait,omitempty"`
	NodeID        string            `json:"nodeId"`
	Message       string            `json:"message"`
	Responses     []string          `json:"responses"`
}

type ModalHandler struct {
	manager *modal.Manager
	logger  *slog.Logger
}

func NewModalHandler(manager *modal.Manager, logger *slog.Logger) *ModalHandler {
	return &ModalHandler{
		manager: manager,
		logger:  logger,
	}
}

// ServeHTTP handles modal surface requests.
// Routes:
// GET /v1/modal         - Current modal state
// POST /v1/modal/close  - Dismiss the current modal
func (h *ModalHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")

	switch {
	case r.Method == http.MethodGet && r.URL.Path == "/v1/modal":
		h.handleState(w, r)
	case r.Method == http.MethodPost && r.URL.Path == "/v1/modal/close":
		h.handleClose(w, r)
	default:
		h.logger.Warn("Method not allowed for modal endpoint", "method", r.Method, "path", r.URL.Path)
		writeError(w, h.logger, http.StatusMethodNotAllowed, "Method not allowed")
	}
}

func (h *ModalHandler) handleState(w http.ResponseWriter, r *http.Request) {
	state := h.currentState()
	w.WriteHeader(http.StatusOK)
	if err := json.NewEncoder(w).Encode(state); err != nil {
		h.logger.Error("Failed to encode modal state", "error", err)
	}
}

func (h *ModalHandler) handleClose(w http.ResponseWriter, r *http.Request) {
	if h.manager.TreeActive() {
		writeError(w, h.logger, http.StatusConflict, "A dialog tree is active; close it by selecting responses")
		return
	}
	if _, ok := h.manager.CurrentModal(); !ok {
		writeError(w, h.logger, http.StatusConflict, "No modal to close")
		return
	}

	h.manager.CloseCurrentModal(r.Context())

	state := h.currentState()
	w.WriteHeader(http.StatusOK)
	if err := json.NewEncoder(w).Encode(state); err != nil {
		h.logger.Error("Failed to encode modal state", "error", err)
	}
}

func (h *ModalHandler) currentState() ModalState {
	state := ModalState{QueueDepth: h.manager.QueueDepth()}

	if h.manager.TreeActive() {
		tree := h.manager.ActiveTree()
		node := h.manager.CurrentNode()
		responses := make([]string, 0, len(node.Responses))
		for _, resp := range node.Responses {
			responses = append(responses, resp.Text)
		}
		state.Active = true
		state.Type = "tree"
		state.Tree = &TreeState{
			TreeID:        tree.ID,
			CharacterName: tree.CharacterName,
			Portrait:      h.manager.CurrentPortrait(),
			NodeID:        node.ID,
			Message:       node.Message,
			Responses:     responses,
		}
		return state
	}

	item, ok := h.manager.CurrentModal()
	if !ok {
		return state
	}
	state.Active = true
	switch item.Type {
	case modal.TypeTutorial:
		state.Type = "tutorial"
		state.Tutorial = item.Tutorial
	case modal.TypeDialog:
		state.Type = "dialog"
		state.Dialog = item.Dialog
	}
	return state
}
