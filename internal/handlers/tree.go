package handlers

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"strings"

	"github.com/ZABarton/idle-artifice-sub000/pkg/modal"
)

// TreeHandler starts dialog-tree conversations and advances them by
// response selection.
type TreeHandler struct {
	manager *modal.Manager
	logger  *slog.Logger
}

func NewTreeHandler(manager *modal.Manager, logger *slog.Logger) *TreeHandler {
	return &TreeHandler{
		manager: manager,
		logger:  logger,
	}
}

// SelectResponseRequest carries the index of the choice the player picked.
type SelectResponseRequest struct {
	Index int `json:"index"`
}

// ServeHTTP handles dialog tree requests.
// Routes:
// POST /v1/trees/{id}      - Activate a dialog tree
// POST /v1/trees/response  - Select a response on the active tree
func (h *TreeHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")

	if r.Method != http.MethodPost {
		writeError(w, h.logger, http.StatusMethodNotAllowed, "Method not allowed. Supported methods: POST")
		return
	}

	id := strings.Trim(strings.TrimPrefix(r.URL.Path, "/v1/trees"), "/")
	if id == "response" {
		h.handleResponse(w, r)
		return
	}
	h.handleActivate(w, r, id)
}

func (h *TreeHandler) handleActivate(w http.ResponseWriter, r *http.Request, id string) {
	if id == "" {
		writeError(w, h.logger, http.StatusBadRequest, "Dialog tree ID is required")
		return
	}
	if h.manager.TreeActive() {
		writeError(w, h.logger, http.StatusConflict, "A dialog tree is already active")
		return
	}

	if err := h.manager.ShowDialogTree(r.Context(), id); err != nil {
		switch {
		case errors.Is(err, modal.ErrTreeNotFound):
			writeError(w, h.logger, http.StatusNotFound, "Dialog tree not found: "+id)
		case errors.Is(err, modal.ErrTreeInvalid):
			writeError(w, h.logger, http.StatusUnprocessableEntity, "Dialog tree failed validation: "+id)
		default:
			h.logger.Error("Failed to activate dialog tree", "id", id, "error", err)
			writeError(w, h.logger, http.StatusInternalServerError, "Failed to activate dialog tree")
		}
		return
	}

	h.writeNode(w)
}

func (h *TreeHandler) handleResponse(w http.ResponseWriter, r *http.Request) {
	var req SelectResponseRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, h.logger, http.StatusBadRequest, "Invalid JSON in request body")
		return
	}

	if !h.manager.TreeActive() {
		writeError(w, h.logger, http.StatusConflict, "No dialog tree is active")
		return
	}
	node := h.manager.CurrentNode()
	if req.Index < 0 || req.Index >= len(node.Responses) {
		writeError(w, h.logger, http.StatusBadRequest, "Response index out of range")
		return
	}

	h.manager.SelectResponse(r.Context(), req.Index)
	h.writeNode(w)
}

// writeNode reports where the conversation stands after a tree operation:
// the new current node, or ended=true when the tree finished.
func (h *TreeHandler) writeNode(w http.ResponseWriter) {
	if !h.manager.TreeActive() {
		writeJSON(w, h.logger, http.StatusOK, map[string]bool{"ended": true})
		return
	}

	tree := h.manager.ActiveTree()
	node := h.manager.CurrentNode()
	responses := make([]string, 0, len(node.Responses))
	for _, resp := range node.Responses {
		responses = append(responses, resp.Text)
	}

	writeJSON(w, h.logger, http.StatusOK, TreeState{
		TreeID:        tree.ID,
		CharacterName: tree.CharacterName,
		Portrait:      h.manager.CurrentPortrait(),
		NodeID:        node.ID,
		Message:       node.Message,
		Responses:     responses,
	})
}
