package handlers

import (
	"encoding/json"
	"fmt"
	"log/slog"
	"net/http"

	"github.com/ZABarton/idle-artifice-sub000/internal/world"
	"github.com/ZABarton/idle-artifice-sub000/pkg/modal"
	"github.com/ZABarton/idle-artifice-sub000/pkg/trigger"
)

// Event types accepted by the events endpoint.
const (
	EventTileExplored       = "tile_explored"
	EventFeatureInteracted  = "feature_interacted"
	EventObjectiveCompleted = "objective_completed"
	EventResourceChanged    = "resource_changed"
)

// GameEvent is one gameplay occurrence reported by the client. The
// engine updates world state first, then re-checks triggers, so a
// tutorial gated on the event's own condition fires in the same call.
type GameEvent struct {
	Type   string  `json:"type"`
	Q      int     `json:"q,omitempty"`      // tile_explored
	R      int     `json:"r,omitempty"`      // tile_explored
	Target string  `json:"target,omitempty"` // feature/objective/resource ID
	Amount float64 `json:"amount,omitempty"` // resource_changed
}

type EventsHandler struct {
	manager *modal.Manager
	world   *world.State
	logger  *slog.Logger
}

func NewEventsHandler(manager *modal.Manager, world *world.State, logger *slog.Logger) *EventsHandler {
	return &EventsHandler{
		manager: manager,
		world:   world,
		logger:  logger,
	}
}

// ServeHTTP handles game event requests.
// Routes:
// POST /v1/events  - Report a game event and evaluate triggers
func (h *EventsHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")

	if r.Method != http.MethodPost {
		writeError(w, h.logger, http.StatusMethodNotAllowed, "Method not allowed. Supported methods: POST")
		return
	}

	var event GameEvent
	if err := json.NewDecoder(r.Body).Decode(&event); err != nil {
		writeError(w, h.logger, http.StatusBadRequest, "Invalid JSON in request body")
		return
	}

	if err := h.apply(event); err != nil {
		writeError(w, h.logger, http.StatusBadRequest, err.Error())
		return
	}

	writeJSON(w, h.logger, http.StatusAccepted, map[string]int{"queueDepth": h.manager.QueueDepth()})
}

func (h *EventsHandler) apply(event GameEvent) error {
	switch event.Type {
	case EventTileExplored:
		h.world.SetTileStatus(event.Q, event.R, trigger.TileStatusExplored)
		return h.manager.TriggerLocationTutorial(fmt.Sprintf("%d,%d", event.Q, event.R))

	case EventFeatureInteracted:
		if event.Target == "" {
			return fmt.Errorf("target is required for %s events", event.Type)
		}
		h.world.MarkFeatureInteracted(event.Target)
		return h.manager.TriggerFeatureTutorial(event.Target)

	case EventObjectiveCompleted:
		if event.Target == "" {
			return fmt.Errorf("target is required for %s events", event.Type)
		}
		h.world.SetObjectiveStatus(event.Target, trigger.ObjectiveStatusCompleted)
		return h.manager.TriggerObjectiveTutorial(event.Target)

	case EventResourceChanged:
		if event.Target == "" {
			return fmt.Errorf("target is required for %s events", event.Type)
		}
		h.world.SetResourceAmount(event.Target, event.Amount)
		// Resource thresholds have no dedicated composable; re-check
		// immediate tutorials whose condition sets may now hold.
		return h.manager.TriggerImmediateTutorials()

	default:
		return fmt.Errorf("unknown event type: %s", event.Type)
	}
}
