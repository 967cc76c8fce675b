package handlers

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/ZABarton/idle-artifice-sub000/pkg/content"
	"github.com/ZABarton/idle-artifice-sub000/pkg/trigger"
)

func TestEventsHandler_FeatureInteracted(t *testing.T) {
	m, p, w := newTestEngine(t)
	p.tutorials = append(p.tutorials, &content.TutorialItem{
		ID: "forge_basics", Title: "The Forge", Content: "...", ShowOnce: true,
		TriggerConditions: []trigger.Condition{
			{Type: trigger.ConditionFeature, Target: "ancient_forge"},
		},
	})
	handler := NewEventsHandler(m, w, testLogger())

	body := `{"type": "feature_interacted", "target": "ancient_forge"}`
	req := httptest.NewRequest(http.MethodPost, "/v1/events", strings.NewReader(body))
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusAccepted, rec.Code)
	assert.True(t, w.FeatureInteracted("ancient_forge"))
	assert.Equal(t, 1, m.QueueDepth(), "tutorial gated on the event should queue in the same call")
}

func TestEventsHandler_TileExplored(t *testing.T) {
	m, p, w := newTestEngine(t)
	p.tutorials = append(p.tutorials, &content.TutorialItem{
		ID: "ruins_note", Title: "Ruins", Content: "...", ShowOnce: true,
		TriggerConditions: []trigger.Condition{
			{Type: trigger.ConditionLocation, Target: "2,3"},
		},
	})
	handler := NewEventsHandler(m, w, testLogger())

	body := `{"type": "tile_explored", "q": 2, "r": 3}`
	req := httptest.NewRequest(http.MethodPost, "/v1/events", strings.NewReader(body))
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusAccepted, rec.Code)
	assert.Equal(t, trigger.TileStatusExplored, w.TileStatus(2, 3))
	assert.Equal(t, 1, m.QueueDepth())
}

func TestEventsHandler_ObjectiveCompleted(t *testing.T) {
	m, p, w := newTestEngine(t)
	p.tutorials = append(p.tutorials, &content.TutorialItem{
		ID: "next_steps", Title: "Next", Content: "...", ShowOnce: true,
		TriggerConditions: []trigger.Condition{
			{Type: trigger.ConditionObjective, Target: "first_steps"},
		},
	})
	handler := NewEventsHandler(m, w, testLogger())

	body := `{"type": "objective_completed", "target": "first_steps"}`
	req := httptest.NewRequest(http.MethodPost, "/v1/events", strings.NewReader(body))
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusAccepted, rec.Code)
	assert.Equal(t, 1, m.QueueDepth())
}

func TestEventsHandler_ResourceChanged(t *testing.T) {
	m, p, w := newTestEngine(t)
	threshold := 100.0
	p.tutorials = append(p.tutorials, &content.TutorialItem{
		ID: "stockpile", Title: "Stockpile", Content: "...", ShowOnce: true,
		TriggerConditions: []trigger.Condition{
			{Type: trigger.ConditionImmediate},
			{Type: trigger.ConditionResource, Target: "ore", Threshold: &threshold},
		},
	})
	handler := NewEventsHandler(m, w, testLogger())

	body := `{"type": "resource_changed", "target": "ore", "amount": 50}`
	req := httptest.NewRequest(http.MethodPost, "/v1/events", strings.NewReader(body))
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)
	assert.Equal(t, http.StatusAccepted, rec.Code)
	assert.Equal(t, 0, m.QueueDepth())

	body = `{"type": "resource_changed", "target": "ore", "amount": 150}`
	req = httptest.NewRequest(http.MethodPost, "/v1/events", strings.NewReader(body))
	rec = httptest.NewRecorder()
	handler.ServeHTTP(rec, req)
	assert.Equal(t, http.StatusAccepted, rec.Code)
	assert.Equal(t, 1, m.QueueDepth())
}

func TestEventsHandler_BadRequests(t *testing.T) {
	m, _, w := newTestEngine(t)
	handler := NewEventsHandler(m, w, testLogger())

	for name, body := range map[string]string{
		"unknown type":   `{"type": "meteor_strike"}`,
		"missing target": `{"type": "feature_interacted"}`,
		"broken json":    `{broken`,
	} {
		req := httptest.NewRequest(http.MethodPost, "/v1/events", strings.NewReader(body))
		rec := httptest.NewRecorder()
		handler.ServeHTTP(rec, req)
		assert.Equal(t, http.StatusBadRequest, rec.Code, name)
	}
}
