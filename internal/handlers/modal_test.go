package handlers

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestModalHandler_EmptyState(t *testing.T) {
	m, _, _ := newTestEngine(t)
	handler := NewModalHandler(m, testLogger())

	req := httptest.NewRequest(http.MethodGet, "/v1/modal", nil)
	w := httptest.NewRecorder()
	handler.ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)

	var state ModalState
	require.NoError(t, json.NewDecoder(w.Body).Decode(&state))
	assert.False(t, state.Active)
	assert.Equal(t, 0, state.QueueDepth)
}

func TestModalHandler_TutorialAtHead(t *testing.T) {
	m, p, _ := newTestEngine(t)
	p.tutorials = append(p.tutorials, sampleTutorial("welcome"))
	require.NoError(t, m.ShowTutorial("welcome"))

	handler := NewModalHandler(m, testLogger())
	req := httptest.NewRequest(http.MethodGet, "/v1/modal", nil)
	w := httptest.NewRecorder()
	handler.ServeHTTP(w, req)

	var state ModalState
	require.NoError(t, json.NewDecoder(w.Body).Decode(&state))
	assert.True(t, state.Active)
	assert.Equal(t, "tutorial", state.Type)
	require.NotNil(t, state.Tutorial)
	assert.Equal(t, "welcome", state.Tutorial.ID)
}

func TestModalHandler_Close(t *testing.T) {
	m, p, _ := newTestEngine(t)
	p.tutorials = append(p.tutorials, sampleTutorial("welcome"))
	require.NoError(t, m.ShowTutorial("welcome"))

	handler := NewModalHandler(m, testLogger())
	req := httptest.NewRequest(http.MethodPost, "/v1/modal/close", nil)
	w := httptest.NewRecorder()
	handler.ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)

	var state ModalState
	require.NoError(t, json.NewDecoder(w.Body).Decode(&state))
	assert.False(t, state.Active)
	assert.True(t, m.HasSeenTutorial("welcome"))
}

func TestModalHandler_CloseEmptyQueue(t *testing.T) {
	m, _, _ := newTestEngine(t)
	handler := NewModalHandler(m, testLogger())

	req := httptest.NewRequest(http.MethodPost, "/v1/modal/close", nil)
	w := httptest.NewRecorder()
	handler.ServeHTTP(w, req)

	assert.Equal(t, http.StatusConflict, w.Code)
}

func TestModalHandler_TreeTakesPrecedence(t *testing.T) {
	m, p, _ := newTestEngine(t)
	p.tutorials = append(p.tutorials, sampleTutorial("welcome"))
	p.trees["forge_keeper_intro"] = sampleTree("forge_keeper_intro")
	require.NoError(t, m.ShowTutorial("welcome"))
	require.NoError(t, m.ShowDialogTree(context.Background(), "forge_keeper_intro"))

	handler := NewModalHandler(m, testLogger())
	req := httptest.NewRequest(http.MethodGet, "/v1/modal", nil)
	w := httptest.NewRecorder()
	handler.ServeHTTP(w, req)

	var state ModalState
	require.NoError(t, json.NewDecoder(w.Body).Decode(&state))
	assert.Equal(t, "tree", state.Type)
	require.NotNil(t, state.Tree)
	assert.Equal(t, "welcome", state.Tree.NodeID)
	assert.Equal(t, []string{"Tell me more.", "Goodbye."}, state.Tree.Responses)

	// Closing the plain queue while a tree is active is rejected.
	req = httptest.NewRequest(http.MethodPost, "/v1/modal/close", nil)
	w = httptest.NewRecorder()
	handler.ServeHTTP(w, req)
	assert.Equal(t, http.StatusConflict, w.Code)
}

func TestModalHandler_MethodNotAllowed(t *testing.T) {
	m, _, _ := newTestEngine(t)
	handler := NewModalHandler(m, testLogger())

	req := httptest.NewRequest(http.MethodDelete, "/v1/modal", nil)
	w := httptest.NewRecorder()
	handler.ServeHTTP(w, req)

	assert.Equal(t, http.StatusMethodNotAllowed, w.Code)
}
