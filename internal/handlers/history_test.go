package handlers

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ZABarton/idle-artifice-sub000/pkg/content"
)

func TestHistoryHandler_Empty(t *testing.T) {
	m, _, _ := newTestEngine(t)
	handler := NewHistoryHandler(m, testLogger())

	req := httptest.NewRequest(http.MethodGet, "/v1/history", nil)
	w := httptest.NewRecorder()
	handler.ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)

	var response HistoryResponse
	require.NoError(t, json.NewDecoder(w.Body).Decode(&response))
	assert.NotNil(t, response.History)
	assert.Empty(t, response.History)
	assert.Nil(t, response.Active)
}

func TestHistoryHandler_FinalizedAndActive(t *testing.T) {
	m, p, _ := newTestEngine(t)
	ctx := context.Background()
	p.dialogs["first"] = &content.DialogItem{ID: "first", CharacterName: "Maren", Message: "One."}
	p.dialogs["second"] = &content.DialogItem{ID: "second", CharacterName: "Tobin", Message: "Two."}

	require.NoError(t, m.ShowDialog(ctx, "first"))
	m.CloseCurrentModal(ctx)
	require.NoError(t, m.ShowDialog(ctx, "second"))

	handler := NewHistoryHandler(m, testLogger())
	req := httptest.NewRequest(http.MethodGet, "/v1/history", nil)
	w := httptest.NewRecorder()
	handler.ServeHTTP(w, req)

	var response HistoryResponse
	require.NoError(t, json.NewDecoder(w.Body).Decode(&response))
	require.Len(t, response.History, 1)
	assert.Equal(t, "Maren", response.History[0].CharacterName)
	require.NotNil(t, response.Active)
	assert.Equal(t, "Tobin", response.Active.CharacterName)
}

func TestHistoryHandler_MethodNotAllowed(t *testing.T) {
	m, _, _ := newTestEngine(t)
	handler := NewHistoryHandler(m, testLogger())

	req := httptest.NewRequest(http.MethodPost, "/v1/history", nil)
	w := httptest.NewRecorder()
	handler.ServeHTTP(w, req)

	assert.Equal(t, http.StatusMethodNotAllowed, w.Code)
}
