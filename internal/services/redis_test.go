package services

import (
	"context"
	"io"
	"log/slog"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ZABarton/idle-artifice-sub000/pkg/transcript"
)

func setupTestRedis(t *testing.T) (*RedisProgress, *miniredis.Miniredis) {
	mr, err := miniredis.Run()
	require.NoError(t, err)
	t.Cleanup(mr.Close)

	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	store, err := NewRedisProgress("redis://"+mr.Addr(), logger)
	require.NoError(t, err)
	t.Cleanup(func() { _ = store.Close() })

	return store, mr
}

func TestRedisProgress_SeenTutorials(t *testing.T) {
	store, _ := setupTestRedis(t)
	ctx := context.Background()

	// Fresh install: no record yet.
	ids, err := store.LoadSeenTutorials(ctx)
	require.NoError(t, err)
	assert.Nil(t, ids)

	require.NoError(t, store.SaveSeenTutorials(ctx, []string{"welcome", "forge_basics"}))

	ids, err = store.LoadSeenTutorials(ctx)
	require.NoError(t, err)
	assert.Equal(t, []string{"welcome", "forge_basics"}, ids)

	// Saves replace the record rather than appending.
	require.NoError(t, store.SaveSeenTutorials(ctx, []string{"welcome"}))
	ids, err = store.LoadSeenTutorials(ctx)
	require.NoError(t, err)
	assert.Equal(t, []string{"welcome"}, ids)
}

func TestRedisProgress_History(t *testing.T) {
	store, _ := setupTestRedis(t)
	ctx := context.Background()

	history, err := store.LoadHistory(ctx)
	require.NoError(t, err)
	assert.Nil(t, history)

	rec := transcript.NewConversation("forge_keeper_intro", "Maren")
	rec.AppendNPC("Welcome to the forge.")
	rec.AppendPlayer("Who are you?")
	rec.Finalize()

	require.NoError(t, store.SaveHistory(ctx, []*transcript.ConversationRecord{rec}))

	history, err = store.LoadHistory(ctx)
	require.NoError(t, err)
	require.Len(t, history, 1)

	got := history[0]
	assert.Equal(t, rec.ID, got.ID)
	assert.Equal(t, "forge_keeper_intro", got.ConversationID)
	assert.Equal(t, "Maren", got.CharacterName)
	require.Len(t, got.Entries, 2)
	assert.Equal(t, transcript.SpeakerNPC, got.Entries[0].Speaker)
	assert.Equal(t, "Welcome to the forge.", got.Entries[0].Message)
	assert.Equal(t, transcript.SpeakerPlayer, got.Entries[1].Speaker)
	require.NotNil(t, got.CompletedAt)
}

func TestRedisProgress_LoadCorruptRecord(t *testing.T) {
	store, mr := setupTestRedis(t)
	ctx := context.Background()

	mr.Set(seenTutorialsKey, "not json")
	_, err := store.LoadSeenTutorials(ctx)
	assert.Error(t, err)

	mr.Set(dialogHistoryKey, "{broken")
	_, err = store.LoadHistory(ctx)
	assert.Error(t, err)
}

func TestRedisProgress_Ping(t *testing.T) {
	store, mr := setupTestRedis(t)
	ctx := context.Background()

	require.NoError(t, store.Ping(ctx))

	mr.Close()
	assert.Error(t, store.Ping(ctx))
}

func TestRedisProgress_WaitForConnection_Cancelled(t *testing.T) {
	store, mr := setupTestRedis(t)
	mr.Close()

	ctx, cancel := context.WithTimeout(context.Background(), 50*time.Millisecond)
	defer cancel()

	err := store.WaitForConnection(ctx)
	assert.Error(t, err)
}

func TestRedisProgress_HistoryIDsSurviveRoundTrip(t *testing.T) {
	store, _ := setupTestRedis(t)
	ctx := context.Background()

	recs := []*transcript.ConversationRecord{
		transcript.NewConversation("a", "Maren"),
		transcript.NewConversation("b", "Tobin"),
	}
	require.NoError(t, store.SaveHistory(ctx, recs))

	history, err := store.LoadHistory(ctx)
	require.NoError(t, err)
	require.Len(t, history, 2)
	assert.NotEqual(t, uuid.Nil, history[0].ID)
	assert.NotEqual(t, history[0].ID, history[1].ID)
}
