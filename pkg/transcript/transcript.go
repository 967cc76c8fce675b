// Package transcript records conversations as they are presented to the
// player. Each dialog or dialog-tree conversation produces one record:
// opened when the conversation begins, appended to as messages are shown,
// and finalized when it closes.
package transcript

import (
	"time"

	"github.com/google/uuid"
)

const (
	// SpeakerNPC marks entries spoken by the character.
	SpeakerNPC = "npc"
	// SpeakerPlayer marks entries chosen by the player.
	SpeakerPlayer = "player"
)

// HistoryLimit bounds the finalized-conversation list. Older records are
// dropped from the front when the limit is exceeded.
const HistoryLimit = 50

// Entry is a single line of a conversation.
type Entry struct {
	Speaker     string    `json:"speaker"` // "npc" or "player"
	SpeakerName string    `json:"speakerName"`
	Message     string    `json:"message"`
	Timestamp   time.Time `json:"timestamp"`
}

// ConversationRecord is the transcript of one conversation.
type ConversationRecord struct {
	ID             uuid.UUID  `json:"id"`
	ConversationID string     `json:"conversationId"` // dialog or tree identifier
	CharacterName  string     `json:"characterName"`
	Entries        []Entry    `json:"entries"`
	StartedAt      time.Time  `json:"startedAt"`
	CompletedAt    *time.Time `json:"completedAt,omitempty"`
}

// NewConversation opens a record for a conversation that is starting now.
func NewConversation(conversationID, characterName string) *ConversationRecord {
	return &ConversationRecord{
		ID:             uuid.New(),
		ConversationID: conversationID,
		CharacterName:  characterName,
		Entries:        make([]Entry, 0, 4),
		StartedAt:      time.Now(),
	}
}

// AppendNPC records a character message.
func (r *ConversationRecord) AppendNPC(message string) {
	r.Entries = append(r.Entries, Entry{
		Speaker:     SpeakerNPC,
		SpeakerName: r.CharacterName,
		Message:     message,
		Timestamp:   time.Now(),
	})
}

// AppendPlayer records a response the player selected.
func (r *ConversationRecord) AppendPlayer(message string) {
	r.Entries = append(r.Entries, Entry{
		Speaker:     SpeakerPlayer,
		SpeakerName: SpeakerPlayer,
		Message:     message,
		Timestamp:   time.Now(),
	})
}

// Finalize stamps the completion time. Finalizing twice is harmless; the
// first completion time wins.
func (r *ConversationRecord) Finalize() {
	if r.CompletedAt != nil {
		return
	}
	now := time.Now()
	r.CompletedAt = &now
}

// AppendBounded adds a finalized record to a history list, trimming the
// oldest records beyond HistoryLimit.
func AppendBounded(history []*ConversationRecord, record *ConversationRecord) []*ConversationRecord {
	history = append(history, record)
	if len(history) > HistoryLimit {
		history = history[len(history)-HistoryLimit:]
	}
	return history
}
