// Package modal serializes the game's interruptions — one-shot tutorials
// and character dialogs — into a single presentation slot, and drives
// branching dialog-tree conversations.
//
// All state lives on the Manager: the pending queue, the seen-tutorial
// set, content caches, the conversation history, and the active dialog
// tree. The UI layer is limited to the read queries plus the documented
// close/select operations.
package modal

import (
	"context"
	"fmt"
	"log/slog"
	"sort"
	"sync"

	"github.com/ZABarton/idle-artifice-sub000/pkg/content"
	"github.com/ZABarton/idle-artifice-sub000/pkg/transcript"
	"github.com/ZABarton/idle-artifice-sub000/pkg/trigger"
)

// ItemType discriminates the two kinds of queued modals.
type ItemType string

const (
	TypeTutorial ItemType = "tutorial"
	TypeDialog   ItemType = "dialog"
)

// Item is one pending modal: exactly one of Tutorial or Dialog is set,
// matching Type.
type Item struct {
	Type     ItemType              `json:"type"`
	Tutorial *content.TutorialItem `json:"tutorial,omitempty"`
	Dialog   *content.DialogItem   `json:"dialog,omitempty"`
}

// ID returns the identifier of the wrapped content.
func (i Item) ID() string {
	switch i.Type {
	case TypeTutorial:
		return i.Tutorial.ID
	case TypeDialog:
		return i.Dialog.ID
	}
	return ""
}

// Manager owns the modal queue and the dialog-tree state. Handlers run
// concurrently, so every entry point takes mu; the operations themselves
// are atomic from the caller's perspective.
type Manager struct {
	provider Provider
	store    ProgressStore
	world    trigger.WorldView
	logger   *slog.Logger

	mu          sync.Mutex
	queue       []Item
	seen        map[string]struct{}
	dialogCache map[string]*content.DialogItem
	treeCache   map[string]*content.DialogTree
	history     []*transcript.ConversationRecord
	active      *transcript.ConversationRecord

	activeTree  *content.DialogTree
	currentNode string

	evalCtx         *trigger.Context
	storageDegraded bool
}

// NewManager builds a Manager with empty session state. Call Restore to
// load the persisted records before serving requests.
func NewManager(provider Provider, store ProgressStore, world trigger.WorldView, logger *slog.Logger) *Manager {
	return &Manager{
		provider:    provider,
		store:       store,
		world:       world,
		logger:      logger,
		seen:        make(map[string]struct{}),
		dialogCache: make(map[string]*content.DialogItem),
		treeCache:   make(map[string]*content.DialogTree),
	}
}

// SetCustomEvaluator installs the handler for conditions of type custom.
// Without one, custom conditions evaluate false.
func (m *Manager) SetCustomEvaluator(fn func(trigger.Condition) bool) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.evalCtx = &trigger.Context{EvaluateCustom: fn}
}

// Restore loads the completed-tutorial set and the conversation history
// from the progress store. Called once at startup.
func (m *Manager) Restore(ctx context.Context) error {
	ids, err := m.store.LoadSeenTutorials(ctx)
	if err != nil {
		return fmt.Errorf("failed to load seen tutorials: %w", err)
	}
	history, err := m.store.LoadHistory(ctx)
	if err != nil {
		return fmt.Errorf("failed to load dialog history: %w", err)
	}

	m.mu.Lock()
	defer m.mu.Unlock()
	for _, id := range ids {
		m.seen[id] = struct{}{}
	}
	m.history = history
	return nil
}

// ShowTutorial queues the tutorial with the given ID. It is a no-op when
// the tutorial is showOnce and already completed, or showOnce and already
// pending. Unknown IDs are an error and leave the queue unchanged.
func (m *Manager) ShowTutorial(id string) error {
	t, err := m.provider.Tutorial(id)
	if err != nil {
		return err
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	if t.ShowOnce {
		if _, done := m.seen[id]; done {
			return nil
		}
		for _, item := range m.queue {
			if item.Type == TypeTutorial && item.Tutorial.ID == id {
				return nil
			}
		}
	}

	m.queue = append(m.queue, Item{Type: TypeTutorial, Tutorial: t})
	m.logger.Debug("Tutorial queued", "id", id, "queue_depth", len(m.queue))
	return nil
}

// ShowDialog queues the dialog with the given ID and opens its
// conversation record with the character's message as the first entry.
func (m *Manager) ShowDialog(ctx context.Context, id string) error {
	m.mu.Lock()
	d, ok := m.dialogCache[id]
	m.mu.Unlock()

	if !ok {
		loaded, err := m.provider.Dialog(ctx, id)
		if err != nil {
			return err
		}
		d = loaded
	}

	m.mu.Lock()
	defer m.mu.Unlock()
	m.dialogCache[id] = d

	m.queue = append(m.queue, Item{Type: TypeDialog, Dialog: d})

	conversationID := d.ConversationID
	if conversationID == "" {
		conversationID = d.ID
	}
	m.beginConversationLocked(conversationID, d.CharacterName, d.Message)
	m.logger.Debug("Dialog queued", "id", id, "character", d.CharacterName)
	return nil
}

// CloseCurrentModal removes the queue head. Closing a tutorial marks it
// completed and persists the set; closing a dialog finalizes its
// conversation record and persists the history.
//
// Closing with an empty queue is a defect in the calling code and panics.
func (m *Manager) CloseCurrentModal(ctx context.Context) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if len(m.queue) == 0 {
		panic("modal: CloseCurrentModal called with an empty queue")
	}

	head := m.queue[0]
	m.queue = m.queue[1:]

	switch head.Type {
	case TypeTutorial:
		m.seen[head.Tutorial.ID] = struct{}{}
		m.persistSeenLocked(ctx)
	case TypeDialog:
		m.finalizeConversationLocked(ctx)
	}
	m.logger.Debug("Modal closed", "type", head.Type, "id", head.ID(), "queue_depth", len(m.queue))
}

// CurrentModal returns the queue head, if any. When a dialog tree is
// active it takes precedence over the plain queue; callers must check
// TreeActive first.
func (m *Manager) CurrentModal() (Item, bool) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if len(m.queue) == 0 {
		return Item{}, false
	}
	return m.queue[0], true
}

// QueueDepth returns the number of pending modals.
func (m *Manager) QueueDepth() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.queue)
}

// HasSeenTutorial reports whether the tutorial has been completed.
func (m *Manager) HasSeenTutorial(id string) bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	_, ok := m.seen[id]
	return ok
}

// SeenTutorials returns the completed set in sorted order.
func (m *Manager) SeenTutorials() []string {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.seenSortedLocked()
}

// History returns the finalized conversation records, oldest first.
func (m *Manager) History() []*transcript.ConversationRecord {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := make([]*transcript.ConversationRecord, len(m.history))
	copy(out, m.history)
	return out
}

// ActiveConversation returns the in-progress record, or nil.
func (m *Manager) ActiveConversation() *transcript.ConversationRecord {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.active
}

// StorageDegraded reports whether a persistence write has failed this
// session. In-memory state remains authoritative either way.
func (m *Manager) StorageDegraded() bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.storageDegraded
}

// beginConversationLocked opens the in-progress record. If one is already
// open it is finalized and archived first; a single slot holds at most one
// in-progress conversation.
func (m *Manager) beginConversationLocked(conversationID, characterName, firstMessage string) {
	if m.active != nil {
		m.logger.Warn("Conversation opened while another was in progress; finalizing previous",
			"previous", m.active.ConversationID, "next", conversationID)
		m.finalizeConversationLocked(context.Background())
	}
	m.active = transcript.NewConversation(conversationID, characterName)
	m.active.AppendNPC(firstMessage)
}

// finalizeConversationLocked closes the in-progress record, moves it into
// the bounded history, clears the slot, and persists.
func (m *Manager) finalizeConversationLocked(ctx context.Context) {
	if m.active == nil {
		return
	}
	m.active.Finalize()
	m.history = transcript.AppendBounded(m.history, m.active)
	m.active = nil
	m.persistHistoryLocked(ctx)
}

func (m *Manager) seenSortedLocked() []string {
	ids := make([]string, 0, len(m.seen))
	for id := range m.seen {
		ids = append(ids, id)
	}
	sort.Strings(ids)
	return ids
}

// persistSeenLocked rewrites the completed-tutorial record. Write failures
// are non-fatal: the in-memory set stays authoritative and play continues.
func (m *Manager) persistSeenLocked(ctx context.Context) {
	if err := m.store.SaveSeenTutorials(ctx, m.seenSortedLocked()); err != nil {
		m.noteStorageFailureLocked("seen tutorials", err)
	}
}

// persistHistoryLocked rewrites the conversation-history record.
func (m *Manager) persistHistoryLocked(ctx context.Context) {
	if err := m.store.SaveHistory(ctx, m.history); err != nil {
		m.noteStorageFailureLocked("dialog history", err)
	}
}

func (m *Manager) noteStorageFailureLocked(record string, err error) {
	if !m.storageDegraded {
		m.logger.Warn("Persistence unavailable; progress will not survive this session", "record", record, "error", err)
	} else {
		m.logger.Debug("Persistence write failed", "record", record, "error", err)
	}
	m.storageDegraded = true
}
