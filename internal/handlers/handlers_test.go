package handlers

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/ZABarton/idle-artifice-sub000/internal/world"
	"github.com/ZABarton/idle-artifice-sub000/pkg/content"
	"github.com/ZABarton/idle-artifice-sub000/pkg/modal"
	"github.com/ZABarton/idle-artifice-sub000/pkg/transcript"
	"github.com/ZABarton/idle-artifice-sub000/pkg/trigger"
)

// stubProvider serves content from maps, mirroring the file layout the
// real provider reads.
type stubProvider struct {
	tutorials []*content.TutorialItem
	dialogs   map[string]*content.DialogItem
	trees     map[string]*content.DialogTree
}

func (p *stubProvider) Tutorial(id string) (*content.TutorialItem, error) {
	for _, t := range p.tutorials {
		if t.ID == id {
			return t, nil
		}
	}
	return nil, fmt.Errorf("%w: %s", modal.ErrTutorialNotFound, id)
}

func (p *stubProvider) Tutorials() []*content.TutorialItem { return p.tutorials }

func (p *stubProvider) Dialog(ctx context.Context, id string) (*content.DialogItem, error) {
	if d, ok := p.dialogs[id]; ok {
		return d, nil
	}
	return nil, fmt.Errorf("%w: %s", modal.ErrDialogNotFound, id)
}

func (p *stubProvider) DialogTree(ctx context.Context, id string) (*content.DialogTree, error) {
	if tr, ok := p.trees[id]; ok {
		return tr, nil
	}
	return nil, fmt.Errorf("%w: %s", modal.ErrTreeNotFound, id)
}

type stubStore struct {
	seen    []string
	history []*transcript.ConversationRecord
}

func (s *stubStore) LoadSeenTutorials(ctx context.Context) ([]string, error) { return s.seen, nil }
func (s *stubStore) SaveSeenTutorials(ctx context.Context, ids []string) error {
	s.seen = ids
	return nil
}
func (s *stubStore) LoadHistory(ctx context.Context) ([]*transcript.ConversationRecord, error) {
	return s.history, nil
}
func (s *stubStore) SaveHistory(ctx context.Context, h []*transcript.ConversationRecord) error {
	s.history = h
	return nil
}

func testLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func nodeRef(id string) *string { return &id }

// newTestEngine wires a manager around stub content and a real world state.
func newTestEngine(t *testing.T) (*modal.Manager, *stubProvider, *world.State) {
	t.Helper()
	p := &stubProvider{
		dialogs: make(map[string]*content.DialogItem),
		trees:   make(map[string]*content.DialogTree),
	}
	w := world.NewState()
	m := modal.NewManager(p, &stubStore{}, w, testLogger())
	require.NoError(t, m.Restore(context.Background()))
	return m, p, w
}

func sampleTutorial(id string) *content.TutorialItem {
	return &content.TutorialItem{
		ID:      id,
		Title:   "Sample",
		Content: "Sample tutorial body.",
		TriggerConditions: []trigger.Condition{
			{Type: trigger.ConditionImmediate},
		},
		ShowOnce: true,
	}
}

func sampleTree(id string) *content.DialogTree {
	return &content.DialogTree{
		ID:            id,
		CharacterName: "Maren",
		StartNodeID:   "welcome",
		Nodes: map[string]*content.DialogNode{
			"welcome": {
				ID:      "welcome",
				Message: "You made it to the forge.",
				Responses: []content.Response{
					{Text: "Tell me more.", NextNodeID: nodeRef("detail")},
					{Text: "Goodbye.", NextNodeID: nil},
				},
			},
			"detail": {
				ID:      "detail",
				Message: "The forge is older than the valley.",
				Responses: []content.Response{
					{Text: "Goodbye.", NextNodeID: nil},
				},
			},
		},
	}
}
