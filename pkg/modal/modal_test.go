package modal

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"testing"

	"github.com/ZABarton/idle-artifice-sub000/pkg/content"
	"github.com/ZABarton/idle-artifice-sub000/pkg/transcript"
	"github.com/ZABarton/idle-artifice-sub000/pkg/trigger"
)

// Shared test fixtures for the package.

type stubProvider struct {
	order       []*content.TutorialItem
	dialogs     map[string]*content.DialogItem
	trees       map[string]*content.DialogTree
	dialogLoads map[string]int
	treeLoads   map[string]int
}

func newStubProvider() *stubProvider {
	return &stubProvider{
		dialogs:     make(map[string]*content.DialogItem),
		trees:       make(map[string]*content.DialogTree),
		dialogLoads: make(map[string]int),
		treeLoads:   make(map[string]int),
	}
}

func (p *stubProvider) addTutorial(t *content.TutorialItem) {
	p.order = append(p.order, t)
}

func (p *stubProvider) Tutorial(id string) (*content.TutorialItem, error) {
	for _, t := range p.order {
		if t.ID == id {
			return t, nil
		}
	}
	return nil, ErrTutorialNotFound
}

func (p *stubProvider) Tutorials() []*content.TutorialItem { return p.order }

func (p *stubProvider) Dialog(_ context.Context, id string) (*content.DialogItem, error) {
	p.dialogLoads[id]++
	d, ok := p.dialogs[id]
	if !ok {
		return nil, ErrDialogNotFound
	}
	return d, nil
}

func (p *stubProvider) DialogTree(_ context.Context, id string) (*content.DialogTree, error) {
	p.treeLoads[id]++
	t, ok := p.trees[id]
	if !ok {
		return nil, ErrTreeNotFound
	}
	return t, nil
}

type stubStore struct {
	seen       []string
	history    []*transcript.ConversationRecord
	failWrites bool
	seenSaves  int
	histSaves  int
}

func (s *stubStore) LoadSeenTutorials(context.Context) ([]string, error) { return s.seen, nil }

func (s *stubStore) SaveSeenTutorials(_ context.Context, ids []string) error {
	s.seenSaves++
	if s.failWrites {
		return errors.New("storage unavailable")
	}
	s.seen = ids
	return nil
}

func (s *stubStore) LoadHistory(context.Context) ([]*transcript.ConversationRecord, error) {
	return s.history, nil
}

func (s *stubStore) SaveHistory(_ context.Context, history []*transcript.ConversationRecord) error {
	s.histSaves++
	if s.failWrites {
		return errors.New("storage unavailable")
	}
	s.history = history
	return nil
}

type stubWorld struct {
	explored   map[string]bool
	features   map[string]bool
	objectives map[string]string
	resources  map[string]float64
}

func newStubWorld() *stubWorld {
	return &stubWorld{
		explored:   make(map[string]bool),
		features:   make(map[string]bool),
		objectives: make(map[string]string),
		resources:  make(map[string]float64),
	}
}

func (w *stubWorld) TileStatus(q, r int) string {
	if w.explored[coord(q, r)] {
		return trigger.TileStatusExplored
	}
	return ""
}

func (w *stubWorld) FeatureInteracted(id string) bool { return w.features[id] }
func (w *stubWorld) ObjectiveStatus(id string) string { return w.objectives[id] }
func (w *stubWorld) ResourceAmount(id string) float64 { return w.resources[id] }

func coord(q, r int) string {
	return fmt.Sprintf("%d,%d", q, r)
}

func testLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func newTestManager(t *testing.T) (*Manager, *stubProvider, *stubStore, *stubWorld) {
	t.Helper()
	p := newStubProvider()
	s := &stubStore{}
	w := newStubWorld()
	return NewManager(p, s, w, testLogger()), p, s, w
}

func nodeRef(id string) *string { return &id }
