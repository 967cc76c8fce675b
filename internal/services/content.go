package services

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"sync"

	"github.com/ZABarton/idle-artifice-sub000/pkg/content"
	"github.com/ZABarton/idle-artifice-sub000/pkg/modal"
)

// FileContent implements modal.Provider against a content directory:
//
//	<dataDir>/tutorials.json     eager registry, loaded by NewFileContent
//	<dataDir>/dialogs/<id>.json  lazy, memoized
//	<dataDir>/trees/<id>.json    lazy, memoized
//
// The concrete loading mechanism stays behind the Provider interface so
// the core never sees the filesystem.
type FileContent struct {
	dataDir string
	logger  *slog.Logger

	tutorials []*content.TutorialItem
	byID      map[string]*content.TutorialItem

	mu      sync.Mutex
	dialogs map[string]*content.DialogItem
	trees   map[string]*content.DialogTree
}

// Ensure FileContent implements the provider interface
var _ modal.Provider = (*FileContent)(nil)

// NewFileContent loads the tutorial registry eagerly and prepares the
// lazy caches. A missing or malformed registry is a startup error.
func NewFileContent(dataDir string, logger *slog.Logger) (*FileContent, error) {
	if dataDir == "" {
		dataDir = "./data"
	}

	fc := &FileContent{
		dataDir: dataDir,
		logger:  logger,
		byID:    make(map[string]*content.TutorialItem),
		dialogs: make(map[string]*content.DialogItem),
		trees:   make(map[string]*content.DialogTree),
	}

	path := filepath.Join(dataDir, "tutorials.json")
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read tutorial registry %s: %w", path, err)
	}

	if err := json.Unmarshal(data, &fc.tutorials); err != nil {
		return nil, fmt.Errorf("failed to unmarshal tutorial registry: %w", err)
	}

	for _, t := range fc.tutorials {
		if err := t.Validate(); err != nil {
			return nil, fmt.Errorf("invalid tutorial in registry: %w", err)
		}
		if _, dup := fc.byID[t.ID]; dup {
			return nil, fmt.Errorf("duplicate tutorial id %q in registry", t.ID)
		}
		fc.byID[t.ID] = t
	}

	logger.Info("Tutorial registry loaded", "count", len(fc.tutorials), "path", path)
	return fc, nil
}

func (fc *FileContent) Tutorial(id string) (*content.TutorialItem, error) {
	t, ok := fc.byID[id]
	if !ok {
		return nil, fmt.Errorf("%w: %s", modal.ErrTutorialNotFound, id)
	}
	return t, nil
}

func (fc *FileContent) Tutorials() []*content.TutorialItem {
	return fc.tutorials
}

func (fc *FileContent) Dialog(ctx context.Context, id string) (*content.DialogItem, error) {
	fc.mu.Lock()
	if d, ok := fc.dialogs[id]; ok {
		fc.mu.Unlock()
		return d, nil
	}
	fc.mu.Unlock()

	path := filepath.Join(fc.dataDir, "dialogs", id+".json")
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, fmt.Errorf("%w: %s", modal.ErrDialogNotFound, id)
		}
		return nil, fmt.Errorf("failed to read dialog file %s: %w", path, err)
	}

	var d content.DialogItem
	if err := json.Unmarshal(data, &d); err != nil {
		return nil, fmt.Errorf("failed to unmarshal dialog %s: %w", id, err)
	}
	d.ID = id // filename is authoritative
	if err := d.Validate(); err != nil {
		return nil, fmt.Errorf("invalid dialog %s: %w", id, err)
	}

	fc.mu.Lock()
	defer fc.mu.Unlock()
	// A concurrent load may have won the race; keep the first copy.
	if cached, ok := fc.dialogs[id]; ok {
		return cached, nil
	}
	fc.dialogs[id] = &d
	fc.logger.Debug("Dialog loaded", "id", id)
	return &d, nil
}

func (fc *FileContent) DialogTree(ctx context.Context, id string) (*content.DialogTree, error) {
	fc.mu.Lock()
	if t, ok := fc.trees[id]; ok {
		fc.mu.Unlock()
		return t, nil
	}
	fc.mu.Unlock()

	path := filepath.Join(fc.dataDir, "trees", id+".json")
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, fmt.Errorf("%w: %s", modal.ErrTreeNotFound, id)
		}
		return nil, fmt.Errorf("failed to read dialog tree file %s: %w", path, err)
	}

	var t content.DialogTree
	if err := json.Unmarshal(data, &t); err != nil {
		return nil, fmt.Errorf("failed to unmarshal dialog tree %s: %w", id, err)
	}
	t.ID = id

	fc.mu.Lock()
	defer fc.mu.Unlock()
	if cached, ok := fc.trees[id]; ok {
		return cached, nil
	}
	fc.trees[id] = &t
	fc.logger.Debug("Dialog tree loaded", "id", id, "nodes", len(t.Nodes))
	return &t, nil
}
