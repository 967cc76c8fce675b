package modal

import (
	"context"
	"errors"

	"github.com/ZABarton/idle-artifice-sub000/pkg/content"
	"github.com/ZABarton/idle-artifice-sub000/pkg/transcript"
)

var (
	// ErrTutorialNotFound is returned when no tutorial has the requested ID.
	ErrTutorialNotFound = errors.New("tutorial not found")
	// ErrDialogNotFound is returned when no dialog has the requested ID.
	ErrDialogNotFound = errors.New("dialog not found")
	// ErrTreeNotFound is returned when no dialog tree has the requested ID.
	ErrTreeNotFound = errors.New("dialog tree not found")
	// ErrTreeInvalid is returned when a dialog tree fails structural
	// validation and must not be activated.
	ErrTreeInvalid = errors.New("dialog tree failed validation")
)

// Provider resolves content by identifier. The tutorial registry is loaded
// eagerly at startup; dialogs and trees are loaded lazily on first
// reference. Implementations must memoize lazy loads by identifier so a
// repeated request resolves from cache rather than re-fetching.
type Provider interface {
	// Tutorial returns the tutorial with the given ID from the eager
	// registry, or ErrTutorialNotFound.
	Tutorial(id string) (*content.TutorialItem, error)

	// Tutorials returns the whole registry in load order. The returned
	// slice is read-only.
	Tutorials() []*content.TutorialItem

	// Dialog loads the dialog with the given ID, or ErrDialogNotFound.
	Dialog(ctx context.Context, id string) (*content.DialogItem, error)

	// DialogTree loads the dialog tree with the given ID, or
	// ErrTreeNotFound. The tree is returned unvalidated; the caller
	// validates before activation.
	DialogTree(ctx context.Context, id string) (*content.DialogTree, error)
}

// ProgressStore persists the two pieces of state that survive across
// sessions: the completed-tutorial set and the finalized conversation
// history. Each record is read once at startup and rewritten in full on
// every mutation.
type ProgressStore interface {
	LoadSeenTutorials(ctx context.Context) ([]string, error)
	SaveSeenTutorials(ctx context.Context, ids []string) error

	LoadHistory(ctx context.Context) ([]*transcript.ConversationRecord, error)
	SaveHistory(ctx context.Context, history []*transcript.ConversationRecord) error
}
