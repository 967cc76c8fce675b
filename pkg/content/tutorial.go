package content

import (
	"fmt"

	"github.com/ZABarton/idle-artifice-sub000/pkg/trigger"
)

// TutorialItem is a one-shot informational modal. Tutorials are loaded in
// bulk at startup and are immutable afterwards.
type TutorialItem struct {
	ID                string              `json:"id"`
	Title             string              `json:"title"`
	Content           string              `json:"content"`
	TriggerConditions []trigger.Condition `json:"triggerConditions"`
	ShowOnce          bool                `json:"showOnce"`
}

// Validate checks the required fields of a tutorial.
func (t *TutorialItem) Validate() error {
	if t.ID == "" {
		return fmt.Errorf("tutorial id cannot be empty")
	}
	if t.Title == "" {
		return fmt.Errorf("tutorial %q: title cannot be empty", t.ID)
	}
	if t.Content == "" {
		return fmt.Errorf("tutorial %q: content cannot be empty", t.ID)
	}
	return nil
}
