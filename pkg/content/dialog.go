package content

import "fmt"

// Portrait is an image reference shown beside a character's message.
// Path may be empty for characters without art; Alt is always present
// for accessibility.
type Portrait struct {
	Path string `json:"path"`
	Alt  string `json:"alt"`
}

// DialogItem is a single standalone character message. Dialogs are loaded
// lazily on first reference and cached by ID for the process lifetime.
type DialogItem struct {
	ID             string    `json:"id"`
	CharacterName  string    `json:"characterName"`
	Portrait       *Portrait `json:"portrait,omitempty"`
	Message        string    `json:"message"`
	ConversationID string    `json:"conversationId,omitempty"`
}

// Validate checks the required fields of a dialog.
func (d *DialogItem) Validate() error {
	if d.ID == "" {
		return fmt.Errorf("dialog id cannot be empty")
	}
	if d.CharacterName == "" {
		return fmt.Errorf("dialog %q: characterName cannot be empty", d.ID)
	}
	if d.Message == "" {
		return fmt.Errorf("dialog %q: message cannot be empty", d.ID)
	}
	return nil
}
