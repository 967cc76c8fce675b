package content

// DialogTree is a branching conversation graph. Trees are loaded lazily
// once per ID, validated, and cached.
type DialogTree struct {
	ID            string                 `json:"id"`
	CharacterName string                 `json:"characterName"`
	Portrait      *Portrait              `json:"portrait,omitempty"`
	StartNodeID   string                 `json:"startNodeId"`
	Nodes         map[string]*DialogNode `json:"nodes"`
}

// DialogNode is a single conversation beat. A node with no responses is
// terminal and ends the conversation.
type DialogNode struct {
	ID        string     `json:"id"`
	Message   string     `json:"message"`
	Responses []Response `json:"responses"`
	Portrait  *Portrait  `json:"portrait,omitempty"`
}

// Response is a player-selectable reply. A nil NextNodeID ends the
// conversation.
type Response struct {
	Text       string  `json:"text"`
	NextNodeID *string `json:"nextNodeId"`
}

// IsTerminal reports whether the node ends the conversation by itself.
func (n *DialogNode) IsTerminal() bool {
	return len(n.Responses) == 0
}

// Node returns the node with the given ID, or nil.
func (t *DialogTree) Node(id string) *DialogNode {
	return t.Nodes[id]
}

// PortraitFor resolves the portrait to display for a node: the node's
// override when present, otherwise the tree default.
func (t *DialogTree) PortraitFor(nodeID string) *Portrait {
	if n := t.Nodes[nodeID]; n != nil && n.Portrait != nil {
		return n.Portrait
	}
	return t.Portrait
}
