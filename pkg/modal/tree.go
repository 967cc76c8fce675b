package modal

import (
	"context"
	"fmt"
	"strings"

	"github.com/ZABarton/idle-artifice-sub000/pkg/content"
)

// ShowDialogTree loads, validates and activates the dialog tree with the
// given ID, opening its conversation record with the start node's message.
// A tree with blocking validation errors refuses to activate and leaves
// any previously active tree untouched. Non-blocking warnings are logged.
func (m *Manager) ShowDialogTree(ctx context.Context, id string) error {
	m.mu.Lock()
	tree, cached := m.treeCache[id]
	m.mu.Unlock()

	if !cached {
		loaded, err := m.provider.DialogTree(ctx, id)
		if err != nil {
			return err
		}

		v := content.ValidateTree(loaded)
		for _, w := range v.Warnings {
			m.logger.Warn("Dialog tree warning", "tree", id, "warning", w)
		}
		if !v.OK() {
			for _, e := range v.Errors {
				m.logger.Error("Dialog tree validation failed", "tree", id, "error", e)
			}
			return fmt.Errorf("%w: %s: %s", ErrTreeInvalid, id, strings.Join(v.Errors, "; "))
		}
		tree = loaded
	}

	m.mu.Lock()
	defer m.mu.Unlock()
	m.treeCache[id] = tree

	m.activeTree = tree
	m.currentNode = tree.StartNodeID
	m.beginConversationLocked(tree.ID, tree.CharacterName, tree.Nodes[tree.StartNodeID].Message)
	m.logger.Debug("Dialog tree activated", "id", id, "start_node", tree.StartNodeID)
	return nil
}

// SelectResponse advances the active conversation by the current node's
// response at the given index. The chosen text is recorded as a player
// entry; a null next node finalizes the conversation and returns control
// to the plain queue, otherwise the next node's message is recorded and
// becomes current.
//
// Calling with no active tree or an out-of-range index is a defect in the
// calling code and panics.
func (m *Manager) SelectResponse(ctx context.Context, index int) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.activeTree == nil {
		panic("modal: SelectResponse called with no active dialog tree")
	}

	node := m.activeTree.Nodes[m.currentNode]
	if index < 0 || index >= len(node.Responses) {
		panic(fmt.Sprintf("modal: response index %d out of range for node %q (%d responses)",
			index, node.ID, len(node.Responses)))
	}

	resp := node.Responses[index]
	m.active.AppendPlayer(resp.Text)

	if resp.NextNodeID == nil {
		treeID := m.activeTree.ID
		m.activeTree = nil
		m.currentNode = ""
		m.finalizeConversationLocked(ctx)
		m.logger.Debug("Dialog tree finished", "id", treeID)
		return
	}

	m.currentNode = *resp.NextNodeID
	m.active.AppendNPC(m.activeTree.Nodes[m.currentNode].Message)
}

// TreeActive reports whether a dialog tree currently holds the
// presentation slot. Tree activity takes precedence over the plain queue.
func (m *Manager) TreeActive() bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.activeTree != nil
}

// CurrentNode returns the active tree's current node, or nil when no tree
// is active.
func (m *Manager) CurrentNode() *content.DialogNode {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.activeTree == nil {
		return nil
	}
	return m.activeTree.Nodes[m.currentNode]
}

// ActiveTree returns the active tree, or nil.
func (m *Manager) ActiveTree() *content.DialogTree {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.activeTree
}

// CurrentPortrait resolves the portrait for the active node: the node
// override when present, else the tree default. Nil when no tree is
// active.
func (m *Manager) CurrentPortrait() *content.Portrait {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.activeTree == nil {
		return nil
	}
	return m.activeTree.PortraitFor(m.currentNode)
}
