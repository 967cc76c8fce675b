package content

import (
	"fmt"
	"sort"
)

// Validation limits for non-blocking warnings. Longer response text still
// loads, but tends to overflow the response buttons in the client.
const (
	ResponseTextGuideline = 80
	MaxRecommendedChoices = 4
)

// TreeValidation is the result of validating a dialog tree. Errors are
// blocking: a tree with errors must not be activated. Warnings indicate
// likely authoring mistakes but do not prevent activation.
type TreeValidation struct {
	Errors   []string
	Warnings []string

	// Depths maps each node reachable from the start node to its
	// breadth-first distance from it. Authoring tools use this as the
	// row assignment for auto-layout; validation uses it to find
	// orphans (nodes absent from the map).
	Depths map[string]int
}

// OK reports whether the tree may be activated.
func (v *TreeValidation) OK() bool {
	return len(v.Errors) == 0
}

func (v *TreeValidation) errorf(format string, args ...any) {
	v.Errors = append(v.Errors, fmt.Sprintf(format, args...))
}

func (v *TreeValidation) warnf(format string, args ...any) {
	v.Warnings = append(v.Warnings, fmt.Sprintf(format, args...))
}

// ValidateTree performs the structural checks on a dialog tree. It is run
// once at load time, before the tree is cached or activated.
func ValidateTree(t *DialogTree) *TreeValidation {
	v := &TreeValidation{Depths: make(map[string]int)}

	if t.ID == "" {
		v.errorf("tree id cannot be empty")
	}
	if t.CharacterName == "" {
		v.errorf("tree %q: characterName cannot be empty", t.ID)
	}
	if len(t.Nodes) == 0 {
		v.errorf("tree %q: node map is empty", t.ID)
		return v
	}

	if _, ok := t.Nodes[t.StartNodeID]; !ok {
		v.errorf("tree %q: start node %q not present in node map", t.ID, t.StartNodeID)
	}

	// Per-node checks. Iterate keys in sorted order so error output is
	// stable for tests and authoring diffs.
	keys := make([]string, 0, len(t.Nodes))
	for k := range t.Nodes {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	for _, key := range keys {
		node := t.Nodes[key]
		if node == nil {
			v.errorf("tree %q: node %q is null", t.ID, key)
			continue
		}
		if node.ID != key {
			v.errorf("tree %q: node keyed %q has id %q", t.ID, key, node.ID)
		}
		if node.Message == "" {
			v.errorf("tree %q: node %q has an empty message", t.ID, key)
		}
		if len(node.Responses) > MaxRecommendedChoices {
			v.warnf("tree %q: node %q has %d responses (recommended max %d)", t.ID, key, len(node.Responses), MaxRecommendedChoices)
		}
		for i, resp := range node.Responses {
			if resp.Text == "" {
				v.errorf("tree %q: node %q response %d has empty text", t.ID, key, i)
			} else if len(resp.Text) > ResponseTextGuideline {
				v.warnf("tree %q: node %q response %d text is %d chars (guideline %d)", t.ID, key, i, len(resp.Text), ResponseTextGuideline)
			}
			if resp.NextNodeID != nil {
				if _, ok := t.Nodes[*resp.NextNodeID]; !ok {
					v.errorf("tree %q: node %q response %d points to missing node %q", t.ID, key, i, *resp.NextNodeID)
				}
			}
		}
	}

	// Reachability walk from the start node. Only meaningful when the
	// start node exists; with blocking errors present the caller refuses
	// to activate anyway.
	if _, ok := t.Nodes[t.StartNodeID]; ok {
		v.Depths = layoutDepths(t)

		for _, key := range keys {
			if _, reached := v.Depths[key]; !reached {
				v.warnf("tree %q: node %q is unreachable from start node %q", t.ID, key, t.StartNodeID)
			}
		}

		if !terminalReachable(t, v.Depths) {
			v.warnf("tree %q: no terminal node is reachable from start node %q; conversation can never end on its own", t.ID, t.StartNodeID)
		}
	}

	return v
}

// layoutDepths assigns each node reachable from the start node its BFS
// distance, following every non-null response edge. The null sentinel is
// "no outgoing edge".
func layoutDepths(t *DialogTree) map[string]int {
	depths := map[string]int{t.StartNodeID: 0}
	queue := []string{t.StartNodeID}

	for len(queue) > 0 {
		curr := queue[0]
		queue = queue[1:]

		node := t.Nodes[curr]
		if node == nil {
			continue
		}
		for _, resp := range node.Responses {
			if resp.NextNodeID == nil {
				continue
			}
			next := *resp.NextNodeID
			if _, seen := depths[next]; seen {
				continue
			}
			if _, ok := t.Nodes[next]; !ok {
				continue // dangling reference, reported as a blocking error
			}
			depths[next] = depths[curr] + 1
			queue = append(queue, next)
		}
	}
	return depths
}

// terminalReachable reports whether any node reachable from the start is
// terminal (empty response list) or carries a conversation-ending response.
// A reachable set with neither is an always-looping conversation.
func terminalReachable(t *DialogTree, depths map[string]int) bool {
	for id := range depths {
		node := t.Nodes[id]
		if node == nil {
			continue
		}
		if node.IsTerminal() {
			return true
		}
		for _, resp := range node.Responses {
			if resp.NextNodeID == nil {
				return true
			}
		}
	}
	return false
}
