package traverse

import (
	"slices"
	"strconv"
	"strings"
)

// Lineage returns the ancestor chain of id, root first and id last. It stops
// at a null parent or at a parent missing from the graph. An id absent from
// the graph yields nil. A parent cycle ends the walk at the first repeat.
func Lineage(g Graph, id string) []string {
	var chain []string
	seen := make(map[string]bool)
	for cur := id; cur != "" && !seen[cur]; {
		m, ok := g[cur]
		if !ok {
			break
		}
		seen[cur] = true
		chain = append(chain, cur)
		cur = m.Parent
	}
	slices.Reverse(chain)
	return chain
}

// Depth is the number of ancestors of id; roots have depth 0.
func Depth(g Graph, id string) int {
	return len(Lineage(g, id)) - 1
}

// BranchLabel describes which branch group id belongs to at each ancestor
// level, as 1-based group indices joined by dots ("2.1"). Messages that never
// sit inside a branch group are labelled RootLabel.
//
// Only the group index is recorded, so siblings inside one group share a
// label.
func BranchLabel(g Graph, id string) string {
	var indices []string
	seen := make(map[string]bool)
	cur := id
	for !seen[cur] {
		seen[cur] = true
		m, ok := g[cur]
		if !ok || m.Parent == "" {
			break
		}
		parent, ok := g[m.Parent]
		if !ok {
			break
		}
		if idx, ok := parent.GroupOf(cur); ok {
			indices = append(indices, strconv.Itoa(idx+1))
		}
		cur = m.Parent
	}
	if len(indices) == 0 {
		return RootLabel
	}
	slices.Reverse(indices)
	return strings.Join(indices, ".")
}

// StepBack returns the ancestor n levels above id. It refuses to move at all
// when fewer than n ancestors exist.
func StepBack(g Graph, id string, n int) (string, error) {
	if _, ok := g[id]; !ok {
		return "", ErrUnknownMessage
	}
	chain := Lineage(g, id)
	target := len(chain) - 1 - n
	if target < 0 {
		return id, ErrAtOrigin
	}
	return chain[target], nil
}
