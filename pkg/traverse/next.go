package traverse

import (
	"slices"

	"github.com/entrhq/fur/pkg/graph"
)

// NextMessages resolves what follows id, in priority order: its own
// children; else the siblings after it in its parent's branch group; else,
// for a thread root, the roots after it. An empty result means the end of
// the branch.
func NextMessages(g Graph, t *graph.Thread, id string) []string {
	m, ok := g[id]
	if !ok {
		return nil
	}
	if children := m.Children(); len(children) > 0 {
		return children
	}

	if m.Parent != "" {
		parent, ok := g[m.Parent]
		if !ok {
			return nil
		}
		if idx, ok := parent.GroupOf(id); ok {
			return after(parent.Branches[idx], id)
		}
		return nil
	}

	if t == nil {
		return nil
	}
	return after(t.Messages, id)
}

func after(ids []string, id string) []string {
	i := slices.Index(ids, id)
	if i < 0 || i == len(ids)-1 {
		return nil
	}
	return slices.Clone(ids[i+1:])
}
