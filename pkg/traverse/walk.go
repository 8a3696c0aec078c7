package traverse

import "strings"

// Visit is one step of a depth-first walk.
type Visit struct {
	ID    string
	Depth int
	Label string
}

// Walk visits the messages under roots depth-first, following branch groups
// in order, so the result matches the authoring order of a script. Each id
// is visited once; ids missing from the graph are skipped.
func Walk(g Graph, roots []string) []Visit {
	var out []Visit
	seen := make(map[string]bool)
	var visit func(id string, depth int)
	visit = func(id string, depth int) {
		m, ok := g[id]
		if !ok || seen[id] {
			return
		}
		seen[id] = true
		out = append(out, Visit{ID: id, Depth: depth, Label: BranchLabel(g, id)})
		for _, child := range m.Children() {
			visit(child, depth+1)
		}
	}
	for _, id := range roots {
		visit(id, 0)
	}
	return out
}

// Find resolves an exact id or a unique id prefix within the graph.
func Find(g Graph, prefix string) (string, error) {
	if _, ok := g[prefix]; ok {
		return prefix, nil
	}
	var match string
	for id := range g {
		if prefix != "" && strings.HasPrefix(id, prefix) {
			if match != "" {
				return "", ErrAmbiguousPrefix
			}
			match = id
		}
	}
	if match == "" {
		return "", ErrUnknownMessage
	}
	return match, nil
}
