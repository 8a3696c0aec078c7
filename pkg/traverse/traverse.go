// Package traverse holds the read-only algorithms every view of a thread
// shares: loading a thread's messages, walking lineage, labelling branch
// paths and resolving what comes next. All functions are pure over a
// loaded Graph.
package traverse

import (
	"context"
	"errors"

	"github.com/entrhq/fur/pkg/graph"
)

// RootLabel is the branch-path label of messages on the main stem.
const RootLabel = "Root"

var (
	// ErrAtOrigin is returned when stepping back would pass the thread root.
	ErrAtOrigin = errors.New("traverse: reached the origin of this thread, no earlier message exists")
	// ErrUnknownMessage is returned for ids absent from the graph.
	ErrUnknownMessage = errors.New("traverse: message not in thread")
	// ErrAmbiguousPrefix is returned when an id prefix matches several messages.
	ErrAmbiguousPrefix = errors.New("traverse: ambiguous message id prefix")
)

// Graph is an id→message map for one thread.
type Graph map[string]*graph.Message

// MessageReader reads one message record by id.
type MessageReader interface {
	ReadMessage(id string) (*graph.Message, error)
}

// Subtree is the result of Load.
type Subtree struct {
	Messages Graph
	// Missing lists ids that were referenced but could not be read.
	Missing []string
}

// Load visits every message reachable from roots through branch edges,
// reading each id exactly once. Unreadable or unparsable records are left
// out of the graph and reported in Missing.
func Load(ctx context.Context, r MessageReader, roots []string) (*Subtree, error) {
	out := &Subtree{Messages: make(Graph)}
	seen := make(map[string]bool)
	work := append([]string(nil), roots...)

	for len(work) > 0 {
		if err := ctx.Err(); err != nil {
			return out, err
		}
		id := work[len(work)-1]
		work = work[:len(work)-1]
		if seen[id] {
			continue
		}
		seen[id] = true

		m, err := r.ReadMessage(id)
		if err != nil {
			out.Missing = append(out.Missing, id)
			continue
		}
		out.Messages[id] = m
		work = append(work, m.Children()...)
	}
	return out, nil
}
