// Package session resolves the active thread into display entries. It joins
// traversal output with avatar lookups so renderers only format.
package session

import (
	"context"
	"errors"
	"fmt"
	"os"
	"time"

	"github.com/entrhq/fur/pkg/avatars"
	"github.com/entrhq/fur/pkg/graph"
	"github.com/entrhq/fur/pkg/store"
	"github.com/entrhq/fur/pkg/traverse"
)

// ErrNoCursor is returned when a view needs a current message.
var ErrNoCursor = errors.New("session: no current message; use `fur jump` or `fur jot` first")

// Entry is one resolved message.
type Entry struct {
	ID        string
	Name      string
	Emoji     string
	Body      graph.Body
	Timestamp time.Time
	Label     string
	Depth     int
	Current   bool
}

// Session is the loaded active thread.
type Session struct {
	view    *store.View
	avatars *avatars.Registry
}

// Open loads the active thread and the avatar registry.
func Open(ctx context.Context, e *store.Engine) (*Session, error) {
	v, err := e.Active(ctx)
	if err != nil {
		return nil, err
	}
	reg, err := avatars.Load(e.Store().AvatarsPath())
	if err != nil {
		return nil, err
	}
	return New(v, reg), nil
}

// New wraps an already loaded view.
func New(v *store.View, reg *avatars.Registry) *Session {
	return &Session{view: v, avatars: reg}
}

// Thread returns the active thread record.
func (s *Session) Thread() *graph.Thread { return s.view.Thread }

// CurrentID returns the cursor message id, or "".
func (s *Session) CurrentID() string { return s.view.Current() }

// Missing lists message ids that could not be loaded.
func (s *Session) Missing() []string { return s.view.Missing }

// Entry resolves one message of the thread.
func (s *Session) Entry(id string) (Entry, bool) {
	m, ok := s.view.Graph[id]
	if !ok {
		return Entry{}, false
	}
	name, emoji := s.avatars.Resolve(m.Avatar)
	return Entry{
		ID:        id,
		Name:      name,
		Emoji:     emoji,
		Body:      m.Body,
		Timestamp: m.Timestamp,
		Label:     traverse.BranchLabel(s.view.Graph, id),
		Depth:     traverse.Depth(s.view.Graph, id),
		Current:   id == s.CurrentID(),
	}, true
}

func (s *Session) entries(ids []string) []Entry {
	out := make([]Entry, 0, len(ids))
	for _, id := range ids {
		if e, ok := s.Entry(id); ok {
			out = append(out, e)
		}
	}
	return out
}

// Status is the cursor's position: its lineage and what can follow.
type Status struct {
	Thread  *graph.Thread
	Lineage []Entry
	Next    []Entry
}

// Status resolves the lineage of the cursor and the messages that may follow
// it. Without a cursor the lineage is empty and the thread roots follow.
func (s *Session) Status() Status {
	st := Status{Thread: s.view.Thread}
	cur := s.CurrentID()
	if cur == "" {
		st.Next = s.entries(s.view.Thread.Messages)
		return st
	}
	st.Lineage = s.entries(traverse.Lineage(s.view.Graph, cur))
	st.Next = s.entries(traverse.NextMessages(s.view.Graph, s.view.Thread, cur))
	return st
}

// Timeline returns every message of the thread in authoring order.
func (s *Session) Timeline() []Entry {
	return s.walk(s.view.Thread.Messages)
}

// Tree returns the subtree holding the cursor, from its root down. Without
// a cursor the whole thread is returned.
func (s *Session) Tree() []Entry {
	cur := s.CurrentID()
	if cur == "" {
		return s.Timeline()
	}
	lineage := traverse.Lineage(s.view.Graph, cur)
	if len(lineage) == 0 {
		return s.Timeline()
	}
	return s.walk(lineage[:1])
}

func (s *Session) walk(roots []string) []Entry {
	visits := traverse.Walk(s.view.Graph, roots)
	out := make([]Entry, 0, len(visits))
	for _, v := range visits {
		if e, ok := s.Entry(v.ID); ok {
			e.Depth = v.Depth
			out = append(out, e)
		}
	}
	return out
}

// Current resolves the cursor message.
func (s *Session) Current() (Entry, error) {
	cur := s.CurrentID()
	if cur == "" {
		return Entry{}, ErrNoCursor
	}
	e, ok := s.Entry(cur)
	if !ok {
		return Entry{}, fmt.Errorf("%w: %s", traverse.ErrUnknownMessage, cur)
	}
	return e, nil
}

// Content returns the full content of an entry: the text itself, the
// contents of a linked markdown file, or an attachment's path.
func Content(e Entry) (string, error) {
	switch e.Body.Kind {
	case graph.BodyMarkdown:
		b, err := os.ReadFile(e.Body.Value)
		if err != nil {
			return "", fmt.Errorf("session: read linked markdown: %w", err)
		}
		return string(b), nil
	default:
		return e.Body.Value, nil
	}
}
