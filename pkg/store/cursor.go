package store

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/entrhq/fur/pkg/avatars"
	"github.com/entrhq/fur/pkg/graph"
	"github.com/entrhq/fur/pkg/traverse"
)

var (
	// ErrEndOfBranch is returned by JumpChild when nothing follows the cursor.
	ErrEndOfBranch = errors.New("store: end of branch")
	// ErrAmbiguousThread is returned when a thread id prefix matches several threads.
	ErrAmbiguousThread = errors.New("store: ambiguous thread id prefix")
)

// View is the active thread with its loaded messages.
type View struct {
	Index   *graph.Index
	Thread  *graph.Thread
	Graph   traverse.Graph
	Missing []string
}

// Current returns the cursor message id, or "".
func (v *View) Current() string { return v.Index.Current() }

// Active loads the index, the active thread and all of its messages.
// Message records that cannot be read are logged and left out.
func (e *Engine) Active(ctx context.Context) (*View, error) {
	ix, err := e.fs.ReadIndex()
	if err != nil {
		return nil, err
	}
	id := ix.Active()
	if id == "" {
		return nil, ErrNoActiveThread
	}
	t, err := e.fs.ReadThread(id)
	if err != nil {
		return nil, err
	}
	sub, err := traverse.Load(ctx, e.fs, t.Messages)
	if err != nil {
		return nil, err
	}
	for _, mid := range sub.Missing {
		e.log.Warnf("thread %s: skipping unreadable message %s", t.ID, mid)
	}
	return &View{Index: ix, Thread: t, Graph: sub.Messages, Missing: sub.Missing}, nil
}

// Threads returns every readable thread in index order.
func (e *Engine) Threads(_ context.Context) ([]*graph.Thread, *graph.Index, error) {
	ix, err := e.fs.ReadIndex()
	if err != nil {
		return nil, nil, err
	}
	var out []*graph.Thread
	for _, id := range ix.Threads {
		t, err := e.fs.ReadThread(id)
		if err != nil {
			e.log.Warnf("skipping unreadable thread %s: %v", id, err)
			continue
		}
		out = append(out, t)
	}
	return out, ix, nil
}

// NewThread creates an empty thread and makes it active with no cursor.
func (e *Engine) NewThread(_ context.Context, title string, tags []string) (*graph.Thread, error) {
	if strings.TrimSpace(title) == "" {
		return nil, fmt.Errorf("store: thread title is empty")
	}
	ix, err := e.fs.ReadIndex()
	if err != nil {
		return nil, err
	}
	t := graph.NewThread(e.newID(), title, tags, e.now())
	if err := e.fs.WriteThread(t); err != nil {
		return nil, err
	}
	ix.AddThread(t.ID)
	ix.SetActive(t.ID)
	if err := e.fs.WriteIndex(ix); err != nil {
		return nil, err
	}
	e.log.Infof("created thread %s %q", t.ID, title)
	return t, nil
}

// Jot appends a message under the cursor and moves the cursor to it. With
// no cursor the message becomes a new root of the active thread; otherwise
// it opens a new branch group on the cursor message. An empty avatar falls
// back to the registry's main avatar.
func (e *Engine) Jot(ctx context.Context, avatar string, body graph.Body) (*graph.Message, error) {
	v, err := e.Active(ctx)
	if err != nil {
		return nil, err
	}
	reg, err := avatars.Load(e.fs.AvatarsPath())
	if err != nil {
		return nil, err
	}
	speaker, err := avatars.ResolveSpeaker(avatar, "", reg)
	if err != nil {
		return nil, err
	}

	m := &graph.Message{
		ID:        e.newID(),
		Avatar:    speaker.Name,
		Body:      body,
		Branches:  [][]string{},
		Timestamp: e.now(),
	}

	cur := v.Current()
	if cur == "" {
		if err := e.fs.WriteMessage(m); err != nil {
			return nil, err
		}
		v.Thread.Messages = append(v.Thread.Messages, m.ID)
		if err := e.fs.WriteThread(v.Thread); err != nil {
			return nil, err
		}
	} else {
		parent, err := e.fs.ReadMessage(cur)
		if err != nil {
			return nil, err
		}
		m.Parent = parent.ID
		if err := e.fs.WriteMessage(m); err != nil {
			return nil, err
		}
		parent.Branches = append(parent.Branches, []string{m.ID})
		if err := e.fs.WriteMessage(parent); err != nil {
			return nil, err
		}
	}

	if len(reg.Register([]string{speaker.Name})) > 0 {
		if err := reg.Save(); err != nil {
			return nil, err
		}
	}
	v.Index.SetCurrent(m.ID)
	if err := e.fs.WriteIndex(v.Index); err != nil {
		return nil, err
	}
	return m, nil
}

// JumpPast moves the cursor n ancestors up. At the origin the cursor stays
// put and traverse.ErrAtOrigin is returned.
func (e *Engine) JumpPast(ctx context.Context, n int) (string, error) {
	if n < 1 {
		return "", fmt.Errorf("store: step count must be positive, got %d", n)
	}
	v, err := e.Active(ctx)
	if err != nil {
		return "", err
	}
	cur := v.Current()
	if cur == "" {
		return "", traverse.ErrAtOrigin
	}
	target, err := traverse.StepBack(v.Graph, cur, n)
	if err != nil {
		return cur, err
	}
	return target, e.moveCursor(v.Index, target)
}

// JumpChild moves the cursor to the n-th (1-based) message that follows
// it. With no cursor the candidates are the thread roots.
func (e *Engine) JumpChild(ctx context.Context, n int) (string, error) {
	v, err := e.Active(ctx)
	if err != nil {
		return "", err
	}
	var next []string
	if cur := v.Current(); cur == "" {
		next = v.Thread.Messages
	} else {
		next = traverse.NextMessages(v.Graph, v.Thread, cur)
	}
	if len(next) == 0 {
		return "", ErrEndOfBranch
	}
	if n < 1 || n > len(next) {
		return "", fmt.Errorf("store: choice %d out of range 1..%d", n, len(next))
	}
	return next[n-1], e.moveCursor(v.Index, next[n-1])
}

// JumpTo moves the cursor to a message of the active thread given its id
// or a unique id prefix.
func (e *Engine) JumpTo(ctx context.Context, prefix string) (string, error) {
	v, err := e.Active(ctx)
	if err != nil {
		return "", err
	}
	id, err := traverse.Find(v.Graph, prefix)
	if err != nil {
		return "", fmt.Errorf("%w: %s", err, prefix)
	}
	return id, e.moveCursor(v.Index, id)
}

func (e *Engine) moveCursor(ix *graph.Index, id string) error {
	ix.SetCurrent(id)
	return e.fs.WriteIndex(ix)
}

// SwitchThread makes the thread with the given id or unique id prefix
// active and clears the cursor.
func (e *Engine) SwitchThread(_ context.Context, prefix string) (*graph.Thread, error) {
	ix, err := e.fs.ReadIndex()
	if err != nil {
		return nil, err
	}
	id, err := matchThread(ix.Threads, prefix)
	if err != nil {
		return nil, err
	}
	t, err := e.fs.ReadThread(id)
	if err != nil {
		return nil, err
	}
	ix.SetActive(id)
	if err := e.fs.WriteIndex(ix); err != nil {
		return nil, err
	}
	return t, nil
}

func matchThread(ids []string, prefix string) (string, error) {
	var match string
	for _, id := range ids {
		if id == prefix {
			return id, nil
		}
		if prefix != "" && strings.HasPrefix(id, prefix) {
			if match != "" {
				return "", fmt.Errorf("%w: %s", ErrAmbiguousThread, prefix)
			}
			match = id
		}
	}
	if match == "" {
		return "", fmt.Errorf("%w: %s", ErrThreadNotFound, prefix)
	}
	return match, nil
}

// Fork deep-copies a thread, the active one when id is empty, into a new
// thread with fresh message ids and the same structure. The fork becomes
// active with no cursor.
func (e *Engine) Fork(ctx context.Context, id string) (*graph.Thread, error) {
	ix, err := e.fs.ReadIndex()
	if err != nil {
		return nil, err
	}
	if id == "" {
		if id = ix.Active(); id == "" {
			return nil, ErrNoActiveThread
		}
	} else if id, err = matchThread(ix.Threads, id); err != nil {
		return nil, err
	}
	src, err := e.fs.ReadThread(id)
	if err != nil {
		return nil, err
	}
	sub, err := traverse.Load(ctx, e.fs, src.Messages)
	if err != nil {
		return nil, err
	}

	copied := make(map[string]string, len(sub.Messages))
	var clone func(oldID, parent string) (string, error)
	clone = func(oldID, parent string) (string, error) {
		if nid, ok := copied[oldID]; ok {
			return nid, nil
		}
		old := sub.Messages[oldID]
		nid := e.newID()
		copied[oldID] = nid
		branches := [][]string{}
		for _, group := range old.Branches {
			var ids []string
			for _, child := range group {
				if _, ok := sub.Messages[child]; !ok {
					continue
				}
				cid, err := clone(child, nid)
				if err != nil {
					return "", err
				}
				ids = append(ids, cid)
			}
			if len(ids) > 0 {
				branches = append(branches, ids)
			}
		}
		m := &graph.Message{
			ID:        nid,
			Avatar:    old.Avatar,
			Body:      old.Body,
			Parent:    parent,
			Branches:  branches,
			Timestamp: old.Timestamp,
		}
		return nid, e.fs.WriteMessage(m)
	}

	fork := graph.NewThread(e.newID(), "Fork of "+src.Title, append([]string(nil), src.Tags...), e.now())
	fork.ForkedFrom = src.ID
	for _, rid := range src.Messages {
		if _, ok := sub.Messages[rid]; !ok {
			continue
		}
		nid, err := clone(rid, "")
		if err != nil {
			return nil, err
		}
		fork.Messages = append(fork.Messages, nid)
	}
	if err := e.fs.WriteThread(fork); err != nil {
		return nil, err
	}
	ix.AddThread(fork.ID)
	ix.SetActive(fork.ID)
	if err := e.fs.WriteIndex(ix); err != nil {
		return nil, err
	}
	e.log.Infof("forked thread %s into %s", src.ID, fork.ID)
	return fork, nil
}
