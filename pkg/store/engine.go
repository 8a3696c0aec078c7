package store

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/entrhq/fur/pkg/avatars"
	"github.com/entrhq/fur/pkg/graph"
	"github.com/entrhq/fur/pkg/logging"
	"github.com/entrhq/fur/pkg/script"
	"github.com/entrhq/fur/pkg/traverse"
)

// Confirmer answers the yes/no question asked before a thread is replaced.
type Confirmer interface {
	Confirm(question string, defaultYes bool) (bool, error)
}

// ConfirmFunc adapts a function to Confirmer.
type ConfirmFunc func(question string, defaultYes bool) (bool, error)

// Confirm calls f.
func (f ConfirmFunc) Confirm(question string, defaultYes bool) (bool, error) {
	return f(question, defaultYes)
}

// Engine applies mutations to a FileStore.
type Engine struct {
	fs      *FileStore
	confirm Confirmer
	now     func() time.Time
	newID   func() string
	log     *logging.Logger
}

// Option configures an Engine.
type Option func(*Engine)

// WithConfirmer sets who is asked before a thread with the same title is
// replaced. Without one, replacement proceeds (the prompt's default).
func WithConfirmer(c Confirmer) Option {
	return func(e *Engine) { e.confirm = c }
}

// WithClock overrides the timestamp source.
func WithClock(now func() time.Time) Option {
	return func(e *Engine) { e.now = now }
}

// WithIDs overrides the id generator.
func WithIDs(newID func() string) Option {
	return func(e *Engine) { e.newID = newID }
}

// WithLogger sets the logger used for recoverable problems.
func WithLogger(l *logging.Logger) Option {
	return func(e *Engine) { e.log = l }
}

// NewEngine returns an Engine over fs.
func NewEngine(fs *FileStore, opts ...Option) *Engine {
	e := &Engine{
		fs:    fs,
		now:   time.Now,
		newID: uuid.NewString,
		log:   logging.Nop(),
	}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// Store returns the underlying FileStore.
func (e *Engine) Store() *FileStore { return e.fs }

// CommitResult describes what Commit did.
type CommitResult struct {
	ThreadID string
	// Replaced is the id of the thread deleted because it had the same title.
	Replaced string
	// Declined is set when the user refused to replace an existing thread;
	// ThreadID is then the existing thread and nothing was written.
	Declined   bool
	Messages   int
	NewAvatars []avatars.Assignment
}

// Commit writes a parsed script as a new thread. A thread with the same
// title is replaced after confirmation. Message records are written
// children first, then the thread record, the avatar registry, and the
// index last. An I/O error aborts the commit without rollback.
func (e *Engine) Commit(ctx context.Context, s *script.Script) (*CommitResult, error) {
	ix, err := e.fs.ReadIndex()
	if err != nil {
		return nil, err
	}

	res := &CommitResult{}
	existing, err := e.findByTitle(ix, s.Title)
	if err != nil {
		return nil, err
	}
	if existing != "" {
		ok, err := e.confirmOverwrite(s.Title)
		if err != nil {
			return nil, err
		}
		if !ok {
			e.log.Infof("commit of %q declined; keeping thread %s", s.Title, existing)
			return &CommitResult{ThreadID: existing, Declined: true}, nil
		}
		if err := e.deleteThread(ctx, ix, existing); err != nil {
			return nil, err
		}
		res.Replaced = existing
	}

	now := e.now()
	var top []string
	for _, m := range s.Messages() {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		id, n, err := e.persist(m, "", now)
		if err != nil {
			return nil, err
		}
		top = append(top, id)
		res.Messages += n
	}

	t := graph.NewThread(e.newID(), s.Title, s.Tags, now)
	if top != nil {
		t.Messages = top
	}
	if err := e.fs.WriteThread(t); err != nil {
		return nil, err
	}
	res.ThreadID = t.ID

	reg, err := avatars.Load(e.fs.AvatarsPath())
	if err != nil {
		return nil, err
	}
	if res.NewAvatars = reg.Register(s.Avatars()); len(res.NewAvatars) > 0 {
		if err := reg.Save(); err != nil {
			return nil, err
		}
	}

	ix.AddThread(t.ID)
	ix.SetActive(t.ID)
	if err := e.fs.WriteIndex(ix); err != nil {
		return nil, err
	}
	e.log.Infof("committed thread %s %q with %d messages", t.ID, t.Title, res.Messages)
	return res, nil
}

// persist writes m and everything under it, branch groups first, and
// returns m's new id and the number of records written.
func (e *Engine) persist(m *script.Message, parent string, now time.Time) (string, int, error) {
	id := e.newID()
	written := 0
	branches := [][]string{}
	for _, group := range m.Branches {
		ids := make([]string, 0, len(group))
		for _, child := range group {
			cid, n, err := e.persist(child, id, now)
			if err != nil {
				return "", 0, err
			}
			ids = append(ids, cid)
			written += n
		}
		branches = append(branches, ids)
	}

	rec := &graph.Message{
		ID:        id,
		Avatar:    m.Avatar,
		Body:      m.Body,
		Parent:    parent,
		Branches:  branches,
		Timestamp: now,
	}
	if err := e.fs.WriteMessage(rec); err != nil {
		return "", 0, err
	}
	return id, written + 1, nil
}

// findByTitle returns the id of the thread titled title, or "". Thread
// records that cannot be read are skipped.
func (e *Engine) findByTitle(ix *graph.Index, title string) (string, error) {
	for _, id := range ix.Threads {
		t, err := e.fs.ReadThread(id)
		if err != nil {
			e.log.Warnf("skipping unreadable thread %s: %v", id, err)
			continue
		}
		if t.Title == title {
			return id, nil
		}
	}
	return "", nil
}

func (e *Engine) confirmOverwrite(title string) (bool, error) {
	if e.confirm == nil {
		return true, nil
	}
	ok, err := e.confirm.Confirm(fmt.Sprintf("A thread titled %q already exists. Overwrite it?", title), true)
	if err != nil {
		return false, fmt.Errorf("store: confirm overwrite: %w", err)
	}
	return ok, nil
}

// DeleteThread removes a thread given its id or a unique id prefix, every
// message reachable from it, and its index entry. It returns the full id.
func (e *Engine) DeleteThread(ctx context.Context, prefix string) (string, error) {
	ix, err := e.fs.ReadIndex()
	if err != nil {
		return "", err
	}
	id, err := matchThread(ix.Threads, prefix)
	if err != nil {
		return "", err
	}
	if err := e.deleteThread(ctx, ix, id); err != nil {
		return "", err
	}
	return id, e.fs.WriteIndex(ix)
}

// deleteThread removes the records of thread id and drops it from ix,
// which the caller writes. Each message id is deleted once no matter how
// many edges reference it.
func (e *Engine) deleteThread(ctx context.Context, ix *graph.Index, id string) error {
	t, err := e.fs.ReadThread(id)
	if err != nil {
		return err
	}
	sub, err := traverse.Load(ctx, e.fs, t.Messages)
	if err != nil {
		return err
	}
	for mid := range sub.Messages {
		if err := e.fs.DeleteMessage(mid); err != nil {
			return err
		}
	}
	for _, mid := range sub.Missing {
		if err := e.fs.DeleteMessage(mid); err != nil {
			return err
		}
	}
	if err := e.fs.DeleteThread(id); err != nil {
		return err
	}
	ix.RemoveThread(id)
	e.log.Infof("deleted thread %s (%d messages)", id, len(sub.Messages))
	return nil
}
