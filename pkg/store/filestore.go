// Package store persists the conversation graph as a directory of JSON
// records and applies every mutation a command can make to it: committing a
// parsed script, deleting a thread, and moving the cursor.
//
// Layout under the store root:
//
//	index.json           pointer state (threads, active thread, cursor)
//	avatars.json         avatar registry
//	threads/<id>.json    one thread record each
//	messages/<id>.json   one message record each
//
// Every record is written through a temporary file and a rename.
package store

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/entrhq/fur/pkg/graph"
	"github.com/entrhq/fur/pkg/jsonfile"
)

var (
	// ErrNotInitialized is returned by Open when the root holds no index.
	ErrNotInitialized = errors.New("store: not initialized; run `fur init`")
	// ErrThreadNotFound is returned when a thread id does not resolve.
	ErrThreadNotFound = errors.New("store: thread not found")
	// ErrNoActiveThread is returned when an operation needs an active thread.
	ErrNoActiveThread = errors.New("store: no active thread; create or switch to one first")
)

const (
	indexFile   = "index.json"
	avatarsFile = "avatars.json"
	threadsDir  = "threads"
	messagesDir = "messages"
)

// FileStore reads and writes the records of one store root.
type FileStore struct {
	root string
}

// Init creates the store layout at root if it does not exist yet. An
// existing index is left untouched.
func Init(root string, now time.Time) (*FileStore, error) {
	fs := &FileStore{root: root}
	for _, dir := range []string{root, fs.dir(threadsDir), fs.dir(messagesDir)} {
		if err := os.MkdirAll(dir, 0o750); err != nil {
			return nil, fmt.Errorf("store: init directory %s: %w", dir, err)
		}
	}
	if _, err := os.Stat(fs.IndexPath()); errors.Is(err, os.ErrNotExist) {
		if err := fs.WriteIndex(graph.NewIndex(now)); err != nil {
			return nil, err
		}
	}
	if _, err := os.Stat(fs.AvatarsPath()); errors.Is(err, os.ErrNotExist) {
		if err := writeJSON(fs.AvatarsPath(), map[string]string{}); err != nil {
			return nil, err
		}
	}
	return fs, nil
}

// Open returns the store at root, or ErrNotInitialized.
func Open(root string) (*FileStore, error) {
	fs := &FileStore{root: root}
	if _, err := os.Stat(fs.IndexPath()); err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil, fmt.Errorf("%w (%s)", ErrNotInitialized, root)
		}
		return nil, fmt.Errorf("store: stat index: %w", err)
	}
	return fs, nil
}

// Root returns the store directory.
func (fs *FileStore) Root() string { return fs.root }

// IndexPath returns the location of index.json.
func (fs *FileStore) IndexPath() string { return filepath.Join(fs.root, indexFile) }

// AvatarsPath returns the location of avatars.json.
func (fs *FileStore) AvatarsPath() string { return filepath.Join(fs.root, avatarsFile) }

func (fs *FileStore) dir(name string) string { return filepath.Join(fs.root, name) }

// pathFor resolves the record file of id inside kind, refusing ids that
// would escape the directory.
func (fs *FileStore) pathFor(kind, id string) (string, error) {
	if id == "" {
		return "", fmt.Errorf("store: invalid %s id (empty)", kind)
	}
	if strings.ContainsAny(id, `/\`) || id == "." || id == ".." {
		return "", fmt.Errorf("store: invalid %s id %q", kind, id)
	}
	dir, err := filepath.Abs(fs.dir(kind))
	if err != nil {
		return "", fmt.Errorf("store: abs dir: %w", err)
	}
	resolved := filepath.Join(dir, id+".json")
	if !strings.HasPrefix(resolved, dir+string(filepath.Separator)) {
		return "", fmt.Errorf("store: path traversal detected for id %q", id)
	}
	return resolved, nil
}

// ReadIndex loads index.json.
func (fs *FileStore) ReadIndex() (*graph.Index, error) {
	var ix graph.Index
	if err := readJSON(fs.IndexPath(), &ix); err != nil {
		return nil, err
	}
	if ix.Threads == nil {
		ix.Threads = []string{}
	}
	return &ix, nil
}

// WriteIndex rewrites index.json in full.
func (fs *FileStore) WriteIndex(ix *graph.Index) error {
	return writeJSON(fs.IndexPath(), ix)
}

// ReadThread loads one thread record. A missing record is ErrThreadNotFound.
func (fs *FileStore) ReadThread(id string) (*graph.Thread, error) {
	path, err := fs.pathFor(threadsDir, id)
	if err != nil {
		return nil, err
	}
	var t graph.Thread
	if err := readJSON(path, &t); err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil, fmt.Errorf("%w: %s", ErrThreadNotFound, id)
		}
		return nil, err
	}
	if t.Messages == nil {
		t.Messages = []string{}
	}
	if t.Tags == nil {
		t.Tags = []string{}
	}
	return &t, nil
}

// WriteThread writes one thread record.
func (fs *FileStore) WriteThread(t *graph.Thread) error {
	path, err := fs.pathFor(threadsDir, t.ID)
	if err != nil {
		return err
	}
	return writeJSON(path, t)
}

// DeleteThread removes a thread record. A missing record is not an error.
func (fs *FileStore) DeleteThread(id string) error {
	path, err := fs.pathFor(threadsDir, id)
	if err != nil {
		return err
	}
	return remove(path)
}

// ReadMessage loads one message record.
func (fs *FileStore) ReadMessage(id string) (*graph.Message, error) {
	path, err := fs.pathFor(messagesDir, id)
	if err != nil {
		return nil, err
	}
	var m graph.Message
	if err := readJSON(path, &m); err != nil {
		return nil, err
	}
	return &m, nil
}

// WriteMessage writes one message record.
func (fs *FileStore) WriteMessage(m *graph.Message) error {
	path, err := fs.pathFor(messagesDir, m.ID)
	if err != nil {
		return err
	}
	return writeJSON(path, m)
}

// DeleteMessage removes a message record. A missing record is not an error.
func (fs *FileStore) DeleteMessage(id string) error {
	path, err := fs.pathFor(messagesDir, id)
	if err != nil {
		return err
	}
	return remove(path)
}

func readJSON(path string, v any) error {
	if err := jsonfile.Read(path, v); err != nil {
		return fmt.Errorf("store: %w", err)
	}
	return nil
}

func writeJSON(path string, v any) error {
	if err := jsonfile.Write(path, v); err != nil {
		return fmt.Errorf("store: %w", err)
	}
	return nil
}

func remove(path string) error {
	if err := os.Remove(path); err != nil && !errors.Is(err, os.ErrNotExist) {
		return fmt.Errorf("store: remove %s: %w", path, err)
	}
	return nil
}
