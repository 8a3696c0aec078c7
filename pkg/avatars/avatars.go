// Package avatars maps speaker names to display glyphs.
//
// The registry is a flat name→emoji map persisted as avatars.json. The
// reserved key "main" does not name a speaker: its value is the name of the
// default avatar.
package avatars

import (
	"errors"
	"fmt"
	"math/rand"
	"os"
	"sort"

	"github.com/entrhq/fur/pkg/jsonfile"
)

// MainKey is the reserved indirection key naming the default avatar.
const MainKey = "main"

// Registry is the in-memory view of avatars.json.
type Registry struct {
	path   string
	emojis map[string]string
	main   string
	pick   func(n int) int
}

// Assignment records an emoji given to a newly registered avatar.
type Assignment struct {
	Name  string
	Emoji string
}

// New returns an empty registry that saves to path.
func New(path string) *Registry {
	return &Registry{
		path:   path,
		emojis: make(map[string]string),
		pick:   rand.Intn,
	}
}

// Load reads the registry at path. A missing file yields an empty registry.
func Load(path string) (*Registry, error) {
	r := New(path)
	var raw map[string]string
	err := jsonfile.Read(path, &raw)
	if errors.Is(err, os.ErrNotExist) {
		return r, nil
	}
	if err != nil {
		return nil, fmt.Errorf("avatars: %w", err)
	}
	for k, v := range raw {
		if k == MainKey {
			r.main = v
			continue
		}
		r.emojis[k] = v
	}
	return r, nil
}

// Save writes the registry atomically via a temporary file.
func (r *Registry) Save() error {
	raw := make(map[string]string, len(r.emojis)+1)
	for k, v := range r.emojis {
		raw[k] = v
	}
	if r.main != "" {
		raw[MainKey] = r.main
	}

	if err := jsonfile.Write(r.path, raw); err != nil {
		return fmt.Errorf("avatars: %w", err)
	}
	return nil
}

// Path returns the file the registry saves to.
func (r *Registry) Path() string { return r.path }

// Main returns the default avatar name.
func (r *Registry) Main() (string, bool) {
	return r.main, r.main != ""
}

// SetMain makes name the default avatar and forces it to the main glyph.
func (r *Registry) SetMain(name string) {
	r.main = name
	r.emojis[name] = MainEmoji
}

// Emoji returns the glyph registered for name.
func (r *Registry) Emoji(name string) (string, bool) {
	e, ok := r.emojis[name]
	return e, ok
}

// Set registers or replaces the glyph for name. The main avatar keeps its
// fixed glyph.
func (r *Registry) Set(name, emoji string) error {
	if name == "" || name == MainKey {
		return fmt.Errorf("avatars: invalid avatar name %q", name)
	}
	if name == r.main {
		emoji = MainEmoji
	}
	r.emojis[name] = emoji
	return nil
}

// Names returns every registered avatar name, sorted.
func (r *Registry) Names() []string {
	names := make([]string, 0, len(r.emojis))
	for n := range r.emojis {
		names = append(names, n)
	}
	sort.Strings(names)
	return names
}

// Resolve maps a stored avatar key to a display (name, emoji) pair. The
// key may be a registered name or, for older records, an emoji.
func (r *Registry) Resolve(key string) (name, emoji string) {
	if e, ok := r.emojis[key]; ok {
		return key, e
	}
	for _, n := range r.Names() {
		if r.emojis[n] == key {
			return n, key
		}
	}
	return key, FallbackEmoji
}

// Register assigns glyphs to every name not yet known, in the given order,
// and returns the assignments made. The registry is not saved.
func (r *Registry) Register(names []string) []Assignment {
	var out []Assignment
	for _, name := range names {
		if name == "" || name == MainKey {
			continue
		}
		if _, ok := r.emojis[name]; ok {
			continue
		}
		emoji := r.emojiFor(name)
		r.emojis[name] = emoji
		out = append(out, Assignment{Name: name, Emoji: emoji})
	}
	return out
}

func (r *Registry) emojiFor(name string) string {
	if name == r.main {
		return MainEmoji
	}
	return EmojiFor(name, r.pick)
}
