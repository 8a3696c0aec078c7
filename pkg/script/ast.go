// Package script parses and writes .frs scripts, the flat-text format for
// authoring a whole branching conversation at once.
//
// A script starts with a `new "<title>"` header, may set `tags` and a default
// `user`, and then lists `jot` lines. A `branch { ... }` block attaches a new
// group of continuations to the message right before it. Playback commands
// (timeline, tree, status, store) may be interleaved with the content.
package script

import (
	"fmt"

	"github.com/entrhq/fur/pkg/avatars"
	"github.com/entrhq/fur/pkg/graph"
)

// Script is the parsed form of a .frs file.
type Script struct {
	Title          string
	Tags           []string
	DefaultSpeaker string
	Items          []Item
	Warnings       []Warning
}

// Item is a top-level script entry: a *Message or a *Command.
type Item interface {
	Line() int
}

// Message is one jot, with any branch groups opened right after it.
type Message struct {
	Avatar string
	// AvatarSource tells whether the jot named its speaker or inherited
	// the script default.
	AvatarSource avatars.SpeakerSource
	Body         graph.Body
	Branches     [][]*Message
	LineNo       int
}

// Command is an embedded playback instruction.
type Command struct {
	Name   string
	Args   []string
	LineNo int
}

// Warning is a recoverable problem found while parsing.
type Warning struct {
	LineNo int
	Msg    string
}

func (m *Message) Line() int { return m.LineNo }
func (c *Command) Line() int { return c.LineNo }

func (w Warning) String() string {
	return fmt.Sprintf("line %d: %s", w.LineNo, w.Msg)
}

// Children returns every branch group's messages in branch order.
func (m *Message) Children() []*Message {
	var out []*Message
	for _, group := range m.Branches {
		out = append(out, group...)
	}
	return out
}

// Messages returns the top-level messages in script order.
func (s *Script) Messages() []*Message {
	var out []*Message
	for _, it := range s.Items {
		if m, ok := it.(*Message); ok {
			out = append(out, m)
		}
	}
	return out
}

// Commands returns the embedded commands in script order.
func (s *Script) Commands() []*Command {
	var out []*Command
	for _, it := range s.Items {
		if c, ok := it.(*Command); ok {
			out = append(out, c)
		}
	}
	return out
}

// Avatars returns every avatar name used, in first-appearance order.
func (s *Script) Avatars() []string {
	seen := make(map[string]bool)
	var out []string
	var walk func(msgs []*Message)
	walk = func(msgs []*Message) {
		for _, m := range msgs {
			if !seen[m.Avatar] {
				seen[m.Avatar] = true
				out = append(out, m.Avatar)
			}
			for _, group := range m.Branches {
				walk(group)
			}
		}
	}
	walk(s.Messages())
	return out
}

// Count returns the number of messages at every depth.
func (s *Script) Count() int {
	var count func(msgs []*Message) int
	count = func(msgs []*Message) int {
		n := len(msgs)
		for _, m := range msgs {
			n += count(m.Children())
		}
		return n
	}
	return count(s.Messages())
}
