package graph

import (
	"encoding/json"
	"fmt"
	"slices"
	"time"
)

// Message is one authored unit of a thread.
type Message struct {
	ID        string
	Avatar    string
	Body      Body
	Parent    string // empty for thread roots
	Branches  [][]string
	Timestamp time.Time
}

// messageRecord is the on-disk shape of a message file.
type messageRecord struct {
	ID         string     `json:"id"`
	Avatar     string     `json:"avatar"`
	Text       *string    `json:"text"`
	Markdown   *string    `json:"markdown"`
	Attachment *string    `json:"attachment"`
	Parent     *string    `json:"parent"`
	Children   []string   `json:"children"`
	Branches   [][]string `json:"branches"`
	Timestamp  time.Time  `json:"timestamp"`
}

// Children returns the ids of every branch group in branch order.
func (m *Message) Children() []string {
	out := []string{}
	for _, group := range m.Branches {
		out = append(out, group...)
	}
	return out
}

// IsRoot reports whether the message has no parent.
func (m *Message) IsRoot() bool { return m.Parent == "" }

// GroupOf returns the index of the branch group listing childID.
func (m *Message) GroupOf(childID string) (int, bool) {
	for i, group := range m.Branches {
		if slices.Contains(group, childID) {
			return i, true
		}
	}
	return -1, false
}

// MarshalJSON writes the record with children derived from branches, so
// the stored children list can never drift from the grouping.
func (m Message) MarshalJSON() ([]byte, error) {
	text, markdown, attachment := m.Body.fields()
	rec := messageRecord{
		ID:         m.ID,
		Avatar:     m.Avatar,
		Text:       text,
		Markdown:   markdown,
		Attachment: attachment,
		Children:   m.Children(),
		Branches:   m.Branches,
		Timestamp:  m.Timestamp,
	}
	if rec.Branches == nil {
		rec.Branches = [][]string{}
	}
	if m.Parent != "" {
		p := m.Parent
		rec.Parent = &p
	}
	return json.Marshal(rec)
}

// UnmarshalJSON reads a message record. Children that no branch group
// lists are kept as one trailing group, so records written before branch
// grouping existed, or edited by hand, lose none of their replies.
func (m *Message) UnmarshalJSON(data []byte) error {
	var rec messageRecord
	if err := json.Unmarshal(data, &rec); err != nil {
		return err
	}
	if rec.ID == "" {
		return fmt.Errorf("graph: message record has no id")
	}
	body, err := bodyFromFields(rec.Text, rec.Markdown, rec.Attachment)
	if err != nil {
		return err
	}
	branches := mergeChildren(rec.Branches, rec.Children)
	*m = Message{
		ID:        rec.ID,
		Avatar:    rec.Avatar,
		Body:      body,
		Branches:  branches,
		Timestamp: rec.Timestamp,
	}
	if rec.Parent != nil {
		m.Parent = *rec.Parent
	}
	return nil
}

// mergeChildren appends the children missing from branches as a final group.
func mergeChildren(branches [][]string, children []string) [][]string {
	var extra []string
	for _, id := range children {
		if slices.Contains(extra, id) {
			continue
		}
		if slices.ContainsFunc(branches, func(g []string) bool { return slices.Contains(g, id) }) {
			continue
		}
		extra = append(extra, id)
	}
	if len(extra) == 0 {
		return branches
	}
	return append(slices.Clone(branches), extra)
}
