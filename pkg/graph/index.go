package graph

import (
	"slices"
	"time"
)

// Index is the process-wide pointer state of a store.
type Index struct {
	Threads        []string  `json:"threads"`
	ActiveThread   *string   `json:"active_thread"`
	CurrentMessage *string   `json:"current_message"`
	SchemaVersion  string    `json:"schema_version"`
	CreatedAt      time.Time `json:"created_at"`
}

// NewIndex returns the index written when a store is first initialized.
func NewIndex(now time.Time) *Index {
	return &Index{
		Threads:       []string{},
		SchemaVersion: SchemaVersion,
		CreatedAt:     now,
	}
}

// Active returns the active thread id, or "" when none is set.
func (ix *Index) Active() string {
	if ix.ActiveThread == nil {
		return ""
	}
	return *ix.ActiveThread
}

// Current returns the cursor message id, or "" when unpositioned.
func (ix *Index) Current() string {
	if ix.CurrentMessage == nil {
		return ""
	}
	return *ix.CurrentMessage
}

// SetActive makes id the active thread and clears the cursor.
func (ix *Index) SetActive(id string) {
	ix.ActiveThread = &id
	ix.CurrentMessage = nil
}

// SetCurrent moves the cursor; an empty id clears it.
func (ix *Index) SetCurrent(id string) {
	if id == "" {
		ix.CurrentMessage = nil
		return
	}
	ix.CurrentMessage = &id
}

// AddThread appends id to the thread list if not already present.
func (ix *Index) AddThread(id string) {
	if !slices.Contains(ix.Threads, id) {
		ix.Threads = append(ix.Threads, id)
	}
}

// RemoveThread drops id from the thread list and clears the active pointer
// if it referenced id.
func (ix *Index) RemoveThread(id string) {
	ix.Threads = slices.DeleteFunc(ix.Threads, func(t string) bool { return t == id })
	if ix.Active() == id {
		ix.ActiveThread = nil
		ix.CurrentMessage = nil
	}
}
