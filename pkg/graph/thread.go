package graph

import "time"

// Thread is a named conversation owning the ids of its root messages.
type Thread struct {
	ID         string    `json:"id"`
	Title      string    `json:"title"`
	Tags       []string  `json:"tags"`
	CreatedAt  time.Time `json:"created_at"`
	Messages   []string  `json:"messages"`
	ForkedFrom string    `json:"forked_from,omitempty"`
}

// NewThread returns an empty thread with non-nil slices.
func NewThread(id, title string, tags []string, createdAt time.Time) *Thread {
	if tags == nil {
		tags = []string{}
	}
	return &Thread{
		ID:        id,
		Title:     title,
		Tags:      tags,
		CreatedAt: createdAt,
		Messages:  []string{},
	}
}
