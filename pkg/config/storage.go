package config

import (
	"fmt"
	"sync"
)

const (
	// SectionIDStore is the identifier for the store settings section
	SectionIDStore = "store"

	// DefaultRoot is the store directory used when none is configured,
	// relative to the working directory.
	DefaultRoot = ".fur"
)

// OverwritePolicy decides what happens when a committed script's title
// matches an existing thread.
type OverwritePolicy string

const (
	OverwriteAsk    OverwritePolicy = "ask"
	OverwriteAlways OverwritePolicy = "always"
	OverwriteNever  OverwritePolicy = "never"
)

// ParseOverwritePolicy validates a policy name.
func ParseOverwritePolicy(s string) (OverwritePolicy, error) {
	switch p := OverwritePolicy(s); p {
	case OverwriteAsk, OverwriteAlways, OverwriteNever:
		return p, nil
	default:
		return "", fmt.Errorf("invalid overwrite policy %q (want ask, always or never)", s)
	}
}

// StoreSection locates the store and sets the duplicate-title policy.
type StoreSection struct {
	Root      string          `json:"root"`
	Overwrite OverwritePolicy `json:"overwrite"`
	mu        sync.RWMutex
}

// NewStoreSection creates a store section with default settings.
func NewStoreSection() *StoreSection {
	return &StoreSection{Root: DefaultRoot, Overwrite: OverwriteAsk}
}

// ID returns the section identifier.
func (s *StoreSection) ID() string {
	return SectionIDStore
}

// Title returns the section title.
func (s *StoreSection) Title() string {
	return "Store Settings"
}

// Description returns the section description.
func (s *StoreSection) Description() string {
	return "Configure where threads are stored and whether importing a script replaces a thread with the same title."
}

// Data returns the current configuration data.
func (s *StoreSection) Data() map[string]any {
	s.mu.RLock()
	defer s.mu.RUnlock()

	return map[string]any{
		"root":      s.Root,
		"overwrite": string(s.Overwrite),
	}
}

// SetData updates the configuration from the provided data.
func (s *StoreSection) SetData(data map[string]any) error {
	if data == nil {
		return nil
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	for key, value := range data {
		switch key {
		case "root":
			v, ok := value.(string)
			if !ok {
				return fmt.Errorf("invalid value type for root: expected string, got %T", value)
			}
			s.Root = v

		case "overwrite":
			v, ok := value.(string)
			if !ok {
				return fmt.Errorf("invalid value type for overwrite: expected string, got %T", value)
			}
			p, err := ParseOverwritePolicy(v)
			if err != nil {
				return err
			}
			s.Overwrite = p
		}
	}

	return nil
}

// Validate validates the current configuration.
func (s *StoreSection) Validate() error {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if s.Root == "" {
		return fmt.Errorf("root must not be empty")
	}
	_, err := ParseOverwritePolicy(string(s.Overwrite))
	return err
}

// Reset resets the section to default configuration.
func (s *StoreSection) Reset() {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.Root = DefaultRoot
	s.Overwrite = OverwriteAsk
}

// Settings returns the configured root and policy.
func (s *StoreSection) Settings() (string, OverwritePolicy) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.Root, s.Overwrite
}
