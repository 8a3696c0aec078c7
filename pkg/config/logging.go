package config

import (
	"fmt"
	"strings"
	"sync"
)

// SectionIDLogging is the identifier for the logging settings section
const SectionIDLogging = "logging"

var logLevels = []string{"debug", "info", "warn", "error"}

// LoggingSection holds the log level.
type LoggingSection struct {
	Level string `json:"level"`
	mu    sync.RWMutex
}

// NewLoggingSection creates a logging section logging at info.
func NewLoggingSection() *LoggingSection {
	return &LoggingSection{Level: "info"}
}

// ID returns the section identifier.
func (s *LoggingSection) ID() string {
	return SectionIDLogging
}

// Title returns the section title.
func (s *LoggingSection) Title() string {
	return "Logging"
}

// Description returns the section description.
func (s *LoggingSection) Description() string {
	return "Minimum level written to the session log file (debug, info, warn, error)."
}

// Data returns the current configuration data.
func (s *LoggingSection) Data() map[string]any {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return map[string]any{"level": s.Level}
}

// SetData updates the configuration from the provided data.
func (s *LoggingSection) SetData(data map[string]any) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if value, ok := data["level"]; ok {
		v, ok := value.(string)
		if !ok {
			return fmt.Errorf("invalid value type for level: expected string, got %T", value)
		}
		s.Level = strings.ToLower(v)
	}
	return nil
}

// Validate validates the current configuration.
func (s *LoggingSection) Validate() error {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return validateLevel(s.Level)
}

func validateLevel(level string) error {
	for _, l := range logLevels {
		if level == l {
			return nil
		}
	}
	return fmt.Errorf("invalid log level %q (want one of %s)", level, strings.Join(logLevels, ", "))
}

// Reset resets the section to default configuration.
func (s *LoggingSection) Reset() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.Level = "info"
}

// GetLevel returns the configured level.
func (s *LoggingSection) GetLevel() string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.Level
}
