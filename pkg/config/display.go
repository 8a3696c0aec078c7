package config

import (
	"fmt"
	"strings"
	"sync"
)

const (
	// SectionIDDisplay is the identifier for the display settings section
	SectionIDDisplay = "display"

	// Default values for display settings
	defaultPreviewWidth = 60
	defaultTimeFormat   = "2006-01-02 15:04"
	defaultColor        = true
	defaultRelative     = false
)

// DisplaySection manages how read-side views are formatted.
type DisplaySection struct {
	PreviewWidth int    `json:"preview_width"`
	TimeFormat   string `json:"time_format"`
	Color        bool   `json:"color"`
	Relative     bool   `json:"relative"`
	mu           sync.RWMutex
}

// NewDisplaySection creates a display section with default settings.
func NewDisplaySection() *DisplaySection {
	return &DisplaySection{
		PreviewWidth: defaultPreviewWidth,
		TimeFormat:   defaultTimeFormat,
		Color:        defaultColor,
		Relative:     defaultRelative,
	}
}

// ID returns the section identifier.
func (s *DisplaySection) ID() string {
	return SectionIDDisplay
}

// Title returns the section title.
func (s *DisplaySection) Title() string {
	return "Display Settings"
}

// Description returns the section description.
func (s *DisplaySection) Description() string {
	return "Configure previews, timestamps and colors of status, tree and timeline output."
}

// Data returns the current configuration data.
func (s *DisplaySection) Data() map[string]any {
	s.mu.RLock()
	defer s.mu.RUnlock()

	return map[string]any{
		"preview_width": s.PreviewWidth,
		"time_format":   s.TimeFormat,
		"color":         s.Color,
		"relative":      s.Relative,
	}
}

// SetData updates the configuration from the provided data.
func (s *DisplaySection) SetData(data map[string]any) error {
	if data == nil {
		return nil
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	for key, value := range data {
		switch key {
		case "preview_width":
			n, err := toInt(value)
			if err != nil {
				return fmt.Errorf("invalid value for preview_width: %w", err)
			}
			s.PreviewWidth = n

		case "time_format":
			v, ok := value.(string)
			if !ok {
				return fmt.Errorf("invalid value type for time_format: expected string, got %T", value)
			}
			s.TimeFormat = v

		case "color":
			v, ok := value.(bool)
			if !ok {
				return fmt.Errorf("invalid value type for color: expected bool, got %T", value)
			}
			s.Color = v

		case "relative":
			v, ok := value.(bool)
			if !ok {
				return fmt.Errorf("invalid value type for relative: expected bool, got %T", value)
			}
			s.Relative = v

		default:
			// Ignore unknown keys for forward compatibility
			continue
		}
	}

	return nil
}

// Validate validates the current configuration.
func (s *DisplaySection) Validate() error {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if s.PreviewWidth < 10 || s.PreviewWidth > 500 {
		return fmt.Errorf("preview_width must be between 10 and 500, got %d", s.PreviewWidth)
	}
	if strings.TrimSpace(s.TimeFormat) == "" {
		return fmt.Errorf("time_format must not be empty")
	}
	return nil
}

// Reset resets the section to default configuration.
func (s *DisplaySection) Reset() {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.PreviewWidth = defaultPreviewWidth
	s.TimeFormat = defaultTimeFormat
	s.Color = defaultColor
	s.Relative = defaultRelative
}

// Settings returns a consistent snapshot of the display settings.
func (s *DisplaySection) Settings() (previewWidth int, timeFormat string, color, relative bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.PreviewWidth, s.TimeFormat, s.Color, s.Relative
}

// toInt accepts the integer shapes YAML and JSON decoders produce.
func toInt(value any) (int, error) {
	switch v := value.(type) {
	case int:
		return v, nil
	case int64:
		return int(v), nil
	case uint64:
		return int(v), nil
	case float64:
		if v != float64(int(v)) {
			return 0, fmt.Errorf("expected whole number, got %v", v)
		}
		return int(v), nil
	default:
		return 0, fmt.Errorf("expected number, got %T", value)
	}
}
