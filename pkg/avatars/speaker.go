package avatars

import "errors"

// ErrNoDefaultSpeaker is returned when no step of the resolution chain
// yields a default avatar.
var ErrNoDefaultSpeaker = errors.New("avatars: no default speaker; add `user = <name>` or set a main avatar")

// SpeakerSource records which step of the chain produced a speaker.
type SpeakerSource int

const (
	SourceExplicit SpeakerSource = iota
	SourceDirective
	SourceRegistryMain
)

func (s SpeakerSource) String() string {
	switch s {
	case SourceExplicit:
		return "explicit"
	case SourceDirective:
		return "directive"
	case SourceRegistryMain:
		return "registry main"
	default:
		return "unknown"
	}
}

// Speaker is a resolved default avatar.
type Speaker struct {
	Name   string
	Source SpeakerSource
}

// MainSource provides the registry's "main" indirection.
type MainSource interface {
	Main() (string, bool)
}

// ResolveSpeaker walks the fallback chain in order: an explicit name, the
// script's user directive, then the registry's main avatar. main may be nil.
func ResolveSpeaker(explicit, directive string, main MainSource) (Speaker, error) {
	if explicit != "" {
		return Speaker{Name: explicit, Source: SourceExplicit}, nil
	}
	if directive != "" {
		return Speaker{Name: directive, Source: SourceDirective}, nil
	}
	if main != nil {
		if name, ok := main.Main(); ok {
			return Speaker{Name: name, Source: SourceRegistryMain}, nil
		}
	}
	return Speaker{}, ErrNoDefaultSpeaker
}
