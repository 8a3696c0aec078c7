package avatars

import (
	"strings"
	"unicode"
)

const (
	// MainEmoji is always given to the default avatar.
	MainEmoji = "🦊"
	// BotEmoji is given to names that look like a bot or model.
	BotEmoji = "🤖"
	// FallbackEmoji is shown for keys the registry does not know.
	FallbackEmoji = "🐾"
)

// pool is sampled for human-looking names.
var pool = []string{"👤", "🐵", "🐧", "🐺", "🦁", "🐙", "🦉", "🐢"}

var botMarkers = []string{"gpt", "claude", "gemini", "bard", "grok", "bot", "ai", "llm"}

// IsBotName reports whether name clearly looks like a bot or language model.
func IsBotName(name string) bool {
	n := strings.ToLower(name)
	for _, m := range botMarkers {
		if strings.Contains(n, m) {
			return true
		}
	}
	// whole word only, "management" is not an agent
	for _, tok := range strings.FieldsFunc(n, func(c rune) bool {
		return !unicode.IsLetter(c) && !unicode.IsDigit(c)
	}) {
		if tok == "agent" {
			return true
		}
	}
	return false
}

// EmojiFor picks a glyph for a newly seen name. pick returns an index in
// [0, n) and is only consulted for non-bot names.
func EmojiFor(name string, pick func(n int) int) string {
	if IsBotName(name) {
		return BotEmoji
	}
	return pool[pick(len(pool))]
}
