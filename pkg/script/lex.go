package script

import "strings"

const (
	quote  = `"`
	escape = `\`
)

// quoteString wraps s in quotes, escaping backslashes and inner quotes.
func quoteString(s string) string {
	s = strings.ReplaceAll(s, escape, escape+escape)
	return quote + strings.ReplaceAll(s, quote, escape+quote) + quote
}

// unescape resolves \" and \\ sequences. Any other backslash is literal.
func unescape(s string) string {
	if !strings.Contains(s, escape) {
		return s
	}
	var b strings.Builder
	for i := 0; i < len(s); i++ {
		if s[i] == '\\' && i+1 < len(s) && (s[i+1] == '"' || s[i+1] == '\\') {
			i++
		}
		b.WriteByte(s[i])
	}
	return b.String()
}

// quoteIndex returns the index of the first (or, with last set, the final)
// unescaped quote in s, or -1.
func quoteIndex(s string, last bool) int {
	found := -1
	for i := 0; i < len(s); i++ {
		switch s[i] {
		case '\\':
			if i+1 < len(s) && (s[i+1] == '"' || s[i+1] == '\\') {
				i++
			}
		case '"':
			if !last {
				return i
			}
			found = i
		}
	}
	return found
}

// scanQuoted reads the quoted string opening at s[0] and closing at the
// next unescaped quote, returning its content and what follows it.
func scanQuoted(s string) (content, rest string, ok bool) {
	if !strings.HasPrefix(s, quote) {
		return "", s, false
	}
	end := quoteIndex(s[1:], false)
	if end < 0 {
		return "", s, false
	}
	return unescape(s[1 : end+1]), s[end+2:], true
}

// spanQuoted returns the text between the first quote of s and its last
// unescaped quote, and what follows it. Bare inner quotes are kept as part
// of the text.
func spanQuoted(s string) (content, rest string, ok bool) {
	start := strings.Index(s, quote)
	if start < 0 {
		return "", s, false
	}
	end := quoteIndex(s[start+1:], true)
	if end < 0 {
		return "", s, false
	}
	end += start + 1
	return unescape(s[start+1 : end]), s[end+1:], true
}

// unquote strips one pair of surrounding quotes, if present.
func unquote(s string) string {
	if len(s) >= 2 && strings.HasPrefix(s, quote) && strings.HasSuffix(s, quote) {
		return unescape(s[1 : len(s)-1])
	}
	return s
}

// splitArgs splits s on whitespace, keeping quoted runs together.
func splitArgs(s string) []string {
	var (
		args    []string
		cur     strings.Builder
		inQuote bool
		started bool
	)
	for _, r := range s {
		switch {
		case r == '"':
			inQuote = !inQuote
			started = true
		case !inQuote && (r == ' ' || r == '\t'):
			if started {
				args = append(args, cur.String())
				cur.Reset()
				started = false
			}
		default:
			cur.WriteRune(r)
			started = true
		}
	}
	if started {
		args = append(args, cur.String())
	}
	return args
}

// keyword reports whether line starts with word followed by whitespace,
// '=' or end of line, and returns the trimmed remainder.
func keyword(line, word string) (string, bool) {
	if !strings.HasPrefix(line, word) {
		return "", false
	}
	rest := line[len(word):]
	if rest == "" {
		return "", true
	}
	switch rest[0] {
	case ' ', '\t', '=', '{', '"':
		return strings.TrimSpace(rest), true
	}
	return "", false
}

// firstField splits off the first whitespace-delimited token of s.
func firstField(s string) (string, string) {
	s = strings.TrimSpace(s)
	if i := strings.IndexAny(s, " \t"); i >= 0 {
		return s[:i], strings.TrimSpace(s[i:])
	}
	return s, ""
}
