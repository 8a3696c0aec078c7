package script

import (
	"fmt"
	"os"
	"slices"
	"strings"
	"unicode"

	"github.com/entrhq/fur/pkg/avatars"
	"github.com/entrhq/fur/pkg/graph"
)

// CommandNames lists the playback commands a script may embed.
var CommandNames = []string{"timeline", "tree", "status", "store"}

const (
	flagFile   = "--file"
	flagAttach = "--attach"
	flagImg    = "--img"
	flagEmpty  = "--empty"
)

// Option configures Parse.
type Option func(*parser)

// WithAvatars makes the registry's main avatar the fallback default speaker
// when the script has no `user` directive.
func WithAvatars(main avatars.MainSource) Option {
	return func(p *parser) { p.main = main }
}

type parser struct {
	lines     []string
	pos       int
	main      avatars.MainSource
	directive string
	script    *Script
}

// ParseFile reads and parses the script at path.
func ParseFile(path string, opts ...Option) (*Script, error) {
	b, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("script: read %s: %w", path, err)
	}
	return Parse(string(b), opts...)
}

// Parse turns script text into a Script. It never touches the filesystem.
// Fatal problems return a *ParseError; recoverable ones are collected in
// Script.Warnings and the offending line is skipped.
func Parse(src string, opts ...Option) (*Script, error) {
	p := &parser{
		lines:  strings.Split(strings.ReplaceAll(src, "\r\n", "\n"), "\n"),
		script: &Script{Tags: []string{}},
	}
	for _, opt := range opts {
		opt(p)
	}

	if err := p.parseHeader(); err != nil {
		return nil, err
	}
	p.parseBlock(0, 0)
	return p.script, nil
}

// next returns the next significant line, trimmed, with its 1-based number.
func (p *parser) next() (string, int, bool) {
	for p.pos < len(p.lines) {
		line := strings.TrimSpace(p.lines[p.pos])
		p.pos++
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}
		return line, p.pos, true
	}
	return "", p.pos, false
}

// peek is next without consuming.
func (p *parser) peek() (string, int, bool) {
	save := p.pos
	line, num, ok := p.next()
	p.pos = save
	return line, num, ok
}

func (p *parser) warn(line int, format string, args ...any) {
	p.script.Warnings = append(p.script.Warnings, Warning{LineNo: line, Msg: fmt.Sprintf(format, args...)})
}

func (p *parser) parseHeader() error {
	line, num, ok := p.next()
	if !ok {
		return &ParseError{LineNo: 0, Err: ErrMissingTitle}
	}
	rest, isNew := keyword(line, "new")
	if !isNew {
		return &ParseError{LineNo: num, Err: ErrMissingTitle}
	}
	title, _, ok := spanQuoted(rest)
	if !ok {
		return &ParseError{LineNo: num, Err: fmt.Errorf("%w: title must be quoted", ErrMissingTitle)}
	}
	p.script.Title = title

	headerEnd := num
	for {
		line, num, ok := p.peek()
		if !ok {
			break
		}
		if rest, isTags := keyword(line, "tags"); isTags {
			p.next()
			p.script.Tags = parseTags(rest)
			headerEnd = num
			continue
		}
		if rest, isUser := keyword(line, "user"); isUser {
			p.next()
			name := unquote(strings.TrimSpace(strings.TrimPrefix(rest, "=")))
			if name == "" {
				p.warn(num, "user directive without a name")
			} else {
				p.directive = name
			}
			headerEnd = num
			continue
		}
		break
	}

	speaker, err := avatars.ResolveSpeaker("", p.directive, p.main)
	if err != nil {
		return &ParseError{LineNo: headerEnd, Err: err}
	}
	p.script.DefaultSpeaker = speaker.Name
	return nil
}

// parseTags reads `= [ "a", "b" ]`. Quoted tags may hold commas; bare
// tags end at the next comma.
func parseTags(rest string) []string {
	tags := []string{}
	start := strings.Index(rest, "[")
	end := strings.LastIndex(rest, "]")
	if start < 0 || end < start {
		return tags
	}
	list := rest[start+1 : end]
	for {
		list = strings.TrimLeft(list, " \t,")
		if list == "" {
			return tags
		}
		var tag string
		if content, after, ok := scanQuoted(list); ok {
			tag, list = content, after
		} else {
			i := strings.Index(list, ",")
			if i < 0 {
				i = len(list)
			}
			tag, list = strings.Trim(strings.TrimSpace(list[:i]), quote), list[i:]
		}
		if tag != "" {
			tags = append(tags, tag)
		}
	}
}

// parseBlock reads messages until the closing brace of the block opened at
// openLine, or end of input at depth 0. Top-level messages and commands are
// also recorded as script items.
func (p *parser) parseBlock(depth, openLine int) []*Message {
	var msgs []*Message
	for {
		line, num, ok := p.next()
		if !ok {
			if depth > 0 {
				p.warn(openLine, "unterminated branch block")
			}
			return msgs
		}

		switch {
		case strings.HasPrefix(line, "}"):
			if depth > 0 {
				return msgs
			}
			p.warn(num, "unmatched closing brace")

		case isBranchOpen(line):
			if after := branchRemainder(line); after != "" {
				if strings.Contains(after, "}") {
					p.warn(num, "branch block on one line ignored; put each jot on its own line")
					continue
				}
				p.warn(num, "text after `branch {` ignored: %s", after)
			}
			group := p.parseBlock(depth+1, num)
			if len(msgs) == 0 {
				p.warn(num, "branch with no preceding jot; block discarded")
				continue
			}
			if len(group) == 0 {
				p.warn(num, "empty branch block")
				continue
			}
			last := msgs[len(msgs)-1]
			last.Branches = append(last.Branches, group)

		default:
			if rest, isJot := keyword(line, "jot"); isJot {
				m, err := p.parseJot(rest, num)
				if err != nil {
					p.warn(num, "%v", err)
					continue
				}
				msgs = append(msgs, m)
				if depth == 0 {
					p.script.Items = append(p.script.Items, m)
				}
				continue
			}
			if name, rest, isCmd := commandLine(line); isCmd {
				if depth > 0 {
					p.warn(num, "command %q inside branch block ignored", name)
					continue
				}
				p.script.Items = append(p.script.Items, &Command{Name: name, Args: splitArgs(rest), LineNo: num})
				continue
			}
			p.warn(num, "unrecognized line: %s", line)
		}
	}
}

func isBranchOpen(line string) bool {
	rest, ok := keyword(line, "branch")
	return ok && strings.HasPrefix(rest, "{")
}

// branchRemainder returns whatever follows the opening brace.
func branchRemainder(line string) string {
	rest, _ := keyword(line, "branch")
	return strings.TrimSpace(strings.TrimPrefix(rest, "{"))
}

func commandLine(line string) (name, rest string, ok bool) {
	name, rest = firstField(line)
	return name, rest, slices.Contains(CommandNames, name)
}

func isBodyFlag(tok string) bool {
	return tok == flagFile || tok == flagAttach || tok == flagImg || tok == flagEmpty
}

// parseJot reads everything after the `jot` keyword.
func (p *parser) parseJot(rest string, num int) (*Message, error) {
	if rest == "" {
		return nil, fmt.Errorf("jot without content")
	}

	var explicit string
	switch {
	case strings.HasPrefix(rest, quote):
		// `jot "avatar" "text"` and `jot "avatar" --file p` name the speaker
		// with a quoted string; otherwise the quote opens the text.
		if name, after, ok := scanQuoted(rest); ok && name != "" {
			after = strings.TrimSpace(after)
			tok, _ := firstField(after)
			if strings.HasPrefix(after, quote) || isBodyFlag(tok) {
				explicit = name
				rest = after
			}
		}
	default:
		tok, after := firstField(rest)
		if !isBodyFlag(tok) {
			explicit = tok
			rest = after
		}
	}

	speaker, err := avatars.ResolveSpeaker(explicit, p.directive, p.main)
	if err != nil {
		return nil, err
	}
	m := &Message{Avatar: speaker.Name, AvatarSource: speaker.Source, LineNo: num}

	tok, after := firstField(rest)
	switch {
	case tok == flagEmpty:
		if after != "" {
			p.warn(num, "text after %s ignored: %s", flagEmpty, after)
		}
		return m, nil
	case isBodyFlag(tok):
		path := bodyPath(after)
		if path == "" {
			return nil, fmt.Errorf("%s without a path", tok)
		}
		if tok == flagFile {
			m.Body = graph.Markdown(path)
		} else {
			m.Body = graph.Attachment(path)
		}
		return m, nil
	}

	text, err := p.quotedText(rest, num)
	if err != nil {
		return nil, err
	}
	m.Body = graph.Text(text)
	return m, nil
}

// bodyPath takes a quoted path, or the last bare token.
func bodyPath(s string) string {
	if v, _, ok := spanQuoted(s); ok {
		return v
	}
	fields := strings.Fields(s)
	if len(fields) == 0 {
		return ""
	}
	return fields[len(fields)-1]
}

// quotedText reads text opening at the first quote of s and closing at the
// last unescaped quote of its line. When s holds no closing quote the
// following physical lines are accumulated, verbatim, until one contains
// an unescaped quote.
func (p *parser) quotedText(s string, num int) (string, error) {
	start := strings.Index(s, quote)
	if start < 0 {
		return "", fmt.Errorf("jot requires quoted text")
	}
	if v, after, ok := spanQuoted(s); ok {
		p.trailing(num, after)
		return v, nil
	}

	// s is trimmed; trailing blanks of the opening line belong to the text.
	first := strings.TrimRight(p.lines[num-1], "\r")
	parts := []string{s[start+1:] + first[len(strings.TrimRightFunc(first, unicode.IsSpace)):]}
	for p.pos < len(p.lines) {
		raw := strings.TrimRight(p.lines[p.pos], "\r")
		p.pos++
		if end := quoteIndex(raw, true); end >= 0 {
			parts = append(parts, raw[:end])
			p.trailing(p.pos, raw[end+1:])
			return unescape(strings.Join(parts, "\n")), nil
		}
		parts = append(parts, raw)
	}
	return "", fmt.Errorf("unterminated quoted text")
}

// trailing warns about anything but whitespace after a closing quote.
func (p *parser) trailing(num int, after string) {
	if after = strings.TrimSpace(after); after != "" {
		p.warn(num, "text after closing quote ignored: %s", after)
	}
}
