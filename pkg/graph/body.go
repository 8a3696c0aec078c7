package graph

import "fmt"

// BodyKind identifies which payload a message carries.
type BodyKind int

const (
	BodyEmpty BodyKind = iota
	BodyText
	BodyMarkdown
	BodyAttachment
)

func (k BodyKind) String() string {
	switch k {
	case BodyText:
		return "text"
	case BodyMarkdown:
		return "markdown"
	case BodyAttachment:
		return "attachment"
	default:
		return "empty"
	}
}

// Body is the payload of a message: exactly one of inline text, a linked
// markdown document, a binary attachment, or nothing.
type Body struct {
	Kind  BodyKind
	Value string
}

// Text returns an inline text body.
func Text(s string) Body { return Body{Kind: BodyText, Value: s} }

// Markdown returns a body linking to a markdown document at path.
func Markdown(path string) Body { return Body{Kind: BodyMarkdown, Value: path} }

// Attachment returns a body referencing a binary file at path.
func Attachment(path string) Body { return Body{Kind: BodyAttachment, Value: path} }

// IsEmpty reports whether the body carries no payload.
func (b Body) IsEmpty() bool { return b.Kind == BodyEmpty }

// Path returns the linked file path for markdown and attachment bodies.
func (b Body) Path() (string, bool) {
	if b.Kind == BodyMarkdown || b.Kind == BodyAttachment {
		return b.Value, true
	}
	return "", false
}

func (b Body) String() string {
	if b.Kind == BodyEmpty {
		return "<empty>"
	}
	return fmt.Sprintf("%s(%s)", b.Kind, b.Value)
}

// bodyFromFields rebuilds a Body from the three optional wire fields.
// Records carrying more than one payload are rejected.
func bodyFromFields(text, markdown, attachment *string) (Body, error) {
	var out Body
	set := 0
	if text != nil {
		out = Text(*text)
		set++
	}
	if markdown != nil {
		out = Markdown(*markdown)
		set++
	}
	if attachment != nil {
		out = Attachment(*attachment)
		set++
	}
	if set > 1 {
		return Body{}, fmt.Errorf("graph: message carries %d payloads, expected at most one", set)
	}
	return out, nil
}

func (b Body) fields() (text, markdown, attachment *string) {
	v := b.Value
	switch b.Kind {
	case BodyText:
		text = &v
	case BodyMarkdown:
		markdown = &v
	case BodyAttachment:
		attachment = &v
	}
	return text, markdown, attachment
}
