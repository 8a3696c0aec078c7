package script

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/entrhq/fur/pkg/graph"
)

func TestWriteRoundTrip(t *testing.T) {
	thread := &graph.Thread{Title: "Round trip", Tags: []string{"x", "y"}, Messages: []string{"r1", "r2"}}
	msgs := map[string]*graph.Message{
		"r1": {ID: "r1", Avatar: "me", Body: graph.Text("hello\nworld"), Branches: [][]string{{"a", "b"}, {"c"}}},
		"a":  {ID: "a", Parent: "r1", Avatar: "deep thought", Body: graph.Text(`it's "fine"`)},
		"b":  {ID: "b", Parent: "r1", Avatar: "ai", Body: graph.Markdown("docs/answer.md"), Branches: [][]string{{"d"}}},
		"c":  {ID: "c", Parent: "r1", Avatar: "ai", Body: graph.Attachment("img/c.png")},
		"d":  {ID: "d", Parent: "b", Avatar: "me", Body: graph.Text("ok")},
		"r2": {ID: "r2", Avatar: "me", Body: graph.Text("bye")},
	}

	var sb strings.Builder
	require.NoError(t, Write(&sb, thread, msgs))
	out := sb.String()
	assert.True(t, strings.HasPrefix(out, "new \"Round trip\"\ntags = [\"x\", \"y\"]\nuser = me\n"))

	s, err := Parse(out)
	require.NoError(t, err)
	assert.Empty(t, s.Warnings)
	assert.Equal(t, "Round trip", s.Title)
	assert.Equal(t, []string{"x", "y"}, s.Tags)

	top := s.Messages()
	require.Len(t, top, 2)
	r1 := top[0]
	assert.Equal(t, graph.Text("hello\nworld"), r1.Body)
	require.Len(t, r1.Branches, 2)
	require.Len(t, r1.Branches[0], 2)

	a, b := r1.Branches[0][0], r1.Branches[0][1]
	assert.Equal(t, "deep thought", a.Avatar)
	assert.Equal(t, graph.Text(`it's "fine"`), a.Body)
	assert.Equal(t, graph.Markdown("docs/answer.md"), b.Body)
	require.Len(t, b.Branches, 1)
	assert.Equal(t, graph.Text("ok"), b.Branches[0][0].Body)
	assert.Equal(t, graph.Attachment("img/c.png"), r1.Branches[1][0].Body)
	assert.Equal(t, graph.Text("bye"), top[1].Body)
}

func TestWriteSkipsMissingMessages(t *testing.T) {
	thread := &graph.Thread{Title: "Sparse", Messages: []string{"gone", "here"}}
	msgs := map[string]*graph.Message{
		"here": {ID: "here", Avatar: "me", Body: graph.Text("still here")},
	}

	var sb strings.Builder
	require.NoError(t, Write(&sb, thread, msgs))
	assert.Equal(t, "new \"Sparse\"\nuser = me\n\njot me \"still here\"\n", sb.String())
}

func TestWriteRoundTripEscapesQuotedValues(t *testing.T) {
	text := "line one\nshe said \"stop\"\nbranch {\n  } done  "
	thread := &graph.Thread{
		Title:    `The "final" cut`,
		Tags:     []string{"a, b", `q"t`},
		Messages: []string{"r"},
	}
	msgs := map[string]*graph.Message{
		"r": {ID: "r", Avatar: "me", Body: graph.Text(text), Branches: [][]string{{"e", "w", "p"}}},
		"e": {ID: "e", Parent: "r", Avatar: `the "bot"`},
		"w": {ID: "w", Parent: "r", Avatar: "me", Body: graph.Text(`C:\dir\`)},
		"p": {ID: "p", Parent: "r", Avatar: "me", Body: graph.Attachment(`pics/"odd".png`)},
	}

	var sb strings.Builder
	require.NoError(t, Write(&sb, thread, msgs))
	out := sb.String()
	assert.Contains(t, out, `jot "the \"bot\"" --empty`)

	s, err := Parse(out)
	require.NoError(t, err)
	assert.Empty(t, s.Warnings)
	assert.Equal(t, `The "final" cut`, s.Title)
	assert.Equal(t, []string{"a, b", `q"t`}, s.Tags)

	top := s.Messages()
	require.Len(t, top, 1)
	assert.Equal(t, graph.Text(text), top[0].Body)
	require.Len(t, top[0].Branches, 1)

	group := top[0].Branches[0]
	require.Len(t, group, 3)
	assert.Equal(t, `the "bot"`, group[0].Avatar)
	assert.True(t, group[0].Body.IsEmpty())
	assert.Equal(t, graph.Text(`C:\dir\`), group[1].Body)
	assert.Equal(t, graph.Attachment(`pics/"odd".png`), group[2].Body)
}
