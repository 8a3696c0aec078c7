package render

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/entrhq/fur/pkg/graph"
	"github.com/entrhq/fur/pkg/session"
)

var refTime = time.Date(2024, 3, 1, 12, 0, 0, 0, time.UTC)

func plain(sb *strings.Builder, opts ...func(*Options)) *Renderer {
	o := Options{Now: func() time.Time { return refTime }}
	for _, f := range opts {
		f(&o)
	}
	return New(sb, o)
}

func TestSummary(t *testing.T) {
	tests := []struct {
		name string
		src  string
		want string
	}{
		{"heading", "# Plan *for* today\n\nbody", "Plan for today"},
		{"paragraph", "first line\nsecond line\n\n# later", "first line second line"},
		{"code only", "```\ncode\n```\n", ""},
		{"list then paragraph", "- a\n\nafter", "a"},
		{"empty", "", ""},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, Summary([]byte(tt.src)))
		})
	}
}

func TestPreview(t *testing.T) {
	var sb strings.Builder
	r := plain(&sb, func(o *Options) { o.PreviewWidth = 10 })

	assert.Equal(t, "short", r.Preview(graph.Text("short\nsecond")))
	assert.Equal(t, "a long li…", r.Preview(graph.Text("a long line of text")))
	assert.Equal(t, "<no content>", r.Preview(graph.Body{}))

	md := filepath.Join(t.TempDir(), "n.md")
	require.NoError(t, os.WriteFile(md, []byte("# Hi\n"), 0o600))
	assert.Equal(t, "📄 Hi", r.Preview(graph.Markdown(md)))
}

func TestTime(t *testing.T) {
	var sb strings.Builder
	r := plain(&sb, func(o *Options) { o.Relative = true })
	assert.Equal(t, "3 hours ago", r.Time(refTime.Add(-3*time.Hour)))

	r = plain(&sb, func(o *Options) { o.TimeFormat = "2006" })
	assert.Equal(t, "2024", r.Time(refTime))
}

func entries() []session.Entry {
	return []session.Entry{
		{ID: "aaaaaaaa-1", Name: "me", Emoji: "🦊", Body: graph.Text("question"), Label: "Root", Timestamp: refTime},
		{ID: "bbbbbbbb-2", Name: "ai", Emoji: "🤖", Body: graph.Text("answer"), Label: "1", Depth: 1, Current: true, Timestamp: refTime},
		{ID: "cccccccc-3", Name: "ai", Emoji: "🤖", Body: graph.Attachment("cat.png"), Label: "2", Depth: 1, Timestamp: refTime},
	}
}

func TestTree(t *testing.T) {
	var sb strings.Builder
	plain(&sb).Tree(entries())

	lines := strings.Split(strings.TrimRight(sb.String(), "\n"), "\n")
	require.Len(t, lines, 3)
	assert.Equal(t, `  🦊 me "question" aaaaaaaa`, lines[0])
	assert.Equal(t, `  > * 🤖 ai "answer" bbbbbbbb`, lines[1])
	assert.Contains(t, lines[2], "📎 cat.png")

	sb.Reset()
	plain(&sb).Tree(nil)
	assert.Equal(t, "Thread is empty.\n", sb.String())
}

func TestTimeline(t *testing.T) {
	md := filepath.Join(t.TempDir(), "doc.md")
	require.NoError(t, os.WriteFile(md, []byte("# Doc\ncontent"), 0o600))
	list := append(entries(), session.Entry{ID: "d", Name: "me", Emoji: "🦊", Body: graph.Markdown(md), Label: "Root", Timestamp: refTime})
	thread := &graph.Thread{Title: "T"}

	var sb strings.Builder
	plain(&sb, func(o *Options) { o.TimeFormat = "15:04" }).Timeline(thread, list, false)
	out := sb.String()
	assert.Contains(t, out, "Thread: \"T\"")
	assert.Contains(t, out, "[1] 🤖 ai:\nanswer\n")
	assert.Contains(t, out, "Attachment: cat.png")
	assert.Contains(t, out, "Linked markdown file: "+md)
	assert.NotContains(t, out, "content")

	sb.Reset()
	plain(&sb).Timeline(thread, list, true)
	assert.Contains(t, sb.String(), "# Doc\ncontent")
}

func TestStatus(t *testing.T) {
	list := entries()
	st := session.Status{
		Thread:  &graph.Thread{ID: "thread-123456", Title: "T"},
		Lineage: list[:2],
		Next:    list[2:],
	}
	var sb strings.Builder
	plain(&sb).Status(st)
	out := sb.String()
	assert.Contains(t, out, "Active thread: T (thread-1)")
	assert.Contains(t, out, "Current message: bbbbbbbb")
	assert.Contains(t, out, "← current")
	assert.Contains(t, out, "1. 🤖 ai 📎 cat.png cccccccc")

	sb.Reset()
	st.Next = nil
	plain(&sb).Status(st)
	assert.Contains(t, sb.String(), "End of branch.")
}

func TestThreadsAndAvatars(t *testing.T) {
	var sb strings.Builder
	r := plain(&sb)
	r.Threads([]ThreadRow{
		{Thread: &graph.Thread{ID: "t1", Title: "One", Tags: []string{"a", "b"}, CreatedAt: refTime}},
		{Thread: &graph.Thread{ID: "t2", Title: "Two", CreatedAt: refTime}, Active: true},
	})
	out := sb.String()
	assert.Contains(t, out, "  t1 One #a #b")
	assert.Contains(t, out, "* t2 Two")

	sb.Reset()
	r.Avatars([]AvatarRow{{Name: "andrew", Emoji: "🦊", Main: true}, {Name: "gpt", Emoji: "🤖"}})
	assert.Equal(t, "🦊 andrew (main)\n🤖 gpt\n", sb.String())
}

func TestMessage(t *testing.T) {
	var sb strings.Builder
	r := plain(&sb)
	require.NoError(t, r.Message(session.Entry{ID: "x", Name: "me", Emoji: "🦊", Body: graph.Text("full\ntext")}))
	assert.Equal(t, "🦊 me x\nfull\ntext\n", sb.String())

	err := r.Message(session.Entry{ID: "y", Body: graph.Markdown(filepath.Join(t.TempDir(), "missing.md"))})
	assert.Error(t, err)
}
