package session

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/entrhq/fur/pkg/avatars"
	"github.com/entrhq/fur/pkg/graph"
	"github.com/entrhq/fur/pkg/script"
	"github.com/entrhq/fur/pkg/store"
)

const conversation = `new "Session"
user = me
jot "q"
branch {
    jot ai "a1"
    jot ai "a2"
}
branch {
    jot gpt "b1"
}
jot "second"
`

func openSession(t *testing.T) (*store.Engine, *Session) {
	t.Helper()
	fs, err := store.Init(filepath.Join(t.TempDir(), ".fur"), time.Now())
	require.NoError(t, err)
	n := 0
	e := store.NewEngine(fs, store.WithIDs(func() string {
		n++
		return fmt.Sprintf("m%02d", n)
	}))

	s, err := script.Parse(conversation)
	require.NoError(t, err)
	_, err = e.Commit(context.Background(), s)
	require.NoError(t, err)

	sess, err := Open(context.Background(), e)
	require.NoError(t, err)
	return e, sess
}

func bodies(entries []Entry) []string {
	var out []string
	for _, e := range entries {
		out = append(out, e.Body.Value)
	}
	return out
}

func TestOpenWithoutActiveThread(t *testing.T) {
	fs, err := store.Init(t.TempDir(), time.Now())
	require.NoError(t, err)
	_, err = Open(context.Background(), store.NewEngine(fs))
	assert.ErrorIs(t, err, store.ErrNoActiveThread)
}

func TestTimeline(t *testing.T) {
	_, sess := openSession(t)

	entries := sess.Timeline()
	assert.Equal(t, []string{"q", "a1", "a2", "b1", "second"}, bodies(entries))

	b1 := entries[3]
	assert.Equal(t, "gpt", b1.Name)
	assert.Equal(t, avatars.BotEmoji, b1.Emoji)
	assert.Equal(t, "2", b1.Label)
	assert.Equal(t, 1, b1.Depth)
	assert.Equal(t, "Root", entries[0].Label)
}

func TestStatusWithoutCursor(t *testing.T) {
	_, sess := openSession(t)

	st := sess.Status()
	assert.Equal(t, "Session", st.Thread.Title)
	assert.Empty(t, st.Lineage)
	assert.Equal(t, []string{"q", "second"}, bodies(st.Next))

	_, err := sess.Current()
	assert.ErrorIs(t, err, ErrNoCursor)
}

func TestStatusAndTreeFollowCursor(t *testing.T) {
	e, sess := openSession(t)
	a1 := sess.Timeline()[1].ID

	_, err := e.JumpTo(context.Background(), a1)
	require.NoError(t, err)
	sess, err = Open(context.Background(), e)
	require.NoError(t, err)

	st := sess.Status()
	assert.Equal(t, []string{"q", "a1"}, bodies(st.Lineage))
	assert.True(t, st.Lineage[1].Current)
	assert.Equal(t, []string{"a2"}, bodies(st.Next))

	assert.Equal(t, []string{"q", "a1", "a2", "b1"}, bodies(sess.Tree()), "tree is rooted at the cursor's root")

	cur, err := sess.Current()
	require.NoError(t, err)
	assert.Equal(t, a1, cur.ID)
}

func TestResolveUnknownAvatar(t *testing.T) {
	v := &store.View{
		Index:  graph.NewIndex(time.Now()),
		Thread: &graph.Thread{Messages: []string{"x"}},
		Graph:  map[string]*graph.Message{"x": {ID: "x", Avatar: "stranger", Body: graph.Text("hi")}},
	}
	sess := New(v, avatars.New(filepath.Join(t.TempDir(), "avatars.json")))

	e, ok := sess.Entry("x")
	require.True(t, ok)
	assert.Equal(t, "stranger", e.Name)
	assert.Equal(t, avatars.FallbackEmoji, e.Emoji)

	_, ok = sess.Entry("nope")
	assert.False(t, ok)
}

func TestContent(t *testing.T) {
	path := filepath.Join(t.TempDir(), "note.md")
	require.NoError(t, os.WriteFile(path, []byte("# Title\nbody\n"), 0o600))

	got, err := Content(Entry{Body: graph.Markdown(path)})
	require.NoError(t, err)
	assert.Equal(t, "# Title\nbody\n", got)

	got, err = Content(Entry{Body: graph.Text("plain")})
	require.NoError(t, err)
	assert.Equal(t, "plain", got)

	_, err = Content(Entry{Body: graph.Markdown(filepath.Join(t.TempDir(), "gone.md"))})
	assert.Error(t, err)
}
