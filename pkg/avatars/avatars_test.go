package avatars

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadMissingFile(t *testing.T) {
	r, err := Load(filepath.Join(t.TempDir(), "avatars.json"))
	require.NoError(t, err)
	assert.Empty(t, r.Names())

	_, ok := r.Main()
	assert.False(t, ok)
}

func TestLoadMalformed(t *testing.T) {
	path := filepath.Join(t.TempDir(), "avatars.json")
	require.NoError(t, os.WriteFile(path, []byte("{not json"), 0o600))

	_, err := Load(path)
	assert.ErrorContains(t, err, "decode")
}

func TestSaveLoadKeepsMainIndirection(t *testing.T) {
	path := filepath.Join(t.TempDir(), "avatars.json")
	r := New(path)
	r.SetMain("andrew")
	require.NoError(t, r.Set("cat", "🐈"))
	require.NoError(t, r.Save())

	loaded, err := Load(path)
	require.NoError(t, err)

	main, ok := loaded.Main()
	require.True(t, ok)
	assert.Equal(t, "andrew", main)
	assert.Equal(t, []string{"andrew", "cat"}, loaded.Names(), "main is not a speaker")

	e, _ := loaded.Emoji("andrew")
	assert.Equal(t, MainEmoji, e)
}

func TestSaveWritesSameFormatAsStoreRecords(t *testing.T) {
	path := filepath.Join(t.TempDir(), "store", "avatars.json")
	r := New(path)
	r.SetMain("me")
	require.NoError(t, r.Save())

	b, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, "{\n  \"main\": \"me\"\n}\n", string(b))

	_, err = os.Stat(path + ".tmp")
	assert.ErrorIs(t, err, os.ErrNotExist)
}

func TestSetRejectsReservedKey(t *testing.T) {
	r := New("unused")
	assert.Error(t, r.Set(MainKey, "🐾"))
	assert.Error(t, r.Set("", "🐾"))
}

func TestSetKeepsMainGlyph(t *testing.T) {
	r := New("unused")
	r.SetMain("me")
	require.NoError(t, r.Set("me", "🐸"))

	e, _ := r.Emoji("me")
	assert.Equal(t, MainEmoji, e)
}

func TestRegister(t *testing.T) {
	r := New("unused")
	r.SetMain("me")
	require.NoError(t, r.Set("known", "🐸"))
	r.pick = func(n int) int { return 0 }

	got := r.Register([]string{"known", "gpt-4", "bob", "bob", "me", MainKey})

	assert.Equal(t, []Assignment{
		{Name: "gpt-4", Emoji: BotEmoji},
		{Name: "bob", Emoji: pool[0]},
	}, got)
}

func TestRegisterForcesMainGlyph(t *testing.T) {
	r := New("unused")
	r.main = "me"

	got := r.Register([]string{"me"})
	require.Len(t, got, 1)
	assert.Equal(t, MainEmoji, got[0].Emoji)
}

func TestResolve(t *testing.T) {
	r := New("unused")
	require.NoError(t, r.Set("ai", "🤖"))

	name, emoji := r.Resolve("ai")
	assert.Equal(t, "ai", name)
	assert.Equal(t, "🤖", emoji)

	name, emoji = r.Resolve("🤖")
	assert.Equal(t, "ai", name)
	assert.Equal(t, "🤖", emoji)

	name, emoji = r.Resolve("ghost")
	assert.Equal(t, "ghost", name)
	assert.Equal(t, FallbackEmoji, emoji)
}

func TestIsBotName(t *testing.T) {
	tests := []struct {
		name string
		want bool
	}{
		{"ChatGPT", true},
		{"claude-3", true},
		{"helperbot", true},
		{"support agent", true},
		{"management", false},
		{"bob", false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, IsBotName(tt.name))
		})
	}
}

func TestEmojiForUsesPool(t *testing.T) {
	e := EmojiFor("bob", func(n int) int { return n - 1 })
	assert.Equal(t, pool[len(pool)-1], e)
}

type fixedMain string

func (f fixedMain) Main() (string, bool) { return string(f), f != "" }

func TestResolveSpeaker(t *testing.T) {
	tests := []struct {
		name      string
		explicit  string
		directive string
		main      MainSource
		want      Speaker
		wantErr   bool
	}{
		{"explicit wins", "ai", "me", fixedMain("boss"), Speaker{"ai", SourceExplicit}, false},
		{"directive next", "", "me", fixedMain("boss"), Speaker{"me", SourceDirective}, false},
		{"registry main last", "", "", fixedMain("boss"), Speaker{"boss", SourceRegistryMain}, false},
		{"nil registry", "", "", nil, Speaker{}, true},
		{"empty registry", "", "", fixedMain(""), Speaker{}, true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := ResolveSpeaker(tt.explicit, tt.directive, tt.main)
			if tt.wantErr {
				assert.ErrorIs(t, err, ErrNoDefaultSpeaker)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}
