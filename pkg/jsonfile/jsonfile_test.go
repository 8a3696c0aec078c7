package jsonfile

import (
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestWriteEndsWithNewlineAndLeavesNoTemp(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "doc.json")

	require.NoError(t, Write(path, map[string]string{"b": "2", "a": "1"}))

	b, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, "{\n  \"a\": \"1\",\n  \"b\": \"2\"\n}\n", string(b))

	_, err = os.Stat(path + ".tmp")
	assert.True(t, errors.Is(err, os.ErrNotExist))
}

func TestReadRoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "doc.json")
	require.NoError(t, Write(path, []string{"x", "y"}))

	var got []string
	require.NoError(t, Read(path, &got))
	assert.Equal(t, []string{"x", "y"}, got)
}

func TestReadErrors(t *testing.T) {
	dir := t.TempDir()

	err := Read(filepath.Join(dir, "missing.json"), new(any))
	assert.ErrorIs(t, err, os.ErrNotExist)

	bad := filepath.Join(dir, "bad.json")
	require.NoError(t, os.WriteFile(bad, []byte("{"), 0o600))
	assert.ErrorContains(t, Read(bad, new(any)), "decode")
}
