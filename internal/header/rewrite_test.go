package header

import (
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRewriteInPlace(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "script.py")
	require.NoError(t, os.WriteFile(path, []byte("print(\"hi\")\n"), 0o755))

	require.NoError(t, Rewrite(path, singleOwner(), testStyle()))

	content, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(string(content), "# myproj: does a thing\n"))
	assert.True(t, strings.HasSuffix(string(content), "\nprint(\"hi\")\n"))

	// Permission bits are carried over to the replacement.
	info, err := os.Stat(path)
	require.NoError(t, err)
	assert.Equal(t, os.FileMode(0o755), info.Mode().Perm())

	// No stray temporary files remain.
	entries, err := os.ReadDir(dir)
	require.NoError(t, err)
	require.Len(t, entries, 1)
	assert.Equal(t, "script.py", entries[0].Name())
}

func TestRewriteTwiceIsIdempotent(t *testing.T) {
	path := filepath.Join(t.TempDir(), "script.py")
	require.NoError(t, os.WriteFile(path, []byte("print(\"hi\")\n"), 0o644))

	require.NoError(t, Rewrite(path, singleOwner(), testStyle()))
	first, err := os.ReadFile(path)
	require.NoError(t, err)

	require.NoError(t, Rewrite(path, singleOwner(), testStyle()))
	second, err := os.ReadFile(path)
	require.NoError(t, err)

	assert.Equal(t, string(first), string(second))
}

func TestRewriteFailureLeavesOriginalUntouched(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "script.py")
	original := []byte("print(\"hi\")\n")
	require.NoError(t, os.WriteFile(path, original, 0o640))

	injected := errors.New("disk full")
	renameFile = func(oldpath, newpath string) error { return injected }
	defer func() { renameFile = os.Rename }()

	err := Rewrite(path, singleOwner(), testStyle())
	require.ErrorIs(t, err, injected)

	// Original content and mode are intact.
	content, rerr := os.ReadFile(path)
	require.NoError(t, rerr)
	assert.Equal(t, original, content)
	info, rerr := os.Stat(path)
	require.NoError(t, rerr)
	assert.Equal(t, os.FileMode(0o640), info.Mode().Perm())

	// The staged temporary file was discarded.
	entries, rerr := os.ReadDir(dir)
	require.NoError(t, rerr)
	require.Len(t, entries, 1)
	assert.Equal(t, "script.py", entries[0].Name())
}

func TestRewriteMissingFile(t *testing.T) {
	err := Rewrite(filepath.Join(t.TempDir(), "absent.py"), singleOwner(), testStyle())
	assert.Error(t, err)
}
