package fixer

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRestoreFromBackup_NoBackup(t *testing.T) {
	path := filepath.Join(t.TempDir(), "agent.md")
	require.NoError(t, os.WriteFile(path, []byte("current\n"), 0644))

	assert.Error(t, RestoreFromBackup(path))
	// The target is untouched by a failed restore.
	assert.Equal(t, "current\n", readFixture(t, path))
}

func TestCleanupBackups(t *testing.T) {
	tmp := t.TempDir()
	require.NoError(t, os.MkdirAll(filepath.Join(tmp, "nested"), 0755))

	keep := writeFixture(t, tmp, "agent.md", "keep\n")
	bak1 := writeFixture(t, tmp, "agent.md.bak", "old\n")
	bak2 := writeFixture(t, filepath.Join(tmp, "nested"), "cmd.md.bak", "old\n")

	removed, err := CleanupBackups(tmp)
	require.NoError(t, err)
	assert.ElementsMatch(t, []string{bak1, bak2}, removed)

	_, err = os.Stat(bak1)
	assert.True(t, os.IsNotExist(err))
	_, err = os.Stat(bak2)
	assert.True(t, os.IsNotExist(err))
	assert.Equal(t, "keep\n", readFixture(t, keep))
}

func TestCleanupBackups_NothingToRemove(t *testing.T) {
	removed, err := CleanupBackups(t.TempDir())
	require.NoError(t, err)
	assert.Empty(t, removed)
}

func TestWriteFileAtomic(t *testing.T) {
	path := filepath.Join(t.TempDir(), "out.md")

	require.NoError(t, writeFileAtomic(path, []byte("first\n")))
	assert.Equal(t, "first\n", readFixture(t, path))

	// Overwrite goes through the same rename path.
	require.NoError(t, writeFileAtomic(path, []byte("second\n")))
	assert.Equal(t, "second\n", readFixture(t, path))

	// No temp siblings survive.
	entries, err := os.ReadDir(filepath.Dir(path))
	require.NoError(t, err)
	assert.Len(t, entries, 1)
}

func TestUnifiedDiff(t *testing.T) {
	diff := UnifiedDiff("agent.md", "old line\n", "new line\n")

	assert.Contains(t, diff, "-old line")
	assert.Contains(t, diff, "+new line")
	assert.Contains(t, diff, "agent.md")

	assert.Empty(t, UnifiedDiff("agent.md", "same\n", "same\n"))
}
