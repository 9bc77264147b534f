package runlock_test

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mendkit/mend/internal/adapters/outbound/runlock"
)

func TestTryLockCreatesStateDir(t *testing.T) {
	dir := t.TempDir()
	l := runlock.New()

	ok, err := l.TryLock(dir)
	require.NoError(t, err)
	assert.True(t, ok)
	assert.FileExists(t, filepath.Join(dir, ".mend", "fix.lock"))
	require.NoError(t, l.Unlock())
}

func TestTryLockReacquireAfterUnlock(t *testing.T) {
	dir := t.TempDir()
	l := runlock.New()

	ok, err := l.TryLock(dir)
	require.NoError(t, err)
	require.True(t, ok)
	require.NoError(t, l.Unlock())

	ok, err = l.TryLock(dir)
	require.NoError(t, err)
	assert.True(t, ok)
	require.NoError(t, l.Unlock())
}

func TestUnlockWithoutLockIsNoop(t *testing.T) {
	l := runlock.New()
	assert.NoError(t, l.Unlock())
}

func TestAtomicWriteReplacesContent(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "file.go")
	require.NoError(t, os.WriteFile(path, []byte("old"), 0o644))

	require.NoError(t, runlock.AtomicWrite(path, []byte("new"), 0o644))

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, "new", string(data))

	entries, err := os.ReadDir(dir)
	require.NoError(t, err)
	assert.Len(t, entries, 1, "no temp files left behind")
}
