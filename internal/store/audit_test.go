// ABOUTME: Tests for the SQLite audit trail
// ABOUTME: Covers schema creation, append/list round trip, and best-effort failure behavior

package store

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func openTestStore(t *testing.T) *AuditStore {
	t.Helper()
	s, err := Open(filepath.Join(t.TempDir(), "audit.db"), nil)
	require.NoError(t, err)
	t.Cleanup(func() { _ = s.Close() })
	return s
}

func TestOpen_CreatesParentDirectories(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "dir", "audit.db")

	s, err := Open(path, nil)
	require.NoError(t, err)
	defer s.Close()

	assert.FileExists(t, path)
}

func TestRecordAndEntries(t *testing.T) {
	s := openTestStore(t)
	ctx := context.Background()

	s.Record(ctx, 111, "access_denied", "")
	s.Record(ctx, 222, "secret_created", "alice")

	entries, err := s.Entries(ctx, 10)
	require.NoError(t, err)
	require.Len(t, entries, 2)

	actions := map[string]Entry{}
	for _, e := range entries {
		actions[e.Action] = e
		assert.NotEmpty(t, e.ID)
		assert.False(t, e.Timestamp.IsZero())
	}

	assert.Equal(t, int64(111), actions["access_denied"].ChatID)
	assert.Equal(t, int64(222), actions["secret_created"].ChatID)
	assert.Equal(t, "alice", actions["secret_created"].Detail)
}

func TestEntries_Limit(t *testing.T) {
	s := openTestStore(t)
	ctx := context.Background()

	for i := 0; i < 5; i++ {
		s.Record(ctx, int64(i), "access_denied", "")
	}

	entries, err := s.Entries(ctx, 3)
	require.NoError(t, err)
	assert.Len(t, entries, 3)
}

func TestRecord_AfterCloseDoesNotPanic(t *testing.T) {
	s := openTestStore(t)
	require.NoError(t, s.Close())

	// Best-effort: a dead database must not take the handler down.
	s.Record(context.Background(), 1, "access_denied", "")
}
