package storage

import (
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func openTestStore(t *testing.T) (Store, string) {
	t.Helper()
	path := filepath.Join(t.TempDir(), "agent.db")
	s, err := Open(path)
	require.NoError(t, err)
	return s, path
}

func TestGetMissingKey(t *testing.T) {
	s, _ := openTestStore(t)

	v, ok, err := s.Get("blocked_domains")
	require.NoError(t, err)
	assert.False(t, ok)
	assert.Nil(t, v)
}

func TestSetAndGet(t *testing.T) {
	s, _ := openTestStore(t)

	require.NoError(t, s.Set("blocked_domains", []byte(`[{"domain":"a.com"}]`)))

	v, ok, err := s.Get("blocked_domains")
	require.NoError(t, err)
	require.True(t, ok)
	assert.Equal(t, `[{"domain":"a.com"}]`, string(v))
}

func TestSetReplacesWholeValue(t *testing.T) {
	s, _ := openTestStore(t)

	require.NoError(t, s.Set("url_history", []byte(`["old"]`)))
	require.NoError(t, s.Set("url_history", []byte(`["new"]`)))

	v, ok, err := s.Get("url_history")
	require.NoError(t, err)
	require.True(t, ok)
	assert.Equal(t, `["new"]`, string(v))
}

func TestKeysAreIndependent(t *testing.T) {
	s, _ := openTestStore(t)

	require.NoError(t, s.Set("blocked_domains", []byte(`[]`)))
	require.NoError(t, s.Set("block_stats", []byte(`{"totalBlocksToday":1}`)))

	v, ok, err := s.Get("block_stats")
	require.NoError(t, err)
	require.True(t, ok)
	assert.JSONEq(t, `{"totalBlocksToday":1}`, string(v))
}

func TestReopenKeepsDocuments(t *testing.T) {
	path := filepath.Join(t.TempDir(), "agent.db")

	s, err := Open(path)
	require.NoError(t, err)
	require.NoError(t, s.Set("blocked_domains", []byte(`["kept"]`)))

	reopened, err := Open(path)
	require.NoError(t, err)
	v, ok, err := reopened.Get("blocked_domains")
	require.NoError(t, err)
	require.True(t, ok)
	assert.Equal(t, `["kept"]`, string(v))
}

func TestOpenCreatesParentDir(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "dir", "agent.db")
	_, err := Open(path)
	require.NoError(t, err)
}
