package rules

import (
	"errors"
	"strings"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"webguard/agent/internal/domainutil"
)

// memDocs is an in-memory document store for tests.
type memDocs struct {
	mu   sync.Mutex
	data map[string][]byte
	fail error
}

func newMemDocs() *memDocs {
	return &memDocs{data: make(map[string][]byte)}
}

func (m *memDocs) Get(key string) ([]byte, bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.fail != nil {
		return nil, false, m.fail
	}
	v, ok := m.data[key]
	return v, ok, nil
}

func (m *memDocs) Set(key string, value []byte) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.fail != nil {
		return m.fail
	}
	cp := make([]byte, len(value))
	copy(cp, value)
	m.data[key] = cp
	return nil
}

// --- Add ---

func TestStoreAdd(t *testing.T) {
	s := NewStore(newMemDocs())

	r, err := s.Add("https://WWW.Example.com/some/page")
	require.NoError(t, err)
	assert.Equal(t, "example.com", r.Domain)
	assert.True(t, r.Enabled)
	assert.False(t, r.CreatedAt.IsZero())

	_, err = s.Add("example.com")
	assert.ErrorIs(t, err, ErrDuplicateRule)

	// duplicate detection runs on the normalized form
	_, err = s.Add("http://www.example.com")
	assert.ErrorIs(t, err, ErrDuplicateRule)

	_, err = s.Add("not a domain")
	assert.ErrorIs(t, err, domainutil.ErrInvalidDomain)

	assert.Equal(t, 1, s.Count())
}

func TestStoreAddNewestFirst(t *testing.T) {
	s := NewStore(newMemDocs())

	_, err := s.Add("first.com")
	require.NoError(t, err)
	_, err = s.Add("second.com")
	require.NoError(t, err)

	rs := s.Rules()
	require.Len(t, rs, 2)
	assert.Equal(t, "second.com", rs[0].Domain)
	assert.Equal(t, "first.com", rs[1].Domain)
}

// --- persistence round trip ---

func TestStorePersistAndLoad(t *testing.T) {
	docs := newMemDocs()

	s := NewStore(docs)
	_, err := s.Add("a.com")
	require.NoError(t, err)
	_, err = s.Add("b.com")
	require.NoError(t, err)
	s.Toggle("a.com", false)

	reloaded := NewStore(docs)
	require.NoError(t, reloaded.Load())

	rs := reloaded.Rules()
	require.Len(t, rs, 2)
	assert.Equal(t, "b.com", rs[0].Domain)
	assert.True(t, rs[0].Enabled)
	assert.Equal(t, "a.com", rs[1].Domain)
	assert.False(t, rs[1].Enabled)
}

func TestStoreLoadMissingDocument(t *testing.T) {
	s := NewStore(newMemDocs())
	require.NoError(t, s.Load())
	assert.Equal(t, 0, s.Count())
}

func TestStoreLoadStorageError(t *testing.T) {
	docs := newMemDocs()
	docs.fail = errors.New("disk gone")

	s := NewStore(docs)
	require.NoError(t, s.Load())
	assert.Equal(t, 0, s.Count())
}

// --- Remove / Toggle ---

func TestStoreRemove(t *testing.T) {
	s := NewStore(newMemDocs())
	_, err := s.Add("a.com")
	require.NoError(t, err)
	_, err = s.Add("b.com")
	require.NoError(t, err)

	s.Remove("https://www.a.com")
	assert.Equal(t, 1, s.Count())
	assert.Equal(t, "b.com", s.Rules()[0].Domain)

	// absent domain is a no-op
	s.Remove("missing.com")
	assert.Equal(t, 1, s.Count())
}

func TestStoreToggle(t *testing.T) {
	s := NewStore(newMemDocs())
	_, err := s.Add("a.com")
	require.NoError(t, err)

	s.Toggle("a.com", false)
	assert.False(t, s.Rules()[0].Enabled)

	s.Toggle("WWW.A.COM", true)
	assert.True(t, s.Rules()[0].Enabled)

	// absent domain is a no-op
	s.Toggle("missing.com", false)
	assert.Equal(t, 1, s.Count())
}

func TestStoreToggleAll(t *testing.T) {
	s := NewStore(newMemDocs())

	// empty set: the affordance enables
	assert.True(t, s.NextToggleAll())

	_, err := s.Add("a.com")
	require.NoError(t, err)
	_, err = s.Add("b.com")
	require.NoError(t, err)

	// everything enabled: next action disables
	assert.False(t, s.NextToggleAll())

	s.Toggle("a.com", false)
	// mixed: next action enables
	assert.True(t, s.NextToggleAll())

	s.ToggleAll(false)
	for _, r := range s.Rules() {
		assert.False(t, r.Enabled)
	}
	assert.True(t, s.NextToggleAll())

	s.ToggleAll(true)
	for _, r := range s.Rules() {
		assert.True(t, r.Enabled)
	}
}

// --- Import ---

func TestStoreImport(t *testing.T) {
	s := NewStore(newMemDocs())
	_, err := s.Add("already.com")
	require.NoError(t, err)

	in := strings.Join([]string{
		"a.com",
		"",
		"# a comment",
		"// another comment",
		"not a domain",
		"https://www.b.com/path",
		"already.com",
		"a.com",
	}, "\n")

	added := s.Import(strings.NewReader(in))
	assert.Equal(t, 2, added)
	assert.Equal(t, 3, s.Count())

	// importing the same list again adds nothing
	added = s.Import(strings.NewReader(in))
	assert.Equal(t, 0, added)
	assert.Equal(t, 3, s.Count())
}
