package hyperlink

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestPool(t *testing.T, opts ...Option) *Pool {
	t.Helper()
	p, err := NewPool(opts...)
	require.NoError(t, err)
	return p
}

func TestRegistryScenarios(t *testing.T) {
	p := newTestPool(t)
	r := NewRegistry(p)

	// Named link, then the same pair again.
	h1 := r.Put("http://example.com", "g1")
	assert.Equal(t, Handle(1), h1)
	_, t1, ok := r.Get(h1)
	require.True(t, ok)
	assert.Equal(t, h1, r.Put("http://example.com", "g1"))
	assert.Equal(t, 1, r.Len())

	// Anonymous links with the same URI stay distinct.
	h2 := r.Put("http://example.com", "")
	h3 := r.Put("http://example.com", "")
	assert.Equal(t, Handle(2), h2)
	assert.Equal(t, Handle(3), h3)
	_, t2, _ := r.Get(h2)
	_, t3, _ := r.Get(h3)
	assert.NotEqual(t, t2, t3)
	assert.NotEqual(t, t1, t2)

	uri, tok, ok := r.Get(1)
	require.True(t, ok)
	assert.Equal(t, "http://example.com", uri)
	assert.Equal(t, t1, tok)

	_, _, ok = r.Get(99)
	assert.False(t, ok)
	_, _, ok = r.Get(0)
	assert.False(t, ok)
}

func TestRegistryDedupDoesNotAdvance(t *testing.T) {
	obs := &BasicObserver{}
	p := newTestPool(t, WithObserver(obs))
	r := NewRegistry(p)

	h := r.Put("https://a", "id")
	for i := 0; i < 5; i++ {
		assert.Equal(t, h, r.Put("https://a", "id"))
	}
	assert.Equal(t, 1, r.Len())
	assert.Equal(t, 1, p.Len())
	assert.Equal(t, uint64(1), p.tokens.Issued())
	assert.Equal(t, int64(1), obs.Created.Load())
	assert.Equal(t, int64(5), obs.DedupHits.Load())

	// Same id with another URI, or same URI with another id, is a new link.
	assert.Equal(t, Handle(2), r.Put("https://b", "id"))
	assert.Equal(t, Handle(3), r.Put("https://a", "other"))
	assert.Equal(t, 3, r.Len())
}

func TestRegistryAnonymousNeverDeduplicated(t *testing.T) {
	r := NewRegistry(newTestPool(t))

	seen := make(map[Handle]bool)
	for i := 0; i < 10; i++ {
		h := r.Put("https://same", "")
		assert.False(t, seen[h])
		seen[h] = true
	}
	assert.Equal(t, 10, r.Len())
}

func TestRegistryHandlesAndTokensMonotonic(t *testing.T) {
	p := newTestPool(t, WithTokenPrefix("x"))
	a := NewRegistry(p)
	b := NewRegistry(p)

	var last uint64
	var lastA, lastB Handle
	for i := 0; i < 40; i++ {
		r, lastHandle := a, &lastA
		if i%3 == 0 {
			r, lastHandle = b, &lastB
		}
		h := r.Put("https://example.com/"+string(rune('a'+i%26)), "")
		assert.Equal(t, *lastHandle+1, h, "handles start at 1 and increase by one")
		*lastHandle = h

		_, tok, ok := r.Get(h)
		require.True(t, ok)
		seq := tokenSeq(t, "x", tok)
		assert.Greater(t, seq, last, "tokens increase across registries")
		last = seq
	}
}

func TestRegistrySanitizesInput(t *testing.T) {
	r := NewRegistry(newTestPool(t))

	h := r.Put("http://x/\x1b[31m", "id\x07")
	uri, _, ok := r.Get(h)
	require.True(t, ok)
	assert.Equal(t, `http://x/\033[31m`, uri)

	link, ok := r.Lookup(h)
	require.True(t, ok)
	assert.Equal(t, `id\a`, link.ID)

	// Dedup compares the sanitized forms.
	assert.Equal(t, h, r.Put("http://x/\x1b[31m", "id\x07"))
}

func TestRegistryResetIsolates(t *testing.T) {
	p := newTestPool(t)
	a := NewRegistry(p)
	b := NewRegistry(p)

	a.Put("https://a/1", "")
	a.Put("https://a/2", "g")
	hb := b.Put("https://b/1", "")
	require.Equal(t, 3, p.Len())

	a.Reset()
	assert.Equal(t, 0, a.Len())
	assert.Equal(t, 1, p.Len())
	assert.Empty(t, a.Links())

	uri, _, ok := b.Get(hb)
	require.True(t, ok)
	assert.Equal(t, "https://b/1", uri)

	// Handles are not reused after a reset.
	assert.Equal(t, Handle(3), a.Put("https://a/1", ""))
	assert.Equal(t, Handle(4), a.Put("https://a/2", "g"))
}

func TestRegistryFree(t *testing.T) {
	p := newTestPool(t)
	a := NewRegistry(p)
	b := NewRegistry(p)
	require.Equal(t, 2, p.Registries())

	h := a.Put("https://a", "")
	b.Put("https://b", "")

	a.Free()
	a.Free()
	assert.Equal(t, 1, p.Registries())
	assert.Equal(t, 1, p.Len())
	_, _, ok := a.Get(h)
	assert.False(t, ok)

	assert.PanicsWithValue(t, ErrRegistryFreed, func() {
		a.Put("https://a", "")
	})
}

func TestRegistryLinks(t *testing.T) {
	r := NewRegistry(newTestPool(t, WithTokenPrefix("t")))

	r.Put("https://z", "b")
	r.Put("https://y", "")
	r.Put("https://x", "a")

	links := r.Links()
	require.Len(t, links, 3)
	assert.Equal(t, Link{Handle: 1, ID: "b", URI: "https://z", Token: "t1"}, links[0])
	assert.Equal(t, Link{Handle: 2, ID: "", URI: "https://y", Token: "t2"}, links[1])
	assert.Equal(t, Link{Handle: 3, ID: "a", URI: "https://x", Token: "t3"}, links[2])
}

func TestNewRegistryDefaultPool(t *testing.T) {
	r := NewRegistry(nil)
	defer r.Free()

	assert.Same(t, Default(), r.Pool())
	assert.Equal(t, MaxHyperlinks, r.Pool().Capacity())
	h := r.Put("https://default", "")
	_, tok, ok := r.Get(h)
	require.True(t, ok)
	assert.Contains(t, tok, TokenPrefix)
}
