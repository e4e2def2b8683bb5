package hyperlink

import (
	"bytes"
	"fmt"
	"log/slog"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewPoolValidatesCapacity(t *testing.T) {
	for _, n := range []int{-1, 0, 1, 2} {
		_, err := NewPool(WithCapacity(n))
		assert.ErrorIs(t, err, ErrInvalidCapacity, "capacity %d", n)
	}

	p, err := NewPool(WithCapacity(3))
	require.NoError(t, err)
	assert.Equal(t, 3, p.Capacity())
}

func TestPoolEvictsOldestOnThirdInsert(t *testing.T) {
	p := newTestPool(t, WithCapacity(4))
	r := NewRegistry(p)

	h1 := r.Put("https://one", "")
	h2 := r.Put("https://two", "")
	require.Equal(t, 2, p.Len())

	h3 := r.Put("https://three", "")
	assert.Equal(t, 2, p.Len())

	_, _, ok := r.Get(h1)
	assert.False(t, ok, "oldest link is evicted")
	_, _, ok = r.Get(h2)
	assert.True(t, ok)
	_, _, ok = r.Get(h3)
	assert.True(t, ok)

	// The evicted handle is never handed out again.
	assert.Equal(t, Handle(4), r.Put("https://one", ""))
}

func TestPoolNeverEvictsNewest(t *testing.T) {
	p := newTestPool(t, WithCapacity(3))
	r := NewRegistry(p)

	var prev Handle
	for i := 0; i < 10; i++ {
		h := r.Put(fmt.Sprintf("https://%d", i), "")
		_, _, ok := r.Get(h)
		require.True(t, ok, "link %d must survive its own Put", i)
		if prev != 0 {
			_, _, ok = r.Get(prev)
			assert.False(t, ok)
		}
		prev = h
		assert.Equal(t, 1, p.Len())
	}
}

func TestPoolEvictsAcrossRegistries(t *testing.T) {
	p := newTestPool(t, WithCapacity(5))
	a := NewRegistry(p)
	b := NewRegistry(p)

	ha := a.Put("https://a", "g")
	hb1 := b.Put("https://b1", "")
	hb2 := b.Put("https://b2", "")
	require.Equal(t, 3, p.Len())

	// b's insert evicts a's link, which is the oldest in the pool.
	hb3 := b.Put("https://b3", "")
	assert.Equal(t, 3, p.Len())
	assert.Equal(t, 0, a.Len())
	_, _, ok := a.Get(ha)
	assert.False(t, ok)

	for _, h := range []Handle{hb1, hb2, hb3} {
		_, _, ok := b.Get(h)
		assert.True(t, ok)
	}

	// The evicted pair is gone from the identity index too, so it is stored anew.
	assert.Equal(t, Handle(2), a.Put("https://a", "g"))
	_, _, ok = b.Get(hb1)
	assert.False(t, ok, "b1 was the oldest remaining link")
}

func TestPoolEvictionIgnoresReads(t *testing.T) {
	p := newTestPool(t, WithCapacity(4))
	r := NewRegistry(p)

	h1 := r.Put("https://1", "")
	h2 := r.Put("https://2", "")
	for i := 0; i < 10; i++ {
		r.Get(h1)
	}
	r.Put("https://1", "") // anonymous, new link
	_, _, ok := r.Get(h1)
	assert.False(t, ok, "FIFO, not LRU")
	_, _, ok = r.Get(h2)
	assert.True(t, ok)
}

func TestPoolEvictionBound(t *testing.T) {
	const capacity = 50
	obs := &BasicObserver{}
	p := newTestPool(t, WithCapacity(capacity), WithObserver(obs))
	regs := []*Registry{NewRegistry(p), NewRegistry(p), NewRegistry(p)}

	type put struct {
		reg    *Registry
		handle Handle
	}
	var puts []put
	for i := 0; i < 400; i++ {
		r := regs[i%len(regs)]
		id := ""
		if i%2 == 0 {
			id = fmt.Sprintf("g%d", i)
		}
		puts = append(puts, put{r, r.Put(fmt.Sprintf("https://%d", i), id)})
		assert.LessOrEqual(t, p.Len(), capacity-2)
	}

	// Exactly the newest capacity-2 links survive.
	for i, pt := range puts {
		_, _, ok := pt.reg.Get(pt.handle)
		assert.Equal(t, i >= len(puts)-(capacity-2), ok, "put %d", i)
	}

	total := 0
	for _, r := range regs {
		total += r.Len()
	}
	assert.Equal(t, capacity-2, total)
	assert.Equal(t, int64(400-(capacity-2)), obs.Evictions.Load())
	assert.Equal(t, int64(capacity-2), obs.Live.Load())
}

func TestPoolResetAfterEviction(t *testing.T) {
	p := newTestPool(t, WithCapacity(4))
	a := NewRegistry(p)
	b := NewRegistry(p)

	a.Put("https://a1", "")
	b.Put("https://b1", "")
	a.Put("https://a2", "") // evicts a1
	require.Equal(t, 2, p.Len())

	a.Reset()
	assert.Equal(t, 1, p.Len())
	b.Put("https://b2", "")
	b.Put("https://b3", "") // evicts b1, the oldest surviving link
	assert.Equal(t, 2, b.Len())
	assert.Equal(t, 2, p.Len())
}

func TestPoolLogsEvents(t *testing.T) {
	var buf bytes.Buffer
	logger := slog.New(slog.NewTextHandler(&buf, &slog.HandlerOptions{Level: slog.LevelDebug}))
	p := newTestPool(t, WithCapacity(3), WithLogger(logger))
	r := NewRegistry(p)

	r.Put("https://a", "")
	r.Put("https://b", "")
	r.Reset()

	out := buf.String()
	assert.Contains(t, out, "hyperlink stored")
	assert.Contains(t, out, "hyperlink evicted")
	assert.Contains(t, out, "hyperlinks reset")
}

func TestPoolConcurrentRegistries(t *testing.T) {
	p := newTestPool(t, WithCapacity(64))

	var wg sync.WaitGroup
	for w := 0; w < 4; w++ {
		r := NewRegistry(p)
		wg.Add(1)
		go func() {
			defer wg.Done()
			for i := 0; i < 500; i++ {
				h := r.Put(fmt.Sprintf("https://%d", i), "")
				r.Get(h)
			}
		}()
	}
	wg.Wait()

	assert.Equal(t, 62, p.Len())
}

func TestPoolDefaultCapacityBound(t *testing.T) {
	p := newTestPool(t)
	r := NewRegistry(p)

	first := r.Put("https://0", "")
	for i := 1; i < MaxHyperlinks-2; i++ {
		r.Put(fmt.Sprintf("https://%d", i), "")
	}
	require.Equal(t, MaxHyperlinks-2, p.Len())
	_, _, ok := r.Get(first)
	require.True(t, ok, "no eviction until the live count reaches capacity-1")

	// The insert that brings the count to MaxHyperlinks-1 evicts the oldest.
	last := r.Put("https://last", "")
	assert.Equal(t, MaxHyperlinks-2, p.Len())
	_, _, ok = r.Get(first)
	assert.False(t, ok)
	_, _, ok = r.Get(last)
	assert.True(t, ok)
}
