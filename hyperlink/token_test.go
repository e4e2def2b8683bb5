package hyperlink

import (
	"strconv"
	"strings"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func tokenSeq(t *testing.T, prefix, token string) uint64 {
	t.Helper()
	require.True(t, strings.HasPrefix(token, prefix), "token %q lacks prefix %q", token, prefix)
	n, err := strconv.ParseUint(strings.TrimPrefix(token, prefix), 16, 64)
	require.NoError(t, err)
	return n
}

func TestTokenGenerator(t *testing.T) {
	g := NewTokenGenerator("tmx")

	assert.Equal(t, "tmx1", g.Next())
	assert.Equal(t, "tmx2", g.Next())
	for i := 0; i < 7; i++ {
		g.Next()
	}
	assert.Equal(t, "tmxA", g.Next())
	assert.Equal(t, uint64(10), g.Issued())
}

func TestTokenGeneratorConcurrentUnique(t *testing.T) {
	g := NewTokenGenerator("p")

	const workers, each = 8, 200
	var (
		mu   sync.Mutex
		seen = make(map[string]struct{}, workers*each)
		wg   sync.WaitGroup
	)
	for w := 0; w < workers; w++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for i := 0; i < each; i++ {
				tok := g.Next()
				mu.Lock()
				seen[tok] = struct{}{}
				mu.Unlock()
			}
		}()
	}
	wg.Wait()

	assert.Len(t, seen, workers*each)
	assert.Equal(t, uint64(workers*each), g.Issued())
}
