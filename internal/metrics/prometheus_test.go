package metrics

import (
	"testing"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/phroun/purfectmux/hyperlink"
)

func TestCollectorWithPool(t *testing.T) {
	reg := prometheus.NewRegistry()
	c, err := NewCollector(reg)
	require.NoError(t, err)

	p, err := hyperlink.NewPool(hyperlink.WithCapacity(4), hyperlink.WithObserver(c))
	require.NoError(t, err)
	r := hyperlink.NewRegistry(p)

	r.Put("https://a", "x")
	r.Put("https://a", "x") // dedup hit
	r.Put("https://b", "")
	r.Put("https://c", "") // third live link evicts the first

	assert.Equal(t, 3.0, testutil.ToFloat64(c.created))
	assert.Equal(t, 1.0, testutil.ToFloat64(c.dedupHits))
	assert.Equal(t, 1.0, testutil.ToFloat64(c.evictions))
	assert.Equal(t, 2.0, testutil.ToFloat64(c.live))

	r.Reset()
	assert.Equal(t, 1.0, testutil.ToFloat64(c.resets))
	assert.Equal(t, 2.0, testutil.ToFloat64(c.removed))
	assert.Equal(t, 0.0, testutil.ToFloat64(c.live))

	n, err := testutil.GatherAndCount(reg)
	require.NoError(t, err)
	assert.Equal(t, 6, n)
}

func TestCollectorDuplicateRegistration(t *testing.T) {
	reg := prometheus.NewRegistry()
	_, err := NewCollector(reg)
	require.NoError(t, err)

	_, err = NewCollector(reg)
	var already prometheus.AlreadyRegisteredError
	assert.ErrorAs(t, err, &already)
}
