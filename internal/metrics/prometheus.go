// Package metrics exports hyperlink pool events to Prometheus.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"

	"github.com/phroun/purfectmux/hyperlink"
)

// Collector implements hyperlink.Observer with Prometheus metrics.
type Collector struct {
	live      prometheus.Gauge
	created   prometheus.Counter
	dedupHits prometheus.Counter
	evictions prometheus.Counter
	resets    prometheus.Counter
	removed   prometheus.Counter
}

var _ hyperlink.Observer = (*Collector)(nil)

// NewCollector creates the metrics and registers them with reg. A nil reg
// uses prometheus.DefaultRegisterer.
func NewCollector(reg prometheus.Registerer) (*Collector, error) {
	if reg == nil {
		reg = prometheus.DefaultRegisterer
	}
	c := &Collector{
		live: prometheus.NewGauge(prometheus.GaugeOpts{
			Name: "purfectmux_hyperlinks_live",
			Help: "Hyperlinks currently stored across all surfaces of the pool",
		}),
		created: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "purfectmux_hyperlinks_created_total",
			Help: "Hyperlinks stored with a new handle",
		}),
		dedupHits: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "purfectmux_hyperlinks_dedup_hits_total",
			Help: "Puts answered with the handle of an existing identified link",
		}),
		evictions: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "purfectmux_hyperlinks_evictions_total",
			Help: "Oldest hyperlinks removed to stay below capacity",
		}),
		resets: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "purfectmux_hyperlinks_resets_total",
			Help: "Surface registry resets, frees included",
		}),
		removed: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "purfectmux_hyperlinks_reset_removed_total",
			Help: "Hyperlinks removed by registry resets",
		}),
	}
	for _, m := range []prometheus.Collector{c.live, c.created, c.dedupHits, c.evictions, c.resets, c.removed} {
		if err := reg.Register(m); err != nil {
			return nil, err
		}
	}
	return c, nil
}

// ObservePut implements hyperlink.Observer.
func (c *Collector) ObservePut(created bool) {
	if created {
		c.created.Inc()
		return
	}
	c.dedupHits.Inc()
}

// ObserveEvict implements hyperlink.Observer.
func (c *Collector) ObserveEvict() { c.evictions.Inc() }

// ObserveReset implements hyperlink.Observer.
func (c *Collector) ObserveReset(removed int) {
	c.resets.Inc()
	c.removed.Add(float64(removed))
}

// ObserveLive implements hyperlink.Observer.
func (c *Collector) ObserveLive(live int) { c.live.Set(float64(live)) }
