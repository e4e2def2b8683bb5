package hyperlink

import "sync/atomic"

// Observer receives pool events. Implement it to export hyperlink metrics.
// Calls are made with the pool lock held and must not call back into the pool.
type Observer interface {
	// ObservePut is called for every Put; created is false on a dedup hit.
	ObservePut(created bool)

	// ObserveEvict is called when the oldest link is evicted for capacity.
	ObserveEvict()

	// ObserveReset is called when a registry is reset or freed.
	ObserveReset(removed int)

	// ObserveLive reports the pool's live link count after every change.
	ObserveLive(live int)
}

// NoopObserver discards all events.
type NoopObserver struct{}

func (NoopObserver) ObservePut(bool)  {}
func (NoopObserver) ObserveEvict()    {}
func (NoopObserver) ObserveReset(int) {}
func (NoopObserver) ObserveLive(int)  {}

// BasicObserver counts events in memory.
type BasicObserver struct {
	Created   atomic.Int64
	DedupHits atomic.Int64
	Evictions atomic.Int64
	Resets    atomic.Int64
	Removed   atomic.Int64
	Live      atomic.Int64
}

// ObservePut implements Observer.
func (b *BasicObserver) ObservePut(created bool) {
	if created {
		b.Created.Add(1)
	} else {
		b.DedupHits.Add(1)
	}
}

// ObserveEvict implements Observer.
func (b *BasicObserver) ObserveEvict() { b.Evictions.Add(1) }

// ObserveReset implements Observer.
func (b *BasicObserver) ObserveReset(removed int) {
	b.Resets.Add(1)
	b.Removed.Add(int64(removed))
}

// ObserveLive implements Observer.
func (b *BasicObserver) ObserveLive(live int) { b.Live.Store(int64(live)) }
