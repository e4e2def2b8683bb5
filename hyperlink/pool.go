package hyperlink

import (
	"container/list"
	"context"
	"fmt"
	"log/slog"
	"sync"

	"github.com/phroun/purfectmux/internal/logging"
)

// MaxHyperlinks is the default capacity of a pool. A Put that leaves
// MaxHyperlinks-1 live links evicts the oldest, so at most MaxHyperlinks-2
// links are live at once.
const MaxHyperlinks = 5000

type options struct {
	capacity int
	prefix   string
	logger   *slog.Logger
	observer Observer
}

// Option configures a Pool.
type Option func(*options)

// WithCapacity sets the pool-wide bound on live links. After a Put at most
// capacity-2 links are live. The minimum is 3.
func WithCapacity(n int) Option {
	return func(o *options) {
		o.capacity = n
	}
}

// WithTokenPrefix sets the prefix of external tokens.
func WithTokenPrefix(prefix string) Option {
	return func(o *options) {
		o.prefix = prefix
	}
}

// WithLogger sets the logger used for debug events. nil disables logging.
func WithLogger(l *slog.Logger) Option {
	return func(o *options) {
		o.logger = l
	}
}

// WithObserver sets the Observer notified of pool events.
func WithObserver(obs Observer) Option {
	return func(o *options) {
		o.observer = obs
	}
}

// queueEntry names a link by owner and handle so the queue never holds a
// reference into a registry it does not own.
type queueEntry struct {
	registry uint64
	handle   Handle
}

// Pool is the state shared by a group of registries: the token generator, the
// eviction queue in creation order and the registry table used to find the
// owner of an evicted link.
//
// The pool lock serializes every operation on every registry that belongs to
// it, so a Put on one registry can safely evict from another.
type Pool struct {
	mu sync.Mutex

	capacity     int
	tokens       *TokenGenerator
	queue        *list.List // of queueEntry, oldest first
	registries   map[uint64]*Registry
	nextRegistry uint64

	log      *logging.Logger
	observer Observer
}

// NewPool creates an empty pool.
func NewPool(opts ...Option) (*Pool, error) {
	o := options{
		capacity: MaxHyperlinks,
		prefix:   TokenPrefix,
		observer: NoopObserver{},
	}
	for _, fn := range opts {
		fn(&o)
	}
	if o.capacity < 3 {
		return nil, fmt.Errorf("%w: got %d", ErrInvalidCapacity, o.capacity)
	}
	if o.observer == nil {
		o.observer = NoopObserver{}
	}

	return &Pool{
		capacity:     o.capacity,
		tokens:       NewTokenGenerator(o.prefix),
		queue:        list.New(),
		registries:   make(map[uint64]*Registry),
		nextRegistry: 1,
		log:          logging.New(o.logger),
		observer:     o.observer,
	}, nil
}

var defaultPool = sync.OnceValue(func() *Pool {
	p, err := NewPool()
	if err != nil {
		panic(err)
	}
	return p
})

// Default returns the process-wide pool with capacity MaxHyperlinks.
func Default() *Pool {
	return defaultPool()
}

// Capacity returns the pool's live link bound.
func (p *Pool) Capacity() int {
	return p.capacity
}

// Len returns the number of live links across all registries.
func (p *Pool) Len() int {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.queue.Len()
}

// Registries returns the number of registries attached to the pool.
func (p *Pool) Registries() int {
	p.mu.Lock()
	defer p.mu.Unlock()
	return len(p.registries)
}

// attach registers r and assigns its id. Called with p.mu held.
func (p *Pool) attach(r *Registry) {
	r.id = p.nextRegistry
	p.nextRegistry++
	p.registries[r.id] = r
}

// push appends rec to the eviction queue. Called with p.mu held.
func (p *Pool) push(rec *record) {
	rec.elem = p.queue.PushBack(queueEntry{registry: rec.owner, handle: rec.handle})
}

// remove drops rec from the queue and from both indexes of its owner.
// Called with p.mu held.
func (p *Pool) remove(owner *Registry, rec *record) {
	p.queue.Remove(rec.elem)
	rec.elem = nil
	owner.byHandle.Delete(rec)
	owner.byIdentity.Delete(rec)
}

// evictOldest removes the link at the head of the queue. Called with p.mu
// held, after an insert, when the live count has reached capacity-1.
func (p *Pool) evictOldest() {
	front := p.queue.Front()
	if front == nil {
		return
	}
	e := front.Value.(queueEntry)

	owner, ok := p.registries[e.registry]
	if !ok {
		panic(fmt.Sprintf("hyperlink: queued link %d belongs to unknown registry %d", e.handle, e.registry))
	}
	rec, ok := owner.byHandle.Get(&record{handle: e.handle})
	if !ok {
		panic(fmt.Sprintf("hyperlink: queued link %d missing from registry %d", e.handle, e.registry))
	}

	p.remove(owner, rec)
	p.observer.ObserveEvict()
	p.log.LogEvict(context.Background(), owner.id, uint32(rec.handle), p.queue.Len())
}
