package hyperlink

import (
	"context"

	"github.com/google/btree"

	"github.com/phroun/purfectmux/internal/vis"
)

// btreeDegree is the branching factor of both registry indexes.
const btreeDegree = 16

// visFlags is how URIs and ids are made safe before they are compared or stored.
const visFlags = vis.Octal | vis.CStyle

// Registry maps hyperlinks to handles for one display surface. Every link
// belongs to exactly one registry and is indexed twice: by identity for
// deduplication and by handle for resolution.
type Registry struct {
	pool *Pool
	id   uint64
	next Handle

	byIdentity *btree.BTreeG[*record]
	byHandle   *btree.BTreeG[*record]

	freed bool
}

// NewRegistry creates an empty registry in pool. A nil pool means Default().
func NewRegistry(pool *Pool) *Registry {
	if pool == nil {
		pool = Default()
	}
	r := &Registry{
		pool:       pool,
		next:       1,
		byIdentity: btree.NewG[*record](btreeDegree, lessIdentity),
		byHandle:   btree.NewG[*record](btreeDegree, lessHandle),
	}

	pool.mu.Lock()
	pool.attach(r)
	pool.mu.Unlock()
	return r
}

// ID returns the registry's identifier within its pool.
func (r *Registry) ID() uint64 {
	return r.id
}

// Pool returns the pool the registry belongs to.
func (r *Registry) Pool() *Pool {
	return r.pool
}

// Put stores a hyperlink and returns its handle. An empty id stores an
// anonymous link, which always gets a new handle. A non-empty id returns the
// existing handle when the same id and URI are already stored.
//
// Storing a new link may evict the oldest link in the pool, which can belong
// to a different registry. The link just stored is never the one evicted.
func (r *Registry) Put(uri, id string) Handle {
	p := r.pool
	p.mu.Lock()
	defer p.mu.Unlock()

	if r.freed {
		panic(ErrRegistryFreed)
	}

	uri = vis.Encode(uri, visFlags)
	id = vis.Encode(id, visFlags)

	if id != "" {
		if found, ok := r.byIdentity.Get(&record{id: id, uri: uri}); ok {
			p.observer.ObservePut(false)
			p.log.LogPut(context.Background(), r.id, uint32(found.handle), false, p.queue.Len())
			return found.handle
		}
	}

	rec := &record{
		handle: r.next,
		id:     id,
		uri:    uri,
		token:  p.tokens.Next(),
		owner:  r.id,
	}
	r.next++

	r.byIdentity.ReplaceOrInsert(rec)
	r.byHandle.ReplaceOrInsert(rec)
	p.push(rec)
	p.observer.ObservePut(true)
	p.log.LogPut(context.Background(), r.id, uint32(rec.handle), true, p.queue.Len())

	if p.queue.Len()+1 >= p.capacity {
		p.evictOldest()
	}
	p.observer.ObserveLive(p.queue.Len())
	return rec.handle
}

// Get returns the URI and external token for h. ok is false when h was never
// assigned or its link has been evicted or reset.
func (r *Registry) Get(h Handle) (uri, token string, ok bool) {
	r.pool.mu.Lock()
	defer r.pool.mu.Unlock()

	rec, found := r.byHandle.Get(&record{handle: h})
	if !found {
		return "", "", false
	}
	return rec.uri, rec.token, true
}

// Lookup returns the full link for h.
func (r *Registry) Lookup(h Handle) (Link, bool) {
	r.pool.mu.Lock()
	defer r.pool.mu.Unlock()

	rec, found := r.byHandle.Get(&record{handle: h})
	if !found {
		return Link{}, false
	}
	return rec.link(), true
}

// Len returns the number of links owned by the registry.
func (r *Registry) Len() int {
	r.pool.mu.Lock()
	defer r.pool.mu.Unlock()
	return r.byHandle.Len()
}

// Links returns the registry's links ordered by handle.
func (r *Registry) Links() []Link {
	r.pool.mu.Lock()
	defer r.pool.mu.Unlock()

	links := make([]Link, 0, r.byHandle.Len())
	r.byHandle.Ascend(func(rec *record) bool {
		links = append(links, rec.link())
		return true
	})
	return links
}

// Reset removes every link owned by the registry. Handles are not reused
// afterwards.
func (r *Registry) Reset() {
	r.pool.mu.Lock()
	defer r.pool.mu.Unlock()
	r.reset()
}

func (r *Registry) reset() {
	p := r.pool

	recs := make([]*record, 0, r.byHandle.Len())
	r.byHandle.Ascend(func(rec *record) bool {
		recs = append(recs, rec)
		return true
	})
	for _, rec := range recs {
		p.remove(r, rec)
	}

	if len(recs) > 0 {
		p.observer.ObserveReset(len(recs))
		p.observer.ObserveLive(p.queue.Len())
	}
	p.log.LogReset(context.Background(), r.id, len(recs), p.queue.Len())
}

// Free resets the registry and detaches it from its pool. Free is idempotent;
// Get on a freed registry reports not found and Put panics.
func (r *Registry) Free() {
	r.pool.mu.Lock()
	defer r.pool.mu.Unlock()

	if r.freed {
		return
	}
	r.reset()
	delete(r.pool.registries, r.id)
	r.freed = true
}
