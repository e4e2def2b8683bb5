package hyperlink

import (
	"container/list"
	"strings"
)

// Handle identifies a hyperlink within one registry. Zero means no hyperlink.
type Handle uint32

// record is one stored hyperlink. Only removal bookkeeping (elem) changes
// after it has been inserted.
type record struct {
	handle Handle
	id     string // sanitized grouping id, "" for anonymous links
	uri    string // sanitized URI
	token  string
	owner  uint64 // registry id

	elem *list.Element // entry in the pool's eviction queue
}

func (r *record) anonymous() bool { return r.id == "" }

// Link is a read-only view of a stored hyperlink.
type Link struct {
	Handle Handle
	ID     string
	URI    string
	Token  string
}

func (r *record) link() Link {
	return Link{Handle: r.handle, ID: r.id, URI: r.uri, Token: r.token}
}

// compareIdentity orders records for the dedup index: links with a grouping
// id first, ordered by id then URI. Anonymous links never compare equal to a
// named link, and two anonymous links only compare equal when they carry the
// same handle, so every anonymous Put creates its own entry.
func compareIdentity(a, b *record) int {
	if a.anonymous() || b.anonymous() {
		switch {
		case !a.anonymous():
			return -1
		case !b.anonymous():
			return 1
		}
		return compareHandle(a, b)
	}
	if c := strings.Compare(a.id, b.id); c != 0 {
		return c
	}
	return strings.Compare(a.uri, b.uri)
}

func compareHandle(a, b *record) int {
	switch {
	case a.handle < b.handle:
		return -1
	case a.handle > b.handle:
		return 1
	}
	return 0
}

func lessIdentity(a, b *record) bool { return compareIdentity(a, b) < 0 }

func lessHandle(a, b *record) bool { return a.handle < b.handle }
