// Package hyperlink tracks OSC 8 terminal hyperlinks for display surfaces.
//
// An application starts a hyperlink with a URI and an optional grouping id
// ("id=" parameter). Each surface owns a Registry that maps the pair to a
// small Handle stored in its cells, and mints an external token that is sent
// to the outer terminal in place of the application's id.
//
// Links with the same non-empty id and URI share a handle. Anonymous links
// (empty id) are never merged, even when the URI is identical, because the
// outer terminal would otherwise tie unrelated regions together.
//
// All registries created from one Pool share a single capacity bound. When a
// Put brings the live count to capacity-1 the oldest link in the pool is
// evicted, whichever registry owns it. Eviction order is creation order; lookups do not refresh
// a link.
//
//	reg := hyperlink.NewRegistry(nil) // uses hyperlink.Default()
//	h := reg.Put("https://example.com", "docs")
//	uri, token, ok := reg.Get(h)
package hyperlink
