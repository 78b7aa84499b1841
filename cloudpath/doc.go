// Package cloudpath provides a path-object view of remote object storage.
//
// The package has two layers. Path is a pure, immutable value translating
// between hierarchical URI-style paths (scheme://container/seg1/seg2) and
// the flat object keys (seg1/seg2) used by storage backends. Object binds
// a Path to a core.Backend and forwards pathlib-style operations (Exists,
// ReadDir, Glob, ReadFile, ...) using the keys Path produces.
//
// Usage:
//
//	p, err := cloudpath.Parse("s3://bucket/reports/2026/summary.json")
//	// p.Key()  == "reports/2026/summary.json"
//	// p.Name() == "summary.json"
//
//	obj := cloudpath.Bind(p, backend)
//	data, err := obj.ReadFile(ctx)
//
// # Path Semantics
//
// Keys never carry a leading or trailing slash; Prefix() returns the
// directory-marker form (key + "/") used for listings. Backslashes are
// rejected rather than normalized: silently accepting "\" risks caller
// assumptions diverging from what the backend stores. Dot segments "."
// and ".." are likewise rejected, since their resolution against a flat
// key space is backend-defined.
//
// # Thread Safety
//
// Path values are immutable and safe for concurrent use without
// synchronization. Object is safe for concurrent use if its backend is.
package cloudpath
