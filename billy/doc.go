// Package billy provides go-billy-backed storage backends implementing
// the core.Backend interface.
//
// This package wraps go-billy's osfs (local) and memfs (in-memory)
// filesystems, mapping flat object keys onto directory paths relative to
// the backend root. It is the natural backend for tests and for local
// mirrors of remote containers, and the underlying billy.Filesystem
// remains reachable via Unwrap for go-git integration.
//
// Usage:
//
//	backend := billy.NewMemory()
//	obj := cloudpath.Bind(p, backend)
//	err := obj.WriteFile(ctx, []byte("data"))
//
// Both backends implement the optional Renamer, PrefixDeleter, and
// Mkdirer capabilities.
//
// # Thread Safety
//
// Backend instances are safe for concurrent use by multiple goroutines.
// Readers and writers returned by OpenRead/OpenWrite are not.
package billy
