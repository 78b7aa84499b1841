// Package core defines the storage backend capability interfaces consumed
// by the cloud-path library.
//
// A Backend provides flat, key-addressed access to an object store. Keys
// are produced by the cloudpath package; a backend never interprets path
// semantics beyond treating "/" as the key separator for listings.
//
// All backends MUST implement Backend, which is composed of three
// sub-interfaces representing different categories of operations:
// ReadBackend, WriteBackend, and ManageBackend.
//
// Optional capabilities (Renamer, PrefixDeleter, Mkdirer) are discovered
// via type assertion:
//
//	if r, ok := backend.(core.Renamer); ok {
//	    err := r.Rename(ctx, oldKey, newKey)
//	}
//
// # Thread Safety
//
// Backend implementations are safe for concurrent use by multiple
// goroutines. Readers and writers returned by OpenRead/OpenWrite are not
// safe for concurrent use.
package core
