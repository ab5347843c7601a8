// Package registry provides a thread-safe, name-keyed registry.
//
// It backs the function catalogs that let configuration files refer to
// hashing functions by name:
//
//	hashers := registry.New[func(*Event) string]("event hash")
//	hashers.Register("centrality", CentralityHash)
//
//	fn, err := hashers.Lookup("centrality")
//	if errors.Is(err, registry.ErrNotRegistered) {
//	    // err names the registry and lists the registered names
//	}
//
// All methods are safe for concurrent use. Range iterates over a snapshot,
// so the callback may register or delete entries.
package registry
