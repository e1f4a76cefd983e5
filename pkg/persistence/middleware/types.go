// Package middleware wraps a ports.Store to protect submission answers at rest.
package middleware

import "github.com/aretw0/intake/pkg/ports"

// Middleware allows wrapping a Store to add behavior.
type Middleware func(ports.Store) ports.Store

// Chain wraps store so that the first middleware sees writes first.
func Chain(store ports.Store, mws ...Middleware) ports.Store {
	for i := len(mws) - 1; i >= 0; i-- {
		store = mws[i](store)
	}
	return store
}
