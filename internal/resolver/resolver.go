// Package resolver answers whether a host name still exists.
package resolver

import (
	"context"
	"sync"

	"golang.org/x/sync/singleflight"
)

// Resolver looks a host name up. found is false with a nil error when the
// host does not exist; any other failure is returned as an error.
type Resolver interface {
	Resolve(ctx context.Context, host string) (found bool, err error)
}

// Func adapts a function to the Resolver interface
type Func func(ctx context.Context, host string) (bool, error)

// Resolve calls f(ctx, host)
func (f Func) Resolve(ctx context.Context, host string) (bool, error) {
	return f(ctx, host)
}

// Memo remembers the answer for every host it has resolved. Concurrent
// requests for the same host share a single lookup. Errors are not cached.
type Memo struct {
	next  Resolver
	group singleflight.Group

	mu      sync.RWMutex
	results map[string]bool
}

// NewMemo creates a Memo in front of next
func NewMemo(next Resolver) *Memo {
	return &Memo{next: next, results: make(map[string]bool)}
}

// Resolve implements Resolver
func (m *Memo) Resolve(ctx context.Context, host string) (bool, error) {
	if found, ok := m.Lookup(host); ok {
		return found, nil
	}

	v, err, _ := m.group.Do(host, func() (any, error) {
		if found, ok := m.Lookup(host); ok {
			return found, nil
		}
		found, err := m.next.Resolve(ctx, host)
		if err != nil {
			return false, err
		}
		m.mu.Lock()
		m.results[host] = found
		m.mu.Unlock()
		return found, nil
	})
	if err != nil {
		return false, err
	}
	return v.(bool), nil
}

// Lookup returns a remembered answer without resolving
func (m *Memo) Lookup(host string) (found, ok bool) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	found, ok = m.results[host]
	return found, ok
}

// Len returns the number of remembered hosts
func (m *Memo) Len() int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return len(m.results)
}
