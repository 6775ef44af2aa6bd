package application

import (
	"context"
	"sync"
	"time"
)

// RemoteList is a locally held copy of a list owned by the booking API.
// Mutations are applied optimistically after the API accepted them.
// It is safe for concurrent use.
type RemoteList[K comparable, T any] struct {
	mu       sync.RWMutex
	key      func(T) K
	items    []T
	loaded   bool
	loadedAt time.Time
}

// NewRemoteList creates an empty list identifying items by key.
func NewRemoteList[K comparable, T any](key func(T) K) *RemoteList[K, T] {
	return &RemoteList[K, T]{key: key}
}

// Load replaces the contents with fetch's result. On error the previous contents are kept.
func (l *RemoteList[K, T]) Load(ctx context.Context, fetch func(context.Context) ([]T, error)) error {
	items, err := fetch(ctx)
	if err != nil {
		return err
	}
	l.Replace(items)
	return nil
}

// Replace swaps in items and marks the list loaded.
func (l *RemoteList[K, T]) Replace(items []T) {
	cp := make([]T, len(items))
	copy(cp, items)

	l.mu.Lock()
	l.items = cp
	l.loaded = true
	l.loadedAt = time.Now()
	l.mu.Unlock()
}

// Reset empties the list and marks it stale.
func (l *RemoteList[K, T]) Reset() {
	l.mu.Lock()
	l.items = nil
	l.loaded = false
	l.mu.Unlock()
}

// Loaded reports whether the list holds fetched data.
func (l *RemoteList[K, T]) Loaded() bool {
	l.mu.RLock()
	defer l.mu.RUnlock()
	return l.loaded
}

// Items returns a copy of the contents in order.
func (l *RemoteList[K, T]) Items() []T {
	l.mu.RLock()
	defer l.mu.RUnlock()
	out := make([]T, len(l.items))
	copy(out, l.items)
	return out
}

// Find returns the item with key k.
func (l *RemoteList[K, T]) Find(k K) (T, bool) {
	l.mu.RLock()
	defer l.mu.RUnlock()
	for _, it := range l.items {
		if l.key(it) == k {
			return it, true
		}
	}
	var zero T
	return zero, false
}

// Update replaces the item with key k by fn's result. It reports whether k was present.
func (l *RemoteList[K, T]) Update(k K, fn func(T) T) bool {
	l.mu.Lock()
	defer l.mu.Unlock()
	for i, it := range l.items {
		if l.key(it) == k {
			l.items[i] = fn(it)
			return true
		}
	}
	return false
}

// Upsert updates the item with the same key or appends it.
func (l *RemoteList[K, T]) Upsert(item T) {
	k := l.key(item)
	l.mu.Lock()
	defer l.mu.Unlock()
	for i, it := range l.items {
		if l.key(it) == k {
			l.items[i] = item
			return
		}
	}
	l.items = append(l.items, item)
}

// Remove drops the item with key k. It reports whether k was present.
func (l *RemoteList[K, T]) Remove(k K) bool {
	l.mu.Lock()
	defer l.mu.Unlock()
	for i, it := range l.items {
		if l.key(it) == k {
			l.items = append(l.items[:i], l.items[i+1:]...)
			return true
		}
	}
	return false
}

// Len returns the number of items.
func (l *RemoteList[K, T]) Len() int {
	l.mu.RLock()
	defer l.mu.RUnlock()
	return len(l.items)
}
