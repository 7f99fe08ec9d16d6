// Package blocklist tracks sender identities disabled for the rest of the
// run after a fatal rate-limit outcome. Entries are never removed; a blocked
// credential stays blocked until the process exits.
package blocklist

import (
	"strings"
	"sync"
)

// Blocklist is a concurrent, case-insensitive set of sender identities.
// The zero value is not usable; call New.
type Blocklist struct {
	mu      sync.RWMutex
	blocked map[string]struct{}
}

// New returns an empty blocklist.
func New() *Blocklist {
	return &Blocklist{blocked: make(map[string]struct{})}
}

// IsBlocked reports whether the sender has been blocked.
func (b *Blocklist) IsBlocked(sender string) bool {
	key := normalize(sender)
	b.mu.RLock()
	_, ok := b.blocked[key]
	b.mu.RUnlock()
	return ok
}

// Block adds the sender to the blocklist and reports whether this call was
// the one that blocked it. Blocking an already-blocked sender is a no-op.
func (b *Blocklist) Block(sender string) bool {
	key := normalize(sender)
	b.mu.Lock()
	defer b.mu.Unlock()
	if _, ok := b.blocked[key]; ok {
		return false
	}
	b.blocked[key] = struct{}{}
	return true
}

// Senders returns the blocked identities in unspecified order.
func (b *Blocklist) Senders() []string {
	b.mu.RLock()
	defer b.mu.RUnlock()
	out := make([]string, 0, len(b.blocked))
	for s := range b.blocked {
		out = append(out, s)
	}
	return out
}

// Len returns the number of blocked senders.
func (b *Blocklist) Len() int {
	b.mu.RLock()
	defer b.mu.RUnlock()
	return len(b.blocked)
}

func normalize(sender string) string {
	return strings.ToLower(strings.TrimSpace(sender))
}
