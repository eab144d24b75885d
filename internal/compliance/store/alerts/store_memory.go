package alerts

import (
	"context"
	"sync"
	"time"
)

// InMemoryLedger is a process-local alert ledger.
type InMemoryLedger struct {
	mu      sync.Mutex
	expires map[string]time.Time
	now     func() time.Time
}

func NewInMemoryLedger() *InMemoryLedger {
	return &InMemoryLedger{expires: make(map[string]time.Time), now: time.Now}
}

func (l *InMemoryLedger) FirstSeen(_ context.Context, key string, ttl time.Duration) (bool, error) {
	l.mu.Lock()
	defer l.mu.Unlock()
	now := l.now()
	if exp, ok := l.expires[key]; ok && now.Before(exp) {
		return false, nil
	}
	l.expires[key] = now.Add(ttl)
	return true, nil
}
