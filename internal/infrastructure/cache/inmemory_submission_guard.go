package cache

import (
	"context"
	"sync"
	"time"

	"github.com/johnkamauwamunga/energy-erp-sub007/internal/domain/payables"
)

type claim struct {
	expiresAt time.Time
}

// InMemorySubmissionGuard implements payables.IdempotencyStore with a local
// map. Suitable for single-instance deployments and tests; claims are not
// shared across processes.
type InMemorySubmissionGuard struct {
	mu        sync.Mutex
	claims    map[string]claim
	stopChan  chan struct{}
	wg        sync.WaitGroup
	closeOnce sync.Once
}

// NewInMemorySubmissionGuard creates an in-memory submission guard and
// starts a background goroutine that evicts expired claims
func NewInMemorySubmissionGuard() *InMemorySubmissionGuard {
	g := &InMemorySubmissionGuard{
		claims:   make(map[string]claim),
		stopChan: make(chan struct{}),
	}
	g.wg.Add(1)
	go g.cleanupLoop()
	return g
}

// Acquire claims the key for the TTL. Returns true if newly claimed,
// false if a live holder exists.
func (g *InMemorySubmissionGuard) Acquire(ctx context.Context, key string, ttl time.Duration) (bool, error) {
	g.mu.Lock()
	defer g.mu.Unlock()

	if c, exists := g.claims[key]; exists && time.Now().Before(c.expiresAt) {
		return false, nil
	}
	g.claims[key] = claim{expiresAt: time.Now().Add(ttl)}
	return true, nil
}

// Release frees the key. Releasing an unclaimed key is a no-op.
func (g *InMemorySubmissionGuard) Release(ctx context.Context, key string) error {
	g.mu.Lock()
	defer g.mu.Unlock()
	delete(g.claims, key)
	return nil
}

// Close stops the cleanup goroutine. Safe to call multiple times.
func (g *InMemorySubmissionGuard) Close() error {
	g.closeOnce.Do(func() {
		close(g.stopChan)
		g.wg.Wait()
	})
	return nil
}

func (g *InMemorySubmissionGuard) cleanupLoop() {
	defer g.wg.Done()

	ticker := time.NewTicker(time.Minute)
	defer ticker.Stop()

	for {
		select {
		case <-g.stopChan:
			return
		case <-ticker.C:
			g.cleanup()
		}
	}
}

func (g *InMemorySubmissionGuard) cleanup() {
	g.mu.Lock()
	defer g.mu.Unlock()

	now := time.Now()
	for key, c := range g.claims {
		if now.After(c.expiresAt) {
			delete(g.claims, key)
		}
	}
}

var _ payables.IdempotencyStore = (*InMemorySubmissionGuard)(nil)
