package throttle

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

type memStore struct {
	mu      sync.Mutex
	entries map[string]time.Time
}

type errNotFound struct{}

func (errNotFound) Error() string  { return "not found" }
func (errNotFound) NotFound() bool { return true }

func newMemStore() *memStore {
	return &memStore{entries: map[string]time.Time{}}
}

func (m *memStore) Set(ctx context.Context, key string, value []byte, expiration time.Duration) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.entries[key] = time.Now().Add(expiration)
	return nil
}

func (m *memStore) Get(ctx context.Context, key string) ([]byte, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	expiry, ok := m.entries[key]
	if !ok || time.Now().After(expiry) {
		delete(m.entries, key)
		return nil, errNotFound{}
	}
	return []byte{}, nil
}

func (m *memStore) Delete(ctx context.Context, key string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.entries, key)
	return nil
}

func TestLocker_SecondLockRejected(t *testing.T) {
	ctx := context.Background()
	locker := NewLocker(newMemStore(), time.Minute)

	assert.NoError(t, locker.Lock(ctx, "evolve:nft-1"))

	err := locker.Lock(ctx, "evolve:nft-1")
	assert.IsType(t, ErrThrottleLocked{}, err)

	// other keys are unaffected
	assert.NoError(t, locker.Lock(ctx, "evolve:nft-2"))
}

func TestLocker_UnlockReleases(t *testing.T) {
	ctx := context.Background()
	locker := NewLocker(newMemStore(), time.Minute)

	assert.NoError(t, locker.Lock(ctx, "evolve:nft-1"))
	assert.NoError(t, locker.Unlock(ctx, "evolve:nft-1"))
	assert.NoError(t, locker.Lock(ctx, "evolve:nft-1"))
}

func TestLocker_ExpiryReleases(t *testing.T) {
	ctx := context.Background()
	locker := NewLocker(newMemStore(), 10*time.Millisecond)

	assert.NoError(t, locker.Lock(ctx, "evolve:nft-1"))
	time.Sleep(20 * time.Millisecond)
	assert.NoError(t, locker.Lock(ctx, "evolve:nft-1"))
}
