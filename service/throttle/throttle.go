package throttle

import (
	"context"
	"time"
)

// Store is the piece of a cache the locker needs. Satisfied by
// service/redis.Cache.
type Store interface {
	Set(ctx context.Context, key string, value []byte, expiration time.Duration) error
	Get(ctx context.Context, key string) ([]byte, error)
	Delete(ctx context.Context, key string) error
}

// NotFoundErr is implemented by store errors that mean "no such key"
type NotFoundErr interface {
	error
	NotFound() bool
}

// ErrThrottleLocked is returned when the throttle is already held for a key.
// Callers are not blocked; they receive this error instead.
type ErrThrottleLocked struct {
	Key string
}

func (e ErrThrottleLocked) Error() string {
	return "throttle locked: " + e.Key
}

// Locker enforces a cooldown per key: once locked, a key stays locked until
// the expiry elapses (or Unlock is called), so repeated attempts within the
// window are rejected server-side.
type Locker struct {
	store  Store
	expiry time.Duration
}

// NewLocker creates a new throttle locker with the given cooldown window
func NewLocker(store Store, expiry time.Duration) *Locker {
	return &Locker{store: store, expiry: expiry}
}

// Lock locks a key, returning ErrThrottleLocked if it is already held
func (t *Locker) Lock(ctx context.Context, key string) error {

	if isLocked, err := t.IsLocked(ctx, key); err != nil {
		return err
	} else if isLocked {
		return ErrThrottleLocked{Key: key}
	}

	return t.store.Set(ctx, key, []byte{}, t.expiry)
}

// Unlock releases a key before its expiry
func (t *Locker) Unlock(ctx context.Context, key string) error {
	return t.store.Delete(ctx, key)
}

// IsLocked checks whether a key is currently held
func (t *Locker) IsLocked(ctx context.Context, key string) (bool, error) {
	_, err := t.store.Get(ctx, key)
	if err != nil {
		if nf, ok := err.(NotFoundErr); ok && nf.NotFound() {
			return false, nil
		}
		return false, err
	}
	return true, nil
}
