// internal/persist/vault.go
package persist

import (
	"context"
	"strings"
	"sync"

	"github.com/fleetgrid/orgctx/internal/domain"
)

// Vault is the durable string-keyed storage the context store checkpoints
// into. Get returns domain.ErrNotFound for a missing key.
type Vault interface {
	Get(ctx context.Context, key string) (string, error)
	Set(ctx context.Context, key, value string) error
	Remove(ctx context.Context, key string) error
}

// Scoped returns a view of v in which every key is prefixed, so multiple
// sessions can share one backing vault without colliding.
func Scoped(v Vault, prefix string) Vault {
	return &scopedVault{inner: v, prefix: prefix}
}

type scopedVault struct {
	inner  Vault
	prefix string
}

func (s *scopedVault) key(key string) string {
	return s.prefix + ":" + key
}

func (s *scopedVault) Get(ctx context.Context, key string) (string, error) {
	return s.inner.Get(ctx, s.key(key))
}

func (s *scopedVault) Set(ctx context.Context, key, value string) error {
	return s.inner.Set(ctx, s.key(key), value)
}

func (s *scopedVault) Remove(ctx context.Context, key string) error {
	return s.inner.Remove(ctx, s.key(key))
}

// MemoryVault is an in-process Vault used in tests and single-node setups.
type MemoryVault struct {
	mu     sync.RWMutex
	values map[string]string
}

func NewMemoryVault() *MemoryVault {
	return &MemoryVault{values: make(map[string]string)}
}

func (v *MemoryVault) Get(ctx context.Context, key string) (string, error) {
	v.mu.RLock()
	defer v.mu.RUnlock()

	value, ok := v.values[key]
	if !ok {
		return "", domain.ErrNotFound
	}
	return value, nil
}

func (v *MemoryVault) Set(ctx context.Context, key, value string) error {
	v.mu.Lock()
	defer v.mu.Unlock()

	v.values[key] = value
	return nil
}

func (v *MemoryVault) Remove(ctx context.Context, key string) error {
	v.mu.Lock()
	defer v.mu.Unlock()

	delete(v.values, key)
	return nil
}

// Keys returns the stored keys with the given prefix. Test helper.
func (v *MemoryVault) Keys(prefix string) []string {
	v.mu.RLock()
	defer v.mu.RUnlock()

	var keys []string
	for k := range v.values {
		if strings.HasPrefix(k, prefix) {
			keys = append(keys, k)
		}
	}
	return keys
}
