package memory

import (
	"context"
	"fmt"
	"sort"
	"sync"

	"github.com/dtroode/invitekeeper/internal/model"
)

var _ model.Backend = (*Backend)(nil)

// Backend is an in-process key-value map. With a positive quota it behaves
// like browser storage and refuses writes that would exceed it.
type Backend struct {
	mu    sync.RWMutex
	items map[string]string
	used  int64
	quota int64
}

// New returns an empty backend. quota <= 0 means unlimited.
func New(quota int64) *Backend {
	return &Backend{
		items: make(map[string]string),
		quota: quota,
	}
}

func (b *Backend) Get(ctx context.Context, key string) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}

	b.mu.RLock()
	defer b.mu.RUnlock()

	value, ok := b.items[key]
	if !ok {
		return "", model.ErrNotFound
	}
	return value, nil
}

func (b *Backend) Set(ctx context.Context, key, value string) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	b.mu.Lock()
	defer b.mu.Unlock()

	next := b.used + entrySize(key, value)
	if old, ok := b.items[key]; ok {
		next -= entrySize(key, old)
	}
	if b.quota > 0 && next > b.quota {
		return fmt.Errorf("failed to set %s (%d of %d bytes): %w", key, next, b.quota, model.ErrQuotaExceeded)
	}

	b.items[key] = value
	b.used = next
	return nil
}

func (b *Backend) Remove(ctx context.Context, key string) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	b.mu.Lock()
	defer b.mu.Unlock()

	if old, ok := b.items[key]; ok {
		b.used -= entrySize(key, old)
		delete(b.items, key)
	}
	return nil
}

// Keys returns every key in lexical order.
func (b *Backend) Keys(ctx context.Context) ([]string, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	b.mu.RLock()
	defer b.mu.RUnlock()

	keys := make([]string, 0, len(b.items))
	for k := range b.items {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys, nil
}

func (b *Backend) Usage(ctx context.Context) (int64, error) {
	if err := ctx.Err(); err != nil {
		return 0, err
	}

	b.mu.RLock()
	defer b.mu.RUnlock()

	return b.used, nil
}

func (b *Backend) Clear(ctx context.Context) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	b.mu.Lock()
	defer b.mu.Unlock()

	b.items = make(map[string]string)
	b.used = 0
	return nil
}

func entrySize(key, value string) int64 {
	return int64(len(key) + len(value))
}
