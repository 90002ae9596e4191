// Package localstore persists invite records, their index, the draft slot and
// the session slots as JSON strings over a key-value backend.
package localstore

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/dtroode/invitekeeper/internal/logger"
	"github.com/dtroode/invitekeeper/internal/model"
)

// TotalBytes is the storage ceiling reported by GetStorageInfo.
const TotalBytes int64 = 5 * 1024 * 1024

var (
	_ model.InviteStore  = (*Store)(nil)
	_ model.DraftStore   = (*Store)(nil)
	_ model.SessionStore = (*Store)(nil)
)

// Store is safe for concurrent use within one process. Writers in other
// processes sharing the backend are not coordinated; the last write wins.
type Store struct {
	backend model.Backend
	logger  *logger.Logger
	now     func() time.Time

	// mu serializes read-modify-write of records and the index.
	mu sync.Mutex
}

func New(backend model.Backend, logger *logger.Logger) *Store {
	return &Store{
		backend: backend,
		logger:  logger,
		now:     time.Now,
	}
}

// GetItem returns the raw value under key, or ErrNotFound.
func (s *Store) GetItem(ctx context.Context, key string) (string, error) {
	value, err := s.backend.Get(ctx, key)
	if errors.Is(err, model.ErrNotFound) {
		return "", model.ErrNotFound
	}
	if err != nil {
		s.logger.Error("Local store: failed to read item", "key", key, "error", err)
		return "", fmt.Errorf("failed to read %s: %w", key, err)
	}
	return value, nil
}

// SetItem writes value under key. Failures match ErrStorage and, when the
// backend ran out of space, ErrQuotaExceeded.
func (s *Store) SetItem(ctx context.Context, key, value string) error {
	if err := s.backend.Set(ctx, key, value); err != nil {
		s.logger.Error("Local store: failed to write item", "key", key, "bytes", len(value), "error", err)
		return fmt.Errorf("failed to write %s: %w", key, errors.Join(model.ErrStorage, err))
	}
	return nil
}

func (s *Store) RemoveItem(ctx context.Context, key string) error {
	if err := s.backend.Remove(ctx, key); err != nil {
		s.logger.Error("Local store: failed to remove item", "key", key, "error", err)
		return fmt.Errorf("failed to remove %s: %w", key, errors.Join(model.ErrStorage, err))
	}
	return nil
}

// Clear wipes every key in the backend, not only invites.
func (s *Store) Clear(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if err := s.backend.Clear(ctx); err != nil {
		s.logger.Error("Local store: failed to clear storage", "error", err)
		return fmt.Errorf("failed to clear storage: %w", errors.Join(model.ErrStorage, err))
	}

	s.logger.Info("Local store: storage cleared")
	return nil
}

// GetStorageInfo estimates usage from key and value lengths. Available goes
// negative once usage passes TotalBytes.
func (s *Store) GetStorageInfo(ctx context.Context) (model.StorageInfo, error) {
	used, err := s.backend.Usage(ctx)
	if err != nil {
		s.logger.Error("Local store: failed to measure usage", "error", err)
		return model.StorageInfo{}, fmt.Errorf("failed to measure storage usage: %w", err)
	}

	return model.StorageInfo{
		Used:      used,
		Available: TotalBytes - used,
		Total:     TotalBytes,
	}, nil
}

func (s *Store) getJSON(ctx context.Context, key string, v any) error {
	raw, err := s.GetItem(ctx, key)
	if err != nil {
		return err
	}
	if err := json.Unmarshal([]byte(raw), v); err != nil {
		s.logger.Warn("Local store: failed to parse item", "key", key, "error", err)
		return fmt.Errorf("failed to parse %s: %w", key, errors.Join(model.ErrNotFound, err))
	}
	return nil
}

func (s *Store) setJSON(ctx context.Context, key string, v any) error {
	raw, err := json.Marshal(v)
	if err != nil {
		return fmt.Errorf("failed to serialize %s: %w", key, errors.Join(model.ErrStorage, err))
	}
	return s.SetItem(ctx, key, string(raw))
}

func (s *Store) timestamp() string {
	return model.FormatTime(s.now())
}
