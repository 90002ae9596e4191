package localstore

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"slices"
	"sort"
	"strings"

	"github.com/google/uuid"

	"github.com/dtroode/invitekeeper/internal/model"
)

// SaveInvite stores the payload under its id, generating one when the payload
// has none, and adds the id to the index. The payload is kept as given; an
// existing record keeps its envelope createdAt.
func (s *Store) SaveInvite(ctx context.Context, data json.RawMessage) (string, error) {
	if !json.Valid(data) {
		return "", fmt.Errorf("failed to save invite: %w", model.ErrMalformed)
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	id := peekPayload(data).ID
	if id == "" {
		id = uuid.NewString()
	}
	key := model.InviteKey(id)
	now := s.timestamp()

	record := model.StoredRecord{
		ID:        id,
		Data:      data,
		CreatedAt: now,
		UpdatedAt: now,
	}

	var existing model.StoredRecord
	err := s.getJSON(ctx, key, &existing)
	switch {
	case err == nil:
		if existing.CreatedAt != "" {
			record.CreatedAt = existing.CreatedAt
		}
	case errors.Is(err, model.ErrNotFound):
	default:
		return "", fmt.Errorf("failed to save invite %s: %w", id, errors.Join(model.ErrStorage, err))
	}

	if err := s.setJSON(ctx, key, record); err != nil {
		return "", fmt.Errorf("failed to save invite %s: %w", id, err)
	}

	ids, err := s.readIndex(ctx)
	if err != nil {
		return "", fmt.Errorf("failed to index invite %s: %w", id, errors.Join(model.ErrStorage, err))
	}
	if !slices.Contains(ids, id) {
		ids = append(ids, id)
		if err := s.setJSON(ctx, model.InvitesIndexKey, ids); err != nil {
			return "", fmt.Errorf("failed to index invite %s: %w", id, err)
		}
	}

	s.logger.Debug("Local store: invite saved", "id", id)
	return id, nil
}

// GetInvite returns the stored payload. A missing or unreadable envelope is
// ErrNotFound.
func (s *Store) GetInvite(ctx context.Context, id string) (json.RawMessage, error) {
	record, err := s.getRecord(ctx, id)
	if err != nil {
		return nil, err
	}
	return record.Data, nil
}

// GetAllInvites resolves the index, skipping ids with no readable record, and
// sorts by the payload created_at, newest first. Unparsable timestamps sort last.
func (s *Store) GetAllInvites(ctx context.Context) ([]json.RawMessage, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	ids, err := s.readIndex(ctx)
	if err != nil {
		return nil, err
	}
	invites := make([]json.RawMessage, 0, len(ids))
	for _, id := range ids {
		record, err := s.getRecord(ctx, id)
		if errors.Is(err, model.ErrNotFound) {
			s.logger.Warn("Local store: indexed invite has no record", "id", id)
			continue
		}
		if err != nil {
			return nil, fmt.Errorf("failed to load invite %s: %w", id, err)
		}
		invites = append(invites, record.Data)
	}

	sortByCreatedDesc(invites)
	return invites, nil
}

// DeleteInvite removes the record and every index occurrence of id. It
// reports whether a record existed; deleting a missing invite is a no-op.
func (s *Store) DeleteInvite(ctx context.Context, id string) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	key := model.InviteKey(id)
	_, err := s.GetItem(ctx, key)
	existed := err == nil
	if err != nil && !errors.Is(err, model.ErrNotFound) {
		return false, fmt.Errorf("failed to delete invite %s: %w", id, errors.Join(model.ErrStorage, err))
	}

	if existed {
		if err := s.RemoveItem(ctx, key); err != nil {
			return false, fmt.Errorf("failed to delete invite %s: %w", id, err)
		}
	}

	ids, err := s.readIndex(ctx)
	if err != nil {
		return false, fmt.Errorf("failed to unindex invite %s: %w", id, errors.Join(model.ErrStorage, err))
	}
	kept := slices.DeleteFunc(slices.Clone(ids), func(v string) bool { return v == id })
	if len(kept) != len(ids) {
		if err := s.setJSON(ctx, model.InvitesIndexKey, kept); err != nil {
			return false, fmt.Errorf("failed to unindex invite %s: %w", id, err)
		}
	}

	if existed {
		s.logger.Debug("Local store: invite deleted", "id", id)
	}
	return existed, nil
}

// RepairIndex rebuilds the index from the stored records: orphaned records are
// appended, dangling and duplicate ids dropped. The index is only rewritten
// when it changes.
func (s *Store) RepairIndex(ctx context.Context) (model.RepairReport, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	keys, err := s.backend.Keys(ctx)
	if err != nil {
		return model.RepairReport{}, fmt.Errorf("failed to list keys: %w", err)
	}

	stored := make(map[string]bool)
	var storedIDs []string
	for _, key := range keys {
		if key == model.DraftKey || !strings.HasPrefix(key, model.InviteKeyPrefix) {
			continue
		}
		id := strings.TrimPrefix(key, model.InviteKeyPrefix)
		stored[id] = true
		storedIDs = append(storedIDs, id)
	}
	sort.Strings(storedIDs)

	report := model.RepairReport{Added: []string{}, Removed: []string{}}
	current, err := s.readIndex(ctx)
	if err != nil {
		return model.RepairReport{}, err
	}
	seen := make(map[string]bool, len(current))
	rebuilt := make([]string, 0, len(storedIDs))
	for _, id := range current {
		switch {
		case seen[id]:
		case !stored[id]:
			report.Removed = append(report.Removed, id)
		default:
			rebuilt = append(rebuilt, id)
		}
		seen[id] = true
	}
	for _, id := range storedIDs {
		if !seen[id] {
			rebuilt = append(rebuilt, id)
			report.Added = append(report.Added, id)
		}
	}
	report.Indexed = len(rebuilt)

	if !slices.Equal(rebuilt, current) {
		if err := s.setJSON(ctx, model.InvitesIndexKey, rebuilt); err != nil {
			return model.RepairReport{}, fmt.Errorf("failed to rewrite index: %w", err)
		}
		s.logger.Info("Local store: index repaired",
			"added", len(report.Added),
			"removed", len(report.Removed),
			"indexed", report.Indexed,
		)
	}

	return report, nil
}

// getRecord treats an envelope without data the same as a missing one.
func (s *Store) getRecord(ctx context.Context, id string) (model.StoredRecord, error) {
	var record model.StoredRecord
	if err := s.getJSON(ctx, model.InviteKey(id), &record); err != nil {
		if errors.Is(err, model.ErrNotFound) {
			return model.StoredRecord{}, model.ErrNotFound
		}
		return model.StoredRecord{}, err
	}
	if len(record.Data) == 0 || string(record.Data) == "null" {
		return model.StoredRecord{}, model.ErrNotFound
	}
	return record, nil
}

// payloadKeys are the only payload fields the store looks at.
type payloadKeys struct {
	ID        string
	CreatedAt string
}

// peekPayload reads id and created_at without assuming anything else about
// the payload. Fields that are absent or not strings come back empty.
func peekPayload(data json.RawMessage) payloadKeys {
	var fields map[string]json.RawMessage
	if err := json.Unmarshal(data, &fields); err != nil {
		return payloadKeys{}
	}

	var keys payloadKeys
	_ = json.Unmarshal(fields["id"], &keys.ID)
	_ = json.Unmarshal(fields["created_at"], &keys.CreatedAt)
	return keys
}

// readIndex treats a missing or unparsable index as empty. Backend failures
// are returned so callers never overwrite an index they could not read.
func (s *Store) readIndex(ctx context.Context) ([]string, error) {
	var ids []string
	err := s.getJSON(ctx, model.InvitesIndexKey, &ids)
	if errors.Is(err, model.ErrNotFound) {
		return []string{}, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to read index: %w", err)
	}
	if ids == nil {
		ids = []string{}
	}
	return ids, nil
}

func sortByCreatedDesc(invites []json.RawMessage) {
	type keyed struct {
		ok  bool
		key int64
	}
	keys := make([]keyed, len(invites))
	for i, data := range invites {
		t, err := model.ParseTime(peekPayload(data).CreatedAt)
		keys[i].ok = err == nil
		if keys[i].ok {
			keys[i].key = t.UnixNano()
		}
	}

	order := make([]int, len(invites))
	for i := range order {
		order[i] = i
	}
	sort.SliceStable(order, func(i, j int) bool {
		a, b := keys[order[i]], keys[order[j]]
		if a.ok != b.ok {
			return a.ok
		}
		return a.key > b.key
	})

	sorted := make([]json.RawMessage, len(invites))
	for i, idx := range order {
		sorted[i] = invites[idx]
	}
	copy(invites, sorted)
}
