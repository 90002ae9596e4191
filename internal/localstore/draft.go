package localstore

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/dtroode/invitekeeper/internal/model"
)

// SaveDraft overwrites the draft slot.
func (s *Store) SaveDraft(ctx context.Context, data json.RawMessage) error {
	draft := model.Draft{
		Data:    data,
		SavedAt: s.timestamp(),
	}
	if err := s.setJSON(ctx, model.DraftKey, draft); err != nil {
		return fmt.Errorf("failed to save draft: %w", err)
	}
	return nil
}

// GetDraft returns the draft data, or ErrNotFound when the slot is empty.
func (s *Store) GetDraft(ctx context.Context) (json.RawMessage, error) {
	var draft model.Draft
	if err := s.getJSON(ctx, model.DraftKey, &draft); err != nil {
		return nil, err
	}
	return draft.Data, nil
}

func (s *Store) ClearDraft(ctx context.Context) error {
	if err := s.RemoveItem(ctx, model.DraftKey); err != nil {
		return fmt.Errorf("failed to clear draft: %w", err)
	}
	return nil
}
