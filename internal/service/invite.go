package service

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"maps"
	"time"

	"github.com/google/uuid"

	"github.com/dtroode/invitekeeper/internal/apierror"
	"github.com/dtroode/invitekeeper/internal/logger"
	"github.com/dtroode/invitekeeper/internal/media"
	"github.com/dtroode/invitekeeper/internal/model"
)

// Page size bounds for GetInvites. Non-positive limits get the default,
// larger ones are clamped to the maximum.
const (
	DefaultPageLimit = 10
	MaxPageLimit     = 100
)

// MediaEncoder turns an uploaded file into a string stored on the invite and
// back. Release frees whatever Encode allocated outside the record.
type MediaEncoder interface {
	Encode(ctx context.Context, file model.MediaFile) (string, error)
	Open(ctx context.Context, ref string) (model.MediaFile, error)
	Release(ctx context.Context, ref string) error
}

type Invite struct {
	invites  model.InviteStore
	drafts   model.DraftStore
	sessions model.SessionStore
	encoder  MediaEncoder
	logger   *logger.Logger
	now      func() time.Time
}

func NewInvite(
	invites model.InviteStore,
	drafts model.DraftStore,
	sessions model.SessionStore,
	encoder MediaEncoder,
	logger *logger.Logger,
) *Invite {
	return &Invite{
		invites:  invites,
		drafts:   drafts,
		sessions: sessions,
		encoder:  encoder,
		logger:   logger,
		now:      time.Now,
	}
}

// CreateInvite builds and persists a new invite hosted by the current user.
// The draft is cleared only after the invite is saved.
func (s *Invite) CreateInvite(ctx context.Context, req model.CreateInviteRequest) (model.Invite, error) {
	if err := validateCreate(req); err != nil {
		return model.Invite{}, err
	}

	id := uuid.NewString()
	now := model.FormatTime(s.now())
	host, err := resolveUser(ctx, s.sessions, s.now)
	if err != nil {
		s.logger.Warn("Invite service: failed to read current user, using default host", "error", err)
	}

	config := req.Config
	config.InviteID = id
	if config.Status == "" {
		config.Status = model.InviteStatusDraft
	}

	invite := model.Invite{
		HostID:          host.ID,
		Name:            req.Name,
		CoverImageMedia: s.encodeMedia(ctx, req.CoverImageMedia),
		StartDatetime:   req.StartDatetime,
		Nights:          req.Nights,
		LocationName:    req.LocationName,
		LocationLat:     req.LocationLat,
		LocationLng:     req.LocationLng,
		PlaceID:         req.PlaceID,
		CategoryID:      req.CategoryID,
		Description:     req.Description,
		SoftDelete:      req.SoftDelete,
		Countries:       countriesOf(req.Countries),
		Tags:            nonNil(req.Tags),
		ID:              id,
		CreatedAt:       now,
		UpdatedAt:       now,
		Host:            host,
		Config:          config,
		Category:        model.Category{Name: model.DefaultCategoryName, ID: req.CategoryID},
		CustomLinks:     nonNil(req.CustomLinks),
	}
	invite.Config.Rules = nonNil(invite.Config.Rules)

	data, err := mergePayload(nil, invite)
	if err != nil {
		return model.Invite{}, fmt.Errorf("failed to encode invite: %w", err)
	}
	if _, err := s.invites.SaveInvite(ctx, data); err != nil {
		s.logger.Error("Invite service: failed to save invite", "id", id, "error", err)
		return model.Invite{}, apierror.NewErrStorage("save invite", err)
	}

	if err := s.drafts.ClearDraft(ctx); err != nil {
		s.logger.Warn("Invite service: failed to clear draft after create", "id", id, "error", err)
	}

	s.logger.Info("Invite service: invite created", "id", id, "host_id", host.ID)
	return invite, nil
}

func (s *Invite) GetInvite(ctx context.Context, id string) (model.Invite, error) {
	invite, _, err := s.loadInvite(ctx, id)
	return invite, err
}

// loadInvite returns the decoded invite together with the stored payload.
func (s *Invite) loadInvite(ctx context.Context, id string) (model.Invite, json.RawMessage, error) {
	data, err := s.invites.GetInvite(ctx, id)
	if errors.Is(err, model.ErrNotFound) {
		return model.Invite{}, nil, apierror.NewErrInviteNotFound(id)
	}
	if err != nil {
		return model.Invite{}, nil, fmt.Errorf("failed to get invite: %w", err)
	}

	var invite model.Invite
	if err := json.Unmarshal(data, &invite); err != nil {
		s.logger.Warn("Invite service: stored invite does not decode", "id", id, "error", err)
		return model.Invite{}, nil, apierror.NewErrInviteUnreadable(id, err)
	}
	return invite, data, nil
}

// GetInvites returns one page of invites, newest first. Pages start at 1; a
// page past the end is empty.
func (s *Invite) GetInvites(ctx context.Context, page, limit int) (model.InvitePage, error) {
	if page < 1 {
		page = 1
	}
	if limit < 1 {
		limit = DefaultPageLimit
	}
	limit = min(limit, MaxPageLimit)

	stored, err := s.invites.GetAllInvites(ctx)
	if err != nil {
		return model.InvitePage{}, fmt.Errorf("failed to get invites: %w", err)
	}
	all := make([]model.Invite, 0, len(stored))
	for _, data := range stored {
		var invite model.Invite
		if err := json.Unmarshal(data, &invite); err != nil {
			s.logger.Warn("Invite service: skipping invite that does not decode", "error", err)
			continue
		}
		all = append(all, invite)
	}

	result := model.InvitePage{
		Invites: []model.Invite{},
		Total:   len(all),
		Page:    page,
		Limit:   limit,
	}

	// compare page counts first so (page-1)*limit cannot overflow
	pages := (len(all) + limit - 1) / limit
	if page-1 >= pages {
		return result, nil
	}
	start := (page - 1) * limit
	end := start + min(limit, len(all)-start)
	result.Invites = all[start:end]

	return result, nil
}

// UpdateInvite overwrites the fields set in req. Config is merged field by field.
func (s *Invite) UpdateInvite(ctx context.Context, id string, req model.UpdateInviteRequest) (model.Invite, error) {
	if err := validateUpdate(req); err != nil {
		return model.Invite{}, err
	}

	invite, stored, err := s.loadInvite(ctx, id)
	if err != nil {
		return model.Invite{}, err
	}

	previousCover := invite.CoverImageMedia
	applyUpdate(&invite, req)
	if req.CoverImageMedia != nil {
		invite.CoverImageMedia = s.encodeMedia(ctx, req.CoverImageMedia)
	}
	invite.UpdatedAt = model.FormatTime(s.now())

	data, err := mergePayload(stored, invite)
	if err != nil {
		return model.Invite{}, fmt.Errorf("failed to encode invite: %w", err)
	}
	if _, err := s.invites.SaveInvite(ctx, data); err != nil {
		s.logger.Error("Invite service: failed to update invite", "id", id, "error", err)
		return model.Invite{}, apierror.NewErrStorage("update invite", err)
	}
	if req.CoverImageMedia != nil {
		s.releaseMedia(ctx, id, previousCover)
	}

	s.logger.Debug("Invite service: invite updated", "id", id)
	return invite, nil
}

func (s *Invite) DeleteInvite(ctx context.Context, id string) error {
	// Best effort: a record whose cover cannot be read still gets deleted.
	var existing struct {
		CoverImageMedia *string `json:"cover_image_media"`
	}
	if data, err := s.invites.GetInvite(ctx, id); err == nil {
		_ = json.Unmarshal(data, &existing)
	}

	deleted, err := s.invites.DeleteInvite(ctx, id)
	if err != nil {
		s.logger.Error("Invite service: failed to delete invite", "id", id, "error", err)
		return apierror.NewErrStorage("delete invite", err)
	}
	if !deleted {
		return apierror.NewErrInviteNotFound(id)
	}

	s.releaseMedia(ctx, id, existing.CoverImageMedia)
	s.logger.Info("Invite service: invite deleted", "id", id)
	return nil
}

// GetCover opens the stored cover of an invite for streaming.
func (s *Invite) GetCover(ctx context.Context, id string) (model.MediaFile, error) {
	invite, err := s.GetInvite(ctx, id)
	if err != nil {
		return model.MediaFile{}, err
	}
	if invite.CoverImageMedia == nil {
		return model.MediaFile{}, apierror.NewErrCoverNotFound(id)
	}

	file, err := s.encoder.Open(ctx, *invite.CoverImageMedia)
	if errors.Is(err, model.ErrNotFound) {
		return model.MediaFile{}, apierror.NewErrCoverNotFound(id)
	}
	if err != nil {
		return model.MediaFile{}, fmt.Errorf("failed to open cover of invite %s: %w", id, err)
	}
	return file, nil
}

// PublishInvite sets the invite status to PUBLISHED.
func (s *Invite) PublishInvite(ctx context.Context, id string) (model.Invite, error) {
	status := model.InviteStatusPublished
	return s.UpdateInvite(ctx, id, model.UpdateInviteRequest{
		Config: &model.InviteConfigUpdate{Status: &status},
	})
}

func (s *Invite) SaveDraft(ctx context.Context, data json.RawMessage) error {
	if err := s.drafts.SaveDraft(ctx, data); err != nil {
		return apierror.NewErrStorage("save draft", err)
	}
	return nil
}

// GetDraft returns nil when no draft is saved.
func (s *Invite) GetDraft(ctx context.Context) (json.RawMessage, error) {
	data, err := s.drafts.GetDraft(ctx)
	if errors.Is(err, model.ErrNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get draft: %w", err)
	}
	return data, nil
}

func (s *Invite) ClearDraft(ctx context.Context) error {
	if err := s.drafts.ClearDraft(ctx); err != nil {
		return apierror.NewErrStorage("clear draft", err)
	}
	return nil
}

// encodeMedia never fails: an encoding error falls back to a blob reference.
func (s *Invite) encodeMedia(ctx context.Context, file *model.MediaFile) *string {
	if file == nil {
		return nil
	}

	encoded, err := s.encoder.Encode(ctx, *file)
	if err != nil {
		encoded = media.BlobURL()
		s.logger.Warn("Invite service: media encoding failed, using blob reference",
			"file", file.Name,
			"reference", encoded,
			"error", err)
	}
	return &encoded
}

func (s *Invite) releaseMedia(ctx context.Context, id string, ref *string) {
	if ref == nil {
		return
	}
	if err := s.encoder.Release(ctx, *ref); err != nil {
		s.logger.Warn("Invite service: failed to release media", "id", id, "reference", *ref, "error", err)
	}
}

// mergePayload writes invite over the stored payload. Keys the Invite type does
// not model are carried over unchanged.
func mergePayload(stored json.RawMessage, invite model.Invite) (json.RawMessage, error) {
	encoded, err := json.Marshal(invite)
	if err != nil {
		return nil, err
	}

	var base map[string]json.RawMessage
	if len(stored) == 0 || json.Unmarshal(stored, &base) != nil || base == nil {
		return encoded, nil
	}

	var fields map[string]json.RawMessage
	if err := json.Unmarshal(encoded, &fields); err != nil {
		return nil, err
	}
	maps.Copy(base, fields)
	return json.Marshal(base)
}

func applyUpdate(invite *model.Invite, req model.UpdateInviteRequest) {
	setIf(&invite.Name, req.Name)
	setIf(&invite.Nights, req.Nights)
	setIf(&invite.StartDatetime, req.StartDatetime)
	setIf(&invite.LocationName, req.LocationName)
	setIf(&invite.LocationLat, req.LocationLat)
	setIf(&invite.LocationLng, req.LocationLng)
	setIf(&invite.PlaceID, req.PlaceID)
	setIf(&invite.Description, req.Description)
	setIf(&invite.SoftDelete, req.SoftDelete)
	setIf(&invite.Tags, req.Tags)
	setIf(&invite.CustomLinks, req.CustomLinks)
	if req.CategoryID != nil {
		invite.CategoryID = *req.CategoryID
		invite.Category.ID = *req.CategoryID
	}
	if req.Countries != nil {
		invite.Countries = countriesOf(*req.Countries)
	}

	if c := req.Config; c != nil {
		setIf(&invite.Config.Capacity, c.Capacity)
		setIf(&invite.Config.EnableWaitlist, c.EnableWaitlist)
		setIf(&invite.Config.GuestApproval, c.GuestApproval)
		setIf(&invite.Config.IsPublic, c.IsPublic)
		setIf(&invite.Config.PasswordKey, c.PasswordKey)
		setIf(&invite.Config.Status, c.Status)
		setIf(&invite.Config.IsTicker, c.IsTicker)
		setIf(&invite.Config.TickerText, c.TickerText)
		setIf(&invite.Config.PlaceName, c.PlaceName)
		setIf(&invite.Config.Rules, c.Rules)
	}
}

func setIf[T any](dst *T, src *T) {
	if src != nil {
		*dst = *src
	}
}

func nonNil[T any](s []T) []T {
	if s == nil {
		return []T{}
	}
	return s
}

// countriesOf keeps the submitted range, or null when the form left it empty.
func countriesOf(r model.CountryRange) model.Countries {
	if r == (model.CountryRange{}) {
		return model.Countries{}
	}
	return model.Countries{Countries: &r}
}
