package model

import (
	"context"
	"encoding/json"
	"io"
)

// Storage keys. The layout is shared with existing browser clients and must not change.
const (
	InviteKeyPrefix = "invite_"
	InvitesIndexKey = "invites_index"
	DraftKey        = "invite_draft"
	AuthTokenKey    = "auth_token"
	CurrentUserKey  = "current_user"
)

// InviteKey returns the storage key of the record with the given id.
func InviteKey(id string) string {
	return InviteKeyPrefix + id
}

// Invite statuses.
const (
	InviteStatusDraft     = "DRAFT"
	InviteStatusPublished = "PUBLISHED"
)

// DefaultCategoryName is assigned to every invite created through the client.
const DefaultCategoryName = "Travel"

// InviteStore defines persistence operations for invite records. Payloads are
// opaque JSON objects; the store reads only their id and created_at.
type InviteStore interface {
	SaveInvite(ctx context.Context, data json.RawMessage) (string, error)
	GetInvite(ctx context.Context, id string) (json.RawMessage, error)
	GetAllInvites(ctx context.Context) ([]json.RawMessage, error)
	DeleteInvite(ctx context.Context, id string) (bool, error)
}

// DraftStore defines the single-slot draft persistence.
type DraftStore interface {
	SaveDraft(ctx context.Context, data json.RawMessage) error
	GetDraft(ctx context.Context) (json.RawMessage, error)
	ClearDraft(ctx context.Context) error
}

// StoredRecord is the envelope persisted under InviteKey(id).
type StoredRecord struct {
	ID        string          `json:"id"`
	Data      json.RawMessage `json:"data"`
	CreatedAt string          `json:"createdAt"`
	UpdatedAt string          `json:"updatedAt"`
}

// Invite is the full invite payload as returned to clients.
type Invite struct {
	HostID          string           `json:"host_id"`
	Name            string           `json:"name"`
	CoverImageMedia *string          `json:"cover_image_media"`
	StartDatetime   string           `json:"start_datetime"`
	Nights          int              `json:"nights"`
	LocationName    string           `json:"location_name"`
	LocationLat     string           `json:"location_lat"`
	LocationLng     string           `json:"location_lng"`
	PlaceID         string           `json:"place_id"`
	CategoryID      string           `json:"category_id"`
	Description     string           `json:"description"`
	SoftDelete      bool             `json:"soft_delete"`
	Countries       Countries        `json:"countries"`
	Tags            []string         `json:"tags"`
	ID              string           `json:"id"`
	CreatedAt       string           `json:"created_at"`
	UpdatedAt       string           `json:"updated_at"`
	Host            User             `json:"host"`
	Config          InviteConfig     `json:"config"`
	Category        Category         `json:"category"`
	CustomLinks     []CustomLink     `json:"custom_links"`
	Draft           *json.RawMessage `json:"draft"`
}

// Countries wraps the country range of a trip as {"countries": ...}.
type Countries struct {
	Countries *CountryRange `json:"countries"`
}

// InviteConfig holds guest-facing invite settings.
type InviteConfig struct {
	InviteID       string   `json:"invite_id"`
	Capacity       int      `json:"capacity"`
	EnableWaitlist bool     `json:"enable_waitlist"`
	GuestApproval  bool     `json:"guest_approval"`
	IsPublic       bool     `json:"is_public"`
	PasswordKey    string   `json:"password_key"`
	Status         string   `json:"status"`
	IsTicker       bool     `json:"is_ticker"`
	TickerText     string   `json:"ticker_text"`
	PlaceName      string   `json:"place_name"`
	Rules          []string `json:"rules"`
}

// Category of an invite.
type Category struct {
	Name string `json:"name"`
	ID   string `json:"id"`
}

// CustomLink is an emoji-labelled link shown on the invite.
type CustomLink struct {
	Emoji string `json:"emoji"`
	Label string `json:"label"`
	URL   string `json:"url"`
}

// CountryRange is the trip start and end country as submitted by the form.
type CountryRange struct {
	Start string `json:"start"`
	End   string `json:"end"`
}

// MediaFile is an uploaded cover image or video.
type MediaFile struct {
	Name        string
	ContentType string
	Size        int64
	Reader      io.Reader
}

// CreateInviteRequest contains parameters to create an invite.
type CreateInviteRequest struct {
	Name            string       `json:"name"`
	CoverImageMedia *MediaFile   `json:"-"`
	Nights          int          `json:"nights"`
	StartDatetime   string       `json:"start_datetime"`
	LocationName    string       `json:"location_name"`
	LocationLat     string       `json:"location_lat"`
	LocationLng     string       `json:"location_lng"`
	PlaceID         string       `json:"place_id"`
	CategoryID      string       `json:"category_id"`
	Description     string       `json:"description"`
	SoftDelete      bool         `json:"soft_delete"`
	Countries       CountryRange `json:"countries"`
	Tags            []string     `json:"tags"`
	Config          InviteConfig `json:"config"`
	CustomLinks     []CustomLink `json:"custom_links"`
}

// UpdateInviteRequest is a partial invite update. Nil fields are left untouched;
// Config is merged field by field.
type UpdateInviteRequest struct {
	Name            *string             `json:"name,omitempty"`
	CoverImageMedia *MediaFile          `json:"-"`
	Nights          *int                `json:"nights,omitempty"`
	StartDatetime   *string             `json:"start_datetime,omitempty"`
	LocationName    *string             `json:"location_name,omitempty"`
	LocationLat     *string             `json:"location_lat,omitempty"`
	LocationLng     *string             `json:"location_lng,omitempty"`
	PlaceID         *string             `json:"place_id,omitempty"`
	CategoryID      *string             `json:"category_id,omitempty"`
	Description     *string             `json:"description,omitempty"`
	SoftDelete      *bool               `json:"soft_delete,omitempty"`
	Countries       *CountryRange       `json:"countries,omitempty"`
	Tags            *[]string           `json:"tags,omitempty"`
	Config          *InviteConfigUpdate `json:"config,omitempty"`
	CustomLinks     *[]CustomLink       `json:"custom_links,omitempty"`
}

// InviteConfigUpdate is a partial config update.
type InviteConfigUpdate struct {
	Capacity       *int      `json:"capacity,omitempty"`
	EnableWaitlist *bool     `json:"enable_waitlist,omitempty"`
	GuestApproval  *bool     `json:"guest_approval,omitempty"`
	IsPublic       *bool     `json:"is_public,omitempty"`
	PasswordKey    *string   `json:"password_key,omitempty"`
	Status         *string   `json:"status,omitempty"`
	IsTicker       *bool     `json:"is_ticker,omitempty"`
	TickerText     *string   `json:"ticker_text,omitempty"`
	PlaceName      *string   `json:"place_name,omitempty"`
	Rules          *[]string `json:"rules,omitempty"`
}

// InvitePage is one page of the invite listing.
type InvitePage struct {
	Invites []Invite `json:"invites"`
	Total   int      `json:"total"`
	Page    int      `json:"page"`
	Limit   int      `json:"limit"`
}

// Draft is the envelope persisted under DraftKey.
type Draft struct {
	Data    json.RawMessage `json:"data"`
	SavedAt string          `json:"savedAt"`
}

// StorageInfo is an estimate of backend usage in bytes.
type StorageInfo struct {
	Used      int64 `json:"used"`
	Available int64 `json:"available"`
	Total     int64 `json:"total"`
}

// RepairReport describes what an index repair changed.
type RepairReport struct {
	Added   []string `json:"added"`
	Removed []string `json:"removed"`
	Indexed int      `json:"indexed"`
}
