package models

import (
	"strings"
	"time"
)

type Announcement struct {
	ID          string     `db:"id" json:"id"`
	Title       string     `db:"title" json:"title"`
	Body        string     `db:"body" json:"body"`
	AuthorID    string     `db:"author_id" json:"author_id"`
	Pinned      bool       `db:"pinned" json:"pinned"`
	PublishedAt *time.Time `db:"published_at" json:"published_at"`
	ExpiresAt   *time.Time `db:"expires_at" json:"expires_at,omitempty"`
	CreatedAt   time.Time  `db:"created_at" json:"created_at"`
	UpdatedAt   time.Time  `db:"updated_at" json:"updated_at"`
}

// AnnouncementReq leaves PublishedAt nil for drafts.
type AnnouncementReq struct {
	Title       string     `json:"title"`
	Body        string     `json:"body"`
	Pinned      bool       `json:"pinned"`
	PublishedAt *time.Time `json:"published_at"`
	ExpiresAt   *time.Time `json:"expires_at"`
}

func (r *AnnouncementReq) Validate() error {
	r.Title = strings.TrimSpace(r.Title)
	if r.Title == "" {
		return Invalid("title", "is required")
	}
	if strings.TrimSpace(r.Body) == "" {
		return Invalid("body", "is required")
	}
	if r.PublishedAt != nil && r.ExpiresAt != nil && !r.ExpiresAt.After(*r.PublishedAt) {
		return Invalid("expires_at", "must be after published_at")
	}
	return nil
}
