package store

import (
	"context"
	"fmt"
	"time"

	"ems/models"
)

const announcementColumns = `id, title, body, author_id, pinned, published_at, expires_at, created_at, updated_at`

func utcPtr(t *time.Time) *time.Time {
	if t == nil {
		return nil
	}
	u := t.UTC()
	return &u
}

func (s *Store) CreateAnnouncement(ctx context.Context, authorID string, req models.AnnouncementReq) (*models.Announcement, error) {
	now := s.timestamp()
	a := models.Announcement{
		ID:          newID(),
		Title:       req.Title,
		Body:        req.Body,
		AuthorID:    authorID,
		Pinned:      req.Pinned,
		PublishedAt: utcPtr(req.PublishedAt),
		ExpiresAt:   utcPtr(req.ExpiresAt),
		CreatedAt:   now,
		UpdatedAt:   now,
	}
	_, err := s.exec(ctx,
		`INSERT INTO announcements (`+announcementColumns+`) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		a.ID, a.Title, a.Body, a.AuthorID, a.Pinned, a.PublishedAt, a.ExpiresAt, a.CreatedAt, a.UpdatedAt,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to insert announcement: %w", err)
	}
	return &a, nil
}

func (s *Store) GetAnnouncement(ctx context.Context, id string) (*models.Announcement, error) {
	var a models.Announcement
	if err := s.get(ctx, &a, `SELECT `+announcementColumns+` FROM announcements WHERE id = ?`, id); err != nil {
		return nil, fmt.Errorf("failed to get announcement: %w", err)
	}
	return &a, nil
}

// ListAnnouncements returns pinned first, then newest. With activeAt set only
// announcements published by then and not yet expired are returned.
func (s *Store) ListAnnouncements(ctx context.Context, activeAt *time.Time) ([]models.Announcement, error) {
	query := `SELECT ` + announcementColumns + ` FROM announcements`
	var args []interface{}
	if activeAt != nil {
		at := activeAt.UTC()
		query += ` WHERE published_at IS NOT NULL AND published_at <= ? AND (expires_at IS NULL OR expires_at > ?)`
		args = append(args, at, at)
	}
	query += ` ORDER BY pinned DESC, published_at DESC, created_at DESC`

	list := []models.Announcement{}
	if err := s.selectAll(ctx, &list, query, args...); err != nil {
		return nil, fmt.Errorf("failed to list announcements: %w", err)
	}
	return list, nil
}

func (s *Store) UpdateAnnouncement(ctx context.Context, id string, req models.AnnouncementReq) error {
	err := s.execOne(ctx,
		`UPDATE announcements SET title = ?, body = ?, pinned = ?, published_at = ?, expires_at = ?, updated_at = ? WHERE id = ?`,
		req.Title, req.Body, req.Pinned, utcPtr(req.PublishedAt), utcPtr(req.ExpiresAt), s.timestamp(), id,
	)
	if err != nil {
		return fmt.Errorf("failed to update announcement: %w", err)
	}
	return nil
}

func (s *Store) DeleteAnnouncement(ctx context.Context, id string) error {
	if err := s.execOne(ctx, `DELETE FROM announcements WHERE id = ?`, id); err != nil {
		return fmt.Errorf("failed to delete announcement: %w", err)
	}
	return nil
}
