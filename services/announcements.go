package services

import (
	"context"

	"ems/models"
	"ems/store"
	"ems/utils"
)

type AnnouncementService struct {
	store *store.Store
	clock utils.Clock
}

func NewAnnouncementService(st *store.Store, clock utils.Clock) *AnnouncementService {
	return &AnnouncementService{store: st, clock: clock}
}

func (s *AnnouncementService) Create(ctx context.Context, authorID string, req models.AnnouncementReq) (*models.Announcement, error) {
	if err := req.Validate(); err != nil {
		return nil, err
	}
	return s.store.CreateAnnouncement(ctx, authorID, req)
}

func (s *AnnouncementService) Get(ctx context.Context, id string) (*models.Announcement, error) {
	return s.store.GetAnnouncement(ctx, id)
}

// List returns the announcements visible now, or every one when all is set.
func (s *AnnouncementService) List(ctx context.Context, all bool) ([]models.Announcement, error) {
	if all {
		return s.store.ListAnnouncements(ctx, nil)
	}
	now := s.clock.Now()
	return s.store.ListAnnouncements(ctx, &now)
}

func (s *AnnouncementService) Update(ctx context.Context, id string, req models.AnnouncementReq) (*models.Announcement, error) {
	if err := req.Validate(); err != nil {
		return nil, err
	}
	if err := s.store.UpdateAnnouncement(ctx, id, req); err != nil {
		return nil, err
	}
	return s.store.GetAnnouncement(ctx, id)
}

func (s *AnnouncementService) Delete(ctx context.Context, id string) error {
	return s.store.DeleteAnnouncement(ctx, id)
}
