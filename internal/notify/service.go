package notify

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
)

var ErrNotFound = errors.New("notification not found")

const listLimit = 50

type Service struct {
	repo Repository
}

func NewService(repo Repository) *Service {
	return &Service{repo: repo}
}

func (s *Service) Create(ctx context.Context, userID, title, message, typ, bookingID string) (Notification, error) {
	notification := Notification{
		ID:        uuid.NewString(),
		UserID:    userID,
		Title:     title,
		Message:   message,
		Type:      typ,
		Read:      false,
		BookingID: bookingID,
		CreatedAt: time.Now().UTC(),
	}
	if err := s.repo.Insert(ctx, notification); err != nil {
		return Notification{}, err
	}
	return notification, nil
}

func (s *Service) List(ctx context.Context, userID string) (ListResponse, error) {
	items, err := s.repo.ListByUser(ctx, userID, listLimit)
	if err != nil {
		return ListResponse{}, err
	}
	unread, err := s.repo.CountUnread(ctx, userID)
	if err != nil {
		return ListResponse{}, err
	}
	return ListResponse{Notifications: items, UnreadCount: unread}, nil
}

func (s *Service) MarkRead(ctx context.Context, id, userID string) error {
	matched, err := s.repo.MarkRead(ctx, id, userID)
	if err != nil {
		return err
	}
	if !matched {
		return ErrNotFound
	}
	return nil
}

func (s *Service) MarkAllRead(ctx context.Context, userID string) error {
	return s.repo.MarkAllRead(ctx, userID)
}

// DeleteByUser implements users.Eraser for account data erasure.
func (s *Service) DeleteByUser(ctx context.Context, userID string) error {
	return s.repo.DeleteByUser(ctx, userID)
}
