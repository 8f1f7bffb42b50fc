package notification

import (
	"context"
	"database/sql"
	"time"

	"github.com/google/uuid"

	"github.com/researchhub/researchhub-api/internal/pkg/apperr"
	"github.com/researchhub/researchhub-api/internal/pkg/logger"
)

// Service handles notification logic
type Service struct {
	repo      Repository
	publisher RealtimePublisher
}

// NewService creates notification service. publisher may be nil.
func NewService(repo Repository, publisher RealtimePublisher) *Service {
	return &Service{repo: repo, publisher: publisher}
}

// Create stores a notification and pushes it to connected clients.
// Only the insert can fail the call; realtime delivery is best effort.
func (s *Service) Create(ctx context.Context, userID uuid.UUID, notifType Type, title, body string, data *NotificationData) (*Notification, error) {
	n := &Notification{
		ID:        uuid.New(),
		UserID:    userID,
		Type:      notifType,
		Title:     title,
		IsRead:    false,
		CreatedAt: time.Now(),
	}

	if body != "" {
		n.Body = sql.NullString{String: body, Valid: true}
	}
	n.SetData(data)

	if err := s.repo.Create(ctx, n); err != nil {
		return nil, apperr.Storage("create notification", err)
	}

	s.publish(ctx, n)
	return n, nil
}

func (s *Service) publish(ctx context.Context, n *Notification) {
	if s.publisher == nil {
		return
	}

	unread, err := s.repo.CountUnreadByUser(ctx, n.UserID)
	if err != nil {
		unread = -1
	}

	if err := s.publisher.NotifyNew(ctx, n.UserID, NotificationResponseFromEntity(n), unread); err != nil {
		logger.FromContext(ctx).Warn().
			Err(err).
			Str("user_id", n.UserID.String()).
			Str("notification_id", n.ID.String()).
			Msg("Realtime notification publish failed")
	}
}

// List returns notifications for user
func (s *Service) List(ctx context.Context, userID uuid.UUID, limit, offset int) ([]*Notification, error) {
	items, err := s.repo.ListByUser(ctx, userID, limit, offset)
	return items, apperr.Storage("list notifications", err)
}

// GetUnreadCount returns unread count
func (s *Service) GetUnreadCount(ctx context.Context, userID uuid.UUID) (int, error) {
	count, err := s.repo.CountUnreadByUser(ctx, userID)
	return count, apperr.Storage("count unread notifications", err)
}

// MarkAsRead marks a single notification of userID as read
func (s *Service) MarkAsRead(ctx context.Context, id, userID uuid.UUID) error {
	ok, err := s.repo.MarkAsRead(ctx, id, userID)
	if err != nil {
		return apperr.Storage("mark notification read", err)
	}
	if !ok {
		return ErrNotificationNotFound
	}
	return nil
}

// MarkAllAsRead marks all notifications as read
func (s *Service) MarkAllAsRead(ctx context.Context, userID uuid.UUID) error {
	return apperr.Storage("mark all notifications read", s.repo.MarkAllAsRead(ctx, userID))
}
