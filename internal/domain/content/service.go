package content

import (
	"context"
	"database/sql"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/researchhub/researchhub-api/internal/domain/audit"
	"github.com/researchhub/researchhub-api/internal/domain/notification"
	"github.com/researchhub/researchhub-api/internal/pkg/apperr"
	"github.com/researchhub/researchhub-api/internal/pkg/logger"
	"github.com/researchhub/researchhub-api/internal/pkg/metrics"
)

// Notifier creates in-app notifications
type Notifier interface {
	Create(ctx context.Context, userID uuid.UUID, notifType notification.Type, title, body string, data *notification.NotificationData) (*notification.Notification, error)
}

// AuditLogger records moderation actions
type AuditLogger interface {
	LogAction(ctx context.Context, entry audit.Entry)
}

// Service handles content moderation state
type Service struct {
	repo     Repository
	notifier Notifier
	audit    AuditLogger
	metrics  *metrics.ModerationMetrics
}

// NewService creates content service
func NewService(repo Repository, notifier Notifier, auditLogger AuditLogger, m *metrics.ModerationMetrics) *Service {
	return &Service{repo: repo, notifier: notifier, audit: auditLogger, metrics: m}
}

// Get returns a content item
func (s *Service) Get(ctx context.Context, id uuid.UUID) (*Content, error) {
	c, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, apperr.Storage("get content", err)
	}
	if c == nil {
		return nil, ErrContentNotFound
	}
	return c, nil
}

// Reject marks a content item rejected and tells its author
func (s *Service) Reject(ctx context.Context, moderatorID, contentID uuid.UUID, reason string) (*Content, error) {
	reason = strings.TrimSpace(reason)
	if reason == "" {
		return nil, ErrReasonRequired
	}

	c, err := s.Get(ctx, contentID)
	if err != nil {
		return nil, err
	}
	if c.IsRejected() {
		return nil, ErrAlreadyRejected
	}

	ok, err := s.repo.Reject(ctx, contentID, moderatorID, reason)
	if err != nil {
		return nil, apperr.Storage("reject content", err)
	}
	if !ok {
		// Rejected concurrently by another moderator
		return nil, ErrAlreadyRejected
	}

	previous := c.ApprovalStatus
	c.ApprovalStatus = ApprovalRejected
	c.RejectionReason.String, c.RejectionReason.Valid = reason, true
	c.RejectedBy = uuid.NullUUID{UUID: moderatorID, Valid: moderatorID != uuid.Nil}
	now := time.Now()
	c.RejectedAt = sql.NullTime{Time: now, Valid: true}
	c.UpdatedAt = now

	s.audit.LogAction(ctx, audit.Entry{
		ActorID:    moderatorID,
		Action:     audit.ActionContentReject,
		EntityType: audit.EntityContent,
		EntityID:   contentID,
		OldValue:   map[string]string{"approval_status": string(previous)},
		NewValue:   map[string]string{"approval_status": string(ApprovalRejected)},
		Reason:     reason,
	})

	s.notifyAuthor(ctx, c, reason)
	return c, nil
}

func (s *Service) notifyAuthor(ctx context.Context, c *Content, reason string) {
	_, err := s.notifier.Create(ctx, c.AuthorID, notification.TypeContentRejected,
		"Your content was rejected",
		"\""+c.Title+"\" was rejected by a moderator. Reason: "+reason+". You can file an appeal if you disagree.",
		&notification.NotificationData{ContentID: &c.ID, Link: notification.ContentLink(c.ID)},
	)
	if err != nil {
		s.metrics.RecordNotificationSoftFailure(string(notification.TypeContentRejected))
		logger.FromContext(ctx).Warn().
			Err(err).
			Str("content_id", c.ID.String()).
			Str("user_id", c.AuthorID.String()).
			Msg("Content rejection notification failed")
	}
}
