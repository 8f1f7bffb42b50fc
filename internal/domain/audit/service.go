package audit

import (
	"context"
	"database/sql"
	"encoding/json"
	"time"

	"github.com/google/uuid"

	"github.com/researchhub/researchhub-api/internal/pkg/apperr"
	"github.com/researchhub/researchhub-api/internal/pkg/logger"
)

// Service records and lists moderation actions
type Service struct {
	repo Repository
}

// NewService creates audit service
func NewService(repo Repository) *Service {
	return &Service{repo: repo}
}

// LogAction writes an audit entry. Failures are logged and never returned.
func (s *Service) LogAction(ctx context.Context, e Entry) {
	entry := &Log{
		ID:         uuid.New(),
		ActorID:    uuid.NullUUID{UUID: e.ActorID, Valid: e.ActorID != uuid.Nil},
		Action:     e.Action,
		EntityType: e.EntityType,
		EntityID:   uuid.NullUUID{UUID: e.EntityID, Valid: e.EntityID != uuid.Nil},
		OldValue:   marshalValue(e.OldValue),
		NewValue:   marshalValue(e.NewValue),
		Reason:     sql.NullString{String: e.Reason, Valid: e.Reason != ""},
		CreatedAt:  time.Now(),
	}

	if err := s.repo.Create(ctx, entry); err != nil {
		logger.FromContext(ctx).Error().
			Err(err).
			Str("action", e.Action).
			Str("entity_id", e.EntityID.String()).
			Msg("Failed to create audit log")
	}
}

func marshalValue(v interface{}) json.RawMessage {
	if v == nil {
		return nil
	}
	data, err := json.Marshal(v)
	if err != nil {
		return nil
	}
	return data
}

// List returns audit entries matching filter
func (s *Service) List(ctx context.Context, filter Filter) ([]*Log, int, error) {
	logs, total, err := s.repo.List(ctx, filter)
	if err != nil {
		return nil, 0, apperr.Storage("list audit logs", err)
	}
	return logs, total, nil
}
