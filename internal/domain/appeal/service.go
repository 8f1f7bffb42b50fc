package appeal

import (
	"context"
	"database/sql"
	"errors"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/researchhub/researchhub-api/internal/domain/audit"
	"github.com/researchhub/researchhub-api/internal/domain/content"
	"github.com/researchhub/researchhub-api/internal/domain/notification"
	"github.com/researchhub/researchhub-api/internal/pkg/apperr"
	"github.com/researchhub/researchhub-api/internal/pkg/lock"
	"github.com/researchhub/researchhub-api/internal/pkg/logger"
	"github.com/researchhub/researchhub-api/internal/pkg/metrics"
)

const defaultLockTTL = 30 * time.Second

// ContentStore reads and restores the appealed content
type ContentStore interface {
	GetByID(ctx context.Context, id uuid.UUID) (*content.Content, error)
	Restore(ctx context.Context, id uuid.UUID) (bool, error)
}

// Notifier creates in-app notifications
type Notifier interface {
	Create(ctx context.Context, userID uuid.UUID, notifType notification.Type, title, body string, data *notification.NotificationData) (*notification.Notification, error)
}

// AuditLogger records moderation actions
type AuditLogger interface {
	LogAction(ctx context.Context, entry audit.Entry)
}

// Service handles appeal filing and decisions
type Service struct {
	repo     Repository
	content  ContentStore
	notifier Notifier
	audit    AuditLogger
	locker   lock.Locker
	lockTTL  time.Duration
	metrics  *metrics.ModerationMetrics
}

// NewService creates appeal service
func NewService(repo Repository, contentStore ContentStore, notifier Notifier, auditLogger AuditLogger, locker lock.Locker, lockTTL time.Duration, m *metrics.ModerationMetrics) *Service {
	if lockTTL <= 0 {
		lockTTL = defaultLockTTL
	}
	return &Service{
		repo:     repo,
		content:  contentStore,
		notifier: notifier,
		audit:    auditLogger,
		locker:   locker,
		lockTTL:  lockTTL,
		metrics:  m,
	}
}

// FileAppeal lets the author of a rejected content item dispute the rejection
func (s *Service) FileAppeal(ctx context.Context, userID uuid.UUID, req *CreateAppealRequest) (*Appeal, error) {
	c, err := s.content.GetByID(ctx, req.ContentID)
	if err != nil {
		return nil, apperr.Storage("get content", err)
	}
	if c == nil {
		return nil, ErrContentNotFound
	}
	if c.AuthorID != userID {
		return nil, ErrNotContentAuthor
	}
	if !c.IsRejected() {
		return nil, ErrContentNotRejected
	}

	pending, err := s.repo.HasPending(ctx, c.ID)
	if err != nil {
		return nil, apperr.Storage("check pending appeal", err)
	}
	if pending {
		return nil, ErrAppealAlreadyExists
	}

	now := time.Now()
	a := &Appeal{
		ID:        uuid.New(),
		ContentID: c.ID,
		UserID:    userID,
		Reason:    strings.TrimSpace(req.Reason),
		Status:    StatusPending,
		CreatedAt: now,
		UpdatedAt: now,
	}
	if err := s.repo.Create(ctx, a); err != nil {
		if errors.Is(err, ErrAppealAlreadyExists) {
			return nil, err
		}
		return nil, apperr.Storage("create appeal", err)
	}

	logger.FromContext(ctx).Info().
		Str("appeal_id", a.ID.String()).
		Str("content_id", a.ContentID.String()).
		Msg("Appeal filed")

	return a, nil
}

// ListMine returns appeals filed by userID
func (s *Service) ListMine(ctx context.Context, userID uuid.UUID) ([]*Appeal, error) {
	appeals, err := s.repo.ListByUser(ctx, userID)
	if err != nil {
		return nil, apperr.Storage("list appeals", err)
	}
	return appeals, nil
}

// List returns appeals, optionally restricted to one status
func (s *Service) List(ctx context.Context, status string, limit, offset int) ([]*Appeal, error) {
	var filter *Status
	if status != "" {
		st := Status(status)
		if !st.Valid() {
			return nil, ErrInvalidStatus
		}
		filter = &st
	}

	appeals, err := s.repo.List(ctx, filter, limit, offset)
	if err != nil {
		return nil, apperr.Storage("list appeals", err)
	}
	return appeals, nil
}

// Get returns an appeal by id
func (s *Service) Get(ctx context.Context, id uuid.UUID) (*Appeal, error) {
	a, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, apperr.Storage("get appeal", err)
	}
	if a == nil {
		return nil, ErrAppealNotFound
	}
	return a, nil
}

// DecideAppeal applies an admin decision to a pending appeal.
//
// Steps run strictly in order: the appeal is updated, the content is restored
// when approved, then the filer is notified. A failure in either of the first
// two steps is returned as an error together with whatever was applied. A
// notification failure is reported in the result only.
func (s *Service) DecideAppeal(ctx context.Context, adminID, appealID uuid.UUID, decision Status, adminResponse string) (*DecisionResult, error) {
	if !decision.IsDecision() {
		return nil, ErrInvalidDecision
	}
	response := strings.TrimSpace(adminResponse)
	if decision == StatusRevisionRequested && response == "" {
		return nil, ErrResponseRequired
	}

	release, err := s.acquire(ctx, appealID)
	if err != nil {
		return nil, err
	}
	defer release()

	a, err := s.Get(ctx, appealID)
	if err != nil {
		return nil, err
	}
	if a.Status != StatusPending {
		return nil, ErrAppealNotPending
	}

	log := logger.FromContext(ctx).With().
		Str("appeal_id", a.ID.String()).
		Str("decision", string(decision)).
		Logger()

	result := &DecisionResult{Appeal: a}

	// Step 1: the appeal itself
	stored := sql.NullString{String: response, Valid: response != ""}
	ok, err := s.repo.UpdateDecision(ctx, a.ID, decision, stored, adminID)
	if err != nil {
		return nil, apperr.Storage("update appeal", err)
	}
	if !ok {
		return nil, ErrAppealNotPending
	}

	previous := a.Status
	a.Status = decision
	a.AdminResponse = stored
	a.DecidedBy = uuid.NullUUID{UUID: adminID, Valid: adminID != uuid.Nil}
	a.DecidedAt = sql.NullTime{Time: time.Now(), Valid: true}
	result.Applied = append(result.Applied, EffectAppealUpdated)

	// Step 2: restore content on approval
	if decision == StatusApproved {
		if err := s.restoreContent(ctx, a.ContentID); err != nil {
			log.Error().Err(err).Msg("Content restore failed, reverting appeal decision")
			if s.revert(ctx, a, previous) {
				result.Applied = nil
			} else {
				result.CompensationFailed = true
			}
			return result, err
		}
		result.Applied = append(result.Applied, EffectContentRestored)
	}

	s.metrics.RecordAppealDecision(string(decision))
	s.audit.LogAction(ctx, audit.Entry{
		ActorID:    adminID,
		Action:     audit.ActionAppealDecide,
		EntityType: audit.EntityAppeal,
		EntityID:   a.ID,
		OldValue:   map[string]string{"status": string(previous)},
		NewValue:   map[string]string{"status": string(decision)},
		Reason:     response,
	})

	// Step 3: notify the filer, best effort
	msg := composeMessage(decision, response)
	_, err = s.notifier.Create(ctx, a.UserID, msg.Type, msg.Title, msg.Body, &notification.NotificationData{
		ContentID: &a.ContentID,
		AppealID:  &a.ID,
		Link:      notification.ContentLink(a.ContentID),
	})
	if err != nil {
		result.NotificationErr = err
		s.metrics.RecordNotificationSoftFailure(string(msg.Type))
		log.Warn().
			Err(err).
			Str("user_id", a.UserID.String()).
			Msg("Appeal decision notification failed")
	} else {
		result.Applied = append(result.Applied, EffectNotificationSent)
	}

	log.Info().Strs("applied", effectNames(result.Applied)).Msg("Appeal decided")
	return result, nil
}

func (s *Service) acquire(ctx context.Context, appealID uuid.UUID) (func(), error) {
	if s.locker == nil {
		return func() {}, nil
	}

	release, err := s.locker.Acquire(ctx, "appeal:decision:"+appealID.String(), s.lockTTL)
	switch {
	case err == nil:
		return release, nil
	case errors.Is(err, lock.ErrHeld):
		return nil, ErrDecisionInProgress
	default:
		// The status check in UpdateDecision still rejects a second decision
		logger.FromContext(ctx).Warn().Err(err).Str("appeal_id", appealID.String()).Msg("Decision lock unavailable")
		return func() {}, nil
	}
}

func (s *Service) restoreContent(ctx context.Context, contentID uuid.UUID) error {
	ok, err := s.content.Restore(ctx, contentID)
	if err != nil {
		return apperr.Storage("restore content", err)
	}
	if !ok {
		return ErrContentNotFound
	}
	return nil
}

// revert undoes step 1 after step 2 failed. It reports whether the appeal is
// pending again.
func (s *Service) revert(ctx context.Context, a *Appeal, previous Status) bool {
	ok, err := s.repo.ResetDecision(ctx, a.ID, a.Status)
	if err != nil || !ok {
		logger.FromContext(ctx).Error().
			Err(err).
			Str("appeal_id", a.ID.String()).
			Msg("Failed to revert appeal decision")
		return false
	}

	a.Status = previous
	a.AdminResponse = sql.NullString{}
	a.DecidedBy = uuid.NullUUID{}
	a.DecidedAt = sql.NullTime{}
	return true
}

func effectNames(effects []SideEffect) []string {
	names := make([]string, len(effects))
	for i, e := range effects {
		names[i] = string(e)
	}
	return names
}
