package moderation

import (
	"context"
	"database/sql"
	"errors"
	"math"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/researchhub/researchhub-api/internal/domain/audit"
	"github.com/researchhub/researchhub-api/internal/domain/notification"
	"github.com/researchhub/researchhub-api/internal/pkg/apperr"
	"github.com/researchhub/researchhub-api/internal/pkg/logger"
	"github.com/researchhub/researchhub-api/internal/pkg/metrics"
)

// MaxBulkIDs caps a single bulk resolve or dismiss
const MaxBulkIDs = 500

// ContentChecker reports whether a content item exists
type ContentChecker interface {
	Exists(ctx context.Context, id uuid.UUID) (bool, error)
}

// Notifier creates in-app notifications
type Notifier interface {
	Create(ctx context.Context, userID uuid.UUID, notifType notification.Type, title, body string, data *notification.NotificationData) (*notification.Notification, error)
}

// AuditLogger records moderation actions
type AuditLogger interface {
	LogAction(ctx context.Context, entry audit.Entry)
}

// Service handles report intake, triage and resolution
type Service struct {
	repo       Repository
	classifier Classifier
	content    ContentChecker
	notifier   Notifier
	audit      AuditLogger
	metrics    *metrics.ModerationMetrics
}

// NewService creates moderation service
func NewService(repo Repository, classifier Classifier, content ContentChecker, notifier Notifier, auditLogger AuditLogger, m *metrics.ModerationMetrics) *Service {
	return &Service{
		repo:       repo,
		classifier: classifier,
		content:    content,
		notifier:   notifier,
		audit:      auditLogger,
		metrics:    m,
	}
}

// CreateReport flags a content item on behalf of reporterID
func (s *Service) CreateReport(ctx context.Context, reporterID uuid.UUID, req *CreateReportRequest) (*Report, error) {
	if !req.Reason.Valid() {
		return nil, ErrInvalidReportReason
	}

	exists, err := s.content.Exists(ctx, req.ContentID)
	if err != nil {
		return nil, apperr.Storage("check content", err)
	}
	if !exists {
		return nil, ErrContentNotFound
	}

	dup, err := s.repo.HasOpenReport(ctx, req.ContentID, reporterID)
	if err != nil {
		return nil, apperr.Storage("check open report", err)
	}
	if dup {
		return nil, ErrDuplicateReport
	}

	now := time.Now()
	report := &Report{
		ID:             uuid.New(),
		ContentID:      req.ContentID,
		ReporterUserID: uuid.NullUUID{UUID: reporterID, Valid: reporterID != uuid.Nil},
		Reason:         req.Reason,
		Status:         ReportStatusPending,
		CreatedAt:      now,
		UpdatedAt:      now,
	}
	if details := strings.TrimSpace(req.Details); details != "" {
		report.Details = sql.NullString{String: details, Valid: true}
	}

	if err := s.repo.CreateReport(ctx, report); err != nil {
		return nil, apperr.Storage("create report", err)
	}

	logger.FromContext(ctx).Info().
		Str("report_id", report.ID.String()).
		Str("content_id", report.ContentID.String()).
		Str("reason", string(report.Reason)).
		Msg("Report created")

	return report, nil
}

// ListMyReports returns reports filed by reporterID
func (s *Service) ListMyReports(ctx context.Context, reporterID uuid.UUID) ([]*Report, error) {
	reports, err := s.repo.ListReportsByReporter(ctx, reporterID)
	if err != nil {
		return nil, apperr.Storage("list reports", err)
	}
	return reports, nil
}

// ListOpenReports returns the triage queue. Severity is computed on every call.
func (s *Service) ListOpenReports(ctx context.Context, q ListOpenReportsQuery) (*TriageResponse, error) {
	sortBy, ok := ParseSortBy(q.Sort)
	if !ok {
		return nil, ErrInvalidSort
	}
	if q.Severity != "" && q.Severity != SeverityAll && !Severity(q.Severity).Valid() {
		return nil, ErrInvalidSeverity
	}

	rows, err := s.repo.ListOpenReports(ctx)
	if err != nil {
		return nil, apperr.Storage("list open reports", err)
	}
	s.metrics.ObserveOpenQueue(len(rows))

	items := make([]*TriageItem, len(rows))
	for i, row := range rows {
		items[i] = newTriageItem(row, s.classifier)
	}

	items = FilterBySeverity(items, q.Severity)
	SortItems(items, sortBy)

	return &TriageResponse{
		Items:   items,
		Summary: Summarize(items),
		Sort:    sortBy,
	}, nil
}

// GetReport returns a single report with its current severity
func (s *Service) GetReport(ctx context.Context, id uuid.UUID) (*TriageItem, error) {
	report, err := s.getReport(ctx, id)
	if err != nil {
		return nil, err
	}
	return &TriageItem{Report: report, Severity: s.classifier.ClassifyReport(report)}, nil
}

func (s *Service) getReport(ctx context.Context, id uuid.UUID) (*Report, error) {
	report, err := s.repo.GetReportByID(ctx, id)
	if err != nil {
		return nil, apperr.Storage("get report", err)
	}
	if report == nil {
		return nil, ErrReportNotFound
	}
	return report, nil
}

// StartReview claims a pending report for review
func (s *Service) StartReview(ctx context.Context, moderatorID, id uuid.UUID) (*Report, error) {
	return s.transition(ctx, moderatorID, id, []ReportStatus{ReportStatusPending}, ReportStatusReviewing, "", audit.ActionReportReview)
}

// ResolveReport closes an open report as resolved. The reporter is only
// notified when req.NotifyReporter is set.
func (s *Service) ResolveReport(ctx context.Context, moderatorID, id uuid.UUID, req *ResolveReportRequest) (*Report, error) {
	report, err := s.transition(ctx, moderatorID, id, OpenStatuses, ReportStatusResolved, strings.TrimSpace(req.Notes), audit.ActionReportResolve)
	if err != nil {
		return nil, err
	}

	if req.NotifyReporter && report.ReporterUserID.Valid {
		s.notifyReporter(ctx, report)
	}
	return report, nil
}

// DismissReport closes an open report as dismissed
func (s *Service) DismissReport(ctx context.Context, moderatorID, id uuid.UUID, notes string) (*Report, error) {
	return s.transition(ctx, moderatorID, id, OpenStatuses, ReportStatusDismissed, strings.TrimSpace(notes), audit.ActionReportDismiss)
}

// transition applies a compare-and-swap status change. A report that is no
// longer in one of the from statuses is left untouched.
func (s *Service) transition(ctx context.Context, actorID, id uuid.UUID, from []ReportStatus, to ReportStatus, notes, action string) (*Report, error) {
	report, err := s.getReport(ctx, id)
	if err != nil {
		return nil, err
	}
	if !statusIn(report.Status, from) {
		return nil, ErrReportNotOpen
	}

	ok, err := s.repo.TransitionReport(ctx, id, from, to, actorID, notes)
	if err != nil {
		return nil, apperr.Storage("transition report", err)
	}
	if !ok {
		// Another moderator moved it first
		return nil, ErrReportNotOpen
	}

	previous := report.Status
	report.Status = to
	report.UpdatedAt = time.Now()
	if notes != "" {
		report.AdminNotes = sql.NullString{String: notes, Valid: true}
	}
	if !to.IsOpen() {
		report.ResolvedAt = sql.NullTime{Time: report.UpdatedAt, Valid: true}
		report.ResolvedBy = uuid.NullUUID{UUID: actorID, Valid: actorID != uuid.Nil}
	}

	s.metrics.RecordReportTransition(string(to), "single", 1)
	s.audit.LogAction(ctx, audit.Entry{
		ActorID:    actorID,
		Action:     action,
		EntityType: audit.EntityReport,
		EntityID:   id,
		OldValue:   map[string]string{"status": string(previous)},
		NewValue:   map[string]string{"status": string(to)},
		Reason:     notes,
	})

	return report, nil
}

func statusIn(status ReportStatus, set []ReportStatus) bool {
	for _, s := range set {
		if s == status {
			return true
		}
	}
	return false
}

func (s *Service) notifyReporter(ctx context.Context, report *Report) {
	_, err := s.notifier.Create(ctx, report.ReporterUserID.UUID, notification.TypeReportResolved,
		"Your report was reviewed",
		"Thanks for your report. A moderator reviewed it and took action.",
		&notification.NotificationData{
			ContentID: &report.ContentID,
			ReportID:  &report.ID,
			Link:      notification.ContentLink(report.ContentID),
		},
	)
	if err != nil {
		s.metrics.RecordNotificationSoftFailure(string(notification.TypeReportResolved))
		logger.FromContext(ctx).Warn().
			Err(err).
			Str("report_id", report.ID.String()).
			Str("user_id", report.ReporterUserID.UUID.String()).
			Msg("Report resolution notification failed")
	}
}

// BulkResolve resolves every id or none
func (s *Service) BulkResolve(ctx context.Context, moderatorID uuid.UUID, ids []uuid.UUID) (int, error) {
	return s.bulk(ctx, moderatorID, ids, ReportStatusResolved)
}

// BulkDismiss dismisses every id or none
func (s *Service) BulkDismiss(ctx context.Context, moderatorID uuid.UUID, ids []uuid.UUID) (int, error) {
	return s.bulk(ctx, moderatorID, ids, ReportStatusDismissed)
}

func (s *Service) bulk(ctx context.Context, actorID uuid.UUID, ids []uuid.UUID, to ReportStatus) (int, error) {
	ids = dedupe(ids)
	if len(ids) == 0 {
		return 0, nil
	}
	if len(ids) > MaxBulkIDs {
		return 0, ErrBulkTooLarge
	}

	updated, err := s.repo.BulkTransition(ctx, ids, to, actorID)
	if err != nil {
		if errors.Is(err, ErrReportNotOpen) {
			return 0, err
		}
		return 0, apperr.Storage("bulk transition reports", err)
	}

	s.metrics.RecordReportTransition(string(to), "bulk", updated)
	for _, id := range ids {
		s.audit.LogAction(ctx, audit.Entry{
			ActorID:    actorID,
			Action:     audit.ActionReportBulk,
			EntityType: audit.EntityReport,
			EntityID:   id,
			NewValue:   map[string]string{"status": string(to)},
		})
	}

	logger.FromContext(ctx).Info().
		Int("count", updated).
		Str("status", string(to)).
		Str("moderator_id", actorID.String()).
		Msg("Bulk report transition")

	return updated, nil
}

func dedupe(ids []uuid.UUID) []uuid.UUID {
	seen := make(map[uuid.UUID]struct{}, len(ids))
	out := make([]uuid.UUID, 0, len(ids))
	for _, id := range ids {
		if _, ok := seen[id]; ok {
			continue
		}
		seen[id] = struct{}{}
		out = append(out, id)
	}
	return out
}

// UpdateConfidence stores a classifier score; the next read reclassifies the report
func (s *Service) UpdateConfidence(ctx context.Context, actorID, id uuid.UUID, score float64) (*TriageItem, error) {
	if math.IsNaN(score) || score < 0 || score > 1 {
		return nil, ErrInvalidConfidence
	}

	ok, err := s.repo.UpdateConfidence(ctx, id, score)
	if err != nil {
		return nil, apperr.Storage("update confidence", err)
	}
	if !ok {
		return nil, ErrReportNotFound
	}

	s.audit.LogAction(ctx, audit.Entry{
		ActorID:    actorID,
		Action:     audit.ActionReportConfidence,
		EntityType: audit.EntityReport,
		EntityID:   id,
		NewValue:   map[string]float64{"confidence_score": score},
	})

	return s.GetReport(ctx, id)
}
