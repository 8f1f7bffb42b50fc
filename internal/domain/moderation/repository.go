package moderation

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
	"github.com/lib/pq"

	"github.com/researchhub/researchhub-api/internal/pkg/database"
)

// Repository defines moderation data access interface
type Repository interface {
	CreateReport(ctx context.Context, report *Report) error
	GetReportByID(ctx context.Context, id uuid.UUID) (*Report, error)
	HasOpenReport(ctx context.Context, contentID, reporterID uuid.UUID) (bool, error)
	ListReportsByReporter(ctx context.Context, reporterID uuid.UUID) ([]*Report, error)
	ListOpenReports(ctx context.Context) ([]*openReportRow, error)

	// TransitionReport moves a report to status `to` only if its current status
	// is one of `from`. It returns false when no row matched.
	TransitionReport(ctx context.Context, id uuid.UUID, from []ReportStatus, to ReportStatus, actorID uuid.UUID, notes string) (bool, error)

	// BulkTransition closes every id in one transaction. Either all ids are
	// open and move to `to`, or nothing changes and ErrReportNotOpen is returned.
	BulkTransition(ctx context.Context, ids []uuid.UUID, to ReportStatus, actorID uuid.UUID) (int, error)

	UpdateConfidence(ctx context.Context, id uuid.UUID, score float64) (bool, error)
}

type repository struct {
	db *sqlx.DB
}

// NewRepository creates new moderation repository
func NewRepository(db *sqlx.DB) Repository {
	return &repository{db: db}
}

func openStatusArray() pq.StringArray {
	return statusArray(OpenStatuses)
}

func statusArray(statuses []ReportStatus) pq.StringArray {
	out := make(pq.StringArray, len(statuses))
	for i, s := range statuses {
		out[i] = string(s)
	}
	return out
}

func (r *repository) CreateReport(ctx context.Context, report *Report) error {
	query := `
		INSERT INTO reports (
			id, content_id, reporter_user_id, reason, details,
			status, confidence_score, created_at, updated_at
		) VALUES (
			$1, $2, $3, $4, $5, $6, $7, $8, $9
		)
	`
	_, err := r.db.ExecContext(ctx, query,
		report.ID,
		report.ContentID,
		report.ReporterUserID,
		report.Reason,
		report.Details,
		report.Status,
		report.ConfidenceScore,
		report.CreatedAt,
		report.UpdatedAt,
	)
	return err
}

func (r *repository) GetReportByID(ctx context.Context, id uuid.UUID) (*Report, error) {
	query := `SELECT * FROM reports WHERE id = $1`
	var report Report
	err := r.db.GetContext(ctx, &report, query, id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, err
	}
	return &report, nil
}

func (r *repository) HasOpenReport(ctx context.Context, contentID, reporterID uuid.UUID) (bool, error) {
	query := `
		SELECT EXISTS(
			SELECT 1 FROM reports
			WHERE content_id = $1 AND reporter_user_id = $2 AND status = ANY($3)
		)
	`
	var exists bool
	err := r.db.GetContext(ctx, &exists, query, contentID, reporterID, openStatusArray())
	return exists, err
}

func (r *repository) ListReportsByReporter(ctx context.Context, reporterID uuid.UUID) ([]*Report, error) {
	query := `
		SELECT * FROM reports
		WHERE reporter_user_id = $1
		ORDER BY created_at DESC
	`
	var reports []*Report
	err := r.db.SelectContext(ctx, &reports, query, reporterID)
	return reports, err
}

func (r *repository) ListOpenReports(ctx context.Context) ([]*openReportRow, error) {
	query := `
		SELECT r.*,
		       p.title           AS content_title,
		       p.kind            AS content_kind,
		       p.author_id       AS content_author_id,
		       p.approval_status AS content_approval_status,
		       u.display_name    AS reporter_name
		FROM reports r
		LEFT JOIN posts p ON p.id = r.content_id
		LEFT JOIN users u ON u.id = r.reporter_user_id
		WHERE r.status = ANY($1)
		ORDER BY r.created_at DESC, r.id
	`
	var rows []*openReportRow
	err := r.db.SelectContext(ctx, &rows, query, openStatusArray())
	return rows, err
}

func (r *repository) TransitionReport(ctx context.Context, id uuid.UUID, from []ReportStatus, to ReportStatus, actorID uuid.UUID, notes string) (bool, error) {
	var resolvedAt sql.NullTime
	var resolvedBy uuid.NullUUID
	if !to.IsOpen() {
		resolvedAt = sql.NullTime{Time: time.Now(), Valid: true}
		resolvedBy = uuid.NullUUID{UUID: actorID, Valid: actorID != uuid.Nil}
	}

	query := `
		UPDATE reports
		SET status = $1,
		    admin_notes = COALESCE(NULLIF($2, ''), admin_notes),
		    resolved_at = $3,
		    resolved_by = $4,
		    updated_at = NOW()
		WHERE id = $5 AND status = ANY($6)
	`
	result, err := r.db.ExecContext(ctx, query, to, notes, resolvedAt, resolvedBy, id, statusArray(from))
	if err != nil {
		return false, err
	}

	rows, err := result.RowsAffected()
	if err != nil {
		return false, err
	}
	return rows > 0, nil
}

func (r *repository) BulkTransition(ctx context.Context, ids []uuid.UUID, to ReportStatus, actorID uuid.UUID) (int, error) {
	idArray := make(pq.StringArray, len(ids))
	for i, id := range ids {
		idArray[i] = id.String()
	}

	var updated int64
	err := database.WithTx(ctx, r.db, func(tx *sqlx.Tx) error {
		query := `
			UPDATE reports
			SET status = $1, resolved_at = NOW(), resolved_by = $2, updated_at = NOW()
			WHERE id = ANY($3::uuid[]) AND status = ANY($4)
		`
		result, err := tx.ExecContext(ctx, query,
			to,
			uuid.NullUUID{UUID: actorID, Valid: actorID != uuid.Nil},
			idArray,
			openStatusArray(),
		)
		if err != nil {
			return err
		}

		updated, err = result.RowsAffected()
		if err != nil {
			return err
		}

		// Any id that is missing or already closed aborts the whole batch
		if int(updated) != len(ids) {
			return ErrReportNotOpen
		}
		return nil
	})
	if err != nil {
		return 0, err
	}

	return int(updated), nil
}

func (r *repository) UpdateConfidence(ctx context.Context, id uuid.UUID, score float64) (bool, error) {
	query := `UPDATE reports SET confidence_score = $1, updated_at = NOW() WHERE id = $2`
	result, err := r.db.ExecContext(ctx, query, score, id)
	if err != nil {
		return false, err
	}

	rows, err := result.RowsAffected()
	if err != nil {
		return false, err
	}
	return rows > 0, nil
}
