package content

import (
	"context"
	"database/sql"
	"errors"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
)

// Repository defines content data access used by moderation
type Repository interface {
	GetByID(ctx context.Context, id uuid.UUID) (*Content, error)
	Exists(ctx context.Context, id uuid.UUID) (bool, error)

	// Reject sets rejection metadata unless the item is already rejected.
	// It returns false when no row matched.
	Reject(ctx context.Context, id, rejectedBy uuid.UUID, reason string) (bool, error)

	// Restore marks the item approved and clears rejection metadata.
	// It returns false when the item does not exist.
	Restore(ctx context.Context, id uuid.UUID) (bool, error)
}

type repository struct {
	db *sqlx.DB
}

// NewRepository creates content repository
func NewRepository(db *sqlx.DB) Repository {
	return &repository{db: db}
}

func (r *repository) GetByID(ctx context.Context, id uuid.UUID) (*Content, error) {
	query := `
		SELECT id, author_id, title, kind, approval_status, rejection_reason,
		       rejected_by, rejected_at, created_at, updated_at
		FROM posts WHERE id = $1
	`
	var c Content
	err := r.db.GetContext(ctx, &c, query, id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, err
	}
	return &c, nil
}

func (r *repository) Exists(ctx context.Context, id uuid.UUID) (bool, error) {
	var exists bool
	err := r.db.GetContext(ctx, &exists, `SELECT EXISTS(SELECT 1 FROM posts WHERE id = $1)`, id)
	return exists, err
}

func (r *repository) Reject(ctx context.Context, id, rejectedBy uuid.UUID, reason string) (bool, error) {
	query := `
		UPDATE posts
		SET approval_status = $1,
		    rejection_reason = $2,
		    rejected_by = $3,
		    rejected_at = NOW(),
		    updated_at = NOW()
		WHERE id = $4 AND approval_status <> $1
	`
	result, err := r.db.ExecContext(ctx, query,
		ApprovalRejected,
		reason,
		uuid.NullUUID{UUID: rejectedBy, Valid: rejectedBy != uuid.Nil},
		id,
	)
	if err != nil {
		return false, err
	}

	rows, err := result.RowsAffected()
	if err != nil {
		return false, err
	}
	return rows > 0, nil
}

func (r *repository) Restore(ctx context.Context, id uuid.UUID) (bool, error) {
	query := `
		UPDATE posts
		SET approval_status = $1,
		    rejection_reason = NULL,
		    rejected_by = NULL,
		    rejected_at = NULL,
		    updated_at = NOW()
		WHERE id = $2
	`
	result, err := r.db.ExecContext(ctx, query, ApprovalApproved, id)
	if err != nil {
		return false, err
	}

	rows, err := result.RowsAffected()
	if err != nil {
		return false, err
	}
	return rows > 0, nil
}
