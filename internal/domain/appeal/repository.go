package appeal

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
	"github.com/lib/pq"
)

const sqlStateUniqueViolation = "23505"

// Repository defines appeal data access
type Repository interface {
	Create(ctx context.Context, a *Appeal) error
	GetByID(ctx context.Context, id uuid.UUID) (*Appeal, error)
	HasPending(ctx context.Context, contentID uuid.UUID) (bool, error)
	ListByUser(ctx context.Context, userID uuid.UUID) ([]*Appeal, error)
	List(ctx context.Context, status *Status, limit, offset int) ([]*Appeal, error)

	// UpdateDecision records a decision only while the appeal is pending.
	// It returns false when the appeal was missing or already decided.
	UpdateDecision(ctx context.Context, id uuid.UUID, decision Status, response sql.NullString, decidedBy uuid.UUID) (bool, error)

	// ResetDecision puts a decided appeal back to pending. It is the
	// compensation for a failed content restore.
	ResetDecision(ctx context.Context, id uuid.UUID, decision Status) (bool, error)
}

type repository struct {
	db *sqlx.DB
}

// NewRepository creates appeal repository
func NewRepository(db *sqlx.DB) Repository {
	return &repository{db: db}
}

func (r *repository) Create(ctx context.Context, a *Appeal) error {
	query := `
		INSERT INTO appeals (id, content_id, user_id, reason, status, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
	`
	_, err := r.db.ExecContext(ctx, query,
		a.ID, a.ContentID, a.UserID, a.Reason, a.Status, a.CreatedAt, a.UpdatedAt,
	)
	return mapCreateError(err)
}

// mapCreateError turns a hit on idx_appeals_one_pending into
// ErrAppealAlreadyExists. It covers the race between HasPending and INSERT.
func mapCreateError(err error) error {
	var pqErr *pq.Error
	if errors.As(err, &pqErr) && pqErr.Code == sqlStateUniqueViolation {
		return ErrAppealAlreadyExists
	}
	return err
}

func (r *repository) GetByID(ctx context.Context, id uuid.UUID) (*Appeal, error) {
	var a Appeal
	err := r.db.GetContext(ctx, &a, `SELECT * FROM appeals WHERE id = $1`, id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, err
	}
	return &a, nil
}

func (r *repository) HasPending(ctx context.Context, contentID uuid.UUID) (bool, error) {
	var exists bool
	query := `SELECT EXISTS(SELECT 1 FROM appeals WHERE content_id = $1 AND status = $2)`
	err := r.db.GetContext(ctx, &exists, query, contentID, StatusPending)
	return exists, err
}

func (r *repository) ListByUser(ctx context.Context, userID uuid.UUID) ([]*Appeal, error) {
	var appeals []*Appeal
	query := `SELECT * FROM appeals WHERE user_id = $1 ORDER BY created_at DESC`
	err := r.db.SelectContext(ctx, &appeals, query, userID)
	return appeals, err
}

func (r *repository) List(ctx context.Context, status *Status, limit, offset int) ([]*Appeal, error) {
	var appeals []*Appeal
	if status != nil {
		query := `SELECT * FROM appeals WHERE status = $1 ORDER BY created_at ASC LIMIT $2 OFFSET $3`
		err := r.db.SelectContext(ctx, &appeals, query, *status, limit, offset)
		return appeals, err
	}

	query := `SELECT * FROM appeals ORDER BY created_at DESC LIMIT $1 OFFSET $2`
	err := r.db.SelectContext(ctx, &appeals, query, limit, offset)
	return appeals, err
}

func (r *repository) UpdateDecision(ctx context.Context, id uuid.UUID, decision Status, response sql.NullString, decidedBy uuid.UUID) (bool, error) {
	query := `
		UPDATE appeals
		SET status = $1, admin_response = $2, decided_by = $3, decided_at = $4, updated_at = NOW()
		WHERE id = $5 AND status = $6
	`
	result, err := r.db.ExecContext(ctx, query,
		decision,
		response,
		uuid.NullUUID{UUID: decidedBy, Valid: decidedBy != uuid.Nil},
		time.Now(),
		id,
		StatusPending,
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

func (r *repository) ResetDecision(ctx context.Context, id uuid.UUID, decision Status) (bool, error) {
	query := `
		UPDATE appeals
		SET status = $1, admin_response = NULL, decided_by = NULL, decided_at = NULL, updated_at = NOW()
		WHERE id = $2 AND status = $3
	`
	result, err := r.db.ExecContext(ctx, query, StatusPending, id, decision)
	if err != nil {
		return false, err
	}

	rows, err := result.RowsAffected()
	if err != nil {
		return false, err
	}
	return rows > 0, nil
}
