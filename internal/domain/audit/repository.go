package audit

import (
	"context"
	"strconv"

	"github.com/jmoiron/sqlx"
)

// Repository defines audit log data access
type Repository interface {
	Create(ctx context.Context, log *Log) error
	List(ctx context.Context, filter Filter) ([]*Log, int, error)
}

type repository struct {
	db *sqlx.DB
}

// NewRepository creates audit repository
func NewRepository(db *sqlx.DB) Repository {
	return &repository{db: db}
}

func (r *repository) Create(ctx context.Context, log *Log) error {
	query := `
		INSERT INTO audit_logs (id, actor_id, action, entity_type, entity_id, old_value, new_value, reason, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
	`
	_, err := r.db.ExecContext(ctx, query,
		log.ID,
		log.ActorID,
		log.Action,
		log.EntityType,
		log.EntityID,
		[]byte(log.OldValue),
		[]byte(log.NewValue),
		log.Reason,
		log.CreatedAt,
	)
	return err
}

func (r *repository) List(ctx context.Context, filter Filter) ([]*Log, int, error) {
	where := ` WHERE 1=1`
	args := []interface{}{}

	add := func(column string, value interface{}) {
		args = append(args, value)
		where += ` AND ` + column + ` = $` + strconv.Itoa(len(args))
	}

	if filter.ActorID != nil {
		add("actor_id", *filter.ActorID)
	}
	if filter.Action != nil {
		add("action", *filter.Action)
	}
	if filter.EntityType != nil {
		add("entity_type", *filter.EntityType)
	}
	if filter.EntityID != nil {
		add("entity_id", *filter.EntityID)
	}

	var total int
	if err := r.db.GetContext(ctx, &total, `SELECT COUNT(*) FROM audit_logs`+where, args...); err != nil {
		return nil, 0, err
	}

	limit := filter.Limit
	if limit <= 0 {
		limit = 50
	}
	offset := filter.Offset
	if offset < 0 {
		offset = 0
	}

	query := `SELECT * FROM audit_logs` + where +
		` ORDER BY created_at DESC LIMIT $` + strconv.Itoa(len(args)+1) +
		` OFFSET $` + strconv.Itoa(len(args)+2)

	var logs []*Log
	if err := r.db.SelectContext(ctx, &logs, query, append(args, limit, offset)...); err != nil {
		return nil, 0, err
	}

	return logs, total, nil
}
