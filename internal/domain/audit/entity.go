package audit

import (
	"database/sql"
	"encoding/json"
	"time"

	"github.com/google/uuid"
)

// Action names recorded for moderation commands
const (
	ActionReportReview     = "report.review"
	ActionReportResolve    = "report.resolve"
	ActionReportDismiss    = "report.dismiss"
	ActionReportBulk       = "report.bulk"
	ActionReportConfidence = "report.confidence"
	ActionContentReject    = "content.reject"
	ActionAppealDecide     = "appeal.decide"
)

// Entity types
const (
	EntityReport  = "report"
	EntityContent = "content"
	EntityAppeal  = "appeal"
)

// Log represents a moderation action log entry
type Log struct {
	ID         uuid.UUID       `db:"id" json:"id"`
	ActorID    uuid.NullUUID   `db:"actor_id" json:"actor_id,omitempty"`
	Action     string          `db:"action" json:"action"`
	EntityType string          `db:"entity_type" json:"entity_type"`
	EntityID   uuid.NullUUID   `db:"entity_id" json:"entity_id,omitempty"`
	OldValue   json.RawMessage `db:"old_value" json:"old_value,omitempty"`
	NewValue   json.RawMessage `db:"new_value" json:"new_value,omitempty"`
	Reason     sql.NullString  `db:"reason" json:"reason,omitempty"`
	CreatedAt  time.Time       `db:"created_at" json:"created_at"`
}

// Entry is what callers hand to LogAction
type Entry struct {
	ActorID    uuid.UUID
	Action     string
	EntityType string
	EntityID   uuid.UUID
	OldValue   interface{}
	NewValue   interface{}
	Reason     string
}

// Filter narrows List
type Filter struct {
	ActorID    *uuid.UUID
	Action     *string
	EntityType *string
	EntityID   *uuid.UUID
	Limit      int
	Offset     int
}
