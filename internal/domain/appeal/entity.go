package appeal

import (
	"database/sql"
	"time"

	"github.com/google/uuid"
)

// Status of an appeal. The three non-pending values double as decisions.
type Status string

const (
	StatusPending           Status = "pending"
	StatusApproved          Status = "approved"
	StatusRejected          Status = "rejected"
	StatusRevisionRequested Status = "revision_requested"
)

// IsDecision reports whether s is an outcome an admin may choose
func (s Status) IsDecision() bool {
	return s == StatusApproved || s == StatusRejected || s == StatusRevisionRequested
}

// Valid reports whether s is a known status
func (s Status) Valid() bool {
	return s == StatusPending || s.IsDecision()
}

// Appeal is an author's dispute of a content rejection
type Appeal struct {
	ID            uuid.UUID      `db:"id" json:"id"`
	ContentID     uuid.UUID      `db:"content_id" json:"content_id"`
	UserID        uuid.UUID      `db:"user_id" json:"user_id"`
	Reason        string         `db:"reason" json:"reason"`
	Status        Status         `db:"status" json:"status"`
	AdminResponse sql.NullString `db:"admin_response" json:"admin_response"`
	DecidedBy     uuid.NullUUID  `db:"decided_by" json:"decided_by"`
	DecidedAt     sql.NullTime   `db:"decided_at" json:"decided_at"`
	CreatedAt     time.Time      `db:"created_at" json:"created_at"`
	UpdatedAt     time.Time      `db:"updated_at" json:"updated_at"`
}

// SideEffect names a state change DecideAppeal committed
type SideEffect string

const (
	EffectAppealUpdated    SideEffect = "appeal_updated"
	EffectContentRestored  SideEffect = "content_restored"
	EffectNotificationSent SideEffect = "notification_sent"
)

// DecisionResult lists what a decision actually changed. NotificationErr is
// set when only the notification step failed; the decision itself stands.
// CompensationFailed means a failed restore could not be undone and the
// appeal stays decided while its content is still rejected.
type DecisionResult struct {
	Appeal             *Appeal
	Applied            []SideEffect
	NotificationErr    error
	CompensationFailed bool
}

// Has reports whether effect was applied
func (r *DecisionResult) Has(effect SideEffect) bool {
	for _, e := range r.Applied {
		if e == effect {
			return true
		}
	}
	return false
}
