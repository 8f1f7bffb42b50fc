package content

import (
	"database/sql"
	"time"

	"github.com/google/uuid"
)

// ApprovalStatus of a content item
type ApprovalStatus string

const (
	ApprovalPending  ApprovalStatus = "pending"
	ApprovalApproved ApprovalStatus = "approved"
	ApprovalRejected ApprovalStatus = "rejected"
)

// Kind of content item
type Kind string

const (
	KindArticle  Kind = "article"
	KindQuestion Kind = "question"
	KindSurvey   Kind = "survey"
	KindPoll     Kind = "poll"
)

// Content is a post authored by a researcher
type Content struct {
	ID              uuid.UUID      `db:"id" json:"id"`
	AuthorID        uuid.UUID      `db:"author_id" json:"author_id"`
	Title           string         `db:"title" json:"title"`
	Kind            Kind           `db:"kind" json:"kind"`
	ApprovalStatus  ApprovalStatus `db:"approval_status" json:"approval_status"`
	RejectionReason sql.NullString `db:"rejection_reason" json:"rejection_reason,omitempty"`
	RejectedBy      uuid.NullUUID  `db:"rejected_by" json:"rejected_by,omitempty"`
	RejectedAt      sql.NullTime   `db:"rejected_at" json:"rejected_at,omitempty"`
	CreatedAt       time.Time      `db:"created_at" json:"created_at"`
	UpdatedAt       time.Time      `db:"updated_at" json:"updated_at"`
}

// IsRejected reports whether the item is currently rejected
func (c *Content) IsRejected() bool {
	return c.ApprovalStatus == ApprovalRejected
}
