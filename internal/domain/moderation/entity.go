package moderation

import (
	"database/sql"
	"time"

	"github.com/google/uuid"
)

// ReportReason represents the category of a report
type ReportReason string

const (
	ReasonHateSpeech     ReportReason = "hate_speech"
	ReasonHarassment     ReportReason = "harassment"
	ReasonViolence       ReportReason = "violence"
	ReasonIllegalContent ReportReason = "illegal_content"
	ReasonSpam           ReportReason = "spam"
	ReasonMisinformation ReportReason = "misinformation"
	ReasonPlagiarism     ReportReason = "plagiarism"
	ReasonInappropriate  ReportReason = "inappropriate"
	ReasonOffTopic       ReportReason = "off_topic"
	ReasonCopyright      ReportReason = "copyright"
	ReasonOther          ReportReason = "other"
)

// Valid reports whether r is an accepted report reason
func (r ReportReason) Valid() bool {
	return criticalReasons[r] || mediumReasons[r] || r == ReasonCopyright || r == ReasonOther
}

// ReportStatus represents the status of a report
type ReportStatus string

const (
	ReportStatusPending   ReportStatus = "pending"
	ReportStatusReviewing ReportStatus = "reviewing"
	ReportStatusResolved  ReportStatus = "resolved"
	ReportStatusDismissed ReportStatus = "dismissed"
)

// OpenStatuses are the statuses shown in the triage queue
var OpenStatuses = []ReportStatus{ReportStatusPending, ReportStatusReviewing}

// IsOpen reports whether the status still awaits a moderator decision
func (s ReportStatus) IsOpen() bool {
	return s == ReportStatusPending || s == ReportStatusReviewing
}

// Report is a user-submitted flag against a content item.
// Severity is never stored: it is derived from Reason and ConfidenceScore on read.
type Report struct {
	ID              uuid.UUID       `db:"id" json:"id"`
	ContentID       uuid.UUID       `db:"content_id" json:"content_id"`
	ReporterUserID  uuid.NullUUID   `db:"reporter_user_id" json:"reporter_user_id"`
	Reason          ReportReason    `db:"reason" json:"reason"`
	Details         sql.NullString  `db:"details" json:"details"`
	Status          ReportStatus    `db:"status" json:"status"`
	ConfidenceScore sql.NullFloat64 `db:"confidence_score" json:"confidence_score"`
	AdminNotes      sql.NullString  `db:"admin_notes" json:"admin_notes"`
	ResolvedBy      uuid.NullUUID   `db:"resolved_by" json:"resolved_by"`
	ResolvedAt      sql.NullTime    `db:"resolved_at" json:"resolved_at"`
	CreatedAt       time.Time       `db:"created_at" json:"created_at"`
	UpdatedAt       time.Time       `db:"updated_at" json:"updated_at"`
}

// Confidence returns the classifier score, or nil when none was recorded
func (r *Report) Confidence() *float64 {
	if !r.ConfidenceScore.Valid {
		return nil
	}
	v := r.ConfidenceScore.Float64
	return &v
}

// openReportRow is a report joined with its (possibly deleted) content and reporter
type openReportRow struct {
	Report
	ContentTitle          sql.NullString `db:"content_title"`
	ContentKind           sql.NullString `db:"content_kind"`
	ContentAuthorID       uuid.NullUUID  `db:"content_author_id"`
	ContentApprovalStatus sql.NullString `db:"content_approval_status"`
	ReporterName          sql.NullString `db:"reporter_name"`
}
