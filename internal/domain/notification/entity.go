package notification

import (
	"database/sql"
	"encoding/json"
	"time"

	"github.com/google/uuid"
)

// Type represents notification type
type Type string

const (
	TypeReportResolved          Type = "report_resolved"           // Reporter: their report was acted on
	TypeContentRejected         Type = "content_rejected"          // Author: content rejected by a moderator
	TypeAppealApproved          Type = "appeal_approved"           // Author: appeal approved, content restored
	TypeAppealRejected          Type = "appeal_rejected"           // Author: appeal denied
	TypeAppealRevisionRequested Type = "appeal_revision_requested" // Author: changes requested before approval
)

// Notification represents a user notification
type Notification struct {
	ID        uuid.UUID       `db:"id" json:"id"`
	UserID    uuid.UUID       `db:"user_id" json:"user_id"`
	Type      Type            `db:"type" json:"type"`
	Title     string          `db:"title" json:"title"`
	Body      sql.NullString  `db:"body" json:"body,omitempty"`
	Data      json.RawMessage `db:"data" json:"data,omitempty"`
	IsRead    bool            `db:"is_read" json:"is_read"`
	ReadAt    sql.NullTime    `db:"read_at" json:"read_at,omitempty"`
	CreatedAt time.Time       `db:"created_at" json:"created_at"`
}

// NotificationData links a notification to the entities it is about
type NotificationData struct {
	ContentID *uuid.UUID `json:"content_id,omitempty"`
	ReportID  *uuid.UUID `json:"report_id,omitempty"`
	AppealID  *uuid.UUID `json:"appeal_id,omitempty"`
	Link      string     `json:"link,omitempty"`
}

// ContentLink is the deep link the web client routes to for a content item
func ContentLink(contentID uuid.UUID) string {
	return "/content/" + contentID.String()
}

// SetData encodes data to JSON
func (n *Notification) SetData(data *NotificationData) {
	if data != nil {
		n.Data, _ = json.Marshal(data)
	}
}

// GetData decodes data from JSON
func (n *Notification) GetData() *NotificationData {
	if n.Data == nil {
		return &NotificationData{}
	}
	var data NotificationData
	_ = json.Unmarshal(n.Data, &data)
	return &data
}
