package content

// RejectContentRequest is sent by a moderator rejecting a content item
type RejectContentRequest struct {
	Reason string `json:"reason" validate:"required,max=1000"`
}
