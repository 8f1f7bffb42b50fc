package appeal

import "github.com/google/uuid"

// CreateAppealRequest is sent by an author disputing a rejection
type CreateAppealRequest struct {
	ContentID uuid.UUID `json:"content_id" validate:"required"`
	Reason    string    `json:"reason" validate:"required,min=10,max=2000"`
}

// DecideRequest is sent by an admin deciding a pending appeal
type DecideRequest struct {
	Decision      Status `json:"decision" validate:"required,appeal_decision"`
	AdminResponse string `json:"admin_response,omitempty" validate:"max=2000"`
}

// DecisionResponse reports a committed decision
type DecisionResponse struct {
	Appeal              *Appeal      `json:"appeal"`
	Applied             []SideEffect `json:"applied"`
	NotificationDelayed bool         `json:"notification_delayed"`
	Message             string       `json:"message"`
}

// DecisionResponseFromResult converts a result to its API shape
func DecisionResponseFromResult(r *DecisionResult) *DecisionResponse {
	resp := &DecisionResponse{
		Appeal:  r.Appeal,
		Applied: r.Applied,
		Message: "Decision recorded",
	}
	if r.NotificationErr != nil {
		resp.NotificationDelayed = true
		resp.Message = "Decision recorded, notification may be delayed"
	}
	return resp
}
