package appeal

import "github.com/researchhub/researchhub-api/internal/domain/notification"

type message struct {
	Type  notification.Type
	Title string
	Body  string
}

// composeMessage picks the notification template for a decision.
// response is the trimmed admin response and may be empty.
func composeMessage(decision Status, response string) message {
	switch decision {
	case StatusApproved:
		body := "Your appeal was approved and your content has been restored."
		if response != "" {
			body += " Moderator note: " + response
		}
		return message{Type: notification.TypeAppealApproved, Title: "Appeal approved", Body: body}

	case StatusRevisionRequested:
		return message{
			Type:  notification.TypeAppealRevisionRequested,
			Title: "Changes requested",
			Body:  "A moderator reviewed your appeal and asked for the following changes before your content can be approved: " + response,
		}

	default:
		body := "Your appeal was reviewed and the rejection stands."
		if response != "" {
			body += " Reason: " + response
		}
		return message{Type: notification.TypeAppealRejected, Title: "Appeal rejected", Body: body}
	}
}
