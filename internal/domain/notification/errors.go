package notification

import "github.com/researchhub/researchhub-api/internal/pkg/apperr"

var ErrNotificationNotFound = apperr.Validation("notification not found")
