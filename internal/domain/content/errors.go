package content

import "github.com/researchhub/researchhub-api/internal/pkg/apperr"

var (
	ErrContentNotFound = apperr.Validation("content not found")
	ErrAlreadyRejected = apperr.Validation("content is already rejected")
	ErrReasonRequired  = apperr.Validation("rejection reason is required")
)
