package moderation

import "github.com/researchhub/researchhub-api/internal/pkg/apperr"

var (
	ErrReportNotFound      = apperr.Validation("report not found")
	ErrReportNotOpen       = apperr.Validation("report is not open")
	ErrDuplicateReport     = apperr.Validation("content already reported by this user")
	ErrContentNotFound     = apperr.Validation("reported content not found")
	ErrInvalidSeverity     = apperr.Validation("invalid severity filter")
	ErrInvalidSort         = apperr.Validation("invalid sort order")
	ErrInvalidConfidence   = apperr.Validation("confidence score must be between 0 and 1")
	ErrInvalidReportReason = apperr.Validation("invalid report reason")
	ErrBulkTooLarge        = apperr.Validation("too many report ids in one request")
)
