package appeal

import "github.com/researchhub/researchhub-api/internal/pkg/apperr"

var (
	ErrAppealNotFound      = apperr.Validation("appeal not found")
	ErrAppealNotPending    = apperr.Validation("appeal is not pending")
	ErrInvalidDecision     = apperr.Validation("decision must be approved, rejected or revision_requested")
	ErrResponseRequired    = apperr.Validation("admin response is required when requesting a revision")
	ErrDecisionInProgress  = apperr.Validation("another decision for this appeal is in progress")
	ErrInvalidStatus       = apperr.Validation("invalid appeal status")
	ErrContentNotFound     = apperr.Validation("content not found")
	ErrContentNotRejected  = apperr.Validation("only rejected content can be appealed")
	ErrNotContentAuthor    = apperr.Validation("only the content author can appeal")
	ErrAppealAlreadyExists = apperr.Validation("a pending appeal already exists for this content")
)
