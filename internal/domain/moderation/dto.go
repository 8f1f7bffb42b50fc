package moderation

import "github.com/google/uuid"

// CreateReportRequest represents request to flag a content item
type CreateReportRequest struct {
	ContentID uuid.UUID    `json:"content_id" validate:"required"`
	Reason    ReportReason `json:"reason" validate:"required,report_reason"`
	Details   string       `json:"details,omitempty" validate:"max=2000"`
}

// ResolveReportRequest represents moderator action on a single report
type ResolveReportRequest struct {
	Notes          string `json:"notes,omitempty" validate:"max=1000"`
	NotifyReporter bool   `json:"notify_reporter,omitempty"`
}

// BulkActionRequest carries the report ids for a bulk resolve or dismiss
type BulkActionRequest struct {
	IDs []uuid.UUID `json:"ids" validate:"max=500"`
}

// BulkActionResponse reports how many reports moved
type BulkActionResponse struct {
	Updated int `json:"updated"`
}

// UpdateConfidenceRequest is sent by the external classifier
type UpdateConfidenceRequest struct {
	ConfidenceScore *float64 `json:"confidence_score" validate:"required,gte=0,lte=1"`
}

// ListOpenReportsQuery selects ordering and severity tier
type ListOpenReportsQuery struct {
	Sort     string `json:"sort" validate:"report_sort"`
	Severity string `json:"severity" validate:"severity_filter"`
}

// TriageResponse is the triage queue read model
type TriageResponse struct {
	Items   []*TriageItem `json:"items"`
	Summary TriageSummary `json:"summary"`
	Sort    SortBy        `json:"sort"`
}

// TriageSummary counts open reports per severity tier
type TriageSummary struct {
	Total    int `json:"total"`
	Critical int `json:"critical"`
	Medium   int `json:"medium"`
	Low      int `json:"low"`
}

// Summarize counts items per tier
func Summarize(items []*TriageItem) TriageSummary {
	s := TriageSummary{Total: len(items)}
	for _, item := range items {
		switch item.Severity {
		case SeverityCritical:
			s.Critical++
		case SeverityMedium:
			s.Medium++
		default:
			s.Low++
		}
	}
	return s
}
