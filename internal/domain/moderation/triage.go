package moderation

import (
	"sort"

	"github.com/google/uuid"
)

// SortBy selects the ordering of the triage queue
type SortBy string

const (
	SortBySeverity SortBy = "severity"
	SortByRecent   SortBy = "recent"
	SortByReason   SortBy = "reason"
)

// ParseSortBy maps a query value to a SortBy, defaulting to severity
func ParseSortBy(s string) (SortBy, bool) {
	switch SortBy(s) {
	case "", SortBySeverity:
		return SortBySeverity, true
	case SortByRecent:
		return SortByRecent, true
	case SortByReason:
		return SortByReason, true
	}
	return "", false
}

// SeverityAll disables severity filtering
const SeverityAll = "all"

// ContentSummary is the reported content, absent when it was deleted
type ContentSummary struct {
	ID             uuid.UUID  `json:"id"`
	Title          string     `json:"title"`
	Kind           string     `json:"kind,omitempty"`
	AuthorID       *uuid.UUID `json:"author_id,omitempty"`
	ApprovalStatus string     `json:"approval_status,omitempty"`
}

// ReporterSummary is the reporting user, absent for deleted or anonymous reporters
type ReporterSummary struct {
	ID          uuid.UUID `json:"id"`
	DisplayName string    `json:"display_name,omitempty"`
}

// TriageItem is an open report enriched for moderator review
type TriageItem struct {
	*Report
	Severity Severity         `json:"severity"`
	Content  *ContentSummary  `json:"content,omitempty"`
	Reporter *ReporterSummary `json:"reporter,omitempty"`
}

func newTriageItem(row *openReportRow, c Classifier) *TriageItem {
	report := row.Report
	item := &TriageItem{
		Report:   &report,
		Severity: c.ClassifyReport(&report),
	}

	if row.ContentTitle.Valid {
		item.Content = &ContentSummary{
			ID:             report.ContentID,
			Title:          row.ContentTitle.String,
			Kind:           row.ContentKind.String,
			ApprovalStatus: row.ContentApprovalStatus.String,
		}
		if row.ContentAuthorID.Valid {
			authorID := row.ContentAuthorID.UUID
			item.Content.AuthorID = &authorID
		}
	}

	if report.ReporterUserID.Valid {
		item.Reporter = &ReporterSummary{
			ID:          report.ReporterUserID.UUID,
			DisplayName: row.ReporterName.String,
		}
	}

	return item
}

// SortItems orders items in place. Sorting is stable, so ties keep the
// repository order (newest first).
func SortItems(items []*TriageItem, by SortBy) {
	switch by {
	case SortByRecent:
		sort.SliceStable(items, func(i, j int) bool {
			return items[i].CreatedAt.After(items[j].CreatedAt)
		})
	case SortByReason:
		sort.SliceStable(items, func(i, j int) bool {
			return items[i].Reason < items[j].Reason
		})
	default:
		sort.SliceStable(items, func(i, j int) bool {
			return items[i].Severity.rank() < items[j].Severity.rank()
		})
	}
}

// FilterBySeverity keeps items of the given tier. "all" or "" keeps everything.
func FilterBySeverity(items []*TriageItem, tier string) []*TriageItem {
	if tier == "" || tier == SeverityAll {
		return items
	}

	filtered := make([]*TriageItem, 0, len(items))
	for _, item := range items {
		if string(item.Severity) == tier {
			filtered = append(filtered, item)
		}
	}
	return filtered
}
