package moderation

import (
	"context"
	"sort"
	"sync"

	"github.com/google/uuid"

	"github.com/researchhub/researchhub-api/internal/domain/audit"
	"github.com/researchhub/researchhub-api/internal/domain/notification"
)

type memoryRepo struct {
	mu      sync.Mutex
	reports map[uuid.UUID]*Report
	titles  map[uuid.UUID]string

	err       error
	mutations int
}

func newMemoryRepo(reports ...*Report) *memoryRepo {
	r := &memoryRepo{reports: make(map[uuid.UUID]*Report), titles: make(map[uuid.UUID]string)}
	for _, rep := range reports {
		r.reports[rep.ID] = rep
	}
	return r
}

func (r *memoryRepo) CreateReport(_ context.Context, report *Report) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.err != nil {
		return r.err
	}
	r.mutations++
	r.reports[report.ID] = report
	return nil
}

func (r *memoryRepo) GetReportByID(_ context.Context, id uuid.UUID) (*Report, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	rep, ok := r.reports[id]
	if !ok {
		return nil, nil
	}
	cp := *rep
	return &cp, nil
}

func (r *memoryRepo) HasOpenReport(_ context.Context, contentID, reporterID uuid.UUID) (bool, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, rep := range r.reports {
		if rep.ContentID == contentID && rep.ReporterUserID.UUID == reporterID && rep.Status.IsOpen() {
			return true, nil
		}
	}
	return false, nil
}

func (r *memoryRepo) ListReportsByReporter(_ context.Context, reporterID uuid.UUID) ([]*Report, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []*Report
	for _, rep := range r.reports {
		if rep.ReporterUserID.UUID == reporterID {
			out = append(out, rep)
		}
	}
	return out, nil
}

func (r *memoryRepo) ListOpenReports(_ context.Context) ([]*openReportRow, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.err != nil {
		return nil, r.err
	}
	var rows []*openReportRow
	for _, rep := range r.reports {
		if !rep.Status.IsOpen() {
			continue
		}
		row := &openReportRow{Report: *rep}
		if title, ok := r.titles[rep.ContentID]; ok {
			row.ContentTitle.String, row.ContentTitle.Valid = title, true
		}
		rows = append(rows, row)
	}
	sort.Slice(rows, func(i, j int) bool { return rows[i].CreatedAt.After(rows[j].CreatedAt) })
	return rows, nil
}

func (r *memoryRepo) TransitionReport(_ context.Context, id uuid.UUID, from []ReportStatus, to ReportStatus, actorID uuid.UUID, notes string) (bool, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.err != nil {
		return false, r.err
	}
	rep, ok := r.reports[id]
	if !ok || !statusIn(rep.Status, from) {
		return false, nil
	}
	r.mutations++
	rep.Status = to
	if notes != "" {
		rep.AdminNotes.String, rep.AdminNotes.Valid = notes, true
	}
	if !to.IsOpen() {
		rep.ResolvedBy = uuid.NullUUID{UUID: actorID, Valid: true}
	}
	return true, nil
}

func (r *memoryRepo) BulkTransition(_ context.Context, ids []uuid.UUID, to ReportStatus, actorID uuid.UUID) (int, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.err != nil {
		return 0, r.err
	}
	for _, id := range ids {
		rep, ok := r.reports[id]
		if !ok || !rep.Status.IsOpen() {
			return 0, ErrReportNotOpen
		}
	}
	for _, id := range ids {
		r.reports[id].Status = to
		r.reports[id].ResolvedBy = uuid.NullUUID{UUID: actorID, Valid: true}
	}
	r.mutations++
	return len(ids), nil
}

func (r *memoryRepo) UpdateConfidence(_ context.Context, id uuid.UUID, score float64) (bool, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.err != nil {
		return false, r.err
	}
	rep, ok := r.reports[id]
	if !ok {
		return false, nil
	}
	r.mutations++
	rep.ConfidenceScore.Float64, rep.ConfidenceScore.Valid = score, true
	return true, nil
}

type fakeContent struct {
	ids map[uuid.UUID]bool
}

func (c *fakeContent) Exists(_ context.Context, id uuid.UUID) (bool, error) {
	return c.ids[id], nil
}

type sentNotification struct {
	userID uuid.UUID
	typ    notification.Type
}

type fakeNotifier struct {
	sent []sentNotification
	err  error
}

func (n *fakeNotifier) Create(_ context.Context, userID uuid.UUID, typ notification.Type, _, _ string, _ *notification.NotificationData) (*notification.Notification, error) {
	if n.err != nil {
		return nil, n.err
	}
	n.sent = append(n.sent, sentNotification{userID: userID, typ: typ})
	return &notification.Notification{ID: uuid.New(), UserID: userID, Type: typ}, nil
}

type fakeAudit struct {
	entries []audit.Entry
}

func (a *fakeAudit) LogAction(_ context.Context, e audit.Entry) {
	a.entries = append(a.entries, e)
}
