package appeal

import (
	"context"
	"database/sql"
	"errors"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/researchhub/researchhub-api/internal/domain/audit"
	"github.com/researchhub/researchhub-api/internal/domain/content"
	"github.com/researchhub/researchhub-api/internal/domain/notification"
)

type memoryRepo struct {
	mu        sync.Mutex
	appeals   map[uuid.UUID]*Appeal
	createErr error
	updateErr error
	resetErr  error
	mutations int
}

func newMemoryRepo(appeals ...*Appeal) *memoryRepo {
	r := &memoryRepo{appeals: make(map[uuid.UUID]*Appeal)}
	for _, a := range appeals {
		r.appeals[a.ID] = a
	}
	return r
}

func (r *memoryRepo) Create(_ context.Context, a *Appeal) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.createErr != nil {
		return r.createErr
	}
	r.mutations++
	r.appeals[a.ID] = a
	return nil
}

func (r *memoryRepo) GetByID(_ context.Context, id uuid.UUID) (*Appeal, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	a, ok := r.appeals[id]
	if !ok {
		return nil, nil
	}
	cp := *a
	return &cp, nil
}

func (r *memoryRepo) HasPending(_ context.Context, contentID uuid.UUID) (bool, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, a := range r.appeals {
		if a.ContentID == contentID && a.Status == StatusPending {
			return true, nil
		}
	}
	return false, nil
}

func (r *memoryRepo) ListByUser(_ context.Context, userID uuid.UUID) ([]*Appeal, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []*Appeal
	for _, a := range r.appeals {
		if a.UserID == userID {
			out = append(out, a)
		}
	}
	return out, nil
}

func (r *memoryRepo) List(_ context.Context, status *Status, _, _ int) ([]*Appeal, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []*Appeal
	for _, a := range r.appeals {
		if status == nil || a.Status == *status {
			out = append(out, a)
		}
	}
	return out, nil
}

func (r *memoryRepo) UpdateDecision(_ context.Context, id uuid.UUID, decision Status, response sql.NullString, decidedBy uuid.UUID) (bool, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.updateErr != nil {
		return false, r.updateErr
	}
	a, ok := r.appeals[id]
	if !ok || a.Status != StatusPending {
		return false, nil
	}
	r.mutations++
	a.Status = decision
	a.AdminResponse = response
	a.DecidedBy = uuid.NullUUID{UUID: decidedBy, Valid: true}
	return true, nil
}

func (r *memoryRepo) ResetDecision(_ context.Context, id uuid.UUID, decision Status) (bool, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.resetErr != nil {
		return false, r.resetErr
	}
	a, ok := r.appeals[id]
	if !ok || a.Status != decision {
		return false, nil
	}
	r.mutations++
	a.Status = StatusPending
	a.AdminResponse = sql.NullString{}
	a.DecidedBy = uuid.NullUUID{}
	return true, nil
}

type fakeContent struct {
	mu         sync.Mutex
	items      map[uuid.UUID]*content.Content
	restoreErr error
	restores   int
}

func newFakeContent(items ...*content.Content) *fakeContent {
	c := &fakeContent{items: make(map[uuid.UUID]*content.Content)}
	for _, item := range items {
		c.items[item.ID] = item
	}
	return c
}

func (c *fakeContent) GetByID(_ context.Context, id uuid.UUID) (*content.Content, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	item, ok := c.items[id]
	if !ok {
		return nil, nil
	}
	cp := *item
	return &cp, nil
}

func (c *fakeContent) Restore(_ context.Context, id uuid.UUID) (bool, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.restoreErr != nil {
		return false, c.restoreErr
	}
	item, ok := c.items[id]
	if !ok {
		return false, nil
	}
	c.restores++
	item.ApprovalStatus = content.ApprovalApproved
	item.RejectionReason = sql.NullString{}
	item.RejectedBy = uuid.NullUUID{}
	item.RejectedAt = sql.NullTime{}
	return true, nil
}

type sentNotification struct {
	userID uuid.UUID
	typ    notification.Type
	title  string
	body   string
	data   *notification.NotificationData
}

type fakeNotifier struct {
	mu   sync.Mutex
	sent []sentNotification
	err  error
}

func (n *fakeNotifier) Create(_ context.Context, userID uuid.UUID, typ notification.Type, title, body string, data *notification.NotificationData) (*notification.Notification, error) {
	n.mu.Lock()
	defer n.mu.Unlock()
	if n.err != nil {
		return nil, n.err
	}
	n.sent = append(n.sent, sentNotification{userID: userID, typ: typ, title: title, body: body, data: data})
	return &notification.Notification{ID: uuid.New(), UserID: userID, Type: typ}, nil
}

type fakeAudit struct {
	mu      sync.Mutex
	entries []audit.Entry
}

func (a *fakeAudit) LogAction(_ context.Context, e audit.Entry) {
	a.mu.Lock()
	defer a.mu.Unlock()
	a.entries = append(a.entries, e)
}

// brokenLocker simulates an unreachable lock backend
type brokenLocker struct{}

func (brokenLocker) Acquire(context.Context, string, time.Duration) (func(), error) {
	return nil, errors.New("redis: connection refused")
}
