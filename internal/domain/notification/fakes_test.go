package notification

import (
	"context"
	"errors"
	"sync"
	"time"

	"github.com/google/uuid"
)

type memoryRepo struct {
	mu        sync.Mutex
	items     []*Notification
	createErr error
	deletes   []deleteCall
}

type deleteCall struct {
	cutoff   time.Time
	onlyRead bool
}

func (r *memoryRepo) Create(_ context.Context, n *Notification) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.createErr != nil {
		return r.createErr
	}
	r.items = append(r.items, n)
	return nil
}

func (r *memoryRepo) GetByID(_ context.Context, id uuid.UUID) (*Notification, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, n := range r.items {
		if n.ID == id {
			return n, nil
		}
	}
	return nil, nil
}

func (r *memoryRepo) ListByUser(_ context.Context, userID uuid.UUID, limit, offset int) ([]*Notification, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []*Notification
	for _, n := range r.items {
		if n.UserID == userID {
			out = append(out, n)
		}
	}
	if offset >= len(out) {
		return nil, nil
	}
	out = out[offset:]
	if len(out) > limit {
		out = out[:limit]
	}
	return out, nil
}

func (r *memoryRepo) CountUnreadByUser(_ context.Context, userID uuid.UUID) (int, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	count := 0
	for _, n := range r.items {
		if n.UserID == userID && !n.IsRead {
			count++
		}
	}
	return count, nil
}

func (r *memoryRepo) MarkAsRead(_ context.Context, id, userID uuid.UUID) (bool, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, n := range r.items {
		if n.ID == id && n.UserID == userID {
			n.IsRead = true
			return true, nil
		}
	}
	return false, nil
}

func (r *memoryRepo) MarkAllAsRead(_ context.Context, userID uuid.UUID) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, n := range r.items {
		if n.UserID == userID {
			n.IsRead = true
		}
	}
	return nil
}

func (r *memoryRepo) DeleteOlderThan(_ context.Context, cutoff time.Time, onlyRead bool) (int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.deletes = append(r.deletes, deleteCall{cutoff: cutoff, onlyRead: onlyRead})
	kept := r.items[:0]
	var deleted int64
	for _, n := range r.items {
		if n.CreatedAt.Before(cutoff) && (!onlyRead || n.IsRead) {
			deleted++
			continue
		}
		kept = append(kept, n)
	}
	r.items = kept
	return deleted, nil
}

type recordingPublisher struct {
	calls  int
	unread int
	last   *NotificationResponse
	err    error
}

func (p *recordingPublisher) NotifyNew(_ context.Context, _ uuid.UUID, n *NotificationResponse, unread int) error {
	p.calls++
	p.last = n
	p.unread = unread
	return p.err
}

var errBoom = errors.New("boom")
