package notification

import (
	"context"
	"errors"
	"testing"

	"github.com/google/uuid"

	"github.com/researchhub/researchhub-api/internal/pkg/apperr"
)

func TestServiceCreateStoresAndPublishes(t *testing.T) {
	repo := &memoryRepo{}
	pub := &recordingPublisher{}
	svc := NewService(repo, pub)

	userID := uuid.New()
	contentID := uuid.New()
	n, err := svc.Create(context.Background(), userID, TypeAppealApproved, "Appeal approved", "Your content is visible again",
		&NotificationData{ContentID: &contentID, Link: ContentLink(contentID)})
	if err != nil {
		t.Fatalf("create: %v", err)
	}

	if len(repo.items) != 1 || repo.items[0].ID != n.ID {
		t.Fatalf("expected notification to be stored, got %d items", len(repo.items))
	}
	if pub.calls != 1 || pub.unread != 1 {
		t.Fatalf("expected one publish with unread=1, got calls=%d unread=%d", pub.calls, pub.unread)
	}
	data := pub.last.Data
	if data == nil || data.ContentID == nil || *data.ContentID != contentID {
		t.Fatalf("expected content id in payload, got %+v", data)
	}
	if data.Link != "/content/"+contentID.String() {
		t.Fatalf("unexpected link %q", data.Link)
	}
}

func TestServiceCreatePublishFailureIsNotAnError(t *testing.T) {
	repo := &memoryRepo{}
	svc := NewService(repo, &recordingPublisher{err: errBoom})

	if _, err := svc.Create(context.Background(), uuid.New(), TypeAppealRejected, "Appeal rejected", "", nil); err != nil {
		t.Fatalf("expected publish failure to be swallowed, got %v", err)
	}
	if len(repo.items) != 1 {
		t.Fatal("expected notification to be stored")
	}
	if repo.items[0].Body.Valid {
		t.Fatal("expected empty body to be stored as NULL")
	}
}

func TestServiceCreateStorageError(t *testing.T) {
	pub := &recordingPublisher{}
	svc := NewService(&memoryRepo{createErr: errBoom}, pub)

	_, err := svc.Create(context.Background(), uuid.New(), TypeReportResolved, "Report resolved", "", nil)
	if !apperr.IsStorage(err) || !errors.Is(err, errBoom) {
		t.Fatalf("expected storage error wrapping cause, got %v", err)
	}
	if pub.calls != 0 {
		t.Fatal("expected no publish when insert fails")
	}
}

func TestServiceMarkAsReadScopedToOwner(t *testing.T) {
	repo := &memoryRepo{}
	svc := NewService(repo, nil)
	owner := uuid.New()

	n, err := svc.Create(context.Background(), owner, TypeContentRejected, "Content rejected", "", nil)
	if err != nil {
		t.Fatalf("create: %v", err)
	}

	if err := svc.MarkAsRead(context.Background(), n.ID, uuid.New()); !errors.Is(err, ErrNotificationNotFound) {
		t.Fatalf("expected not found for other user, got %v", err)
	}
	if err := svc.MarkAsRead(context.Background(), n.ID, owner); err != nil {
		t.Fatalf("mark as read: %v", err)
	}

	count, err := svc.GetUnreadCount(context.Background(), owner)
	if err != nil || count != 0 {
		t.Fatalf("expected 0 unread, got %d (%v)", count, err)
	}
}
