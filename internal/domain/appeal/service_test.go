package appeal

import (
	"context"
	"database/sql"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/google/uuid"

	"github.com/researchhub/researchhub-api/internal/domain/content"
	"github.com/researchhub/researchhub-api/internal/domain/notification"
	"github.com/researchhub/researchhub-api/internal/pkg/apperr"
	"github.com/researchhub/researchhub-api/internal/pkg/lock"
)

type fixture struct {
	repo     *memoryRepo
	content  *fakeContent
	notifier *fakeNotifier
	audit    *fakeAudit
	locker   lock.Locker
	post     *content.Content
	appeal   *Appeal
}

func newFixture() *fixture {
	post := &content.Content{
		ID:              uuid.New(),
		AuthorID:        uuid.New(),
		Title:           "Replication of the marshmallow test",
		Kind:            content.KindArticle,
		ApprovalStatus:  content.ApprovalRejected,
		RejectionReason: sql.NullString{String: "Unsupported claims", Valid: true},
		RejectedBy:      uuid.NullUUID{UUID: uuid.New(), Valid: true},
		RejectedAt:      sql.NullTime{Time: time.Now().Add(-time.Hour), Valid: true},
	}
	a := &Appeal{
		ID:        uuid.New(),
		ContentID: post.ID,
		UserID:    post.AuthorID,
		Reason:    "The claims are backed by the appendix",
		Status:    StatusPending,
		CreatedAt: time.Now(),
	}
	return &fixture{
		repo:     newMemoryRepo(a),
		content:  newFakeContent(post),
		notifier: &fakeNotifier{},
		audit:    &fakeAudit{},
		locker:   lock.NewLocalLocker(),
		post:     post,
		appeal:   a,
	}
}

func (f *fixture) service() *Service {
	return NewService(f.repo, f.content, f.notifier, f.audit, f.locker, time.Minute, nil)
}

func (f *fixture) mutations() int {
	return f.repo.mutations + f.content.restores + len(f.notifier.sent)
}

func TestDecideApprovedRestoresContent(t *testing.T) {
	f := newFixture()
	admin := uuid.New()

	result, err := f.service().DecideAppeal(context.Background(), admin, f.appeal.ID, StatusApproved, "  Looks fine now ")
	if err != nil {
		t.Fatalf("decide: %v", err)
	}

	post := f.content.items[f.post.ID]
	if post.ApprovalStatus != content.ApprovalApproved {
		t.Fatalf("expected approved content, got %s", post.ApprovalStatus)
	}
	if post.RejectionReason.Valid || post.RejectedBy.Valid || post.RejectedAt.Valid {
		t.Fatalf("expected rejection metadata cleared, got %+v", post)
	}

	stored := f.repo.appeals[f.appeal.ID]
	if stored.Status != StatusApproved || stored.AdminResponse.String != "Looks fine now" {
		t.Fatalf("unexpected appeal %+v", stored)
	}
	if result.Appeal.Status != StatusApproved || result.NotificationErr != nil {
		t.Fatalf("unexpected result %+v", result)
	}
	for _, effect := range []SideEffect{EffectAppealUpdated, EffectContentRestored, EffectNotificationSent} {
		if !result.Has(effect) {
			t.Fatalf("expected %s in %v", effect, result.Applied)
		}
	}

	if len(f.notifier.sent) != 1 {
		t.Fatalf("expected one notification, got %d", len(f.notifier.sent))
	}
	sent := f.notifier.sent[0]
	if sent.userID != f.appeal.UserID || sent.typ != notification.TypeAppealApproved {
		t.Fatalf("unexpected notification %+v", sent)
	}
	if sent.data == nil || *sent.data.ContentID != f.post.ID || sent.data.Link != notification.ContentLink(f.post.ID) {
		t.Fatalf("expected content link, got %+v", sent.data)
	}
	if len(f.audit.entries) != 1 {
		t.Fatalf("expected one audit entry, got %d", len(f.audit.entries))
	}
}

func TestDecideRejectedKeepsContentRejected(t *testing.T) {
	f := newFixture()

	result, err := f.service().DecideAppeal(context.Background(), uuid.New(), f.appeal.ID, StatusRejected, "Needs citations")
	if err != nil {
		t.Fatalf("decide: %v", err)
	}
	if f.repo.appeals[f.appeal.ID].Status != StatusRejected {
		t.Fatal("expected rejected appeal")
	}
	if f.content.restores != 0 || f.content.items[f.post.ID].ApprovalStatus != content.ApprovalRejected {
		t.Fatal("expected no content mutation")
	}
	if result.Has(EffectContentRestored) {
		t.Fatal("unexpected content restore effect")
	}
	if len(f.notifier.sent) != 1 || !strings.Contains(f.notifier.sent[0].body, "Needs citations") {
		t.Fatalf("expected response in notification, got %+v", f.notifier.sent)
	}
	if f.notifier.sent[0].typ != notification.TypeAppealRejected {
		t.Fatalf("unexpected type %s", f.notifier.sent[0].typ)
	}
}

func TestDecideRevisionRequested(t *testing.T) {
	f := newFixture()

	if _, err := f.service().DecideAppeal(context.Background(), uuid.New(), f.appeal.ID, StatusRevisionRequested, "Add a limitations section"); err != nil {
		t.Fatalf("decide: %v", err)
	}
	if f.content.restores != 0 {
		t.Fatal("expected no content mutation")
	}
	sent := f.notifier.sent[0]
	if sent.typ != notification.TypeAppealRevisionRequested || !strings.Contains(sent.body, "Add a limitations section") {
		t.Fatalf("unexpected notification %+v", sent)
	}
}

func TestDecideRevisionRequiresResponse(t *testing.T) {
	for _, response := range []string{"", "   \n\t"} {
		f := newFixture()

		_, err := f.service().DecideAppeal(context.Background(), uuid.New(), f.appeal.ID, StatusRevisionRequested, response)
		if !errors.Is(err, ErrResponseRequired) || !errors.Is(err, apperr.ErrValidation) {
			t.Fatalf("response %q: expected response required, got %v", response, err)
		}
		if f.mutations() != 0 {
			t.Fatalf("response %q: expected zero mutations", response)
		}
	}
}

func TestDecideNonPendingFailsWithoutMutation(t *testing.T) {
	for _, prior := range []Status{StatusApproved, StatusRejected, StatusRevisionRequested} {
		for _, decision := range []Status{StatusApproved, StatusRejected, StatusRevisionRequested} {
			f := newFixture()
			f.repo.appeals[f.appeal.ID].Status = prior

			_, err := f.service().DecideAppeal(context.Background(), uuid.New(), f.appeal.ID, decision, "again")
			if !errors.Is(err, ErrAppealNotPending) || !apperr.IsValidation(err) {
				t.Fatalf("%s -> %s: expected not pending validation error, got %v", prior, decision, err)
			}
			if f.mutations() != 0 {
				t.Fatalf("%s -> %s: expected zero mutations", prior, decision)
			}
		}
	}
}

func TestDecideTwiceFailsFast(t *testing.T) {
	f := newFixture()
	svc := f.service()

	if _, err := svc.DecideAppeal(context.Background(), uuid.New(), f.appeal.ID, StatusApproved, ""); err != nil {
		t.Fatalf("first decision: %v", err)
	}
	before := f.mutations()

	if _, err := svc.DecideAppeal(context.Background(), uuid.New(), f.appeal.ID, StatusRejected, "changed my mind"); !errors.Is(err, ErrAppealNotPending) {
		t.Fatalf("expected not pending, got %v", err)
	}
	if f.mutations() != before {
		t.Fatal("expected second decision to apply nothing")
	}
}

func TestDecideInvalidInput(t *testing.T) {
	f := newFixture()
	svc := f.service()

	if _, err := svc.DecideAppeal(context.Background(), uuid.New(), f.appeal.ID, StatusPending, ""); !errors.Is(err, ErrInvalidDecision) {
		t.Fatalf("expected invalid decision, got %v", err)
	}
	if _, err := svc.DecideAppeal(context.Background(), uuid.New(), f.appeal.ID, "escalate", ""); !errors.Is(err, ErrInvalidDecision) {
		t.Fatalf("expected invalid decision, got %v", err)
	}
	if _, err := svc.DecideAppeal(context.Background(), uuid.New(), uuid.New(), StatusRejected, ""); !errors.Is(err, ErrAppealNotFound) {
		t.Fatalf("expected not found, got %v", err)
	}
	if f.mutations() != 0 {
		t.Fatal("expected zero mutations")
	}
}

func TestDecideNotificationFailureIsSoft(t *testing.T) {
	f := newFixture()
	f.notifier.err = errors.New("notifications table locked")

	result, err := f.service().DecideAppeal(context.Background(), uuid.New(), f.appeal.ID, StatusApproved, "")
	if err != nil {
		t.Fatalf("expected committed decision, got %v", err)
	}
	if result.NotificationErr == nil {
		t.Fatal("expected notification error in result")
	}
	if result.Has(EffectNotificationSent) || !result.Has(EffectAppealUpdated) || !result.Has(EffectContentRestored) {
		t.Fatalf("unexpected effects %v", result.Applied)
	}
	if f.repo.appeals[f.appeal.ID].Status != StatusApproved {
		t.Fatal("appeal decision must not be rolled back")
	}
	if f.content.items[f.post.ID].ApprovalStatus != content.ApprovalApproved {
		t.Fatal("content restore must not be rolled back")
	}

	resp := DecisionResponseFromResult(result)
	if !resp.NotificationDelayed {
		t.Fatal("expected notification_delayed in response")
	}
}

func TestDecideAppealUpdateFailureIsFatal(t *testing.T) {
	f := newFixture()
	f.repo.updateErr = errors.New("connection reset")

	result, err := f.service().DecideAppeal(context.Background(), uuid.New(), f.appeal.ID, StatusApproved, "")
	if !apperr.IsStorage(err) {
		t.Fatalf("expected storage error, got %v", err)
	}
	if result != nil {
		t.Fatalf("expected no result, got %+v", result)
	}
	if f.content.restores != 0 || len(f.notifier.sent) != 0 {
		t.Fatal("later steps must not run")
	}
}

func TestDecideContentRestoreFailureRevertsAppeal(t *testing.T) {
	f := newFixture()
	f.content.restoreErr = errors.New("permission denied")

	result, err := f.service().DecideAppeal(context.Background(), uuid.New(), f.appeal.ID, StatusApproved, "ok")
	if !apperr.IsStorage(err) {
		t.Fatalf("expected storage error, got %v", err)
	}
	if len(result.Applied) != 0 || result.CompensationFailed {
		t.Fatalf("expected reverted effects, got %v", result.Applied)
	}
	if f.repo.appeals[f.appeal.ID].Status != StatusPending {
		t.Fatalf("expected appeal back to pending, got %s", f.repo.appeals[f.appeal.ID].Status)
	}
	if len(f.notifier.sent) != 0 {
		t.Fatal("notification must not be sent")
	}

	// The appeal can be decided again once storage recovers
	f.content.restoreErr = nil
	if _, err := f.service().DecideAppeal(context.Background(), uuid.New(), f.appeal.ID, StatusApproved, "ok"); err != nil {
		t.Fatalf("retry: %v", err)
	}
}

func TestDecideRestoreAndRevertBothFail(t *testing.T) {
	f := newFixture()
	f.content.restoreErr = errors.New("permission denied")
	f.repo.resetErr = errors.New("connection reset")

	result, err := f.service().DecideAppeal(context.Background(), uuid.New(), f.appeal.ID, StatusApproved, "ok")
	if !apperr.IsStorage(err) {
		t.Fatalf("expected storage error, got %v", err)
	}
	if !result.CompensationFailed {
		t.Fatal("expected compensation failure to be recorded")
	}
	if !result.Has(EffectAppealUpdated) || result.Has(EffectContentRestored) {
		t.Fatalf("expected only the appeal update to remain applied, got %v", result.Applied)
	}
	if f.repo.appeals[f.appeal.ID].Status != StatusApproved {
		t.Fatalf("expected appeal left approved, got %s", f.repo.appeals[f.appeal.ID].Status)
	}
	if len(f.notifier.sent) != 0 {
		t.Fatal("notification must not be sent")
	}
}

func TestDecideLockHeld(t *testing.T) {
	f := newFixture()
	release, err := f.locker.Acquire(context.Background(), "appeal:decision:"+f.appeal.ID.String(), time.Minute)
	if err != nil {
		t.Fatalf("acquire: %v", err)
	}

	_, err = f.service().DecideAppeal(context.Background(), uuid.New(), f.appeal.ID, StatusRejected, "")
	if !errors.Is(err, ErrDecisionInProgress) {
		t.Fatalf("expected in progress, got %v", err)
	}
	if f.mutations() != 0 {
		t.Fatal("expected zero mutations")
	}

	release()
	if _, err := f.service().DecideAppeal(context.Background(), uuid.New(), f.appeal.ID, StatusRejected, ""); err != nil {
		t.Fatalf("after release: %v", err)
	}
}

func TestDecideLockBackendDownStillDecides(t *testing.T) {
	f := newFixture()
	f.locker = brokenLocker{}

	if _, err := f.service().DecideAppeal(context.Background(), uuid.New(), f.appeal.ID, StatusRejected, ""); err != nil {
		t.Fatalf("decide: %v", err)
	}
	if f.repo.appeals[f.appeal.ID].Status != StatusRejected {
		t.Fatal("expected decision to be recorded")
	}
}

func TestDecideNotifiesOnlyFiler(t *testing.T) {
	f := newFixture()

	if _, err := f.service().DecideAppeal(context.Background(), uuid.New(), f.appeal.ID, StatusApproved, ""); err != nil {
		t.Fatalf("decide: %v", err)
	}
	for _, sent := range f.notifier.sent {
		if sent.userID != f.appeal.UserID {
			t.Fatalf("unexpected recipient %s", sent.userID)
		}
	}
}

func TestFileAppeal(t *testing.T) {
	f := newFixture()
	delete(f.repo.appeals, f.appeal.ID)
	svc := f.service()
	req := &CreateAppealRequest{ContentID: f.post.ID, Reason: "Sources are listed in section 4"}

	if _, err := svc.FileAppeal(context.Background(), uuid.New(), req); !errors.Is(err, ErrNotContentAuthor) {
		t.Fatalf("expected not author, got %v", err)
	}

	a, err := svc.FileAppeal(context.Background(), f.post.AuthorID, req)
	if err != nil {
		t.Fatalf("file: %v", err)
	}
	if a.Status != StatusPending || a.UserID != f.post.AuthorID {
		t.Fatalf("unexpected appeal %+v", a)
	}

	if _, err := svc.FileAppeal(context.Background(), f.post.AuthorID, req); !errors.Is(err, ErrAppealAlreadyExists) {
		t.Fatalf("expected duplicate, got %v", err)
	}

	// A concurrent filing that slips past HasPending hits the unique index
	delete(f.repo.appeals, a.ID)
	f.repo.createErr = ErrAppealAlreadyExists
	if _, err := svc.FileAppeal(context.Background(), f.post.AuthorID, req); !errors.Is(err, ErrAppealAlreadyExists) || apperr.IsStorage(err) {
		t.Fatalf("expected duplicate from insert, got %v", err)
	}
	f.repo.createErr = nil

	if _, err := svc.FileAppeal(context.Background(), f.post.AuthorID, &CreateAppealRequest{ContentID: uuid.New(), Reason: req.Reason}); !errors.Is(err, ErrContentNotFound) {
		t.Fatalf("expected content not found, got %v", err)
	}

	f.content.items[f.post.ID].ApprovalStatus = content.ApprovalApproved
	if _, err := svc.FileAppeal(context.Background(), f.post.AuthorID, req); !errors.Is(err, ErrContentNotRejected) {
		t.Fatalf("expected not rejected, got %v", err)
	}
}

func TestListValidatesStatus(t *testing.T) {
	f := newFixture()
	svc := f.service()

	got, err := svc.List(context.Background(), "pending", 50, 0)
	if err != nil || len(got) != 1 {
		t.Fatalf("expected one pending appeal, got %d (%v)", len(got), err)
	}
	if _, err := svc.List(context.Background(), "closed", 50, 0); !errors.Is(err, ErrInvalidStatus) {
		t.Fatalf("expected invalid status, got %v", err)
	}
}
