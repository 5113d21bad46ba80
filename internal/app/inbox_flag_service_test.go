package app

import (
	"context"
	"errors"
	"testing"

	"github.com/example/modflag/internal/core/effects"
	"github.com/example/modflag/internal/core/flag"
	"github.com/example/modflag/internal/ports/primary"
	"github.com/example/modflag/internal/ports/secondary"
)

// ============================================================================
// Test Helper
// ============================================================================

type flagFixture struct {
	service *InboxFlagServiceImpl
	repo    *mockOwnerRepository
	email   *mockEmailSender
	chatOps *mockChatOpsNotifier
	alerts  *mockAlertPublisher
}

func newFlagFixture(opts InboxFlagOptions) *flagFixture {
	repo := newMockOwnerRepository()
	email := &mockEmailSender{}
	chatOps := &mockChatOpsNotifier{}
	alerts := &mockAlertPublisher{}

	executor := NewNotificationExecutor(email, chatOps, alerts)
	base := NewBaseChatReporter(executor, discardLogger())
	if opts.Recipients == nil {
		opts.Recipients = []effects.Recipient{{Email: "mods@example.com", CanSend: true}}
	}
	service := NewInboxFlagService(repo, base, executor, opts, discardLogger())

	// U owns an inbox holding m1, written by B.
	repo.put(&secondary.OwnerRecord{
		ID:   "U",
		Name: "Una",
		Messages: []*secondary.InboxMessageRecord{
			{
				ID:          "m1",
				OwnerID:     "U",
				AuthorID:    "B",
				AuthorName:  "Bo",
				AuthorEmail: "bo@example.com",
				Text:        "rude words",
				CreatedAt:   "2026-01-02T03:04:05Z",
			},
		},
	})

	return &flagFixture{service: service, repo: repo, email: email, chatOps: chatOps, alerts: alerts}
}

func (f *flagFixture) storedMessage(t *testing.T, ownerID, messageID string) *secondary.InboxMessageRecord {
	t.Helper()
	owner, ok := f.repo.owners[ownerID]
	if !ok {
		t.Fatalf("owner %s not stored", ownerID)
	}
	msg := owner.FindMessage(messageID)
	if msg == nil {
		t.Fatalf("message %s not stored", messageID)
	}
	return msg
}

func (f *flagFixture) setStoredFlags(t *testing.T, flags map[string]bool, count int) {
	t.Helper()
	msg := f.storedMessage(t, "U", "m1")
	msg.Flags = flags
	msg.FlagCount = count
}

func regularReporter(id string) primary.Reporter {
	return primary.Reporter{ID: id, Name: "Reporter " + id}
}

func adminReporter(id string) primary.Reporter {
	return primary.Reporter{ID: id, Name: "Admin " + id, Admin: true}
}

// ============================================================================
// FlagInboxMessage Tests
// ============================================================================

func TestFlagInboxMessage_FirstFlag(t *testing.T) {
	f := newFlagFixture(InboxFlagOptions{})
	ctx := context.Background()

	msg, err := f.service.FlagInboxMessage(ctx, primary.FlagRequest{
		Reporter:  regularReporter("U"),
		MessageID: "m1",
	})
	if err != nil {
		t.Fatalf("expected no error, got %v", err)
	}

	if msg.FlagCount != 1 {
		t.Errorf("expected FlagCount 1, got %d", msg.FlagCount)
	}
	if len(msg.Flags) != 1 || !msg.Flags["U"] {
		t.Errorf("expected flags {U: true}, got %v", msg.Flags)
	}
	if !msg.Reported {
		t.Error("expected message to be reported")
	}

	// Two separate saves: flag first, reported second.
	if len(f.repo.saved) != 2 {
		t.Fatalf("expected 2 saves, got %d", len(f.repo.saved))
	}
	first := f.repo.saved[0].FindMessage("m1")
	if first.FlagCount != 1 || !first.Flags["U"] || first.Reported {
		t.Errorf("first save should hold the flag only, got %+v", first)
	}
	if !f.repo.saved[1].FindMessage("m1").Reported {
		t.Error("second save should mark the message reported")
	}
	for i, modified := range f.repo.savedModified {
		if !modified {
			t.Errorf("save %d: inbox messages were not marked modified", i)
		}
	}

	if len(f.alerts.alerts) != 1 {
		t.Fatalf("expected 1 base alert, got %d", len(f.alerts.alerts))
	}
	if f.alerts.alerts[0].ID == "" || f.alerts.alerts[0].ConversationType != flag.ConversationPrivateMessages {
		t.Errorf("unexpected alert: %+v", f.alerts.alerts[0])
	}

	if len(f.email.calls) != 1 {
		t.Fatalf("expected 1 moderator email, got %d", len(f.email.calls))
	}
	email := f.email.calls[0]
	if comment, ok := email.vars["REPORTER_COMMENT"]; !ok || comment != "" {
		t.Errorf("expected empty REPORTER_COMMENT, got %q (present %v)", comment, ok)
	}
	if email.templateID != flag.FlagReportTemplate {
		t.Errorf("expected template %s, got %s", flag.FlagReportTemplate, email.templateID)
	}
	if email.vars["REPORTER_UUID"] != "U" || email.vars["AUTHOR_UUID"] != "B" || email.vars["AUTHOR_EMAIL"] != "bo@example.com" {
		t.Errorf("unexpected identity variables: %v", email.vars)
	}
	if email.vars["GROUP_TYPE"] != flag.ConversationPrivateMessages {
		t.Errorf("expected GROUP_TYPE %q, got %q", flag.ConversationPrivateMessages, email.vars["GROUP_TYPE"])
	}
	if len(email.recipients) != 1 || email.recipients[0].Email != "mods@example.com" {
		t.Errorf("unexpected recipients: %+v", email.recipients)
	}

	if len(f.chatOps.calls) != 1 {
		t.Fatalf("expected 1 chat-ops notification, got %d", len(f.chatOps.calls))
	}
	n := f.chatOps.calls[0]
	if n.AuthorEmail != "bo@example.com" || n.Flagger.ID != "U" || n.Message.ID != "m1" || n.UserComment != "" {
		t.Errorf("unexpected chat-ops notification: %+v", n)
	}
}

func TestFlagInboxMessage_WithComment(t *testing.T) {
	f := newFlagFixture(InboxFlagOptions{})

	_, err := f.service.FlagInboxMessage(context.Background(), primary.FlagRequest{
		Reporter:  regularReporter("U"),
		MessageID: "m1",
		Comment:   "please look at this",
	})
	if err != nil {
		t.Fatalf("expected no error, got %v", err)
	}

	if got := f.email.calls[0].vars["REPORTER_COMMENT"]; got != "please look at this" {
		t.Errorf("expected comment in email, got %q", got)
	}
	if got := f.chatOps.calls[0].UserComment; got != "please look at this" {
		t.Errorf("expected comment in chat-ops, got %q", got)
	}
}

func TestFlagInboxMessage_DuplicateFlagByRegularUser(t *testing.T) {
	f := newFlagFixture(InboxFlagOptions{})
	f.setStoredFlags(t, map[string]bool{"U": true}, 1)

	_, err := f.service.FlagInboxMessage(context.Background(), primary.FlagRequest{
		Reporter:  regularReporter("U"),
		MessageID: "m1",
	})
	if !errors.Is(err, primary.ErrAlreadyReported) {
		t.Fatalf("expected ErrAlreadyReported, got %v", err)
	}
	if errors.Is(err, primary.ErrEscalationIncomplete) {
		t.Error("duplicate flag must not count as an incomplete escalation")
	}

	if f.repo.saveAttempts != 0 {
		t.Errorf("expected no saves, got %d", f.repo.saveAttempts)
	}
	stored := f.storedMessage(t, "U", "m1")
	if stored.FlagCount != 1 || len(stored.Flags) != 1 {
		t.Errorf("state changed: %+v", stored)
	}
	if len(f.email.calls)+len(f.chatOps.calls)+len(f.alerts.alerts) != 0 {
		t.Error("expected no notifications")
	}
}

func TestFlagInboxMessage_AdminForcesEscalation(t *testing.T) {
	for _, prior := range []int{0, 1, 100} {
		f := newFlagFixture(InboxFlagOptions{})
		f.setStoredFlags(t, nil, prior)

		msg, err := f.service.FlagInboxMessage(context.Background(), primary.FlagRequest{
			Reporter:     adminReporter("A"),
			MessageID:    "m1",
			TargetUserID: "U",
		})
		if err != nil {
			t.Fatalf("prior %d: expected no error, got %v", prior, err)
		}
		if msg.FlagCount != flag.DefaultEscalationFlagCount {
			t.Errorf("prior %d: expected FlagCount %d, got %d", prior, flag.DefaultEscalationFlagCount, msg.FlagCount)
		}
	}
}

func TestFlagInboxMessage_AdminOverRegularFlag(t *testing.T) {
	f := newFlagFixture(InboxFlagOptions{})
	f.setStoredFlags(t, map[string]bool{"U": true}, 1)

	msg, err := f.service.FlagInboxMessage(context.Background(), primary.FlagRequest{
		Reporter:     adminReporter("A"),
		MessageID:    "m1",
		TargetUserID: "U",
	})
	if err != nil {
		t.Fatalf("expected no error, got %v", err)
	}

	if msg.FlagCount != flag.DefaultEscalationFlagCount {
		t.Errorf("expected FlagCount %d, got %d", flag.DefaultEscalationFlagCount, msg.FlagCount)
	}
	if len(msg.Flags) != 2 || !msg.Flags["U"] || !msg.Flags["A"] {
		t.Errorf("expected flags {U, A}, got %v", msg.Flags)
	}
	if f.repo.getCalls[0] != "U" {
		t.Errorf("expected admin to address U's inbox, looked up %v", f.repo.getCalls)
	}
}

func TestFlagInboxMessage_AdminRepeatedFlag(t *testing.T) {
	f := newFlagFixture(InboxFlagOptions{})
	req := primary.FlagRequest{Reporter: adminReporter("A"), MessageID: "m1", TargetUserID: "U"}

	for i := 0; i < 2; i++ {
		msg, err := f.service.FlagInboxMessage(context.Background(), req)
		if err != nil {
			t.Fatalf("flag %d: expected no error, got %v", i+1, err)
		}
		if msg.FlagCount != flag.DefaultEscalationFlagCount {
			t.Errorf("flag %d: expected FlagCount %d, got %d", i+1, flag.DefaultEscalationFlagCount, msg.FlagCount)
		}
		if !msg.Reported {
			t.Errorf("flag %d: expected reported", i+1)
		}
	}
}

func TestFlagInboxMessage_CustomEscalationCount(t *testing.T) {
	f := newFlagFixture(InboxFlagOptions{EscalationCount: 9})

	msg, err := f.service.FlagInboxMessage(context.Background(), primary.FlagRequest{
		Reporter:     adminReporter("A"),
		MessageID:    "m1",
		TargetUserID: "U",
	})
	if err != nil {
		t.Fatalf("expected no error, got %v", err)
	}
	if msg.FlagCount != 9 {
		t.Errorf("expected FlagCount 9, got %d", msg.FlagCount)
	}
}

func TestFlagInboxMessage_ReportedMessageCanBeFlaggedByOthers(t *testing.T) {
	f := newFlagFixture(InboxFlagOptions{})
	stored := f.storedMessage(t, "U", "m1")
	stored.Flags = map[string]bool{"V": true}
	stored.FlagCount = 1
	stored.Reported = true

	msg, err := f.service.FlagInboxMessage(context.Background(), primary.FlagRequest{
		Reporter:  regularReporter("U"),
		MessageID: "m1",
	})
	if err != nil {
		t.Fatalf("expected no error, got %v", err)
	}
	if msg.FlagCount != 2 || !msg.Reported {
		t.Errorf("expected FlagCount 2 and reported, got %+v", msg)
	}
}

func TestFlagInboxMessage_MissingMessageID(t *testing.T) {
	for _, id := range []string{"", "   "} {
		f := newFlagFixture(InboxFlagOptions{})

		_, err := f.service.FlagInboxMessage(context.Background(), primary.FlagRequest{
			Reporter:  regularReporter("U"),
			MessageID: id,
		})

		var verr *primary.ValidationError
		if !errors.As(err, &verr) {
			t.Fatalf("id %q: expected ValidationError, got %v", id, err)
		}
		if verr.Field != "messageId" {
			t.Errorf("expected field messageId, got %s", verr.Field)
		}
		if len(f.repo.getCalls) != 0 {
			t.Errorf("expected no lookup, got %v", f.repo.getCalls)
		}
		if f.repo.saveAttempts != 0 {
			t.Error("expected no saves")
		}
	}
}

func TestFlagInboxMessage_UnknownMessage(t *testing.T) {
	f := newFlagFixture(InboxFlagOptions{})

	_, err := f.service.FlagInboxMessage(context.Background(), primary.FlagRequest{
		Reporter:  regularReporter("U"),
		MessageID: "does-not-exist",
	})
	if !errors.Is(err, primary.ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
	if f.repo.saveAttempts != 0 {
		t.Errorf("expected no saves, got %d", f.repo.saveAttempts)
	}
	if len(f.email.calls)+len(f.chatOps.calls)+len(f.alerts.alerts) != 0 {
		t.Error("expected no notifications")
	}
}

func TestFlagInboxMessage_RegularUserTargetIgnored(t *testing.T) {
	f := newFlagFixture(InboxFlagOptions{})
	f.repo.put(&secondary.OwnerRecord{ID: "V"})

	_, err := f.service.FlagInboxMessage(context.Background(), primary.FlagRequest{
		Reporter:     regularReporter("V"),
		MessageID:    "m1",
		TargetUserID: "U",
	})
	if !errors.Is(err, primary.ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
	if len(f.repo.getCalls) != 1 || f.repo.getCalls[0] != "V" {
		t.Errorf("expected lookup of V's own inbox only, got %v", f.repo.getCalls)
	}
	if f.storedMessage(t, "U", "m1").FlagCount != 0 {
		t.Error("U's message must not be touched")
	}
}

func TestFlagInboxMessage_OverrideOwnerMissing(t *testing.T) {
	f := newFlagFixture(InboxFlagOptions{})

	_, err := f.service.FlagInboxMessage(context.Background(), primary.FlagRequest{
		Reporter:     adminReporter("A"),
		MessageID:    "m1",
		TargetUserID: "ghost",
	})
	if !errors.Is(err, primary.ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
}

func TestFlagInboxMessage_LookupFailure(t *testing.T) {
	f := newFlagFixture(InboxFlagOptions{})
	f.repo.getErr = errors.New("database is locked")

	_, err := f.service.FlagInboxMessage(context.Background(), primary.FlagRequest{
		Reporter:  regularReporter("U"),
		MessageID: "m1",
	})
	if !errors.Is(err, primary.ErrPersistence) {
		t.Fatalf("expected ErrPersistence, got %v", err)
	}
}

func TestFlagInboxMessage_FlagSaveFails(t *testing.T) {
	f := newFlagFixture(InboxFlagOptions{})
	f.repo.saveErrs = []error{secondary.ErrConcurrentUpdate}

	_, err := f.service.FlagInboxMessage(context.Background(), primary.FlagRequest{
		Reporter:  regularReporter("U"),
		MessageID: "m1",
	})
	if !errors.Is(err, primary.ErrPersistence) {
		t.Fatalf("expected ErrPersistence, got %v", err)
	}
	if !errors.Is(err, secondary.ErrConcurrentUpdate) {
		t.Errorf("expected cause to be preserved, got %v", err)
	}
	if errors.Is(err, primary.ErrEscalationIncomplete) {
		t.Error("nothing was recorded; must not report an incomplete escalation")
	}
	if len(f.email.calls)+len(f.chatOps.calls)+len(f.alerts.alerts) != 0 {
		t.Error("expected no notifications after failed flag save")
	}
}

func TestFlagInboxMessage_ReportSaveFails(t *testing.T) {
	f := newFlagFixture(InboxFlagOptions{})
	f.repo.saveErrs = []error{nil, errors.New("disk full")}

	_, err := f.service.FlagInboxMessage(context.Background(), primary.FlagRequest{
		Reporter:  regularReporter("U"),
		MessageID: "m1",
	})
	if !errors.Is(err, primary.ErrEscalationIncomplete) {
		t.Fatalf("expected ErrEscalationIncomplete, got %v", err)
	}
	if !errors.Is(err, primary.ErrPersistence) {
		t.Errorf("expected ErrPersistence cause, got %v", err)
	}
	var escErr *primary.EscalationError
	if !errors.As(err, &escErr) || escErr.Stage != primary.StageMarkReported {
		t.Errorf("expected mark_reported stage, got %v", err)
	}

	stored := f.storedMessage(t, "U", "m1")
	if !stored.Flags["U"] || stored.FlagCount != 1 {
		t.Errorf("flag should stay persisted, got %+v", stored)
	}
	if stored.Reported {
		t.Error("reported marker must not be persisted")
	}
	if len(f.email.calls) != 1 {
		t.Error("notifications should have been sent before the failed save")
	}
}

func TestFlagInboxMessage_NotificationFailureBestEffort(t *testing.T) {
	f := newFlagFixture(InboxFlagOptions{})
	f.email.err = errors.New("email server unavailable")

	msg, err := f.service.FlagInboxMessage(context.Background(), primary.FlagRequest{
		Reporter:  regularReporter("U"),
		MessageID: "m1",
	})
	if err != nil {
		t.Fatalf("expected no error in best-effort mode, got %v", err)
	}
	if !msg.Reported {
		t.Error("expected message to be reported despite email failure")
	}
	if len(f.chatOps.calls) != 1 {
		t.Error("chat-ops should still be notified when email fails")
	}
}

func TestFlagInboxMessage_NotificationFailureStrict(t *testing.T) {
	f := newFlagFixture(InboxFlagOptions{StrictNotifications: true})
	f.chatOps.err = errors.New("webhook returned 500")

	_, err := f.service.FlagInboxMessage(context.Background(), primary.FlagRequest{
		Reporter:  regularReporter("U"),
		MessageID: "m1",
	})
	if !errors.Is(err, primary.ErrEscalationIncomplete) || !errors.Is(err, primary.ErrNotification) {
		t.Fatalf("expected incomplete escalation with notification cause, got %v", err)
	}
	var escErr *primary.EscalationError
	if !errors.As(err, &escErr) || escErr.Stage != primary.StageNotify {
		t.Errorf("expected notify stage, got %v", err)
	}

	if f.repo.saveAttempts != 1 {
		t.Errorf("expected only the flag save, got %d", f.repo.saveAttempts)
	}
	stored := f.storedMessage(t, "U", "m1")
	if !stored.Flags["U"] || stored.Reported {
		t.Errorf("expected flag persisted and not reported, got %+v", stored)
	}
	if len(f.email.calls) != 1 {
		t.Error("email should still be dispatched alongside the failing chat-ops")
	}
}

func TestFlagInboxMessage_BaseAlertFailurePropagates(t *testing.T) {
	f := newFlagFixture(InboxFlagOptions{})
	f.alerts.err = errors.New("stream unavailable")

	_, err := f.service.FlagInboxMessage(context.Background(), primary.FlagRequest{
		Reporter:  regularReporter("U"),
		MessageID: "m1",
	})
	if !errors.Is(err, primary.ErrEscalationIncomplete) || !errors.Is(err, primary.ErrNotification) {
		t.Fatalf("expected incomplete escalation with notification cause, got %v", err)
	}
	if len(f.email.calls)+len(f.chatOps.calls) != 0 {
		t.Error("inbox notifications must not run when the shared step fails")
	}
	if f.storedMessage(t, "U", "m1").Reported {
		t.Error("message must not be reported")
	}
}

func TestFlagInboxMessage_CancelledAfterFlagPersist(t *testing.T) {
	f := newFlagFixture(InboxFlagOptions{})
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	f.repo.onSave = func(attempt int) {
		if attempt == 0 {
			cancel()
		}
	}

	_, err := f.service.FlagInboxMessage(ctx, primary.FlagRequest{
		Reporter:  regularReporter("U"),
		MessageID: "m1",
	})
	if !errors.Is(err, primary.ErrEscalationIncomplete) {
		t.Fatalf("expected ErrEscalationIncomplete, got %v", err)
	}
	if !errors.Is(err, context.Canceled) {
		t.Errorf("expected context.Canceled cause, got %v", err)
	}
	if f.repo.saveAttempts != 1 {
		t.Errorf("expected exactly the flag save, got %d", f.repo.saveAttempts)
	}
	if len(f.alerts.alerts)+len(f.email.calls)+len(f.chatOps.calls) != 0 {
		t.Error("expected no notifications after cancellation")
	}
}

func TestFlagInboxMessage_CancelledBeforeStart(t *testing.T) {
	f := newFlagFixture(InboxFlagOptions{})
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := f.service.FlagInboxMessage(ctx, primary.FlagRequest{
		Reporter:  regularReporter("U"),
		MessageID: "m1",
	})
	if !errors.Is(err, context.Canceled) {
		t.Fatalf("expected context.Canceled, got %v", err)
	}
	if errors.Is(err, primary.ErrEscalationIncomplete) {
		t.Error("nothing was recorded; must not report an incomplete escalation")
	}
	if len(f.repo.getCalls) != 0 {
		t.Error("expected no lookup after cancellation")
	}
}

func TestNewInboxFlagService_CopiesRecipients(t *testing.T) {
	recipients := []effects.Recipient{{Email: "mods@example.com", CanSend: true}}
	f := newFlagFixture(InboxFlagOptions{Recipients: recipients})
	recipients[0].Email = "attacker@example.com"

	if _, err := f.service.FlagInboxMessage(context.Background(), primary.FlagRequest{
		Reporter:  regularReporter("U"),
		MessageID: "m1",
	}); err != nil {
		t.Fatalf("expected no error, got %v", err)
	}
	if got := f.email.calls[0].recipients[0].Email; got != "mods@example.com" {
		t.Errorf("expected configured recipient, got %s", got)
	}
}
