package app

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"sync"

	"github.com/example/modflag/internal/ports/secondary"
)

// ============================================================================
// Mock Implementations
// ============================================================================

// Ensure mocks implement the interfaces
var (
	_ secondary.OwnerRepository = (*mockOwnerRepository)(nil)
	_ secondary.EmailSender     = (*mockEmailSender)(nil)
	_ secondary.ChatOpsNotifier = (*mockChatOpsNotifier)(nil)
	_ secondary.AlertPublisher  = (*mockAlertPublisher)(nil)
)

// mockOwnerRepository implements secondary.OwnerRepository for testing.
// Reads and writes go through deep copies, like a real store.
type mockOwnerRepository struct {
	owners        map[string]*secondary.OwnerRecord
	getCalls      []string
	saveAttempts  int
	saved         []*secondary.OwnerRecord // snapshot per successful save
	savedModified []bool                   // whether inbox.messages was marked per successful save
	saveErrs      []error                  // indexed by save attempt
	createErr     error
	getErr        error
	onSave        func(attempt int)
}

func newMockOwnerRepository() *mockOwnerRepository {
	return &mockOwnerRepository{
		owners: make(map[string]*secondary.OwnerRecord),
	}
}

func (m *mockOwnerRepository) put(owner *secondary.OwnerRecord) {
	m.owners[owner.ID] = cloneOwner(owner)
}

func (m *mockOwnerRepository) Create(ctx context.Context, owner *secondary.OwnerRecord) error {
	if m.createErr != nil {
		return m.createErr
	}
	if _, ok := m.owners[owner.ID]; ok {
		return errors.New("owner already exists")
	}
	m.owners[owner.ID] = cloneOwner(owner)
	return nil
}

func (m *mockOwnerRepository) GetByID(ctx context.Context, id string) (*secondary.OwnerRecord, error) {
	m.getCalls = append(m.getCalls, id)
	if m.getErr != nil {
		return nil, m.getErr
	}
	owner, ok := m.owners[id]
	if !ok {
		return nil, secondary.ErrNotFound
	}
	return cloneOwner(owner), nil
}

func (m *mockOwnerRepository) Save(ctx context.Context, owner *secondary.OwnerRecord) error {
	attempt := m.saveAttempts
	m.saveAttempts++
	if attempt < len(m.saveErrs) && m.saveErrs[attempt] != nil {
		return m.saveErrs[attempt]
	}

	m.savedModified = append(m.savedModified, owner.IsModified(secondary.PathInboxMessages))
	snapshot := cloneOwner(owner)
	m.saved = append(m.saved, snapshot)
	m.owners[owner.ID] = cloneOwner(owner)
	owner.ClearModified()

	if m.onSave != nil {
		m.onSave(attempt)
	}
	return nil
}

func cloneOwner(o *secondary.OwnerRecord) *secondary.OwnerRecord {
	c := *o
	c.ClearModified()
	c.Messages = make([]*secondary.InboxMessageRecord, len(o.Messages))
	for i, msg := range o.Messages {
		mc := *msg
		if msg.Flags != nil {
			mc.Flags = make(map[string]bool, len(msg.Flags))
			for k, v := range msg.Flags {
				mc.Flags[k] = v
			}
		}
		c.Messages[i] = &mc
	}
	return &c
}

type emailCall struct {
	recipients []secondary.Recipient
	templateID string
	vars       map[string]string
}

// mockEmailSender implements secondary.EmailSender for testing.
type mockEmailSender struct {
	mu    sync.Mutex
	calls []emailCall
	err   error
}

func (m *mockEmailSender) SendTemplated(ctx context.Context, recipients []secondary.Recipient, templateID string, vars []secondary.TemplateVar) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.err != nil {
		return m.err
	}
	byName := make(map[string]string, len(vars))
	for _, v := range vars {
		byName[v.Name] = v.Content
	}
	m.calls = append(m.calls, emailCall{recipients: recipients, templateID: templateID, vars: byName})
	return nil
}

// mockChatOpsNotifier implements secondary.ChatOpsNotifier for testing.
type mockChatOpsNotifier struct {
	mu    sync.Mutex
	calls []secondary.InboxFlagNotification
	err   error
}

func (m *mockChatOpsNotifier) SendInboxFlagNotification(ctx context.Context, n secondary.InboxFlagNotification) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.err != nil {
		return m.err
	}
	m.calls = append(m.calls, n)
	return nil
}

// mockAlertPublisher implements secondary.AlertPublisher for testing.
type mockAlertPublisher struct {
	mu     sync.Mutex
	alerts []secondary.FlagAlert
	err    error
}

func (m *mockAlertPublisher) PublishFlagAlert(ctx context.Context, alert secondary.FlagAlert) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.err != nil {
		return m.err
	}
	m.alerts = append(m.alerts, alert)
	return nil
}

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}
