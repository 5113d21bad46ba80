package secondary

import "context"

// Recipient is an email address that may receive moderation reports.
type Recipient struct {
	Email   string
	CanSend bool
}

// TemplateVar is a named variable passed to a mail template.
type TemplateVar struct {
	Name    string
	Content string
}

// EmailSender defines the secondary port for templated transactional email.
type EmailSender interface {
	// SendTemplated dispatches templateID to every recipient that can receive it.
	SendTemplated(ctx context.Context, recipients []Recipient, templateID string, vars []TemplateVar) error
}

// Flagger is the reporter identity handed to chat-ops.
type Flagger struct {
	ID       string
	Name     string
	Username string
	Language string
}

// FlaggedMessage is the message data handed to chat-ops.
type FlaggedMessage struct {
	ID             string
	Text           string
	AuthorID       string
	AuthorName     string
	AuthorUsername string
	CreatedAt      string
}

// InboxFlagNotification is the payload of one inbox flag chat-ops notification.
type InboxFlagNotification struct {
	AuthorEmail string
	Flagger     Flagger
	Message     FlaggedMessage
	UserComment string
}

// ChatOpsNotifier defines the secondary port for the moderators' chat-ops channel.
type ChatOpsNotifier interface {
	// SendInboxFlagNotification posts one inbox flag notification.
	SendInboxFlagNotification(ctx context.Context, n InboxFlagNotification) error
}

// FlagAlert is the base alert emitted for every flagged chat message,
// whatever conversation it lives in.
type FlagAlert struct {
	ID               string
	ConversationType string
	ConversationID   string
	MessageID        string
	AuthorID         string
	ReporterID       string
	FlagCount        int
}

// AlertPublisher defines the secondary port for base flag alerts.
type AlertPublisher interface {
	// PublishFlagAlert emits one alert.
	PublishFlagAlert(ctx context.Context, alert FlagAlert) error
}
