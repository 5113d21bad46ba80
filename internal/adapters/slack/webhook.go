// Package slack posts moderation notifications to a Slack incoming webhook.
package slack

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/example/modflag/internal/ports/secondary"
)

// WebhookNotifier implements secondary.ChatOpsNotifier with a Slack webhook.
type WebhookNotifier struct {
	URL        string
	FooterLink string
	HTTPClient *http.Client
	logger     *slog.Logger
}

// NewWebhookNotifier creates a notifier posting to webhookURL.
// footerLink is optional; when set, a moderation link is attached as footer.
func NewWebhookNotifier(webhookURL, footerLink string, logger *slog.Logger) *WebhookNotifier {
	if logger == nil {
		logger = slog.Default()
	}
	return &WebhookNotifier{
		URL:        webhookURL,
		FooterLink: footerLink,
		HTTPClient: &http.Client{
			Timeout: 30 * time.Second,
		},
		logger: logger,
	}
}

// Payload is the webhook request body.
type Payload struct {
	Text        string       `json:"text"`
	Attachments []Attachment `json:"attachments"`
}

// Attachment is a Slack message attachment.
type Attachment struct {
	Fallback   string   `json:"fallback"`
	Color      string   `json:"color"`
	AuthorName string   `json:"author_name"`
	Title      string   `json:"title"`
	Text       string   `json:"text"`
	Footer     string   `json:"footer,omitempty"`
	MrkdwnIn   []string `json:"mrkdwn_in"`
}

// SendInboxFlagNotification posts the flagged private message to the moderators' channel.
func (n *WebhookNotifier) SendInboxFlagNotification(ctx context.Context, notification secondary.InboxFlagNotification) error {
	body, err := json.Marshal(BuildInboxFlagPayload(notification, n.FooterLink))
	if err != nil {
		return fmt.Errorf("encode slack payload: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, n.URL, bytes.NewReader(body))
	if err != nil {
		return fmt.Errorf("create slack request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := n.HTTPClient.Do(req)
	if err != nil {
		return fmt.Errorf("send slack notification: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		respBody, _ := io.ReadAll(io.LimitReader(resp.Body, 1024))
		return fmt.Errorf("slack webhook returned %d: %s", resp.StatusCode, strings.TrimSpace(string(respBody)))
	}

	n.logger.InfoContext(ctx, "slack flag notification sent",
		"event", "slack_flag_notification_sent",
		"module", "slack",
		"layer", "adapter",
		"message_id", notification.Message.ID,
		"flagger_id", notification.Flagger.ID,
	)
	return nil
}

// BuildInboxFlagPayload renders an inbox flag notification as a webhook payload.
func BuildInboxFlagPayload(n secondary.InboxFlagNotification, footerLink string) Payload {
	text := fmt.Sprintf("%s (%s; language: %s) flagged a PM", n.Flagger.Name, n.Flagger.ID, n.Flagger.Language)
	if n.UserComment != "" {
		text += fmt.Sprintf(" and commented: %s", n.UserComment)
	}

	authorName := "System Message"
	if n.Message.AuthorID != "" && n.Message.AuthorID != "system" {
		authorName = fmt.Sprintf("%s - %s - %s", authorLabel(n.Message), n.AuthorEmail, n.Message.AuthorID)
	}

	attachment := Attachment{
		Fallback:   "Flag Message",
		Color:      "danger",
		AuthorName: authorName,
		Title:      fmt.Sprintf("Flag in %s's Inbox", n.Flagger.Name),
		Text:       n.Message.Text,
		MrkdwnIn:   []string{"text"},
	}
	if footerLink != "" {
		attachment.Footer = fmt.Sprintf("<%s?chatId=%s|Flag this message.>", footerLink, n.Message.ID)
	}

	return Payload{Text: text, Attachments: []Attachment{attachment}}
}

func authorLabel(m secondary.FlaggedMessage) string {
	if m.AuthorUsername != "" {
		return fmt.Sprintf("%s (@%s)", m.AuthorName, m.AuthorUsername)
	}
	return m.AuthorName
}

// Ensure WebhookNotifier implements the interface.
var _ secondary.ChatOpsNotifier = (*WebhookNotifier)(nil)
