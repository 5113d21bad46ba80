// Package email sends transactional emails through the email job server.
package email

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

const (
	jobAttempts     = 5
	jobBackoffDelay = 10 * time.Minute
)

// JobClient implements secondary.EmailSender by queueing email jobs on the
// email server's /job endpoint.
type JobClient struct {
	URL        string
	AuthUser   string
	AuthPass   string
	HTTPClient *http.Client
	logger     *slog.Logger
}

// NewJobClient creates a new email job client.
func NewJobClient(url, authUser, authPass string, logger *slog.Logger) *JobClient {
	if logger == nil {
		logger = slog.Default()
	}
	return &JobClient{
		URL:      strings.TrimSuffix(url, "/"),
		AuthUser: authUser,
		AuthPass: authPass,
		HTTPClient: &http.Client{
			Timeout: 30 * time.Second,
		},
		logger: logger,
	}
}

type jobRequest struct {
	Type    string     `json:"type"`
	Data    jobData    `json:"data"`
	Options jobOptions `json:"options"`
}

type jobData struct {
	EmailType string         `json:"emailType"`
	To        []jobRecipient `json:"to"`
	Variables []jobVariable  `json:"variables"`
}

type jobRecipient struct {
	Email string `json:"email"`
}

type jobVariable struct {
	Name    string `json:"name"`
	Content string `json:"content"`
}

type jobOptions struct {
	Priority string     `json:"priority"`
	Attempts int        `json:"attempts"`
	Backoff  jobBackoff `json:"backoff"`
}

type jobBackoff struct {
	Delay int64  `json:"delay"`
	Type  string `json:"type"`
}

// SendTemplated queues one templated email for every recipient that can receive mail.
// Recipients with CanSend unset are skipped; with none left nothing is sent.
func (c *JobClient) SendTemplated(ctx context.Context, recipients []secondary.Recipient, templateID string, vars []secondary.TemplateVar) error {
	var to []jobRecipient
	for _, r := range recipients {
		if r.CanSend && r.Email != "" {
			to = append(to, jobRecipient{Email: r.Email})
		}
	}
	if len(to) == 0 {
		c.logger.DebugContext(ctx, "no email recipients, skipping",
			"event", "email_skipped",
			"module", "email",
			"layer", "adapter",
			"template", templateID,
		)
		return nil
	}

	variables := make([]jobVariable, len(vars))
	for i, v := range vars {
		variables[i] = jobVariable{Name: v.Name, Content: v.Content}
	}

	payload, err := json.Marshal(jobRequest{
		Type: "email",
		Data: jobData{
			EmailType: templateID,
			To:        to,
			Variables: variables,
		},
		Options: jobOptions{
			Priority: "high",
			Attempts: jobAttempts,
			Backoff:  jobBackoff{Delay: jobBackoffDelay.Milliseconds(), Type: "fixed"},
		},
	})
	if err != nil {
		return fmt.Errorf("encode email job: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.URL+"/job", bytes.NewReader(payload))
	if err != nil {
		return fmt.Errorf("create email job request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	if c.AuthUser != "" || c.AuthPass != "" {
		req.SetBasicAuth(c.AuthUser, c.AuthPass)
	}

	resp, err := c.HTTPClient.Do(req)
	if err != nil {
		return fmt.Errorf("send email job: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 1024))
		return fmt.Errorf("email server returned %d: %s", resp.StatusCode, strings.TrimSpace(string(body)))
	}

	c.logger.InfoContext(ctx, "email job queued",
		"event", "email_job_queued",
		"module", "email",
		"layer", "adapter",
		"template", templateID,
		"recipients", len(to),
	)
	return nil
}

// Ensure JobClient implements the interface.
var _ secondary.EmailSender = (*JobClient)(nil)
