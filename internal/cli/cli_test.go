package cli

import (
	"errors"
	"fmt"
	"strings"
	"testing"

	"github.com/example/modflag/internal/ctxutil"
	"github.com/example/modflag/internal/ports/primary"
)

func TestDescribeError(t *testing.T) {
	tests := []struct {
		name     string
		err      error
		wantHint string
	}{
		{"validation", &primary.ValidationError{Field: "messageId"}, "pass a value for messageId"},
		{"already reported", fmt.Errorf("%w: by U", primary.ErrAlreadyReported), "flag a message once"},
		{"not found", fmt.Errorf("%w: message m9", primary.ErrNotFound), "modflag inbox list"},
		{"incomplete", &primary.EscalationError{MessageID: "m1", Stage: primary.StageNotify, Err: primary.ErrNotification}, "flag is stored"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := describeError(tt.err)
			if !errors.Is(got, tt.err) {
				t.Errorf("expected original error to be wrapped, got %v", got)
			}
			if !strings.Contains(got.Error(), tt.wantHint) {
				t.Errorf("expected hint %q, got %q", tt.wantHint, got.Error())
			}
		})
	}
}

func TestDescribeError_Passthrough(t *testing.T) {
	if describeError(nil) != nil {
		t.Error("expected nil for nil")
	}
	plain := errors.New("boom")
	if got := describeError(plain); got != plain {
		t.Errorf("expected unrelated errors unchanged, got %v", got)
	}
}

func TestNewContext(t *testing.T) {
	oldActor, oldRequest := globalActorID, globalRequestID
	defer func() { globalActorID, globalRequestID = oldActor, oldRequest }()

	globalActorID = "USER-001"
	globalRequestID = "req-1"

	ctx := NewContext()
	if got := ctxutil.ActorFromContext(ctx); got != "USER-001" {
		t.Errorf("expected actor USER-001, got %q", got)
	}
	if got := ctxutil.RequestIDFromContext(ctx); got != "req-1" {
		t.Errorf("expected request req-1, got %q", got)
	}
}
