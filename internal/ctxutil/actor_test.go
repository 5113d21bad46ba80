package ctxutil

import (
	"context"
	"testing"
)

func TestActorFromContext(t *testing.T) {
	if got := ActorFromContext(context.Background()); got != "" {
		t.Errorf("expected empty actor, got %q", got)
	}

	ctx := WithActorID(context.Background(), "ADMIN-001")
	if got := ActorFromContext(ctx); got != "ADMIN-001" {
		t.Errorf("expected ADMIN-001, got %q", got)
	}
}

func TestRequestIDFromContext(t *testing.T) {
	ctx := WithRequestID(WithActorID(context.Background(), "U"), "req-1")

	if got := RequestIDFromContext(ctx); got != "req-1" {
		t.Errorf("expected req-1, got %q", got)
	}
	if got := ActorFromContext(ctx); got != "U" {
		t.Errorf("actor should survive, got %q", got)
	}
}
