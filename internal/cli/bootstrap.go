// Package cli provides CLI commands for the modflag application.
package cli

import (
	gocontext "context"
	"fmt"

	"github.com/google/uuid"
	"github.com/spf13/cobra"

	"github.com/example/modflag/internal/config"
	"github.com/example/modflag/internal/ctxutil"
	"github.com/example/modflag/internal/logger"
	"github.com/example/modflag/internal/wire"
)

// globalActorID stores the id passed via --as for the current CLI invocation.
var globalActorID string

// globalRequestID correlates every log line of one CLI invocation.
var globalRequestID string

// AddGlobalFlags registers the persistent flags shared by every command.
func AddGlobalFlags(root *cobra.Command) {
	root.PersistentFlags().StringVar(&globalActorID, "as", "", "Owner ID to act as (reporter identity)")
}

// Bootstrap loads configuration, installs logging and configures wiring.
// Should be called once at CLI startup in PersistentPreRunE.
func Bootstrap() error {
	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("failed to load configuration: %w", err)
	}
	logger.Setup(cfg)
	wire.Configure(cfg)
	globalRequestID = uuid.NewString()
	return nil
}

// Shutdown releases resources opened during the invocation.
func Shutdown() error {
	return wire.Close()
}

// GetActorID returns the actor ID passed via --as.
func GetActorID() string {
	return globalActorID
}

// NewContext creates a context.Background() with the current actor and request ID embedded.
// CLI commands should use this instead of context.Background() directly.
func NewContext() gocontext.Context {
	ctx := gocontext.Background()
	if globalRequestID != "" {
		ctx = ctxutil.WithRequestID(ctx, globalRequestID)
	}
	if globalActorID != "" {
		ctx = ctxutil.WithActorID(ctx, globalActorID)
	}
	return ctx
}
