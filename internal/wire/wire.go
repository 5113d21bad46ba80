// Package wire provides dependency injection for the modflag application.
// It creates singleton services with lazy initialization.
package wire

import (
	"database/sql"
	"errors"
	"io"
	"log/slog"
	"os"
	"sync"

	"github.com/redis/go-redis/v9"

	cliadapter "github.com/example/modflag/internal/adapters/cli"
	"github.com/example/modflag/internal/adapters/email"
	"github.com/example/modflag/internal/adapters/slack"
	"github.com/example/modflag/internal/adapters/sqlite"
	"github.com/example/modflag/internal/adapters/stream"
	"github.com/example/modflag/internal/app"
	"github.com/example/modflag/internal/config"
	"github.com/example/modflag/internal/core/effects"
	"github.com/example/modflag/internal/db"
	"github.com/example/modflag/internal/ports/primary"
	"github.com/example/modflag/internal/ports/secondary"
)

var (
	cfg          config.Config
	database     *sql.DB
	redisClient  *redis.Client
	inboxService primary.InboxService
	flagService  primary.FlagService
	once         sync.Once
)

// Configure sets the configuration used when services are first built.
// It must be called before any service accessor.
func Configure(c config.Config) {
	cfg = c
}

// InboxService returns the singleton InboxService instance.
func InboxService() primary.InboxService {
	once.Do(initServices)
	return inboxService
}

// FlagService returns the singleton FlagService instance.
func FlagService() primary.FlagService {
	once.Do(initServices)
	return flagService
}

// Database returns the shared database connection.
func Database() *sql.DB {
	once.Do(initServices)
	return database
}

// initServices initializes all services and their dependencies.
// This is called once via sync.Once.
func initServices() {
	logger := slog.Default()

	var err error
	database, err = db.Open(cfg.DatabasePath)
	if err != nil {
		logger.Error("failed to initialize database", "path", cfg.DatabasePath, "error", err)
		os.Exit(1)
	}

	// Create repository adapters (secondary ports) - sqlite adapters with injected DB
	ownerRepo := sqlite.NewOwnerRepository(database)

	// Notification adapters fall back to logging when their backend is not configured.
	var emailSender secondary.EmailSender = email.NewNoopSender(logger)
	if cfg.EmailServer.URL != "" {
		emailSender = email.NewJobClient(cfg.EmailServer.URL, cfg.EmailServer.AuthUser, cfg.EmailServer.AuthPassword, logger)
	}

	var chatOps secondary.ChatOpsNotifier = slack.NewNoopNotifier(logger)
	if cfg.Slack.FlaggingURL != "" {
		chatOps = slack.NewWebhookNotifier(cfg.Slack.FlaggingURL, cfg.Slack.FooterLink, logger)
	}

	var alerts secondary.AlertPublisher = stream.NewLogPublisher(logger)
	if cfg.Redis.URL != "" {
		opts, err := redis.ParseURL(cfg.Redis.URL)
		if err != nil {
			logger.Error("invalid REDIS_URL", "error", err)
			os.Exit(1)
		}
		redisClient = redis.NewClient(opts)
		alerts = stream.NewAlertPublisher(redisClient, cfg.Redis.Stream, logger)
	}

	// Create effect executor with injected notification ports
	executor := app.NewNotificationExecutor(emailSender, chatOps, alerts)
	reporter := app.NewBaseChatReporter(executor, logger)

	// Create services (primary ports implementation)
	inboxService = app.NewInboxService(ownerRepo)
	flagService = app.NewInboxFlagService(ownerRepo, reporter, executor, app.InboxFlagOptions{
		Recipients:          recipients(cfg.FlagReport.Recipients),
		TemplateID:          cfg.FlagReport.TemplateID,
		EscalationCount:     cfg.FlagReport.EscalationCount,
		StrictNotifications: cfg.FlagReport.StrictNotifications,
	}, logger)
}

func recipients(rs []config.Recipient) []effects.Recipient {
	out := make([]effects.Recipient, len(rs))
	for i, r := range rs {
		out[i] = effects.Recipient{Email: r.Email, CanSend: r.CanSend}
	}
	return out
}

// Close releases the database and Redis connections, if they were opened.
func Close() error {
	var errs []error
	if redisClient != nil {
		errs = append(errs, redisClient.Close())
	}
	if database != nil {
		errs = append(errs, database.Close())
	}
	return errors.Join(errs...)
}

// InboxAdapter returns a new InboxAdapter writing to stdout.
// Each call creates a new adapter (adapters are stateless translators).
func InboxAdapter() *cliadapter.InboxAdapter {
	return InboxAdapterWithOutput(os.Stdout)
}

// InboxAdapterWithOutput returns a new InboxAdapter writing to the given output.
func InboxAdapterWithOutput(out io.Writer) *cliadapter.InboxAdapter {
	return cliadapter.NewInboxAdapter(InboxService(), out)
}

// FlagAdapter returns a new FlagAdapter writing to stdout.
func FlagAdapter() *cliadapter.FlagAdapter {
	return FlagAdapterWithOutput(os.Stdout)
}

// FlagAdapterWithOutput returns a new FlagAdapter writing to the given output.
func FlagAdapterWithOutput(out io.Writer) *cliadapter.FlagAdapter {
	return cliadapter.NewFlagAdapter(FlagService(), out)
}
