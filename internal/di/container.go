package di

import (
	"context"

	"github.com/tmc/langchaingo/tools"
	"go.uber.org/zap"

	"github.com/m2v/moodle-scraper/internal/adapter/tool"
	"github.com/m2v/moodle-scraper/internal/application/port/output"
	"github.com/m2v/moodle-scraper/internal/config"
	"github.com/m2v/moodle-scraper/internal/infrastructure/browser/rod"
	"github.com/m2v/moodle-scraper/internal/observability"
	"github.com/m2v/moodle-scraper/internal/scraper"
	"github.com/m2v/moodle-scraper/internal/session"
	"github.com/m2v/moodle-scraper/internal/usecase/portal"
)

type Container struct {
	Config      *config.Config
	Logger      *zap.Logger
	Sessions    *session.Manager
	Portal      *portal.Service
	Credentials *portal.CredentialStore
	Tools       []tools.Tool
}

// NewContainer wires the whole pipeline together. The browser itself is not
// launched here; the session manager launches lazily on first Acquire.
func NewContainer(cfg *config.Config) *Container {
	observability.InitializeLogger(cfg.Logger)
	log := observability.GetLogger()

	launch := func(ctx context.Context) (output.BrowserPort, error) {
		return rod.NewBrowserAdapter(ctx, cfg.Browser)
	}

	sessions := session.NewManager(cfg.Portal, cfg.Selectors, launch, log)
	diag := scraper.NewDiagnostics(cfg.Debug, log)
	svc := portal.NewService(sessions, cfg.Selectors, cfg.Waits, diag, log)
	store := portal.NewCredentialStore()

	return &Container{
		Config:      cfg,
		Logger:      log,
		Sessions:    sessions,
		Portal:      svc,
		Credentials: store,
		Tools:       tool.All(svc, store),
	}
}

// Close releases any live session and flushes the logger.
func (c *Container) Close() {
	if c.Sessions != nil {
		c.Sessions.Release()
	}
	if c.Logger != nil {
		_ = c.Logger.Sync()
	}
}
