package session

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"

	"go.uber.org/zap"

	"github.com/m2v/moodle-scraper/internal/application/port/output"
	"github.com/m2v/moodle-scraper/internal/config"
)

// ErrCredentialsRequired is the typed outcome of an Acquire that found no
// prior authenticated cookie and was given no credentials. It is a terminal
// condition for that acquire, not a fault; callers map it to the
// credentials-required sentinel string.
var ErrCredentialsRequired = errors.New("portal credentials required")

// Credentials are supplied per Acquire call and never retained beyond the
// authentication attempt.
type Credentials struct {
	Email    string
	Password string
}

// Launcher starts a browser and hands back the tab to drive. Injected so
// tests can substitute a fake.
type Launcher func(ctx context.Context) (output.BrowserPort, error)

// Session is one live authenticated browser-automation handle.
type Session struct {
	browser       output.BrowserPort
	Authenticated bool
}

// Page exposes the tab for read-only driving. Lifecycle stays with the
// manager.
func (s *Session) Page() output.BrowserPort {
	return s.browser
}

// Manager owns the single live session allowed per process. Acquire either
// reuses the live session or launches, navigates and logs in; Release tears
// everything down and never reports failure to the caller.
type Manager struct {
	cfg    config.PortalConfig
	sel    config.Selectors
	launch Launcher
	log    *zap.Logger

	mu      sync.Mutex
	current *Session
}

func NewManager(cfg config.PortalConfig, sel config.Selectors, launch Launcher, log *zap.Logger) *Manager {
	return &Manager{
		cfg:    cfg,
		sel:    sel,
		launch: launch,
		log:    log.Named("session"),
	}
}

// Acquire returns the live session if one exists, otherwise launches a
// browser, opens the portal and authenticates. With no credentials and no
// prior auth cookie it releases the browser and returns
// ErrCredentialsRequired.
func (m *Manager) Acquire(ctx context.Context, creds *Credentials) (*Session, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.current != nil {
		return m.current, nil
	}

	browser, err := m.launch(ctx)
	if err != nil {
		return nil, fmt.Errorf("browser launch failed: %w", err)
	}

	sess, err := m.open(ctx, browser, creds)
	if err != nil {
		m.closeBrowser(browser)
		return nil, err
	}

	m.current = sess
	return sess, nil
}

func (m *Manager) open(ctx context.Context, browser output.BrowserPort, creds *Credentials) (*Session, error) {
	m.log.Info("Connecting to portal", zap.String("url", m.cfg.EntryURL))

	navCtx := ctx
	if m.cfg.NavTimeout > 0 {
		var cancel context.CancelFunc
		navCtx, cancel = context.WithTimeout(ctx, m.cfg.NavTimeout)
		defer cancel()
	}
	if err := browser.Navigate(navCtx, m.cfg.EntryURL); err != nil {
		return nil, fmt.Errorf("portal navigation failed: %w", err)
	}

	// The portal redirects authenticated profiles straight to the
	// dashboard; the resulting URL is the authentication signal.
	if strings.Contains(browser.CurrentURL(), m.cfg.LandingFragment) {
		m.log.Info("Already logged in")
		return &Session{browser: browser, Authenticated: true}, nil
	}

	if creds == nil || creds.Email == "" || creds.Password == "" {
		return nil, ErrCredentialsRequired
	}

	if err := m.login(ctx, browser, creds); err != nil {
		return nil, err
	}

	return &Session{browser: browser, Authenticated: true}, nil
}

func (m *Manager) login(ctx context.Context, browser output.BrowserPort, creds *Credentials) error {
	sel := m.sel

	if err := browser.Fill(ctx, sel.LoginEmail, creds.Email); err != nil {
		return fmt.Errorf("login failed: %w", err)
	}
	if err := browser.Fill(ctx, sel.LoginPassword, creds.Password); err != nil {
		return fmt.Errorf("login failed: %w", err)
	}
	if err := browser.Click(ctx, sel.LoginSubmit); err != nil {
		return fmt.Errorf("login failed: %w", err)
	}

	// An idle timeout here is not fatal: the dashboard keeps polling in the
	// background, so quiescence may never arrive even after a successful
	// login. Extraction against the UI settles the question.
	if err := browser.WaitIdle(ctx, m.cfg.LoginIdleTimeout); err != nil {
		m.log.Warn("Login settle wait expired", zap.Error(err))
	} else {
		m.log.Info("Login submitted")
	}
	return nil
}

// Release closes the live session. Idempotent; cleanup failures are logged
// and swallowed, and the in-memory session reference is cleared
// unconditionally so a broken handle cannot leak into the next Acquire.
func (m *Manager) Release() {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.current == nil {
		return
	}
	m.closeBrowser(m.current.browser)
	m.current = nil
}

func (m *Manager) closeBrowser(browser output.BrowserPort) {
	defer func() {
		if r := recover(); r != nil {
			m.log.Error("Browser cleanup panicked", zap.Any("panic", r))
		}
	}()
	browser.Close()
}
