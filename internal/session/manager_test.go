package session

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/m2v/moodle-scraper/internal/application/port/output"
	"github.com/m2v/moodle-scraper/internal/config"
)

var _ output.BrowserPort = (*fakeBrowser)(nil)

// fakeBrowser satisfies the browser port with just enough behavior for the
// login flow: navigation lands on a configurable URL and interactions are
// recorded.
type fakeBrowser struct {
	urlAfterNav string
	navErr      error
	idleErr     error

	navigated   []string
	filled      map[string]string
	clicked     []string
	closedCount int
}

func newFakeBrowser(urlAfterNav string) *fakeBrowser {
	return &fakeBrowser{urlAfterNav: urlAfterNav, filled: map[string]string{}}
}

func (f *fakeBrowser) Navigate(_ context.Context, url string) error {
	if f.navErr != nil {
		return f.navErr
	}
	f.navigated = append(f.navigated, url)
	return nil
}

func (f *fakeBrowser) CurrentURL() string { return f.urlAfterNav }

func (f *fakeBrowser) Fill(_ context.Context, selector, text string) error {
	f.filled[selector] = text
	return nil
}

func (f *fakeBrowser) Click(_ context.Context, selector string) error {
	f.clicked = append(f.clicked, selector)
	return nil
}

func (f *fakeBrowser) WaitVisible(context.Context, string, time.Duration) error { return nil }
func (f *fakeBrowser) WaitHidden(context.Context, string, time.Duration) error  { return nil }

func (f *fakeBrowser) WaitIdle(context.Context, time.Duration) error { return f.idleErr }

func (f *fakeBrowser) Exists(context.Context, string) (bool, error) { return false, nil }

func (f *fakeBrowser) Attribute(context.Context, string, string) (string, error) { return "", nil }

func (f *fakeBrowser) HTML(context.Context, string) (string, error) { return "", nil }

func (f *fakeBrowser) Screenshot(context.Context) ([]byte, error) { return nil, nil }

func (f *fakeBrowser) Close() { f.closedCount++ }

func testPortalConfig() config.PortalConfig {
	return config.PortalConfig{
		EntryURL:         "https://learning.devinci.fr",
		LandingFragment:  "learning.devinci.fr/my/",
		NavTimeout:       time.Second,
		LoginIdleTimeout: 10 * time.Millisecond,
	}
}

func newTestManager(browser *fakeBrowser, launchErr error) (*Manager, *int) {
	launches := 0
	launch := func(context.Context) (output.BrowserPort, error) {
		launches++
		if launchErr != nil {
			return nil, launchErr
		}
		return browser, nil
	}
	m := NewManager(testPortalConfig(), config.DefaultSelectors(), launch, zap.NewNop())
	return m, &launches
}

func TestAcquire_AlreadyLoggedIn(t *testing.T) {
	browser := newFakeBrowser("https://learning.devinci.fr/my/")
	m, _ := newTestManager(browser, nil)

	sess, err := m.Acquire(context.Background(), nil)
	require.NoError(t, err)
	require.NotNil(t, sess)

	assert.True(t, sess.Authenticated)
	assert.Empty(t, browser.filled, "no login form interaction when cookie is valid")
	assert.Equal(t, []string{"https://learning.devinci.fr"}, browser.navigated)
}

func TestAcquire_IsIdempotentWhileLive(t *testing.T) {
	browser := newFakeBrowser("https://learning.devinci.fr/my/")
	m, launches := newTestManager(browser, nil)

	first, err := m.Acquire(context.Background(), nil)
	require.NoError(t, err)
	second, err := m.Acquire(context.Background(), nil)
	require.NoError(t, err)

	assert.Same(t, first, second)
	assert.Equal(t, 1, *launches, "second acquire must reuse the live session")
}

func TestAcquire_NoCredentialsNoCookie(t *testing.T) {
	browser := newFakeBrowser("https://learning.devinci.fr/login/index.php")
	m, _ := newTestManager(browser, nil)

	sess, err := m.Acquire(context.Background(), nil)

	require.ErrorIs(t, err, ErrCredentialsRequired)
	assert.Nil(t, sess)
	assert.Equal(t, 1, browser.closedCount, "browser must be reclaimed on the credentials path")

	// The broken attempt must not poison the next acquire.
	browser2 := newFakeBrowser("https://learning.devinci.fr/my/")
	m2, _ := newTestManager(browser2, nil)
	sess2, err := m2.Acquire(context.Background(), nil)
	require.NoError(t, err)
	assert.NotNil(t, sess2)
}

func TestAcquire_LogsInWithCredentials(t *testing.T) {
	browser := newFakeBrowser("https://learning.devinci.fr/login/index.php")
	m, _ := newTestManager(browser, nil)
	sel := config.DefaultSelectors()

	sess, err := m.Acquire(context.Background(), &Credentials{Email: "student@devinci.fr", Password: "hunter2"})
	require.NoError(t, err)

	assert.True(t, sess.Authenticated)
	assert.Equal(t, "student@devinci.fr", browser.filled[sel.LoginEmail])
	assert.Equal(t, "hunter2", browser.filled[sel.LoginPassword])
	assert.Equal(t, []string{sel.LoginSubmit}, browser.clicked)
}

func TestAcquire_LoginIdleTimeoutIsNotFatal(t *testing.T) {
	browser := newFakeBrowser("https://learning.devinci.fr/login/index.php")
	browser.idleErr = errors.New("idle wait timed out")
	m, _ := newTestManager(browser, nil)

	sess, err := m.Acquire(context.Background(), &Credentials{Email: "a@b.c", Password: "x"})

	require.NoError(t, err, "quiescence timeout hands the session back; the UI settles the question")
	assert.NotNil(t, sess)
}

func TestAcquire_NavigationFailureClosesBrowser(t *testing.T) {
	browser := newFakeBrowser("")
	browser.navErr = errors.New("net::ERR_NAME_NOT_RESOLVED")
	m, _ := newTestManager(browser, nil)

	_, err := m.Acquire(context.Background(), nil)

	require.Error(t, err)
	assert.NotErrorIs(t, err, ErrCredentialsRequired)
	assert.Equal(t, 1, browser.closedCount)
}

func TestAcquire_LaunchFailure(t *testing.T) {
	m, _ := newTestManager(nil, errors.New("chrome not found"))

	_, err := m.Acquire(context.Background(), nil)

	require.Error(t, err)
	assert.Contains(t, err.Error(), "chrome not found")
}

func TestRelease_IsIdempotent(t *testing.T) {
	browser := newFakeBrowser("https://learning.devinci.fr/my/")
	m, launches := newTestManager(browser, nil)

	_, err := m.Acquire(context.Background(), nil)
	require.NoError(t, err)

	m.Release()
	m.Release()

	assert.Equal(t, 1, browser.closedCount)

	// After release a new acquire launches again.
	_, err = m.Acquire(context.Background(), nil)
	require.NoError(t, err)
	assert.Equal(t, 2, *launches)
}

func TestRelease_WithoutAcquireIsNoOp(t *testing.T) {
	m, _ := newTestManager(newFakeBrowser(""), nil)
	m.Release()
}
