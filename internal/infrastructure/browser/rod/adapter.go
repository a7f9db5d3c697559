package rod

import (
	"bytes"
	"context"
	"fmt"
	"image"
	"image/jpeg"
	_ "image/png"
	"sync"
	"time"

	"github.com/disintegration/imaging"
	"github.com/go-rod/rod"
	"github.com/go-rod/rod/lib/launcher"
	"github.com/go-rod/rod/lib/proto"
	"github.com/ysmood/gson"

	"github.com/m2v/moodle-scraper/internal/application/port/output"
	"github.com/m2v/moodle-scraper/internal/config"
)

var _ output.BrowserPort = (*BrowserAdapter)(nil)

// BrowserAdapter owns one Chrome process with one tab. The persistent
// user-data directory keeps portal cookies across runs, so a fresh launch
// may already be authenticated.
type BrowserAdapter struct {
	browser  *rod.Browser
	launcher *launcher.Launcher
	page     *rod.Page
	timeout  time.Duration

	mu     sync.Mutex
	closed bool
}

const defaultTimeout = 10 * time.Second

// NewBrowserAdapter launches Chrome and opens a blank tab.
func NewBrowserAdapter(ctx context.Context, cfg config.BrowserConfig) (*BrowserAdapter, error) {
	l := launcher.New().
		Headless(cfg.Headless).
		Devtools(false).
		NoSandbox(cfg.NoSandbox).
		Delete("use-mock-keychain").
		Set("disable-blink-features", "AutomationControlled")

	if cfg.UserDataDir != "" {
		l = l.UserDataDir(cfg.UserDataDir)
	}

	url, err := l.Launch()
	if err != nil {
		return nil, fmt.Errorf("failed to launch browser: %w", err)
	}

	browser := rod.New().
		ControlURL(url).
		SlowMotion(cfg.SlowMotion)

	if err := browser.Connect(); err != nil {
		l.Kill()
		l.Cleanup()
		return nil, fmt.Errorf("failed to connect to browser: %w", err)
	}

	page, err := browser.Page(proto.TargetCreateTarget{URL: "about:blank"})
	if err != nil {
		_ = browser.Close()
		l.Kill()
		l.Cleanup()
		return nil, fmt.Errorf("failed to open page: %w", err)
	}

	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = defaultTimeout
	}

	return &BrowserAdapter{
		browser:  browser,
		launcher: l,
		page:     page,
		timeout:  timeout,
	}, nil
}

func (b *BrowserAdapter) Navigate(ctx context.Context, url string) error {
	p := b.page.Context(ctx).Timeout(b.timeout)
	if err := p.Navigate(url); err != nil {
		return fmt.Errorf("navigation failed: %w", err)
	}
	if err := p.WaitLoad(); err != nil {
		return fmt.Errorf("page load failed: %w", err)
	}
	_ = b.page.WaitIdle(5 * time.Second)
	return nil
}

func (b *BrowserAdapter) CurrentURL() string {
	info, err := b.page.Info()
	if err != nil {
		return ""
	}
	return info.URL
}

func (b *BrowserAdapter) Fill(ctx context.Context, selector, text string) error {
	el, err := b.page.Context(ctx).Timeout(b.timeout).Element(selector)
	if err != nil {
		return fmt.Errorf("field not found: %s: %w", selector, err)
	}

	if err := el.SelectAllText(); err == nil {
		_ = el.Input("")
	}

	if err := el.Input(text); err != nil {
		return fmt.Errorf("input failed: %w", err)
	}
	return nil
}

func (b *BrowserAdapter) Click(ctx context.Context, selector string) error {
	el, err := b.page.Context(ctx).Timeout(b.timeout).Element(selector)
	if err != nil {
		return fmt.Errorf("element not found: %s: %w", selector, err)
	}

	if err := el.Click(proto.InputMouseButtonLeft, 1); err != nil {
		return fmt.Errorf("click failed: %w", err)
	}

	_ = b.page.WaitIdle(2 * time.Second)
	return nil
}

func (b *BrowserAdapter) WaitVisible(ctx context.Context, selector string, timeout time.Duration) error {
	el, err := b.page.Context(ctx).Timeout(timeout).Element(selector)
	if err != nil {
		return fmt.Errorf("element not found: %s: %w", selector, err)
	}
	if err := el.WaitVisible(); err != nil {
		return fmt.Errorf("element not visible: %s: %w", selector, err)
	}
	return nil
}

func (b *BrowserAdapter) WaitHidden(ctx context.Context, selector string, timeout time.Duration) error {
	has, el, err := b.page.Context(ctx).Has(selector)
	if err != nil {
		return fmt.Errorf("lookup failed: %s: %w", selector, err)
	}
	if !has {
		return nil
	}
	if err := el.Timeout(timeout).WaitInvisible(); err != nil {
		return fmt.Errorf("element still visible: %s: %w", selector, err)
	}
	return nil
}

func (b *BrowserAdapter) WaitIdle(ctx context.Context, timeout time.Duration) error {
	return b.page.Context(ctx).WaitIdle(timeout)
}

func (b *BrowserAdapter) Exists(ctx context.Context, selector string) (bool, error) {
	has, _, err := b.page.Context(ctx).Has(selector)
	if err != nil {
		return false, fmt.Errorf("lookup failed: %s: %w", selector, err)
	}
	return has, nil
}

func (b *BrowserAdapter) Attribute(ctx context.Context, selector, name string) (string, error) {
	el, err := b.page.Context(ctx).Timeout(b.timeout).Element(selector)
	if err != nil {
		return "", fmt.Errorf("element not found: %s: %w", selector, err)
	}
	val, err := el.Attribute(name)
	if err != nil {
		return "", fmt.Errorf("failed to read attribute %q: %w", name, err)
	}
	if val == nil {
		return "", nil
	}
	return *val, nil
}

func (b *BrowserAdapter) HTML(ctx context.Context, selector string) (string, error) {
	el, err := b.page.Context(ctx).Timeout(b.timeout).Element(selector)
	if err != nil {
		return "", fmt.Errorf("element not found: %s: %w", selector, err)
	}
	html, err := el.HTML()
	if err != nil {
		return "", fmt.Errorf("failed to get element HTML: %w", err)
	}
	return html, nil
}

// Screenshot captures the viewport as a JPEG, downscaled to keep failure
// artifacts small.
func (b *BrowserAdapter) Screenshot(ctx context.Context) ([]byte, error) {
	imgBytes, err := b.page.Context(ctx).Screenshot(false, &proto.PageCaptureScreenshot{
		Format:  proto.PageCaptureScreenshotFormatJpeg,
		Quality: gson.Int(80),
	})
	if err != nil {
		return nil, fmt.Errorf("screenshot failed: %w", err)
	}

	img, _, err := image.Decode(bytes.NewReader(imgBytes))
	if err != nil {
		return nil, fmt.Errorf("image decode failed: %w", err)
	}

	if img.Bounds().Dx() > 1024 {
		img = imaging.Resize(img, 1024, 0, imaging.Lanczos)
	}

	buf := new(bytes.Buffer)
	if err := jpeg.Encode(buf, img, &jpeg.Options{Quality: 75}); err != nil {
		return nil, fmt.Errorf("jpeg encode failed: %w", err)
	}
	return buf.Bytes(), nil
}

// Close shuts down page, browser and the Chrome process in that order.
// Safe to call more than once; all errors are swallowed because Close runs
// in guaranteed-release positions and must not mask the primary result.
func (b *BrowserAdapter) Close() {
	b.mu.Lock()
	defer b.mu.Unlock()
	if b.closed {
		return
	}
	b.closed = true

	if b.page != nil {
		_ = b.page.Close()
	}
	if b.browser != nil {
		_ = b.browser.Close()
	}
	if b.launcher != nil {
		b.launcher.Kill()
		b.launcher.Cleanup()
	}
}
