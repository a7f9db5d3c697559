package scraper

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"go.uber.org/zap"

	"github.com/m2v/moodle-scraper/internal/application/port/output"
	"github.com/m2v/moodle-scraper/internal/config"
	"github.com/m2v/moodle-scraper/internal/htmlutil"
)

// Diagnostics writes failure artifacts: a viewport screenshot when a
// pipeline errors, and a compacted markup dump when extraction comes back
// empty against expectation. Disabled it is a no-op, and a nil receiver is
// safe, so pipeline code calls it unconditionally.
type Diagnostics struct {
	enabled bool
	dir     string
	log     *zap.Logger
}

func NewDiagnostics(cfg config.DebugConfig, log *zap.Logger) *Diagnostics {
	return &Diagnostics{
		enabled: cfg.Enabled,
		dir:     cfg.Dir,
		log:     log.Named("diagnostics"),
	}
}

func (d *Diagnostics) CaptureScreenshot(ctx context.Context, page output.BrowserPort, name string) {
	if d == nil || !d.enabled {
		return
	}

	data, err := page.Screenshot(ctx)
	if err != nil {
		d.log.Warn("Screenshot capture failed", zap.Error(err))
		return
	}
	d.write(name, "jpg", data)
}

func (d *Diagnostics) DumpHTML(name, rawHTML string) {
	if d == nil || !d.enabled {
		return
	}
	compacted := htmlutil.Compact(rawHTML, nil)
	d.write(name, "html", []byte(compacted))
}

func (d *Diagnostics) write(name, ext string, data []byte) {
	if err := os.MkdirAll(d.dir, 0o755); err != nil {
		d.log.Warn("Could not create debug dir", zap.Error(err))
		return
	}

	filename := fmt.Sprintf("%s_%s.%s", time.Now().Format("2006-01-02_15-04-05"), name, ext)
	path := filepath.Join(d.dir, filename)
	if err := os.WriteFile(path, data, 0o644); err != nil {
		d.log.Warn("Could not write debug artifact", zap.Error(err))
		return
	}
	d.log.Info("Debug artifact written", zap.String("path", path))
}
