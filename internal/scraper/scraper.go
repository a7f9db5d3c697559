// Package scraper steers the portal dashboard into a known display state
// and extracts structured records from its dynamically rendered markup.
//
// Both pipelines are total with respect to the caller: every outcome,
// including internal failure, is one display string. The distinct sentinels
// below stand in for "nothing there" and are not errors.
package scraper

import (
	"context"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/m2v/moodle-scraper/internal/application/port/output"
	"github.com/m2v/moodle-scraper/internal/config"
)

const (
	// MsgNoCourses is returned when the dashboard renders zero courses.
	MsgNoCourses = "No courses found."
	// MsgNoDeadlines is returned when the timeline renders zero events.
	MsgNoDeadlines = "No deadlines found."
	// UnknownDate stands in for an event whose date-group heading could not
	// be located in the surrounding markup.
	UnknownDate = "Unknown date"

	errPrefix = "Error: "
)

// Scraper reads one portal page through the browser port. It never manages
// the page's lifecycle and never lets an internal failure escape as an
// error; methods always return a display string.
type Scraper struct {
	page  output.BrowserPort
	sel   config.Selectors
	waits config.WaitConfig
	diag  *Diagnostics
	log   *zap.Logger
}

func New(page output.BrowserPort, sel config.Selectors, waits config.WaitConfig, diag *Diagnostics, log *zap.Logger) *Scraper {
	return &Scraper{
		page:  page,
		sel:   sel,
		waits: waits,
		diag:  diag,
		log:   log.Named("scraper"),
	}
}

func errorResult(err error) string {
	return errPrefix + err.Error()
}

// cleanText collapses all interior whitespace, matching what innerText
// trimming produced in earlier portal revisions.
func cleanText(s string) string {
	return strings.Join(strings.Fields(s), " ")
}

// sleep waits for d or until the context is done, whichever comes first.
func (s *Scraper) sleep(ctx context.Context, d time.Duration) {
	if d <= 0 {
		return
	}
	t := time.NewTimer(d)
	defer t.Stop()
	select {
	case <-ctx.Done():
	case <-t.C:
	}
}
