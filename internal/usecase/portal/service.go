// Package portal is the blocking entry point to the scraping pipeline. Its
// operations are total: acquisition, extraction and release failures all
// resolve to one descriptive string, never an error or a panic.
package portal

import (
	"context"
	"errors"
	"fmt"

	"go.uber.org/zap"

	"github.com/m2v/moodle-scraper/internal/config"
	"github.com/m2v/moodle-scraper/internal/scraper"
	"github.com/m2v/moodle-scraper/internal/session"
)

// MsgCredentialsRequired is returned when no authenticated session exists
// and the caller supplied no credentials.
const MsgCredentialsRequired = "Please provide De Vinci credentials."

type Service struct {
	sessions *session.Manager
	sel      config.Selectors
	waits    config.WaitConfig
	diag     *scraper.Diagnostics
	log      *zap.Logger
}

func NewService(sessions *session.Manager, sel config.Selectors, waits config.WaitConfig, diag *scraper.Diagnostics, log *zap.Logger) *Service {
	return &Service{
		sessions: sessions,
		sel:      sel,
		waits:    waits,
		diag:     diag,
		log:      log.Named("portal"),
	}
}

// GetCourses acquires a session, extracts the course list and releases the
// session on every exit path.
func (s *Service) GetCourses(ctx context.Context, creds *session.Credentials) string {
	return s.run(ctx, creds, func(ctx context.Context, sc *scraper.Scraper) string {
		return sc.CourseList(ctx)
	})
}

// GetDeadlines acquires a session, extracts the timeline events and
// releases the session on every exit path.
func (s *Service) GetDeadlines(ctx context.Context, creds *session.Credentials) string {
	return s.run(ctx, creds, func(ctx context.Context, sc *scraper.Scraper) string {
		return sc.TimelineEvents(ctx)
	})
}

func (s *Service) run(ctx context.Context, creds *session.Credentials, extract func(context.Context, *scraper.Scraper) string) (result string) {
	sess, err := s.sessions.Acquire(ctx, creds)
	if err != nil {
		if errors.Is(err, session.ErrCredentialsRequired) {
			return MsgCredentialsRequired
		}
		s.log.Error("Session acquisition failed", zap.Error(err))
		return "Error: " + err.Error()
	}

	// Release runs whatever extraction does, including panic. A broken
	// browser connection left open would poison the next call.
	defer func() {
		if r := recover(); r != nil {
			s.log.Error("Extraction panicked", zap.Any("panic", r))
			result = fmt.Sprintf("Error: %v", r)
		}
		s.sessions.Release()
	}()

	sc := scraper.New(sess.Page(), s.sel, s.waits, s.diag, s.log)
	return extract(ctx, sc)
}
