package scraper

import (
	"context"

	"go.uber.org/zap"

	"github.com/m2v/moodle-scraper/internal/domain/entity"
)

// EnsureSummaryMode converges the course-listing widget to summary mode and
// reports whether that mode is confirmed on return. Course extraction is
// only defined for summary markup; on false the caller still extracts
// best-effort and accepts a degraded result, so nothing here escalates
// beyond a log line.
func (s *Scraper) EnsureSummaryMode(ctx context.Context) bool {
	sel := s.sel

	if err := s.page.WaitVisible(ctx, sel.CoursesView, s.waits.Section); err != nil {
		s.log.Warn("Courses view not ready", zap.Error(err))
		return false
	}

	mode, err := s.readDisplayMode(ctx)
	if err != nil {
		s.log.Warn("Could not read display mode", zap.Error(err))
		return false
	}
	if mode == entity.DisplaySummary {
		return true
	}

	s.log.Info("Switching course view to summary mode")

	// The dropdown has shipped under two markup shapes; fall back to the
	// older one when the current selector matches nothing.
	dropdown := sel.ModeDropdown
	if ok, err := s.page.Exists(ctx, dropdown); err != nil || !ok {
		dropdown = sel.ModeDropdownAlt
	}
	if err := s.page.Click(ctx, dropdown); err != nil {
		s.log.Warn("Display dropdown not clickable", zap.Error(err))
		return false
	}
	s.sleep(ctx, s.waits.Settle) // menu animation

	if ok, err := s.page.Exists(ctx, sel.ModeSummaryOption); err != nil || !ok {
		s.log.Warn("Summary option not found in display menu")
		return false
	}
	if err := s.page.Click(ctx, sel.ModeSummaryOption); err != nil {
		s.log.Warn("Summary option not clickable", zap.Error(err))
		return false
	}

	if err := s.page.WaitVisible(ctx, sel.CoursesView, s.waits.Section); err != nil {
		s.log.Warn("Courses view did not come back after mode switch", zap.Error(err))
		return false
	}

	mode, err = s.readDisplayMode(ctx)
	if err != nil {
		s.log.Warn("Could not re-read display mode", zap.Error(err))
		return false
	}
	if mode != entity.DisplaySummary {
		s.log.Warn("Display mode change not detected")
		return false
	}
	return true
}

func (s *Scraper) readDisplayMode(ctx context.Context) (entity.DisplayMode, error) {
	attr, err := s.page.Attribute(ctx, s.sel.CoursesView, s.sel.DisplayAttr)
	if err != nil {
		return entity.DisplayUnknown, err
	}
	return entity.ParseDisplayMode(attr), nil
}
