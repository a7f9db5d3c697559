package scraper

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/m2v/moodle-scraper/internal/config"
	"github.com/m2v/moodle-scraper/internal/domain/entity"
)

func deadlineFixture(date, timeStr, title string) entity.DeadlineEvent {
	return entity.DeadlineEvent{Date: date, Time: timeStr, Title: title}
}

func TestEnsureSummaryMode_AlreadySummary(t *testing.T) {
	sel := config.DefaultSelectors()
	page := newFakePage()
	page.attrsBySel[sel.CoursesView] = map[string]string{sel.DisplayAttr: "summary"}

	s := newTestScraper(page)

	assert.True(t, s.EnsureSummaryMode(context.Background()))
	assert.Empty(t, page.clicked, "no toggling needed when already in summary mode")
}

func TestEnsureSummaryMode_ConvergesViaDropdown(t *testing.T) {
	sel := config.DefaultSelectors()
	page := newFakePage()
	page.attrsBySel[sel.CoursesView] = map[string]string{sel.DisplayAttr: "card"}
	page.present[sel.ModeDropdown] = true
	page.present[sel.ModeSummaryOption] = true
	page.onClick = func(selector string) {
		if selector == sel.ModeSummaryOption {
			page.attrsBySel[sel.CoursesView][sel.DisplayAttr] = "summary"
		}
	}

	s := newTestScraper(page)

	assert.True(t, s.EnsureSummaryMode(context.Background()))
	assert.Equal(t, []string{sel.ModeDropdown, sel.ModeSummaryOption}, page.clicked)

	// A re-read after convergence keeps reporting summary.
	attr, err := page.Attribute(context.Background(), sel.CoursesView, sel.DisplayAttr)
	assert.NoError(t, err)
	assert.Equal(t, "summary", attr)
}

func TestEnsureSummaryMode_FallsBackToSecondDropdownShape(t *testing.T) {
	sel := config.DefaultSelectors()
	page := newFakePage()
	page.attrsBySel[sel.CoursesView] = map[string]string{sel.DisplayAttr: "card"}
	page.present[sel.ModeDropdownAlt] = true
	page.present[sel.ModeSummaryOption] = true
	page.onClick = func(selector string) {
		if selector == sel.ModeSummaryOption {
			page.attrsBySel[sel.CoursesView][sel.DisplayAttr] = "summary"
		}
	}

	s := newTestScraper(page)

	assert.True(t, s.EnsureSummaryMode(context.Background()))
	assert.Equal(t, sel.ModeDropdownAlt, page.clicked[0])
}

func TestEnsureSummaryMode_ToggleAbsentReturnsFalse(t *testing.T) {
	sel := config.DefaultSelectors()
	page := newFakePage()
	page.attrsBySel[sel.CoursesView] = map[string]string{sel.DisplayAttr: "card"}
	// Neither dropdown shape is present; the click fails.

	s := newTestScraper(page)

	assert.False(t, s.EnsureSummaryMode(context.Background()))
}

func TestEnsureSummaryMode_SummaryOptionMissing(t *testing.T) {
	sel := config.DefaultSelectors()
	page := newFakePage()
	page.attrsBySel[sel.CoursesView] = map[string]string{sel.DisplayAttr: "card"}
	page.present[sel.ModeDropdown] = true
	// Menu opens but carries no summary option.

	s := newTestScraper(page)

	assert.False(t, s.EnsureSummaryMode(context.Background()))
	assert.Equal(t, []string{sel.ModeDropdown}, page.clicked)
}

func TestEnsureSummaryMode_ViewNotReady(t *testing.T) {
	sel := config.DefaultSelectors()
	page := newFakePage()
	page.visibleErr[sel.CoursesView] = errors.New("wait timed out")

	s := newTestScraper(page)

	assert.False(t, s.EnsureSummaryMode(context.Background()))
}

func TestEnsureSummaryMode_ChangeNotDetected(t *testing.T) {
	sel := config.DefaultSelectors()
	page := newFakePage()
	page.attrsBySel[sel.CoursesView] = map[string]string{sel.DisplayAttr: "card"}
	page.present[sel.ModeDropdown] = true
	page.present[sel.ModeSummaryOption] = true
	// Clicking the option does not change the attribute.

	s := newTestScraper(page)

	assert.False(t, s.EnsureSummaryMode(context.Background()))
}
