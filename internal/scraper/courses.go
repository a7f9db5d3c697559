package scraper

import (
	"context"
	"strings"

	"github.com/PuerkitoBio/goquery"
	"go.uber.org/zap"

	"github.com/m2v/moodle-scraper/internal/domain/entity"
)

// completionWording strips the portal's completion phrasing from progress
// text, leaving the percentage fragment. The portal renders in French.
var completionWording = strings.NewReplacer(
	"terminé", "",
	"Terminé", "",
	"complete", "",
	"Complete", "",
)

// CourseList extracts the enrolled courses from the dashboard overview and
// formats them one per line. Always returns a display string: course lines,
// MsgNoCourses, or an error description.
func (s *Scraper) CourseList(ctx context.Context) string {
	s.log.Info("Extracting course list")

	if err := s.page.WaitVisible(ctx, s.sel.CourseOverview, s.waits.Section); err != nil {
		s.diag.CaptureScreenshot(ctx, s.page, "courses-not-ready")
		return errorResult(err)
	}

	if !s.EnsureSummaryMode(ctx) {
		s.log.Warn("Summary mode not confirmed, extracting best-effort")
	}

	items, err := s.collectItems(ctx, SectionSpec{
		Name:    "courses",
		Ready:   []string{s.sel.CoursesView},
		Loading: s.sel.CourseLoading,
		Item:    s.sel.CourseItem,
	})
	if err != nil {
		s.diag.CaptureScreenshot(ctx, s.page, "courses-failed")
		return errorResult(err)
	}

	records := mapItems(items, s.courseFromItem)
	if len(records) == 0 {
		s.dumpContainer(ctx, "courses-empty", s.sel.CoursesView)
		return MsgNoCourses
	}

	s.log.Info("Courses extracted", zap.Int("count", len(records)))

	lines := make([]string, 0, len(records))
	for _, rec := range records {
		lines = append(lines, formatCourse(rec))
	}
	return strings.Join(lines, "\n")
}

// courseFromItem maps one summary item to a record. Items without the title
// link are rejected: headers and separators render inside the same
// container and are not courses.
func (s *Scraper) courseFromItem(item *goquery.Selection) (entity.CourseRecord, bool) {
	content := item.Find(s.sel.CourseContent).First()
	if content.Length() == 0 {
		return entity.CourseRecord{}, false
	}

	nameLink := content.Find(s.sel.CourseName).First()
	if nameLink.Length() == 0 {
		return entity.CourseRecord{}, false
	}

	url, _ := nameLink.Attr("href")

	return entity.CourseRecord{
		Name:         cleanText(nameLink.Text()),
		URL:          url,
		Category:     cleanText(content.Find(s.sel.CourseCategory).First().Text()),
		SummaryText:  cleanText(content.Find(s.sel.CourseSummary).First().Text()),
		ProgressText: normalizeProgress(content.Find(s.sel.CourseProgress).First().Text()),
	}, true
}

// normalizeProgress strips completion wording and keeps the numeric
// fragment, e.g. "45% terminé" becomes "45%".
func normalizeProgress(raw string) string {
	return cleanText(completionWording.Replace(raw))
}

func formatCourse(rec entity.CourseRecord) string {
	var b strings.Builder
	b.WriteString("📚 ")
	b.WriteString(rec.Name)
	if rec.Category != "" {
		b.WriteString(" (")
		b.WriteString(rec.Category)
		b.WriteString(")")
	}
	if rec.ProgressText != "" {
		b.WriteString(" - ")
		b.WriteString(rec.ProgressText)
	}
	return b.String()
}

// dumpContainer logs a compacted snapshot of the container markup so
// selector drift shows up in the debug artifacts rather than as silent
// empty results.
func (s *Scraper) dumpContainer(ctx context.Context, name, selector string) {
	markup, err := s.page.HTML(ctx, selector)
	if err != nil {
		return
	}
	s.diag.DumpHTML(name, markup)
}
