package scraper

import (
	"context"
	"strings"

	"github.com/PuerkitoBio/goquery"
	"go.uber.org/zap"

	"github.com/m2v/moodle-scraper/internal/domain/entity"
)

// TimelineEvents extracts the upcoming deadlines from the timeline block
// and formats them one per line. Always returns a display string: event
// lines, MsgNoDeadlines, or an error description.
func (s *Scraper) TimelineEvents(ctx context.Context) string {
	s.log.Info("Extracting timeline events")

	items, err := s.collectItems(ctx, SectionSpec{
		Name:    "timeline",
		Ready:   []string{s.sel.TimelineSection, s.sel.TimelineList},
		Loading: s.sel.TimelineLoading,
		Item:    s.sel.TimelineItem,
	})
	if err != nil {
		s.diag.CaptureScreenshot(ctx, s.page, "timeline-failed")
		return errorResult(err)
	}

	events := mapItems(items, s.eventFromItem)
	if len(events) == 0 {
		s.dumpContainer(ctx, "timeline-empty", s.sel.TimelineList)
		return MsgNoDeadlines
	}

	s.log.Info("Timeline events extracted", zap.Int("count", len(events)))

	lines := make([]string, 0, len(events))
	for _, ev := range events {
		lines = append(lines, formatDeadline(ev))
	}
	return strings.Join(lines, "\n")
}

// eventFromItem maps one timeline item to an event. Items without a name
// link are rejected. The date comes from the nearest preceding date-group
// heading; when no heading is discoverable the event carries the
// UnknownDate sentinel rather than an empty field.
func (s *Scraper) eventFromItem(item *goquery.Selection) (entity.DeadlineEvent, bool) {
	nameLink := item.Find(s.sel.EventName).First()
	if nameLink.Length() == 0 {
		return entity.DeadlineEvent{}, false
	}

	url, _ := nameLink.Attr("href")

	return entity.DeadlineEvent{
		Date:  s.eventDate(item),
		Time:  cleanText(item.Find(s.sel.EventTime).First().Text()),
		Title: cleanText(nameLink.Text()),
		URL:   url,
	}, true
}

// eventDate walks up to the item's event group and reads the heading of the
// sibling that precedes it. The portal renders one heading element per date
// group, immediately before the group's list.
func (s *Scraper) eventDate(item *goquery.Selection) string {
	group := item.Closest(s.sel.EventGroup)
	if group.Length() == 0 {
		return UnknownDate
	}

	prev := group.Prev()
	if prev.Length() == 0 {
		return UnknownDate
	}

	heading := prev.Find(s.sel.EventDateHeading).First()
	if heading.Length() == 0 {
		if prev.Is(s.sel.EventDateHeading) {
			heading = prev
		} else {
			return UnknownDate
		}
	}

	date := cleanText(heading.Text())
	if date == "" {
		return UnknownDate
	}
	return date
}

func formatDeadline(ev entity.DeadlineEvent) string {
	var b strings.Builder
	b.WriteString("⏰ ")
	b.WriteString(ev.Date)
	if ev.Time != "" {
		b.WriteString(" ")
		b.WriteString(ev.Time)
	}
	b.WriteString(" - ")
	b.WriteString(ev.Title)
	return b.String()
}
