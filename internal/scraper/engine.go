package scraper

import (
	"context"
	"fmt"
	"strings"

	"github.com/PuerkitoBio/goquery"
	"go.uber.org/zap"
)

// StepStatus is the outcome of one pipeline step. Degraded steps let the
// pipeline continue best-effort; failed steps abort it.
type StepStatus int

const (
	StepOK StepStatus = iota
	StepDegraded
	StepFailed
)

// SectionSpec parameterizes the section extractor: which containers must be
// visible, which loading indicator to outwait, and which child selector
// yields the items. Courses and deadlines are two configurations of this
// one engine.
type SectionSpec struct {
	Name string
	// Ready is waited visible in order; the last selector is the container
	// whose markup gets snapshotted.
	Ready []string
	// Loading is waited-hidden when present. Loading indicators are not
	// guaranteed to exist; the settle delay is the fallback heuristic.
	Loading string
	// Item selects the container's child items, in document order.
	Item string
}

func (spec SectionSpec) container() string {
	return spec.Ready[len(spec.Ready)-1]
}

// collectItems runs the shared front half of both pipelines: visibility
// waits, loading settle, one markup snapshot, and the item query. The
// returned selection preserves document order.
func (s *Scraper) collectItems(ctx context.Context, spec SectionSpec) (*goquery.Selection, error) {
	for _, selector := range spec.Ready {
		if err := s.page.WaitVisible(ctx, selector, s.waits.Section); err != nil {
			return nil, fmt.Errorf("%s section not ready: %w", spec.Name, err)
		}
	}

	if status := s.waitUntilStable(ctx, spec.Loading); status == StepDegraded {
		s.log.Warn("Section may still be loading, extracting anyway",
			zap.String("section", spec.Name))
	}

	markup, err := s.page.HTML(ctx, spec.container())
	if err != nil {
		return nil, fmt.Errorf("%s snapshot failed: %w", spec.Name, err)
	}

	doc, err := goquery.NewDocumentFromReader(strings.NewReader(markup))
	if err != nil {
		return nil, fmt.Errorf("%s markup parse failed: %w", spec.Name, err)
	}

	return doc.Find(spec.Item), nil
}

// waitUntilStable is the single place that knows how "the UI finished
// loading" is detected: outwait the loading indicator when one is rendered,
// otherwise fall back to a fixed settle delay. Swap the heuristic here, not
// in the pipelines.
func (s *Scraper) waitUntilStable(ctx context.Context, loading string) StepStatus {
	if loading == "" {
		s.sleep(ctx, s.waits.Settle)
		return StepOK
	}

	present, err := s.page.Exists(ctx, loading)
	if err != nil {
		s.log.Warn("Loading indicator lookup failed", zap.Error(err))
		s.sleep(ctx, s.waits.Settle)
		return StepDegraded
	}
	if !present {
		s.sleep(ctx, s.waits.Settle)
		return StepOK
	}

	if err := s.page.WaitHidden(ctx, loading, s.waits.Loading); err != nil {
		s.log.Warn("Loading indicator still visible after wait", zap.Error(err))
		return StepDegraded
	}

	// The widget repaints shortly after the indicator detaches.
	s.sleep(ctx, s.waits.PostLoading)
	return StepOK
}

// mapItems walks the item selection in order and applies the field mapper,
// dropping items the mapper rejects. Not every rendered node is a real
// record; headers and separators share container scope.
func mapItems[T any](items *goquery.Selection, mapItem func(*goquery.Selection) (T, bool)) []T {
	var records []T
	items.Each(func(_ int, item *goquery.Selection) {
		if rec, ok := mapItem(item); ok {
			records = append(records, rec)
		}
	})
	return records
}
