package scraper

import (
	"context"
	"fmt"
	"time"

	"github.com/m2v/moodle-scraper/internal/application/port/output"
)

var _ output.BrowserPort = (*fakePage)(nil)

// fakePage is an in-memory stand-in for one browser tab. Selectors resolve
// against the configured maps; everything else is recorded for assertions.
type fakePage struct {
	url string

	htmlBySel  map[string]string
	attrsBySel map[string]map[string]string
	present    map[string]bool

	visibleErr map[string]error
	idleErr    error

	clicked []string
	filled  map[string]string
	onClick func(selector string)

	closedCount int
}

func newFakePage() *fakePage {
	return &fakePage{
		htmlBySel:  map[string]string{},
		attrsBySel: map[string]map[string]string{},
		present:    map[string]bool{},
		visibleErr: map[string]error{},
		filled:     map[string]string{},
	}
}

func (f *fakePage) Navigate(_ context.Context, url string) error {
	f.url = url
	return nil
}

func (f *fakePage) CurrentURL() string { return f.url }

func (f *fakePage) Fill(_ context.Context, selector, text string) error {
	f.filled[selector] = text
	return nil
}

func (f *fakePage) Click(_ context.Context, selector string) error {
	if !f.present[selector] {
		return fmt.Errorf("element not found: %s", selector)
	}
	f.clicked = append(f.clicked, selector)
	if f.onClick != nil {
		f.onClick(selector)
	}
	return nil
}

func (f *fakePage) WaitVisible(_ context.Context, selector string, _ time.Duration) error {
	if err, ok := f.visibleErr[selector]; ok {
		return err
	}
	return nil
}

func (f *fakePage) WaitHidden(_ context.Context, _ string, _ time.Duration) error {
	return nil
}

func (f *fakePage) WaitIdle(_ context.Context, _ time.Duration) error {
	return f.idleErr
}

func (f *fakePage) Exists(_ context.Context, selector string) (bool, error) {
	return f.present[selector], nil
}

func (f *fakePage) Attribute(_ context.Context, selector, name string) (string, error) {
	attrs, ok := f.attrsBySel[selector]
	if !ok {
		return "", fmt.Errorf("element not found: %s", selector)
	}
	return attrs[name], nil
}

func (f *fakePage) HTML(_ context.Context, selector string) (string, error) {
	markup, ok := f.htmlBySel[selector]
	if !ok {
		return "", fmt.Errorf("element not found: %s", selector)
	}
	return markup, nil
}

func (f *fakePage) Screenshot(_ context.Context) ([]byte, error) {
	return []byte("jpeg"), nil
}

func (f *fakePage) Close() { f.closedCount++ }
