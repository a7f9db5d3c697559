// Package tool exposes the portal operations to a reasoning agent. Both
// tools satisfy langchaingo's tools.Tool, take no input, and return exactly
// the façade's display string, so a failed scrape reads as an observation
// rather than a tool error.
package tool

import (
	"context"

	"github.com/tmc/langchaingo/tools"

	"github.com/m2v/moodle-scraper/internal/usecase/portal"
)

var (
	_ tools.Tool = (*GetCoursesTool)(nil)
	_ tools.Tool = (*GetDeadlinesTool)(nil)
)

type GetCoursesTool struct {
	svc   *portal.Service
	store *portal.CredentialStore
}

func NewGetCoursesTool(svc *portal.Service, store *portal.CredentialStore) *GetCoursesTool {
	return &GetCoursesTool{svc: svc, store: store}
}

func (t *GetCoursesTool) Name() string {
	return "get_courses"
}

func (t *GetCoursesTool) Description() string {
	return "Get the complete list of the student's courses from De Vinci Moodle, " +
		"with categories and completion progress. Takes no input."
}

func (t *GetCoursesTool) Call(ctx context.Context, _ string) (string, error) {
	return t.svc.GetCourses(ctx, t.store.Get()), nil
}

type GetDeadlinesTool struct {
	svc   *portal.Service
	store *portal.CredentialStore
}

func NewGetDeadlinesTool(svc *portal.Service, store *portal.CredentialStore) *GetDeadlinesTool {
	return &GetDeadlinesTool{svc: svc, store: store}
}

func (t *GetDeadlinesTool) Name() string {
	return "get_deadlines"
}

func (t *GetDeadlinesTool) Description() string {
	return "Get upcoming assignment deadlines and submission dates from the De Vinci " +
		"Moodle timeline. Takes no input."
}

func (t *GetDeadlinesTool) Call(ctx context.Context, _ string) (string, error) {
	return t.svc.GetDeadlines(ctx, t.store.Get()), nil
}

// All returns the registered portal tools in a stable order.
func All(svc *portal.Service, store *portal.CredentialStore) []tools.Tool {
	return []tools.Tool{
		NewGetCoursesTool(svc, store),
		NewGetDeadlinesTool(svc, store),
	}
}
