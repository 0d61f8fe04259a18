// Package changeroute runs the detours a user takes from a summary page to
// change one answer and come back.
package changeroute

import (
	"context"
	"fmt"
	"strings"

	"cites/internal/submission/models"
	dErrors "cites/pkg/domain-errors"
	pstrings "cites/pkg/platform/strings"
)

// StateStore keeps the active change route for a session. Load returns a nil
// state and no error when none is stored.
type StateStore interface {
	LoadChangeRoute(ctx context.Context, sc models.SubmissionContext) (*models.ChangeRouteState, error)
	SaveChangeRoute(ctx context.Context, sc models.SubmissionContext, state *models.ChangeRouteState) error
	DeleteChangeRoute(ctx context.Context, sc models.SubmissionContext) error
}

type Controller struct {
	store StateStore
	types map[string]ChangeType
}

// New builds a controller over the embedded change journey table.
func New(store StateStore) (*Controller, error) {
	types, err := LoadChangeTypes(defaultChangeTypes)
	if err != nil {
		return nil, err
	}
	return NewWithTypes(store, types), nil
}

func NewWithTypes(store StateStore, types map[string]ChangeType) *Controller {
	return &Controller{store: store, types: types}
}

// ChangeType returns the table row for name.
func (c *Controller) ChangeType(name string) (ChangeType, bool) {
	ct, ok := c.types[name]
	return ct, ok
}

// SetChangeRoute starts a change journey, replacing any active one.
func (c *Controller) SetChangeRoute(
	ctx context.Context,
	sc models.SubmissionContext,
	changeType string,
	applicationIndex *int,
	returnURL string,
	permitTypeOption models.PermitType,
) (*models.ChangeRouteState, error) {
	ct, ok := c.types[changeType]
	if !ok {
		return nil, dErrors.New(dErrors.CodeBadRequest, fmt.Sprintf("unknown change type %q", changeType))
	}
	if !isLocalPath(returnURL) {
		return nil, dErrors.New(dErrors.CodeBadRequest, "return url must be a path on this service")
	}

	index := 0
	if ct.PerApplication() {
		if applicationIndex == nil || *applicationIndex < 0 {
			return nil, dErrors.New(dErrors.CodeBadRequest, fmt.Sprintf("change type %q needs an application index", changeType))
		}
		index = *applicationIndex
	} else {
		applicationIndex = nil
	}

	starts := expandAll(ct.StartURLs, index)
	if extra, ok := ct.OptionStartURLs[string(permitTypeOption)]; ok {
		starts = append(starts, expandAll(extra, index)...)
	}

	state := &models.ChangeRouteState{
		ChangeType:           changeType,
		ApplicationIndex:     applicationIndex,
		ReturnURL:            returnURL,
		StartURLs:            pstrings.DedupeAndTrim(starts),
		EndURLs:              pstrings.DedupeAndTrim(expandAll(ct.EndURLs, index)),
		ShowConfirmationPage: ct.ShowConfirmationPage,
	}
	if err := c.store.SaveChangeRoute(ctx, sc, state); err != nil {
		return nil, fmt.Errorf("save change route: %w", err)
	}
	return state, nil
}

// CheckChangeRouteExit decides whether the current page leaves the active
// journey. On GET it only supplies the return url as a back link while the
// user is on a start page. On POST it returns the return url and ends the
// journey when the page is an end page or the caller reports completion.
// An empty result means carry on through the wizard.
func (c *Controller) CheckChangeRouteExit(
	ctx context.Context,
	sc models.SubmissionContext,
	currentPath string,
	isGetRequest bool,
	completed bool,
) (string, error) {
	state, err := c.store.LoadChangeRoute(ctx, sc)
	if err != nil {
		return "", fmt.Errorf("load change route: %w", err)
	}
	if state == nil {
		return "", nil
	}

	if isGetRequest {
		if matches(state.StartURLs, currentPath) {
			return state.ReturnURL, nil
		}
		return "", nil
	}

	if !completed && !matches(state.EndURLs, currentPath) {
		return "", nil
	}
	if err := c.store.DeleteChangeRoute(ctx, sc); err != nil {
		return "", fmt.Errorf("clear change route: %w", err)
	}
	return state.ReturnURL, nil
}

// SetDataRemoved flags the active journey once an answer change has cleared
// dependent answers, so the user is walked through them before returning.
func (c *Controller) SetDataRemoved(ctx context.Context, sc models.SubmissionContext) error {
	state, err := c.store.LoadChangeRoute(ctx, sc)
	if err != nil {
		return fmt.Errorf("load change route: %w", err)
	}
	if state == nil || state.DataRemoved {
		return nil
	}
	state.DataRemoved = true
	if err := c.store.SaveChangeRoute(ctx, sc, state); err != nil {
		return fmt.Errorf("save change route: %w", err)
	}
	return nil
}

func (c *Controller) ClearChangeRoute(ctx context.Context, sc models.SubmissionContext) error {
	if err := c.store.DeleteChangeRoute(ctx, sc); err != nil {
		return fmt.Errorf("clear change route: %w", err)
	}
	return nil
}

// GetChangeRouteData returns the active journey, or nil when there is none.
func (c *Controller) GetChangeRouteData(ctx context.Context, sc models.SubmissionContext) (*models.ChangeRouteState, error) {
	state, err := c.store.LoadChangeRoute(ctx, sc)
	if err != nil {
		return nil, fmt.Errorf("load change route: %w", err)
	}
	return state, nil
}

// IsControlling reports whether currentPath is the first page of an active
// controlling journey.
func (c *Controller) IsControlling(state *models.ChangeRouteState, currentPath string) bool {
	if state == nil {
		return false
	}
	ct, ok := c.types[state.ChangeType]
	if !ok || !ct.Controlling {
		return false
	}
	return matches(state.StartURLs, currentPath)
}

// Confirm answers the confirmation page. Accepting sends the user to the
// first start page, declining drops the journey and returns them.
func (c *Controller) Confirm(ctx context.Context, sc models.SubmissionContext, accept bool) (string, error) {
	state, err := c.store.LoadChangeRoute(ctx, sc)
	if err != nil {
		return "", fmt.Errorf("load change route: %w", err)
	}
	if state == nil {
		return "", dErrors.New(dErrors.CodeInvalidSubmission, "no change in progress")
	}
	if accept {
		return "/" + pstrings.TrimPath(state.StartURLs[0]), nil
	}
	if err := c.store.DeleteChangeRoute(ctx, sc); err != nil {
		return "", fmt.Errorf("clear change route: %w", err)
	}
	return state.ReturnURL, nil
}

func matches(urls []string, currentPath string) bool {
	current := pstrings.TrimPath(currentPath)
	for _, u := range urls {
		if pstrings.TrimPath(u) == current {
			return true
		}
	}
	return false
}

func isLocalPath(u string) bool {
	return strings.HasPrefix(u, "/") && !strings.HasPrefix(u, "//") && !strings.Contains(u, "://")
}
