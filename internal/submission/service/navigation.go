package service

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"go.opentelemetry.io/otel/attribute"

	"cites/internal/submission/models"
	"cites/internal/submission/pagegraph"
	"cites/internal/submission/validator"
	dErrors "cites/pkg/domain-errors"
)

// ConfirmChangeURL is the page that asks before a controlling answer is
// changed.
const ConfirmChangeURL = "/confirm-change"

// PageView is what a page needs to render: its current answers keyed by
// document path, where the back link goes and, on summary pages, the
// progress and outstanding mandatory pages.
type PageView struct {
	Path        string                   `json:"path"`
	Data        map[string]any           `json:"data"`
	BackLink    string                   `json:"backLink,omitempty"`
	Progress    []pagegraph.ProgressItem `json:"progress,omitempty"`
	Issues      []pagegraph.ProgressItem `json:"issues,omitempty"`
	ChangeRoute *models.ChangeRouteState `json:"changeRoute,omitempty"`
}

// ViewPage validates access to pagePath and returns its view.
func (s *Service) ViewPage(ctx context.Context, sc models.SubmissionContext, pagePath string) (view *PageView, err error) {
	ctx, span := s.startSpan(ctx, "ViewPage")
	defer func() { endSpan(span, err) }()

	path, err := pagegraph.ParsePagePath(pagePath)
	if err != nil {
		return nil, s.invalid(ctx, "unknown", dErrors.Wrap(err, dErrors.CodeInvalidSubmission, "invalid page path"))
	}
	span.SetAttributes(attribute.String("page", path.String()))

	sub, err := s.GetSubmission(ctx, sc)
	if err != nil {
		return nil, s.invalid(ctx, string(path.Page), err)
	}
	summary := isSummary(path.Page)
	res, err := validator.ValidatePath(sub, path, summary)
	if err != nil {
		return nil, s.invalid(ctx, string(path.Page), err)
	}

	// Arriving back at a summary ends any change journey.
	if summary {
		if err := s.routes.ClearChangeRoute(ctx, sc); err != nil {
			return nil, dErrors.Wrap(err, dErrors.CodeInternal, "clear change route")
		}
	}

	view = &PageView{Path: path.URL(), Data: map[string]any{}}
	doc, err := models.ToDocument(sub)
	if err != nil {
		return nil, dErrors.Wrap(err, dErrors.CodeInternal, "read answers")
	}
	for _, field := range path.Node().FieldPaths(path.ApplicationIndex) {
		if v, ok := models.Lookup(doc, field); ok {
			view.Data[field] = v
		}
	}

	back, err := s.routes.CheckChangeRouteExit(ctx, sc, path.URL(), true, false)
	if err != nil {
		return nil, dErrors.Wrap(err, dErrors.CodeInternal, "check change route")
	}
	if back == "" {
		if prev, ok := pagegraph.PreviousPage(sub, path); ok {
			back = prev.URL()
		}
	}
	view.BackLink = back

	if summary || path.Page == pagegraph.PageYourSubmission {
		view.Progress = res.Progress
		index := path.ApplicationIndex
		if path.Page == pagegraph.PageYourSubmission {
			index = pagegraph.NoApplication
		}
		view.Issues = pagegraph.MandatoryIssues(res.Progress, index)
	}
	if view.ChangeRoute, err = s.routes.GetChangeRouteData(ctx, sc); err != nil {
		return nil, dErrors.Wrap(err, dErrors.CodeInternal, "read change route")
	}
	return view, nil
}

// SubmitPage merges the answers posted from pagePath and returns where to go
// next: the change journey's return url when it ends here, otherwise the
// next applicable page. completed is set by pages that finish a journey
// themselves, such as the summary's "continue".
func (s *Service) SubmitPage(ctx context.Context, sc models.SubmissionContext, pagePath string, patch models.Document, completed bool) (next string, err error) {
	ctx, span := s.startSpan(ctx, "SubmitPage")
	defer func() { endSpan(span, err) }()

	path, err := pagegraph.ParsePagePath(pagePath)
	if err != nil {
		return "", s.invalid(ctx, "unknown", dErrors.Wrap(err, dErrors.CodeInvalidSubmission, "invalid page path"))
	}
	span.SetAttributes(attribute.String("page", path.String()))
	if path.Page == pagegraph.PageDeclaration {
		return s.PostSubmission(ctx, sc)
	}

	sub, err := s.GetSubmission(ctx, sc)
	if err != nil {
		return "", s.invalid(ctx, string(path.Page), err)
	}
	if _, err := validator.ValidatePath(sub, path, false); err != nil {
		return "", s.invalid(ctx, string(path.Page), err)
	}

	if patch == nil {
		patch = models.Document{}
	}
	// Only the page's own answers are accepted; references and payment state
	// are written by the engine.
	if foreign := path.Node().ForeignFields(patch); len(foreign) > 0 {
		s.logger.WarnContext(ctx, "page post rejected", "page", path.String(), "fields", foreign)
		return "", dErrors.NewField(dErrors.CodeBadRequest, foreign[0],
			fmt.Sprintf("page %s does not accept %s", path.Page, strings.Join(foreign, ", ")))
	}
	if patch, err = s.enrich(ctx, sub, path, patch); err != nil {
		return "", err
	}

	var merged *models.Submission
	if len(patch) > 0 {
		res, err := s.pagePatch(ctx, sc, path, patch)
		if err != nil {
			return "", s.invalid(ctx, string(path.Page), err)
		}
		merged = res.Submission
	} else {
		merged = sub
	}

	state, err := s.routes.GetChangeRouteData(ctx, sc)
	if err != nil {
		return "", dErrors.Wrap(err, dErrors.CodeInternal, "read change route")
	}
	// A controlling answer that removed nothing needs no walk through the
	// pages after it.
	controlling := s.routes.IsControlling(state, path.URL())
	dataRemoved := state != nil && state.DataRemoved
	exit, err := s.routes.CheckChangeRouteExit(ctx, sc, path.URL(), false, completed || (controlling && !dataRemoved))
	if err != nil {
		return "", dErrors.Wrap(err, dErrors.CodeInternal, "check change route")
	}
	if exit != "" {
		return exit, nil
	}

	nextPath, ok := pagegraph.NextPage(merged, path)
	if !ok {
		return pagegraph.FurthestReachable(merged).URL(), nil
	}
	// Leaving an application while another still has unanswered pages, for
	// example after a change cleared answers in every application.
	if !isNewApplication(merged, nextPath) && !pagegraph.IsPageReachable(merged, nextPath.Page, nextPath.ApplicationIndex) {
		nextPath = pagegraph.FirstOutstanding(merged)
	}
	if isNewApplication(merged, nextPath) {
		s.appendApplication(merged)
		if err := s.store(ctx, sc, merged); err != nil {
			return "", err
		}
	}
	if err := s.saveDraft(ctx, sc, merged, nextPath.URL()); err != nil {
		// The answers are already in the session; a failed draft save only
		// costs the resume point.
		s.logger.WarnContext(ctx, "auto-save draft failed", "error", err)
	}
	return nextPath.URL(), nil
}

// StartChange begins a change journey from a summary page and returns the
// first page to show.
func (s *Service) StartChange(ctx context.Context, sc models.SubmissionContext, changeType string, applicationIndex *int, returnURL string) (string, error) {
	sub, err := s.GetSubmission(ctx, sc)
	if err != nil {
		return "", err
	}
	var option models.PermitType
	if sub.PermitType != nil {
		option = *sub.PermitType
	}
	state, err := s.routes.SetChangeRoute(ctx, sc, changeType, applicationIndex, returnURL, option)
	if err != nil {
		return "", err
	}
	if state.ShowConfirmationPage {
		return ConfirmChangeURL, nil
	}
	return "/" + strings.Trim(state.StartURLs[0], "/"), nil
}

// ConfirmChange answers the confirmation page.
func (s *Service) ConfirmChange(ctx context.Context, sc models.SubmissionContext, accept bool) (string, error) {
	return s.routes.Confirm(ctx, sc, accept)
}

// ChangeRoute returns the active change journey, nil when there is none.
func (s *Service) ChangeRoute(ctx context.Context, sc models.SubmissionContext) (*models.ChangeRouteState, error) {
	state, err := s.routes.GetChangeRouteData(ctx, sc)
	if err != nil {
		return nil, dErrors.Wrap(err, dErrors.CodeInternal, "read change route")
	}
	return state, nil
}

// ClearChangeRoute drops any change journey, as the submissions list does.
func (s *Service) ClearChangeRoute(ctx context.Context, sc models.SubmissionContext) error {
	if err := s.routes.ClearChangeRoute(ctx, sc); err != nil {
		return dErrors.Wrap(err, dErrors.CodeInternal, "clear change route")
	}
	return nil
}

// enrich completes a posted patch with what the page looks up: the listed
// species name and kingdom, address search results, checked identification
// marks.
func (s *Service) enrich(ctx context.Context, sub *models.Submission, path pagegraph.PagePath, patch models.Document) (models.Document, error) {
	switch path.Page {
	case pagegraph.PageSpeciesName:
		return s.enrichSpecies(ctx, patch)
	case pagegraph.PagePostcodeAgent, pagegraph.PagePostcodeApplicant, pagegraph.PagePostcodeDelivery:
		return s.enrichAddresses(ctx, path, patch)
	case pagegraph.PageUniqueIdentificationMark:
		raw, ok := models.Lookup(patch, "species.uniqueIdentificationMarks")
		if !ok {
			return patch, nil
		}
		var marks []models.UniqueIdentificationMark
		if err := fromJSONValue(raw, &marks); err != nil {
			return nil, dErrors.NewField(dErrors.CodeValidation, "uniqueIdentificationMarks", "identification marks are malformed")
		}
		if err := checkDuplicateMarks(sub, path.ApplicationIndex, marks); err != nil {
			return nil, err
		}
		return marksPatch(sub, path.ApplicationIndex, marks)
	}
	return patch, nil
}

func (s *Service) enrichSpecies(ctx context.Context, patch models.Document) (models.Document, error) {
	if s.species == nil {
		return patch, nil
	}
	raw, _ := models.Lookup(patch, "species.speciesName")
	name, _ := raw.(string)
	if strings.TrimSpace(name) == "" {
		return nil, dErrors.NewField(dErrors.CodeValidation, "species.speciesName", "species name is required")
	}
	found, err := s.species.Lookup(ctx, name)
	if err != nil {
		return nil, err
	}
	if found == nil {
		return nil, dErrors.NewField(dErrors.CodeValidation, "species.speciesName", "species is not listed")
	}
	if err := models.Set(patch, "species.speciesName", found.ScientificName); err != nil {
		return nil, dErrors.Wrap(err, dErrors.CodeBadRequest, "species answer")
	}
	if err := models.Set(patch, "species.kingdom", string(found.Kingdom)); err != nil {
		return nil, dErrors.Wrap(err, dErrors.CodeBadRequest, "species answer")
	}
	return patch, nil
}

func (s *Service) enrichAddresses(ctx context.Context, path pagegraph.PagePath, patch models.Document) (models.Document, error) {
	if s.addresses == nil {
		return patch, nil
	}
	field := path.Node().Fields[0]
	postcode, _ := lookupString(patch, field+".postcode")
	property, _ := lookupString(patch, field+".property")
	if strings.TrimSpace(postcode) == "" {
		return nil, dErrors.NewField(dErrors.CodeValidation, "postcode", "postcode is required")
	}
	results, err := s.addresses.Search(ctx, postcode, property)
	if err != nil {
		return nil, err
	}
	var encoded any
	if len(results) > 0 {
		if encoded, err = jsonValue(results); err != nil {
			return nil, dErrors.Wrap(err, dErrors.CodeInternal, "encode addresses")
		}
	}
	if err := models.Set(patch, field+".results", encoded); err != nil {
		return nil, dErrors.Wrap(err, dErrors.CodeBadRequest, "address search")
	}
	return patch, nil
}

func (s *Service) invalid(ctx context.Context, page string, err error) error {
	if dErrors.HasCode(err, dErrors.CodeInvalidSubmission) {
		s.metrics.IncInvalidSubmission(page)
		s.logger.InfoContext(ctx, "invalid submission access", "page", page, "error", err)
	}
	return err
}

func isNewApplication(sub *models.Submission, p pagegraph.PagePath) bool {
	return p.HasApplication() && p.ApplicationIndex >= len(sub.Applications)
}

func isSummary(page pagegraph.PageID) bool {
	switch page {
	case pagegraph.PageSummaryCheck, pagegraph.PageSummaryView, pagegraph.PageSummaryCopy, pagegraph.PageSummaryViewSubmitted:
		return true
	}
	return false
}

func lookupString(doc models.Document, path string) (string, bool) {
	v, ok := models.Lookup(doc, path)
	if !ok {
		return "", false
	}
	str, ok := v.(string)
	return str, ok
}

// jsonValue converts v into the generic form documents hold.
func jsonValue(v any) (any, error) {
	raw, err := json.Marshal(v)
	if err != nil {
		return nil, err
	}
	var out any
	if err := json.Unmarshal(raw, &out); err != nil {
		return nil, err
	}
	return out, nil
}

func fromJSONValue(v any, dest any) error {
	raw, err := json.Marshal(v)
	if err != nil {
		return err
	}
	if err := json.Unmarshal(raw, dest); err != nil {
		return fmt.Errorf("decode %T: %w", dest, err)
	}
	return nil
}
