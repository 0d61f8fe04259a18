package service

import (
	"context"

	"cites/internal/audit"
	"cites/internal/submission/models"
	"cites/internal/submission/mutation"
	"cites/internal/submission/pagegraph"
	"cites/internal/submission/validator"
	dErrors "cites/pkg/domain-errors"
)

// MergeResult is the stored submission after a merge and the answers the
// invalidation rules cleared.
type MergeResult struct {
	Submission  *models.Submission
	DataRemoved []string
}

// MergeSubmission merges a submission-level patch posted from pagePath.
func (s *Service) MergeSubmission(ctx context.Context, sc models.SubmissionContext, patch models.Document, pagePath string) (MergeResult, error) {
	sub, err := s.GetSubmission(ctx, sc)
	if err != nil {
		return MergeResult{}, err
	}
	outcome, err := mutation.Apply(sub, patch)
	if err != nil {
		return MergeResult{}, dErrors.Wrap(err, dErrors.CodeBadRequest, "merge answers")
	}
	return s.commitMerge(ctx, sc, outcome, pagePath)
}

// MergeApplication merges an application-relative patch into one application.
func (s *Service) MergeApplication(ctx context.Context, sc models.SubmissionContext, applicationIndex int, patch models.Document, pagePath string) (MergeResult, error) {
	sub, err := s.GetSubmission(ctx, sc)
	if err != nil {
		return MergeResult{}, err
	}
	if sub.Application(applicationIndex) == nil {
		return MergeResult{}, dErrors.New(dErrors.CodeInvalidSubmission, "application out of range")
	}
	outcome, err := mutation.ApplyToApplication(sub, applicationIndex, patch)
	if err != nil {
		return MergeResult{}, dErrors.Wrap(err, dErrors.CodeBadRequest, "merge answers")
	}
	return s.commitMerge(ctx, sc, outcome, pagePath)
}

func (s *Service) commitMerge(ctx context.Context, sc models.SubmissionContext, outcome mutation.Outcome, pagePath string) (MergeResult, error) {
	res, err := validator.ValidateSubmission(outcome.Submission, pagePath, false)
	if err != nil {
		return MergeResult{}, err
	}
	if err := s.store(ctx, sc, outcome.Submission); err != nil {
		return MergeResult{}, err
	}
	page := string(res.Path.Page)
	s.metrics.IncPageMerge(page)

	if len(outcome.DataRemoved) > 0 {
		if err := s.routes.SetDataRemoved(ctx, sc); err != nil {
			return MergeResult{}, dErrors.Wrap(err, dErrors.CodeInternal, "flag change route")
		}
		s.metrics.IncDataRemoved(page)
		s.emit(ctx, sc, audit.Event{
			Action:     audit.ActionDataRemoved,
			Page:       res.Path.URL(),
			PermitType: permitTypeOf(outcome.Submission),
			Fields:     outcome.DataRemoved,
		})
	}
	return MergeResult{Submission: outcome.Submission, DataRemoved: outcome.DataRemoved}, nil
}

// pagePatch merges the patch for path, picking the application scope for
// application pages.
func (s *Service) pagePatch(ctx context.Context, sc models.SubmissionContext, path pagegraph.PagePath, patch models.Document) (MergeResult, error) {
	if path.HasApplication() {
		return s.MergeApplication(ctx, sc, path.ApplicationIndex, patch, path.String())
	}
	return s.MergeSubmission(ctx, sc, patch, path.String())
}
