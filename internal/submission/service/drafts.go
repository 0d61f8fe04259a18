package service

import (
	"context"
	"errors"

	"cites/internal/audit"
	"cites/internal/submission/models"
	"cites/internal/submission/pagegraph"
	"cites/internal/submission/validator"
	dErrors "cites/pkg/domain-errors"
	"cites/pkg/platform/sentinel"
)

// SaveDraftSubmission stores the session submission as the user's draft with
// the page to resume from.
func (s *Service) SaveDraftSubmission(ctx context.Context, sc models.SubmissionContext, savePointURL string) error {
	if s.drafts == nil {
		return nil
	}
	sub, err := s.GetSubmission(ctx, sc)
	if err != nil {
		return err
	}
	return s.saveDraft(ctx, sc, sub, savePointURL)
}

func (s *Service) saveDraft(ctx context.Context, sc models.SubmissionContext, sub *models.Submission, savePointURL string) error {
	if s.drafts == nil || sub.SubmissionRef != "" {
		return nil
	}
	draft := models.Draft{Submission: sub, SavePointURL: savePointURL, SavedAt: s.now().UTC()}
	if err := s.drafts.Save(ctx, sc.UserKey(), draft); err != nil {
		return dErrors.Wrap(err, dErrors.CodeInternal, "save draft")
	}
	s.metrics.IncDraftSaved()
	s.emit(ctx, sc, audit.Event{Action: audit.ActionDraftSaved, Page: savePointURL, PermitType: permitTypeOf(sub)})
	return nil
}

// LoadDraftSubmission restores the user's draft into the session and returns
// the URL to resume at. When the saved page can no longer be reached the
// furthest reachable page is used instead.
func (s *Service) LoadDraftSubmission(ctx context.Context, sc models.SubmissionContext) (string, error) {
	if s.drafts == nil {
		return "", dErrors.New(dErrors.CodeNotFound, "no draft")
	}
	draft, err := s.drafts.Load(ctx, sc.UserKey())
	if err != nil {
		if errors.Is(err, sentinel.ErrNotFound) {
			return "", dErrors.New(dErrors.CodeNotFound, "no draft")
		}
		return "", dErrors.Wrap(err, dErrors.CodeInternal, "load draft")
	}
	sub := draft.Submission
	if sub == nil {
		return "", dErrors.New(dErrors.CodeNotFound, "no draft")
	}
	if sub.Applications == nil {
		sub.Applications = []models.Application{}
	}
	if err := s.store(ctx, sc, sub); err != nil {
		return "", err
	}
	if err := s.routes.ClearChangeRoute(ctx, sc); err != nil {
		return "", dErrors.Wrap(err, dErrors.CodeInternal, "clear change route")
	}

	if _, err := validator.ValidateSubmission(sub, draft.SavePointURL, false); err == nil {
		return draft.SavePointURL, nil
	}
	resume := pagegraph.FurthestReachable(sub).URL()
	s.logger.InfoContext(ctx, "draft save point no longer reachable",
		"save_point", draft.SavePointURL,
		"resume", resume,
	)
	return resume, nil
}

func (s *Service) DeleteDraftSubmission(ctx context.Context, sc models.SubmissionContext) error {
	if s.drafts == nil {
		return nil
	}
	if err := s.drafts.Delete(ctx, sc.UserKey()); err != nil {
		return dErrors.Wrap(err, dErrors.CodeInternal, "delete draft")
	}
	s.emit(ctx, sc, audit.Event{Action: audit.ActionDraftDeleted})
	return nil
}

func (s *Service) CheckDraftSubmissionExists(ctx context.Context, sc models.SubmissionContext) (bool, error) {
	if s.drafts == nil {
		return false, nil
	}
	exists, err := s.drafts.Exists(ctx, sc.UserKey())
	if err != nil {
		return false, dErrors.Wrap(err, dErrors.CodeInternal, "check draft")
	}
	return exists, nil
}
