package service

import (
	"context"
	"fmt"

	"cites/internal/audit"
	"cites/internal/session"
	"cites/internal/submission/models"
	"cites/internal/submission/validator"
	dErrors "cites/pkg/domain-errors"
)

// GetSubmission returns the session submission. A session without one is an
// invalid submission: the caller sends the user back to the start.
func (s *Service) GetSubmission(ctx context.Context, sc models.SubmissionContext) (*models.Submission, error) {
	var sub models.Submission
	found, err := s.sessions.Get(ctx, sc.SessionID, session.KeySubmission, &sub)
	if err != nil {
		return nil, dErrors.Wrap(err, dErrors.CodeInternal, "read submission")
	}
	if !found {
		return nil, dErrors.New(dErrors.CodeInvalidSubmission, "no submission in session")
	}
	if sub.Applications == nil {
		sub.Applications = []models.Application{}
	}
	return &sub, nil
}

// SetSubmission replaces the session submission after checking pagePath is
// reachable for it.
func (s *Service) SetSubmission(ctx context.Context, sc models.SubmissionContext, sub *models.Submission, pagePath string) error {
	if _, err := validator.ValidateSubmission(sub, pagePath, false); err != nil {
		return err
	}
	return s.store(ctx, sc, sub)
}

// CreateSubmission starts a fresh submission for the signed-in user and
// drops any change in progress.
func (s *Service) CreateSubmission(ctx context.Context, sc models.SubmissionContext) (*models.Submission, error) {
	sub := models.NewSubmission(sc)
	if err := s.store(ctx, sc, sub); err != nil {
		return nil, err
	}
	if err := s.routes.ClearChangeRoute(ctx, sc); err != nil {
		return nil, dErrors.Wrap(err, dErrors.CodeInternal, "clear change route")
	}
	s.emit(ctx, sc, audit.Event{Action: audit.ActionSubmissionCreated})
	return sub, nil
}

// CloneSubmission starts a new submission from one application of the
// session submission, keeping the applicant, agent and delivery answers.
// Identifiers, payment and documents are not carried over.
func (s *Service) CloneSubmission(ctx context.Context, sc models.SubmissionContext, applicationIndex int) (*models.Submission, error) {
	current, err := s.GetSubmission(ctx, sc)
	if err != nil {
		return nil, err
	}
	if current.Application(applicationIndex) == nil {
		return nil, dErrors.New(dErrors.CodeInvalidSubmission, fmt.Sprintf("application %d out of range", applicationIndex))
	}
	clone, err := current.Clone()
	if err != nil {
		return nil, dErrors.Wrap(err, dErrors.CodeInternal, "clone submission")
	}

	app := clone.Applications[applicationIndex]
	clone.Applications = models.ReIndexApplications([]models.Application{app})
	clone.SubmissionRef = ""
	clone.SubmissionID = ""
	clone.PaymentDetails = nil
	clone.SupportingDocuments = nil
	clone.ContactID = sc.ContactID
	clone.OrganisationID = sc.OrganisationID

	if err := s.store(ctx, sc, clone); err != nil {
		return nil, err
	}
	if err := s.routes.ClearChangeRoute(ctx, sc); err != nil {
		return nil, dErrors.Wrap(err, dErrors.CodeInternal, "clear change route")
	}
	s.emit(ctx, sc, audit.Event{Action: audit.ActionSubmissionCreated, PermitType: permitTypeOf(clone)})
	return clone, nil
}

func (s *Service) store(ctx context.Context, sc models.SubmissionContext, sub *models.Submission) error {
	sub.Applications = models.ReIndexApplications(sub.Applications)
	if err := s.sessions.Set(ctx, sc.SessionID, session.KeySubmission, sub); err != nil {
		return dErrors.Wrap(err, dErrors.CodeInternal, "write submission")
	}
	return nil
}

func permitTypeOf(sub *models.Submission) string {
	if sub == nil || sub.PermitType == nil {
		return ""
	}
	return string(*sub.PermitType)
}

// routeStore keeps the change route in the session beside the submission.
type routeStore struct {
	sessions SessionStore
}

func (r routeStore) LoadChangeRoute(ctx context.Context, sc models.SubmissionContext) (*models.ChangeRouteState, error) {
	var state models.ChangeRouteState
	found, err := r.sessions.Get(ctx, sc.SessionID, session.KeyChangeRoute, &state)
	if err != nil || !found {
		return nil, err
	}
	return &state, nil
}

func (r routeStore) SaveChangeRoute(ctx context.Context, sc models.SubmissionContext, state *models.ChangeRouteState) error {
	return r.sessions.Set(ctx, sc.SessionID, session.KeyChangeRoute, state)
}

func (r routeStore) DeleteChangeRoute(ctx context.Context, sc models.SubmissionContext) error {
	return r.sessions.Delete(ctx, sc.SessionID, session.KeyChangeRoute)
}
