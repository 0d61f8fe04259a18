package service

import (
	"context"
	"math"
	"slices"

	"go.opentelemetry.io/otel/attribute"

	"cites/internal/audit"
	"cites/internal/documents"
	"cites/internal/payment"
	"cites/internal/submission/models"
	"cites/internal/submission/pagegraph"
	"cites/internal/submission/validator"
	dErrors "cites/pkg/domain-errors"
)

const (
	PayApplicationURL      = "/pay-application"
	ApplicationCompleteURL = "/application-complete"
)

// PostSubmission sends the declared submission to the CRM, records the
// reference and costing it returns and drops the draft. It returns the page
// that follows: payment when there is something to pay.
func (s *Service) PostSubmission(ctx context.Context, sc models.SubmissionContext) (next string, err error) {
	ctx, span := s.startSpan(ctx, "PostSubmission")
	defer func() { endSpan(span, err) }()

	if s.crm == nil {
		return "", dErrors.New(dErrors.CodeInternal, "crm not configured")
	}
	sub, err := s.GetSubmission(ctx, sc)
	if err != nil {
		return "", err
	}
	// A second post of the same declaration must not create another case.
	if sub.SubmissionRef != "" {
		return nextAfterPost(sub), nil
	}
	if _, err := validator.ValidatePath(sub, pagegraph.At(pagegraph.PageDeclaration, pagegraph.NoApplication), false); err != nil {
		return "", s.invalid(ctx, string(pagegraph.PageDeclaration), err)
	}

	if sub, err = s.GenerateExportApplications(ctx, sc); err != nil {
		return "", err
	}
	result, err := s.crm.PostSubmission(ctx, sub)
	if err != nil {
		return "", err
	}
	span.SetAttributes(attribute.String("submission_ref", result.SubmissionRef))

	sub.SubmissionRef = result.SubmissionRef
	sub.SubmissionID = result.SubmissionID
	sub.PaymentDetails = &models.PaymentDetails{
		CostingType:  result.CostingType,
		CostingValue: result.CostingValue,
	}
	if err := s.store(ctx, sc, sub); err != nil {
		return "", err
	}
	if err := s.DeleteDraftSubmission(ctx, sc); err != nil {
		s.logger.WarnContext(ctx, "delete draft after submit failed",
			"submission_ref", sub.SubmissionRef,
			"error", err,
		)
	}

	s.metrics.IncSubmissionPosted(permitTypeOf(sub))
	s.emit(ctx, sc, audit.Event{
		Action:        audit.ActionSubmissionPosted,
		SubmissionRef: sub.SubmissionRef,
		PermitType:    permitTypeOf(sub),
	})
	return nextAfterPost(sub), nil
}

func nextAfterPost(sub *models.Submission) string {
	if sub.PaymentDetails != nil && sub.PaymentDetails.CostingValue > 0 {
		return PayApplicationURL
	}
	return ApplicationCompleteURL
}

// LoadSubmittedSubmission fetches a submitted submission from the CRM into the
// session so its applications can be viewed or copied.
func (s *Service) LoadSubmittedSubmission(ctx context.Context, sc models.SubmissionContext, submissionRef string) (*models.Submission, error) {
	if s.crm == nil {
		return nil, dErrors.New(dErrors.CodeInternal, "crm not configured")
	}
	if submissionRef == "" {
		return nil, dErrors.New(dErrors.CodeBadRequest, "submission reference is required")
	}
	sub, err := s.crm.GetSubmission(ctx, sc.ContactID, sc.OrganisationID, submissionRef)
	if err != nil {
		return nil, err
	}
	if sub.Applications == nil {
		sub.Applications = []models.Application{}
	}
	if err := s.store(ctx, sc, sub); err != nil {
		return nil, err
	}
	if err := s.routes.ClearChangeRoute(ctx, sc); err != nil {
		return nil, dErrors.Wrap(err, dErrors.CodeInternal, "clear change route")
	}
	return sub, nil
}

// CreatePayment starts a payment for the submitted submission's costing and
// returns the provider page the user pays on.
func (s *Service) CreatePayment(ctx context.Context, sc models.SubmissionContext, returnURL string) (string, error) {
	if s.payments == nil {
		return "", dErrors.New(dErrors.CodeInternal, "payments not configured")
	}
	sub, err := s.GetSubmission(ctx, sc)
	if err != nil {
		return "", err
	}
	if sub.SubmissionRef == "" || sub.PaymentDetails == nil || sub.PaymentDetails.CostingValue <= 0 {
		return "", dErrors.New(dErrors.CodeInvalidSubmission, "nothing to pay")
	}

	p, err := s.payments.CreatePayment(ctx, payment.Request{
		Amount:      int64(math.Round(sub.PaymentDetails.CostingValue * 100)),
		Reference:   sub.SubmissionRef,
		Description: "CITES permit application " + sub.SubmissionRef,
		ReturnURL:   returnURL,
	})
	if err != nil {
		return "", err
	}
	sub.PaymentDetails.PaymentID = p.PaymentID
	sub.PaymentDetails.PaymentReference = p.Reference
	sub.PaymentDetails.PaymentStatus = p.State.Status
	sub.PaymentDetails.NextURL = p.NextURL()
	if err := s.store(ctx, sc, sub); err != nil {
		return "", err
	}
	return p.NextURL(), nil
}

// CompletePayment waits for the provider to finish the payment and records
// its status. It reports whether the payment succeeded; a payment still
// pending after polling is reported as not succeeded.
func (s *Service) CompletePayment(ctx context.Context, sc models.SubmissionContext) (bool, error) {
	if s.payments == nil {
		return false, dErrors.New(dErrors.CodeInternal, "payments not configured")
	}
	sub, err := s.GetSubmission(ctx, sc)
	if err != nil {
		return false, err
	}
	if sub.PaymentDetails == nil || sub.PaymentDetails.PaymentID == "" {
		return false, dErrors.New(dErrors.CodeInvalidSubmission, "no payment started")
	}

	p, err := s.payments.WaitForCompletion(ctx, sub.PaymentDetails.PaymentID)
	if err != nil && !dErrors.HasCode(err, dErrors.CodeTimeout) {
		return false, err
	}
	if p.State.Status != "" {
		sub.PaymentDetails.PaymentStatus = p.State.Status
	}
	if p.Succeeded() {
		sub.PaymentDetails.NextURL = ""
	}
	if err := s.store(ctx, sc, sub); err != nil {
		return false, err
	}
	if p.Succeeded() {
		s.emit(ctx, sc, audit.Event{
			Action:        audit.ActionPaymentCompleted,
			SubmissionRef: sub.SubmissionRef,
			PermitType:    permitTypeOf(sub),
		})
	}
	return p.Succeeded(), nil
}

// AttachSupportingDocument uploads a document for the submission being
// completed and lists it on the submission.
func (s *Service) AttachSupportingDocument(ctx context.Context, sc models.SubmissionContext, fileName, contentType string, body []byte) (models.SupportingDocument, error) {
	if s.documents == nil {
		return models.SupportingDocument{}, dErrors.New(dErrors.CodeInternal, "document storage not configured")
	}
	if err := documents.Validate(fileName, contentType, len(body)); err != nil {
		return models.SupportingDocument{}, err
	}
	sub, err := s.GetSubmission(ctx, sc)
	if err != nil {
		return models.SupportingDocument{}, err
	}
	page := pagegraph.At(pagegraph.PageUploadSupportingDocuments, pagegraph.NoApplication)
	if _, err := validator.ValidatePath(sub, page, false); err != nil {
		return models.SupportingDocument{}, s.invalid(ctx, string(page.Page), err)
	}

	key := documents.NewKey(sc.UserKey(), fileName)
	if err := s.documents.Put(ctx, key, contentType, body); err != nil {
		return models.SupportingDocument{}, dErrors.Wrap(err, dErrors.CodeUpstream, "store document")
	}
	doc := models.SupportingDocument{
		FileName:       fileName,
		BlobStorageKey: key,
		ContentType:    contentType,
		Size:           int64(len(body)),
	}
	sub.SupportingDocuments = append(sub.SupportingDocuments, doc)
	if err := s.store(ctx, sc, sub); err != nil {
		return models.SupportingDocument{}, err
	}
	s.emit(ctx, sc, audit.Event{Action: audit.ActionDocumentAttached, Fields: []string{key}})
	return doc, nil
}

// RemoveSupportingDocument deletes an attached document by its storage key.
func (s *Service) RemoveSupportingDocument(ctx context.Context, sc models.SubmissionContext, key string) error {
	if s.documents == nil {
		return dErrors.New(dErrors.CodeInternal, "document storage not configured")
	}
	sub, err := s.GetSubmission(ctx, sc)
	if err != nil {
		return err
	}
	i := slices.IndexFunc(sub.SupportingDocuments, func(d models.SupportingDocument) bool {
		return d.BlobStorageKey == key
	})
	if i < 0 {
		return dErrors.New(dErrors.CodeNotFound, "document not attached")
	}
	if err := s.documents.Delete(ctx, key); err != nil {
		return dErrors.Wrap(err, dErrors.CodeUpstream, "delete document")
	}
	sub.SupportingDocuments = slices.Delete(sub.SupportingDocuments, i, i+1)
	return s.store(ctx, sc, sub)
}
