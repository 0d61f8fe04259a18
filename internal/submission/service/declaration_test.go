package service

import (
	"context"

	"go.uber.org/mock/gomock"

	"cites/internal/audit"
	"cites/internal/crm"
	"cites/internal/payment"
	"cites/internal/submission/models"
	"cites/internal/submission/testfixtures"
	dErrors "cites/pkg/domain-errors"
)

func (s *ServiceSuite) TestPostSubmission() {
	s.seed(testfixtures.Article10Submission())
	s.Require().NoError(s.svc.SaveDraftSubmission(s.ctx, s.sc, "/declaration"))

	s.crm.EXPECT().PostSubmission(gomock.Any(), gomock.Any()).
		DoAndReturn(func(_ context.Context, sub *models.Submission) (crm.PostResult, error) {
			s.Require().Len(sub.Applications, 2, "export application generated before posting")
			s.True(sub.Applications[1].IsGeneratedExport)
			return crm.PostResult{SubmissionID: "crm-9", SubmissionRef: "CITES-9", CostingType: "standard", CostingValue: 12.5}, nil
		}).Times(1)

	next, err := s.svc.SubmitPage(s.ctx, s.sc, "declaration", nil, false)
	s.Require().NoError(err)
	s.Equal(PayApplicationURL, next)

	sub := s.current()
	s.Equal("CITES-9", sub.SubmissionRef)
	s.Equal("crm-9", sub.SubmissionID)
	s.Equal(12.5, sub.PaymentDetails.CostingValue)

	exists, err := s.drafts.Exists(s.ctx, s.sc.UserKey())
	s.Require().NoError(err)
	s.False(exists, "draft dropped once submitted")
	s.Contains(s.sink.Actions(), audit.ActionSubmissionPosted)

	// Posting again does not reach the CRM.
	next, err = s.svc.PostSubmission(s.ctx, s.sc)
	s.Require().NoError(err)
	s.Equal(PayApplicationURL, next)
}

func (s *ServiceSuite) TestPostSubmissionFreeOfCharge() {
	s.seed(testfixtures.ImportSubmission())
	s.crm.EXPECT().PostSubmission(gomock.Any(), gomock.Any()).
		Return(crm.PostResult{SubmissionID: "crm-1", SubmissionRef: "CITES-1"}, nil)

	next, err := s.svc.PostSubmission(s.ctx, s.sc)
	s.Require().NoError(err)
	s.Equal(ApplicationCompleteURL, next)
}

func (s *ServiceSuite) TestPostSubmissionUpstreamFailureKeepsSession() {
	s.seed(testfixtures.ImportSubmission())
	s.crm.EXPECT().PostSubmission(gomock.Any(), gomock.Any()).
		Return(crm.PostResult{}, dErrors.New(dErrors.CodeUpstream, "crm unavailable"))

	_, err := s.svc.PostSubmission(s.ctx, s.sc)
	s.True(dErrors.HasCode(err, dErrors.CodeUpstream))
	s.Empty(s.current().SubmissionRef)
}

func (s *ServiceSuite) TestPostSubmissionIncomplete() {
	sub := testfixtures.ImportSubmission()
	sub.Applications[0].Species.Quantity = nil
	s.seed(sub)

	_, err := s.svc.PostSubmission(s.ctx, s.sc)
	s.True(dErrors.HasCode(err, dErrors.CodeInvalidSubmission))
}

func (s *ServiceSuite) TestLoadSubmittedSubmission() {
	submitted := testfixtures.ImportSubmission()
	submitted.SubmissionRef = "CITES-3"
	s.crm.EXPECT().GetSubmission(gomock.Any(), "contact-1", "org-1", "CITES-3").Return(submitted, nil)

	got, err := s.svc.LoadSubmittedSubmission(s.ctx, s.sc, "CITES-3")
	s.Require().NoError(err)
	s.Equal("CITES-3", got.SubmissionRef)
	s.Equal("CITES-3", s.current().SubmissionRef)

	_, err = s.svc.LoadSubmittedSubmission(s.ctx, s.sc, "")
	s.True(dErrors.HasCode(err, dErrors.CodeBadRequest))
}

func (s *ServiceSuite) submitted(cost float64) {
	sub := testfixtures.ImportSubmission()
	sub.SubmissionRef = "CITES-5"
	sub.PaymentDetails = &models.PaymentDetails{CostingValue: cost}
	s.seed(sub)
}

func (s *ServiceSuite) TestCreatePayment() {
	s.submitted(12.35)
	s.payments.EXPECT().CreatePayment(gomock.Any(), payment.Request{
		Amount:      1235,
		Reference:   "CITES-5",
		Description: "CITES permit application CITES-5",
		ReturnURL:   "/payment-complete",
	}).Return(payment.Payment{
		PaymentID: "pay-1",
		Reference: "CITES-5",
		State:     payment.State{Status: "created"},
		Links:     payment.Links{NextURL: &payment.Link{Href: "https://pay.example/pay-1"}},
	}, nil)

	next, err := s.svc.CreatePayment(s.ctx, s.sc, "/payment-complete")
	s.Require().NoError(err)
	s.Equal("https://pay.example/pay-1", next)

	details := s.current().PaymentDetails
	s.Equal("pay-1", details.PaymentID)
	s.Equal("created", details.PaymentStatus)
}

func (s *ServiceSuite) TestCreatePaymentNothingToPay() {
	s.submitted(0)
	_, err := s.svc.CreatePayment(s.ctx, s.sc, "/payment-complete")
	s.True(dErrors.HasCode(err, dErrors.CodeInvalidSubmission))
}

func (s *ServiceSuite) TestCompletePayment() {
	s.Run("success", func() {
		s.submitted(10)
		sub := s.current()
		sub.PaymentDetails.PaymentID = "pay-2"
		s.seed(sub)
		s.payments.EXPECT().WaitForCompletion(gomock.Any(), "pay-2").
			Return(payment.Payment{PaymentID: "pay-2", State: payment.State{Status: payment.StatusSuccess, Finished: true}}, nil)

		ok, err := s.svc.CompletePayment(s.ctx, s.sc)
		s.Require().NoError(err)
		s.True(ok)
		s.Equal(payment.StatusSuccess, s.current().PaymentDetails.PaymentStatus)
		s.Contains(s.sink.Actions(), audit.ActionPaymentCompleted)
	})

	s.Run("still pending", func() {
		s.submitted(10)
		sub := s.current()
		sub.PaymentDetails.PaymentID = "pay-3"
		s.seed(sub)
		s.payments.EXPECT().WaitForCompletion(gomock.Any(), "pay-3").
			Return(payment.Payment{PaymentID: "pay-3", State: payment.State{Status: "started"}}, dErrors.New(dErrors.CodeTimeout, "payment not finished"))

		ok, err := s.svc.CompletePayment(s.ctx, s.sc)
		s.Require().NoError(err)
		s.False(ok)
		s.Equal("started", s.current().PaymentDetails.PaymentStatus)
	})

	s.Run("no payment started", func() {
		s.submitted(10)
		_, err := s.svc.CompletePayment(s.ctx, s.sc)
		s.True(dErrors.HasCode(err, dErrors.CodeInvalidSubmission))
	})
}

func (s *ServiceSuite) TestSupportingDocuments() {
	s.seed(testfixtures.ImportSubmission())

	doc, err := s.svc.AttachSupportingDocument(s.ctx, s.sc, "licence.pdf", "application/pdf", []byte("%PDF-1.7"))
	s.Require().NoError(err)
	s.Equal("licence.pdf", doc.FileName)
	s.Equal(int64(8), doc.Size)

	body, contentType, err := s.docs.Get(s.ctx, doc.BlobStorageKey)
	s.Require().NoError(err)
	s.Equal("%PDF-1.7", string(body))
	s.Equal("application/pdf", contentType)
	s.Equal([]models.SupportingDocument{doc}, s.current().SupportingDocuments)

	_, err = s.svc.AttachSupportingDocument(s.ctx, s.sc, "run.exe", "application/x-msdownload", []byte("MZ"))
	s.True(dErrors.HasCode(err, dErrors.CodeValidation))

	s.Require().NoError(s.svc.RemoveSupportingDocument(s.ctx, s.sc, doc.BlobStorageKey))
	s.Empty(s.current().SupportingDocuments)
	_, _, err = s.docs.Get(s.ctx, doc.BlobStorageKey)
	s.Error(err)

	err = s.svc.RemoveSupportingDocument(s.ctx, s.sc, doc.BlobStorageKey)
	s.True(dErrors.HasCode(err, dErrors.CodeNotFound))
}

func (s *ServiceSuite) TestAttachDocumentBeforeSummaryIsInvalid() {
	s.seed(models.NewSubmission(s.sc))
	_, err := s.svc.AttachSupportingDocument(s.ctx, s.sc, "licence.pdf", "application/pdf", []byte("%PDF"))
	s.True(dErrors.HasCode(err, dErrors.CodeInvalidSubmission))
}
