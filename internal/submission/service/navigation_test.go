package service

import (
	"fmt"

	"go.uber.org/mock/gomock"

	"cites/internal/audit"
	"cites/internal/crm"
	"cites/internal/lookup/species"
	"cites/internal/submission/models"
	"cites/internal/submission/testfixtures"
	dErrors "cites/pkg/domain-errors"
)

const summaryURL = "/application-summary/check/0"

func (s *ServiceSuite) startSpeciesChange() {
	next, err := s.svc.StartChange(s.ctx, s.sc, "speciesName", models.Ptr(0), summaryURL)
	s.Require().NoError(err)
	s.Equal(ConfirmChangeURL, next)

	next, err = s.svc.ConfirmChange(s.ctx, s.sc, true)
	s.Require().NoError(err)
	s.Equal("/species-name/0", next)
}

func (s *ServiceSuite) TestControllingChangeWithoutRemovalReturns() {
	s.seed(testfixtures.Article10Submission())
	s.startSpeciesChange()

	view, err := s.svc.ViewPage(s.ctx, s.sc, "species-name/0")
	s.Require().NoError(err)
	s.Equal(summaryURL, view.BackLink)
	s.Equal("Psittacus erithacus", view.Data["applications.0.species.speciesName"])

	s.species.EXPECT().Lookup(gomock.Any(), "Psittacus erithacus").
		Return(&species.Species{ScientificName: "Psittacus erithacus", Kingdom: models.KingdomAnimalia}, nil)
	next, err := s.svc.SubmitPage(s.ctx, s.sc, "species-name/0", models.Document{
		"species": map[string]any{"speciesName": "Psittacus erithacus"},
	}, false)
	s.Require().NoError(err)
	s.Equal(summaryURL, next)

	state, err := s.svc.ChangeRoute(s.ctx, s.sc)
	s.Require().NoError(err)
	s.Nil(state)
}

func (s *ServiceSuite) TestControllingChangeWithRemovalWalksForward() {
	s.seed(testfixtures.Article10Submission())
	s.startSpeciesChange()

	s.species.EXPECT().Lookup(gomock.Any(), "Aloe vera").
		Return(&species.Species{ScientificName: "Aloe vera", Kingdom: models.KingdomPlantae}, nil)
	next, err := s.svc.SubmitPage(s.ctx, s.sc, "species-name/0", models.Document{
		"species": map[string]any{"speciesName": "Aloe vera"},
	}, false)
	s.Require().NoError(err)
	s.Equal("/source-code/0", next)

	state, err := s.svc.ChangeRoute(s.ctx, s.sc)
	s.Require().NoError(err)
	s.Require().NotNil(state)
	s.True(state.DataRemoved)

	sp := s.current().Applications[0].SpeciesOf()
	s.Nil(sp.Sex)
	s.Nil(sp.DateOfBirth)
	s.Contains(s.sink.Actions(), audit.ActionDataRemoved)

	// Completing the journey from the summary returns and ends it.
	next, err = s.svc.SubmitPage(s.ctx, s.sc, "source-code/0", models.Document{
		"species": map[string]any{"sourceCode": "A"},
	}, true)
	s.Require().NoError(err)
	s.Equal(summaryURL, next)
}

func (s *ServiceSuite) TestNonControllingChangeExitsOnEndPage() {
	s.seed(testfixtures.ImportSubmission())

	next, err := s.svc.StartChange(s.ctx, s.sc, "comments", models.Ptr(0), summaryURL)
	s.Require().NoError(err)
	s.Equal("/comments/0", next)

	next, err = s.svc.SubmitPage(s.ctx, s.sc, "comments/0", models.Document{"comments": "Updated"}, false)
	s.Require().NoError(err)
	s.Equal(summaryURL, next)
	s.Equal("Updated", *s.current().Applications[0].Comments)
}

func (s *ServiceSuite) TestDeclinedChangeReturns() {
	s.seed(testfixtures.Article10Submission())
	_, err := s.svc.StartChange(s.ctx, s.sc, "speciesName", models.Ptr(0), summaryURL)
	s.Require().NoError(err)

	next, err := s.svc.ConfirmChange(s.ctx, s.sc, false)
	s.Require().NoError(err)
	s.Equal(summaryURL, next)

	_, err = s.svc.ConfirmChange(s.ctx, s.sc, true)
	s.True(dErrors.HasCode(err, dErrors.CodeInvalidSubmission))
}

func (s *ServiceSuite) TestStartChangeRejectsUnknownType() {
	s.seed(testfixtures.ImportSubmission())
	_, err := s.svc.StartChange(s.ctx, s.sc, "favouriteColour", nil, summaryURL)
	s.True(dErrors.HasCode(err, dErrors.CodeBadRequest))
}

func (s *ServiceSuite) TestViewSummaryListsIssuesAndEndsChange() {
	sub := testfixtures.ImportSubmission()
	sub.Applications[0].ImporterExporterDetails = nil
	s.seed(sub)
	_, err := s.svc.StartChange(s.ctx, s.sc, "comments", models.Ptr(0), summaryURL)
	s.Require().NoError(err)

	view, err := s.svc.ViewPage(s.ctx, s.sc, "/application-summary/view/0")
	s.Require().NoError(err)

	s.NotEmpty(view.Progress)
	s.Require().Len(view.Issues, 1)
	s.Equal("/importer-exporter/0", view.Issues[0].URL)
	s.Nil(view.ChangeRoute)
}

func (s *ServiceSuite) TestViewPageBackLink() {
	s.seed(testfixtures.ImportSubmission())

	view, err := s.svc.ViewPage(s.ctx, s.sc, "/comments/0")
	s.Require().NoError(err)
	s.Equal("/importer-exporter/0", view.BackLink)
	s.Equal("Museum loan", view.Data["applications.0.comments"])
	s.Empty(view.Issues)
}

func (s *ServiceSuite) TestViewPageInvalid() {
	s.seed(models.NewSubmission(s.sc))

	_, err := s.svc.ViewPage(s.ctx, s.sc, "quantity/0")
	s.True(dErrors.HasCode(err, dErrors.CodeInvalidSubmission))
}

func (s *ServiceSuite) TestDraftRoundTrip() {
	s.seed(testfixtures.ImportSubmission())
	s.Require().NoError(s.svc.SaveDraftSubmission(s.ctx, s.sc, "/comments/0"))

	exists, err := s.svc.CheckDraftSubmissionExists(s.ctx, s.sc)
	s.Require().NoError(err)
	s.True(exists)

	s.Require().NoError(s.sessions.Reset(s.ctx, s.sc.SessionID))
	resume, err := s.svc.LoadDraftSubmission(s.ctx, s.sc)
	s.Require().NoError(err)
	s.Equal("/comments/0", resume)
	s.Equal("Museum loan", *s.current().Applications[0].Comments)

	s.Require().NoError(s.svc.DeleteDraftSubmission(s.ctx, s.sc))
	exists, err = s.svc.CheckDraftSubmissionExists(s.ctx, s.sc)
	s.Require().NoError(err)
	s.False(exists)

	_, err = s.svc.LoadDraftSubmission(s.ctx, s.sc)
	s.True(dErrors.HasCode(err, dErrors.CodeNotFound))
}

func (s *ServiceSuite) TestLoadDraftFallsBackToFurthestReachable() {
	s.Require().NoError(s.drafts.Save(s.ctx, s.sc.UserKey(), models.Draft{
		Submission:   &models.Submission{PermitType: models.Ptr(models.PermitTypeImport)},
		SavePointURL: "/quantity/0",
	}))

	resume, err := s.svc.LoadDraftSubmission(s.ctx, s.sc)
	s.Require().NoError(err)
	s.Equal("/applying-on-behalf", resume)
}

func (s *ServiceSuite) TestSubmittedSubmissionIsNotDrafted() {
	sub := testfixtures.ImportSubmission()
	sub.SubmissionRef = "CITES-1"
	s.seed(sub)

	s.Require().NoError(s.svc.SaveDraftSubmission(s.ctx, s.sc, "/comments/0"))
	exists, err := s.drafts.Exists(s.ctx, s.sc.UserKey())
	s.Require().NoError(err)
	s.False(exists)
}

func (s *ServiceSuite) TestSubmitPageRejectsFieldsOfOtherPages() {
	cases := map[string]struct {
		page  string
		patch models.Document
		field string
	}{
		"submission reference and payment on permit type": {
			page: "permit-type",
			patch: models.Document{
				"permitType":     "import",
				"submissionRef":  "FORGED-REF",
				"paymentDetails": map[string]any{"paymentStatus": "success"},
			},
			field: "paymentDetails",
		},
		"another page's answer on an application page": {
			page: "comments/0",
			patch: models.Document{
				"comments": "Updated",
				"species":  map[string]any{"sourceCode": "C"},
			},
			field: "species",
		},
		"second application from the first": {
			page:  "comments/0",
			patch: models.Document{"applications": []any{map[string]any{"comments": "x"}}},
			field: "applications",
		},
	}
	for name, tc := range cases {
		s.Run(name, func() {
			s.seed(testfixtures.ImportSubmission())
			before := s.current()

			_, err := s.svc.SubmitPage(s.ctx, s.sc, tc.page, tc.patch, false)
			s.True(dErrors.HasCode(err, dErrors.CodeBadRequest))
			s.Equal(tc.field, dErrors.FieldOf(err))
			s.Equal(before, s.current())
		})
	}
}

func (s *ServiceSuite) TestForgedReferenceCannotSkipTheCRM() {
	s.seed(testfixtures.ImportSubmission())

	_, err := s.svc.SubmitPage(s.ctx, s.sc, "permit-type", models.Document{
		"permitType":    "import",
		"submissionRef": "FORGED-REF",
	}, false)
	s.Require().Error(err)
	s.Empty(s.current().SubmissionRef)

	s.crm.EXPECT().PostSubmission(gomock.Any(), gomock.Any()).
		Return(crm.PostResult{SubmissionID: "crm-1", SubmissionRef: "CITES-1"}, nil).Times(1)
	_, err = s.svc.SubmitPage(s.ctx, s.sc, "declaration", nil, false)
	s.Require().NoError(err)
	s.Equal("CITES-1", s.current().SubmissionRef)
}

func (s *ServiceSuite) TestPermitTypeChangeWalksEveryApplication() {
	sub := testfixtures.ImportSubmission()
	sub.Applications = append(sub.Applications, testfixtures.ImportApplication(1))
	s.seed(sub)

	next, err := s.svc.StartChange(s.ctx, s.sc, "permitType", nil, "/your-submission")
	s.Require().NoError(err)
	s.Equal(ConfirmChangeURL, next)
	next, err = s.svc.ConfirmChange(s.ctx, s.sc, true)
	s.Require().NoError(err)
	s.Equal("/permit-type", next)

	_, err = s.svc.SubmitPage(s.ctx, s.sc, "permit-type", models.Document{"permitType": "export"}, false)
	s.Require().NoError(err)
	for _, app := range s.current().Applications {
		s.Nil(app.SpeciesOf().PurposeCode)
		s.Nil(app.ImporterExporterDetails)
	}

	answer := func(index int) {
		page := func(id string) string { return fmt.Sprintf("%s/%d", id, index) }
		_, err := s.svc.SubmitPage(s.ctx, s.sc, page("purpose-code"), models.Document{
			"species": map[string]any{"purposeCode": "T"},
		}, false)
		s.Require().NoError(err)
		_, err = s.svc.SubmitPage(s.ctx, s.sc, page("importer-exporter"), models.Document{
			"importerExporterDetails": map[string]any{
				"country":      "US",
				"countryDesc":  "United States",
				"name":         "Zoo Supplies Inc",
				"addressLine1": "100 Main St",
			},
		}, false)
		s.Require().NoError(err)
		_, err = s.svc.ViewPage(s.ctx, s.sc, page("application-summary/check"))
		s.Require().NoError(err)
	}

	answer(0)
	next, err = s.svc.SubmitPage(s.ctx, s.sc, "application-summary/check/0", nil, false)
	s.Require().NoError(err)
	s.Equal("/purpose-code/1", next, "the second application still has cleared answers")

	answer(1)
	next, err = s.svc.SubmitPage(s.ctx, s.sc, "application-summary/check/1", nil, false)
	s.Require().NoError(err)
	s.Equal("/your-submission", next)
}
