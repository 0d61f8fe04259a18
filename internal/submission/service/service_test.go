package service

import (
	"context"
	"io"
	"log/slog"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/stretchr/testify/suite"
	"go.uber.org/mock/gomock"

	"cites/internal/audit"
	"cites/internal/documents"
	draftstore "cites/internal/draft/store"
	"cites/internal/lookup/species"
	"cites/internal/session"
	"cites/internal/submission/metrics"
	"cites/internal/submission/models"
	"cites/internal/submission/service/mocks"
	"cites/internal/submission/testfixtures"
	dErrors "cites/pkg/domain-errors"
)

type ServiceSuite struct {
	suite.Suite
	ctx       context.Context
	sc        models.SubmissionContext
	now       time.Time
	sessions  *session.InMemoryStore
	drafts    *draftstore.InMemoryStore
	docs      *documents.InMemoryStore
	sink      *audit.MemorySink
	metrics   *metrics.Metrics
	crm       *mocks.MockCRM
	species   *mocks.MockSpeciesLookup
	addresses *mocks.MockAddressLookup
	payments  *mocks.MockPaymentProvider
	svc       *Service
}

func TestServiceSuite(t *testing.T) {
	suite.Run(t, new(ServiceSuite))
}

func (s *ServiceSuite) SetupTest() {
	ctrl := gomock.NewController(s.T())
	s.T().Cleanup(ctrl.Finish)

	s.ctx = context.Background()
	s.sc = models.SubmissionContext{SessionID: "sess-1", ContactID: "contact-1", OrganisationID: "org-1"}
	s.now = time.Date(2026, 3, 2, 9, 30, 0, 0, time.UTC)
	s.sessions = session.NewInMemory(0)
	s.drafts = draftstore.NewInMemory()
	s.docs = documents.NewInMemory()
	s.sink = audit.NewMemorySink()
	s.metrics = metrics.New(prometheus.NewRegistry())
	s.crm = mocks.NewMockCRM(ctrl)
	s.species = mocks.NewMockSpeciesLookup(ctrl)
	s.addresses = mocks.NewMockAddressLookup(ctrl)
	s.payments = mocks.NewMockPaymentProvider(ctrl)

	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	svc, err := New(s.sessions,
		WithDraftStore(s.drafts),
		WithCRM(s.crm),
		WithSpeciesLookup(s.species),
		WithAddressLookup(s.addresses),
		WithPayments(s.payments),
		WithDocuments(s.docs),
		WithAudit(audit.NewPublisher(s.sink, logger)),
		WithMetrics(s.metrics),
		WithLogger(logger),
		WithClock(func() time.Time { return s.now }),
	)
	s.Require().NoError(err)
	s.svc = svc
}

func (s *ServiceSuite) seed(sub *models.Submission) {
	s.Require().NoError(s.sessions.Set(s.ctx, s.sc.SessionID, session.KeySubmission, sub))
}

func (s *ServiceSuite) current() *models.Submission {
	sub, err := s.svc.GetSubmission(s.ctx, s.sc)
	s.Require().NoError(err)
	return sub
}

func (s *ServiceSuite) TestCreateSubmission() {
	sub, err := s.svc.CreateSubmission(s.ctx, s.sc)
	s.Require().NoError(err)

	s.Equal("contact-1", sub.ContactID)
	s.Equal("org-1", sub.OrganisationID)
	s.Nil(sub.IsAgent)
	s.NotNil(sub.Applications)
	s.Empty(sub.Applications)
	s.Equal(sub, s.current())
	s.Equal([]audit.Action{audit.ActionSubmissionCreated}, s.sink.Actions())
}

func (s *ServiceSuite) TestCreateSubmissionDropsChangeRoute() {
	s.seed(testfixtures.ImportSubmission())
	_, err := s.svc.StartChange(s.ctx, s.sc, "comments", models.Ptr(0), "/application-summary/check/0")
	s.Require().NoError(err)

	_, err = s.svc.CreateSubmission(s.ctx, s.sc)
	s.Require().NoError(err)

	state, err := s.svc.ChangeRoute(s.ctx, s.sc)
	s.Require().NoError(err)
	s.Nil(state)
}

func (s *ServiceSuite) TestGetSubmissionWithoutSessionIsInvalid() {
	_, err := s.svc.GetSubmission(s.ctx, s.sc)
	s.True(dErrors.HasCode(err, dErrors.CodeInvalidSubmission))
}

func (s *ServiceSuite) TestSetSubmissionRejectsUnreachablePage() {
	sub := models.NewSubmission(s.sc)
	err := s.svc.SetSubmission(s.ctx, s.sc, sub, "quantity/0")
	s.True(dErrors.HasCode(err, dErrors.CodeInvalidSubmission))

	_, err = s.svc.GetSubmission(s.ctx, s.sc)
	s.True(dErrors.HasCode(err, dErrors.CodeInvalidSubmission), "nothing stored")
}

func (s *ServiceSuite) TestCloneSubmission() {
	sub := testfixtures.ImportSubmission()
	second := testfixtures.ImportApplication(1)
	second.Species.SpeciesName = models.Ptr("Crocodylus niloticus")
	sub.Applications = append(sub.Applications, second)
	sub.SubmissionRef = "CITES-0001"
	sub.SubmissionID = "crm-1"
	sub.PaymentDetails = &models.PaymentDetails{CostingValue: 25}
	sub.SupportingDocuments = []models.SupportingDocument{{FileName: "a.pdf", BlobStorageKey: "k"}}
	s.seed(sub)

	clone, err := s.svc.CloneSubmission(s.ctx, s.sc, 1)
	s.Require().NoError(err)

	s.Require().Len(clone.Applications, 1)
	s.Equal(0, clone.Applications[0].ApplicationIndex)
	s.Equal("Crocodylus niloticus", *clone.Applications[0].Species.SpeciesName)
	s.Empty(clone.SubmissionRef)
	s.Empty(clone.SubmissionID)
	s.Nil(clone.PaymentDetails)
	s.Empty(clone.SupportingDocuments)
	s.Equal(sub.Applicant, clone.Applicant)
	s.Equal(clone, s.current())
}

func (s *ServiceSuite) TestCloneSubmissionOutOfRange() {
	s.seed(testfixtures.ImportSubmission())
	_, err := s.svc.CloneSubmission(s.ctx, s.sc, 3)
	s.True(dErrors.HasCode(err, dErrors.CodeInvalidSubmission))
}

func (s *ServiceSuite) TestAddAndDeleteApplicationReindex() {
	sub := testfixtures.ImportSubmission()
	sub.Applications = append(sub.Applications, testfixtures.ImportApplication(1))
	s.seed(sub)

	index, err := s.svc.AddApplication(s.ctx, s.sc)
	s.Require().NoError(err)
	s.Equal(2, index)

	s.Require().NoError(s.svc.DeleteApplication(s.ctx, s.sc, 0))
	apps := s.current().Applications
	s.Require().Len(apps, 2)
	for i, app := range apps {
		s.Equal(i, app.ApplicationIndex)
	}
	s.Nil(apps[1].Species, "the added application moved down to index 1")

	err = s.svc.DeleteApplication(s.ctx, s.sc, 5)
	s.True(dErrors.HasCode(err, dErrors.CodeInvalidSubmission))
}

func (s *ServiceSuite) TestMergeSubmissionRecordsMetrics() {
	s.seed(models.NewSubmission(s.sc))

	res, err := s.svc.MergeSubmission(s.ctx, s.sc, models.Document{"permitType": "import"}, "permit-type")
	s.Require().NoError(err)
	s.Equal(models.PermitTypeImport, *res.Submission.PermitType)
	s.Empty(res.DataRemoved)
	s.Equal(1.0, testutil.ToFloat64(s.metrics.PageMerges.WithLabelValues("permit-type")))
}

func (s *ServiceSuite) TestMergeApplicationInvalidatesDependentAnswers() {
	s.seed(testfixtures.Article10Submission())

	res, err := s.svc.MergeApplication(s.ctx, s.sc, 0, models.Document{
		"species": map[string]any{"kingdom": "Plantae"},
	}, "species-name/0")
	s.Require().NoError(err)

	sp := res.Submission.Applications[0].SpeciesOf()
	s.Nil(sp.Sex)
	s.Nil(sp.DateOfBirth)
	s.Nil(sp.SpecimenType)
	s.Contains(res.DataRemoved, "applications.0.species.sex")
	s.Equal(1.0, testutil.ToFloat64(s.metrics.DataRemoved.WithLabelValues("species-name")))
	s.Contains(s.sink.Actions(), audit.ActionDataRemoved)
}

func (s *ServiceSuite) TestSubmitPageAddsFirstApplication() {
	sub := testfixtures.ImportSubmission()
	sub.Applications = []models.Application{}
	sub.Delivery.DeliveryType = nil
	s.seed(sub)

	next, err := s.svc.SubmitPage(s.ctx, s.sc, "delivery-type", models.Document{
		"delivery": map[string]any{"deliveryType": "specialDelivery"},
	}, false)
	s.Require().NoError(err)

	s.Equal("/species-name/0", next)
	s.Len(s.current().Applications, 1)

	draft, err := s.drafts.Load(s.ctx, s.sc.UserKey())
	s.Require().NoError(err)
	s.Equal("/species-name/0", draft.SavePointURL)
	s.Equal(s.now, draft.SavedAt)
	s.Equal(1.0, testutil.ToFloat64(s.metrics.DraftsSaved))
}

func (s *ServiceSuite) TestSubmitPageUnreachableIsInvalid() {
	s.seed(models.NewSubmission(s.sc))

	_, err := s.svc.SubmitPage(s.ctx, s.sc, "delivery-type", models.Document{
		"delivery": map[string]any{"deliveryType": "specialDelivery"},
	}, false)
	s.True(dErrors.HasCode(err, dErrors.CodeInvalidSubmission))
	s.Equal(1.0, testutil.ToFloat64(s.metrics.InvalidSubmissions.WithLabelValues("delivery-type")))

	_, err = s.svc.SubmitPage(s.ctx, s.sc, "not-a-page", nil, false)
	s.True(dErrors.HasCode(err, dErrors.CodeInvalidSubmission))
}

func (s *ServiceSuite) TestSubmitPageSpeciesLookup() {
	sub := testfixtures.ImportSubmission()
	sub.Applications = []models.Application{{}}
	s.seed(sub)

	s.Run("unlisted species is a field error", func() {
		s.species.EXPECT().Lookup(gomock.Any(), "Unicornus").Return(nil, nil)

		_, err := s.svc.SubmitPage(s.ctx, s.sc, "species-name/0", models.Document{
			"species": map[string]any{"speciesName": "Unicornus"},
		}, false)
		s.True(dErrors.HasCode(err, dErrors.CodeValidation))
		s.Equal("species.speciesName", dErrors.FieldOf(err))
	})

	s.Run("listed species stores canonical name and kingdom", func() {
		s.species.EXPECT().Lookup(gomock.Any(), "panthera leo").
			Return(&species.Species{ScientificName: "Panthera leo", Kingdom: models.KingdomAnimalia}, nil)

		next, err := s.svc.SubmitPage(s.ctx, s.sc, "species-name/0", models.Document{
			"species": map[string]any{"speciesName": "panthera leo"},
		}, false)
		s.Require().NoError(err)
		s.Equal("/source-code/0", next)

		sp := s.current().Applications[0].SpeciesOf()
		s.Equal("Panthera leo", *sp.SpeciesName)
		s.Equal(models.KingdomAnimalia, *sp.Kingdom)
	})
}

func (s *ServiceSuite) TestSubmitPagePostcodeSearch() {
	s.seed(&models.Submission{
		PermitType:   models.Ptr(models.PermitTypeImport),
		IsAgent:      models.Ptr(false),
		Applicant:    &models.Contact{FullName: models.Ptr("Ada Byron")},
		Applications: []models.Application{},
	})
	found := []models.Address{{AddressLine1: "10 Downing Street", Postcode: "SW1A 2AA"}}
	s.addresses.EXPECT().Search(gomock.Any(), "SW1A 2AA", "10").Return(found, nil)

	next, err := s.svc.SubmitPage(s.ctx, s.sc, "postcode/applicant", models.Document{
		"applicant": map[string]any{
			"candidateAddressData": map[string]any{
				"addressSearchData": map[string]any{"postcode": "SW1A 2AA", "property": "10"},
			},
		},
	}, false)
	s.Require().NoError(err)
	s.Equal("/select-address/applicant", next)

	search := s.current().Applicant.CandidateAddressData.AddressSearchData
	s.Equal("SW1A 2AA", search.Postcode)
	s.Equal(found, search.Results)
}

func (s *ServiceSuite) TestUniqueIdentificationMarks() {
	sub := testfixtures.Article10Submission()
	other := testfixtures.Article10Application(1)
	other.Species.UniqueIdentificationMarks = []models.UniqueIdentificationMark{
		{UniqueIdentificationMarkType: "microchip", UniqueIdentificationMark: "MC-0002"},
	}
	sub.Applications = append(sub.Applications, other)
	s.seed(sub)

	s.Run("mark used by another application", func() {
		_, err := s.svc.SetUniqueIdentificationMarks(s.ctx, s.sc, 1, []models.UniqueIdentificationMark{
			{UniqueIdentificationMarkType: "microchip", UniqueIdentificationMark: " mc-0001 "},
		})
		s.True(dErrors.HasCode(err, dErrors.CodeDuplicateIdentifier))
		s.Equal("uniqueIdentificationMark-0", dErrors.FieldOf(err))
	})

	s.Run("mark repeated in the list", func() {
		_, err := s.svc.SetUniqueIdentificationMarks(s.ctx, s.sc, 1, []models.UniqueIdentificationMark{
			{UniqueIdentificationMarkType: "ring", UniqueIdentificationMark: "R-1"},
			{UniqueIdentificationMarkType: "ring", UniqueIdentificationMark: "r-1"},
		})
		s.True(dErrors.HasCode(err, dErrors.CodeDuplicateIdentifier))
		s.Equal("uniqueIdentificationMark-1", dErrors.FieldOf(err))
	})

	s.Run("living animals take quantity from the marks", func() {
		res, err := s.svc.SetUniqueIdentificationMarks(s.ctx, s.sc, 1, []models.UniqueIdentificationMark{
			{UniqueIdentificationMarkType: "microchip", UniqueIdentificationMark: "MC-0002"},
			{UniqueIdentificationMarkType: "microchip", UniqueIdentificationMark: "MC-0003"},
		})
		s.Require().NoError(err)
		sp := res.Submission.Applications[1].SpeciesOf()
		s.Len(sp.UniqueIdentificationMarks, 2)
		s.Equal(1, sp.UniqueIdentificationMarks[1].Index)
		s.Equal(2.0, *sp.Quantity)
	})

	s.Run("unmarked specimens never clash", func() {
		_, err := s.svc.SetUniqueIdentificationMarks(s.ctx, s.sc, 0, []models.UniqueIdentificationMark{
			{UniqueIdentificationMarkType: models.UnmarkedSpecimen},
		})
		s.NoError(err)
		_, err = s.svc.SetUniqueIdentificationMarks(s.ctx, s.sc, 1, []models.UniqueIdentificationMark{
			{UniqueIdentificationMarkType: models.UnmarkedSpecimen},
		})
		s.NoError(err)
	})
}

func (s *ServiceSuite) TestGenerateExportApplications() {
	sub := testfixtures.Article10Submission()
	noExport := testfixtures.Article10Application(1)
	noExport.A10ExportData = &models.A10ExportData{IsExportPermitRequired: models.Ptr(false)}
	sub.Applications = append(sub.Applications, noExport)
	s.seed(sub)

	for range 2 {
		got, err := s.svc.GenerateExportApplications(s.ctx, s.sc)
		s.Require().NoError(err)
		s.Require().Len(got.Applications, 3)
	}

	apps := s.current().Applications
	s.Require().Len(apps, 3)
	export := apps[1]
	s.Equal(1, export.ApplicationIndex)
	s.True(export.IsGeneratedExport)
	s.Equal(models.PermitTypeExport, *export.PermitType)
	s.Equal("Parc des Oiseaux", export.ImporterExporterDetails.Name)
	s.Nil(export.A10ExportData)
	s.Nil(export.SpeciesOf().AcquiredDate)
	s.Equal(*apps[0].Species.SpeciesName, *export.Species.SpeciesName)
	s.False(apps[2].IsGeneratedExport)
	s.Equal(2, apps[2].ApplicationIndex)
}

func (s *ServiceSuite) TestGenerateExportApplicationsIgnoresOtherPermitTypes() {
	s.seed(testfixtures.ImportSubmission())
	got, err := s.svc.GenerateExportApplications(s.ctx, s.sc)
	s.Require().NoError(err)
	s.Len(got.Applications, 1)
}

func TestMarkKey(t *testing.T) {
	tests := []struct {
		name string
		mark models.UniqueIdentificationMark
		want string
	}{
		{"normalises case and space", models.UniqueIdentificationMark{UniqueIdentificationMarkType: "ring", UniqueIdentificationMark: " ab1 "}, "ring:AB1"},
		{"unmarked", models.UniqueIdentificationMark{UniqueIdentificationMarkType: models.UnmarkedSpecimen, UniqueIdentificationMark: "x"}, ""},
		{"blank mark", models.UniqueIdentificationMark{UniqueIdentificationMarkType: "ring"}, ""},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, markKey(tt.mark))
		})
	}
}

func TestNewWithoutOptionalCollaborators(t *testing.T) {
	svc, err := New(session.NewInMemory(0))
	require.NoError(t, err)
	sc := models.SubmissionContext{SessionID: "s", ContactID: "c"}

	_, err = svc.CreateSubmission(context.Background(), sc)
	require.NoError(t, err)
	require.NoError(t, svc.SaveDraftSubmission(context.Background(), sc, "/permit-type"))

	exists, err := svc.CheckDraftSubmissionExists(context.Background(), sc)
	require.NoError(t, err)
	assert.False(t, exists)

	_, err = svc.PostSubmission(context.Background(), sc)
	assert.True(t, dErrors.HasCode(err, dErrors.CodeInternal))
}
