// Package service is the submission store adapter and the orchestration the
// route handlers call: it owns every read and write of the session
// submission, the draft store and the CRM.
package service

//go:generate mockgen -source=service.go -destination=mocks/mocks.go -package=mocks

import (
	"context"
	"log/slog"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"

	"cites/internal/audit"
	"cites/internal/crm"
	"cites/internal/documents"
	"cites/internal/lookup/species"
	"cites/internal/payment"
	"cites/internal/submission/changeroute"
	"cites/internal/submission/metrics"
	"cites/internal/submission/models"
)

// SessionStore keeps JSON values per browser session.
type SessionStore interface {
	Get(ctx context.Context, sessionID, key string, dest any) (bool, error)
	Set(ctx context.Context, sessionID, key string, value any) error
	Delete(ctx context.Context, sessionID, key string) error
	Reset(ctx context.Context, sessionID string) error
}

// DraftStore keeps one resumable draft per user. Load returns
// sentinel.ErrNotFound when there is none.
type DraftStore interface {
	Save(ctx context.Context, userKey string, draft models.Draft) error
	Load(ctx context.Context, userKey string) (*models.Draft, error)
	Exists(ctx context.Context, userKey string) (bool, error)
	Delete(ctx context.Context, userKey string) error
}

type CRM interface {
	PostSubmission(ctx context.Context, submission *models.Submission) (crm.PostResult, error)
	GetSubmission(ctx context.Context, contactID, organisationID, submissionRef string) (*models.Submission, error)
}

type SpeciesLookup interface {
	Lookup(ctx context.Context, name string) (*species.Species, error)
}

type AddressLookup interface {
	Search(ctx context.Context, postcode, property string) ([]models.Address, error)
}

type PaymentProvider interface {
	CreatePayment(ctx context.Context, req payment.Request) (payment.Payment, error)
	WaitForCompletion(ctx context.Context, paymentID string) (payment.Payment, error)
}

type AuditPublisher interface {
	Emit(ctx context.Context, event audit.Event)
}

// Service implements the submission operations. Collaborators other than the
// session store are optional; operations that need a missing one fail with
// an internal error.
type Service struct {
	sessions  SessionStore
	drafts    DraftStore
	crm       CRM
	species   SpeciesLookup
	addresses AddressLookup
	payments  PaymentProvider
	documents documents.Store
	routes    *changeroute.Controller
	audit     AuditPublisher
	metrics   *metrics.Metrics
	logger    *slog.Logger
	tracer    trace.Tracer
	now       func() time.Time
}

type Option func(*Service)

func WithDraftStore(drafts DraftStore) Option {
	return func(s *Service) { s.drafts = drafts }
}

func WithCRM(c CRM) Option {
	return func(s *Service) { s.crm = c }
}

func WithSpeciesLookup(l SpeciesLookup) Option {
	return func(s *Service) { s.species = l }
}

func WithAddressLookup(l AddressLookup) Option {
	return func(s *Service) { s.addresses = l }
}

func WithPayments(p PaymentProvider) Option {
	return func(s *Service) { s.payments = p }
}

func WithDocuments(d documents.Store) Option {
	return func(s *Service) { s.documents = d }
}

func WithAudit(a AuditPublisher) Option {
	return func(s *Service) { s.audit = a }
}

func WithMetrics(m *metrics.Metrics) Option {
	return func(s *Service) { s.metrics = m }
}

func WithLogger(l *slog.Logger) Option {
	return func(s *Service) { s.logger = l }
}

// WithClock overrides time.Now for draft timestamps.
func WithClock(now func() time.Time) Option {
	return func(s *Service) { s.now = now }
}

func New(sessions SessionStore, opts ...Option) (*Service, error) {
	s := &Service{
		sessions: sessions,
		logger:   slog.Default(),
		tracer:   otel.Tracer("cites/internal/submission/service"),
		now:      time.Now,
	}
	for _, opt := range opts {
		opt(s)
	}
	routes, err := changeroute.New(routeStore{sessions: sessions})
	if err != nil {
		return nil, err
	}
	s.routes = routes
	return s, nil
}

func (s *Service) emit(ctx context.Context, sc models.SubmissionContext, event audit.Event) {
	if s.audit == nil {
		return
	}
	event.UserKey = sc.UserKey()
	if event.SessionID == "" {
		event.SessionID = sc.SessionID
	}
	s.audit.Emit(ctx, event)
}

func (s *Service) startSpan(ctx context.Context, name string) (context.Context, trace.Span) {
	return s.tracer.Start(ctx, "submission."+name)
}

func endSpan(span trace.Span, err error) {
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
	}
	span.End()
}
