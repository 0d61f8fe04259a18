package main

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"

	"cites/internal/audit"
	"cites/internal/crm"
	"cites/internal/documents"
	draftstore "cites/internal/draft/store"
	jwttoken "cites/internal/jwt_token"
	"cites/internal/lookup"
	"cites/internal/lookup/address"
	"cites/internal/lookup/species"
	"cites/internal/payment"
	"cites/internal/platform/config"
	"cites/internal/platform/metrics"
	"cites/internal/platform/middleware"
	"cites/internal/platform/postgres"
	platformredis "cites/internal/platform/redis"
	"cites/internal/platform/s3client"
	"cites/internal/session"
	"cites/internal/submission/handler"
	submetrics "cites/internal/submission/metrics"
	"cites/internal/submission/service"
	"cites/pkg/platform/circuit"
	"cites/pkg/platform/httputil"
)

const (
	auditQueueSize  = 256
	tokenIssuer     = "cites-identity"
	tokenAudience   = "cites"
	lookupTimeout   = 5 * time.Second
	breakerCooldown = 30 * time.Second
)

type app struct {
	router      http.Handler
	auditWorker *audit.Worker
	closers     []func()
	readiness   []func(context.Context) error
}

func (a *app) close() {
	for i := len(a.closers) - 1; i >= 0; i-- {
		a.closers[i]()
	}
}

func buildApp(ctx context.Context, cfg config.Server, log *slog.Logger) (*app, error) {
	a := &app{}
	m := metrics.New()
	subMetrics := submetrics.New(m.Registry)

	sessions, err := buildSessionStore(ctx, cfg, a)
	if err != nil {
		return nil, err
	}
	opts := []service.Option{
		service.WithLogger(log),
		service.WithMetrics(subMetrics),
	}

	drafts, err := buildDraftStore(ctx, cfg, a)
	if err != nil {
		return nil, err
	}
	opts = append(opts, service.WithDraftStore(drafts))

	docs, err := buildDocumentStore(ctx, cfg)
	if err != nil {
		return nil, err
	}
	opts = append(opts, service.WithDocuments(docs))

	if cfg.CRM.BaseURL != "" {
		client, err := crm.NewClient(ctx, crm.Config{
			BaseURL:      cfg.CRM.BaseURL,
			TokenURL:     cfg.CRM.TokenURL,
			ClientID:     cfg.CRM.ClientID,
			ClientSecret: cfg.CRM.ClientSecret,
			Scopes:       cfg.CRM.Scopes,
			Timeout:      cfg.CRM.Timeout,
			Logger:       log,
			Observe:      subMetrics.ObserveCRM,
		})
		if err != nil {
			return nil, err
		}
		opts = append(opts, service.WithCRM(client))
	} else {
		log.WarnContext(ctx, "CRM_BASE_URL not set, submissions cannot be posted")
	}

	httpClient := &http.Client{Timeout: lookupTimeout}
	if cfg.SpeciesBaseURL != "" {
		getter := lookup.NewGetter(httpClient, circuit.New("species-lookup", circuit.WithCooldown(breakerCooldown)), "", log)
		opts = append(opts, service.WithSpeciesLookup(species.NewClient(cfg.SpeciesBaseURL, getter)))
	}
	if cfg.AddressBaseURL != "" {
		getter := lookup.NewGetter(httpClient, circuit.New("address-lookup", circuit.WithCooldown(breakerCooldown)), cfg.AddressAPIKey, log)
		opts = append(opts, service.WithAddressLookup(address.NewClient(cfg.AddressBaseURL, getter)))
	}
	if cfg.PaymentBaseURL != "" {
		opts = append(opts, service.WithPayments(payment.NewClient(payment.Config{
			BaseURL: cfg.PaymentBaseURL,
			APIKey:  cfg.PaymentAPIKey,
			Logger:  log,
		})))
	}

	if len(cfg.KafkaBrokers) > 0 {
		sink, err := audit.NewKafkaSink(cfg.KafkaBrokers, cfg.KafkaTopic)
		if err != nil {
			return nil, err
		}
		a.closers = append(a.closers, sink.Close)
		if err := sink.EnsureTopic(ctx, 3, 1); err != nil {
			log.WarnContext(ctx, "could not ensure audit topic", "topic", cfg.KafkaTopic, "error", err)
		}
		queue := make(chan audit.Event, auditQueueSize)
		a.auditWorker = audit.NewWorker(sink, queue, log)
		opts = append(opts, service.WithAudit(audit.NewPublisher(audit.NewChannelSink(queue, log), log)))
	}

	svc, err := service.New(sessions, opts...)
	if err != nil {
		return nil, fmt.Errorf("build submission service: %w", err)
	}

	jwtService := jwttoken.NewJWTService(cfg.TokenSigningKey, tokenIssuer, tokenAudience)
	validator := jwttoken.NewJWTServiceAdapter(jwtService)

	r := chi.NewRouter()
	r.Use(middleware.RequestID, middleware.RequestTime, middleware.Logger(log, m), middleware.Recover(log, m))
	r.Get("/healthz", func(w http.ResponseWriter, _ *http.Request) {
		httputil.WriteJSON(w, http.StatusOK, map[string]string{"status": "ok"})
	})
	r.Get("/readyz", a.handleReady(log))
	r.Handle("/metrics", m.Handler())
	r.Group(func(r chi.Router) {
		r.Use(middleware.RequireAuth(validator, log), middleware.Session(cfg.SessionCookie, cfg.SecureCookies))
		handler.New(svc, log).WithPaymentReturnURL(cfg.PaymentReturnURL).Register(r)
	})
	a.router = r
	return a, nil
}

// handleReady reports 503 while a backing store is unreachable.
func (a *app) handleReady(log *slog.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx, cancel := context.WithTimeout(r.Context(), 2*time.Second)
		defer cancel()
		for _, check := range a.readiness {
			if err := check(ctx); err != nil {
				log.WarnContext(ctx, "readiness check failed", "error", err)
				httputil.WriteJSON(w, http.StatusServiceUnavailable, map[string]string{"status": "unavailable"})
				return
			}
		}
		httputil.WriteJSON(w, http.StatusOK, map[string]string{"status": "ready"})
	}
}

func buildSessionStore(ctx context.Context, cfg config.Server, a *app) (service.SessionStore, error) {
	if cfg.SessionBackend != config.BackendRedis {
		return session.NewInMemory(cfg.SessionTTL), nil
	}
	client, err := platformredis.New(ctx, cfg.Redis)
	if err != nil {
		return nil, err
	}
	a.closers = append(a.closers, func() { _ = client.Close() })
	a.readiness = append(a.readiness, client.Health)
	return session.NewRedis(client.Client, cfg.SessionTTL), nil
}

func buildDraftStore(ctx context.Context, cfg config.Server, a *app) (service.DraftStore, error) {
	switch cfg.DraftBackend {
	case config.BackendPostgres:
		db, err := postgres.Open(ctx, cfg.PostgresDSN)
		if err != nil {
			return nil, err
		}
		a.closers = append(a.closers, func() { _ = db.Close() })
		a.readiness = append(a.readiness, db.PingContext)
		store := draftstore.NewPostgres(db)
		if err := store.EnsureSchema(ctx); err != nil {
			return nil, err
		}
		return store, nil
	case config.BackendS3:
		client, err := s3client.New(ctx, cfg.S3)
		if err != nil {
			return nil, err
		}
		return draftstore.NewS3(client, cfg.DraftBucket, cfg.DraftPrefix), nil
	default:
		return draftstore.NewInMemory(), nil
	}
}

func buildDocumentStore(ctx context.Context, cfg config.Server) (documents.Store, error) {
	if cfg.DocumentsBucket == "" {
		return documents.NewInMemory(), nil
	}
	client, err := s3client.New(ctx, cfg.S3)
	if err != nil {
		return nil, err
	}
	return documents.NewS3(client, cfg.DocumentsBucket), nil
}
