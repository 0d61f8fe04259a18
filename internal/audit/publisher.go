package audit

import (
	"context"
	"log/slog"

	"cites/pkg/requestcontext"
)

// Sink receives audit events.
type Sink interface {
	Write(ctx context.Context, event Event) error
}

// Publisher stamps events and hands them to a sink. Audit is best effort: a
// failing sink is logged and never fails the user's request.
type Publisher struct {
	sink   Sink
	logger *slog.Logger
}

func NewPublisher(sink Sink, logger *slog.Logger) *Publisher {
	if logger == nil {
		logger = slog.Default()
	}
	return &Publisher{sink: sink, logger: logger}
}

func (p *Publisher) Emit(ctx context.Context, event Event) {
	if event.Timestamp.IsZero() {
		event.Timestamp = requestcontext.Now(ctx)
	}
	if event.RequestID == "" {
		event.RequestID = requestcontext.RequestID(ctx)
	}
	if event.SessionID == "" {
		event.SessionID = requestcontext.SessionID(ctx)
	}
	if err := p.sink.Write(ctx, event); err != nil {
		p.logger.WarnContext(ctx, "failed to publish audit event",
			"action", event.Action,
			"error", err,
			"request_id", event.RequestID,
		)
	}
}
