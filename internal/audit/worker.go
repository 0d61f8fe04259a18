package audit

import (
	"context"
	"log/slog"
)

// ChannelSink queues events for a Worker. When the queue is full the event is
// dropped rather than blocking the request.
type ChannelSink struct {
	queue  chan<- Event
	logger *slog.Logger
}

func NewChannelSink(queue chan<- Event, logger *slog.Logger) *ChannelSink {
	if logger == nil {
		logger = slog.Default()
	}
	return &ChannelSink{queue: queue, logger: logger}
}

func (s *ChannelSink) Write(ctx context.Context, event Event) error {
	select {
	case s.queue <- event:
	default:
		s.logger.WarnContext(ctx, "audit queue full, dropping event", "action", event.Action)
	}
	return nil
}

// Worker drains queued events into a sink until ctx ends or the queue closes.
type Worker struct {
	sink   Sink
	inbox  <-chan Event
	logger *slog.Logger
}

func NewWorker(sink Sink, inbox <-chan Event, logger *slog.Logger) *Worker {
	if logger == nil {
		logger = slog.Default()
	}
	return &Worker{sink: sink, inbox: inbox, logger: logger}
}

func (w *Worker) Run(ctx context.Context) error {
	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case event, ok := <-w.inbox:
			if !ok {
				return nil
			}
			if err := w.sink.Write(ctx, event); err != nil {
				w.logger.ErrorContext(ctx, "failed to deliver audit event",
					"action", event.Action,
					"error", err,
				)
			}
		}
	}
}
