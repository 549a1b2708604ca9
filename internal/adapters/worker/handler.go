package worker

import (
	"context"
	"log/slog"
	"time"

	"github.com/kirillkom/ticket-analyzer/internal/core/ports"
	"github.com/kirillkom/ticket-analyzer/internal/core/usecase"
	"github.com/kirillkom/ticket-analyzer/internal/observability/metrics"
)

const (
	serviceName  = "ticket-worker"
	processLimit = 2 * time.Minute
)

// TicketHandler consumes ticket-created events.
type TicketHandler struct {
	processor ports.TicketProcessor
	deduper   ports.Deduper
	metrics   *metrics.WorkerMetrics
	logger    *slog.Logger
}

func NewTicketHandler(processor ports.TicketProcessor, deduper ports.Deduper, m *metrics.WorkerMetrics, logger *slog.Logger) *TicketHandler {
	if logger == nil {
		logger = slog.Default()
	}
	return &TicketHandler{
		processor: processor,
		deduper:   deduper,
		metrics:   m,
		logger:    logger,
	}
}

// Handle processes one ticket id. Redeliveries of an id that is in flight or
// already done are skipped; a failed attempt releases the guard.
func (h *TicketHandler) Handle(ctx context.Context, ticketID string) error {
	if h.deduper != nil && !h.deduper.AcquireOnce(ctx, usecase.ProcessDedupScope, ticketID) {
		if h.metrics != nil {
			h.metrics.RecordDuplicate(serviceName)
		}
		return nil
	}

	processCtx, cancel := context.WithTimeout(ctx, processLimit)
	defer cancel()

	start := time.Now()
	if h.metrics != nil {
		h.metrics.StartTicket()
	}
	err := h.processor.ProcessByID(processCtx, ticketID)
	if h.metrics != nil {
		h.metrics.FinishTicket(serviceName, time.Since(start), err)
	}
	if err != nil {
		if h.deduper != nil {
			h.deduper.Release(context.WithoutCancel(ctx), usecase.ProcessDedupScope, ticketID)
		}
		return err
	}
	h.logger.Debug("ticket_event_handled", "ticket_id", ticketID, "duration_ms", time.Since(start).Milliseconds())
	return nil
}
