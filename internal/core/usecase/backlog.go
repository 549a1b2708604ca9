package usecase

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/kirillkom/ticket-analyzer/internal/core/domain"
	"github.com/kirillkom/ticket-analyzer/internal/core/ports"
)

// ProcessDedupScope is the guard scope shared by every path that classifies a
// stored ticket, so an event delivery and a sweep never classify the same id
// concurrently.
const ProcessDedupScope = "ticket_process"

type SweepReport struct {
	Pending   int
	Processed int
	Failed    int
	Skipped   int
}

// BacklogSweepUseCase processes tickets that were stored but never classified,
// for example when the ticket-created event was lost.
type BacklogSweepUseCase struct {
	store     ports.TicketStore
	processor ports.TicketProcessor
	deduper   ports.Deduper
}

// NewBacklogSweepUseCase builds the sweep. deduper may be nil.
func NewBacklogSweepUseCase(store ports.TicketStore, processor ports.TicketProcessor, deduper ports.Deduper) *BacklogSweepUseCase {
	return &BacklogSweepUseCase{
		store:     store,
		processor: processor,
		deduper:   deduper,
	}
}

func (uc *BacklogSweepUseCase) Sweep(ctx context.Context) (SweepReport, error) {
	tickets, err := uc.store.ListUnprocessed(ctx)
	if err != nil {
		return SweepReport{}, fmt.Errorf("list unprocessed tickets: %w", err)
	}

	report := SweepReport{Pending: len(tickets)}
	for _, ticket := range tickets {
		if err := ctx.Err(); err != nil {
			return report, err
		}
		if uc.deduper != nil && !uc.deduper.AcquireOnce(ctx, ProcessDedupScope, ticket.ID) {
			report.Skipped++
			continue
		}
		if _, err := uc.processor.Process(ctx, ticket); err != nil {
			report.Failed++
			if uc.deduper != nil {
				uc.deduper.Release(context.WithoutCancel(ctx), ProcessDedupScope, ticket.ID)
			}
			slog.Warn("backlog_ticket_failed", "ticket_id", ticket.ID, "error", err)
			if domain.IsKind(err, domain.ErrConfiguration) {
				return report, err
			}
			continue
		}
		report.Processed++
	}
	return report, nil
}
