package usecase

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/kirillkom/ticket-analyzer/internal/core/domain"
	"github.com/kirillkom/ticket-analyzer/internal/core/ports"
)

const maxDescriptionBytes = 16 << 10

type SubmitTicketUseCase struct {
	store ports.TicketStore
	queue ports.MessageQueue
}

func NewSubmitTicketUseCase(store ports.TicketStore, queue ports.MessageQueue) *SubmitTicketUseCase {
	return &SubmitTicketUseCase{
		store: store,
		queue: queue,
	}
}

func (uc *SubmitTicketUseCase) Submit(ctx context.Context, description string) (*domain.Ticket, error) {
	if strings.TrimSpace(description) == "" {
		return nil, domain.WrapError(domain.ErrInvalidInput, "submit ticket", errors.New("description is required"))
	}
	if len(description) > maxDescriptionBytes {
		return nil, domain.WrapError(domain.ErrInvalidInput, "submit ticket", fmt.Errorf("description exceeds %d bytes", maxDescriptionBytes))
	}

	now := time.Now().UTC()
	ticket := &domain.Ticket{
		ID:          uuid.NewString(),
		Description: description,
		CreatedAt:   now,
		UpdatedAt:   now,
	}

	if err := uc.store.Create(ctx, ticket); err != nil {
		return nil, fmt.Errorf("create ticket: %w", err)
	}

	// The ticket is stored; a lost event leaves it pending for the backlog sweep.
	if err := uc.queue.PublishTicketCreated(ctx, ticket.ID); err != nil {
		slog.Warn("ticket_event_publish_failed", "ticket_id", ticket.ID, "error", err)
	}

	return ticket, nil
}
