package usecase

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"

	"github.com/kirillkom/ticket-analyzer/internal/core/domain"
	"github.com/kirillkom/ticket-analyzer/internal/core/ports"
)

type ProcessTicketUseCase struct {
	classifier ports.TicketClassifier
	store      ports.TicketStore
}

func NewProcessTicketUseCase(classifier ports.TicketClassifier, store ports.TicketStore) *ProcessTicketUseCase {
	return &ProcessTicketUseCase{
		classifier: classifier,
		store:      store,
	}
}

// Process classifies the ticket description and marks the stored ticket as
// processed. The description is taken from the argument, not the store.
func (uc *ProcessTicketUseCase) Process(ctx context.Context, ticket domain.Ticket) (*domain.Ticket, error) {
	if strings.TrimSpace(ticket.ID) == "" {
		return nil, domain.WrapError(domain.ErrInvalidInput, "process ticket", errors.New("ticket id is required"))
	}

	result, err := uc.classifier.Classify(ctx, ticket.Description)
	if err != nil {
		return nil, fmt.Errorf("classify ticket: %w", err)
	}

	// The store names the operation in its errors.
	stored, err := uc.store.MarkProcessed(ctx, ticket.ID, result.Category, result.Sentiment)
	if err != nil {
		return nil, err
	}

	out := ticket
	out.Category = result.Category
	out.Sentiment = result.Sentiment
	out.Processed = true
	if stored != nil {
		if out.CreatedAt.IsZero() {
			out.CreatedAt = stored.CreatedAt
		}
		out.UpdatedAt = stored.UpdatedAt
	}

	slog.Info("ticket_processed",
		"ticket_id", out.ID,
		"category", string(out.Category),
		"sentiment", string(out.Sentiment),
	)
	return &out, nil
}

// ProcessByID loads a stored ticket and processes it unless already done.
func (uc *ProcessTicketUseCase) ProcessByID(ctx context.Context, ticketID string) error {
	ticket, err := uc.store.GetByID(ctx, ticketID)
	if err != nil {
		return fmt.Errorf("fetch ticket by id: %w", err)
	}
	if ticket.Processed {
		slog.Debug("ticket_already_processed", "ticket_id", ticketID)
		return nil
	}
	_, err = uc.Process(ctx, *ticket)
	return err
}
