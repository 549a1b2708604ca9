package ports

import (
	"context"

	"github.com/kirillkom/ticket-analyzer/internal/core/domain"
)

// TicketClassifier is the inbound classification contract.
type TicketClassifier interface {
	Classify(ctx context.Context, ticketText string) (domain.ClassificationResult, error)
}

// TicketProcessor classifies a ticket and records the result.
type TicketProcessor interface {
	Process(ctx context.Context, ticket domain.Ticket) (*domain.Ticket, error)
	ProcessByID(ctx context.Context, ticketID string) error
}

// TicketIntake accepts new tickets for asynchronous processing.
type TicketIntake interface {
	Submit(ctx context.Context, description string) (*domain.Ticket, error)
}

// TicketReader is the read model for ticket state.
type TicketReader interface {
	GetByID(ctx context.Context, id string) (*domain.Ticket, error)
	List(ctx context.Context, filter domain.TicketFilter, limit int) ([]domain.Ticket, error)
	Stats(ctx context.Context) (domain.TicketStats, error)
}
