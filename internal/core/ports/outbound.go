package ports

import (
	"context"

	"github.com/kirillkom/ticket-analyzer/internal/core/domain"
)

// TextGenerator produces a single raw reply for a prompt.
type TextGenerator interface {
	Generate(ctx context.Context, msg domain.PromptMessage, opts domain.GenerationOptions) (string, error)
}

// TicketStore persists ticket state.
type TicketStore interface {
	Create(ctx context.Context, ticket *domain.Ticket) error
	GetByID(ctx context.Context, id string) (*domain.Ticket, error)
	MarkProcessed(ctx context.Context, id string, category domain.Category, sentiment domain.Sentiment) (*domain.Ticket, error)
	ListUnprocessed(ctx context.Context) ([]domain.Ticket, error)
	List(ctx context.Context, filter domain.TicketFilter, limit int) ([]domain.Ticket, error)
	Stats(ctx context.Context) (domain.TicketStats, error)
}

// MessageQueue publishes/consumes ticket-created events.
type MessageQueue interface {
	PublishTicketCreated(ctx context.Context, ticketID string) error
	SubscribeTicketCreated(ctx context.Context, handler func(context.Context, string) error) error
}

// Deduper reports whether a key is seen for the first time.
type Deduper interface {
	AcquireOnce(ctx context.Context, scope, key string) bool
	Release(ctx context.Context, scope, key string)
}

// ClassificationRecorder observes classification outcomes.
type ClassificationRecorder interface {
	RecordClassification(result domain.ClassificationResult, outcome string, err error)
}
