package usecase

import (
	"context"
	"fmt"

	"github.com/kirillkom/ticket-analyzer/internal/core/domain"
	"github.com/kirillkom/ticket-analyzer/internal/core/ports"
)

const (
	defaultListLimit = 100
	maxListLimit     = 500
)

type TicketQueryUseCase struct {
	store ports.TicketStore
}

func NewTicketQueryUseCase(store ports.TicketStore) *TicketQueryUseCase {
	return &TicketQueryUseCase{store: store}
}

func (uc *TicketQueryUseCase) GetByID(ctx context.Context, id string) (*domain.Ticket, error) {
	return uc.store.GetByID(ctx, id)
}

func (uc *TicketQueryUseCase) List(ctx context.Context, filter domain.TicketFilter, limit int) ([]domain.Ticket, error) {
	switch filter {
	case domain.TicketFilterAll, domain.TicketFilterPending, domain.TicketFilterProcessed:
	case "":
		filter = domain.TicketFilterAll
	default:
		return nil, domain.WrapError(domain.ErrInvalidInput, "list tickets", fmt.Errorf("unknown status filter %q", filter))
	}
	if limit <= 0 {
		limit = defaultListLimit
	}
	if limit > maxListLimit {
		limit = maxListLimit
	}
	return uc.store.List(ctx, filter, limit)
}

func (uc *TicketQueryUseCase) Stats(ctx context.Context) (domain.TicketStats, error) {
	return uc.store.Stats(ctx)
}
