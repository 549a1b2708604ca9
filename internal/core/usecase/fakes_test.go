package usecase

import (
	"context"
	"errors"
	"time"

	"github.com/kirillkom/ticket-analyzer/internal/core/domain"
)

type generatorFake struct {
	reply   string
	err     error
	calls   int
	lastMsg domain.PromptMessage
	lastOpt domain.GenerationOptions
}

func (f *generatorFake) Generate(_ context.Context, msg domain.PromptMessage, opts domain.GenerationOptions) (string, error) {
	f.calls++
	f.lastMsg = msg
	f.lastOpt = opts
	if f.err != nil {
		return "", f.err
	}
	return f.reply, nil
}

type classifierFake struct {
	result domain.ClassificationResult
	err    error
	texts  []string
}

func (f *classifierFake) Classify(_ context.Context, text string) (domain.ClassificationResult, error) {
	f.texts = append(f.texts, text)
	if f.err != nil {
		return domain.ClassificationResult{}, f.err
	}
	return f.result, nil
}

type markCall struct {
	id        string
	category  domain.Category
	sentiment domain.Sentiment
}

type storeFake struct {
	tickets     map[string]domain.Ticket
	unprocessed []domain.Ticket
	created     *domain.Ticket
	createErr   error
	markErr     error
	listErr     error
	markCalls   []markCall
	stats       domain.TicketStats
	lastFilter  domain.TicketFilter
	lastLimit   int
}

func (f *storeFake) Create(_ context.Context, ticket *domain.Ticket) error {
	if f.createErr != nil {
		return f.createErr
	}
	copyTicket := *ticket
	f.created = &copyTicket
	return nil
}

func (f *storeFake) GetByID(_ context.Context, id string) (*domain.Ticket, error) {
	ticket, ok := f.tickets[id]
	if !ok {
		return nil, domain.WrapError(domain.ErrTicketNotFound, "get ticket", errors.New("id="+id))
	}
	return &ticket, nil
}

func (f *storeFake) MarkProcessed(_ context.Context, id string, category domain.Category, sentiment domain.Sentiment) (*domain.Ticket, error) {
	f.markCalls = append(f.markCalls, markCall{id: id, category: category, sentiment: sentiment})
	if f.markErr != nil {
		return nil, f.markErr
	}
	return &domain.Ticket{
		ID:        id,
		Category:  category,
		Sentiment: sentiment,
		Processed: true,
		CreatedAt: time.Date(2026, 1, 21, 10, 0, 0, 0, time.UTC),
		UpdatedAt: time.Date(2026, 1, 21, 10, 5, 0, 0, time.UTC),
	}, nil
}

func (f *storeFake) ListUnprocessed(context.Context) ([]domain.Ticket, error) {
	if f.listErr != nil {
		return nil, f.listErr
	}
	return f.unprocessed, nil
}

func (f *storeFake) List(_ context.Context, filter domain.TicketFilter, limit int) ([]domain.Ticket, error) {
	f.lastFilter = filter
	f.lastLimit = limit
	return nil, nil
}

func (f *storeFake) Stats(context.Context) (domain.TicketStats, error) {
	return f.stats, nil
}

type queueFake struct {
	ticketID string
	err      error
}

func (f *queueFake) PublishTicketCreated(_ context.Context, ticketID string) error {
	if f.err != nil {
		return f.err
	}
	f.ticketID = ticketID
	return nil
}

func (f *queueFake) SubscribeTicketCreated(context.Context, func(context.Context, string) error) error {
	return errors.New("not implemented")
}

type recorderFake struct {
	outcomes []string
	errs     []error
}

func (f *recorderFake) RecordClassification(_ domain.ClassificationResult, outcome string, err error) {
	f.outcomes = append(f.outcomes, outcome)
	f.errs = append(f.errs, err)
}
