package httpadapter

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/kirillkom/ticket-analyzer/internal/config"
	"github.com/kirillkom/ticket-analyzer/internal/core/domain"
)

type processorFake struct {
	err  error
	got  domain.Ticket
	seen bool
}

func (f *processorFake) Process(_ context.Context, ticket domain.Ticket) (*domain.Ticket, error) {
	f.got = ticket
	f.seen = true
	if f.err != nil {
		return nil, f.err
	}
	out := ticket
	out.Category = domain.CategoryBilling
	out.Sentiment = domain.SentimentNegative
	out.Processed = true
	return &out, nil
}

func (f *processorFake) ProcessByID(context.Context, string) error { return f.err }

type intakeFake struct {
	err error
}

func (f intakeFake) Submit(_ context.Context, description string) (*domain.Ticket, error) {
	if f.err != nil {
		return nil, f.err
	}
	if description == "" {
		return nil, domain.WrapError(domain.ErrInvalidInput, "submit ticket", errors.New("description is required"))
	}
	now := time.Now().UTC()
	return &domain.Ticket{ID: "t-new", Description: description, CreatedAt: now, UpdatedAt: now}, nil
}

type readerFake struct {
	err        error
	gotFilter  domain.TicketFilter
	gotLimit   int
	stats      domain.TicketStats
	ticketByID map[string]domain.Ticket
}

func (f *readerFake) GetByID(_ context.Context, id string) (*domain.Ticket, error) {
	if f.err != nil {
		return nil, f.err
	}
	ticket, ok := f.ticketByID[id]
	if !ok {
		return nil, domain.WrapError(domain.ErrTicketNotFound, "get ticket", errors.New("id="+id))
	}
	return &ticket, nil
}

func (f *readerFake) List(_ context.Context, filter domain.TicketFilter, limit int) ([]domain.Ticket, error) {
	f.gotFilter = filter
	f.gotLimit = limit
	if f.err != nil {
		return nil, f.err
	}
	out := make([]domain.Ticket, 0, len(f.ticketByID))
	for _, t := range f.ticketByID {
		out = append(out, t)
	}
	return out, nil
}

func (f *readerFake) Stats(context.Context) (domain.TicketStats, error) {
	return f.stats, f.err
}

func newTestHandler(cfg config.Config, processor *processorFake, reader *readerFake) http.Handler {
	if processor == nil {
		processor = &processorFake{}
	}
	if reader == nil {
		reader = &readerFake{}
	}
	return NewRouter(cfg, processor, intakeFake{}, reader).Handler()
}
