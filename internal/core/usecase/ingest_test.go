package usecase

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/kirillkom/ticket-analyzer/internal/core/domain"
)

func TestSubmitSuccess(t *testing.T) {
	store := &storeFake{}
	queue := &queueFake{}
	uc := NewSubmitTicketUseCase(store, queue)

	ticket, err := uc.Submit(context.Background(), "Mi pedido llegó dañado")
	if err != nil {
		t.Fatalf("Submit() error = %v", err)
	}
	if ticket.ID == "" {
		t.Fatalf("expected ticket id")
	}
	if ticket.Processed {
		t.Fatalf("new ticket must be pending")
	}
	if store.created == nil || store.created.ID != ticket.ID {
		t.Fatalf("expected store.Create call for %s", ticket.ID)
	}
	if queue.ticketID != ticket.ID {
		t.Fatalf("expected queued ticket id %s, got %s", ticket.ID, queue.ticketID)
	}
}

func TestSubmitRejectsEmptyDescription(t *testing.T) {
	store := &storeFake{}
	uc := NewSubmitTicketUseCase(store, &queueFake{})

	_, err := uc.Submit(context.Background(), "   ")
	if !domain.IsKind(err, domain.ErrInvalidInput) {
		t.Fatalf("expected ErrInvalidInput, got %v", err)
	}
	if store.created != nil {
		t.Fatalf("nothing must be stored for invalid input")
	}
}

func TestSubmitRejectsOversizedDescription(t *testing.T) {
	uc := NewSubmitTicketUseCase(&storeFake{}, &queueFake{})
	_, err := uc.Submit(context.Background(), strings.Repeat("a", maxDescriptionBytes+1))
	if !domain.IsKind(err, domain.ErrInvalidInput) {
		t.Fatalf("expected ErrInvalidInput, got %v", err)
	}
}

func TestSubmitKeepsStoredTicketWhenPublishFails(t *testing.T) {
	store := &storeFake{}
	uc := NewSubmitTicketUseCase(store, &queueFake{err: errors.New("queue down")})

	ticket, err := uc.Submit(context.Background(), "hola")
	if err != nil {
		t.Fatalf("Submit() error = %v", err)
	}
	if store.created == nil || ticket.ID != store.created.ID {
		t.Fatalf("expected stored ticket to be returned, got %+v", ticket)
	}
	if ticket.Processed {
		t.Fatalf("ticket must stay pending for the backlog sweep")
	}
}
