package domain

import "time"

type Ticket struct {
	ID          string    `json:"id"`
	Description string    `json:"description"`
	Category    Category  `json:"category,omitempty"`
	Sentiment   Sentiment `json:"sentiment,omitempty"`
	Processed   bool      `json:"processed"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}

// TicketFilter selects tickets by processing state.
type TicketFilter string

const (
	TicketFilterAll       TicketFilter = "all"
	TicketFilterPending   TicketFilter = "pending"
	TicketFilterProcessed TicketFilter = "processed"
)

type TicketStats struct {
	Total     int `json:"total"`
	Processed int `json:"processed"`
	Pending   int `json:"pending"`
	Negative  int `json:"negative"`
}
