package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/kirillkom/ticket-analyzer/internal/core/domain"
)

const ticketColumns = `id, description, category, sentiment, processed, created_at, updated_at`

type TicketRepository struct {
	db *sql.DB
}

func NewTicketRepository(db *sql.DB) *TicketRepository {
	return &TicketRepository{db: db}
}

func (r *TicketRepository) EnsureSchema(ctx context.Context) error {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin schema tx: %w", err)
	}
	defer func() {
		_ = tx.Rollback()
	}()

	// Serialize bootstrap DDL across api/worker startups.
	if _, err := tx.ExecContext(ctx, `SELECT pg_advisory_xact_lock($1)`, int64(2026012101)); err != nil {
		return fmt.Errorf("acquire schema lock: %w", err)
	}

	const query = `
CREATE TABLE IF NOT EXISTS tickets (
	id TEXT PRIMARY KEY,
	description TEXT NOT NULL,
	category TEXT,
	sentiment TEXT,
	processed BOOLEAN NOT NULL DEFAULT FALSE,
	created_at TIMESTAMPTZ NOT NULL DEFAULT now(),
	updated_at TIMESTAMPTZ NOT NULL DEFAULT now()
);

CREATE INDEX IF NOT EXISTS idx_tickets_processed ON tickets(processed);
CREATE INDEX IF NOT EXISTS idx_tickets_created_at ON tickets(created_at DESC);
`
	if _, err := tx.ExecContext(ctx, query); err != nil {
		return fmt.Errorf("execute schema ddl: %w", err)
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit schema tx: %w", err)
	}
	return nil
}

func (r *TicketRepository) Create(ctx context.Context, ticket *domain.Ticket) error {
	_, err := r.db.ExecContext(ctx, `
INSERT INTO tickets (id, description, category, sentiment, processed, created_at, updated_at)
VALUES ($1,$2,$3,$4,$5,$6,$7)
`,
		ticket.ID, ticket.Description, nullString(string(ticket.Category)), nullString(string(ticket.Sentiment)),
		ticket.Processed, ticket.CreatedAt, ticket.UpdatedAt,
	)
	if err != nil {
		return wrapStoreError("insert ticket", err)
	}
	return nil
}

func (r *TicketRepository) GetByID(ctx context.Context, id string) (*domain.Ticket, error) {
	row := r.db.QueryRowContext(ctx, `
SELECT `+ticketColumns+`
FROM tickets
WHERE id = $1
`, id)

	ticket, err := scanTicket(row)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, domain.WrapError(domain.ErrTicketNotFound, "get ticket", fmt.Errorf("id=%s", id))
		}
		return nil, wrapStoreError("scan ticket", err)
	}
	return &ticket, nil
}

// MarkProcessed records the classification and returns the updated row.
func (r *TicketRepository) MarkProcessed(ctx context.Context, id string, category domain.Category, sentiment domain.Sentiment) (*domain.Ticket, error) {
	row := r.db.QueryRowContext(ctx, `
UPDATE tickets
SET processed = TRUE, category = $2, sentiment = $3, updated_at = $4
WHERE id = $1
RETURNING `+ticketColumns+`
`, id, string(category), string(sentiment), time.Now().UTC())

	ticket, err := scanTicket(row)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, domain.WrapError(domain.ErrTicketNotFound, "mark ticket processed", fmt.Errorf("id=%s", id))
		}
		return nil, wrapStoreError("mark ticket processed", err)
	}
	return &ticket, nil
}

func (r *TicketRepository) ListUnprocessed(ctx context.Context) ([]domain.Ticket, error) {
	return r.query(ctx, "list unprocessed tickets", `
SELECT `+ticketColumns+`
FROM tickets
WHERE processed = FALSE
ORDER BY created_at ASC
`)
}

func (r *TicketRepository) List(ctx context.Context, filter domain.TicketFilter, limit int) ([]domain.Ticket, error) {
	query := `
SELECT ` + ticketColumns + `
FROM tickets
`
	switch filter {
	case domain.TicketFilterPending:
		query += "WHERE processed = FALSE\n"
	case domain.TicketFilterProcessed:
		query += "WHERE processed = TRUE\n"
	}
	query += "ORDER BY created_at DESC\nLIMIT $1"
	return r.query(ctx, "list tickets", query, limit)
}

func (r *TicketRepository) Stats(ctx context.Context) (domain.TicketStats, error) {
	row := r.db.QueryRowContext(ctx, `
SELECT
	COUNT(*),
	COUNT(*) FILTER (WHERE processed),
	COUNT(*) FILTER (WHERE lower(sentiment) = 'negativo')
FROM tickets
`)
	var stats domain.TicketStats
	if err := row.Scan(&stats.Total, &stats.Processed, &stats.Negative); err != nil {
		return domain.TicketStats{}, wrapStoreError("ticket stats", err)
	}
	stats.Pending = stats.Total - stats.Processed
	return stats, nil
}

func (r *TicketRepository) query(ctx context.Context, operation, query string, args ...any) ([]domain.Ticket, error) {
	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, wrapStoreError(operation, err)
	}
	defer rows.Close()

	out := make([]domain.Ticket, 0)
	for rows.Next() {
		ticket, err := scanTicket(rows)
		if err != nil {
			return nil, wrapStoreError(operation, err)
		}
		out = append(out, ticket)
	}
	if err := rows.Err(); err != nil {
		return nil, wrapStoreError(operation, err)
	}
	return out, nil
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanTicket(row rowScanner) (domain.Ticket, error) {
	var ticket domain.Ticket
	var category, sentiment sql.NullString
	err := row.Scan(
		&ticket.ID, &ticket.Description, &category, &sentiment,
		&ticket.Processed, &ticket.CreatedAt, &ticket.UpdatedAt,
	)
	if err != nil {
		return domain.Ticket{}, err
	}
	ticket.Category = domain.Category(category.String)
	ticket.Sentiment = domain.Sentiment(sentiment.String)
	return ticket, nil
}

func nullString(v string) sql.NullString {
	return sql.NullString{String: v, Valid: v != ""}
}
