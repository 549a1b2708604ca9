package httpadapter

import (
	"encoding/json"
	"errors"
	"io"
	"log/slog"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/kirillkom/ticket-analyzer/internal/config"
	"github.com/kirillkom/ticket-analyzer/internal/core/domain"
	"github.com/kirillkom/ticket-analyzer/internal/core/ports"
	"github.com/kirillkom/ticket-analyzer/internal/observability/metrics"
)

const (
	serviceName    = "ticket-api"
	serviceVersion = "1.0.0"
	maxBodyBytes   = 64 << 10
)

type Router struct {
	cfg       config.Config
	processor ports.TicketProcessor
	intake    ports.TicketIntake
	reader    ports.TicketReader
	metrics   *metrics.HTTPServerMetrics
}

func NewRouter(
	cfg config.Config,
	processor ports.TicketProcessor,
	intake ports.TicketIntake,
	reader ports.TicketReader,
) *Router {
	return &Router{
		cfg:       cfg,
		processor: processor,
		intake:    intake,
		reader:    reader,
	}
}

// WithMetrics enables request metrics and the /metrics endpoint.
func (rt *Router) WithMetrics(m *metrics.HTTPServerMetrics) *Router {
	rt.metrics = m
	return rt
}

func (rt *Router) Handler() http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc("GET /{$}", rt.root)
	mux.HandleFunc("GET /health", rt.health)
	mux.HandleFunc("GET /healthz", rt.healthz)
	mux.HandleFunc("POST /process-ticket", rt.processTicket)
	mux.HandleFunc("POST /v1/tickets", rt.submitTicket)
	mux.HandleFunc("GET /v1/tickets", rt.listTickets)
	mux.HandleFunc("GET /v1/tickets/stats", rt.ticketStats)
	mux.HandleFunc("GET /v1/tickets/{id}", rt.getTicket)
	if rt.metrics != nil {
		mux.Handle("GET /metrics", rt.metrics.Handler())
	}

	var handler http.Handler = mux
	handler = rt.authMiddleware(handler)
	handler = backpressureMiddleware(handler, rt.cfg.APIMaxInFlight, 250*time.Millisecond, rt.recordRejection)
	handler = rateLimitMiddleware(handler, rt.cfg.APIRateLimitRPS, rt.cfg.APIRateLimitBurst, rt.recordRejection)
	if rt.metrics != nil {
		handler = rt.metrics.Middleware(serviceName, handler)
	}
	handler = accessLogMiddleware(handler)
	return requestIDMiddleware(handler)
}

func (rt *Router) root(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{
		"message": "SoporteYa API está funcionando!",
		"docs":    "/docs",
		"version": serviceVersion,
	})
}

func (rt *Router) health(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "healthy"})
}

func (rt *Router) healthz(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

type processTicketRequest struct {
	TicketID    string     `json:"ticket_id"`
	Description *string    `json:"description"`
	CreatedAt   *time.Time `json:"created_at"`
}

type processTicketResponse struct {
	TicketID    string           `json:"ticket_id"`
	Description string           `json:"description"`
	Category    domain.Category  `json:"category"`
	Sentiment   domain.Sentiment `json:"sentiment"`
	Processed   bool             `json:"processed"`
}

func (rt *Router) processTicket(w http.ResponseWriter, r *http.Request) {
	var req processTicketRequest
	if err := decodeJSON(w, r, &req); err != nil {
		writeError(w, r, err)
		return
	}
	switch {
	case strings.TrimSpace(req.TicketID) == "":
		writeError(w, r, invalidInput("process ticket", "ticket_id is required"))
		return
	case req.Description == nil:
		writeError(w, r, invalidInput("process ticket", "description is required"))
		return
	case req.CreatedAt == nil:
		writeError(w, r, invalidInput("process ticket", "created_at is required"))
		return
	}

	ticket, err := rt.processor.Process(r.Context(), domain.Ticket{
		ID:          req.TicketID,
		Description: *req.Description,
		CreatedAt:   *req.CreatedAt,
	})
	if err != nil {
		writeError(w, r, err)
		return
	}

	writeJSON(w, http.StatusOK, processTicketResponse{
		TicketID:    ticket.ID,
		Description: ticket.Description,
		Category:    ticket.Category,
		Sentiment:   ticket.Sentiment,
		Processed:   ticket.Processed,
	})
}

func (rt *Router) submitTicket(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Description string `json:"description"`
	}
	if err := decodeJSON(w, r, &req); err != nil {
		writeError(w, r, err)
		return
	}

	ticket, err := rt.intake.Submit(r.Context(), req.Description)
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusAccepted, ticket)
}

func (rt *Router) listTickets(w http.ResponseWriter, r *http.Request) {
	query := r.URL.Query()
	limit := 0
	if raw := query.Get("limit"); raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil || n < 0 {
			writeError(w, r, invalidInput("list tickets", "limit must be a non-negative integer"))
			return
		}
		limit = n
	}

	tickets, err := rt.reader.List(r.Context(), domain.TicketFilter(query.Get("status")), limit)
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"tickets": tickets})
}

func (rt *Router) getTicket(w http.ResponseWriter, r *http.Request) {
	ticket, err := rt.reader.GetByID(r.Context(), r.PathValue("id"))
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, ticket)
}

func (rt *Router) ticketStats(w http.ResponseWriter, r *http.Request) {
	stats, err := rt.reader.Stats(r.Context())
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, stats)
}

func decodeJSON(w http.ResponseWriter, r *http.Request, out any) error {
	r.Body = http.MaxBytesReader(w, r.Body, maxBodyBytes)
	if err := json.NewDecoder(r.Body).Decode(out); err != nil {
		var maxErr *http.MaxBytesError
		if errors.As(err, &maxErr) {
			return invalidInput("decode request", "request body too large")
		}
		if errors.Is(err, io.EOF) {
			return invalidInput("decode request", "request body is required")
		}
		return domain.WrapError(domain.ErrInvalidInput, "decode request", err)
	}
	return nil
}

func invalidInput(op, msg string) error {
	return domain.WrapError(domain.ErrInvalidInput, op, errors.New(msg))
}

func writeError(w http.ResponseWriter, r *http.Request, err error) {
	status := mapErrorToHTTPStatus(err)
	detail := err.Error()
	if domain.IsKind(err, domain.ErrTemporary) {
		w.Header().Set("Retry-After", "5")
	}
	if status >= http.StatusInternalServerError {
		slog.Error("request_failed",
			"request_id", requestIDFromContext(r.Context()),
			"path", r.URL.Path,
			"status", status,
			"error", err,
		)
		if r.URL.Path == "/process-ticket" {
			detail = "Error al procesar el ticket: " + detail
		}
	}
	writeJSON(w, status, map[string]string{"detail": detail})
}

func writeJSON(w http.ResponseWriter, status int, payload any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(payload)
}
