package httpjson

import (
	"context"
	"errors"
	"net"
	"net/http"

	"github.com/kirillkom/ticket-analyzer/internal/infrastructure/resilience"
)

// ClassifyError decides whether a generation failure is worth retrying and
// whether it counts against the circuit breaker.
func ClassifyError(err error) resilience.ErrorClassification {
	if err == nil {
		return resilience.ErrorClassification{}
	}
	if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
		return resilience.ErrorClassification{
			Retryable:     false,
			RecordFailure: false,
		}
	}
	if resilience.IsCircuitOpen(err) {
		return resilience.ErrorClassification{
			Retryable:     true,
			RecordFailure: true,
		}
	}

	var statusErr *HTTPStatusError
	if errors.As(err, &statusErr) {
		return classifyStatus(statusErr.StatusCode)
	}

	var netErr net.Error
	if errors.As(err, &netErr) {
		return resilience.ErrorClassification{
			Retryable:     true,
			RecordFailure: true,
		}
	}

	return resilience.ErrorClassification{
		Retryable:     false,
		RecordFailure: true,
	}
}

func classifyStatus(statusCode int) resilience.ErrorClassification {
	if IsRetryableHTTPStatus(statusCode) {
		return resilience.ErrorClassification{
			Retryable:     true,
			RecordFailure: true,
		}
	}
	return resilience.ErrorClassification{
		Retryable:     false,
		RecordFailure: false,
	}
}

// ClassifyStatus is ClassifyError for callers that only have a status code.
func ClassifyStatus(statusCode int) resilience.ErrorClassification {
	return classifyStatus(statusCode)
}

func IsRetryableHTTPStatus(statusCode int) bool {
	switch statusCode {
	case http.StatusRequestTimeout, http.StatusTooManyRequests, http.StatusInternalServerError, http.StatusBadGateway, http.StatusServiceUnavailable, http.StatusGatewayTimeout:
		return true
	default:
		return false
	}
}

// Run executes call through executor when one is configured.
func Run(ctx context.Context, executor *resilience.Executor, operation string, call func(context.Context) error, classify resilience.ErrorClassifier) error {
	if executor == nil {
		return call(ctx)
	}
	return executor.Execute(ctx, operation, call, classify)
}
