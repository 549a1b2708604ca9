package resilience

import "github.com/kirillkom/ticket-analyzer/internal/core/domain"

// WrapTemporaryIfNeeded tags failures that classify reports as retryable, and
// open-breaker rejections, with domain.ErrTemporary.
func WrapTemporaryIfNeeded(operation string, err error, classify ErrorClassifier) error {
	if err == nil || domain.IsKind(err, domain.ErrTemporary) {
		return err
	}
	if classify == nil {
		classify = defaultClassifier
	}
	if classify(err).Retryable || IsCircuitOpen(err) {
		return domain.WrapError(domain.ErrTemporary, operation, err)
	}
	return err
}
