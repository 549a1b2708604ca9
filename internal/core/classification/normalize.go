package classification

import (
	"encoding/json"
	"regexp"
	"strings"

	"github.com/kirillkom/ticket-analyzer/internal/core/domain"
)

// Outcome describes how a raw reply was turned into a result.
type Outcome string

const (
	OutcomeParsed      Outcome = "parsed"
	OutcomeCoerced     Outcome = "coerced"
	OutcomeNoJSON      Outcome = "no_json"
	OutcomeInvalidJSON Outcome = "invalid_json"
)

// flatObjectPattern matches a non-empty brace span with no nested braces.
var flatObjectPattern = regexp.MustCompile(`\{[^{}]+\}`)

// Normalize coerces a raw generator reply into a valid result. It never fails.
func Normalize(raw string) domain.ClassificationResult {
	result, _ := NormalizeDetailed(raw)
	return result
}

// NormalizeDetailed is Normalize plus the outcome, for logging and metrics.
// Only the first brace span in raw is considered.
func NormalizeDetailed(raw string) (domain.ClassificationResult, Outcome) {
	span := flatObjectPattern.FindString(raw)
	if span == "" {
		return domain.DefaultClassification(), OutcomeNoJSON
	}

	var fields map[string]any
	if err := json.Unmarshal([]byte(span), &fields); err != nil || fields == nil {
		return domain.DefaultClassification(), OutcomeInvalidJSON
	}

	result := domain.DefaultClassification()
	outcome := OutcomeParsed

	category, ok := stringField(fields, "category")
	if ok && domain.Category(category).Valid() {
		result.Category = domain.Category(category)
	} else {
		outcome = OutcomeCoerced
	}

	sentiment, ok := stringField(fields, "sentiment")
	if ok && domain.Sentiment(sentiment).Valid() {
		result.Sentiment = domain.Sentiment(sentiment)
	} else {
		outcome = OutcomeCoerced
	}

	return result, outcome
}

func stringField(fields map[string]any, key string) (string, bool) {
	v, ok := fields[key]
	if !ok {
		return "", false
	}
	s, ok := v.(string)
	if !ok {
		return "", false
	}
	return strings.ToLower(strings.TrimSpace(s)), true
}
