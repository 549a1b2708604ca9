package usecase

import (
	"context"
	"errors"

	"github.com/kirillkom/ticket-analyzer/internal/core/classification"
	"github.com/kirillkom/ticket-analyzer/internal/core/domain"
	"github.com/kirillkom/ticket-analyzer/internal/core/ports"
)

const (
	defaultMaxTokens   = 100
	defaultTemperature = 0.1
)

// DefaultGenerationOptions biases the generator toward short, deterministic JSON.
func DefaultGenerationOptions() domain.GenerationOptions {
	return domain.GenerationOptions{
		MaxTokens:   defaultMaxTokens,
		Temperature: defaultTemperature,
	}
}

type ClassifyTicketUseCase struct {
	generator ports.TextGenerator
	opts      domain.GenerationOptions
	recorder  ports.ClassificationRecorder
}

func NewClassifyTicketUseCase(
	generator ports.TextGenerator,
	opts domain.GenerationOptions,
	recorder ports.ClassificationRecorder,
) *ClassifyTicketUseCase {
	if opts.MaxTokens <= 0 {
		opts.MaxTokens = defaultMaxTokens
	}
	if opts.Temperature < 0 {
		opts.Temperature = defaultTemperature
	}
	return &ClassifyTicketUseCase{
		generator: generator,
		opts:      opts,
		recorder:  recorder,
	}
}

// Classify returns a valid result or a generation error. Unusable replies
// are absorbed into the default result; a missing reply is always an error.
func (uc *ClassifyTicketUseCase) Classify(ctx context.Context, ticketText string) (domain.ClassificationResult, error) {
	if uc.generator == nil {
		return domain.ClassificationResult{}, domain.WrapError(domain.ErrConfiguration, "classify ticket", errors.New("text generator is not configured"))
	}

	prompt := classification.BuildPrompt(ticketText)
	raw, err := uc.generator.Generate(ctx, prompt, uc.opts)
	if err != nil {
		err = domain.WrapError(domain.ErrGeneration, "generate classification", err)
		uc.record(domain.ClassificationResult{}, "", err)
		return domain.ClassificationResult{}, err
	}

	result, outcome := classification.NormalizeDetailed(raw)
	uc.record(result, string(outcome), nil)
	return result, nil
}

func (uc *ClassifyTicketUseCase) record(result domain.ClassificationResult, outcome string, err error) {
	if uc.recorder == nil {
		return
	}
	uc.recorder.RecordClassification(result, outcome, err)
}
