package usecase

import (
	"context"
	"errors"
	"sync"
	"testing"

	"github.com/kirillkom/ticket-analyzer/internal/core/domain"
)

func TestClassifyNormalizesReply(t *testing.T) {
	gen := &generatorFake{reply: `Respuesta: {"category":" Facturacion ","sentiment":"NEGATIVO"}`}
	uc := NewClassifyTicketUseCase(gen, DefaultGenerationOptions(), nil)

	result, err := uc.Classify(context.Background(), "Me cobraron dos veces")
	if err != nil {
		t.Fatalf("Classify() error = %v", err)
	}
	if result.Category != domain.CategoryBilling || result.Sentiment != domain.SentimentNegative {
		t.Fatalf("unexpected result: %+v", result)
	}
	if gen.lastOpt.MaxTokens != 100 || gen.lastOpt.Temperature != 0.1 {
		t.Fatalf("unexpected generation options: %+v", gen.lastOpt)
	}
	if len(gen.lastMsg.Blocks) != 2 || gen.lastMsg.Blocks[0].Role != domain.RoleSystem {
		t.Fatalf("unexpected prompt: %+v", gen.lastMsg)
	}
}

func TestClassifyReturnsDefaultsForUnusableReply(t *testing.T) {
	rec := &recorderFake{}
	gen := &generatorFake{reply: "Lo siento, no puedo ayudar con eso."}
	uc := NewClassifyTicketUseCase(gen, DefaultGenerationOptions(), rec)

	result, err := uc.Classify(context.Background(), "???")
	if err != nil {
		t.Fatalf("unusable reply must not be an error, got %v", err)
	}
	if result != domain.DefaultClassification() {
		t.Fatalf("expected default result, got %+v", result)
	}
	if len(rec.outcomes) != 1 || rec.outcomes[0] != "no_json" {
		t.Fatalf("expected no_json outcome, got %+v", rec.outcomes)
	}
}

func TestClassifyWrapsGenerationFailure(t *testing.T) {
	rec := &recorderFake{}
	gen := &generatorFake{err: errors.New("backend 503")}
	uc := NewClassifyTicketUseCase(gen, DefaultGenerationOptions(), rec)

	result, err := uc.Classify(context.Background(), "hola")
	if err == nil {
		t.Fatalf("expected error")
	}
	if !domain.IsKind(err, domain.ErrGeneration) {
		t.Fatalf("expected ErrGeneration, got %v", err)
	}
	if result != (domain.ClassificationResult{}) {
		t.Fatalf("expected zero result on failure, got %+v", result)
	}
	if len(rec.errs) != 1 || rec.errs[0] == nil {
		t.Fatalf("expected recorded error, got %+v", rec.errs)
	}
}

func TestClassifyPropagatesCancellation(t *testing.T) {
	gen := &generatorFake{err: context.Canceled}
	uc := NewClassifyTicketUseCase(gen, DefaultGenerationOptions(), nil)

	_, err := uc.Classify(context.Background(), "hola")
	if !errors.Is(err, context.Canceled) {
		t.Fatalf("expected context.Canceled in chain, got %v", err)
	}
	if !domain.IsKind(err, domain.ErrGeneration) {
		t.Fatalf("expected ErrGeneration, got %v", err)
	}
}

func TestClassifyDefaultsGenerationOptions(t *testing.T) {
	gen := &generatorFake{reply: `{"category":"otro","sentiment":"neutral"}`}
	uc := NewClassifyTicketUseCase(gen, domain.GenerationOptions{MaxTokens: 0, Temperature: -1}, nil)

	if _, err := uc.Classify(context.Background(), "x"); err != nil {
		t.Fatalf("Classify() error = %v", err)
	}
	if gen.lastOpt.MaxTokens != 100 || gen.lastOpt.Temperature != 0.1 {
		t.Fatalf("expected defaults, got %+v", gen.lastOpt)
	}
}

func TestClassifyWithoutGeneratorIsConfigurationError(t *testing.T) {
	uc := NewClassifyTicketUseCase(nil, DefaultGenerationOptions(), nil)
	_, err := uc.Classify(context.Background(), "x")
	if !domain.IsKind(err, domain.ErrConfiguration) {
		t.Fatalf("expected ErrConfiguration, got %v", err)
	}
}

type echoGenerator struct{}

func (echoGenerator) Generate(_ context.Context, msg domain.PromptMessage, _ domain.GenerationOptions) (string, error) {
	return msg.Blocks[1].Content, nil
}

func TestClassifyIsSafeForConcurrentUse(t *testing.T) {
	uc := NewClassifyTicketUseCase(echoGenerator{}, DefaultGenerationOptions(), nil)
	texts := []string{
		`{"category":"comercial","sentiment":"positivo"}`,
		`{"category":"facturacion","sentiment":"negativo"}`,
		"sin json",
	}
	want := []domain.ClassificationResult{
		{Category: domain.CategorySales, Sentiment: domain.SentimentPositive},
		{Category: domain.CategoryBilling, Sentiment: domain.SentimentNegative},
		domain.DefaultClassification(),
	}

	var wg sync.WaitGroup
	errs := make(chan string, 300)
	for i := 0; i < 300; i++ {
		wg.Add(1)
		go func(idx int) {
			defer wg.Done()
			k := idx % len(texts)
			got, err := uc.Classify(context.Background(), texts[k])
			if err != nil || got != want[k] {
				errs <- texts[k]
			}
		}(i)
	}
	wg.Wait()
	close(errs)
	for text := range errs {
		t.Fatalf("unexpected result for %q", text)
	}
}
