// Package classification turns ticket text into a prompt and turns the
// generator's free-form reply back into a valid category/sentiment pair.
package classification

import (
	"fmt"
	"strings"

	"github.com/kirillkom/ticket-analyzer/internal/core/domain"
)

const systemPromptTemplate = `Eres un asistente experto en análisis de tickets de soporte al cliente.

Tu tarea es analizar tickets y extraer:
1. La CATEGORÍA del ticket (una de las siguientes: %s)
2. El SENTIMIENTO del cliente (uno de los siguientes: %s)

IMPORTANTE: Responde ÚNICAMENTE con un JSON válido, sin texto adicional.
Formato: {"category": "categoria_aqui", "sentiment": "sentimiento_aqui"}`

// BuildPrompt renders the two-block instruction for a ticket. The ticket text
// is embedded verbatim between double quotes.
func BuildPrompt(ticketText string) domain.PromptMessage {
	return domain.PromptMessage{
		Blocks: []domain.PromptBlock{
			{Role: domain.RoleSystem, Content: systemPrompt()},
			{Role: domain.RoleUser, Content: "Analiza este ticket:\n\"" + ticketText + "\""},
		},
	}
}

func systemPrompt() string {
	cats := domain.Categories()
	catNames := make([]string, 0, len(cats))
	for _, c := range cats {
		catNames = append(catNames, string(c))
	}
	sents := domain.Sentiments()
	sentNames := make([]string, 0, len(sents))
	for _, s := range sents {
		sentNames = append(sentNames, string(s))
	}
	return fmt.Sprintf(systemPromptTemplate, strings.Join(catNames, ", "), strings.Join(sentNames, ", "))
}
