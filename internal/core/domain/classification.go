package domain

// ClassificationResult is always a member of both enumerations.
type ClassificationResult struct {
	Category  Category  `json:"category"`
	Sentiment Sentiment `json:"sentiment"`
}

// DefaultClassification is returned when the backend reply cannot be used.
func DefaultClassification() ClassificationResult {
	return ClassificationResult{
		Category:  CategoryOther,
		Sentiment: SentimentNeutral,
	}
}

type PromptRole string

const (
	RoleSystem PromptRole = "system"
	RoleUser   PromptRole = "user"
)

type PromptBlock struct {
	Role    PromptRole `json:"role"`
	Content string     `json:"content"`
}

// PromptMessage is the ordered instruction handed to a text generator.
type PromptMessage struct {
	Blocks []PromptBlock `json:"blocks"`
}

// System returns the concatenated content of system blocks.
func (m PromptMessage) System() string {
	out := ""
	for _, b := range m.Blocks {
		if b.Role != RoleSystem {
			continue
		}
		if out != "" {
			out += "\n\n"
		}
		out += b.Content
	}
	return out
}

type GenerationOptions struct {
	MaxTokens   int
	Temperature float64
}
