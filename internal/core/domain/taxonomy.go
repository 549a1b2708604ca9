package domain

// Category is a support-topic label. The set is closed; see Categories.
type Category string

const (
	CategoryTechnicalSupport Category = "soporte_tecnico"
	CategoryBilling          Category = "facturacion"
	CategorySales            Category = "comercial"
	CategoryGeneralInquiry   Category = "consulta_general"
	CategoryOther            Category = "otro"
)

// Sentiment is the customer's emotional tone. The set is closed; see Sentiments.
type Sentiment string

const (
	SentimentPositive Sentiment = "positivo"
	SentimentNegative Sentiment = "negativo"
	SentimentNeutral  Sentiment = "neutral"
)

var (
	categories = [...]Category{
		CategoryTechnicalSupport,
		CategoryBilling,
		CategorySales,
		CategoryGeneralInquiry,
		CategoryOther,
	}
	sentiments = [...]Sentiment{
		SentimentPositive,
		SentimentNegative,
		SentimentNeutral,
	}
)

// Categories returns the valid categories in prompt order. The slice is a copy.
func Categories() []Category {
	out := make([]Category, len(categories))
	copy(out, categories[:])
	return out
}

// Sentiments returns the valid sentiments in prompt order. The slice is a copy.
func Sentiments() []Sentiment {
	out := make([]Sentiment, len(sentiments))
	copy(out, sentiments[:])
	return out
}

func (c Category) Valid() bool {
	for _, v := range categories {
		if v == c {
			return true
		}
	}
	return false
}

func (s Sentiment) Valid() bool {
	for _, v := range sentiments {
		if v == s {
			return true
		}
	}
	return false
}
