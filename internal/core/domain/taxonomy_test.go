package domain

import "testing"

func TestCategoriesValid(t *testing.T) {
	for _, c := range Categories() {
		if !c.Valid() {
			t.Fatalf("expected %q to be valid", c)
		}
	}
	if Category("Otro").Valid() {
		t.Fatalf("validity check must be case sensitive")
	}
	if len(Categories()) != 5 {
		t.Fatalf("expected 5 categories, got %d", len(Categories()))
	}
}

func TestSentimentsValid(t *testing.T) {
	for _, s := range Sentiments() {
		if !s.Valid() {
			t.Fatalf("expected %q to be valid", s)
		}
	}
	if Sentiment("neutro").Valid() {
		t.Fatalf("neutro is not a sentiment label")
	}
}

func TestCategoriesReturnsCopy(t *testing.T) {
	cats := Categories()
	cats[0] = "mutated"
	if Categories()[0] != CategoryTechnicalSupport {
		t.Fatalf("Categories() must not expose internal state")
	}
}

func TestDefaultClassification(t *testing.T) {
	def := DefaultClassification()
	if def.Category != CategoryOther || def.Sentiment != SentimentNeutral {
		t.Fatalf("unexpected default: %+v", def)
	}
}
