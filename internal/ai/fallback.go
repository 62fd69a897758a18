package ai

import (
	"fmt"
	"strings"

	"github.com/casalabia/realtor-backend/internal/types"
)

// FallbackDraft builds a usable draft from the listing's basic facts alone.
// It is the terminal answer when the provider is down or returns something
// unparseable; callers treat it as a success, never as an error.
func FallbackDraft(facts ListingFacts, req GenerationRequest) Draft {
	req = req.withDefaults()
	lang := languageFromLocale(req.Locale)

	propertyType := facts.PropertyType
	if propertyType == "" || propertyType == "default" {
		propertyType = T(lang, "word.property")
	}
	tx := T(lang, "tx.sale")
	txOpp := T(lang, "tx.sale_opp")
	txNoun := T(lang, "tx.sale_noun")
	if facts.Type == types.ListingTypeRent {
		tx = T(lang, "tx.rent")
		txOpp = T(lang, "tx.rent_opp")
		txNoun = T(lang, "tx.rent_noun")
	}

	title := facts.Title
	if title == "" {
		title = strings.TrimSpace(T(lang, "fallback.title", capitalize(propertyType), tx))
	}
	if runes := []rune(title); len(runes) > 100 {
		title = strings.TrimSpace(string(runes[:100]))
	}

	priceSuffix := ""
	if facts.Price != nil {
		priceSuffix = T(lang, "fallback.price_at", formatPrice(*facts.Price))
	}

	paragraphs := []string{
		T(lang, "fallback.p1", txOpp),
		T(lang, "fallback.p2", propertyType, tx),
		T(lang, "fallback.p3"),
		T(lang, "fallback.p4"),
		T(lang, "fallback.p5"),
	}

	return Draft{
		Title:       title,
		Summary:     T(lang, "fallback.summary", propertyType, tx, priceSuffix),
		Description: strings.Join(paragraphs, "\n\n"),
		Highlights: []string{
			T(lang, "fallback.h1"),
			T(lang, "fallback.h2"),
			T(lang, "fallback.h3"),
		},
		Disclaimer: T(lang, "disclaimer"),
		SEO: SEO{
			Keywords:        []string{propertyType, txNoun, T(lang, "word.property")},
			MetaDescription: T(lang, "fallback.meta", capitalize(propertyType), tx, priceSuffix),
		},
	}
}

func capitalize(s string) string {
	if s == "" {
		return s
	}
	runes := []rune(s)
	return strings.ToUpper(string(runes[0])) + string(runes[1:])
}

func formatPrice(price float64) string {
	if price == float64(int64(price)) {
		return fmt.Sprintf("%d", int64(price))
	}
	return fmt.Sprintf("%.2f", price)
}
