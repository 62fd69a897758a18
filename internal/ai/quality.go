package ai

import (
	"strings"
	"unicode"
)

// Score recomputes draft quality from scratch. It is called after the first
// generation and again after the refine pass; nothing here is persisted.
func Score(draft Draft, cover MustCover) QualityMetrics {
	paragraphs := splitParagraphs(draft.Description)

	metrics := QualityMetrics{
		ParagraphCount: len(paragraphs),
		HighlightCount: len(draft.Highlights),
	}
	metrics.StructureValid = len(paragraphs) == 5

	haystack := normalizeText(draft.Description)

	total := cover.Total()
	if total == 0 {
		metrics.Coverage = 1.0
		return metrics
	}
	for _, phrase := range cover.Required {
		if !phraseCovered(haystack, phrase) {
			metrics.Missing = append(metrics.Missing, phrase)
		}
	}
	for _, phrase := range cover.Optional {
		if !phraseCovered(haystack, phrase) {
			metrics.Missing = append(metrics.Missing, phrase)
		}
	}
	metrics.Coverage = float64(total-len(metrics.Missing)) / float64(total)
	return metrics
}

func splitParagraphs(description string) []string {
	var out []string
	for _, block := range strings.Split(strings.ReplaceAll(description, "\r\n", "\n"), "\n\n") {
		if trimmed := strings.TrimSpace(block); trimmed != "" {
			out = append(out, trimmed)
		}
	}
	return out
}

// phraseCovered accepts a phrase as mentioned when any of its derived
// search terms appears in the description: the whole phrase, any number in
// it, or any content word longer than two characters. The model rephrases
// facts freely, so demanding the full phrase would undercount badly.
func phraseCovered(haystack, phrase string) bool {
	needle := normalizeText(phrase)
	if needle == "" {
		return true
	}
	if strings.Contains(haystack, needle) {
		return true
	}
	for _, token := range strings.Fields(needle) {
		if isNumeric(token) {
			// Boundary match so 60 never hides inside 160.
			if containsToken(haystack, token) {
				return true
			}
			continue
		}
		if len([]rune(token)) > 2 && !stopwords[token] && strings.Contains(haystack, token) {
			return true
		}
	}
	return false
}

func normalizeText(s string) string {
	var b strings.Builder
	for _, r := range strings.ToLower(s) {
		if unicode.IsLetter(r) || unicode.IsDigit(r) || r == '²' {
			b.WriteRune(r)
		} else {
			b.WriteRune(' ')
		}
	}
	return strings.Join(strings.Fields(b.String()), " ")
}

func isNumeric(token string) bool {
	hasDigit := false
	for _, r := range token {
		if unicode.IsDigit(r) {
			hasDigit = true
		} else if r != ',' && r != '.' {
			return false
		}
	}
	return hasDigit
}

func containsToken(haystack, token string) bool {
	idx := 0
	for {
		i := strings.Index(haystack[idx:], token)
		if i < 0 {
			return false
		}
		start := idx + i
		end := start + len(token)
		leftOK := start == 0 || haystack[start-1] == ' '
		rightOK := end == len(haystack) || haystack[end] == ' '
		if leftOK && rightOK {
			return true
		}
		idx = end
	}
}

var stopwords = map[string]bool{
	// it
	"con": true, "senza": true, "del": true, "della": true, "delle": true,
	"dei": true, "nel": true, "nella": true, "per": true, "che": true,
	"una": true, "uno": true, "gli": true, "alla": true, "zona": true,
	"piedi": true, "minuti": true, "mese": true,
	// ru
	"без": true, "для": true, "это": true, "при": true, "как": true,
	"минутах": true, "минут": true, "пешком": true, "месяц": true,
	// en
	"the": true, "and": true, "with": true, "for": true,
	"located": true, "away": true, "minutes": true, "foot": true,
	"month": true,
}
