package ai

import (
	"fmt"
	"regexp"
	"strings"
)

// prohibitedTerms are claims that must never ship in a listing regardless of
// what the model produced: discriminatory wording, absolute guarantees and
// unverifiable superlatives, in all three supported languages.
var prohibitedTerms = []*regexp.Regexp{
	regexp.MustCompile(`(?i)\bsolo\s+(italiani|famiglie|donne|uomini)\b`),
	regexp.MustCompile(`(?i)\bno\s+(stranieri|extracomunitari|animali\s+e\s+bambini)\b`),
	regexp.MustCompile(`(?i)\bgaranzia\s+(assoluta|totale|al\s+100%)\b`),
	regexp.MustCompile(`(?i)\bil\s+migliore\s+(di|in)\s+assoluto\b`),
	regexp.MustCompile(`(?i)\binvestimento\s+sicuro\s+al\s+100%\b`),
	regexp.MustCompile(`(?i)\bтолько\s+(для\s+)?(славян|русских|семей)\b`),
	regexp.MustCompile(`(?i)\b(стопроцентная|абсолютная)\s+гарантия\b`),
	regexp.MustCompile(`(?i)\bлучший\s+в\s+мире\b`),
	regexp.MustCompile(`(?i)\b(whites?|christians?|families)\s+only\b`),
	regexp.MustCompile(`(?i)\bno\s+(foreigners|immigrants)\b`),
	regexp.MustCompile(`(?i)\b(100%|absolute(ly)?)\s+guarantee(d)?\b`),
	regexp.MustCompile(`(?i)\bbest\s+in\s+the\s+world\b`),
	regexp.MustCompile(`(?i)\b(cura|heals?|cures?|лечит)\b`),
}

var summaryWordBounds = map[Length][2]int{
	LengthShort:  {80, 120},
	LengthMedium: {100, 200},
	LengthLong:   {150, 250},
}

// Sanitize enforces output bounds on everything except the disclaimer, which
// ships verbatim. Violations that can be fixed mechanically are fixed;
// everything noteworthy comes back as a warning for the logs.
func Sanitize(draft Draft, length Length) (Draft, []string) {
	var warnings []string

	draft.Title = stripProhibited(strings.TrimSpace(draft.Title), &warnings)
	if runes := []rune(draft.Title); len(runes) > 100 {
		draft.Title = strings.TrimSpace(string(runes[:99])) + "…"
		warnings = append(warnings, "title truncated to 100 characters")
	}

	draft.Summary = stripProhibited(strings.TrimSpace(draft.Summary), &warnings)
	if bounds, ok := summaryWordBounds[length]; ok {
		words := strings.Fields(draft.Summary)
		if len(words) > bounds[1] {
			draft.Summary = strings.Join(words[:bounds[1]], " ") + "…"
			warnings = append(warnings, fmt.Sprintf("summary truncated to %d words", bounds[1]))
		} else if len(words) < bounds[0] {
			warnings = append(warnings, "summary shorter than target")
		}
	}

	draft.Description = stripProhibited(strings.TrimSpace(draft.Description), &warnings)

	highlights := make([]string, 0, len(draft.Highlights))
	for _, h := range draft.Highlights {
		h = stripProhibited(strings.TrimSpace(h), &warnings)
		if n := len(strings.Fields(h)); n < 3 || n > 10 {
			if h != "" {
				warnings = append(warnings, "highlight outside 3-10 words dropped")
			}
			continue
		}
		highlights = append(highlights, h)
	}
	if len(highlights) > 7 {
		highlights = highlights[:7]
		warnings = append(warnings, "highlights truncated to 7 entries")
	}
	if len(highlights) < 3 {
		warnings = append(warnings, "fewer than 3 highlights")
	}
	draft.Highlights = highlights

	keywords := make([]string, 0, len(draft.SEO.Keywords))
	for _, k := range draft.SEO.Keywords {
		if k = strings.TrimSpace(k); k != "" {
			keywords = append(keywords, k)
		}
	}
	if len(keywords) > 8 {
		keywords = keywords[:8]
		warnings = append(warnings, "keywords truncated to 8 entries")
	}
	draft.SEO.Keywords = keywords

	meta := stripProhibited(strings.TrimSpace(draft.SEO.MetaDescription), &warnings)
	if runes := []rune(meta); len(runes) > 160 {
		meta = strings.TrimSpace(string(runes[:157])) + "…"
		warnings = append(warnings, "meta description truncated to 160 characters")
	} else if len(runes) > 0 && len(runes) < 120 {
		warnings = append(warnings, "meta description shorter than 120 characters")
	}
	draft.SEO.MetaDescription = meta

	return draft, warnings
}

var spaceRuns = regexp.MustCompile(`[ \t]+`)

// stripProhibited removes banned terms while preserving line structure, so
// the description's blank-line paragraph breaks survive sanitization.
func stripProhibited(s string, warnings *[]string) string {
	for _, re := range prohibitedTerms {
		if re.MatchString(s) {
			s = re.ReplaceAllString(s, "")
			*warnings = append(*warnings, "prohibited term removed: "+re.String())
		}
	}
	lines := strings.Split(s, "\n")
	for i, line := range lines {
		lines[i] = strings.TrimSpace(spaceRuns.ReplaceAllString(line, " "))
	}
	return strings.Join(lines, "\n")
}
