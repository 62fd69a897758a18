package ai

import (
	"strings"
	"testing"
)

func TestSanitizeTitleTruncation(t *testing.T) {
	d := validDraft(fiveParagraphs())
	d.Title = strings.Repeat("a", 120)
	out, warnings := Sanitize(d, LengthMedium)
	runes := []rune(out.Title)
	if len(runes) != 100 || runes[len(runes)-1] != '…' {
		t.Errorf("title = %d runes ending %q, want 100 ending in ellipsis", len(runes), string(runes[len(runes)-1]))
	}
	if !hasWarning(warnings, "title truncated") {
		t.Errorf("expected title truncation warning, got %v", warnings)
	}
}

func TestSanitizeSummaryBounds(t *testing.T) {
	t.Run("long summary truncated with ellipsis", func(t *testing.T) {
		d := validDraft(fiveParagraphs())
		d.Summary = strings.TrimSpace(strings.Repeat("parola ", 300))
		out, warnings := Sanitize(d, LengthShort)
		words := strings.Fields(out.Summary)
		if len(words) != 120 {
			t.Errorf("summary words = %d, want 120 for short", len(words))
		}
		if !strings.HasSuffix(out.Summary, "…") {
			t.Errorf("truncated summary missing ellipsis: %q", out.Summary)
		}
		if !hasWarning(warnings, "summary truncated") {
			t.Errorf("expected summary truncation warning, got %v", warnings)
		}
	})
	t.Run("short summary warned only", func(t *testing.T) {
		d := validDraft(fiveParagraphs())
		out, warnings := Sanitize(d, LengthShort)
		if out.Summary != d.Summary {
			t.Errorf("short summary was modified: %q", out.Summary)
		}
		if !hasWarning(warnings, "summary shorter") {
			t.Errorf("expected short-summary warning, got %v", warnings)
		}
	})
}

func TestSanitizeProhibitedTerms(t *testing.T) {
	d := validDraft(fiveParagraphs())
	d.Summary = "Appartamento con garanzia assoluta di rivalutazione, solo italiani."
	out, warnings := Sanitize(d, LengthMedium)
	lower := strings.ToLower(out.Summary)
	if strings.Contains(lower, "garanzia assoluta") || strings.Contains(lower, "solo italiani") {
		t.Errorf("prohibited terms survived: %q", out.Summary)
	}
	if !hasWarning(warnings, "prohibited term removed") {
		t.Errorf("expected prohibited-term warning, got %v", warnings)
	}
}

func TestSanitizePreservesParagraphBreaks(t *testing.T) {
	d := validDraft(fiveParagraphs())
	out, _ := Sanitize(d, LengthMedium)
	if got := len(splitParagraphs(out.Description)); got != 5 {
		t.Errorf("paragraphs after sanitize = %d, want 5", got)
	}
}

func TestSanitizeHighlights(t *testing.T) {
	d := validDraft(fiveParagraphs())
	d.Highlights = []string{
		"vista panoramica sul parco",
		"ascensore", // one word, dropped
		"",
		"uno due tre quattro cinque sei sette otto nove dieci undici", // eleven words, dropped
		"cucina abitabile con finestra",
		"doppia esposizione molto luminosa",
		"riscaldamento autonomo a pavimento",
		"cantina di pertinenza inclusa",
		"posto auto condominiale assegnato",
		"portineria presente tutto il giorno",
		"infissi nuovi con doppi vetri",
	}
	out, warnings := Sanitize(d, LengthMedium)
	if len(out.Highlights) != 7 {
		t.Errorf("highlights = %d, want cap at 7", len(out.Highlights))
	}
	for _, h := range out.Highlights {
		if n := len(strings.Fields(h)); n < 3 || n > 10 {
			t.Errorf("highlight %q has %d words, want 3-10", h, n)
		}
	}
	if !hasWarning(warnings, "highlight outside 3-10 words dropped") || !hasWarning(warnings, "highlights truncated to 7") {
		t.Errorf("expected highlight warnings, got %v", warnings)
	}
}

// Sanitizing clean output a second time must change nothing.
func TestSanitizeIdempotent(t *testing.T) {
	d := validDraft(fiveParagraphs())
	d.Title = strings.Repeat("t", 150)
	d.SEO.MetaDescription = strings.Repeat("m", 200)
	once, _ := Sanitize(d, LengthMedium)
	twice, _ := Sanitize(once, LengthMedium)
	if once.Title != twice.Title || once.Summary != twice.Summary ||
		once.Description != twice.Description || once.SEO.MetaDescription != twice.SEO.MetaDescription {
		t.Errorf("second sanitize changed the draft:\nonce:  %+v\ntwice: %+v", once, twice)
	}
}

func TestSanitizeKeywordsCap(t *testing.T) {
	d := validDraft(fiveParagraphs())
	d.SEO.Keywords = []string{"a", "b", "c", "d", "e", "f", "g", "h", "i", ""}
	out, _ := Sanitize(d, LengthMedium)
	if len(out.SEO.Keywords) != 8 {
		t.Errorf("keywords = %d, want 8", len(out.SEO.Keywords))
	}
}

func TestSanitizeMetaDescription(t *testing.T) {
	t.Run("long meta truncated with ellipsis", func(t *testing.T) {
		d := validDraft(fiveParagraphs())
		d.SEO.MetaDescription = strings.Repeat("x", 200)
		out, warnings := Sanitize(d, LengthMedium)
		runes := []rune(out.SEO.MetaDescription)
		if len(runes) != 158 || runes[len(runes)-1] != '…' {
			t.Errorf("meta = %d runes ending %q", len(runes), string(runes[len(runes)-1]))
		}
		if !hasWarning(warnings, "meta description truncated") {
			t.Errorf("expected meta truncation warning, got %v", warnings)
		}
	})
	t.Run("short meta warned only", func(t *testing.T) {
		d := validDraft(fiveParagraphs())
		d.SEO.MetaDescription = "Troppo corta."
		out, warnings := Sanitize(d, LengthMedium)
		if out.SEO.MetaDescription != "Troppo corta." {
			t.Errorf("short meta was modified: %q", out.SEO.MetaDescription)
		}
		if !hasWarning(warnings, "shorter than 120") {
			t.Errorf("expected short-meta warning, got %v", warnings)
		}
	})
}

func TestSanitizeDisclaimerUntouched(t *testing.T) {
	d := validDraft(fiveParagraphs())
	d.Disclaimer = "Testo legale con garanzia assoluta citata di proposito."
	out, _ := Sanitize(d, LengthMedium)
	if out.Disclaimer != d.Disclaimer {
		t.Errorf("disclaimer was modified: %q", out.Disclaimer)
	}
}

func hasWarning(warnings []string, substr string) bool {
	for _, w := range warnings {
		if strings.Contains(w, substr) {
			return true
		}
	}
	return false
}
