package ai

import (
	"testing"

	"github.com/casalabia/realtor-backend/internal/types"
)

func TestComputeContentPlan(t *testing.T) {
	cases := []struct {
		name   string
		length Length
		words  [5]int
		total  int
	}{
		{"short", LengthShort, [5]int{40, 50, 40, 40, 30}, 200},
		{"medium", LengthMedium, [5]int{60, 80, 70, 60, 50}, 320},
		{"long", LengthLong, [5]int{90, 120, 100, 90, 70}, 470},
		{"unknown falls back to medium", Length("huge"), [5]int{60, 80, 70, 60, 50}, 320},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			plan := ComputeContentPlan(tc.length)
			for i, s := range plan.Sections {
				if s.Words != tc.words[i] {
					t.Errorf("section %s: got %d words, want %d", s.Name, s.Words, tc.words[i])
				}
			}
			if got := plan.TotalWords(); got != tc.total {
				t.Errorf("total words = %d, want %d", got, tc.total)
			}
			if plan.Sections[0].Name != SectionIntro || plan.Sections[4].Name != SectionTerms {
				t.Errorf("unexpected section order: %v", plan.Sections)
			}
		})
	}
}

func TestComputeMustCover(t *testing.T) {
	floor := 0
	facts := ListingFacts{
		Type:         types.ListingTypeSale,
		PropertyType: "trilocale",
		Fields: map[string]any{
			"city":             "Milano",
			"squareMeters":     float64(60),
			"rooms":            float64(3),
			"floor":            float64(floor),
			"elevator":         false,
			"balcony":          true,
			"energyClass":      "B",
			"metroDistanceMin": float64(5),
		},
	}
	mc := ComputeMustCover(facts, langIT)

	wantRequired := []string{
		"situato a Milano",
		"superficie 60 m²",
		"3 locali",
		"al piano 0, senza ascensore",
	}
	if len(mc.Required) != len(wantRequired) {
		t.Fatalf("required = %v, want %v", mc.Required, wantRequired)
	}
	for i, want := range wantRequired {
		if mc.Required[i] != want {
			t.Errorf("required[%d] = %q, want %q", i, mc.Required[i], want)
		}
	}

	wantOptional := []string{
		"balcone",
		"classe energetica B",
		"metro a 5 minuti a piedi",
	}
	if len(mc.Optional) != len(wantOptional) {
		t.Fatalf("optional = %v, want %v", mc.Optional, wantOptional)
	}
	for i, want := range wantOptional {
		if mc.Optional[i] != want {
			t.Errorf("optional[%d] = %q, want %q", i, mc.Optional[i], want)
		}
	}
	if mc.Total() != 7 {
		t.Errorf("total = %d, want 7", mc.Total())
	}
}

func TestComputeMustCoverCombinedItems(t *testing.T) {
	mc := ComputeMustCover(ListingFacts{Fields: map[string]any{
		"rooms":            float64(4),
		"bedrooms":         float64(2),
		"bathrooms":        float64(2),
		"balcony":          true,
		"garden":           true,
		"metroDistanceMin": float64(5),
		"shopsDistanceMin": float64(3),
	}}, langIT)

	if len(mc.Required) != 1 || mc.Required[0] != "4 locali, 2 camere da letto, 2 bagni" {
		t.Errorf("required = %v, want one combined layout item", mc.Required)
	}
	wantOptional := []string{
		"balcone, giardino",
		"metro a 5 minuti a piedi, negozi a 3 minuti",
	}
	if len(mc.Optional) != len(wantOptional) {
		t.Fatalf("optional = %v, want %v", mc.Optional, wantOptional)
	}
	for i, want := range wantOptional {
		if mc.Optional[i] != want {
			t.Errorf("optional[%d] = %q, want %q", i, mc.Optional[i], want)
		}
	}
}

func TestComputeMustCoverElevatorNeedsFloor(t *testing.T) {
	mc := ComputeMustCover(ListingFacts{Fields: map[string]any{
		"elevator": true,
	}}, langIT)
	if mc.Total() != 0 {
		t.Errorf("must-cover = %v, want none without a floor", mc)
	}
}

func TestComputeMustCoverEmptyFields(t *testing.T) {
	mc := ComputeMustCover(ListingFacts{Fields: map[string]any{}}, langIT)
	if mc.Total() != 0 {
		t.Errorf("total = %d, want 0 for empty fields", mc.Total())
	}
}

func TestComputeMustCoverDistrict(t *testing.T) {
	mc := ComputeMustCover(ListingFacts{Fields: map[string]any{
		"city":     "Milano",
		"district": "Porta Romana",
	}}, langIT)
	if len(mc.Required) != 1 || mc.Required[0] != "situato a Milano, zona Porta Romana" {
		t.Errorf("required = %v", mc.Required)
	}
}

func TestLanguageFromLocale(t *testing.T) {
	cases := []struct {
		locale string
		want   language
	}{
		{"it-IT", langIT},
		{"ru-RU", langRU},
		{"en-US", langEN},
		{"en", langEN},
		{"fr-FR", langIT},
		{"", langIT},
	}
	for _, tc := range cases {
		if got := languageFromLocale(tc.locale); got != tc.want {
			t.Errorf("languageFromLocale(%q) = %q, want %q", tc.locale, got, tc.want)
		}
	}
}
