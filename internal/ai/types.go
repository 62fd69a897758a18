package ai

import (
	"github.com/google/uuid"

	"github.com/casalabia/realtor-backend/internal/types"
)

type Tone string

const (
	ToneProfessional Tone = "professionale"
	ToneInformal     Tone = "informale"
	TonePremium      Tone = "premium"
)

type Length string

const (
	LengthShort  Length = "short"
	LengthMedium Length = "medium"
	LengthLong   Length = "long"
)

// GenerationRequest carries the caller's locale/tone/length choices.
// Missing or unknown values fall back to it-IT / professionale / medium.
type GenerationRequest struct {
	Locale string `json:"locale"`
	Tone   Tone   `json:"tone"`
	Length Length `json:"length"`
}

func (r GenerationRequest) withDefaults() GenerationRequest {
	if r.Locale == "" {
		r.Locale = "it-IT"
	}
	switch r.Tone {
	case ToneProfessional, ToneInformal, TonePremium:
	default:
		r.Tone = ToneProfessional
	}
	switch r.Length {
	case LengthShort, LengthMedium, LengthLong:
	default:
		r.Length = LengthMedium
	}
	return r
}

// ListingFacts is the read-only slice of a listing the pipeline consumes.
type ListingFacts struct {
	ID           uuid.UUID
	Type         types.ListingType
	PropertyType string
	Title        string
	Price        *float64
	Fields       map[string]any
}

func FactsFromListing(l *types.Listing) ListingFacts {
	fields := map[string]any{}
	for k, v := range l.UserFields {
		fields[k] = v
	}
	return ListingFacts{
		ID:           l.ID,
		Type:         l.Type,
		PropertyType: l.PropertyType,
		Title:        l.Title,
		Price:        l.Price,
		Fields:       fields,
	}
}

// ContentPlan assigns a target word count to each of the five description
// sections, in order.
type PlanSection struct {
	Name  string
	Words int
}

type ContentPlan struct {
	Sections [5]PlanSection
}

func (p ContentPlan) TotalWords() int {
	total := 0
	for _, s := range p.Sections {
		total += s.Words
	}
	return total
}

// MustCover lists the fact phrases the description should mention, split
// into required (field exists on the listing) and optional.
type MustCover struct {
	Required []string
	Optional []string
}

func (m MustCover) Total() int {
	return len(m.Required) + len(m.Optional)
}

type SEO struct {
	Keywords        []string `json:"keywords"`
	MetaDescription string   `json:"metaDescription"`
}

// Draft is the work-in-progress generation result threaded through
// parsing, scoring, refinement and sanitization.
type Draft struct {
	Title       string   `json:"title"`
	Summary     string   `json:"summary"`
	Description string   `json:"description"`
	Highlights  []string `json:"highlights"`
	Disclaimer  string   `json:"disclaimer"`
	SEO         SEO      `json:"seo"`
}

// QualityMetrics is recomputed after every draft/refine pass and never
// persisted.
type QualityMetrics struct {
	Coverage       float64
	StructureValid bool
	ParagraphCount int
	HighlightCount int
	Missing        []string
}
