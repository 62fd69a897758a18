package ai

import (
	"context"
	"encoding/json"
	"fmt"
	"math/rand"
	"strconv"
	"strings"
	"time"

	"github.com/casalabia/realtor-backend/internal/clients/openai"
	"github.com/casalabia/realtor-backend/internal/config"
	"github.com/casalabia/realtor-backend/internal/logger"
)

// DraftResult is what the draft endpoint returns: the sanitized draft plus
// everything the caller may want to show or log about how it was produced.
type DraftResult struct {
	DraftID  string         `json:"draftId"`
	Draft    Draft          `json:"draft"`
	Quality  QualityMetrics `json:"quality"`
	Warnings []string       `json:"warnings,omitempty"`
	Fallback bool           `json:"fallback"`
	Refined  bool           `json:"refined"`
	Model    string         `json:"model,omitempty"`
	Usage    *openai.Usage  `json:"usage,omitempty"`
}

// Generator runs the full draft pipeline: plan, prompt, completion, parse,
// score, optional refine, sanitize. Provider failures, rate limiting
// included, degrade to a deterministic fallback draft instead of erroring;
// the caller always gets a usable draft in the requested language.
type Generator interface {
	GenerateDraft(ctx context.Context, facts ListingFacts, req GenerationRequest) (*DraftResult, error)
}

type generator struct {
	log    *logger.Logger
	client openai.Client
	cfg    config.AIConfig
}

func NewGenerator(client openai.Client, cfg config.AIConfig, baseLog *logger.Logger) Generator {
	return &generator{
		log:    baseLog.With("service", "DraftGenerator"),
		client: client,
		cfg:    cfg,
	}
}

func (g *generator) GenerateDraft(ctx context.Context, facts ListingFacts, req GenerationRequest) (*DraftResult, error) {
	req = req.withDefaults()
	lang := languageFromLocale(req.Locale)
	draftID := newDraftID()
	start := time.Now()

	plan := ComputeContentPlan(req.Length)
	cover := ComputeMustCover(facts, lang)

	g.log.Info("Draft generation started",
		"draft_id", draftID, "listing_id", facts.ID,
		"locale", req.Locale, "tone", req.Tone, "length", req.Length,
		"must_cover", cover.Total())

	completion, err := g.client.Complete(ctx, BuildInitialMessages(facts, req, plan, cover), openai.ResponseFormatJSON)
	if err != nil {
		g.log.Warn("Provider unavailable - serving fallback draft", "draft_id", draftID, "error", err)
		return g.fallbackResult(draftID, facts, req, cover, start), nil
	}

	draft, err := parseDraft(completion.Content)
	if err != nil {
		g.log.Warn("Unparseable completion - serving fallback draft",
			"draft_id", draftID, "request_id", completion.RequestID, "error", err)
		return g.fallbackResult(draftID, facts, req, cover, start), nil
	}

	metrics := Score(draft, cover)
	refined := false

	if g.cfg.RefineEnabled && metrics.Coverage < g.cfg.QualityThreshold {
		draft, metrics, refined = g.refine(ctx, draftID, draft, metrics, req, plan, cover)
	}

	draft, warnings := Sanitize(draft, req.Length)
	for _, w := range warnings {
		g.log.Warn("Draft sanitization", "draft_id", draftID, "warning", w)
	}
	if metrics.Coverage < g.cfg.QualityThreshold {
		g.log.Warn("Draft below quality threshold",
			"draft_id", draftID, "coverage", metrics.Coverage,
			"threshold", g.cfg.QualityThreshold, "missing", metrics.Missing)
	}

	g.log.Info("Draft generation completed",
		"draft_id", draftID, "request_id", completion.RequestID,
		"elapsed", time.Since(start), "coverage", metrics.Coverage,
		"refined", refined, "fallback", false)

	return &DraftResult{
		DraftID:  draftID,
		Draft:    draft,
		Quality:  metrics,
		Warnings: warnings,
		Refined:  refined,
		Model:    completion.Model,
		Usage:    completion.Usage,
	}, nil
}

// refine runs one corrective pass. Any failure keeps the original draft; a
// refined draft replaces the original only when it scores at least as well.
func (g *generator) refine(ctx context.Context, draftID string, draft Draft, metrics QualityMetrics, req GenerationRequest, plan ContentPlan, cover MustCover) (Draft, QualityMetrics, bool) {
	completion, err := g.client.Complete(ctx, BuildRefineMessages(draft, req, plan, metrics.Missing), openai.ResponseFormatJSON)
	if err != nil {
		g.log.Warn("Refine pass failed - keeping original draft", "draft_id", draftID, "error", err)
		return draft, metrics, false
	}
	refined, err := parseDraft(completion.Content)
	if err != nil {
		g.log.Warn("Refine pass unparseable - keeping original draft",
			"draft_id", draftID, "request_id", completion.RequestID, "error", err)
		return draft, metrics, false
	}
	refinedMetrics := Score(refined, cover)
	if refinedMetrics.Coverage >= metrics.Coverage {
		return refined, refinedMetrics, true
	}
	g.log.Warn("Refine pass regressed coverage - keeping original draft",
		"draft_id", draftID, "original", metrics.Coverage, "refined", refinedMetrics.Coverage)
	return draft, metrics, false
}

func (g *generator) fallbackResult(draftID string, facts ListingFacts, req GenerationRequest, cover MustCover, start time.Time) *DraftResult {
	draft := FallbackDraft(facts, req)
	metrics := Score(draft, cover)
	g.log.Info("Draft generation completed",
		"draft_id", draftID, "elapsed", time.Since(start),
		"coverage", metrics.Coverage, "refined", false, "fallback", true)
	return &DraftResult{
		DraftID:  draftID,
		Draft:    draft,
		Quality:  metrics,
		Fallback: true,
	}
}

// parseDraft tolerates markdown fences around the JSON object; models add
// them even when told not to. Anything short of the full contract shape is
// an error, which the orchestrator turns into a fallback draft.
func parseDraft(content string) (Draft, error) {
	trimmed := strings.TrimSpace(content)
	if strings.HasPrefix(trimmed, "```") {
		trimmed = strings.TrimPrefix(trimmed, "```json")
		trimmed = strings.TrimPrefix(trimmed, "```")
		trimmed = strings.TrimSuffix(strings.TrimSpace(trimmed), "```")
		trimmed = strings.TrimSpace(trimmed)
	}
	var payload struct {
		Title       string   `json:"title"`
		Summary     string   `json:"summary"`
		Description string   `json:"description"`
		Highlights  []string `json:"highlights"`
		Disclaimer  string   `json:"disclaimer"`
		SEO         *SEO     `json:"seo"`
	}
	if err := json.Unmarshal([]byte(trimmed), &payload); err != nil {
		return Draft{}, fmt.Errorf("decode draft payload: %w", err)
	}
	switch {
	case payload.Title == "":
		return Draft{}, fmt.Errorf("draft payload missing title")
	case payload.Summary == "":
		return Draft{}, fmt.Errorf("draft payload missing summary")
	case payload.Description == "":
		return Draft{}, fmt.Errorf("draft payload missing description")
	case payload.Highlights == nil:
		return Draft{}, fmt.Errorf("draft payload missing highlights")
	case payload.Disclaimer == "":
		return Draft{}, fmt.Errorf("draft payload missing disclaimer")
	case payload.SEO == nil:
		return Draft{}, fmt.Errorf("draft payload missing seo block")
	}
	return Draft{
		Title:       payload.Title,
		Summary:     payload.Summary,
		Description: payload.Description,
		Highlights:  payload.Highlights,
		Disclaimer:  payload.Disclaimer,
		SEO:         *payload.SEO,
	}, nil
}

func newDraftID() string {
	const alphabet = "0123456789abcdefghijklmnopqrstuvwxyz"
	suffix := make([]byte, 9)
	for i := range suffix {
		suffix[i] = alphabet[rand.Intn(len(alphabet))]
	}
	return "draft_" + strconv.FormatInt(time.Now().UnixMilli(), 10) + "_" + string(suffix)
}
