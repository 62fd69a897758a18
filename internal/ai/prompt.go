package ai

import (
	"encoding/json"
	"fmt"
	"strings"

	"github.com/casalabia/realtor-backend/internal/clients/openai"
)

// developerContract pins the exact JSON shape the model must return. It is
// language-independent and shared by the initial and refine passes.
const developerContract = `Return a single JSON object with exactly these fields:
{
  "title": "string, max 100 characters",
  "summary": "string, 1-2 sentences",
  "description": "string, exactly 5 paragraphs separated by blank lines, in this order: introduction, interior, exterior/amenities, area/location, terms/call-to-action",
  "highlights": ["3 to 10 short bullet points, max 7 words each"],
  "disclaimer": "string, a short legal disclaimer",
  "seo": {
    "keywords": ["up to 8 search keywords"],
    "metaDescription": "string, max 160 characters"
  }
}
Do not wrap the object in markdown fences. Do not add fields.`

// BuildInitialMessages assembles the ordered message list for a first draft:
// system (language, tone, length, hard rules), developer contract, one
// few-shot exchange in the target language, and the user block carrying
// facts, content plan and must-cover lists.
func BuildInitialMessages(facts ListingFacts, req GenerationRequest, plan ContentPlan, cover MustCover) []openai.Message {
	req = req.withDefaults()
	lang := languageFromLocale(req.Locale)

	system := T(lang, "system.prompt",
		T(lang, "tone."+string(req.Tone)),
		T(lang, "length."+string(req.Length)))

	user := T(lang, "user.prompt",
		renderFacts(facts),
		renderPlan(plan),
		renderPhrases(cover.Required),
		renderPhrases(cover.Optional))

	msgs := []openai.Message{
		{Role: "system", Content: system},
		{Role: "developer", Content: developerContract},
	}
	msgs = append(msgs, fewShot(lang)...)
	msgs = append(msgs, openai.Message{Role: "user", Content: user})
	return msgs
}

// BuildRefineMessages assembles the second-pass message list: the current
// draft plus the facts the scorer still reports as missing.
func BuildRefineMessages(draft Draft, req GenerationRequest, plan ContentPlan, missing []string) []openai.Message {
	req = req.withDefaults()
	lang := languageFromLocale(req.Locale)

	draftJSON, _ := json.MarshalIndent(draft, "", "  ")
	user := T(lang, "refine.user",
		string(draftJSON),
		renderPlan(plan),
		renderPhrases(missing))

	return []openai.Message{
		{Role: "system", Content: T(lang, "refine.prompt")},
		{Role: "developer", Content: developerContract},
		{Role: "user", Content: user},
	}
}

func renderFacts(facts ListingFacts) string {
	payload := map[string]any{
		"type":         facts.Type,
		"propertyType": facts.PropertyType,
	}
	if facts.Title != "" {
		payload["title"] = facts.Title
	}
	if facts.Price != nil {
		payload["price"] = *facts.Price
	}
	for k, v := range facts.Fields {
		payload[k] = v
	}
	out, err := json.MarshalIndent(payload, "", "  ")
	if err != nil {
		return fmt.Sprintf("%v", payload)
	}
	return string(out)
}

func renderPlan(plan ContentPlan) string {
	parts := make([]string, 0, len(plan.Sections))
	for _, s := range plan.Sections {
		parts = append(parts, fmt.Sprintf("- %s: ~%d", s.Name, s.Words))
	}
	return strings.Join(parts, "\n")
}

func renderPhrases(phrases []string) string {
	if len(phrases) == 0 {
		return "- (nessuno)"
	}
	parts := make([]string, 0, len(phrases))
	for _, p := range phrases {
		parts = append(parts, "- "+p)
	}
	return strings.Join(parts, "\n")
}

// fewShot returns one compact example exchange per language so the model
// anchors on format before seeing the real facts.
func fewShot(lang language) []openai.Message {
	example, ok := fewShotExamples[lang]
	if !ok {
		example = fewShotExamples[langIT]
	}
	return []openai.Message{
		{Role: "user", Content: example.request},
		{Role: "assistant", Content: example.response},
	}
}

type fewShotPair struct {
	request  string
	response string
}

var fewShotExamples = map[language]fewShotPair{
	langIT: {
		request: `Esempio. DATI PROPRIETÀ: {"type":"SALE","propertyType":"bilocale","city":"Torino","squareMeters":55,"rooms":2}`,
		response: `{"title":"Bilocale funzionale nel centro di Torino","summary":"Bilocale di 55 m² a Torino, con 2 locali ben distribuiti.","description":"Questo bilocale in vendita a Torino offre una soluzione pratica.\n\nI 2 locali interni sono distribuiti su una superficie di 55 m².\n\nL'edificio dispone di spazi comuni ordinati.\n\nLa zona offre servizi di quartiere a breve distanza.\n\nContattaci per organizzare una visita.","highlights":["55 m² ben distribuiti","2 locali funzionali","Posizione centrale a Torino"],"disclaimer":"Le informazioni sono indicative e non costituiscono vincolo contrattuale.","seo":{"keywords":["bilocale Torino","vendita bilocale"],"metaDescription":"Bilocale di 55 m² in vendita a Torino, 2 locali in posizione centrale."}}`,
	},
	langRU: {
		request: `Пример. ДАННЫЕ ОБЪЕКТА: {"type":"SALE","propertyType":"bilocale","city":"Турин","squareMeters":55,"rooms":2}`,
		response: `{"title":"Функциональная двухкомнатная квартира в центре Турина","summary":"Квартира площадью 55 м² в Турине, 2 комнаты с удобной планировкой.","description":"Эта квартира на продажу в Турине предлагает практичное решение.\n\n2 комнаты распределены на площади 55 м².\n\nВ здании ухоженные общие зоны.\n\nРайон предлагает все необходимые сервисы поблизости.\n\nСвяжитесь с нами, чтобы организовать просмотр.","highlights":["55 м² удобной планировки","2 функциональные комнаты","Центральное расположение"],"disclaimer":"Информация носит ориентировочный характер и не является договорным обязательством.","seo":{"keywords":["квартира Турин","продажа квартиры"],"metaDescription":"Квартира 55 м² на продажу в Турине, 2 комнаты в центре города."}}`,
	},
	langEN: {
		request: `Example. PROPERTY DATA: {"type":"SALE","propertyType":"bilocale","city":"Turin","squareMeters":55,"rooms":2}`,
		response: `{"title":"Functional two-room apartment in central Turin","summary":"A 55 m² apartment in Turin with 2 well-arranged rooms.","description":"This apartment for sale in Turin offers a practical solution.\n\nThe 2 rooms are laid out over an area of 55 m².\n\nThe building has tidy common areas.\n\nThe neighborhood offers everyday services within short reach.\n\nContact us to arrange a viewing.","highlights":["55 m² well arranged","2 functional rooms","Central Turin location"],"disclaimer":"The information is indicative and does not constitute a contractual obligation.","seo":{"keywords":["apartment Turin","apartment for sale"],"metaDescription":"55 m² apartment for sale in Turin, 2 rooms in a central location."}}`,
	},
}
