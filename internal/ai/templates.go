package ai

import (
	"fmt"
	"strings"
)

// language is the resolved two-letter generation language. Everything the
// pipeline renders for humans goes through the phrase table below, keyed by
// (language, template id), so each string exists exactly once per language.
type language string

const (
	langIT language = "it"
	langRU language = "ru"
	langEN language = "en"
)

func languageFromLocale(locale string) language {
	code := strings.ToLower(strings.SplitN(locale, "-", 2)[0])
	switch code {
	case "ru":
		return langRU
	case "en":
		return langEN
	default:
		return langIT
	}
}

// T renders a phrase for a language. Unknown ids render as the id itself,
// which makes a missing table entry obvious in output and in tests.
func T(lang language, id string, args ...any) string {
	table, ok := phrases[lang]
	if !ok {
		table = phrases[langIT]
	}
	tmpl, ok := table[id]
	if !ok {
		return id
	}
	if len(args) == 0 {
		return tmpl
	}
	return fmt.Sprintf(tmpl, args...)
}

var phrases = map[language]map[string]string{
	langIT: {
		// must-cover phrases
		"cover.city":          "situato a %v",
		"cover.city_district": "situato a %v, zona %v",
		"cover.area":          "superficie %v m²",
		"cover.rooms":         "%v locali",
		"cover.bedrooms":      "%v camere da letto",
		"cover.bathrooms":     "%v bagni",
		"cover.floor":         "al piano %v",
		"cover.elevator_yes":  "con ascensore",
		"cover.elevator_no":   "senza ascensore",
		"cover.balcony":       "balcone",
		"cover.terrace":       "terrazzo",
		"cover.garden":        "giardino",
		"cover.heating":       "riscaldamento %v",
		"cover.energy_class":  "classe energetica %v",
		"cover.dist_metro":    "metro a %v minuti a piedi",
		"cover.dist_park":     "parco a %v minuti",
		"cover.dist_shops":    "negozi a %v minuti",
		"cover.condo_fees":    "spese condominiali €%v al mese",

		// transaction wording
		"tx.sale":       "in vendita",
		"tx.rent":       "in affitto",
		"tx.sale_noun":  "vendita",
		"tx.rent_noun":  "affitto",
		"tx.sale_opp":   "di investimento",
		"tx.rent_opp":   "di locazione",
		"word.property": "immobile",

		// tone / length instructions for the system prompt
		"tone.professionale": "Usa un tono professionale, formale e competente",
		"tone.informale":     "Usa un tono amichevole, informale e colloquiale",
		"tone.premium":       "Usa un tono elegante, esclusivo e di lusso",
		"length.short":       "Mantieni le descrizioni concise e dirette",
		"length.medium":      "Usa descrizioni di lunghezza media, equilibrate",
		"length.long":        "Crea descrizioni dettagliate e approfondite",

		"system.prompt": `Sei un assistente AI specializzato nella creazione di annunci immobiliari professionali in italiano.

REGOLE GENERALI:
- Scrivi sempre in italiano fluente e naturale
- %s
- %s
- Non inventare informazioni non fornite: nessun indirizzo, marchio o materiale non presente nei dati
- Ogni paragrafo deve contenere almeno 2 fatti concreti tratti dai dati
- Usa un linguaggio inclusivo e rispettoso
- Vietate affermazioni discriminatorie, superlativi non verificabili, garanzie assolute e claim medici
- Concentrati sui vantaggi reali della proprietà

Rispondi sempre in formato JSON valido.`,

		"refine.prompt": `Sei un editor di annunci immobiliari in italiano. Ti viene fornita una bozza esistente.
Migliora la densità fattuale, rispetta i target di parole per sezione e includi i fatti mancanti indicati.
Non introdurre fatti nuovi non presenti nei dati della proprietà. Rispondi in formato JSON valido.`,

		"user.prompt": `Crea un annuncio immobiliare per questa proprietà:

DATI PROPRIETÀ:
%s

PIANO DEI CONTENUTI (parole per paragrafo, nell'ordine):
%s

FATTI DA MENZIONARE (obbligatori):
%s

FATTI DA MENZIONARE (se pertinenti):
%s

Usa queste informazioni per creare un annuncio attraente e professionale. Se alcuni dati sono limitati, concentrati su quelli disponibili senza inventare dettagli.`,

		"refine.user": `BOZZA ATTUALE:
%s

PIANO DEI CONTENUTI (parole per paragrafo, nell'ordine):
%s

FATTI ANCORA MANCANTI:
%s

Riscrivi la bozza includendo i fatti mancanti e rispettando i target di parole. Mantieni la struttura in 5 paragrafi.`,

		// fallback draft
		"fallback.title":       "%s %s",
		"fallback.summary":     "Interessante %s %s%s.",
		"fallback.price_at":    " a €%v",
		"fallback.p1":          "Questa proprietà rappresenta un'ottima opportunità %s.",
		"fallback.p2":          "Si tratta di un %s proposto %s, adatto a chi cerca una soluzione abitativa di qualità.",
		"fallback.p3":          "Gli ambienti offrono caratteristiche interessanti e spazi funzionali da verificare in visita.",
		"fallback.p4":          "La posizione consente di raggiungere i principali servizi della zona.",
		"fallback.p5":          "Contattaci per maggiori dettagli e per fissare una visita.",
		"fallback.h1":          "Posizione strategica",
		"fallback.h2":          "Caratteristiche interessanti",
		"fallback.h3":          "Buona opportunità",
		"fallback.meta":        "%s %s%s. Scopri di più.",
		"disclaimer":           "Le informazioni sono indicative e non costituiscono vincolo contrattuale. È necessario verificare tutti i dettagli prima della conclusione.",
	},
	langRU: {
		"cover.city":          "расположен в %v",
		"cover.city_district": "расположен в %v, район %v",
		"cover.area":          "площадь %v м²",
		"cover.rooms":         "%v комнат",
		"cover.bedrooms":      "%v спален",
		"cover.bathrooms":     "%v ванных",
		"cover.floor":         "этаж %v",
		"cover.elevator_yes":  "с лифтом",
		"cover.elevator_no":   "без лифта",
		"cover.balcony":       "балкон",
		"cover.terrace":       "терраса",
		"cover.garden":        "сад",
		"cover.heating":       "отопление: %v",
		"cover.energy_class":  "класс энергоэффективности %v",
		"cover.dist_metro":    "метро в %v минутах пешком",
		"cover.dist_park":     "парк в %v минутах",
		"cover.dist_shops":    "магазины в %v минутах",
		"cover.condo_fees":    "коммунальные платежи €%v в месяц",

		"tx.sale":       "на продажу",
		"tx.rent":       "в аренду",
		"tx.sale_noun":  "продажа",
		"tx.rent_noun":  "аренда",
		"tx.sale_opp":   "для инвестиций",
		"tx.rent_opp":   "для аренды",
		"word.property": "недвижимость",

		"tone.professionale": "Используйте профессиональный, формальный и компетентный тон",
		"tone.informale":     "Используйте дружелюбный, неформальный и разговорный тон",
		"tone.premium":       "Используйте элегантный, эксклюзивный и роскошный тон",
		"length.short":       "Делайте описания краткими и прямыми",
		"length.medium":      "Используйте описания средней длины, сбалансированные",
		"length.long":        "Создавайте детальные и углубленные описания",

		"system.prompt": `Вы - AI-ассистент, специализирующийся на создании профессиональных объявлений о недвижимости на русском языке.

ОБЩИЕ ПРАВИЛА:
- Всегда пишите на естественном русском языке
- %s
- %s
- Не придумывайте информацию, которая не предоставлена: никаких адресов, брендов или материалов, отсутствующих в данных
- Каждый абзац должен содержать минимум 2 конкретных факта из данных
- Используйте инклюзивный и уважительный язык
- Запрещены дискриминационные заявления, непроверяемые превосходные степени, абсолютные гарантии и медицинские утверждения
- Сосредоточьтесь на реальных преимуществах недвижимости

Всегда отвечайте в формате валидного JSON.`,

		"refine.prompt": `Вы - редактор объявлений о недвижимости на русском языке. Вам дан существующий черновик.
Улучшите фактическую плотность, соблюдайте целевое количество слов по разделам и включите указанные недостающие факты.
Не вводите новые факты, отсутствующие в данных объекта. Отвечайте в формате валидного JSON.`,

		"user.prompt": `Создайте объявление о недвижимости для этого объекта:

ДАННЫЕ ОБЪЕКТА:
%s

ПЛАН СОДЕРЖАНИЯ (слов на абзац, по порядку):
%s

ФАКТЫ ДЛЯ УПОМИНАНИЯ (обязательные):
%s

ФАКТЫ ДЛЯ УПОМИНАНИЯ (по возможности):
%s

Используйте эту информацию для создания привлекательного и профессионального объявления. Если данных мало, сосредоточьтесь на доступных, не выдумывая детали.`,

		"refine.user": `ТЕКУЩИЙ ЧЕРНОВИК:
%s

ПЛАН СОДЕРЖАНИЯ (слов на абзац, по порядку):
%s

ВСЁ ЕЩЁ ОТСУТСТВУЮЩИЕ ФАКТЫ:
%s

Перепишите черновик, включив недостающие факты и соблюдая целевое количество слов. Сохраните структуру из 5 абзацев.`,

		"fallback.title":    "%s %s",
		"fallback.summary":  "Интересная недвижимость: %s %s%s.",
		"fallback.price_at": " за €%v",
		"fallback.p1":       "Эта недвижимость представляет отличную возможность %s.",
		"fallback.p2":       "Объект типа %s предлагается %s и подойдёт тем, кто ищет качественное жилищное решение.",
		"fallback.p3":       "Помещения предлагают интересные характеристики и функциональные пространства, которые стоит оценить при просмотре.",
		"fallback.p4":       "Расположение позволяет легко добраться до основных сервисов района.",
		"fallback.p5":       "Свяжитесь с нами для получения подробностей и записи на просмотр.",
		"fallback.h1":       "Стратегическое расположение",
		"fallback.h2":       "Интересные характеристики",
		"fallback.h3":       "Хорошая возможность",
		"fallback.meta":     "%s %s%s. Узнать больше.",
		"disclaimer":        "Информация носит ориентировочный характер и не является договорным обязательством. Необходимо проверить все детали перед заключением.",
	},
	langEN: {
		"cover.city":          "located in %v",
		"cover.city_district": "located in %v, %v district",
		"cover.area":          "area of %v m²",
		"cover.rooms":         "%v rooms",
		"cover.bedrooms":      "%v bedrooms",
		"cover.bathrooms":     "%v bathrooms",
		"cover.floor":         "floor %v",
		"cover.elevator_yes":  "with elevator",
		"cover.elevator_no":   "no elevator",
		"cover.balcony":       "balcony",
		"cover.terrace":       "terrace",
		"cover.garden":        "garden",
		"cover.heating":       "%v heating",
		"cover.energy_class":  "energy class %v",
		"cover.dist_metro":    "metro %v minutes on foot",
		"cover.dist_park":     "park %v minutes away",
		"cover.dist_shops":    "shops %v minutes away",
		"cover.condo_fees":    "condo fees €%v per month",

		"tx.sale":       "for sale",
		"tx.rent":       "for rent",
		"tx.sale_noun":  "sale",
		"tx.rent_noun":  "rent",
		"tx.sale_opp":   "as an investment",
		"tx.rent_opp":   "as a rental",
		"word.property": "property",

		"tone.professionale": "Use a professional, formal and competent tone",
		"tone.informale":     "Use a friendly, informal and conversational tone",
		"tone.premium":       "Use an elegant, exclusive and luxury tone",
		"length.short":       "Keep descriptions concise and direct",
		"length.medium":      "Use medium-length, balanced descriptions",
		"length.long":        "Create detailed and in-depth descriptions",

		"system.prompt": `You are an AI assistant specialized in creating professional real estate listings in English.

GENERAL RULES:
- Always write in fluent and natural English
- %s
- %s
- Do not invent information not provided: no addresses, brands or materials absent from the data
- Every paragraph must contain at least 2 concrete facts from the data
- Use inclusive and respectful language
- Discriminatory statements, unverifiable superlatives, absolute guarantees and medical claims are forbidden
- Focus on real property advantages

Always respond in valid JSON format.`,

		"refine.prompt": `You are a real estate listing editor working in English. You are given an existing draft.
Improve factual density, honor the per-section word targets and include the missing facts listed.
Do not introduce new facts absent from the property data. Respond in valid JSON format.`,

		"user.prompt": `Create a real estate listing for this property:

PROPERTY DATA:
%s

CONTENT PLAN (words per paragraph, in order):
%s

FACTS TO MENTION (required):
%s

FACTS TO MENTION (when relevant):
%s

Use this information to create an attractive and professional listing. If some data is limited, focus on what is available without inventing details.`,

		"refine.user": `CURRENT DRAFT:
%s

CONTENT PLAN (words per paragraph, in order):
%s

FACTS STILL MISSING:
%s

Rewrite the draft including the missing facts and honoring the word targets. Keep the 5-paragraph structure.`,

		"fallback.title":    "%s %s",
		"fallback.summary":  "Interesting %s %s%s.",
		"fallback.price_at": " at €%v",
		"fallback.p1":       "This property represents an excellent opportunity %s.",
		"fallback.p2":       "The %s is offered %s and suits those seeking a quality housing solution.",
		"fallback.p3":       "The rooms offer interesting features and functional spaces worth assessing during a visit.",
		"fallback.p4":       "The location gives easy access to the main services of the area.",
		"fallback.p5":       "Contact us for further details and to arrange a viewing.",
		"fallback.h1":       "Strategic location",
		"fallback.h2":       "Interesting features",
		"fallback.h3":       "Good opportunity",
		"fallback.meta":     "%s %s%s. Learn more.",
		"disclaimer":        "The information is indicative and does not constitute a contractual obligation. All details must be verified before conclusion.",
	},
}
