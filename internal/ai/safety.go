package ai

import (
	"regexp"
	"strings"

	"github.com/nurlan2209/undeme/pkg/enums"
)

// Disclaimer is appended to every assistant answer.
const Disclaimer = "Маңызды: бұл ақпарат жалпы сипатта, заңгерлік/медициналық кәсіби кеңесті алмастырмайды. Қауіп төнсе, 112 нөміріне дереу хабарласыңыз."

const escalationNotice = "Қауіп жоғары көрінеді. Дереу 112 нөміріне хабарласып, жалғыз қалмауға тырысыңыз."

type safetyTrigger struct {
	key string
	re  *regexp.Regexp
}

var safetyTriggers = []safetyTrigger{
	{key: "self_harm", re: regexp.MustCompile(`(?i)(өзіме\s*қол|suicide|kill myself|өз-өзіне)`)},
	{key: "violence", re: regexp.MustCompile(`(?i)(пышақ|қару|kill|өлтіремін|шабуыл)`)},
	{key: "detention", re: regexp.MustCompile(`(?i)(ұстады|задержание|detain|полиция)`)},
}

var contextDetectors = []struct {
	context enums.ChatContext
	re      *regexp.Regexp
}{
	{enums.ChatContextDetention, regexp.MustCompile(`(?i)(ұста|задерж|полиц|detain)`)},
	{enums.ChatContextMedical, regexp.MustCompile(`(?i)(қан|жара|medic|жедел|103)`)},
	{enums.ChatContextDomesticViolence, regexp.MustCompile(`(?i)(зорлық|violence|abuse|ұрды)`)},
	{enums.ChatContextLegal, regexp.MustCompile(`(?i)(заң|адвокат|court|сот)`)},
}

var safetyTemplates = map[enums.ChatContext][]string{
	enums.ChatContextDetention: {
		"1) Сабыр сақтаңыз, қарсылық көрсетпеңіз.",
		"2) Қызметкердің аты-жөні мен бөлімшесін нақтылаңыз.",
		"3) Ұстау себебін және құқықтарыңызды түсіндіруді талап етіңіз.",
		"4) Туысыңызға және адвокатқа хабарласу құқығын қолданыңыз.",
		"5) Құжаттарға оқымай қол қоймаңыз.",
	},
	enums.ChatContextMedical: {
		"1) Өмірге қауіп болса 112/103 нөміріне дереу қоңырау шалыңыз.",
		"2) Қауіпсіз ортаны қамтамасыз етіңіз.",
		"3) Естен тану/қан кету болса алғашқы көмек протоколын қолданыңыз.",
		"4) Симптомдар уақытын және дәрілерді жазып қойыңыз.",
	},
	enums.ChatContextDomesticViolence: {
		"1) Егер қауіп тікелей болса, 112-ге бірден хабарласыңыз.",
		"2) Қауіпсіз жерге ауысыңыз және сенімді адамға белгі беріңіз.",
		"3) Дәлелдерді сақтаңыз (скрин, фото, медициналық анықтама).",
		"4) Дағдарыс орталығы/сенім телефонына жүгініңіз.",
	},
	enums.ChatContextLegal: {
		"1) Оқиғаның нақты хронологиясын тіркеңіз.",
		"2) Куәгер контактілерін және материалдарды сақтаңыз.",
		"3) Ресми арыз беру үшін жергілікті органға жүгініңіз.",
		"4) Кәсіби заңгермен кеңесіңіз.",
	},
	enums.ChatContextGeneral: {
		"1) Дереу қауіп деңгейін бағалаңыз.",
		"2) Қауіп болса 112-ге хабарласыңыз.",
		"3) Локацияңызды жақын адамға жіберіңіз.",
		"4) Қауіпсіз маршрут пен шығу нүктесін таңдаңыз.",
	},
}

// SafeResult is the deterministic local answer used when no model is
// available, plus the detected context and flags reused by the model path.
type SafeResult struct {
	Text        string
	Context     enums.ChatContext
	SafetyFlags []string
}

// GenerateSafeResponse builds the template-based answer. A general context
// is refined by keyword detection; an explicit non-general context wins.
func GenerateSafeResponse(message string, context enums.ChatContext) SafeResult {
	resolved := context
	if resolved == "" || resolved == enums.ChatContextGeneral {
		resolved = detectContext(message)
	}

	steps, ok := safetyTemplates[resolved]
	if !ok {
		steps = safetyTemplates[enums.ChatContextGeneral]
	}
	flags := evaluateSafetyFlags(message)

	lines := make([]string, 0, len(steps)+3)
	if len(flags) > 0 {
		lines = append(lines, escalationNotice)
	}
	lines = append(lines, "Ұсынылатын қадамдар:")
	lines = append(lines, steps...)
	lines = append(lines, Disclaimer)

	return SafeResult{
		Text:        strings.Join(lines, "\n"),
		Context:     resolved,
		SafetyFlags: flags,
	}
}

func detectContext(message string) enums.ChatContext {
	for _, detector := range contextDetectors {
		if detector.re.MatchString(message) {
			return detector.context
		}
	}
	return enums.ChatContextGeneral
}

func evaluateSafetyFlags(message string) []string {
	flags := make([]string, 0, len(safetyTriggers))
	for _, trigger := range safetyTriggers {
		if trigger.re.MatchString(message) {
			flags = append(flags, trigger.key)
		}
	}
	return flags
}

var codeBlockRe = regexp.MustCompile("(?s)```.*?```")

func sanitizeModelText(text string) string {
	text = strings.ReplaceAll(text, "**", "")
	text = codeBlockRe.ReplaceAllString(text, "")
	return strings.TrimSpace(text)
}

// ComposeFinalResponse merges the model answer with the safety framing, or
// returns the local fallback when the model produced nothing.
func ComposeFinalResponse(modelText, fallbackText string, safetyFlags []string) string {
	if modelText == "" {
		return fallbackText
	}

	parts := make([]string, 0, 3)
	if len(safetyFlags) > 0 {
		parts = append(parts, escalationNotice)
	}
	parts = append(parts, sanitizeModelText(modelText), Disclaimer)
	return strings.Join(parts, "\n\n")
}
