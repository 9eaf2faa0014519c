// Package legal serves the static legal-reference and emergency-services
// catalogs shown in the app. Content is maintained in Kazakh.
package legal

import (
	"sort"
	"strings"
)

// AllCategories is the pseudo-category matching every topic.
const AllCategories = "Барлығы"

// EmergencyNote accompanies the services directory in every response.
const EmergencyNote = "Тікелей қауіп болса, 112 нөміріне бірден хабарласыңыз"

// Topic is one legal-reference entry.
type Topic struct {
	ID          string `json:"id"`
	Category    string `json:"category"`
	Title       string `json:"title"`
	Description string `json:"description"`
}

// EmergencyService is one entry in the national emergency directory.
type EmergencyService struct {
	ID          string `json:"id"`
	Emoji       string `json:"emoji"`
	Number      string `json:"number"`
	Label       string `json:"label"`
	Description string `json:"description"`
	Priority    int    `json:"priority"`
}

var legalTopics = []Topic{
	{
		ID:          "constitutional-rights-emergency",
		Category:    "Конституциялық құқықтар",
		Title:       "Төтенше жағдайларда азаматтардың құқықтары",
		Description: "ҚР Конституциясы 15-бап",
	},
	{
		ID:          "medical-emergency-help",
		Category:    "Медициналық",
		Title:       "Төтенше медициналық көмек",
		Description: "Денсаулық сақтау туралы заң 88-бап",
	},
	{
		ID:          "state-protection-danger",
		Category:    "Жеке қауіпсіздік",
		Title:       "Қауіпті жағдайларда мемлекеттік қорғау",
		Description: "ҚР Азаматтық кодексі 9-тарау",
	},
	{
		ID:          "mandatory-reporting",
		Category:    "Жеке қауіпсіздік",
		Title:       "Төтенше қызметтерге хабарлау міндеті",
		Description: "ҚР ӘҚК 339-бап",
	},
	{
		ID:          "location-privacy",
		Category:    "Конституциялық құқықтар",
		Title:       "Жеке деректерді қорғау және орын ақпараты",
		Description: "Жеке деректер туралы заң 6-бап",
	},
	{
		ID:          "domestic-violence-protection",
		Category:    "Жеке қауіпсіздік",
		Title:       "Отбасылық зорлық-зомбылықтан қорғау",
		Description: "Отбасылық зорлық-зомбылық туралы заң",
	},
	{
		ID:          "police-interaction",
		Category:    "Полиция",
		Title:       "Полициямен өзара іс-қимыл",
		Description: "Полиция қызметі туралы заң 5-бап",
	},
	{
		ID:          "medical-confidentiality",
		Category:    "Медициналық",
		Title:       "Медициналық құпияны сақтау",
		Description: "Денсаулық сақтау туралы заң 91-бап",
	},
	{
		ID:          "civil-procedure-rights",
		Category:    "Конституциялық құқықтар",
		Title:       "Азаматтық сот ісін жүргізу құқықтары",
		Description: "ҚР Конституциясы 13-бап",
	},
	{
		ID:          "natural-disaster-actions",
		Category:    "Жеке қауіпсіздік",
		Title:       "Табиғи апаттар кезіндегі іс-қимылдар",
		Description: "Төтенше жағдайлар туралы заң",
	},
}

var emergencyServices = []EmergencyService{
	{ID: "ambulance", Emoji: "🚑", Number: "103", Label: "Жедел жәрдем", Description: "Шұғыл медициналық көмек", Priority: 1},
	{ID: "police", Emoji: "👮", Number: "102", Label: "Полиция", Description: "Қауіпсіздік және құқықтық көмек", Priority: 2},
	{ID: "fire", Emoji: "🚒", Number: "101", Label: "Өрт сөндіру", Description: "Өрт және құтқару қызметі", Priority: 3},
	{ID: "single-number", Emoji: "🆘", Number: "112", Label: "Бірыңғай нөмір", Description: "Бірыңғай шұғыл қызмет", Priority: 0},
}

// Topics returns the catalog filtered by category and free-text query.
// An empty or AllCategories category matches everything. The query is
// matched case-insensitively against title, description and category.
func Topics(category, query string) []Topic {
	out := make([]Topic, 0, len(legalTopics))
	normalized := strings.ToLower(strings.TrimSpace(query))

	for _, topic := range legalTopics {
		if category != "" && category != AllCategories && topic.Category != category {
			continue
		}
		if normalized != "" && !topicMatches(topic, normalized) {
			continue
		}
		out = append(out, topic)
	}
	return out
}

func topicMatches(topic Topic, normalized string) bool {
	return strings.Contains(strings.ToLower(topic.Title), normalized) ||
		strings.Contains(strings.ToLower(topic.Description), normalized) ||
		strings.Contains(strings.ToLower(topic.Category), normalized)
}

// Categories lists AllCategories plus every distinct topic category, in
// first-seen order.
func Categories() []string {
	out := []string{AllCategories}
	seen := map[string]bool{}
	for _, topic := range legalTopics {
		if seen[topic.Category] {
			continue
		}
		seen[topic.Category] = true
		out = append(out, topic.Category)
	}
	return out
}

// Services returns the emergency directory sorted by priority, the single
// national number first.
func Services() []EmergencyService {
	out := make([]EmergencyService, len(emergencyServices))
	copy(out, emergencyServices)
	sort.Slice(out, func(i, j int) bool { return out[i].Priority < out[j].Priority })
	return out
}
