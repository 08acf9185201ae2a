package query

import (
	"strings"
)

// Trigger lexicon: a message containing any of these phrases is sent through
// web retrieval.
var russianTriggers = []string{
	// Interrogative phrases
	"что такое", "кто такой", "кто такая", "где находится", "когда",
	"какой", "какая", "какие", "сколько", "почему", "зачем",

	// Recency markers
	"последние новости", "актуальная информация", "новости",
	"последние события", "что нового", "свежие новости",
	"сегодня", "вчера", "недавно", "в этом году", "в этом месяце",

	// Explicit search verbs
	"поиск", "найди", "найди информацию", "расскажи о",
	"информация о", "узнай", "проверь", "погугли",

	// Current-state markers
	"кто сейчас", "кто является", "кто занимает", "кто возглавляет",
	"текущий", "сейчас", "на данный момент", "в настоящее время",
	"актуальный", "современный",

	// Factual markers
	"факты о", "статистика", "данные о", "цифры",
	"победитель", "лидер", "чемпион", "рекорд",

	// People and events
	"биография", "история", "достижения", "карьера",
}

var englishTriggers = []string{
	"what is", "who is", "where is", "when", "how",
	"latest news", "current", "today", "recent",
	"search for", "find", "tell me about", "information about",
	"who won", "winner", "champion", "latest",
}

// Question words checked against the first two tokens of short questions.
var questionWords = map[string]bool{
	"кто": true, "что": true, "где": true, "когда": true,
	"почему": true, "как": true, "какой": true,
	"who": true, "what": true, "where": true, "when": true,
	"why": true, "how": true, "which": true,
}

// NeedsRetrieval reports whether a message should be grounded with web
// search results before generation. Pure and deterministic; a heuristic
// gate, so both false positives and false negatives are expected.
func NeedsRetrieval(text string) bool {
	lower := strings.ToLower(text)

	for _, phrase := range russianTriggers {
		if strings.Contains(lower, phrase) {
			return true
		}
	}
	for _, phrase := range englishTriggers {
		if strings.Contains(lower, phrase) {
			return true
		}
	}

	// Short message with a question mark, opening with a question word:
	// likely a simple factual question.
	if strings.Contains(text, "?") && len(strings.Fields(text)) < 15 {
		words := strings.Fields(lower)
		if len(words) > 2 {
			words = words[:2]
		}
		for _, w := range words {
			if questionWords[w] {
				return true
			}
		}
	}

	return false
}
