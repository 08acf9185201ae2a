package search

import (
	"fmt"
	"strings"
)

// FormatResults renders aggregated results into the single deterministic
// context block handed to the generation backend. Pure: same input, same
// output.
func FormatResults(results []Result, query string) string {
	if len(results) == 0 {
		return fmt.Sprintf("Поиск по запросу '%s' не дал результатов.", query)
	}

	distinctSources := map[string]int{}
	for _, r := range results {
		source := r.Source
		if source == "" {
			source = "Unknown"
		}
		distinctSources[source]++
	}

	var sb strings.Builder
	fmt.Fprintf(&sb, "🔍 Результаты поиска по запросу '%s':\n", query)
	fmt.Fprintf(&sb, "Найдено: %d результатов с %d источников\n\n", len(results), len(distinctSources))

	for i, r := range results {
		title := r.Title
		if title == "" {
			title = "Без названия"
		}
		source := r.Source
		if source == "" {
			source = "Неизвестный источник"
		}
		snippet := r.Snippet
		if snippet == "" {
			snippet = "Нет описания"
		}

		fmt.Fprintf(&sb, "═══ Результат #%d ═══\n", i+1)
		fmt.Fprintf(&sb, "📌 %s\n", title)
		fmt.Fprintf(&sb, "🌐 Источник: %s\n", source)
		if r.URL != "" {
			fmt.Fprintf(&sb, "🔗 URL: %s\n", r.URL)
		}
		fmt.Fprintf(&sb, "📄 Описание:\n%s\n", snippet)

		if r.FullContent != "" {
			fmt.Fprintf(&sb, "\n📖 Полный текст (фрагмент):\n%s...\n", TruncateRunes(r.FullContent, FragmentMax))
		}

		sb.WriteString("\n")
	}

	fmt.Fprintf(&sb, "💡 Используй информацию из этих %d источников для ответа.\n", len(results))
	return sb.String()
}
