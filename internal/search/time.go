package search

import (
	"fmt"
	"time"
)

// CurrentTimeResult builds a pseudo-result carrying the current date and
// time, for feeding the formatter alongside web results.
func CurrentTimeResult(now time.Time) Result {
	return Result{
		Title: "Текущее время",
		Snippet: fmt.Sprintf(
			"Дата: %s\nВремя: %s\nДень недели: %s",
			now.Format("02.01.2006"),
			now.Format("15:04:05"),
			now.Weekday(),
		),
		URL:    "",
		Source: "System",
	}
}
