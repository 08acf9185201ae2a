package query

import "strings"

// LanguageHint is a crude script-based guess about the query language.
type LanguageHint int

const (
	LangOther LanguageHint = iota
	LangCyrillic
)

// Query is an immutable per-request value pairing the message text with its
// language hint. Derived once per request.
type Query struct {
	Text string
	Lang LanguageHint
}

// Detect builds a Query from raw text. The hint is a code-point check for
// Cyrillic letters, not language identification.
func Detect(text string) Query {
	q := Query{Text: text, Lang: LangOther}
	for _, r := range strings.ToLower(text) {
		if (r >= 'а' && r <= 'я') || r == 'ё' {
			q.Lang = LangCyrillic
			break
		}
	}
	return q
}
