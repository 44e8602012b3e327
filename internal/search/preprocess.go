// Package search combines full-text and vector search results into a single
// ranked list using reciprocal rank fusion, and prepares a caller's query
// string for each of the two underlying indexes.
package search

import (
	"regexp"
	"strings"
)

// Mode selects how Preprocess normalizes a query string.
type Mode string

const (
	// ModeRaw passes the query through unchanged (trimmed only), for
	// callers that already know how to phrase a text-search query.
	ModeRaw Mode = "raw"

	// ModeKeywords extracts and normalizes keyword tokens, the right
	// default for natural-language-ish queries an agent would type.
	ModeKeywords Mode = "keywords"
)

// MaxKeywordTokens caps the number of tokens Preprocess keeps in
// ModeKeywords, per spec §4.5.
const MaxKeywordTokens = 12

// minKeywordTokenLength is the shortest token Preprocess keeps in
// ModeKeywords; anything shorter is noise (single letters, stray digits).
const minKeywordTokenLength = 3

// stopWords is the closed stop-word list removed in ModeKeywords.
var stopWords = map[string]bool{
	"the": true, "a": true, "an": true, "of": true, "to": true, "in": true,
	"on": true, "for": true, "is": true, "are": true, "was": true, "were": true,
	"be": true, "been": true, "being": true, "with": true, "and": true, "or": true,
	"but": true, "not": true, "that": true, "this": true, "these": true, "those": true,
	"it": true, "its": true, "as": true, "at": true, "by": true, "from": true,
	"into": true, "about": true, "than": true, "then": true, "so": true,
	"if": true, "do": true, "does": true, "did": true, "have": true, "has": true,
	"had": true, "will": true, "would": true, "can": true, "could": true,
	"should": true, "may": true, "might": true, "must": true, "all": true,
	"any": true, "some": true, "each": true, "how": true, "what": true,
	"when": true, "where": true, "which": true, "who": true, "why": true,
}

// tokenRegex matches runs of word characters and hyphens, keeping
// hyphenated terms intact while splitting on everything else (whitespace,
// punctuation, quotes).
var tokenRegex = regexp.MustCompile(`[a-zA-Z0-9_-]+`)

// Preprocess turns a raw query string into the form handed to the
// text-search leg. ModeRaw trims and returns query unchanged; ModeKeywords
// tokenizes, case-folds, strips stop words and short tokens, deduplicates
// while preserving first-seen order, caps at MaxKeywordTokens, and rejoins
// with spaces. An empty or all-stop-word query yields "" — callers should
// skip the text-search leg entirely in that case.
func Preprocess(query string, mode Mode) string {
	trimmed := strings.TrimSpace(query)
	if trimmed == "" {
		return ""
	}

	if mode == ModeRaw {
		return trimmed
	}

	seen := make(map[string]bool)
	var kept []string
	for _, raw := range tokenRegex.FindAllString(trimmed, -1) {
		token := strings.ToLower(strings.Trim(raw, "-"))
		if token == "" {
			continue
		}
		if len(token) < minKeywordTokenLength {
			continue
		}
		if stopWords[token] {
			continue
		}
		if seen[token] {
			continue
		}
		seen[token] = true
		kept = append(kept, token)
		if len(kept) >= MaxKeywordTokens {
			break
		}
	}

	return strings.Join(kept, " ")
}
