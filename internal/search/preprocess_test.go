package search

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestPreprocess_RawModePassesThroughUnchanged(t *testing.T) {
	assert.Equal(t, "X", Preprocess("X", ModeRaw))
	assert.Equal(t, "parse config", Preprocess("parse config", ModeRaw))
}

func TestPreprocess_KeywordsModeRemovesStopWords(t *testing.T) {
	assert.Equal(t, "", Preprocess("the a an", ModeKeywords))
}

func TestPreprocess_KeywordsModeDropsShortTokens(t *testing.T) {
	assert.Equal(t, "", Preprocess("go ok", ModeKeywords))
	assert.Equal(t, "parse", Preprocess("parse ok", ModeKeywords))
}

func TestPreprocess_KeywordsModeLowercasesAndDeduplicates(t *testing.T) {
	assert.Equal(t, "parseconfig", Preprocess("ParseConfig parseconfig PARSECONFIG", ModeKeywords))
}

func TestPreprocess_KeywordsModeKeepsHyphenatedTermsIntact(t *testing.T) {
	assert.Equal(t, "rate-limiter", Preprocess("rate-limiter", ModeKeywords))
}

func TestPreprocess_KeywordsModeCapsAtTwelveTokens(t *testing.T) {
	q := "one two three four five six seven eight nine ten eleven twelve thirteen fourteen"
	got := Preprocess(q, ModeKeywords)
	assert.Len(t, strings.Fields(got), MaxKeywordTokens)
}

func TestPreprocess_EmptyQueryYieldsEmptyString(t *testing.T) {
	assert.Equal(t, "", Preprocess("   ", ModeKeywords))
	assert.Equal(t, "", Preprocess("", ModeRaw))
}
