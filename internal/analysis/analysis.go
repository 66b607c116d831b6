package analysis

import (
	"strings"
	"unicode/utf8"
)

const (
	// HealthyThreshold is the word count a contract must exceed to be Healthy.
	HealthyThreshold = 200
	// SummaryLength is the number of characters kept from the source text.
	SummaryLength = 300
)

// Health is the binary classification derived from a word count.
type Health string

const (
	Healthy   Health = "Healthy"
	Unhealthy Health = "Unhealthy"
)

// Valid reports whether h is one of the known classifications.
func (h Health) Valid() bool {
	return h == Healthy || h == Unhealthy
}

// Result is the outcome of analyzing one extracted document.
type Result struct {
	WordCount int    `json:"word_count"`
	Summary   string `json:"summary"`
	Health    Health `json:"contract_health"`
}

// Analyze computes the word count, summary and health of text.
func Analyze(text string) Result {
	wordCount := len(strings.Fields(text))
	return Result{
		WordCount: wordCount,
		Summary:   Summarize(text),
		Health:    HealthFor(wordCount),
	}
}

// HealthFor classifies a word count.
func HealthFor(wordCount int) Health {
	if wordCount > HealthyThreshold {
		return Healthy
	}
	return Unhealthy
}

// Summarize returns the first SummaryLength characters of text.
// Offsets are counted in runes so multi-byte characters are never split.
func Summarize(text string) string {
	if utf8.RuneCountInString(text) <= SummaryLength {
		return text
	}
	n := 0
	for i := range text {
		if n == SummaryLength {
			return text[:i]
		}
		n++
	}
	return text
}

// Normalize rederives Health from WordCount.
func (r Result) Normalize() Result {
	r.Health = HealthFor(r.WordCount)
	return r
}

// Consistent reports whether the stored health matches the word count.
func (r Result) Consistent() bool {
	return r.Health == HealthFor(r.WordCount)
}
