package analysis

import (
	"strings"
	"testing"
	"unicode/utf8"
)

func words(n int) string {
	parts := make([]string, n)
	for i := range parts {
		parts[i] = "clause"
	}
	return strings.Join(parts, " ")
}

func TestAnalyzeEmpty(t *testing.T) {
	got := Analyze("")
	if got.WordCount != 0 {
		t.Fatalf("expected 0 words, got %d", got.WordCount)
	}
	if got.Summary != "" {
		t.Fatalf("expected empty summary, got %q", got.Summary)
	}
	if got.Health != Unhealthy {
		t.Fatalf("expected Unhealthy, got %s", got.Health)
	}
}

func TestAnalyzeWordCount(t *testing.T) {
	tests := []struct {
		name string
		text string
		want int
	}{
		{name: "single", text: "contract", want: 1},
		{name: "runs of spaces", text: "  a   b\t\tc \n d  ", want: 4},
		{name: "only whitespace", text: " \t\n\r ", want: 0},
		{name: "unicode space", text: "a b c", want: 3},
		{name: "newlines", text: "party\nof the\nfirst part", want: 5},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Analyze(tt.text)
			if got.WordCount != tt.want {
				t.Fatalf("Analyze(%q).WordCount = %d, want %d", tt.text, got.WordCount, tt.want)
			}
			if again := Analyze(tt.text); again != got {
				t.Fatalf("expected deterministic result, got %+v then %+v", got, again)
			}
		})
	}
}

func TestHealthBoundary(t *testing.T) {
	if got := Analyze(words(200)).Health; got != Unhealthy {
		t.Fatalf("200 words: expected Unhealthy, got %s", got)
	}
	if got := Analyze(words(201)).Health; got != Healthy {
		t.Fatalf("201 words: expected Healthy, got %s", got)
	}
}

func TestSummaryLength(t *testing.T) {
	tests := []struct {
		name string
		text string
		want int
	}{
		{name: "short", text: "short text", want: 10},
		{name: "exact", text: strings.Repeat("x", 300), want: 300},
		{name: "long", text: strings.Repeat("y", 1000), want: 300},
		{name: "multibyte", text: strings.Repeat("é", 400), want: 300},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Analyze(tt.text).Summary
			if n := utf8.RuneCountInString(got); n != tt.want {
				t.Fatalf("expected summary of %d characters, got %d", tt.want, n)
			}
			if !strings.HasPrefix(tt.text, got) {
				t.Fatalf("summary is not a prefix of the source text")
			}
			if !utf8.ValidString(got) {
				t.Fatalf("summary is not valid UTF-8")
			}
		})
	}
}

func TestSummaryIsNotWordSafe(t *testing.T) {
	text := strings.Repeat("a", 298) + " contract"
	got := Summarize(text)
	if !strings.HasSuffix(got, " c") {
		t.Fatalf("expected raw cut mid-word, got suffix %q", got[len(got)-5:])
	}
}

func TestNormalizeRederivesHealth(t *testing.T) {
	r := Result{WordCount: 500, Summary: "x"}
	if r.Consistent() {
		t.Fatalf("expected missing health to be inconsistent")
	}
	n := r.Normalize()
	if n.Health != Healthy || !n.Consistent() {
		t.Fatalf("expected Healthy after normalize, got %+v", n)
	}
}

func TestEvaluate(t *testing.T) {
	v := Evaluate(Result{WordCount: 201})
	if v.Health != Healthy || v.Message != healthyMessage {
		t.Fatalf("unexpected healthy verdict: %+v", v)
	}
	v = Evaluate(Result{WordCount: 3, Health: Healthy})
	if v.Health != Unhealthy || v.Message != unhealthyMessage {
		t.Fatalf("expected verdict to ignore stale health, got %+v", v)
	}
}
