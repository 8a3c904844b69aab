package prompt

import (
	"strings"
	"testing"
)

const sampleContext = "\n=== FILTERED DATA ===\nrow one\nrow two\n=== END DATA ===\n"

func TestComposeSubstitutesPlaceholder(t *testing.T) {
	persona := "You are the site document controller for project X.\nReference data:\n{{CONTEXT}}\nAlways cite row numbers."
	out := Compose("Tracker", persona, sampleContext)

	if strings.Contains(out, ContextPlaceholder) {
		t.Fatal("placeholder was not substituted")
	}
	if !strings.Contains(out, "row one") {
		t.Fatal("context missing from composed prompt")
	}
	if !strings.Contains(out, "Always cite row numbers.") {
		t.Fatal("operator text after placeholder was lost")
	}
}

func TestComposeAppendsContextWithoutPlaceholder(t *testing.T) {
	persona := "You are the site document controller for project X. Answer precisely."
	out := Compose("Tracker", persona, sampleContext)

	if !strings.HasPrefix(out, persona) {
		t.Fatal("operator persona must stay authoritative at the top")
	}
	if !strings.Contains(out, "primary reference material") {
		t.Fatal("missing directive for appended context")
	}
}

func TestComposeDefaultPersona(t *testing.T) {
	for _, persona := range []string{"", "short", "You are a professional AI assistant for everything"} {
		out := Compose("Tracker", persona, sampleContext)
		if !strings.Contains(out, "Tracker") {
			t.Fatalf("default persona should name the bot, got:\n%s", out)
		}
		if !strings.Contains(out, "NEVER HIDE ROWS") {
			t.Fatal("default persona missing the no-hidden-rows directive")
		}
		if !strings.Contains(out, "history") {
			t.Fatal("default persona missing the history-table directive")
		}
		if !strings.Contains(out, "row one") {
			t.Fatal("default persona missing the filtered context")
		}
	}
}

func TestComposeWithoutContext(t *testing.T) {
	persona := "You are the site document controller for project X with {{CONTEXT}} marker."
	out := Compose("Tracker", persona, "")
	if out != persona {
		t.Fatalf("persona without context should be returned as-is, got:\n%s", out)
	}
}

func TestComposeIsIdempotent(t *testing.T) {
	first := Compose("Tracker", "", sampleContext)
	for i := 0; i < 5; i++ {
		if got := Compose("Tracker", "", sampleContext); got != first {
			t.Fatal("identical inputs produced different output")
		}
	}
}
