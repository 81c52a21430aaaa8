package recipe

import (
	"strings"
	"testing"
)

func TestParseTitleAndBody(t *testing.T) {
	tests := []struct {
		name      string
		raw       string
		wantTitle string
		wantBody  string
	}{
		{"single line", "Omelette", "Omelette", ""},
		{"trimmed title", "   Garlic Pasta  \nIngredients:", "Garlic Pasta", "Ingredients:"},
		{"blank title", "   \nIngredients:\n- Eggs", DefaultTitle, "Ingredients:\n- Eggs"},
		{"empty input", "", DefaultTitle, ""},
		{"body trimmed at ends only", "Soup\n\n  Ingredients:\n\n- Water\n\n", "Soup", "Ingredients:\n\n- Water"},
		{"crlf title", "Toast\r\nNotes: crisp", "Toast", "Notes: crisp"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Parse(tt.raw)
			if got.Title != tt.wantTitle {
				t.Errorf("title = %q, want %q", got.Title, tt.wantTitle)
			}
			if got.Body != tt.wantBody {
				t.Errorf("body = %q, want %q", got.Body, tt.wantBody)
			}
		})
	}
}

func TestParsePlaceholderOverride(t *testing.T) {
	got := Parse("\n\nServings: 2", WithPlaceholder(GeneratedTitle))
	if got.Title != GeneratedTitle {
		t.Fatalf("title = %q, want %q", got.Title, GeneratedTitle)
	}
}

func TestIsHeader(t *testing.T) {
	tests := []struct {
		line string
		want bool
	}{
		{"Ingredients:", true},
		{"ingredients: eggs", true},
		{"  INSTRUCTIONS:", true},
		{"Prep Time: 10 minutes", true},
		{"total time:45 min", true},
		{"Servings: 4", true},
		{"Notes:", true},
		{"My Ingredients list", false},
		{"Ingredients", false},
		{"Ingredients :", false},
		{"- Notes: none", false},
		{"**Ingredients:**", false},
		{"Cook Time: 5", false},
		{"", false},
	}

	for _, tt := range tests {
		t.Run(tt.line, func(t *testing.T) {
			if got := IsHeader(tt.line); got != tt.want {
				t.Errorf("IsHeader(%q) = %v, want %v", tt.line, got, tt.want)
			}
		})
	}
}

func TestClassifierCustomVocabulary(t *testing.T) {
	c := NewClassifier(append(append([]string{}, HeaderLabels...), "Cook Time", " ")...)
	if !c.IsHeader("cook time: 5 min") {
		t.Fatal("expected extended label to match")
	}
	if c.IsHeader(": stray colon") {
		t.Fatal("blank label must be ignored")
	}
}

func TestParseEndToEnd(t *testing.T) {
	raw := "Garlic Pasta\nIngredients:\n- Pasta\n- Garlic\n\nInstructions:\n1. Boil.\n2. Mix."
	got := Parse(raw)

	if got.Title != "Garlic Pasta" {
		t.Fatalf("title = %q", got.Title)
	}
	if !strings.HasPrefix(got.Body, "Ingredients:") {
		t.Fatalf("body should start with Ingredients:, got %q", got.Body)
	}

	want := []struct {
		text   string
		header bool
	}{
		{"Ingredients:", true},
		{"- Pasta", false},
		{"- Garlic", false},
		{"", false},
		{"Instructions:", true},
		{"1. Boil.", false},
		{"2. Mix.", false},
	}
	if len(got.Lines) != len(want) {
		t.Fatalf("got %d lines, want %d", len(got.Lines), len(want))
	}
	for i, w := range want {
		if got.Lines[i].Text != w.text || got.Lines[i].IsHeader != w.header {
			t.Errorf("line %d = %+v, want {%q %v}", i, got.Lines[i], w.text, w.header)
		}
	}
}

func TestParseIdempotent(t *testing.T) {
	inputs := []string{
		"Garlic Pasta\nIngredients:\n- Pasta\n\nInstructions:\n1. Boil.",
		"  Stew \n\n\nNotes: slow\n  ",
		"Just a title",
		"Tacos\r\nServings: 2\r\n",
	}
	for _, in := range inputs {
		first := Parse(in)
		again := Parse(first.Title + "\n" + first.Body)
		if again.Title != first.Title || again.Body != first.Body {
			t.Errorf("reparse of %q changed result: %+v -> %+v", in, first, again)
		}
	}
}

func TestParseDeterministic(t *testing.T) {
	raw := "Chili\nTotal Time: 40 min\n- Beans"
	a, b := Parse(raw), Parse(raw)
	if a.Title != b.Title || a.Body != b.Body || len(a.Lines) != len(b.Lines) {
		t.Fatalf("parse is not deterministic: %+v vs %+v", a, b)
	}
	for i := range a.Lines {
		if a.Lines[i] != b.Lines[i] {
			t.Fatalf("line %d differs: %+v vs %+v", i, a.Lines[i], b.Lines[i])
		}
	}
}

func TestSummarize(t *testing.T) {
	long := strings.Repeat("a", 60)
	s := Summarize(domainEntry("id-1", "Frittata\nServings: 2", long))
	if s.Title != "Frittata" {
		t.Fatalf("title = %q", s.Title)
	}
	if s.Ingredients != strings.Repeat("a", 50)+"..." {
		t.Fatalf("preview = %q", s.Ingredients)
	}
	if got := Preview("eggs", 50); got != "eggs" {
		t.Fatalf("short preview changed: %q", got)
	}
	if got := Summarize(domainEntry("id-2", "", "eggs")).Title; got != DefaultTitle {
		t.Fatalf("empty raw text title = %q", got)
	}
}
