// Package recipe turns a raw completion into a ParsedRecipe: the first line is
// the dish name, the rest is the body, and every body line is tagged as a
// section header or plain content.
package recipe

import (
	"strings"

	"github.com/hammamikhairi/aichef/internal/domain"
)

// Placeholder titles for completions whose first line is blank.
const (
	// DefaultTitle is used when re-displaying stored history.
	DefaultTitle = "Untitled Recipe"
	// GeneratedTitle is used for a fresh generation.
	GeneratedTitle = "Untitled Delight"
)

// HeaderLabels is the closed vocabulary of section labels. A body line is a
// header when it starts with one of these followed directly by a colon.
var HeaderLabels = []string{
	"Ingredients",
	"Instructions",
	"Prep Time",
	"Total Time",
	"Servings",
	"Notes",
}

// Option configures Parse.
type Option func(*parser)

// WithPlaceholder overrides the title used when the first line is blank.
func WithPlaceholder(title string) Option {
	return func(p *parser) { p.placeholder = title }
}

// WithClassifier swaps the header vocabulary.
func WithClassifier(c *Classifier) Option {
	return func(p *parser) { p.classifier = c }
}

type parser struct {
	placeholder string
	classifier  *Classifier
}

var defaultClassifier = NewClassifier(HeaderLabels...)

// Parse splits raw into title and body and classifies the body lines.
// It never fails: an empty completion yields the placeholder title and an
// empty body.
func Parse(raw string, opts ...Option) domain.ParsedRecipe {
	p := parser{placeholder: DefaultTitle, classifier: defaultClassifier}
	for _, o := range opts {
		o(&p)
	}

	lines := strings.Split(raw, "\n")

	title := strings.TrimSpace(lines[0])
	if title == "" {
		title = p.placeholder
	}
	body := strings.TrimSpace(strings.Join(lines[1:], "\n"))

	return domain.ParsedRecipe{
		Title: title,
		Body:  body,
		Lines: p.classifier.Classify(body),
	}
}

// Classify tags each line of text with the default vocabulary.
func Classify(text string) []domain.LineRecord {
	return defaultClassifier.Classify(text)
}

// IsHeader reports whether line is a section header in the default vocabulary.
func IsHeader(line string) bool {
	return defaultClassifier.IsHeader(line)
}

// Classifier recognises section header lines.
type Classifier struct {
	prefixes []string // "label:"
}

// NewClassifier builds a classifier for the given labels, matched
// case-insensitively in the order given.
func NewClassifier(labels ...string) *Classifier {
	c := &Classifier{prefixes: make([]string, 0, len(labels))}
	for _, l := range labels {
		l = strings.TrimSpace(l)
		if l == "" {
			continue
		}
		c.prefixes = append(c.prefixes, l+":")
	}
	return c
}

// IsHeader reports whether the trimmed line starts with a known label and a colon.
func (c *Classifier) IsHeader(line string) bool {
	s := strings.TrimSpace(line)
	for _, p := range c.prefixes {
		if len(s) >= len(p) && strings.EqualFold(s[:len(p)], p) {
			return true
		}
	}
	return false
}

// Classify splits text on newlines and tags every line. Text and order are
// kept exactly; an empty text yields no lines.
func (c *Classifier) Classify(text string) []domain.LineRecord {
	if text == "" {
		return nil
	}
	raw := strings.Split(text, "\n")
	out := make([]domain.LineRecord, len(raw))
	for i, line := range raw {
		out[i] = domain.LineRecord{Text: line, IsHeader: c.IsHeader(line)}
	}
	return out
}
