package subject

import "strings"

// General is the fallback subject group for topics no rule matches.
const General = "General"

// Matcher decides whether a free-text topic belongs to a subject.
type Matcher interface {
	Match(topic string) bool
}

// MatcherFunc adapts a function to the Matcher interface.
type MatcherFunc func(topic string) bool

func (f MatcherFunc) Match(topic string) bool { return f(topic) }

// Contains returns a case-insensitive substring matcher.
func Contains(substr string) Matcher {
	needle := strings.ToLower(substr)
	return MatcherFunc(func(topic string) bool {
		return strings.Contains(strings.ToLower(topic), needle)
	})
}

// Rule pairs a subject label with the matcher that selects it.
type Rule struct {
	Label   string
	Matcher Matcher
}

// Taxonomy classifies topics by running its rules in order.
// The first matching rule wins.
type Taxonomy struct {
	rules    []Rule
	fallback string
}

// New creates a Taxonomy from rules in priority order.
func New(rules ...Rule) *Taxonomy {
	return &Taxonomy{rules: rules, fallback: General}
}

// FromLabels builds a taxonomy where each label matches topics containing it.
// Blank labels are skipped.
func FromLabels(labels []string) *Taxonomy {
	rules := make([]Rule, 0, len(labels))
	for _, l := range labels {
		l = strings.TrimSpace(l)
		if l == "" {
			continue
		}
		rules = append(rules, Rule{Label: l, Matcher: Contains(l)})
	}
	return New(rules...)
}

// DefaultLabels is the canonical subject list in priority order.
func DefaultLabels() []string {
	return []string{
		"Medicine",
		"Technology",
		"Business",
		"Science",
		"Engineering",
		"Marketing",
		"Finance",
		"Healthcare",
		"Education",
	}
}

// Default returns the canonical taxonomy.
func Default() *Taxonomy {
	return FromLabels(DefaultLabels())
}

// Classify returns the label of the first rule matching topic, or General.
func (t *Taxonomy) Classify(topic string) string {
	for _, r := range t.rules {
		if r.Matcher.Match(topic) {
			return r.Label
		}
	}
	return t.fallback
}

// Labels returns rule labels in priority order, without the fallback.
func (t *Taxonomy) Labels() []string {
	out := make([]string, len(t.rules))
	for i, r := range t.rules {
		out[i] = r.Label
	}
	return out
}
