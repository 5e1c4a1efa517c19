package classify

import (
	"strings"
	"unicode"
)

// Classifier maps free text to an agent identifier using an ordered rule
// list. Classification is pure and deterministic: the same input always
// yields the same decision, and no input fails to classify.
type Classifier struct {
	rules []Rule
}

// New creates a classifier with the given ordered rules.
func New(rules []Rule) *Classifier {
	return &Classifier{rules: rules}
}

// NewDefault creates a classifier with the canonical rule list.
func NewDefault() *Classifier {
	return New(DefaultRules())
}

// Rules returns the ordered rule list.
func (c *Classifier) Rules() []Rule {
	return c.rules
}

// Classify resolves text to a decision. It never fails: if no rule
// matches, the trailing default rule selects the code agent.
func (c *Classifier) Classify(text string) Decision {
	trimmed := strings.TrimSpace(text)
	normalized := strings.ToLower(trimmed)
	tokens := tokenize(normalized)

	for _, rule := range c.rules {
		switch rule.Kind {
		case RuleExact:
			if normalized == rule.Trigger {
				return Decision{Agent: rule.Agent, Rule: rule.Name}
			}

		case RulePrefix:
			if query, ok := matchPrefix(trimmed, normalized, rule.Prefix); ok {
				return Decision{Agent: rule.Agent, Query: query, Rule: rule.Name}
			}

		case RuleAllOf:
			if containsAny(tokens, rule.Primary) && containsAny(tokens, rule.Secondary) {
				return Decision{Agent: rule.Agent, Rule: rule.Name}
			}

		case RuleAnyOf:
			if containsAny(tokens, rule.Keywords) {
				return Decision{Agent: rule.Agent, Rule: rule.Name}
			}

		case RuleDefault:
			return Decision{Agent: rule.Agent, Rule: rule.Name}
		}
	}

	// Unreachable with the canonical rule list; kept so a custom list
	// without a default rule still resolves.
	return Decision{Agent: "code", Rule: "fallback"}
}

// matchPrefix checks for "<prefix>:" at the start of the input and
// extracts the query from the original-case text so the agent sees what
// the user typed. The query is the substring after the first colon,
// trimmed; empty if nothing follows.
func matchPrefix(trimmed, normalized, prefix string) (string, bool) {
	marker := prefix + ":"
	if !strings.HasPrefix(normalized, marker) {
		return "", false
	}

	return strings.TrimSpace(trimmed[len(marker):]), true
}

// tokenize splits normalized input into keyword tokens. Hyphens stay
// inside tokens so directives like "self-optimize" survive as one token.
func tokenize(normalized string) map[string]bool {
	fields := strings.FieldsFunc(normalized, func(r rune) bool {
		return !unicode.IsLetter(r) && !unicode.IsDigit(r) && r != '-'
	})

	tokens := make(map[string]bool, len(fields))
	for _, f := range fields {
		tokens[f] = true
	}
	return tokens
}

func containsAny(tokens map[string]bool, keywords []string) bool {
	for _, kw := range keywords {
		if tokens[kw] {
			return true
		}
	}
	return false
}
