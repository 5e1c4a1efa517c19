package classify

// RuleKind tags a classification rule variant. Rules are evaluated in
// list order and the first match wins, so the kind also encodes rule
// specificity: exact triggers, then prefixes, then conjunctions, then
// single keywords, then the default.
type RuleKind string

const (
	// RuleExact matches when the whole normalized input equals Trigger
	RuleExact RuleKind = "exact"
	// RulePrefix matches when the input starts with "Prefix:" and yields
	// the remainder as the extracted query
	RulePrefix RuleKind = "prefix"
	// RuleAllOf matches when both Primary and Secondary keyword sets have
	// a token present in the input
	RuleAllOf RuleKind = "all_of"
	// RuleAnyOf matches when any Keywords token is present in the input
	RuleAnyOf RuleKind = "any_of"
	// RuleDefault always matches
	RuleDefault RuleKind = "default"
)

// Rule pairs an ordered predicate with its target agent identifier.
// Reordering rules changes dispatcher behavior, so the rule list is part
// of the contract and locked by tests.
type Rule struct {
	// Name identifies the rule in logs and tests
	Name string

	// Kind selects the predicate variant
	Kind RuleKind

	// Agent is the target agent identifier when the rule matches
	Agent string

	// Trigger is the literal input for RuleExact
	Trigger string

	// Prefix is the directive prefix (without the colon) for RulePrefix
	Prefix string

	// Keywords is the token set for RuleAnyOf
	Keywords []string

	// Primary and Secondary are the conjoined token sets for RuleAllOf
	Primary   []string
	Secondary []string
}

// Decision is the outcome of classifying one input.
type Decision struct {
	// Agent is the selected agent identifier
	Agent string

	// Query is the extracted query for prefix directives, empty otherwise
	Query string

	// Rule is the name of the rule that fired
	Rule string
}
