package services

import (
	"regexp"
	"strings"
)

// rule is one pattern in a declarative heuristic table. The classifier,
// scorer and partnership detector all evaluate tables of these instead
// of carrying their own pattern loops.
type rule struct {
	// pattern matches case-insensitively against the probed text.
	pattern *regexp.Regexp

	// label names the rule in verdict reasons.
	label string
}

// ruleTable is an ordered set of rules; first match wins.
type ruleTable []rule

// newRuleTable compiles patterns into a table. Patterns are treated as
// case-insensitive regular expressions.
func newRuleTable(patterns ...string) ruleTable {
	table := make(ruleTable, 0, len(patterns))
	for _, p := range patterns {
		table = append(table, rule{
			pattern: regexp.MustCompile("(?i)" + p),
			label:   p,
		})
	}
	return table
}

// firstMatch returns the label of the first matching rule and true, or
// "" and false when nothing matches.
func (t ruleTable) firstMatch(text string) (string, bool) {
	for _, r := range t {
		if r.pattern.MatchString(text) {
			return r.label, true
		}
	}
	return "", false
}

// allMatches returns the labels of every matching rule, in table order.
func (t ruleTable) allMatches(text string) []string {
	var matched []string
	for _, r := range t {
		if r.pattern.MatchString(text) {
			matched = append(matched, r.label)
		}
	}
	return matched
}

// keywordSet is a plain substring table for keyword scans, where regex
// power is not needed and match counts matter.
type keywordSet []string

// matches returns the keywords contained in text (lower-cased scan).
func (s keywordSet) matches(text string) []string {
	lower := strings.ToLower(text)
	var matched []string
	for _, kw := range s {
		if strings.Contains(lower, strings.ToLower(kw)) {
			matched = append(matched, kw)
		}
	}
	return matched
}
