package text

import (
	"strings"

	"gitlab.com/tozd/go/errors"
)

// 🔄 ReplacementRule replaces every occurrence of Old with New
type ReplacementRule struct {
	Old string `json:"old" yaml:"old"`
	New string `json:"new" yaml:"new"`
}

// Replacer applies replacement rules line by line, in rule order
type Replacer struct {
	rules []ReplacementRule
}

// NewReplacer creates a Replacer for rules
func NewReplacer(rules []ReplacementRule) *Replacer {
	return &Replacer{rules: rules}
}

// ReplaceLine applies every rule to line and returns the result with the
// number of replacements made
func (r *Replacer) ReplaceLine(line string) (string, int) {
	count := 0
	for _, rule := range r.rules {
		// Skip empty rules
		if rule.Old == "" {
			continue
		}
		n := strings.Count(line, rule.Old)
		if n == 0 {
			continue
		}
		count += n
		line = strings.ReplaceAll(line, rule.Old, rule.New)
	}
	return line, count
}

// ReplaceLines applies the rules to each line. The input is not modified.
func (r *Replacer) ReplaceLines(lines []string) ([]string, int) {
	out := make([]string, len(lines))
	total := 0
	for i, line := range lines {
		var n int
		out[i], n = r.ReplaceLine(line)
		total += n
	}
	return out, total
}

// ValidateRules checks that every rule has text to replace
func ValidateRules(rules []ReplacementRule) error {
	for i, rule := range rules {
		if rule.Old == "" {
			return errors.Errorf("rule %d: old is required", i)
		}
	}
	return nil
}
