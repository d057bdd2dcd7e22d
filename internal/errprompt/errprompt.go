// Package errprompt matches error messages against configured patterns
// and returns guidance messages to append to error strings.
package errprompt

import (
	"fmt"
	"regexp"
	"strings"
)

// Rule maps an error message regex pattern to a guidance message.
type Rule struct {
	Pattern string
	Message string
}

type compiledRule struct {
	pattern *regexp.Regexp
	message string
}

// Matcher checks error messages against all rules, top to bottom.
type Matcher struct {
	rules []compiledRule
}

// NewMatcher creates a Matcher. Panics on invalid regex patterns.
func NewMatcher(rules []Rule) *Matcher {
	compiled := make([]compiledRule, len(rules))
	for i, r := range rules {
		re, err := regexp.Compile(r.Pattern)
		if err != nil {
			panic(fmt.Sprintf("errprompt: invalid regex pattern %q: %v", r.Pattern, err))
		}
		compiled[i] = compiledRule{pattern: re, message: r.Message}
	}
	return &Matcher{rules: compiled}
}

// Match returns all guidance messages whose patterns match errMsg, joined
// with newlines, together with the patterns that matched. Both are empty
// when nothing matched.
func (m *Matcher) Match(errMsg string) (string, []string) {
	var messages []string
	var patterns []string
	for _, rule := range m.rules {
		if rule.pattern.MatchString(errMsg) {
			messages = append(messages, rule.message)
			patterns = append(patterns, rule.pattern.String())
		}
	}
	return strings.Join(messages, "\n"), patterns
}
