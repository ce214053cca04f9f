package forms

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"
	"sync"
)

// Validate applies the field's rules to value in canonical order: required,
// then pattern, then minimum length, then option membership. Evaluation
// stops at the first failing rule and its message becomes the field status;
// the message clears only when every rule passes. Input is trimmed first.
// Optional fields left blank pass without running the remaining rules.
func Validate(field Field, value string) FieldStatus {
	trimmed := strings.TrimSpace(value)

	for _, rule := range orderedRules(field.Rules) {
		if trimmed == "" && rule.Kind != RuleRequired {
			continue
		}
		if msg, ok := applyRule(field, rule, trimmed); !ok {
			return FieldStatus{Valid: false, Message: msg}
		}
	}
	return FieldStatus{Valid: true}
}

var ruleOrder = map[string]int{
	RuleRequired:  0,
	RulePattern:   1,
	RuleMinLength: 2,
	RuleOneOf:     3,
}

func orderedRules(rules []Rule) []Rule {
	out := append([]Rule(nil), rules...)
	// Insertion sort keeps definition order for rules of the same kind.
	for i := 1; i < len(out); i++ {
		for j := i; j > 0 && ruleOrder[out[j].Kind] < ruleOrder[out[j-1].Kind]; j-- {
			out[j], out[j-1] = out[j-1], out[j]
		}
	}
	return out
}

func applyRule(field Field, rule Rule, value string) (string, bool) {
	switch rule.Kind {
	case RuleRequired:
		if value == "" {
			return ruleMessage(rule, fmt.Sprintf("%s is required", labelOf(field))), false
		}
	case RulePattern:
		expr := rule.Params[ParamPattern]
		if expr == "" {
			return "", true
		}
		re, err := compiledPattern(expr)
		if err != nil {
			// A malformed expression never blocks the user; the definition
			// loader logs it.
			return "", true
		}
		if !re.MatchString(value) {
			return ruleMessage(rule, fmt.Sprintf("%s is invalid", labelOf(field))), false
		}
	case RuleMinLength:
		min, err := strconv.Atoi(rule.Params[ParamValue])
		if err != nil || min <= 0 {
			return "", true
		}
		if len([]rune(value)) < min {
			return ruleMessage(rule, fmt.Sprintf("%s must be at least %d characters", labelOf(field), min)), false
		}
	case RuleOneOf:
		for _, option := range field.Options {
			if value == option {
				return "", true
			}
		}
		return ruleMessage(rule, fmt.Sprintf("%s must be one of the listed options", labelOf(field))), false
	}
	return "", true
}

func ruleMessage(rule Rule, fallback string) string {
	if msg := strings.TrimSpace(rule.Params[ParamMessage]); msg != "" {
		return msg
	}
	return fallback
}

func labelOf(field Field) string {
	if field.Label != "" {
		return field.Label
	}
	return field.Name
}

var (
	patternMu    sync.Mutex
	patternCache = map[string]*regexp.Regexp{}
)

func compiledPattern(expr string) (*regexp.Regexp, error) {
	patternMu.Lock()
	defer patternMu.Unlock()

	if re, ok := patternCache[expr]; ok {
		return re, nil
	}
	re, err := regexp.Compile(expr)
	if err != nil {
		return nil, err
	}
	patternCache[expr] = re
	return re, nil
}
