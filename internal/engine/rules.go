package engine

import (
	"strconv"
	"strings"

	"go.uber.org/zap"
)

// RuleKind is a closed set of validation-rule kinds. Rule tags are
// parsed once at construction instead of re-parsing the tag string at
// validation time.
type RuleKind string

const (
	RuleMinLength               RuleKind = "min_length"
	RuleRequiresExplanation     RuleKind = "requires_explanation"
	RuleRequiresTimeline        RuleKind = "requires_timeline"
	RuleRequiresActionPlan      RuleKind = "requires_action_plan"
	RuleRequiresConfirmation    RuleKind = "requires_confirmation"
	RuleRequiresBreakdown       RuleKind = "requires_detailed_breakdown"
	RuleRequiresRemediationPlan RuleKind = "requires_remediation_plan"
	RuleRequiresPerCategory     RuleKind = "requires_explanations_per_category"
)

var knownRuleKinds = map[RuleKind]bool{
	RuleMinLength:               true,
	RuleRequiresExplanation:     true,
	RuleRequiresTimeline:        true,
	RuleRequiresActionPlan:      true,
	RuleRequiresConfirmation:    true,
	RuleRequiresBreakdown:       true,
	RuleRequiresRemediationPlan: true,
	RuleRequiresPerCategory:     true,
}

// Rule is one parsed validation rule. Param is the numeric argument for
// parameterized kinds (currently only min_length).
type Rule struct {
	Kind  RuleKind
	Param int
}

// ParseRules parses validation-rule tags like "min_length:75" into
// typed rules. Unknown tags are dropped with a warning rather than
// failing the question.
func ParseRules(tags []string) []Rule {
	var rules []Rule
	for _, tag := range tags {
		kind, arg, hasArg := strings.Cut(tag, ":")
		rk := RuleKind(kind)
		if !knownRuleKinds[rk] {
			zap.L().Warn("engine: unknown validation rule tag", zap.String("tag", tag))
			continue
		}
		rule := Rule{Kind: rk}
		if hasArg {
			n, err := strconv.Atoi(arg)
			if err != nil {
				zap.L().Warn("engine: bad validation rule parameter", zap.String("tag", tag))
				continue
			}
			rule.Param = n
		}
		rules = append(rules, rule)
	}
	return rules
}

// MinLength returns the min_length parameter of the rule set, or 0 when
// no length rule is present.
func MinLength(rules []Rule) int {
	for _, r := range rules {
		if r.Kind == RuleMinLength {
			return r.Param
		}
	}
	return 0
}

// Describe renders a rule as a reviewer-facing expectation, used when
// briefing the text-quality judge.
func (r Rule) Describe() string {
	switch r.Kind {
	case RuleMinLength:
		return "response must be at least " + strconv.Itoa(r.Param) + " characters"
	case RuleRequiresExplanation:
		return "response must explain the root cause"
	case RuleRequiresTimeline:
		return "response must include a timeline"
	case RuleRequiresActionPlan:
		return "response must include a remediation or action plan"
	case RuleRequiresConfirmation:
		return "response must confirm or dispute the reported figure"
	case RuleRequiresBreakdown:
		return "response must break the issue down in detail"
	case RuleRequiresRemediationPlan:
		return "response must include a remediation plan"
	case RuleRequiresPerCategory:
		return "response must address each change category separately"
	}
	return string(r.Kind)
}
