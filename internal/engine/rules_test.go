package engine

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseRules(t *testing.T) {
	rules := ParseRules([]string{"min_length:75", "requires_explanation", "requires_timeline"})

	require.Len(t, rules, 3)
	assert.Equal(t, Rule{Kind: RuleMinLength, Param: 75}, rules[0])
	assert.Equal(t, Rule{Kind: RuleRequiresExplanation}, rules[1])
	assert.Equal(t, Rule{Kind: RuleRequiresTimeline}, rules[2])
}

func TestParseRules_DropsUnknownAndMalformed(t *testing.T) {
	rules := ParseRules([]string{"no_such_rule", "min_length:abc", "requires_action_plan"})

	require.Len(t, rules, 1)
	assert.Equal(t, RuleRequiresActionPlan, rules[0].Kind)
}

func TestParseRules_Empty(t *testing.T) {
	assert.Empty(t, ParseRules(nil))
	assert.Empty(t, ParseRules([]string{}))
}

func TestMinLength(t *testing.T) {
	rules := ParseRules([]string{"requires_confirmation", "min_length:50"})
	assert.Equal(t, 50, MinLength(rules))
	assert.Zero(t, MinLength(ParseRules([]string{"requires_confirmation"})))
}

func TestRuleDescribe(t *testing.T) {
	assert.Equal(t, "response must be at least 75 characters", Rule{Kind: RuleMinLength, Param: 75}.Describe())
	assert.Equal(t, "response must include a timeline", Rule{Kind: RuleRequiresTimeline}.Describe())
}
