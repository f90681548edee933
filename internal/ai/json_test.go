package ai

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCleanJSON_StripsFences(t *testing.T) {
	in := "```json\n{\"is_valid\": true}\n```"
	assert.Equal(t, `{"is_valid": true}`, CleanJSON(in))

	in = "```\n{\"a\": 1}\n```"
	assert.Equal(t, `{"a": 1}`, CleanJSON(in))
}

func TestCleanJSON_SlicesOutermostObject(t *testing.T) {
	in := `Sure, here is the verdict: {"is_valid": false, "issues": ["too vague"]} Hope that helps.`
	assert.Equal(t, `{"is_valid": false, "issues": ["too vague"]}`, CleanJSON(in))
}

func TestCleanJSON_PrefersEarlierOpener(t *testing.T) {
	in := `[{"a": 1}, {"b": 2}] trailing`
	assert.Equal(t, `[{"a": 1}, {"b": 2}]`, CleanJSON(in))
}

func TestCleanJSON_NoJSONPassesThrough(t *testing.T) {
	assert.Equal(t, "no structured content here", CleanJSON("  no structured content here "))
}

func TestExtractJSON_StrictThenRepaired(t *testing.T) {
	var strict map[string]int
	require.NoError(t, ExtractJSON(`{"a": 1}`, &strict))
	assert.Equal(t, 1, strict["a"])

	var repaired map[string]int
	require.NoError(t, ExtractJSON("```json\n{\"b\": 2}\n```", &repaired))
	assert.Equal(t, 2, repaired["b"])
}

func TestExtractJSON_Unrepairable(t *testing.T) {
	var v map[string]any
	err := ExtractJSON("the model refused to answer", &v)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "not valid JSON")
}
