package ai

import (
	"context"
	"testing"

	"github.com/rotisserie/eris"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/fleetfs/dqagent/internal/engine"
	"github.com/fleetfs/dqagent/pkg/anthropic"
)

type stubClient struct {
	resp    *anthropic.MessageResponse
	err     error
	lastReq anthropic.MessageRequest
}

func (s *stubClient) CreateMessage(_ context.Context, req anthropic.MessageRequest) (*anthropic.MessageResponse, error) {
	s.lastReq = req
	return s.resp, s.err
}

func textResponse(text string) *anthropic.MessageResponse {
	return &anthropic.MessageResponse{
		Content: []anthropic.ContentBlock{{Type: "text", Text: text}},
	}
}

func TestJudgeResponse_ParsesVerdict(t *testing.T) {
	client := &stubClient{resp: textResponse(`{"is_valid": true, "validation_score": 0.87, "issues": [], "suggestions": ["add dates"]}`)}
	judge := NewJudge(client, "claude-sonnet-4-5-20250929", 0)

	rules := engine.ParseRules([]string{"min_length:75", "requires_timeline"})
	result, err := judge.JudgeResponse(context.Background(), "overview_delinquent_x", "Detailed explanation of the delinquency.", rules)
	require.NoError(t, err)

	assert.True(t, result.IsValid)
	assert.InDelta(t, 0.87, result.ValidationScore, 1e-9)
	assert.Equal(t, []string{}, result.Issues)
	assert.Equal(t, []string{"add dates"}, result.Suggestions)

	require.Len(t, client.lastReq.Messages, 1)
	assert.Contains(t, client.lastReq.Messages[0].Content, "overview_delinquent_x")
	assert.Contains(t, client.lastReq.Messages[0].Content, "at least 75 characters")
	require.NotNil(t, client.lastReq.Temperature)
	assert.InDelta(t, 0.2, *client.lastReq.Temperature, 1e-9)
	require.Len(t, client.lastReq.System, 1)
	assert.NotNil(t, client.lastReq.System[0].CacheControl)
}

func TestJudgeResponse_ClampsScore(t *testing.T) {
	client := &stubClient{resp: textResponse(`{"is_valid": true, "validation_score": 1.7}`)}
	judge := NewJudge(client, "claude-sonnet-4-5-20250929", 512)

	result, err := judge.JudgeResponse(context.Background(), "q", "text", nil)
	require.NoError(t, err)
	assert.InDelta(t, 1.0, result.ValidationScore, 1e-9)
	assert.Equal(t, []string{}, result.Issues, "nil slices normalize to empty")
}

func TestJudgeResponse_RepairsFencedOutput(t *testing.T) {
	client := &stubClient{resp: textResponse("```json\n{\"is_valid\": false, \"validation_score\": 0.3, \"issues\": [\"no timeline\"]}\n```")}
	judge := NewJudge(client, "claude-sonnet-4-5-20250929", 0)

	result, err := judge.JudgeResponse(context.Background(), "q", "text", nil)
	require.NoError(t, err)
	assert.False(t, result.IsValid)
	assert.Equal(t, []string{"no timeline"}, result.Issues)
}

func TestJudgeResponse_APIErrorSurfaces(t *testing.T) {
	client := &stubClient{err: eris.New("rate limited")}
	judge := NewJudge(client, "claude-sonnet-4-5-20250929", 0)

	_, err := judge.JudgeResponse(context.Background(), "q", "text", nil)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "judge response")
}

func TestJudgeResponse_GarbageOutputErrors(t *testing.T) {
	client := &stubClient{resp: textResponse("I cannot evaluate this response.")}
	judge := NewJudge(client, "claude-sonnet-4-5-20250929", 0)

	_, err := judge.JudgeResponse(context.Background(), "q", "text", nil)
	assert.Error(t, err)
}
