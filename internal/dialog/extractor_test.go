// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package dialog

import (
	"context"
	"encoding/json"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/muchan23/paper-research-agent/pkg/types"
)

// scripted is an llm.Backend returning canned replies in order.
type scripted struct {
	replies []string
	errs    []error
	calls   int
	prompts []string
}

func (s *scripted) Complete(_ context.Context, _ string, turns []types.Turn) (string, error) {
	if len(turns) > 0 {
		s.prompts = append(s.prompts, turns[len(turns)-1].Text)
	}
	i := s.calls
	s.calls++
	if i < len(s.errs) && s.errs[i] != nil {
		return "", s.errs[i]
	}
	if i < len(s.replies) {
		return s.replies[i], nil
	}
	return "", errors.New("no scripted reply")
}

func TestExtractSufficient(t *testing.T) {
	backend := &scripted{replies: []string{
		`{"sufficient": true, "extracted_query": "transformer attention", "year_filter": ">=2020", "max_results": "50", "question": ""}`,
	}}
	ex := &Extractor{Backend: backend}

	out := ex.Extract(context.Background(), nil, "papers on transformers since 2020, 50 of them")
	require.False(t, out.NeedsClarification)
	assert.Equal(t, "transformer attention", out.Delta.Query)
	assert.Equal(t, ">=2020", out.Delta.YearFilter)
	assert.Equal(t, 50, out.Delta.MaxResults)
}

func TestExtractInsufficientAsksModelQuestion(t *testing.T) {
	backend := &scripted{replies: []string{
		`{"sufficient": false, "question": "Which research field do you mean?"}`,
	}}
	ex := &Extractor{Backend: backend}

	out := ex.Extract(context.Background(), nil, "find me papers")
	require.True(t, out.NeedsClarification)
	assert.Equal(t, "Which research field do you mean?", out.Question)
}

func TestExtractInsufficientEmptyQuestionFallsBack(t *testing.T) {
	backend := &scripted{replies: []string{`{"sufficient": false, "question": ""}`}}
	ex := &Extractor{Backend: backend}

	out := ex.Extract(context.Background(), nil, "hello")
	require.True(t, out.NeedsClarification)
	assert.Equal(t, clarifyFallback, out.Question)
}

func TestExtractBackendFailureIsRetryPrompt(t *testing.T) {
	backend := &scripted{errs: []error{errors.New("api down")}}
	ex := &Extractor{Backend: backend}

	out := ex.Extract(context.Background(), nil, "quantum computing")
	require.True(t, out.NeedsClarification)
	assert.Equal(t, retryPrompt, out.Question)
}

func TestExtractUnparseableReplyIsRetryPrompt(t *testing.T) {
	backend := &scripted{replies: []string{"sorry, I cannot do that"}}
	ex := &Extractor{Backend: backend}

	out := ex.Extract(context.Background(), nil, "quantum computing")
	require.True(t, out.NeedsClarification)
	assert.Equal(t, retryPrompt, out.Question)
}

func TestExtractSufficientWithoutQueryClarifies(t *testing.T) {
	backend := &scripted{replies: []string{
		`{"sufficient": true, "extracted_query": "  ", "year_filter": "", "max_results": "25", "question": ""}`,
	}}
	ex := &Extractor{Backend: backend}

	out := ex.Extract(context.Background(), nil, "something vague")
	require.True(t, out.NeedsClarification)
	assert.Equal(t, clarifyFallback, out.Question)
}

func TestExtractJSONWrappedInProse(t *testing.T) {
	backend := &scripted{replies: []string{
		"Here is the analysis:\n```json\n{\"sufficient\": true, \"extracted_query\": \"graph neural networks\", \"year_filter\": \"\", \"max_results\": 25, \"question\": \"\"}\n```\nLet me know if you need more.",
	}}
	ex := &Extractor{Backend: backend}

	out := ex.Extract(context.Background(), nil, "GNN survey papers")
	require.False(t, out.NeedsClarification)
	assert.Equal(t, "graph neural networks", out.Delta.Query)
	assert.Equal(t, 25, out.Delta.MaxResults)
}

func TestExtractPromptIncludesHistory(t *testing.T) {
	backend := &scripted{replies: []string{
		`{"sufficient": false, "question": "And which years?"}`,
	}}
	ex := &Extractor{Backend: backend}

	history := []types.Turn{
		{Role: types.RoleUser, Text: "I study protein folding"},
		{Role: types.RoleAssistant, Text: "Any particular method?"},
	}
	ex.Extract(context.Background(), history, "AlphaFold follow-ups")

	require.Len(t, backend.prompts, 1)
	assert.Contains(t, backend.prompts[0], "protein folding")
	assert.Contains(t, backend.prompts[0], "AlphaFold follow-ups")
}

func TestFlexInt(t *testing.T) {
	tests := []struct {
		name string
		raw  string
		want int
	}{
		{"number", `{"max_results": 50}`, 50},
		{"quoted", `{"max_results": "50"}`, 50},
		{"null", `{"max_results": null}`, 0},
		{"garbage", `{"max_results": "lots"}`, 0},
		{"absent", `{}`, 0},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var parsed analysisReply
			require.NoError(t, json.Unmarshal([]byte(tt.raw), &parsed))
			assert.Equal(t, tt.want, int(parsed.MaxResults))
		})
	}
}

func TestFirstJSONObject(t *testing.T) {
	tests := []struct {
		name string
		in   string
		want string
		ok   bool
	}{
		{"bare", `{"a": 1}`, `{"a": 1}`, true},
		{"nested", `note {"a": {"b": 2}} trailing`, `{"a": {"b": 2}}`, true},
		{"brace in string", `{"a": "}"}`, `{"a": "}"}`, true},
		{"escaped quote", `{"a": "\"}"}`, `{"a": "\"}"}`, true},
		{"unbalanced", `{"a": 1`, "", false},
		{"none", "no json here", "", false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, ok := firstJSONObject(tt.in)
			assert.Equal(t, tt.ok, ok)
			assert.Equal(t, tt.want, got)
		})
	}
}
