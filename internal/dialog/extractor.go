// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package dialog implements the conversational front of the agent: it
// extracts structured search parameters from free-text turns, decides when
// enough is known to search, and keeps per-session state isolated.
package dialog

import (
	"context"
	"encoding/json"
	"strconv"
	"strings"

	"github.com/muchan23/paper-research-agent/internal/llm"
	"github.com/muchan23/paper-research-agent/pkg/types"
)

// Replies surfaced to the user when extraction cannot proceed.
const (
	clarifyFallback = "What research field or topic are you interested in? A few keywords or a short description will help."
	retryPrompt     = "Something went wrong on my side while reading that. Please send it again or rephrase."
)

// Outcome is the result of one extraction step: either a clarifying
// question to show the user verbatim, or a parameter delta to merge into
// the session. Exactly one branch is populated.
type Outcome struct {
	NeedsClarification bool
	Question           string
	Delta              types.SearchParameters
}

// Extractor turns one user utterance plus recent conversation context into
// an Outcome via the language model.
type Extractor struct {
	Backend llm.Backend
}

// analysisReply mirrors the JSON object the model is instructed to return.
type analysisReply struct {
	Sufficient     bool    `json:"sufficient"`
	ExtractedQuery string  `json:"extracted_query"`
	YearFilter     string  `json:"year_filter"`
	MaxResults     flexInt `json:"max_results"`
	Question       string  `json:"question"`
}

// flexInt accepts both a JSON number and a quoted number; models return
// either form for max_results.
type flexInt int

func (f *flexInt) UnmarshalJSON(data []byte) error {
	s := strings.Trim(strings.TrimSpace(string(data)), `"`)
	if s == "" || s == "null" {
		*f = 0
		return nil
	}
	n, err := strconv.Atoi(s)
	if err != nil {
		// Unparseable counts are treated as unset rather than failing
		// the whole extraction.
		*f = 0
		return nil
	}
	*f = flexInt(n)
	return nil
}

// Extract runs the analysis call for the latest utterance. history is the
// conversation context to replay, most recent last, and already includes
// the utterance's own turn.
//
// A failure of the external call never propagates: the user sees a generic
// retry prompt and the session is left as it was, so a transient model
// outage costs the user one turn, not their collected parameters.
func (e *Extractor) Extract(ctx context.Context, history []types.Turn, utterance string) Outcome {
	prompt, err := renderTemplate(analysisPromptTmpl, struct {
		History   string
		Utterance string
	}{History: historyJSON(history), Utterance: utterance})
	if err != nil {
		return Outcome{NeedsClarification: true, Question: retryPrompt}
	}

	reply, err := e.Backend.Complete(ctx, analysisSystem, []types.Turn{{
		Role: types.RoleUser,
		Text: prompt,
	}})
	if err != nil {
		return Outcome{NeedsClarification: true, Question: retryPrompt}
	}

	var parsed analysisReply
	raw, ok := firstJSONObject(reply)
	if !ok || json.Unmarshal([]byte(raw), &parsed) != nil {
		return Outcome{NeedsClarification: true, Question: retryPrompt}
	}

	if !parsed.Sufficient {
		question := strings.TrimSpace(parsed.Question)
		if question == "" {
			question = clarifyFallback
		}
		return Outcome{NeedsClarification: true, Question: question}
	}

	delta := types.SearchParameters{
		Query:      strings.TrimSpace(parsed.ExtractedQuery),
		YearFilter: strings.TrimSpace(parsed.YearFilter),
		MaxResults: int(parsed.MaxResults),
	}
	if delta.Query == "" {
		// The model claimed sufficiency but produced no query; treat as
		// a clarification round instead of merging an empty delta.
		return Outcome{NeedsClarification: true, Question: clarifyFallback}
	}
	return Outcome{Delta: delta}
}

// historyJSON renders turns as an indented JSON array of role/content
// pairs for inclusion in the prompt.
func historyJSON(turns []types.Turn) string {
	type entry struct {
		Role    string `json:"role"`
		Content string `json:"content"`
	}
	entries := make([]entry, 0, len(turns))
	for _, t := range turns {
		entries = append(entries, entry{Role: string(t.Role), Content: t.Text})
	}
	data, err := json.MarshalIndent(entries, "", "  ")
	if err != nil {
		return "[]"
	}
	return string(data)
}

// firstJSONObject returns the first balanced {...} block in s. Models
// sometimes wrap their JSON in prose; everything outside the braces is
// discarded.
func firstJSONObject(s string) (string, bool) {
	start := strings.IndexByte(s, '{')
	if start < 0 {
		return "", false
	}
	depth := 0
	inString := false
	escaped := false
	for i := start; i < len(s); i++ {
		c := s[i]
		if inString {
			switch {
			case escaped:
				escaped = false
			case c == '\\':
				escaped = true
			case c == '"':
				inString = false
			}
			continue
		}
		switch c {
		case '"':
			inString = true
		case '{':
			depth++
		case '}':
			depth--
			if depth == 0 {
				return s[start : i+1], true
			}
		}
	}
	return "", false
}
