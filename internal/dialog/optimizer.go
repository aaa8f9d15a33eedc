// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package dialog

import (
	"context"
	"encoding/json"
	"strings"

	"github.com/muchan23/paper-research-agent/internal/llm"
	"github.com/muchan23/paper-research-agent/pkg/types"
)

const (
	defaultOptimizeThreshold = 50
	defaultMaxKeywords       = 10
)

// Optimizer reduces long free-text queries to compact keyword queries
// before they reach the catalog. Short queries, and all queries when the
// optimizer is disabled, pass through unchanged; the identity transform
// is the documented behavior, not a degraded path.
type Optimizer struct {
	Backend llm.Backend

	// Enabled gates optimization entirely.
	Enabled bool

	// Threshold is the query length above which optimization applies.
	// Zero means the default (50).
	Threshold int

	// MaxKeywords caps the keyword count. Zero means the default (10).
	MaxKeywords int
}

// keywordsReply mirrors the JSON object the model is instructed to return.
type keywordsReply struct {
	Keywords []string `json:"keywords"`
}

// Optimize returns a compact keyword form of query, or query unchanged
// when optimization does not apply. Keyword extraction is a quality
// improvement, never a hard dependency: if the model call fails, a local
// frequency-based extraction runs, and if that also yields nothing the
// original query is returned as-is.
func (o *Optimizer) Optimize(ctx context.Context, query string) string {
	threshold := o.Threshold
	if threshold <= 0 {
		threshold = defaultOptimizeThreshold
	}
	if !o.Enabled || len(query) <= threshold {
		return query
	}

	maxKeywords := o.MaxKeywords
	if maxKeywords <= 0 {
		maxKeywords = defaultMaxKeywords
	}

	if keywords := o.modelKeywords(ctx, query, maxKeywords); len(keywords) > 0 {
		return strings.Join(keywords, " ")
	}
	if keywords := fallbackKeywords(query, maxKeywords); len(keywords) > 0 {
		return strings.Join(keywords, " ")
	}
	return query
}

// modelKeywords asks the language model for keywords. Any failure returns
// nil so the caller can fall back.
func (o *Optimizer) modelKeywords(ctx context.Context, query string, maxKeywords int) []string {
	if o.Backend == nil {
		return nil
	}

	prompt, err := renderTemplate(keywordsPromptTmpl, struct {
		MaxKeywords int
		Text        string
	}{MaxKeywords: maxKeywords, Text: query})
	if err != nil {
		return nil
	}

	reply, err := o.Backend.Complete(ctx, analysisSystem, []types.Turn{{
		Role: types.RoleUser,
		Text: prompt,
	}})
	if err != nil {
		return nil
	}

	raw, ok := firstJSONObject(reply)
	if !ok {
		return nil
	}
	var parsed keywordsReply
	if err := json.Unmarshal([]byte(raw), &parsed); err != nil {
		return nil
	}

	var keywords []string
	for _, kw := range parsed.Keywords {
		if kw = strings.TrimSpace(kw); kw != "" {
			keywords = append(keywords, kw)
		}
		if len(keywords) == maxKeywords {
			break
		}
	}
	return keywords
}
