// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package types

import "time"

// Role identifies the speaker of a conversation turn.
type Role string

const (
	RoleUser      Role = "user"
	RoleAssistant Role = "assistant"
)

// Turn is one utterance in a conversation. Turns are immutable once
// appended; the ordered sequence of turns is the context replayed to the
// language model on each extraction step.
type Turn struct {
	Role      Role      `json:"role" yaml:"role"`
	Text      string    `json:"text" yaml:"text"`
	Timestamp time.Time `json:"timestamp" yaml:"timestamp"`
}

// SearchParameters accumulates what the dialog has learned about the
// user's search intent across turns.
type SearchParameters struct {
	// Query is the search text sent to the catalog. A parameter set is
	// complete once Query is non-empty.
	Query string `json:"query" yaml:"query"`

	// YearFilter is a publication-year comparison expression as the user
	// stated it: ">=2020", "<=2019", "2018-2022", or a bare year. Empty
	// means no year constraint.
	YearFilter string `json:"year_filter,omitempty" yaml:"year_filter,omitempty"`

	// MaxResults is the number of distinct papers the user asked for.
	MaxResults int `json:"max_results" yaml:"max_results"`
}

// Complete reports whether enough has been collected to run a search.
func (p SearchParameters) Complete() bool { return p.Query != "" }

// Merge overlays delta onto p field by field. Set fields in delta replace
// the current values; unset fields leave the existing values untouched, so
// later turns never erase what earlier turns established.
func (p *SearchParameters) Merge(delta SearchParameters) {
	if delta.Query != "" {
		p.Query = delta.Query
	}
	if delta.YearFilter != "" {
		p.YearFilter = delta.YearFilter
	}
	if delta.MaxResults > 0 {
		p.MaxResults = delta.MaxResults
	}
}
