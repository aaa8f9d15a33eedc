// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package dialog

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/muchan23/paper-research-agent/pkg/types"
)

// ErrNotReady is returned when a search is confirmed before the session
// has collected a query.
var ErrNotReady = errors.New("session has no complete search parameters")

// State is the conversation phase of a session.
type State string

const (
	// StateCollecting: still gathering parameters from the user.
	StateCollecting State = "collecting"
	// StateReady: a complete parameter set exists and awaits confirmation.
	StateReady State = "ready"
	// StateSearched: a confirmed search has completed. Reset returns the
	// session to StateCollecting.
	StateSearched State = "searched"
)

const defaultHistoryWindow = 10

const searchedReply = "The previous search is complete. Reset the session to start a new search."

// Reply is what the dialog returns to the caller after one user turn.
type Reply struct {
	// Text is shown to the user verbatim: a clarifying question, a
	// confirmation summary, or a status message.
	Text string

	// ReadyToSearch reports that a complete parameter set exists and the
	// caller may confirm the search.
	ReadyToSearch bool

	// Parameters is a copy of the collected parameters when
	// ReadyToSearch is true, nil otherwise.
	Parameters *types.SearchParameters
}

// Session holds one conversation: its ordered turn history and the search
// parameters accumulated so far. All mutation happens under the session
// mutex, so two concurrent turns for the same session id cannot interleave.
type Session struct {
	id  string
	cfg types.DialogConfig

	mu         sync.Mutex
	state      State
	turns      []types.Turn
	params     types.SearchParameters
	generation int
	createdAt  time.Time
}

// NewSession returns a fresh session in the collecting state with
// parameters at their configured defaults.
func NewSession(id string, cfg types.DialogConfig) *Session {
	return &Session{
		id:        id,
		cfg:       cfg,
		state:     StateCollecting,
		params:    defaultParams(cfg),
		createdAt: time.Now(),
	}
}

func defaultParams(cfg types.DialogConfig) types.SearchParameters {
	maxResults := cfg.DefaultMaxResults
	if maxResults <= 0 {
		maxResults = 25
	}
	return types.SearchParameters{MaxResults: maxResults}
}

// ID returns the opaque session identifier.
func (s *Session) ID() string { return s.id }

// State returns the current conversation phase.
func (s *Session) State() State {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.state
}

// Params returns a copy of the accumulated search parameters.
func (s *Session) Params() types.SearchParameters {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.params
}

// Turns returns a copy of the conversation history.
func (s *Session) Turns() []types.Turn {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]types.Turn, len(s.turns))
	copy(out, s.turns)
	return out
}

// ProcessTurn handles one user utterance: appends it to the history, runs
// the extractor, merges any delta, and returns the assistant's reply. The
// turn and the parameter merge commit together under the session lock; a
// failed extraction still appends the turn but leaves parameters alone.
func (s *Session) ProcessTurn(ctx context.Context, ex *Extractor, utterance string) Reply {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.appendTurn(types.RoleUser, utterance)

	if s.state == StateSearched {
		s.appendTurn(types.RoleAssistant, searchedReply)
		return Reply{Text: searchedReply}
	}

	outcome := ex.Extract(ctx, s.window(), utterance)

	if outcome.NeedsClarification {
		s.appendTurn(types.RoleAssistant, outcome.Question)
		return Reply{Text: outcome.Question}
	}

	delta := outcome.Delta
	if ceiling := s.cfg.MaxResultsCeiling; ceiling > 0 && delta.MaxResults > ceiling {
		delta.MaxResults = ceiling
	}
	s.params.Merge(delta)

	if !s.params.Complete() {
		s.appendTurn(types.RoleAssistant, clarifyFallback)
		return Reply{Text: clarifyFallback}
	}

	s.state = StateReady
	text := confirmationSummary(s.params)
	s.appendTurn(types.RoleAssistant, text)
	p := s.params
	return Reply{Text: text, ReadyToSearch: true, Parameters: &p}
}

// BeginSearch snapshots the parameters and the current generation for a
// retrieval that will run outside the session lock. ErrNotReady when no
// complete parameter set has been collected.
func (s *Session) BeginSearch() (types.SearchParameters, int, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if !s.params.Complete() {
		return types.SearchParameters{}, 0, ErrNotReady
	}
	return s.params, s.generation, nil
}

// CompleteSearch records the retrieval summary as an assistant turn and
// marks the session searched. It reports false, and writes nothing, when
// the session was reset while the retrieval was in flight: the result
// still belongs to whoever awaited it, but not to the fresh session.
func (s *Session) CompleteSearch(generation int, summary string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	if generation != s.generation {
		return false
	}
	s.state = StateSearched
	s.appendTurn(types.RoleAssistant, summary)
	return true
}

// Reset clears the turn history and parameters and returns the session to
// the collecting state. Advancing the generation detaches any in-flight
// retrieval from the session.
func (s *Session) Reset() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.generation++
	s.state = StateCollecting
	s.turns = nil
	s.params = defaultParams(s.cfg)
}

// appendTurn must be called with the session mutex held.
func (s *Session) appendTurn(role types.Role, text string) {
	s.turns = append(s.turns, types.Turn{Role: role, Text: text, Timestamp: time.Now()})
}

// window returns the most recent turns to replay as extractor context.
// Must be called with the session mutex held.
func (s *Session) window() []types.Turn {
	n := s.cfg.HistoryWindow
	if n <= 0 {
		n = defaultHistoryWindow
	}
	if len(s.turns) <= n {
		return s.turns
	}
	return s.turns[len(s.turns)-n:]
}

// confirmationSummary renders the collected parameters for the user to
// confirm before any catalog request is made.
func confirmationSummary(p types.SearchParameters) string {
	var b strings.Builder
	b.WriteString("Understood. I will search with the following:\n")
	fmt.Fprintf(&b, "- Query: %s\n", p.Query)
	year := p.YearFilter
	if year == "" {
		year = "none"
	}
	fmt.Fprintf(&b, "- Year filter: %s\n", year)
	fmt.Fprintf(&b, "- Max results: %d\n", p.MaxResults)
	b.WriteString("\nRun the search?")
	return b.String()
}
