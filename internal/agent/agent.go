// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package agent wires the dialog, search, and history layers into the
// conversational search flow: collect parameters over turns, confirm,
// retrieve exhaustively, and archive the outcome.
package agent

import (
	"context"
	"fmt"

	"github.com/rs/zerolog"

	"github.com/muchan23/paper-research-agent/internal/dialog"
	"github.com/muchan23/paper-research-agent/internal/history"
	"github.com/muchan23/paper-research-agent/internal/llm"
	"github.com/muchan23/paper-research-agent/internal/search"
	"github.com/muchan23/paper-research-agent/pkg/types"
)

// Agent is the long-lived coordinator behind both the CLI and the HTTP
// API. It is safe for concurrent use; per-session ordering comes from the
// session locks inside the registry.
type Agent struct {
	registry  *dialog.Registry
	extractor *dialog.Extractor
	optimizer *dialog.Optimizer
	catalog   search.Catalog
	hist      *history.Store
	cfg       types.AgentConfig
	log       zerolog.Logger
}

// SearchOutcome bundles a finished retrieval with its rendered summary
// and the id of the archived history record, when archiving succeeded.
type SearchOutcome struct {
	Result    search.Result
	Summary   string
	HistoryID string
}

// New assembles an agent. backend is the raw language-model client; retry
// wrapping happens here. hist may be nil to disable archiving.
func New(cfg types.AgentConfig, backend llm.Backend, cat search.Catalog, hist *history.Store, log zerolog.Logger) *Agent {
	wrapped := llm.WithRetry(backend, cfg.LLM.MaxRetries)
	return &Agent{
		registry:  dialog.NewRegistry(cfg.Dialog),
		extractor: &dialog.Extractor{Backend: wrapped},
		optimizer: &dialog.Optimizer{
			Backend:   wrapped,
			Enabled:   cfg.Dialog.OptimizeQueries,
			Threshold: cfg.Dialog.OptimizeThreshold,
		},
		catalog: cat,
		hist:    hist,
		cfg:     cfg,
		log:     log,
	}
}

// StartOrContinue processes one user message. An empty or unknown
// sessionID starts a new conversation; the returned id identifies the
// session for subsequent calls.
func (a *Agent) StartOrContinue(ctx context.Context, sessionID, message string) (string, dialog.Reply, error) {
	s := a.registry.GetOrCreate(sessionID)
	reply := s.ProcessTurn(ctx, a.extractor, message)
	a.log.Debug().
		Str("session", s.ID()).
		Bool("ready", reply.ReadyToSearch).
		Msg("processed turn")
	return s.ID(), reply, nil
}

// ConfirmSearch runs the retrieval for a session whose parameters are
// complete. The catalog query is the optimized form of the collected
// query; the session keeps the original. Archiving failure degrades to a
// warning on the outcome, never to a failed search.
func (a *Agent) ConfirmSearch(ctx context.Context, sessionID string) (*SearchOutcome, error) {
	s, err := a.registry.Get(sessionID)
	if err != nil {
		return nil, err
	}

	params, generation, err := s.BeginSearch()
	if err != nil {
		return nil, err
	}

	query := a.optimizer.Optimize(ctx, params.Query)
	if query != params.Query {
		a.log.Debug().Str("session", sessionID).Str("optimized", query).Msg("optimized query")
	}

	req := search.PageRequest{
		Query:      query,
		YearFilter: params.YearFilter,
		Sort:       a.cfg.Catalog.Sort,
		PerPage:    a.cfg.Catalog.PageSize,
	}
	res, err := search.Retrieve(ctx, a.catalog, req, params.MaxResults, a.cfg.Retrieval)
	if err != nil {
		a.log.Warn().Err(err).Str("session", sessionID).Msg("retrieval failed")
		return nil, err
	}

	outcome := &SearchOutcome{Result: res, Summary: search.Summary(res)}

	if !s.CompleteSearch(generation, outcome.Summary) {
		a.log.Info().Str("session", sessionID).Msg("session reset during retrieval; result not recorded in session")
	}

	if a.hist != nil {
		id, histErr := a.hist.Record(ctx, history.Entry{
			SessionID:  sessionID,
			Query:      query,
			YearFilter: params.YearFilter,
			Requested:  res.Requested,
			Actual:     res.Actual,
			Truncated:  res.Truncated,
			Warning:    res.Warning,
			Papers:     res.Papers,
		})
		if histErr != nil {
			a.log.Warn().Err(histErr).Msg("history archive failed")
			if outcome.Result.Warning != "" {
				outcome.Result.Warning += "; "
			}
			outcome.Result.Warning += fmt.Sprintf("history archive failed: %v", histErr)
		} else {
			outcome.HistoryID = id
		}
	}

	a.log.Info().
		Str("session", sessionID).
		Int("requested", res.Requested).
		Int("actual", res.Actual).
		Bool("truncated", res.Truncated).
		Int("pages", res.PagesFetched).
		Msg("search complete")
	return outcome, nil
}

// Reset clears a session back to its initial collecting state.
func (a *Agent) Reset(sessionID string) error {
	return a.registry.Reset(sessionID)
}

// Session exposes a session for read access, mainly to the CLI.
func (a *Agent) Session(sessionID string) (*dialog.Session, error) {
	return a.registry.Get(sessionID)
}

// NewSession creates a fresh session and returns its id.
func (a *Agent) NewSession() string {
	return a.registry.Create().ID()
}
