// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package search

import (
	"context"
	"fmt"

	"github.com/muchan23/paper-research-agent/pkg/types"
)

// Result is the outcome of an exhaustive retrieval.
type Result struct {
	// Papers are the deduplicated results in first-seen catalog order.
	Papers []types.Paper `json:"papers"`

	// Requested is the caller's max-results target.
	Requested int `json:"requested"`

	// Actual is len(Papers).
	Actual int `json:"actual"`

	// Truncated reports that the catalog had more matching works than
	// were returned. False when the result set was exhausted, even if
	// fewer papers than requested came back.
	Truncated bool `json:"truncated"`

	// Warning is non-empty when the retrieval stopped early but still
	// returned usable results, e.g. a page failure mid-run.
	Warning string `json:"warning,omitempty"`

	// PagesFetched counts successful page fetches.
	PagesFetched int `json:"pages_fetched"`

	// TotalAvailable is the catalog's count of matching works, from the
	// first page's metadata.
	TotalAvailable int `json:"total_available"`
}

// Retrieve pages through the catalog until maxResults unique papers are
// collected, the result set is exhausted, or the page budget runs out.
// Duplicate IDs across pages are dropped; the first occurrence wins and
// order follows the catalog.
//
// A failure on the first page is a failure of the whole retrieval. A
// failure on a later page degrades to a partial result with a Warning:
// the papers already fetched are worth returning.
func Retrieve(ctx context.Context, cat Catalog, req PageRequest, maxResults int, cfg types.RetrievalConfig) (Result, error) {
	if maxResults <= 0 {
		maxResults = 25
	}
	perPage := req.PerPage
	if perPage <= 0 {
		perPage = maxResults
	}

	// Page budget: the pages the count arithmetic says we need, plus
	// slack for pages thinned out by deduplication.
	budget := cfg.MaxPages
	if budget <= 0 {
		budget = (maxResults+perPage-1)/perPage + 2
	}

	res := Result{Requested: maxResults}
	seen := make(map[string]bool)
	cursor := ""

	for res.PagesFetched < budget {
		pageReq := req
		pageReq.PerPage = perPage
		pageReq.Cursor = cursor

		page, err := cat.FetchPage(ctx, pageReq)
		if err != nil {
			if res.PagesFetched == 0 {
				return Result{Requested: maxResults}, err
			}
			res.Warning = fmt.Sprintf("retrieval stopped after %d pages: %v", res.PagesFetched, err)
			res.Truncated = true
			res.Actual = len(res.Papers)
			return res, nil
		}
		res.PagesFetched++
		if res.PagesFetched == 1 {
			res.TotalAvailable = page.TotalAvailable
		}

		for i, paper := range page.Items {
			if paper.ID == "" || seen[paper.ID] {
				continue
			}
			seen[paper.ID] = true
			res.Papers = append(res.Papers, paper)
			if len(res.Papers) == maxResults {
				// More matches remain if this page still has unseen
				// items or the catalog offers another page.
				res.Truncated = i < len(page.Items)-1 || page.NextCursor != ""
				res.Actual = len(res.Papers)
				return res, nil
			}
		}

		if page.NextCursor == "" {
			// Result set exhausted; whatever we have is everything.
			res.Actual = len(res.Papers)
			return res, nil
		}
		cursor = page.NextCursor

		if err := ctx.Err(); err != nil {
			if res.PagesFetched == 0 || len(res.Papers) == 0 {
				return Result{Requested: maxResults}, fmt.Errorf("%w: %v", ErrUnavailable, err)
			}
			res.Warning = fmt.Sprintf("retrieval cancelled after %d pages", res.PagesFetched)
			res.Truncated = true
			res.Actual = len(res.Papers)
			return res, nil
		}
	}

	// Page budget exhausted with the catalog still offering more.
	res.Truncated = true
	res.Warning = fmt.Sprintf("page budget of %d exhausted before reaching %d results", budget, maxResults)
	res.Actual = len(res.Papers)
	return res, nil
}
