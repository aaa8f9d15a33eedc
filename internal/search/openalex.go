// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package search talks to the scholarly catalog: one page at a time via
// Catalog, and exhaustively with deduplication via Retrieve.
package search

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"sort"
	"strings"

	"github.com/muchan23/paper-research-agent/internal/httputil"
	"github.com/muchan23/paper-research-agent/pkg/types"
)

// openAlexWorksBase is the OpenAlex Works endpoint. Declared as a var so
// tests can substitute an httptest server.
var openAlexWorksBase = "https://api.openalex.org/works"

// PageRequest identifies one page of catalog results. Cursor is empty for
// the first page; later pages carry the cursor the previous page returned.
type PageRequest struct {
	Query      string
	YearFilter string
	Sort       string
	PerPage    int
	Cursor     string
}

// Page is one page of catalog results plus the pagination state needed to
// fetch the next one. NextCursor empty means the result set is exhausted.
type Page struct {
	Items          []types.Paper
	TotalAvailable int
	NextCursor     string
}

// Catalog fetches single pages from a scholarly catalog.
type Catalog interface {
	FetchPage(ctx context.Context, req PageRequest) (Page, error)
}

// OpenAlexClient is the Catalog backed by the OpenAlex Works API.
type OpenAlexClient struct {
	Client *http.Client
	Config types.CatalogConfig
}

// NewOpenAlexClient returns a client with an http.Client built from cfg.
func NewOpenAlexClient(cfg types.CatalogConfig) *OpenAlexClient {
	return &OpenAlexClient{
		Client: &http.Client{Timeout: cfg.Timeout},
		Config: cfg,
	}
}

// FetchPage requests one page of works. Transient failures (throttling,
// upstream 5xx) are retried inside before the error classes in errors.go
// apply: ErrInvalidQuery for rejections, ErrRateLimited when throttling
// outlives the retry budget, ErrUnavailable for everything else.
func (c *OpenAlexClient) FetchPage(ctx context.Context, req PageRequest) (Page, error) {
	query := strings.TrimSpace(req.Query)
	if query == "" {
		return Page{}, fmt.Errorf("%w: empty query", ErrInvalidQuery)
	}

	perPage := req.PerPage
	if perPage <= 0 {
		perPage = c.Config.PageSize
	}
	if max := c.Config.MaxPageSize; max > 0 && perPage > max {
		perPage = max
	}

	cursor := req.Cursor
	if cursor == "" {
		cursor = "*"
	}

	params := url.Values{
		"search":   {query},
		"per_page": {fmt.Sprintf("%d", perPage)},
		"cursor":   {cursor},
	}

	if req.YearFilter != "" {
		years, err := ConvertYearFilter(req.YearFilter)
		if err != nil {
			return Page{}, err
		}
		if years != "" {
			params.Set("filter", "publication_year:"+years)
		}
	}

	sortKey := req.Sort
	if sortKey == "" {
		sortKey = c.Config.Sort
	}
	if sortKey != "" {
		params.Set("sort", sortKey)
	}

	if c.Config.Email != "" {
		params.Set("mailto", c.Config.Email)
	}

	reqURL := openAlexWorksBase + "?" + params.Encode()
	httpReq, err := http.NewRequestWithContext(ctx, http.MethodGet, reqURL, nil)
	if err != nil {
		return Page{}, fmt.Errorf("creating request: %w", err)
	}
	httpReq.Header.Set("User-Agent", c.Config.UserAgent)

	resp, err := httputil.DoWithRetry(ctx, c.Client, httpReq, c.Config.MaxRetries)
	if err != nil {
		return Page{}, fmt.Errorf("%w: %v", ErrUnavailable, err)
	}
	defer resp.Body.Close()

	switch {
	case resp.StatusCode == http.StatusOK:
		// Fall through to decoding.
	case resp.StatusCode == http.StatusTooManyRequests:
		return Page{}, &rateLimitExhausted{status: resp.StatusCode}
	case resp.StatusCode == http.StatusBadRequest || resp.StatusCode == http.StatusForbidden:
		return Page{}, fmt.Errorf("%w: HTTP %d", ErrInvalidQuery, resp.StatusCode)
	default:
		return Page{}, fmt.Errorf("%w: HTTP %d", ErrUnavailable, resp.StatusCode)
	}

	var oar openAlexResponse
	if err := json.NewDecoder(resp.Body).Decode(&oar); err != nil {
		return Page{}, fmt.Errorf("%w: parsing response: %v", ErrUnavailable, err)
	}

	page := Page{
		TotalAvailable: oar.Meta.Count,
		NextCursor:     oar.Meta.NextCursor,
	}
	for _, work := range oar.Results {
		page.Items = append(page.Items, work.toPaper())
	}
	return page, nil
}

// toPaper converts one OpenAlex work record to the internal paper shape.
func (w openAlexWork) toPaper() types.Paper {
	p := types.Paper{
		ID:              w.ID,
		Title:           w.Title,
		PublicationYear: w.PublicationYear,
		PublicationDate: w.PublicationDate,
		Abstract:        reconstructAbstract(w.AbstractInvertedIndex),
		CitationCount:   w.CitedByCount,
		OpenAccess:      w.OpenAccess.IsOA,
		PDFURL:          w.OpenAccess.OAURL,
	}

	// OpenAlex reports the DOI as a full URL; keep the bare DOI.
	if w.DOI != "" {
		p.DOI = strings.TrimPrefix(w.DOI, "https://doi.org/")
	}
	if w.PrimaryLocation.LandingPageURL != "" {
		p.LandingPageURL = w.PrimaryLocation.LandingPageURL
	}
	for _, authorship := range w.Authorships {
		if authorship.Author.DisplayName != "" {
			p.Authors = append(p.Authors, authorship.Author.DisplayName)
		}
	}
	return p
}

// reconstructAbstract converts OpenAlex's abstract_inverted_index back to
// plain text. The inverted index maps each word to the positions where it
// appears.
func reconstructAbstract(invertedIndex map[string][]int) string {
	if len(invertedIndex) == 0 {
		return ""
	}

	type posWord struct {
		pos  int
		word string
	}
	var pairs []posWord
	for word, positions := range invertedIndex {
		for _, pos := range positions {
			pairs = append(pairs, posWord{pos: pos, word: word})
		}
	}

	sort.Slice(pairs, func(i, j int) bool {
		return pairs[i].pos < pairs[j].pos
	})

	words := make([]string, len(pairs))
	for i, p := range pairs {
		words[i] = p.word
	}
	return strings.Join(words, " ")
}

// OpenAlex API JSON structures.
type openAlexResponse struct {
	Meta    openAlexMeta   `json:"meta"`
	Results []openAlexWork `json:"results"`
}

type openAlexMeta struct {
	Count      int    `json:"count"`
	PerPage    int    `json:"per_page"`
	NextCursor string `json:"next_cursor"`
}

type openAlexWork struct {
	ID                    string               `json:"id"`
	Title                 string               `json:"title"`
	DOI                   string               `json:"doi"`
	PublicationDate      string               `json:"publication_date"`
	PublicationYear      int                  `json:"publication_year"`
	CitedByCount         int                  `json:"cited_by_count"`
	Authorships          []openAlexAuthorship `json:"authorships"`
	AbstractInvertedIndex map[string][]int    `json:"abstract_inverted_index"`
	OpenAccess           openAlexOpenAccess   `json:"open_access"`
	PrimaryLocation      openAlexLocation     `json:"primary_location"`
}

type openAlexAuthorship struct {
	Author openAlexAuthor `json:"author"`
}

type openAlexAuthor struct {
	ID          string `json:"id"`
	DisplayName string `json:"display_name"`
}

type openAlexOpenAccess struct {
	IsOA     bool   `json:"is_oa"`
	OAStatus string `json:"oa_status"`
	OAURL    string `json:"oa_url"`
}

type openAlexLocation struct {
	LandingPageURL string `json:"landing_page_url"`
}
