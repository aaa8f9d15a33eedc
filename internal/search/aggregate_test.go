// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package search

import (
	"context"
	"errors"
	"fmt"
	"testing"

	"github.com/muchan23/paper-research-agent/pkg/types"
)

// fakeCatalog serves a fixed sequence of pages or errors, keyed by call
// order.
type fakeCatalog struct {
	pages []Page
	errs  []error
	calls int
	reqs  []PageRequest
}

func (f *fakeCatalog) FetchPage(_ context.Context, req PageRequest) (Page, error) {
	f.reqs = append(f.reqs, req)
	i := f.calls
	f.calls++
	if i < len(f.errs) && f.errs[i] != nil {
		return Page{}, f.errs[i]
	}
	if i < len(f.pages) {
		return f.pages[i], nil
	}
	return Page{}, errors.New("no more scripted pages")
}

func papersN(prefix string, n int) []types.Paper {
	out := make([]types.Paper, n)
	for i := range out {
		out[i] = types.Paper{
			ID:    fmt.Sprintf("%s%d", prefix, i),
			Title: fmt.Sprintf("Paper %s%d", prefix, i),
		}
	}
	return out
}

func TestRetrieveSinglePageEnough(t *testing.T) {
	cat := &fakeCatalog{pages: []Page{
		{Items: papersN("W", 25), TotalAvailable: 25, NextCursor: ""},
	}}

	res, err := Retrieve(context.Background(), cat, PageRequest{Query: "x", PerPage: 25}, 25, types.RetrievalConfig{})
	if err != nil {
		t.Fatalf("Retrieve: %v", err)
	}
	if res.Actual != 25 || len(res.Papers) != 25 {
		t.Errorf("Actual = %d, len = %d, want 25", res.Actual, len(res.Papers))
	}
	if res.Truncated {
		t.Error("Truncated = true, want false: the page ended exactly at the target with no next cursor")
	}
	if res.PagesFetched != 1 {
		t.Errorf("PagesFetched = %d, want 1", res.PagesFetched)
	}
}

func TestRetrieveExhaustedBelowTarget(t *testing.T) {
	cat := &fakeCatalog{pages: []Page{
		{Items: papersN("W", 10), TotalAvailable: 10, NextCursor: ""},
	}}

	res, err := Retrieve(context.Background(), cat, PageRequest{Query: "x", PerPage: 25}, 25, types.RetrievalConfig{})
	if err != nil {
		t.Fatalf("Retrieve: %v", err)
	}
	if res.Actual != 10 {
		t.Errorf("Actual = %d, want 10", res.Actual)
	}
	// Ten of a requested twenty-five is everything there was, not a
	// truncation.
	if res.Truncated {
		t.Error("Truncated = true, want false when the result set is exhausted")
	}
	if res.Warning != "" {
		t.Errorf("Warning = %q, want empty", res.Warning)
	}
}

func TestRetrieveTruncatedAtTarget(t *testing.T) {
	cat := &fakeCatalog{pages: []Page{
		{Items: papersN("W", 25), TotalAvailable: 500, NextCursor: "next-1"},
	}}

	res, err := Retrieve(context.Background(), cat, PageRequest{Query: "x", PerPage: 25}, 25, types.RetrievalConfig{})
	if err != nil {
		t.Fatalf("Retrieve: %v", err)
	}
	if res.Actual != 25 {
		t.Errorf("Actual = %d, want 25", res.Actual)
	}
	if !res.Truncated {
		t.Error("Truncated = false, want true: 475 matching works were left behind")
	}
	if res.TotalAvailable != 500 {
		t.Errorf("TotalAvailable = %d, want 500", res.TotalAvailable)
	}
}

func TestRetrievePagesUntilTarget(t *testing.T) {
	cat := &fakeCatalog{pages: []Page{
		{Items: papersN("A", 25), TotalAvailable: 60, NextCursor: "c1"},
		{Items: papersN("B", 25), TotalAvailable: 60, NextCursor: "c2"},
		{Items: papersN("C", 25), TotalAvailable: 60, NextCursor: "c3"},
	}}

	res, err := Retrieve(context.Background(), cat, PageRequest{Query: "x", PerPage: 25}, 60, types.RetrievalConfig{})
	if err != nil {
		t.Fatalf("Retrieve: %v", err)
	}
	if res.Actual != 60 {
		t.Errorf("Actual = %d, want 60", res.Actual)
	}
	if res.PagesFetched != 3 {
		t.Errorf("PagesFetched = %d, want 3", res.PagesFetched)
	}
	// First page starts fresh; later pages carry the returned cursors.
	if cat.reqs[0].Cursor != "" || cat.reqs[1].Cursor != "c1" || cat.reqs[2].Cursor != "c2" {
		t.Errorf("cursors = %q, %q, %q", cat.reqs[0].Cursor, cat.reqs[1].Cursor, cat.reqs[2].Cursor)
	}
	if !res.Truncated {
		t.Error("Truncated = false, want true: page 3 still had unseen items and a cursor")
	}
}

func TestRetrieveDeduplicatesAcrossPages(t *testing.T) {
	shared := types.Paper{ID: "W123", Title: "Seen twice"}
	cat := &fakeCatalog{pages: []Page{
		{Items: append(papersN("A", 4), shared), TotalAvailable: 10, NextCursor: "c1"},
		{Items: append([]types.Paper{shared}, papersN("B", 4)...), TotalAvailable: 10, NextCursor: ""},
	}}

	res, err := Retrieve(context.Background(), cat, PageRequest{Query: "x", PerPage: 5}, 25, types.RetrievalConfig{})
	if err != nil {
		t.Fatalf("Retrieve: %v", err)
	}
	if res.Actual != 9 {
		t.Errorf("Actual = %d, want 9 after dropping the duplicate", res.Actual)
	}
	seen := map[string]int{}
	for _, p := range res.Papers {
		seen[p.ID]++
	}
	if seen["W123"] != 1 {
		t.Errorf("W123 appeared %d times, want 1", seen["W123"])
	}
	// First occurrence keeps its position.
	if res.Papers[4].ID != "W123" {
		t.Errorf("Papers[4].ID = %q, want W123", res.Papers[4].ID)
	}
}

func TestRetrieveSkipsEmptyIDs(t *testing.T) {
	cat := &fakeCatalog{pages: []Page{
		{Items: []types.Paper{{ID: "", Title: "no id"}, {ID: "W1", Title: "ok"}}, TotalAvailable: 2},
	}}

	res, err := Retrieve(context.Background(), cat, PageRequest{Query: "x", PerPage: 5}, 25, types.RetrievalConfig{})
	if err != nil {
		t.Fatalf("Retrieve: %v", err)
	}
	if res.Actual != 1 || res.Papers[0].ID != "W1" {
		t.Errorf("Papers = %v, want only W1", res.Papers)
	}
}

func TestRetrieveFirstPageFailurePropagates(t *testing.T) {
	cat := &fakeCatalog{errs: []error{fmt.Errorf("%w: HTTP 500", ErrUnavailable)}}

	_, err := Retrieve(context.Background(), cat, PageRequest{Query: "x", PerPage: 25}, 25, types.RetrievalConfig{})
	if !errors.Is(err, ErrUnavailable) {
		t.Errorf("err = %v, want ErrUnavailable", err)
	}
}

func TestRetrieveLaterPageFailureIsPartial(t *testing.T) {
	cat := &fakeCatalog{
		pages: []Page{
			{Items: papersN("A", 25), TotalAvailable: 100, NextCursor: "c1"},
			{Items: papersN("B", 25), TotalAvailable: 100, NextCursor: "c2"},
		},
		errs: []error{nil, nil, fmt.Errorf("%w: HTTP 503", ErrUnavailable)},
	}

	res, err := Retrieve(context.Background(), cat, PageRequest{Query: "x", PerPage: 25}, 100, types.RetrievalConfig{})
	if err != nil {
		t.Fatalf("Retrieve: %v, want partial success", err)
	}
	if res.Actual != 50 {
		t.Errorf("Actual = %d, want 50", res.Actual)
	}
	if res.Warning == "" {
		t.Error("Warning empty, want note about the stopped retrieval")
	}
	if !res.Truncated {
		t.Error("Truncated = false, want true")
	}
}

func TestRetrievePageBudget(t *testing.T) {
	// Every page is full of duplicates of page one, so the target is
	// never reached and the budget has to stop the loop.
	page := Page{Items: papersN("A", 25), TotalAvailable: 1000, NextCursor: "again"}
	cat := &fakeCatalog{pages: []Page{page, page, page, page, page, page, page, page}}

	res, err := Retrieve(context.Background(), cat, PageRequest{Query: "x", PerPage: 25}, 100, types.RetrievalConfig{})
	if err != nil {
		t.Fatalf("Retrieve: %v", err)
	}
	// ceil(100/25)+2 = 6 pages.
	if res.PagesFetched != 6 {
		t.Errorf("PagesFetched = %d, want 6", res.PagesFetched)
	}
	if res.Actual != 25 {
		t.Errorf("Actual = %d, want 25 unique papers", res.Actual)
	}
	if !res.Truncated || res.Warning == "" {
		t.Errorf("Truncated = %v, Warning = %q; want truncation with warning", res.Truncated, res.Warning)
	}
}

func TestRetrieveConfiguredPageCap(t *testing.T) {
	page := Page{Items: papersN("A", 25), TotalAvailable: 1000, NextCursor: "again"}
	cat := &fakeCatalog{pages: []Page{page, page, page}}

	res, err := Retrieve(context.Background(), cat, PageRequest{Query: "x", PerPage: 25}, 100, types.RetrievalConfig{MaxPages: 2})
	if err != nil {
		t.Fatalf("Retrieve: %v", err)
	}
	if res.PagesFetched != 2 {
		t.Errorf("PagesFetched = %d, want 2", res.PagesFetched)
	}
}
