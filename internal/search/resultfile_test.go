// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package search

import (
	"path/filepath"
	"testing"

	"github.com/muchan23/paper-research-agent/pkg/types"
)

func TestResultFileRoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "results.yaml")

	req := PageRequest{Query: "graph neural networks", YearFilter: ">=2020", Sort: "cited_by_count:desc"}
	res := Result{
		Papers: []types.Paper{
			{ID: "W1", Title: "GNN Survey", Authors: []string{"A", "B"}, PublicationYear: 2021, DOI: "10.1/x"},
		},
		Requested:      25,
		Actual:         1,
		Truncated:      true,
		Warning:        "page budget of 3 exhausted before reaching 25 results",
		PagesFetched:   3,
		TotalAvailable: 812,
	}

	if err := WriteResultFile(path, req, 25, res); err != nil {
		t.Fatalf("WriteResultFile: %v", err)
	}

	rf, err := ReadResultFile(path)
	if err != nil {
		t.Fatalf("ReadResultFile: %v", err)
	}
	if rf.Query.Text != "graph neural networks" || rf.Query.YearFilter != ">=2020" {
		t.Errorf("Query = %+v", rf.Query)
	}
	if rf.Query.MaxResults != 25 {
		t.Errorf("MaxResults = %d, want 25", rf.Query.MaxResults)
	}
	if len(rf.Results) != 1 || rf.Results[0].Title != "GNN Survey" {
		t.Errorf("Results = %+v", rf.Results)
	}
	if rf.Summary.Total != 1 || !rf.Summary.Truncated || rf.Summary.TotalAvailable != 812 {
		t.Errorf("Summary = %+v", rf.Summary)
	}
	if rf.Summary.Timestamp.IsZero() {
		t.Error("Timestamp not set")
	}
}

func TestReadResultFileMissing(t *testing.T) {
	if _, err := ReadResultFile(filepath.Join(t.TempDir(), "nope.yaml")); err == nil {
		t.Error("expected error for missing file")
	}
}
