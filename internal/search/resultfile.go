// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package search

import (
	"fmt"
	"os"
	"time"

	"go.yaml.in/yaml/v3"

	"github.com/muchan23/paper-research-agent/pkg/types"
)

// ResultFile is the on-disk representation of a search and its results.
// A search can be saved to a file and reloaded later without re-querying
// the catalog.
type ResultFile struct {
	Query   ResultFileQuery   `yaml:"query"`
	Results []types.Paper     `yaml:"results"`
	Summary ResultFileSummary `yaml:"summary"`
}

// ResultFileQuery stores the parameters that produced the results.
type ResultFileQuery struct {
	Text       string `yaml:"text"`
	YearFilter string `yaml:"year_filter,omitempty"`
	MaxResults int    `yaml:"max_results"`
	Sort       string `yaml:"sort,omitempty"`
}

// ResultFileSummary stores result statistics and a timestamp.
type ResultFileSummary struct {
	Total          int       `yaml:"total"`
	TotalAvailable int       `yaml:"total_available"`
	Truncated      bool      `yaml:"truncated"`
	Warning        string    `yaml:"warning,omitempty"`
	PagesFetched   int       `yaml:"pages_fetched"`
	Timestamp      time.Time `yaml:"timestamp"`
}

// WriteResultFile saves a retrieval and the request that produced it as a
// YAML file.
func WriteResultFile(path string, req PageRequest, maxResults int, res Result) error {
	rf := ResultFile{
		Query: ResultFileQuery{
			Text:       req.Query,
			YearFilter: req.YearFilter,
			MaxResults: maxResults,
			Sort:       req.Sort,
		},
		Results: res.Papers,
		Summary: ResultFileSummary{
			Total:          res.Actual,
			TotalAvailable: res.TotalAvailable,
			Truncated:      res.Truncated,
			Warning:        res.Warning,
			PagesFetched:   res.PagesFetched,
			Timestamp:      time.Now(),
		},
	}

	data, err := yaml.Marshal(&rf)
	if err != nil {
		return fmt.Errorf("marshaling result file: %w", err)
	}
	return os.WriteFile(path, data, 0o644)
}

// ReadResultFile loads a previously saved result file from disk.
func ReadResultFile(path string) (*ResultFile, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading result file: %w", err)
	}
	var rf ResultFile
	if err := yaml.Unmarshal(data, &rf); err != nil {
		return nil, fmt.Errorf("parsing result file: %w", err)
	}
	return &rf, nil
}
